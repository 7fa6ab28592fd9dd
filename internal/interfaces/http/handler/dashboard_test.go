package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ledgerapp "github.com/hoseline/backend/internal/application/ledger"
	"github.com/hoseline/backend/internal/domain/ledger"
	"github.com/hoseline/backend/internal/interfaces/http/dto"
)

func TestDashboardHandlerSummary(t *testing.T) {
	var linked ledger.Adds
	linked = linked.Set(ledger.SlotHose, 301)
	linked = linked.Set(ledger.SlotPackaging, 88)

	indexes := []ledger.AssemblyIndex{
		{Item: 2, Description: "Return line", Customer: "ACME Hydraulics", Adds: linked, Approval: ledger.ApprovalApproved},
		{Item: 1, Description: "Suction hose", Customer: "Borealis Marine", Approval: ledger.ApprovalPending},
	}

	repo := new(MockAssemblyRepository)
	repo.On("AllIndexes", mock.Anything).Return(indexes, nil)

	h := NewDashboardHandler(ledgerapp.NewSummaryService(repo))
	router := gin.New()
	router.GET("/dashboard/summary", h.Summary)

	req := httptest.NewRequest("GET", "/dashboard/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["total_assemblies"])
	assert.Equal(t, float64(1), data["with_modules"])

	recent := data["recent"].([]interface{})
	require.Len(t, recent, 2)
	first := recent[0].(map[string]interface{})
	assert.Equal(t, float64(2), first["item"])
	assert.Equal(t, "approved", first["approval"])
}

func TestDashboardHandlerSummaryError(t *testing.T) {
	repo := new(MockAssemblyRepository)
	repo.On("AllIndexes", mock.Anything).Return(nil, assert.AnError)

	h := NewDashboardHandler(ledgerapp.NewSummaryService(repo))
	router := gin.New()
	router.GET("/dashboard/summary", h.Summary)

	req := httptest.NewRequest("GET", "/dashboard/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
