package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ledgerapp "github.com/hoseline/backend/internal/application/ledger"
	"github.com/hoseline/backend/internal/domain/ledger"
	"github.com/hoseline/backend/internal/domain/shared"
	"github.com/hoseline/backend/internal/interfaces/http/dto"
)

// MockAssemblyRepository implements ledger.AssemblyRepository for testing
type MockAssemblyRepository struct {
	mock.Mock
}

func (m *MockAssemblyRepository) FindByItem(ctx context.Context, item int) (*ledger.Assembly, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Assembly), args.Error(1)
}

func (m *MockAssemblyRepository) FindRecent(ctx context.Context, filter shared.Filter) (shared.Paginated[ledger.Assembly], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[ledger.Assembly]), args.Error(1)
}

func (m *MockAssemblyRepository) AllIndexes(ctx context.Context) ([]ledger.AssemblyIndex, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.AssemblyIndex), args.Error(1)
}

func (m *MockAssemblyRepository) NextItem(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAssemblyRepository) Create(ctx context.Context, assembly *ledger.Assembly) error {
	args := m.Called(ctx, assembly)
	return args.Error(0)
}

func (m *MockAssemblyRepository) Update(ctx context.Context, assembly *ledger.Assembly) error {
	args := m.Called(ctx, assembly)
	return args.Error(0)
}

func (m *MockAssemblyRepository) Decide(ctx context.Context, item int, approved bool, decidedBy uuid.UUID) (*ledger.Assembly, error) {
	args := m.Called(ctx, item, approved, decidedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Assembly), args.Error(1)
}

func (m *MockAssemblyRepository) Delete(ctx context.Context, item int, dryRun bool) (*ledger.DeletionReport, error) {
	args := m.Called(ctx, item, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.DeletionReport), args.Error(1)
}

func storedAssembly(item int) *ledger.Assembly {
	now := time.Now()
	return &ledger.Assembly{
		Item:        item,
		Description: "1/2in hydraulic return line",
		Customer:    "ACME Hydraulics",
		NCI:         "NCI-100",
		CustomerRev: "B",
		Approval:    ledger.Approval{Status: ledger.ApprovalPending},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newAssemblyRouter(repo *MockAssemblyRepository) *gin.Engine {
	h := NewAssemblyHandler(ledgerapp.NewAssemblyService(repo))

	router := gin.New()
	router.POST("/assemblies", h.Create)
	router.GET("/assemblies", h.List)
	router.GET("/assemblies/next-item", h.NextItem)
	router.GET("/assemblies/:item", h.Get)
	router.PUT("/assemblies/:item", h.Update)
	router.DELETE("/assemblies/:item", h.Delete)
	return router
}

func TestAssemblyHandlerCreate(t *testing.T) {
	repo := new(MockAssemblyRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*ledger.Assembly")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*ledger.Assembly).Item = 77
		}).
		Return(nil)

	router := newAssemblyRouter(repo)

	body, _ := json.Marshal(map[string]string{
		"description": "3/4in suction hose",
		"customer":    "Borealis Marine",
	})
	req := httptest.NewRequest("POST", "/assemblies", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(77), data["item"])
	assert.Equal(t, "3/4in suction hose", data["description"])

	approval := data["approval"].(map[string]interface{})
	assert.Equal(t, "pending", approval["status"])

	repo.AssertExpectations(t)
}

func TestAssemblyHandlerCreateMissingDescription(t *testing.T) {
	repo := new(MockAssemblyRepository)
	router := newAssemblyRouter(repo)

	body, _ := json.Marshal(map[string]string{"customer": "ACME"})
	req := httptest.NewRequest("POST", "/assemblies", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssemblyHandlerGet(t *testing.T) {
	assembly := storedAssembly(12)
	require.NoError(t, assembly.Link(ledger.SlotHose, 301))

	repo := new(MockAssemblyRepository)
	repo.On("FindByItem", mock.Anything, 12).Return(assembly, nil)

	router := newAssemblyRouter(repo)

	req := httptest.NewRequest("GET", "/assemblies/12", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	modules := data["modules"].(map[string]interface{})
	assert.Equal(t, float64(301), modules["hose"])
	assert.Equal(t, float64(0), modules["sleeve"])
}

func TestAssemblyHandlerGetNotFound(t *testing.T) {
	repo := new(MockAssemblyRepository)
	repo.On("FindByItem", mock.Anything, 99).
		Return(nil, shared.NewDomainError("NOT_FOUND", "Assembly 99 not found"))

	router := newAssemblyRouter(repo)

	req := httptest.NewRequest("GET", "/assemblies/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestAssemblyHandlerGetBadItem(t *testing.T) {
	repo := new(MockAssemblyRepository)
	router := newAssemblyRouter(repo)

	for _, path := range []string{"/assemblies/abc", "/assemblies/-4"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	repo.AssertNotCalled(t, "FindByItem", mock.Anything, mock.Anything)
}

func TestAssemblyHandlerList(t *testing.T) {
	items := []ledger.Assembly{*storedAssembly(2), *storedAssembly(1)}

	repo := new(MockAssemblyRepository)
	repo.On("FindRecent", mock.Anything, mock.AnythingOfType("shared.Filter")).
		Return(shared.NewPaginated(items, 7, 1, 2), nil)

	router := newAssemblyRouter(repo)

	req := httptest.NewRequest("GET", "/assemblies?page=1&page_size=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(7), resp.Meta.Total)
	assert.Equal(t, 4, resp.Meta.TotalPages)

	data := resp.Data.([]interface{})
	assert.Len(t, data, 2)
}

func TestAssemblyHandlerNextItem(t *testing.T) {
	repo := new(MockAssemblyRepository)
	repo.On("NextItem", mock.Anything).Return(43, nil)

	router := newAssemblyRouter(repo)

	req := httptest.NewRequest("GET", "/assemblies/next-item", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(43), data["next_item"])
}

func TestAssemblyHandlerUpdate(t *testing.T) {
	repo := new(MockAssemblyRepository)
	repo.On("FindByItem", mock.Anything, 12).Return(storedAssembly(12), nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*ledger.Assembly")).Return(nil)

	router := newAssemblyRouter(repo)

	body, _ := json.Marshal(map[string]string{
		"description":  "Revised return line",
		"customer":     "ACME Hydraulics",
		"customer_rev": "C",
	})
	req := httptest.NewRequest("PUT", "/assemblies/12", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Revised return line", data["description"])
	assert.Equal(t, "C", data["customer_rev"])

	repo.AssertExpectations(t)
}

func TestAssemblyHandlerDecide(t *testing.T) {
	userID := uuid.New()

	decided := storedAssembly(12)
	require.NoError(t, decided.Decide(true, userID))

	repo := new(MockAssemblyRepository)
	repo.On("Decide", mock.Anything, 12, true, userID).Return(decided, nil)

	h := NewAssemblyHandler(ledgerapp.NewAssemblyService(repo))
	router := gin.New()
	router.POST("/assemblies/:item/decision", func(c *gin.Context) {
		setAuthenticatedUser(c, userID)
		h.Decide(c)
	})

	body, _ := json.Marshal(map[string]bool{"approved": true})
	req := httptest.NewRequest("POST", "/assemblies/12/decision", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	approval := data["approval"].(map[string]interface{})
	assert.Equal(t, "approved", approval["status"])
	assert.Equal(t, userID.String(), approval["decided_by"])

	repo.AssertExpectations(t)
}

func TestAssemblyHandlerDecideUnauthenticated(t *testing.T) {
	repo := new(MockAssemblyRepository)
	router := newAssemblyRouterWithDecision(repo)

	body, _ := json.Marshal(map[string]bool{"approved": false})
	req := httptest.NewRequest("POST", "/assemblies/12/decision", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	repo.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssemblyHandlerDecideAlreadyDecided(t *testing.T) {
	assembly := storedAssembly(12)
	require.NoError(t, assembly.Decide(false, uuid.New()))

	userID := uuid.New()
	latchErr := assembly.Decide(true, userID)
	require.Error(t, latchErr)

	repo := new(MockAssemblyRepository)
	repo.On("Decide", mock.Anything, 12, true, userID).Return(nil, latchErr)

	h := NewAssemblyHandler(ledgerapp.NewAssemblyService(repo))
	router := gin.New()
	router.POST("/assemblies/:item/decision", func(c *gin.Context) {
		setAuthenticatedUser(c, userID)
		h.Decide(c)
	})

	body, _ := json.Marshal(map[string]bool{"approved": true})
	req := httptest.NewRequest("POST", "/assemblies/12/decision", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeAlreadyDecided, resp.Error.Code)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func newAssemblyRouterWithDecision(repo *MockAssemblyRepository) *gin.Engine {
	h := NewAssemblyHandler(ledgerapp.NewAssemblyService(repo))
	router := gin.New()
	router.POST("/assemblies/:item/decision", h.Decide)
	return router
}

func TestAssemblyHandlerDelete(t *testing.T) {
	report := &ledger.DeletionReport{
		Item:   12,
		DryRun: false,
		ModuleCounts: map[ledger.ModuleKind]int64{
			ledger.KindHose: 1,
		},
		AssemblyRows: 1,
	}

	repo := new(MockAssemblyRepository)
	repo.On("Delete", mock.Anything, 12, false).Return(report, nil)

	router := newAssemblyRouter(repo)

	req := httptest.NewRequest("DELETE", "/assemblies/12", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, false, data["dry_run"])
	assert.Equal(t, float64(2), data["total_rows"])
}

func TestAssemblyHandlerDeleteDryRun(t *testing.T) {
	report := &ledger.DeletionReport{Item: 12, DryRun: true, AssemblyRows: 1}

	repo := new(MockAssemblyRepository)
	repo.On("Delete", mock.Anything, 12, true).Return(report, nil)

	router := newAssemblyRouter(repo)

	req := httptest.NewRequest("DELETE", "/assemblies/12?dry_run=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["dry_run"])

	repo.AssertExpectations(t)
}
