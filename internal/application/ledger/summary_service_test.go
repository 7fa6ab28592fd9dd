package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hoseline/backend/internal/domain/ledger"
)

func TestSummaryService_Summarize(t *testing.T) {
	t.Run("aggregates counts, coverage and customers", func(t *testing.T) {
		repo := new(MockAssemblyRepository)
		service := NewSummaryService(repo)

		full := ledger.Adds{1, 2, 3, 4, 5, 6, 7}
		indexes := []ledger.AssemblyIndex{
			{Item: 5, Description: "assy five", Customer: "ACME", Adds: full, Approval: ledger.ApprovalApproved},
			{Item: 4, Description: "assy four", Customer: "ACME", Adds: ledger.Adds{12, 0, 0, 0, 0, 0, 9}, Approval: ledger.ApprovalPending},
			{Item: 3, Description: "assy three", Customer: "Borealis", Adds: ledger.Adds{}, Approval: ledger.ApprovalRejected},
			{Item: 2, Description: "assy two", Customer: "", Adds: ledger.Adds{8, 0, 0, 0, 0, 0, 0}, Approval: ledger.ApprovalPending},
		}
		repo.On("AllIndexes", mock.Anything).Return(indexes, nil)

		resp, err := service.Summarize(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.TotalAssemblies)
		assert.Equal(t, int64(3), resp.WithModules)
		assert.Equal(t, int64(1), resp.Completed)
		assert.InDelta(t, 2.5, resp.AverageLinkedSlots, 1e-9)

		require.Len(t, resp.Coverage, ledger.SlotCount)
		assert.Equal(t, "hose", resp.Coverage[0].Kind)
		assert.Equal(t, int64(3), resp.Coverage[0].Linked)
		assert.InDelta(t, 75.0, resp.Coverage[0].Percent, 1e-9)
		assert.Equal(t, "sleeve", resp.Coverage[1].Kind)
		assert.Equal(t, int64(1), resp.Coverage[1].Linked)

		// Blank customers never rank
		require.Len(t, resp.TopCustomers, 2)
		assert.Equal(t, "ACME", resp.TopCustomers[0].Customer)
		assert.Equal(t, int64(2), resp.TopCustomers[0].Count)
		assert.Equal(t, "Borealis", resp.TopCustomers[1].Customer)

		require.Len(t, resp.Recent, 4)
		assert.Equal(t, 5, resp.Recent[0].Item)
		assert.Equal(t, "approved", resp.Recent[0].Approval)
		assert.True(t, resp.Recent[0].Linked["packaging"])
		assert.False(t, resp.Recent[1].Linked["sleeve"])
	})

	t.Run("empty ledger yields zeroes, not division errors", func(t *testing.T) {
		repo := new(MockAssemblyRepository)
		service := NewSummaryService(repo)

		repo.On("AllIndexes", mock.Anything).Return([]ledger.AssemblyIndex{}, nil)

		resp, err := service.Summarize(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.TotalAssemblies)
		assert.Zero(t, resp.AverageLinkedSlots)
		require.Len(t, resp.Coverage, ledger.SlotCount)
		assert.Zero(t, resp.Coverage[0].Percent)
		assert.Empty(t, resp.Recent)
		assert.Empty(t, resp.TopCustomers)
	})

	t.Run("recent list caps at ten rows", func(t *testing.T) {
		repo := new(MockAssemblyRepository)
		service := NewSummaryService(repo)

		indexes := make([]ledger.AssemblyIndex, 0, 15)
		for item := 15; item >= 1; item-- {
			indexes = append(indexes, ledger.AssemblyIndex{
				Item:     item,
				Approval: ledger.ApprovalPending,
			})
		}
		repo.On("AllIndexes", mock.Anything).Return(indexes, nil)

		resp, err := service.Summarize(context.Background())

		require.NoError(t, err)
		require.Len(t, resp.Recent, 10)
		assert.Equal(t, 15, resp.Recent[0].Item)
		assert.Equal(t, 6, resp.Recent[9].Item)
	})

	t.Run("top customers cap at five", func(t *testing.T) {
		repo := new(MockAssemblyRepository)
		service := NewSummaryService(repo)

		customers := []string{"A", "B", "C", "D", "E", "F", "G"}
		indexes := make([]ledger.AssemblyIndex, 0, len(customers)+1)
		for i, c := range customers {
			indexes = append(indexes, ledger.AssemblyIndex{Item: i + 1, Customer: c})
		}
		// Tip one customer over the rest
		indexes = append(indexes, ledger.AssemblyIndex{Item: 100, Customer: "G"})
		repo.On("AllIndexes", mock.Anything).Return(indexes, nil)

		resp, err := service.Summarize(context.Background())

		require.NoError(t, err)
		require.Len(t, resp.TopCustomers, 5)
		assert.Equal(t, "G", resp.TopCustomers[0].Customer)
		assert.Equal(t, int64(2), resp.TopCustomers[0].Count)
		assert.Equal(t, "A", resp.TopCustomers[1].Customer)
	})
}
