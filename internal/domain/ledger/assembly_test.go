package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoseline/backend/internal/domain/shared"
)

func TestNewAssembly(t *testing.T) {
	t.Run("valid assembly starts pending and unlinked", func(t *testing.T) {
		a, err := NewAssembly("1/2in 2-wire 3.5m", "ACME", "NCI-100", "B")
		require.NoError(t, err)
		assert.Equal(t, ApprovalPending, a.Approval.Status)
		assert.False(t, a.Approval.Decided())
		assert.False(t, a.Adds.AnyLinked())
		assert.Equal(t, "ACME", a.Customer)
	})

	t.Run("description is required", func(t *testing.T) {
		_, err := NewAssembly("", "ACME", "", "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})
}

func TestAssemblyUpdate(t *testing.T) {
	a, err := NewAssembly("original", "ACME", "", "")
	require.NoError(t, err)
	a.Adds = a.Adds.Set(SlotHose, 7)

	require.NoError(t, a.Update("revised", "Beta Corp", "NCI-2", "C"))
	assert.Equal(t, "revised", a.Description)
	assert.Equal(t, "Beta Corp", a.Customer)
	// Update never touches the module index or the latch.
	assert.Equal(t, 7, a.Adds.Get(SlotHose))
	assert.Equal(t, ApprovalPending, a.Approval.Status)

	err = a.Update("", "", "", "")
	assert.Error(t, err)
}

func TestAssemblyDecide(t *testing.T) {
	approver := uuid.New()

	t.Run("approve fires the latch once", func(t *testing.T) {
		a, err := NewAssembly("assy", "", "", "")
		require.NoError(t, err)
		a.Item = 41

		require.NoError(t, a.Decide(true, approver))
		assert.Equal(t, ApprovalApproved, a.Approval.Status)
		assert.Equal(t, approver, a.Approval.DecidedBy)
		assert.False(t, a.Approval.DecidedAt.IsZero())

		err = a.Decide(false, approver)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_DECIDED", domainErr.Code)
		assert.Contains(t, domainErr.Message, "approved")
		// The first decision stands.
		assert.Equal(t, ApprovalApproved, a.Approval.Status)
	})

	t.Run("reject is also terminal", func(t *testing.T) {
		a, err := NewAssembly("assy", "", "", "")
		require.NoError(t, err)

		require.NoError(t, a.Decide(false, approver))
		assert.Equal(t, ApprovalRejected, a.Approval.Status)

		err = a.Decide(true, approver)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Contains(t, domainErr.Message, "rejected")
	})

	t.Run("decision requires an approver", func(t *testing.T) {
		a, err := NewAssembly("assy", "", "", "")
		require.NoError(t, err)

		err = a.Decide(true, uuid.Nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
		assert.False(t, a.Approval.Decided())
	})
}

func TestAssemblyLink(t *testing.T) {
	a, err := NewAssembly("assy", "", "", "")
	require.NoError(t, err)
	a.Item = 10

	require.NoError(t, a.Link(SlotSleeve, 5))
	assert.Equal(t, 5, a.Adds.Get(SlotSleeve))

	// Relinking to the same item is a no-op, not an error.
	require.NoError(t, a.Link(SlotSleeve, 5))

	err = a.Link(SlotSleeve, 6)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)

	err = a.Link(SlotHose, 0)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}
