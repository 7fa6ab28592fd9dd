package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hoseline/backend/internal/domain/shared"
)

// ApprovalStatus is the terminal-or-pending state of an assembly's
// approval latch.
type ApprovalStatus string

// Approval states. Pending is the only non-terminal state.
const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Approval records who decided an assembly and when. DecidedBy and
// DecidedAt are only meaningful once Status leaves pending.
type Approval struct {
	Status    ApprovalStatus
	DecidedBy uuid.UUID
	DecidedAt time.Time
}

// Decided reports whether the latch has fired.
func (a Approval) Decided() bool {
	return a.Status != ApprovalPending
}

// Assembly is the parent record of a hose assembly: customer-facing
// identification plus the module index.
type Assembly struct {
	Item        int
	Description string
	Customer    string
	NCI         string
	CustomerRev string
	Adds        Adds
	Approval    Approval
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAssembly creates a pending assembly with no modules linked. The
// item number is assigned by the store at insertion.
func NewAssembly(description, customer, nci, customerRev string) (*Assembly, error) {
	if description == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED",
			"Assembly description is required")
	}
	now := time.Now()
	return &Assembly{
		Description: description,
		Customer:    customer,
		NCI:         nci,
		CustomerRev: customerRev,
		Approval:    Approval{Status: ApprovalPending},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update replaces the descriptive fields. The module index and the
// approval latch are untouched.
func (a *Assembly) Update(description, customer, nci, customerRev string) error {
	if description == "" {
		return shared.NewDomainError("VALIDATION_FAILED",
			"Assembly description is required")
	}
	a.Description = description
	a.Customer = customer
	a.NCI = nci
	a.CustomerRev = customerRev
	a.UpdatedAt = time.Now()
	return nil
}

// Decide fires the approval latch exactly once. A second decision
// fails and reports the terminal state already recorded.
func (a *Assembly) Decide(approved bool, by uuid.UUID) error {
	if a.Approval.Decided() {
		return shared.NewDomainError("ALREADY_DECIDED",
			fmt.Sprintf("Assembly %d is already %s", a.Item, a.Approval.Status))
	}
	if by == uuid.Nil {
		return shared.NewDomainError("UNAUTHORIZED",
			"Approval decisions require an authenticated user")
	}
	status := ApprovalRejected
	if approved {
		status = ApprovalApproved
	}
	a.Approval = Approval{
		Status:    status,
		DecidedBy: by,
		DecidedAt: time.Now(),
	}
	a.UpdatedAt = a.Approval.DecidedAt
	return nil
}

// Link points a slot at a module item. Relinking an occupied slot to a
// different item is refused: the reference is immutable once set.
func (a *Assembly) Link(slot Slot, item int) error {
	if item <= 0 {
		return shared.NewDomainError("VALIDATION_FAILED",
			"Module item number must be positive")
	}
	if current := a.Adds.Get(slot); current > 0 && current != item {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Slot %d of assembly %d already holds item %d", slot, a.Item, current))
	}
	a.Adds = a.Adds.Set(slot, item)
	a.UpdatedAt = time.Now()
	return nil
}
