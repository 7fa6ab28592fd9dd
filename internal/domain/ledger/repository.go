package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/hoseline/backend/internal/domain/shared"
)

// AssemblyIndex is the slice of an assembly the summary and deletion
// flows need: identification plus the decoded module index.
type AssemblyIndex struct {
	Item        int
	Description string
	Customer    string
	Adds        Adds
	Approval    ApprovalStatus
}

// DeletionReport describes what a cascade delete removed, or would
// remove when DryRun is set.
type DeletionReport struct {
	Item         int                  `json:"item"`
	DryRun       bool                 `json:"dry_run"`
	Slots        [SlotCount]int       `json:"slots"`
	ModuleCounts map[ModuleKind]int64 `json:"module_counts"`
	AssemblyRows int64                `json:"assembly_rows"`
}

// TotalRows returns the number of rows the deletion touches.
func (r *DeletionReport) TotalRows() int64 {
	total := r.AssemblyRows
	for _, n := range r.ModuleCounts {
		total += n
	}
	return total
}

// AssemblyRepository persists assemblies. Create assigns the item
// number inside its transaction; Decide fires the approval latch under
// a row lock so concurrent decisions serialize, and Update never
// writes the latch columns; Delete cascades over linked module rows in
// one transaction, rolling back when dryRun is set.
type AssemblyRepository interface {
	FindByItem(ctx context.Context, item int) (*Assembly, error)
	FindRecent(ctx context.Context, filter shared.Filter) (shared.Paginated[Assembly], error)
	AllIndexes(ctx context.Context) ([]AssemblyIndex, error)
	NextItem(ctx context.Context) (int, error)
	Create(ctx context.Context, assembly *Assembly) error
	Update(ctx context.Context, assembly *Assembly) error
	Decide(ctx context.Context, item int, approved bool, decidedBy uuid.UUID) (*Assembly, error)
	Delete(ctx context.Context, item int, dryRun bool) (*DeletionReport, error)
}

// UpsertMode tells a caller whether an upsert inserted or updated.
type UpsertMode string

// Upsert outcomes.
const (
	UpsertCreated UpsertMode = "created"
	UpsertUpdated UpsertMode = "updated"
)

// UpsertResult carries the stored record and the assembly's module
// index as it stands after the transaction.
type UpsertResult struct {
	Mode   UpsertMode
	Record *ModuleRecord
	Adds   Adds
}

// ExampleValue is one distinct value of a categorical field with its
// occurrence count.
type ExampleValue struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// FieldExamples lists the distinct values seen for one field.
type FieldExamples struct {
	Field  FieldName      `json:"field"`
	Values []ExampleValue `json:"values"`
}

// ModuleRepository persists module records for every kind; one
// implementation serves all seven tables via the ModuleSpec policy.
// Upsert runs in a single transaction holding a row lock on the
// assembly: an occupied slot updates the record in place, an empty
// slot inserts with a fresh folio and rewrites the assembly's index.
type ModuleRepository interface {
	FindByItem(ctx context.Context, kind ModuleKind, item int) (*ModuleRecord, error)
	Upsert(ctx context.Context, assemblyItem int, kind ModuleKind, item int, fields ModuleFields) (*UpsertResult, error)
	Examples(ctx context.Context, kind ModuleKind) ([]FieldExamples, error)
}
