package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/hoseline/backend/internal/domain/ledger"
	"github.com/hoseline/backend/internal/domain/shared"
)

// AssemblyService handles assembly lifecycle use cases
type AssemblyService struct {
	assemblyRepo ledger.AssemblyRepository
}

// NewAssemblyService creates a new AssemblyService
func NewAssemblyService(assemblyRepo ledger.AssemblyRepository) *AssemblyService {
	return &AssemblyService{assemblyRepo: assemblyRepo}
}

// Create registers a new assembly. The item number is assigned by the
// store inside the same transaction that inserts the row.
func (s *AssemblyService) Create(ctx context.Context, req AssemblyRequest) (*AssemblyResponse, error) {
	assembly, err := ledger.NewAssembly(req.Description, req.Customer, req.NCI, req.CustomerRev)
	if err != nil {
		return nil, err
	}

	if err := s.assemblyRepo.Create(ctx, assembly); err != nil {
		return nil, err
	}

	resp := ToAssemblyResponse(assembly)
	return &resp, nil
}

// GetByItem retrieves an assembly by its item number
func (s *AssemblyService) GetByItem(ctx context.Context, item int) (*AssemblyResponse, error) {
	assembly, err := s.assemblyRepo.FindByItem(ctx, item)
	if err != nil {
		return nil, err
	}

	resp := ToAssemblyResponse(assembly)
	return &resp, nil
}

// List returns a page of assemblies, most recent item first
func (s *AssemblyService) List(ctx context.Context, filter ListFilter) (*AssemblyListResponse, error) {
	page, err := s.assemblyRepo.FindRecent(ctx, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
	})
	if err != nil {
		return nil, err
	}

	items := make([]AssemblyResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToAssemblyResponse(&page.Items[i]))
	}

	return &AssemblyListResponse{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// NextItem returns the item number the next created assembly would get
func (s *AssemblyService) NextItem(ctx context.Context) (int, error) {
	return s.assemblyRepo.NextItem(ctx)
}

// Update replaces the descriptive fields of an assembly. The module
// index and the approval state are not touched by this path.
func (s *AssemblyService) Update(ctx context.Context, item int, req AssemblyRequest) (*AssemblyResponse, error) {
	assembly, err := s.assemblyRepo.FindByItem(ctx, item)
	if err != nil {
		return nil, err
	}

	if err := assembly.Update(req.Description, req.Customer, req.NCI, req.CustomerRev); err != nil {
		return nil, err
	}

	if err := s.assemblyRepo.Update(ctx, assembly); err != nil {
		return nil, err
	}

	resp := ToAssemblyResponse(assembly)
	return &resp, nil
}

// Decide records the one-shot approval decision for an assembly. The
// store runs the latch check and the write under a row lock, so two
// concurrent decisions cannot both land.
func (s *AssemblyService) Decide(ctx context.Context, item int, approved bool, decidedBy uuid.UUID) (*AssemblyResponse, error) {
	assembly, err := s.assemblyRepo.Decide(ctx, item, approved, decidedBy)
	if err != nil {
		return nil, err
	}

	resp := ToAssemblyResponse(assembly)
	return &resp, nil
}

// Delete removes an assembly and every module row linked through its
// index. With dryRun set the report is computed and nothing is removed.
func (s *AssemblyService) Delete(ctx context.Context, item int, dryRun bool) (*DeletionReportResponse, error) {
	report, err := s.assemblyRepo.Delete(ctx, item, dryRun)
	if err != nil {
		return nil, err
	}

	resp := ToDeletionReportResponse(report)
	return &resp, nil
}
