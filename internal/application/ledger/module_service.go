package ledger

import (
	"context"
	"fmt"

	"github.com/hoseline/backend/internal/domain/ledger"
	"github.com/hoseline/backend/internal/domain/shared"
)

// ModuleService handles module record use cases across all seven kinds
type ModuleService struct {
	moduleRepo   ledger.ModuleRepository
	assemblyRepo ledger.AssemblyRepository
}

// NewModuleService creates a new ModuleService
func NewModuleService(moduleRepo ledger.ModuleRepository, assemblyRepo ledger.AssemblyRepository) *ModuleService {
	return &ModuleService{moduleRepo: moduleRepo, assemblyRepo: assemblyRepo}
}

// GetForAssembly resolves the module record an assembly links for the
// given kind. An unlinked slot yields a nil response, not an error.
func (s *ModuleService) GetForAssembly(ctx context.Context, assemblyItem int, kind ledger.ModuleKind) (*ModuleRecordResponse, error) {
	spec, ok := ledger.SpecFor(kind)
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Unknown module kind: %s", kind))
	}

	assembly, err := s.assemblyRepo.FindByItem(ctx, assemblyItem)
	if err != nil {
		return nil, err
	}

	moduleItem := assembly.Adds.Get(spec.Slot)
	if moduleItem == 0 {
		return nil, nil
	}

	record, err := s.moduleRepo.FindByItem(ctx, kind, moduleItem)
	if err != nil {
		return nil, err
	}

	resp := ToModuleRecordResponse(record)
	return &resp, nil
}

// Upsert inserts or updates the module record behind an assembly's
// slot. Insert and index link happen in one store transaction.
func (s *ModuleService) Upsert(ctx context.Context, assemblyItem int, kind ledger.ModuleKind, req UpsertModuleRequest) (*UpsertModuleResponse, error) {
	result, err := s.moduleRepo.Upsert(ctx, assemblyItem, kind, req.Item, req.ToDomain())
	if err != nil {
		return nil, err
	}

	mode := "updated"
	if result.Mode == ledger.UpsertCreated {
		mode = "created"
	}

	return &UpsertModuleResponse{
		Mode:    mode,
		Record:  ToModuleRecordResponse(result.Record),
		Modules: modulesMap(result.Adds),
	}, nil
}

// Examples returns the most frequent stored values per text field of a
// module kind, for form autocomplete.
func (s *ModuleService) Examples(ctx context.Context, kind ledger.ModuleKind) ([]ledger.FieldExamples, error) {
	return s.moduleRepo.Examples(ctx, kind)
}
