package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hoseline/backend/internal/domain/ledger"
	"github.com/hoseline/backend/internal/domain/shared"
	"github.com/hoseline/backend/internal/infrastructure/persistence/models"
)

// categorical fields surfaced by Examples, in display order
var exampleFields = []ledger.FieldName{
	ledger.FieldDescription,
	ledger.FieldDies,
	ledger.FieldCrimp,
	ledger.FieldCurv,
	ledger.FieldCapA,
	ledger.FieldCapB,
}

const maxExampleValues = 20

// GormModuleRepository implements ledger.ModuleRepository for all seven
// module kinds. The ModuleSpec table supplies the concrete SQL table;
// one implementation replaces seven hand-copied ones.
type GormModuleRepository struct {
	db *gorm.DB
}

// NewGormModuleRepository creates a new GormModuleRepository
func NewGormModuleRepository(db *gorm.DB) *GormModuleRepository {
	return &GormModuleRepository{db: db}
}

func specFor(kind ledger.ModuleKind) (ledger.ModuleSpec, error) {
	spec, ok := ledger.SpecFor(kind)
	if !ok {
		return ledger.ModuleSpec{}, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Unknown module kind: %s", kind))
	}
	return spec, nil
}

// FindByItem finds the current record for an item, highest folio first.
// Folios are append-only, so the highest one is the latest revision.
func (r *GormModuleRepository) FindByItem(ctx context.Context, kind ledger.ModuleKind, item int) (*ledger.ModuleRecord, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	var model models.ModuleRecordModel
	if err := r.db.WithContext(ctx).
		Table(spec.Table).
		Where("item = ?", item).
		Order("folio DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(kind), nil
}

// Upsert writes a module record and keeps the assembly's index in step,
// all inside one transaction holding a row lock on the assembly. An
// occupied slot updates the existing record in place; an empty slot
// inserts a new record and rewrites the index.
func (r *GormModuleRepository) Upsert(ctx context.Context, assemblyItem int, kind ledger.ModuleKind, item int, fields ledger.ModuleFields) (*ledger.UpsertResult, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	var result *ledger.UpsertResult
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assemblyModel models.AssemblyModel
		if err := lockForUpdate(tx).First(&assemblyModel, "item = ?", assemblyItem).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		assembly := assemblyModel.ToDomain()
		current := assembly.Adds.Get(spec.Slot)

		if current > 0 {
			// Slot occupied: the item reference is immutable
			if item > 0 && item != current {
				return shared.NewDomainError("INVALID_STATE",
					fmt.Sprintf("Slot for %s on assembly %d already holds item %d",
						kind, assemblyItem, current))
			}
			updated, err := r.updateInPlace(tx, spec, kind, current, fields)
			if err != nil {
				return err
			}
			result = &ledger.UpsertResult{
				Mode:   ledger.UpsertUpdated,
				Record: updated,
				Adds:   assembly.Adds,
			}
			return nil
		}

		// Empty slot: insert a fresh record and link it
		record, err := ledger.NewModuleRecord(kind, item, fields)
		if err != nil {
			return err
		}

		folio, err := nextFolio(tx, spec.Table)
		if err != nil {
			return err
		}
		record.Folio = folio

		if err := tx.Table(spec.Table).
			Create(models.ModuleRecordModelFromDomain(record)).Error; err != nil {
			return err
		}

		if err := assembly.Link(spec.Slot, record.Item); err != nil {
			return err
		}
		if err := tx.Model(&models.AssemblyModel{}).
			Where("item = ?", assembly.Item).
			Updates(map[string]any{
				"adds":       assembly.Adds.Encode(),
				"updated_at": assembly.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		result = &ledger.UpsertResult{
			Mode:   ledger.UpsertCreated,
			Record: record,
			Adds:   assembly.Adds,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// updateInPlace revalidates the fields and rewrites the latest folio of
// the linked item. A missing row for a linked item is a broken index.
func (r *GormModuleRepository) updateInPlace(tx *gorm.DB, spec ledger.ModuleSpec, kind ledger.ModuleKind, item int, fields ledger.ModuleFields) (*ledger.ModuleRecord, error) {
	var model models.ModuleRecordModel
	if err := tx.Table(spec.Table).
		Where("item = ?", item).
		Order("folio DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND",
				fmt.Sprintf("Linked %s record %d does not exist", kind, item))
		}
		return nil, err
	}

	record := model.ToDomain(kind)
	if err := record.UpdateFields(fields); err != nil {
		return nil, err
	}

	if err := tx.Table(spec.Table).
		Where("folio = ?", record.Folio).
		Select("description", "dies", "crimp", "curv", "cap_a", "cap_b",
			"min", "nom", "max", "updated_at").
		Updates(models.ModuleRecordModelFromDomain(record)).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func nextFolio(tx *gorm.DB, table string) (int, error) {
	var maxFolio int
	if err := tx.Table(table).
		Select("COALESCE(MAX(folio), 0)").
		Scan(&maxFolio).Error; err != nil {
		return 0, err
	}
	return maxFolio + 1, nil
}

// Examples returns the distinct values of every categorical field the
// kind carries, with occurrence counts, for autocomplete
func (r *GormModuleRepository) Examples(ctx context.Context, kind ledger.ModuleKind) ([]ledger.FieldExamples, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	examples := make([]ledger.FieldExamples, 0, len(exampleFields))
	for _, field := range exampleFields {
		if !spec.Accepts(field) {
			continue
		}

		column := string(field)
		var values []ledger.ExampleValue
		if err := r.db.WithContext(ctx).
			Table(spec.Table).
			Select(column+" AS value, COUNT(*) AS count").
			Where(column+" <> ''").
			Group(column).
			Order("count DESC, value ASC").
			Limit(maxExampleValues).
			Scan(&values).Error; err != nil {
			return nil, err
		}

		examples = append(examples, ledger.FieldExamples{
			Field:  field,
			Values: values,
		})
	}
	return examples, nil
}

// Ensure GormModuleRepository implements ModuleRepository
var _ ledger.ModuleRepository = (*GormModuleRepository)(nil)
