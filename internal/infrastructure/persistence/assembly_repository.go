package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hoseline/backend/internal/domain/ledger"
	"github.com/hoseline/backend/internal/domain/shared"
	"github.com/hoseline/backend/internal/infrastructure/persistence/models"
)

// errDryRunRollback aborts a dry-run deletion transaction after the
// report has been filled in.
var errDryRunRollback = errors.New("dry run rollback")

// lockForUpdate applies a FOR UPDATE row lock where the dialect
// supports it. SQLite serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// GormAssemblyRepository implements ledger.AssemblyRepository using GORM
type GormAssemblyRepository struct {
	db *gorm.DB
}

// NewGormAssemblyRepository creates a new GormAssemblyRepository
func NewGormAssemblyRepository(db *gorm.DB) *GormAssemblyRepository {
	return &GormAssemblyRepository{db: db}
}

// FindByItem finds an assembly by its item number
func (r *GormAssemblyRepository) FindByItem(ctx context.Context, item int) (*ledger.Assembly, error) {
	var model models.AssemblyModel
	if err := r.db.WithContext(ctx).First(&model, "item = ?", item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindRecent returns assemblies ordered by descending item number
func (r *GormAssemblyRepository) FindRecent(ctx context.Context, filter shared.Filter) (shared.Paginated[ledger.Assembly], error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&models.AssemblyModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR customer ILIKE ? OR nci ILIKE ?",
			pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[ledger.Assembly]{}, err
	}

	var assemblyModels []models.AssemblyModel
	if err := query.
		Order("item DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&assemblyModels).Error; err != nil {
		return shared.Paginated[ledger.Assembly]{}, err
	}

	assemblies := make([]ledger.Assembly, len(assemblyModels))
	for i, model := range assemblyModels {
		assemblies[i] = *model.ToDomain()
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	return shared.NewPaginated(assemblies, total, page, filter.Limit()), nil
}

// AllIndexes returns the identification and module index of every assembly
func (r *GormAssemblyRepository) AllIndexes(ctx context.Context) ([]ledger.AssemblyIndex, error) {
	var assemblyModels []models.AssemblyModel
	if err := r.db.WithContext(ctx).
		Select("item", "description", "customer", "adds", "approved").
		Order("item DESC").
		Find(&assemblyModels).Error; err != nil {
		return nil, err
	}

	indexes := make([]ledger.AssemblyIndex, len(assemblyModels))
	for i, model := range assemblyModels {
		a := model.ToDomain()
		indexes[i] = ledger.AssemblyIndex{
			Item:        a.Item,
			Description: a.Description,
			Customer:    a.Customer,
			Adds:        a.Adds,
			Approval:    a.Approval.Status,
		}
	}
	return indexes, nil
}

// NextItem returns the item number the next created assembly will get
func (r *GormAssemblyRepository) NextItem(ctx context.Context) (int, error) {
	return nextAssemblyItem(r.db.WithContext(ctx))
}

func nextAssemblyItem(tx *gorm.DB) (int, error) {
	var maxItem int
	if err := tx.Model(&models.AssemblyModel{}).
		Select("COALESCE(MAX(item), 0)").
		Scan(&maxItem).Error; err != nil {
		return 0, err
	}
	return maxItem + 1, nil
}

// Create inserts an assembly, assigning its item number inside the
// transaction so concurrent creates never collide. The highest row is
// locked by ordering rather than MAX(): Postgres refuses FOR UPDATE
// on aggregate queries.
func (r *GormAssemblyRepository) Create(ctx context.Context, assembly *ledger.Assembly) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lastItem int
		if err := lockForUpdate(tx).
			Model(&models.AssemblyModel{}).
			Select("item").
			Order("item DESC").
			Limit(1).
			Scan(&lastItem).Error; err != nil {
			return err
		}
		assembly.Item = lastItem + 1
		return tx.Create(models.AssemblyModelFromDomain(assembly)).Error
	})
}

// Update persists the descriptive fields and the module index. The
// approval columns are never in the write set; only Decide touches
// them, so a stale read here cannot clobber a concurrent decision.
func (r *GormAssemblyRepository) Update(ctx context.Context, assembly *ledger.Assembly) error {
	model := models.AssemblyModelFromDomain(assembly)
	result := r.db.WithContext(ctx).
		Model(&models.AssemblyModel{}).
		Where("item = ?", assembly.Item).
		Select("description", "customer", "nci", "customer_rev", "adds", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Decide fires the approval latch inside one transaction holding a row
// lock on the assembly. Concurrent decisions serialize on the lock and
// the loser sees the already-fired latch.
func (r *GormAssemblyRepository) Decide(ctx context.Context, item int, approved bool, decidedBy uuid.UUID) (*ledger.Assembly, error) {
	var assembly *ledger.Assembly
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.AssemblyModel
		if err := lockForUpdate(tx).First(&model, "item = ?", item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		assembly = model.ToDomain()
		if err := assembly.Decide(approved, decidedBy); err != nil {
			return err
		}

		return tx.Model(&models.AssemblyModel{}).
			Where("item = ?", item).
			Select("approved", "decided_by", "decided_at", "updated_at").
			Updates(models.AssemblyModelFromDomain(assembly)).Error
	})
	if err != nil {
		return nil, err
	}
	return assembly, nil
}

// Delete removes an assembly and every module row its index points at,
// in one transaction. With dryRun the same counting runs but the
// transaction is rolled back, so the report shows what would go.
func (r *GormAssemblyRepository) Delete(ctx context.Context, item int, dryRun bool) (*ledger.DeletionReport, error) {
	report := &ledger.DeletionReport{
		Item:         item,
		DryRun:       dryRun,
		ModuleCounts: make(map[ledger.ModuleKind]int64),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.AssemblyModel
		if err := lockForUpdate(tx).First(&model, "item = ?", item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		adds := ledger.DecodeAdds(model.Adds)
		report.Slots = adds

		for _, spec := range ledger.AllModuleSpecs() {
			moduleItem := adds.Get(spec.Slot)
			if moduleItem == 0 {
				continue
			}

			var count int64
			if err := tx.Table(spec.Table).
				Where("item = ?", moduleItem).
				Count(&count).Error; err != nil {
				return err
			}
			report.ModuleCounts[spec.Kind] = count

			if err := tx.Table(spec.Table).
				Where("item = ?", moduleItem).
				Delete(&models.ModuleRecordModel{}).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&models.AssemblyModel{}, "item = ?", item)
		if result.Error != nil {
			return result.Error
		}
		report.AssemblyRows = result.RowsAffected

		if dryRun {
			return errDryRunRollback
		}
		return nil
	})

	if err != nil && !errors.Is(err, errDryRunRollback) {
		return nil, err
	}
	return report, nil
}

// Ensure GormAssemblyRepository implements AssemblyRepository
var _ ledger.AssemblyRepository = (*GormAssemblyRepository)(nil)
