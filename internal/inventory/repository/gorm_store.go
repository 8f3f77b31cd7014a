package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/material-ledger/internal/inventory/domain"
)

// GormStore implements domain.Store using GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM ledger store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate runs database migrations for every ledger table
func (r *GormStore) AutoMigrate() error {
	return r.db.AutoMigrate(domain.Models()...)
}

// Transaction runs fn inside a database transaction.
// Calling it on a store that is already transactional opens a savepoint.
func (r *GormStore) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// FindProject retrieves a project by ID
func (r *GormStore) FindProject(ctx context.Context, id uint) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("project %d not found", id)
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return &project, nil
}

// IsProjectMember checks whether a user is assigned to a project
func (r *GormStore) IsProjectMember(ctx context.Context, projectID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check project membership: %w", err)
	}
	return count > 0, nil
}

// FindMaterial retrieves a material by ID
func (r *GormStore) FindMaterial(ctx context.Context, id uint) (*domain.Material, error) {
	return r.findMaterial(r.db.WithContext(ctx), id)
}

// FindMaterialForUpdate retrieves a material and locks its row until the transaction ends
func (r *GormStore) FindMaterialForUpdate(ctx context.Context, id uint) (*domain.Material, error) {
	return r.findMaterial(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormStore) findMaterial(db *gorm.DB, id uint) (*domain.Material, error) {
	var material domain.Material
	if err := db.First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("material %d not found", id)
		}
		return nil, fmt.Errorf("failed to find material: %w", err)
	}
	return &material, nil
}

// SaveMaterial writes the ledger aggregates of a material
func (r *GormStore) SaveMaterial(ctx context.Context, material *domain.Material) error {
	err := r.db.WithContext(ctx).Model(material).
		Select("ordered_qty", "received_qty", "utilized_qty", "balance_qty").
		Updates(material).Error
	if err != nil {
		return fmt.Errorf("failed to update material %s: %w", material.Code, err)
	}
	return nil
}

// FindAllocation retrieves the allocation of a material on a project
func (r *GormStore) FindAllocation(ctx context.Context, projectID, materialID uint) (*domain.Allocation, error) {
	var allocation domain.Allocation
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND material_id = ?", projectID, materialID).
		First(&allocation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotAllocatedf("material %d is not allocated to project %d", materialID, projectID)
		}
		return nil, fmt.Errorf("failed to find allocation: %w", err)
	}
	return &allocation, nil
}

// UpsertAllocation creates or replaces the single allocation row of a project and material
func (r *GormStore) UpsertAllocation(ctx context.Context, allocation *domain.Allocation) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "material_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"required_qty", "updated_at"}),
	}).Create(allocation).Error
	if err != nil {
		return fmt.Errorf("failed to upsert allocation: %w", err)
	}
	return nil
}

// DeleteAllocation removes the allocation of a material on a project
func (r *GormStore) DeleteAllocation(ctx context.Context, projectID, materialID uint) error {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND material_id = ?", projectID, materialID).
		Delete(&domain.Allocation{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete allocation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundf("material %d is not allocated to project %d", materialID, projectID)
	}
	return nil
}

// ListAllocations retrieves every allocation of a project with its material
func (r *GormStore) ListAllocations(ctx context.Context, projectID uint) ([]domain.Allocation, error) {
	var allocations []domain.Allocation
	err := r.db.WithContext(ctx).
		Preload("Material").
		Where("project_id = ?", projectID).
		Order("material_id ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	return allocations, nil
}

// CreateInward inserts an inward entry with its lines
func (r *GormStore) CreateInward(ctx context.Context, entry *domain.InwardEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return translateCreateError(err, domain.MovementInward, entry.Code)
	}
	return nil
}

// CreateOutward inserts an outward entry with its lines
func (r *GormStore) CreateOutward(ctx context.Context, entry *domain.OutwardEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return translateCreateError(err, domain.MovementOutward, entry.Code)
	}
	return nil
}

// CreateTransfer inserts a transfer entry with its lines
func (r *GormStore) CreateTransfer(ctx context.Context, entry *domain.TransferEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return translateCreateError(err, domain.MovementTransfer, entry.Code)
	}
	return nil
}

func translateCreateError(err error, kind domain.MovementKind, code string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Conflictf("%s code %q already exists", kind, code)
	}
	return fmt.Errorf("failed to create %s entry: %w", kind, err)
}

func orderLines(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// FindInward retrieves an inward entry with its lines
func (r *GormStore) FindInward(ctx context.Context, id uint) (*domain.InwardEntry, error) {
	var entry domain.InwardEntry
	if err := r.db.WithContext(ctx).Preload("Lines", orderLines).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("inward entry %d not found", id)
		}
		return nil, fmt.Errorf("failed to find inward entry: %w", err)
	}
	return &entry, nil
}

// FindOutward retrieves an outward entry with its lines
func (r *GormStore) FindOutward(ctx context.Context, id uint) (*domain.OutwardEntry, error) {
	var entry domain.OutwardEntry
	if err := r.db.WithContext(ctx).Preload("Lines", orderLines).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("outward entry %d not found", id)
		}
		return nil, fmt.Errorf("failed to find outward entry: %w", err)
	}
	return &entry, nil
}

// FindTransfer retrieves a transfer entry with its lines
func (r *GormStore) FindTransfer(ctx context.Context, id uint) (*domain.TransferEntry, error) {
	var entry domain.TransferEntry
	if err := r.db.WithContext(ctx).Preload("Lines", orderLines).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("transfer entry %d not found", id)
		}
		return nil, fmt.Errorf("failed to find transfer entry: %w", err)
	}
	return &entry, nil
}

// ReplaceOutwardLines swaps the line collection of an outward entry
func (r *GormStore) ReplaceOutwardLines(ctx context.Context, entry *domain.OutwardEntry, lines []domain.OutwardLine) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("outward_id = ?", entry.ID).Delete(&domain.OutwardLine{}).Error; err != nil {
		return fmt.Errorf("failed to delete outward lines: %w", err)
	}
	// Lines are inserted one by one since kept lines carry their previous id.
	for i := range lines {
		lines[i].OutwardID = entry.ID
		if err := db.Create(&lines[i]).Error; err != nil {
			return fmt.Errorf("failed to insert outward line: %w", err)
		}
	}
	entry.Lines = lines
	return nil
}

// UpdateOutwardHeader writes the editable header fields of an outward entry
func (r *GormStore) UpdateOutwardHeader(ctx context.Context, entry *domain.OutwardEntry) error {
	err := r.db.WithContext(ctx).Model(&domain.OutwardEntry{ID: entry.ID}).
		Updates(map[string]any{"issue_to": entry.IssueTo, "remarks": entry.Remarks}).Error
	if err != nil {
		return fmt.Errorf("failed to update outward entry: %w", err)
	}
	return nil
}

// LinkTransfer stores the ids of the outward and inward entries derived from a transfer
func (r *GormStore) LinkTransfer(ctx context.Context, transferID, outwardID, inwardID uint) error {
	err := r.db.WithContext(ctx).Model(&domain.TransferEntry{ID: transferID}).
		Updates(map[string]any{"outward_id": outwardID, "inward_id": inwardID}).Error
	if err != nil {
		return fmt.Errorf("failed to link transfer entry: %w", err)
	}
	return nil
}

// MarkValidated locks an inward or outward entry against line changes
func (r *GormStore) MarkValidated(ctx context.Context, kind domain.MovementKind, id uint) error {
	model, err := headerModel(kind)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("validated", true)
	if result.Error != nil {
		return fmt.Errorf("failed to validate %s entry: %w", kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundf("%s entry %d not found", kind, id)
	}
	return nil
}

type inwardSums struct {
	Ordered  decimal.Decimal
	Received decimal.Decimal
}

type issuedSum struct {
	Issued decimal.Decimal
}

// SumInward returns ordered and received totals of a material on a project
func (r *GormStore) SumInward(ctx context.Context, projectID, materialID uint) (decimal.Decimal, decimal.Decimal, error) {
	var sums inwardSums
	err := r.db.WithContext(ctx).Table("inward_lines AS l").
		Select("COALESCE(SUM(l.ordered_qty), 0) AS ordered, COALESCE(SUM(l.received_qty), 0) AS received").
		Joins("JOIN inward_entries e ON e.id = l.inward_id").
		Where("e.project_id = ? AND l.material_id = ?", projectID, materialID).
		Scan(&sums).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum inward lines: %w", err)
	}
	return sums.Ordered, sums.Received, nil
}

// SumIssued returns the issued total of a material on a project
func (r *GormStore) SumIssued(ctx context.Context, projectID, materialID uint) (decimal.Decimal, error) {
	var sum issuedSum
	err := r.db.WithContext(ctx).Table("outward_lines AS l").
		Select("COALESCE(SUM(l.issue_qty), 0) AS issued").
		Joins("JOIN outward_entries e ON e.id = l.outward_id").
		Where("e.project_id = ? AND l.material_id = ?", projectID, materialID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outward lines: %w", err)
	}
	return sum.Issued, nil
}

// SumMaterial returns journal totals of a material across all projects
func (r *GormStore) SumMaterial(ctx context.Context, materialID uint) (domain.JournalTotals, error) {
	db := r.db.WithContext(ctx)

	var in inwardSums
	err := db.Model(&domain.InwardLine{}).
		Select("COALESCE(SUM(ordered_qty), 0) AS ordered, COALESCE(SUM(received_qty), 0) AS received").
		Where("material_id = ?", materialID).
		Scan(&in).Error
	if err != nil {
		return domain.JournalTotals{}, fmt.Errorf("failed to sum inward lines: %w", err)
	}

	var out issuedSum
	err = db.Model(&domain.OutwardLine{}).
		Select("COALESCE(SUM(issue_qty), 0) AS issued").
		Where("material_id = ?", materialID).
		Scan(&out).Error
	if err != nil {
		return domain.JournalTotals{}, fmt.Errorf("failed to sum outward lines: %w", err)
	}

	return domain.JournalTotals{Ordered: in.Ordered, Received: in.Received, Issued: out.Issued}, nil
}

// CountMovements returns the number of entries of a movement kind
func (r *GormStore) CountMovements(ctx context.Context, kind domain.MovementKind) (int64, error) {
	model, err := headerModel(kind)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s entries: %w", kind, err)
	}
	return count, nil
}

// MovementCodeExists checks whether a code is taken within a movement kind
func (r *GormStore) MovementCodeExists(ctx context.Context, kind domain.MovementKind, code string) (bool, error) {
	model, err := headerModel(kind)
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up %s code: %w", kind, err)
	}
	return count > 0, nil
}

func headerModel(kind domain.MovementKind) (any, error) {
	switch kind {
	case domain.MovementInward:
		return &domain.InwardEntry{}, nil
	case domain.MovementOutward:
		return &domain.OutwardEntry{}, nil
	case domain.MovementTransfer:
		return &domain.TransferEntry{}, nil
	default:
		return nil, fmt.Errorf("unknown movement kind %q", kind)
	}
}
