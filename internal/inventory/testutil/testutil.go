package testutil

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/internal/inventory/repository"
	"github.com/tair/material-ledger/pkg/database"
)

// TestEnv holds the resources of one isolated ledger database
type TestEnv struct {
	DB    *gorm.DB
	Store *repository.GormStore
	T     *testing.T
}

// SetupTestDB creates a migrated in-memory database that is closed after the test.
// A single connection is used so every query sees the same memory database.
func SetupTestDB(t *testing.T) *TestEnv {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), database.Config{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	store := repository.NewGormStore(db)
	if err := store.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &TestEnv{DB: db, Store: store, T: t}
}

// Qty parses a decimal literal, failing the test on malformed input
func Qty(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad quantity %q: %v", s, err)
	}
	return d
}

// SeedProject inserts a project
func (e *TestEnv) SeedProject(code string) *domain.Project {
	e.T.Helper()
	p := &domain.Project{Code: code, Name: "Project " + code}
	if err := e.DB.Create(p).Error; err != nil {
		e.T.Fatalf("failed to seed project %s: %v", code, err)
	}
	return p
}

// SeedMember grants a user access to a project
func (e *TestEnv) SeedMember(projectID, userID uint) {
	e.T.Helper()
	if err := e.DB.Create(&domain.ProjectMember{ProjectID: projectID, UserID: userID}).Error; err != nil {
		e.T.Fatalf("failed to seed member: %v", err)
	}
}

// SeedMaterial inserts a material with empty aggregates
func (e *TestEnv) SeedMaterial(code string) *domain.Material {
	e.T.Helper()
	m := &domain.Material{
		Code:        code,
		Name:        "Material " + code,
		Unit:        "bag",
		OrderedQty:  decimal.Zero,
		ReceivedQty: decimal.Zero,
		UtilizedQty: decimal.Zero,
		BalanceQty:  decimal.Zero,
	}
	if err := e.DB.Create(m).Error; err != nil {
		e.T.Fatalf("failed to seed material %s: %v", code, err)
	}
	return m
}

// SeedAllocation sets the cap of a material on a project
func (e *TestEnv) SeedAllocation(projectID, materialID uint, qty string) {
	e.T.Helper()
	a := &domain.Allocation{ProjectID: projectID, MaterialID: materialID, RequiredQty: Qty(e.T, qty)}
	if err := e.Store.UpsertAllocation(context.Background(), a); err != nil {
		e.T.Fatalf("failed to seed allocation: %v", err)
	}
}

// Material reloads a material from the database
func (e *TestEnv) Material(id uint) *domain.Material {
	e.T.Helper()
	m, err := e.Store.FindMaterial(context.Background(), id)
	if err != nil {
		e.T.Fatalf("failed to reload material %d: %v", id, err)
	}
	return m
}

// Count returns the number of rows of a model
func (e *TestEnv) Count(model any) int64 {
	e.T.Helper()
	var n int64
	if err := e.DB.Model(model).Count(&n).Error; err != nil {
		e.T.Fatalf("failed to count %T: %v", model, err)
	}
	return n
}

// AssertQty fails the test when got differs from the decimal literal want
func AssertQty(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(Qty(t, want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

// RecordingPublisher keeps every published event in memory
type RecordingPublisher struct {
	Events []domain.MovementEvent
	Err    error
}

// PublishMovement implements domain.EventPublisher
func (p *RecordingPublisher) PublishMovement(_ context.Context, event domain.MovementEvent) error {
	p.Events = append(p.Events, event)
	return p.Err
}

// MemoryCache is an in-process domain.AllocationReportCache
type MemoryCache struct {
	Rows        map[uint][]domain.AllocationStock
	Invalidated []uint
}

// NewMemoryCache creates an empty cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{Rows: make(map[uint][]domain.AllocationStock)}
}

// Get implements domain.AllocationReportCache
func (c *MemoryCache) Get(_ context.Context, projectID uint) ([]domain.AllocationStock, bool) {
	rows, ok := c.Rows[projectID]
	return rows, ok
}

// Set implements domain.AllocationReportCache
func (c *MemoryCache) Set(_ context.Context, projectID uint, rows []domain.AllocationStock) {
	c.Rows[projectID] = rows
}

// Invalidate implements domain.AllocationReportCache
func (c *MemoryCache) Invalidate(_ context.Context, projectIDs ...uint) {
	for _, id := range projectIDs {
		delete(c.Rows, id)
		c.Invalidated = append(c.Invalidated, id)
	}
}

