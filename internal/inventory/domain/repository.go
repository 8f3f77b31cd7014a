package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProjectRepository resolves projects and their members
type ProjectRepository interface {
	FindProject(ctx context.Context, id uint) (*Project, error)
	IsProjectMember(ctx context.Context, projectID, userID uint) (bool, error)
}

// MaterialRepository owns the material ledger rows
type MaterialRepository interface {
	FindMaterial(ctx context.Context, id uint) (*Material, error)
	// FindMaterialForUpdate reads the row under a write lock for the rest of the transaction
	FindMaterialForUpdate(ctx context.Context, id uint) (*Material, error)
	SaveMaterial(ctx context.Context, material *Material) error
}

// AllocationRepository owns the per project material caps
type AllocationRepository interface {
	FindAllocation(ctx context.Context, projectID, materialID uint) (*Allocation, error)
	UpsertAllocation(ctx context.Context, allocation *Allocation) error
	DeleteAllocation(ctx context.Context, projectID, materialID uint) error
	ListAllocations(ctx context.Context, projectID uint) ([]Allocation, error)
}

// JournalRepository persists movement entries and answers aggregate queries over their lines
type JournalRepository interface {
	CreateInward(ctx context.Context, entry *InwardEntry) error
	CreateOutward(ctx context.Context, entry *OutwardEntry) error
	CreateTransfer(ctx context.Context, entry *TransferEntry) error

	FindInward(ctx context.Context, id uint) (*InwardEntry, error)
	FindOutward(ctx context.Context, id uint) (*OutwardEntry, error)
	FindTransfer(ctx context.Context, id uint) (*TransferEntry, error)

	// ReplaceOutwardLines deletes the entry's lines and inserts the given set
	ReplaceOutwardLines(ctx context.Context, entry *OutwardEntry, lines []OutwardLine) error
	UpdateOutwardHeader(ctx context.Context, entry *OutwardEntry) error
	LinkTransfer(ctx context.Context, transferID, outwardID, inwardID uint) error
	MarkValidated(ctx context.Context, kind MovementKind, id uint) error

	// SumInward returns ordered and received totals of a material on a project
	SumInward(ctx context.Context, projectID, materialID uint) (ordered, received decimal.Decimal, err error)
	// SumIssued returns the issued total of a material on a project
	SumIssued(ctx context.Context, projectID, materialID uint) (decimal.Decimal, error)
	// SumMaterial returns journal totals of a material across all projects
	SumMaterial(ctx context.Context, materialID uint) (JournalTotals, error)

	CountMovements(ctx context.Context, kind MovementKind) (int64, error)
	MovementCodeExists(ctx context.Context, kind MovementKind, code string) (bool, error)
}

// Store groups the ledger repositories behind one transactional boundary
type Store interface {
	ProjectRepository
	MaterialRepository
	AllocationRepository
	JournalRepository

	// Transaction runs fn with a store bound to a single database transaction.
	// fn returning an error rolls back every write made through the store.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
