package inventory

import (
	"context"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/internal/inventory/usecase/command"
	"github.com/tair/material-ledger/internal/inventory/usecase/query"
)

// Service is the internal boundary of the material ledger.
// Callers resolve the actor upstream; every method is one transaction at most.
type Service struct {
	commands *CommandHandlers
	queries  *QueryHandlers
}

// NewService creates the ledger service
func NewService(commands *CommandHandlers, queries *QueryHandlers) *Service {
	return &Service{commands: commands, queries: queries}
}

// RegisterInward records received goods against a project's allocations
func (s *Service) RegisterInward(ctx context.Context, cmd command.RegisterInwardCommand) (*domain.InwardEntry, error) {
	return s.commands.RegisterInward.Handle(ctx, cmd)
}

// RegisterOutward issues goods from a project's received balance
func (s *Service) RegisterOutward(ctx context.Context, cmd command.RegisterOutwardCommand) (*domain.OutwardEntry, error) {
	return s.commands.RegisterOutward.Handle(ctx, cmd)
}

// UpdateOutward replaces the lines of an outward entry, applying only the deltas
func (s *Service) UpdateOutward(ctx context.Context, cmd command.UpdateOutwardCommand) (*domain.OutwardEntry, error) {
	return s.commands.UpdateOutward.Handle(ctx, cmd)
}

// RegisterTransfer moves goods between projects or between sites of one project
func (s *Service) RegisterTransfer(ctx context.Context, cmd command.RegisterTransferCommand) (*command.TransferResult, error) {
	return s.commands.RegisterTransfer.Handle(ctx, cmd)
}

// GenerateCodes previews the next inward, outward and transfer codes
func (s *Service) GenerateCodes(ctx context.Context) (*query.MovementCodes, error) {
	return s.queries.GenerateCodes.Handle(ctx)
}

func (s *Service) AssignAllocation(ctx context.Context, cmd command.AssignAllocationCommand) (*domain.Allocation, error) {
	return s.commands.AssignAllocation.Handle(ctx, cmd)
}

func (s *Service) RemoveAllocation(ctx context.Context, cmd command.RemoveAllocationCommand) error {
	return s.commands.RemoveAllocation.Handle(ctx, cmd)
}

func (s *Service) GetAllocation(ctx context.Context, q query.GetAllocationQuery) (*domain.Allocation, error) {
	return s.queries.GetAllocation.Handle(ctx, q)
}

// ListAllocations returns the allocation report of a project
func (s *Service) ListAllocations(ctx context.Context, q query.ListAllocationsQuery) ([]domain.AllocationStock, error) {
	return s.queries.ListAllocations.Handle(ctx, q)
}

func (s *Service) GetProjectStock(ctx context.Context, q query.GetProjectStockQuery) (*domain.AllocationStock, error) {
	return s.queries.GetProjectStock.Handle(ctx, q)
}

// ValidateMovement marks an inward or outward entry as checked
func (s *Service) ValidateMovement(ctx context.Context, cmd command.ValidateMovementCommand) error {
	return s.commands.ValidateMovement.Handle(ctx, cmd)
}

// ReconcileMaterial compares a material's cached totals with the journal
func (s *Service) ReconcileMaterial(ctx context.Context, q query.ReconcileMaterialQuery) (*query.MaterialReconciliation, error) {
	return s.queries.ReconcileMaterial.Handle(ctx, q)
}
