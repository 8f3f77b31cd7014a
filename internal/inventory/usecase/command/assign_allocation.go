package command

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/pkg/logger"
)

// AssignAllocationCommand represents the command to set the required quantity
// of a material on a project
type AssignAllocationCommand struct {
	Actor       domain.Actor
	ProjectID   uint
	MaterialID  uint
	RequiredQty decimal.Decimal
}

// AssignAllocationHandler handles assign allocation command
type AssignAllocationHandler struct {
	store   domain.Store
	policy  domain.AccessPolicy
	effects *Effects
}

// NewAssignAllocationHandler creates a new assign allocation handler
func NewAssignAllocationHandler(store domain.Store, policy domain.AccessPolicy, effects *Effects) *AssignAllocationHandler {
	return &AssignAllocationHandler{store: store, policy: policy, effects: effects}
}

// Handle executes the assign allocation command
func (h *AssignAllocationHandler) Handle(ctx context.Context, cmd AssignAllocationCommand) (allocation *domain.Allocation, err error) {
	start := time.Now()
	defer func() { h.effects.finish(ctx, "assign_allocation", start, 0, err) }()

	if cmd.RequiredQty.IsNegative() {
		return nil, domain.InvalidQuantityf("required quantity cannot be negative, got %s", cmd.RequiredQty)
	}

	project, err := authorize(ctx, h.store, h.policy, cmd.Actor, cmd.ProjectID)
	if err != nil {
		return nil, err
	}
	material, err := h.store.FindMaterial(ctx, cmd.MaterialID)
	if err != nil {
		return nil, err
	}

	err = h.store.Transaction(ctx, func(tx domain.Store) error {
		row := &domain.Allocation{
			ProjectID:   project.ID,
			MaterialID:  material.ID,
			RequiredQty: cmd.RequiredQty,
		}
		if err := tx.UpsertAllocation(ctx, row); err != nil {
			return err
		}
		allocation, err = tx.FindAllocation(ctx, project.ID, material.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	h.effects.invalidate(ctx, project.ID)

	logger.Info(ctx).
		Str("project", project.Code).
		Str("material", material.Code).
		Str("required_qty", allocation.RequiredQty.String()).
		Msg("Allocation assigned")

	return allocation, nil
}
