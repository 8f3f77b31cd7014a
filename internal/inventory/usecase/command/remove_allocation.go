package command

import (
	"context"
	"time"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/pkg/logger"
)

// RemoveAllocationCommand represents the command to delete an allocation
type RemoveAllocationCommand struct {
	Actor      domain.Actor
	ProjectID  uint
	MaterialID uint
}

// RemoveAllocationHandler handles remove allocation command
type RemoveAllocationHandler struct {
	store   domain.Store
	policy  domain.AccessPolicy
	effects *Effects
}

// NewRemoveAllocationHandler creates a new remove allocation handler
func NewRemoveAllocationHandler(store domain.Store, policy domain.AccessPolicy, effects *Effects) *RemoveAllocationHandler {
	return &RemoveAllocationHandler{store: store, policy: policy, effects: effects}
}

// Handle executes the remove allocation command
func (h *RemoveAllocationHandler) Handle(ctx context.Context, cmd RemoveAllocationCommand) (err error) {
	start := time.Now()
	defer func() { h.effects.finish(ctx, "remove_allocation", start, 0, err) }()

	if cmd.MaterialID == 0 {
		return domain.BadRequestf("material_id is required")
	}

	project, err := authorize(ctx, h.store, h.policy, cmd.Actor, cmd.ProjectID)
	if err != nil {
		return err
	}

	if err := h.store.DeleteAllocation(ctx, project.ID, cmd.MaterialID); err != nil {
		return err
	}

	h.effects.invalidate(ctx, project.ID)

	logger.Info(ctx).
		Str("project", project.Code).
		Uint("material_id", cmd.MaterialID).
		Msg("Allocation removed")

	return nil
}
