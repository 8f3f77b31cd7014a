package command

import (
	"context"
	"time"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/pkg/logger"
)

// ValidateMovementCommand represents the command to lock an inward or outward entry
type ValidateMovementCommand struct {
	Actor domain.Actor
	Kind  domain.MovementKind
	ID    uint
}

// ValidateMovementHandler handles validate movement command
type ValidateMovementHandler struct {
	store   domain.Store
	policy  domain.AccessPolicy
	effects *Effects
}

// NewValidateMovementHandler creates a new validate movement handler
func NewValidateMovementHandler(store domain.Store, policy domain.AccessPolicy, effects *Effects) *ValidateMovementHandler {
	return &ValidateMovementHandler{store: store, policy: policy, effects: effects}
}

// Handle executes the validate movement command. Validating twice is a no-op.
func (h *ValidateMovementHandler) Handle(ctx context.Context, cmd ValidateMovementCommand) (err error) {
	start := time.Now()
	defer func() { h.effects.finish(ctx, "validate_movement", start, 0, err) }()

	if cmd.ID == 0 {
		return domain.BadRequestf("movement id is required")
	}

	var (
		projectID uint
		code      string
		validated bool
	)
	switch cmd.Kind {
	case domain.MovementInward:
		entry, err := h.store.FindInward(ctx, cmd.ID)
		if err != nil {
			return err
		}
		projectID, code, validated = entry.ProjectID, entry.Code, entry.Validated
	case domain.MovementOutward:
		entry, err := h.store.FindOutward(ctx, cmd.ID)
		if err != nil {
			return err
		}
		projectID, code, validated = entry.ProjectID, entry.Code, entry.Validated
	default:
		return domain.BadRequestf("only inward and outward entries can be validated, got %q", cmd.Kind)
	}

	if _, err := authorize(ctx, h.store, h.policy, cmd.Actor, projectID); err != nil {
		return err
	}
	if validated {
		return nil
	}

	if err := h.store.MarkValidated(ctx, cmd.Kind, cmd.ID); err != nil {
		return err
	}

	logger.Info(ctx).
		Str("kind", string(cmd.Kind)).
		Str("code", code).
		Msg("Movement validated")

	return nil
}
