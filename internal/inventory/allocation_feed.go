package inventory

import (
	"context"
	"errors"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/internal/inventory/usecase/command"
	"github.com/tair/material-ledger/kafka"
	"github.com/tair/material-ledger/pkg/logger"
)

// AllocationFeed applies bill of materials changes published by the planning system
type AllocationFeed struct {
	service *Service
}

// NewAllocationFeed creates a new allocation feed
func NewAllocationFeed(service *Service) *AllocationFeed {
	return &AllocationFeed{service: service}
}

// Register attaches the feed handlers to a consumer
func (f *AllocationFeed) Register(consumer *kafka.Consumer) {
	consumer.RegisterHandler(kafka.EventTypeAllocationAssigned, f.HandleAssigned)
	consumer.RegisterHandler(kafka.EventTypeAllocationRemoved, f.HandleRemoved)
}

// HandleAssigned upserts the allocation cap carried by the event
func (f *AllocationFeed) HandleAssigned(ctx context.Context, event kafka.AllocationEvent) error {
	_, err := f.service.AssignAllocation(ctx, command.AssignAllocationCommand{
		Actor:       domain.SystemActor(),
		ProjectID:   event.ProjectID,
		MaterialID:  event.MaterialID,
		RequiredQty: event.RequiredQty,
	})
	return err
}

// HandleRemoved deletes the allocation. A missing row counts as already removed.
func (f *AllocationFeed) HandleRemoved(ctx context.Context, event kafka.AllocationEvent) error {
	err := f.service.RemoveAllocation(ctx, command.RemoveAllocationCommand{
		Actor:      domain.SystemActor(),
		ProjectID:  event.ProjectID,
		MaterialID: event.MaterialID,
	})
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug(ctx).
			Str("event_id", event.EventID).
			Uint("project_id", event.ProjectID).
			Uint("material_id", event.MaterialID).
			Msg("Allocation already removed")
		return nil
	}
	return err
}
