package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Movement event types
const (
	EventInwardRegistered   = "movement.inward.registered"
	EventOutwardRegistered  = "movement.outward.registered"
	EventOutwardUpdated     = "movement.outward.updated"
	EventTransferRegistered = "movement.transfer.registered"
)

// MovementEventLine is one material quantity carried by a movement event
type MovementEventLine struct {
	MaterialID  uint            `json:"material_id"`
	OrderedQty  decimal.Decimal `json:"ordered_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	IssueQty    decimal.Decimal `json:"issue_qty"`
	TransferQty decimal.Decimal `json:"transfer_qty"`
}

// MovementEvent is emitted after a movement has been committed
type MovementEvent struct {
	EventID     string              `json:"event_id"`
	EventType   string              `json:"event_type"`
	MovementID  uint                `json:"movement_id"`
	Code        string              `json:"code"`
	ProjectID   uint                `json:"project_id"`
	ToProjectID uint                `json:"to_project_id,omitempty"`
	ActorID     uint                `json:"actor_id"`
	Lines       []MovementEventLine `json:"lines"`
	Timestamp   time.Time           `json:"timestamp"`
}

// EventPublisher delivers committed movement events to other services
type EventPublisher interface {
	PublishMovement(ctx context.Context, event MovementEvent) error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

// PublishMovement implements EventPublisher
func (NoopPublisher) PublishMovement(context.Context, MovementEvent) error { return nil }

// AllocationReportCache caches the allocation report of a project
type AllocationReportCache interface {
	Get(ctx context.Context, projectID uint) ([]AllocationStock, bool)
	Set(ctx context.Context, projectID uint, rows []AllocationStock)
	Invalidate(ctx context.Context, projectIDs ...uint)
}

// NoopCache never caches
type NoopCache struct{}

func (NoopCache) Get(context.Context, uint) ([]AllocationStock, bool) { return nil, false }
func (NoopCache) Set(context.Context, uint, []AllocationStock)        {}
func (NoopCache) Invalidate(context.Context, ...uint)                 {}
