package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationEvent is a bill of materials change fed by the planning system
type AllocationEvent struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	ProjectID   uint            `json:"project_id"`
	MaterialID  uint            `json:"material_id"`
	RequiredQty decimal.Decimal `json:"required_qty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Event types
const (
	EventTypeAllocationAssigned = "allocation.assigned"
	EventTypeAllocationRemoved  = "allocation.removed"
)

// Kafka topics
const (
	TopicInventoryMovements = "inventory-movements"
	TopicBOMAllocations     = "bom-allocations"
)
