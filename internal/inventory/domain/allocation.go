package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allocation is the bill of materials cap for one material on one project
type Allocation struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ProjectID   uint            `json:"project_id" gorm:"not null;uniqueIndex:idx_allocation_project_material"`
	MaterialID  uint            `json:"material_id" gorm:"not null;uniqueIndex:idx_allocation_project_material;index"`
	RequiredQty decimal.Decimal `json:"required_qty" gorm:"type:numeric(18,3);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

// TableName specifies the table name
func (Allocation) TableName() string {
	return "material_allocations"
}

// JournalTotals are the movement sums of one material on one project
type JournalTotals struct {
	Ordered  decimal.Decimal `json:"ordered"`
	Received decimal.Decimal `json:"received"`
	Issued   decimal.Decimal `json:"issued"`
}

// Balance is received minus issued, floored at zero
func (t JournalTotals) Balance() decimal.Decimal {
	return NonNegative(t.Received.Sub(t.Issued))
}

// AllocationStock is an allocation row together with its journal totals
type AllocationStock struct {
	ProjectID     uint            `json:"project_id"`
	MaterialID    uint            `json:"material_id"`
	MaterialCode  string          `json:"material_code"`
	MaterialName  string          `json:"material_name"`
	Unit          string          `json:"unit"`
	RequiredQty   decimal.Decimal `json:"required_qty"`
	TotalOrdered  decimal.Decimal `json:"total_ordered"`
	TotalReceived decimal.Decimal `json:"total_received"`
	TotalIssued   decimal.Decimal `json:"total_issued"`
	Balance       decimal.Decimal `json:"balance"`
}
