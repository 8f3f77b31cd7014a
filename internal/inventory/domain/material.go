package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Material is a catalog entry carrying the global stock aggregates of the ledger
type Material struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Code        string          `json:"code" gorm:"size:64;uniqueIndex;not null"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Unit        string          `json:"unit" gorm:"size:20;not null;default:'nos'"`
	Category    string          `json:"category" gorm:"size:100"`
	OrderedQty  decimal.Decimal `json:"ordered_qty" gorm:"type:numeric(18,3);not null;default:0"`
	ReceivedQty decimal.Decimal `json:"received_qty" gorm:"type:numeric(18,3);not null;default:0"`
	UtilizedQty decimal.Decimal `json:"utilized_qty" gorm:"type:numeric(18,3);not null;default:0"`
	BalanceQty  decimal.Decimal `json:"balance_qty" gorm:"type:numeric(18,3);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Material) TableName() string {
	return "materials"
}

// ApplyReceipt adds inward quantities to the global aggregates.
// Callers pass non-negative deltas that were already checked against allocations.
func (m *Material) ApplyReceipt(orderedDelta, receivedDelta decimal.Decimal) {
	m.OrderedQty = m.OrderedQty.Add(NonNegative(orderedDelta))
	m.ReceivedQty = m.ReceivedQty.Add(NonNegative(receivedDelta))
	m.SyncBalance()
}

// ApplyIssue adds an issued quantity to the utilized aggregate
func (m *Material) ApplyIssue(issuedDelta decimal.Decimal) {
	m.UtilizedQty = m.UtilizedQty.Add(NonNegative(issuedDelta))
	m.SyncBalance()
}

// AdjustUtilized applies a signed correction to the utilized aggregate.
// Used when an outward entry is edited; utilized never drops below zero.
func (m *Material) AdjustUtilized(delta decimal.Decimal) {
	m.UtilizedQty = NonNegative(m.UtilizedQty.Add(delta))
	m.SyncBalance()
}

// SyncBalance recomputes balance = max(0, received - utilized)
func (m *Material) SyncBalance() {
	m.BalanceQty = NonNegative(m.ReceivedQty.Sub(m.UtilizedQty))
}

// NonNegative clamps a quantity at zero
func NonNegative(q decimal.Decimal) decimal.Decimal {
	if q.IsNegative() {
		return decimal.Zero
	}
	return q
}
