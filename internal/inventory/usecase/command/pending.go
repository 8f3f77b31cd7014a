package command

import "github.com/shopspring/decimal"

// PendingTotals accumulates the quantities accepted so far within one batch,
// keyed by material id, so repeated lines for a material are checked cumulatively.
type PendingTotals struct {
	ordered  map[uint]decimal.Decimal
	received map[uint]decimal.Decimal
	issued   map[uint]decimal.Decimal
}

// NewPendingTotals creates an empty accumulator
func NewPendingTotals() *PendingTotals {
	return &PendingTotals{
		ordered:  make(map[uint]decimal.Decimal),
		received: make(map[uint]decimal.Decimal),
		issued:   make(map[uint]decimal.Decimal),
	}
}

// Ordered returns the pending ordered quantity of a material
func (p *PendingTotals) Ordered(materialID uint) decimal.Decimal {
	return p.ordered[materialID]
}

// Received returns the pending received quantity of a material
func (p *PendingTotals) Received(materialID uint) decimal.Decimal {
	return p.received[materialID]
}

// Issued returns the pending issued quantity of a material
func (p *PendingTotals) Issued(materialID uint) decimal.Decimal {
	return p.issued[materialID]
}

// AddReceipt records an accepted inward line
func (p *PendingTotals) AddReceipt(materialID uint, ordered, received decimal.Decimal) {
	p.ordered[materialID] = p.ordered[materialID].Add(ordered)
	p.received[materialID] = p.received[materialID].Add(received)
}

// AddIssue records an accepted outward line
func (p *PendingTotals) AddIssue(materialID uint, issued decimal.Decimal) {
	p.issued[materialID] = p.issued[materialID].Add(issued)
}
