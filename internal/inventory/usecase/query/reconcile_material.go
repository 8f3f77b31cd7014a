package query

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tair/material-ledger/internal/inventory/domain"
)

// ReconcileMaterialQuery represents the query to compare a material's cached
// aggregates with the sums of its journal lines
type ReconcileMaterialQuery struct {
	MaterialID uint
}

// MaterialReconciliation reports drift between the material ledger and the journal.
// Drift values are cached minus journal; nothing is corrected.
type MaterialReconciliation struct {
	Material      *domain.Material     `json:"material"`
	Journal       domain.JournalTotals `json:"journal"`
	OrderedDrift  decimal.Decimal      `json:"ordered_drift"`
	ReceivedDrift decimal.Decimal      `json:"received_drift"`
	UtilizedDrift decimal.Decimal      `json:"utilized_drift"`
	Consistent    bool                 `json:"consistent"`
}

// ReconcileMaterialHandler handles reconcile material query
type ReconcileMaterialHandler struct {
	store domain.Store
}

// NewReconcileMaterialHandler creates a new reconcile material handler
func NewReconcileMaterialHandler(store domain.Store) *ReconcileMaterialHandler {
	return &ReconcileMaterialHandler{store: store}
}

// Handle executes the reconcile material query
func (h *ReconcileMaterialHandler) Handle(ctx context.Context, query ReconcileMaterialQuery) (*MaterialReconciliation, error) {
	material, err := h.store.FindMaterial(ctx, query.MaterialID)
	if err != nil {
		return nil, err
	}

	journal, err := h.store.SumMaterial(ctx, material.ID)
	if err != nil {
		return nil, err
	}

	r := &MaterialReconciliation{
		Material:      material,
		Journal:       journal,
		OrderedDrift:  material.OrderedQty.Sub(journal.Ordered),
		ReceivedDrift: material.ReceivedQty.Sub(journal.Received),
		UtilizedDrift: material.UtilizedQty.Sub(journal.Issued),
	}
	r.Consistent = r.OrderedDrift.IsZero() && r.ReceivedDrift.IsZero() && r.UtilizedDrift.IsZero()
	return r, nil
}
