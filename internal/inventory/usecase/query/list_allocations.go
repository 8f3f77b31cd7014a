package query

import (
	"context"

	"github.com/tair/material-ledger/internal/inventory/domain"
)

// ListAllocationsQuery represents the query to list the allocation report of a project
type ListAllocationsQuery struct {
	Actor     domain.Actor
	ProjectID uint
}

// ListAllocationsHandler handles list allocations query
type ListAllocationsHandler struct {
	store  domain.Store
	policy domain.AccessPolicy
	cache  domain.AllocationReportCache
}

// NewListAllocationsHandler creates a new list allocations handler
func NewListAllocationsHandler(store domain.Store, policy domain.AccessPolicy, cache domain.AllocationReportCache) *ListAllocationsHandler {
	if cache == nil {
		cache = domain.NoopCache{}
	}
	return &ListAllocationsHandler{store: store, policy: policy, cache: cache}
}

// Handle executes the list allocations query
func (h *ListAllocationsHandler) Handle(ctx context.Context, query ListAllocationsQuery) ([]domain.AllocationStock, error) {
	project, err := authorize(ctx, h.store, h.policy, query.Actor, query.ProjectID)
	if err != nil {
		return nil, err
	}

	if rows, ok := h.cache.Get(ctx, project.ID); ok {
		return rows, nil
	}

	allocations, err := h.store.ListAllocations(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.AllocationStock, 0, len(allocations))
	for i := range allocations {
		stock, err := projectStock(ctx, h.store, &allocations[i], allocations[i].Material)
		if err != nil {
			return nil, err
		}
		rows = append(rows, stock)
	}

	h.cache.Set(ctx, project.ID, rows)
	return rows, nil
}
