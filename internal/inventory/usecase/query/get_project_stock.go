package query

import (
	"context"

	"github.com/tair/material-ledger/internal/inventory/domain"
)

// GetProjectStockQuery represents the query to get the journal totals of a material on a project
type GetProjectStockQuery struct {
	Actor      domain.Actor
	ProjectID  uint
	MaterialID uint
}

// GetProjectStockHandler handles get project stock query
type GetProjectStockHandler struct {
	store  domain.Store
	policy domain.AccessPolicy
}

// NewGetProjectStockHandler creates a new get project stock handler
func NewGetProjectStockHandler(store domain.Store, policy domain.AccessPolicy) *GetProjectStockHandler {
	return &GetProjectStockHandler{store: store, policy: policy}
}

// Handle executes the get project stock query
func (h *GetProjectStockHandler) Handle(ctx context.Context, query GetProjectStockQuery) (*domain.AllocationStock, error) {
	project, err := authorize(ctx, h.store, h.policy, query.Actor, query.ProjectID)
	if err != nil {
		return nil, err
	}

	material, err := h.store.FindMaterial(ctx, query.MaterialID)
	if err != nil {
		return nil, err
	}

	allocation, err := h.store.FindAllocation(ctx, project.ID, material.ID)
	if err != nil {
		return nil, err
	}

	stock, err := projectStock(ctx, h.store, allocation, material)
	if err != nil {
		return nil, err
	}
	return &stock, nil
}
