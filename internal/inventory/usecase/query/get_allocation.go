package query

import (
	"context"

	"github.com/tair/material-ledger/internal/inventory/domain"
)

// GetAllocationQuery represents the query to get the allocation of a material on a project
type GetAllocationQuery struct {
	Actor      domain.Actor
	ProjectID  uint
	MaterialID uint
}

// GetAllocationHandler handles get allocation query
type GetAllocationHandler struct {
	store  domain.Store
	policy domain.AccessPolicy
}

// NewGetAllocationHandler creates a new get allocation handler
func NewGetAllocationHandler(store domain.Store, policy domain.AccessPolicy) *GetAllocationHandler {
	return &GetAllocationHandler{store: store, policy: policy}
}

// Handle executes the get allocation query
func (h *GetAllocationHandler) Handle(ctx context.Context, query GetAllocationQuery) (*domain.Allocation, error) {
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
	allocation.Material = material
	return allocation, nil
}
