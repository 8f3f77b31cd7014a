package query

import (
	"context"
	"fmt"

	"github.com/tair/material-ledger/internal/inventory/domain"
)

func authorize(ctx context.Context, projects domain.ProjectRepository, policy domain.AccessPolicy, actor domain.Actor, projectID uint) (*domain.Project, error) {
	if projectID == 0 {
		return nil, domain.BadRequestf("project_id is required")
	}

	project, err := projects.FindProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	allowed, err := policy.CanAccessProject(ctx, actor, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project access: %w", err)
	}
	if !allowed {
		return nil, domain.Forbiddenf("user %d has no access to project %s", actor.UserID, project.Code)
	}
	return project, nil
}

// projectStock combines an allocation with the journal totals of its project and material
func projectStock(ctx context.Context, store domain.Store, allocation *domain.Allocation, material *domain.Material) (domain.AllocationStock, error) {
	ordered, received, err := store.SumInward(ctx, allocation.ProjectID, allocation.MaterialID)
	if err != nil {
		return domain.AllocationStock{}, err
	}
	issued, err := store.SumIssued(ctx, allocation.ProjectID, allocation.MaterialID)
	if err != nil {
		return domain.AllocationStock{}, err
	}

	totals := domain.JournalTotals{Ordered: ordered, Received: received, Issued: issued}
	stock := domain.AllocationStock{
		ProjectID:     allocation.ProjectID,
		MaterialID:    allocation.MaterialID,
		RequiredQty:   allocation.RequiredQty,
		TotalOrdered:  totals.Ordered,
		TotalReceived: totals.Received,
		TotalIssued:   totals.Issued,
		Balance:       totals.Balance(),
	}
	if material != nil {
		stock.MaterialCode = material.Code
		stock.MaterialName = material.Name
		stock.Unit = material.Unit
	}
	return stock, nil
}
