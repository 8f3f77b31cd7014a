package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tair/material-ledger/internal/inventory/domain"
)

const dateLayout = "2006-01-02"

// authorize resolves a project and checks the actor may act on it
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

// parseDate parses a yyyy-mm-dd date, defaulting to today when blank
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domain.BadRequestf("%s must be a date in YYYY-MM-DD format, got %q", field, value)
	}
	return t, nil
}

// parseOptionalDate parses a yyyy-mm-dd date, returning nil when blank
func parseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
