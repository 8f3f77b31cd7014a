package access

import (
	"context"

	"github.com/tair/material-ledger/internal/inventory/domain"
)

// MembershipPolicy grants project access to privileged actors and to project members
type MembershipPolicy struct {
	projects domain.ProjectRepository
}

// NewMembershipPolicy creates a new membership based access policy
func NewMembershipPolicy(projects domain.ProjectRepository) *MembershipPolicy {
	return &MembershipPolicy{projects: projects}
}

// CanAccessProject implements domain.AccessPolicy
func (p *MembershipPolicy) CanAccessProject(ctx context.Context, actor domain.Actor, projectID uint) (bool, error) {
	if actor.IsPrivileged() {
		return true, nil
	}
	if actor.UserID == 0 {
		return false, nil
	}
	return p.projects.IsProjectMember(ctx, projectID, actor.UserID)
}

// AllowAll grants every actor access to every project
type AllowAll struct{}

// CanAccessProject implements domain.AccessPolicy
func (AllowAll) CanAccessProject(context.Context, domain.Actor, uint) (bool, error) {
	return true, nil
}
