package domain

import "context"

// Role types
const (
	RoleAdmin       = "admin"
	RoleStoreKeeper = "store_keeper"
	RoleSystem      = "system"
)

// Actor is the identity resolved upstream for the caller of a ledger operation
type Actor struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

// IsPrivileged reports whether the actor bypasses project membership
func (a Actor) IsPrivileged() bool {
	return a.Role == RoleAdmin || a.Role == RoleSystem
}

// SystemActor is used for changes fed from other services
func SystemActor() Actor {
	return Actor{Role: RoleSystem}
}

// AccessPolicy decides whether an actor may act on a project
type AccessPolicy interface {
	CanAccessProject(ctx context.Context, actor Actor, projectID uint) (bool, error)
}
