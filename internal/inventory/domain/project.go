package domain

import (
	"time"
)

// Project is the site or job that owns allocations and movements.
// Project administration lives upstream; the ledger only resolves and reads it.
type Project struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"size:64;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Location  string    `json:"location" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Project) TableName() string {
	return "projects"
}

// ProjectMember grants a user access to a project
type ProjectMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProjectID uint      `json:"project_id" gorm:"not null;uniqueIndex:idx_project_member"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_project_member"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (ProjectMember) TableName() string {
	return "project_members"
}
