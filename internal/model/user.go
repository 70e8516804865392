package model

import (
	"time"
)

// Role names used across the service. Mutation routes are gated on these;
// see middleware.RequireEditor.
const (
	RoleRoot    = "root"
	RoleAddOnly = "add-only"
	RoleEdit    = "edit"
	RoleFull    = "full"
)

// User represents an operator account stored in the database.
// At most one row may carry IsRoot = true.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(100);uniqueIndex"`
	Email     string    `json:"email" gorm:"type:varchar(100)"`
	Password  string    `json:"-" gorm:"type:varchar(255)"`
	Role      string    `json:"role" gorm:"type:varchar(20)"`
	IsRoot    bool      `json:"isRoot"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// ValidRole reports whether s is one of the four known roles.
func ValidRole(s string) bool {
	switch s {
	case RoleRoot, RoleAddOnly, RoleEdit, RoleFull:
		return true
	}
	return false
}

// CanMutate reports whether a role is allowed to update or delete records.
// Add-only operators may create but not change existing rows.
func CanMutate(role string) bool {
	return role == RoleRoot || role == RoleEdit || role == RoleFull
}
