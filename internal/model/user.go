package model

import (
	"time"

	"github.com/google/uuid"
)

// Admin roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// ValidRole reports whether a role name is recognised.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// AdminUser is a back-office user managed through the role endpoints.
type AdminUser struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"fullName" db:"full_name"`
	Roles     []string  `json:"roles" db:"roles"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
