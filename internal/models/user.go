package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAPIUser     Role = "API_USER"
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
)

// Valid reports whether the role is one of the two supported tiers.
func (r Role) Valid() bool {
	return r == RoleAPIUser || r == RoleSystemAdmin
}

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	Role         Role      `gorm:"type:varchar(20);not null;default:'API_USER'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Status derives the presentation-layer account status: a record that has
// been mutated since creation (updated_at strictly after created_at) is
// Active, otherwise Inactive. Not a stored field.
func (u *User) Status() string {
	if u.UpdatedAt.After(u.CreatedAt) {
		return StatusActive
	}
	return StatusInactive
}
