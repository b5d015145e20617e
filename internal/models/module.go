package models

import (
	"time"

	"github.com/google/uuid"
)

// SecurityModuleName is the feature flag gating the authorized ping path.
const SecurityModuleName = "SECURITY"

// Module is a named feature flag.
type Module struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Enabled   bool      `gorm:"not null;default:false" json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ModuleRole grants a role access while the linked module is enabled.
type ModuleRole struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Role     Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	ModuleID uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`

	Module Module `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"-"`
}
