package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a historical record of a ping exchange: the content the user
// sent and the response the server returned. Rows are append-only.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Response  string    `gorm:"type:text;not null" json:"response"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
