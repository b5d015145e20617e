package repository

import (
	"github.com/google/uuid"
	"github.com/pingv2/ping-service/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetMessagesByUser returns a user's exchange history in persisted order.
func (r *MessageRepository) GetMessagesByUser(userID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&messages).Error

	return messages, err
}

// BatchInsert bulk inserts messages (journal replay).
func (r *MessageRepository) BatchInsert(messages []models.Message) error {
	if len(messages) == 0 {
		return nil
	}
	return r.db.CreateInBatches(messages, 500).Error
}

// Exists reports whether a message with the given ID is already stored.
func (r *MessageRepository) Exists(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Message{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
