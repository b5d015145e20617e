package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/pingv2/ping-service/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// ListUsers returns one page of users in creation order.
func (r *UserRepository) ListUsers(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CountUsers returns the total number of users, independent of paging.
func (r *UserRepository) CountUsers() (int64, error) {
	var total int64
	err := r.db.Model(&models.User{}).Count(&total).Error
	return total, err
}

// SaveUser persists all fields of an existing user. The unique index on
// username makes a conflicting save fail with gorm.ErrDuplicatedKey.
func (r *UserRepository) SaveUser(user *models.User) error {
	return r.db.Save(user).Error
}

// DeleteUser removes the record permanently and reports whether a row
// actually existed. Absence is an outcome here, not an error.
func (r *UserRepository) DeleteUser(id uuid.UUID) (bool, error) {
	res := r.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
