package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/pingv2/ping-service/internal/models"
	"github.com/pingv2/ping-service/internal/utils"
)

// NewTestUser builds a user with a real password hash. Not persisted.
func NewTestUser(username, password string, role models.Role) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}, nil
}

// NewTestUserAt builds a user with fixed timestamps, for tests that depend
// on creation order or the derived status.
func NewTestUserAt(username string, createdAt time.Time) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "x",
		Role:         models.RoleAPIUser,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// NewTestMessage builds a ping exchange record for a user.
func NewTestMessage(userID uuid.UUID, content, response string) *models.Message {
	return &models.Message{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   content,
		Response:  response,
		CreatedAt: time.Now(),
	}
}

// NewSecurityModule builds the SECURITY feature flag row.
func NewSecurityModule(enabled bool) *models.Module {
	return &models.Module{
		ID:      uuid.New(),
		Name:    models.SecurityModuleName,
		Enabled: enabled,
	}
}

// NewRoleGrant links a role to a module.
func NewRoleGrant(role models.Role, moduleID uuid.UUID) *models.ModuleRole {
	return &models.ModuleRole{
		ID:       uuid.New(),
		Role:     role,
		ModuleID: moduleID,
	}
}
