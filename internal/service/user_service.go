package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pingv2/ping-service/internal/models"
	"github.com/pingv2/ping-service/internal/repository"
	"github.com/pingv2/ping-service/internal/utils"
	"github.com/pingv2/ping-service/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo    *repository.UserRepository
	messageRepo *repository.MessageRepository
}

func NewUserService(userRepo *repository.UserRepository, messageRepo *repository.MessageRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
	}
}

type CreateUserResult struct {
	ConfirmationMessage string `json:"confirmation_message"`
}

type DeleteUserResult struct {
	Message string `json:"message"`
}

type UserSummary struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type UserDetails struct {
	UserSummary
	Status string `json:"status"`
}

type MessageView struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content"`
	Response  string    `json:"response"`
}

type UserDetailsWithMessages struct {
	UserDetails
	Messages []MessageView `json:"messages"`
}

type UserPage struct {
	Users []UserSummary `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type UpdateUserParams struct {
	Username *string
	Role     *models.Role
}

type UpdateUserResult struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	UpdatedUser *UserSummary `json:"updated_user,omitempty"`
}

// Create stores a new account. The email becomes the login username and
// the role defaults to API_USER. Email format and password strength are
// not validated here.
func (s *UserService) Create(name, email, password string) (*CreateUserResult, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     email,
		PasswordHash: hashedPassword,
		Role:         models.RoleAPIUser,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Log.Warn("Username already exists",
				zap.String("username", email),
			)
			return nil, ErrUsernameTaken
		}
		logger.Log.Error("Failed to create user",
			zap.String("username", email),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return &CreateUserResult{
		ConfirmationMessage: fmt.Sprintf(
			"User %s has been successfully created with ID %s.", name, user.ID),
	}, nil
}

// Delete removes the record permanently. Absence is reported in the
// result message, never as an error.
func (s *UserService) Delete(id uuid.UUID) (*DeleteUserResult, error) {
	deleted, err := s.userRepo.DeleteUser(id)
	if err != nil {
		logger.Log.Error("Failed to delete user",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}

	if !deleted {
		return &DeleteUserResult{
			Message: fmt.Sprintf("User with ID %s not found or could not be deleted.", id),
		}, nil
	}

	logger.Log.Info("User deleted", zap.String("user_id", id.String()))

	return &DeleteUserResult{
		Message: fmt.Sprintf("User with ID %s was successfully deleted.", id),
	}, nil
}

// GetDetails returns the full record plus the derived status. Fails with
// ErrUserNotFound when the id does not exist.
func (s *UserService) GetDetails(id uuid.UUID) (*UserDetails, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	details := buildDetails(user)
	return &details, nil
}

// GetDetailsWithMessages returns the record plus the user's ping exchange
// history in persisted order.
func (s *UserService) GetDetailsWithMessages(id uuid.UUID) (*UserDetailsWithMessages, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	messages, err := s.messageRepo.GetMessagesByUser(id)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, MessageView{
			ID:        msg.ID,
			CreatedAt: msg.CreatedAt,
			Content:   msg.Content,
			Response:  msg.Response,
		})
	}

	return &UserDetailsWithMessages{
		UserDetails: buildDetails(user),
		Messages:    views,
	}, nil
}

// List returns one page of users in creation order plus the total count
// across all users. Page and limit are 1-indexed positive values.
func (s *UserService) List(page, limit int) (*UserPage, error) {
	if page < 1 || limit < 1 {
		return nil, ErrInvalidPagination
	}

	offset := (page - 1) * limit

	users, err := s.userRepo.ListUsers(offset, limit)
	if err != nil {
		logger.Log.Error("Failed to list users", zap.Error(err))
		return nil, err
	}

	total, err := s.userRepo.CountUsers()
	if err != nil {
		logger.Log.Error("Failed to count users", zap.Error(err))
		return nil, err
	}

	summaries := make([]UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, buildSummary(&users[i]))
	}

	return &UserPage{
		Users: summaries,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Update applies the given field changes. Not-found, username conflicts
// and store failures are all reported through the result, never raised.
// An invalid role is the one typed failure.
func (s *UserService) Update(id uuid.UUID, params UpdateUserParams) (*UpdateUserResult, error) {
	if params.Role != nil && !params.Role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return &UpdateUserResult{
			Success: false,
			Message: "Failed to update user: " + err.Error(),
		}, nil
	}
	if user == nil {
		return &UpdateUserResult{Success: false, Message: "User not found."}, nil
	}

	if params.Username != nil && *params.Username != user.Username {
		// Friendly pre-check; the unique index below is what actually
		// guarantees it under concurrency.
		existing, err := s.userRepo.GetUserByUsername(*params.Username)
		if err != nil {
			return &UpdateUserResult{
				Success: false,
				Message: "Failed to update user: " + err.Error(),
			}, nil
		}
		if existing != nil && existing.ID != id {
			return &UpdateUserResult{Success: false, Message: "Username already in use."}, nil
		}
		user.Username = *params.Username
	}
	if params.Role != nil {
		user.Role = *params.Role
	}

	if err := s.userRepo.SaveUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &UpdateUserResult{Success: false, Message: "Username already in use."}, nil
		}
		logger.Log.Error("Failed to save user",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
		return &UpdateUserResult{
			Success: false,
			Message: "Failed to update user: " + err.Error(),
		}, nil
	}

	logger.Log.Info("User updated",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)

	summary := buildSummary(user)
	return &UpdateUserResult{
		Success:     true,
		Message:     "User updated successfully.",
		UpdatedUser: &summary,
	}, nil
}

func buildSummary(user *models.User) UserSummary {
	return UserSummary{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func buildDetails(user *models.User) UserDetails {
	return UserDetails{
		UserSummary: buildSummary(user),
		Status:      user.Status(),
	}
}
