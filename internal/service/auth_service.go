package service

import (
	"time"

	"github.com/pingv2/ping-service/internal/repository"
	"github.com/pingv2/ping-service/internal/utils"
	"github.com/pingv2/ping-service/pkg/logger"
	"go.uber.org/zap"
)

// AuthResult reports the authentication outcome. A failed attempt carries
// an empty token and the reason in Message.
type AuthResult struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Authenticate verifies the credentials against the stored hash and issues
// a bearer token on success. Unknown users and wrong passwords are
// reported outcomes, not errors; only store or signing failures raise.
func (s *AuthService) Authenticate(username, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to look up user",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		logger.Log.Warn("Authentication failed: user not found",
			zap.String("username", username),
		)
		return &AuthResult{Token: "", Message: "User not found"}, nil
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}
	if !valid {
		logger.Log.Warn("Authentication failed: incorrect password",
			zap.String("username", username),
		)
		return &AuthResult{Token: "", Message: "Incorrect password"}, nil
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("User authenticated",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return &AuthResult{Token: token, Message: "Authentication successful"}, nil
}
