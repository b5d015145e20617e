package service_test

import (
	"testing"
	"time"

	"github.com/pingv2/ping-service/internal/models"
	"github.com/pingv2/ping-service/internal/repository"
	"github.com/pingv2/ping-service/internal/service"
	"github.com/pingv2/ping-service/internal/testutil"
	"github.com/pingv2/ping-service/internal/utils"
	"github.com/pingv2/ping-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const authTestSecret = "auth-test-secret"

type AuthServiceTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	userRepo    *repository.UserRepository
	authService *service.AuthService
}

func (s *AuthServiceTestSuite) SetupSuite() {
	require.NoError(s.T(), logger.Init(false))

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.userRepo = repository.NewUserRepository(s.testDB.DB)
	s.authService = service.NewAuthService(s.userRepo, authTestSecret, time.Hour)
}

func (s *AuthServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *AuthServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *AuthServiceTestSuite) TestAuthenticate_Success() {
	user, err := testutil.NewTestUser("login@example.com", "correct-horse", models.RoleAPIUser)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.userRepo.CreateUser(user))

	result, err := s.authService.Authenticate("login@example.com", "correct-horse")
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "Authentication successful", result.Message)
	require.NotEmpty(s.T(), result.Token)

	// The issued token validates and carries the user identity.
	claims, err := utils.ValidateToken(result.Token, authTestSecret)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, claims.UserID)
	assert.Equal(s.T(), "login@example.com", claims.Username)
}

func (s *AuthServiceTestSuite) TestAuthenticate_WrongPassword() {
	user, err := testutil.NewTestUser("login@example.com", "correct-horse", models.RoleAPIUser)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.userRepo.CreateUser(user))

	result, err := s.authService.Authenticate("login@example.com", "battery-staple")
	require.NoError(s.T(), err, "Wrong password is an outcome, not an error")

	assert.Empty(s.T(), result.Token)
	assert.Equal(s.T(), "Incorrect password", result.Message)
}

func (s *AuthServiceTestSuite) TestAuthenticate_UnknownUser() {
	result, err := s.authService.Authenticate("nobody@example.com", "whatever")
	require.NoError(s.T(), err)

	assert.Empty(s.T(), result.Token)
	assert.Equal(s.T(), "User not found", result.Message)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
