package service_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pingv2/ping-service/internal/cache"
	"github.com/pingv2/ping-service/internal/journal"
	"github.com/pingv2/ping-service/internal/models"
	"github.com/pingv2/ping-service/internal/repository"
	"github.com/pingv2/ping-service/internal/service"
	"github.com/pingv2/ping-service/internal/testutil"
	"github.com/pingv2/ping-service/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PingServiceTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	moduleRepo  *repository.ModuleRepository
	messageRepo *repository.MessageRepository
	userRepo    *repository.UserRepository
}

func (s *PingServiceTestSuite) SetupSuite() {
	require.NoError(s.T(), logger.Init(false))

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.moduleRepo = repository.NewModuleRepository(s.testDB.DB)
	s.messageRepo = repository.NewMessageRepository(s.testDB.DB)
	s.userRepo = repository.NewUserRepository(s.testDB.DB)
}

func (s *PingServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *PingServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

// newService builds a ping service with a fresh journal and no cache.
func (s *PingServiceTestSuite) newService(enforceGrant bool) *service.PingService {
	jnl, err := journal.New(filepath.Join(s.T().TempDir(), "ping.journal"))
	require.NoError(s.T(), err)
	s.T().Cleanup(func() { jnl.Close() })

	return service.NewPingService(s.moduleRepo, s.messageRepo, jnl, nil, enforceGrant)
}

func (s *PingServiceTestSuite) seedUser(username string) *models.User {
	user, err := testutil.NewTestUser(username, "password123", models.RoleAPIUser)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.userRepo.CreateUser(user))
	return user
}

func (s *PingServiceTestSuite) TestPing_PlainEchoHasNoGate() {
	svc := s.newService(false)

	// No SECURITY module seeded at all.
	result := svc.Ping("hello")

	assert.Equal(s.T(), "pong: hello", result.ResponseMessage)
}

func (s *PingServiceTestSuite) TestSendPing_NoSecurityModule() {
	svc := s.newService(false)
	user := s.seedUser("pinger@example.com")

	_, err := svc.SendPing(user.ID, "hello")

	assert.ErrorIs(s.T(), err, service.ErrSecurityModuleDisabled)
}

func (s *PingServiceTestSuite) TestSendPing_ModuleDisabled() {
	require.NoError(s.T(), s.testDB.DB.Create(testutil.NewSecurityModule(false)).Error)
	svc := s.newService(false)
	user := s.seedUser("pinger@example.com")

	_, err := svc.SendPing(user.ID, "hello")

	assert.ErrorIs(s.T(), err, service.ErrSecurityModuleDisabled)
}

func (s *PingServiceTestSuite) TestSendPing_ModuleEnabled() {
	require.NoError(s.T(), s.testDB.DB.Create(testutil.NewSecurityModule(true)).Error)
	svc := s.newService(false)
	user := s.seedUser("pinger@example.com")

	result, err := svc.SendPing(user.ID, "hello")
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "pong: hello", result.ResponseMessage)

	// The exchange is recorded against the user.
	messages, err := s.messageRepo.GetMessagesByUser(user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), messages, 1)
	assert.Equal(s.T(), "hello", messages[0].Content)
	assert.Equal(s.T(), "pong: hello", messages[0].Response)
}

func (s *PingServiceTestSuite) TestSendPing_GrantEnforced_NoGrant() {
	// Module enabled, but no API_USER grant and enforcement switched on.
	require.NoError(s.T(), s.testDB.DB.Create(testutil.NewSecurityModule(true)).Error)
	svc := s.newService(true)
	user := s.seedUser("pinger@example.com")

	_, err := svc.SendPing(user.ID, "hello")

	assert.ErrorIs(s.T(), err, service.ErrPingNotAuthorized)
}

func (s *PingServiceTestSuite) TestSendPing_GrantEnforced_WithGrant() {
	module := testutil.NewSecurityModule(true)
	require.NoError(s.T(), s.testDB.DB.Create(module).Error)
	require.NoError(s.T(), s.testDB.DB.Create(testutil.NewRoleGrant(models.RoleAPIUser, module.ID)).Error)
	svc := s.newService(true)
	user := s.seedUser("pinger@example.com")

	result, err := svc.SendPing(user.ID, "hello")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "pong: hello", result.ResponseMessage)
}

func (s *PingServiceTestSuite) TestIsAuthorizedToPing_IgnoresUserID() {
	// The grant lookup is role-scoped: any userID sees the same answer.
	module := testutil.NewSecurityModule(true)
	require.NoError(s.T(), s.testDB.DB.Create(module).Error)
	require.NoError(s.T(), s.testDB.DB.Create(testutil.NewRoleGrant(models.RoleAPIUser, module.ID)).Error)
	svc := s.newService(false)

	userA := s.seedUser("a@example.com")
	userB := s.seedUser("b@example.com")

	authA, err := svc.IsAuthorizedToPing(userA.ID)
	require.NoError(s.T(), err)
	authB, err := svc.IsAuthorizedToPing(userB.ID)
	require.NoError(s.T(), err)

	assert.True(s.T(), authA)
	assert.True(s.T(), authB)
}

func (s *PingServiceTestSuite) TestRecoverJournal_ReplaysUnpersistedEntries() {
	user := s.seedUser("crashed@example.com")

	jnlPath := filepath.Join(s.T().TempDir(), "ping.journal")
	jnl, err := journal.New(jnlPath)
	require.NoError(s.T(), err)
	defer jnl.Close()

	// Simulate a crash after the journal append but before the insert.
	orphan := testutil.NewTestMessage(user.ID, "lost", "pong: lost")
	require.NoError(s.T(), jnl.Append(journal.Entry{
		ID:        orphan.ID.String(),
		UserID:    user.ID.String(),
		Content:   orphan.Content,
		Response:  orphan.Response,
		Timestamp: time.Now(),
	}))

	svc := service.NewPingService(s.moduleRepo, s.messageRepo, jnl, nil, false)
	require.NoError(s.T(), svc.RecoverJournal())

	messages, err := s.messageRepo.GetMessagesByUser(user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), messages, 1)
	assert.Equal(s.T(), "lost", messages[0].Content)

	// Replayed entries are compacted away.
	entries, err := jnl.ReadAll()
	require.NoError(s.T(), err)
	assert.Empty(s.T(), entries)
}

func (s *PingServiceTestSuite) TestIsSecurityModuleEnabled_CachedFlag() {
	testRedis := testutil.SetupTestRedis(s.T())
	defer testRedis.Teardown(s.T())

	opt, err := redis.ParseURL(testRedis.URL)
	require.NoError(s.T(), err)
	client := redis.NewClient(opt)
	defer client.Close()

	flags := cache.NewFlagCacheWithClient(client, time.Minute)

	module := testutil.NewSecurityModule(true)
	require.NoError(s.T(), s.testDB.DB.Create(module).Error)

	svc := service.NewPingService(s.moduleRepo, s.messageRepo, nil, flags, false)

	// First call populates the cache from the store.
	enabled, err := svc.IsSecurityModuleEnabled()
	require.NoError(s.T(), err)
	assert.True(s.T(), enabled)

	// Flip the store; the cached value is served until invalidated.
	require.NoError(s.T(), s.testDB.DB.Model(module).Update("enabled", false).Error)

	enabled, err = svc.IsSecurityModuleEnabled()
	require.NoError(s.T(), err)
	assert.True(s.T(), enabled, "Within the TTL the cache answers")

	flags.Invalidate(models.SecurityModuleName)

	enabled, err = svc.IsSecurityModuleEnabled()
	require.NoError(s.T(), err)
	assert.False(s.T(), enabled, "After invalidation the store answers")
}

func TestPingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PingServiceTestSuite))
}
