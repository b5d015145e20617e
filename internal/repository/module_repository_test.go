package repository

import (
	"testing"

	"github.com/pingv2/ping-service/internal/models"
	"github.com/pingv2/ping-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ModuleRepositoryTestSuite struct {
	suite.Suite
	testDB *testutil.TestDatabase
	repo   *ModuleRepository
}

func (s *ModuleRepositoryTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.repo = NewModuleRepository(s.testDB.DB)
}

func (s *ModuleRepositoryTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *ModuleRepositoryTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *ModuleRepositoryTestSuite) TestGetModuleByName_Missing() {
	module, err := s.repo.GetModuleByName(models.SecurityModuleName)

	require.NoError(s.T(), err)
	assert.Nil(s.T(), module)
}

func (s *ModuleRepositoryTestSuite) TestCreateAndGetModule() {
	created := testutil.NewSecurityModule(true)
	require.NoError(s.T(), s.repo.CreateModule(created))

	found, err := s.repo.GetModuleByName(models.SecurityModuleName)

	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
	assert.Equal(s.T(), created.ID, found.ID)
	assert.True(s.T(), found.Enabled)
}

func (s *ModuleRepositoryTestSuite) TestIsModuleEnabled_DisabledModule() {
	require.NoError(s.T(), s.repo.CreateModule(testutil.NewSecurityModule(false)))

	enabled, err := s.repo.IsModuleEnabled(models.SecurityModuleName)

	require.NoError(s.T(), err)
	assert.False(s.T(), enabled)
}

func (s *ModuleRepositoryTestSuite) TestRoleGrantLifecycle() {
	module := testutil.NewSecurityModule(true)
	require.NoError(s.T(), s.repo.CreateModule(module))

	grant, err := s.repo.GetRoleGrant(models.RoleAPIUser, module.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), grant, "No grant before one is created")

	require.NoError(s.T(), s.repo.CreateModuleRole(testutil.NewRoleGrant(models.RoleAPIUser, module.ID)))

	grant, err = s.repo.GetRoleGrant(models.RoleAPIUser, module.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), grant)
	assert.Equal(s.T(), models.RoleAPIUser, grant.Role)

	granted, err := s.repo.HasRoleGrant(models.RoleAPIUser, models.SecurityModuleName)
	require.NoError(s.T(), err)
	assert.True(s.T(), granted)
}

func (s *ModuleRepositoryTestSuite) TestGetRoleGrant_IgnoresEnabledFlag() {
	module := testutil.NewSecurityModule(false)
	require.NoError(s.T(), s.repo.CreateModule(module))
	require.NoError(s.T(), s.repo.CreateModuleRole(testutil.NewRoleGrant(models.RoleAPIUser, module.ID)))

	// The seeding path must see the grant even while the module is off,
	// or repeated runs would duplicate it.
	grant, err := s.repo.GetRoleGrant(models.RoleAPIUser, module.ID)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), grant)

	granted, err := s.repo.HasRoleGrant(models.RoleAPIUser, models.SecurityModuleName)
	require.NoError(s.T(), err)
	assert.False(s.T(), granted, "Authorization requires the module to be enabled")
}

func TestModuleRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ModuleRepositoryTestSuite))
}
