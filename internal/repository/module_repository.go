package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/pingv2/ping-service/internal/models"
	"gorm.io/gorm"
)

type ModuleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

func (r *ModuleRepository) GetModuleByName(name string) (*models.Module, error) {
	var module models.Module
	err := r.db.Where("name = ?", name).First(&module).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &module, nil
}

// IsModuleEnabled reports whether a module with the given name exists and
// is switched on.
func (r *ModuleRepository) IsModuleEnabled(name string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Module{}).
		Where("name = ? AND enabled = ?", name, true).
		Count(&count).Error
	return count > 0, err
}

// HasRoleGrant reports whether any grant links the role to an enabled
// module with the given name.
func (r *ModuleRepository) HasRoleGrant(role models.Role, moduleName string) (bool, error) {
	var count int64
	err := r.db.Model(&models.ModuleRole{}).
		Joins("JOIN modules ON modules.id = module_roles.module_id").
		Where("module_roles.role = ? AND modules.name = ? AND modules.enabled = ?",
			role, moduleName, true).
		Count(&count).Error
	return count > 0, err
}

// GetRoleGrant looks up the grant linking a role to a module, regardless of
// whether the module is enabled.
func (r *ModuleRepository) GetRoleGrant(role models.Role, moduleID uuid.UUID) (*models.ModuleRole, error) {
	var grant models.ModuleRole
	err := r.db.Where("role = ? AND module_id = ?", role, moduleID).First(&grant).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &grant, nil
}

func (r *ModuleRepository) CreateModule(module *models.Module) error {
	return r.db.Create(module).Error
}

func (r *ModuleRepository) CreateModuleRole(grant *models.ModuleRole) error {
	return r.db.Create(grant).Error
}
