package main

import (
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/pingv2/ping-service/internal/config"
	"github.com/pingv2/ping-service/internal/database"
	"github.com/pingv2/ping-service/internal/models"
	"github.com/pingv2/ping-service/internal/repository"
	"github.com/pingv2/ping-service/internal/utils"
)

// Seeds the SECURITY module, the API_USER grant under it, and an initial
// SYSTEM_ADMIN account from the environment. Safe to run repeatedly.
func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	moduleRepo := repository.NewModuleRepository(database.DB)
	userRepo := repository.NewUserRepository(database.DB)

	seedSecurityModule(moduleRepo)
	seedAdmin(userRepo)
}

func seedSecurityModule(repo *repository.ModuleRepository) {
	module, err := repo.GetModuleByName(models.SecurityModuleName)
	if err != nil {
		log.Fatal("Failed to look up security module:", err)
	}

	if module != nil {
		log.Println("Security module already exists, enabled:", module.Enabled)
	} else {
		module = &models.Module{
			ID:      uuid.New(),
			Name:    models.SecurityModuleName,
			Enabled: true,
		}
		if err := repo.CreateModule(module); err != nil {
			log.Fatal("Failed to create security module:", err)
		}
		log.Println("Security module created and enabled")
	}

	grant, err := repo.GetRoleGrant(models.RoleAPIUser, module.ID)
	if err != nil {
		log.Fatal("Failed to look up role grant:", err)
	}
	if grant != nil {
		log.Println("API_USER grant already exists")
		return
	}

	grant = &models.ModuleRole{
		ID:       uuid.New(),
		Role:     models.RoleAPIUser,
		ModuleID: module.ID,
	}
	if err := repo.CreateModuleRole(grant); err != nil {
		log.Fatal("Failed to create role grant:", err)
	}
	log.Println("API_USER grant created")
}

func seedAdmin(repo *repository.UserRepository) {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminPassword == "" {
		log.Println("ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	existing, err := repo.GetUserByUsername(adminUsername)
	if err != nil {
		log.Fatal("Failed to look up admin user:", err)
	}
	if existing != nil {
		log.Println("Admin user already exists:", existing.Username)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := &models.User{
		ID:           uuid.New(),
		Username:     adminUsername,
		PasswordHash: passwordHash,
		Role:         models.RoleSystemAdmin,
	}

	if err := repo.CreateUser(admin); err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created:", admin.Username)
}
