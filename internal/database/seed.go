package database

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/flowline-app/flowmsgo/internal/models"
	"github.com/flowline-app/flowmsgo/internal/utils"
)

// seedPassword is the initial password for seeded accounts.
const seedPassword = "1234567"

// seedAccount describes one default principal.
type seedAccount struct {
	username    string
	role        string
	permissions []string
	department  string
}

var defaultAccounts = []seedAccount{
	{username: "superadmin", role: models.RoleSuperAdmin},
	{username: "admin", role: models.RoleAdmin},
	{username: "employee", role: models.RoleEmployee, permissions: []string{"ORDER_ENTRY", "TASK_MANAGER"}, department: "Operations"},
	{username: "E1", role: models.RoleEmployee, permissions: []string{"ORDER_ENTRY"}, department: "Production"},
	{username: "E2", role: models.RoleEmployee, permissions: []string{"TASK_MANAGER"}, department: "Production"},
	{username: "E3", role: models.RoleEmployee, department: "Production"},
}

// SeedDefaults creates the bootstrap accounts if they do not exist yet.
// Employee accounts get a matching Employee profile so permission tags
// resolve.
func (db *DB) SeedDefaults() error {
	hash, err := utils.HashPassword(seedPassword)
	if err != nil {
		return err
	}

	var adminID string

	for _, seed := range defaultAccounts {
		var existing models.UserAccount
		err := db.Where("username = ?", seed.username).First(&existing).Error
		if err == nil {
			if seed.role == models.RoleAdmin && adminID == "" {
				adminID = existing.ID
			}
			continue
		}

		account := models.UserAccount{
			ID:          uuid.NewString(),
			Username:    seed.username,
			Password:    hash,
			Role:        seed.role,
			Permissions: datatypes.JSONSlice[string](seed.permissions),
		}
		if err := db.Create(&account).Error; err != nil {
			log.Printf("⚠️ Seed: could not create account %s: %v", seed.username, err)
			continue
		}
		if seed.role == models.RoleAdmin && adminID == "" {
			adminID = account.ID
		}

		if seed.role == models.RoleEmployee {
			profile := models.Employee{
				ID:          uuid.NewString(),
				Name:        seed.username,
				Department:  seed.department,
				Status:      models.EmployeeActive,
				AdminID:     adminID,
				Permissions: datatypes.JSONSlice[string](seed.permissions),
			}
			if err := db.Create(&profile).Error; err != nil {
				log.Printf("⚠️ Seed: could not create employee profile %s: %v", seed.username, err)
			}
		}
		log.Printf("🌱 Seeded account %s (%s)", seed.username, seed.role)
	}
	return nil
}
