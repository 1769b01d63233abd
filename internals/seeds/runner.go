package seeds

import (
	"log"

	"attendance_backend/internals/configs"
	users "attendance_backend/internals/seeds/users/auth"

	"gorm.io/gorm"
)

// RunAllSeeds is idempotent; main calls it once after migrations.
func RunAllSeeds(db *gorm.DB, cfg *configs.Config) error {
	created, err := users.EnsureAdmin(db, cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword, cfg.BootstrapAdminFullName)
	if err != nil {
		return err
	}
	if created {
		log.Printf("[SEED] bootstrap administrator %q created", cfg.BootstrapAdminUsername)
	}

	if cfg.SeedUsersFile != "" {
		if err := users.SeedUsersFromJSON(db, cfg.SeedUsersFile); err != nil {
			return err
		}
	}
	return nil
}
