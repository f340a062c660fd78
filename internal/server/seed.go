package server

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"crudefi-api/internal/model"
	"crudefi-api/internal/permission"
	"crudefi-api/internal/repository"
	"crudefi-api/pkg/config"
	"crudefi-api/pkg/logger"
)

// Seed creates the default work roles and the first admin account when they
// are missing. Running it again changes nothing.
func Seed(db *gorm.DB, cfg config.SeedConfig) error {
	log := logger.Component("seed")

	created, err := repository.NewWorkRoleRepo(db).SeedDefaults(model.DefaultWorkRoles)
	if err != nil {
		return fmt.Errorf("seed work roles: %w", err)
	}
	if created > 0 {
		log.WithField("count", created).Info("Default work roles created")
	}

	if cfg.AdminEmail == "" {
		return nil
	}
	userRepo := repository.NewUserRepo(db)
	_, err = userRepo.FindByEmail(cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	admin := &model.User{
		Email:    cfg.AdminEmail,
		FullName: "Administrator",
		Role:     permission.RoleAdmin,
		IsActive: true,
	}
	admin.Stamp("system")
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := userRepo.Create(admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.WithField("email", admin.Email).Warn("Admin user created with the configured password, change it after first login")
	return nil
}
