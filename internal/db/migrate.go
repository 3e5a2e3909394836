package db

import (
	"errors"

	"github.com/drukmenu/drukmenu-backend/config"
	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/drukmenu/drukmenu-backend/pkg/util"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := model.All()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedSuperAdmin creates the platform administrator account if it is
// configured and missing. Existing accounts are left untouched.
func SeedSuperAdmin(conn *gorm.DB, cfg config.SuperAdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Debug("Super admin credentials not configured, skipping seed")
		return nil
	}

	var existing model.User
	err := conn.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		logger.Debug("Super admin already present", map[string]interface{}{
			"user_id": existing.ID,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        cfg.Email,
		PasswordHash: hash,
		Name:         "Super Admin",
		Role:         model.RoleSuperAdmin,
	}
	if err := conn.Create(admin).Error; err != nil {
		logger.Error("Failed to seed super admin", err)
		return err
	}

	logger.Info("Super admin seeded", map[string]interface{}{
		"user_id": admin.ID,
		"email":   admin.Email,
	})
	return nil
}
