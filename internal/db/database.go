package db

import (
	"context"
	"fmt"
	"time"

	"github.com/drukmenu/drukmenu-backend/config"
	appLogger "github.com/drukmenu/drukmenu-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const pingTimeout = 5 * time.Second

var DB *gorm.DB

// Initialize opens the postgres connection pool and verifies it answers.
func Initialize(cfg *config.DatabaseConfig) error {
	appLogger.Info("Connecting to database", map[string]interface{}{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.DBName,
		"user":     cfg.User,
	})

	conn, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig(cfg.SlowQueryThreshold))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("database did not answer ping: %w", err)
	}

	DB = conn
	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"max_idle_conns":    cfg.MaxIdleConns,
		"max_open_conns":    cfg.MaxOpenConns,
		"conn_max_lifetime": cfg.ConnMaxLifetime.String(),
	})
	return nil
}

// gormWriter routes gorm's slow query and error lines into the app logger.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	appLogger.Warn("gorm", map[string]interface{}{
		"detail": fmt.Sprintf(format, args...),
	})
}

// gormConfig is shared by the postgres and sqlite connections so duplicate
// keys surface as gorm.ErrDuplicatedKey on both. A zero slowThreshold
// silences gorm entirely.
func gormConfig(slowThreshold time.Duration) *gorm.Config {
	gormLogger := logger.Default.LogMode(logger.Silent)
	if slowThreshold > 0 {
		gormLogger = logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	}
	return &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	}
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
