package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drukmenu/drukmenu-backend/config"
	"github.com/drukmenu/drukmenu-backend/internal/app/controller"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/internal/app/service"
	"github.com/drukmenu/drukmenu-backend/internal/db"
	"github.com/drukmenu/drukmenu-backend/internal/middleware"
	"github.com/drukmenu/drukmenu-backend/internal/router"
	"github.com/drukmenu/drukmenu-backend/internal/scheduler"
	"github.com/drukmenu/drukmenu-backend/internal/storage"
	ws "github.com/drukmenu/drukmenu-backend/internal/websocket"
	"github.com/drukmenu/drukmenu-backend/internal/wizard"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/drukmenu/drukmenu-backend/pkg/mailer"
	"github.com/drukmenu/drukmenu-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.ConfigForEnvironment(cfg.Server.Environment))

	logger.Info("Starting DrukMenu Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := db.SeedSuperAdmin(db.GetDB(), cfg.SuperAdmin); err != nil {
		logger.Warn("Failed to seed super admin", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs wizard drafts and the refresh token blacklist. Without it
	// drafts live in process memory and logout cannot revoke tokens.
	var (
		draftStore wizard.Store
		blacklist  service.TokenBlacklist
	)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, using in-memory wizard drafts", map[string]interface{}{
			"error": err.Error(),
		})
		draftStore = wizard.NewMemoryStore(cfg.Redis.WizardDraftTTL)
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		draftStore = wizard.NewRedisStore(redis.GetClient(), cfg.Redis.WizardDraftTTL)
		blacklist = redis.NewTokenBlacklist(redis.GetClient())
	}

	var notifier service.StatusNotifier
	if cfg.SMTP.Enabled() {
		notifier = mailer.New(cfg.SMTP)
	} else {
		logger.Info("SMTP not configured, status notices disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	objectStorage := storage.NewS3Storage(cfg.S3)

	// Initialize repositories
	conn := db.GetDB()
	userRepo := repository.NewUserRepository(conn)
	businessRepo := repository.NewBusinessRepository(conn)
	tableRepo := repository.NewTableRepository(conn)
	menuRepo := repository.NewMenuRepository(conn)
	statusRepo := repository.NewSetupStatusRepository(conn)

	// Initialize services
	authService := service.NewAuthService(
		conn,
		userRepo,
		businessRepo,
		blacklist,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	businessService := service.NewBusinessService(businessRepo, notifier)
	menuService := service.NewMenuService(conn, menuRepo, hub)
	setupService := service.NewSetupService(conn, menuRepo, statusRepo, hub)
	wizardService := service.NewSetupWizardService(setupService, draftStore)
	tableService := service.NewTableService(tableRepo, businessRepo, objectStorage, cfg.Server.PublicBaseURL)
	publicMenuService := service.NewPublicMenuService(businessRepo, tableRepo, menuRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	businessController := controller.NewBusinessController(businessService)
	adminController := controller.NewAdminController(businessService)
	menuController := controller.NewMenuController(menuService)
	setupController := controller.NewSetupController(setupService, wizardService)
	tableController := controller.NewTableController(tableService)
	uploadController := controller.NewUploadController(objectStorage)
	publicMenuController := controller.NewPublicMenuController(
		publicMenuService,
		hub,
		ws.NewUpgrader(cfg.CORS.AllowedOrigins),
	)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		authController,
		businessController,
		adminController,
		menuController,
		setupController,
		tableController,
		uploadController,
		publicMenuController,
		authMiddleware,
		businessService,
		cfg,
	)
	engine := r.Setup()

	if cfg.Scheduler.QRBackfillEnabled {
		qrScheduler := scheduler.NewQRBackfillScheduler(tableService, cfg.Scheduler.QRBackfillSpec)
		if err := qrScheduler.Start(); err != nil {
			logger.Error("Failed to start QR backfill scheduler", err)
		} else {
			defer qrScheduler.Stop()
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
