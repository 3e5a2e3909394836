package router

import (
	"time"

	"github.com/drukmenu/drukmenu-backend/config"
	"github.com/drukmenu/drukmenu-backend/internal/app/controller"
	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/service"
	"github.com/drukmenu/drukmenu-backend/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController       *controller.AuthController
	businessController   *controller.BusinessController
	adminController      *controller.AdminController
	menuController       *controller.MenuController
	setupController      *controller.SetupController
	tableController      *controller.TableController
	uploadController     *controller.UploadController
	publicMenuController *controller.PublicMenuController
	authMiddleware       *middleware.AuthMiddleware
	businessResolver     middleware.BusinessResolver
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	businessController *controller.BusinessController,
	adminController *controller.AdminController,
	menuController *controller.MenuController,
	setupController *controller.SetupController,
	tableController *controller.TableController,
	uploadController *controller.UploadController,
	publicMenuController *controller.PublicMenuController,
	authMiddleware *middleware.AuthMiddleware,
	businessResolver middleware.BusinessResolver,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		businessController:   businessController,
		adminController:      adminController,
		menuController:       menuController,
		setupController:      setupController,
		tableController:      tableController,
		uploadController:     uploadController,
		publicMenuController: publicMenuController,
		authMiddleware:       authMiddleware,
		businessResolver:     businessResolver,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "DrukMenu API is running",
		})
	})

	// Owner routes need a signed-in user who owns a business.
	owner := []gin.HandlerFunc{
		r.authMiddleware.Authenticate(),
		middleware.RequireBusiness(r.businessResolver, service.ErrBusinessNotFound),
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		business := v1.Group("/business")
		business.Use(r.authMiddleware.Authenticate())
		{
			business.GET("/me", r.businessController.GetMyBusiness)
			business.PUT("/me", r.businessController.UpdateMyBusiness)
		}

		admin := v1.Group("/admin")
		admin.Use(
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(model.RoleSuperAdmin),
		)
		{
			admin.GET("/businesses", r.adminController.ListBusinesses)
			admin.GET("/businesses/:id", r.adminController.GetBusiness)
			admin.POST("/businesses/:id/approve", r.adminController.ApproveBusiness)
			admin.POST("/businesses/:id/reject", r.adminController.RejectBusiness)
			admin.POST("/businesses/:id/suspend", r.adminController.SuspendBusiness)
			admin.POST("/businesses/:id/reactivate", r.adminController.ReactivateBusiness)
		}

		menu := v1.Group("/menu")
		menu.Use(owner...)
		{
			menu.GET("", r.menuController.GetMenu)
			menu.GET("/export", r.menuController.ExportMenu)

			menu.POST("/categories", r.menuController.CreateCategory)
			menu.POST("/categories/reorder", r.menuController.ReorderCategories)
			menu.PUT("/categories/:id", r.menuController.UpdateCategory)
			menu.DELETE("/categories/:id", r.menuController.DeleteCategory)
			menu.POST("/categories/:id/items/reorder", r.menuController.ReorderItems)

			menu.POST("/items", r.menuController.CreateItem)
			menu.PUT("/items/:id", r.menuController.UpdateItem)
			menu.DELETE("/items/:id", r.menuController.DeleteItem)
			menu.PATCH("/items/:id/availability", r.menuController.ToggleAvailability)

			setup := menu.Group("/setup")
			{
				setup.GET("/templates", r.setupController.ListTemplates)
				setup.POST("/complete", r.setupController.CompleteSetup)
				setup.GET("/status", r.setupController.GetSetupStatus)
				setup.GET("/wizard", r.setupController.OpenWizard)
				setup.POST("/wizard/actions", r.setupController.ApplyWizardAction)
				setup.POST("/wizard/finish", r.setupController.FinishWizard)
				setup.DELETE("/wizard", r.setupController.DiscardWizard)
			}
		}

		tables := v1.Group("/tables")
		tables.Use(owner...)
		{
			tables.GET("", r.tableController.ListTables)
			tables.POST("", r.tableController.CreateTable)
			tables.GET("/:id", r.tableController.GetTable)
			tables.PUT("/:id", r.tableController.UpdateTable)
			tables.DELETE("/:id", r.tableController.DeleteTable)
			tables.GET("/:id/qr", r.tableController.GetQRCode)
			tables.GET("/:id/qr-template", r.tableController.GetQRCard)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/image", r.uploadController.UploadImage)
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		public := v1.Group("/public/menu")
		{
			public.GET("/:businessId/:tableId", r.publicMenuController.GetPublicMenu)
			public.GET("/:businessId/:tableId/ws", r.publicMenuController.Subscribe)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "Cache-Control", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			// Credentials cannot be combined with a wildcard origin.
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = allowedOrigins
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	return cors.New(cfg)
}
