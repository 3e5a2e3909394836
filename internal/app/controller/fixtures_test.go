package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/internal/app/service"
	"github.com/drukmenu/drukmenu-backend/internal/db"
	apperrors "github.com/drukmenu/drukmenu-backend/internal/errors"
	"github.com/drukmenu/drukmenu-backend/internal/middleware"
	"github.com/drukmenu/drukmenu-backend/internal/storage"
	ws "github.com/drukmenu/drukmenu-backend/internal/websocket"
	"github.com/drukmenu/drukmenu-backend/internal/wizard"
	"github.com/drukmenu/drukmenu-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testJWTSecret = "test-secret"
	testBaseURL   = "https://menu.example.bt"
)

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (b *memoryBlacklist) Revoke(ctx context.Context, token string, expiry time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = true
	return nil
}

func (b *memoryBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[token], nil
}

type fakeStorage struct {
	mu      sync.Mutex
	uploads map[string][]byte
}

func (s *fakeStorage) Upload(ctx context.Context, folder, ext, contentType string, body []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url := "https://cdn.example.bt/" + folder + "/" + uuid.NewString() + ext
	s.uploads[url] = body
	return url, nil
}

func (s *fakeStorage) GeneratePresignedURL(ctx context.Context, filename, contentType, folder string) (*storage.PresignedURLResponse, error) {
	key := folder + "/" + uuid.NewString()
	return &storage.PresignedURLResponse{
		UploadURL: "https://s3.example.bt/" + key + "?signature=x",
		FileURL:   "https://cdn.example.bt/" + key,
		Key:       key,
	}, nil
}

// testServer wires every controller the way the router does, against an
// in-memory database.
type testServer struct {
	db       *gorm.DB
	router   *gin.Engine
	auth     service.AuthService
	business service.BusinessService
	menu     service.MenuService
	tables   service.TableService
	storage  *fakeStorage
	hub      *ws.Hub
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	tableRepo := repository.NewTableRepository(testDB)
	menuRepo := repository.NewMenuRepository(testDB)
	statusRepo := repository.NewSetupStatusRepository(testDB)

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	objectStorage := &fakeStorage{uploads: map[string][]byte{}}
	blacklist := &memoryBlacklist{revoked: map[string]bool{}}

	authService := service.NewAuthService(testDB, userRepo, businessRepo, blacklist, testJWTSecret, 15*time.Minute, 24*time.Hour)
	businessService := service.NewBusinessService(businessRepo, nil)
	menuService := service.NewMenuService(testDB, menuRepo, hub)
	setupService := service.NewSetupService(testDB, menuRepo, statusRepo, hub)
	wizardService := service.NewSetupWizardService(setupService, wizard.NewMemoryStore(time.Hour))
	tableService := service.NewTableService(tableRepo, businessRepo, objectStorage, testBaseURL)
	publicMenuService := service.NewPublicMenuService(businessRepo, tableRepo, menuRepo)

	authCtrl := NewAuthController(authService)
	businessCtrl := NewBusinessController(businessService)
	adminCtrl := NewAdminController(businessService)
	menuCtrl := NewMenuController(menuService)
	setupCtrl := NewSetupController(setupService, wizardService)
	tableCtrl := NewTableController(tableService)
	uploadCtrl := NewUploadController(objectStorage)
	publicCtrl := NewPublicMenuController(publicMenuService, hub, ws.NewUpgrader(nil))

	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret)
	owner := []gin.HandlerFunc{
		authMiddleware.Authenticate(),
		middleware.RequireBusiness(businessService, service.ErrBusinessNotFound),
	}

	r := gin.New()
	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authCtrl.Register)
	auth.POST("/login", authCtrl.Login)
	auth.POST("/refresh", authCtrl.Refresh)
	auth.POST("/logout", authMiddleware.Authenticate(), authCtrl.Logout)
	auth.GET("/me", authMiddleware.Authenticate(), authCtrl.GetMe)

	biz := v1.Group("/business", authMiddleware.Authenticate())
	biz.GET("/me", businessCtrl.GetMyBusiness)
	biz.PUT("/me", businessCtrl.UpdateMyBusiness)

	admin := v1.Group("/admin", authMiddleware.Authenticate(), authMiddleware.RequireRole(model.RoleSuperAdmin))
	admin.GET("/businesses", adminCtrl.ListBusinesses)
	admin.GET("/businesses/:id", adminCtrl.GetBusiness)
	admin.POST("/businesses/:id/approve", adminCtrl.ApproveBusiness)
	admin.POST("/businesses/:id/reject", adminCtrl.RejectBusiness)
	admin.POST("/businesses/:id/suspend", adminCtrl.SuspendBusiness)
	admin.POST("/businesses/:id/reactivate", adminCtrl.ReactivateBusiness)

	menu := v1.Group("/menu", owner...)
	menu.GET("", menuCtrl.GetMenu)
	menu.GET("/export", menuCtrl.ExportMenu)
	menu.POST("/categories", menuCtrl.CreateCategory)
	menu.POST("/categories/reorder", menuCtrl.ReorderCategories)
	menu.PUT("/categories/:id", menuCtrl.UpdateCategory)
	menu.DELETE("/categories/:id", menuCtrl.DeleteCategory)
	menu.POST("/categories/:id/items/reorder", menuCtrl.ReorderItems)
	menu.POST("/items", menuCtrl.CreateItem)
	menu.PUT("/items/:id", menuCtrl.UpdateItem)
	menu.DELETE("/items/:id", menuCtrl.DeleteItem)
	menu.PATCH("/items/:id/availability", menuCtrl.ToggleAvailability)
	menu.GET("/setup/templates", setupCtrl.ListTemplates)
	menu.POST("/setup/complete", setupCtrl.CompleteSetup)
	menu.GET("/setup/status", setupCtrl.GetSetupStatus)
	menu.GET("/setup/wizard", setupCtrl.OpenWizard)
	menu.POST("/setup/wizard/actions", setupCtrl.ApplyWizardAction)
	menu.POST("/setup/wizard/finish", setupCtrl.FinishWizard)
	menu.DELETE("/setup/wizard", setupCtrl.DiscardWizard)

	tables := v1.Group("/tables", owner...)
	tables.GET("", tableCtrl.ListTables)
	tables.POST("", tableCtrl.CreateTable)
	tables.GET("/:id", tableCtrl.GetTable)
	tables.PUT("/:id", tableCtrl.UpdateTable)
	tables.DELETE("/:id", tableCtrl.DeleteTable)
	tables.GET("/:id/qr", tableCtrl.GetQRCode)
	tables.GET("/:id/qr-template", tableCtrl.GetQRCard)

	upload := v1.Group("/upload", authMiddleware.Authenticate())
	upload.POST("/image", uploadCtrl.UploadImage)
	upload.POST("/presigned-url", uploadCtrl.GeneratePresignedURL)

	public := v1.Group("/public/menu")
	public.GET("/:businessId/:tableId", publicCtrl.GetPublicMenu)
	public.GET("/:businessId/:tableId/ws", publicCtrl.Subscribe)

	return &testServer{
		db:       testDB,
		router:   r,
		auth:     authService,
		business: businessService,
		menu:     menuService,
		tables:   tableService,
		storage:  objectStorage,
		hub:      hub,
	}
}

type ownerSession struct {
	user   *model.User
	tokens *util.TokenPair
}

func (s *ownerSession) businessID() uuid.UUID {
	return s.user.Business.ID
}

// registerOwner creates an owner with a pending business.
func (s *testServer) registerOwner(t *testing.T, email string) *ownerSession {
	t.Helper()
	user, tokens, err := s.auth.Register(service.RegisterInput{
		Email:        email,
		Password:     "password123",
		Name:         "Pema Choden",
		BusinessName: "Pema's Kitchen",
		BusinessType: "restaurant",
		Location:     "Paro",
	})
	require.NoError(t, err)
	return &ownerSession{user: user, tokens: tokens}
}

func (s *testServer) approve(t *testing.T, owner *ownerSession) {
	t.Helper()
	_, err := s.business.ApproveBusiness(owner.businessID())
	require.NoError(t, err)
}

func adminToken(t *testing.T) string {
	t.Helper()
	tokens, err := util.GenerateTokenPair(uuid.New(), "admin@example.bt", string(model.RoleSuperAdmin), testJWTSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Error
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
