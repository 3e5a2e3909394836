package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/pkg/util"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret"

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: make(map[string]time.Duration)}
}

func (b *memoryBlacklist) Revoke(ctx context.Context, token string, expiry time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = expiry
	return nil
}

func (b *memoryBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[token]
	return ok, nil
}

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB, *memoryBlacklist) {
	testDB := setupServiceDB(t)
	blacklist := newMemoryBlacklist()
	authService := NewAuthService(
		testDB,
		repository.NewUserRepository(testDB),
		repository.NewBusinessRepository(testDB),
		blacklist,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	return authService, testDB, blacklist
}

func validRegistration(email string) RegisterInput {
	return RegisterInput{
		Email:        email,
		Password:     "password123",
		Name:         "Karma Wangchuk",
		Phone:        "+975-17-123456",
		BusinessName: "Karma's Kitchen",
		BusinessType: "restaurant",
		Location:     "Thimphu",
	}
}

func TestAuthService_Register(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		wantErr error
	}{
		{
			name:   "Valid registration",
			mutate: func(in *RegisterInput) {},
		},
		{
			name:    "Duplicate email",
			mutate:  func(in *RegisterInput) {},
			wantErr: ErrEmailAlreadyExists,
		},
		{
			name:    "Duplicate email with different case",
			mutate:  func(in *RegisterInput) { in.Email = "  OWNER@Example.bt " },
			wantErr: ErrEmailAlreadyExists,
		},
		{
			name:    "Invalid email",
			mutate:  func(in *RegisterInput) { in.Email = "not-an-email" },
			wantErr: ErrValidation,
		},
		{
			name:    "Short password",
			mutate:  func(in *RegisterInput) { in.Email = "short@example.bt"; in.Password = "abc" },
			wantErr: ErrValidation,
		},
		{
			name:    "Missing business name",
			mutate:  func(in *RegisterInput) { in.Email = "nobiz@example.bt"; in.BusinessName = " " },
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegistration("owner@example.bt")
			tt.mutate(&input)

			user, tokens, err := authService.Register(input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, user)
			require.NotNil(t, tokens)
			assert.Equal(t, "owner@example.bt", user.Email)
			assert.Equal(t, model.RoleOwner, user.Role)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)

			require.NotNil(t, user.Business)
			assert.Equal(t, model.BusinessPending, user.Business.Status)
			assert.Equal(t, "Karma's Kitchen", user.Business.BusinessName)
		})
	}
}

func TestAuthService_RegisterCreatesBusinessAtomically(t *testing.T) {
	authService, testDB, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register(validRegistration("atomic@example.bt"))
	require.NoError(t, err)

	var users, businesses int64
	require.NoError(t, testDB.Model(&model.User{}).Count(&users).Error)
	require.NoError(t, testDB.Model(&model.Business{}).Count(&businesses).Error)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 1, businesses)
}

func TestAuthService_Login(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register(validRegistration("login@example.bt"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "Valid login", email: "login@example.bt", password: "password123"},
		{name: "Email is case-insensitive", email: "Login@Example.BT", password: "password123"},
		{name: "Wrong password", email: "login@example.bt", password: "wrongpassword", wantErr: ErrInvalidCredentials},
		{name: "Non-existing user", email: "notfound@example.bt", password: "password123", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.Equal(t, "login@example.bt", user.Email)

			claims, err := util.ValidateTokenOfType(tokens.AccessToken, testJWTSecret, util.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, string(model.RoleOwner), claims.Role)
		})
	}
}

func TestAuthService_RefreshTokenRotates(t *testing.T) {
	authService, _, blacklist := setupAuthServiceTest(t)
	ctx := context.Background()

	_, tokens, err := authService.Register(validRegistration("refresh@example.bt"))
	require.NoError(t, err)

	next, err := authService.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, next.RefreshToken)

	revoked, err := blacklist.IsRevoked(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Greater(t, blacklist.revoked[tokens.RefreshToken], time.Duration(0))

	_, err = authService.RefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked, "a refresh token works once")

	_, err = authService.RefreshToken(ctx, next.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_RefreshTokenRejectsWrongTokens(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	_, tokens, err := authService.Register(validRegistration("wrong@example.bt"))
	require.NoError(t, err)

	_, err = authService.RefreshToken(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens cannot refresh")

	_, err = authService.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	ghost, err := util.GenerateTokenPair(uuid.New(), "ghost@example.bt", "owner", testJWTSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	_, err = authService.RefreshToken(ctx, ghost.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "token for a deleted user")
}

func TestAuthService_Logout(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	_, tokens, err := authService.Register(validRegistration("logout@example.bt"))
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, tokens.RefreshToken))

	_, err = authService.RefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.ErrorIs(t, authService.Logout(ctx, tokens.RefreshToken), ErrTokenRevoked)
}

func TestAuthService_WithoutBlacklist(t *testing.T) {
	testDB := setupServiceDB(t)
	authService := NewAuthService(
		testDB,
		repository.NewUserRepository(testDB),
		repository.NewBusinessRepository(testDB),
		nil,
		testJWTSecret,
		15*time.Minute,
		time.Hour,
	)

	_, tokens, err := authService.Register(validRegistration("noredis@example.bt"))
	require.NoError(t, err)
	require.NoError(t, authService.Logout(context.Background(), tokens.RefreshToken))
	_, err = authService.RefreshToken(context.Background(), tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register(validRegistration("lookup@example.bt"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		userID  uuid.UUID
		wantErr error
	}{
		{name: "Existing user", userID: user.ID},
		{name: "Non-existing user", userID: uuid.New(), wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := authService.GetUserByID(tt.userID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.Email, found.Email)
			assert.Equal(t, user.Name, found.Name)
		})
	}
}

func TestAuthService_PasswordIsHashed(t *testing.T) {
	authService, testDB, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register(validRegistration("hash@example.bt"))
	require.NoError(t, err)

	var stored model.User
	require.NoError(t, testDB.First(&stored, "id = ?", user.ID).Error)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.True(t, util.VerifyPassword(stored.PasswordHash, "password123"))
}
