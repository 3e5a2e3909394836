package controller

import (
	"net/http"
	"testing"

	apperrors "github.com/drukmenu/drukmenu-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterRequest(email string) RegisterRequest {
	return RegisterRequest{
		Email:        email,
		Password:     "password123",
		Name:         "Tashi Dorji",
		Phone:        "+975-17-000000",
		BusinessName: "Tashi Cafe",
		BusinessType: "cafe",
		Location:     "Thimphu",
	}
}

func TestAuthController_Register_Success(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, "POST", "/api/v1/auth/register", validRegisterRequest("tashi@example.bt"), "")
	assertStatus(t, w, http.StatusCreated)

	body := decodeBody(t, w)
	assert.Equal(t, "User registered successfully", body["message"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "tashi@example.bt", user["email"])
	assert.Equal(t, "owner", user["role"])
	business := user["business"].(map[string]interface{})
	assert.Equal(t, "pending", business["status"])

	tokens := body["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])
}

func TestAuthController_Register_Failures(t *testing.T) {
	s := setupTestServer(t)
	s.registerOwner(t, "taken@example.bt")

	short := validRegisterRequest("short@example.bt")
	short.Password = "abc"

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Duplicate email",
			body:       validRegisterRequest("taken@example.bt"),
			wantStatus: http.StatusConflict,
			wantCode:   apperrors.AuthEmailAlreadyExists,
		},
		{
			name:       "Short password",
			body:       short,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ValidationInvalidInput,
		},
		{
			name:       "Missing fields",
			body:       map[string]string{"email": "x@example.bt"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ValidationInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, "POST", "/api/v1/auth/register", tt.body, "")
			assertStatus(t, w, tt.wantStatus)
			assert.Equal(t, tt.wantCode, errorCodeOf(t, w))
		})
	}
}

func TestAuthController_Register_ValidationFields(t *testing.T) {
	s := setupTestServer(t)

	req := validRegisterRequest("not-an-email")
	w := s.do(t, "POST", "/api/v1/auth/register", req, "")
	assertStatus(t, w, http.StatusBadRequest)

	body := decodeBody(t, w)
	fields := body["fields"].(map[string]interface{})
	assert.Contains(t, fields, "email")
}

func TestAuthController_Login(t *testing.T) {
	s := setupTestServer(t)
	s.registerOwner(t, "login@example.bt")

	tests := []struct {
		name       string
		body       LoginRequest
		wantStatus int
		wantCode   string
	}{
		{name: "Valid credentials", body: LoginRequest{Email: "login@example.bt", Password: "password123"}, wantStatus: http.StatusOK},
		{name: "Wrong password", body: LoginRequest{Email: "login@example.bt", Password: "nope-nope"}, wantStatus: http.StatusUnauthorized, wantCode: apperrors.AuthInvalidCredentials},
		{name: "Unknown user", body: LoginRequest{Email: "ghost@example.bt", Password: "password123"}, wantStatus: http.StatusUnauthorized, wantCode: apperrors.AuthInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, "POST", "/api/v1/auth/login", tt.body, "")
			assertStatus(t, w, tt.wantStatus)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCodeOf(t, w))
				return
			}
			body := decodeBody(t, w)
			assert.NotNil(t, body["tokens"])
		})
	}
}

func TestAuthController_GetMe(t *testing.T) {
	s := setupTestServer(t)
	owner := s.registerOwner(t, "me@example.bt")

	w := s.do(t, "GET", "/api/v1/auth/me", nil, owner.tokens.AccessToken)
	assertStatus(t, w, http.StatusOK)
	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "me@example.bt", user["email"])

	w = s.do(t, "GET", "/api/v1/auth/me", nil, "")
	assertStatus(t, w, http.StatusUnauthorized)
}

func TestAuthController_RefreshAndLogout(t *testing.T) {
	s := setupTestServer(t)
	owner := s.registerOwner(t, "session@example.bt")

	w := s.do(t, "POST", "/api/v1/auth/refresh", RefreshTokenRequest{RefreshToken: owner.tokens.RefreshToken}, "")
	assertStatus(t, w, http.StatusOK)
	tokens := decodeBody(t, w)["tokens"].(map[string]interface{})
	next := tokens["refresh_token"].(string)
	require.NotEmpty(t, next)

	w = s.do(t, "POST", "/api/v1/auth/refresh", RefreshTokenRequest{RefreshToken: owner.tokens.RefreshToken}, "")
	assertStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, apperrors.AuthTokenRevoked, errorCodeOf(t, w))

	w = s.do(t, "POST", "/api/v1/auth/logout", RefreshTokenRequest{RefreshToken: next}, owner.tokens.AccessToken)
	assertStatus(t, w, http.StatusOK)

	w = s.do(t, "POST", "/api/v1/auth/refresh", RefreshTokenRequest{RefreshToken: next}, "")
	assertStatus(t, w, http.StatusUnauthorized)

	w = s.do(t, "POST", "/api/v1/auth/refresh", RefreshTokenRequest{RefreshToken: "garbage"}, "")
	assertStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, apperrors.AuthTokenInvalid, errorCodeOf(t, w))
}
