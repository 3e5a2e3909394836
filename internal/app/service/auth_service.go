package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/drukmenu/drukmenu-backend/internal/app/model"
	"github.com/drukmenu/drukmenu-backend/internal/app/repository"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/drukmenu/drukmenu-backend/pkg/util"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenBlacklist remembers revoked refresh tokens.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, expiry time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	Phone        string
	BusinessName string
	BusinessType string
	Location     string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(id uuid.UUID) (*model.User, error)
}

type authService struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	businessRepo  repository.BusinessRepository
	blacklist     TokenBlacklist
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService builds the account service. blacklist may be nil, in which
// case logout cannot revoke refresh tokens.
func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	businessRepo repository.BusinessRepository,
	blacklist TokenBlacklist,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		db:            db,
		userRepo:      userRepo,
		businessRepo:  businessRepo,
		blacklist:     blacklist,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func validateRegistration(input RegisterInput) error {
	v := newValidationError()
	if _, err := mail.ParseAddress(input.Email); err != nil {
		v.Add("email", "a valid email is required")
	}
	if err := util.ValidatePasswordPolicy(input.Password); err != nil {
		v.Add("password", err.Error())
	}
	validateName(v, "name", input.Name)
	validateName(v, "business_name", input.BusinessName)
	return v.OrNil()
}

// Register creates the owner account and its pending business together.
func (s *authService) Register(input RegisterInput) (*model.User, *util.TokenPair, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	logger.Info("Attempting owner registration", map[string]interface{}{
		"email":         input.Email,
		"business_name": input.BusinessName,
	})

	if err := validateRegistration(input); err != nil {
		return nil, nil, err
	}

	existingUser, err := s.userRepo.FindByEmail(input.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, err
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Name:         strings.TrimSpace(input.Name),
		Phone:        strings.TrimSpace(input.Phone),
		Role:         model.RoleOwner,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			return err
		}
		business := &model.Business{
			OwnerID:      user.ID,
			BusinessName: strings.TrimSpace(input.BusinessName),
			BusinessType: strings.TrimSpace(input.BusinessType),
			Location:     strings.TrimSpace(input.Location),
			Status:       model.BusinessPending,
		}
		if err := s.businessRepo.WithTx(tx).Create(business); err != nil {
			return err
		}
		user.Business = business
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailAlreadyExists
		}
		logger.Error("Failed to register owner", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, fmt.Errorf("failed to register: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Owner registered successfully", map[string]interface{}{
		"user_id":     user.ID,
		"business_id": user.Business.ID,
	})
	return user, tokens, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, tokens, nil
}

func (s *authService) checkRefreshToken(ctx context.Context, refreshToken string) (*util.TokenClaims, error) {
	claims, err := util.ValidateTokenOfType(refreshToken, s.jwtSecret, util.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, refreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to check token blacklist: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

func (s *authService) revoke(ctx context.Context, refreshToken string, claims *util.TokenClaims) error {
	if s.blacklist == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.blacklist.Revoke(ctx, refreshToken, time.Until(claims.ExpiresAt.Time))
}

// RefreshToken issues a new pair and revokes the refresh token it was given,
// so every refresh token works once.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.revoke(ctx, refreshToken, claims); err != nil {
		logger.Warn("Failed to revoke rotated refresh token", map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := s.revoke(ctx, refreshToken, claims); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetUserByID(id uuid.UUID) (*model.User, error) {
	logger.Debug("Fetching user by ID", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}
