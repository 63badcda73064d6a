package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ninelive/colorclash-backend/internal/config"
	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/ninelive/colorclash-backend/internal/repositories"
	"github.com/ninelive/colorclash-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService handles account registration and login
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	// Login accepts an email address or a phone number as the credential.
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// AuthServiceImpl handles authentication business logic
type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	config   *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		config:   cfg,
	}
}

// Register creates a new player account with the configured starting balance
func (s *AuthServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registration request: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, models.ErrDuplicateAccount
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if req.Phone != "" {
		if _, err := s.userRepo.FindByPhone(ctx, req.Phone); err == nil {
			return nil, models.ErrDuplicateAccount
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("failed to check existing phone: %w", err)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Phone:    req.Phone,
		Password: string(hashed),
		Role:     "user",
		Balance:  s.config.Game.StartingBalance,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "userId", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies the credential and password and issues a JWT
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid login request: %w", err)
	}

	user, err := s.findByCredential(ctx, req.Credential)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, errors.New("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		slog.Warn("login failed, bad password", "userId", user.ID)
		return nil, errors.New("invalid credentials")
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role, s.config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *AuthServiceImpl) findByCredential(ctx context.Context, credential string) (*models.User, error) {
	credential = strings.TrimSpace(credential)
	if strings.Contains(credential, "@") {
		return s.userRepo.FindByEmail(ctx, strings.ToLower(credential))
	}
	return s.userRepo.FindByPhone(ctx, credential)
}
