package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/ninelive/colorclash-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure SettingsServiceImpl implements SettingsService
var _ SettingsService = (*SettingsServiceImpl)(nil)

// SettingsService manages the admin-controlled game and payment settings
type SettingsService interface {
	GetGameSettings(ctx context.Context) (*models.GameSettings, error)
	UpdateGameSettings(ctx context.Context, req *models.UpdateGameSettingsRequest, updatedBy string) (*models.GameSettings, error)
	GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error)
	UpdatePaymentSettings(ctx context.Context, settings *models.PaymentSettings, updatedBy string) error
}

// SettingsServiceImpl handles settings business logic
type SettingsServiceImpl struct {
	settingsRepo repositories.SettingsRepository
}

// NewSettingsService creates a new SettingsServiceImpl
func NewSettingsService(settingsRepo repositories.SettingsRepository) *SettingsServiceImpl {
	return &SettingsServiceImpl{settingsRepo: settingsRepo}
}

// GetGameSettings returns the current game settings
func (s *SettingsServiceImpl) GetGameSettings(ctx context.Context) (*models.GameSettings, error) {
	return s.settingsRepo.GetGameSettings(ctx)
}

// UpdateGameSettings applies an admin settings change. The manual winner
// fields are mutually exclusive: setting one rejects the request if another
// is also present.
func (s *SettingsServiceImpl) UpdateGameSettings(ctx context.Context, req *models.UpdateGameSettingsRequest, updatedBy string) (*models.GameSettings, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings request: %w", err)
	}
	if countOverrides(req) > 1 {
		return nil, errors.New("at most one manual winner field may be set")
	}

	settings := &models.GameSettings{
		Difficulty:        req.Difficulty,
		ManualWinner:      req.ManualWinner,
		ManualWinnerColor: req.ManualWinnerColor,
		ManualWinnerSize:  req.ManualWinnerSize,
		UpdatedAt:         time.Now(),
		UpdatedBy:         updatedBy,
	}
	if err := s.settingsRepo.UpdateGameSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update game settings: %w", err)
	}

	slog.Info("game settings updated",
		"difficulty", settings.Difficulty,
		"hasOverride", settings.HasManualOverride(),
		"updatedBy", updatedBy,
	)
	return settings, nil
}

// GetPaymentSettings returns the deposit instructions shown to players
func (s *SettingsServiceImpl) GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error) {
	return s.settingsRepo.GetPaymentSettings(ctx)
}

// UpdatePaymentSettings replaces the deposit instructions
func (s *SettingsServiceImpl) UpdatePaymentSettings(ctx context.Context, settings *models.PaymentSettings, updatedBy string) error {
	settings.UpdatedAt = time.Now()
	settings.UpdatedBy = updatedBy
	if err := s.settingsRepo.UpdatePaymentSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update payment settings: %w", err)
	}
	slog.Info("payment settings updated", "updatedBy", updatedBy)
	return nil
}

func countOverrides(req *models.UpdateGameSettingsRequest) int {
	n := 0
	if req.ManualWinner != nil {
		n++
	}
	if req.ManualWinnerColor != nil {
		n++
	}
	if req.ManualWinnerSize != nil {
		n++
	}
	return n
}
