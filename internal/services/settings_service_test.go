package services

import (
	"context"
	"testing"

	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateGameSettingsDifficultyOnly(t *testing.T) {
	svc := NewSettingsService(newMemSettingsRepo())

	settings, err := svc.UpdateGameSettings(context.Background(), &models.UpdateGameSettingsRequest{
		Difficulty: models.DifficultyHard,
	}, "admin@test.io")
	require.NoError(t, err)

	assert.Equal(t, models.DifficultyHard, settings.Difficulty)
	assert.False(t, settings.HasManualOverride())
	assert.Equal(t, "admin@test.io", settings.UpdatedBy)
}

func TestUpdateGameSettingsSingleOverride(t *testing.T) {
	svc := NewSettingsService(newMemSettingsRepo())

	seven := 7
	settings, err := svc.UpdateGameSettings(context.Background(), &models.UpdateGameSettingsRequest{
		Difficulty:   models.DifficultyEasy,
		ManualWinner: &seven,
	}, "admin@test.io")
	require.NoError(t, err)
	require.NotNil(t, settings.ManualWinner)
	assert.Equal(t, 7, *settings.ManualWinner)
}

func TestUpdateGameSettingsRejectsMultipleOverrides(t *testing.T) {
	svc := NewSettingsService(newMemSettingsRepo())

	seven := 7
	green := models.ColorGreen
	_, err := svc.UpdateGameSettings(context.Background(), &models.UpdateGameSettingsRequest{
		Difficulty:        models.DifficultyEasy,
		ManualWinner:      &seven,
		ManualWinnerColor: &green,
	}, "admin@test.io")
	assert.Error(t, err)
}

func TestUpdateGameSettingsRejectsBadValues(t *testing.T) {
	svc := NewSettingsService(newMemSettingsRepo())

	_, err := svc.UpdateGameSettings(context.Background(), &models.UpdateGameSettingsRequest{
		Difficulty: "nightmare",
	}, "admin@test.io")
	assert.Error(t, err)

	twelve := 12
	_, err = svc.UpdateGameSettings(context.Background(), &models.UpdateGameSettingsRequest{
		Difficulty:   models.DifficultyEasy,
		ManualWinner: &twelve,
	}, "admin@test.io")
	assert.Error(t, err)
}

func TestUpdatePaymentSettings(t *testing.T) {
	repo := newMemSettingsRepo()
	svc := NewSettingsService(repo)

	err := svc.UpdatePaymentSettings(context.Background(), &models.PaymentSettings{
		QRCodeURL:   "https://cdn.example.com/qr.png",
		TelegramURL: "https://t.me/support",
	}, "admin@test.io")
	require.NoError(t, err)

	stored, err := svc.GetPaymentSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/qr.png", stored.QRCodeURL)
	assert.Equal(t, "admin@test.io", stored.UpdatedBy)
}
