package models

import "time"

// Difficulty is the house payout-bias policy for winner selection.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
)

// GameSettings is the admin-controlled, process-wide game configuration.
// A manual override (number, color or size; mutually exclusive) is single-shot
// state: it is consumed by exactly one settlement and cleared at the next
// round boundary whether or not it was used.
type GameSettings struct {
	Difficulty        Difficulty `bson:"difficulty" json:"difficulty"`
	ManualWinner      *int       `bson:"manualWinner,omitempty" json:"manualWinner,omitempty"`
	ManualWinnerColor *Color     `bson:"manualWinnerColor,omitempty" json:"manualWinnerColor,omitempty"`
	ManualWinnerSize  *Size      `bson:"manualWinnerSize,omitempty" json:"manualWinnerSize,omitempty"`
	UpdatedAt         time.Time  `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy         string     `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// HasManualOverride reports whether any single-shot override is pending.
func (s *GameSettings) HasManualOverride() bool {
	return s.ManualWinner != nil || s.ManualWinnerColor != nil || s.ManualWinnerSize != nil
}

// DefaultGameSettings returns the settings used when none have been stored.
func DefaultGameSettings() *GameSettings {
	return &GameSettings{Difficulty: DifficultyEasy}
}

// UpdateGameSettingsRequest is the admin payload for the game settings
// endpoint. At most one of the manual winner fields may be set.
type UpdateGameSettingsRequest struct {
	Difficulty        Difficulty `json:"difficulty" validate:"required,oneof=easy moderate hard"`
	ManualWinner      *int       `json:"manualWinner" validate:"omitempty,min=0,max=9"`
	ManualWinnerColor *Color     `json:"manualWinnerColor" validate:"omitempty,oneof=Red Green Violet"`
	ManualWinnerSize  *Size      `json:"manualWinnerSize" validate:"omitempty,oneof=Big Small"`
}

// Validate checks the structural constraints of the request.
func (r *UpdateGameSettingsRequest) Validate() error {
	return validate.Struct(r)
}

// PaymentSettings holds the deposit QR code and support contact shown to
// players when adding funds.
type PaymentSettings struct {
	QRCodeURL   string    `bson:"qrCodeUrl" json:"qrCodeUrl"`
	TelegramURL string    `bson:"telegramUrl" json:"telegramUrl"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy   string    `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}
