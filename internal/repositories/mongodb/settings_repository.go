package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/ninelive/colorclash-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	settingsKeyGame    = "game"
	settingsKeyPayment = "payment"
)

// SettingsRepository implements the repositories.SettingsRepository
// interface. Game and payment settings live as two keyed documents in one
// collection, mirroring the per-key system config of the draw platform this
// store was derived from.
type SettingsRepository struct {
	collection *mongo.Collection
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *mongo.Database) repositories.SettingsRepository {
	return &SettingsRepository{
		collection: db.Collection("settings"),
	}
}

type gameSettingsDoc struct {
	Key                 string `bson:"key"`
	models.GameSettings `bson:",inline"`
}

type paymentSettingsDoc struct {
	Key                    string `bson:"key"`
	models.PaymentSettings `bson:",inline"`
}

// GetGameSettings returns the stored game settings, seeding the defaults on
// first access
func (r *SettingsRepository) GetGameSettings(ctx context.Context) (*models.GameSettings, error) {
	var doc gameSettingsDoc
	err := r.collection.FindOne(ctx, bson.M{"key": settingsKeyGame}).Decode(&doc)
	if err == nil {
		settings := doc.GameSettings
		return &settings, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	defaults := models.DefaultGameSettings()
	if err := r.UpdateGameSettings(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

// UpdateGameSettings replaces the game settings document
func (r *SettingsRepository) UpdateGameSettings(ctx context.Context, settings *models.GameSettings) error {
	settings.UpdatedAt = time.Now()
	doc := gameSettingsDoc{Key: settingsKeyGame, GameSettings: *settings}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"key": settingsKeyGame}, doc, opts)
	return err
}

// ClearManualOverride removes any pending single-shot override
func (r *SettingsRepository) ClearManualOverride(ctx context.Context) error {
	update := bson.M{
		"$unset": bson.M{
			"manualWinner":      "",
			"manualWinnerColor": "",
			"manualWinnerSize":  "",
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"key": settingsKeyGame}, update)
	return err
}

// GetPaymentSettings returns the stored payment settings
func (r *SettingsRepository) GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error) {
	var doc paymentSettingsDoc
	err := r.collection.FindOne(ctx, bson.M{"key": settingsKeyPayment}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.PaymentSettings{}, nil
		}
		return nil, err
	}
	settings := doc.PaymentSettings
	return &settings, nil
}

// UpdatePaymentSettings replaces the payment settings document
func (r *SettingsRepository) UpdatePaymentSettings(ctx context.Context, settings *models.PaymentSettings) error {
	settings.UpdatedAt = time.Now()
	doc := paymentSettingsDoc{Key: settingsKeyPayment, PaymentSettings: *settings}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"key": settingsKeyPayment}, doc, opts)
	return err
}
