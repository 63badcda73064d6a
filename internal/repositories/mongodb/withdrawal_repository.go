package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/ninelive/colorclash-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WithdrawalRepository implements the repositories.WithdrawalRepository
// interface
type WithdrawalRepository struct {
	collection *mongo.Collection
}

// NewWithdrawalRepository creates a new WithdrawalRepository
func NewWithdrawalRepository(db *mongo.Database) repositories.WithdrawalRepository {
	return &WithdrawalRepository{
		collection: db.Collection("withdrawals"),
	}
}

// Create creates a new withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	withdrawal.CreatedAt = time.Now()
	if withdrawal.Status == "" {
		withdrawal.Status = models.WithdrawalStatusPending
	}
	res, err := r.collection.InsertOne(ctx, withdrawal)
	if err != nil {
		return err
	}
	withdrawal.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a withdrawal by ID
func (r *WithdrawalRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&withdrawal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &withdrawal, nil
}

// FindByUserID finds all withdrawals for a user, newest first
func (r *WithdrawalRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Withdrawal, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var withdrawals []*models.Withdrawal
	if err := cursor.All(ctx, &withdrawals); err != nil {
		return nil, err
	}
	if withdrawals == nil {
		withdrawals = []*models.Withdrawal{}
	}
	return withdrawals, nil
}

// FindByStatus finds all withdrawals with the given status, newest first
func (r *WithdrawalRepository) FindByStatus(ctx context.Context, status models.WithdrawalStatus) ([]*models.Withdrawal, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var withdrawals []*models.Withdrawal
	if err := cursor.All(ctx, &withdrawals); err != nil {
		return nil, err
	}
	if withdrawals == nil {
		withdrawals = []*models.Withdrawal{}
	}
	return withdrawals, nil
}

// MarkSent transitions a pending withdrawal to sent
func (r *WithdrawalRepository) MarkSent(ctx context.Context, id primitive.ObjectID, sentBy string) error {
	filter := bson.M{"_id": id, "status": models.WithdrawalStatusPending}
	update := bson.M{
		"$set": bson.M{
			"status": models.WithdrawalStatusSent,
			"sentBy": sentBy,
			"sentAt": time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
