package mongodb

import (
	"context"
	"time"

	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/ninelive/colorclash-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TransactionRepository implements the repositories.TransactionRepository
// interface
type TransactionRepository struct {
	collection *mongo.Collection
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *mongo.Database) repositories.TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("balance_transactions"),
	}
}

// Create records a balance movement
func (r *TransactionRepository) Create(ctx context.Context, tx *models.BalanceTransaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	res, err := r.collection.InsertOne(ctx, tx)
	if err != nil {
		return err
	}
	tx.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByUserID finds the most recent transactions for a user
func (r *TransactionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.BalanceTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*models.BalanceTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*models.BalanceTransaction{}
	}
	return txs, nil
}

// FindPendingReconciliation finds settlement credits that failed to apply
func (r *TransactionRepository) FindPendingReconciliation(ctx context.Context) ([]*models.BalanceTransaction, error) {
	filter := bson.M{"type": models.TransactionTypeReconcilePending}
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*models.BalanceTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*models.BalanceTransaction{}
	}
	return txs, nil
}
