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

// RoundResultRepository implements the repositories.RoundResultRepository
// interface. Results are append-only; nothing here mutates an existing
// document.
type RoundResultRepository struct {
	collection *mongo.Collection
}

// NewRoundResultRepository creates a new RoundResultRepository
func NewRoundResultRepository(db *mongo.Database) repositories.RoundResultRepository {
	return &RoundResultRepository{
		collection: db.Collection("round_results"),
	}
}

// Append inserts a finalized round result
func (r *RoundResultRepository) Append(ctx context.Context, result *models.RoundResult) error {
	if result.SettledAt.IsZero() {
		result.SettledAt = time.Now()
	}
	res, err := r.collection.InsertOne(ctx, result)
	if err != nil {
		return err
	}
	result.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByRoundID finds the result for a specific round
func (r *RoundResultRepository) FindByRoundID(ctx context.Context, roundID primitive.ObjectID) (*models.RoundResult, error) {
	var result models.RoundResult
	err := r.collection.FindOne(ctx, bson.M{"roundId": roundID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// FindRecent finds the most recently settled results
func (r *RoundResultRepository) FindRecent(ctx context.Context, limit int) ([]*models.RoundResult, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.M{"settledAt": -1}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*models.RoundResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []*models.RoundResult{}
	}
	return results, nil
}

// Leaderboard aggregates net winnings per user across all settled rounds
func (r *RoundResultRepository) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$bets"}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$bets.userId",
			"totalWinnings": bson.M{"$sum": "$bets.payout"},
			"totalStaked":   bson.M{"$sum": "$bets.amount"},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"netWinnings": bson.M{"$subtract": []interface{}{"$totalWinnings", "$totalStaked"}},
		}}},
		{{Key: "$sort", Value: bson.M{"netWinnings": -1}}},
		{{Key: "$limit", Value: int64(limit)}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.LeaderboardEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.LeaderboardEntry{}
	}
	return entries, nil
}

// Prune deletes results beyond the newest keep entries
func (r *RoundResultRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	opts := options.Find().
		SetSort(bson.M{"settledAt": -1}).
		SetSkip(int64(keep)).
		SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var stale []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &stale); err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]primitive.ObjectID, 0, len(stale))
	for _, doc := range stale {
		ids = append(ids, doc.ID)
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
