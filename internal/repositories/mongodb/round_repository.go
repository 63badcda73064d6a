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
	"golang.org/x/exp/slog"
)

// RoundRepository implements the repositories.RoundRepository interface
type RoundRepository struct {
	collection *mongo.Collection
}

// NewRoundRepository creates a new RoundRepository. A partial unique index on
// the open status enforces the at-most-one-open-round invariant at the store,
// so concurrent round opens race on the insert rather than both succeeding.
func NewRoundRepository(db *mongo.Database) repositories.RoundRepository {
	r := &RoundRepository{
		collection: db.Collection("rounds"),
	}

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := r.collection.Indexes().CreateOne(indexCtx, mongo.IndexModel{
		Keys: bson.M{"status": 1},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": models.RoundStatusOpen}),
	})
	if err != nil {
		slog.Warn("failed to ensure open-round unique index", "error", err)
	}

	return r
}

// Create creates a new round. Inserting a second open round violates the
// unique index and fails with ErrOpenRoundExists.
func (r *RoundRepository) Create(ctx context.Context, round *models.Round) error {
	round.CreatedAt = time.Now()
	round.UpdatedAt = time.Now()
	if round.Status == "" {
		round.Status = models.RoundStatusOpen
	}
	if round.Bets == nil {
		round.Bets = []models.Bet{}
	}
	res, err := r.collection.InsertOne(ctx, round)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrOpenRoundExists
		}
		return err
	}
	round.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a round by ID
func (r *RoundRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Round, error) {
	var round models.Round
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&round)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &round, nil
}

// FindLatest finds the most recently opened round, settled or not
func (r *RoundRepository) FindLatest(ctx context.Context) (*models.Round, error) {
	opts := options.FindOne().SetSort(bson.M{"opensAt": -1})
	var round models.Round
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&round)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &round, nil
}

// AppendBet pushes a bet onto the round's bet list. The filter re-checks the
// open state and the deadline server-side, so a bet racing the round close
// is rejected rather than queued.
func (r *RoundRepository) AppendBet(ctx context.Context, roundID primitive.ObjectID, bet models.Bet) error {
	filter := bson.M{
		"_id":           roundID,
		"status":        models.RoundStatusOpen,
		"winningNumber": bson.M{"$exists": false},
		"closesAt":      bson.M{"$gt": bet.PlacedAt},
	}
	update := bson.M{
		"$push": bson.M{"bets": bet},
		"$inc":  bson.M{"totalBetAmount": bet.Amount},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrRoundClosed
	}
	return nil
}

// SetWinningNumber assigns the winning number only if none is present. This
// conditional write is the exactly-once settlement guard: concurrent
// settlement attempts race on it and exactly one succeeds.
func (r *RoundRepository) SetWinningNumber(ctx context.Context, roundID primitive.ObjectID, winningNumber int) (bool, error) {
	filter := bson.M{
		"_id":           roundID,
		"winningNumber": bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"winningNumber": winningNumber,
			"updatedAt":     time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// MarkSettled closes the round's lifecycle after payouts and history are
// written
func (r *RoundRepository) MarkSettled(ctx context.Context, roundID primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"status":    models.RoundStatusSettled,
			"updatedAt": time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": roundID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// FindUnsettledExpired finds open rounds whose deadline has passed
func (r *RoundRepository) FindUnsettledExpired(ctx context.Context, now time.Time) ([]*models.Round, error) {
	filter := bson.M{
		"status":   models.RoundStatusOpen,
		"closesAt": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.M{"closesAt": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rounds []*models.Round
	if err := cursor.All(ctx, &rounds); err != nil {
		return nil, err
	}
	if rounds == nil {
		rounds = []*models.Round{}
	}
	return rounds, nil
}
