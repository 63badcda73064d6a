package repositories

import (
	"context"
	"time"

	"github.com/ninelive/colorclash-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines user and ledger data operations. Balance mutations
// are atomic per user and reject any adjustment that would drive the balance
// negative.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AdjustBalance atomically applies delta to the user's balance and
	// returns the new balance. A negative delta that exceeds the current
	// balance fails with models.ErrInsufficientFunds and has no effect.
	AdjustBalance(ctx context.Context, userID primitive.ObjectID, delta float64) (float64, error)
	// BatchAdjust applies many independent credits. Entries that fail are
	// collected into a *models.LedgerBatchError; the rest still apply.
	BatchAdjust(ctx context.Context, entries []models.BalanceAdjustment) error
}

// RoundRepository defines round data operations. The conditional writes are
// the concurrency guards of the round lifecycle.
type RoundRepository interface {
	Create(ctx context.Context, round *models.Round) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Round, error)
	// FindLatest returns the most recently opened round, settled or not.
	FindLatest(ctx context.Context) (*models.Round, error)
	// AppendBet pushes a bet onto the round's bet list only while the round
	// is still open and before its deadline; otherwise it fails with
	// models.ErrRoundClosed and the round is untouched.
	AppendBet(ctx context.Context, roundID primitive.ObjectID, bet models.Bet) error
	// SetWinningNumber writes the winning number only if none is assigned
	// yet. It returns false when another settlement got there first.
	SetWinningNumber(ctx context.Context, roundID primitive.ObjectID, winningNumber int) (bool, error)
	MarkSettled(ctx context.Context, roundID primitive.ObjectID) error
	// FindUnsettledExpired returns open rounds whose deadline has passed,
	// for the settlement sweep.
	FindUnsettledExpired(ctx context.Context, now time.Time) ([]*models.Round, error)
}

// RoundResultRepository is the append-only history store.
type RoundResultRepository interface {
	Append(ctx context.Context, result *models.RoundResult) error
	FindByRoundID(ctx context.Context, roundID primitive.ObjectID) (*models.RoundResult, error)
	FindRecent(ctx context.Context, limit int) ([]*models.RoundResult, error)
	// Leaderboard aggregates net winnings per user across all settled rounds.
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
	// Prune deletes results beyond the newest keep entries and returns the
	// number removed.
	Prune(ctx context.Context, keep int) (int64, error)
}

// TransactionRepository records balance movements for audit and
// reconciliation.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.BalanceTransaction) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.BalanceTransaction, error)
	FindPendingReconciliation(ctx context.Context) ([]*models.BalanceTransaction, error)
}

// SettingsRepository holds the admin-controlled game and payment settings.
type SettingsRepository interface {
	GetGameSettings(ctx context.Context) (*models.GameSettings, error)
	UpdateGameSettings(ctx context.Context, settings *models.GameSettings) error
	// ClearManualOverride removes any pending single-shot override. Called at
	// every round boundary regardless of whether the override was used.
	ClearManualOverride(ctx context.Context) error
	GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error)
	UpdatePaymentSettings(ctx context.Context, settings *models.PaymentSettings) error
}

// WithdrawalRepository defines withdrawal request data operations.
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *models.Withdrawal) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Withdrawal, error)
	FindByStatus(ctx context.Context, status models.WithdrawalStatus) ([]*models.Withdrawal, error)
	MarkSent(ctx context.Context, id primitive.ObjectID, sentBy string) error
}
