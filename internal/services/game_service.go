package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ninelive/colorclash-backend/internal/config"
	"github.com/ninelive/colorclash-backend/internal/game"
	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/ninelive/colorclash-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure GameServiceImpl implements GameService
var _ GameService = (*GameServiceImpl)(nil)

// RoundView is the client-facing snapshot of the current round.
type RoundView struct {
	ID             primitive.ObjectID `json:"id"`
	State          models.RoundState  `json:"state"`
	OpensAt        time.Time          `json:"opensAt"`
	ClosesAt       time.Time          `json:"closesAt"`
	CooldownEndsAt time.Time          `json:"cooldownEndsAt"`
	BetCount       int                `json:"betCount"`
	TotalBetAmount float64            `json:"totalBetAmount"`
	WinningNumber  *int               `json:"winningNumber,omitempty"`
	ServerTime     time.Time          `json:"serverTime"`
}

// GameService owns the round lifecycle: opening rounds, accepting bets,
// settling at the deadline and serving history and leaderboard reads.
type GameService interface {
	// CurrentRound returns the live round, lazily settling an expired one
	// and rotating to a fresh round once the cooldown has elapsed.
	CurrentRound(ctx context.Context) (*RoundView, error)
	// PlaceBet validates, debits and appends a bet as one unit; any sub-step
	// failure rejects the bet whole.
	PlaceBet(ctx context.Context, userID primitive.ObjectID, req *models.PlaceBetRequest) (*models.Bet, error)
	// SettleRound settles a round exactly once. Concurrent attempts are safe:
	// losers of the conditional write perform no side effects.
	SettleRound(ctx context.Context, roundID primitive.ObjectID) (*models.RoundResult, error)
	// SweepExpired settles any round stuck past its deadline.
	SweepExpired(ctx context.Context) (int, error)
	History(ctx context.Context, limit int) ([]*models.RoundResult, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
	// Run drives the round clock until ctx is cancelled.
	Run(ctx context.Context)
}

// GameServiceImpl handles the betting game business logic
type GameServiceImpl struct {
	roundRepo    repositories.RoundRepository
	userRepo     repositories.UserRepository
	resultRepo   repositories.RoundResultRepository
	txRepo       repositories.TransactionRepository
	settingsRepo repositories.SettingsRepository
	selector     *game.Selector
	odds         game.Odds

	roundDuration  time.Duration
	postRoundDelay time.Duration
	historyLimit   int
}

// NewGameService creates a new GameServiceImpl
func NewGameService(
	roundRepo repositories.RoundRepository,
	userRepo repositories.UserRepository,
	resultRepo repositories.RoundResultRepository,
	txRepo repositories.TransactionRepository,
	settingsRepo repositories.SettingsRepository,
	selector *game.Selector,
	odds game.Odds,
	cfg config.GameConfig,
) *GameServiceImpl {
	return &GameServiceImpl{
		roundRepo:      roundRepo,
		userRepo:       userRepo,
		resultRepo:     resultRepo,
		txRepo:         txRepo,
		settingsRepo:   settingsRepo,
		selector:       selector,
		odds:           odds,
		roundDuration:  cfg.RoundDuration(),
		postRoundDelay: cfg.PostRoundDelay(),
		historyLimit:   cfg.HistoryLimit,
	}
}

// CurrentRound returns the live round state, driving the lifecycle forward
// when the caller observes an expired deadline. Any number of concurrent
// observers may take this path; the settlement guard makes it safe.
func (s *GameServiceImpl) CurrentRound(ctx context.Context) (*RoundView, error) {
	round, err := s.roundRepo.FindLatest(ctx)
	if errors.Is(err, models.ErrNotFound) {
		round, err = s.openRound(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load current round: %w", err)
	}

	now := time.Now()
	switch round.State(now) {
	case models.RoundStateAwaitingSettlement:
		if _, err := s.SettleRound(ctx, round.ID); err != nil && !errors.Is(err, models.ErrRoundAlreadySettled) {
			slog.Error("lazy settlement failed", "error", err, "roundId", round.ID)
		}
		round, err = s.roundRepo.FindByID(ctx, round.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload round after settlement: %w", err)
		}
	case models.RoundStateSettled:
		if !now.Before(round.ClosesAt.Add(s.postRoundDelay)) {
			round, err = s.openRound(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to open next round: %w", err)
			}
		}
	}

	return s.viewOf(round, time.Now()), nil
}

// PlaceBet places a bet against the live round. The debit and the round
// append are each atomic; if the append loses the race with the round close,
// the debit is compensated and the bet rejected.
func (s *GameServiceImpl) PlaceBet(ctx context.Context, userID primitive.ObjectID, req *models.PlaceBetRequest) (*models.Bet, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidBet, err)
	}
	bet, err := buildBet(userID, req)
	if err != nil {
		return nil, err
	}

	round, err := s.roundRepo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrRoundClosed
		}
		return nil, fmt.Errorf("failed to load current round: %w", err)
	}
	if !round.AcceptingBets(bet.PlacedAt) {
		return nil, models.ErrRoundClosed
	}

	if _, err := s.userRepo.AdjustBalance(ctx, userID, -bet.Amount); err != nil {
		return nil, err
	}
	s.recordTransaction(ctx, userID, round.ID, models.TransactionTypeBet, -bet.Amount, "")

	if err := s.roundRepo.AppendBet(ctx, round.ID, bet); err != nil {
		// The round closed between the check and the append. Give the
		// money back; the bet never happened.
		if _, refundErr := s.userRepo.AdjustBalance(ctx, userID, bet.Amount); refundErr != nil {
			slog.Error("CRITICAL: failed to refund debit for rejected bet",
				"error", refundErr, "userId", userID, "roundId", round.ID, "amount", bet.Amount)
		} else {
			s.recordTransaction(ctx, userID, round.ID, models.TransactionTypeBetRefund, bet.Amount, "round closed")
		}
		return nil, err
	}

	return &bet, nil
}

// SettleRound determines the winner and applies payouts for an expired round.
// The write of winningNumber is conditional on it being unset; whichever
// observer wins that write performs the payouts, everyone else backs off with
// no side effects.
func (s *GameServiceImpl) SettleRound(ctx context.Context, roundID primitive.ObjectID) (*models.RoundResult, error) {
	round, err := s.roundRepo.FindByID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch round for settlement: %w", err)
	}
	if round.WinningNumber != nil {
		// Already settled. Repair a missing status flip so the sweep stops
		// returning this round, but never redo the payouts.
		if round.Status != models.RoundStatusSettled {
			if err := s.roundRepo.MarkSettled(ctx, roundID); err != nil {
				slog.Error("failed to repair settled status", "error", err, "roundId", roundID)
			}
		}
		result, err := s.resultRepo.FindByRoundID(ctx, roundID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return result, nil
	}
	if time.Now().Before(round.ClosesAt) {
		return nil, models.ErrRoundStillOpen
	}

	settings, err := s.settingsRepo.GetGameSettings(ctx)
	if err != nil {
		// Settlement must not stall on the settings store.
		slog.Warn("failed to load game settings, using defaults", "error", err)
		settings = models.DefaultGameSettings()
	}

	winningNumber := s.selector.SelectWinner(ctx, round.Bets, settings)

	claimed, err := s.roundRepo.SetWinningNumber(ctx, roundID, winningNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to assign winning number: %w", err)
	}
	if !claimed {
		slog.Info("settlement race detected, skipping side effects", "roundId", roundID)
		result, err := s.resultRepo.FindByRoundID(ctx, roundID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return result, nil
	}

	// The claim is durable and nothing retries it, so the remaining writes
	// must not die with the caller. The lazy-settle path runs on request
	// contexts; a client disconnect here would otherwise strand the round
	// with a winning number but no credits.
	ctx = context.WithoutCancel(ctx)

	result := s.applyPayouts(ctx, round, winningNumber)

	if err := s.resultRepo.Append(ctx, result); err != nil {
		slog.Error("failed to append round result to history", "error", err, "roundId", roundID)
	}
	if err := s.roundRepo.MarkSettled(ctx, roundID); err != nil {
		slog.Error("failed to mark round settled", "error", err, "roundId", roundID)
	}
	if settings.HasManualOverride() {
		// Single-shot: the override is spent by this settlement.
		if err := s.settingsRepo.ClearManualOverride(ctx); err != nil {
			slog.Error("failed to clear consumed manual override", "error", err)
		}
	}

	slog.Info("round settled",
		"roundId", roundID,
		"winningNumber", winningNumber,
		"bets", len(round.Bets),
		"totalStake", result.TotalStake,
		"totalPayout", result.TotalPayout,
	)
	return result, nil
}

// applyPayouts finalizes the bets, credits the winners and builds the
// immutable result record. Credit failures are flagged for reconciliation;
// they never abort the settlement.
func (s *GameServiceImpl) applyPayouts(ctx context.Context, round *models.Round, winningNumber int) *models.RoundResult {
	bets := make([]models.Bet, len(round.Bets))
	totalsByUser := make(map[primitive.ObjectID]float64)
	var totalPayout float64

	for i, bet := range round.Bets {
		bet.Payout = s.odds.Payout(bet, winningNumber)
		bets[i] = bet
		totalPayout += bet.Payout
		if bet.Payout > 0 {
			totalsByUser[bet.UserID] += bet.Payout
		}
	}

	credits := make([]models.BalanceAdjustment, 0, len(totalsByUser))
	for userID, amount := range totalsByUser {
		credits = append(credits, models.BalanceAdjustment{UserID: userID, Delta: amount})
	}

	if err := s.userRepo.BatchAdjust(ctx, credits); err != nil {
		var batchErr *models.LedgerBatchError
		if errors.As(err, &batchErr) {
			slog.Error("ledger batch update partially failed", "roundId", round.ID, "failed", len(batchErr.Failed))
			failed := make(map[primitive.ObjectID]bool, len(batchErr.Failed))
			for _, entry := range batchErr.Failed {
				failed[entry.UserID] = true
				s.recordTransaction(ctx, entry.UserID, round.ID, models.TransactionTypeReconcilePending, entry.Delta, "settlement credit failed")
			}
			for _, credit := range credits {
				if !failed[credit.UserID] {
					s.recordTransaction(ctx, credit.UserID, round.ID, models.TransactionTypePayout, credit.Delta, "")
				}
			}
		} else {
			slog.Error("ledger batch update failed", "error", err, "roundId", round.ID)
		}
	} else {
		for _, credit := range credits {
			s.recordTransaction(ctx, credit.UserID, round.ID, models.TransactionTypePayout, credit.Delta, "")
		}
	}

	outcome, _ := game.OutcomeOf(winningNumber)
	return &models.RoundResult{
		RoundID:       round.ID,
		WinningNumber: winningNumber,
		WinningColor:  outcome.Color,
		WinningSize:   outcome.Size,
		Bets:          bets,
		TotalStake:    game.TotalStake(bets),
		TotalPayout:   totalPayout,
		SettledAt:     time.Now(),
	}
}

// SweepExpired settles every round stuck past its deadline. Used by the cron
// sweep as a safety net behind the round clock.
func (s *GameServiceImpl) SweepExpired(ctx context.Context) (int, error) {
	rounds, err := s.roundRepo.FindUnsettledExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to find expired rounds: %w", err)
	}
	settled := 0
	for _, round := range rounds {
		if _, err := s.SettleRound(ctx, round.ID); err != nil {
			slog.Error("sweep settlement failed", "error", err, "roundId", round.ID)
			continue
		}
		settled++
	}
	return settled, nil
}

// History returns the most recent round results
func (s *GameServiceImpl) History(ctx context.Context, limit int) ([]*models.RoundResult, error) {
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	return s.resultRepo.FindRecent(ctx, limit)
}

// Leaderboard returns net winnings per user across all settled rounds
func (s *GameServiceImpl) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.resultRepo.Leaderboard(ctx, limit)
}

// Run is the authoritative round clock: a half-second tick that opens,
// settles and rotates rounds. CurrentRound performs the same transitions
// lazily, so the game also progresses for pollers if this loop is not
// scheduled.
func (s *GameServiceImpl) Run(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	slog.Info("round engine started", "roundDuration", s.roundDuration, "postRoundDelay", s.postRoundDelay)
	for {
		select {
		case <-ctx.Done():
			slog.Info("round engine stopped")
			return
		case <-ticker.C:
			if _, err := s.CurrentRound(ctx); err != nil {
				slog.Error("round engine tick failed", "error", err)
			}
		}
	}
}

// openRound clears any leftover single-shot override and opens a fresh round.
func (s *GameServiceImpl) openRound(ctx context.Context) (*models.Round, error) {
	if err := s.settingsRepo.ClearManualOverride(ctx); err != nil {
		slog.Warn("failed to clear manual override at round open", "error", err)
	}

	now := time.Now()
	round := &models.Round{
		OpensAt:  now,
		ClosesAt: now.Add(s.roundDuration),
		Status:   models.RoundStatusOpen,
		Bets:     []models.Bet{},
	}
	if err := s.roundRepo.Create(ctx, round); err != nil {
		// Another observer opened the round first; use theirs.
		if errors.Is(err, models.ErrOpenRoundExists) {
			return s.roundRepo.FindLatest(ctx)
		}
		return nil, err
	}
	slog.Info("round opened", "roundId", round.ID, "closesAt", round.ClosesAt)
	return round, nil
}

func (s *GameServiceImpl) viewOf(round *models.Round, now time.Time) *RoundView {
	return &RoundView{
		ID:             round.ID,
		State:          round.State(now),
		OpensAt:        round.OpensAt,
		ClosesAt:       round.ClosesAt,
		CooldownEndsAt: round.ClosesAt.Add(s.postRoundDelay),
		BetCount:       len(round.Bets),
		TotalBetAmount: round.TotalBetAmount,
		WinningNumber:  round.WinningNumber,
		ServerTime:     now,
	}
}

// recordTransaction writes an audit record; failures are logged, never fatal.
func (s *GameServiceImpl) recordTransaction(ctx context.Context, userID, roundID primitive.ObjectID, txType models.TransactionType, amount float64, note string) {
	tx := &models.BalanceTransaction{
		UserID:  userID,
		RoundID: roundID,
		Type:    txType,
		Amount:  amount,
		Note:    note,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		slog.Error("failed to record balance transaction", "error", err, "userId", userID, "type", txType)
	}
}

// buildBet converts a validated request into a Bet, checking that the value
// matches the bet type.
func buildBet(userID primitive.ObjectID, req *models.PlaceBetRequest) (models.Bet, error) {
	bet := models.Bet{
		UserID:   userID,
		Type:     req.Type,
		Amount:   req.Amount,
		PlacedAt: time.Now(),
	}
	switch req.Type {
	case models.BetTypeColor:
		c := models.Color(req.Value)
		if c != models.ColorRed && c != models.ColorGreen && c != models.ColorViolet {
			return models.Bet{}, fmt.Errorf("%w: unknown color %q", models.ErrInvalidBet, req.Value)
		}
		bet.Color = c
	case models.BetTypeNumber:
		n, err := strconv.Atoi(req.Value)
		if err != nil || n < 0 || n > 9 {
			return models.Bet{}, fmt.Errorf("%w: number must be 0-9, got %q", models.ErrInvalidBet, req.Value)
		}
		bet.Number = n
	case models.BetTypeBigSmall:
		sz := models.Size(req.Value)
		if sz != models.SizeBig && sz != models.SizeSmall {
			return models.Bet{}, fmt.Errorf("%w: unknown size %q", models.ErrInvalidBet, req.Value)
		}
		bet.Size = sz
	default:
		return models.Bet{}, fmt.Errorf("%w: unknown bet type %q", models.ErrInvalidBet, req.Type)
	}
	return bet, nil
}
