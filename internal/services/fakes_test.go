package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ninelive/colorclash-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the conditional-write semantics of the
// Mongo implementations, so the service invariants can be exercised without a
// database.

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
	// failAdjust forces AdjustBalance to fail for these users, to simulate
	// a partial ledger outage.
	failAdjust map[primitive.ObjectID]error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:      make(map[primitive.ObjectID]*models.User),
		failAdjust: make(map[primitive.ObjectID]error),
	}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memUserRepo) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Phone != "" && user.Phone == phone {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memUserRepo) FindAll(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return models.ErrNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) AdjustBalance(ctx context.Context, userID primitive.ObjectID, delta float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failAdjust[userID]; ok {
		return 0, err
	}
	user, ok := r.users[userID]
	if !ok {
		return 0, models.ErrNotFound
	}
	if delta < 0 && user.Balance+delta < 0 {
		return 0, models.ErrInsufficientFunds
	}
	user.Balance += delta
	return user.Balance, nil
}

func (r *memUserRepo) BatchAdjust(ctx context.Context, entries []models.BalanceAdjustment) error {
	var failed []models.BalanceAdjustment
	for _, entry := range entries {
		if _, err := r.AdjustBalance(ctx, entry.UserID, entry.Delta); err != nil {
			failed = append(failed, entry)
		}
	}
	if len(failed) > 0 {
		return &models.LedgerBatchError{Failed: failed}
	}
	return nil
}

func (r *memUserRepo) balance(id primitive.ObjectID) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id].Balance
}

type memRoundRepo struct {
	mu     sync.Mutex
	rounds map[primitive.ObjectID]*models.Round
	order  []primitive.ObjectID
	// failAppend forces AppendBet to report the round closed, to simulate
	// losing the race with settlement.
	failAppend bool
}

func newMemRoundRepo() *memRoundRepo {
	return &memRoundRepo{rounds: make(map[primitive.ObjectID]*models.Round)}
}

func (r *memRoundRepo) Create(ctx context.Context, round *models.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirror the store's partial unique index on the open status.
	for _, id := range r.order {
		if r.rounds[id].Status == models.RoundStatusOpen {
			return models.ErrOpenRoundExists
		}
	}
	if round.ID.IsZero() {
		round.ID = primitive.NewObjectID()
	}
	round.CreatedAt = time.Now()
	round.UpdatedAt = time.Now()
	copied := *round
	r.rounds[round.ID] = &copied
	r.order = append(r.order, round.ID)
	return nil
}

func (r *memRoundRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyRound(round), nil
}

func (r *memRoundRepo) FindLatest(ctx context.Context) (*models.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return nil, models.ErrNotFound
	}
	return copyRound(r.rounds[r.order[len(r.order)-1]]), nil
}

func (r *memRoundRepo) AppendBet(ctx context.Context, roundID primitive.ObjectID, bet models.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[roundID]
	if !ok {
		return models.ErrNotFound
	}
	if r.failAppend || !round.AcceptingBets(bet.PlacedAt) {
		return models.ErrRoundClosed
	}
	round.Bets = append(round.Bets, bet)
	round.TotalBetAmount += bet.Amount
	return nil
}

func (r *memRoundRepo) SetWinningNumber(ctx context.Context, roundID primitive.ObjectID, winningNumber int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[roundID]
	if !ok {
		return false, models.ErrNotFound
	}
	if round.WinningNumber != nil {
		return false, nil
	}
	n := winningNumber
	round.WinningNumber = &n
	return true, nil
}

func (r *memRoundRepo) MarkSettled(ctx context.Context, roundID primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[roundID]
	if !ok {
		return models.ErrNotFound
	}
	round.Status = models.RoundStatusSettled
	return nil
}

func (r *memRoundRepo) FindUnsettledExpired(ctx context.Context, now time.Time) ([]*models.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Round
	for _, id := range r.order {
		round := r.rounds[id]
		if round.Status == models.RoundStatusOpen && !now.Before(round.ClosesAt) {
			out = append(out, copyRound(round))
		}
	}
	return out, nil
}

func copyRound(round *models.Round) *models.Round {
	copied := *round
	copied.Bets = append([]models.Bet(nil), round.Bets...)
	if round.WinningNumber != nil {
		n := *round.WinningNumber
		copied.WinningNumber = &n
	}
	return &copied
}

type memResultRepo struct {
	mu      sync.Mutex
	results []*models.RoundResult
}

func newMemResultRepo() *memResultRepo {
	return &memResultRepo{}
}

func (r *memResultRepo) Append(ctx context.Context, result *models.RoundResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if result.ID.IsZero() {
		result.ID = primitive.NewObjectID()
	}
	copied := *result
	r.results = append(r.results, &copied)
	return nil
}

func (r *memResultRepo) FindByRoundID(ctx context.Context, roundID primitive.ObjectID) (*models.RoundResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, result := range r.results {
		if result.RoundID == roundID {
			copied := *result
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memResultRepo) FindRecent(ctx context.Context, limit int) ([]*models.RoundResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.RoundResult, len(r.results))
	for i, result := range r.results {
		copied := *result
		out[len(r.results)-1-i] = &copied
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memResultRepo) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser := make(map[primitive.ObjectID]*models.LeaderboardEntry)
	for _, result := range r.results {
		for _, bet := range result.Bets {
			entry, ok := byUser[bet.UserID]
			if !ok {
				entry = &models.LeaderboardEntry{UserID: bet.UserID}
				byUser[bet.UserID] = entry
			}
			entry.TotalWinnings += bet.Payout
			entry.TotalStaked += bet.Amount
			entry.NetWinnings = entry.TotalWinnings - entry.TotalStaked
		}
	}
	out := make([]*models.LeaderboardEntry, 0, len(byUser))
	for _, entry := range byUser {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NetWinnings > out[j].NetWinnings })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memResultRepo) Prune(ctx context.Context, keep int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.results) <= keep {
		return 0, nil
	}
	removed := int64(len(r.results) - keep)
	r.results = r.results[len(r.results)-keep:]
	return removed, nil
}

func (r *memResultRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

type memTxRepo struct {
	mu  sync.Mutex
	txs []*models.BalanceTransaction
}

func newMemTxRepo() *memTxRepo {
	return &memTxRepo{}
}

func (r *memTxRepo) Create(ctx context.Context, tx *models.BalanceTransaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	tx.CreatedAt = time.Now()
	copied := *tx
	r.txs = append(r.txs, &copied)
	return nil
}

func (r *memTxRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.BalanceTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.BalanceTransaction
	for i := len(r.txs) - 1; i >= 0; i-- {
		if r.txs[i].UserID == userID {
			copied := *r.txs[i]
			out = append(out, &copied)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *memTxRepo) FindPendingReconciliation(ctx context.Context) ([]*models.BalanceTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.BalanceTransaction
	for _, tx := range r.txs {
		if tx.Type == models.TransactionTypeReconcilePending {
			copied := *tx
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memTxRepo) countByType(txType models.TransactionType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, tx := range r.txs {
		if tx.Type == txType {
			n++
		}
	}
	return n
}

type memSettingsRepo struct {
	mu       sync.Mutex
	game     *models.GameSettings
	payment  *models.PaymentSettings
	clearCnt int
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{game: models.DefaultGameSettings(), payment: &models.PaymentSettings{}}
}

func (r *memSettingsRepo) GetGameSettings(ctx context.Context) (*models.GameSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *r.game
	return &copied, nil
}

func (r *memSettingsRepo) UpdateGameSettings(ctx context.Context, settings *models.GameSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *settings
	r.game = &copied
	return nil
}

func (r *memSettingsRepo) ClearManualOverride(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.game.ManualWinner = nil
	r.game.ManualWinnerColor = nil
	r.game.ManualWinnerSize = nil
	r.clearCnt++
	return nil
}

func (r *memSettingsRepo) GetPaymentSettings(ctx context.Context) (*models.PaymentSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *r.payment
	return &copied, nil
}

func (r *memSettingsRepo) UpdatePaymentSettings(ctx context.Context, settings *models.PaymentSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *settings
	r.payment = &copied
	return nil
}

type memWithdrawalRepo struct {
	mu          sync.Mutex
	withdrawals map[primitive.ObjectID]*models.Withdrawal
	failCreate  error
}

func newMemWithdrawalRepo() *memWithdrawalRepo {
	return &memWithdrawalRepo{withdrawals: make(map[primitive.ObjectID]*models.Withdrawal)}
}

func (r *memWithdrawalRepo) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	if withdrawal.ID.IsZero() {
		withdrawal.ID = primitive.NewObjectID()
	}
	withdrawal.CreatedAt = time.Now()
	copied := *withdrawal
	r.withdrawals[withdrawal.ID] = &copied
	return nil
}

func (r *memWithdrawalRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	withdrawal, ok := r.withdrawals[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *withdrawal
	return &copied, nil
}

func (r *memWithdrawalRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Withdrawal
	for _, withdrawal := range r.withdrawals {
		if withdrawal.UserID == userID {
			copied := *withdrawal
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memWithdrawalRepo) FindByStatus(ctx context.Context, status models.WithdrawalStatus) ([]*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Withdrawal
	for _, withdrawal := range r.withdrawals {
		if withdrawal.Status == status {
			copied := *withdrawal
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memWithdrawalRepo) MarkSent(ctx context.Context, id primitive.ObjectID, sentBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	withdrawal, ok := r.withdrawals[id]
	if !ok || withdrawal.Status != models.WithdrawalStatusPending {
		return models.ErrNotFound
	}
	withdrawal.Status = models.WithdrawalStatusSent
	withdrawal.SentBy = sentBy
	withdrawal.SentAt = time.Now()
	return nil
}
