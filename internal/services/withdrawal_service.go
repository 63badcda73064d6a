package services

import (
	"context"
	"fmt"

	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/ninelive/colorclash-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure WithdrawalServiceImpl implements WithdrawalService
var _ WithdrawalService = (*WithdrawalServiceImpl)(nil)

// WithdrawalService handles withdrawal requests. Funds leave the balance at
// request time, not at approval time, so a user cannot bet money that is
// already queued to leave.
type WithdrawalService interface {
	Request(ctx context.Context, userID primitive.ObjectID, amount float64) (*models.Withdrawal, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Withdrawal, error)
	GetByStatus(ctx context.Context, status models.WithdrawalStatus) ([]*models.Withdrawal, error)
	MarkSent(ctx context.Context, id primitive.ObjectID, sentBy string) error
}

// WithdrawalServiceImpl handles withdrawal business logic
type WithdrawalServiceImpl struct {
	withdrawalRepo repositories.WithdrawalRepository
	userRepo       repositories.UserRepository
	txRepo         repositories.TransactionRepository
}

// NewWithdrawalService creates a new WithdrawalServiceImpl
func NewWithdrawalService(
	withdrawalRepo repositories.WithdrawalRepository,
	userRepo repositories.UserRepository,
	txRepo repositories.TransactionRepository,
) *WithdrawalServiceImpl {
	return &WithdrawalServiceImpl{
		withdrawalRepo: withdrawalRepo,
		userRepo:       userRepo,
		txRepo:         txRepo,
	}
}

// Request debits the user and creates a pending withdrawal. If the record
// cannot be written the debit is compensated.
func (s *WithdrawalServiceImpl) Request(ctx context.Context, userID primitive.ObjectID, amount float64) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("withdrawal amount must be positive, got %.2f", amount)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.AdjustBalance(ctx, userID, -amount); err != nil {
		return nil, err
	}

	withdrawal := &models.Withdrawal{
		UserID:    userID,
		UserEmail: user.Email,
		Amount:    amount,
		Status:    models.WithdrawalStatusPending,
	}
	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		if _, refundErr := s.userRepo.AdjustBalance(ctx, userID, amount); refundErr != nil {
			slog.Error("CRITICAL: failed to refund debit for failed withdrawal request",
				"error", refundErr, "userId", userID, "amount", amount)
		}
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	tx := &models.BalanceTransaction{
		UserID: userID,
		Type:   models.TransactionTypeWithdrawal,
		Amount: -amount,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		slog.Error("failed to record withdrawal transaction", "error", err, "userId", userID)
	}

	slog.Info("withdrawal requested", "withdrawalId", withdrawal.ID, "userId", userID, "amount", amount)
	return withdrawal, nil
}

// GetByUser returns a user's withdrawal requests
func (s *WithdrawalServiceImpl) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Withdrawal, error) {
	return s.withdrawalRepo.FindByUserID(ctx, userID)
}

// GetByStatus returns withdrawal requests filtered by status
func (s *WithdrawalServiceImpl) GetByStatus(ctx context.Context, status models.WithdrawalStatus) ([]*models.Withdrawal, error) {
	return s.withdrawalRepo.FindByStatus(ctx, status)
}

// MarkSent records that an admin has paid out a pending withdrawal
func (s *WithdrawalServiceImpl) MarkSent(ctx context.Context, id primitive.ObjectID, sentBy string) error {
	if err := s.withdrawalRepo.MarkSent(ctx, id, sentBy); err != nil {
		return err
	}
	slog.Info("withdrawal marked sent", "withdrawalId", id, "sentBy", sentBy)
	return nil
}
