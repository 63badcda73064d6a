package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/ninelive/colorclash-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// UserService handles account reads and admin account management
type UserService interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, req *models.AdminUserUpdateRequest) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Credit grants balance to a user and records an audit transaction.
	Credit(ctx context.Context, id primitive.ObjectID, amount float64, grantedBy string) (float64, error)
	Transactions(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.BalanceTransaction, error)
}

// UserServiceImpl handles user business logic
type UserServiceImpl struct {
	userRepo repositories.UserRepository
	txRepo   repositories.TransactionRepository
}

// NewUserService creates a new UserServiceImpl
func NewUserService(userRepo repositories.UserRepository, txRepo repositories.TransactionRepository) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: userRepo,
		txRepo:   txRepo,
	}
}

// GetByID returns a user by their ID
func (s *UserServiceImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// GetAll returns all users
func (s *UserServiceImpl) GetAll(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.FindAll(ctx)
}

// Update applies an admin edit to a user account
func (s *UserServiceImpl) Update(ctx context.Context, id primitive.ObjectID, req *models.AdminUserUpdateRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid update request: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes a user account
func (s *UserServiceImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.userRepo.Delete(ctx, id)
}

// Credit grants balance to a user account and records the grant
func (s *UserServiceImpl) Credit(ctx context.Context, id primitive.ObjectID, amount float64, grantedBy string) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive, got %.2f", amount)
	}
	balance, err := s.userRepo.AdjustBalance(ctx, id, amount)
	if err != nil {
		return 0, err
	}

	tx := &models.BalanceTransaction{
		UserID: id,
		Type:   models.TransactionTypeAdminGrant,
		Amount: amount,
		Note:   "granted by " + grantedBy,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		slog.Error("failed to record admin grant transaction", "error", err, "userId", id)
	}

	slog.Info("balance granted", "userId", id, "amount", amount, "grantedBy", grantedBy)
	return balance, nil
}

// Transactions returns a user's recent balance movements
func (s *UserServiceImpl) Transactions(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.BalanceTransaction, error) {
	return s.txRepo.FindByUserID(ctx, userID, limit)
}
