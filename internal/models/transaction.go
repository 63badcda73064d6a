package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType classifies a balance movement.
type TransactionType string

const (
	TransactionTypeBet        TransactionType = "BET"
	TransactionTypeBetRefund  TransactionType = "BET_REFUND"
	TransactionTypePayout     TransactionType = "PAYOUT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeAdminGrant TransactionType = "ADMIN_GRANT"
	// TransactionTypeReconcilePending marks a settlement credit that failed to
	// apply and is waiting for operator reconciliation.
	TransactionTypeReconcilePending TransactionType = "RECONCILE_PENDING"
)

// BalanceTransaction is the audit record written for every balance movement.
type BalanceTransaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	RoundID   primitive.ObjectID `bson:"roundId,omitempty" json:"roundId,omitempty"`
	Type      TransactionType    `bson:"type" json:"type"`
	Amount    float64            `bson:"amount" json:"amount"` // signed delta
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// BalanceAdjustment is one entry of a multi-account batch update.
type BalanceAdjustment struct {
	UserID primitive.ObjectID
	Delta  float64
}
