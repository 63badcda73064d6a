package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithdrawalStatus is the processing status of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending WithdrawalStatus = "pending"
	WithdrawalStatusSent    WithdrawalStatus = "sent"
)

// Withdrawal is a user's request to withdraw funds. The balance is debited
// atomically when the request is created, so a pending request already holds
// the money.
type Withdrawal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	Amount    float64            `bson:"amount" json:"amount"`
	Status    WithdrawalStatus   `bson:"status" json:"status"`
	SentBy    string             `bson:"sentBy,omitempty" json:"sentBy,omitempty"`
	SentAt    time.Time          `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// WithdrawalRequest is the payload for POST /withdrawals.
type WithdrawalRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Validate checks the structural constraints of the request.
func (r *WithdrawalRequest) Validate() error {
	return validate.Struct(r)
}
