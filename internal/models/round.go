package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoundStatus is the persisted status of a round. AwaitingSettlement is not
// stored: any observer derives it by comparing the clock against ClosesAt.
type RoundStatus string

const (
	RoundStatusOpen    RoundStatus = "OPEN"
	RoundStatusSettled RoundStatus = "SETTLED"
)

// RoundState is the lifecycle state of a round as observed at a point in time.
type RoundState string

const (
	RoundStateOpen               RoundState = "OPEN"
	RoundStateAwaitingSettlement RoundState = "AWAITING_SETTLEMENT"
	RoundStateSettled            RoundState = "SETTLED"
)

// Round is one timed betting period. WinningNumber is nil until settlement;
// the conditional write of that field is the exactly-once settlement guard.
type Round struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OpensAt        time.Time          `bson:"opensAt" json:"opensAt"`
	ClosesAt       time.Time          `bson:"closesAt" json:"closesAt"`
	Status         RoundStatus        `bson:"status" json:"status"`
	Bets           []Bet              `bson:"bets" json:"bets"`
	WinningNumber  *int               `bson:"winningNumber,omitempty" json:"winningNumber,omitempty"`
	TotalBetAmount float64            `bson:"totalBetAmount" json:"totalBetAmount"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// State reports the lifecycle state of the round at the given instant.
func (r *Round) State(now time.Time) RoundState {
	if r.WinningNumber != nil || r.Status == RoundStatusSettled {
		return RoundStateSettled
	}
	if !now.Before(r.ClosesAt) {
		return RoundStateAwaitingSettlement
	}
	return RoundStateOpen
}

// AcceptingBets reports whether a bet placed at the given instant is valid.
func (r *Round) AcceptingBets(now time.Time) bool {
	return r.State(now) == RoundStateOpen
}

// RoundResult is the immutable record of a settled round, consumed by the
// history panel, the leaderboard aggregation and admin audit.
type RoundResult struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RoundID       primitive.ObjectID `bson:"roundId" json:"roundId"`
	WinningNumber int                `bson:"winningNumber" json:"winningNumber"`
	WinningColor  Color              `bson:"winningColor" json:"winningColor"`
	WinningSize   Size               `bson:"winningSize" json:"winningSize"`
	Bets          []Bet              `bson:"bets" json:"bets"`
	TotalStake    float64            `bson:"totalStake" json:"totalStake"`
	TotalPayout   float64            `bson:"totalPayout" json:"totalPayout"`
	SettledAt     time.Time          `bson:"settledAt" json:"settledAt"`
}

// LeaderboardEntry is the aggregated net winnings of one user across all
// settled rounds.
type LeaderboardEntry struct {
	UserID        primitive.ObjectID `bson:"_id" json:"userId"`
	TotalWinnings float64            `bson:"totalWinnings" json:"totalWinnings"`
	TotalStaked   float64            `bson:"totalStaked" json:"totalStaked"`
	NetWinnings   float64            `bson:"netWinnings" json:"netWinnings"`
}
