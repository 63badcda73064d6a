package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundState(t *testing.T) {
	now := time.Now()
	round := &Round{
		OpensAt:  now.Add(-10 * time.Second),
		ClosesAt: now.Add(20 * time.Second),
		Status:   RoundStatusOpen,
	}

	assert.Equal(t, RoundStateOpen, round.State(now))
	assert.True(t, round.AcceptingBets(now))

	// Past the deadline but not yet settled.
	assert.Equal(t, RoundStateAwaitingSettlement, round.State(round.ClosesAt))
	assert.False(t, round.AcceptingBets(round.ClosesAt))

	// A winning number ends the round regardless of the clock.
	n := 4
	round.WinningNumber = &n
	assert.Equal(t, RoundStateSettled, round.State(now))
	assert.False(t, round.AcceptingBets(now))
}

func TestRoundStateSettledStatus(t *testing.T) {
	now := time.Now()
	round := &Round{
		OpensAt:  now.Add(-40 * time.Second),
		ClosesAt: now.Add(-10 * time.Second),
		Status:   RoundStatusSettled,
	}
	assert.Equal(t, RoundStateSettled, round.State(now))
}

func TestPlaceBetRequestValidate(t *testing.T) {
	valid := &PlaceBetRequest{Type: BetTypeColor, Value: "Red", Amount: 10}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&PlaceBetRequest{Type: "Roulette", Value: "Red", Amount: 10}).Validate())
	assert.Error(t, (&PlaceBetRequest{Type: BetTypeColor, Value: "Red", Amount: 0}).Validate())
	assert.Error(t, (&PlaceBetRequest{Type: BetTypeColor, Value: "Red", Amount: -5}).Validate())
}
