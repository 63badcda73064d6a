package game

import "github.com/ninelive/colorclash-backend/internal/models"

// Odds holds the fixed payout multipliers per outcome category.
type Odds struct {
	Red      float64
	Green    float64
	Violet   float64
	Number   float64
	BigSmall float64
}

// DefaultOdds returns the standard odds table. The Violet multiplier is the
// only tunable one (observed 5x-10x); pass the configured value.
func DefaultOdds(violetMultiplier float64) Odds {
	if violetMultiplier <= 0 {
		violetMultiplier = 5
	}
	return Odds{
		Red:      2,
		Green:    2,
		Violet:   violetMultiplier,
		Number:   9,
		BigSmall: 2,
	}
}

// ColorMultiplier returns the multiplier for a color bet on c.
func (o Odds) ColorMultiplier(c models.Color) float64 {
	switch c {
	case models.ColorRed:
		return o.Red
	case models.ColorGreen:
		return o.Green
	case models.ColorViolet:
		return o.Violet
	}
	return 0
}

// Payout computes what the bet returns if winningNumber wins. It is pure and
// total: unknown bet types and out-of-range numbers pay zero. The same
// function drives live settlement and the what-if projections used by winner
// selection.
func (o Odds) Payout(bet models.Bet, winningNumber int) float64 {
	outcome, ok := OutcomeOf(winningNumber)
	if !ok {
		return 0
	}
	switch bet.Type {
	case models.BetTypeColor:
		if bet.Color == outcome.Color {
			return bet.Amount * o.ColorMultiplier(bet.Color)
		}
	case models.BetTypeNumber:
		if bet.Number == winningNumber {
			return bet.Amount * o.Number
		}
	case models.BetTypeBigSmall:
		if bet.Size == outcome.Size {
			return bet.Amount * o.BigSmall
		}
	}
	return 0
}

// PayoutsByNumber computes, for each candidate number 0-9, the total payout
// across all bets if that number were to win.
func (o Odds) PayoutsByNumber(bets []models.Bet) [10]float64 {
	var totals [10]float64
	for n := 0; n <= 9; n++ {
		for _, bet := range bets {
			totals[n] += o.Payout(bet, n)
		}
	}
	return totals
}

// TotalStake sums the amounts wagered across the bets.
func TotalStake(bets []models.Bet) float64 {
	var total float64
	for _, bet := range bets {
		total += bet.Amount
	}
	return total
}
