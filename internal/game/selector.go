package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ninelive/colorclash-backend/internal/models"
	"golang.org/x/exp/slog"
)

// Summary is the per-candidate payout projection handed to an external
// winner-decision strategy.
type Summary struct {
	Totals     [10]float64       `json:"totals"`
	BetCount   int               `json:"betCount"`
	Difficulty models.Difficulty `json:"difficulty"`
}

// Decider is an external winner-decision strategy. Implementations may fail
// or time out; the selector tolerates both.
type Decider interface {
	Decide(ctx context.Context, summary Summary) (int, error)
}

// Selector resolves the winning number for a round: manual overrides first,
// then the external oracle if one is configured, then the local difficulty
// policies. Selection never fails; every degraded path ends in uniform
// random over all ten numbers.
type Selector struct {
	odds          Odds
	oracle        Decider
	oracleTimeout time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a selector. oracle may be nil to use the local
// policies only. rng may be nil to use a time-seeded source.
func NewSelector(odds Odds, oracle Decider, oracleTimeout time.Duration, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if oracleTimeout <= 0 {
		oracleTimeout = 3 * time.Second
	}
	return &Selector{
		odds:          odds,
		oracle:        oracle,
		oracleTimeout: oracleTimeout,
		rng:           rng,
	}
}

// SelectWinner picks the winning number for the round given its frozen bet
// list and the current game settings. The result is always in [0,9].
func (s *Selector) SelectWinner(ctx context.Context, bets []models.Bet, settings *models.GameSettings) int {
	if settings == nil {
		settings = models.DefaultGameSettings()
	}

	if n, ok := s.resolveManual(settings); ok {
		return n
	}

	totals := s.odds.PayoutsByNumber(bets)

	if s.oracle != nil {
		summary := Summary{Totals: totals, BetCount: len(bets), Difficulty: settings.Difficulty}
		octx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
		defer cancel()
		n, err := s.oracle.Decide(octx, summary)
		if err == nil && n >= 0 && n <= 9 {
			return n
		}
		slog.Warn("winner oracle unusable, falling back to uniform random", "error", err, "number", n)
		return s.intn(10)
	}

	switch settings.Difficulty {
	case models.DifficultyModerate:
		return s.intn(10)
	case models.DifficultyHard:
		return s.pickHard(totals)
	default:
		return s.pickEasy(totals)
	}
}

// resolveManual turns a pending single-shot override into a concrete number.
// A bare number wins over a color or size constraint; constraints resolve to
// a uniform pick among the numbers satisfying them.
func (s *Selector) resolveManual(settings *models.GameSettings) (int, bool) {
	if settings.ManualWinner != nil {
		n := *settings.ManualWinner
		if n >= 0 && n <= 9 {
			return n, true
		}
		slog.Warn("manual winner out of range, ignoring override", "number", n)
		return 0, false
	}
	if settings.ManualWinnerColor != nil {
		if nums := NumbersWithColor(*settings.ManualWinnerColor); len(nums) > 0 {
			return nums[s.intn(len(nums))], true
		}
	}
	if settings.ManualWinnerSize != nil {
		if nums := NumbersWithSize(*settings.ManualWinnerSize); len(nums) > 0 {
			return nums[s.intn(len(nums))], true
		}
	}
	return 0, false
}

// pickEasy chooses the number with the minimum total payout, breaking ties
// uniformly at random.
func (s *Selector) pickEasy(totals [10]float64) int {
	candidates := minIndices(totals)
	return candidates[s.intn(len(candidates))]
}

// pickHard chooses uniformly among the numbers outside the maximum-payout
// set; if every number ties for the maximum, it falls back to uniform random
// over all ten.
func (s *Selector) pickHard(totals [10]float64) int {
	maxSet := make(map[int]bool)
	for _, n := range maxIndices(totals) {
		maxSet[n] = true
	}
	var candidates []int
	for n := 0; n <= 9; n++ {
		if !maxSet[n] {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return s.intn(10)
	}
	return candidates[s.intn(len(candidates))]
}

func (s *Selector) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func minIndices(totals [10]float64) []int {
	min := totals[0]
	for _, v := range totals[1:] {
		if v < min {
			min = v
		}
	}
	var idx []int
	for n, v := range totals {
		if v == min {
			idx = append(idx, n)
		}
	}
	return idx
}

func maxIndices(totals [10]float64) []int {
	max := totals[0]
	for _, v := range totals[1:] {
		if v > max {
			max = v
		}
	}
	var idx []int
	for n, v := range totals {
		if v == max {
			idx = append(idx, n)
		}
	}
	return idx
}
