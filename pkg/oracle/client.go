// Package oracle is the client for the external winner-decision service: the
// "game master" that picks a winning number from a payout projection. The
// caller must treat every response as untrusted; selection falls back to
// uniform random whenever this client errors, times out or returns a number
// outside [0,9].
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/ninelive/colorclash-backend/internal/game"
)

// Client represents a winner-decision API client
type Client struct {
	BaseURL string
	APIKey  string
	MockAPI bool
	client  *http.Client
}

// decideRequest is the wire payload sent to the decision endpoint
type decideRequest struct {
	Totals     [10]float64 `json:"totals"`
	BetCount   int         `json:"betCount"`
	Difficulty string      `json:"difficulty"`
}

// decideResponse is the wire payload returned by the decision endpoint
type decideResponse struct {
	WinningNumber int `json:"winningNumber"`
}

// NewClient creates a new winner-decision API client
func NewClient(baseURL, apiKey string, mockAPI bool) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		MockAPI: mockAPI,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Decide asks the service for a winning number given the payout projection.
// It implements game.Decider.
func (c *Client) Decide(ctx context.Context, summary game.Summary) (int, error) {
	if c.MockAPI {
		return c.mockDecide(summary)
	}

	body, err := json.Marshal(decideRequest{
		Totals:     summary.Totals,
		BetCount:   summary.BetCount,
		Difficulty: string(summary.Difficulty),
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/decide", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("decision service returned status %d", resp.StatusCode)
	}

	var decision decideResponse
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return 0, err
	}
	return decision.WinningNumber, nil
}

// mockDecide reproduces the decision service's documented behavior locally:
// easy minimizes the projected payout, moderate ignores it, hard avoids the
// maximum-payout numbers.
func (c *Client) mockDecide(summary game.Summary) (int, error) {
	switch summary.Difficulty {
	case "moderate":
		return rand.Intn(10), nil
	case "hard":
		max := summary.Totals[0]
		for _, v := range summary.Totals[1:] {
			if v > max {
				max = v
			}
		}
		var candidates []int
		for n, v := range summary.Totals {
			if v < max {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) == 0 {
			return rand.Intn(10), nil
		}
		return candidates[rand.Intn(len(candidates))], nil
	default:
		min := summary.Totals[0]
		for _, v := range summary.Totals[1:] {
			if v < min {
				min = v
			}
		}
		var candidates []int
		for n, v := range summary.Totals {
			if v == min {
				candidates = append(candidates, n)
			}
		}
		return candidates[rand.Intn(len(candidates))], nil
	}
}
