package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ninelive/colorclash-backend/internal/game"
	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockDecideEasyMinimizesPayout(t *testing.T) {
	c := NewClient("", "", true)
	summary := game.Summary{Difficulty: models.DifficultyEasy}
	for n := range summary.Totals {
		summary.Totals[n] = 100
	}
	summary.Totals[4] = 0

	for i := 0; i < 50; i++ {
		n, err := c.Decide(context.Background(), summary)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	}
}

func TestMockDecideHardAvoidsMaximum(t *testing.T) {
	c := NewClient("", "", true)
	summary := game.Summary{Difficulty: models.DifficultyHard}
	summary.Totals[6] = 900

	for i := 0; i < 100; i++ {
		n, err := c.Decide(context.Background(), summary)
		require.NoError(t, err)
		assert.NotEqual(t, 6, n)
	}
}

func TestMockDecideModerateInRange(t *testing.T) {
	c := NewClient("", "", true)
	summary := game.Summary{Difficulty: models.DifficultyModerate}

	for i := 0; i < 100; i++ {
		n, err := c.Decide(context.Background(), summary)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		assert.LessOrEqual(t, n, 9)
	}
}

func TestDecideCallsService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/decide", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req decideRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hard", req.Difficulty)
		assert.Equal(t, 2, req.BetCount)

		json.NewEncoder(w).Encode(decideResponse{WinningNumber: 3})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", false)
	summary := game.Summary{BetCount: 2, Difficulty: models.DifficultyHard}
	summary.Totals[7] = 1000

	n, err := c.Decide(context.Background(), summary)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestDecidePropagatesServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", false)
	_, err := c.Decide(context.Background(), game.Summary{})
	assert.Error(t, err)
}

func TestDecideHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(server.URL, "test-key", false)
	_, err := c.Decide(ctx, game.Summary{})
	assert.Error(t, err)
}
