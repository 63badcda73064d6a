package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/ninelive/colorclash-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameHandler handles game HTTP requests
type GameHandler struct {
	gameService services.GameService
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// GetCurrentRound handles GET /game/round
func (h *GameHandler) GetCurrentRound(c *gin.Context) {
	view, err := h.gameService.CurrentRound(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load current round: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// PlaceBet handles POST /game/bets
func (h *GameHandler) PlaceBet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	var req models.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	bet, err := h.gameService.PlaceBet(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidBet):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrRoundClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "Betting is closed for this round"})
		case errors.Is(err, models.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient balance"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place bet: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, bet)
}

// GetHistory handles GET /game/history
func (h *GameHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	results, err := h.gameService.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetLeaderboard handles GET /game/leaderboard
func (h *GameHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	entries, err := h.gameService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// SettleRound handles POST /admin/rounds/:id/settle
func (h *GameHandler) SettleRound(c *gin.Context) {
	roundID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID format"})
		return
	}

	result, err := h.gameService.SettleRound(c.Request.Context(), roundID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRoundStillOpen):
			c.JSON(http.StatusConflict, gin.H{"error": "Round is still accepting bets"})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle round: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// currentUserID extracts the authenticated user's ObjectID from the context
// set by the JWT middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		return primitive.NilObjectID, false
	}
	hex, ok := raw.(string)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
