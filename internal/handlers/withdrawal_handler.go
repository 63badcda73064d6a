package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/ninelive/colorclash-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithdrawalHandler handles withdrawal HTTP requests
type WithdrawalHandler struct {
	withdrawalService services.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler
func NewWithdrawalHandler(withdrawalService services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// RequestWithdrawal handles POST /withdrawals
func (h *WithdrawalHandler) RequestWithdrawal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	var req models.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := h.withdrawalService.Request(c.Request.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient balance"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request withdrawal: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, withdrawal)
}

// GetMyWithdrawals handles GET /withdrawals
func (h *WithdrawalHandler) GetMyWithdrawals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	withdrawals, err := h.withdrawalService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load withdrawals: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, withdrawals)
}

// GetWithdrawalsByStatus handles GET /admin/withdrawals?status=pending
func (h *WithdrawalHandler) GetWithdrawalsByStatus(c *gin.Context) {
	status := models.WithdrawalStatus(c.DefaultQuery("status", string(models.WithdrawalStatusPending)))
	if status != models.WithdrawalStatusPending && status != models.WithdrawalStatusSent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	withdrawals, err := h.withdrawalService.GetByStatus(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load withdrawals: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, withdrawals)
}

// MarkWithdrawalSent handles POST /admin/withdrawals/:id/sent
func (h *WithdrawalHandler) MarkWithdrawalSent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid withdrawal ID format"})
		return
	}

	sentBy := c.GetString("userEmail")
	if err := h.withdrawalService.MarkSent(c.Request.Context(), id, sentBy); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending withdrawal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark withdrawal sent: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Withdrawal marked sent"})
}
