package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ninelive/colorclash-backend/internal/config"
	"github.com/ninelive/colorclash-backend/internal/handlers"
	"github.com/ninelive/colorclash-backend/internal/middleware"
)

// Handlers aggregates every HTTP handler the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Game       *handlers.GameHandler
	User       *handlers.UserHandler
	Settings   *handlers.SettingsHandler
	Withdrawal *handlers.WithdrawalHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// The round view and results feed are public so the lobby can
		// render without a session.
		game := public.Group("/game")
		{
			game.GET("/round", h.Game.GetCurrentRound)
			game.GET("/history", h.Game.GetHistory)
			game.GET("/leaderboard", h.Game.GetLeaderboard)
			game.GET("/payment-settings", h.Settings.GetPaymentSettings)
		}
	}

	// Authenticated routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		protected.POST("/game/bets", h.Game.PlaceBet)

		users := protected.Group("/users")
		{
			users.GET("/me", h.User.GetMe)
			users.GET("/me/transactions", h.User.GetMyTransactions)
		}

		withdrawals := protected.Group("/withdrawals")
		{
			withdrawals.POST("", h.Withdrawal.RequestWithdrawal)
			withdrawals.GET("", h.Withdrawal.GetMyWithdrawals)
		}
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg))
	admin.Use(middleware.AdminOnlyMiddleware())
	{
		admin.GET("/users", h.User.GetAllUsers)
		admin.PUT("/users/:id", h.User.UpdateUser)
		admin.DELETE("/users/:id", h.User.DeleteUser)
		admin.POST("/users/:id/credit", h.User.CreditUser)

		admin.GET("/settings/game", h.Settings.GetGameSettings)
		admin.PUT("/settings/game", h.Settings.UpdateGameSettings)
		admin.GET("/settings/payment", h.Settings.GetPaymentSettings)
		admin.PUT("/settings/payment", h.Settings.UpdatePaymentSettings)

		admin.GET("/withdrawals", h.Withdrawal.GetWithdrawalsByStatus)
		admin.POST("/withdrawals/:id/sent", h.Withdrawal.MarkWithdrawalSent)

		admin.POST("/rounds/:id/settle", h.Game.SettleRound)
	}

	return router
}
