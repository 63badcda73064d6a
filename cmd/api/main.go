package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ninelive/colorclash-backend/api/routes"
	"github.com/ninelive/colorclash-backend/internal/config"
	"github.com/ninelive/colorclash-backend/internal/game"
	"github.com/ninelive/colorclash-backend/internal/handlers"
	"github.com/ninelive/colorclash-backend/internal/jobs"
	mongorepo "github.com/ninelive/colorclash-backend/internal/repositories/mongodb"
	"github.com/ninelive/colorclash-backend/internal/services"
	"github.com/ninelive/colorclash-backend/pkg/mongodb"
	"github.com/ninelive/colorclash-backend/pkg/oracle"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	userRepo := mongorepo.NewUserRepository(db)
	roundRepo := mongorepo.NewRoundRepository(db)
	resultRepo := mongorepo.NewRoundResultRepository(db)
	txRepo := mongorepo.NewTransactionRepository(db)
	settingsRepo := mongorepo.NewSettingsRepository(db)
	withdrawalRepo := mongorepo.NewWithdrawalRepository(db)

	// Winner selection
	odds := game.DefaultOdds(cfg.Game.VioletMultiplier)
	var decider game.Decider
	if cfg.Oracle.Enabled {
		decider = oracle.NewClient(cfg.Oracle.BaseURL, cfg.Oracle.APIKey, cfg.Oracle.MockAPI)
	}
	selector := game.NewSelector(odds, decider, cfg.Oracle.Timeout(), nil)

	// Services
	authService := services.NewAuthService(userRepo, cfg)
	gameService := services.NewGameService(roundRepo, userRepo, resultRepo, txRepo, settingsRepo, selector, odds, cfg.Game)
	userService := services.NewUserService(userRepo, txRepo)
	withdrawalService := services.NewWithdrawalService(withdrawalRepo, userRepo, txRepo)
	settingsService := services.NewSettingsService(settingsRepo)

	// Handlers
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Game:       handlers.NewGameHandler(gameService),
		User:       handlers.NewUserHandler(userService),
		Settings:   handlers.NewSettingsHandler(settingsService),
		Withdrawal: handlers.NewWithdrawalHandler(withdrawalService),
	}

	router := routes.SetupRouter(cfg, h)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Round engine and background jobs
	go gameService.Run(ctx)

	scheduler := jobs.NewScheduler(gameService, resultRepo, cfg.Game.HistoryRetention)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
