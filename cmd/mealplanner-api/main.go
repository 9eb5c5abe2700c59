package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealplanner/internal/app"
	"mealplanner/internal/auth"
	"mealplanner/internal/config"
	"mealplanner/internal/database"
	"mealplanner/internal/logger"
	"mealplanner/internal/metrics"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	// 2. Open storage; migrations run before the connection is handed out
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// 3. Wire services
	recorder := metrics.NewRecorder()
	svc, err := app.NewServices(cfg, db, zl, recorder)
	if err != nil {
		zl.Fatal("failed to initialize services", zap.Error(err))
	}

	tokens := auth.NewTokens(cfg.JWTKey, cfg.JWTIssuer, cfg.JWTAudience)
	application := app.NewApp(cfg, zl, db, recorder, svc, tokens, auth.NewGoogleVerifier(cfg.GoogleClientID))

	// 4. Start Server with Graceful Shutdown
	srv := application.Server()

	go func() {
		zl.Info("api server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
		return
	}

	zl.Info("server exiting")
}
