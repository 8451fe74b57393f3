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

	"github.com/aldwake/PetGrotto_Go/internal/bootstrap"
	"github.com/aldwake/PetGrotto_Go/internal/config"
	"github.com/aldwake/PetGrotto_Go/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()
	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := app.Server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("Server failed", "error", err)
	case sig := <-quit:
		logger.Info("Received shutdown signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	app.Shutdown(shutdownCtx)
}
