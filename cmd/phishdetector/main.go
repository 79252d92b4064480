package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/agent"
	"github.com/Caerfyrddin29/PhishDetector/internal/config"
	"github.com/Caerfyrddin29/PhishDetector/internal/core"
	"github.com/Caerfyrddin29/PhishDetector/internal/di"
)

func main() {
	// Load .env if present; real environment wins
	_ = godotenv.Load()

	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	server *agent.Server,
	analyzer core.Analyzer,
	store core.SettingsStore,
	notifier core.Notifier,
) error {
	defer logger.Sync()

	// Report backend reachability at startup; the agent still serves
	// if the backend is down, scans just fail with a backend reason.
	pingCtx, cancel := context.WithTimeout(context.Background(), core.ScanTimeout)
	if err := analyzer.Ping(pingCtx); err != nil {
		logger.Warn("Analysis backend unreachable at startup", zap.Error(err))
	} else {
		logger.Info("Analysis backend reachable")
	}
	cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.GetAgent().ListenAddress)
	}()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("Agent API stopped", zap.Error(err))
		return err
	case <-sigCh:
		logger.Info("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to stop agent API", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := notifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close notifier", zap.Error(err))
		}
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close settings store", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
