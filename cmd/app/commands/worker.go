package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/souqdz/marketplace/internal/app"
	"github.com/souqdz/marketplace/internal/config"
)

// RunWorker starts the notification worker and the escrow sweeper with
// graceful shutdown support. Both loops share one context: a SIGINT/SIGTERM
// stops them together, and a fatal error in either one stops the other.
// The metrics server is exposed alongside the loops when metrics are enabled.
func RunWorker(ctx context.Context, version string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	worker, err := container.Worker(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize notification worker: %w", err)
	}

	sweeper, err := container.Sweeper(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize escrow sweeper: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return worker.Start(groupCtx)
	})

	group.Go(func() error {
		return sweeper.Start(groupCtx)
	})

	if metricsServer != nil {
		group.Go(func() error {
			if err := metricsServer.Start(groupCtx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})

		group.Go(func() error {
			<-groupCtx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
			defer shutdownCancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("metrics server shutdown: %w", err)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("worker stopped")
	return nil
}
