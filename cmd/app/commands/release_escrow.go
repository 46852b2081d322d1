package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/souqdz/marketplace/internal/app"
	"github.com/souqdz/marketplace/internal/config"
	paymentsUseCase "github.com/souqdz/marketplace/internal/payments/usecase"
)

// RunReleaseEscrow runs one escrow sweep and reports how many held payments
// were released to sellers. The sweep is idempotent, so running it alongside
// the background sweeper is safe. Supports both text and JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunReleaseEscrow(ctx context.Context, format string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Get payment use case from container
	paymentUseCase, err := container.PaymentUseCase(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize payment use case: %w", err)
	}

	return releaseEscrow(ctx, paymentUseCase, logger, DefaultIO().Writer, format)
}

// releaseEscrow executes the sweep and writes the result to out.
func releaseEscrow(
	ctx context.Context,
	useCase paymentsUseCase.PaymentUseCase,
	logger *slog.Logger,
	out io.Writer,
	format string,
) error {
	logger.Info("running escrow release sweep")

	released, err := useCase.ReleaseEscrow(ctx)
	if err != nil {
		return fmt.Errorf("failed to release escrow: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputReleaseJSON(out, released)
	} else {
		outputReleaseText(out, released)
	}

	logger.Info("escrow release sweep completed", slog.Int("released", released))
	return nil
}

// outputReleaseText outputs the result in human-readable text format.
func outputReleaseText(out io.Writer, released int) {
	fmt.Fprintf(out, "Successfully released %d payment(s) to sellers\n", released)
}

// outputReleaseJSON outputs the result in JSON format for machine consumption.
func outputReleaseJSON(out io.Writer, released int) {
	result := map[string]interface{}{
		"released": released,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}
