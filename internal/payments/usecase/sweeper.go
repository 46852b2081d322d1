package usecase

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper runs the escrow release sweep on a fixed interval.
type Sweeper struct {
	interval time.Duration
	useCase  PaymentUseCase
	logger   *slog.Logger
}

// NewSweeper creates a new Sweeper.
func NewSweeper(interval time.Duration, useCase PaymentUseCase, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		interval: interval,
		useCase:  useCase,
		logger:   logger,
	}
}

// Start runs the sweep loop until the context is canceled.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("starting escrow sweeper", slog.Duration("interval", s.interval))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.Info("stopping escrow sweeper")
			}
			return ctx.Err()
		case <-ticker.C:
			released, err := s.useCase.ReleaseEscrow(ctx)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("escrow sweep failed", slog.Any("error", err))
				}
				continue
			}
			if s.logger != nil && released > 0 {
				s.logger.Info("escrow sweep released payments", slog.Int("released", released))
			}
		}
	}
}
