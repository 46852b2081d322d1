package app

import (
	"context"
	"fmt"

	paymentsDomain "github.com/souqdz/marketplace/internal/payments/domain"
	paymentsHTTP "github.com/souqdz/marketplace/internal/payments/http"
	paymentsRepository "github.com/souqdz/marketplace/internal/payments/repository"
	paymentsUseCase "github.com/souqdz/marketplace/internal/payments/usecase"
)

// PaymentRepository returns the payment repository instance.
func (c *Container) PaymentRepository() (paymentsUseCase.PaymentRepository, error) {
	var err error
	c.payRepoInit.Do(func() {
		c.payRepo, err = c.initPaymentRepository()
		if err != nil {
			c.initErrors["paymentRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentRepo"]; exists {
		return nil, storedErr
	}
	return c.payRepo, nil
}

// PaymentUseCase returns the payment use case instance.
func (c *Container) PaymentUseCase(ctx context.Context) (paymentsUseCase.PaymentUseCase, error) {
	var err error
	c.paymentUseCaseInit.Do(func() {
		c.paymentUseCase, err = c.initPaymentUseCase(ctx)
		if err != nil {
			c.initErrors["paymentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentUseCase"]; exists {
		return nil, storedErr
	}
	return c.paymentUseCase, nil
}

// Sweeper returns the background escrow sweeper.
func (c *Container) Sweeper(ctx context.Context) (*paymentsUseCase.Sweeper, error) {
	var err error
	c.sweeperInit.Do(func() {
		var useCase paymentsUseCase.PaymentUseCase
		useCase, err = c.PaymentUseCase(ctx)
		if err != nil {
			c.initErrors["sweeper"] = err
			return
		}
		c.sweeper = paymentsUseCase.NewSweeper(c.config.EscrowSweepInterval, useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sweeper"]; exists {
		return nil, storedErr
	}
	return c.sweeper, nil
}

// initPaymentRepository creates the payment repository instance.
func (c *Container) initPaymentRepository() (paymentsUseCase.PaymentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for payment repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return paymentsRepository.NewMySQLPaymentRepository(db), nil
	case "postgres":
		return paymentsRepository.NewPostgreSQLPaymentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPaymentUseCase creates the payment use case with all its dependencies.
func (c *Container) initPaymentUseCase(ctx context.Context) (paymentsUseCase.PaymentUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for payment use case: %w", err)
	}

	paymentRepo, err := c.PaymentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment repository for payment use case: %w", err)
	}

	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for payment use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for payment use case: %w", err)
	}

	decider := paymentsDomain.EscrowDecider{
		HoldPeriod: c.config.EscrowHoldPeriod,
		StrictHold: c.config.EscrowStrictHold,
	}

	useCaseConfig := paymentsUseCase.DefaultConfig()
	useCaseConfig.CacheTTL = c.config.CacheTTL

	useCase := paymentsUseCase.NewPaymentUseCase(
		useCaseConfig,
		txManager,
		paymentRepo,
		orderRepo,
		decider,
		c.StatusCache(),
		c.Clock(),
		c.Logger(),
	)

	return paymentsUseCase.NewPaymentUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initPaymentHandler creates the payment HTTP handler.
func (c *Container) initPaymentHandler(ctx context.Context) (*paymentsHTTP.PaymentHandler, error) {
	paymentUseCase, err := c.PaymentUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment use case for payment handler: %w", err)
	}
	return paymentsHTTP.NewPaymentHandler(paymentUseCase, c.Logger()), nil
}
