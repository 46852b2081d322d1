package app

import (
	"context"
	"fmt"

	ordersHTTP "github.com/souqdz/marketplace/internal/orders/http"
	ordersRepository "github.com/souqdz/marketplace/internal/orders/repository"
	ordersUseCase "github.com/souqdz/marketplace/internal/orders/usecase"
)

// OrderRepository returns the order repository instance.
func (c *Container) OrderRepository() (ordersUseCase.OrderRepository, error) {
	var err error
	c.orderRepoInit.Do(func() {
		c.orderRepo, err = c.initOrderRepository()
		if err != nil {
			c.initErrors["orderRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orderRepo"]; exists {
		return nil, storedErr
	}
	return c.orderRepo, nil
}

// OrderUseCase returns the order use case instance.
func (c *Container) OrderUseCase(ctx context.Context) (ordersUseCase.OrderUseCase, error) {
	var err error
	c.orderUseCaseInit.Do(func() {
		c.orderUseCase, err = c.initOrderUseCase(ctx)
		if err != nil {
			c.initErrors["orderUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orderUseCase"]; exists {
		return nil, storedErr
	}
	return c.orderUseCase, nil
}

// initOrderRepository creates the order repository instance.
func (c *Container) initOrderRepository() (ordersUseCase.OrderRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for order repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return ordersRepository.NewMySQLOrderRepository(db), nil
	case "postgres":
		return ordersRepository.NewPostgreSQLOrderRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOrderUseCase creates the order use case with all its dependencies.
func (c *Container) initOrderUseCase(ctx context.Context) (ordersUseCase.OrderUseCase, error) {
	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for order use case: %w", err)
	}

	queueUseCase, err := c.QueueUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue use case for order use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for order use case: %w", err)
	}

	useCase := ordersUseCase.NewOrderUseCase(orderRepo, queueUseCase, c.Clock(), c.Logger())

	return ordersUseCase.NewOrderUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initOrderHandler creates the order HTTP handler.
func (c *Container) initOrderHandler(ctx context.Context) (*ordersHTTP.OrderHandler, error) {
	orderUseCase, err := c.OrderUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get order use case for order handler: %w", err)
	}
	return ordersHTTP.NewOrderHandler(orderUseCase, c.Logger()), nil
}
