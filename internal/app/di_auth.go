package app

import (
	"context"
	"fmt"

	authUseCase "github.com/souqdz/marketplace/internal/auth/usecase"
)

// OTPUseCase returns the one-time password use case instance.
func (c *Container) OTPUseCase(ctx context.Context) (authUseCase.OTPUseCase, error) {
	var err error
	c.otpUseCaseInit.Do(func() {
		c.otpUseCase, err = c.initOTPUseCase(ctx)
		if err != nil {
			c.initErrors["otpUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["otpUseCase"]; exists {
		return nil, storedErr
	}
	return c.otpUseCase, nil
}

// initOTPUseCase creates the OTP use case with all its dependencies.
func (c *Container) initOTPUseCase(ctx context.Context) (authUseCase.OTPUseCase, error) {
	queueUseCase, err := c.QueueUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue use case for otp use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for otp use case: %w", err)
	}

	otpConfig := authUseCase.DefaultConfig()
	otpConfig.Validity = c.config.OTPValidity

	useCase := authUseCase.NewOTPUseCase(otpConfig, queueUseCase, c.Clock(), c.Logger())

	return authUseCase.NewOTPUseCaseWithMetrics(useCase, businessMetrics), nil
}
