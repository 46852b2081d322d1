package app

import (
	"context"
	"fmt"

	"github.com/souqdz/marketplace/internal/notifications/channel"
	notificationsDomain "github.com/souqdz/marketplace/internal/notifications/domain"
	notificationsRepository "github.com/souqdz/marketplace/internal/notifications/repository"
	notificationsUseCase "github.com/souqdz/marketplace/internal/notifications/usecase"
)

// JobRepository returns the notification job repository instance.
func (c *Container) JobRepository() (notificationsUseCase.JobRepository, error) {
	var err error
	c.jobRepoInit.Do(func() {
		c.jobRepo, err = c.initJobRepository()
		if err != nil {
			c.initErrors["jobRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["jobRepo"]; exists {
		return nil, storedErr
	}
	return c.jobRepo, nil
}

// QueueUseCase returns the notification queue use case instance.
func (c *Container) QueueUseCase(ctx context.Context) (*notificationsUseCase.NotificationQueueUseCase, error) {
	var err error
	c.queueUseCaseInit.Do(func() {
		c.queueUseCase, err = c.initQueueUseCase(ctx)
		if err != nil {
			c.initErrors["queueUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["queueUseCase"]; exists {
		return nil, storedErr
	}
	return c.queueUseCase, nil
}

// Worker returns the notification delivery worker.
func (c *Container) Worker(ctx context.Context) (*notificationsUseCase.Worker, error) {
	var err error
	c.workerInit.Do(func() {
		c.worker, err = c.initWorker(ctx)
		if err != nil {
			c.initErrors["worker"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["worker"]; exists {
		return nil, storedErr
	}
	return c.worker, nil
}

// initJobRepository creates the notification job repository instance.
func (c *Container) initJobRepository() (notificationsUseCase.JobRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for job repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return notificationsRepository.NewMySQLJobRepository(db), nil
	case "postgres":
		return notificationsRepository.NewPostgreSQLJobRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEventPublisher creates the job event publisher over the configured topic.
func (c *Container) initEventPublisher(ctx context.Context) (notificationsUseCase.EventPublisher, error) {
	topic, err := c.JobEventsTopic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open job events topic: %w", err)
	}
	return notificationsUseCase.NewTopicPublisher(topic), nil
}

// initQueueUseCase creates the notification queue use case with all its dependencies.
func (c *Container) initQueueUseCase(ctx context.Context) (*notificationsUseCase.NotificationQueueUseCase, error) {
	jobRepo, err := c.JobRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get job repository for queue use case: %w", err)
	}

	publisher, err := c.initEventPublisher(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get event publisher for queue use case: %w", err)
	}

	return notificationsUseCase.NewNotificationQueueUseCase(jobRepo, publisher, c.Clock(), c.Logger()), nil
}

// initWorker creates the notification worker with its delivery handlers.
func (c *Container) initWorker(ctx context.Context) (*notificationsUseCase.Worker, error) {
	logger := c.Logger()

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for worker: %w", err)
	}

	jobRepo, err := c.JobRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get job repository for worker: %w", err)
	}

	publisher, err := c.initEventPublisher(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get event publisher for worker: %w", err)
	}

	workerConfig := notificationsUseCase.WorkerConfig{
		Interval:      c.config.NotificationWorkerInterval,
		BatchSize:     c.config.NotificationBatchSize,
		MaxAttempts:   c.config.NotificationMaxAttempts,
		Backoff:       c.config.NotificationBackoff,
		KeepCompleted: c.config.NotificationKeepCompleted,
		KeepFailed:    c.config.NotificationKeepFailed,
	}

	// Log transports stand in for the real mail and WhatsApp providers.
	mailer := channel.NewLogMailer(logger)
	messenger := channel.NewLogMessenger(logger)

	handlers := map[notificationsDomain.JobName]notificationsUseCase.Handler{
		notificationsDomain.JobSendOTPEmail:             channel.NewOTPEmailHandler(mailer),
		notificationsDomain.JobSendConfirmationWhatsApp: channel.NewConfirmationWhatsAppHandler(messenger),
		notificationsDomain.JobSendWelcomeEmail:         channel.NewWelcomeEmailHandler(mailer),
	}

	return notificationsUseCase.NewWorker(
		workerConfig,
		txManager,
		jobRepo,
		handlers,
		publisher,
		c.Clock(),
		logger,
	), nil
}
