package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/allisson/go-pwdhash"
	validationlib "github.com/jellydator/validation"

	"github.com/souqdz/marketplace/internal/clock"
	notificationsDomain "github.com/souqdz/marketplace/internal/notifications/domain"
	"github.com/souqdz/marketplace/internal/validation"
)

// Config holds the tunables of the OTP flow.
type Config struct {
	// CodeLength is the number of digits in a generated code.
	CodeLength int
	// Validity is how long an issued code stays acceptable.
	Validity time.Duration
}

// DefaultConfig returns the production defaults: 6 digits, valid for one minute.
func DefaultConfig() Config {
	return Config{
		CodeLength: 6,
		Validity:   time.Minute,
	}
}

// OTPUseCaseImpl implements OTPUseCase with Argon2id hashing.
type OTPUseCaseImpl struct {
	config   Config
	hasher   *pwdhash.PasswordHasher
	enqueuer NotificationEnqueuer
	clock    clock.Clock
	logger   *slog.Logger
}

// NewOTPUseCase creates a new OTPUseCaseImpl. The Interactive policy keeps
// hashing fast enough for a login path while remaining memory-hard.
func NewOTPUseCase(
	config Config,
	enqueuer NotificationEnqueuer,
	clk clock.Clock,
	logger *slog.Logger,
) *OTPUseCaseImpl {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyInteractive),
	)
	if err != nil {
		// Only reachable with an invalid policy
		panic(err)
	}

	return &OTPUseCaseImpl{
		config:   config,
		hasher:   hasher,
		enqueuer: enqueuer,
		clock:    clk,
		logger:   logger,
	}
}

// IssueOTP generates a fresh code for email, hashes it and queues the
// delivery email. The enqueue is part of the contract: a code nobody
// receives is useless, so a queue failure fails the whole operation.
func (uc *OTPUseCaseImpl) IssueOTP(ctx context.Context, email string) (*IssueOTPResult, error) {
	if err := validationlib.Validate(email, validationlib.Required, validation.EmailAddress{}); err != nil {
		return nil, validation.WrapValidationError(err)
	}

	code, err := uc.generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate otp code: %w", err)
	}

	codeHash, err := uc.hasher.Hash([]byte(code))
	if err != nil {
		return nil, fmt.Errorf("hash otp code: %w", err)
	}

	payload := notificationsDomain.OTPEmailPayload{
		RecipientEmail: email,
		OTPCode:        code,
	}
	jobID, err := uc.enqueuer.Enqueue(ctx, notificationsDomain.JobSendOTPEmail, payload)
	if err != nil {
		return nil, fmt.Errorf("enqueue otp email: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("otp issued",
			slog.String("recipient_email", email),
			slog.String("job_id", jobID.String()),
		)
	}

	return &IssueOTPResult{
		CodeHash:  codeHash,
		ExpiresAt: uc.clock.Now().Add(uc.config.Validity),
	}, nil
}

// VerifyOTP performs a constant-time comparison of code against codeHash.
func (uc *OTPUseCaseImpl) VerifyOTP(code string, codeHash string) bool {
	ok, err := uc.hasher.Verify([]byte(code), codeHash)
	if err != nil {
		return false
	}
	return ok
}

// generateCode draws a uniformly random numeric code, left padded with
// zeros so every code has exactly CodeLength digits.
func (uc *OTPUseCaseImpl) generateCode() (string, error) {
	length := uc.config.CodeLength
	if length <= 0 {
		length = DefaultConfig().CodeLength
	}

	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
