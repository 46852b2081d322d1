package usecase

import (
	"context"
	"time"

	"github.com/souqdz/marketplace/internal/metrics"
)

// otpUseCaseWithMetrics decorates OTPUseCase with metrics instrumentation.
type otpUseCaseWithMetrics struct {
	next    OTPUseCase
	metrics metrics.BusinessMetrics
}

// NewOTPUseCaseWithMetrics wraps an OTPUseCase with metrics recording.
func NewOTPUseCaseWithMetrics(useCase OTPUseCase, m metrics.BusinessMetrics) OTPUseCase {
	return &otpUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// IssueOTP records metrics for code issuance.
func (o *otpUseCaseWithMetrics) IssueOTP(ctx context.Context, email string) (*IssueOTPResult, error) {
	start := time.Now()
	result, err := o.next.IssueOTP(ctx, email)

	status := "success"
	if err != nil {
		status = "error"
	}
	o.metrics.RecordOperation(ctx, "auth", "otp_issue", status)
	o.metrics.RecordDuration(ctx, "auth", "otp_issue", time.Since(start), status)

	return result, err
}

// VerifyOTP records metrics for code verification. A mismatch is reported
// as its own status so failed logins stay visible without counting as errors.
func (o *otpUseCaseWithMetrics) VerifyOTP(code string, codeHash string) bool {
	start := time.Now()
	ok := o.next.VerifyOTP(code, codeHash)

	status := "success"
	if !ok {
		status = "mismatch"
	}
	o.metrics.RecordOperation(context.Background(), "auth", "otp_verify", status)
	o.metrics.RecordDuration(context.Background(), "auth", "otp_verify", time.Since(start), status)

	return ok
}
