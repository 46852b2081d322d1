// Package channel implements delivery for each notification job kind.
// Handlers decode the job payload and hand the rendered message to a
// transport (email or WhatsApp).
package channel

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/souqdz/marketplace/internal/notifications/domain"
)

// Mailer sends an email to a single recipient.
type Mailer interface {
	SendEmail(ctx context.Context, recipient, subject, body string) error
}

// Messenger sends a WhatsApp message to a single phone number.
type Messenger interface {
	SendWhatsApp(ctx context.Context, phoneNumber, message string) error
}

// OTPEmailHandler delivers one-time passcode emails.
type OTPEmailHandler struct {
	mailer Mailer
}

// NewOTPEmailHandler creates a new OTPEmailHandler.
func NewOTPEmailHandler(mailer Mailer) *OTPEmailHandler {
	return &OTPEmailHandler{mailer: mailer}
}

// Handle decodes the payload and sends the OTP email.
func (h *OTPEmailHandler) Handle(ctx context.Context, job *domain.Job) error {
	var payload domain.OTPEmailPayload
	if err := json.Unmarshal([]byte(job.Payload), &payload); err != nil {
		return err
	}
	return h.mailer.SendEmail(ctx, payload.RecipientEmail, OTPEmailSubject, OTPEmailBody(payload.OTPCode))
}

// ConfirmationWhatsAppHandler delivers order confirmation messages.
type ConfirmationWhatsAppHandler struct {
	messenger Messenger
}

// NewConfirmationWhatsAppHandler creates a new ConfirmationWhatsAppHandler.
func NewConfirmationWhatsAppHandler(messenger Messenger) *ConfirmationWhatsAppHandler {
	return &ConfirmationWhatsAppHandler{messenger: messenger}
}

// Handle decodes the payload and sends the WhatsApp confirmation.
func (h *ConfirmationWhatsAppHandler) Handle(ctx context.Context, job *domain.Job) error {
	var payload domain.ConfirmationWhatsAppPayload
	if err := json.Unmarshal([]byte(job.Payload), &payload); err != nil {
		return err
	}
	return h.messenger.SendWhatsApp(ctx, payload.RecipientPhone, ConfirmationMessage(payload.OrderSummary))
}

// WelcomeEmailHandler delivers welcome emails to new sellers.
type WelcomeEmailHandler struct {
	mailer Mailer
}

// NewWelcomeEmailHandler creates a new WelcomeEmailHandler.
func NewWelcomeEmailHandler(mailer Mailer) *WelcomeEmailHandler {
	return &WelcomeEmailHandler{mailer: mailer}
}

// Handle decodes the payload and sends the welcome email.
func (h *WelcomeEmailHandler) Handle(ctx context.Context, job *domain.Job) error {
	var payload domain.WelcomeEmailPayload
	if err := json.Unmarshal([]byte(job.Payload), &payload); err != nil {
		return err
	}
	return h.mailer.SendEmail(ctx, payload.RecipientEmail, WelcomeEmailSubject, WelcomeEmailBody(payload.FirstName))
}

// LogMailer writes emails to the log instead of sending them. Used in
// development and as the default transport until an SMTP provider is wired.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a new LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendEmail logs the email instead of delivering it.
func (m *LogMailer) SendEmail(ctx context.Context, recipient, subject, body string) error {
	if m.logger != nil {
		m.logger.Info("email sent",
			slog.String("recipient", recipient),
			slog.String("subject", subject),
			slog.Int("body_length", len(body)),
		)
	}
	return nil
}

// LogMessenger writes WhatsApp messages to the log instead of sending them.
type LogMessenger struct {
	logger *slog.Logger
}

// NewLogMessenger creates a new LogMessenger.
func NewLogMessenger(logger *slog.Logger) *LogMessenger {
	return &LogMessenger{logger: logger}
}

// SendWhatsApp logs the message instead of delivering it.
func (m *LogMessenger) SendWhatsApp(ctx context.Context, phoneNumber, message string) error {
	if m.logger != nil {
		m.logger.Info("whatsapp message sent",
			slog.String("phone_number", phoneNumber),
			slog.Int("message_length", len(message)),
		)
	}
	return nil
}
