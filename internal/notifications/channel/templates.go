package channel

import "fmt"

const (
	// OTPEmailSubject is the subject line for one-time passcode emails.
	OTPEmailSubject = "Your verification code"

	// WelcomeEmailSubject is the subject line for seller welcome emails.
	WelcomeEmailSubject = "Welcome to the marketplace"
)

// OTPEmailBody renders the one-time passcode email body.
func OTPEmailBody(otpCode string) string {
	return fmt.Sprintf(
		"Your verification code is %s.\n\nIt expires in one minute. If you did not request this code, ignore this email.",
		otpCode,
	)
}

// ConfirmationMessage renders the WhatsApp order confirmation message.
func ConfirmationMessage(orderSummary string) string {
	return fmt.Sprintf(
		"Thank you for your order!\n\n%s\n\nWe will contact you to confirm delivery details.",
		orderSummary,
	)
}

// WelcomeEmailBody renders the seller welcome email body.
func WelcomeEmailBody(firstName string) string {
	return fmt.Sprintf(
		"Hi %s,\n\nWelcome aboard! Your shop is ready. Add your first product and start receiving orders.",
		firstName,
	)
}
