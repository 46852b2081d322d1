// Package domain defines the payment domain model and the escrow state machine.
// Funds collected from a buyer are held in escrow and released to the seller
// only after a hold period elapses with no return or refund on the order.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the payment state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusRefunded Status = "refunded"
	StatusFailed   Status = "failed"
)

// StatusValues lists every recognized payment status.
var StatusValues = []Status{StatusPending, StatusPaid, StatusRefunded, StatusFailed}

// PlaceholderCardLast4 is stored when a payment is initiated but no card has
// been submitted yet.
const PlaceholderCardLast4 = "0000"

// Payment represents the funds side of an order, 1:1 with the order.
type Payment struct {
	// ID is the unique identifier for the payment.
	ID uuid.UUID
	// OrderID references the order this payment belongs to.
	OrderID uuid.UUID
	// Amount is the positive payment amount.
	Amount float64
	// Status is the payment state.
	Status Status
	// CardLast4 holds only the last four digits of the submitted card.
	// The full card number is never persisted or logged anywhere.
	CardLast4 string
	// EscrowHeld reports whether the funds are withheld from the seller.
	EscrowHeld bool
	// RefundAmount is the amount refunded to the buyer, if any.
	RefundAmount *float64
	// ReleasedToSellerAmount is the amount released to the seller, if any.
	ReleasedToSellerAmount *float64
	// ReleasedAt is when escrow was released to the seller, if it was.
	ReleasedAt *time.Time
	// CreatedAt is the UTC timestamp when the payment was created.
	// It also approximates the escrow hold start (see EscrowDecider).
	CreatedAt time.Time
}

// Released reports whether escrowed funds were already sent to the seller.
func (p *Payment) Released() bool {
	return p.ReleasedToSellerAmount != nil
}

// Held reports whether the payment currently holds funds in escrow.
func (p *Payment) Held() bool {
	return p.EscrowHeld && p.Status == StatusPaid && !p.Released()
}

// TruncateCardNumber returns the last four characters of a card number.
// This is the only card-derived value that may ever be stored.
func TruncateCardNumber(cardNumber string) string {
	if len(cardNumber) < 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}
