package domain

import (
	"time"
	"unicode"

	ordersDomain "github.com/souqdz/marketplace/internal/orders/domain"
)

// DefaultHoldPeriod is how long escrowed funds are withheld from the seller
// before becoming eligible for release.
const DefaultHoldPeriod = 48 * time.Hour

// Action is the transition the escrow state machine decided on.
type Action string

const (
	// ActionNone means no transition is legal right now (e.g., the hold
	// period has not elapsed). It is not an error.
	ActionNone Action = "none"
	// ActionHold moves a pending payment into escrow after a valid submission.
	ActionHold Action = "hold"
	// ActionRelease releases escrowed funds to the seller.
	ActionRelease Action = "release"
	// ActionRefund refunds escrowed funds to the buyer.
	ActionRefund Action = "refund"
)

// EscrowDecider is the pure decision core of the escrow workflow. Given a
// payment, its order and the current time it returns the intended transition
// without performing any side effects.
//
// The hold start is approximated by the payment's creation time: the source
// system never recorded a separate hold-start timestamp, so neither does this
// one. That approximation is a documented design simplification; marking the
// order delivered is the intended start of the clock.
type EscrowDecider struct {
	// HoldPeriod is how long funds stay in escrow before release is legal.
	HoldPeriod time.Duration
	// StrictHold gates release on the hold period elapsing. When false the
	// decider releases any held payment immediately, reproducing the legacy
	// sweep behavior that ignored elapsed time.
	StrictHold bool
}

// NewEscrowDecider returns a decider with the 48-hour hold gate enabled.
func NewEscrowDecider() EscrowDecider {
	return EscrowDecider{HoldPeriod: DefaultHoldPeriod, StrictHold: true}
}

// Decide returns the legal transition for the payment at time now.
// Refund wins over release when both are possible at the same instant.
func (d EscrowDecider) Decide(payment *Payment, order *ordersDomain.Order, now time.Time) Action {
	switch payment.Status {
	case StatusPending, StatusRefunded, StatusFailed:
		// Absorbing for the sweep: holds arise only via submission.
		return ActionNone
	}

	if !payment.Held() {
		return ActionNone
	}

	// Tie-break: a return or refund on the order always beats release.
	if order != nil && order.InReturnFlow() {
		return ActionRefund
	}

	if d.StrictHold && now.Sub(payment.CreatedAt) < d.HoldPeriod {
		return ActionNone
	}

	return ActionRelease
}

// CanHold reports whether a pending payment may enter escrow: the amount must
// be positive and the card suffix a valid 4-digit string.
func CanHold(payment *Payment, cardLast4 string) bool {
	if payment.Status != StatusPending {
		return false
	}
	if payment.Amount <= 0 {
		return false
	}
	if len(cardLast4) != 4 {
		return false
	}
	for _, r := range cardLast4 {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
