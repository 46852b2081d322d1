// Package domain defines the core order domain models and types.
// Orders move forward through an explicit status lifecycle; return and refund
// are the only exits once delivered, and nothing moves backward.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "new"
	OrderStatusConfirmed       OrderStatus = "confirmed"
	OrderStatusShipped         OrderStatus = "shipped"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusReturnRequested OrderStatus = "return_requested"
	OrderStatusRefunded        OrderStatus = "refunded"
)

// OrderStatusValues lists every recognized order status.
var OrderStatusValues = []OrderStatus{
	OrderStatusNew,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusReturnRequested,
	OrderStatusRefunded,
}

// orderStatusRank orders the forward lifecycle. return_requested and refunded
// sit outside the rank and are handled explicitly by CanTransitionTo.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusNew:       0,
	OrderStatusConfirmed: 1,
	OrderStatusShipped:   2,
	OrderStatusDelivered: 3,
}

// ContactPref represents the customer's preferred contact method.
type ContactPref string

const (
	ContactPrefWhatsApp ContactPref = "whatsapp"
	ContactPrefEmail    ContactPref = "email"
	ContactPrefSMS      ContactPref = "sms"
	ContactPrefCall     ContactPref = "call"
)

// ContactPrefValues lists every recognized contact preference.
var ContactPrefValues = []ContactPref{
	ContactPrefWhatsApp,
	ContactPrefEmail,
	ContactPrefSMS,
	ContactPrefCall,
}

// RiskLevel represents the fraud-risk classification of an order.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// RiskLevelValues lists every recognized risk level.
var RiskLevelValues = []RiskLevel{RiskLevelLow, RiskLevelMedium, RiskLevelHigh}

// PaymentStatus mirrors the payment state denormalized onto the order for listings.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// PaymentStatusValues lists every recognized payment status.
var PaymentStatusValues = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusRefunded,
	PaymentStatusFailed,
}

// Order represents a customer order placed against a shop's product.
type Order struct {
	// ID is the unique identifier for the order.
	ID uuid.UUID
	// ShopID references the shop the order was placed in.
	ShopID string
	// ProductID references the ordered product.
	ProductID string
	// CreatedBy references the user who created the order.
	CreatedBy string
	// CustomerName is the name of the customer placing the order.
	CustomerName string
	// CustomerPhone is the customer's phone number.
	CustomerPhone string
	// CustomerAddress is the customer's delivery address.
	CustomerAddress string
	// ContactPref is the customer's preferred contact method.
	ContactPref ContactPref
	// DeliveryAgencyID references the delivery agency handling the order.
	DeliveryAgencyID string
	// DeliveryAmount is the delivery fee charged to the customer.
	DeliveryAmount float64
	// PaymentStatus is the denormalized payment state of the order.
	PaymentStatus PaymentStatus
	// OrderStatus is the current fulfillment state.
	OrderStatus OrderStatus
	// RiskLevel is the fraud-risk classification.
	RiskLevel RiskLevel
	// RiskProbability is the probability (0-1) that the order is risky.
	RiskProbability float64
	// CreatedAt is the UTC timestamp when the order was created.
	CreatedAt time.Time
	// DeletedAt marks when the order was soft-deleted (nil if active).
	DeletedAt *time.Time
}

// CanTransitionTo reports whether moving from the current status to next is legal.
// The lifecycle is monotonic along new -> confirmed -> shipped -> delivered;
// return_requested and refunded are reachable from delivered (and a requested
// return may become refunded), never the other way around.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return false
	}

	switch next {
	case OrderStatusReturnRequested:
		return s == OrderStatusDelivered
	case OrderStatusRefunded:
		return s == OrderStatusDelivered || s == OrderStatusReturnRequested
	}

	fromRank, fromOK := orderStatusRank[s]
	toRank, toOK := orderStatusRank[next]
	if !fromOK || !toOK {
		return false
	}
	return toRank == fromRank+1
}

// InReturnFlow reports whether the order is in a return or refund state.
// Escrowed funds for such orders must never be released to the seller.
func (o *Order) InReturnFlow() bool {
	return o.OrderStatus == OrderStatusReturnRequested || o.OrderStatus == OrderStatusRefunded
}

// ValidContactPref reports whether value is a recognized contact preference.
func ValidContactPref(value string) bool {
	for _, p := range ContactPrefValues {
		if string(p) == value {
			return true
		}
	}
	return false
}
