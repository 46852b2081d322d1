// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/souqdz/marketplace/internal/orders/usecase"
)

// CreateOrderRequest contains the parameters for creating an order.
type CreateOrderRequest struct {
	ShopID           string  `json:"shopId"`
	ProductID        string  `json:"productId"`
	CreatedBy        string  `json:"createdBy"`
	CustomerName     string  `json:"customerName"`
	CustomerPhone    string  `json:"customerPhone"`
	CustomerAddress  string  `json:"customerAddress"`
	ContactPref      string  `json:"contactPref"`
	DeliveryAgencyID string  `json:"deliveryAgencyId"`
	DeliveryAmount   float64 `json:"deliveryAmount"`
	RiskLevel        string  `json:"riskLevel"`
	RiskProbability  float64 `json:"riskProbability"`
}

// Validate checks the request for missing required fields. Field-level rules
// (phone format, enum membership, ranges) are enforced by the use case.
func (r *CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ShopID, validation.Required),
		validation.Field(&r.ProductID, validation.Required),
		validation.Field(&r.CreatedBy, validation.Required),
		validation.Field(&r.CustomerName, validation.Required),
		validation.Field(&r.CustomerPhone, validation.Required),
		validation.Field(&r.CustomerAddress, validation.Required),
		validation.Field(&r.ContactPref, validation.Required),
	)
}

// ToInput converts the request to the use case input.
func (r *CreateOrderRequest) ToInput() usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		ShopID:           r.ShopID,
		ProductID:        r.ProductID,
		CreatedBy:        r.CreatedBy,
		CustomerName:     r.CustomerName,
		CustomerPhone:    r.CustomerPhone,
		CustomerAddress:  r.CustomerAddress,
		ContactPref:      r.ContactPref,
		DeliveryAgencyID: r.DeliveryAgencyID,
		DeliveryAmount:   r.DeliveryAmount,
		RiskLevel:        r.RiskLevel,
		RiskProbability:  r.RiskProbability,
	}
}

// UpdateOrderRequest contains the mutable customer-facing fields of an order.
// Absent fields are left untouched.
type UpdateOrderRequest struct {
	CustomerName     *string  `json:"customerName"`
	CustomerPhone    *string  `json:"customerPhone"`
	CustomerAddress  *string  `json:"customerAddress"`
	ContactPref      *string  `json:"contactPref"`
	DeliveryAgencyID *string  `json:"deliveryAgencyId"`
	DeliveryAmount   *float64 `json:"deliveryAmount"`
}

// ToInput converts the request to the use case input.
func (r *UpdateOrderRequest) ToInput() usecase.UpdateOrderInput {
	return usecase.UpdateOrderInput{
		CustomerName:     r.CustomerName,
		CustomerPhone:    r.CustomerPhone,
		CustomerAddress:  r.CustomerAddress,
		ContactPref:      r.ContactPref,
		DeliveryAgencyID: r.DeliveryAgencyID,
		DeliveryAmount:   r.DeliveryAmount,
	}
}
