// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	ordersDomain "github.com/souqdz/marketplace/internal/orders/domain"
)

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID               string    `json:"id"`
	ShopID           string    `json:"shopId"`
	ProductID        string    `json:"productId"`
	CreatedBy        string    `json:"createdBy"`
	CustomerName     string    `json:"customerName"`
	CustomerPhone    string    `json:"customerPhone"`
	CustomerAddress  string    `json:"customerAddress"`
	ContactPref      string    `json:"contactPref"`
	DeliveryAgencyID string    `json:"deliveryAgencyId"`
	DeliveryAmount   float64   `json:"deliveryAmount"`
	PaymentStatus    string    `json:"paymentStatus"`
	OrderStatus      string    `json:"orderStatus"`
	RiskLevel        string    `json:"riskLevel"`
	RiskProbability  float64   `json:"riskProbability"`
	CreatedAt        time.Time `json:"createdAt"`
}

// MapOrderToResponse converts a domain order to an API response.
func MapOrderToResponse(order *ordersDomain.Order) OrderResponse {
	return OrderResponse{
		ID:               order.ID.String(),
		ShopID:           order.ShopID,
		ProductID:        order.ProductID,
		CreatedBy:        order.CreatedBy,
		CustomerName:     order.CustomerName,
		CustomerPhone:    order.CustomerPhone,
		CustomerAddress:  order.CustomerAddress,
		ContactPref:      string(order.ContactPref),
		DeliveryAgencyID: order.DeliveryAgencyID,
		DeliveryAmount:   order.DeliveryAmount,
		PaymentStatus:    string(order.PaymentStatus),
		OrderStatus:      string(order.OrderStatus),
		RiskLevel:        string(order.RiskLevel),
		RiskProbability:  order.RiskProbability,
		CreatedAt:        order.CreatedAt,
	}
}

// ListOrdersResponse represents a list of orders in API responses.
type ListOrdersResponse struct {
	Data []OrderResponse `json:"data"`
}

// MapOrdersToListResponse converts a slice of domain orders to a list response.
func MapOrdersToListResponse(orders []*ordersDomain.Order) ListOrdersResponse {
	data := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		data = append(data, MapOrderToResponse(order))
	}

	return ListOrdersResponse{
		Data: data,
	}
}
