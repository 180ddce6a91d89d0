package dto

import (
	"time"

	"github.com/ventaplus/commerce-service/internal/domain"
)

// OrderItemRequest is one requested line on checkout.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderRequest payload for checkout.
type PlaceOrderRequest struct {
	DeliveryAddress string             `json:"delivery_address" validate:"required"`
	PaymentMethod   string             `json:"payment_method" validate:"required"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest payload.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AssignSellerRequest payload.
type AssignSellerRequest struct {
	SellerID int64 `json:"seller_id" validate:"required"`
}

// OrderItemResponse is one line of an order.
type OrderItemResponse struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	ProductName *string `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// OrderResponse is the public view of an order.
type OrderResponse struct {
	ID              int64               `json:"id"`
	ClientID        int64               `json:"client_id"`
	SellerID        *int64              `json:"seller_id,omitempty"`
	DeliveryAddress string              `json:"delivery_address"`
	TotalAmount     float64             `json:"total_amount"`
	Status          string              `json:"status"`
	PaymentMethod   string              `json:"payment_method"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       *time.Time          `json:"updated_at,omitempty"`
	Items           []OrderItemResponse `json:"items,omitempty"`
	Client          *UserResponse       `json:"client,omitempty"`
}

// NewOrderResponse maps a domain order including loaded items and client.
func NewOrderResponse(order *domain.Order) OrderResponse {
	response := OrderResponse{
		ID:              order.ID,
		ClientID:        order.ClientID,
		SellerID:        order.SellerID,
		DeliveryAddress: order.DeliveryAddress,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	for _, item := range order.Items {
		response.Items = append(response.Items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		})
	}
	if order.Client != nil {
		client := NewUserResponse(order.Client)
		response.Client = &client
	}
	return response
}

// NewOrderResponses maps a slice.
func NewOrderResponses(orders []domain.Order) []OrderResponse {
	result := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, NewOrderResponse(&orders[i]))
	}
	return result
}
