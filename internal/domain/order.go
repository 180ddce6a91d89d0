package domain

import (
	"strings"
	"time"
)

// Order statuses are stored as the Spanish labels the storefront uses.
const (
	OrderStatusPending   = "Pendiente"
	OrderStatusConfirmed = "Confirmado"
	OrderStatusPreparing = "En preparación"
	OrderStatusDelivered = "Entregado"
	OrderStatusCancelled = "Cancelado"
	OrderStatusVoided    = "Anulado"
)

// Accepted payment methods.
const (
	PaymentMethodCard = "Tarjeta"
	PaymentMethodCash = "Efectivo"
)

// IsCancelledStatus reports whether a raw status marks the order as
// cancelled or voided. Revenue and most count aggregates exclude these.
func IsCancelledStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "cancelado", "anulado":
		return true
	}
	return false
}

// ValidOrderStatus reports whether the label is one of the known statuses.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusVoided:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether the storefront accepts the method.
func ValidPaymentMethod(method string) bool {
	return method == PaymentMethodCard || method == PaymentMethodCash
}

// Order is a placed order with optional seller assignment.
type Order struct {
	ID              int64
	ClientID        int64
	SellerID        *int64
	DeliveryAddress string
	TotalAmount     float64
	Status          string
	PaymentMethod   string
	CreatedAt       time.Time
	UpdatedAt       *time.Time

	// Populated on detail loads.
	Items  []OrderItem
	Client *User
}

// OrderItem is a line on an order. Unit price is captured at purchase time.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName *string
	Quantity    int
	UnitPrice   float64
}

// LineTotal is quantity times captured unit price.
func (i OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}
