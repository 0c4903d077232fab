package models

import "time"

// OrderStatus enumerates the lifecycle states of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Cancellable reports whether an order in status s may still be cancelled
// by its owner. Orders that shipped or already reached a terminal state
// cannot be cancelled.
func Cancellable(s OrderStatus) bool {
	switch s {
	case StatusShipped, StatusDelivered, StatusCompleted, StatusCancelled, StatusRefunded:
		return false
	}
	return true
}

// OrderItem represents a single line within an order, carrying the price
// the buyer actually paid.
type OrderItem struct {
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	Brand     string            `json:"brand"`
	Image     string            `json:"image"`
	Variant   map[string]string `json:"variant"`
	Quantity  int               `json:"quantity"`
	Price     float64           `json:"price"`      // Unit price at the time of order
	LineTotal float64           `json:"line_total"` // Price * Quantity
}

// ShippingInfo is the customer-info snapshot frozen onto an order.
type ShippingInfo struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
}

// Order represents a customer order. Orders are never deleted; only their
// status changes after creation.
type Order struct {
	ID            string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string       `json:"user_id" gorm:"index;type:varchar(36)"`
	UserName      string       `json:"user_name"`
	UserEmail     string       `json:"user_email"`
	Items         []OrderItem  `json:"items" gorm:"serializer:json"`
	Subtotal      float64      `json:"subtotal"`
	ShippingFee   float64      `json:"shipping_fee"`
	Total         float64      `json:"total"`
	Status        OrderStatus  `json:"status" gorm:"type:varchar(20)"`
	PaymentMethod string       `json:"payment_method"`
	Shipping      ShippingInfo `json:"shipping" gorm:"serializer:json"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	CancelledAt   *time.Time   `json:"cancelled_at,omitempty"`
}
