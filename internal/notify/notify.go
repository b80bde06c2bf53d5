// Package notify delivers order notifications. Senders are strictly
// best-effort: callers invoke them from detached goroutines and only
// log failures — checkout never waits on or fails with a notification.
package notify

import (
	"context"

	"github.com/google/uuid"
)

type ItemSummary struct {
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
}

// OrderNotification carries everything a confirmation or business
// alert message needs. Money fields are pre-rendered strings so the
// event payload is display-ready.
type OrderNotification struct {
	OrderID         uuid.UUID     `json:"order_id"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email,omitempty"`
	CustomerPhone   string        `json:"customer_phone"`
	ShippingAddress string        `json:"shipping_address"`
	City            string        `json:"city,omitempty"`
	Items           []ItemSummary `json:"items"`
	TotalAmount     string        `json:"total_amount"`
}

type Sender interface {
	// SendOrderConfirmation queues a confirmation for the customer.
	SendOrderConfirmation(ctx context.Context, n OrderNotification) error
	// SendOrderAlert queues a new-order alert for the business.
	SendOrderAlert(ctx context.Context, n OrderNotification) error
}

// Discard drops notifications. Used when no broker is configured.
type Discard struct{}

func (Discard) SendOrderConfirmation(context.Context, OrderNotification) error { return nil }
func (Discard) SendOrderAlert(context.Context, OrderNotification) error        { return nil }
