// Package notify dispatches order notifications to the seller and buyer.
// Delivery is best-effort: order creation never depends on it.
package notify

import (
	"context"

	"github.com/shopspring/decimal"

	"vuedubooks/pkg/domain"
)

// Recipient marks which party a notification addresses.
type Recipient string

const (
	RecipientSeller Recipient = "seller"
	RecipientBuyer  Recipient = "buyer"
)

// OrderNotification is the structured payload handed to the dispatcher.
type OrderNotification struct {
	Recipient  Recipient            `json:"recipient"`
	OrderID    string               `json:"orderId"`
	BookID     string               `json:"bookId"`
	BookTitle  string               `json:"bookTitle"`
	CourseCode string               `json:"courseCode"`
	Quantity   int                  `json:"quantity"`
	TotalPrice decimal.Decimal      `json:"totalPrice"`
	Buyer      domain.BuyerInfo     `json:"buyer"`
	Seller     domain.SellerSummary `json:"seller"`
}

// Notifier delivers one notification. Implementations must be safe for
// concurrent use.
type Notifier interface {
	NotifyOrder(ctx context.Context, n OrderNotification) error
}

// NopNotifier drops every notification. Used when no broker is configured.
type NopNotifier struct{}

// NotifyOrder discards the payload.
func (NopNotifier) NotifyOrder(context.Context, OrderNotification) error { return nil }
