package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vuedubooks/internal/util"
	"vuedubooks/pkg/domain"
	"vuedubooks/pkg/notify"
)

// OrderInput is a buyer's checkout request.
type OrderInput struct {
	Buyer         domain.BuyerInfo `json:"buyer"`
	BookID        string           `json:"bookId"`
	Quantity      int              `json:"quantity"`
	PaymentMethod string           `json:"paymentMethod"`
	Notes         string           `json:"notes"`
}

// CreateOrder converts a checkout request into a durable order and then
// attempts seller and buyer notification. The returned flag reports whether
// both notifications went out; the order stands either way.
func (a *App) CreateOrder(input OrderInput) (domain.OrderDetail, bool, error) {
	buyer := input.Buyer
	buyer.Name = strings.TrimSpace(buyer.Name)
	buyer.Email = strings.ToLower(strings.TrimSpace(buyer.Email))
	buyer.Phone = strings.TrimSpace(buyer.Phone)
	buyer.Address = strings.TrimSpace(buyer.Address)
	if buyer.Name == "" || buyer.Email == "" || buyer.Phone == "" || buyer.Address == "" {
		return domain.OrderDetail{}, false, ErrBuyerDetailsRequired
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return domain.OrderDetail{}, false, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	method := strings.TrimSpace(input.PaymentMethod)
	if method == "" {
		method = string(domain.PaymentCashOnDelivery)
	}
	if !domain.ValidPaymentMethod(method) {
		return domain.OrderDetail{}, false, fmt.Errorf("%w: invalid payment method %q", ErrValidation, method)
	}

	book, ok, err := a.store.GetBook(strings.TrimSpace(input.BookID))
	if err != nil {
		return domain.OrderDetail{}, false, err
	}
	if !ok {
		return domain.OrderDetail{}, false, ErrBookNotFound
	}
	if !book.Availability {
		return domain.OrderDetail{}, false, ErrBookUnavailable
	}

	seller, _, err := a.store.GetUserByID(book.SellerID)
	if err != nil {
		return domain.OrderDetail{}, false, err
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:            util.NewEntityID(),
		Buyer:         buyer,
		BookID:        book.ID,
		SellerID:      book.SellerID,
		Quantity:      quantity,
		TotalPrice:    book.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Status:        domain.OrderPending,
		PaymentMethod: domain.PaymentMethod(method),
		Notes:         strings.TrimSpace(input.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := a.store.SaveOrder(order); err != nil {
		return domain.OrderDetail{}, false, fmt.Errorf("save order: %w", err)
	}

	notified := a.dispatchOrderNotifications(order, book, seller.Summary())

	return domain.OrderDetail{Order: order, Book: book, Seller: seller.Summary()}, notified, nil
}

// dispatchOrderNotifications sends the seller and buyer payloads with a
// bounded timeout. Failures are logged and reflected in the returned flag
// only; the persisted order is never rolled back.
func (a *App) dispatchOrderNotifications(order domain.Order, book domain.Book, seller domain.SellerSummary) bool {
	ctx, cancel := context.WithTimeout(context.Background(), a.notifyTimeout)
	defer cancel()

	ok := true
	for _, recipient := range []notify.Recipient{notify.RecipientSeller, notify.RecipientBuyer} {
		payload := notify.OrderNotification{
			Recipient:  recipient,
			OrderID:    order.ID,
			BookID:     book.ID,
			BookTitle:  book.Title,
			CourseCode: book.CourseCode,
			Quantity:   order.Quantity,
			TotalPrice: order.TotalPrice,
			Buyer:      order.Buyer,
			Seller:     seller,
		}
		if err := a.notifier.NotifyOrder(ctx, payload); err != nil {
			slog.Warn("order notification failed",
				"err", err, "order", order.ID, "recipient", string(recipient))
			ok = false
		}
	}
	return ok
}

// GetOrder returns an order expanded with its book and seller detail.
func (a *App) GetOrder(id string) (domain.OrderDetail, error) {
	order, ok, err := a.store.GetOrder(strings.TrimSpace(id))
	if err != nil {
		return domain.OrderDetail{}, err
	}
	if !ok {
		return domain.OrderDetail{}, ErrOrderNotFound
	}
	book, _, err := a.store.GetBook(order.BookID)
	if err != nil {
		return domain.OrderDetail{}, err
	}
	seller, _, err := a.store.GetUserByID(order.SellerID)
	if err != nil {
		return domain.OrderDetail{}, err
	}
	return domain.OrderDetail{Order: order, Book: book, Seller: seller.Summary()}, nil
}

// ListSellerOrders returns the seller's own orders, newest first.
func (a *App) ListSellerOrders(seller domain.User) ([]domain.Order, error) {
	if seller.Role != domain.RoleSeller {
		return nil, ErrNotSeller
	}
	return a.store.ListOrdersBySeller(seller.ID)
}

// UpdateOrderStatus lets the owning seller move an order to a new status.
func (a *App) UpdateOrderStatus(seller domain.User, orderID, status string) (domain.Order, error) {
	status = strings.TrimSpace(status)
	if !domain.ValidOrderStatus(status) {
		return domain.Order{}, fmt.Errorf("%w: invalid order status %q", ErrValidation, status)
	}
	order, ok, err := a.store.GetOrder(strings.TrimSpace(orderID))
	if err != nil {
		return domain.Order{}, err
	}
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	if order.SellerID != seller.ID {
		return domain.Order{}, ErrNotOwner
	}
	if err := a.store.SetOrderStatus(order.ID, domain.OrderStatus(status)); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	return order, nil
}
