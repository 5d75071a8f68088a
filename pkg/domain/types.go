package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookCondition string

const (
	ConditionNew     BookCondition = "new"
	ConditionLikeNew BookCondition = "like-new"
	ConditionGood    BookCondition = "good"
	ConditionFair    BookCondition = "fair"
)

// ValidCondition reports whether the value is one of the accepted conditions.
func ValidCondition(c string) bool {
	switch BookCondition(c) {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair:
		return true
	}
	return false
}

type UserRole string

const (
	RoleSeller UserRole = "seller"
	RoleBuyer  UserRole = "buyer"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether the value is a known order status.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash-on-delivery"
	PaymentBankTransfer   PaymentMethod = "bank-transfer"
	PaymentJazzCash       PaymentMethod = "jazzcash"
	PaymentEasypaisa      PaymentMethod = "easypaisa"
)

// ValidPaymentMethod reports whether the value is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case PaymentCashOnDelivery, PaymentBankTransfer, PaymentJazzCash, PaymentEasypaisa:
		return true
	}
	return false
}

type Book struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	CourseCode   string          `json:"courseCode"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	Condition    BookCondition   `json:"condition"`
	SellerID     string          `json:"sellerId"`
	Availability bool            `json:"availability"`
	Semester     string          `json:"semester,omitempty"`
	Author       string          `json:"author,omitempty"`
	Edition      string          `json:"edition,omitempty"`
	ISBN         string          `json:"isbn,omitempty"`
	Publisher    string          `json:"publisher,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Views        int64           `json:"views"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	WhatsApp     string    `json:"whatsapp,omitempty"`
	Role         UserRole  `json:"role"`
	IsVerified   bool      `json:"isVerified"`
	Address      string    `json:"address,omitempty"`
	Easypaisa    string    `json:"easypaisa,omitempty"`
	JazzCash     string    `json:"jazzcash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SellerSummary is the contact subset of a User attached to catalog and
// order responses.
type SellerSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Address  string `json:"address,omitempty"`
}

// Summary projects the contact fields of a user.
func (u User) Summary() SellerSummary {
	return SellerSummary{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		WhatsApp: u.WhatsApp,
	}
}

// BuyerInfo is the buyer contact snapshot embedded in an order at creation
// time. Later profile edits never alter historical orders.
type BuyerInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Address  string `json:"address"`
}

type Order struct {
	ID            string          `json:"id"`
	Buyer         BuyerInfo       `json:"buyer"`
	BookID        string          `json:"bookId"`
	SellerID      string          `json:"sellerId"`
	Quantity      int             `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ViewEvent records a single deduplicated book view. At most one of UserID
// and SessionID is set for tracked views; both are nil for anonymous
// requests without a session, which are never deduplicated.
type ViewEvent struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    *string   `json:"userId,omitempty"`
	SessionID *string   `json:"sessionId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookWithSeller is a catalog entry joined with its seller contact summary.
type BookWithSeller struct {
	Book
	Seller SellerSummary `json:"seller"`
}

// OrderDetail is an order expanded with book and seller detail.
type OrderDetail struct {
	Order
	Book   Book          `json:"book"`
	Seller SellerSummary `json:"seller"`
}

// SortField names a whitelisted catalog sort key.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByPrice     SortField = "price"
	SortByTitle     SortField = "title"
	SortByViews     SortField = "views"
)

// BookQuery is the normalized catalog query produced by the query builder.
// Only available books ever match.
type BookQuery struct {
	Search     string
	Category   string
	CourseCode string
	Condition  string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     SortField
	Descending bool
	Page       int
	PageSize   int
}

// Offset returns the zero-based row offset for the 1-based page window.
func (q BookQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Pagination describes the page window of a catalog response.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPagination derives page metadata from a total count and query window.
func NewPagination(q BookQuery, total int64) Pagination {
	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return Pagination{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNextPage: q.Page < totalPages,
		HasPrevPage: q.Page > 1,
	}
}
