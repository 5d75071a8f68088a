package store

import (
	"errors"

	"vuedubooks/pkg/domain"
)

// ErrDuplicateView reports that a view event for the same (book, viewer)
// pair already exists. Concurrent racers hitting the store-level uniqueness
// constraint receive this error and treat it as "already viewed".
var ErrDuplicateView = errors.New("duplicate view")

// Store defines persistence operations for users, books, views, and orders.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	GetUsersByIDs(ids []string) (map[string]domain.User, error)

	// books
	SaveBook(domain.Book) error
	GetBook(id string) (domain.Book, bool, error)
	DeleteBook(id string) error
	SearchBooks(q domain.BookQuery) ([]domain.Book, int64, error)
	ListBooksBySeller(sellerID string) ([]domain.Book, error)
	IncrementViews(ids []string, delta int64) error

	// views
	CreateView(domain.ViewEvent) error
	HasView(bookID string, userID, sessionID *string) (bool, error)

	// orders
	SaveOrder(domain.Order) error
	GetOrder(id string) (domain.Order, bool, error)
	ListOrdersBySeller(sellerID string) ([]domain.Order, error)
	SetOrderStatus(id string, status domain.OrderStatus) error
}
