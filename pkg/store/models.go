package store

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"vuedubooks/pkg/domain"
)

// GORM models used for persistence.
type UserModel struct {
	ID           string    `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Phone        string    `gorm:"not null"`
	WhatsApp     string
	Role         string    `gorm:"not null"`
	IsVerified   bool      `gorm:"not null;default:false"`
	Address      string
	Easypaisa    string
	JazzCash     string
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type BookModel struct {
	ID           string                      `gorm:"primaryKey"`
	Title        string                      `gorm:"not null"`
	CourseCode   string                      `gorm:"not null;index:idx_books_course_category"`
	Category     string                      `gorm:"not null;index:idx_books_course_category"`
	Price        decimal.Decimal             `gorm:"type:numeric(12,2);not null;index"`
	Description  string                      `gorm:"not null"`
	Condition    string                      `gorm:"not null"`
	SellerID     string                      `gorm:"not null;index"`
	Availability bool                        `gorm:"not null;default:true"`
	Semester     string
	Author       string
	Edition      string
	ISBN         string
	Publisher    string
	Tags         datatypes.JSONSlice[string]
	Views        int64                       `gorm:"not null;default:0"`
	CreatedAt    time.Time                   `gorm:"not null;index"`
	UpdatedAt    time.Time                   `gorm:"not null"`
}

func (BookModel) TableName() string { return "books" }

// ViewEventModel rows are append-only. The two sparse unique indexes are the
// dedup arbitration point: at most one row per (book, user) and one per
// (book, session). NULL key columns never collide, so untracked anonymous
// views insert freely.
type ViewEventModel struct {
	ID        string    `gorm:"primaryKey"`
	BookID    string    `gorm:"not null;index:idx_views_book_user,unique;index:idx_views_book_session,unique"`
	UserID    *string   `gorm:"index:idx_views_book_user,unique"`
	SessionID *string   `gorm:"index:idx_views_book_session,unique"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ViewEventModel) TableName() string { return "book_views" }

type OrderModel struct {
	ID            string          `gorm:"primaryKey"`
	BuyerName     string          `gorm:"not null"`
	BuyerEmail    string          `gorm:"not null"`
	BuyerPhone    string          `gorm:"not null"`
	BuyerWhatsApp string
	BuyerAddress  string          `gorm:"not null"`
	BookID        string          `gorm:"not null;index"`
	SellerID      string          `gorm:"not null;index:idx_orders_seller_created"`
	Quantity      int             `gorm:"not null"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status        string          `gorm:"not null;index"`
	PaymentMethod string          `gorm:"not null"`
	Notes         string
	CreatedAt     time.Time       `gorm:"not null;index:idx_orders_seller_created"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

func (OrderModel) TableName() string { return "orders" }

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		WhatsApp:     u.WhatsApp,
		Role:         string(u.Role),
		IsVerified:   u.IsVerified,
		Address:      u.Address,
		Easypaisa:    u.Easypaisa,
		JazzCash:     u.JazzCash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Phone:        m.Phone,
		WhatsApp:     m.WhatsApp,
		Role:         domain.UserRole(m.Role),
		IsVerified:   m.IsVerified,
		Address:      m.Address,
		Easypaisa:    m.Easypaisa,
		JazzCash:     m.JazzCash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func bookToModel(b domain.Book) BookModel {
	return BookModel{
		ID:           b.ID,
		Title:        b.Title,
		CourseCode:   b.CourseCode,
		Category:     b.Category,
		Price:        b.Price,
		Description:  b.Description,
		Condition:    string(b.Condition),
		SellerID:     b.SellerID,
		Availability: b.Availability,
		Semester:     b.Semester,
		Author:       b.Author,
		Edition:      b.Edition,
		ISBN:         b.ISBN,
		Publisher:    b.Publisher,
		Tags:         datatypes.NewJSONSlice(b.Tags),
		Views:        b.Views,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func bookFromModel(m BookModel) domain.Book {
	return domain.Book{
		ID:           m.ID,
		Title:        m.Title,
		CourseCode:   m.CourseCode,
		Category:     m.Category,
		Price:        m.Price,
		Description:  m.Description,
		Condition:    domain.BookCondition(m.Condition),
		SellerID:     m.SellerID,
		Availability: m.Availability,
		Semester:     m.Semester,
		Author:       m.Author,
		Edition:      m.Edition,
		ISBN:         m.ISBN,
		Publisher:    m.Publisher,
		Tags:         m.Tags,
		Views:        m.Views,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func viewToModel(v domain.ViewEvent) ViewEventModel {
	return ViewEventModel{
		ID:        v.ID,
		BookID:    v.BookID,
		UserID:    v.UserID,
		SessionID: v.SessionID,
		CreatedAt: v.CreatedAt,
	}
}

func orderToModel(o domain.Order) OrderModel {
	return OrderModel{
		ID:            o.ID,
		BuyerName:     o.Buyer.Name,
		BuyerEmail:    o.Buyer.Email,
		BuyerPhone:    o.Buyer.Phone,
		BuyerWhatsApp: o.Buyer.WhatsApp,
		BuyerAddress:  o.Buyer.Address,
		BookID:        o.BookID,
		SellerID:      o.SellerID,
		Quantity:      o.Quantity,
		TotalPrice:    o.TotalPrice,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func orderFromModel(m OrderModel) domain.Order {
	return domain.Order{
		ID: m.ID,
		Buyer: domain.BuyerInfo{
			Name:     m.BuyerName,
			Email:    m.BuyerEmail,
			Phone:    m.BuyerPhone,
			WhatsApp: m.BuyerWhatsApp,
			Address:  m.BuyerAddress,
		},
		BookID:        m.BookID,
		SellerID:      m.SellerID,
		Quantity:      m.Quantity,
		TotalPrice:    m.TotalPrice,
		Status:        domain.OrderStatus(m.Status),
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
