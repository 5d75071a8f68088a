package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vuedubooks/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations. TranslateError is
// enabled so unique-constraint violations surface as gorm.ErrDuplicatedKey.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &BookModel{}, &ViewEventModel{}, &OrderModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveUser registers or updates a user.
func (s *GormStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "email", "password_hash", "phone", "whats_app",
			"is_verified", "address", "easypaisa", "jazz_cash", "updated_at",
		}),
	}).Create(&model).Error
}

// HasUserEmail checks if email exists.
func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByEmail looks up a user by email.
func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUsersByIDs returns users keyed by ID. Missing IDs are absent from the
// result, not errors.
func (s *GormStore) GetUsersByIDs(ids []string) (map[string]domain.User, error) {
	out := make(map[string]domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var models []UserModel
	if err := s.db.Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	for _, m := range models {
		out[m.ID] = userFromModel(m)
	}
	return out, nil
}

// SaveBook stores or updates a book.
func (s *GormStore) SaveBook(b domain.Book) error {
	model := bookToModel(b)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "course_code", "category", "price", "description",
			"condition", "availability", "semester", "author", "edition",
			"isbn", "publisher", "tags", "updated_at",
		}),
	}).Create(&model).Error
}

// GetBook retrieves a book.
func (s *GormStore) GetBook(id string) (domain.Book, bool, error) {
	var model BookModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, err
	}
	return bookFromModel(model), true, nil
}

// DeleteBook removes a book and its view events.
func (s *GormStore) DeleteBook(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ViewEventModel{}, "book_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&BookModel{}, "id = ?", id).Error
	})
}

// SearchBooks runs a normalized catalog query and returns the page of
// matches plus the total count computed independently of the window.
func (s *GormStore) SearchBooks(q domain.BookQuery) ([]domain.Book, int64, error) {
	tx := s.db.Model(&BookModel{}).Where("availability = ?", true)

	if q.Search != "" {
		like := "%" + escapeLike(q.Search) + "%"
		tx = tx.Where(
			s.db.Where("title ILIKE ?", like).
				Or("description ILIKE ?", like).
				Or("course_code ILIKE ?", like).
				Or("author ILIKE ?", like).
				Or("isbn ILIKE ?", like).
				Or("publisher ILIKE ?", like).
				Or("tags::text ILIKE ?", like),
		)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.CourseCode != "" {
		tx = tx.Where("course_code = ?", q.CourseCode)
	}
	if q.Condition != "" {
		tx = tx.Where("condition = ?", q.Condition)
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []BookModel
	err := tx.Order(orderClause(q)).
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}
	books := make([]domain.Book, 0, len(models))
	for _, m := range models {
		books = append(books, bookFromModel(m))
	}
	return books, total, nil
}

// ListBooksBySeller returns a seller's books, newest first.
func (s *GormStore) ListBooksBySeller(sellerID string) ([]domain.Book, error) {
	var models []BookModel
	if err := s.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	books := make([]domain.Book, 0, len(models))
	for _, m := range models {
		books = append(books, bookFromModel(m))
	}
	return books, nil
}

// IncrementViews bumps the denormalized view counter of the given books.
func (s *GormStore) IncrementViews(ids []string, delta int64) error {
	if len(ids) == 0 || delta == 0 {
		return nil
	}
	return s.db.Model(&BookModel{}).
		Where("id IN ?", ids).
		Update("views", gorm.Expr("views + ?", delta)).Error
}

// CreateView appends a view event. A uniqueness violation on either dedup
// index is reported as ErrDuplicateView.
func (s *GormStore) CreateView(v domain.ViewEvent) error {
	model := viewToModel(v)
	if err := s.db.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateView
		}
		return err
	}
	return nil
}

// HasView checks for a prior view event by user or by session key.
func (s *GormStore) HasView(bookID string, userID, sessionID *string) (bool, error) {
	tx := s.db.Model(&ViewEventModel{}).Where("book_id = ?", bookID)
	switch {
	case userID != nil:
		tx = tx.Where("user_id = ?", *userID)
	case sessionID != nil:
		tx = tx.Where("session_id = ?", *sessionID)
	default:
		return false, nil
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveOrder persists a new order.
func (s *GormStore) SaveOrder(o domain.Order) error {
	model := orderToModel(o)
	return s.db.Create(&model).Error
}

// GetOrder retrieves an order.
func (s *GormStore) GetOrder(id string) (domain.Order, bool, error) {
	var model OrderModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, false, nil
		}
		return domain.Order{}, false, err
	}
	return orderFromModel(model), true, nil
}

// ListOrdersBySeller returns a seller's orders, newest first.
func (s *GormStore) ListOrdersBySeller(sellerID string) ([]domain.Order, error) {
	var models []OrderModel
	if err := s.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(models))
	for _, m := range models {
		orders = append(orders, orderFromModel(m))
	}
	return orders, nil
}

// SetOrderStatus updates the status of an order.
func (s *GormStore) SetOrderStatus(id string, status domain.OrderStatus) error {
	return s.db.Model(&OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		}).Error
}

func orderClause(q domain.BookQuery) string {
	col := "created_at"
	switch q.SortBy {
	case domain.SortByPrice:
		col = "price"
	case domain.SortByTitle:
		col = "title"
	case domain.SortByViews:
		col = "views"
	}
	if q.Descending {
		return col + " DESC"
	}
	return col + " ASC"
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}
