package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"vuedubooks/pkg/domain"
)

// MemoryStore keeps all records in-process. It mirrors the GormStore query
// and dedup semantics and is used by tests and local development. The dedup
// maps under the single mutex play the role of the database uniqueness
// constraints.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	email     map[string]string // email -> user ID
	books     map[string]domain.Book
	bookOrder []string
	views     []domain.ViewEvent
	viewKeys  map[string]struct{} // dedup key -> present
	orders    map[string]domain.Order
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]domain.User),
		email:    make(map[string]string),
		books:    make(map[string]domain.Book),
		viewKeys: make(map[string]struct{}),
		orders:   make(map[string]domain.Order),
	}
}

// SaveUser registers or updates a user.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.users[u.ID]; ok && prev.Email != u.Email {
		delete(m.email, prev.Email)
	}
	m.users[u.ID] = u
	m.email[u.Email] = u.ID
	return nil
}

// HasUserEmail checks if email exists.
func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

// GetUserByEmail looks up a user by email.
func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.email[email]
	if !ok {
		return domain.User{}, false, nil
	}
	u, ok := m.users[id]
	return u, ok, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// GetUsersByIDs returns users keyed by ID.
func (m *MemoryStore) GetUsersByIDs(ids []string) (map[string]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.User, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// SaveBook stores or replaces a book record and tracks insertion order.
func (m *MemoryStore) SaveBook(b domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.books[b.ID]; !exists {
		m.bookOrder = append(m.bookOrder, b.ID)
	}
	m.books[b.ID] = b
	return nil
}

// GetBook retrieves a book by ID.
func (m *MemoryStore) GetBook(id string) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	return b, ok, nil
}

// DeleteBook removes a book and its view events.
func (m *MemoryStore) DeleteBook(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	filtered := m.bookOrder[:0]
	for _, item := range m.bookOrder {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	m.bookOrder = filtered
	kept := m.views[:0]
	for _, v := range m.views {
		if v.BookID != id {
			kept = append(kept, v)
			continue
		}
		delete(m.viewKeys, viewKey(v.BookID, v.UserID, v.SessionID))
	}
	m.views = kept
	return nil
}

// SearchBooks filters, sorts, counts, and windows the available books.
func (m *MemoryStore) SearchBooks(q domain.BookQuery) ([]domain.Book, int64, error) {
	m.mu.RLock()
	matched := make([]domain.Book, 0, len(m.bookOrder))
	for _, id := range m.bookOrder {
		b, ok := m.books[id]
		if ok && matchesQuery(b, q) {
			matched = append(matched, b)
		}
	}
	m.mu.RUnlock()

	sortBooks(matched, q)
	total := int64(len(matched))

	start := q.Offset()
	if start >= len(matched) {
		return []domain.Book{}, total, nil
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// ListBooksBySeller returns a seller's books, newest first.
func (m *MemoryStore) ListBooksBySeller(sellerID string) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Book, 0)
	for _, id := range m.bookOrder {
		if b, ok := m.books[id]; ok && b.SellerID == sellerID {
			res = append(res, b)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

// IncrementViews bumps view counters for the given book IDs.
func (m *MemoryStore) IncrementViews(ids []string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if b, ok := m.books[id]; ok {
			b.Views += delta
			m.books[id] = b
		}
	}
	return nil
}

// CreateView appends a view event, enforcing the per-viewer uniqueness that
// the database indexes provide in the GormStore.
func (m *MemoryStore) CreateView(v domain.ViewEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := viewKey(v.BookID, v.UserID, v.SessionID)
	if key != "" {
		if _, dup := m.viewKeys[key]; dup {
			return ErrDuplicateView
		}
		m.viewKeys[key] = struct{}{}
	}
	m.views = append(m.views, v)
	return nil
}

// HasView checks for a prior view event for the viewer key.
func (m *MemoryStore) HasView(bookID string, userID, sessionID *string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := viewKey(bookID, userID, sessionID)
	if key == "" {
		return false, nil
	}
	_, ok := m.viewKeys[key]
	return ok, nil
}

// SaveOrder persists a new order.
func (m *MemoryStore) SaveOrder(o domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
	return nil
}

// GetOrder retrieves an order by ID.
func (m *MemoryStore) GetOrder(id string) (domain.Order, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	return o, ok, nil
}

// ListOrdersBySeller returns a seller's orders, newest first.
func (m *MemoryStore) ListOrdersBySeller(sellerID string) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Order, 0)
	for _, o := range m.orders {
		if o.SellerID == sellerID {
			res = append(res, o)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

// SetOrderStatus updates the status of an order.
func (m *MemoryStore) SetOrderStatus(id string, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	m.orders[id] = o
	return nil
}

func viewKey(bookID string, userID, sessionID *string) string {
	switch {
	case userID != nil:
		return bookID + "|u|" + *userID
	case sessionID != nil:
		return bookID + "|s|" + *sessionID
	default:
		return ""
	}
}

func matchesQuery(b domain.Book, q domain.BookQuery) bool {
	if !b.Availability {
		return false
	}
	if q.Search != "" && !matchesSearch(b, q.Search) {
		return false
	}
	if q.Category != "" && b.Category != q.Category {
		return false
	}
	if q.CourseCode != "" && b.CourseCode != q.CourseCode {
		return false
	}
	if q.Condition != "" && string(b.Condition) != q.Condition {
		return false
	}
	if q.MinPrice != nil && b.Price.LessThan(*q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && b.Price.GreaterThan(*q.MaxPrice) {
		return false
	}
	return true
}

func matchesSearch(b domain.Book, search string) bool {
	needle := strings.ToLower(search)
	for _, field := range []string{
		b.Title, b.Description, b.CourseCode, b.Author, b.ISBN, b.Publisher,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func sortBooks(books []domain.Book, q domain.BookQuery) {
	less := func(a, b domain.Book) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch q.SortBy {
	case domain.SortByPrice:
		less = func(a, b domain.Book) bool { return a.Price.LessThan(b.Price) }
	case domain.SortByTitle:
		less = func(a, b domain.Book) bool { return a.Title < b.Title }
	case domain.SortByViews:
		less = func(a, b domain.Book) bool { return a.Views < b.Views }
	}
	sort.SliceStable(books, func(i, j int) bool {
		if q.Descending {
			return less(books[j], books[i])
		}
		return less(books[i], books[j])
	})
}
