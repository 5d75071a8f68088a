package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vuedubooks/pkg/auth"
	"vuedubooks/pkg/domain"
	"vuedubooks/pkg/notify"
	"vuedubooks/pkg/store"
)

// stubNotifier records dispatched notifications and can be flipped to fail.
type stubNotifier struct {
	mu   sync.Mutex
	fail bool
	sent []notify.OrderNotification
}

func (s *stubNotifier) NotifyOrder(_ context.Context, n notify.OrderNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return context.DeadlineExceeded
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *stubNotifier) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func newTestApp(t *testing.T) (*App, *store.MemoryStore, *stubNotifier) {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	mem := store.NewMemoryStore()
	notifier := &stubNotifier{}
	a, err := New(Config{
		Store:         mem,
		Notifier:      notifier,
		Tokens:        tokens,
		NotifyTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, mem, notifier
}

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newSeller(t *testing.T, mem *store.MemoryStore, id string) domain.User {
	t.Helper()
	u := domain.User{
		ID:    id,
		Name:  "Seller " + id,
		Email: id + "@example.com",
		Phone: "03001234567",
		Role:  domain.RoleSeller,
	}
	if err := mem.SaveUser(u); err != nil {
		t.Fatalf("save seller: %v", err)
	}
	return u
}

func newListedBook(t *testing.T, mem *store.MemoryStore, id, sellerID string, price int64) domain.Book {
	t.Helper()
	now := time.Now().UTC()
	b := domain.Book{
		ID:           id,
		Title:        "Book " + id,
		CourseCode:   "CS101",
		Category:     "CS1",
		Price:        decimal.NewFromInt(price),
		Description:  "solid copy",
		Condition:    domain.ConditionGood,
		SellerID:     sellerID,
		Availability: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := mem.SaveBook(b); err != nil {
		t.Fatalf("save book: %v", err)
	}
	return b
}
