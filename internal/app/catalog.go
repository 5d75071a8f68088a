package app

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"vuedubooks/pkg/domain"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// ListBooksParams carries raw catalog filter input as received at the edge.
// The query builder normalizes it; nothing here is trusted.
type ListBooksParams struct {
	Search     string
	Category   string
	CourseCode string
	Condition  string
	MinPrice   string
	MaxPrice   string
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// AppliedFilters echoes the filters a listing response was produced with.
type AppliedFilters struct {
	Search     string `json:"search"`
	Category   string `json:"category"`
	CourseCode string `json:"courseCode"`
	Condition  string `json:"condition"`
	MinPrice   string `json:"minPrice"`
	MaxPrice   string `json:"maxPrice"`
	SortBy     string `json:"sortBy"`
	SortOrder  string `json:"sortOrder"`
}

// BookPage is one page of catalog results.
type BookPage struct {
	Books      []domain.BookWithSeller `json:"books"`
	Pagination domain.Pagination       `json:"pagination"`
	Filters    AppliedFilters          `json:"filters"`
}

// BuildBookQuery normalizes raw filter parameters into a deterministic
// store query. Unknown sort fields fail closed to newest-first; malformed
// prices are treated as absent; the page window is clamped to sane bounds.
func BuildBookQuery(p ListBooksParams) domain.BookQuery {
	q := domain.BookQuery{
		Search:     strings.TrimSpace(p.Search),
		Category:   strings.ToUpper(strings.TrimSpace(p.Category)),
		CourseCode: strings.ToUpper(strings.TrimSpace(p.CourseCode)),
		Condition:  strings.TrimSpace(p.Condition),
		MinPrice:   parsePrice(p.MinPrice),
		MaxPrice:   parsePrice(p.MaxPrice),
		SortBy:     domain.SortByCreatedAt,
		Descending: true,
		Page:       p.Page,
		PageSize:   p.PageSize,
	}
	switch domain.SortField(strings.TrimSpace(p.SortBy)) {
	case domain.SortByPrice:
		q.SortBy = domain.SortByPrice
	case domain.SortByTitle:
		q.SortBy = domain.SortByTitle
	case domain.SortByViews:
		q.SortBy = domain.SortByViews
	}
	if strings.EqualFold(strings.TrimSpace(p.SortOrder), "asc") {
		q.Descending = false
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	return q
}

// ListBooks runs a catalog query and returns the page joined with seller
// summaries. On unfiltered browses (no search text) the view counters of
// the returned books are bumped in the background; a failure there is
// logged and never affects the response.
func (a *App) ListBooks(p ListBooksParams) (BookPage, error) {
	q := BuildBookQuery(p)
	books, total, err := a.store.SearchBooks(q)
	if err != nil {
		return BookPage{}, err
	}

	if q.Search == "" && len(books) > 0 {
		ids := make([]string, 0, len(books))
		for _, b := range books {
			ids = append(ids, b.ID)
		}
		go func() {
			if err := a.store.IncrementViews(ids, 1); err != nil {
				slog.Warn("listing view increment failed", "err", err, "books", len(ids))
			}
		}()
	}

	joined, err := a.attachSellers(books)
	if err != nil {
		return BookPage{}, err
	}
	return BookPage{
		Books:      joined,
		Pagination: domain.NewPagination(q, total),
		Filters: AppliedFilters{
			Search:     q.Search,
			Category:   q.Category,
			CourseCode: q.CourseCode,
			Condition:  q.Condition,
			MinPrice:   strings.TrimSpace(p.MinPrice),
			MaxPrice:   strings.TrimSpace(p.MaxPrice),
			SortBy:     string(q.SortBy),
			SortOrder:  sortOrderLabel(q.Descending),
		},
	}, nil
}

// GetBook returns a book joined with its seller contact detail and bumps
// the view counter in the background.
func (a *App) GetBook(id string) (domain.BookWithSeller, error) {
	book, ok, err := a.store.GetBook(id)
	if err != nil {
		return domain.BookWithSeller{}, err
	}
	if !ok {
		return domain.BookWithSeller{}, ErrBookNotFound
	}
	go func() {
		if err := a.store.IncrementViews([]string{book.ID}, 1); err != nil {
			slog.Warn("detail view increment failed", "err", err, "book", book.ID)
		}
	}()
	seller, _, err := a.store.GetUserByID(book.SellerID)
	if err != nil {
		return domain.BookWithSeller{}, err
	}
	summary := seller.Summary()
	summary.Address = seller.Address
	return domain.BookWithSeller{Book: book, Seller: summary}, nil
}

func (a *App) attachSellers(books []domain.Book) ([]domain.BookWithSeller, error) {
	ids := make([]string, 0, len(books))
	seen := make(map[string]struct{}, len(books))
	for _, b := range books {
		if _, dup := seen[b.SellerID]; dup {
			continue
		}
		seen[b.SellerID] = struct{}{}
		ids = append(ids, b.SellerID)
	}
	sellers, err := a.store.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BookWithSeller, 0, len(books))
	for _, b := range books {
		out = append(out, domain.BookWithSeller{
			Book:   b,
			Seller: sellers[b.SellerID].Summary(),
		})
	}
	return out, nil
}

func parsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil
	}
	return &d
}

func sortOrderLabel(descending bool) string {
	if descending {
		return "desc"
	}
	return "asc"
}
