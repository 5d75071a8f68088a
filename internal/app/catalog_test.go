package app

import (
	"testing"

	"vuedubooks/pkg/domain"
)

func TestBuildBookQueryDefaults(t *testing.T) {
	q := BuildBookQuery(ListBooksParams{})
	if q.SortBy != domain.SortByCreatedAt || !q.Descending {
		t.Fatalf("default sort = %s desc=%v, want createdAt desc", q.SortBy, q.Descending)
	}
	if q.Page != 1 || q.PageSize != defaultPageSize {
		t.Fatalf("default window = page %d size %d", q.Page, q.PageSize)
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		t.Fatalf("empty prices must stay nil")
	}
}

func TestBuildBookQueryNormalization(t *testing.T) {
	q := BuildBookQuery(ListBooksParams{
		Search:     "  operating systems ",
		Category:   " cs ",
		CourseCode: "cs604",
		SortBy:     "price",
		SortOrder:  "ASC",
		MinPrice:   " 500 ",
		MaxPrice:   "2000",
		Page:       3,
		PageSize:   25,
	})
	if q.Search != "operating systems" {
		t.Fatalf("search = %q", q.Search)
	}
	if q.Category != "CS" || q.CourseCode != "CS604" {
		t.Fatalf("category/courseCode = %q/%q, want upper-cased", q.Category, q.CourseCode)
	}
	if q.SortBy != domain.SortByPrice || q.Descending {
		t.Fatalf("sort = %s desc=%v, want price asc", q.SortBy, q.Descending)
	}
	if q.MinPrice == nil || !q.MinPrice.Equal(decimalFromInt(500)) {
		t.Fatalf("minPrice = %v", q.MinPrice)
	}
	if q.MaxPrice == nil || !q.MaxPrice.Equal(decimalFromInt(2000)) {
		t.Fatalf("maxPrice = %v", q.MaxPrice)
	}
	if q.Page != 3 || q.PageSize != 25 {
		t.Fatalf("window = page %d size %d", q.Page, q.PageSize)
	}
}

func TestBuildBookQueryRejectsBadInput(t *testing.T) {
	q := BuildBookQuery(ListBooksParams{
		SortBy:   "seller.email",
		MinPrice: "abc",
		MaxPrice: "-10",
		Page:     -4,
		PageSize: 10000,
	})
	if q.SortBy != domain.SortByCreatedAt || !q.Descending {
		t.Fatalf("unknown sort must fail closed, got %s desc=%v", q.SortBy, q.Descending)
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		t.Fatalf("malformed and negative prices must be dropped")
	}
	if q.Page != 1 || q.PageSize != maxPageSize {
		t.Fatalf("window = page %d size %d, want 1 and %d", q.Page, q.PageSize, maxPageSize)
	}
}

func TestListBooksJoinsSellersAndPaginates(t *testing.T) {
	a, mem, _ := newTestApp(t)
	seller := newSeller(t, mem, "s1")
	for i := 0; i < 5; i++ {
		newListedBook(t, mem, string(rune('a'+i)), seller.ID, int64(100*(i+1)))
	}

	page, err := a.ListBooks(ListBooksParams{SortBy: "price", SortOrder: "asc", Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Books) != 2 {
		t.Fatalf("got %d books, want 2", len(page.Books))
	}
	if page.Books[0].Seller.ID != seller.ID || page.Books[0].Seller.Email != seller.Email {
		t.Fatalf("seller not joined: %+v", page.Books[0].Seller)
	}
	p := page.Pagination
	if p.TotalCount != 5 || p.TotalPages != 3 || p.CurrentPage != 2 {
		t.Fatalf("pagination = %+v", p)
	}
	if !p.HasNextPage || !p.HasPrevPage {
		t.Fatalf("pagination flags = %+v", p)
	}
}

func TestListBooksPagesSumToTotal(t *testing.T) {
	a, mem, _ := newTestApp(t)
	seller := newSeller(t, mem, "s1")
	for i := 0; i < 7; i++ {
		newListedBook(t, mem, string(rune('a'+i)), seller.ID, int64(50*(i+1)))
	}

	seen := make(map[string]struct{})
	page := 1
	for {
		res, err := a.ListBooks(ListBooksParams{SortBy: "price", SortOrder: "asc", Page: page, PageSize: 3})
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		for _, b := range res.Books {
			if _, dup := seen[b.ID]; dup {
				t.Fatalf("book %s appeared on two pages", b.ID)
			}
			seen[b.ID] = struct{}{}
		}
		if !res.Pagination.HasNextPage {
			if int64(len(seen)) != res.Pagination.TotalCount {
				t.Fatalf("walked %d books, total reports %d", len(seen), res.Pagination.TotalCount)
			}
			break
		}
		page++
	}
}

func TestGetBookNotFound(t *testing.T) {
	a, _, _ := newTestApp(t)
	if _, err := a.GetBook("missing"); err != ErrBookNotFound {
		t.Fatalf("got %v, want ErrBookNotFound", err)
	}
}
