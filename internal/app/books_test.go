package app

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vuedubooks/pkg/domain"
)

func TestUpdateBookPartial(t *testing.T) {
	a, mem, _ := newTestApp(t)
	seller := newSeller(t, mem, "s1")
	book := newListedBook(t, mem, "b1", seller.ID, 500)

	price := decimal.NewFromInt(650)
	sold := false
	updated, err := a.UpdateBook(seller, book.ID, BookUpdate{Price: &price, Availability: &sold})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Price.Equal(price) || updated.Availability {
		t.Fatalf("update not applied: %+v", updated.Book)
	}
	if updated.Title != book.Title {
		t.Fatalf("untouched field changed: %q", updated.Title)
	}
}

func TestUpdateBookCourseCodeRederivesCategory(t *testing.T) {
	a, mem, _ := newTestApp(t)
	seller := newSeller(t, mem, "s1")
	book := newListedBook(t, mem, "b1", seller.ID, 500)

	code := "mgt201"
	updated, err := a.UpdateBook(seller, book.ID, BookUpdate{CourseCode: &code})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CourseCode != "MGT201" || updated.Category != "MGT" {
		t.Fatalf("courseCode=%q category=%q", updated.CourseCode, updated.Category)
	}

	bad := "NOPE01"
	if _, err := a.UpdateBook(seller, book.ID, BookUpdate{CourseCode: &bad}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad code: got %v, want validation error", err)
	}
}

func TestUpdateBookOwnership(t *testing.T) {
	a, mem, _ := newTestApp(t)
	seller := newSeller(t, mem, "s1")
	other := newSeller(t, mem, "s2")
	book := newListedBook(t, mem, "b1", seller.ID, 500)

	title := "Hijacked"
	if _, err := a.UpdateBook(other, book.ID, BookUpdate{Title: &title}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("got %v, want ErrNotOwner", err)
	}
	if _, err := a.UpdateBook(seller, "missing", BookUpdate{Title: &title}); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("got %v, want ErrBookNotFound", err)
	}
}

func TestDeleteBook(t *testing.T) {
	a, mem, _ := newTestApp(t)
	seller := newSeller(t, mem, "s1")
	other := newSeller(t, mem, "s2")
	book := newListedBook(t, mem, "b1", seller.ID, 500)

	if err := a.DeleteBook(other, book.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("foreign delete: got %v, want ErrNotOwner", err)
	}
	if err := a.DeleteBook(seller, book.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := mem.GetBook(book.ID); ok {
		t.Fatalf("book still present")
	}
	if err := a.DeleteBook(seller, book.ID); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("second delete: got %v, want ErrBookNotFound", err)
	}
}

func TestListSellerBooksNewestFirst(t *testing.T) {
	a, mem, _ := newTestApp(t)
	seller := newSeller(t, mem, "s1")
	first := newListedBook(t, mem, "b1", seller.ID, 100)
	second := newListedBook(t, mem, "b2", seller.ID, 200)
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	if err := mem.SaveBook(second); err != nil {
		t.Fatalf("save: %v", err)
	}

	books, err := a.ListSellerBooks(seller)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}
	if books[0].ID != "b2" || books[1].ID != "b1" {
		t.Fatalf("order = %s, %s; want b2 then b1", books[0].ID, books[1].ID)
	}

	var buyer = domain.User{ID: "u1", Role: domain.RoleBuyer}
	books, err = a.ListSellerBooks(buyer)
	if err != nil || len(books) != 0 {
		t.Fatalf("buyer listings = %d, %v", len(books), err)
	}
}
