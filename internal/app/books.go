package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vuedubooks/internal/registry"
	"vuedubooks/pkg/domain"
)

// BookUpdate carries optional field changes for a seller's book. Nil means
// "leave unchanged". Category cannot be set directly; changing the course
// code re-derives it.
type BookUpdate struct {
	Title        *string          `json:"title"`
	CourseCode   *string          `json:"courseCode"`
	Price        *decimal.Decimal `json:"price"`
	Description  *string          `json:"description"`
	Condition    *string          `json:"condition"`
	Availability *bool            `json:"availability"`
	Semester     *string          `json:"semester"`
	Author       *string          `json:"author"`
	Edition      *string          `json:"edition"`
	ISBN         *string          `json:"isbn"`
	Publisher    *string          `json:"publisher"`
	Tags         *[]string        `json:"tags"`
}

// UpdateBook applies a partial update to a book owned by the caller.
func (a *App) UpdateBook(caller domain.User, bookID string, upd BookUpdate) (domain.BookWithSeller, error) {
	book, ok, err := a.store.GetBook(strings.TrimSpace(bookID))
	if err != nil {
		return domain.BookWithSeller{}, err
	}
	if !ok {
		return domain.BookWithSeller{}, ErrBookNotFound
	}
	if book.SellerID != caller.ID {
		return domain.BookWithSeller{}, ErrNotOwner
	}

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return domain.BookWithSeller{}, fmt.Errorf("%w: title is required", ErrValidation)
		}
		book.Title = title
	}
	if upd.CourseCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*upd.CourseCode))
		if !a.registry.Contains(code) {
			return domain.BookWithSeller{}, fmt.Errorf("%w: invalid course code %q", ErrValidation, code)
		}
		book.CourseCode = code
		book.Category = registry.CategoryFor(code)
	}
	if upd.Price != nil {
		if upd.Price.IsNegative() {
			return domain.BookWithSeller{}, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		book.Price = *upd.Price
	}
	if upd.Description != nil {
		book.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Condition != nil {
		if !domain.ValidCondition(*upd.Condition) {
			return domain.BookWithSeller{}, fmt.Errorf("%w: invalid condition %q", ErrValidation, *upd.Condition)
		}
		book.Condition = domain.BookCondition(*upd.Condition)
	}
	if upd.Availability != nil {
		book.Availability = *upd.Availability
	}
	if upd.Semester != nil {
		book.Semester = strings.TrimSpace(*upd.Semester)
	}
	if upd.Author != nil {
		book.Author = strings.TrimSpace(*upd.Author)
	}
	if upd.Edition != nil {
		book.Edition = strings.TrimSpace(*upd.Edition)
	}
	if upd.ISBN != nil {
		book.ISBN = strings.TrimSpace(*upd.ISBN)
	}
	if upd.Publisher != nil {
		book.Publisher = strings.TrimSpace(*upd.Publisher)
	}
	if upd.Tags != nil {
		book.Tags = trimTags(*upd.Tags)
	}
	book.UpdatedAt = time.Now().UTC()

	if err := a.store.SaveBook(book); err != nil {
		return domain.BookWithSeller{}, fmt.Errorf("save book: %w", err)
	}
	return domain.BookWithSeller{Book: book, Seller: caller.Summary()}, nil
}

// DeleteBook removes a book owned by the caller.
func (a *App) DeleteBook(caller domain.User, bookID string) error {
	book, ok, err := a.store.GetBook(strings.TrimSpace(bookID))
	if err != nil {
		return err
	}
	if !ok {
		return ErrBookNotFound
	}
	if book.SellerID != caller.ID {
		return ErrNotOwner
	}
	return a.store.DeleteBook(book.ID)
}

// ListSellerBooks returns the caller's own listings, newest first.
func (a *App) ListSellerBooks(caller domain.User) ([]domain.Book, error) {
	return a.store.ListBooksBySeller(caller.ID)
}
