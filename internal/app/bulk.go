package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vuedubooks/internal/registry"
	"vuedubooks/internal/util"
	"vuedubooks/pkg/domain"
)

// MaxBulkBooks bounds one ingestion batch. Larger batches are rejected
// wholesale before any record is processed.
const MaxBulkBooks = 200

// BookInput is one candidate record in a bulk upload (also used for single
// creation). Category is never accepted from the caller; it is derived.
type BookInput struct {
	Title       string          `json:"title"`
	CourseCode  string          `json:"courseCode"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Condition   string          `json:"condition"`
	Semester    string          `json:"semester"`
	Author      string          `json:"author"`
	Edition     string          `json:"edition"`
	ISBN        string          `json:"isbn"`
	Publisher   string          `json:"publisher"`
	Tags        []string        `json:"tags"`
}

// BulkStatus distinguishes the three batch outcomes.
type BulkStatus string

const (
	BulkAllCreated BulkStatus = "all-created"
	BulkPartial    BulkStatus = "partial"
	BulkRejected   BulkStatus = "rejected"
)

// BulkError names one failed record by its position in the submitted batch.
type BulkError struct {
	Index  int    `json:"index"`
	Reason string `json:"error"`
}

// BulkResult reports a batch outcome. Callers must branch on Status:
// Rejected means nothing was attempted; Partial carries both the created
// records and the per-record failures.
type BulkResult struct {
	Status   BulkStatus
	Reason   string
	Created  []domain.BookWithSeller
	Failures []BulkError
}

// BulkCreateBooks validates and inserts a seller's batch. Processing never
// stops at a bad record; every candidate is attempted independently and
// failures are reported by index.
func (a *App) BulkCreateBooks(seller domain.User, inputs []BookInput) (BulkResult, error) {
	if seller.Role != domain.RoleSeller {
		return BulkResult{Status: BulkRejected, Reason: ErrNotSeller.Error()}, nil
	}
	if len(inputs) == 0 {
		return BulkResult{Status: BulkRejected, Reason: "please provide an array of books"}, nil
	}
	if len(inputs) > MaxBulkBooks {
		return BulkResult{
			Status: BulkRejected,
			Reason: fmt.Sprintf("maximum %d books allowed per upload", MaxBulkBooks),
		}, nil
	}

	var failures []BulkError
	var createdIDs []string
	for i, input := range inputs {
		book, err := a.buildBook(seller.ID, input)
		if err != nil {
			failures = append(failures, BulkError{Index: i, Reason: err.Error()})
			continue
		}
		if err := a.store.SaveBook(book); err != nil {
			failures = append(failures, BulkError{Index: i, Reason: err.Error()})
			continue
		}
		createdIDs = append(createdIDs, book.ID)
	}

	created, err := a.refetchCreated(seller, createdIDs)
	if err != nil {
		return BulkResult{}, err
	}
	status := BulkAllCreated
	if len(failures) > 0 {
		status = BulkPartial
	}
	return BulkResult{Status: status, Created: created, Failures: failures}, nil
}

// CreateBook inserts a single seller-submitted record.
func (a *App) CreateBook(seller domain.User, input BookInput) (domain.BookWithSeller, error) {
	if seller.Role != domain.RoleSeller {
		return domain.BookWithSeller{}, ErrNotSeller
	}
	book, err := a.buildBook(seller.ID, input)
	if err != nil {
		return domain.BookWithSeller{}, err
	}
	if err := a.store.SaveBook(book); err != nil {
		return domain.BookWithSeller{}, fmt.Errorf("save book: %w", err)
	}
	return domain.BookWithSeller{Book: book, Seller: seller.Summary()}, nil
}

// buildBook validates one candidate and materializes the Book with derived
// category, normalized course code, and the seller attached.
func (a *App) buildBook(sellerID string, input BookInput) (domain.Book, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Book{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	code := strings.ToUpper(strings.TrimSpace(input.CourseCode))
	if code == "" {
		return domain.Book{}, fmt.Errorf("%w: courseCode is required", ErrValidation)
	}
	if !a.registry.Contains(code) {
		return domain.Book{}, fmt.Errorf("%w: invalid course code %q", ErrValidation, code)
	}
	if !domain.ValidCondition(strings.TrimSpace(input.Condition)) {
		return domain.Book{}, fmt.Errorf("%w: invalid condition %q", ErrValidation, input.Condition)
	}
	if input.Price.IsNegative() {
		return domain.Book{}, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if strings.TrimSpace(input.Description) == "" {
		return domain.Book{}, fmt.Errorf("%w: description is required", ErrValidation)
	}
	now := time.Now().UTC()
	return domain.Book{
		ID:           util.NewEntityID(),
		Title:        title,
		CourseCode:   code,
		Category:     registry.CategoryFor(code),
		Price:        input.Price,
		Description:  strings.TrimSpace(input.Description),
		Condition:    domain.BookCondition(strings.TrimSpace(input.Condition)),
		SellerID:     sellerID,
		Availability: true,
		Semester:     strings.TrimSpace(input.Semester),
		Author:       strings.TrimSpace(input.Author),
		Edition:      strings.TrimSpace(input.Edition),
		ISBN:         strings.TrimSpace(input.ISBN),
		Publisher:    strings.TrimSpace(input.Publisher),
		Tags:         trimTags(input.Tags),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// refetchCreated loads the stored records so the caller receives complete
// objects joined with the seller summary, not bare identifiers.
func (a *App) refetchCreated(seller domain.User, ids []string) ([]domain.BookWithSeller, error) {
	out := make([]domain.BookWithSeller, 0, len(ids))
	summary := seller.Summary()
	for _, id := range ids {
		book, ok, err := a.store.GetBook(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, domain.BookWithSeller{Book: book, Seller: summary})
	}
	return out, nil
}

func trimTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
