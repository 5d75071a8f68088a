package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"vuedubooks/internal/app"
	"vuedubooks/pkg/domain"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var input app.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}
	user, token, err := s.app.Register(input)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  user,
		"token": token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	user, token, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}

// GET /api/books lists the catalog; POST adds a single seller listing.
func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListBooks(w, r)
	case http.MethodPost:
		s.withUser(s.handleCreateBook).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := app.ListBooksParams{
		Search:     query.Get("search"),
		Category:   query.Get("category"),
		CourseCode: query.Get("courseCode"),
		Condition:  query.Get("condition"),
		MinPrice:   query.Get("minPrice"),
		MaxPrice:   query.Get("maxPrice"),
		SortBy:     query.Get("sortBy"),
		SortOrder:  query.Get("sortOrder"),
		Page:       atoiOrZero(query.Get("page")),
		PageSize:   atoiOrZero(query.Get("limit")),
	}
	page, err := s.app.ListBooks(params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch books")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request, user domain.User) {
	var input app.BookInput
	if !decodeJSON(w, r, &input) {
		return
	}
	book, err := s.app.CreateBook(user, input)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// POST /api/books/bulk ingests a bounded batch of listings.
func (s *Server) handleBulkBooks(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		Books []app.BookInput `json:"books"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := s.app.BulkCreateBooks(user, req.Books)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "bulk upload failed")
		return
	}
	switch result.Status {
	case app.BulkRejected:
		status := http.StatusBadRequest
		if result.Reason == app.ErrNotSeller.Error() {
			status = http.StatusForbidden
		}
		writeError(w, status, result.Reason)
	case app.BulkPartial:
		writeJSON(w, http.StatusMultiStatus, map[string]any{
			"successCount": len(result.Created),
			"failedCount":  len(result.Failures),
			"errors":       result.Failures,
			"books":        result.Created,
		})
	default:
		writeJSON(w, http.StatusCreated, map[string]any{
			"totalCreated": len(result.Created),
			"books":        result.Created,
		})
	}
}

// /api/books/{id} or /api/books/{id}/view
func (s *Server) handleBookByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/books/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" {
		notFound(w, "not found")
		return
	}
	if len(parts) == 2 {
		if parts[1] == "view" {
			s.handleRecordView(w, r, id)
			return
		}
		notFound(w, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		book, err := s.app.GetBook(id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	case http.MethodPut:
		s.withUser(func(w http.ResponseWriter, r *http.Request, user domain.User) {
			var upd app.BookUpdate
			if !decodeJSON(w, r, &upd) {
				return
			}
			book, err := s.app.UpdateBook(user, id, upd)
			if err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, book)
		}).ServeHTTP(w, r)
	case http.MethodDelete:
		s.withUser(func(w http.ResponseWriter, _ *http.Request, user domain.User) {
			if err := s.app.DeleteBook(user, id); err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

// POST /api/books/{id}/view counts a view once per viewer. Auth is
// optional; anonymous callers may carry a session token in the body.
func (s *Server) handleRecordView(w http.ResponseWriter, r *http.Request, bookID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		SessionID string `json:"sessionId"`
	}
	// The body is optional here: anonymous browsers send {"sessionId": ...},
	// authenticated clients may send nothing at all.
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user := s.optionalUser(r)
	alreadyViewed, err := s.app.RecordView(bookID, user, req.SessionID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"counted":       !alreadyViewed,
		"alreadyViewed": alreadyViewed,
	})
}

// POST /api/orders places an order (no account needed); GET lists the
// authenticated seller's orders.
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var input app.OrderInput
		if !decodeJSON(w, r, &input) {
			return
		}
		order, notified, err := s.app.CreateOrder(input)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"order":            order,
			"notificationSent": notified,
		})
	case http.MethodGet:
		s.withUser(func(w http.ResponseWriter, _ *http.Request, user domain.User) {
			orders, err := s.app.ListSellerOrders(user)
			if err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"items": orders,
				"count": len(orders),
			})
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /api/orders/{id} or /api/orders/{id}/status
func (s *Server) handleOrderByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	path := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" {
		notFound(w, "not found")
		return
	}
	if len(parts) == 2 {
		if parts[1] == "status" {
			s.handleOrderStatus(w, r, user, id)
			return
		}
		notFound(w, "not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	order, err := s.app.GetOrder(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if order.SellerID != user.ID {
		writeError(w, http.StatusForbidden, app.ErrNotOwner.Error())
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request, user domain.User, orderID string) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := s.app.UpdateOrderStatus(user, orderID, req.Status)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// GET /api/categories dumps the course-code registry.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	reg := s.app.Registry()
	codes := reg.CourseCodes()
	writeJSON(w, http.StatusOK, map[string]any{
		"categories":     reg.Categories(),
		"totalCourses":   len(codes),
		"allCourseCodes": codes,
	})
}

// GET /api/seller/books lists the caller's own listings, including
// unavailable ones.
func (s *Server) handleSellerBooks(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	books, err := s.app.ListSellerBooks(user)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": books,
		"count": len(books),
	})
}

func atoiOrZero(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
