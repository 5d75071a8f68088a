package app

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"vuedubooks/internal/util"
	"vuedubooks/pkg/domain"
	"vuedubooks/pkg/store"
)

// RecordView counts a view of the book at most once per viewer. The viewer
// key is the authenticated user when present, else the caller-supplied
// session token. With neither, the event is untracked and always counts.
// Returns alreadyViewed=true when this viewer was counted before.
func (a *App) RecordView(bookID string, user *domain.User, sessionID string) (bool, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return false, ErrBookNotFound
	}
	if _, ok, err := a.store.GetBook(bookID); err != nil {
		return false, err
	} else if !ok {
		return false, ErrBookNotFound
	}

	var userID, sessionKey *string
	if user != nil {
		userID = &user.ID
	} else if sid := strings.TrimSpace(sessionID); sid != "" {
		sessionKey = &sid
	}

	seen, err := a.store.HasView(bookID, userID, sessionKey)
	if err != nil {
		return false, err
	}
	if seen {
		return true, nil
	}

	event := domain.ViewEvent{
		ID:        util.NewEntityID(),
		BookID:    bookID,
		UserID:    userID,
		SessionID: sessionKey,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.CreateView(event); err != nil {
		// A concurrent request for the same viewer won the insert race at
		// the store uniqueness constraint. Same outcome as "seen" above.
		if errors.Is(err, store.ErrDuplicateView) {
			return true, nil
		}
		return false, err
	}
	if err := a.store.IncrementViews([]string{bookID}, 1); err != nil {
		// Event is recorded but the counter lagged. Rare and tolerated;
		// there is no multi-document transaction to close the window.
		slog.Warn("view counter increment failed after event insert", "err", err, "book", bookID)
	}
	return false, nil
}
