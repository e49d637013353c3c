package out

import (
	"context"

	sessionout "shelfmark/internal/modules/session/port/out"
	"shelfmark/internal/modules/shelf/domain"
	shelfout "shelfmark/internal/modules/shelf/port/out"
)

// SessionStatusAdapter answers repair-on-read queries straight from the
// session store, which holds the authoritative lifecycle state.
type SessionStatusAdapter struct {
	sessions sessionout.SessionStore
}

var _ shelfout.SessionStatusSource = (*SessionStatusAdapter)(nil)

func NewSessionStatusAdapter(sessions sessionout.SessionStore) *SessionStatusAdapter {
	return &SessionStatusAdapter{sessions: sessions}
}

func (a *SessionStatusAdapter) ActiveBookIDs(ctx context.Context, userID string) ([]string, error) {
	live, err := a.sessions.ListCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(live))
	var ids []string
	for _, s := range live {
		if !seen[s.BookID] {
			seen[s.BookID] = true
			ids = append(ids, s.BookID)
		}
	}
	return ids, nil
}

func (a *SessionStatusAdapter) CompletedBooks(ctx context.Context, userID string) ([]domain.FinishedBook, error) {
	done, err := a.sessions.ListCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(done))
	var books []domain.FinishedBook
	for _, s := range done {
		if seen[s.BookID] {
			continue
		}
		seen[s.BookID] = true
		books = append(books, domain.FinishedBook{
			BookID:      s.BookID,
			FinishedAt:  s.EndTime,
			Rating:      s.FinalRating,
			PagesRead:   s.PagesRead,
			ReadingTime: s.TotalReadingTime,
		})
	}
	return books, nil
}
