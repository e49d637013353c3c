package out

import (
	"context"
	"time"

	"shelfmark/internal/modules/session/domain"
)

// ListFilter narrows history queries. Zero values match everything.
type ListFilter struct {
	BookID string
	Status domain.Status
}

type SessionStore interface {
	// CreateActive inserts a new non-terminal session. When another
	// session for the same (user, book) already holds the active slot,
	// the store returns that winner and created=false instead of failing,
	// so concurrent Start calls converge on one session id.
	CreateActive(ctx context.Context, session domain.Session) (domain.Session, bool, error)

	FindByID(ctx context.Context, id string) (domain.Session, error)
	FindActive(ctx context.Context, userID, bookID string) (domain.Session, error)
	HasCompleted(ctx context.Context, userID, bookID string) (bool, error)

	// Update persists status, timestamps, outcome and sub-records.
	// Last-write-wins by arrival order; accumulators go through
	// ApplyProgress instead.
	Update(ctx context.Context, session domain.Session) error

	// ApplyProgress applies accumulator fields as additive deltas so
	// concurrent updates never lose pages or reading time, and writes the
	// position fields last-write-wins. Returns the stored session.
	ApplyProgress(ctx context.Context, id string, change domain.ProgressChange, session domain.Session) (domain.Session, error)

	ListCurrent(ctx context.Context, userID string) ([]domain.Session, error)
	ListCompleted(ctx context.Context, userID string) ([]domain.Session, error)
	List(ctx context.Context, userID string, filter ListFilter, offset, limit int) ([]domain.Session, error)

	// DeleteByUser removes all sessions for a user (account deletion cascade).
	DeleteByUser(ctx context.Context, userID string) error
}

// Journal writes a completed session to the reading journal.
// Export failures never fail the completing transition.
type Journal interface {
	Export(ctx context.Context, session domain.Session, bookTitle string, completedAt time.Time) (string, error)
}
