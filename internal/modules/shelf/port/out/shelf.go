package out

import (
	"context"

	"shelfmark/internal/modules/shelf/domain"
)

// ShelfStore persists per-user shelf aggregates. Load for a user without
// a stored shelf returns a fresh empty aggregate, not an error.
type ShelfStore interface {
	Load(ctx context.Context, userID string) (domain.UserShelf, error)
	Save(ctx context.Context, shelf domain.UserShelf) error
}

// SessionStatusSource exposes the authoritative session status needed by
// repair-on-read, without coupling the shelf to the session module.
type SessionStatusSource interface {
	// ActiveBookIDs lists book ids with a live (active or paused) session.
	ActiveBookIDs(ctx context.Context, userID string) ([]string, error)
	// CompletedBooks lists finished reads with their final session deltas,
	// one entry per book, so repair can reconstruct a lost completion.
	CompletedBooks(ctx context.Context, userID string) ([]domain.FinishedBook, error)
}
