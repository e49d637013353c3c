package out

import (
	"context"
	"time"

	"shelfmark/internal/modules/stats/domain"
)

// ReadSource lists a user's completed reads joined with book metadata.
type ReadSource interface {
	CompletedReads(ctx context.Context, userID string) ([]domain.CompletedRead, error)
}

// Cache keeps the last successfully computed statistics per user so a
// failing read path can degrade instead of erroring.
type Cache interface {
	Load(ctx context.Context, userID string) (domain.Stats, time.Time, bool, error)
	Save(ctx context.Context, userID string, stats domain.Stats, computedAt time.Time) error
}
