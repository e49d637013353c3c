package in

import (
	"context"

	"shelfmark/internal/modules/shelf/dto"
)

// Usecase mutates the per-user shelf aggregate in response to session
// events and serves repaired shelf reads.
type Usecase interface {
	GetShelf(ctx context.Context, userID string) (dto.ShelfOutput, error)
	OnSessionStarted(ctx context.Context, ev dto.SessionStarted) error
	OnSessionCompleted(ctx context.Context, ev dto.SessionCompleted) error
	OnActivity(ctx context.Context, ev dto.SessionActivity) error
	OnUserPurged(ctx context.Context, userID string) error
}
