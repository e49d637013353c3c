package in

import (
	"context"

	"shelfmark/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	UpdateProgress(ctx context.Context, input dto.ProgressInput) (dto.SessionOutput, error)
	Pause(ctx context.Context, userID, sessionID string) (dto.SessionOutput, error)
	Resume(ctx context.Context, userID, sessionID string) (dto.SessionOutput, error)
	Complete(ctx context.Context, input dto.CompleteInput) (dto.SessionOutput, error)
	Abandon(ctx context.Context, userID, sessionID string) (dto.SessionOutput, error)
	Annotate(ctx context.Context, input dto.AnnotateInput) (dto.SessionOutput, error)
	GetCurrentSessions(ctx context.Context, userID string) ([]dto.SessionOutput, error)
	GetHistory(ctx context.Context, input dto.HistoryInput) ([]dto.SessionOutput, error)

	// PurgeUser deletes every session the user owns and resets the shelf.
	// This is the only path that physically removes session rows.
	PurgeUser(ctx context.Context, userID string) error
}
