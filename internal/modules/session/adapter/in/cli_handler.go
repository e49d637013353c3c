package in

import (
	"context"

	"shelfmark/internal/modules/session/dto"
	sessionin "shelfmark/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, userID, bookID string, startPage int, viewed bool) (dto.SessionOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{UserID: userID, BookID: bookID, StartPage: startPage, Viewed: viewed})
}

func (h CLIHandler) UpdateProgress(ctx context.Context, input dto.ProgressInput) (dto.SessionOutput, error) {
	return h.usecase.UpdateProgress(ctx, input)
}

func (h CLIHandler) Pause(ctx context.Context, userID, sessionID string) (dto.SessionOutput, error) {
	return h.usecase.Pause(ctx, userID, sessionID)
}

func (h CLIHandler) Resume(ctx context.Context, userID, sessionID string) (dto.SessionOutput, error) {
	return h.usecase.Resume(ctx, userID, sessionID)
}

func (h CLIHandler) Complete(ctx context.Context, userID, sessionID string, rating int, review string) (dto.SessionOutput, error) {
	return h.usecase.Complete(ctx, dto.CompleteInput{UserID: userID, SessionID: sessionID, Rating: rating, Review: review})
}

func (h CLIHandler) Abandon(ctx context.Context, userID, sessionID string) (dto.SessionOutput, error) {
	return h.usecase.Abandon(ctx, userID, sessionID)
}

func (h CLIHandler) Annotate(ctx context.Context, input dto.AnnotateInput) (dto.SessionOutput, error) {
	return h.usecase.Annotate(ctx, input)
}

func (h CLIHandler) Current(ctx context.Context, userID string) ([]dto.SessionOutput, error) {
	return h.usecase.GetCurrentSessions(ctx, userID)
}

func (h CLIHandler) History(ctx context.Context, input dto.HistoryInput) ([]dto.SessionOutput, error) {
	return h.usecase.GetHistory(ctx, input)
}

func (h CLIHandler) Purge(ctx context.Context, userID string) error {
	return h.usecase.PurgeUser(ctx, userID)
}
