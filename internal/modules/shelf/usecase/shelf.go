package usecase

import (
	"context"
	"time"

	"shelfmark/internal/modules/shelf/domain"
	"shelfmark/internal/modules/shelf/dto"
	"shelfmark/internal/modules/shelf/port/in"
	"shelfmark/internal/platform/clock"
)

// Interactor exposes the shelf service behind the inbound port.
type Interactor struct {
	svc   ShelfService
	clock clock.Clock
	loc   *time.Location
}

// ShelfService is the subset of the service the interactor needs.
type ShelfService interface {
	GetShelf(ctx context.Context, userID string) (domain.UserShelf, bool, error)
	OnSessionStarted(ctx context.Context, ev dto.SessionStarted) error
	OnSessionCompleted(ctx context.Context, ev dto.SessionCompleted) error
	OnActivity(ctx context.Context, ev dto.SessionActivity) error
	OnUserPurged(ctx context.Context, userID string) error
}

var _ in.Usecase = (*Interactor)(nil)

func NewInteractor(svc ShelfService, c clock.Clock, loc *time.Location) *Interactor {
	if loc == nil {
		loc = time.UTC
	}
	return &Interactor{svc: svc, clock: c, loc: loc}
}

func (i *Interactor) GetShelf(ctx context.Context, userID string) (dto.ShelfOutput, error) {
	shelf, repaired, err := i.svc.GetShelf(ctx, userID)
	if err != nil {
		return dto.ShelfOutput{}, err
	}
	return i.toOutput(shelf, repaired), nil
}

func (i *Interactor) OnSessionStarted(ctx context.Context, ev dto.SessionStarted) error {
	return i.svc.OnSessionStarted(ctx, ev)
}

func (i *Interactor) OnSessionCompleted(ctx context.Context, ev dto.SessionCompleted) error {
	return i.svc.OnSessionCompleted(ctx, ev)
}

func (i *Interactor) OnActivity(ctx context.Context, ev dto.SessionActivity) error {
	return i.svc.OnActivity(ctx, ev)
}

func (i *Interactor) OnUserPurged(ctx context.Context, userID string) error {
	return i.svc.OnUserPurged(ctx, userID)
}

func (i *Interactor) toOutput(shelf domain.UserShelf, repaired bool) dto.ShelfOutput {
	out := dto.ShelfOutput{
		UserID:           shelf.UserID,
		BooksRead:        shelf.Stats.BooksRead,
		PagesRead:        shelf.Stats.PagesRead,
		TotalReadingTime: shelf.Stats.TotalReadingTime,
		CurrentStreak:    shelf.Stats.Streak.Observed(domain.Day(i.clock.Now(), i.loc)),
		LongestStreak:    shelf.Stats.Streak.Longest,
		LastReadingDate:  shelf.Stats.Streak.LastDay,
		Repaired:         repaired,
	}
	for _, ref := range shelf.CurrentlyReading {
		out.CurrentlyReading = append(out.CurrentlyReading, dto.BookRefOutput{BookID: ref.BookID, AddedAt: ref.AddedAt})
	}
	for _, fb := range shelf.FinishedBooks {
		out.FinishedBooks = append(out.FinishedBooks, dto.FinishedBookOutput{
			BookID:      fb.BookID,
			FinishedAt:  fb.FinishedAt,
			Rating:      fb.Rating,
			PagesRead:   fb.PagesRead,
			ReadingTime: fb.ReadingTime,
		})
	}
	return out
}
