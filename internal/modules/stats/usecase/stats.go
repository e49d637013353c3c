package usecase

import (
	"context"
	"time"

	"shelfmark/internal/modules/stats/domain"
	"shelfmark/internal/modules/stats/dto"
	"shelfmark/internal/modules/stats/port/in"
)

type StatsService interface {
	Compute(ctx context.Context, userID string) (domain.Stats, time.Time, bool, error)
}

type Interactor struct {
	svc StatsService
}

var _ in.Usecase = (*Interactor)(nil)

func NewInteractor(svc StatsService) *Interactor {
	return &Interactor{svc: svc}
}

func (i *Interactor) GetStats(ctx context.Context, userID string) (dto.StatsOutput, error) {
	stats, computedAt, stale, err := i.svc.Compute(ctx, userID)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	out := dto.StatsOutput{
		UserID:           userID,
		BooksCompleted:   stats.BooksCompleted,
		PagesRead:        stats.PagesRead,
		TotalReadingTime: stats.TotalReadingTime,
		AverageRating:    stats.AverageRating,
		YearlyBooks:      goalOutput(stats.YearlyBooks),
		YearlyPages:      goalOutput(stats.YearlyPages),
		MonthlyBooks:     goalOutput(stats.MonthlyBooks),
		MonthlyPages:     goalOutput(stats.MonthlyPages),
		Stale:            stale,
		ComputedAt:       computedAt,
	}
	for _, g := range stats.TopGenres {
		out.TopGenres = append(out.TopGenres, dto.RankedNameOutput{Name: g.Name, Count: g.Count})
	}
	for _, a := range stats.TopAuthors {
		out.TopAuthors = append(out.TopAuthors, dto.RankedNameOutput{Name: a.Name, Count: a.Count})
	}
	return out, nil
}

func goalOutput(gp domain.GoalProgress) dto.GoalOutput {
	return dto.GoalOutput{Target: gp.Target, Achieved: gp.Achieved, Percent: gp.Percent}
}
