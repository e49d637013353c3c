package service

import (
	"context"
	"fmt"
	"time"

	"shelfmark/internal/modules/stats/domain"
	"shelfmark/internal/modules/stats/port/out"
	"shelfmark/internal/platform/clock"
	apperrors "shelfmark/internal/platform/errors"
	"shelfmark/internal/platform/logger"
)

// StatsService computes reading statistics on demand. The read path is
// retried once; if it still fails the service falls back to the last
// cached computation and marks the result stale.
type StatsService struct {
	clock  clock.Clock
	loc    *time.Location
	goals  domain.Goals
	source out.ReadSource
	cache  out.Cache
	log    *logger.Logger
}

func NewStatsService(c clock.Clock, loc *time.Location, goals domain.Goals, source out.ReadSource, cache out.Cache, log *logger.Logger) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{clock: c, loc: loc, goals: goals, source: source, cache: cache, log: log}
}

// Compute returns fresh statistics, or the last good ones with stale=true
// when the source keeps failing. ErrStatsUnavailable means the source
// failed and no earlier computation exists either.
func (s *StatsService) Compute(ctx context.Context, userID string) (domain.Stats, time.Time, bool, error) {
	reads, err := s.source.CompletedReads(ctx, userID)
	if err != nil {
		s.log.Debug("stats read failed, retrying", "user", userID, "err", err)
		reads, err = s.source.CompletedReads(ctx, userID)
	}
	if err != nil {
		cached, computedAt, ok, cerr := s.cache.Load(ctx, userID)
		if cerr != nil || !ok {
			return domain.Stats{}, time.Time{}, false, fmt.Errorf("%w: %v", apperrors.ErrStatsUnavailable, err)
		}
		s.log.Warn("serving stale statistics", "user", userID, "computed_at", computedAt, "err", err)
		return cached, computedAt, true, nil
	}

	now := s.clock.Now()
	stats := domain.Compute(reads, s.goals, now, s.loc)
	if err := s.cache.Save(ctx, userID, stats, now); err != nil {
		s.log.Warn("stats cache write failed", "user", userID, "err", err)
	}
	return stats, now, false, nil
}
