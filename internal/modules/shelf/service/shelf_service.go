package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shelfmark/internal/modules/shelf/domain"
	"shelfmark/internal/modules/shelf/dto"
	"shelfmark/internal/modules/shelf/port/out"
	"shelfmark/internal/platform/clock"
	apperrors "shelfmark/internal/platform/errors"
	"shelfmark/internal/platform/logger"
	"shelfmark/internal/platform/tx"
)

// ShelfService keeps the per-user shelf aggregate in step with session
// events. Event handling is fire-and-confirm: the session side does not
// share a transaction with the shelf, so every read runs repair first.
type ShelfService struct {
	clock    clock.Clock
	loc      *time.Location
	store    out.ShelfStore
	sessions out.SessionStatusSource
	txm      tx.Manager
	log      *logger.Logger
}

func NewShelfService(c clock.Clock, loc *time.Location, store out.ShelfStore, sessions out.SessionStatusSource, txm tx.Manager, log *logger.Logger) *ShelfService {
	if loc == nil {
		loc = time.UTC
	}
	return &ShelfService{clock: c, loc: loc, store: store, sessions: sessions, txm: txm, log: log}
}

func (s *ShelfService) OnSessionStarted(ctx context.Context, ev dto.SessionStarted) error {
	if ev.UserID == "" || ev.BookID == "" {
		return fmt.Errorf("%w: session started event missing ids", apperrors.ErrInvalidInput)
	}
	return s.txm.Within(ctx, func(ctx context.Context) error {
		shelf, err := s.store.Load(ctx, ev.UserID)
		if err != nil {
			return err
		}
		if !shelf.StartReading(ev.BookID, ev.At) {
			return nil
		}
		return s.store.Save(ctx, shelf)
	})
}

func (s *ShelfService) OnSessionCompleted(ctx context.Context, ev dto.SessionCompleted) error {
	if ev.UserID == "" || ev.BookID == "" {
		return fmt.Errorf("%w: session completed event missing ids", apperrors.ErrInvalidInput)
	}
	return s.txm.Within(ctx, func(ctx context.Context) error {
		shelf, err := s.store.Load(ctx, ev.UserID)
		if err != nil {
			return err
		}
		fb := domain.FinishedBook{
			BookID:      ev.BookID,
			FinishedAt:  ev.At,
			Rating:      ev.Rating,
			PagesRead:   ev.PagesRead,
			ReadingTime: ev.ReadingTime,
		}
		counted := shelf.FinishReading(fb, domain.Day(ev.At, s.loc), ev.At)
		if !counted {
			s.log.Debug("completion replay ignored", "user", ev.UserID, "book", ev.BookID)
		}
		return s.store.Save(ctx, shelf)
	})
}

func (s *ShelfService) OnActivity(ctx context.Context, ev dto.SessionActivity) error {
	if ev.UserID == "" {
		return fmt.Errorf("%w: activity event missing user", apperrors.ErrInvalidInput)
	}
	return s.txm.Within(ctx, func(ctx context.Context) error {
		shelf, err := s.store.Load(ctx, ev.UserID)
		if err != nil {
			return err
		}
		if !shelf.RecordActivity(domain.Day(ev.At, s.loc), ev.At) {
			return nil
		}
		return s.store.Save(ctx, shelf)
	})
}

// OnUserPurged resets the shelf to an empty aggregate as part of whole
// account deletion. Unlike repair this clears the counters too.
func (s *ShelfService) OnUserPurged(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	return s.txm.Within(ctx, func(ctx context.Context) error {
		return s.store.Save(ctx, domain.NewUserShelf(userID))
	})
}

// GetShelf repairs membership against authoritative session status and
// returns the aggregate. Repairs are logged, never surfaced as errors.
func (s *ShelfService) GetShelf(ctx context.Context, userID string) (domain.UserShelf, bool, error) {
	var shelf domain.UserShelf
	var repaired bool
	err := s.txm.Within(ctx, func(ctx context.Context) error {
		loaded, err := s.store.Load(ctx, userID)
		if err != nil {
			return err
		}
		fixes, err := s.repair(ctx, &loaded)
		if err != nil {
			return err
		}
		if len(fixes) > 0 {
			if err := s.store.Save(ctx, loaded); err != nil {
				return err
			}
			s.log.Warn("ConsistencyRepair", "user", userID, "fixes", strings.Join(fixes, "; "))
			repaired = true
		}
		shelf = loaded
		return nil
	})
	if err != nil {
		return domain.UserShelf{}, false, err
	}
	return shelf, repaired, nil
}

// repair reconciles shelf membership with session status: live sessions
// missing from the shelf are added, completed sessions whose event never
// landed are replayed through FinishReading, and reading entries whose
// session is gone or abandoned are dropped. Counters only move for a
// reconstructed completion, by that session's own final deltas.
func (s *ShelfService) repair(ctx context.Context, shelf *domain.UserShelf) ([]string, error) {
	live, err := s.sessions.ActiveBookIDs(ctx, shelf.UserID)
	if err != nil {
		return nil, err
	}
	completed, err := s.sessions.CompletedBooks(ctx, shelf.UserID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	liveSet := make(map[string]bool, len(live))
	var fixes []string
	for _, id := range live {
		liveSet[id] = true
		if shelf.StartReading(id, now) {
			fixes = append(fixes, "added "+id)
		}
	}
	for _, fb := range completed {
		if shelf.HasFinished(fb.BookID) {
			continue
		}
		shelf.FinishReading(fb, domain.Day(fb.FinishedAt, s.loc), now)
		fixes = append(fixes, "finished "+fb.BookID)
	}
	for _, ref := range append([]domain.BookRef(nil), shelf.CurrentlyReading...) {
		if !liveSet[ref.BookID] {
			shelf.RemoveReading(ref.BookID, now)
			fixes = append(fixes, "removed "+ref.BookID)
		}
	}
	return fixes, nil
}
