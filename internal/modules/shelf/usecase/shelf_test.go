package usecase_test

import (
	"context"
	"testing"
	"time"

	"shelfmark/internal/modules/shelf/domain"
	"shelfmark/internal/modules/shelf/dto"
	"shelfmark/internal/modules/shelf/usecase"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

type stubService struct {
	shelf    domain.UserShelf
	repaired bool
}

func (s *stubService) GetShelf(context.Context, string) (domain.UserShelf, bool, error) {
	return s.shelf, s.repaired, nil
}
func (s *stubService) OnSessionStarted(context.Context, dto.SessionStarted) error { return nil }
func (s *stubService) OnSessionCompleted(context.Context, dto.SessionCompleted) error {
	return nil
}
func (s *stubService) OnActivity(context.Context, dto.SessionActivity) error { return nil }
func (s *stubService) OnUserPurged(context.Context, string) error { return nil }

func TestGetShelfReportsObservedStreak(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	shelf := domain.NewUserShelf("u1")
	shelf.Stats.Streak = domain.Streak{Current: 4, Longest: 9, LastDay: "2026-03-05"}

	uc := usecase.NewInteractor(&stubService{shelf: shelf, repaired: true}, fixedClock{now}, time.UTC)
	out, err := uc.GetShelf(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get shelf: %v", err)
	}
	if out.CurrentStreak != 4 {
		t.Fatalf("yesterday's streak still counts: got %d", out.CurrentStreak)
	}
	if out.LongestStreak != 9 || out.LastReadingDate != "2026-03-05" {
		t.Fatalf("streak fields wrong: %+v", out)
	}
	if !out.Repaired {
		t.Fatalf("repair flag lost")
	}
}

func TestGetShelfBrokenStreakReadsZero(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	shelf := domain.NewUserShelf("u1")
	shelf.Stats.Streak = domain.Streak{Current: 4, Longest: 9, LastDay: "2026-03-05"}

	uc := usecase.NewInteractor(&stubService{shelf: shelf}, fixedClock{now}, time.UTC)
	out, err := uc.GetShelf(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get shelf: %v", err)
	}
	if out.CurrentStreak != 0 {
		t.Fatalf("stale streak must read zero: got %d", out.CurrentStreak)
	}
	if out.LongestStreak != 9 {
		t.Fatalf("longest must survive: %d", out.LongestStreak)
	}
}
