package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "shelfmark/internal/platform/errors"
)

func intPtr(v int) *int { return &v }

func TestProgressInputValidate(t *testing.T) {
	t.Parallel()
	if err := (ProgressInput{CurrentPage: intPtr(10)}).Validate(); err != nil {
		t.Fatalf("current page only: %v", err)
	}
	if err := (ProgressInput{ReadingTime: 60}).Validate(); err != nil {
		t.Fatalf("reading time only: %v", err)
	}
	cases := []ProgressInput{
		{},
		{CurrentPage: intPtr(10), PagesDelta: intPtr(5)},
		{CurrentPage: intPtr(-1)},
		{PagesDelta: intPtr(-5)},
		{ReadingTime: -1},
	}
	for i, in := range cases {
		if !errors.Is(in.Validate(), apperrors.ErrInvalidInput) {
			t.Fatalf("case %d must be rejected", i)
		}
	}
}

func TestPercentClampsAndHandlesUnknownPageCount(t *testing.T) {
	t.Parallel()
	if got := Percent(50, 200); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}
	if got := Percent(1, 3); got != 33 {
		t.Fatalf("expected rounding to 33, got %d", got)
	}
	if got := Percent(2, 3); got != 67 {
		t.Fatalf("expected rounding to 67, got %d", got)
	}
	if got := Percent(500, 200); got != 100 {
		t.Fatalf("expected clamp to 100, got %d", got)
	}
	if got := Percent(50, 0); got != 0 {
		t.Fatalf("unknown page count must report 0, got %d", got)
	}
}

func TestSpeedPagesPerHour(t *testing.T) {
	t.Parallel()
	if got := Speed(30, 1800); got != 60 {
		t.Fatalf("expected 60 pages/hour, got %v", got)
	}
	if got := Speed(30, 0); got != 0 {
		t.Fatalf("zero time must report 0, got %v", got)
	}
}

func TestApplyProgressAbsolutePosition(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := Session{Status: StatusActive, StartPage: 0, CurrentPage: 20, PagesRead: 20}
	change := s.ApplyProgress(ProgressInput{CurrentPage: intPtr(50), ReadingTime: 1800}, 200, now)
	if change.TargetPage != 50 || change.PagesReadDelta != 30 || change.ReadingTimeDelta != 1800 {
		t.Fatalf("unexpected change: %+v", change)
	}
	if s.Progress != 25 {
		t.Fatalf("expected progress 25, got %d", s.Progress)
	}
	if s.PagesRead != 50 || s.TotalReadingTime != 1800 {
		t.Fatalf("accumulators wrong: pages=%d time=%d", s.PagesRead, s.TotalReadingTime)
	}
	if s.ReadingSpeed != 100 {
		t.Fatalf("expected 100 pages/hour, got %v", s.ReadingSpeed)
	}
	if !s.LastReadAt.Equal(now) {
		t.Fatalf("last read at not updated")
	}
}

func TestApplyProgressDeltaAndClamp(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := Session{Status: StatusActive, CurrentPage: 190, PagesRead: 190}
	change := s.ApplyProgress(ProgressInput{PagesDelta: intPtr(30)}, 200, now)
	if change.TargetPage != 200 {
		t.Fatalf("expected clamp to page count, got %d", change.TargetPage)
	}
	if change.PagesReadDelta != 10 {
		t.Fatalf("expected delta capped at 10, got %d", change.PagesReadDelta)
	}
	if !change.AutoComplete {
		t.Fatalf("expected auto-complete at 100%%")
	}
}

func TestApplyProgressBackwardNeverReducesPagesRead(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := Session{Status: StatusActive, CurrentPage: 80, PagesRead: 80}
	change := s.ApplyProgress(ProgressInput{CurrentPage: intPtr(40)}, 200, now)
	if s.CurrentPage != 40 {
		t.Fatalf("position must move backward, got %d", s.CurrentPage)
	}
	if change.PagesReadDelta != 0 || s.PagesRead != 80 {
		t.Fatalf("pages read must not shrink: delta=%d total=%d", change.PagesReadDelta, s.PagesRead)
	}
}

func TestApplyProgressAutoCompleteAtThreshold(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := Session{Status: StatusActive, CurrentPage: 100}
	change := s.ApplyProgress(ProgressInput{CurrentPage: intPtr(190)}, 200, now)
	if !change.AutoComplete {
		t.Fatalf("95%% must auto-complete")
	}
	s2 := Session{Status: StatusActive, CurrentPage: 100}
	change2 := s2.ApplyProgress(ProgressInput{CurrentPage: intPtr(188)}, 200, now)
	if change2.AutoComplete {
		t.Fatalf("94%% must not auto-complete")
	}
}

func TestApplyProgressAddsNote(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := Session{Status: StatusActive}
	s.ApplyProgress(ProgressInput{CurrentPage: intPtr(12), Note: "great chapter"}, 200, now)
	if len(s.Notes) != 1 || s.Notes[0].Page != 12 || s.Notes[0].Text != "great chapter" {
		t.Fatalf("expected note anchored at target page, got %+v", s.Notes)
	}
}

func TestFinishForcesOutcome(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)
	s := Session{Status: StatusActive, CurrentPage: 120, PagesRead: 120, TotalReadingTime: 7200}
	s.Finish(200, 4, "solid read", now)
	if s.Status != StatusCompleted || s.Progress != 100 {
		t.Fatalf("expected completed at 100, got %s %d", s.Status, s.Progress)
	}
	if s.CurrentPage != 200 {
		t.Fatalf("expected position forced to last page, got %d", s.CurrentPage)
	}
	if s.PagesRead != 200 {
		t.Fatalf("expected final jump absorbed into pages read, got %d", s.PagesRead)
	}
	if s.FinalRating != 4 || s.FinalReview != "solid read" {
		t.Fatalf("outcome not recorded: %d %q", s.FinalRating, s.FinalReview)
	}
	if !s.EndTime.Equal(now) {
		t.Fatalf("end time not set")
	}
}

func TestFinishWithUnknownPageCountKeepsPosition(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)
	s := Session{Status: StatusActive, CurrentPage: 120, PagesRead: 120}
	s.Finish(0, 0, "", now)
	if s.CurrentPage != 120 || s.PagesRead != 120 {
		t.Fatalf("unknown page count must not move position: page=%d read=%d", s.CurrentPage, s.PagesRead)
	}
	if s.Progress != 100 {
		t.Fatalf("progress must still be forced to 100, got %d", s.Progress)
	}
}
