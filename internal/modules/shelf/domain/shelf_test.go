package domain

import (
	"testing"
	"time"
)

func TestStartReadingIsIdempotent(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	shelf := NewUserShelf("u1")
	if !shelf.StartReading("b1", now) {
		t.Fatalf("first start must add the book")
	}
	if shelf.StartReading("b1", now.Add(time.Hour)) {
		t.Fatalf("replayed start must be a no-op")
	}
	if len(shelf.CurrentlyReading) != 1 {
		t.Fatalf("expected one entry, got %d", len(shelf.CurrentlyReading))
	}
}

func TestFinishReadingMovesBookAndAdvancesCounters(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	shelf := NewUserShelf("u1")
	shelf.StartReading("b1", now.Add(-time.Hour))
	fb := FinishedBook{BookID: "b1", FinishedAt: now, Rating: 5, PagesRead: 320, ReadingTime: 14400}
	if !shelf.FinishReading(fb, "2026-03-01", now) {
		t.Fatalf("first completion must count")
	}
	if shelf.IsReading("b1") {
		t.Fatalf("finished book must leave currently-reading")
	}
	if !shelf.HasFinished("b1") {
		t.Fatalf("finished book must join the finished list")
	}
	if shelf.Stats.BooksRead != 1 || shelf.Stats.PagesRead != 320 || shelf.Stats.TotalReadingTime != 14400 {
		t.Fatalf("counters wrong: %+v", shelf.Stats)
	}
	if shelf.Stats.Streak.Current != 1 || shelf.Stats.Streak.LastDay != "2026-03-01" {
		t.Fatalf("streak not advanced: %+v", shelf.Stats.Streak)
	}
}

func TestFinishReadingReplayNeverDoubleCounts(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	shelf := NewUserShelf("u1")
	fb := FinishedBook{BookID: "b1", FinishedAt: now, PagesRead: 100, ReadingTime: 3600}
	shelf.FinishReading(fb, "2026-03-01", now)

	// Replay after the book drifted back onto the reading list.
	shelf.StartReading("b1", now.Add(time.Minute))
	if shelf.FinishReading(fb, "2026-03-02", now.Add(time.Hour)) {
		t.Fatalf("replayed completion must not count")
	}
	if shelf.IsReading("b1") {
		t.Fatalf("replay must still clear the reading entry")
	}
	if shelf.Stats.BooksRead != 1 || shelf.Stats.PagesRead != 100 {
		t.Fatalf("counters double counted: %+v", shelf.Stats)
	}
	if len(shelf.FinishedBooks) != 1 {
		t.Fatalf("finished list duplicated: %d", len(shelf.FinishedBooks))
	}
}

func TestRecordActivityTouchesUpdatedAtOnlyOnChange(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	shelf := NewUserShelf("u1")
	if !shelf.RecordActivity("2026-03-01", now) {
		t.Fatalf("first activity must change the streak")
	}
	later := now.Add(2 * time.Hour)
	if shelf.RecordActivity("2026-03-01", later) {
		t.Fatalf("same-day activity must be a no-op")
	}
	if !shelf.UpdatedAt.Equal(now) {
		t.Fatalf("no-op must not touch UpdatedAt: %v", shelf.UpdatedAt)
	}
}
