package out_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	shelfout "shelfmark/internal/modules/shelf/adapter/out"
	"shelfmark/internal/modules/shelf/domain"
	outport "shelfmark/internal/modules/shelf/port/out"
)

func openShelfStore(t *testing.T) outport.ShelfStore {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "shelfmark.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	store, err := shelfout.NewSQLiteShelfStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestLoadUnknownUserReturnsFreshShelf(t *testing.T) {
	t.Parallel()
	store := openShelfStore(t)
	shelf, err := store.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if shelf.UserID != "nobody" {
		t.Fatalf("expected fresh shelf for the user, got %q", shelf.UserID)
	}
	if len(shelf.CurrentlyReading) != 0 || len(shelf.FinishedBooks) != 0 || shelf.Stats.BooksRead != 0 {
		t.Fatalf("fresh shelf must be empty: %+v", shelf)
	}
}

func TestShelfRoundTrip(t *testing.T) {
	t.Parallel()
	store := openShelfStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)

	shelf := domain.NewUserShelf("u1")
	shelf.StartReading("b1", now.Add(-2*time.Hour))
	shelf.StartReading("b2", now.Add(-time.Hour))
	shelf.FinishReading(domain.FinishedBook{
		BookID: "b3", FinishedAt: now, Rating: 5, PagesRead: 320, ReadingTime: 14400,
	}, "2026-03-01", now)

	if err := store.Save(ctx, shelf); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.CurrentlyReading) != 2 || got.CurrentlyReading[0].BookID != "b1" {
		t.Fatalf("reading list wrong: %+v", got.CurrentlyReading)
	}
	if len(got.FinishedBooks) != 1 || got.FinishedBooks[0].Rating != 5 {
		t.Fatalf("finished list wrong: %+v", got.FinishedBooks)
	}
	if got.Stats.BooksRead != 1 || got.Stats.PagesRead != 320 || got.Stats.TotalReadingTime != 14400 {
		t.Fatalf("counters wrong: %+v", got.Stats)
	}
	if got.Stats.Streak.Current != 1 || got.Stats.Streak.LastDay != "2026-03-01" {
		t.Fatalf("streak wrong: %+v", got.Stats.Streak)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("updated at wrong: %v", got.UpdatedAt)
	}
}

func TestSaveReplacesMembership(t *testing.T) {
	t.Parallel()
	store := openShelfStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	shelf := domain.NewUserShelf("u1")
	shelf.StartReading("b1", now)
	if err := store.Save(ctx, shelf); err != nil {
		t.Fatalf("first save: %v", err)
	}

	shelf.RemoveReading("b1", now.Add(time.Hour))
	shelf.StartReading("b2", now.Add(time.Hour))
	if err := store.Save(ctx, shelf); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.CurrentlyReading) != 1 || got.CurrentlyReading[0].BookID != "b2" {
		t.Fatalf("membership must be replaced wholesale: %+v", got.CurrentlyReading)
	}
}
