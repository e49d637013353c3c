package out_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	sessionadapter "shelfmark/internal/modules/session/adapter/out"
	sessiondomain "shelfmark/internal/modules/session/domain"
	shelfadapter "shelfmark/internal/modules/shelf/adapter/out"
)

func openSessionStore(t *testing.T) *sessionadapter.SQLiteSessionStore {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	store, err := sessionadapter.NewSQLiteSessionStore(db)
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	return store
}

func seedSession(t *testing.T, store *sessionadapter.SQLiteSessionStore, id, bookID string, final sessiondomain.Status, endTime time.Time) {
	t.Helper()
	ctx := context.Background()
	s := sessiondomain.Session{
		ID:         id,
		UserID:     "u1",
		BookID:     bookID,
		Status:     sessiondomain.StatusActive,
		StartTime:  endTime.Add(-2 * time.Hour),
		LastReadAt: endTime,
	}
	if _, _, err := store.CreateActive(ctx, s); err != nil {
		t.Fatalf("create %s: %v", id, err)
	}
	if final == sessiondomain.StatusActive {
		return
	}
	s.Status = final
	s.EndTime = endTime
	if final == sessiondomain.StatusCompleted {
		s.FinalRating = 4
		s.PagesRead = 200
		s.TotalReadingTime = 7200
	}
	if err := store.Update(ctx, s); err != nil {
		t.Fatalf("update %s: %v", id, err)
	}
}

func TestSessionStatusAdapterSeparatesLiveAndCompleted(t *testing.T) {
	t.Parallel()
	store := openSessionStore(t)
	end := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	seedSession(t, store, "s1", "live", sessiondomain.StatusActive, end)
	seedSession(t, store, "s2", "done", sessiondomain.StatusCompleted, end)
	seedSession(t, store, "s3", "quit", sessiondomain.StatusAbandoned, end)

	adapter := shelfadapter.NewSessionStatusAdapter(store)
	live, err := adapter.ActiveBookIDs(context.Background(), "u1")
	if err != nil {
		t.Fatalf("active book ids: %v", err)
	}
	if len(live) != 1 || live[0] != "live" {
		t.Fatalf("expected only the live book, got %v", live)
	}

	books, err := adapter.CompletedBooks(context.Background(), "u1")
	if err != nil {
		t.Fatalf("completed books: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("expected one completed book, got %v", books)
	}
	fb := books[0]
	if fb.BookID != "done" || fb.Rating != 4 || fb.PagesRead != 200 || fb.ReadingTime != 7200 {
		t.Fatalf("final deltas lost: %+v", fb)
	}
	if !fb.FinishedAt.Equal(end) {
		t.Fatalf("finished at wrong: %v", fb.FinishedAt)
	}
}
