package out_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	sessionout "shelfmark/internal/modules/session/adapter/out"
	"shelfmark/internal/modules/session/domain"
	outport "shelfmark/internal/modules/session/port/out"
	apperrors "shelfmark/internal/platform/errors"
)

func openStore(t *testing.T) *sessionout.SQLiteSessionStore {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "shelfmark.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	store, err := sessionout.NewSQLiteSessionStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func activeSession(id, userID, bookID string) domain.Session {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.Session{
		ID:           id,
		UserID:       userID,
		BookID:       bookID,
		Status:       domain.StatusActive,
		StartTime:    start,
		LastReadAt:   start,
		SessionCount: 1,
	}
}

func TestCreateActiveSecondStartReturnsWinner(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	first, created, err := store.CreateActive(ctx, activeSession("s1", "u1", "b1"))
	if err != nil || !created {
		t.Fatalf("first create: created=%v err=%v", created, err)
	}
	winner, created, err := store.CreateActive(ctx, activeSession("s2", "u1", "b1"))
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if created {
		t.Fatalf("second start must lose the active slot")
	}
	if winner.ID != first.ID {
		t.Fatalf("loser must converge on the winner, got %s", winner.ID)
	}
}

func TestCreateActiveConcurrentStartsConvergeOnOneSession(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	type outcome struct {
		session domain.Session
		created bool
		err     error
	}
	results := make(chan outcome, 2)
	for _, id := range []string{"s1", "s2"} {
		go func(id string) {
			s, created, err := store.CreateActive(ctx, activeSession(id, "u1", "b1"))
			results <- outcome{s, created, err}
		}(id)
	}
	a, b := <-results, <-results
	if a.err != nil || b.err != nil {
		t.Fatalf("concurrent create: %v %v", a.err, b.err)
	}
	if a.created == b.created {
		t.Fatalf("exactly one start must win, got created=%v and created=%v", a.created, b.created)
	}
	if a.session.ID != b.session.ID {
		t.Fatalf("both starts must converge on one session, got %s and %s", a.session.ID, b.session.ID)
	}
}

func TestCreateActiveAllowsDifferentBooksAndUsers(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	for _, s := range []domain.Session{
		activeSession("s1", "u1", "b1"),
		activeSession("s2", "u1", "b2"),
		activeSession("s3", "u2", "b1"),
	} {
		if _, created, err := store.CreateActive(ctx, s); err != nil || !created {
			t.Fatalf("create %s: created=%v err=%v", s.ID, created, err)
		}
	}
}

func TestActiveSlotFreesAfterTerminalUpdate(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	first, _, err := store.CreateActive(ctx, activeSession("s1", "u1", "b1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	first.Status = domain.StatusAbandoned
	first.EndTime = time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	if err := store.Update(ctx, first); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if _, created, err := store.CreateActive(ctx, activeSession("s2", "u1", "b1")); err != nil || !created {
		t.Fatalf("restart after abandon: created=%v err=%v", created, err)
	}
}

func TestApplyProgressAccumulatesDeltas(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	session, _, err := store.CreateActive(ctx, activeSession("s1", "u1", "b1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	session.LastReadAt = session.StartTime.Add(30 * time.Minute)
	stored, err := store.ApplyProgress(ctx, session.ID, domain.ProgressChange{
		TargetPage: 30, Progress: 15, PagesReadDelta: 30, ReadingTimeDelta: 1800,
	}, session)
	if err != nil {
		t.Fatalf("first progress: %v", err)
	}
	if stored.PagesRead != 30 || stored.TotalReadingTime != 1800 {
		t.Fatalf("first accumulators: %+v", stored)
	}

	stored, err = store.ApplyProgress(ctx, session.ID, domain.ProgressChange{
		TargetPage: 50, Progress: 25, PagesReadDelta: 20, ReadingTimeDelta: 1800,
	}, session)
	if err != nil {
		t.Fatalf("second progress: %v", err)
	}
	if stored.PagesRead != 50 || stored.TotalReadingTime != 3600 {
		t.Fatalf("deltas must add, not overwrite: %+v", stored)
	}
	if stored.CurrentPage != 50 || stored.Progress != 25 {
		t.Fatalf("position is last-write-wins: %+v", stored)
	}
	if stored.ReadingSpeed != 50 {
		t.Fatalf("expected 50 pages/hour from post-delta values, got %v", stored.ReadingSpeed)
	}
}

func TestApplyProgressPersistsStatusUpgrade(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	session := activeSession("s1", "u1", "b1")
	session.Status = domain.StatusViewed
	if _, _, err := store.CreateActive(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}

	session.Status = domain.StatusActive
	stored, err := store.ApplyProgress(ctx, session.ID, domain.ProgressChange{
		TargetPage: 10, Progress: 5, PagesReadDelta: 10, ReadingTimeDelta: 600,
	}, session)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if stored.Status != domain.StatusActive {
		t.Fatalf("upgrade must survive the write, got %s", stored.Status)
	}
	if _, err := store.FindActive(ctx, "u1", "b1"); err != nil {
		t.Fatalf("upgraded session must be findable as active: %v", err)
	}
}

func TestRecordsSurviveRoundTrip(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	session := activeSession("s1", "u1", "b1")
	session.AddNote(10, "remember this", now)
	session.AddHighlight(11, "a fine quote", "blue", "", now)
	session.SetBookmark(12, "stopped here", now)
	if _, _, err := store.CreateActive(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.FindByID(ctx, "s1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.Notes) != 1 || got.Notes[0].Text != "remember this" {
		t.Fatalf("notes lost: %+v", got.Notes)
	}
	if len(got.Highlights) != 1 || got.Highlights[0].Quote != "a fine quote" || got.Highlights[0].Color != "blue" {
		t.Fatalf("highlights lost: %+v", got.Highlights)
	}
	if len(got.Bookmarks) != 1 || got.Bookmarks[0].Page != 12 {
		t.Fatalf("bookmarks lost: %+v", got.Bookmarks)
	}
}

func TestHasCompletedAndLists(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	done := activeSession("s1", "u1", "b1")
	if _, _, err := store.CreateActive(ctx, done); err != nil {
		t.Fatalf("create: %v", err)
	}
	done.Status = domain.StatusCompleted
	done.EndTime = done.StartTime.Add(2 * time.Hour)
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("complete: %v", err)
	}
	current := activeSession("s2", "u1", "b2")
	current.StartTime = done.StartTime.Add(time.Hour)
	if _, _, err := store.CreateActive(ctx, current); err != nil {
		t.Fatalf("create current: %v", err)
	}

	completed, err := store.HasCompleted(ctx, "u1", "b1")
	if err != nil || !completed {
		t.Fatalf("has completed: %v %v", completed, err)
	}
	if completed, _ := store.HasCompleted(ctx, "u1", "b2"); completed {
		t.Fatalf("b2 must not be completed")
	}

	live, err := store.ListCurrent(ctx, "u1")
	if err != nil {
		t.Fatalf("list current: %v", err)
	}
	if len(live) != 1 || live[0].ID != "s2" {
		t.Fatalf("expected only the live session: %+v", live)
	}

	finished, err := store.ListCompleted(ctx, "u1")
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(finished) != 1 || finished[0].ID != "s1" {
		t.Fatalf("expected only the completed session: %+v", finished)
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"s1", "s2", "s3"} {
		s := activeSession(id, "u1", "b"+id)
		s.StartTime = base.Add(time.Duration(i) * time.Hour)
		if _, _, err := store.CreateActive(ctx, s); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	newest, err := store.List(ctx, "u1", outport.ListFilter{}, 0, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(newest) != 2 || newest[0].ID != "s3" {
		t.Fatalf("expected newest first: %+v", newest)
	}
	rest, err := store.List(ctx, "u1", outport.ListFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != "s1" {
		t.Fatalf("expected the oldest on page 2: %+v", rest)
	}
	byBook, err := store.List(ctx, "u1", outport.ListFilter{BookID: "bs2"}, 0, 10)
	if err != nil {
		t.Fatalf("list by book: %v", err)
	}
	if len(byBook) != 1 || byBook[0].ID != "s2" {
		t.Fatalf("book filter wrong: %+v", byBook)
	}
}

func TestFindByIDMissing(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	if _, err := store.FindByID(context.Background(), "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteByUserRemovesEverything(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	if _, _, err := store.CreateActive(ctx, activeSession("s1", "u1", "b1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := store.CreateActive(ctx, activeSession("s2", "u2", "b1")); err != nil {
		t.Fatalf("create other user: %v", err)
	}
	if err := store.DeleteByUser(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.FindByID(ctx, "s1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("u1 sessions must be gone, got %v", err)
	}
	if _, err := store.FindByID(ctx, "s2"); err != nil {
		t.Fatalf("other users must be untouched: %v", err)
	}
}
