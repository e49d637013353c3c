package out_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	statsout "shelfmark/internal/modules/stats/adapter/out"
	"shelfmark/internal/modules/stats/domain"
)

func openCache(t *testing.T) *statsout.SQLiteStatsCache {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "shelfmark.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	cache, err := statsout.NewSQLiteStatsCache(db)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	return cache
}

func TestCacheMissReportsNotOK(t *testing.T) {
	t.Parallel()
	cache := openCache(t)
	_, _, ok, err := cache.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("miss must report ok=false")
	}
}

func TestCacheRoundTripAndOverwrite(t *testing.T) {
	t.Parallel()
	cache := openCache(t)
	ctx := context.Background()
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	stats := domain.Stats{
		BooksCompleted: 3,
		PagesRead:      900,
		AverageRating:  4.3,
		TopGenres:      []domain.RankedName{{Name: "fantasy", Count: 2}},
	}
	if err := cache.Save(ctx, "u1", stats, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, at, ok, err := cache.Load(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.BooksCompleted != 3 || got.AverageRating != 4.3 {
		t.Fatalf("stats lost in round trip: %+v", got)
	}
	if len(got.TopGenres) != 1 || got.TopGenres[0].Name != "fantasy" {
		t.Fatalf("rankings lost: %+v", got.TopGenres)
	}
	if !at.Equal(first) {
		t.Fatalf("computed at wrong: %v", at)
	}

	second := first.Add(time.Hour)
	stats.BooksCompleted = 4
	if err := cache.Save(ctx, "u1", stats, second); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, at, _, err = cache.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.BooksCompleted != 4 || !at.Equal(second) {
		t.Fatalf("overwrite lost: %+v at %v", got, at)
	}
}
