package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shelfmark/internal/modules/stats/domain"
	statsout "shelfmark/internal/modules/stats/port/out"
	"shelfmark/internal/platform/tx"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStatsCache stores the last good computation per user as one JSON
// row. It only serves degraded reads, so a lost row costs nothing.
type SQLiteStatsCache struct {
	db *sql.DB
}

var _ statsout.Cache = (*SQLiteStatsCache)(nil)

func NewSQLiteStatsCache(db *sql.DB) (*SQLiteStatsCache, error) {
	cache := &SQLiteStatsCache{db: db}
	if err := cache.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return cache, nil
}

func (c *SQLiteStatsCache) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS stats_cache (
  user_id TEXT PRIMARY KEY,
  stats TEXT NOT NULL,
  computed_at TEXT NOT NULL
);
`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create stats cache table: %w", err)
	}
	return nil
}

func (c *SQLiteStatsCache) Load(ctx context.Context, userID string) (domain.Stats, time.Time, bool, error) {
	var raw, computedAt string
	err := tx.ExecerFrom(ctx, c.db).QueryRowContext(ctx, `
SELECT stats, computed_at FROM stats_cache WHERE user_id = ?`, userID).Scan(&raw, &computedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Stats{}, time.Time{}, false, nil
	case err != nil:
		return domain.Stats{}, time.Time{}, false, fmt.Errorf("load stats cache: %w", err)
	}
	var stats domain.Stats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return domain.Stats{}, time.Time{}, false, fmt.Errorf("decode stats cache: %w", err)
	}
	at, err := time.Parse(timeLayout, computedAt)
	if err != nil {
		return domain.Stats{}, time.Time{}, false, fmt.Errorf("decode stats cache time: %w", err)
	}
	return stats, at, true, nil
}

func (c *SQLiteStatsCache) Save(ctx context.Context, userID string, stats domain.Stats, computedAt time.Time) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats cache: %w", err)
	}
	_, err = tx.ExecerFrom(ctx, c.db).ExecContext(ctx, `
INSERT INTO stats_cache (user_id, stats, computed_at) VALUES (?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET stats=excluded.stats, computed_at=excluded.computed_at`,
		userID, string(raw), computedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save stats cache: %w", err)
	}
	return nil
}
