package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shelfmark/internal/modules/shelf/domain"
	shelfout "shelfmark/internal/modules/shelf/port/out"
	"shelfmark/internal/platform/tx"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteShelfStore persists shelf aggregates across three tables: one
// row of counters per user plus membership rows for the reading and
// finished lists. Save replaces the membership rows wholesale; the
// aggregate is small and always written as a unit.
type SQLiteShelfStore struct {
	db *sql.DB
}

func NewSQLiteShelfStore(db *sql.DB) (shelfout.ShelfStore, error) {
	store := &SQLiteShelfStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteShelfStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS shelf_stats (
  user_id TEXT PRIMARY KEY,
  books_read INTEGER NOT NULL,
  pages_read INTEGER NOT NULL,
  total_reading_time INTEGER NOT NULL,
  current_streak INTEGER NOT NULL,
  longest_streak INTEGER NOT NULL,
  last_reading_date TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS shelf_current (
  user_id TEXT NOT NULL,
  book_id TEXT NOT NULL,
  added_at TEXT NOT NULL,
  PRIMARY KEY (user_id, book_id)
);
CREATE TABLE IF NOT EXISTS shelf_finished (
  user_id TEXT NOT NULL,
  book_id TEXT NOT NULL,
  finished_at TEXT NOT NULL,
  rating INTEGER NOT NULL,
  pages_read INTEGER NOT NULL,
  reading_time INTEGER NOT NULL,
  PRIMARY KEY (user_id, book_id)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create shelf tables: %w", err)
	}
	return nil
}

func (s *SQLiteShelfStore) Load(ctx context.Context, userID string) (domain.UserShelf, error) {
	ex := tx.ExecerFrom(ctx, s.db)
	shelf := domain.NewUserShelf(userID)

	var updatedAt, lastDay string
	row := ex.QueryRowContext(ctx, `
SELECT books_read, pages_read, total_reading_time, current_streak, longest_streak, last_reading_date, updated_at
FROM shelf_stats WHERE user_id = ?`, userID)
	err := row.Scan(
		&shelf.Stats.BooksRead,
		&shelf.Stats.PagesRead,
		&shelf.Stats.TotalReadingTime,
		&shelf.Stats.Streak.Current,
		&shelf.Stats.Streak.Longest,
		&lastDay,
		&updatedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return shelf, nil
	case err != nil:
		return domain.UserShelf{}, fmt.Errorf("load shelf stats: %w", err)
	}
	shelf.Stats.Streak.LastDay = lastDay
	shelf.UpdatedAt = parseTime(updatedAt)

	if shelf.CurrentlyReading, err = s.loadCurrent(ctx, ex, userID); err != nil {
		return domain.UserShelf{}, err
	}
	if shelf.FinishedBooks, err = s.loadFinished(ctx, ex, userID); err != nil {
		return domain.UserShelf{}, err
	}
	return shelf, nil
}

func (s *SQLiteShelfStore) loadCurrent(ctx context.Context, ex tx.Execer, userID string) ([]domain.BookRef, error) {
	rows, err := ex.QueryContext(ctx, `
SELECT book_id, added_at FROM shelf_current WHERE user_id = ? ORDER BY added_at, book_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load shelf current: %w", err)
	}
	defer rows.Close()
	var refs []domain.BookRef
	for rows.Next() {
		var ref domain.BookRef
		var addedAt string
		if err := rows.Scan(&ref.BookID, &addedAt); err != nil {
			return nil, fmt.Errorf("scan shelf current: %w", err)
		}
		ref.AddedAt = parseTime(addedAt)
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (s *SQLiteShelfStore) loadFinished(ctx context.Context, ex tx.Execer, userID string) ([]domain.FinishedBook, error) {
	rows, err := ex.QueryContext(ctx, `
SELECT book_id, finished_at, rating, pages_read, reading_time
FROM shelf_finished WHERE user_id = ? ORDER BY finished_at, book_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load shelf finished: %w", err)
	}
	defer rows.Close()
	var finished []domain.FinishedBook
	for rows.Next() {
		var fb domain.FinishedBook
		var finishedAt string
		if err := rows.Scan(&fb.BookID, &finishedAt, &fb.Rating, &fb.PagesRead, &fb.ReadingTime); err != nil {
			return nil, fmt.Errorf("scan shelf finished: %w", err)
		}
		fb.FinishedAt = parseTime(finishedAt)
		finished = append(finished, fb)
	}
	return finished, rows.Err()
}

func (s *SQLiteShelfStore) Save(ctx context.Context, shelf domain.UserShelf) error {
	ex := tx.ExecerFrom(ctx, s.db)
	_, err := ex.ExecContext(ctx, `
INSERT INTO shelf_stats (user_id, books_read, pages_read, total_reading_time, current_streak, longest_streak, last_reading_date, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
  books_read=excluded.books_read,
  pages_read=excluded.pages_read,
  total_reading_time=excluded.total_reading_time,
  current_streak=excluded.current_streak,
  longest_streak=excluded.longest_streak,
  last_reading_date=excluded.last_reading_date,
  updated_at=excluded.updated_at;`,
		shelf.UserID,
		shelf.Stats.BooksRead,
		shelf.Stats.PagesRead,
		shelf.Stats.TotalReadingTime,
		shelf.Stats.Streak.Current,
		shelf.Stats.Streak.Longest,
		shelf.Stats.Streak.LastDay,
		shelf.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save shelf stats: %w", err)
	}

	if _, err := ex.ExecContext(ctx, `DELETE FROM shelf_current WHERE user_id = ?`, shelf.UserID); err != nil {
		return fmt.Errorf("clear shelf current: %w", err)
	}
	for _, ref := range shelf.CurrentlyReading {
		if _, err := ex.ExecContext(ctx, `
INSERT INTO shelf_current (user_id, book_id, added_at) VALUES (?, ?, ?)`,
			shelf.UserID, ref.BookID, ref.AddedAt.Format(timeLayout)); err != nil {
			return fmt.Errorf("save shelf current: %w", err)
		}
	}

	if _, err := ex.ExecContext(ctx, `DELETE FROM shelf_finished WHERE user_id = ?`, shelf.UserID); err != nil {
		return fmt.Errorf("clear shelf finished: %w", err)
	}
	for _, fb := range shelf.FinishedBooks {
		if _, err := ex.ExecContext(ctx, `
INSERT INTO shelf_finished (user_id, book_id, finished_at, rating, pages_read, reading_time)
VALUES (?, ?, ?, ?, ?, ?)`,
			shelf.UserID, fb.BookID, fb.FinishedAt.Format(timeLayout), fb.Rating, fb.PagesRead, fb.ReadingTime); err != nil {
			return fmt.Errorf("save shelf finished: %w", err)
		}
	}
	return nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
