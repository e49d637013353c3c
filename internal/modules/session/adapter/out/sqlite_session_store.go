package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"shelfmark/internal/modules/session/domain"
	sessionout "shelfmark/internal/modules/session/port/out"
	apperrors "shelfmark/internal/platform/errors"
	"shelfmark/internal/platform/tx"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteSessionStore persists reading sessions. Two write paths matter:
// CreateActive relies on a partial unique index over (user_id, book_id)
// for rows in status 'active' so concurrent starts converge on one row,
// and ApplyProgress writes the accumulator columns as additive deltas so
// concurrent progress reports never lose pages or reading time.
type SQLiteSessionStore struct {
	db *sql.DB
}

var _ sessionout.SessionStore = (*SQLiteSessionStore)(nil)

func NewSQLiteSessionStore(db *sql.DB) (*SQLiteSessionStore, error) {
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  book_id TEXT NOT NULL,
  status TEXT NOT NULL,
  start_time TEXT NOT NULL,
  end_time TEXT,
  paused_at TEXT,
  resumed_at TEXT,
  last_read_at TEXT,
  start_page INTEGER NOT NULL,
  current_page INTEGER NOT NULL,
  progress INTEGER NOT NULL,
  total_reading_time INTEGER NOT NULL,
  pages_read INTEGER NOT NULL,
  session_count INTEGER NOT NULL,
  reading_speed REAL NOT NULL,
  final_rating INTEGER NOT NULL,
  final_review TEXT NOT NULL,
  records TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS sessions_one_active
  ON sessions(user_id, book_id) WHERE status = 'active';
CREATE INDEX IF NOT EXISTS sessions_user_status ON sessions(user_id, status);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

// records bundles the sub-record lists into one JSON column; they are
// only ever read and written with the whole session.
type records struct {
	Notes      []domain.Note      `json:"notes,omitempty"`
	Bookmarks  []domain.Bookmark  `json:"bookmarks,omitempty"`
	Highlights []domain.Highlight `json:"highlights,omitempty"`
}

func (s *SQLiteSessionStore) CreateActive(ctx context.Context, session domain.Session) (domain.Session, bool, error) {
	ex := tx.ExecerFrom(ctx, s.db)
	recs, err := marshalRecords(session)
	if err != nil {
		return domain.Session{}, false, err
	}
	_, err = ex.ExecContext(ctx, `
INSERT INTO sessions (
  id, user_id, book_id, status,
  start_time, end_time, paused_at, resumed_at, last_read_at,
  start_page, current_page, progress,
  total_reading_time, pages_read, session_count, reading_speed,
  final_rating, final_review, records
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.BookID, string(session.Status),
		formatTime(session.StartTime), formatTime(session.EndTime),
		formatTime(session.PausedAt), formatTime(session.ResumedAt), formatTime(session.LastReadAt),
		session.StartPage, session.CurrentPage, session.Progress,
		session.TotalReadingTime, session.PagesRead, session.SessionCount, session.ReadingSpeed,
		session.FinalRating, session.FinalReview, recs,
	)
	if err != nil {
		if isUniqueViolation(err) {
			winner, ferr := s.FindActive(ctx, session.UserID, session.BookID)
			if ferr != nil {
				return domain.Session{}, false, fmt.Errorf("active session lost race but winner not found: %w", ferr)
			}
			return winner, false, nil
		}
		return domain.Session{}, false, fmt.Errorf("insert session: %w", err)
	}
	return session, true, nil
}

func (s *SQLiteSessionStore) FindByID(ctx context.Context, id string) (domain.Session, error) {
	row := tx.ExecerFrom(ctx, s.db).QueryRowContext(ctx, selectSessions+` WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, id)
	}
	return session, err
}

func (s *SQLiteSessionStore) FindActive(ctx context.Context, userID, bookID string) (domain.Session, error) {
	row := tx.ExecerFrom(ctx, s.db).QueryRowContext(ctx,
		selectSessions+` WHERE user_id = ? AND book_id = ? AND status = ?`,
		userID, bookID, string(domain.StatusActive))
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("%w: no active session for book %s", apperrors.ErrNotFound, bookID)
	}
	return session, err
}

func (s *SQLiteSessionStore) HasCompleted(ctx context.Context, userID, bookID string) (bool, error) {
	var n int
	err := tx.ExecerFrom(ctx, s.db).QueryRowContext(ctx, `
SELECT COUNT(1) FROM sessions WHERE user_id = ? AND book_id = ? AND status = ?`,
		userID, bookID, string(domain.StatusCompleted)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count completed sessions: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteSessionStore) Update(ctx context.Context, session domain.Session) error {
	recs, err := marshalRecords(session)
	if err != nil {
		return err
	}
	res, err := tx.ExecerFrom(ctx, s.db).ExecContext(ctx, `
UPDATE sessions SET
  status = ?,
  start_time = ?, end_time = ?, paused_at = ?, resumed_at = ?, last_read_at = ?,
  start_page = ?, current_page = ?, progress = ?,
  total_reading_time = ?, pages_read = ?, session_count = ?, reading_speed = ?,
  final_rating = ?, final_review = ?, records = ?
WHERE id = ?`,
		string(session.Status),
		formatTime(session.StartTime), formatTime(session.EndTime),
		formatTime(session.PausedAt), formatTime(session.ResumedAt), formatTime(session.LastReadAt),
		session.StartPage, session.CurrentPage, session.Progress,
		session.TotalReadingTime, session.PagesRead, session.SessionCount, session.ReadingSpeed,
		session.FinalRating, session.FinalReview, recs,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: session %s", apperrors.ErrNotFound, session.ID)
	}
	return nil
}

// ApplyProgress adds the accumulator deltas on top of whatever the row
// holds now. Sqlite evaluates the right-hand side against the old row,
// so reading speed can be derived from the post-delta values in the same
// statement. Position fields, status and the records column are
// last-write-wins; status is written so a viewed session upgraded to
// active by the first progress update stays active.
func (s *SQLiteSessionStore) ApplyProgress(ctx context.Context, id string, change domain.ProgressChange, session domain.Session) (domain.Session, error) {
	recs, err := marshalRecords(session)
	if err != nil {
		return domain.Session{}, err
	}
	res, err := tx.ExecerFrom(ctx, s.db).ExecContext(ctx, `
UPDATE sessions SET
  status = ?1,
  current_page = ?2,
  progress = ?3,
  pages_read = pages_read + ?4,
  total_reading_time = total_reading_time + ?5,
  reading_speed = CASE
    WHEN total_reading_time + ?5 > 0
    THEN (pages_read + ?4) * 3600.0 / (total_reading_time + ?5)
    ELSE 0
  END,
  last_read_at = ?6,
  records = ?7
WHERE id = ?8`,
		string(session.Status),
		change.TargetPage,
		change.Progress,
		change.PagesReadDelta,
		change.ReadingTimeDelta,
		formatTime(session.LastReadAt),
		recs,
		id,
	)
	if err != nil {
		return domain.Session{}, fmt.Errorf("apply progress: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Session{}, fmt.Errorf("apply progress: %w", err)
	}
	if affected == 0 {
		return domain.Session{}, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, id)
	}
	return s.FindByID(ctx, id)
}

func (s *SQLiteSessionStore) ListCurrent(ctx context.Context, userID string) ([]domain.Session, error) {
	return s.query(ctx, selectSessions+` WHERE user_id = ? AND status IN (?, ?, ?) ORDER BY start_time`,
		userID, string(domain.StatusActive), string(domain.StatusPaused), string(domain.StatusViewed))
}

func (s *SQLiteSessionStore) ListCompleted(ctx context.Context, userID string) ([]domain.Session, error) {
	return s.query(ctx, selectSessions+` WHERE user_id = ? AND status = ? ORDER BY end_time`,
		userID, string(domain.StatusCompleted))
}

func (s *SQLiteSessionStore) List(ctx context.Context, userID string, filter sessionout.ListFilter, offset, limit int) ([]domain.Session, error) {
	query := selectSessions + ` WHERE user_id = ?`
	args := []any{userID}
	if filter.BookID != "" {
		query += ` AND book_id = ?`
		args = append(args, filter.BookID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY start_time DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	return s.query(ctx, query, args...)
}

func (s *SQLiteSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := tx.ExecerFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

const selectSessions = `
SELECT id, user_id, book_id, status,
  start_time, end_time, paused_at, resumed_at, last_read_at,
  start_page, current_page, progress,
  total_reading_time, pages_read, session_count, reading_speed,
  final_rating, final_review, records
FROM sessions`

func (s *SQLiteSessionStore) query(ctx context.Context, query string, args ...any) ([]domain.Session, error) {
	rows, err := tx.ExecerFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()
	var sessions []domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (domain.Session, error) {
	var session domain.Session
	var status string
	var startTime, endTime, pausedAt, resumedAt, lastReadAt string
	var recs string
	err := row.Scan(
		&session.ID, &session.UserID, &session.BookID, &status,
		&startTime, &endTime, &pausedAt, &resumedAt, &lastReadAt,
		&session.StartPage, &session.CurrentPage, &session.Progress,
		&session.TotalReadingTime, &session.PagesRead, &session.SessionCount, &session.ReadingSpeed,
		&session.FinalRating, &session.FinalReview, &recs,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, err
		}
		return domain.Session{}, fmt.Errorf("scan session: %w", err)
	}
	session.Status = domain.Status(status)
	session.StartTime = parseTime(startTime)
	session.EndTime = parseTime(endTime)
	session.PausedAt = parseTime(pausedAt)
	session.ResumedAt = parseTime(resumedAt)
	session.LastReadAt = parseTime(lastReadAt)

	var r records
	if recs != "" {
		if err := json.Unmarshal([]byte(recs), &r); err != nil {
			return domain.Session{}, fmt.Errorf("decode session records: %w", err)
		}
	}
	session.Notes = r.Notes
	session.Bookmarks = r.Bookmarks
	session.Highlights = r.Highlights
	return session, nil
}

func marshalRecords(session domain.Session) (string, error) {
	data, err := json.Marshal(records{
		Notes:      session.Notes,
		Bookmarks:  session.Bookmarks,
		Highlights: session.Highlights,
	})
	if err != nil {
		return "", fmt.Errorf("encode session records: %w", err)
	}
	return string(data), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
