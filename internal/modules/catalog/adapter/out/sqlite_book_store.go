package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shelfmark/internal/modules/catalog/domain"
	catalogout "shelfmark/internal/modules/catalog/port/out"
	apperrors "shelfmark/internal/platform/errors"
	"shelfmark/internal/platform/tx"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteBookStore struct {
	db *sql.DB
}

func NewSQLiteBookStore(db *sql.DB) (catalogout.BookStore, error) {
	store := &SQLiteBookStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteBookStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS books (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  authors TEXT NOT NULL,
  genres TEXT NOT NULL,
  page_count INTEGER NOT NULL,
  file_path TEXT,
  source TEXT NOT NULL,
  added_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

func (s *SQLiteBookStore) Upsert(ctx context.Context, book domain.Book) error {
	const stmt = `
INSERT INTO books (id, title, authors, genres, page_count, file_path, source, added_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title=excluded.title,
  authors=excluded.authors,
  genres=excluded.genres,
  page_count=excluded.page_count,
  file_path=excluded.file_path,
  source=excluded.source,
  updated_at=excluded.updated_at;
`
	_, err := tx.ExecerFrom(ctx, s.db).ExecContext(ctx, stmt,
		book.ID,
		book.Title,
		joinList(book.Authors),
		joinList(book.Genres),
		book.PageCount,
		book.FilePath,
		book.Source,
		book.AddedAt.Format(timeLayout),
		book.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert book: %w", err)
	}
	return nil
}

func (s *SQLiteBookStore) FindByID(ctx context.Context, id string) (domain.Book, error) {
	const query = `
SELECT id, title, authors, genres, page_count, file_path, source, added_at, updated_at
FROM books WHERE id = ?`
	row := tx.ExecerFrom(ctx, s.db).QueryRowContext(ctx, query, id)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Book{}, fmt.Errorf("%w: book %s", apperrors.ErrNotFound, id)
	}
	return book, err
}

func (s *SQLiteBookStore) List(ctx context.Context) ([]domain.Book, error) {
	const query = `
SELECT id, title, authors, genres, page_count, file_path, source, added_at, updated_at
FROM books ORDER BY added_at, id`
	rows, err := tx.ExecerFrom(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (domain.Book, error) {
	var (
		book               domain.Book
		authors, genres    string
		filePath           sql.NullString
		addedAt, updatedAt string
	)
	err := row.Scan(&book.ID, &book.Title, &authors, &genres, &book.PageCount, &filePath, &book.Source, &addedAt, &updatedAt)
	if err != nil {
		return domain.Book{}, err
	}
	book.Authors = splitList(authors)
	book.Genres = splitList(genres)
	book.FilePath = filePath.String
	book.AddedAt, _ = time.Parse(timeLayout, addedAt)
	book.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return book, nil
}

func joinList(values []string) string {
	return strings.Join(values, "\x1f")
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\x1f")
}
