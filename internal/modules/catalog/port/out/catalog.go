package out

import (
	"context"

	"shelfmark/internal/modules/catalog/domain"
)

type BookStore interface {
	Upsert(ctx context.Context, book domain.Book) error
	FindByID(ctx context.Context, id string) (domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
}

// PageCounter extracts the page count from a local book file.
type PageCounter interface {
	CountPages(ctx context.Context, path string) (int, error)
}
