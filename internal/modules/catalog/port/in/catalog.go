package in

import (
	"context"

	"shelfmark/internal/modules/catalog/dto"
)

type Usecase interface {
	AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error)
	ImportFile(ctx context.Context, input dto.ImportFileInput) (dto.BookOutput, error)
	Lookup(ctx context.Context, input dto.LookupInput) (dto.BookOutput, error)
	GetBook(ctx context.Context, id string) (dto.BookOutput, error)
	ListBooks(ctx context.Context) ([]dto.BookOutput, error)
}
