package in

import (
	"context"

	"shelfmark/internal/modules/catalog/dto"
	catalogin "shelfmark/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) AddBook(ctx context.Context, title string, authors, genres []string, pageCount int) (dto.BookOutput, error) {
	return h.usecase.AddBook(ctx, dto.AddBookInput{Title: title, Authors: authors, Genres: genres, PageCount: pageCount})
}

func (h CLIHandler) ImportFile(ctx context.Context, path, title string, authors, genres []string) (dto.BookOutput, error) {
	return h.usecase.ImportFile(ctx, dto.ImportFileInput{Path: path, Title: title, Authors: authors, Genres: genres})
}

func (h CLIHandler) Lookup(ctx context.Context, provider, title, author, isbn string) (dto.BookOutput, error) {
	return h.usecase.Lookup(ctx, dto.LookupInput{Provider: provider, Title: title, Author: author, ISBN: isbn})
}

func (h CLIHandler) GetBook(ctx context.Context, id string) (dto.BookOutput, error) {
	return h.usecase.GetBook(ctx, id)
}

func (h CLIHandler) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	return h.usecase.ListBooks(ctx)
}
