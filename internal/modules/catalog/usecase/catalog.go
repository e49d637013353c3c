package usecase

import (
	"context"

	"shelfmark/internal/modules/catalog/domain"
	"shelfmark/internal/modules/catalog/dto"
	catalogin "shelfmark/internal/modules/catalog/port/in"
	"shelfmark/internal/modules/catalog/service"
	providerdto "shelfmark/internal/modules/provider/dto"
	providerin "shelfmark/internal/modules/provider/port/in"
)

type Interactor struct {
	svc       *service.BookService
	providers providerin.Usecase
}

func NewInteractor(svc *service.BookService, providers providerin.Usecase) catalogin.Usecase {
	return &Interactor{svc: svc, providers: providers}
}

func (i *Interactor) AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error) {
	book, err := i.svc.AddBook(ctx, input.Title, input.Authors, input.Genres, input.PageCount)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toOutput(book), nil
}

func (i *Interactor) ImportFile(ctx context.Context, input dto.ImportFileInput) (dto.BookOutput, error) {
	book, err := i.svc.ImportFile(ctx, input.Path, input.Title, input.Authors, input.Genres)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toOutput(book), nil
}

// Lookup resolves book metadata through an external provider plugin and
// stores the result as a catalog record.
func (i *Interactor) Lookup(ctx context.Context, input dto.LookupInput) (dto.BookOutput, error) {
	resolved, err := i.providers.Lookup(ctx, providerdto.LookupInput{
		Provider: input.Provider,
		Title:    input.Title,
		Author:   input.Author,
		ISBN:     input.ISBN,
	})
	if err != nil {
		return dto.BookOutput{}, err
	}
	book, err := i.svc.SaveLookup(ctx, resolved.Provider, resolved.Title, resolved.Authors, resolved.Genres, resolved.PageCount)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toOutput(book), nil
}

func (i *Interactor) GetBook(ctx context.Context, id string) (dto.BookOutput, error) {
	book, err := i.svc.GetBook(ctx, id)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toOutput(book), nil
}

func (i *Interactor) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	books, err := i.svc.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookOutput, 0, len(books))
	for _, book := range books {
		out = append(out, toOutput(book))
	}
	return out, nil
}

func toOutput(book domain.Book) dto.BookOutput {
	return dto.BookOutput{
		ID:        book.ID,
		Title:     book.Title,
		Authors:   book.Authors,
		Genres:    book.Genres,
		PageCount: book.PageCount,
		FilePath:  book.FilePath,
		Source:    book.Source,
	}
}
