package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"shelfmark/internal/modules/catalog/domain"
	catalogout "shelfmark/internal/modules/catalog/port/out"
	"shelfmark/internal/platform/clock"
	apperrors "shelfmark/internal/platform/errors"
	"shelfmark/internal/platform/id"
)

type BookService struct {
	clock   clock.Clock
	idGen   id.Generator
	store   catalogout.BookStore
	counter catalogout.PageCounter
}

func NewBookService(clock clock.Clock, idGen id.Generator, store catalogout.BookStore, counter catalogout.PageCounter) *BookService {
	return &BookService{clock: clock, idGen: idGen, store: store, counter: counter}
}

func (s *BookService) AddBook(ctx context.Context, title string, authors, genres []string, pageCount int) (domain.Book, error) {
	now := s.clock.Now()
	book := domain.Book{
		ID:        s.idGen.New(),
		Title:     strings.TrimSpace(title),
		Authors:   cleaned(authors),
		Genres:    cleaned(genres),
		PageCount: pageCount,
		Source:    "manual",
		AddedAt:   now,
		UpdatedAt: now,
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}
	if err := s.store.Upsert(ctx, book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// ImportFile registers a local book file, deriving the page count from the
// file itself. A file whose pages cannot be counted still imports with an
// unknown length.
func (s *BookService) ImportFile(ctx context.Context, path, title string, authors, genres []string) (domain.Book, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Book{}, fmt.Errorf("%w: file path is required", apperrors.ErrInvalidInput)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	pageCount := 0
	if s.counter != nil {
		n, err := s.counter.CountPages(ctx, path)
		if err == nil {
			pageCount = n
		}
	}
	now := s.clock.Now()
	book := domain.Book{
		ID:        s.idGen.New(),
		Title:     title,
		Authors:   cleaned(authors),
		Genres:    cleaned(genres),
		PageCount: pageCount,
		FilePath:  path,
		Source:    "pdf",
		AddedAt:   now,
		UpdatedAt: now,
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}
	if err := s.store.Upsert(ctx, book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// SaveLookup stores metadata resolved by an external provider.
func (s *BookService) SaveLookup(ctx context.Context, provider, title string, authors, genres []string, pageCount int) (domain.Book, error) {
	now := s.clock.Now()
	book := domain.Book{
		ID:        s.idGen.New(),
		Title:     strings.TrimSpace(title),
		Authors:   cleaned(authors),
		Genres:    cleaned(genres),
		PageCount: pageCount,
		Source:    provider,
		AddedAt:   now,
		UpdatedAt: now,
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}
	if err := s.store.Upsert(ctx, book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (s *BookService) GetBook(ctx context.Context, bookID string) (domain.Book, error) {
	return s.store.FindByID(ctx, bookID)
}

func (s *BookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.store.List(ctx)
}

func cleaned(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
