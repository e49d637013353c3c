package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "shelfmark/internal/platform/errors"
)

const SchemaVersion = 1

// Book is a catalog record. PageCount 0 means the length is unknown, which
// is a valid state; progress derivation treats it as "no denominator".
type Book struct {
	ID        string
	Title     string
	Authors   []string
	Genres    []string
	PageCount int
	FilePath  string
	Source    string // manual | pdf | provider name
	AddedAt   time.Time
	UpdatedAt time.Time
}

func (b Book) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if b.PageCount < 0 {
		return fmt.Errorf("%w: page count must be non-negative", apperrors.ErrInvalidInput)
	}
	return nil
}
