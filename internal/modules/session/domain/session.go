package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "shelfmark/internal/platform/errors"
)

const SchemaVersion = 1

// CompletionThreshold is the progress percentage at which a progress
// update finishes the session without an explicit Complete call.
const CompletionThreshold = 95

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
	StatusViewed    Status = "viewed"
)

func (s Status) Validate() error {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted, StatusAbandoned, StatusViewed:
		return nil
	default:
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidInput, string(s))
	}
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// transitions is the single source of truth for legal status changes.
// No call site decides legality on its own.
var transitions = map[Status][]Status{
	StatusViewed:    {StatusActive, StatusAbandoned},
	StatusActive:    {StatusPaused, StatusCompleted, StatusAbandoned},
	StatusPaused:    {StatusActive, StatusCompleted, StatusAbandoned},
	StatusCompleted: {},
	StatusAbandoned: {},
}

// CanTransition reports whether from -> to is a legal transition.
// The distinguishing errors matter to callers: a terminal origin yields
// ErrSessionTerminal, any other illegal move yields ErrInvalidState.
// A self-transition is a legal no-op so retried requests stay idempotent.
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}
	if from.Terminal() {
		return fmt.Errorf("%w: session is %s", apperrors.ErrSessionTerminal, from)
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidState, from, to)
}

// Note is a free-form remark anchored at a page.
type Note struct {
	Page      int       `json:"page"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark marks a page; at most one bookmark exists per page.
type Bookmark struct {
	Page      int       `json:"page"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Highlight is a saved excerpt with a display color.
type Highlight struct {
	Page      int       `json:"page"`
	Quote     string    `json:"quote"`
	Color     string    `json:"color"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is one attempt by one reader to read one book.
type Session struct {
	ID     string
	UserID string
	BookID string

	Status Status

	StartTime  time.Time
	EndTime    time.Time
	PausedAt   time.Time
	ResumedAt  time.Time
	LastReadAt time.Time

	StartPage   int
	CurrentPage int
	Progress    int // 0..100

	TotalReadingTime int // seconds
	PagesRead        int
	SessionCount     int
	ReadingSpeed     float64 // pages per hour

	FinalRating int // 1..5, 0 = unrated
	FinalReview string

	Notes      []Note
	Bookmarks  []Bookmark
	Highlights []Highlight
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(s.UserID) == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(s.BookID) == "" {
		return fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	if err := s.Status.Validate(); err != nil {
		return err
	}
	if s.StartPage < 0 || s.CurrentPage < s.StartPage {
		return fmt.Errorf("%w: pages must satisfy 0 <= startPage <= currentPage", apperrors.ErrInvalidInput)
	}
	if s.Progress < 0 || s.Progress > 100 {
		return fmt.Errorf("%w: progress must be within 0..100", apperrors.ErrInvalidInput)
	}
	return nil
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be an integer 1..5", apperrors.ErrInvalidInput)
	}
	return nil
}

// AddNote appends a page-anchored note.
func (s *Session) AddNote(page int, text string, now time.Time) {
	s.Notes = append(s.Notes, Note{Page: page, Text: text, CreatedAt: now})
}

// SetBookmark inserts or replaces the bookmark for a page.
func (s *Session) SetBookmark(page int, text string, now time.Time) {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].Page == page {
			s.Bookmarks[i].Text = text
			s.Bookmarks[i].CreatedAt = now
			return
		}
	}
	s.Bookmarks = append(s.Bookmarks, Bookmark{Page: page, Text: text, CreatedAt: now})
}

// AddHighlight appends a highlighted excerpt.
func (s *Session) AddHighlight(page int, quote, color, text string, now time.Time) {
	if color == "" {
		color = "yellow"
	}
	s.Highlights = append(s.Highlights, Highlight{Page: page, Quote: quote, Color: color, Text: text, CreatedAt: now})
}
