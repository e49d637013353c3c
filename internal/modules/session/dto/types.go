package dto

import "time"

type StartInput struct {
	UserID    string
	BookID    string
	StartPage int
	// Viewed records a preview-only session that upgrades to active on
	// the first progress update.
	Viewed bool
}

type ProgressInput struct {
	UserID      string
	SessionID   string
	CurrentPage *int
	PagesDelta  *int
	ReadingTime int // seconds
	Note        string
}

type CompleteInput struct {
	UserID    string
	SessionID string
	Rating    int // 1..5, 0 = unrated
	Review    string
}

type AnnotateInput struct {
	UserID    string
	SessionID string
	Page      int
	Kind      string // note | bookmark | highlight
	Text      string
	Quote     string
	Color     string
}

type HistoryFilter struct {
	BookID string
	Status string
}

type HistoryInput struct {
	UserID  string
	Filter  HistoryFilter
	Page    int // 1-based
	PerPage int
}

type NoteOutput struct {
	Page int
	Text string
}

type BookmarkOutput struct {
	Page int
	Text string
}

type HighlightOutput struct {
	Page  int
	Quote string
	Color string
}

type SessionOutput struct {
	ID     string
	UserID string
	BookID string
	Status string

	StartTime  time.Time
	EndTime    time.Time
	LastReadAt time.Time

	StartPage   int
	CurrentPage int
	Progress    int

	TotalReadingTime int
	PagesRead        int
	SessionCount     int
	ReadingSpeed     float64

	FinalRating int
	FinalReview string

	Notes      []NoteOutput
	Bookmarks  []BookmarkOutput
	Highlights []HighlightOutput

	JournalPath string
}
