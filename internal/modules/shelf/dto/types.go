package dto

import "time"

type SessionStarted struct {
	UserID string
	BookID string
	At     time.Time
}

type SessionCompleted struct {
	UserID      string
	BookID      string
	Rating      int
	PagesRead   int
	ReadingTime int
	At          time.Time
}

type SessionActivity struct {
	UserID string
	At     time.Time
}

type BookRefOutput struct {
	BookID  string
	AddedAt time.Time
}

type FinishedBookOutput struct {
	BookID      string
	FinishedAt  time.Time
	Rating      int
	PagesRead   int
	ReadingTime int
}

type ShelfOutput struct {
	UserID           string
	CurrentlyReading []BookRefOutput
	FinishedBooks    []FinishedBookOutput
	BooksRead        int
	PagesRead        int
	TotalReadingTime int
	CurrentStreak    int
	LongestStreak    int
	LastReadingDate  string
	Repaired         bool
}
