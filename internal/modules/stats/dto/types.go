package dto

import "time"

type RankedNameOutput struct {
	Name  string
	Count int
}

type GoalOutput struct {
	Target   int
	Achieved int
	Percent  int
}

type StatsOutput struct {
	UserID           string
	BooksCompleted   int
	PagesRead        int
	TotalReadingTime int
	AverageRating    float64
	TopGenres        []RankedNameOutput
	TopAuthors       []RankedNameOutput

	YearlyBooks  GoalOutput
	YearlyPages  GoalOutput
	MonthlyBooks GoalOutput
	MonthlyPages GoalOutput

	// Stale marks a result served from the last good computation after
	// the live read path failed.
	Stale      bool
	ComputedAt time.Time
}
