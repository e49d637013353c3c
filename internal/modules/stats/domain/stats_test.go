package domain

import (
	"testing"
	"time"
)

func read(completed time.Time, rating, pages, secs int, authors, genres []string) CompletedRead {
	return CompletedRead{
		BookID:      "b",
		CompletedAt: completed,
		Rating:      rating,
		PagesRead:   pages,
		ReadingTime: secs,
		Authors:     authors,
		Genres:      genres,
	}
}

func TestComputeTotalsAndAverageRating(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	reads := []CompletedRead{
		read(now.AddDate(0, -1, 0), 4, 300, 7200, nil, nil),
		read(now.AddDate(0, -2, 0), 3, 200, 3600, nil, nil),
		read(now.AddDate(0, -3, 0), 0, 150, 1800, nil, nil), // unrated
	}
	stats := Compute(reads, Goals{}, now, time.UTC)
	if stats.BooksCompleted != 3 || stats.PagesRead != 650 || stats.TotalReadingTime != 12600 {
		t.Fatalf("totals wrong: %+v", stats)
	}
	if stats.AverageRating != 3.5 {
		t.Fatalf("unrated reads must be ignored: got %v", stats.AverageRating)
	}
}

func TestComputeAverageRatingRoundsToOneDecimal(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	reads := []CompletedRead{
		read(now, 5, 0, 0, nil, nil),
		read(now, 4, 0, 0, nil, nil),
		read(now, 4, 0, 0, nil, nil),
	}
	stats := Compute(reads, Goals{}, now, time.UTC)
	// 13/3 = 4.333... rounds to 4.3
	if stats.AverageRating != 4.3 {
		t.Fatalf("expected 4.3, got %v", stats.AverageRating)
	}
}

func TestComputeNoRatedReadsReportsZero(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	stats := Compute([]CompletedRead{read(now, 0, 100, 0, nil, nil)}, Goals{}, now, time.UTC)
	if stats.AverageRating != 0 {
		t.Fatalf("expected 0 for all-unrated, got %v", stats.AverageRating)
	}
}

func TestComputeTopFiveWithFirstEncounterTiebreak(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	reads := []CompletedRead{
		read(now, 0, 0, 0, nil, []string{"fantasy", "mystery"}),
		read(now, 0, 0, 0, nil, []string{"scifi", "fantasy"}),
		read(now, 0, 0, 0, nil, []string{"mystery", "horror"}),
		read(now, 0, 0, 0, nil, []string{"romance", "thriller"}),
	}
	stats := Compute(reads, Goals{}, now, time.UTC)
	if len(stats.TopGenres) != 5 {
		t.Fatalf("expected five entries, got %d", len(stats.TopGenres))
	}
	// fantasy and mystery both count 2; fantasy was seen first.
	if stats.TopGenres[0].Name != "fantasy" || stats.TopGenres[0].Count != 2 {
		t.Fatalf("rank 1: %+v", stats.TopGenres[0])
	}
	if stats.TopGenres[1].Name != "mystery" {
		t.Fatalf("tie must break by first encounter: %+v", stats.TopGenres[1])
	}
	// scifi, horror, romance all count 1, encounter order again.
	if stats.TopGenres[2].Name != "scifi" || stats.TopGenres[3].Name != "horror" || stats.TopGenres[4].Name != "romance" {
		t.Fatalf("singles out of encounter order: %+v", stats.TopGenres[2:])
	}
}

func TestComputeGoalWindows(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	reads := []CompletedRead{
		read(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 0, 100, 0, nil, nil),   // this month
		read(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), 0, 200, 0, nil, nil),  // this year, not this month
		read(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), 0, 400, 0, nil, nil), // last year
	}
	goals := Goals{YearlyBooks: 10, YearlyPages: 1000, MonthlyBooks: 4, MonthlyPages: 500}
	stats := Compute(reads, goals, now, time.UTC)
	if stats.YearlyBooks.Achieved != 2 || stats.YearlyBooks.Percent != 20 {
		t.Fatalf("yearly books: %+v", stats.YearlyBooks)
	}
	if stats.YearlyPages.Achieved != 300 || stats.YearlyPages.Percent != 30 {
		t.Fatalf("yearly pages: %+v", stats.YearlyPages)
	}
	if stats.MonthlyBooks.Achieved != 1 || stats.MonthlyBooks.Percent != 25 {
		t.Fatalf("monthly books: %+v", stats.MonthlyBooks)
	}
	if stats.MonthlyPages.Achieved != 100 || stats.MonthlyPages.Percent != 20 {
		t.Fatalf("monthly pages: %+v", stats.MonthlyPages)
	}
}

func TestComputeGoalPercentCapsAtHundred(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	var reads []CompletedRead
	for i := 0; i < 6; i++ {
		reads = append(reads, read(now.AddDate(0, 0, -i-1), 0, 100, 0, nil, nil))
	}
	stats := Compute(reads, Goals{MonthlyBooks: 4}, now, time.UTC)
	if stats.MonthlyBooks.Achieved < 4 || stats.MonthlyBooks.Percent != 100 {
		t.Fatalf("expected cap at 100: %+v", stats.MonthlyBooks)
	}
}

func TestComputeZeroTargetsReportZeroProgress(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	stats := Compute([]CompletedRead{read(now.AddDate(0, 0, -1), 0, 100, 0, nil, nil)}, Goals{}, now, time.UTC)
	if stats.YearlyBooks.Percent != 0 || stats.YearlyBooks.Target != 0 {
		t.Fatalf("zero target must report zero percent: %+v", stats.YearlyBooks)
	}
	if stats.YearlyBooks.Achieved != 1 {
		t.Fatalf("achieved still counts without a target: %+v", stats.YearlyBooks)
	}
}

func TestComputeGoalWindowExcludesFuture(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	reads := []CompletedRead{read(now.Add(time.Hour), 0, 100, 0, nil, nil)}
	stats := Compute(reads, Goals{MonthlyBooks: 4}, now, time.UTC)
	if stats.MonthlyBooks.Achieved != 0 {
		t.Fatalf("completion after now must not count: %+v", stats.MonthlyBooks)
	}
}
