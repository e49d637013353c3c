package domain

import (
	"math"
	"sort"
	"time"
)

// CompletedRead is the slice of a finished session the aggregator needs,
// joined with the book's descriptive metadata.
type CompletedRead struct {
	BookID      string
	CompletedAt time.Time
	Rating      int
	PagesRead   int
	ReadingTime int
	Authors     []string
	Genres      []string
}

// RankedName is a name with its occurrence count, used for favorites.
type RankedName struct {
	Name  string
	Count int
}

// GoalProgress reports completion against one reading goal.
type GoalProgress struct {
	Target   int
	Achieved int
	Percent  int
}

// Stats is the aggregate over a user's completed sessions.
type Stats struct {
	BooksCompleted   int
	PagesRead        int
	TotalReadingTime int
	AverageRating    float64
	TopGenres        []RankedName
	TopAuthors       []RankedName

	YearlyBooks  GoalProgress
	YearlyPages  GoalProgress
	MonthlyBooks GoalProgress
	MonthlyPages GoalProgress
}

// Goals carries the configured reading targets. Zero targets report
// zero-valued progress.
type Goals struct {
	YearlyBooks  int
	YearlyPages  int
	MonthlyBooks int
	MonthlyPages int
}

const topN = 5

// Compute aggregates completed reads. Average rating ignores unrated
// reads and rounds to one decimal; favorites are the five most frequent
// names, ties broken by first encounter in completion order. Goal
// windows are [periodStart, now) in loc, capped at 100 percent.
func Compute(reads []CompletedRead, goals Goals, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.UTC
	}
	var stats Stats
	var ratingSum, ratingCount int
	genres := newCounter()
	authors := newCounter()

	local := now.In(loc)
	yearStart := time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, loc)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	var yearBooks, yearPages, monthBooks, monthPages int

	for _, r := range reads {
		stats.BooksCompleted++
		stats.PagesRead += r.PagesRead
		stats.TotalReadingTime += r.ReadingTime
		if r.Rating > 0 {
			ratingSum += r.Rating
			ratingCount++
		}
		for _, g := range r.Genres {
			genres.add(g)
		}
		for _, a := range r.Authors {
			authors.add(a)
		}
		if inWindow(r.CompletedAt, yearStart, now) {
			yearBooks++
			yearPages += r.PagesRead
		}
		if inWindow(r.CompletedAt, monthStart, now) {
			monthBooks++
			monthPages += r.PagesRead
		}
	}

	if ratingCount > 0 {
		stats.AverageRating = math.Round(float64(ratingSum)/float64(ratingCount)*10) / 10
	}
	stats.TopGenres = genres.top(topN)
	stats.TopAuthors = authors.top(topN)
	stats.YearlyBooks = progress(goals.YearlyBooks, yearBooks)
	stats.YearlyPages = progress(goals.YearlyPages, yearPages)
	stats.MonthlyBooks = progress(goals.MonthlyBooks, monthBooks)
	stats.MonthlyPages = progress(goals.MonthlyPages, monthPages)
	return stats
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func progress(target, achieved int) GoalProgress {
	gp := GoalProgress{Target: target, Achieved: achieved}
	if target > 0 {
		pct := achieved * 100 / target
		if pct > 100 {
			pct = 100
		}
		gp.Percent = pct
	}
	return gp
}

// counter tracks frequencies and the order names were first seen, so
// equal counts rank in encounter order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(name string) {
	if name == "" {
		return
	}
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

func (c *counter) top(n int) []RankedName {
	firstSeen := make(map[string]int, len(c.order))
	for i, name := range c.order {
		firstSeen[name] = i
	}
	ranked := make([]RankedName, 0, len(c.order))
	for _, name := range c.order {
		ranked = append(ranked, RankedName{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Name] < firstSeen[ranked[j].Name]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
