package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "shelfmark/internal/platform/errors"
)

// ProgressInput is one raw progress report. Exactly one of CurrentPage or
// PagesDelta positions the reader; ReadingTime adds to the accumulator.
type ProgressInput struct {
	CurrentPage *int
	PagesDelta  *int
	ReadingTime int // seconds
	Note        string
}

func (in ProgressInput) Validate() error {
	if in.CurrentPage == nil && in.PagesDelta == nil && in.ReadingTime == 0 {
		return fmt.Errorf("%w: progress update carries no data", apperrors.ErrInvalidInput)
	}
	if in.CurrentPage != nil && in.PagesDelta != nil {
		return fmt.Errorf("%w: current page and pages delta are mutually exclusive", apperrors.ErrInvalidInput)
	}
	if in.CurrentPage != nil && *in.CurrentPage < 0 {
		return fmt.Errorf("%w: current page must be non-negative", apperrors.ErrInvalidInput)
	}
	if in.PagesDelta != nil && *in.PagesDelta < 0 {
		return fmt.Errorf("%w: pages delta must be non-negative", apperrors.ErrInvalidInput)
	}
	if in.ReadingTime < 0 {
		return fmt.Errorf("%w: reading time must be non-negative", apperrors.ErrInvalidInput)
	}
	return nil
}

// ProgressChange is what one update did to a session, expressed as deltas
// for the accumulators so concurrent updates never overwrite each other.
type ProgressChange struct {
	TargetPage       int
	Progress         int
	PagesReadDelta   int
	ReadingTimeDelta int
	AutoComplete     bool
}

// Percent derives the whole-number progress percentage. A book without a
// known page count reports 0 rather than an error or NaN.
func Percent(currentPage, pageCount int) int {
	if pageCount <= 0 {
		return 0
	}
	pct := int(math.Round(float64(currentPage) / float64(pageCount) * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Speed derives pages per hour from the accumulators.
func Speed(pagesRead, totalReadingTime int) float64 {
	if totalReadingTime <= 0 {
		return 0
	}
	return float64(pagesRead) / (float64(totalReadingTime) / 3600)
}

// ApplyProgress resolves one progress report against the session.
// pageCount may be 0 when the catalog does not know the book's length;
// the target page is then accepted as reported. Backward movement is
// allowed for the position but never reduces PagesRead.
func (s *Session) ApplyProgress(in ProgressInput, pageCount int, now time.Time) ProgressChange {
	target := s.CurrentPage
	switch {
	case in.CurrentPage != nil:
		target = *in.CurrentPage
	case in.PagesDelta != nil:
		target = s.CurrentPage + *in.PagesDelta
	}
	if target < s.StartPage {
		target = s.StartPage
	}
	if pageCount > 0 && target > pageCount {
		target = pageCount
	}

	change := ProgressChange{
		TargetPage:       target,
		ReadingTimeDelta: in.ReadingTime,
	}
	if d := target - s.CurrentPage; d > 0 {
		change.PagesReadDelta = d
	}

	s.CurrentPage = target
	s.Progress = Percent(target, pageCount)
	s.PagesRead += change.PagesReadDelta
	if in.ReadingTime > 0 {
		s.TotalReadingTime += in.ReadingTime
	}
	s.ReadingSpeed = Speed(s.PagesRead, s.TotalReadingTime)
	s.LastReadAt = now

	if in.Note != "" {
		s.AddNote(target, in.Note, now)
	}

	change.Progress = s.Progress
	change.AutoComplete = s.Progress >= CompletionThreshold
	return change
}

// Finish applies the terminal completion facts: progress is forced to 100
// and the position to the last page regardless of how far the reader
// actually got. PagesRead absorbs the final jump so downstream counters
// stay additive.
func (s *Session) Finish(pageCount, rating int, review string, now time.Time) {
	if pageCount > 0 {
		if d := pageCount - s.CurrentPage; d > 0 {
			s.PagesRead += d
		}
		s.CurrentPage = pageCount
	}
	s.Progress = 100
	s.Status = StatusCompleted
	s.EndTime = now
	s.LastReadAt = now
	s.ReadingSpeed = Speed(s.PagesRead, s.TotalReadingTime)
	if rating != 0 {
		s.FinalRating = rating
	}
	if review != "" {
		s.FinalReview = review
	}
}
