package domain

import "time"

// BookRef is a shelf membership entry for a book the user is reading.
type BookRef struct {
	BookID  string
	AddedAt time.Time
}

// FinishedBook records a completed read with its final session numbers.
type FinishedBook struct {
	BookID      string
	FinishedAt  time.Time
	Rating      int
	PagesRead   int
	ReadingTime int
}

// Stats holds the shelf's running counters. Counters grow by each
// completed session's own final deltas, never by recomputation.
type Stats struct {
	BooksRead        int
	PagesRead        int
	TotalReadingTime int
	Streak           Streak
}

// UserShelf is the per-user aggregate kept in sync with session state.
type UserShelf struct {
	UserID           string
	CurrentlyReading []BookRef
	FinishedBooks    []FinishedBook
	Stats            Stats
	UpdatedAt        time.Time
}

func NewUserShelf(userID string) UserShelf {
	return UserShelf{UserID: userID}
}

// StartReading adds the book to the currently-reading set. Re-adding an
// existing member is a no-op so replayed start events converge.
func (s *UserShelf) StartReading(bookID string, now time.Time) bool {
	if s.IsReading(bookID) {
		return false
	}
	s.CurrentlyReading = append(s.CurrentlyReading, BookRef{BookID: bookID, AddedAt: now})
	s.UpdatedAt = now
	return true
}

// FinishReading moves the book to the finished list and advances the
// counters by the session's final deltas. A book already finished is left
// alone; replayed completion events must not double count.
func (s *UserShelf) FinishReading(fb FinishedBook, day string, now time.Time) bool {
	if s.HasFinished(fb.BookID) {
		s.RemoveReading(fb.BookID, now)
		return false
	}
	s.RemoveReading(fb.BookID, now)
	s.FinishedBooks = append(s.FinishedBooks, fb)
	s.Stats.BooksRead++
	s.Stats.PagesRead += fb.PagesRead
	s.Stats.TotalReadingTime += fb.ReadingTime
	s.Stats.Streak.Advance(day)
	s.UpdatedAt = now
	return true
}

// RecordActivity advances the streak for qualifying activity on day.
func (s *UserShelf) RecordActivity(day string, now time.Time) bool {
	changed := s.Stats.Streak.Advance(day)
	if changed {
		s.UpdatedAt = now
	}
	return changed
}

// RemoveReading drops the book from the currently-reading set.
func (s *UserShelf) RemoveReading(bookID string, now time.Time) bool {
	for i, ref := range s.CurrentlyReading {
		if ref.BookID == bookID {
			s.CurrentlyReading = append(s.CurrentlyReading[:i], s.CurrentlyReading[i+1:]...)
			s.UpdatedAt = now
			return true
		}
	}
	return false
}

func (s *UserShelf) IsReading(bookID string) bool {
	for _, ref := range s.CurrentlyReading {
		if ref.BookID == bookID {
			return true
		}
	}
	return false
}

func (s *UserShelf) HasFinished(bookID string) bool {
	for _, fb := range s.FinishedBooks {
		if fb.BookID == bookID {
			return true
		}
	}
	return false
}
