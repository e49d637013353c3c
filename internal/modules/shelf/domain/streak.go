package domain

import "time"

const dayLayout = "2006-01-02"

// Day normalizes an instant to a calendar day in the reference timezone.
func Day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

// Streak counts consecutive calendar days with at least one qualifying
// reading activity. LastDay is a normalized Day value; empty means no
// activity recorded yet.
type Streak struct {
	Current int
	Longest int
	LastDay string
}

// Advance records qualifying activity on day and reports whether the
// streak state changed. Repeat calls for the same day are no-ops, so any
// number of activities within one day leaves the same state as one.
// Days older than the recorded last day are ignored; repair replays
// completions out of order and a stale day must not reset the run. The
// day layout sorts chronologically, so string comparison is enough.
func (s *Streak) Advance(day string) bool {
	if s.LastDay != "" && day < s.LastDay {
		return false
	}
	switch s.LastDay {
	case day:
		return false
	case "":
		s.Current = 1
	case previousDay(day):
		s.Current++
	default:
		s.Current = 1
	}
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	s.LastDay = day
	return true
}

// Observed reports the streak as seen on the given day: the stored run
// still counts while its last activity was today or yesterday, otherwise
// the run is broken and reads as zero. Stored state is untouched so a
// later activity can still restart the count.
func (s Streak) Observed(today string) int {
	if s.LastDay == today || s.LastDay == previousDay(today) {
		return s.Current
	}
	return 0
}

func previousDay(day string) string {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(dayLayout)
}
