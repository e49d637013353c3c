package domain

import (
	"testing"
	"time"
)

func TestDayNormalizesToLocation(t *testing.T) {
	t.Parallel()
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 23:30 UTC on the 1st is already the 2nd in Tokyo.
	instant := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	if got := Day(instant, time.UTC); got != "2026-03-01" {
		t.Fatalf("utc day: got %s", got)
	}
	if got := Day(instant, tokyo); got != "2026-03-02" {
		t.Fatalf("tokyo day: got %s", got)
	}
}

func TestStreakAdvance(t *testing.T) {
	t.Parallel()
	var s Streak
	if !s.Advance("2026-03-01") {
		t.Fatalf("first activity must change state")
	}
	if s.Current != 1 || s.Longest != 1 {
		t.Fatalf("after first day: %+v", s)
	}
	if s.Advance("2026-03-01") {
		t.Fatalf("same day must be a no-op")
	}
	if !s.Advance("2026-03-02") || s.Current != 2 {
		t.Fatalf("consecutive day must extend: %+v", s)
	}
	if !s.Advance("2026-03-03") || s.Current != 3 || s.Longest != 3 {
		t.Fatalf("third day: %+v", s)
	}
	if !s.Advance("2026-03-10") {
		t.Fatalf("gap activity must change state")
	}
	if s.Current != 1 {
		t.Fatalf("gap must reset current to 1, got %d", s.Current)
	}
	if s.Longest != 3 {
		t.Fatalf("longest must survive the reset, got %d", s.Longest)
	}
}

func TestStreakAdvanceIgnoresStaleDay(t *testing.T) {
	t.Parallel()
	s := Streak{Current: 3, Longest: 3, LastDay: "2026-03-05"}
	if s.Advance("2026-03-01") {
		t.Fatalf("older day must not change state")
	}
	if s.Current != 3 || s.LastDay != "2026-03-05" {
		t.Fatalf("stale day must not reset the run: %+v", s)
	}
}

func TestStreakAdvanceAcrossMonthBoundary(t *testing.T) {
	t.Parallel()
	s := Streak{Current: 5, Longest: 5, LastDay: "2026-02-28"}
	if !s.Advance("2026-03-01") || s.Current != 6 {
		t.Fatalf("feb 28 -> mar 1 is consecutive: %+v", s)
	}
}

func TestStreakObserved(t *testing.T) {
	t.Parallel()
	s := Streak{Current: 4, Longest: 7, LastDay: "2026-03-05"}
	if got := s.Observed("2026-03-05"); got != 4 {
		t.Fatalf("same day: got %d", got)
	}
	if got := s.Observed("2026-03-06"); got != 4 {
		t.Fatalf("next day, streak still alive: got %d", got)
	}
	if got := s.Observed("2026-03-07"); got != 0 {
		t.Fatalf("two days later the run is broken: got %d", got)
	}
	if s.Current != 4 || s.LastDay != "2026-03-05" {
		t.Fatalf("Observed must not mutate state: %+v", s)
	}
}

func TestStreakObservedEmpty(t *testing.T) {
	t.Parallel()
	var s Streak
	if got := s.Observed("2026-03-05"); got != 0 {
		t.Fatalf("empty streak reads 0, got %d", got)
	}
}
