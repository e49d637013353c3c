package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "shelfmark/internal/platform/errors"
)

func TestCanTransitionTable(t *testing.T) {
	t.Parallel()
	cases := []struct {
		from, to Status
		wantErr  error
	}{
		{StatusViewed, StatusActive, nil},
		{StatusViewed, StatusAbandoned, nil},
		{StatusViewed, StatusCompleted, apperrors.ErrInvalidState},
		{StatusViewed, StatusPaused, apperrors.ErrInvalidState},
		{StatusActive, StatusPaused, nil},
		{StatusActive, StatusCompleted, nil},
		{StatusActive, StatusAbandoned, nil},
		{StatusActive, StatusViewed, apperrors.ErrInvalidState},
		{StatusPaused, StatusActive, nil},
		{StatusPaused, StatusCompleted, nil},
		{StatusPaused, StatusAbandoned, nil},
		{StatusCompleted, StatusActive, apperrors.ErrSessionTerminal},
		{StatusCompleted, StatusAbandoned, apperrors.ErrSessionTerminal},
		{StatusAbandoned, StatusActive, apperrors.ErrSessionTerminal},
		{StatusAbandoned, StatusCompleted, apperrors.ErrSessionTerminal},
	}
	for _, tc := range cases {
		err := CanTransition(tc.from, tc.to)
		if tc.wantErr == nil {
			if err != nil {
				t.Fatalf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
			}
			continue
		}
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s -> %s: got %v, want %v", tc.from, tc.to, err, tc.wantErr)
		}
	}
}

func TestCanTransitionSelfIsNoOpEvenWhenTerminal(t *testing.T) {
	t.Parallel()
	for _, status := range []Status{StatusViewed, StatusActive, StatusPaused, StatusCompleted, StatusAbandoned} {
		if err := CanTransition(status, status); err != nil {
			t.Fatalf("%s -> %s: expected no-op, got %v", status, status, err)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	t.Parallel()
	if !StatusCompleted.Terminal() || !StatusAbandoned.Terminal() {
		t.Fatalf("completed and abandoned must be terminal")
	}
	if StatusActive.Terminal() || StatusPaused.Terminal() || StatusViewed.Terminal() {
		t.Fatalf("live statuses must not be terminal")
	}
}

func TestValidateRating(t *testing.T) {
	t.Parallel()
	for _, rating := range []int{1, 3, 5} {
		if err := ValidateRating(rating); err != nil {
			t.Fatalf("rating %d: %v", rating, err)
		}
	}
	for _, rating := range []int{0, -1, 6} {
		if !errors.Is(ValidateRating(rating), apperrors.ErrInvalidInput) {
			t.Fatalf("rating %d must be rejected", rating)
		}
	}
}

func TestSetBookmarkReplacesExistingPage(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := Session{}
	s.SetBookmark(10, "first", now)
	s.SetBookmark(20, "other", now)
	s.SetBookmark(10, "second", now.Add(time.Minute))
	if len(s.Bookmarks) != 2 {
		t.Fatalf("expected one bookmark per page, got %d", len(s.Bookmarks))
	}
	if s.Bookmarks[0].Text != "second" {
		t.Fatalf("expected replaced bookmark text, got %q", s.Bookmarks[0].Text)
	}
}

func TestAddHighlightDefaultsColor(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := Session{}
	s.AddHighlight(5, "a quote", "", "", now)
	s.AddHighlight(6, "another", "green", "remark", now)
	if s.Highlights[0].Color != "yellow" {
		t.Fatalf("expected default color yellow, got %q", s.Highlights[0].Color)
	}
	if s.Highlights[1].Color != "green" {
		t.Fatalf("expected explicit color kept, got %q", s.Highlights[1].Color)
	}
}

func TestSessionValidate(t *testing.T) {
	t.Parallel()
	good := Session{ID: "s1", UserID: "u1", BookID: "b1", Status: StatusActive, StartPage: 5, CurrentPage: 10, Progress: 4}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}
	bad := good
	bad.CurrentPage = 2
	if !errors.Is(bad.Validate(), apperrors.ErrInvalidInput) {
		t.Fatalf("current page before start page must be rejected")
	}
	bad = good
	bad.Status = "reading"
	if !errors.Is(bad.Validate(), apperrors.ErrInvalidInput) {
		t.Fatalf("unknown status must be rejected")
	}
}
