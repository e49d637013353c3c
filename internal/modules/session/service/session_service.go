package service

import (
	"context"
	"fmt"
	"strings"

	"shelfmark/internal/modules/session/domain"
	sessionout "shelfmark/internal/modules/session/port/out"
	"shelfmark/internal/platform/clock"
	apperrors "shelfmark/internal/platform/errors"
	"shelfmark/internal/platform/id"
)

// SessionService owns every status transition. Callers never mutate a
// session's status directly; legality is decided by the domain transition
// table and nothing else.
type SessionService struct {
	clock clock.Clock
	idGen id.Generator
	store sessionout.SessionStore
}

func NewSessionService(clock clock.Clock, idGen id.Generator, store sessionout.SessionStore) *SessionService {
	return &SessionService{clock: clock, idGen: idGen, store: store}
}

// Start opens a reading attempt. A second start for the same (user, book)
// returns the existing active session instead of creating a duplicate;
// a previously completed attempt refuses with ErrAlreadyCompleted.
func (s *SessionService) Start(ctx context.Context, userID, bookID string, startPage int, viewed bool) (domain.Session, bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(bookID) == "" {
		return domain.Session{}, false, fmt.Errorf("%w: user and book ids are required", apperrors.ErrInvalidInput)
	}
	if startPage < 0 {
		return domain.Session{}, false, fmt.Errorf("%w: start page must be non-negative", apperrors.ErrInvalidInput)
	}

	done, err := s.store.HasCompleted(ctx, userID, bookID)
	if err != nil {
		return domain.Session{}, false, err
	}
	if done {
		return domain.Session{}, false, fmt.Errorf("%w: book %s", apperrors.ErrAlreadyCompleted, bookID)
	}

	now := s.clock.Now()
	status := domain.StatusActive
	if viewed {
		status = domain.StatusViewed
	}
	session := domain.Session{
		ID:           s.idGen.New(),
		UserID:       userID,
		BookID:       bookID,
		Status:       status,
		StartTime:    now,
		LastReadAt:   now,
		StartPage:    startPage,
		CurrentPage:  startPage,
		SessionCount: 1,
	}
	if err := session.Validate(); err != nil {
		return domain.Session{}, false, err
	}
	return s.store.CreateActive(ctx, session)
}

// Pause suspends an active session. Pausing an already paused session is a
// no-op so retried requests succeed.
func (s *SessionService) Pause(ctx context.Context, userID, sessionID string) (domain.Session, error) {
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if session.Status == domain.StatusPaused {
		return session, nil
	}
	if session.Status != domain.StatusActive {
		return domain.Session{}, transitionErr(session.Status, domain.StatusPaused)
	}
	session.Status = domain.StatusPaused
	session.PausedAt = s.clock.Now()
	if err := s.store.Update(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Resume reopens a paused session and counts a new reading bout.
func (s *SessionService) Resume(ctx context.Context, userID, sessionID string) (domain.Session, error) {
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if session.Status == domain.StatusActive {
		return session, nil
	}
	if session.Status != domain.StatusPaused {
		return domain.Session{}, transitionErr(session.Status, domain.StatusActive)
	}
	session.Status = domain.StatusActive
	session.ResumedAt = s.clock.Now()
	session.SessionCount++
	if err := s.store.Update(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Complete finishes a session from active or paused. Progress is forced to
// 100 and the position to the last known page, whatever the reader actually
// reached. Completing a completed session is an idempotent no-op.
func (s *SessionService) Complete(ctx context.Context, userID, sessionID string, pageCount, rating int, review string) (domain.Session, bool, error) {
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return domain.Session{}, false, err
	}
	if session.Status == domain.StatusCompleted {
		return session, false, nil
	}
	if err := domain.CanTransition(session.Status, domain.StatusCompleted); err != nil {
		return domain.Session{}, false, err
	}
	if rating != 0 {
		if err := domain.ValidateRating(rating); err != nil {
			return domain.Session{}, false, err
		}
	}
	session.Finish(pageCount, rating, review, s.clock.Now())
	if err := s.store.Update(ctx, session); err != nil {
		return domain.Session{}, false, err
	}
	return session, true, nil
}

// Abandon terminates a session from any non-terminal status.
func (s *SessionService) Abandon(ctx context.Context, userID, sessionID string) (domain.Session, bool, error) {
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return domain.Session{}, false, err
	}
	if session.Status == domain.StatusAbandoned {
		return session, false, nil
	}
	if err := domain.CanTransition(session.Status, domain.StatusAbandoned); err != nil {
		return domain.Session{}, false, err
	}
	session.Status = domain.StatusAbandoned
	session.EndTime = s.clock.Now()
	if err := s.store.Update(ctx, session); err != nil {
		return domain.Session{}, false, err
	}
	return session, true, nil
}

// UpdateProgress applies one progress report. A viewed session upgrades to
// active on its first report; a paused session must be resumed first.
// Crossing the completion threshold finishes the session in the same call.
func (s *SessionService) UpdateProgress(ctx context.Context, userID, sessionID string, in domain.ProgressInput, pageCount int) (domain.Session, domain.ProgressChange, error) {
	if err := in.Validate(); err != nil {
		return domain.Session{}, domain.ProgressChange{}, err
	}
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return domain.Session{}, domain.ProgressChange{}, err
	}
	switch session.Status {
	case domain.StatusActive:
	case domain.StatusViewed:
		if err := domain.CanTransition(domain.StatusViewed, domain.StatusActive); err != nil {
			return domain.Session{}, domain.ProgressChange{}, err
		}
		session.Status = domain.StatusActive
	case domain.StatusPaused:
		return domain.Session{}, domain.ProgressChange{}, fmt.Errorf("%w: resume before reporting progress", apperrors.ErrInvalidState)
	default:
		return domain.Session{}, domain.ProgressChange{}, fmt.Errorf("%w: session is %s", apperrors.ErrSessionTerminal, session.Status)
	}

	change := session.ApplyProgress(in, pageCount, s.clock.Now())
	stored, err := s.store.ApplyProgress(ctx, session.ID, change, session)
	if err != nil {
		return domain.Session{}, domain.ProgressChange{}, err
	}

	if change.AutoComplete {
		stored.Finish(pageCount, 0, "", s.clock.Now())
		if err := s.store.Update(ctx, stored); err != nil {
			return domain.Session{}, domain.ProgressChange{}, err
		}
	}
	return stored, change, nil
}

// Annotate attaches a note, bookmark or highlight to a non-terminal session.
func (s *SessionService) Annotate(ctx context.Context, userID, sessionID, kind string, page int, text, quote, color string) (domain.Session, error) {
	if page < 0 {
		return domain.Session{}, fmt.Errorf("%w: page must be non-negative", apperrors.ErrInvalidInput)
	}
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if session.Status.Terminal() {
		return domain.Session{}, fmt.Errorf("%w: session is %s", apperrors.ErrSessionTerminal, session.Status)
	}
	now := s.clock.Now()
	switch kind {
	case "note":
		if strings.TrimSpace(text) == "" {
			return domain.Session{}, fmt.Errorf("%w: note text is required", apperrors.ErrInvalidInput)
		}
		session.AddNote(page, text, now)
	case "bookmark":
		session.SetBookmark(page, text, now)
	case "highlight":
		if strings.TrimSpace(quote) == "" {
			return domain.Session{}, fmt.Errorf("%w: highlight quote is required", apperrors.ErrInvalidInput)
		}
		session.AddHighlight(page, quote, color, text, now)
	default:
		return domain.Session{}, fmt.Errorf("%w: unknown annotation kind %q", apperrors.ErrInvalidInput, kind)
	}
	if err := s.store.Update(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Get returns a session the user owns.
func (s *SessionService) Get(ctx context.Context, userID, sessionID string) (domain.Session, error) {
	return s.owned(ctx, userID, sessionID)
}

// PurgeUser removes every session the user owns.
func (s *SessionService) PurgeUser(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	return s.store.DeleteByUser(ctx, userID)
}

func (s *SessionService) ListCurrent(ctx context.Context, userID string) ([]domain.Session, error) {
	return s.store.ListCurrent(ctx, userID)
}

func (s *SessionService) List(ctx context.Context, userID string, filter sessionout.ListFilter, offset, limit int) ([]domain.Session, error) {
	return s.store.List(ctx, userID, filter, offset, limit)
}

func (s *SessionService) owned(ctx context.Context, userID, sessionID string) (domain.Session, error) {
	session, err := s.store.FindByID(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if session.UserID != userID {
		return domain.Session{}, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	return session, nil
}

func transitionErr(from, to domain.Status) error {
	if from.Terminal() {
		return fmt.Errorf("%w: session is %s", apperrors.ErrSessionTerminal, from)
	}
	return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidState, from, to)
}
