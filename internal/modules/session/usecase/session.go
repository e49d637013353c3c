package usecase

import (
	"context"

	catalogin "shelfmark/internal/modules/catalog/port/in"
	"shelfmark/internal/modules/session/domain"
	"shelfmark/internal/modules/session/dto"
	"shelfmark/internal/modules/session/port/in"
	sessionout "shelfmark/internal/modules/session/port/out"
	shelfdto "shelfmark/internal/modules/shelf/dto"
	shelfin "shelfmark/internal/modules/shelf/port/in"
	"shelfmark/internal/platform/logger"
)

const defaultPerPage = 20

// SessionService is the lifecycle surface the interactor drives.
type SessionService interface {
	Start(ctx context.Context, userID, bookID string, startPage int, viewed bool) (domain.Session, bool, error)
	Get(ctx context.Context, userID, sessionID string) (domain.Session, error)
	Pause(ctx context.Context, userID, sessionID string) (domain.Session, error)
	Resume(ctx context.Context, userID, sessionID string) (domain.Session, error)
	Complete(ctx context.Context, userID, sessionID string, pageCount, rating int, review string) (domain.Session, bool, error)
	Abandon(ctx context.Context, userID, sessionID string) (domain.Session, bool, error)
	UpdateProgress(ctx context.Context, userID, sessionID string, in domain.ProgressInput, pageCount int) (domain.Session, domain.ProgressChange, error)
	Annotate(ctx context.Context, userID, sessionID, kind string, page int, text, quote, color string) (domain.Session, error)
	PurgeUser(ctx context.Context, userID string) error
	ListCurrent(ctx context.Context, userID string) ([]domain.Session, error)
	List(ctx context.Context, userID string, filter sessionout.ListFilter, offset, limit int) ([]domain.Session, error)
}

// Interactor coordinates the session service with the catalog (page
// counts, titles), the shelf synchronizer and the journal. Shelf and
// journal calls are fire-and-confirm: their failures are logged, never
// returned, and repair-on-read squares the shelf up later.
type Interactor struct {
	svc     SessionService
	catalog catalogin.Usecase
	shelf   shelfin.Usecase
	journal sessionout.Journal
	log     *logger.Logger
}

var _ in.Usecase = (*Interactor)(nil)

func NewInteractor(svc SessionService, catalog catalogin.Usecase, shelf shelfin.Usecase, journal sessionout.Journal, log *logger.Logger) *Interactor {
	return &Interactor{svc: svc, catalog: catalog, shelf: shelf, journal: journal, log: log}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error) {
	if _, err := i.catalog.GetBook(ctx, input.BookID); err != nil {
		return dto.SessionOutput{}, err
	}
	session, created, err := i.svc.Start(ctx, input.UserID, input.BookID, input.StartPage, input.Viewed)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	if created {
		i.notifyStarted(ctx, session)
	}
	return toOutput(session), nil
}

func (i *Interactor) UpdateProgress(ctx context.Context, input dto.ProgressInput) (dto.SessionOutput, error) {
	session, err := i.svc.Get(ctx, input.UserID, input.SessionID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	book, err := i.catalog.GetBook(ctx, session.BookID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	progress := domain.ProgressInput{
		CurrentPage: input.CurrentPage,
		PagesDelta:  input.PagesDelta,
		ReadingTime: input.ReadingTime,
		Note:        input.Note,
	}
	updated, change, err := i.svc.UpdateProgress(ctx, input.UserID, input.SessionID, progress, book.PageCount)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	out := toOutput(updated)
	if change.AutoComplete {
		out.JournalPath = i.exportJournal(ctx, updated, book.Title)
		i.notifyCompleted(ctx, updated)
	} else {
		i.notifyActivity(ctx, updated)
	}
	return out, nil
}

func (i *Interactor) Pause(ctx context.Context, userID, sessionID string) (dto.SessionOutput, error) {
	session, err := i.svc.Pause(ctx, userID, sessionID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	i.notifyActivity(ctx, session)
	return toOutput(session), nil
}

func (i *Interactor) Resume(ctx context.Context, userID, sessionID string) (dto.SessionOutput, error) {
	session, err := i.svc.Resume(ctx, userID, sessionID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	i.notifyActivity(ctx, session)
	return toOutput(session), nil
}

func (i *Interactor) Complete(ctx context.Context, input dto.CompleteInput) (dto.SessionOutput, error) {
	session, err := i.svc.Get(ctx, input.UserID, input.SessionID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	book, err := i.catalog.GetBook(ctx, session.BookID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	completed, changed, err := i.svc.Complete(ctx, input.UserID, input.SessionID, book.PageCount, input.Rating, input.Review)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	out := toOutput(completed)
	if changed {
		out.JournalPath = i.exportJournal(ctx, completed, book.Title)
		i.notifyCompleted(ctx, completed)
	}
	return out, nil
}

func (i *Interactor) Abandon(ctx context.Context, userID, sessionID string) (dto.SessionOutput, error) {
	session, changed, err := i.svc.Abandon(ctx, userID, sessionID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	if changed {
		i.notifyActivity(ctx, session)
	}
	return toOutput(session), nil
}

func (i *Interactor) Annotate(ctx context.Context, input dto.AnnotateInput) (dto.SessionOutput, error) {
	session, err := i.svc.Annotate(ctx, input.UserID, input.SessionID, input.Kind, input.Page, input.Text, input.Quote, input.Color)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

// PurgeUser cascades whole-account deletion: sessions go first, then the
// shelf aggregate. Unlike shelf event sync this surfaces failures, since a
// half-done purge leaves user data behind.
func (i *Interactor) PurgeUser(ctx context.Context, userID string) error {
	if err := i.svc.PurgeUser(ctx, userID); err != nil {
		return err
	}
	return i.shelf.OnUserPurged(ctx, userID)
}

func (i *Interactor) GetCurrentSessions(ctx context.Context, userID string) ([]dto.SessionOutput, error) {
	sessions, err := i.svc.ListCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toOutputs(sessions), nil
}

func (i *Interactor) GetHistory(ctx context.Context, input dto.HistoryInput) ([]dto.SessionOutput, error) {
	if input.Filter.Status != "" {
		if err := domain.Status(input.Filter.Status).Validate(); err != nil {
			return nil, err
		}
	}
	perPage := input.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	page := input.Page
	if page < 1 {
		page = 1
	}
	filter := sessionout.ListFilter{
		BookID: input.Filter.BookID,
		Status: domain.Status(input.Filter.Status),
	}
	sessions, err := i.svc.List(ctx, input.UserID, filter, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	return toOutputs(sessions), nil
}

func (i *Interactor) notifyStarted(ctx context.Context, session domain.Session) {
	err := i.shelf.OnSessionStarted(ctx, shelfdto.SessionStarted{
		UserID: session.UserID,
		BookID: session.BookID,
		At:     session.StartTime,
	})
	if err != nil {
		i.log.Warn("shelf sync failed on start", "session", session.ID, "err", err)
	}
}

func (i *Interactor) notifyCompleted(ctx context.Context, session domain.Session) {
	err := i.shelf.OnSessionCompleted(ctx, shelfdto.SessionCompleted{
		UserID:      session.UserID,
		BookID:      session.BookID,
		Rating:      session.FinalRating,
		PagesRead:   session.PagesRead,
		ReadingTime: session.TotalReadingTime,
		At:          session.EndTime,
	})
	if err != nil {
		i.log.Warn("shelf sync failed on completion", "session", session.ID, "err", err)
	}
}

func (i *Interactor) notifyActivity(ctx context.Context, session domain.Session) {
	err := i.shelf.OnActivity(ctx, shelfdto.SessionActivity{
		UserID: session.UserID,
		At:     session.LastReadAt,
	})
	if err != nil {
		i.log.Warn("shelf sync failed on activity", "session", session.ID, "err", err)
	}
}

func (i *Interactor) exportJournal(ctx context.Context, session domain.Session, bookTitle string) string {
	path, err := i.journal.Export(ctx, session, bookTitle, session.EndTime)
	if err != nil {
		i.log.Warn("journal export failed", "session", session.ID, "err", err)
		return ""
	}
	return path
}

func toOutputs(sessions []domain.Session) []dto.SessionOutput {
	outs := make([]dto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		outs = append(outs, toOutput(s))
	}
	return outs
}

func toOutput(s domain.Session) dto.SessionOutput {
	out := dto.SessionOutput{
		ID:               s.ID,
		UserID:           s.UserID,
		BookID:           s.BookID,
		Status:           string(s.Status),
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
		LastReadAt:       s.LastReadAt,
		StartPage:        s.StartPage,
		CurrentPage:      s.CurrentPage,
		Progress:         s.Progress,
		TotalReadingTime: s.TotalReadingTime,
		PagesRead:        s.PagesRead,
		SessionCount:     s.SessionCount,
		ReadingSpeed:     s.ReadingSpeed,
		FinalRating:      s.FinalRating,
		FinalReview:      s.FinalReview,
	}
	for _, n := range s.Notes {
		out.Notes = append(out.Notes, dto.NoteOutput{Page: n.Page, Text: n.Text})
	}
	for _, b := range s.Bookmarks {
		out.Bookmarks = append(out.Bookmarks, dto.BookmarkOutput{Page: b.Page, Text: b.Text})
	}
	for _, h := range s.Highlights {
		out.Highlights = append(out.Highlights, dto.HighlightOutput{Page: h.Page, Quote: h.Quote, Color: h.Color})
	}
	return out
}
