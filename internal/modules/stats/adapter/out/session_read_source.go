package out

import (
	"context"
	"errors"

	catalogin "shelfmark/internal/modules/catalog/port/in"
	sessionout "shelfmark/internal/modules/session/port/out"
	"shelfmark/internal/modules/stats/domain"
	statsout "shelfmark/internal/modules/stats/port/out"
	apperrors "shelfmark/internal/platform/errors"
)

// SessionReadSource joins completed sessions with catalog metadata.
// A book deleted from the catalog still counts; its authors and genres
// just drop out of the favorites.
type SessionReadSource struct {
	sessions sessionout.SessionStore
	catalog  catalogin.Usecase
}

var _ statsout.ReadSource = (*SessionReadSource)(nil)

func NewSessionReadSource(sessions sessionout.SessionStore, catalog catalogin.Usecase) *SessionReadSource {
	return &SessionReadSource{sessions: sessions, catalog: catalog}
}

func (s *SessionReadSource) CompletedReads(ctx context.Context, userID string) ([]domain.CompletedRead, error) {
	completed, err := s.sessions.ListCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}
	reads := make([]domain.CompletedRead, 0, len(completed))
	for _, session := range completed {
		read := domain.CompletedRead{
			BookID:      session.BookID,
			CompletedAt: session.EndTime,
			Rating:      session.FinalRating,
			PagesRead:   session.PagesRead,
			ReadingTime: session.TotalReadingTime,
		}
		book, err := s.catalog.GetBook(ctx, session.BookID)
		switch {
		case err == nil:
			read.Authors = book.Authors
			read.Genres = book.Genres
		case !errors.Is(err, apperrors.ErrNotFound):
			return nil, err
		}
		reads = append(reads, read)
	}
	return reads, nil
}
