package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shelfmark/internal/modules/session/domain"
	sessionout "shelfmark/internal/modules/session/port/out"
	"shelfmark/internal/platform/markdown"
	"shelfmark/internal/platform/slug"
)

// JournalStore writes each completed session as a markdown note with
// YAML frontmatter under <journalPath>/<year>/<month>/.
type JournalStore struct {
	journalPath string
}

var _ sessionout.Journal = (*JournalStore)(nil)

func NewJournalStore(journalPath string) *JournalStore {
	return &JournalStore{journalPath: journalPath}
}

func (s *JournalStore) Export(_ context.Context, session domain.Session, bookTitle string, completedAt time.Time) (string, error) {
	dir := filepath.Join(s.journalPath, completedAt.Format("2006"), completedAt.Format("01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", completedAt.Format("20060102-150405"), slug.Make(bookTitle))
	path := filepath.Join(dir, name)

	meta := map[string]any{
		"schema_version": domain.SchemaVersion,
		"id":             session.ID,
		"book_id":        session.BookID,
		"book_title":     bookTitle,
		"started_at":     session.StartTime.Format(timeLayout),
		"completed_at":   completedAt.Format(timeLayout),
		"pages_read":     session.PagesRead,
		"reading_time":   session.TotalReadingTime,
		"reading_speed":  session.ReadingSpeed,
		"session_count":  session.SessionCount,
		"rating":         session.FinalRating,
	}
	rendered, err := markdown.RenderFrontmatter(meta, s.body(session, bookTitle))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func (s *JournalStore) body(session domain.Session, bookTitle string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", bookTitle)
	fmt.Fprintf(&b, "- Pages read: %d\n", session.PagesRead)
	fmt.Fprintf(&b, "- Reading time: %s\n", (time.Duration(session.TotalReadingTime) * time.Second).String())
	fmt.Fprintf(&b, "- Sittings: %d\n", session.SessionCount)
	if session.FinalRating > 0 {
		fmt.Fprintf(&b, "- Rating: %d/5\n", session.FinalRating)
	}
	if session.FinalReview != "" {
		fmt.Fprintf(&b, "\n## Review\n\n%s\n", session.FinalReview)
	}
	if len(session.Notes) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, n := range session.Notes {
			fmt.Fprintf(&b, "- p.%d: %s\n", n.Page, n.Text)
		}
	}
	if len(session.Highlights) > 0 {
		b.WriteString("\n## Highlights\n\n")
		for _, h := range session.Highlights {
			fmt.Fprintf(&b, "- p.%d: %q\n", h.Page, h.Quote)
		}
	}
	return b.String()
}
