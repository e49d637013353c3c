package shelf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	shelfdto "shelfmark/internal/modules/shelf/dto"
	"shelfmark/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ShelfPort interface {
	GetShelf(ctx context.Context, userID string) (shelfdto.ShelfOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ShelfLoadedMsg struct {
	Shelf shelfdto.ShelfOutput
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   ShelfPort
	userID string
	titles map[string]string
	shelf  shelfdto.ShelfOutput
	err    error
	body   viewport.Model
	width  int
	height int
}

func New(port ShelfPort, userID string) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)
	return Model{port: port, userID: userID, titles: map[string]string{}, body: vp}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// SetTitles maps book ids to display titles.
func (m *Model) SetTitles(titles map[string]string) {
	for id, title := range titles {
		m.titles[id] = title
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = m.width - 4
		m.body.Height = m.height - 2

	case ShelfLoadedMsg:
		m.shelf = msg.Shelf
		m.err = msg.Err
		m.body.SetContent(m.render())
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(m.width - 2).
		Height(m.height - 2).
		Render(m.body.View())
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		shelf, err := m.port.GetShelf(context.Background(), m.userID)
		return ShelfLoadedMsg{Shelf: shelf, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) render() string {
	if m.err != nil {
		return theme.Muted.Render("shelf unavailable: " + m.err.Error())
	}
	s := m.shelf
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Shelf — "+s.UserID) + "\n\n")

	sb.WriteString(theme.Hot.Render("Reading now") + "\n")
	if len(s.CurrentlyReading) == 0 {
		sb.WriteString(theme.Muted.Render("  nothing on the go") + "\n")
	}
	for _, ref := range s.CurrentlyReading {
		sb.WriteString("  " + m.title(ref.BookID) + "\n")
	}

	sb.WriteString("\n" + theme.Hot.Render("Finished") + "\n")
	if len(s.FinishedBooks) == 0 {
		sb.WriteString(theme.Muted.Render("  none yet") + "\n")
	}
	for _, fb := range s.FinishedBooks {
		line := fmt.Sprintf("  %s  %s", m.title(fb.BookID), fb.FinishedAt.Format("2006-01-02"))
		if fb.Rating > 0 {
			line += "  " + strings.Repeat("★", fb.Rating)
		}
		sb.WriteString(line + "\n")
	}

	dur := (time.Duration(s.TotalReadingTime) * time.Second).Round(time.Minute)
	sb.WriteString("\n" + theme.Hot.Render("Totals") + "\n")
	sb.WriteString(fmt.Sprintf("  books: %d   pages: %d   time: %s\n", s.BooksRead, s.PagesRead, dur))
	sb.WriteString(fmt.Sprintf("  streak: %d day(s)   longest: %d   last read: %s\n",
		s.CurrentStreak, s.LongestStreak, orDash(s.LastReadingDate)))
	return sb.String()
}

func (m Model) title(bookID string) string {
	if t, ok := m.titles[bookID]; ok {
		return t
	}
	return bookID
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
