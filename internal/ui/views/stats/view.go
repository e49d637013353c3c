package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdto "shelfmark/internal/modules/stats/dto"
	"shelfmark/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type StatsPort interface {
	GetStats(ctx context.Context, userID string) (statsdto.StatsOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type StatsLoadedMsg struct {
	Stats statsdto.StatsOutput
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   StatsPort
	userID string
	stats  statsdto.StatsOutput
	err    error
	body   viewport.Model
	width  int
	height int
}

func New(port StatsPort, userID string) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)
	return Model{port: port, userID: userID, body: vp}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = m.width - 4
		m.body.Height = m.height - 2

	case StatsLoadedMsg:
		m.stats = msg.Stats
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
		stats, err := m.port.GetStats(context.Background(), m.userID)
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) render() string {
	if m.err != nil {
		return theme.Muted.Render("stats unavailable: " + m.err.Error())
	}
	s := m.stats
	var sb strings.Builder
	header := "Statistics — " + s.UserID
	if s.Stale {
		header += "  (stale, computed " + s.ComputedAt.Format("2006-01-02 15:04") + ")"
	}
	sb.WriteString(theme.Title.Render(header) + "\n\n")

	dur := (time.Duration(s.TotalReadingTime) * time.Second).Round(time.Minute)
	sb.WriteString(fmt.Sprintf("books completed: %d\n", s.BooksCompleted))
	sb.WriteString(fmt.Sprintf("pages read:      %d\n", s.PagesRead))
	sb.WriteString(fmt.Sprintf("reading time:    %s\n", dur))
	if s.AverageRating > 0 {
		sb.WriteString(fmt.Sprintf("average rating:  %.1f\n", s.AverageRating))
	}

	if len(s.TopGenres) > 0 {
		sb.WriteString("\n" + theme.Hot.Render("Top genres") + "\n")
		for _, g := range s.TopGenres {
			sb.WriteString(fmt.Sprintf("  %-24s %d\n", g.Name, g.Count))
		}
	}
	if len(s.TopAuthors) > 0 {
		sb.WriteString("\n" + theme.Hot.Render("Top authors") + "\n")
		for _, a := range s.TopAuthors {
			sb.WriteString(fmt.Sprintf("  %-24s %d\n", a.Name, a.Count))
		}
	}

	sb.WriteString("\n" + theme.Hot.Render("Goals") + "\n")
	sb.WriteString(goalLine("books this year ", s.YearlyBooks))
	sb.WriteString(goalLine("pages this year ", s.YearlyPages))
	sb.WriteString(goalLine("books this month", s.MonthlyBooks))
	sb.WriteString(goalLine("pages this month", s.MonthlyPages))
	return sb.String()
}

func goalLine(label string, g statsdto.GoalOutput) string {
	if g.Target <= 0 {
		return fmt.Sprintf("  %s  %s\n", label, "no goal set")
	}
	return fmt.Sprintf("  %s  %d/%d (%d%%)\n", label, g.Achieved, g.Target, g.Percent)
}
