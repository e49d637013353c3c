package sessions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "shelfmark/internal/modules/session/dto"
	"shelfmark/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionsPort interface {
	Current(ctx context.Context, userID string) ([]sessiondto.SessionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SessionsLoadedMsg struct {
	Sessions []sessiondto.SessionOutput
	Err      error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session sessiondto.SessionOutput
	title   string
}

func (i sessionItem) Title() string {
	if i.title != "" {
		return i.title
	}
	return i.session.BookID
}

func (i sessionItem) Description() string {
	s := i.session
	dur := (time.Duration(s.TotalReadingTime) * time.Second).Round(time.Minute)
	return fmt.Sprintf("%s  p.%d  %d%%  %s", s.Status, s.CurrentPage, s.Progress, dur)
}

func (i sessionItem) FilterValue() string { return i.Title() }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   SessionsPort
	userID string
	titles map[string]string
	list   list.Model
	width  int
	height int
}

func New(port SessionsPort, userID string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Sessions"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return Model{port: port, userID: userID, titles: map[string]string{}, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// SetTitles maps book ids to display titles for the session list.
func (m *Model) SetTitles(titles map[string]string) {
	for id, title := range titles {
		m.titles[id] = title
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)

	case SessionsLoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Sessions — " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Sessions"
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{session: s, title: m.titles[s.BookID]}
		}
		cmds = append(cmds, m.list.SetItems(items))
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		hint := theme.Muted.Render("No open sessions. Start one from the Books tab with s.")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, hint)
	}
	return m.list.View()
}

// Selected returns the highlighted session, if any.
func (m Model) Selected() (sessiondto.SessionOutput, bool) {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.session, true
	}
	return sessiondto.SessionOutput{}, false
}

// SelectedLabel returns a short label for the highlighted session.
func (m Model) SelectedLabel() string {
	item, ok := m.list.SelectedItem().(sessionItem)
	if !ok {
		return ""
	}
	label := item.Title()
	return strings.TrimSpace(label)
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.port.Current(context.Background(), m.userID)
		return SessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}
