package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "shelfmark/internal/modules/catalog/dto"
	sessiondto "shelfmark/internal/modules/session/dto"
	shelfdto "shelfmark/internal/modules/shelf/dto"
	statsdto "shelfmark/internal/modules/stats/dto"
	"shelfmark/internal/ui/components"
	"shelfmark/internal/ui/theme"
	booksview "shelfmark/internal/ui/views/books"
	sessionsview "shelfmark/internal/ui/views/sessions"
	shelfview "shelfmark/internal/ui/views/shelf"
	statsview "shelfmark/internal/ui/views/stats"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type booksPort interface {
	ListBooks(ctx context.Context) ([]catalogdto.BookOutput, error)
	GetBook(ctx context.Context, id string) (catalogdto.BookOutput, error)
}

type sessionPort interface {
	Start(ctx context.Context, userID, bookID string, startPage int, viewed bool) (sessiondto.SessionOutput, error)
	UpdateProgress(ctx context.Context, input sessiondto.ProgressInput) (sessiondto.SessionOutput, error)
	Pause(ctx context.Context, userID, sessionID string) (sessiondto.SessionOutput, error)
	Resume(ctx context.Context, userID, sessionID string) (sessiondto.SessionOutput, error)
	Complete(ctx context.Context, userID, sessionID string, rating int, review string) (sessiondto.SessionOutput, error)
	Abandon(ctx context.Context, userID, sessionID string) (sessiondto.SessionOutput, error)
	Annotate(ctx context.Context, input sessiondto.AnnotateInput) (sessiondto.SessionOutput, error)
	Current(ctx context.Context, userID string) ([]sessiondto.SessionOutput, error)
}

type shelfPort interface {
	GetShelf(ctx context.Context, userID string) (shelfdto.ShelfOutput, error)
}

type statsPort interface {
	GetStats(ctx context.Context, userID string) (statsdto.StatsOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabBooks tabID = iota
	tabSessions
	tabShelf
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{
	"Books", "Sessions", "Shelf", "Stats",
}

// ─── async messages ───────────────────────────────────────────────────────────

type sessionChangedMsg struct {
	session sessiondto.SessionOutput
	verb    string
	err     error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Start    key.Binding
	Pause    key.Binding
	Resume   key.Binding
	Complete key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start reading")),
		Pause:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Resume:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Start},
		{k.Pause, k.Resume, k.Complete},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the global
// help overlay, and the command palette. All business logic is delegated
// to port interfaces; all rendering is delegated to sub-views.
type Model struct {
	userID string

	session sessionPort

	booksView    booksview.Model
	sessionsView sessionsview.Model
	shelfView    shelfview.Model
	statsView    statsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(userID string, books booksPort, session sessionPort, shelf shelfPort, stats statsPort) Model {
	return Model{
		userID:       userID,
		session:      session,
		booksView:    booksview.New(books),
		sessionsView: sessionsview.New(sessionPortBridge{p: session}, userID),
		shelfView:    shelfview.New(shelf, userID),
		statsView:    statsview.New(stats, userID),
		activeTab:    tabBooks,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.booksView.Init(),
		m.sessionsView.Init(),
		m.shelfView.Init(),
		m.statsView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case booksview.BooksLoadedMsg:
		if msg.Err == nil {
			titles := make(map[string]string, len(msg.Books))
			for _, b := range msg.Books {
				titles[b.ID] = b.Title
			}
			m.sessionsView.SetTitles(titles)
			m.shelfView.SetTitles(titles)
		}

	case sessionChangedMsg:
		if msg.err != nil {
			m.status = msg.verb + " failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("%s: book %s (%d%%)", msg.verb, msg.session.BookID, msg.session.Progress)
		if msg.session.JournalPath != "" {
			m.status += "  journal: " + msg.session.JournalPath
		}
		cmds = append(cmds, m.sessionsView.Reload(), m.shelfView.Reload(), m.statsView.Reload())
		return m, tea.Batch(cmds...)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "s":
			if m.activeTab == tabBooks {
				if id, ok := m.booksView.SelectedBookID(); ok {
					cmds = append(cmds, m.startCmd(id, 0))
				}
			}
		case "p":
			if m.activeTab == tabSessions {
				if s, ok := m.sessionsView.Selected(); ok {
					cmds = append(cmds, m.lifecycleCmd("paused", s.ID, m.session.Pause))
				}
			}
		case "r":
			if m.activeTab == tabSessions {
				if s, ok := m.sessionsView.Selected(); ok {
					cmds = append(cmds, m.lifecycleCmd("resumed", s.ID, m.session.Resume))
				}
			}
		case "c":
			if m.activeTab == tabSessions {
				if s, ok := m.sessionsView.Selected(); ok {
					cmds = append(cmds, m.completeCmd(s.ID, 0, ""))
				}
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabBooks:
		m.booksView, tabCmd = m.booksView.Update(msg)
	case tabSessions:
		m.sessionsView, tabCmd = m.sessionsView.Update(msg)
	case tabShelf:
		m.shelfView, tabCmd = m.shelfView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabBooks:
		return m.booksView.View()
	case tabSessions:
		return m.sessionsView.View()
	case tabShelf:
		return m.shelfView.View()
	case tabStats:
		return m.statsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "shelfmark  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := theme.Hot.Render("● "+m.userID) + "  " + m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	selectedSession := ""
	if s, ok := m.sessionsView.Selected(); ok {
		selectedSession = s.ID
	}

	switch parts[0] {
	case "session:start":
		bookID, ok := m.booksView.SelectedBookID()
		if !ok {
			m.status = "no book selected"
			return m, nil
		}
		page := 0
		if len(parts) >= 2 {
			if p, err := strconv.Atoi(parts[1]); err == nil {
				page = p
			}
		}
		return m, m.startCmd(bookID, page)

	case "session:page":
		if selectedSession == "" || len(parts) < 2 {
			m.status = "usage: session:page <n> (select a session first)"
			return m, nil
		}
		page, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid page"
			return m, nil
		}
		return m, m.progressCmd(sessiondto.ProgressInput{
			UserID:      m.userID,
			SessionID:   selectedSession,
			CurrentPage: &page,
		})

	case "session:read":
		if selectedSession == "" || len(parts) < 2 {
			m.status = "usage: session:read <pages> [minutes] (select a session first)"
			return m, nil
		}
		pages, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid page delta"
			return m, nil
		}
		seconds := 0
		if len(parts) >= 3 {
			if minutes, err := strconv.Atoi(parts[2]); err == nil {
				seconds = minutes * 60
			}
		}
		return m, m.progressCmd(sessiondto.ProgressInput{
			UserID:      m.userID,
			SessionID:   selectedSession,
			PagesDelta:  &pages,
			ReadingTime: seconds,
		})

	case "session:pause":
		if selectedSession == "" {
			m.status = "no session selected"
			return m, nil
		}
		return m, m.lifecycleCmd("paused", selectedSession, m.session.Pause)

	case "session:resume":
		if selectedSession == "" {
			m.status = "no session selected"
			return m, nil
		}
		return m, m.lifecycleCmd("resumed", selectedSession, m.session.Resume)

	case "session:complete":
		if selectedSession == "" {
			m.status = "no session selected"
			return m, nil
		}
		rating := 0
		review := ""
		if len(parts) >= 2 {
			if r, err := strconv.Atoi(parts[1]); err == nil {
				rating = r
				review = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), parts[0]+" "+parts[1]))
			}
		}
		return m, m.completeCmd(selectedSession, rating, review)

	case "session:abandon":
		if selectedSession == "" {
			m.status = "no session selected"
			return m, nil
		}
		return m, m.lifecycleCmd("abandoned", selectedSession, func(ctx context.Context, userID, sessionID string) (sessiondto.SessionOutput, error) {
			return m.session.Abandon(ctx, userID, sessionID)
		})

	case "session:note":
		if selectedSession == "" || len(parts) < 3 {
			m.status = "usage: session:note <page> <text> (select a session first)"
			return m, nil
		}
		page, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid page"
			return m, nil
		}
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), parts[0]+" "+parts[1]))
		return m, m.annotateCmd(sessiondto.AnnotateInput{
			UserID:    m.userID,
			SessionID: selectedSession,
			Kind:      "note",
			Page:      page,
			Text:      text,
		})

	case "shelf:show":
		m.activeTab = tabShelf
		return m, m.shelfView.Reload()

	case "stats:show":
		m.activeTab = tabStats
		return m, m.statsView.Reload()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabBooks:
		return m.booksView.Filtering()
	case tabSessions:
		return m.sessionsView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.booksView, _ = m.booksView.Update(sz)
	m.sessionsView, _ = m.sessionsView.Update(sz)
	m.shelfView, _ = m.shelfView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) startCmd(bookID string, page int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), m.userID, bookID, page, false)
		return sessionChangedMsg{session: out, verb: "started", err: err}
	}
}

func (m Model) progressCmd(input sessiondto.ProgressInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.UpdateProgress(context.Background(), input)
		verb := "progress"
		if err == nil && out.Status == "completed" {
			verb = "auto-completed"
		}
		return sessionChangedMsg{session: out, verb: verb, err: err}
	}
}

func (m Model) completeCmd(sessionID string, rating int, review string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Complete(context.Background(), m.userID, sessionID, rating, review)
		return sessionChangedMsg{session: out, verb: "completed", err: err}
	}
}

func (m Model) annotateCmd(input sessiondto.AnnotateInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Annotate(context.Background(), input)
		return sessionChangedMsg{session: out, verb: "annotated", err: err}
	}
}

func (m Model) lifecycleCmd(verb, sessionID string, op func(context.Context, string, string) (sessiondto.SessionOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := op(context.Background(), m.userID, sessionID)
		return sessionChangedMsg{session: out, verb: verb, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed
// by a specific sub-view.

type sessionPortBridge struct{ p sessionPort }

func (b sessionPortBridge) Current(ctx context.Context, userID string) ([]sessiondto.SessionOutput, error) {
	return b.p.Current(ctx, userID)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
