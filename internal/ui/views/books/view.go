package books

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "shelfmark/internal/modules/catalog/dto"
	"shelfmark/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type BooksPort interface {
	ListBooks(ctx context.Context) ([]catalogdto.BookOutput, error)
	GetBook(ctx context.Context, id string) (catalogdto.BookOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type BooksLoadedMsg struct {
	Books []catalogdto.BookOutput
	Err   error
}

type DetailLoadedMsg struct {
	Book catalogdto.BookOutput
	Err  error
}

// ─── list item ───────────────────────────────────────────────────────────────

type bookItem struct {
	book catalogdto.BookOutput
}

func (i bookItem) Title() string { return i.book.Title }
func (i bookItem) Description() string {
	desc := strings.Join(i.book.Authors, ", ")
	if i.book.PageCount > 0 {
		desc = fmt.Sprintf("%s  %dp", desc, i.book.PageCount)
	}
	return desc
}
func (i bookItem) FilterValue() string { return i.book.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    BooksPort
	list    list.Model
	detail  catalogdto.BookOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port BooksPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Books"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadBooksCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case BooksLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Books — " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Books))
		for i, b := range msg.Books {
			items[i] = bookItem{book: b}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Books) > 0 {
			cmds = append(cmds, m.loadDetailCmd(msg.Books[0].ID))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Book
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(bookItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.book.ID))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading books…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedBookID returns the current selection's book ID, if any.
func (m Model) SelectedBookID() (string, bool) {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return item.book.ID, true
	}
	return "", false
}

// SelectedBookTitle returns the current selection's title.
func (m Model) SelectedBookTitle() string {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return item.book.Title
	}
	return ""
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Reload refreshes the book list.
func (m Model) Reload() tea.Cmd {
	return m.loadBooksCmd()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	b := m.detail
	if b.ID == "" {
		return theme.Muted.Render("Select a book to see details")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(b.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:      ") + b.ID + "\n")
	if len(b.Authors) > 0 {
		sb.WriteString(theme.Muted.Render("authors: ") + strings.Join(b.Authors, ", ") + "\n")
	}
	if len(b.Genres) > 0 {
		sb.WriteString(theme.Muted.Render("genres:  ") + strings.Join(b.Genres, ", ") + "\n")
	}
	if b.PageCount > 0 {
		sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("pages:   "), b.PageCount))
	} else {
		sb.WriteString(theme.Muted.Render("pages:   ") + "unknown\n")
	}
	sb.WriteString(theme.Muted.Render("source:  ") + b.Source + "\n")
	if b.FilePath != "" {
		sb.WriteString(theme.Muted.Render("file:    ") + b.FilePath + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("s: start reading"))
	return sb.String()
}

func (m Model) loadBooksCmd() tea.Cmd {
	return func() tea.Msg {
		books, err := m.port.ListBooks(context.Background())
		return BooksLoadedMsg{Books: books, Err: err}
	}
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		book, err := m.port.GetBook(context.Background(), id)
		return DetailLoadedMsg{Book: book, Err: err}
	}
}
