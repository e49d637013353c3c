package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shelfmark/internal/bootstrap"
	providerdto "shelfmark/internal/modules/provider/dto"
	sessiondto "shelfmark/internal/modules/session/dto"
	statsdto "shelfmark/internal/modules/stats/dto"
	"shelfmark/internal/platform/config"
	"shelfmark/internal/platform/identity"
	"shelfmark/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataPath string
	user     string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "shelfmark",
		Short:         "Reading session tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataPath, "data", defaultDataPath(), "data directory")
	root.PersistentFlags().StringVar(&flags.user, "user", "", "acting user id (overrides SHELFMARK_USER and config)")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "debug logging")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newBookCmd(flags))
	root.AddCommand(newStartCmd(flags))
	root.AddCommand(newProgressCmd(flags))
	root.AddCommand(newPauseCmd(flags))
	root.AddCommand(newResumeCmd(flags))
	root.AddCommand(newCompleteCmd(flags))
	root.AddCommand(newAbandonCmd(flags))
	root.AddCommand(newAnnotateCmd(flags))
	root.AddCommand(newSessionsCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newShelfCmd(flags))
	root.AddCommand(newStatsCmd(flags))
	root.AddCommand(newProviderCmd(flags))
	root.AddCommand(newPurgeCmd(flags))
	return root
}

func defaultDataPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.shelfmark"
	}
	return "."
}

func loadApp(flags *rootFlags) (*bootstrap.App, string, error) {
	if err := os.MkdirAll(flags.dataPath, 0o755); err != nil {
		return nil, "", fmt.Errorf("create data dir: %w", err)
	}
	cfg, err := config.New(flags.dataPath)
	if err != nil {
		return nil, "", err
	}
	user, err := identity.Resolve(flags.user, cfg.DefaultUser)
	if err != nil {
		return nil, "", err
	}
	log, err := logger.New(flags.verbose)
	if err != nil {
		return nil, "", err
	}
	app, err := bootstrap.New(cfg, log)
	if err != nil {
		return nil, "", err
	}
	return app, user, nil
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run shelfmark terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, user, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(user, app)
		},
	}
}

func newBookCmd(flags *rootFlags) *cobra.Command {
	book := &cobra.Command{Use: "book", Short: "Manage the book catalog"}

	var title, author, isbn, providerName, bookID string
	var authors, genres []string
	var pages int

	add := &cobra.Command{
		Use:   "add --title <title>",
		Short: "Add a book with manual metadata",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.CatalogCLI.AddBook(context.Background(), title, authors, genres, pages)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", out.Title, out.ID)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "book title")
	add.Flags().StringSliceVar(&authors, "authors", nil, "authors")
	add.Flags().StringSliceVar(&genres, "genres", nil, "genres")
	add.Flags().IntVar(&pages, "pages", 0, "page count (0 = unknown)")

	importCmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import a local PDF and count its pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.CatalogCLI.ImportFile(context.Background(), args[0], title, authors, genres)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s) pages=%d\n", out.Title, out.ID, out.PageCount)
			return nil
		},
	}
	importCmd.Flags().StringVar(&title, "title", "", "book title (defaults to file name)")
	importCmd.Flags().StringSliceVar(&authors, "authors", nil, "authors")
	importCmd.Flags().StringSliceVar(&genres, "genres", nil, "genres")

	lookup := &cobra.Command{
		Use:   "lookup --provider <name>",
		Short: "Look up metadata via a provider plugin and store the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(providerName) == "" {
				return fmt.Errorf("--provider is required")
			}
			app, _, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.CatalogCLI.Lookup(context.Background(), providerName, title, author, isbn)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stored %s (%s) pages=%d authors=%s\n",
				out.Title, out.ID, out.PageCount, strings.Join(out.Authors, ", "))
			return nil
		},
	}
	lookup.Flags().StringVar(&providerName, "provider", "", "provider name")
	lookup.Flags().StringVar(&title, "title", "", "title to search")
	lookup.Flags().StringVar(&author, "author", "", "author to search")
	lookup.Flags().StringVar(&isbn, "isbn", "", "isbn to search")

	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog books",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			books, err := app.CatalogCLI.ListBooks(context.Background())
			if err != nil {
				return err
			}
			if len(books) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no books")
				return nil
			}
			for _, b := range books {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%dp\n", b.ID, b.Title, strings.Join(b.Authors, ", "), b.PageCount)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show book details",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(bookID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, _, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			b, err := app.CatalogCLI.GetBook(context.Background(), bookID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\ntitle: %s\nauthors: %s\ngenres: %s\npages: %d\nsource: %s\nfile: %s\n",
				b.ID, b.Title, strings.Join(b.Authors, ", "), strings.Join(b.Genres, ", "), b.PageCount, b.Source, b.FilePath)
			return nil
		},
	}
	show.Flags().StringVar(&bookID, "id", "", "book id")

	book.AddCommand(add, importCmd, lookup, list, show)
	return book
}

func newStartCmd(flags *rootFlags) *cobra.Command {
	var bookID string
	var page int
	var viewed bool
	start := &cobra.Command{
		Use:   "start --book-id <id>",
		Short: "Start reading a book",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(bookID) == "" {
				return fmt.Errorf("--book-id is required")
			}
			app, user, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.Start(context.Background(), user, bookID, page, viewed)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s: book=%s status=%s page=%d\n", out.ID, out.BookID, out.Status, out.CurrentPage)
			return nil
		},
	}
	start.Flags().StringVar(&bookID, "book-id", "", "book id")
	start.Flags().IntVar(&page, "page", 0, "starting page")
	start.Flags().BoolVar(&viewed, "viewed", false, "record a preview instead of active reading")
	return start
}

func newProgressCmd(flags *rootFlags) *cobra.Command {
	var sessionID, note string
	var page, pages, minutes int
	progress := &cobra.Command{
		Use:   "progress --session-id <id>",
		Short: "Report reading progress",
		Long:  "Report progress by absolute page (--page) or pages read since the last report (--pages), optionally with reading time and a page-anchored note.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(sessionID) == "" {
				return fmt.Errorf("--session-id is required")
			}
			app, user, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			input := sessiondto.ProgressInput{
				UserID:      user,
				SessionID:   sessionID,
				ReadingTime: minutes * 60,
				Note:        note,
			}
			if cmd.Flags().Changed("page") {
				input.CurrentPage = &page
			}
			if cmd.Flags().Changed("pages") {
				input.PagesDelta = &pages
			}
			out, err := app.SessionCLI.UpdateProgress(context.Background(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s: page=%d progress=%d%% speed=%.1fp/h status=%s\n",
				out.ID, out.CurrentPage, out.Progress, out.ReadingSpeed, out.Status)
			if out.JournalPath != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "journal: %s\n", out.JournalPath)
			}
			return nil
		},
	}
	progress.Flags().StringVar(&sessionID, "session-id", "", "session id")
	progress.Flags().IntVar(&page, "page", 0, "absolute current page")
	progress.Flags().IntVar(&pages, "pages", 0, "pages read since last report")
	progress.Flags().IntVar(&minutes, "minutes", 0, "reading time in minutes")
	progress.Flags().StringVar(&note, "note", "", "note anchored at the reported page")
	return progress
}

func newPauseCmd(flags *rootFlags) *cobra.Command {
	var sessionID string
	pause := &cobra.Command{
		Use:   "pause --session-id <id>",
		Short: "Pause an active session",
		RunE:  lifecycleRunE(flags, &sessionID, "paused", func(app *bootstrap.App, ctx context.Context, user, id string) (sessiondto.SessionOutput, error) {
			return app.SessionCLI.Pause(ctx, user, id)
		}),
	}
	pause.Flags().StringVar(&sessionID, "session-id", "", "session id")
	return pause
}

func newResumeCmd(flags *rootFlags) *cobra.Command {
	var sessionID string
	resume := &cobra.Command{
		Use:   "resume --session-id <id>",
		Short: "Resume a paused session",
		RunE:  lifecycleRunE(flags, &sessionID, "resumed", func(app *bootstrap.App, ctx context.Context, user, id string) (sessiondto.SessionOutput, error) {
			return app.SessionCLI.Resume(ctx, user, id)
		}),
	}
	resume.Flags().StringVar(&sessionID, "session-id", "", "session id")
	return resume
}

func newAbandonCmd(flags *rootFlags) *cobra.Command {
	var sessionID string
	abandon := &cobra.Command{
		Use:   "abandon --session-id <id>",
		Short: "Abandon a session",
		RunE:  lifecycleRunE(flags, &sessionID, "abandoned", func(app *bootstrap.App, ctx context.Context, user, id string) (sessiondto.SessionOutput, error) {
			return app.SessionCLI.Abandon(ctx, user, id)
		}),
	}
	abandon.Flags().StringVar(&sessionID, "session-id", "", "session id")
	return abandon
}

func lifecycleRunE(flags *rootFlags, sessionID *string, verb string, op func(*bootstrap.App, context.Context, string, string) (sessiondto.SessionOutput, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if strings.TrimSpace(*sessionID) == "" {
			return fmt.Errorf("--session-id is required")
		}
		app, user, err := loadApp(flags)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()
		out, err := op(app, context.Background(), user, *sessionID)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s %s (status=%s)\n", out.ID, verb, out.Status)
		return nil
	}
}

func newCompleteCmd(flags *rootFlags) *cobra.Command {
	var sessionID, review string
	var rating int
	complete := &cobra.Command{
		Use:   "complete --session-id <id>",
		Short: "Complete a session, optionally with a rating and review",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(sessionID) == "" {
				return fmt.Errorf("--session-id is required")
			}
			app, user, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.Complete(context.Background(), user, sessionID, rating, review)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s completed: pages=%d time=%s speed=%.1fp/h\n",
				out.ID, out.PagesRead, (time.Duration(out.TotalReadingTime) * time.Second).String(), out.ReadingSpeed)
			if out.JournalPath != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "journal: %s\n", out.JournalPath)
			}
			return nil
		},
	}
	complete.Flags().StringVar(&sessionID, "session-id", "", "session id")
	complete.Flags().IntVar(&rating, "rating", 0, "rating 1-5 (0 = unrated)")
	complete.Flags().StringVar(&review, "review", "", "final review text")
	return complete
}

func newAnnotateCmd(flags *rootFlags) *cobra.Command {
	var sessionID, kind, text, quote, color string
	var page int
	annotate := &cobra.Command{
		Use:   "annotate --session-id <id> --kind <note|bookmark|highlight>",
		Short: "Attach a note, bookmark or highlight to a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(sessionID) == "" {
				return fmt.Errorf("--session-id is required")
			}
			app, user, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.Annotate(context.Background(), sessiondto.AnnotateInput{
				UserID:    user,
				SessionID: sessionID,
				Kind:      kind,
				Page:      page,
				Text:      text,
				Quote:     quote,
				Color:     color,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s: notes=%d bookmarks=%d highlights=%d\n",
				out.ID, len(out.Notes), len(out.Bookmarks), len(out.Highlights))
			return nil
		},
	}
	annotate.Flags().StringVar(&sessionID, "session-id", "", "session id")
	annotate.Flags().StringVar(&kind, "kind", "note", "annotation kind: note|bookmark|highlight")
	annotate.Flags().IntVar(&page, "page", 0, "page the annotation anchors to")
	annotate.Flags().StringVar(&text, "text", "", "note or bookmark text")
	annotate.Flags().StringVar(&quote, "quote", "", "highlight quote")
	annotate.Flags().StringVar(&color, "color", "", "highlight color")
	return annotate
}

func newSessionsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List open sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, user, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			sessions, err := app.SessionCLI.Current(context.Background(), user)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no open sessions")
				return nil
			}
			printSessions(cmd, sessions)
			return nil
		},
	}
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var bookID, status string
	var page, perPage int
	history := &cobra.Command{
		Use:   "history",
		Short: "List past and present sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, user, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			sessions, err := app.SessionCLI.History(context.Background(), sessiondto.HistoryInput{
				UserID:  user,
				Filter:  sessiondto.HistoryFilter{BookID: bookID, Status: status},
				Page:    page,
				PerPage: perPage,
			})
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			printSessions(cmd, sessions)
			return nil
		},
	}
	history.Flags().StringVar(&bookID, "book-id", "", "filter by book")
	history.Flags().StringVar(&status, "status", "", "filter by status")
	history.Flags().IntVar(&page, "page", 1, "result page")
	history.Flags().IntVar(&perPage, "per-page", 20, "results per page")
	return history
}

func printSessions(cmd *cobra.Command, sessions []sessiondto.SessionOutput) {
	for _, s := range sessions {
		dur := (time.Duration(s.TotalReadingTime) * time.Second).Round(time.Minute)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tp.%d\t%d%%\t%s\n",
			s.ID, s.BookID, s.Status, s.CurrentPage, s.Progress, dur)
	}
}

func newPurgeCmd(flags *rootFlags) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all reading data for the acting user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("purge deletes every session and the shelf; pass --yes to confirm")
			}
			app, user, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if err := app.SessionCLI.Purge(context.Background(), user); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "purged all reading data for %s\n", user)
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "confirm deletion")
	return cmd
}

func newShelfCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shelf",
		Short: "Show the reading shelf",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, user, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			shelf, err := app.ShelfCLI.GetShelf(context.Background(), user)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "shelf for %s\n", shelf.UserID)
			_, _ = fmt.Fprintf(w, "reading now: %d\n", len(shelf.CurrentlyReading))
			for _, ref := range shelf.CurrentlyReading {
				_, _ = fmt.Fprintf(w, "  %s (since %s)\n", ref.BookID, ref.AddedAt.Format("2006-01-02"))
			}
			_, _ = fmt.Fprintf(w, "finished: %d\n", len(shelf.FinishedBooks))
			for _, fb := range shelf.FinishedBooks {
				line := fmt.Sprintf("  %s (%s)", fb.BookID, fb.FinishedAt.Format("2006-01-02"))
				if fb.Rating > 0 {
					line += fmt.Sprintf(" rating=%d", fb.Rating)
				}
				_, _ = fmt.Fprintln(w, line)
			}
			dur := (time.Duration(shelf.TotalReadingTime) * time.Second).Round(time.Minute)
			_, _ = fmt.Fprintf(w, "books=%d pages=%d time=%s\n", shelf.BooksRead, shelf.PagesRead, dur)
			_, _ = fmt.Fprintf(w, "streak=%d longest=%d last=%s\n", shelf.CurrentStreak, shelf.LongestStreak, shelf.LastReadingDate)
			return nil
		},
	}
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show reading statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, user, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			stats, err := app.StatsCLI.GetStats(context.Background(), user)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if stats.Stale {
				_, _ = fmt.Fprintf(w, "(stale: computed %s)\n", stats.ComputedAt.Format("2006-01-02 15:04"))
			}
			dur := (time.Duration(stats.TotalReadingTime) * time.Second).Round(time.Minute)
			_, _ = fmt.Fprintf(w, "books completed: %d\npages read: %d\nreading time: %s\n", stats.BooksCompleted, stats.PagesRead, dur)
			if stats.AverageRating > 0 {
				_, _ = fmt.Fprintf(w, "average rating: %.1f\n", stats.AverageRating)
			}
			if len(stats.TopGenres) > 0 {
				_, _ = fmt.Fprintln(w, "top genres:")
				for _, g := range stats.TopGenres {
					_, _ = fmt.Fprintf(w, "  %s (%d)\n", g.Name, g.Count)
				}
			}
			if len(stats.TopAuthors) > 0 {
				_, _ = fmt.Fprintln(w, "top authors:")
				for _, a := range stats.TopAuthors {
					_, _ = fmt.Fprintf(w, "  %s (%d)\n", a.Name, a.Count)
				}
			}
			printGoal(w, "yearly books", stats.YearlyBooks)
			printGoal(w, "yearly pages", stats.YearlyPages)
			printGoal(w, "monthly books", stats.MonthlyBooks)
			printGoal(w, "monthly pages", stats.MonthlyPages)
			return nil
		},
	}
}

func printGoal(w io.Writer, label string, g statsdto.GoalOutput) {
	if g.Target <= 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "%s: %d/%d (%d%%)\n", label, g.Achieved, g.Target, g.Percent)
}

func newProviderCmd(flags *rootFlags) *cobra.Command {
	provider := &cobra.Command{Use: "provider", Short: "Metadata provider plugins"}

	provider.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			providers, err := app.ProviderCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(providers) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no providers configured")
				return nil
			}
			for _, p := range providers {
				state := "disabled"
				if p.Enabled {
					state = "enabled"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", p.Name, p.Version, state, p.Binary)
			}
			return nil
		},
	})

	provider.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check provider binaries, checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			results, err := app.ProviderCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tbinary=%t\tchecksum=%t\tlifecycle=%t\t%s\n",
					r.Name, r.BinaryReachable, r.ChecksumValid, r.LifecycleOK, r.Error)
			}
			return nil
		},
	})

	var name string
	describe := &cobra.Command{
		Use:   "describe --name <provider>",
		Short: "Describe a provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			app, _, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.ProviderCLI.Describe(context.Background(), name)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "name: %s\nversion: %s\nsources: %s\n", out.Name, out.Version, strings.Join(out.Sources, ", "))
			return nil
		},
	}
	describe.Flags().StringVar(&name, "name", "", "provider name")

	var title, author, isbn string
	lookup := &cobra.Command{
		Use:   "lookup --name <provider>",
		Short: "Query a provider without storing the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			app, _, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.ProviderCLI.Lookup(context.Background(), providerdto.LookupInput{
				Provider: name,
				Title:    title,
				Author:   author,
				ISBN:     isbn,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s by %s pages=%d genres=%s\n",
				out.Provider, out.Title, strings.Join(out.Authors, ", "), out.PageCount, strings.Join(out.Genres, ", "))
			return nil
		},
	}
	lookup.Flags().StringVar(&name, "name", "", "provider name")
	lookup.Flags().StringVar(&title, "title", "", "title to search")
	lookup.Flags().StringVar(&author, "author", "", "author to search")
	lookup.Flags().StringVar(&isbn, "isbn", "", "isbn to search")

	provider.AddCommand(describe, lookup)
	return provider
}
