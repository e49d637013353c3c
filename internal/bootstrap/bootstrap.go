package bootstrap

import (
	"database/sql"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	_ "modernc.org/sqlite"

	cataloginadapter "shelfmark/internal/modules/catalog/adapter/in"
	catalogoutadapter "shelfmark/internal/modules/catalog/adapter/out"
	catalogservice "shelfmark/internal/modules/catalog/service"
	catalogusecase "shelfmark/internal/modules/catalog/usecase"
	provideradapter "shelfmark/internal/modules/provider/adapter/in"
	provideroutadapter "shelfmark/internal/modules/provider/adapter/out"
	providerservice "shelfmark/internal/modules/provider/service"
	providerusecase "shelfmark/internal/modules/provider/usecase"
	sessioninadapter "shelfmark/internal/modules/session/adapter/in"
	sessionoutadapter "shelfmark/internal/modules/session/adapter/out"
	sessionservice "shelfmark/internal/modules/session/service"
	sessionusecase "shelfmark/internal/modules/session/usecase"
	shelfinadapter "shelfmark/internal/modules/shelf/adapter/in"
	shelfoutadapter "shelfmark/internal/modules/shelf/adapter/out"
	shelfservice "shelfmark/internal/modules/shelf/service"
	shelfusecase "shelfmark/internal/modules/shelf/usecase"
	statsinadapter "shelfmark/internal/modules/stats/adapter/in"
	statsoutadapter "shelfmark/internal/modules/stats/adapter/out"
	statsdomain "shelfmark/internal/modules/stats/domain"
	statsservice "shelfmark/internal/modules/stats/service"
	statsusecase "shelfmark/internal/modules/stats/usecase"
	"shelfmark/internal/platform/clock"
	"shelfmark/internal/platform/config"
	"shelfmark/internal/platform/id"
	"shelfmark/internal/platform/logger"
	"shelfmark/internal/platform/tx"
	uiapp "shelfmark/internal/ui/app"
)

// App holds the composed inbound handlers. All modules share one sqlite
// database; the session and shelf stores are wired so the shelf can run
// repair-on-read against authoritative session status.
type App struct {
	CatalogCLI  cataloginadapter.CLIHandler
	SessionCLI  sessioninadapter.CLIHandler
	ShelfCLI    shelfinadapter.CLIHandler
	StatsCLI    statsinadapter.CLIHandler
	ProviderCLI provideradapter.CLIHandler

	db  *sql.DB
	log *logger.Logger
}

func New(cfg config.Config, log *logger.Logger) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}
	loc := cfg.Location()

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY on concurrent statements.
	db.SetMaxOpenConns(1)
	txm := tx.SQLManager{DB: db}

	providerUC := providerusecase.NewInteractor(providerservice.NewProviderService(
		provideroutadapter.NewFileManifestStore(cfg.DataPath),
		provideroutadapter.NewGRPCHost(),
	))

	bookStore, err := catalogoutadapter.NewSQLiteBookStore(db)
	if err != nil {
		return nil, fmt.Errorf("new book store: %w", err)
	}
	catalogSvc := catalogservice.NewBookService(clk, ids, bookStore, catalogoutadapter.NewPDFPageCounter())
	catalogUC := catalogusecase.NewInteractor(catalogSvc, providerUC)

	sessionStore, err := sessionoutadapter.NewSQLiteSessionStore(db)
	if err != nil {
		return nil, fmt.Errorf("new session store: %w", err)
	}

	shelfStore, err := shelfoutadapter.NewSQLiteShelfStore(db)
	if err != nil {
		return nil, fmt.Errorf("new shelf store: %w", err)
	}
	shelfSvc := shelfservice.NewShelfService(
		clk, loc, shelfStore,
		shelfoutadapter.NewSessionStatusAdapter(sessionStore),
		txm, log,
	)
	shelfUC := shelfusecase.NewInteractor(shelfSvc, clk, loc)

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, ids, sessionStore),
		catalogUC,
		shelfUC,
		sessionoutadapter.NewJournalStore(cfg.JournalPath),
		log,
	)

	statsCache, err := statsoutadapter.NewSQLiteStatsCache(db)
	if err != nil {
		return nil, fmt.Errorf("new stats cache: %w", err)
	}
	statsUC := statsusecase.NewInteractor(statsservice.NewStatsService(
		clk, loc,
		statsdomain.Goals{
			YearlyBooks:  cfg.Goals.YearlyBooks,
			YearlyPages:  cfg.Goals.YearlyPages,
			MonthlyBooks: cfg.Goals.MonthlyBooks,
			MonthlyPages: cfg.Goals.MonthlyPages,
		},
		statsoutadapter.NewSessionReadSource(sessionStore, catalogUC),
		statsCache,
		log,
	))

	return &App{
		CatalogCLI:  cataloginadapter.NewCLIHandler(catalogUC),
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		ShelfCLI:    shelfinadapter.NewCLIHandler(shelfUC),
		StatsCLI:    statsinadapter.NewCLIHandler(statsUC),
		ProviderCLI: provideradapter.NewCLIHandler(providerUC),
		db:          db,
		log:         log,
	}, nil
}

// Close releases the shared database handle.
func (a *App) Close() error {
	return a.db.Close()
}

func RunTUI(userID string, app *App) error {
	model := uiapp.NewModel(userID, app.CatalogCLI, app.SessionCLI, app.ShelfCLI, app.StatsCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
