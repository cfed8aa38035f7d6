package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/dockwatch/internal/ai"
	"github.com/myrjola/dockwatch/internal/db"
	"github.com/myrjola/dockwatch/internal/errors"
	"github.com/myrjola/dockwatch/internal/envstruct"
	"github.com/myrjola/dockwatch/internal/evidence"
	"github.com/myrjola/dockwatch/internal/investigation"
	"github.com/myrjola/dockwatch/internal/logging"
	"github.com/myrjola/dockwatch/internal/pprofserver"
	"github.com/myrjola/dockwatch/internal/repositories"
)

type application struct {
	logger         *slog.Logger
	analyst        ai.Analyst
	ingestor       *evidence.Ingestor
	sessionManager *scs.SessionManager
	investigations *investigation.Manager
	caseFiles      *repositories.CaseFileRepository
	htmx           *htmx.HTMX
}

type config struct {
	Addr          string `env:"DOCKWATCH_ADDR" envDefault:"localhost:4000"`
	PprofPort     string `env:"DOCKWATCH_PPROF_PORT" envDefault:":6060"`
	SqliteURL     string `env:"DOCKWATCH_SQLITE_URL" envDefault:"./dockwatch.sqlite"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL string `env:"DOCKWATCH_OPENAI_BASE_URL" envDefault:""`
	Model         string `env:"DOCKWATCH_MODEL" envDefault:"gpt-4o"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "parse config")
	}

	// Initialise pprof listening on localhost so that it's not open to the world.
	pprofserver.Launch(ctx, cfg.PprofPort, logger)

	dbs, err := db.New(cfg.SqliteURL)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	investigations := investigation.NewManager()
	investigations.StartSweeping(ctx, 15*time.Minute, 2*time.Hour, logger)

	app := application{
		logger:         logger,
		analyst:        ai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model, logger),
		ingestor:       evidence.NewIngestor(logger),
		sessionManager: sessionManager,
		investigations: investigations,
		caseFiles:      repositories.NewCaseFileRepository(dbs, logger),
		htmx:           htmx.New(),
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	// Missing .env is fine, the environment may be configured directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Error("load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(context.Background(), logger, os.LookupEnv); err != nil {
		logger.Error("server failed", errors.SlogError(err))
		os.Exit(1)
	}
}
