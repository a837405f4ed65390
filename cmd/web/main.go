package main

import (
	"context"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/reelcheck/internal/apiclient"
	"github.com/myrjola/reelcheck/internal/dashboard"
	"github.com/myrjola/reelcheck/internal/entries"
	"github.com/myrjola/reelcheck/internal/envstruct"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/logging"
	"github.com/myrjola/reelcheck/internal/pprofserver"
	"github.com/myrjola/reelcheck/internal/repositories"
	"github.com/myrjola/reelcheck/internal/session"
	"github.com/myrjola/reelcheck/internal/sqlite"
	"log/slog"
	"net/http"
	"os"
	"time"
)

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"REELCHECK_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the URL to the SQLite database holding sessions and dashboard state.
	SqliteURL string `env:"REELCHECK_SQLITE_URL" envDefault:"./reelcheck.sqlite"`
	// APIURL is the root of the authentication and entry collaborator.
	APIURL string `env:"REELCHECK_API_URL" envDefault:"http://localhost:8000/api"`
	// VerdictAPIURL is the root of the authenticity check collaborator. Empty means APIURL.
	VerdictAPIURL string `env:"REELCHECK_VERDICT_API_URL" envDefault:""`
	// PprofAddr enables the pprof server on the loopback interface, e.g. :6060.
	PprofAddr string `env:"REELCHECK_PPROF_ADDR" envDefault:""`
	// WriteTimeout has to exceed the latency of the authenticity check.
	WriteTimeout time.Duration `env:"REELCHECK_WRITE_TIMEOUT" envDefault:"5m"`
	// RequestTimeout bounds every page other than the authenticity check.
	RequestTimeout  time.Duration `env:"REELCHECK_REQUEST_TIMEOUT" envDefault:"30s"`
	SessionLifetime time.Duration `env:"REELCHECK_SESSION_LIFETIME" envDefault:"12h"`
	// SecureCookies should only be turned off for local development over plain HTTP.
	SecureCookies bool `env:"REELCHECK_SECURE_COOKIES" envDefault:"true"`
}

type application struct {
	logger         *slog.Logger
	config         config
	sessionManager *scs.SessionManager
	sessions       *session.Client
	dashboard      *dashboard.Controller
	htmx           *htmx.HTMX
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg config
		err error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	if cfg.PprofAddr != "" {
		// Listen on loopback only so that pprof is not open to the world.
		pprofserver.Launch(cfg.PprofAddr, logger)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("sqlite_url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close database", errors.SlogError(closeErr))
		}
	}()

	sessionStore := sqlite3store.New(db.ReadWrite.DB)
	defer sessionStore.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = sessionStore
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.Secure = cfg.SecureCookies
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	verdictURL := cfg.VerdictAPIURL
	if verdictURL == "" {
		verdictURL = cfg.APIURL
	}
	var (
		tokens        = session.NewSessionStore(sessionManager)
		api           = apiclient.New(cfg.APIURL, nil, logger)
		verdictAPI    = apiclient.New(verdictURL, nil, logger)
		sessionClient = session.NewClient(api, tokens, logger)
		entryClient   = entries.NewClient(api, verdictAPI, tokens, logger)
		states        = repositories.NewDashboardStateRepository(db, logger)
	)
	go states.StartCleanup(ctx, time.Hour, 2*cfg.SessionLifetime) //nolint:mnd // outlive the session comfortably.

	app := application{
		logger:         logger,
		config:         cfg,
		sessionManager: sessionManager,
		sessions:       sessionClient,
		dashboard:      dashboard.NewController(sessionClient, entryClient, states, tokens, logger),
		htmx:           htmx.New(),
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	// The .env file is optional, the environment takes precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failure loading .env file", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
