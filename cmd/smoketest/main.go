package main

import (
	"context"
	"github.com/myrjola/reelcheck/internal/e2etest"
	"github.com/myrjola/reelcheck/internal/envstruct"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/logging"
	"log/slog"
	"os"
	"time"
)

type config struct {
	Email    string `env:"SMOKETEST_EMAIL"`
	Password string `env:"SMOKETEST_PASSWORD"`
	// ReelURL is checked when set. The verdict is not saved.
	ReelURL string        `env:"SMOKETEST_REEL_URL" envDefault:""`
	Timeout time.Duration `env:"SMOKETEST_TIMEOUT" envDefault:"10s"`
}

func TestAuth(ctx context.Context, client *e2etest.Client, cfg config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	var err error

	if _, err = client.Login(ctx, cfg.Email, cfg.Password); err != nil {
		return errors.Wrap(err, "login user")
	}
	if _, err = client.GetDoc(ctx, "/dashboard"); err != nil {
		return errors.Wrap(err, "load dashboard")
	}
	if cfg.ReelURL != "" {
		if _, err = client.StartNewTest(ctx); err != nil {
			return errors.Wrap(err, "start new test")
		}
		if _, err = client.CheckReel(ctx, cfg.ReelURL); err != nil {
			return errors.Wrap(err, "check reel")
		}
	}
	if _, err = client.Logout(ctx); err != nil {
		return errors.Wrap(err, "logout user")
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		cfg      config
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if err = envstruct.Populate(&cfg, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error reading smoke test credentials", errors.SlogError(err))
		os.Exit(1)
	}
	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestAuth(ctx, client, cfg); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing auth", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
