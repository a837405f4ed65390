// Command fakeapi serves the in-memory auth, entry and verdict collaborators for local development.
package main

import (
	"context"
	"fmt"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/fakeapi"
	"github.com/myrjola/reelcheck/internal/logging"
	"github.com/spf13/cobra"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type options struct {
	addr       string
	email      string
	password   string
	checkDelay time.Duration
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "reelcheck-fakeapi",
		Short: "Serve fake collaborators for the reelcheck dashboard",
		Long: `Serves the auth, entry and authenticity check APIs in memory under /api.

Point the web server at it with REELCHECK_API_URL=http://localhost:8000/api. Reel URLs containing "fail" make the
check fail and URLs containing "not-worthy" get a not worthy verdict.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), logger, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "localhost:8000", "HTTP network address")
	cmd.Flags().StringVar(&opts.email, "email", "analyst@example.com", "email of the account accepted by login")
	cmd.Flags().StringVar(&opts.password, "password", "password", "password of the account accepted by login")
	cmd.Flags().DurationVar(&opts.checkDelay, "check-delay", 2*time.Second, //nolint:mnd // feels like a real check.
		"minimum duration of an authenticity check")
	return cmd
}

func serve(ctx context.Context, logger *slog.Logger, opts options) error {
	api := fakeapi.New(logger)
	api.AddAccount(opts.email, opts.password)
	api.SetCheckDelay(opts.checkDelay)

	srv := &http.Server{ //nolint:exhaustruct // defaults are fine for a development server.
		Handler:           api.Handler(),
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		ReadHeaderTimeout: time.Second,
	}
	listener, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return errors.Wrap(err, "TCP listen", slog.String("addr", opts.addr))
	}

	shutdownComplete := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd // 5s
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "error shutting down fake api",
				errors.SlogError(errors.Wrap(shutdownErr, "shutdown")))
		}
		close(shutdownComplete)
	}()

	logger.LogAttrs(ctx, slog.LevelInfo, "starting fake api",
		slog.String("addr", listener.Addr().String()), slog.String("email", opts.email))
	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server serve")
	}
	<-shutdownComplete
	return nil
}

func main() {
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	})))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1) //nolint:gocritic // stop is called above.
	}
}
