package main

import (
	"github.com/myrjola/reelcheck/internal/apiclient"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/session"
	"log/slog"
	"net/http"
)

// root sends visitors with a valid session to the dashboard and everyone else to the login page.
func (app *application) root(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := app.sessions.CheckSession(ctx)
	switch {
	case err == nil:
		app.logger.LogAttrs(ctx, slog.LevelDebug, "session valid", slog.String("email", identity.Email))
		app.redirect(w, r, "/dashboard")
	case errors.Is(err, session.ErrNoSession):
		app.redirect(w, r, "/login")
	case errors.Is(err, apiclient.ErrUnauthorized):
		app.sessionExpired(w, r, err)
	default:
		app.logger.LogAttrs(ctx, slog.LevelWarn, "session check failed", errors.SlogError(err))
		app.putFlash(r, apiclient.Message(err))
		app.redirect(w, r, "/login")
	}
}
