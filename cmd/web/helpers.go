package main

import (
	"github.com/myrjola/reelcheck/internal/dashboard"
	"github.com/myrjola/reelcheck/internal/errors"
	"log/slog"
	"net/http"
)

const (
	flashSessionKey   = "flash"
	sessionExpiredMsg = "Your session has expired, please log in again."
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri))
	http.Error(w, http.StatusText(status), status)
}

// redirect sends the browser to url. Requests made by htmx get a client-side redirect so that the whole page is
// replaced.
func (app *application) redirect(w http.ResponseWriter, r *http.Request, url string) {
	hx := app.htmx.NewHandler(w, r)
	if hx.IsHxRequest() {
		hx.Redirect(url)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (app *application) putFlash(r *http.Request, message string) {
	app.sessionManager.Put(r.Context(), flashSessionKey, message)
}

// sessionExpired clears the token and the dashboard state and sends the user to log in again.
func (app *application) sessionExpired(w http.ResponseWriter, r *http.Request, cause error) {
	ctx := r.Context()
	app.logger.LogAttrs(ctx, slog.LevelInfo, "session rejected", errors.SlogError(cause))
	if err := app.dashboard.Logout(ctx); err != nil {
		app.serverError(w, r, errors.Wrap(err, "logout expired session"))
		return
	}
	app.putFlash(r, sessionExpiredMsg)
	app.redirect(w, r, "/login")
}

// dashboardActionError responds to a failed dashboard action. Validation errors are shown as flash on the
// dashboard.
func (app *application) dashboardActionError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *dashboard.ValidationError
	switch {
	case errors.As(err, &validationErr):
		app.putFlash(r, validationErr.Message)
		app.redirect(w, r, "/dashboard")
	case errors.Is(err, dashboard.ErrUnauthenticated):
		app.sessionExpired(w, r, err)
	default:
		app.serverError(w, r, err)
	}
}
