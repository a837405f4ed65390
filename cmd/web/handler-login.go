package main

import (
	"github.com/myrjola/reelcheck/internal/apiclient"
	"github.com/myrjola/reelcheck/internal/contexthelpers"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/models"
	"log/slog"
	"net/http"
	"strings"
)

type loginTemplateData struct {
	BaseTemplateData
	Email string
	// Error is shown next to the login button.
	Error string
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	if contexthelpers.IsAuthenticated(r.Context()) {
		app.redirect(w, r, "/dashboard")
		return
	}
	app.render(w, r, http.StatusOK, "login", loginTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Email:            "",
		Error:            "",
	})
}

func (app *application) loginPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	creds := models.Credentials{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	data := loginTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Email:            creds.Email,
		Error:            "",
	}
	if creds.Email == "" || creds.Password == "" {
		data.Error = "Please enter your email and password."
		app.render(w, r, http.StatusUnprocessableEntity, "login", data)
		return
	}

	if err := app.sessions.Login(ctx, creds); err != nil {
		var remoteErr *apiclient.RemoteError
		if !errors.As(err, &remoteErr) && !errors.Is(err, apiclient.ErrNetwork) {
			app.serverError(w, r, errors.Wrap(err, "login"))
			return
		}
		app.logger.LogAttrs(ctx, slog.LevelInfo, "login failed", errors.SlogError(err))
		data.Error = apiclient.Message(err)
		app.render(w, r, http.StatusUnprocessableEntity, "login", data)
		return
	}

	app.redirect(w, r, "/dashboard")
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.dashboard.Logout(r.Context()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "logout"))
		return
	}
	app.redirect(w, r, "/login")
}
