package main

import (
	"github.com/myrjola/reelcheck/internal/dashboard"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/models"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

type dashboardTemplateData struct {
	BaseTemplateData
	Page          dashboard.Page
	RatingOptions []int
}

func ratingOptions() []int {
	options := make([]int, 0, models.MaxRating-models.MinRating+1)
	for i := models.MinRating; i <= models.MaxRating; i++ {
		options = append(options, i)
	}
	return options
}

func (app *application) dashboardPage(w http.ResponseWriter, r *http.Request) {
	page, err := app.dashboard.Mount(r.Context())
	if err != nil {
		if errors.Is(err, dashboard.ErrUnauthenticated) {
			app.sessionExpired(w, r, err)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "mount dashboard"))
		return
	}
	app.render(w, r, http.StatusOK, "dashboard", dashboardTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Page:             page,
		RatingOptions:    ratingOptions(),
	})
}

func (app *application) dashboardNewTest(w http.ResponseWriter, r *http.Request) {
	if err := app.dashboard.StartNewTest(r.Context()); err != nil {
		app.dashboardActionError(w, r, errors.Wrap(err, "start new test"))
		return
	}
	app.redirect(w, r, "/dashboard")
}

func (app *application) dashboardSelectEntry(w http.ResponseWriter, r *http.Request) {
	if err := app.dashboard.SelectEntry(r.Context(), r.PathValue("entryID")); err != nil {
		app.dashboardActionError(w, r, err)
		return
	}
	app.redirect(w, r, "/dashboard")
}

func (app *application) dashboardCheck(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	generation, err := parseGeneration(r.PostForm)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	if err = app.dashboard.Check(r.Context(), r.PostForm.Get("url"), generation); err != nil {
		app.dashboardActionError(w, r, err)
		return
	}
	app.redirect(w, r, "/dashboard")
}

func (app *application) dashboardSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	generation, err := parseGeneration(r.PostForm)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	feedback, err := parseFeedback(r.PostForm)
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "invalid feedback form", errors.SlogError(err))
		app.putFlash(r, errInvalidRating.Error())
		app.redirect(w, r, "/dashboard")
		return
	}
	if err = app.dashboard.Save(r.Context(), feedback, generation); err != nil {
		app.dashboardActionError(w, r, err)
		return
	}
	app.redirect(w, r, "/dashboard")
}

func parseGeneration(form url.Values) (int64, error) {
	raw := form.Get("generation")
	if raw == "" {
		return 0, errors.New("missing generation")
	}
	generation, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse generation")
	}
	return generation, nil
}
