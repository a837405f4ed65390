// Package dashboard drives the analyst dashboard: it verifies the session, loads entries and runs the new-test
// workflow of checking a reel and saving the reviewed result.
package dashboard

import (
	"context"
	"github.com/microcosm-cc/bluemonday"
	"github.com/myrjola/reelcheck/internal/apiclient"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/models"
	"github.com/myrjola/reelcheck/internal/verdictview"
	"golang.org/x/sync/errgroup"
	"html"
	"log/slog"
	"strings"
)

// Sessions is the part of the session client the dashboard needs.
type Sessions interface {
	CheckSession(ctx context.Context) (models.Identity, error)
	Logout(ctx context.Context) error
}

// Entries is the part of the entry client the dashboard needs.
type Entries interface {
	ListEntries(ctx context.Context) ([]models.EntrySummary, error)
	GetEntry(ctx context.Context, id string) (models.EntryDetail, error)
	CreateEntry(ctx context.Context, entry models.NewEntry) error
	CheckAuthenticity(ctx context.Context, reelURL string) (models.CheckResult, error)
}

// Controller owns the dashboard state. Every mutation goes through it.
type Controller struct {
	sessions Sessions
	entries  Entries
	states   StateStore
	keys     KeySource
	policy   *bluemonday.Policy
	logger   *slog.Logger
}

func NewController(
	sessions Sessions,
	entries Entries,
	states StateStore,
	keys KeySource,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		sessions: sessions,
		entries:  entries,
		states:   states,
		keys:     keys,
		policy:   bluemonday.StrictPolicy(),
		logger:   logger.With(slog.String("source", "dashboard")),
	}
}

// Page is everything the dashboard template needs.
type Page struct {
	Identity     models.Identity
	Entries      []models.EntrySummary
	EntriesError string
	State        models.DashboardState
	Detail       *models.EntryDetail
	DetailError  string
	// View is the rendered verdict of the check result or of the selected entry.
	View *verdictview.View
}

// Checking reports whether a check is in flight.
func (p Page) Checking() bool {
	return p.State.Selection == models.SelectionNewTest && p.State.Phase == models.PhaseChecking
}

// NewTest reports whether the new-test pane is shown.
func (p Page) NewTest() bool {
	return p.State.Selection == models.SelectionNewTest
}

// Selected reports whether entryID is the selected entry.
func (p Page) Selected(entryID string) bool {
	return p.State.Selection == models.SelectionEntry && p.State.EntryID == entryID
}

func (c *Controller) load(ctx context.Context) (string, models.DashboardState, error) {
	key, err := c.keys.StateKey(ctx)
	if err != nil {
		return "", models.DashboardState{}, errors.Wrap(err, "resolve state key")
	}
	st, err := c.states.Load(ctx, key)
	if err != nil {
		return "", models.DashboardState{}, errors.Wrap(err, "load dashboard state")
	}
	return key, st, nil
}

// Mount verifies the session and loads what the dashboard shows. Session verification and the entry listing run
// concurrently.
func (c *Controller) Mount(ctx context.Context) (Page, error) {
	var (
		page       Page
		entriesErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		identity, err := c.sessions.CheckSession(gctx)
		if err != nil {
			return unauthenticated(err)
		}
		page.Identity = identity
		return nil
	})
	g.Go(func() error {
		page.Entries, entriesErr = c.entries.ListEntries(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}
	if entriesErr != nil {
		if isAuthError(entriesErr) {
			return Page{}, unauthenticated(entriesErr)
		}
		c.logger.LogAttrs(ctx, slog.LevelWarn, "list entries failed", errors.SlogError(entriesErr))
		page.EntriesError = apiclient.Message(entriesErr)
	}

	key, st, err := c.load(ctx)
	if err != nil {
		return Page{}, err
	}
	if st.Selection == models.SelectionNone && len(page.Entries) == 0 && entriesErr == nil {
		next := newTestState(st.Generation)
		if _, err = c.states.CompareAndPut(ctx, key, next, st.Generation); err != nil {
			return Page{}, errors.Wrap(err, "enter new test")
		}
		st = next
	}
	page.State = st

	switch st.Selection {
	case models.SelectionEntry:
		detail, detailErr := c.entries.GetEntry(ctx, st.EntryID)
		switch {
		case detailErr == nil:
			page.Detail = &detail
			view := verdictview.Render(detail.Result())
			page.View = &view
		case isAuthError(detailErr):
			return Page{}, unauthenticated(detailErr)
		default:
			c.logger.LogAttrs(ctx, slog.LevelWarn, "get entry failed",
				slog.String("entry_id", st.EntryID), errors.SlogError(detailErr))
			page.DetailError = apiclient.Message(detailErr)
		}
	case models.SelectionNewTest:
		if st.Result != nil {
			view := verdictview.Render(*st.Result)
			page.View = &view
		}
	case models.SelectionNone:
	}
	return page, nil
}

func newTestState(generation int64) models.DashboardState {
	return models.DashboardState{
		Generation:  generation + 1,
		Selection:   models.SelectionNewTest,
		EntryID:     "",
		Phase:       models.PhaseIdle,
		URL:         "",
		Result:      nil,
		Feedback:    models.DefaultFeedback(),
		Error:       "",
		SavedReelID: "",
	}
}

// SelectEntry shows the entry with id. Any new test in progress is abandoned, including its check result. The
// detail is fetched by the next Mount.
func (c *Controller) SelectEntry(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("No entry selected.")
	}
	key, st, err := c.load(ctx)
	if err != nil {
		return err
	}
	next := models.DashboardState{
		Generation:  st.Generation + 1,
		Selection:   models.SelectionEntry,
		EntryID:     id,
		Phase:       "",
		URL:         "",
		Result:      nil,
		Feedback:    models.Feedback{},
		Error:       "",
		SavedReelID: "",
	}
	if err = c.states.Put(ctx, key, next); err != nil {
		return errors.Wrap(err, "select entry", slog.String("entry_id", id))
	}
	return nil
}

// StartNewTest shows an empty new-test form with default feedback and clears the selection.
func (c *Controller) StartNewTest(ctx context.Context) error {
	key, st, err := c.load(ctx)
	if err != nil {
		return err
	}
	if err = c.states.Put(ctx, key, newTestState(st.Generation)); err != nil {
		return errors.Wrap(err, "start new test")
	}
	return nil
}

// Check submits reelURL to the verdict collaborator. generation is the state generation the form was rendered
// with. The result is discarded if the user navigated away while the check was running.
func (c *Controller) Check(ctx context.Context, reelURL string, generation int64) error {
	reelURL = strings.TrimSpace(reelURL)
	key, st, err := c.load(ctx)
	if err != nil {
		return err
	}
	if err = checkPreconditions(st, reelURL, generation); err != nil {
		return err
	}

	checking := st
	checking.Phase = models.PhaseChecking
	checking.URL = reelURL
	checking.Result = nil
	checking.Error = ""
	checking.SavedReelID = ""
	if ok, putErr := c.states.CompareAndPut(ctx, key, checking, generation); putErr != nil {
		return errors.Wrap(putErr, "mark checking")
	} else if !ok {
		return invalid("The dashboard changed while submitting. Please try again.")
	}

	// The check outlives an abandoned request so the state never stays stuck in checking.
	ctx = context.WithoutCancel(ctx)
	result, checkErr := c.entries.CheckAuthenticity(ctx, reelURL)
	next := checking
	if checkErr != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "authenticity check failed", errors.SlogError(checkErr))
		next.Phase = models.PhaseCheckError
		next.Error = apiclient.Message(checkErr)
	} else {
		next.Phase = models.PhaseCheckReady
		next.Result = &result
		next.Feedback = models.DefaultFeedback()
	}
	if ok, putErr := c.states.CompareAndPut(ctx, key, next, generation); putErr != nil {
		return errors.Wrap(putErr, "store check result")
	} else if !ok {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "discarding stale check result",
			slog.String("url", reelURL), slog.Int64("generation", generation))
	}
	return nil
}

func checkPreconditions(st models.DashboardState, reelURL string, generation int64) error {
	switch {
	case st.Selection != models.SelectionNewTest:
		return invalid("Start a new test before checking a reel.")
	case st.Phase == models.PhaseChecking:
		return invalid("A check is already running.")
	case st.Phase == models.PhaseSaving:
		return invalid("The entry is being saved.")
	case st.Generation != generation:
		return invalid("The dashboard changed in the meantime. Please try again.")
	case reelURL == "":
		return invalid("Please enter a reel URL.")
	}
	return nil
}

// Save persists the check result with feedback as a new entry and selects it.
func (c *Controller) Save(ctx context.Context, feedback models.Feedback, generation int64) error {
	key, st, err := c.load(ctx)
	if err != nil {
		return err
	}
	switch {
	case st.Selection != models.SelectionNewTest || st.Result == nil ||
		(st.Phase != models.PhaseCheckReady && st.Phase != models.PhaseSaveError):
		return invalid("Run a check before saving.")
	case st.Generation != generation:
		return invalid("The dashboard changed in the meantime. Please try again.")
	}
	if err = feedback.Validate(); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "invalid feedback", errors.SlogError(err))
		return invalid("Ratings must be between 1 and 10.")
	}
	reelID := DeriveReelID(st.URL)
	if reelID == "" {
		return invalid("Could not derive a reel id from the URL.")
	}
	feedback = feedback.MapComments(c.sanitize)

	saving := st
	saving.Phase = models.PhaseSaving
	saving.Feedback = feedback
	saving.Error = ""
	if ok, putErr := c.states.CompareAndPut(ctx, key, saving, generation); putErr != nil {
		return errors.Wrap(putErr, "mark saving")
	} else if !ok {
		return invalid("The dashboard changed while submitting. Please try again.")
	}

	// Once saving is marked, the entry is created and the outcome stored even if the request is abandoned.
	ctx = context.WithoutCancel(ctx)
	createErr := c.entries.CreateEntry(ctx, models.NewEntry{
		ReelID:   reelID,
		Feedback: feedback,
		Result:   *st.Result,
	})
	if createErr != nil {
		failed := saving
		failed.Phase = models.PhaseSaveError
		failed.Error = apiclient.Message(createErr)
		if _, putErr := c.states.CompareAndPut(ctx, key, failed, generation); putErr != nil {
			return errors.Wrap(putErr, "store save error")
		}
		if isAuthError(createErr) {
			return unauthenticated(createErr)
		}
		c.logger.LogAttrs(ctx, slog.LevelWarn, "create entry failed", errors.SlogError(createErr))
		return nil
	}

	next := models.DashboardState{
		Generation:  generation + 1,
		Selection:   models.SelectionNone,
		EntryID:     "",
		Phase:       models.PhaseSaveReady,
		URL:         "",
		Result:      nil,
		Feedback:    models.Feedback{},
		Error:       "",
		SavedReelID: reelID,
	}
	list, listErr := c.entries.ListEntries(ctx)
	if listErr != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "refetch entries after save failed", errors.SlogError(listErr))
	} else if id, found := newestWithReelID(list, reelID); found {
		next.Selection = models.SelectionEntry
		next.EntryID = id
	}
	if ok, putErr := c.states.CompareAndPut(ctx, key, next, generation); putErr != nil {
		return errors.Wrap(putErr, "select saved entry")
	} else if !ok {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "discarding stale save selection", slog.String("reel_id", reelID))
	}
	return nil
}

// newestWithReelID picks the most recently created entry for reelID since a reel can be saved more than once.
func newestWithReelID(list []models.EntrySummary, reelID string) (string, bool) {
	var (
		bestID    string
		bestIndex = -1
	)
	for i, e := range list {
		if e.ReelID != reelID {
			continue
		}
		if bestIndex < 0 {
			bestID, bestIndex = e.ID, i
			continue
		}
		current, okCurrent := e.CreatedTime()
		best, okBest := list[bestIndex].CreatedTime()
		if !okCurrent || !okBest || !current.Before(best) {
			bestID, bestIndex = e.ID, i
		}
	}
	return bestID, bestIndex >= 0
}

func (c *Controller) sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(s)))
}

// Logout clears the session token and the dashboard state.
func (c *Controller) Logout(ctx context.Context) error {
	key, err := c.keys.StateKey(ctx)
	if err != nil {
		return errors.Wrap(err, "resolve state key")
	}
	if err = c.states.Delete(ctx, key); err != nil {
		return errors.Wrap(err, "delete dashboard state")
	}
	if err = c.sessions.Logout(ctx); err != nil {
		return errors.Wrap(err, "logout")
	}
	return nil
}
