package main

import (
	"github.com/justinas/alice"
	"github.com/myrjola/reelcheck/ui"
	"io/fs"
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(ui.Files, "static")
	if err != nil {
		panic(err) // The directory is embedded at compile time.
	}
	mux.Handle("GET /static/", cacheForeverHeaders(http.StripPrefix("/static", http.FileServerFS(static))))

	mux.HandleFunc("GET /api/healthy", app.healthy)

	session := alice.New(app.sessionManager.LoadAndSave, app.noSurf, app.authenticate, commonContext)
	page := session.Append(app.timeout)
	guarded := page.Append(app.requireSession)

	// Unknown paths land where the root would send the visitor.
	mux.Handle("GET /", page.ThenFunc(app.root))
	mux.Handle("GET /login", page.ThenFunc(app.login))
	mux.Handle("POST /login", page.ThenFunc(app.loginPost))
	mux.Handle("POST /logout", page.ThenFunc(app.logout))

	mux.Handle("GET /dashboard", guarded.ThenFunc(app.dashboardPage))
	mux.Handle("POST /dashboard/new", guarded.ThenFunc(app.dashboardNewTest))
	mux.Handle("POST /dashboard/entries/{entryID}", guarded.ThenFunc(app.dashboardSelectEntry))
	mux.Handle("POST /dashboard/save", guarded.ThenFunc(app.dashboardSave))
	// The verdict collaborator can take minutes so the check is only bound by the server's write timeout.
	mux.Handle("POST /dashboard/check", session.Append(app.requireSession).ThenFunc(app.dashboardCheck))

	return alice.New(app.recoverPanic, app.logRequest, secureHeaders).Then(mux)
}
