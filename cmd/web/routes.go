package main

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/myrjola/dockwatch/ui"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", cacheForeverHeaders(http.FileServerFS(ui.Files)))

	mux.HandleFunc("GET /api/healthy", app.healthy)

	session := alice.New(app.sessionManager.LoadAndSave, noSurf, commonContext)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("POST /evidence/{category}", session.ThenFunc(app.uploadEvidence))
	mux.Handle("POST /notes", session.ThenFunc(app.updateNotes))
	mux.Handle("POST /analyze", session.ThenFunc(app.analyze))
	mux.Handle("GET /report", session.ThenFunc(app.report))
	mux.Handle("POST /reset", session.ThenFunc(app.reset))
	mux.Handle("GET /history", session.ThenFunc(app.history))

	return app.recoverPanic(app.logRequest(app.secureHeaders(timeoutHandler(mux, defaultTimeout))))
}
