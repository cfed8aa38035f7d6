package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/dockwatch/internal/errors"
	"github.com/myrjola/dockwatch/internal/investigation"
)

// analyze submits the collected evidence to the collaborator. All outcomes
// land on a page that shows the result: the report on success, the intake
// page with an inline error otherwise.
func (app *application) analyze(w http.ResponseWriter, r *http.Request) {
	session, err := app.investigationSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	err = session.Submit(r.Context(), app.analyst, app.logger)
	switch {
	case err == nil:
		// Archiving is best effort. A full case file table must not block the
		// report the user is waiting for.
		if report := session.Report(); report != nil {
			if storeErr := app.caseFiles.Store(r.Context(), report); storeErr != nil {
				app.logger.LogAttrs(r.Context(), slog.LevelError, "archive case file",
					errors.SlogError(storeErr))
			}
		}
		app.redirect(w, r, "/report")
	case errors.Is(err, investigation.ErrNoEvidence),
		errors.Is(err, investigation.ErrAnalysisInProgress):
		app.redirect(w, r, "/")
	default:
		// The session already carries the user-facing message.
		app.redirect(w, r, "/")
	}
}

// redirect issues an HX-Redirect for htmx requests so the browser swaps the
// whole page, and a plain 303 otherwise.
func (app *application) redirect(w http.ResponseWriter, r *http.Request, target string) {
	h := app.htmx.NewHandler(w, r)
	if h.IsHxRequest() {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
