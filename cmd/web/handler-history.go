package main

import (
	"net/http"

	"github.com/myrjola/dockwatch/internal/errors"
	"github.com/myrjola/dockwatch/internal/repositories"
)

const historyPageSize = 50

type historyTemplateData struct {
	BaseTemplateData

	CaseFiles []repositories.CaseFileSummary
}

// history lists the archived case files, newest first.
func (app *application) history(w http.ResponseWriter, r *http.Request) {
	caseFiles, err := app.caseFiles.List(r.Context(), historyPageSize)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "list case files"))
		return
	}

	data := historyTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		CaseFiles:        caseFiles,
	}
	app.render(w, r, http.StatusOK, "history", data)
}
