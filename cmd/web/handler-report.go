package main

import (
	"net/http"

	"github.com/myrjola/dockwatch/internal/models"
	"github.com/myrjola/dockwatch/internal/report"
)

type reportTemplateData struct {
	BaseTemplateData

	Report  *models.InvestigationReport
	Cards   []report.Card
	Scatter report.ScatterPlot
	Graph   report.Graph
}

// report shows the finished investigation dashboard. Without a finished
// report the user lands back on the intake page.
func (app *application) report(w http.ResponseWriter, r *http.Request) {
	session, err := app.investigationSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	result := session.Report()
	if result == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := reportTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Report:           result,
		Cards:            report.Cards(result),
		Scatter:          report.Scatter(result.Discrepancies),
		Graph:            report.RelationshipGraph(result.PersonsOfInterest),
	}
	app.render(w, r, http.StatusOK, "report", data)
}
