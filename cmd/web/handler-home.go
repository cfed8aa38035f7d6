package main

import (
	"net/http"

	"github.com/myrjola/dockwatch/internal/evidence"
	"github.com/myrjola/dockwatch/internal/investigation"
)

// evidenceSlotData drives one upload slot on the intake page.
type evidenceSlotData struct {
	Category evidence.Category
	Label    string
	Hint     string
	Accept   string
	Filename string
	Filled   bool
}

// slotMetadata describes the three fixed intake slots.
var slotMetadata = []evidenceSlotData{ //nolint:exhaustruct // Filename and Filled are per-session
	{Category: evidence.Video, Label: "CCTV Footage", Hint: "Upload .mp4, .webm", Accept: "video/*"},
	{Category: evidence.Audio, Label: "Driver Voice Log", Hint: "Upload .mp3, .wav", Accept: "audio/*"},
	{Category: evidence.Document, Label: "Manifest / PDF", Hint: "Upload .pdf, .jpg", Accept: "image/*,application/pdf"},
}

type homeTemplateData struct {
	BaseTemplateData

	Slots        []evidenceSlotData
	Notes        string
	ErrorMessage string
	Analyzing    bool
	HasEvidence  bool
}

func (app *application) homeTemplateData(r *http.Request, session *investigation.Session) homeTemplateData {
	slots := make([]evidenceSlotData, len(slotMetadata))
	copy(slots, slotMetadata)
	for i := range slots {
		if item, ok := session.EvidenceFor(slots[i].Category); ok {
			slots[i].Filename = item.Filename
			slots[i].Filled = true
		}
	}
	return homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Slots:            slots,
		Notes:            session.Notes(),
		ErrorMessage:     session.ErrorMessage(),
		Analyzing:        session.State() == investigation.Analyzing,
		HasEvidence:      len(session.Evidence()) > 0,
	}
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	session, err := app.investigationSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if session.State() == investigation.Reported {
		http.Redirect(w, r, "/report", http.StatusSeeOther)
		return
	}

	app.render(w, r, http.StatusOK, "home", app.homeTemplateData(r, session))
}

// intakeResponse refreshes the intake area: a fragment swap for htmx requests
// and a redirect back to the front page otherwise.
func (app *application) intakeResponse(w http.ResponseWriter, r *http.Request, session *investigation.Session) {
	h := app.htmx.NewHandler(w, r)
	if h.IsHxRequest() {
		app.renderFragment(w, r, "home", "intake", app.homeTemplateData(r, session))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) updateNotes(w http.ResponseWriter, r *http.Request) {
	session, err := app.investigationSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if err = r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	session.SetNotes(r.PostFormValue("notes"))
	app.intakeResponse(w, r, session)
}

func (app *application) reset(w http.ResponseWriter, r *http.Request) {
	session, err := app.investigationSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	session.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
