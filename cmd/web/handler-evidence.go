package main

import (
	"fmt"
	"net/http"

	"github.com/myrjola/dockwatch/internal/errors"
	"github.com/myrjola/dockwatch/internal/evidence"
)

// multipartOverhead leaves room for the multipart framing and form fields on
// top of the evidence file itself.
const multipartOverhead = 1 << 20

// uploadEvidence ingests one file into the category slot named in the URL.
// Ingestion failures surface inline on the intake page and leave the already
// collected evidence untouched.
func (app *application) uploadEvidence(w http.ResponseWriter, r *http.Request) {
	session, err := app.investigationSession(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	category := evidence.Category(r.PathValue("category"))
	if !category.Valid() {
		app.notFound(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, evidence.MaxFileSize+multipartOverhead)
	file, header, err := r.FormFile("evidence")
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			session.SetError("File is too large. Max 10MB.")
			app.intakeResponse(w, r, session)
			return
		}
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	item, err := app.ingestor.Ingest(
		r.Context(), category, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, evidence.ErrTooLarge):
			session.SetError(fmt.Sprintf("File %s is too large. Max 10MB.", header.Filename))
		case errors.Is(err, evidence.ErrUnsupportedType):
			session.SetError(fmt.Sprintf("File %s does not look like %s evidence.", header.Filename, category))
		default:
			app.serverError(w, r, errors.Wrap(err, "ingest evidence"))
			return
		}
		app.intakeResponse(w, r, session)
		return
	}

	session.Attach(item)
	app.intakeResponse(w, r, session)
}
