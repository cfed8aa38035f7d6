package main

import (
	"net/http"

	"github.com/myrjola/dockwatch/internal/errors"
	"github.com/myrjola/dockwatch/internal/investigation"
	"github.com/myrjola/dockwatch/internal/random"
)

const investigationIDSessionKey = "investigationID"

const investigationIDLength = 32

// investigationSession resolves the investigation tied to the browser session,
// minting a new investigation ID on first contact.
func (app *application) investigationSession(r *http.Request) (*investigation.Session, error) {
	ctx := r.Context()
	id := app.sessionManager.GetString(ctx, investigationIDSessionKey)
	if id == "" {
		var err error
		if id, err = random.Letters(investigationIDLength); err != nil {
			return nil, errors.Wrap(err, "generate investigation ID")
		}
		app.sessionManager.Put(ctx, investigationIDSessionKey, id)
	}
	return app.investigations.Get(id), nil
}
