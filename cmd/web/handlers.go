package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/myrjola/dockwatch/internal/contexthelpers"
	"github.com/myrjola/dockwatch/internal/errors"
	"github.com/myrjola/dockwatch/internal/ssr"
	"github.com/myrjola/dockwatch/ui"
)

// pageTemplate returns a template for the given page name.
//
// pageName corresponds to directory inside ui/templates/pages folder. It has to include a template named "page".
func (app *application) pageTemplate(pageName string) (*template.Template, error) {
	files := []string{
		"templates/base.gohtml",
	}

	pageTemplateFiles, err := fs.Glob(ui.Files, fmt.Sprintf("templates/pages/%s/*.gohtml", pageName))
	if err != nil {
		return nil, fmt.Errorf("glob page template files: %w", err)
	}
	files = append(files, pageTemplateFiles...)

	// We need to initialize the FuncMap before parsing the files. These will be overridden in the render function.
	return template.New(pageName).Funcs(template.FuncMap{
		"nonce": func() string {
			panic("not implemented")
		},
		"csrf": func() string {
			panic("not implemented")
		},
	}).ParseFS(ui.Files, files...)
}

// executeTemplate runs the named template through the custom element expansion
// and writes the result.
func (app *application) executeTemplate(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	pageName string,
	templateName string,
	data any,
) {
	var (
		err error
		t   *template.Template
	)

	if t, err = app.pageTemplate(pageName); err != nil {
		app.serverError(w, r, errors.Wrap(err, "parse template", slog.String("template", pageName)))
		return
	}

	buf := new(bytes.Buffer)
	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", contexthelpers.CSRFToken(ctx))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // we trust the csrf since it's not provided by user.
		},
	})
	if err = t.ExecuteTemplate(buf, templateName, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template", slog.String("template", templateName)))
		return
	}

	expanded := new(bytes.Buffer)
	if err = ssr.ReplaceCustomElements(expanded, buf); err != nil {
		app.serverError(w, r, errors.Wrap(err, "expand custom elements"))
		return
	}

	w.WriteHeader(status)

	_, _ = expanded.WriteTo(w)
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, pageName string, data any) {
	app.executeTemplate(w, r, status, pageName, "base", data)
}

// renderFragment renders a single named template from the page for htmx swaps.
func (app *application) renderFragment(
	w http.ResponseWriter,
	r *http.Request,
	pageName string,
	fragmentName string,
	data any,
) {
	app.executeTemplate(w, r, http.StatusOK, pageName, fragmentName, data)
}
