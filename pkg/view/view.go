// Package view renders the server-side HTML pages from the embedded
// templates in resources/views.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/resources"
)

// GenericError is the only detail a user sees for store or internal failures.
const GenericError = "Something went wrong, please try again."

// Page is the model every template receives.
type Page struct {
	Title   string
	User    *auth.Identity
	CSRF    string
	Success string
	Error   string
	Data    any
}

// ErrorData backs the error page.
type ErrorData struct {
	Message string
}

var (
	parseOnce sync.Once
	parseErr  error
	pages     map[string]*template.Template
)

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}

func load() error {
	parseOnce.Do(func() {
		pages, parseErr = parse(resources.Views)
	})
	return parseErr
}

func parse(fsys fs.FS) (map[string]*template.Template, error) {
	names, err := fs.Glob(fsys, "views/*.html")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*template.Template, len(names))
	for _, path := range names {
		name := path[len("views/") : len(path)-len(".html")]
		if name == "layout" {
			continue
		}
		t, err := template.New(name).Funcs(funcs).ParseFS(fsys, "views/layout.html", path)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// Render executes page name inside the layout and writes it with code.
// Output is buffered so a template failure never sends a partial page.
func Render(w http.ResponseWriter, code int, name string, page Page) error {
	if err := load(); err != nil {
		http.Error(w, GenericError, http.StatusInternalServerError)
		return err
	}
	t, ok := pages[name]
	if !ok {
		http.Error(w, GenericError, http.StatusInternalServerError)
		return fmt.Errorf("view: unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		http.Error(w, GenericError, http.StatusInternalServerError)
		return fmt.Errorf("view: execute %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, err := buf.WriteTo(w)
	return err
}
