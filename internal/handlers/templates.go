package handlers

import (
	"html/template"
	"net/http"
	"strings"
	"sync"

	"github.com/vibekrana/frontend-main/internal/session"
	"github.com/vibekrana/frontend-main/web"
)

var (
	tmplOnce sync.Once
	tmpl     *template.Template
	tmplErr  error
)

func templates() (*template.Template, error) {
	tmplOnce.Do(func() {
		t := template.New("").Funcs(template.FuncMap{
			"title": func(s string) string {
				if s == "" {
					return s
				}
				return strings.ToUpper(s[:1]) + s[1:]
			},
		})
		tmpl, tmplErr = t.ParseFS(web.Templates, "templates/*.html")
	})
	return tmpl, tmplErr
}

// page is the data every template receives. Page-specific values ride in
// Data.
type page struct {
	Title   string
	Active  string
	Session *session.Session
	Dark    bool
	Errors  fieldErrors
	Form    map[string]string
	Flash   string
	Data    any
}

func (h *Handler) newPage(r *http.Request, title, active string) *page {
	s := session.FromContext(r.Context())
	return &page{
		Title:   title,
		Active:  active,
		Session: s,
		Dark:    s.Dark(),
		Errors:  fieldErrors{},
		Form:    map[string]string{},
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, p *page) {
	t, err := templates()
	if err != nil {
		h.logger.Printf("[Render][Parse] error err=%v", err)
		writeError(w, http.StatusInternalServerError, "template error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != 0 {
		w.WriteHeader(status)
	}
	if err := t.ExecuteTemplate(w, name, p); err != nil {
		h.logger.Printf("[Render][Execute] error template=%s err=%v", name, err)
	}
}
