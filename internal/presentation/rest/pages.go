package rest

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

//go:embed web/templates/*.html web/static
var webFS embed.FS

// page names a template and the title it renders with.
type page struct {
	template string
	title    string
}

var pages = map[string]page{
	"GET /{$}":     {template: "index.html", title: "Fraud Detection"},
	"GET /privacy": {template: "privacy.html", title: "Privacy"},
	"GET /terms":   {template: "terms.html", title: "Terms"},
	"GET /docs":    {template: "docs.html", title: "API Documentation"},
	"GET /api":     {template: "docs.html", title: "API Documentation"},
}

var typeLabels = map[string]string{
	valueobject.TransactionTypeOnline.String():  "Online purchase",
	valueobject.TransactionTypeInStore.String(): "In-store purchase",
	valueobject.TransactionTypeATM.String():     "ATM withdrawal",
}

// typeOption is one transaction method offered by the form.
type typeOption struct {
	Code  int
	Label string
}

type pageData struct {
	Title            string
	TransactionTypes []typeOption
}

// PageHandler renders the static HTML pages.
type PageHandler struct {
	templates map[string]*template.Template
	static    http.Handler
	options   []typeOption
	logger    *slog.Logger
}

// NewPageHandler parses the embedded templates. Every page is parsed
// together with the shared layout.
func NewPageHandler(logger *slog.Logger) (*PageHandler, error) {
	templates := make(map[string]*template.Template)
	for _, p := range pages {
		if _, ok := templates[p.template]; ok {
			continue
		}
		t, err := template.ParseFS(webFS, "web/templates/layout.html", "web/templates/"+p.template)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", p.template, err)
		}
		templates[p.template] = t
	}

	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	options := make([]typeOption, 0, len(valueobject.TransactionTypes()))
	for _, tt := range valueobject.TransactionTypes() {
		options = append(options, typeOption{Code: tt.Code(), Label: typeLabels[tt.String()]})
	}

	return &PageHandler{
		templates: templates,
		static:    http.StripPrefix("/static/", http.FileServerFS(static)),
		options:   options,
		logger:    logger,
	}, nil
}

// RegisterRoutes registers the page and static asset routes.
func (h *PageHandler) RegisterRoutes(mux *http.ServeMux) {
	for pattern, p := range pages {
		mux.HandleFunc(pattern, h.render(p))
	}
	mux.Handle("GET /static/", h.static)
}

func (h *PageHandler) render(p page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		data := pageData{Title: p.title, TransactionTypes: h.options}
		if err := h.templates[p.template].ExecuteTemplate(&buf, "layout", data); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to render page", "template", p.template, "error", err)
			http.Error(w, MsgInternal, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		buf.WriteTo(w)
	}
}
