package handlers

import (
	"html/template"
	"net/http"
	"strconv"

	"vocabquiz/internal/service"
)

// HomeHandler serves the topic selection page
type HomeHandler struct {
	catalog    *service.CatalogService
	middleware *Middleware
	templates  *template.Template
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(catalog *service.CatalogService, middleware *Middleware, templates *template.Template) *HomeHandler {
	return &HomeHandler{
		catalog:    catalog,
		middleware: middleware,
		templates:  templates,
	}
}

// ShowHome renders one page of topics. A missing or malformed page
// parameter shows the first page.
func (h *HomeHandler) ShowHome(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}

	data := HomeViewData{
		Layout: Layout{
			Title:     "Choose a topic",
			CSRFToken: h.middleware.csrfToken(r),
		},
		Page: h.catalog.Page(page),
	}
	render(w, r, h.templates, "home.tmpl", data)
}
