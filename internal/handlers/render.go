package handlers

import (
	"bytes"
	"html/template"
	"net/http"
)

// render executes the named template into a buffer so a failure can still
// produce a clean error response
func render(w http.ResponseWriter, r *http.Request, templates *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		respondWithError(w, r, http.StatusInternalServerError, ErrInternalServerError, "failed to render "+name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
