// Package templates holds the embedded HTML views.
package templates

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed *.tmpl
var files embed.FS

// Funcs are available to every view
var Funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"orEmpty": func(s string) string {
		if s == "" {
			return "(empty)"
		}
		return s
	},
}

// Load parses every embedded view. Pages are executed by file name, e.g. "home.tmpl".
func Load() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs).ParseFS(files, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
