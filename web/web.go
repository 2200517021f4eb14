// Package web holds the server-rendered pages.
package web

import (
	"embed"
	"html/template"
	"strings"

	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"noticeClass": func(level model.NoticeLevel) string {
		return "notice notice-" + string(level)
	},
	"slotID": func(name string) string {
		return "slot-" + strings.ReplaceAll(name, "_", "-")
	},
}

// Templates parses every page template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
}
