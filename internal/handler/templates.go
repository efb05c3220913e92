package handler

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates are addressed by file name, e.g. "list.html".
var pageTemplates = template.Must(template.New("pages").Funcs(template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
}).ParseFS(templateFS, "templates/*.html"))
