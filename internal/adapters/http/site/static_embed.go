package site

import (
	"embed"
	"io/fs"
	"net/http"
)

// dashboard holds the single-page shell: index.html, style.css and app.js.
//
//go:embed static
var dashboard embed.FS

// FS returns the dashboard rooted at static/, so "/" maps to index.html.
func FS() http.FileSystem {
	sub, err := fs.Sub(dashboard, "static")
	if err != nil {
		// static/ is embedded at build time; Sub only fails on an invalid path.
		panic(err)
	}
	return http.FS(sub)
}
