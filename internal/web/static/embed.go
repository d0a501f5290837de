// Package static embeds the built kiosk frontend so the binary ships
// as a single file.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:dist/*
var distFS embed.FS

// GetFileSystem exposes the embedded frontend rooted at dist.
func GetFileSystem() http.FileSystem {
	fsys, err := fs.Sub(distFS, "dist")
	if err != nil {
		// dist is embedded at compile time, a missing root is a build defect
		panic(err)
	}
	return http.FS(fsys)
}

// HasDist reports whether a frontend build was embedded. The server
// falls back to a placeholder page when it was not.
func HasDist() bool {
	entries, err := fs.ReadDir(distFS, "dist")
	if err != nil {
		return false
	}
	return len(entries) > 0
}
