package frontend

import (
	"embed"
	"io/fs"
)

// FS embeds the dashboard page and its assets
//
//go:embed all:dist
var FS embed.FS

// GetFS returns the embedded dashboard files rooted at dist
func GetFS() (fs.FS, error) {
	sub, err := fs.Sub(FS, "dist")
	if err != nil {
		return nil, err
	}

	if !hasIndex(sub) {
		return nil, &fs.PathError{Op: "stat", Path: "index.html", Err: fs.ErrNotExist}
	}

	return sub, nil
}

func hasIndex(fsys fs.FS) bool {
	_, err := fs.Stat(fsys, "index.html")
	return err == nil
}
