// Package web embeds the static control panel served by the daemon.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var embeddedFS embed.FS

// StaticFS returns the embedded panel files rooted at static/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(embeddedFS, "static")
}
