// Package assets holds the content bundled into the gateway binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed www
var content embed.FS

// Bundle returns the bundled content. Every path in it starts with "www/".
func Bundle() fs.FS {
	return content
}
