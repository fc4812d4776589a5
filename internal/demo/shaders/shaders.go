// Package shaders embeds the default solid-colour shader pair.
package shaders

import "embed"

const (
	Vertex   = "basic.vert"
	Fragment = "basic.frag"
)

//go:embed basic.vert basic.frag
var FS embed.FS
