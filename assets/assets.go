// Package assets holds the files baked into the binary: the font used for all
// glyphs and the lorem ipsum body text.
package assets

import (
	_ "embed"

	"golang.org/x/image/font/gofont/gomono"
)

//go:embed lipsum.txt
var Lipsum string

// FontTTF is the TrueType font used to render all text.
var FontTTF = gomono.TTF
