package rendertest

import (
	"fmt"

	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// Font is a FontFace whose glyphs are solid boxes: size/2 wide, size tall,
// advancing by size/2 pixels. Runes listed in Missing fail.
type Font struct {
	Missing  map[rune]bool
	Requests []rune
}

func (f *Font) Glyph(r rune, size int) (*metadata.Glyph, error) {
	f.Requests = append(f.Requests, r)
	if f.Missing[r] {
		return nil, fmt.Errorf("rune %q: %w", r, core.ErrGlyphNotFound)
	}
	width := size / 2
	bitmap := make([]uint8, width*size)
	for i := range bitmap {
		bitmap[i] = 0xff
	}
	return &metadata.Glyph{
		Rune:     r,
		Width:    width,
		Height:   size,
		BearingX: 1,
		BearingY: size,
		Advance:  fixed.I(width),
		Bitmap:   bitmap,
	}, nil
}
