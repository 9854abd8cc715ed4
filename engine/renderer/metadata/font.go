package metadata

import (
	"golang.org/x/image/math/fixed"
)

type FontType int

const (
	FONT_TYPE_BITMAP FontType = iota
	FONT_TYPE_SYSTEM
)

func (t FontType) String() string {
	if t == FONT_TYPE_BITMAP {
		return "bitmap"
	}
	return "system"
}

type SystemFontConfig struct {
	Name         string
	DefaultSize  uint16
	ResourceName string
}

type BitmapFontConfig struct {
	Name         string
	Size         uint16
	ResourceName string
}

type FontSystemConfig struct {
	SystemFontConfigs []*SystemFontConfig
	BitmapFontConfigs []*BitmapFontConfig
}

// Glyph is a rasterized character: a single-channel coverage bitmap stored
// top row first, its placement relative to the pen and the pen advance.
type Glyph struct {
	Rune   rune
	Width  int
	Height int
	// BearingX is the offset from the pen to the left edge of the bitmap.
	BearingX int
	// BearingY is the offset from the baseline up to the top edge of the bitmap.
	BearingY int
	// Advance is the horizontal pen advance in 26.6 fixed point.
	Advance fixed.Int26_6
	Bitmap  []uint8
}

// FontFace rasterizes glyphs at a requested pixel size.
type FontFace interface {
	Glyph(r rune, size int) (*Glyph, error)
}

// MeasureText returns the width in pixels of text drawn on a single line at
// size. Like the text renderer it ignores kerning.
func MeasureText(face FontFace, text string, size int) (int, error) {
	width := 0
	for _, r := range text {
		glyph, err := face.Glyph(r, size)
		if err != nil {
			return 0, err
		}
		width += glyph.Advance.Floor()
	}
	return width, nil
}
