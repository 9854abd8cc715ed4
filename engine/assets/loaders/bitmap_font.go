package loaders

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/fzipp/bmfont"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// BitmapChar locates one character on a page of a bitmap font atlas.
type BitmapChar struct {
	X, Y, Width, Height int
	XOffset, YOffset    int
	XAdvance            int
	Page                int
}

type KerningPair struct {
	First, Second rune
}

// BitmapFont serves glyphs cut out of pre-rendered atlas pages. Requests
// for sizes other than the native one scale the cut-out.
type BitmapFont struct {
	Face       string
	Size       int
	LineHeight int
	Baseline   int
	Chars      map[rune]BitmapChar
	Kernings   map[KerningPair]int
	Pages      map[int]*image.NRGBA
}

// Glyph cuts r out of its page. Coverage comes from the page alpha, or from
// the red channel when the page is opaque.
func (bf *BitmapFont) Glyph(r rune, size int) (*metadata.Glyph, error) {
	c, ok := bf.Chars[r]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", core.ErrGlyphNotFound, r, bf.Face)
	}
	if size <= 0 {
		size = bf.Size
	}
	scale := float64(size) / float64(bf.Size)
	scaled := func(v int) int {
		return int(float64(v)*scale + 0.5)
	}

	g := &metadata.Glyph{
		Rune:     r,
		Width:    scaled(c.Width),
		Height:   scaled(c.Height),
		BearingX: scaled(c.XOffset),
		BearingY: scaled(bf.Baseline - c.YOffset),
		Advance:  fixed.Int26_6(float64(c.XAdvance)*scale*64 + 0.5),
	}
	if g.Width == 0 || g.Height == 0 {
		g.Width, g.Height = 0, 0
		return g, nil
	}

	page, ok := bf.Pages[c.Page]
	if !ok {
		return nil, fmt.Errorf("%w: page %d missing for %q", core.ErrFontLoad, c.Page, r)
	}
	src := page.SubImage(image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height))

	cell := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	if g.Width == c.Width && g.Height == c.Height {
		draw.Draw(cell, cell.Bounds(), src, src.Bounds().Min, draw.Src)
	} else {
		draw.BiLinear.Scale(cell, cell.Bounds(), src, src.Bounds(), draw.Src, nil)
	}

	opaque := page.Opaque()
	g.Bitmap = make([]uint8, g.Width*g.Height)
	for i := range g.Bitmap {
		if opaque {
			g.Bitmap[i] = cell.Pix[i*4]
		} else {
			g.Bitmap[i] = cell.Pix[i*4+3]
		}
	}
	return g, nil
}

// Kerning returns the pen adjustment between two characters at the native size.
func (bf *BitmapFont) Kerning(first, second rune) int {
	return bf.Kernings[KerningPair{First: first, Second: second}]
}

type BitmapFontLoader struct{}

func (fl *BitmapFontLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	bf, err := importFNTFile(path)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		ResourceType: metadata.ResourceTypeBitmapFont,
		Name:         strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FullPath:     path,
		Data:         bf,
	}, nil
}

func (fl *BitmapFontLoader) Unload(res *metadata.Resource) error {
	if bf, ok := res.Data.(*BitmapFont); ok {
		bf.Chars = nil
		bf.Kernings = nil
		bf.Pages = nil
	}
	res.Data = nil
	res.DataSize = 0
	return nil
}

func importFNTFile(path string) (*BitmapFont, error) {
	font, err := bmfont.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrFontLoad, err)
	}
	desc := font.Descriptor

	size := int(desc.Info.Size)
	if size < 0 {
		// negative sizes in AngelCode files mean "match character height"
		size = -size
	}
	if size == 0 {
		size = int(desc.Common.LineHeight)
	}

	bf := &BitmapFont{
		Face:       desc.Info.Face,
		Size:       size,
		LineHeight: int(desc.Common.LineHeight),
		Baseline:   int(desc.Common.Base),
		Chars:      make(map[rune]BitmapChar, len(desc.Chars)),
		Kernings:   make(map[KerningPair]int, len(desc.Kerning)),
		Pages:      make(map[int]*image.NRGBA, len(desc.Pages)),
	}

	dir := filepath.Dir(path)
	for _, p := range desc.Pages {
		img, err := decodePage(filepath.Join(dir, p.File))
		if err != nil {
			return nil, err
		}
		bf.Pages[int(p.ID)] = img
	}

	for _, g := range desc.Chars {
		bf.Chars[rune(g.ID)] = BitmapChar{
			X:        int(g.X),
			Y:        int(g.Y),
			Width:    int(g.Width),
			Height:   int(g.Height),
			XOffset:  int(g.XOffset),
			YOffset:  int(g.YOffset),
			XAdvance: int(g.XAdvance),
			Page:     int(g.Page),
		}
	}

	for p, k := range desc.Kerning {
		bf.Kernings[KerningPair{First: rune(p.First), Second: rune(p.Second)}] = int(k.Amount)
	}

	return bf, nil
}

func decodePage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrFontLoad, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: page %s: %s", core.ErrFontLoad, path, err)
	}
	return ToNRGBA(img), nil
}
