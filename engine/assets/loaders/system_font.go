package loaders

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// SystemFont rasterizes glyphs from a TrueType or OpenType font. One face
// is kept per requested pixel size.
type SystemFont struct {
	Name  string
	font  *sfnt.Font
	mutex sync.Mutex
	faces map[int]font.Face
}

// NewSystemFont parses raw font bytes. Collections use their first font.
func NewSystemFont(name string, data []byte) (*SystemFont, error) {
	collection, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrFontLoad, err)
	}
	if collection.NumFonts() == 0 {
		return nil, fmt.Errorf("%w: %s has no fonts", core.ErrFontLoad, name)
	}
	f, err := collection.Font(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrFontLoad, err)
	}
	return &SystemFont{
		Name:  name,
		font:  f,
		faces: make(map[int]font.Face),
	}, nil
}

func (sf *SystemFont) face(size int) (font.Face, error) {
	sf.mutex.Lock()
	defer sf.mutex.Unlock()

	if face, ok := sf.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(sf.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrFontLoad, err)
	}
	sf.faces[size] = face
	return face, nil
}

// Glyph rasterizes r at size pixels. Glyphs without outlines, like space,
// come back with an empty bitmap and only an advance.
func (sf *SystemFont) Glyph(r rune, size int) (*metadata.Glyph, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid font size %d", core.ErrGlyphNotFound, size)
	}
	face, err := sf.face(size)
	if err != nil {
		return nil, err
	}

	sf.mutex.Lock()
	defer sf.mutex.Unlock()

	var idx sfnt.GlyphIndex
	var buf sfnt.Buffer
	if idx, err = sf.font.GlyphIndex(&buf, r); err != nil || idx == 0 {
		return nil, fmt.Errorf("%w: %q in %s", core.ErrGlyphNotFound, r, sf.Name)
	}

	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", core.ErrGlyphNotFound, r, sf.Name)
	}

	g := &metadata.Glyph{
		Rune:     r,
		Width:    dr.Dx(),
		Height:   dr.Dy(),
		BearingX: dr.Min.X,
		BearingY: -dr.Min.Y,
		Advance:  advance,
	}
	if dr.Empty() {
		g.Width, g.Height = 0, 0
		return g, nil
	}

	coverage := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	draw.Draw(coverage, coverage.Bounds(), mask, maskp, draw.Src)
	g.Bitmap = coverage.Pix
	return g, nil
}

// Close releases the cached faces.
func (sf *SystemFont) Close() error {
	sf.mutex.Lock()
	defer sf.mutex.Unlock()
	for size, face := range sf.faces {
		if err := face.Close(); err != nil {
			return err
		}
		delete(sf.faces, size)
	}
	return nil
}

type SystemFontLoader struct{}

func (fl *SystemFontLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sf, err := NewSystemFont(name, data)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		ResourceType: metadata.ResourceTypeSystemFont,
		Name:         name,
		FullPath:     path,
		DataSize:     uint64(len(data)),
		Data:         sf,
	}, nil
}

func (fl *SystemFontLoader) Unload(res *metadata.Resource) error {
	if sf, ok := res.Data.(*SystemFont); ok {
		if err := sf.Close(); err != nil {
			return err
		}
	}
	res.Data = nil
	res.DataSize = 0
	return nil
}
