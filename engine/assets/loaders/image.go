package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

type ImageLoader struct{}

func (il *ImageLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	flip := false
	if p, ok := params.(*metadata.ImageResourceParams); ok && p != nil {
		flip = p.FlipY
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := DecodeImage(f, flip)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &metadata.Resource{
		ResourceType: metadata.ResourceTypeImage,
		FullPath:     path,
		DataSize:     uint64(len(data.Pixels)),
		Data:         data,
	}, nil
}

func (il *ImageLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	res.DataSize = 0
	return nil
}

// DecodeImage decodes any registered image format into tightly packed 8-bit
// pixels. Opaque images come out as RGB, everything else as RGBA with
// straight alpha.
func DecodeImage(r io.Reader, flipY bool) (*metadata.ImageResourceData, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrTextureLoad, err)
	}
	rgba := ToNRGBA(src)

	channels := 4
	if rgba.Opaque() {
		channels = 3
	}

	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	pixels := make([]uint8, 0, w*h*channels)
	for row := 0; row < h; row++ {
		y := row
		if flipY {
			y = h - 1 - row
		}
		line := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		if channels == 4 {
			pixels = append(pixels, line...)
			continue
		}
		for x := 0; x < w; x++ {
			pixels = append(pixels, line[x*4], line[x*4+1], line[x*4+2])
		}
	}

	return &metadata.ImageResourceData{
		ChannelCount: uint8(channels),
		Width:        uint32(w),
		Height:       uint32(h),
		Pixels:       pixels,
	}, nil
}

// ToNRGBA converts img to a zero-origin NRGBA image.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
