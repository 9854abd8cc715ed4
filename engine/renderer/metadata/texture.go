package metadata

import (
	"fmt"

	"github.com/spaghettifunk/anima2d/engine/core"
)

const (
	/** @brief The default texture name. */
	DEFAULT_TEXTURE_NAME string = "default"
	/** @brief Width and height of the generated default texture. */
	DEFAULT_TEXTURE_DIMENSION uint32 = 64
)

/** @brief The pixel layout of a texture on the GPU. */
type PixelFormat uint8

const (
	/** @brief A single 8-bit channel. Only used for glyph bitmaps. */
	PixelFormatRed PixelFormat = iota
	/** @brief Three 8-bit channels. */
	PixelFormatRGB
	/** @brief Four 8-bit channels. */
	PixelFormatRGBA
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRed:
		return "red"
	case PixelFormatRGB:
		return "rgb"
	case PixelFormatRGBA:
		return "rgba"
	}
	return fmt.Sprintf("PixelFormat(%d)", uint8(f))
}

// PixelFormatForChannels maps a decoded image channel count onto its layout.
// Only 3 and 4 channel images are accepted.
func PixelFormatForChannels(channels uint8) (PixelFormat, error) {
	switch channels {
	case 3:
		return PixelFormatRGB, nil
	case 4:
		return PixelFormatRGBA, nil
	}
	return 0, fmt.Errorf("%d channels: %w", channels, core.ErrInvalidChannelCount)
}

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
)

/**
 * @brief Represents a texture.
 */
type Texture struct {
	/**
	 * @brief The unique texture identifier. Assigned once when the texture is
	 * created and never reused, so it doubles as the texture identity.
	 */
	ID uint32
	/** @brief The texture Name. */
	Name string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The number of channels in the texture. */
	ChannelCount uint8
	/** @brief The layout used when uploading Pixels. */
	Format PixelFormat
	/** @brief Generate a mipmap chain on upload. */
	Mipmaps bool
	/** @brief Filtering used for both minification and magnification. */
	Filter TextureFilter
	/** @brief The texture Generation. Incremented every time the data is reloaded. */
	Generation uint32
	/** @brief The raw texture data (pixels), rows stored bottom to top. */
	Pixels []uint8
	/** @brief The GPU handle owned by the renderer backend. Zero until uploaded. */
	Handle uint32
}

// NewTexture validates the channel count and builds an image texture with
// mipmaps enabled. The caller still has to assign an ID.
func NewTexture(name string, width, height uint32, channels uint8, pixels []uint8) (*Texture, error) {
	format, err := PixelFormatForChannels(channels)
	if err != nil {
		return nil, fmt.Errorf("texture '%s': %w", name, err)
	}
	if want := int(width) * int(height) * int(channels); len(pixels) != want {
		return nil, fmt.Errorf("texture '%s': expected %d bytes of pixel data, got %d: %w", name, want, len(pixels), core.ErrTextureLoad)
	}
	return &Texture{
		Name:         name,
		Width:        width,
		Height:       height,
		ChannelCount: channels,
		Format:       format,
		Mipmaps:      true,
		Filter:       TextureFilterModeLinear,
		Pixels:       pixels,
	}, nil
}

// NewGlyphTexture wraps a single-channel glyph bitmap. Glyph textures are
// short lived so they skip mipmaps.
func NewGlyphTexture(glyph *Glyph) *Texture {
	return &Texture{
		Name:         fmt.Sprintf("glyph_%U", glyph.Rune),
		Width:        uint32(glyph.Width),
		Height:       uint32(glyph.Height),
		ChannelCount: 1,
		Format:       PixelFormatRed,
		Filter:       TextureFilterModeLinear,
		Pixels:       glyph.Bitmap,
	}
}

// NewCheckerboardPixels generates the magenta/white pattern used for the
// default texture.
func NewCheckerboardPixels(dimension uint32) []uint8 {
	const channels = 4
	pixels := make([]uint8, dimension*dimension*channels)
	for row := uint32(0); row < dimension; row++ {
		for col := uint32(0); col < dimension; col++ {
			index := (row*dimension + col) * channels
			pixels[index+3] = 255
			if (row/8+col/8)%2 == 0 {
				pixels[index] = 255
				pixels[index+2] = 255
			} else {
				pixels[index] = 255
				pixels[index+1] = 255
				pixels[index+2] = 255
			}
		}
	}
	return pixels
}
