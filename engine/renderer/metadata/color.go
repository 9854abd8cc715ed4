package metadata

import "fmt"

// Color is an 8-bit per channel RGBA colour.
type Color struct {
	R, G, B, A uint8
}

// NormalizedColor holds the channels of a Color mapped onto [0, 1].
type NormalizedColor struct {
	R, G, B, A float32
}

var (
	Transparent = NewColor(0x00000000)
	Black       = NewColor(0x000000ff)
	White       = NewColor(0xffffffff)
	Gray        = NewColor(0x808080ff)
	Red         = NewColor(0xff0000ff)
	Green       = NewColor(0x00ff00ff)
	Blue        = NewColor(0x0000ffff)
)

// NewColor unpacks 0xRRGGBBAA.
func NewColor(packed uint32) Color {
	return Color{
		R: uint8(packed >> 24 & 0xff),
		G: uint8(packed >> 16 & 0xff),
		B: uint8(packed >> 8 & 0xff),
		A: uint8(packed & 0xff),
	}
}

func NewColorRGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Packed returns the colour as 0xRRGGBBAA.
func (c Color) Packed() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

func (c Color) Normalized() NormalizedColor {
	return NormalizedColor{
		R: float32(c.R) / 255.0,
		G: float32(c.G) / 255.0,
		B: float32(c.B) / 255.0,
		A: float32(c.A) / 255.0,
	}
}

func (c Color) String() string {
	return fmt.Sprintf("#%08x", c.Packed())
}

// Array returns the channels in RGBA order, ready for a vec4 uniform.
func (n NormalizedColor) Array() [4]float32 {
	return [4]float32{n.R, n.G, n.B, n.A}
}
