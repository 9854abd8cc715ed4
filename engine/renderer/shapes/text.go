package shapes

import (
	"fmt"

	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// TextRenderer draws a string one glyph at a time. Every glyph is uploaded
// as its own single-channel texture, drawn and released straight away.
type TextRenderer struct {
	quad *quad
}

func NewTextRenderer(backend metadata.RendererBackend, shader *metadata.Shader) *TextRenderer {
	return &TextRenderer{quad: newQuad(backend, shader, metadata.QuadBitmapUVs)}
}

// Draw renders text on a single line. (x, y) is the top-left of the line box
// and the baseline sits size pixels below y. Kerning is not applied.
func (r *TextRenderer) Draw(x, y float32, size int, text string, font metadata.FontFace, color metadata.Color, camera Camera) error {
	backend := r.quad.backend
	normalized := color.Normalized()
	pen := x
	baseline := y + float32(size)

	for _, char := range text {
		glyph, err := font.Glyph(char, size)
		if err != nil {
			return fmt.Errorf("draw text %q: %w", text, err)
		}

		// whitespace has no bitmap, only an advance
		if glyph.Width > 0 && glyph.Height > 0 {
			texture := metadata.NewGlyphTexture(glyph)
			if err := backend.TextureCreate(texture); err != nil {
				return fmt.Errorf("draw text %q: %w", text, err)
			}

			transform := math.NewTransform2D(
				pen+float32(glyph.BearingX),
				baseline-float32(glyph.BearingY),
				float32(glyph.Width),
				float32(glyph.Height),
				math.Degrees(0),
			)
			r.quad.bind()
			backend.TextureBind(texture, 0)
			backend.SetUniformInt(r.quad.shader, metadata.UniformTexture, 0)
			r.quad.draw(transform.MVP(camera.View(), camera.Projection()), normalized)

			backend.TextureDestroy(texture)
		}

		pen += float32(glyph.Advance.Floor())
	}
	return nil
}

// TakeDrawCalls returns the draw calls issued since the previous call.
func (r *TextRenderer) TakeDrawCalls() int {
	return r.quad.takeDraws()
}

func (r *TextRenderer) Destroy() {
	r.quad.destroy()
}
