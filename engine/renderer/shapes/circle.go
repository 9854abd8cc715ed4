package shapes

import (
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// CircleRenderer draws filled circles immediately, one draw per circle. The
// circle is the disc inscribed in its bounding quad.
type CircleRenderer struct {
	quad *quad
}

func NewCircleRenderer(backend metadata.RendererBackend, shader *metadata.Shader) *CircleRenderer {
	return &CircleRenderer{quad: newQuad(backend, shader, metadata.QuadBitmapUVs)}
}

func (r *CircleRenderer) Draw(x, y, radius float32, color metadata.Color, camera Camera) {
	transform := math.NewTransform2D(x-radius, y-radius, radius*2, radius*2, math.Degrees(0))
	r.quad.draw(transform.MVP(camera.View(), camera.Projection()), color.Normalized())
}

// TakeDrawCalls returns the draw calls issued since the previous call.
func (r *CircleRenderer) TakeDrawCalls() int {
	return r.quad.takeDraws()
}

func (r *CircleRenderer) Destroy() {
	r.quad.destroy()
}
