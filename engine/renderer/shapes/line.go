package shapes

import (
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// LineRenderer batches one pixel wide line segments.
type LineRenderer struct {
	batch *batch

	positions []float32
	colors    []float32
}

func NewLineRenderer(backend metadata.RendererBackend, shader *metadata.Shader) *LineRenderer {
	return &LineRenderer{
		batch: newBatch(backend, shader, withColor),
	}
}

func (r *LineRenderer) Enqueue(from, to math.Vec2, color metadata.Color, camera Camera) {
	vp := viewProjection(camera)
	x0, y0 := project(vp, from.X, from.Y)
	x1, y1 := project(vp, to.X, to.Y)
	r.positions = append(r.positions, x0, y0, x1, y1)
	r.colors = appendColor(r.colors, color.Normalized(), metadata.LineVertexCount)
}

// Pending returns the number of queued segments.
func (r *LineRenderer) Pending() int {
	return len(r.positions) / (metadata.PositionComponents * metadata.LineVertexCount)
}

func (r *LineRenderer) Flush() {
	if len(r.positions) == 0 {
		return
	}
	r.batch.bind()
	r.batch.upload(metadata.BufferUsageDynamic, r.positions, r.colors, nil, nil)
	r.batch.drawArrays(metadata.DrawModeLines, len(r.positions)/metadata.PositionComponents)

	r.positions = r.positions[:0]
	r.colors = r.colors[:0]
}

// TakeDrawCalls returns the draw calls issued since the previous call.
func (r *LineRenderer) TakeDrawCalls() int {
	return r.batch.takeDraws()
}

func (r *LineRenderer) Destroy() {
	r.batch.destroy()
}
