package shapes

import (
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// TriangleRenderer batches filled triangles given by their three corners.
type TriangleRenderer struct {
	batch *batch

	positions []float32
	colors    []float32
}

func NewTriangleRenderer(backend metadata.RendererBackend, shader *metadata.Shader) *TriangleRenderer {
	return &TriangleRenderer{
		batch: newBatch(backend, shader, withColor),
	}
}

func (r *TriangleRenderer) Enqueue(p0, p1, p2 math.Vec2, color metadata.Color, camera Camera) {
	vp := viewProjection(camera)
	for _, p := range [metadata.TriangleVertexCount]math.Vec2{p0, p1, p2} {
		x, y := project(vp, p.X, p.Y)
		r.positions = append(r.positions, x, y)
	}
	r.colors = appendColor(r.colors, color.Normalized(), metadata.TriangleVertexCount)
}

// Pending returns the number of queued triangles.
func (r *TriangleRenderer) Pending() int {
	return len(r.positions) / (metadata.PositionComponents * metadata.TriangleVertexCount)
}

func (r *TriangleRenderer) Flush() {
	if len(r.positions) == 0 {
		return
	}
	r.batch.bind()
	r.batch.upload(metadata.BufferUsageDynamic, r.positions, r.colors, nil, nil)
	r.batch.drawArrays(metadata.DrawModeTriangles, len(r.positions)/metadata.PositionComponents)

	r.positions = r.positions[:0]
	r.colors = r.colors[:0]
}

// TakeDrawCalls returns the draw calls issued since the previous call.
func (r *TriangleRenderer) TakeDrawCalls() int {
	return r.batch.takeDraws()
}

func (r *TriangleRenderer) Destroy() {
	r.batch.destroy()
}
