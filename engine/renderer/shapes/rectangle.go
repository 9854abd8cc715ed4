package shapes

import (
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// RectangleRenderer batches filled, optionally rotated rectangles into a
// single indexed draw.
type RectangleRenderer struct {
	batch *batch

	positions []float32
	colors    []float32
	indices   []uint32
	vertices  uint32
}

func NewRectangleRenderer(backend metadata.RendererBackend, shader *metadata.Shader) *RectangleRenderer {
	return &RectangleRenderer{
		batch: newBatch(backend, shader, withColor|withIndices),
	}
}

// Enqueue appends one rectangle whose top-left corner sits at (x, y). The
// rectangle rotates around its center.
func (r *RectangleRenderer) Enqueue(x, y, width, height float32, rotation math.Rotation, color metadata.Color, camera Camera) {
	transform := math.NewTransform2D(x, y, width, height, rotation)
	mvp := transform.MVP(camera.View(), camera.Projection())

	for _, corner := range metadata.QuadCorners {
		px, py := project(mvp, corner.X, corner.Y)
		r.positions = append(r.positions, px, py)
	}
	r.colors = appendColor(r.colors, color.Normalized(), metadata.QuadVertexCount)
	for _, index := range metadata.QuadIndices {
		r.indices = append(r.indices, r.vertices+index)
	}
	r.vertices += metadata.QuadVertexCount
}

// Pending returns the number of queued rectangles.
func (r *RectangleRenderer) Pending() int {
	return int(r.vertices) / metadata.QuadVertexCount
}

// Flush draws every queued rectangle with one call. It does nothing when
// the queue is empty.
func (r *RectangleRenderer) Flush() {
	if r.vertices == 0 {
		return
	}
	r.batch.bind()
	r.batch.upload(metadata.BufferUsageDynamic, r.positions, r.colors, nil, r.indices)
	r.batch.drawElements(len(r.indices))

	r.positions = r.positions[:0]
	r.colors = r.colors[:0]
	r.indices = r.indices[:0]
	r.vertices = 0
}

// TakeDrawCalls returns the draw calls issued since the previous call.
func (r *RectangleRenderer) TakeDrawCalls() int {
	return r.batch.takeDraws()
}

func (r *RectangleRenderer) Destroy() {
	r.batch.destroy()
}
