package shapes

import (
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

type bufferLayout uint8

const (
	withColor bufferLayout = 1 << iota
	withTexcoord
	withIndices
)

// batch owns the GPU objects of one batched renderer. The CPU side pending
// data lives in the renderer; batch only moves it to the GPU and draws it.
type batch struct {
	backend metadata.RendererBackend
	shader  *metadata.Shader

	vertexArray    uint32
	positionBuffer uint32
	colorBuffer    uint32
	texcoordBuffer uint32
	indexBuffer    uint32

	draws     int
	destroyed bool
}

func newBatch(backend metadata.RendererBackend, shader *metadata.Shader, layout bufferLayout) *batch {
	b := &batch{backend: backend, shader: shader}

	b.vertexArray = backend.VertexArrayCreate()
	backend.VertexArrayBind(b.vertexArray)

	b.positionBuffer = backend.BufferCreate()
	backend.VertexAttribute(b.positionBuffer, metadata.AttributeLocationPosition, metadata.PositionComponents)
	if layout&withColor != 0 {
		b.colorBuffer = backend.BufferCreate()
		backend.VertexAttribute(b.colorBuffer, metadata.AttributeLocationColor, metadata.ColorComponents)
	}
	if layout&withTexcoord != 0 {
		b.texcoordBuffer = backend.BufferCreate()
		backend.VertexAttribute(b.texcoordBuffer, metadata.AttributeLocationTexcoord, metadata.TexcoordComponents)
	}
	if layout&withIndices != 0 {
		b.indexBuffer = backend.BufferCreate()
	}
	return b
}

// bind makes the program and vertex array of the batch current.
func (b *batch) bind() {
	b.backend.ShaderUse(b.shader)
	b.backend.VertexArrayBind(b.vertexArray)
}

// upload replaces the GPU buffers with the given data, one transfer each.
// Buffers the batch was not created with are skipped.
func (b *batch) upload(usage metadata.BufferUsage, positions, colors, texcoords []float32, indices []uint32) {
	b.backend.BufferLoadVertices(b.positionBuffer, positions, usage)
	if b.colorBuffer != 0 {
		b.backend.BufferLoadVertices(b.colorBuffer, colors, usage)
	}
	if b.texcoordBuffer != 0 {
		b.backend.BufferLoadVertices(b.texcoordBuffer, texcoords, usage)
	}
	if b.indexBuffer != 0 {
		b.backend.BufferLoadIndices(b.indexBuffer, indices, usage)
	}
}

func (b *batch) drawArrays(mode metadata.DrawMode, count int) {
	b.backend.DrawArrays(mode, count)
	b.draws++
}

func (b *batch) drawElements(count int) {
	b.backend.DrawElements(metadata.DrawModeTriangles, count)
	b.draws++
}

// takeDraws returns the number of draw calls issued since the last call.
func (b *batch) takeDraws() int {
	n := b.draws
	b.draws = 0
	return n
}

func (b *batch) destroy() {
	if b.destroyed {
		return
	}
	for _, buffer := range []uint32{b.positionBuffer, b.colorBuffer, b.texcoordBuffer, b.indexBuffer} {
		if buffer != 0 {
			b.backend.BufferDestroy(buffer)
		}
	}
	b.backend.VertexArrayDestroy(b.vertexArray)
	b.destroyed = true
}

// appendColor repeats a normalized colour once per vertex.
func appendColor(colors []float32, color metadata.NormalizedColor, vertices int) []float32 {
	for i := 0; i < vertices; i++ {
		colors = append(colors, color.R, color.G, color.B, color.A)
	}
	return colors
}
