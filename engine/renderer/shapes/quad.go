package shapes

import (
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// quad is a unit quad uploaded once and placed with an mvp uniform on every
// draw. It backs the renderers that do not batch.
type quad struct {
	*batch
}

func newQuad(backend metadata.RendererBackend, shader *metadata.Shader, uvs [metadata.QuadVertexCount]math.Vec2) *quad {
	q := &quad{batch: newBatch(backend, shader, withTexcoord|withIndices)}

	vertices := metadata.UnitQuad(uvs)
	positions := make([]float32, 0, len(vertices)*metadata.PositionComponents)
	texcoords := make([]float32, 0, len(vertices)*metadata.TexcoordComponents)
	for _, v := range vertices {
		positions = append(positions, v.Position.X, v.Position.Y)
		texcoords = append(texcoords, v.Texcoord.X, v.Texcoord.Y)
	}
	q.upload(metadata.BufferUsageStatic, positions, nil, texcoords, metadata.QuadIndices[:])
	return q
}

func (q *quad) draw(mvp math.Mat4, color metadata.NormalizedColor) {
	q.bind()
	q.backend.SetUniformMat4(q.shader, metadata.UniformMVP, mvp)
	q.backend.SetUniformVec4(q.shader, metadata.UniformColor, color.Array())
	q.drawElements(metadata.QuadIndexCount)
}
