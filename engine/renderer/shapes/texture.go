package shapes

import (
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// renderGroup accumulates the quads drawn with one texture.
type renderGroup struct {
	texture   *metadata.Texture
	positions []float32
	texcoords []float32
	indices   []uint32
	vertices  uint32
}

// TextureRenderer batches textured quads, one draw per distinct texture.
// Groups are keyed by the texture object, so two textures holding identical
// pixels still land in separate groups whether or not an ID was assigned. Groups are flushed in map order: quads
// using different textures have no defined order between them.
type TextureRenderer struct {
	batch  *batch
	groups map[*metadata.Texture]*renderGroup
}

func NewTextureRenderer(backend metadata.RendererBackend, shader *metadata.Shader) *TextureRenderer {
	return &TextureRenderer{
		batch:  newBatch(backend, shader, withTexcoord|withIndices),
		groups: make(map[*metadata.Texture]*renderGroup),
	}
}

func (r *TextureRenderer) Enqueue(x, y, width, height float32, rotation math.Rotation, texture *metadata.Texture, camera Camera) {
	group, ok := r.groups[texture]
	if !ok {
		group = &renderGroup{texture: texture}
		r.groups[texture] = group
	}

	transform := math.NewTransform2D(x, y, width, height, rotation)
	mvp := transform.MVP(camera.View(), camera.Projection())
	for i, corner := range metadata.QuadCorners {
		px, py := project(mvp, corner.X, corner.Y)
		uv := metadata.QuadImageUVs[i]
		group.positions = append(group.positions, px, py)
		group.texcoords = append(group.texcoords, uv.X, uv.Y)
	}
	for _, index := range metadata.QuadIndices {
		group.indices = append(group.indices, group.vertices+index)
	}
	group.vertices += metadata.QuadVertexCount
}

// Pending returns the number of queued quads across all groups.
func (r *TextureRenderer) Pending() int {
	n := 0
	for _, group := range r.groups {
		n += int(group.vertices) / metadata.QuadVertexCount
	}
	return n
}

// Groups returns the number of distinct textures queued.
func (r *TextureRenderer) Groups() int {
	return len(r.groups)
}

func (r *TextureRenderer) Flush() {
	if len(r.groups) == 0 {
		return
	}
	r.batch.bind()
	r.batch.backend.SetUniformInt(r.batch.shader, metadata.UniformTexture, 0)
	for _, group := range r.groups {
		r.batch.backend.TextureBind(group.texture, 0)
		r.batch.upload(metadata.BufferUsageDynamic, group.positions, nil, group.texcoords, group.indices)
		r.batch.drawElements(len(group.indices))
	}
	clear(r.groups)
}

// TakeDrawCalls returns the draw calls issued since the previous call.
func (r *TextureRenderer) TakeDrawCalls() int {
	return r.batch.takeDraws()
}

func (r *TextureRenderer) Destroy() {
	r.batch.destroy()
}
