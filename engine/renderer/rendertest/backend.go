// Package rendertest provides in-memory stand-ins for the GPU backend and the
// window surface so renderers can be exercised without a GL context.
package rendertest

import (
	"fmt"

	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// DrawCall is a snapshot of the state captured when a draw was issued.
type DrawCall struct {
	Shader  string
	Mode    metadata.DrawMode
	Indexed bool
	// Count is the element count passed to the draw.
	Count int
	// Vertices is the number of vertices in the position buffer of the bound
	// vertex array.
	Vertices int
	// Positions holds the uploaded positions, two floats per vertex.
	Positions []float32
	// Texture is the ID of the texture bound to unit 0, if any.
	Texture uint32
	// TextureHandle is the GPU handle of the texture bound to unit 0.
	TextureHandle uint32
	// MVP is the last value of the mvp uniform of the program, if set.
	MVP math.Mat4
	// Color is the last value of the color uniform of the program, if set.
	Color [4]float32
}

type attribute struct {
	buffer     uint32
	components int
}

type vertexArray struct {
	attributes map[uint32]attribute
	elements   uint32
}

// Backend records every call it receives. The zero value is not usable,
// call NewBackend.
type Backend struct {
	Draws []DrawCall

	ShadersCreated   int
	ShadersDestroyed int
	TexturesCreated  int
	// TexturesDestroyed lists destroyed texture names in order.
	TexturesDestroyed []string
	BuffersCreated    int
	BuffersDestroyed  int
	Uploads           int
	Clears            []metadata.NormalizedColor
	Viewports         [][2]int

	// FailShader makes ShaderCreate fail for the named program.
	FailShader string

	nextHandle     uint32
	program        *metadata.Shader
	bound          uint32
	textureUnit0   uint32
	textureHandle0 uint32
	vertexArrays   map[uint32]*vertexArray
	floats         map[uint32][]float32
	indices        map[uint32][]uint32
	mat4s          map[uint32]map[string]math.Mat4
	vec4s          map[uint32]map[string][4]float32
	live           map[uint32]bool
}

func NewBackend() *Backend {
	return &Backend{
		vertexArrays: make(map[uint32]*vertexArray),
		floats:       make(map[uint32][]float32),
		indices:      make(map[uint32][]uint32),
		mat4s:        make(map[uint32]map[string]math.Mat4),
		vec4s:        make(map[uint32]map[string][4]float32),
		live:         make(map[uint32]bool),
	}
}

func (b *Backend) handle() uint32 {
	b.nextHandle++
	b.live[b.nextHandle] = true
	return b.nextHandle
}

// Reset forgets recorded draws, keeping every created object alive.
func (b *Backend) Reset() {
	b.Draws = nil
	b.Uploads = 0
}

// DrawCounts returns the element count of every recorded draw in order.
func (b *Backend) DrawCounts() []int {
	counts := make([]int, len(b.Draws))
	for i, d := range b.Draws {
		counts[i] = d.Count
	}
	return counts
}

// Live reports how many GPU objects have been created and not destroyed.
func (b *Backend) Live() int {
	return len(b.live)
}

func (b *Backend) Initialize(config *metadata.RendererBackendConfig) error { return nil }
func (b *Backend) Shutdown() error                                         { return nil }

func (b *Backend) Viewport(width, height int) {
	b.Viewports = append(b.Viewports, [2]int{width, height})
}

func (b *Backend) Clear(color metadata.NormalizedColor) {
	b.Clears = append(b.Clears, color)
}

func (b *Backend) ShaderCreate(shader *metadata.Shader) error {
	if shader.Name == b.FailShader {
		return fmt.Errorf("shader '%s': forced failure", shader.Name)
	}
	if shader.Program != 0 {
		delete(b.live, shader.Program)
	}
	shader.Program = b.handle()
	shader.State = metadata.SHADER_STATE_INITIALIZED
	b.ShadersCreated++
	return nil
}

func (b *Backend) ShaderDestroy(shader *metadata.Shader) {
	delete(b.live, shader.Program)
	shader.Program = 0
	shader.State = metadata.SHADER_STATE_NOT_CREATED
	b.ShadersDestroyed++
}

func (b *Backend) ShaderUse(shader *metadata.Shader) {
	b.program = shader
}

func (b *Backend) SetUniformMat4(shader *metadata.Shader, name string, value math.Mat4) {
	if b.mat4s[shader.Program] == nil {
		b.mat4s[shader.Program] = make(map[string]math.Mat4)
	}
	b.mat4s[shader.Program][name] = value
}

func (b *Backend) SetUniformVec4(shader *metadata.Shader, name string, value [4]float32) {
	if b.vec4s[shader.Program] == nil {
		b.vec4s[shader.Program] = make(map[string][4]float32)
	}
	b.vec4s[shader.Program][name] = value
}

func (b *Backend) SetUniformInt(shader *metadata.Shader, name string, value int32) {}

func (b *Backend) VertexArrayCreate() uint32 {
	h := b.handle()
	b.vertexArrays[h] = &vertexArray{attributes: make(map[uint32]attribute)}
	return h
}

func (b *Backend) VertexArrayBind(vertexArray uint32) {
	b.bound = vertexArray
}

func (b *Backend) VertexArrayDestroy(vertexArray uint32) {
	delete(b.vertexArrays, vertexArray)
	delete(b.live, vertexArray)
}

func (b *Backend) BufferCreate() uint32 {
	b.BuffersCreated++
	return b.handle()
}

func (b *Backend) BufferDestroy(buffer uint32) {
	delete(b.floats, buffer)
	delete(b.indices, buffer)
	delete(b.live, buffer)
	b.BuffersDestroyed++
}

func (b *Backend) BufferLoadVertices(buffer uint32, data []float32, usage metadata.BufferUsage) {
	b.floats[buffer] = append([]float32(nil), data...)
	b.Uploads++
}

func (b *Backend) BufferLoadIndices(buffer uint32, data []uint32, usage metadata.BufferUsage) {
	b.indices[buffer] = append([]uint32(nil), data...)
	if va, ok := b.vertexArrays[b.bound]; ok {
		va.elements = buffer
	}
	b.Uploads++
}

func (b *Backend) VertexAttribute(buffer uint32, location uint32, components int) {
	if va, ok := b.vertexArrays[b.bound]; ok {
		va.attributes[location] = attribute{buffer: buffer, components: components}
	}
}

func (b *Backend) TextureCreate(texture *metadata.Texture) error {
	if texture.Handle != 0 {
		delete(b.live, texture.Handle)
	}
	texture.Handle = b.handle()
	texture.Generation++
	b.TexturesCreated++
	return nil
}

func (b *Backend) TextureBind(texture *metadata.Texture, unit uint32) {
	if unit == 0 {
		b.textureUnit0 = texture.ID
		b.textureHandle0 = texture.Handle
	}
}

func (b *Backend) TextureDestroy(texture *metadata.Texture) {
	delete(b.live, texture.Handle)
	texture.Handle = 0
	b.TexturesDestroyed = append(b.TexturesDestroyed, texture.Name)
}

func (b *Backend) DrawArrays(mode metadata.DrawMode, count int) {
	b.record(mode, count, false)
}

func (b *Backend) DrawElements(mode metadata.DrawMode, count int) {
	b.record(mode, count, true)
}

func (b *Backend) record(mode metadata.DrawMode, count int, indexed bool) {
	call := DrawCall{Mode: mode, Count: count, Indexed: indexed, Texture: b.textureUnit0, TextureHandle: b.textureHandle0}
	if b.program != nil {
		call.Shader = b.program.Name
		call.MVP = b.mat4s[b.program.Program][metadata.UniformMVP]
		call.Color = b.vec4s[b.program.Program][metadata.UniformColor]
	}
	if va, ok := b.vertexArrays[b.bound]; ok {
		if attr, ok := va.attributes[metadata.AttributeLocationPosition]; ok && attr.components > 0 {
			positions := b.floats[attr.buffer]
			call.Positions = positions
			call.Vertices = len(positions) / attr.components
		}
	}
	b.Draws = append(b.Draws, call)
}
