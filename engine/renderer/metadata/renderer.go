package metadata

import "github.com/spaghettifunk/anima2d/engine/math"

/** @brief The primitive assembled by a draw call. */
type DrawMode uint8

const (
	DrawModeTriangles DrawMode = iota
	DrawModeLines
)

func (m DrawMode) String() string {
	if m == DrawModeLines {
		return "lines"
	}
	return "triangles"
}

/** @brief Usage hint passed along with a buffer upload. */
type BufferUsage uint8

const (
	BufferUsageStatic BufferUsage = iota
	BufferUsageDynamic
)

type RendererBackendConfig struct {
	/** @brief The name of the application */
	ApplicationName string
	/** @brief Forward GPU debug messages to the logger. */
	Debug bool
}

// Surface is the slice of the window the renderer needs every frame.
type Surface interface {
	FramebufferSize() (width, height int)
	// Time reports monotonic seconds since the window layer started.
	Time() float64
	SwapBuffers()
	PollEvents()
}

// RendererBackend is the GPU context. It owns every piece of bound state
// (current program, vertex array, texture unit) so renderers never depend on
// bindings left behind by someone else: each draw rebinds what it needs.
type RendererBackend interface {
	Initialize(config *RendererBackendConfig) error
	Shutdown() error

	Viewport(width, height int)
	Clear(color NormalizedColor)

	ShaderCreate(shader *Shader) error
	ShaderDestroy(shader *Shader)
	ShaderUse(shader *Shader)
	SetUniformMat4(shader *Shader, name string, value math.Mat4)
	SetUniformVec4(shader *Shader, name string, value [4]float32)
	SetUniformInt(shader *Shader, name string, value int32)

	VertexArrayCreate() uint32
	VertexArrayBind(vertexArray uint32)
	VertexArrayDestroy(vertexArray uint32)

	BufferCreate() uint32
	BufferDestroy(buffer uint32)
	// BufferLoadVertices replaces the contents of an array buffer.
	BufferLoadVertices(buffer uint32, data []float32, usage BufferUsage)
	// BufferLoadIndices replaces the contents of the element buffer of the
	// currently bound vertex array.
	BufferLoadIndices(buffer uint32, data []uint32, usage BufferUsage)
	// VertexAttribute describes a tightly packed float attribute sourced from
	// buffer on the currently bound vertex array.
	VertexAttribute(buffer uint32, location uint32, components int)

	TextureCreate(texture *Texture) error
	TextureBind(texture *Texture, unit uint32)
	TextureDestroy(texture *Texture)

	DrawArrays(mode DrawMode, count int)
	DrawElements(mode DrawMode, count int)
}
