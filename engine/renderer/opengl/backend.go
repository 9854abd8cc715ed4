package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

const MaxTextureUnits = 16

// OpenGLRenderer submits commands to the OpenGL 3.3 core context current on
// the calling thread.
type OpenGLRenderer struct {
	context *OpenGLContext
	debug   bool
}

func New() *OpenGLRenderer {
	return &OpenGLRenderer{
		context: newContext(),
	}
}

// Initialize loads the GL entry points. It must run after the window made
// its context current.
func (r *OpenGLRenderer) Initialize(config *metadata.RendererBackendConfig) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	core.LogInfo("OpenGL %s, GLSL %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))
	core.LogInfo("Renderer: %s", gl.GoStr(gl.GetString(gl.RENDERER)))

	r.debug = config != nil && config.Debug
	if r.debug {
		var flags int32
		gl.GetIntegerv(gl.CONTEXT_FLAGS, &flags)
		if flags&gl.CONTEXT_FLAG_DEBUG_BIT != 0 {
			gl.Enable(gl.DEBUG_OUTPUT)
			gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
			gl.DebugMessageCallback(debugMessage, nil)
			core.LogDebug("GL debug output enabled")
		} else {
			core.LogWarn("GL debug output requested but the context has no debug flag")
		}
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	// glyph bitmaps are tightly packed single bytes
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return nil
}

func (r *OpenGLRenderer) Shutdown() error {
	r.context = newContext()
	return nil
}

func (r *OpenGLRenderer) Viewport(width, height int) {
	r.context.FramebufferWidth = width
	r.context.FramebufferHeight = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *OpenGLRenderer) Clear(color metadata.NormalizedColor) {
	gl.ClearColor(color.R, color.G, color.B, color.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (r *OpenGLRenderer) ShaderCreate(shader *metadata.Shader) error {
	program, err := linkProgram(shader.Name, shader.VertexSource, shader.FragmentSource)
	if err != nil {
		return err
	}
	if shader.Program != 0 {
		// a reload replaces the program behind the same shader
		r.ShaderDestroy(shader)
	}
	shader.Program = program
	shader.State = metadata.SHADER_STATE_INITIALIZED
	core.LogDebug("shader '%s' linked as program %d", shader.Name, program)
	return nil
}

func (r *OpenGLRenderer) ShaderDestroy(shader *metadata.Shader) {
	if shader.Program == 0 {
		return
	}
	r.context.forgetProgram(shader.Program)
	gl.DeleteProgram(shader.Program)
	shader.Program = 0
	shader.State = metadata.SHADER_STATE_NOT_CREATED
}

func (r *OpenGLRenderer) ShaderUse(shader *metadata.Shader) {
	if r.context.CurrentProgram == shader.Program {
		return
	}
	gl.UseProgram(shader.Program)
	r.context.CurrentProgram = shader.Program
}

func (r *OpenGLRenderer) uniformLocation(shader *metadata.Shader, name string) int32 {
	locations, ok := r.context.uniformLocations[shader.Program]
	if !ok {
		locations = make(map[string]int32)
		r.context.uniformLocations[shader.Program] = locations
	}
	location, ok := locations[name]
	if !ok {
		location = gl.GetUniformLocation(shader.Program, gl.Str(GLSafeString(name)))
		if location < 0 {
			core.LogWarn("shader '%s' has no active uniform '%s'", shader.Name, name)
		}
		locations[name] = location
	}
	return location
}

func (r *OpenGLRenderer) SetUniformMat4(shader *metadata.Shader, name string, value math.Mat4) {
	r.ShaderUse(shader)
	gl.UniformMatrix4fv(r.uniformLocation(shader, name), 1, false, &value[0])
}

func (r *OpenGLRenderer) SetUniformVec4(shader *metadata.Shader, name string, value [4]float32) {
	r.ShaderUse(shader)
	gl.Uniform4f(r.uniformLocation(shader, name), value[0], value[1], value[2], value[3])
}

func (r *OpenGLRenderer) SetUniformInt(shader *metadata.Shader, name string, value int32) {
	r.ShaderUse(shader)
	gl.Uniform1i(r.uniformLocation(shader, name), value)
}

func (r *OpenGLRenderer) VertexArrayCreate() uint32 {
	var vertexArray uint32
	gl.GenVertexArrays(1, &vertexArray)
	return vertexArray
}

func (r *OpenGLRenderer) VertexArrayBind(vertexArray uint32) {
	if r.context.CurrentVertexArray == vertexArray {
		return
	}
	gl.BindVertexArray(vertexArray)
	r.context.CurrentVertexArray = vertexArray
}

func (r *OpenGLRenderer) VertexArrayDestroy(vertexArray uint32) {
	if r.context.CurrentVertexArray == vertexArray {
		gl.BindVertexArray(0)
		r.context.CurrentVertexArray = 0
	}
	gl.DeleteVertexArrays(1, &vertexArray)
}

func (r *OpenGLRenderer) BufferCreate() uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return buffer
}

func (r *OpenGLRenderer) BufferDestroy(buffer uint32) {
	if r.context.CurrentArrayBuffer == buffer {
		r.context.CurrentArrayBuffer = 0
	}
	gl.DeleteBuffers(1, &buffer)
}

func (r *OpenGLRenderer) bindArrayBuffer(buffer uint32) {
	if r.context.CurrentArrayBuffer == buffer {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	r.context.CurrentArrayBuffer = buffer
}

func (r *OpenGLRenderer) BufferLoadVertices(buffer uint32, data []float32, usage metadata.BufferUsage) {
	r.bindArrayBuffer(buffer)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, glUsage(usage))
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), glUsage(usage))
}

func (r *OpenGLRenderer) BufferLoadIndices(buffer uint32, data []uint32, usage metadata.BufferUsage) {
	// the element binding is part of the bound vertex array
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buffer)
	if len(data) == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, glUsage(usage))
		return
	}
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, gl.Ptr(data), glUsage(usage))
}

func (r *OpenGLRenderer) VertexAttribute(buffer uint32, location uint32, components int) {
	r.bindArrayBuffer(buffer)
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointerWithOffset(location, int32(components), gl.FLOAT, false, int32(components*4), 0)
}

func (r *OpenGLRenderer) activeTexture(unit uint32) {
	if r.context.ActiveTextureUnit == unit {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	r.context.ActiveTextureUnit = unit
}

func (r *OpenGLRenderer) TextureCreate(texture *metadata.Texture) error {
	internalFormat, format, err := glPixelFormat(texture.Format)
	if err != nil {
		return fmt.Errorf("texture '%s': %w", texture.Name, err)
	}

	var handle uint32
	gl.GenTextures(1, &handle)
	r.activeTexture(0)
	gl.BindTexture(gl.TEXTURE_2D, handle)
	r.context.CurrentTexture[0] = handle

	minFilter, magFilter := glFilter(texture.Filter, texture.Mipmaps)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)

	var pixels interface{}
	if len(texture.Pixels) > 0 {
		pixels = texture.Pixels
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(texture.Width), int32(texture.Height), 0, format, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if texture.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	if texture.Handle != 0 {
		r.TextureDestroy(&metadata.Texture{Handle: texture.Handle})
	}
	texture.Handle = handle
	texture.Generation++
	return nil
}

func (r *OpenGLRenderer) TextureBind(texture *metadata.Texture, unit uint32) {
	if unit >= MaxTextureUnits {
		core.LogError("texture unit %d out of range (max=%d)", unit, MaxTextureUnits-1)
		return
	}
	r.activeTexture(unit)
	if r.context.CurrentTexture[unit] == texture.Handle {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, texture.Handle)
	r.context.CurrentTexture[unit] = texture.Handle
}

func (r *OpenGLRenderer) TextureDestroy(texture *metadata.Texture) {
	if texture.Handle == 0 {
		return
	}
	for unit, bound := range r.context.CurrentTexture {
		if bound == texture.Handle {
			r.context.CurrentTexture[unit] = 0
		}
	}
	handle := texture.Handle
	gl.DeleteTextures(1, &handle)
	texture.Handle = 0
}

func (r *OpenGLRenderer) DrawArrays(mode metadata.DrawMode, count int) {
	gl.DrawArrays(glDrawMode(mode), 0, int32(count))
}

func (r *OpenGLRenderer) DrawElements(mode metadata.DrawMode, count int) {
	gl.DrawElementsWithOffset(glDrawMode(mode), int32(count), gl.UNSIGNED_INT, 0)
}
