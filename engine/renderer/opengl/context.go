package opengl

// OpenGLContext mirrors the bindings of the GL context so redundant binds
// can be skipped. Every renderer goes through the backend, which keeps this
// in sync.
type OpenGLContext struct {
	FramebufferWidth  int
	FramebufferHeight int

	CurrentProgram     uint32
	CurrentVertexArray uint32
	CurrentArrayBuffer uint32
	CurrentTexture     [MaxTextureUnits]uint32
	ActiveTextureUnit  uint32

	// uniformLocations caches glGetUniformLocation per program.
	uniformLocations map[uint32]map[string]int32
}

func newContext() *OpenGLContext {
	return &OpenGLContext{
		uniformLocations: make(map[uint32]map[string]int32),
	}
}

// forgetProgram drops every cached state that refers to program.
func (c *OpenGLContext) forgetProgram(program uint32) {
	delete(c.uniformLocations, program)
	if c.CurrentProgram == program {
		c.CurrentProgram = 0
	}
}
