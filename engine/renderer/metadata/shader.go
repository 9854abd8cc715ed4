package metadata

/**
 * @brief Represents the current state of a given shader.
 */
type ShaderState int

const (
	/** @brief The shader has not yet gone through the creation process, and is unusable.*/
	SHADER_STATE_NOT_CREATED ShaderState = iota
	/** @brief The shader program is compiled, linked and ready for use.*/
	SHADER_STATE_INITIALIZED
)

// Names of the built-in shader programs.
const (
	BUILTIN_SHADER_NAME_SHAPE   string = "Builtin.ShapeShader"
	BUILTIN_SHADER_NAME_TEXTURE string = "Builtin.TextureShader"
	BUILTIN_SHADER_NAME_CIRCLE  string = "Builtin.CircleShader"
	BUILTIN_SHADER_NAME_TEXT    string = "Builtin.TextShader"
)

// Vertex attribute locations shared by every built-in program.
const (
	AttributeLocationPosition uint32 = 0
	AttributeLocationColor    uint32 = 1
	AttributeLocationTexcoord uint32 = 2
)

// Uniform names shared by every built-in program.
const (
	UniformMVP     = "u_mvp"
	UniformColor   = "u_color"
	UniformTexture = "u_texture"
)

/**
 * @brief Represents a shader on the frontend.
 */
type Shader struct {
	/** @brief The shader identifier */
	ID uint32
	/** @brief The shader name. */
	Name string
	/** @brief GLSL source of the vertex stage. */
	VertexSource string
	/** @brief GLSL source of the fragment stage. */
	FragmentSource string
	/** @brief The internal State of the shader. */
	State ShaderState
	/**
	 * @brief The linked program handle owned by the backend. A reload swaps it
	 * in place so holders of the *Shader pick up the new program.
	 */
	Program uint32
}

// ShaderSource resolves a program by name.
type ShaderSource interface {
	Acquire(name string) (*Shader, error)
}
