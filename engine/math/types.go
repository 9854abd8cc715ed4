package math

import "github.com/go-gl/mathgl/mgl32"

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Mat4 is a 4x4 column-major matrix, laid out the way OpenGL expects it
// for glUniformMatrix4fv with transpose set to false.
type Mat4 = mgl32.Mat4

/**
 * @brief Represents the extents of a 2d object.
 */
type Extents2D struct {
	/** @brief The minimum extents of the object. */
	Min Vec2
	/** @brief The maximum extents of the object. */
	Max Vec2
}
