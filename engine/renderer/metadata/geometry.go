package metadata

import "github.com/spaghettifunk/anima2d/engine/math"

/**
 * @brief Represents a single vertex in 2D space.
 */
type Vertex2D struct {
	/** @brief The position of the vertex */
	Position math.Vec2
	/** @brief The texture coordinate of the vertex. */
	Texcoord math.Vec2
}

const (
	// Vertices per shape kind.
	QuadVertexCount     = 4
	QuadIndexCount      = 6
	TriangleVertexCount = 3
	LineVertexCount     = 2

	// Float components per attribute.
	PositionComponents = 2
	TexcoordComponents = 2
	ColorComponents    = 4
)

// QuadCorners are the corners of the unit quad in a y-down local space,
// ordered top-left, top-right, bottom-left, bottom-right.
var QuadCorners = [QuadVertexCount]math.Vec2{
	{X: 0, Y: 0}, // top-left
	{X: 1, Y: 0}, // top-right
	{X: 0, Y: 1}, // bottom-left
	{X: 1, Y: 1}, // bottom-right
}

// QuadIndices draws the quad as (TL, TR, BL) and (BL, BR, TR).
var QuadIndices = [QuadIndexCount]uint32{
	0, 1, 2,
	2, 3, 1,
}

// QuadImageUVs maps QuadCorners onto an image decoded with a vertical flip,
// so the top of the image lands at the top of the quad.
var QuadImageUVs = [QuadVertexCount]math.Vec2{
	{X: 0, Y: 1},
	{X: 1, Y: 1},
	{X: 0, Y: 0},
	{X: 1, Y: 0},
}

// QuadBitmapUVs maps QuadCorners onto a bitmap stored top row first, such as
// a rasterized glyph.
var QuadBitmapUVs = [QuadVertexCount]math.Vec2{
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: 1, Y: 1},
}

// UnitQuad returns the interleaved unit quad used by the immediate renderers.
func UnitQuad(uvs [QuadVertexCount]math.Vec2) [QuadVertexCount]Vertex2D {
	var out [QuadVertexCount]Vertex2D
	for i, c := range QuadCorners {
		out[i] = Vertex2D{Position: c, Texcoord: uvs[i]}
	}
	return out
}

// Flatten packs vertices as x, y, u, v.
func Flatten(vertices []Vertex2D) []float32 {
	out := make([]float32, 0, len(vertices)*(PositionComponents+TexcoordComponents))
	for _, v := range vertices {
		out = append(out, v.Position.X, v.Position.Y, v.Texcoord.X, v.Texcoord.Y)
	}
	return out
}
