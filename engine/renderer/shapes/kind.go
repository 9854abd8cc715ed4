// Package shapes holds the per-kind shape renderers. Rectangles, triangles,
// lines and textured quads are batched until flushed; circles and text draw
// immediately.
package shapes

import (
	"fmt"

	"github.com/spaghettifunk/anima2d/engine/math"
)

// Kind identifies one of the batched shape renderers.
type Kind uint8

const (
	KindRectangle Kind = iota
	KindTriangle
	KindLine
	KindTexture
)

// BatchedKinds lists every batched kind in flush order.
var BatchedKinds = [...]Kind{KindRectangle, KindTriangle, KindLine, KindTexture}

func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindTriangle:
		return "triangle"
	case KindLine:
		return "line"
	case KindTexture:
		return "texture"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Camera provides the matrices shapes are placed with.
type Camera interface {
	View() math.Mat4
	Projection() math.Mat4
}

func viewProjection(camera Camera) math.Mat4 {
	return camera.Projection().Mul4(camera.View())
}

// project transforms a pixel-space point into clip space.
func project(mvp math.Mat4, x, y float32) (float32, float32) {
	p := math.NewVec3(x, y, 0).Transform(mvp)
	return p.X, p.Y
}
