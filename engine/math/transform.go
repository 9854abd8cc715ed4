package math

// Transform2D places a unit quad on screen: the quad is scaled to Size, rotated
// around its own center and moved so its top-left corner sits at Position.
type Transform2D struct {
	Position Vec2
	Size     Vec2
	Rotation Rotation
}

func NewTransform2D(x, y, width, height float32, rotation Rotation) Transform2D {
	return Transform2D{
		Position: NewVec2(x, y),
		Size:     NewVec2(width, height),
		Rotation: rotation,
	}
}

// Model builds translate(center) * rotate * translate(-half size) * scale.
func (t Transform2D) Model() Mat4 {
	halfW := t.Size.X / 2
	halfH := t.Size.Y / 2

	model := NewMat4Translation(NewVec3(t.Position.X+halfW, t.Position.Y+halfH, 0))
	if !t.Rotation.IsZero() {
		model = model.Mul4(NewMat4EulerZ(t.Rotation.Radians()))
	}
	model = model.Mul4(NewMat4Translation(NewVec3(-halfW, -halfH, 0)))
	// z is flattened to 0 so every shape sits on the same plane.
	return model.Mul4(NewMat4Scale(NewVec3(t.Size.X, t.Size.Y, 0)))
}

// MVP composes projection * view * model for column vectors.
func (t Transform2D) MVP(view, projection Mat4) Mat4 {
	return projection.Mul4(view).Mul4(t.Model())
}

// NewMat4ScreenProjection maps pixel space with a top-left origin onto NDC:
// x in [0, width] to [-1, 1] and y in [0, height] to [1, -1].
func NewMat4ScreenProjection(width, height int) Mat4 {
	return NewMat4Orthographic(0, float32(width), float32(height), 0, -1, 1)
}

// NewMat4View2D returns the view matrix of a camera centered on (centerX,
// centerY) for a framebuffer of the given size. Centering on the middle of
// the framebuffer yields the identity.
func NewMat4View2D(centerX, centerY float32, width, height int) Mat4 {
	position := NewVec3(centerX-float32(width)/2, centerY-float32(height)/2, 0)
	direction := NewVec3(0, 0, -1)
	up := NewVec3(0, 1, 0)
	return NewMat4LookAt(position, position.Add(direction), up)
}
