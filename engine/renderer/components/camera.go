package components

import (
	"github.com/spaghettifunk/anima2d/engine/math"
)

/**
 * @brief A 2D camera following a center point on the canvas. It tracks two
 * views: the default view, centered on the framebuffer (the identity), and
 * the camera view centered on Center. Exactly one of them is active.
 */
type Camera struct {
	/**
	 * @brief The point the camera view is centered on, in pixels.
	 * NOTE: Do not set this directly, use SetCenter() instead
	 * so the view matrix is recalculated when needed.
	 */
	Center math.Vec2
	/** @brief Internal flag used to determine when the view matrices need to be rebuilt. */
	IsDirty bool

	width  int
	height int
	active bool

	defaultView math.Mat4
	cameraView  math.Mat4
}

func NewCamera(width, height int) *Camera {
	camera := &Camera{}
	camera.Resize(width, height)
	camera.Reset()
	return camera
}

// Reset centers the camera on the framebuffer and deactivates it.
func (c *Camera) Reset() {
	c.Center = math.NewVec2(float32(c.width)/2, float32(c.height)/2)
	c.active = false
	c.IsDirty = true
}

// Resize updates the framebuffer size both views are derived from.
func (c *Camera) Resize(width, height int) {
	if c.width == width && c.height == height {
		return
	}
	c.width = width
	c.height = height
	c.IsDirty = true
}

func (c *Camera) Size() (int, int) {
	return c.width, c.height
}

func (c *Camera) GetCenter() math.Vec2 {
	return c.Center
}

func (c *Camera) SetCenter(center math.Vec2) {
	c.Center = center
	c.IsDirty = true
}

// Move shifts the center by delta pixels.
func (c *Camera) Move(delta math.Vec2) {
	c.SetCenter(c.Center.Add(delta))
}

func (c *Camera) rebuild() {
	if !c.IsDirty {
		return
	}
	c.defaultView = math.NewMat4View2D(float32(c.width)/2, float32(c.height)/2, c.width, c.height)
	c.cameraView = math.NewMat4View2D(c.Center.X, c.Center.Y, c.width, c.height)
	c.IsDirty = false
}

func (c *Camera) DefaultView() math.Mat4 {
	c.rebuild()
	return c.defaultView
}

func (c *Camera) CameraView() math.Mat4 {
	c.rebuild()
	return c.cameraView
}

// SetActive switches between the camera view (true) and the default view.
func (c *Camera) SetActive(active bool) {
	c.active = active
}

func (c *Camera) IsActive() bool {
	return c.active
}

// View returns whichever view is currently active.
func (c *Camera) View() math.Mat4 {
	if c.active {
		return c.CameraView()
	}
	return c.DefaultView()
}

// Projection maps framebuffer pixels (top-left origin) onto NDC.
func (c *Camera) Projection() math.Mat4 {
	return math.NewMat4ScreenProjection(c.width, c.height)
}
