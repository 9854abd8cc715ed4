package renderer

import (
	"fmt"
	gomath "math"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/components"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
	"github.com/spaghettifunk/anima2d/engine/renderer/shapes"
)

type FrameState uint8

const (
	FrameStateIdle FrameState = iota
	FrameStateInFrame
)

func (s FrameState) String() string {
	if s == FrameStateInFrame {
		return "in-frame"
	}
	return "idle"
}

// Stats counts the draw calls submitted during the last completed frame.
type Stats struct {
	Frame      uint64
	Rectangles int
	Triangles  int
	Lines      int
	Textures   int
	Circles    int
	Texts      int
}

// DrawCalls is the total number of draw calls of the frame.
func (s Stats) DrawCalls() int {
	return s.Rectangles + s.Triangles + s.Lines + s.Textures + s.Circles + s.Texts
}

// Renderer is the drawing surface of a frame. Batched kinds queue their
// shapes until something else has to be drawn: drawing a shape of one kind
// first flushes every other kind, so shapes always appear in call order.
type Renderer struct {
	backend metadata.RendererBackend
	surface metadata.Surface

	camera  *components.Camera
	clock   *core.Clock
	metrics *core.Metrics

	rectangles *shapes.RectangleRenderer
	triangles  *shapes.TriangleRenderer
	lines      *shapes.LineRenderer
	textures   *shapes.TextureRenderer
	circles    *shapes.CircleRenderer
	texts      *shapes.TextRenderer

	state     FrameState
	frameTime float64
	frame     uint64
	stats     Stats
	destroyed bool
}

// New builds every shape renderer on backend. Programs are resolved by
// name through shaders.
func New(backend metadata.RendererBackend, surface metadata.Surface, shaders metadata.ShaderSource) (*Renderer, error) {
	programs := make(map[string]*metadata.Shader, 4)
	for _, name := range []string{
		metadata.BUILTIN_SHADER_NAME_SHAPE,
		metadata.BUILTIN_SHADER_NAME_TEXTURE,
		metadata.BUILTIN_SHADER_NAME_CIRCLE,
		metadata.BUILTIN_SHADER_NAME_TEXT,
	} {
		shader, err := shaders.Acquire(name)
		if err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
		programs[name] = shader
	}

	width, height := surface.FramebufferSize()
	r := &Renderer{
		backend: backend,
		surface: surface,
		camera:  components.NewCamera(width, height),
		clock:   core.NewClock(surface.Time),
		metrics: core.NewMetrics(),

		rectangles: shapes.NewRectangleRenderer(backend, programs[metadata.BUILTIN_SHADER_NAME_SHAPE]),
		triangles:  shapes.NewTriangleRenderer(backend, programs[metadata.BUILTIN_SHADER_NAME_SHAPE]),
		lines:      shapes.NewLineRenderer(backend, programs[metadata.BUILTIN_SHADER_NAME_SHAPE]),
		textures:   shapes.NewTextureRenderer(backend, programs[metadata.BUILTIN_SHADER_NAME_TEXTURE]),
		circles:    shapes.NewCircleRenderer(backend, programs[metadata.BUILTIN_SHADER_NAME_CIRCLE]),
		texts:      shapes.NewTextRenderer(backend, programs[metadata.BUILTIN_SHADER_NAME_TEXT]),
	}
	r.clock.Start()
	core.LogDebug("renderer created for a %dx%d framebuffer", width, height)
	return r, nil
}

// WithDrawContext runs one frame: it measures the frame time, sets the
// viewport, runs fn, flushes every batch, presents and polls events. The
// frame always completes; the error of fn is returned afterwards.
func (r *Renderer) WithDrawContext(fn func() error) error {
	if r.state == FrameStateInFrame {
		return core.ErrFrameInProgress
	}
	r.state = FrameStateInFrame
	defer func() {
		r.state = FrameStateIdle
	}()

	r.frameTime = r.clock.Tick()
	r.clock.Update()
	r.metrics.Update(r.frameTime)

	width, height := r.surface.FramebufferSize()
	r.backend.Viewport(width, height)
	r.camera.Resize(width, height)

	err := fn()

	r.flushAll()
	r.collectStats()

	r.surface.SwapBuffers()
	r.surface.PollEvents()
	return err
}

func (r *Renderer) flush(kind shapes.Kind) {
	switch kind {
	case shapes.KindRectangle:
		r.rectangles.Flush()
	case shapes.KindTriangle:
		r.triangles.Flush()
	case shapes.KindLine:
		r.lines.Flush()
	case shapes.KindTexture:
		r.textures.Flush()
	}
}

func (r *Renderer) flushAll() {
	for _, kind := range shapes.BatchedKinds {
		r.flush(kind)
	}
}

func (r *Renderer) flushAllExcept(except shapes.Kind) {
	for _, kind := range shapes.BatchedKinds {
		if kind != except {
			r.flush(kind)
		}
	}
}

func (r *Renderer) collectStats() {
	r.frame++
	r.stats = Stats{
		Frame:      r.frame,
		Rectangles: r.rectangles.TakeDrawCalls(),
		Triangles:  r.triangles.TakeDrawCalls(),
		Lines:      r.lines.TakeDrawCalls(),
		Textures:   r.textures.TakeDrawCalls(),
		Circles:    r.circles.TakeDrawCalls(),
		Texts:      r.texts.TakeDrawCalls(),
	}
}

// DrawRectangle queues a filled rectangle with its top-left corner at (x, y),
// rotated around its center.
func (r *Renderer) DrawRectangle(x, y, width, height float32, rotation math.Rotation, color metadata.Color) {
	r.flushAllExcept(shapes.KindRectangle)
	r.rectangles.Enqueue(x, y, width, height, rotation, color, r.camera)
}

func (r *Renderer) DrawTriangle(p0, p1, p2 math.Vec2, color metadata.Color) {
	r.flushAllExcept(shapes.KindTriangle)
	r.triangles.Enqueue(p0, p1, p2, color, r.camera)
}

func (r *Renderer) DrawLine(from, to math.Vec2, color metadata.Color) {
	r.flushAllExcept(shapes.KindLine)
	r.lines.Enqueue(from, to, color, r.camera)
}

// DrawTexture queues a textured quad. Quads sharing a texture are drawn
// together; quads with different textures have no defined order among
// themselves until another kind of shape is drawn.
func (r *Renderer) DrawTexture(x, y, width, height float32, rotation math.Rotation, texture *metadata.Texture) {
	r.flushAllExcept(shapes.KindTexture)
	r.textures.Enqueue(x, y, width, height, rotation, texture, r.camera)
}

func (r *Renderer) DrawCircle(x, y, radius float32, color metadata.Color) {
	r.flushAll()
	r.circles.Draw(x, y, radius, color, r.camera)
}

// DrawText draws text with the top of its line box at y.
func (r *Renderer) DrawText(x, y float32, size int, text string, font metadata.FontFace, color metadata.Color) error {
	r.flushAll()
	return r.texts.Draw(x, y, size, text, font, color, r.camera)
}

// ClearBackground fills the framebuffer with color.
func (r *Renderer) ClearBackground(color metadata.Color) {
	r.flushAll()
	r.backend.Clear(color.Normalized())
}

// SetCamera centers the camera view on center. It only takes effect inside
// WithCamera.
func (r *Renderer) SetCamera(center math.Vec2) {
	r.camera.SetCenter(center)
}

// WithCamera draws fn through the camera view and restores the default view
// when fn returns or panics.
func (r *Renderer) WithCamera(fn func() error) error {
	r.camera.SetActive(true)
	defer r.camera.SetActive(false)
	return fn()
}

func (r *Renderer) Camera() *components.Camera {
	return r.camera
}

func (r *Renderer) State() FrameState {
	return r.state
}

// FrameTime is the duration of the last frame in seconds.
func (r *Renderer) FrameTime() float64 {
	return r.frameTime
}

// ResetFrameTime restarts frame measurement from now, so time spent without
// drawing (a minimized window) is not reported as one long frame.
func (r *Renderer) ResetFrameTime() {
	r.clock.Tick()
}

// FPS is the inverse of the last frame time. It is +Inf until a frame has
// been measured.
func (r *Renderer) FPS() float64 {
	if r.frameTime == 0 {
		return gomath.Inf(1)
	}
	return 1 / r.frameTime
}

// AverageFPS is the number of frames completed during the last full second.
func (r *Renderer) AverageFPS() float64 {
	return r.metrics.FPS()
}

// AverageFrameTime is the rolling average frame time in milliseconds.
func (r *Renderer) AverageFrameTime() float64 {
	return r.metrics.FrameTime()
}

// Elapsed is the number of seconds since the renderer was created, as of
// the start of the current frame.
func (r *Renderer) Elapsed() float64 {
	return r.clock.Elapsed()
}

func (r *Renderer) Stats() Stats {
	return r.stats
}

// Destroy releases every GPU object owned by the shape renderers. Shader
// programs belong to the shader source and are left alone.
func (r *Renderer) Destroy() {
	if r.destroyed {
		return
	}
	r.rectangles.Destroy()
	r.triangles.Destroy()
	r.lines.Destroy()
	r.textures.Destroy()
	r.circles.Destroy()
	r.texts.Destroy()
	r.destroyed = true
	core.LogDebug("renderer destroyed")
}
