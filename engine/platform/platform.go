package platform

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/anima2d/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

type WindowConfig struct {
	Title     string
	X         int
	Y         int
	Width     int
	Height    int
	Resizable bool
	VSync     bool
	Debug     bool
}

// Platform owns the GLFW window and its OpenGL context.
type Platform struct {
	Window *glfw.Window

	events *core.EventBus
	input  *core.Input
}

func New(events *core.EventBus, input *core.Input) *Platform {
	return &Platform{
		events: events,
		input:  input,
	}
}

// Startup initializes GLFW, opens the window and makes its OpenGL 3.3 core
// context current on the calling thread.
func (p *Platform) Startup(config WindowConfig) error {
	if err := glfw.Init(); err != nil {
		logGLFWError(err)
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, boolHint(config.Resizable))
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLDebugContext, boolHint(config.Debug))

	window, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		logGLFWError(err)
		glfw.Terminate()
		return fmt.Errorf("%w: %w", core.ErrWindowCreate, err)
	}
	window.MakeContextCurrent()
	p.Window = window

	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetCloseCallback(p.closeCallback)
	p.Window.SetPos(config.X, config.Y)
	p.Window.Show()

	width, height := p.Window.GetFramebufferSize()
	core.LogInfo("window '%s' created with a %dx%d framebuffer", config.Title, width, height)
	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

func (p *Platform) FramebufferSize() (int, int) {
	return p.Window.GetFramebufferSize()
}

// Time reports the seconds since GLFW was initialized.
func (p *Platform) Time() float64 {
	return glfw.GetTime()
}

func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

// PollEvents processes pending window events. Input callbacks fire from here.
func (p *Platform) PollEvents() {
	glfw.PollEvents()
}

// WaitEvents sleeps until an event arrives or timeout seconds pass.
func (p *Platform) WaitEvents(timeout float64) {
	glfw.WaitEventsTimeout(timeout)
}

func (p *Platform) ShouldClose() bool {
	return p.Window.ShouldClose()
}

func (p *Platform) SetShouldClose(value bool) {
	p.Window.SetShouldClose(value)
}

// KeyState queries the current state of key.
func (p *Platform) KeyState(key core.KeyCode) (core.KeyState, error) {
	glfwKey, ok := toGLFWKey(key)
	if !ok {
		return 0, fmt.Errorf("key 0x%02x: %w", uint16(key), core.ErrUnknownKey)
	}
	return core.ParseKeyState(int(p.Window.GetKey(glfwKey)))
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	state, err := core.ParseKeyState(int(action))
	if err != nil {
		// an action outside the GLFW contract means the binding is broken
		core.LogFatal("key callback: %s", err)
		return
	}
	code, ok := fromGLFWKey(key)
	if !ok {
		return
	}
	p.input.ProcessKey(code, state.IsDown())
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.events.Fire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.ResizeEvent{Width: width, Height: height},
	})
}

func (p *Platform) closeCallback(w *glfw.Window) {
	p.events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
}

func logGLFWError(err error) {
	var glfwErr *glfw.Error
	if errors.As(err, &glfwErr) {
		core.LogError("glfw error %s: %s", glfwErr.Code, glfwErr.Desc)
	}
}

func boolHint(value bool) int {
	if value {
		return glfw.True
	}
	return glfw.False
}
