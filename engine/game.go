package engine

import (
	"github.com/spaghettifunk/anima2d/engine/config"
	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer"
	"github.com/spaghettifunk/anima2d/engine/systems"
)

// Game is the set of callbacks the engine drives. SystemManager and Input
// are filled in by the engine before FnInitialize runs.
type Game struct {
	ApplicationConfig *config.ApplicationConfig
	SystemManager     *systems.SystemManager
	Input             *core.Input
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error

// Render issues the draws of one frame. It runs inside the frame scope, after
// the background has been cleared.
type Render func(r *renderer.Renderer, deltaTime float64) error
type OnResize func(width int, height int) error
type Shutdown func() error
