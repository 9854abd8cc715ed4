package engine

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima2d/engine/assets"
	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/platform"
	"github.com/spaghettifunk/anima2d/engine/renderer"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
	"github.com/spaghettifunk/anima2d/engine/renderer/opengl"
	"github.com/spaghettifunk/anima2d/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	isSuspended   bool
	events        *core.EventBus
	input         *core.Input
	platform      *platform.Platform
	backend       *opengl.OpenGLRenderer
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	renderer      *renderer.Renderer
	width         int
	height        int

	stop     chan struct{}
	stopOnce sync.Once
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		return nil, fmt.Errorf("game has no application config")
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		return nil, err
	}
	if err := core.SetLogLevel(g.ApplicationConfig.LogLevel); err != nil {
		return nil, err
	}

	events := core.NewEventBus()
	input := core.NewInput(events)

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		events:       events,
		input:        input,
		platform:     platform.New(events, input),
		backend:      opengl.New(),
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		stop:         make(chan struct{}),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.gameInstance.ApplicationConfig

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)
	e.events.Register(core.EVENT_CODE_ASSET_CHANGED, e, e.onAssetChanged)

	if err := e.platform.Startup(platform.WindowConfig{
		Title:     cfg.Name,
		X:         cfg.StartPosX,
		Y:         cfg.StartPosY,
		Width:     cfg.StartWidth,
		Height:    cfg.StartHeight,
		Resizable: cfg.Resizable,
		VSync:     cfg.VSync,
		Debug:     cfg.Debug,
	}); err != nil {
		return err
	}

	if err := e.backend.Initialize(&metadata.RendererBackendConfig{
		ApplicationName: cfg.Name,
		Debug:           cfg.Debug,
	}); err != nil {
		return err
	}

	if cfg.AssetsDir != "" {
		am := assets.NewAssetManager()
		if err := am.Initialize(cfg.AssetsDir, cfg.WatchAssets); err != nil {
			core.LogWarn("assets disabled: %s", err)
			_ = am.Shutdown()
		} else {
			e.assetManager = am
		}
	}

	smConfig := systems.DefaultSystemManagerConfig()
	smConfig.Fonts = cfg.FontSystemConfig()
	sm, err := systems.NewSystemManager(smConfig, e.backend, e.assetManager)
	if err != nil {
		return err
	}
	e.systemManager = sm

	r, err := renderer.New(e.backend, e.platform, sm.ShaderSystem)
	if err != nil {
		return err
	}
	e.renderer = r
	e.width, e.height = e.platform.FramebufferSize()

	e.gameInstance.SystemManager = sm
	e.gameInstance.Input = e.input
	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.isRunning = true
	background := e.gameInstance.ApplicationConfig.Background()

	for e.isRunning {
		select {
		case <-e.stop:
			e.isRunning = false
			continue
		default:
		}
		if e.platform.ShouldClose() {
			e.isRunning = false
			continue
		}

		e.drainAssetChanges()
		e.systemManager.Update()

		if e.isSuspended {
			e.platform.WaitEvents(0.1)
			continue
		}

		// the frame time of the previous frame drives this update
		delta := e.renderer.FrameTime()
		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("game update failed, shutting down: %s", err)
				return err
			}
		}

		err := e.renderer.WithDrawContext(func() error {
			e.renderer.ClearBackground(background)
			if e.gameInstance.FnRender == nil {
				return nil
			}
			return e.gameInstance.FnRender(e.renderer, delta)
		})
		if err != nil {
			core.LogError("game render failed, shutting down: %s", err)
			return err
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		e.input.Update()
	}

	return nil
}

// Stop asks the loop to exit after the current frame. Safe to call from any
// goroutine.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown: %s", err)
		}
	}
	if e.renderer != nil {
		e.renderer.Destroy()
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	if e.assetManager != nil {
		if err := e.assetManager.Shutdown(); err != nil {
			return err
		}
	}
	if err := e.backend.Shutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	e.events.Shutdown()
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (int, int) {
	return e.width, e.height
}

func (e *Engine) drainAssetChanges() {
	if e.assetManager == nil {
		return
	}
	for {
		select {
		case ev := <-e.assetManager.Changes():
			e.events.Fire(core.EventContext{Type: core.EVENT_CODE_ASSET_CHANGED, Data: &ev})
		default:
			return
		}
	}
}

func (e *Engine) onEvent(context core.EventContext) bool {
	if context.Type == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	re, ok := context.Data.(*core.ResizeEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if re.Width == e.width && re.Height == e.height {
		return false
	}
	e.width, e.height = re.Width, re.Height
	core.LogDebug("Window resize: %d, %d", re.Width, re.Height)

	// Handle minimization
	if re.Width == 0 || re.Height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
		e.renderer.ResetFrameTime()
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(re.Width, re.Height); err != nil {
			core.LogError("game resize: %s", err)
		}
	}
	return false
}

func (e *Engine) onAssetChanged(context core.EventContext) bool {
	ev, ok := context.Data.(*core.AssetEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if e.systemManager.HandleAssetChange(*ev) {
		core.LogInfo("reloaded %s", ev.Path)
	}
	return false
}
