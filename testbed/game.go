package testbed

import (
	"fmt"
	stdmath "math"

	"github.com/spaghettifunk/anima2d/engine"
	"github.com/spaghettifunk/anima2d/engine/config"
	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
	"github.com/spaghettifunk/anima2d/engine/systems"
)

// camera speed in pixels per second
const cameraSpeed = 300

type TestGame struct {
	*engine.Game
}

type gameState struct {
	width  int
	height int

	elapsed  float64
	rotation float32

	world  math.Extents2D
	center math.Vec2

	sprite   *metadata.Texture
	gradient *metadata.Texture
	font     *systems.Font
}

func NewTestGame(cfg *config.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: cfg,
			State:             &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	core.LogInfo("initializing testbed...")
	s := g.state()

	ts := g.SystemManager.TextureSystem
	sprite, err := ts.AcquireAsync("textures/sprite.png", func(t *metadata.Texture, err error) {
		if err == nil {
			core.LogInfo("sprite ready: %dx%d", t.Width, t.Height)
		}
	})
	if err != nil {
		core.LogWarn("sprite unavailable, drawing the default texture: %s", err)
		sprite = ts.GetDefaultTexture()
	}
	s.sprite = sprite

	const dim = 32
	pixels := make([]uint8, 0, dim*dim*4)
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			pixels = append(pixels, uint8(x*255/(dim-1)), uint8(y*255/(dim-1)), 160, 255)
		}
	}
	gradient, err := ts.CreateFromPixels(dim, dim, 4, pixels)
	if err != nil {
		return err
	}
	s.gradient = gradient

	font, err := g.SystemManager.FontSystem.Acquire("ui")
	if err != nil {
		font = g.SystemManager.FontSystem.Default()
	}
	s.font = font
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	s := g.state()
	s.elapsed += deltaTime
	s.rotation = float32(stdmath.Mod(s.elapsed*45, 360))

	step := float32(cameraSpeed * deltaTime)
	if g.Input.IsKeyDown(core.KEY_LEFT) || g.Input.IsKeyDown(core.KEY_A) {
		s.center.X -= step
	}
	if g.Input.IsKeyDown(core.KEY_RIGHT) || g.Input.IsKeyDown(core.KEY_D) {
		s.center.X += step
	}
	if g.Input.IsKeyDown(core.KEY_UP) || g.Input.IsKeyDown(core.KEY_W) {
		s.center.Y -= step
	}
	if g.Input.IsKeyDown(core.KEY_DOWN) || g.Input.IsKeyDown(core.KEY_S) {
		s.center.Y += step
	}
	if g.Input.IsKeyPressed(core.KEY_C) {
		s.center = math.NewVec2(float32(s.width)/2, float32(s.height)/2)
	}
	s.center.X = math.Clamp(s.center.X, s.world.Min.X, s.world.Max.X)
	s.center.Y = math.Clamp(s.center.Y, s.world.Min.Y, s.world.Max.Y)
	return nil
}

func (g *TestGame) Render(r *renderer.Renderer, deltaTime float64) error {
	s := g.state()

	r.SetCamera(s.center)
	err := r.WithCamera(func() error {
		// a grid of rotating rectangles
		for row := 0; row < 6; row++ {
			for col := 0; col < 10; col++ {
				c := metadata.NewColorRGBA(uint8(col*25), uint8(row*40), 200, 255)
				r.DrawRectangle(float32(40+col*70), float32(40+row*70), 50, 50, math.Degrees(s.rotation), c)
			}
		}

		r.DrawTriangle(math.NewVec2(760, 80), math.NewVec2(880, 80), math.NewVec2(820, 180), metadata.Green)
		r.DrawTriangle(math.NewVec2(900, 80), math.NewVec2(1020, 80), math.NewVec2(960, 180), metadata.Blue)

		for i := 0; i < 8; i++ {
			x := float32(760 + i*30)
			r.DrawLine(math.NewVec2(x, 220), math.NewVec2(x+20, 320), metadata.White)
		}

		r.DrawTexture(760, 360, 128, 128, math.Degrees(-s.rotation), s.sprite)
		r.DrawTexture(920, 360, 128, 128, math.Radians(0), s.gradient)
		r.DrawTexture(1080, 360, 64, 64, math.Radians(0), s.sprite)

		r.DrawCircle(200, 520, 60, metadata.Red)
		r.DrawCircle(360, 520, 30, metadata.NewColor(0xFFAA00FF))
		return nil
	})
	if err != nil {
		return err
	}

	// HUD stays in screen space
	stats := r.Stats()
	hud := fmt.Sprintf("%.0f fps  %.2f ms  %d draws", r.AverageFPS(), r.AverageFrameTime(), stats.DrawCalls())
	if err := r.DrawText(10, 10, s.font.DefaultSize, hud, s.font.Face, metadata.White); err != nil {
		return err
	}
	return r.DrawText(10, float32(s.height-30), 16, "arrows/WASD move the camera, C recenters, Esc quits", s.font.Face, metadata.Gray)
}

func (g *TestGame) OnResize(width int, height int) error {
	s := g.state()
	s.width, s.height = width, height
	s.world = math.Extents2D{
		Min: math.NewVec2(0, 0),
		Max: math.NewVec2(float32(width)*2, float32(height)*2),
	}
	if s.center == (math.Vec2{}) {
		s.center = math.NewVec2(float32(width)/2, float32(height)/2)
	}
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("shutting down testbed")
	return nil
}
