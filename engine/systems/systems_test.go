package systems

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spaghettifunk/anima2d/engine/assets"
	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
	"github.com/spaghettifunk/anima2d/engine/renderer/rendertest"
)

func writeAsset(t *testing.T, root, name string, body []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}
}

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newAssets(t *testing.T, root string) *assets.AssetManager {
	t.Helper()
	am := assets.NewAssetManager()
	if err := am.Initialize(root, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { am.Shutdown() })
	return am
}

func TestJobSystemDispatchesOnUpdate(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer js.Shutdown()

	var ran atomic.Int32
	var succeeded, failed int
	for i := 0; i < 5; i++ {
		fail := i == 4
		err := js.Submit(JobTask{
			Name: "job",
			Run: func() (interface{}, error) {
				ran.Add(1)
				if fail {
					return nil, errors.New("boom")
				}
				return 1, nil
			},
			OnSuccess: func(result interface{}) { succeeded += result.(int) },
			OnFailure: func(err error) { failed++ },
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	if n := js.Wait(); n != 5 {
		t.Errorf("Wait dispatched %d jobs, want 5", n)
	}
	if ran.Load() != 5 || succeeded != 4 || failed != 1 {
		t.Errorf("ran=%d succeeded=%d failed=%d", ran.Load(), succeeded, failed)
	}
	if n := js.Update(); n != 0 {
		t.Errorf("second Update dispatched %d jobs", n)
	}
}

func TestJobSystemConfigAndShutdown(t *testing.T) {
	if _, err := NewJobSystem(0, 1); !errors.Is(err, ErrNoWorkers) {
		t.Errorf("err = %v, want ErrNoWorkers", err)
	}
	if _, err := NewJobSystem(1, -1); !errors.Is(err, ErrNegativeChannelSize) {
		t.Errorf("err = %v, want ErrNegativeChannelSize", err)
	}

	js, _ := NewJobSystem(1, 1)
	done := false
	js.Submit(JobTask{Run: func() (interface{}, error) { return nil, nil }, OnSuccess: func(interface{}) { done = true }})
	if err := js.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("queued job callback not dispatched by Shutdown")
	}
	if err := js.Submit(JobTask{}); !errors.Is(err, ErrJobSystemClosed) {
		t.Errorf("Submit after Shutdown err = %v", err)
	}
	if err := js.Shutdown(); err != nil {
		t.Error(err)
	}
}

func TestTextureSystemAcquireCachesByPath(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "textures/a.png", pngBytes(t, 2, 2, color.NRGBA{R: 255, A: 255}))
	writeAsset(t, root, "textures/b.png", pngBytes(t, 2, 2, color.NRGBA{R: 255, A: 255}))

	backend := rendertest.NewBackend()
	ts, err := NewTextureSystem(&TextureSystemConfig{MaxTextureCount: 8}, backend, newAssets(t, root), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := ts.Initialize(); err != nil {
		t.Fatal(err)
	}

	a1, err := ts.Acquire("textures/a.png")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	a2, _ := ts.Acquire("textures/a.png")
	b, _ := ts.Acquire("textures/b.png")

	if a1 != a2 {
		t.Error("same path should return the same texture")
	}
	if a1.ID == b.ID || a1.ID == ts.GetDefaultTexture().ID {
		t.Errorf("identical pixels must not share an ID: a=%d b=%d default=%d", a1.ID, b.ID, ts.GetDefaultTexture().ID)
	}
	if a1.Format != metadata.PixelFormatRGB || a1.Width != 2 {
		t.Errorf("a = %+v", a1)
	}
	if backend.TexturesCreated != 3 {
		t.Errorf("TexturesCreated = %d, want 3", backend.TexturesCreated)
	}
	if def, _ := ts.Acquire(metadata.DEFAULT_TEXTURE_NAME); def != ts.GetDefaultTexture() {
		t.Error("default name should map to the default texture")
	}

	if _, err := ts.Acquire("textures/missing.png"); !errors.Is(err, core.ErrAssetNotFound) {
		t.Errorf("missing err = %v", err)
	}

	if err := ts.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if backend.Live() != 0 {
		t.Errorf("Live = %d after Shutdown", backend.Live())
	}
}

func TestTextureSystemReloadKeepsID(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "a.png", pngBytes(t, 2, 2, color.NRGBA{R: 255, A: 255}))

	backend := rendertest.NewBackend()
	ts, _ := NewTextureSystem(&TextureSystemConfig{MaxTextureCount: 8}, backend, newAssets(t, root), nil)
	tex, err := ts.Acquire("a.png")
	if err != nil {
		t.Fatal(err)
	}
	id, gen := tex.ID, tex.Generation

	writeAsset(t, root, "a.png", pngBytes(t, 4, 1, color.NRGBA{G: 255, A: 128}))
	if err := ts.Reload("a.png"); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if tex.ID != id {
		t.Errorf("ID changed from %d to %d", id, tex.ID)
	}
	if tex.Generation != gen+1 {
		t.Errorf("Generation = %d, want %d", tex.Generation, gen+1)
	}
	if tex.Width != 4 || tex.Height != 1 || tex.Format != metadata.PixelFormatRGBA {
		t.Errorf("reloaded texture = %dx%d %s", tex.Width, tex.Height, tex.Format)
	}
	if backend.Live() != 1 {
		t.Errorf("Live = %d, want 1 after in-place reload", backend.Live())
	}

	if err := ts.Reload("other.png"); err == nil {
		t.Error("reloading an unknown texture should fail")
	}
}

func TestTextureSystemAcquireAsync(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "a.png", pngBytes(t, 3, 3, color.NRGBA{B: 255, A: 255}))

	js, _ := NewJobSystem(1, 4)
	defer js.Shutdown()
	ts, _ := NewTextureSystem(&TextureSystemConfig{MaxTextureCount: 8}, rendertest.NewBackend(), newAssets(t, root), js)

	var ready *metadata.Texture
	tex, err := ts.AcquireAsync("a.png", func(t *metadata.Texture, err error) {
		if err == nil {
			ready = t
		}
	})
	if err != nil {
		t.Fatalf("AcquireAsync: %v", err)
	}
	if tex.Width != metadata.DEFAULT_TEXTURE_DIMENSION {
		t.Errorf("placeholder width = %d", tex.Width)
	}
	id := tex.ID

	js.Wait()
	if ready != tex {
		t.Fatal("onReady not called with the registered texture")
	}
	if tex.ID != id || tex.Width != 3 || tex.Format != metadata.PixelFormatRGB {
		t.Errorf("texture after load = id %d %dx%d %s", tex.ID, tex.Width, tex.Height, tex.Format)
	}
}

func TestTextureSystemCapacityAndPixels(t *testing.T) {
	ts, _ := NewTextureSystem(&TextureSystemConfig{MaxTextureCount: 1}, rendertest.NewBackend(), nil, nil)
	tex, err := ts.CreateFromPixels(1, 1, 4, []uint8{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("CreateFromPixels: %v", err)
	}
	if got, ok := ts.Get(tex.Name); !ok || got != tex {
		t.Error("generated texture not registered under its name")
	}
	if _, err := ts.CreateFromPixels(1, 1, 4, []uint8{1, 2, 3, 4}); err == nil {
		t.Error("expected capacity error")
	}
	if err := ts.Release(tex.Name); err != nil {
		t.Fatal(err)
	}
	again, err := ts.CreateFromPixels(1, 1, 2, []uint8{1, 2})
	if !errors.Is(err, core.ErrInvalidChannelCount) {
		t.Errorf("two channels err = %v, want ErrInvalidChannelCount", err)
	}
	_ = again

	if _, err := NewTextureSystem(&TextureSystemConfig{}, nil, nil, nil); err == nil {
		t.Error("zero MaxTextureCount should be rejected")
	}
}

const overrideVert = "#version 330 core\nvoid main() {}\n"

func TestShaderSystemBuiltinsAndOverride(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "shaders/shape.shadercfg", []byte("name = \"Builtin.ShapeShader\"\nvertex = \"shape.vert\"\nfragment = \"shape.frag\"\n"))
	writeAsset(t, root, "shaders/shape.vert", []byte(overrideVert))
	writeAsset(t, root, "shaders/shape.frag", []byte("v1"))

	backend := rendertest.NewBackend()
	ss, err := NewShaderSystem(&ShaderSystemConfig{MaxShaderCount: 8}, backend, newAssets(t, root))
	if err != nil {
		t.Fatal(err)
	}
	if err := ss.Initialize(); err != nil {
		t.Fatal(err)
	}

	shape, err := ss.Acquire(metadata.BUILTIN_SHADER_NAME_SHAPE)
	if err != nil {
		t.Fatalf("Acquire shape: %v", err)
	}
	if shape.VertexSource != overrideVert || shape.FragmentSource != "v1" {
		t.Errorf("override not used: %q", shape.FragmentSource)
	}
	text, err := ss.Acquire(metadata.BUILTIN_SHADER_NAME_TEXT)
	if err != nil {
		t.Fatalf("Acquire text: %v", err)
	}
	if text.VertexSource == "" || text.State != metadata.SHADER_STATE_INITIALIZED {
		t.Error("built-in text shader not compiled from embedded sources")
	}
	if again, _ := ss.Acquire(metadata.BUILTIN_SHADER_NAME_SHAPE); again != shape {
		t.Error("Acquire should cache")
	}
	if _, err := ss.Acquire("Nope"); !errors.Is(err, core.ErrShaderNotFound) {
		t.Errorf("unknown shader err = %v", err)
	}

	for _, path := range []string{"shaders/shape.shadercfg", "shaders/shape.vert", "shaders/shape.frag"} {
		if name, ok := ss.ShaderFor(path); !ok || name != metadata.BUILTIN_SHADER_NAME_SHAPE {
			t.Errorf("ShaderFor(%s) = %q, %v", path, name, ok)
		}
	}

	writeAsset(t, root, "shaders/shape.frag", []byte("v2"))
	program := shape.Program
	if err := ss.Reload(metadata.BUILTIN_SHADER_NAME_SHAPE); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if shape.FragmentSource != "v2" || shape.Program == program {
		t.Errorf("reload did not swap program: %q %d", shape.FragmentSource, shape.Program)
	}

	if err := ss.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if backend.Live() != 0 {
		t.Errorf("Live = %d after Shutdown", backend.Live())
	}
}

func TestShaderSystemReloadFailureKeepsProgram(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "circle.shadercfg", []byte("name = \"Builtin.CircleShader\"\nvertex = \"c.vert\"\nfragment = \"c.frag\"\n"))
	writeAsset(t, root, "c.vert", []byte("v"))
	writeAsset(t, root, "c.frag", []byte("f1"))

	backend := rendertest.NewBackend()
	ss, _ := NewShaderSystem(&ShaderSystemConfig{MaxShaderCount: 8}, backend, newAssets(t, root))
	ss.Initialize()
	circle, err := ss.Acquire(metadata.BUILTIN_SHADER_NAME_CIRCLE)
	if err != nil {
		t.Fatal(err)
	}
	program := circle.Program

	writeAsset(t, root, "c.frag", []byte("f2"))
	backend.FailShader = metadata.BUILTIN_SHADER_NAME_CIRCLE
	if err := ss.Reload(metadata.BUILTIN_SHADER_NAME_CIRCLE); err == nil {
		t.Fatal("expected reload failure")
	}
	if circle.Program != program || circle.FragmentSource != "f1" {
		t.Errorf("failed reload changed the shader: program %d source %q", circle.Program, circle.FragmentSource)
	}
	if err := ss.Reload("Unknown"); !errors.Is(err, core.ErrShaderNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestFontSystem(t *testing.T) {
	fs, _ := NewFontSystem(nil, nil)
	if err := fs.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	def := fs.Default()
	if def == nil || def.Type != metadata.FONT_TYPE_SYSTEM {
		t.Fatalf("default font = %+v", def)
	}
	if _, err := def.Face.Glyph('g', def.DefaultSize); err != nil {
		t.Errorf("default face Glyph: %v", err)
	}

	if _, err := fs.Acquire("missing"); !errors.Is(err, core.ErrFontLoad) {
		t.Errorf("err = %v, want ErrFontLoad", err)
	}
	if err := fs.LoadSystemFont(&metadata.SystemFontConfig{Name: "x", ResourceName: "x.ttf"}); !errors.Is(err, core.ErrFontLoad) {
		t.Errorf("err = %v, want ErrFontLoad", err)
	}
	fs.Register("fake", metadata.FONT_TYPE_BITMAP, 12, &rendertest.Font{})
	if f, err := fs.Acquire("fake"); err != nil || f.DefaultSize != 12 {
		t.Errorf("Acquire(fake) = %+v, %v", f, err)
	}
	if err := fs.Shutdown(); err != nil {
		t.Fatal(err)
	}
}

func TestSystemManagerHandleAssetChange(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "a.png", pngBytes(t, 1, 1, color.NRGBA{A: 255}))
	writeAsset(t, root, "s.shadercfg", []byte("name = \"Builtin.TextShader\"\nvertex = \"s.vert\"\nfragment = \"s.frag\"\n"))
	writeAsset(t, root, "s.vert", []byte("v"))
	writeAsset(t, root, "s.frag", []byte("f"))

	backend := rendertest.NewBackend()
	sm, err := NewSystemManager(DefaultSystemManagerConfig(), backend, newAssets(t, root))
	if err != nil {
		t.Fatalf("NewSystemManager: %v", err)
	}
	tex, _ := sm.TextureSystem.Acquire("a.png")
	shader, _ := sm.ShaderSystem.Acquire(metadata.BUILTIN_SHADER_NAME_TEXT)
	gen, program := tex.Generation, shader.Program

	tests := []struct {
		event core.AssetEvent
		want  bool
	}{
		{core.AssetEvent{Path: "a.png"}, true},
		{core.AssetEvent{Path: "s.frag"}, true},
		{core.AssetEvent{Path: "a.png", Removed: true}, false},
		{core.AssetEvent{Path: "unrelated.txt"}, false},
	}
	for _, tt := range tests {
		if got := sm.HandleAssetChange(tt.event); got != tt.want {
			t.Errorf("HandleAssetChange(%+v) = %v, want %v", tt.event, got, tt.want)
		}
	}
	if tex.Generation == gen || shader.Program == program {
		t.Error("texture and shader were not reloaded")
	}

	if err := sm.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if backend.Live() != 0 {
		t.Errorf("Live = %d after Shutdown", backend.Live())
	}
}
