package shapes

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/math"
	"github.com/spaghettifunk/anima2d/engine/renderer/components"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
	"github.com/spaghettifunk/anima2d/engine/renderer/rendertest"
)

const epsilon = 1e-5

func newShader(name string) *metadata.Shader {
	return &metadata.Shader{Name: name}
}

func approx(a, b float32) bool {
	return mgl32.FloatEqualThreshold(a, b, epsilon)
}

func TestRectangleFlushEmptyIsNoop(t *testing.T) {
	backend := rendertest.NewBackend()
	r := NewRectangleRenderer(backend, newShader("shape"))

	r.Flush()
	r.Flush()

	if len(backend.Draws) != 0 {
		t.Fatalf("empty flush issued %d draws", len(backend.Draws))
	}
	if backend.Uploads != 0 {
		t.Fatalf("empty flush uploaded %d buffers", backend.Uploads)
	}
}

func TestRectangleBatchCount(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"one", 1},
		{"few", 5},
		{"many", 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := rendertest.NewBackend()
			camera := components.NewCamera(800, 600)
			r := NewRectangleRenderer(backend, newShader("shape"))

			for i := 0; i < tt.n; i++ {
				r.Enqueue(float32(i), float32(i), 10, 10, math.Degrees(0), metadata.Red, camera)
			}
			if got := r.Pending(); got != tt.n {
				t.Fatalf("Pending() = %d, want %d", got, tt.n)
			}
			r.Flush()

			if len(backend.Draws) != 1 {
				t.Fatalf("got %d draws, want 1", len(backend.Draws))
			}
			draw := backend.Draws[0]
			if !draw.Indexed || draw.Mode != metadata.DrawModeTriangles {
				t.Errorf("draw = %+v, want indexed triangles", draw)
			}
			if draw.Count != tt.n*6 {
				t.Errorf("index count = %d, want %d", draw.Count, tt.n*6)
			}
			if draw.Vertices != tt.n*4 {
				t.Errorf("vertex count = %d, want %d", draw.Vertices, tt.n*4)
			}
			if r.Pending() != 0 {
				t.Errorf("Pending() after flush = %d, want 0", r.Pending())
			}
			if got := r.TakeDrawCalls(); got != 1 {
				t.Errorf("TakeDrawCalls() = %d, want 1", got)
			}
		})
	}
}

func TestRectangleIndicesOffsetByVertexCount(t *testing.T) {
	camera := components.NewCamera(100, 100)
	r := NewRectangleRenderer(rendertest.NewBackend(), newShader("shape"))

	r.Enqueue(0, 0, 1, 1, math.Degrees(0), metadata.White, camera)
	r.Enqueue(5, 5, 1, 1, math.Degrees(0), metadata.White, camera)

	want := []uint32{0, 1, 2, 2, 3, 1, 4, 5, 6, 6, 7, 5}
	if len(r.indices) != len(want) {
		t.Fatalf("got %d indices, want %d", len(r.indices), len(want))
	}
	for i := range want {
		if r.indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", r.indices, want)
		}
	}
	if len(r.colors) != 8*metadata.ColorComponents {
		t.Errorf("got %d color floats, want %d", len(r.colors), 8*metadata.ColorComponents)
	}
}

func TestRectangleCornerInClipSpace(t *testing.T) {
	camera := components.NewCamera(600, 600)
	r := NewRectangleRenderer(rendertest.NewBackend(), newShader("shape"))

	r.Enqueue(10, 20, 30, 40, math.Degrees(0), metadata.Blue, camera)

	// vertices are TL, TR, BL, BR; BR is the local corner (1, 1)
	tests := []struct {
		corner int
		px, py float32
	}{
		{0, 10, 20},
		{1, 40, 20},
		{2, 10, 60},
		{3, 40, 60},
	}
	for _, tt := range tests {
		wantX := tt.px/600*2 - 1
		wantY := -(tt.py/600*2 - 1)
		gotX, gotY := r.positions[tt.corner*2], r.positions[tt.corner*2+1]
		if !approx(gotX, wantX) || !approx(gotY, wantY) {
			t.Errorf("corner %d = (%v, %v), want (%v, %v)", tt.corner, gotX, gotY, wantX, wantY)
		}
	}
}

func TestRectangleRotationAroundCenter(t *testing.T) {
	camera := components.NewCamera(100, 100)
	r := NewRectangleRenderer(rendertest.NewBackend(), newShader("shape"))

	// a square turned by 90 degrees covers the same corners
	r.Enqueue(10, 10, 20, 20, math.Degrees(90), metadata.Blue, camera)
	r.Enqueue(10, 10, 20, 20, math.Degrees(0), metadata.Blue, camera)

	rotated := r.positions[:8]
	plain := r.positions[8:]
	for i := 0; i < 4; i++ {
		found := false
		for j := 0; j < 4; j++ {
			if approx(rotated[i*2], plain[j*2]) && approx(rotated[i*2+1], plain[j*2+1]) {
				found = true
			}
		}
		if !found {
			t.Errorf("rotated corner (%v, %v) is not a corner of the square", rotated[i*2], rotated[i*2+1])
		}
	}
}

func TestTriangleAndLineBatches(t *testing.T) {
	backend := rendertest.NewBackend()
	camera := components.NewCamera(320, 240)
	triangles := NewTriangleRenderer(backend, newShader("shape"))
	lines := NewLineRenderer(backend, newShader("shape"))

	for i := 0; i < 3; i++ {
		triangles.Enqueue(math.NewVec2(0, 0), math.NewVec2(10, 0), math.NewVec2(0, 10), metadata.Green, camera)
	}
	for i := 0; i < 4; i++ {
		lines.Enqueue(math.NewVec2(0, 0), math.NewVec2(10, 10), metadata.White, camera)
	}
	// degenerate input is accepted
	triangles.Enqueue(math.NewVec2(1, 1), math.NewVec2(2, 2), math.NewVec2(3, 3), metadata.Green, camera)

	if triangles.Pending() != 4 || lines.Pending() != 4 {
		t.Fatalf("pending = %d triangles, %d lines", triangles.Pending(), lines.Pending())
	}
	triangles.Flush()
	lines.Flush()
	lines.Flush()

	if len(backend.Draws) != 2 {
		t.Fatalf("got %d draws, want 2", len(backend.Draws))
	}
	tri, line := backend.Draws[0], backend.Draws[1]
	if tri.Indexed || tri.Mode != metadata.DrawModeTriangles || tri.Count != 12 {
		t.Errorf("triangle draw = %+v, want 12 array vertices", tri)
	}
	if line.Indexed || line.Mode != metadata.DrawModeLines || line.Count != 8 {
		t.Errorf("line draw = %+v, want 8 array vertices", line)
	}
}

func TestTextureGrouping(t *testing.T) {
	pixels := make([]uint8, 2*2*4)
	newTexture := func(t *testing.T, id uint32) *metadata.Texture {
		t.Helper()
		tex, err := metadata.NewTexture("tex", 2, 2, 4, append([]uint8(nil), pixels...))
		if err != nil {
			t.Fatalf("NewTexture() error = %v", err)
		}
		tex.ID = id
		return tex
	}

	t.Run("same texture", func(t *testing.T) {
		backend := rendertest.NewBackend()
		camera := components.NewCamera(100, 100)
		r := NewTextureRenderer(backend, newShader("texture"))
		tex := newTexture(t, 1)

		r.Enqueue(0, 0, 10, 10, math.Degrees(0), tex, camera)
		r.Enqueue(20, 20, 10, 10, math.Degrees(45), tex, camera)
		if r.Groups() != 1 {
			t.Fatalf("Groups() = %d, want 1", r.Groups())
		}
		r.Flush()

		if len(backend.Draws) != 1 {
			t.Fatalf("got %d draws, want 1", len(backend.Draws))
		}
		if d := backend.Draws[0]; d.Count != 12 || d.Vertices != 8 || d.Texture != 1 {
			t.Errorf("draw = %+v, want 12 indices, 8 vertices on texture 1", d)
		}
	})

	t.Run("identical pixels distinct textures", func(t *testing.T) {
		backend := rendertest.NewBackend()
		camera := components.NewCamera(100, 100)
		r := NewTextureRenderer(backend, newShader("texture"))

		r.Enqueue(0, 0, 10, 10, math.Degrees(0), newTexture(t, 1), camera)
		r.Enqueue(0, 0, 10, 10, math.Degrees(0), newTexture(t, 2), camera)
		if r.Groups() != 2 {
			t.Fatalf("Groups() = %d, want 2", r.Groups())
		}
		r.Flush()

		if len(backend.Draws) != 2 {
			t.Fatalf("got %d draws, want 2", len(backend.Draws))
		}
		bound := map[uint32]bool{}
		for _, d := range backend.Draws {
			bound[d.Texture] = true
			if d.Count != 6 {
				t.Errorf("draw = %+v, want 6 indices", d)
			}
		}
		if !bound[1] || !bound[2] {
			t.Errorf("bound textures = %v, want 1 and 2", bound)
		}
		if r.Groups() != 0 {
			t.Errorf("Groups() after flush = %d, want 0", r.Groups())
		}
	})

	t.Run("textures without an ID", func(t *testing.T) {
		backend := rendertest.NewBackend()
		camera := components.NewCamera(100, 100)
		r := NewTextureRenderer(backend, newShader("texture"))

		red, err := metadata.NewTexture("red", 1, 1, 4, []uint8{255, 0, 0, 255})
		if err != nil {
			t.Fatalf("NewTexture() error = %v", err)
		}
		blue, err := metadata.NewTexture("blue", 1, 1, 4, []uint8{0, 0, 255, 255})
		if err != nil {
			t.Fatalf("NewTexture() error = %v", err)
		}
		for _, tex := range []*metadata.Texture{red, blue} {
			if err := backend.TextureCreate(tex); err != nil {
				t.Fatalf("TextureCreate() error = %v", err)
			}
		}
		if red.ID != blue.ID {
			t.Fatalf("IDs = %d, %d, want both unassigned", red.ID, blue.ID)
		}

		r.Enqueue(0, 0, 10, 10, math.Degrees(0), red, camera)
		r.Enqueue(20, 0, 10, 10, math.Degrees(0), blue, camera)
		r.Enqueue(40, 0, 10, 10, math.Degrees(0), red, camera)
		if r.Groups() != 2 {
			t.Fatalf("Groups() = %d, want 2", r.Groups())
		}
		r.Flush()

		if len(backend.Draws) != 2 {
			t.Fatalf("got %d draws, want 2", len(backend.Draws))
		}
		counts := map[uint32]int{}
		for _, d := range backend.Draws {
			counts[d.TextureHandle] = d.Count
		}
		if counts[red.Handle] != 12 || counts[blue.Handle] != 6 {
			t.Errorf("indices per texture handle = %v, want red 12 and blue 6", counts)
		}
	})

	t.Run("empty flush", func(t *testing.T) {
		backend := rendertest.NewBackend()
		r := NewTextureRenderer(backend, newShader("texture"))
		r.Flush()
		if len(backend.Draws) != 0 {
			t.Fatalf("got %d draws, want 0", len(backend.Draws))
		}
	})
}

func TestCircleDrawsImmediately(t *testing.T) {
	backend := rendertest.NewBackend()
	camera := components.NewCamera(200, 200)
	r := NewCircleRenderer(backend, newShader("circle"))

	r.Draw(100, 100, 50, metadata.Red, camera)
	r.Draw(10, 10, 5, metadata.Green, camera)

	if len(backend.Draws) != 2 {
		t.Fatalf("got %d draws, want 2", len(backend.Draws))
	}
	d := backend.Draws[0]
	if d.Count != 6 || !d.Indexed {
		t.Errorf("draw = %+v, want one indexed quad", d)
	}
	if d.Color != metadata.Red.Normalized().Array() {
		t.Errorf("color = %v, want red", d.Color)
	}
	// local (0, 0) is the top-left of the bounding box (50, 50)
	p := math.NewVec3(0, 0, 0).Transform(d.MVP)
	if !approx(p.X, 50.0/200*2-1) || !approx(p.Y, -(50.0/200*2-1)) {
		t.Errorf("top-left = (%v, %v)", p.X, p.Y)
	}
}

func TestTextDrawsOneQuadPerGlyph(t *testing.T) {
	backend := rendertest.NewBackend()
	camera := components.NewCamera(400, 400)
	font := &rendertest.Font{}
	r := NewTextRenderer(backend, newShader("text"))

	if err := r.Draw(10, 20, 16, "abc", font, metadata.White, camera); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	if len(backend.Draws) != 3 {
		t.Fatalf("got %d draws, want 3", len(backend.Draws))
	}
	if backend.TexturesCreated != 3 || len(backend.TexturesDestroyed) != 3 {
		t.Errorf("created %d, destroyed %d glyph textures, want 3 each", backend.TexturesCreated, len(backend.TexturesDestroyed))
	}

	// glyphs are 8 pixels wide and advance by 8; bearing x is 1 and the top
	// of each glyph sits on y since bearing y equals the size
	for i, d := range backend.Draws {
		p := math.NewVec3(0, 0, 0).Transform(d.MVP)
		wantX := float32(10+1+8*i)/400*2 - 1
		wantY := -(float32(20)/400*2 - 1)
		if !approx(p.X, wantX) || !approx(p.Y, wantY) {
			t.Errorf("glyph %d at (%v, %v), want (%v, %v)", i, p.X, p.Y, wantX, wantY)
		}
	}
}

func TestTextGlyphErrorAborts(t *testing.T) {
	backend := rendertest.NewBackend()
	camera := components.NewCamera(400, 400)
	font := &rendertest.Font{Missing: map[rune]bool{'x': true}}
	r := NewTextRenderer(backend, newShader("text"))

	err := r.Draw(0, 0, 12, "axb", font, metadata.White, camera)
	if !errors.Is(err, core.ErrGlyphNotFound) {
		t.Fatalf("Draw() error = %v, want ErrGlyphNotFound", err)
	}
	if len(backend.Draws) != 1 {
		t.Errorf("got %d draws before the failure, want 1", len(backend.Draws))
	}
	if len(font.Requests) != 2 {
		t.Errorf("requested %d glyphs, want 2", len(font.Requests))
	}
}

func TestDestroyReleasesOnce(t *testing.T) {
	backend := rendertest.NewBackend()
	shader := newShader("shape")
	destroyers := []interface{ Destroy() }{
		NewRectangleRenderer(backend, shader),
		NewTriangleRenderer(backend, shader),
		NewLineRenderer(backend, shader),
		NewTextureRenderer(backend, shader),
		NewCircleRenderer(backend, shader),
		NewTextRenderer(backend, shader),
	}
	for _, d := range destroyers {
		d.Destroy()
	}
	destroyed := backend.BuffersDestroyed
	for _, d := range destroyers {
		d.Destroy()
	}

	if backend.Live() != 0 {
		t.Errorf("%d GPU objects still alive", backend.Live())
	}
	if backend.BuffersDestroyed != destroyed || destroyed != backend.BuffersCreated {
		t.Errorf("destroyed %d buffers (then %d), created %d", destroyed, backend.BuffersDestroyed, backend.BuffersCreated)
	}
}

func TestKindString(t *testing.T) {
	for _, k := range BatchedKinds {
		if k.String() == "" {
			t.Errorf("kind %d has no name", k)
		}
	}
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Errorf("Kind(42).String() = %q", got)
	}
}
