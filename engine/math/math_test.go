package math

import (
	m "math"
	"testing"
)

const tolerance = 1e-4

func TestRotation(t *testing.T) {
	tests := []struct {
		name    string
		r       Rotation
		degrees float32
		radians float32
	}{
		{name: "zero value", r: Rotation{}, degrees: 0, radians: 0},
		{name: "degrees", r: Degrees(90), degrees: 90, radians: K_PI / 2},
		{name: "radians", r: Radians(K_PI), degrees: 180, radians: K_PI},
		{name: "not wrapped", r: Degrees(720), degrees: 720, radians: 4 * K_PI},
		{name: "negative", r: Radians(-K_PI / 4), degrees: -45, radians: -K_PI / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Degrees(); Abs(got-tt.degrees) > tolerance {
				t.Errorf("Degrees = %v, want %v", got, tt.degrees)
			}
			if got := tt.r.Radians(); Abs(got-tt.radians) > tolerance {
				t.Errorf("Radians = %v, want %v", got, tt.radians)
			}
			back := Radians(tt.r.Radians()).Degrees()
			if Abs(back-tt.degrees) > tolerance {
				t.Errorf("round trip = %v", back)
			}
		})
	}
}

func TestClampAbs(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp high = %v", got)
	}
	if got := Clamp(float32(-1), 0, 3); got != 0 {
		t.Errorf("Clamp low = %v", got)
	}
	if got := Clamp(2, 0, 3); got != 2 {
		t.Errorf("Clamp inside = %v", got)
	}
	if got := Abs(-7); got != 7 {
		t.Errorf("Abs = %v", got)
	}
	if got := Abs(float32(2.5)); got != 2.5 {
		t.Errorf("Abs = %v", got)
	}
}

func TestVec2(t *testing.T) {
	a := NewVec2(3, 4)
	if a.Length() != 5 {
		t.Errorf("Length = %v", a.Length())
	}
	sum := a.Add(NewVec2(1, 1)).Sub(NewVec2Zero()).MulScalar(2)
	if !sum.Compare(NewVec2(8, 10), tolerance) {
		t.Errorf("sum = %v", sum)
	}
}

func TestScreenProjection(t *testing.T) {
	proj := NewMat4ScreenProjection(800, 600)
	tests := []struct {
		in   Vec3
		want Vec3
	}{
		{in: NewVec3(0, 0, 0), want: NewVec3(-1, 1, 0)},
		{in: NewVec3(800, 600, 0), want: NewVec3(1, -1, 0)},
		{in: NewVec3(400, 300, 0), want: NewVec3(0, 0, 0)},
	}
	for _, tt := range tests {
		got := tt.in.Transform(proj)
		if Abs(got.X-tt.want.X) > tolerance || Abs(got.Y-tt.want.Y) > tolerance {
			t.Errorf("%v -> %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestView2D(t *testing.T) {
	view := NewMat4View2D(400, 300, 800, 600)
	if !view.ApproxEqualThreshold(NewMat4Identity(), tolerance) {
		t.Errorf("centered view is not the identity:\n%v", view)
	}

	// moving the camera right shifts the world left
	view = NewMat4View2D(500, 300, 800, 600)
	got := NewVec3(100, 50, 0).Transform(view)
	if Abs(got.X-0) > tolerance || Abs(got.Y-50) > tolerance {
		t.Errorf("moved view = %v", got)
	}
}

func TestTransform2DModel(t *testing.T) {
	tests := []struct {
		name   string
		tr     Transform2D
		corner Vec3
		want   Vec3
	}{
		{
			name:   "unrotated origin",
			tr:     NewTransform2D(10, 20, 100, 50, Degrees(0)),
			corner: NewVec3(0, 0, 0),
			want:   NewVec3(10, 20, 0),
		},
		{
			name:   "unrotated far corner",
			tr:     NewTransform2D(10, 20, 100, 50, Degrees(0)),
			corner: NewVec3(1, 1, 0),
			want:   NewVec3(110, 70, 0),
		},
		{
			name:   "quarter turn keeps the center",
			tr:     NewTransform2D(0, 0, 100, 100, Degrees(90)),
			corner: NewVec3(0.5, 0.5, 0),
			want:   NewVec3(50, 50, 0),
		},
		{
			name:   "quarter turn moves the corner",
			tr:     NewTransform2D(0, 0, 100, 100, Radians(K_PI/2)),
			corner: NewVec3(0, 0, 0),
			want:   NewVec3(100, 0, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.corner.Transform(tt.tr.Model())
			if Abs(got.X-tt.want.X) > tolerance || Abs(got.Y-tt.want.Y) > tolerance || got.Z != 0 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMVP(t *testing.T) {
	tr := NewTransform2D(0, 0, 800, 600, Degrees(0))
	mvp := tr.MVP(NewMat4View2D(400, 300, 800, 600), NewMat4ScreenProjection(800, 600))
	got := NewVec3(1, 1, 0).Transform(mvp)
	if m.Abs(float64(got.X-1)) > tolerance || m.Abs(float64(got.Y+1)) > tolerance {
		t.Errorf("bottom-right corner = %v", got)
	}
}
