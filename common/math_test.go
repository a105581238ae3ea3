package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func TestMul4Identity(t *testing.T) {
	a := make([]float32, 16)
	for i := range a {
		a[i] = float32(i + 1)
	}
	id := make([]float32, 16)
	Identity(id)

	out := make([]float32, 16)
	Mul4(out, a, id)
	assert.Equal(t, a, out)

	Mul4(out, id, a)
	assert.Equal(t, a, out)
}

func TestInvert4RoundTrip(t *testing.T) {
	view := make([]float32, 16)
	proj := make([]float32, 16)
	vp := make([]float32, 16)
	inv := make([]float32, 16)
	out := make([]float32, 16)

	YawPitchView(view, 0.7, -0.3)
	Perspective(proj, float32(75*math.Pi/180), 16.0/9.0, 0.1, 1000)
	Mul4(vp, proj, view)

	require.True(t, Invert4(inv, vp))
	Mul4(out, vp, inv)

	id := make([]float32, 16)
	Identity(id)
	assert.InDeltaSlice(t, id, out, 1e-3)
}

func TestInvert4Singular(t *testing.T) {
	zero := make([]float32, 16)
	out := make([]float32, 16)
	out[0] = 42

	assert.False(t, Invert4(out, zero))
	assert.Equal(t, float32(42), out[0])
}

func TestYawPitchAxesDefaultLooksDownNegativeZ(t *testing.T) {
	rx, ry, rz, ux, uy, uz, bx, by, bz := YawPitchAxes(0, 0)

	assert.InDelta(t, 1, rx, eps)
	assert.InDelta(t, 0, ry, eps)
	assert.InDelta(t, 0, rz, eps)
	assert.InDelta(t, 0, ux, eps)
	assert.InDelta(t, 1, uy, eps)
	assert.InDelta(t, 0, uz, eps)
	// forward is -back
	assert.InDelta(t, 0, -bx, eps)
	assert.InDelta(t, 0, -by, eps)
	assert.InDelta(t, -1, -bz, eps)
}

func TestYawPitchAxesForward(t *testing.T) {
	cases := []struct {
		name       string
		yaw, pitch float64
	}{
		{"yaw quarter turn", math.Pi / 2, 0},
		{"look up", 0, math.Pi / 4},
		{"mixed", 1.1, -0.4},
		{"straight down", -2.5, -math.Pi / 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, _, _, _, bx, by, bz := YawPitchAxes(tc.yaw, tc.pitch)
			wantX := -math.Sin(tc.yaw) * math.Cos(tc.pitch)
			wantY := math.Sin(tc.pitch)
			wantZ := -math.Cos(tc.yaw) * math.Cos(tc.pitch)

			assert.InDelta(t, wantX, -bx, eps)
			assert.InDelta(t, wantY, -by, eps)
			assert.InDelta(t, wantZ, -bz, eps)
		})
	}
}

func TestUnprojectCentreIsForward(t *testing.T) {
	view := make([]float32, 16)
	proj := make([]float32, 16)
	vp := make([]float32, 16)
	inv := make([]float32, 16)

	YawPitchView(view, 0, 0)
	Perspective(proj, float32(75*math.Pi/180), 1, 0.1, 1000)
	Mul4(vp, proj, view)
	require.True(t, Invert4(inv, vp))

	nx, ny, nz := Unproject(inv, 0, 0, 0)
	fx, fy, fz := Unproject(inv, 0, 0, 1)

	assert.InDelta(t, -0.1, nz, 1e-4)
	assert.InDelta(t, 0, nx, 1e-4)
	assert.InDelta(t, 0, ny, 1e-4)
	assert.Less(t, fz, nz)
	assert.InDelta(t, 0, fx, 1e-2)
	assert.InDelta(t, 0, fy, 1e-2)
}

func TestScreenToNDC(t *testing.T) {
	x, y := ScreenToNDC(0, 0, 800, 600)
	assert.Equal(t, -1.0, x)
	assert.Equal(t, 1.0, y)

	x, y = ScreenToNDC(400, 300, 800, 600)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	x, y = ScreenToNDC(800, 600, 800, 600)
	assert.Equal(t, 1.0, x)
	assert.Equal(t, -1.0, y)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(3.0, -1, 1))
	assert.Equal(t, -1.0, Clamp(-3.0, -1, 1))
	assert.Equal(t, 0.5, Clamp(0.5, -1, 1))
	assert.Equal(t, 7, Clamp(9, 0, 7))
}

func TestEquirectUV(t *testing.T) {
	cases := []struct {
		name       string
		dx, dy, dz float64
		u, v       float64
	}{
		{"forward", 0, 0, -1, 0.75, 0.5},
		{"plus x", 1, 0, 0, 0, 0.5},
		{"plus z", 0, 0, 1, 0.25, 0.5},
		{"minus x", -1, 0, 0, 0.5, 0.5},
		{"up", 0, 1, 0, 0, 0},
		{"down", 0, -1, 0, 0, 1},
		{"unnormalized", 0, 0, -10, 0.75, 0.5},
		{"zero", 0, 0, 0, 0, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, v := EquirectUV(tc.dx, tc.dy, tc.dz)
			assert.InDelta(t, tc.u, u, 1e-9)
			assert.InDelta(t, tc.v, v, 1e-9)
			assert.GreaterOrEqual(t, u, 0.0)
			assert.Less(t, u, 1.0)
		})
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	view := make([]float32, 16)
	proj := make([]float32, 16)
	vp := make([]float32, 16)

	YawPitchView(view, 0, 0)
	Perspective(proj, float32(75*math.Pi/180), 1, 0.1, 1000)
	Mul4(vp, proj, view)
	f := ExtractFrustumFromMatrix(vp)

	assert.True(t, f.IntersectsSphere(0, 0, -200, 25), "ahead")
	assert.False(t, f.IntersectsSphere(0, 0, 300, 25), "behind")
	assert.False(t, f.IntersectsSphere(0, 0, -1200, 25), "beyond far plane")
	assert.True(t, f.IntersectsSphere(0, 0, 10, 25), "straddling the camera")
}

func TestFitSize(t *testing.T) {
	w, h := FitSize(8192, 4096, 4096)
	assert.Equal(t, 4096, w)
	assert.Equal(t, 2048, h)

	w, h = FitSize(1000, 3000, 1500)
	assert.Equal(t, 500, w)
	assert.Equal(t, 1500, h)

	w, h = FitSize(100, 50, 4096)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)

	w, h = FitSize(100, 50, 0)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}
