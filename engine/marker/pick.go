package marker

import (
	"github.com/go-gl/mathgl/mgl32"
)

// parallelEpsilon is the smallest |dir·normal| treated as a ray crossing the billboard plane.
const parallelEpsilon = 1e-8

// Basis is the camera orientation a billboard faces: its plane normal is Forward and its local
// axes are Right and Up.
type Basis struct {
	Right, Up, Forward mgl32.Vec3
}

// Hit is the result of a successful pick.
type Hit struct {
	// Index is the position of the hit marker in the slice passed to Pick.
	Index int
	// Marker is the hit marker.
	Marker Marker
	// Distance is the ray parameter of the hit point (world units for a unit direction).
	Distance float32
}

// Intersect tests a ray against a single billboard. The billboard lies in the plane through
// m.Position whose normal is the camera forward vector and spans Scale along the camera's right
// and up axes. Only hits in front of the ray origin count.
//
// Parameters:
//   - m: the marker to test
//   - origin: the ray origin
//   - dir: the ray direction
//   - basis: the camera basis the billboard faces
//
// Returns:
//   - float32: the ray parameter of the hit point
//   - bool: true if the ray hits the billboard
func Intersect(m Marker, origin, dir mgl32.Vec3, basis Basis) (float32, bool) {
	denom := dir.Dot(basis.Forward)
	if denom > -parallelEpsilon && denom < parallelEpsilon {
		return 0, false
	}

	t := m.Position.Sub(origin).Dot(basis.Forward) / denom
	if t <= 0 {
		return 0, false
	}

	local := origin.Add(dir.Mul(t)).Sub(m.Position)
	u := local.Dot(basis.Right)
	v := local.Dot(basis.Up)
	if abs(u) > m.Scale.X()/2 || abs(v) > m.Scale.Y()/2 {
		return 0, false
	}
	return t, true
}

// Pick returns the marker nearest along the ray among all markers the ray hits.
// Markers at equal distance resolve to the earliest in the slice.
//
// Parameters:
//   - markers: the markers to test
//   - origin: the ray origin
//   - dir: the ray direction
//   - basis: the camera basis the billboards face
//
// Returns:
//   - Hit: the nearest hit
//   - bool: false if no marker is hit
func Pick(markers []Marker, origin, dir mgl32.Vec3, basis Basis) (Hit, bool) {
	best := Hit{Index: -1}
	for i, m := range markers {
		t, ok := Intersect(m, origin, dir, basis)
		if !ok {
			continue
		}
		if best.Index < 0 || t < best.Distance {
			best = Hit{Index: i, Marker: m, Distance: t}
		}
	}
	return best, best.Index >= 0
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
