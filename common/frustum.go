package common

import (
	"math"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix extracts frustum planes from a view-projection matrix using the
// Gribb/Hartmann method. The near plane uses the WebGPU [0, 1] depth convention (row2 alone).
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: 16 float32 values representing the view-projection matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj []float32) Frustum {
	// row(i) of a column-major matrix is (m[i], m[4+i], m[8+i], m[12+i])
	row := func(i int) [4]float32 {
		return [4]float32{viewProj[i], viewProj[4+i], viewProj[8+i], viewProj[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	combos := [6][4]float32{}
	for k := range 4 {
		combos[FrustumLeft][k] = r3[k] + r0[k]
		combos[FrustumRight][k] = r3[k] - r0[k]
		combos[FrustumBottom][k] = r3[k] + r1[k]
		combos[FrustumTop][k] = r3[k] - r1[k]
		combos[FrustumNear][k] = r2[k]
		combos[FrustumFar][k] = r3[k] - r2[k]
	}

	var f Frustum
	for i, c := range combos {
		f.Planes[i] = Plane{Normal: [3]float32{c[0], c[1], c[2]}, Distance: c[3]}
		f.normalizePlane(i)
	}
	return f
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := float32(math.Sqrt(float64(
		p.Normal[0]*p.Normal[0] +
			p.Normal[1]*p.Normal[1] +
			p.Normal[2]*p.Normal[2],
	)))

	if length > 0 {
		invLen := 1.0 / length
		p.Normal[0] *= invLen
		p.Normal[1] *= invLen
		p.Normal[2] *= invLen
		p.Distance *= invLen
	}
}

// IntersectsSphere reports whether a bounding sphere is at least partially inside the frustum.
//
// Parameters:
//   - cx, cy, cz: sphere centre in world space
//   - radius: sphere radius
//
// Returns:
//   - bool: false only when the sphere lies entirely outside one of the planes
func (f Frustum) IntersectsSphere(cx, cy, cz, radius float32) bool {
	for _, p := range f.Planes {
		d := p.Normal[0]*cx + p.Normal[1]*cy + p.Normal[2]*cz + p.Distance
		if d < -radius {
			return false
		}
	}
	return true
}
