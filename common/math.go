package common

import (
	"math"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (OpenGL/WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective creates a perspective projection matrix for WebGPU clip space (depth in [0, 1]).
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
}

// YawPitchView builds the view matrix of a camera sitting at the origin whose world rotation is
// Ry(yaw) * Rx(pitch) (Euler order YXZ, no roll). With yaw = pitch = 0 the camera looks down -Z.
// The rotation is orthonormal, so the view matrix is its transpose: rows are the camera's
// right, up and backward axes.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - yaw: rotation around the world Y axis in radians
//   - pitch: rotation around the camera X axis in radians
func YawPitchView(out []float32, yaw, pitch float64) {
	rx, ry, rz, ux, uy, uz, bx, by, bz := YawPitchAxes(yaw, pitch)
	Identity(out)

	out[0], out[4], out[8] = rx, ry, rz
	out[1], out[5], out[9] = ux, uy, uz
	out[2], out[6], out[10] = bx, by, bz
}

// YawPitchAxes returns the world-space right, up and backward unit vectors of the rotation
// Ry(yaw) * Rx(pitch). The forward (look) direction is the negated backward vector.
//
// Parameters:
//   - yaw: rotation around the world Y axis in radians
//   - pitch: rotation around the camera X axis in radians
//
// Returns:
//   - rx, ry, rz: right axis
//   - ux, uy, uz: up axis
//   - bx, by, bz: backward axis
func YawPitchAxes(yaw, pitch float64) (rx, ry, rz, ux, uy, uz, bx, by, bz float32) {
	cy, sy := math.Cos(yaw), math.Sin(yaw)
	cp, sp := math.Cos(pitch), math.Sin(pitch)

	rx, ry, rz = float32(cy), 0, float32(-sy)
	ux, uy, uz = float32(sy*sp), float32(cp), float32(cy*sp)
	bx, by, bz = float32(sy*cp), float32(-sp), float32(cy*cp)
	return
}

// Invert4 computes the inverse of a 4x4 column-major matrix using the Laplace
// expansion (cofactor) method. If the matrix is singular (determinant ≈ 0) the
// output is left unchanged and the function returns false.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(out, m []float32) bool {
	// 2x2 sub-determinants of the upper-left and lower-right quadrants.
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return false
	}

	invDet := 1.0 / det

	out[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	out[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	out[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	out[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	out[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	out[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	out[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	out[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	out[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	out[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	out[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	out[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	out[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	out[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	out[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	out[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	return true
}

// TransformPoint multiplies a column-major 4x4 matrix by the homogeneous point (x, y, z, w)
// and returns the resulting 4-vector.
//
// Parameters:
//   - m: the matrix (16 elements, column-major)
//   - x, y, z, w: the homogeneous input point
//
// Returns:
//   - ox, oy, oz, ow: the transformed homogeneous point
func TransformPoint(m []float32, x, y, z, w float32) (ox, oy, oz, ow float32) {
	ox = m[0]*x + m[4]*y + m[8]*z + m[12]*w
	oy = m[1]*x + m[5]*y + m[9]*z + m[13]*w
	oz = m[2]*x + m[6]*y + m[10]*z + m[14]*w
	ow = m[3]*x + m[7]*y + m[11]*z + m[15]*w
	return
}

// Unproject maps a normalized device coordinate back to world space using the inverse of the
// view-projection matrix. ndcZ follows WebGPU conventions: 0 is the near plane, 1 the far plane.
// If the homogeneous w component is zero the point is returned without perspective division.
//
// Parameters:
//   - invViewProj: inverse view-projection matrix (16 elements, column-major)
//   - ndcX, ndcY, ndcZ: normalized device coordinates
//
// Returns:
//   - x, y, z: the world-space point
func Unproject(invViewProj []float32, ndcX, ndcY, ndcZ float32) (x, y, z float32) {
	x, y, z, w := TransformPoint(invViewProj, ndcX, ndcY, ndcZ, 1)
	if w == 0 {
		return x, y, z
	}
	return x / w, y / w, z / w
}

// ScreenToNDC converts a pixel coordinate (origin top-left, y down) into normalized device
// coordinates: ((x/width)*2-1, -(y/height)*2+1).
//
// Parameters:
//   - x, y: pixel coordinates
//   - width, height: viewport size in pixels (must be > 0)
//
// Returns:
//   - ndcX, ndcY: normalized device coordinates in [-1, 1]
func ScreenToNDC(x, y, width, height float64) (ndcX, ndcY float64) {
	return (x/width)*2 - 1, -(y/height)*2 + 1
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp[T ~float32 | ~float64 | ~int](v, lo, hi T) T {
	return max(lo, min(hi, v))
}

// EquirectUV maps a view direction to equirectangular texture coordinates the same way the
// panorama fragment shader does. The mapping matches a UV sphere mirrored on X and viewed from
// the inside: the longitude is measured from +X towards +Z, so the default forward direction
// (-Z) samples u = 0.75, and v = 0 is the top row of the image (+Y).
//
// Parameters:
//   - dx, dy, dz: the view direction (need not be normalized)
//
// Returns:
//   - u, v: texture coordinates in [0, 1)
func EquirectUV(dx, dy, dz float64) (u, v float64) {
	l := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if l == 0 {
		return 0, 0.5
	}
	dx, dy, dz = dx/l, dy/l, dz/l
	u = math.Atan2(dz, dx) / (2 * math.Pi)
	u -= math.Floor(u)
	v = 0.5 - math.Asin(Clamp(dy, -1, 1))/math.Pi
	return u, v
}
