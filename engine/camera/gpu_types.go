package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (160 bytes, std430 aligned).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
// Size: 160 bytes (std430 / WGSL aligned).
type GPUCameraUniform struct {
	ViewProj    [16]float32 // offset   0: combined view-projection matrix (mat4x4<f32>)
	InvViewProj [16]float32 // offset  64: inverse view-projection matrix (mat4x4<f32>)
	Right       mgl32.Vec3  // offset 128: world-space camera right (vec3<f32>)
	_pad0       float32     // offset 140
	Up          mgl32.Vec3  // offset 144: world-space camera up (vec3<f32>)
	_pad1       float32     // offset 156: padding to 160 bytes
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (160)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.InvViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.Right[i]))
		binary.LittleEndian.PutUint32(buf[144+i*4:], math.Float32bits(g.Up[i]))
	}
	return buf
}
