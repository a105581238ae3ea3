package renderer

import (
	_ "embed"
	"encoding/binary"
	"image"
	"math"
	"sort"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/marker"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUPanoramaUniformSource is the WGSL definition of PanoramaUniform, included as "panorama".
//
//go:embed assets/panorama_uniform.wgsl
var GPUPanoramaUniformSource string

// GPUSpriteSource is the WGSL definition of Sprite, included as "sprite".
//
//go:embed assets/sprite_instance.wgsl
var GPUSpriteSource string

// GPUOverlayUniformSource is the WGSL definition of OverlayUniform, included as "overlay".
//
//go:embed assets/overlay_uniform.wgsl
var GPUOverlayUniformSource string

// GPUPanoramaUniform matches the WGSL PanoramaUniform struct (16 bytes, see GPUPanoramaUniformSource).
type GPUPanoramaUniform struct {
	Exposure    float32 // offset 0
	CapCos      float32 // offset 4: |dir.y| at or above this is drawn as an end cap
	CapsEnabled uint32  // offset 8
	_pad0       float32 // offset 12
}

// Marshal serializes the uniform for GPU upload.
//
// Returns:
//   - []byte: the 16 byte buffer
func (g GPUPanoramaUniform) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Exposure))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(g.CapCos))
	binary.LittleEndian.PutUint32(buf[8:], g.CapsEnabled)
	return buf
}

// GPUSprite matches one element of the WGSL sprites storage array (32 bytes, see GPUSpriteSource).
type GPUSprite struct {
	Position mgl32.Vec3 // offset 0
	_pad0    float32    // offset 12
	Scale    mgl32.Vec2 // offset 16
	_pad1    [2]float32 // offset 24
}

// gpuSpriteSize is the stride of the sprites storage array.
const gpuSpriteSize = 32

// MarshalSprites serializes sprites into a tightly packed storage buffer.
//
// Parameters:
//   - sprites: the sprites to pack
//
// Returns:
//   - []byte: len(sprites) * 32 bytes
func MarshalSprites(sprites []GPUSprite) []byte {
	buf := make([]byte, len(sprites)*gpuSpriteSize)
	for i, s := range sprites {
		off := i * gpuSpriteSize
		for j := range 3 {
			binary.LittleEndian.PutUint32(buf[off+j*4:], math.Float32bits(s.Position[j]))
		}
		binary.LittleEndian.PutUint32(buf[off+16:], math.Float32bits(s.Scale[0]))
		binary.LittleEndian.PutUint32(buf[off+20:], math.Float32bits(s.Scale[1]))
	}
	return buf
}

// GPUOverlayUniform matches the WGSL OverlayUniform struct (16 bytes, see GPUOverlayUniformSource).
type GPUOverlayUniform struct {
	// Rect is left, top, right, bottom in normalized device coordinates.
	Rect [4]float32
}

// Marshal serializes the uniform for GPU upload.
//
// Returns:
//   - []byte: the 16 byte buffer
func (g GPUOverlayUniform) Marshal() []byte {
	buf := make([]byte, 16)
	for i, v := range g.Rect {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// EndCapCos returns the |dir.y| threshold above which a view direction falls inside an end cap
// disc of radius capRadius on a sphere of radius sphereRadius.
//
// Parameters:
//   - capRadius: the disc radius
//   - sphereRadius: the panorama sphere radius
//
// Returns:
//   - float32: cosine of the cap's polar half-angle, or 1 when caps cannot be drawn
func EndCapCos(capRadius, sphereRadius float32) float32 {
	if capRadius <= 0 || sphereRadius <= 0 || capRadius >= sphereRadius {
		return 1
	}
	r := float64(capRadius / sphereRadius)
	return float32(math.Sqrt(1 - r*r))
}

// OverlayRect converts a panel rectangle in viewport pixels into NDC corners.
//
// Parameters:
//   - panel: the panel rectangle, origin top-left
//   - width, height: the viewport size in pixels
//
// Returns:
//   - GPUOverlayUniform: the panel in NDC
func OverlayRect(panel image.Rectangle, width, height int) GPUOverlayUniform {
	if width <= 0 || height <= 0 {
		return GPUOverlayUniform{}
	}
	w, h := float32(width), float32(height)
	return GPUOverlayUniform{Rect: [4]float32{
		2*float32(panel.Min.X)/w - 1,
		1 - 2*float32(panel.Min.Y)/h,
		2*float32(panel.Max.X)/w - 1,
		1 - 2*float32(panel.Max.Y)/h,
	}}
}

// VisibleSprites returns the markers inside the frustum as GPU sprites, farthest first so
// nearer billboards blend over farther ones. The camera sits at the origin.
//
// Parameters:
//   - markers: all markers
//   - frustum: the camera frustum
//
// Returns:
//   - []GPUSprite: the visible sprites in draw order
func VisibleSprites(markers []marker.Marker, frustum common.Frustum) []GPUSprite {
	sprites := make([]GPUSprite, 0, len(markers))
	for _, m := range markers {
		p := m.Position
		if !frustum.IntersectsSphere(p.X(), p.Y(), p.Z(), m.BoundingRadius()) {
			continue
		}
		sprites = append(sprites, GPUSprite{Position: p, Scale: m.Scale})
	}
	sort.SliceStable(sprites, func(i, j int) bool {
		return sprites[i].Position.Dot(sprites[i].Position) > sprites[j].Position.Dot(sprites[j].Position)
	})
	return sprites
}
