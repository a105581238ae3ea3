package renderer

import (
	"encoding/binary"
	"image"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/marker"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFloat(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestGPUPanoramaUniform_Marshal(t *testing.T) {
	buf := GPUPanoramaUniform{Exposure: 0.6, CapCos: 0.98, CapsEnabled: 1}.Marshal()
	require.Len(t, buf, panoramaUniformSize)
	assert.InDelta(t, 0.6, readFloat(buf, 0), 1e-6)
	assert.InDelta(t, 0.98, readFloat(buf, 4), 1e-6)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[8:]))
}

func TestMarshalSprites_Layout(t *testing.T) {
	buf := MarshalSprites([]GPUSprite{
		{Position: mgl32.Vec3{1, 2, 3}, Scale: mgl32.Vec2{4, 5}},
		{Position: mgl32.Vec3{6, 7, 8}, Scale: mgl32.Vec2{9, 10}},
	})
	require.Len(t, buf, 2*gpuSpriteSize)
	assert.Equal(t, float32(3), readFloat(buf, 8))
	assert.Equal(t, float32(5), readFloat(buf, 20))
	assert.Equal(t, float32(6), readFloat(buf, 32))
	assert.Equal(t, float32(10), readFloat(buf, 32+20))
	assert.Empty(t, MarshalSprites(nil))
}

func TestEndCapCos(t *testing.T) {
	assert.InDelta(t, math.Sqrt(1-0.04), EndCapCos(100, 500), 1e-6)
	assert.Equal(t, float32(1), EndCapCos(0, 500))
	assert.Equal(t, float32(1), EndCapCos(600, 500))
	assert.Equal(t, float32(1), EndCapCos(100, 0))
}

func TestOverlayRect(t *testing.T) {
	rect := OverlayRect(image.Rect(0, 0, 800, 600), 800, 600)
	assert.Equal(t, [4]float32{-1, 1, 1, -1}, rect.Rect)

	centre := OverlayRect(image.Rect(200, 150, 600, 450), 800, 600)
	assert.InDelta(t, -0.5, centre.Rect[0], 1e-6)
	assert.InDelta(t, 0.5, centre.Rect[1], 1e-6)
	assert.InDelta(t, 0.5, centre.Rect[2], 1e-6)
	assert.InDelta(t, -0.5, centre.Rect[3], 1e-6)

	assert.Equal(t, GPUOverlayUniform{}, OverlayRect(image.Rect(0, 0, 10, 10), 0, 600))
	assert.Len(t, centre.Marshal(), overlayUniformSize)
}

func lookingDownNegZ() common.Frustum {
	var proj, view, vp [16]float32
	common.Perspective(proj[:], mgl32.DegToRad(75), 16.0/9.0, 0.1, 1000)
	common.YawPitchView(view[:], 0, 0)
	common.Mul4(vp[:], proj[:], view[:])
	return common.ExtractFrustumFromMatrix(vp[:])
}

func TestVisibleSprites_CullsAndSortsFarFirst(t *testing.T) {
	markers := []marker.Marker{
		marker.New(mgl32.Vec3{0, 0, -100}, marker.Advance()),
		marker.New(mgl32.Vec3{0, 0, 400}, marker.Advance()), // behind the camera
		marker.New(mgl32.Vec3{10, 0, -300}, marker.Info("far")),
	}

	sprites := VisibleSprites(markers, lookingDownNegZ())

	require.Len(t, sprites, 2)
	assert.Equal(t, mgl32.Vec3{10, 0, -300}, sprites[0].Position)
	assert.Equal(t, mgl32.Vec3{0, 0, -100}, sprites[1].Position)
	assert.Equal(t, marker.DefaultScale, sprites[1].Scale)
}

func TestVisibleSprites_Empty(t *testing.T) {
	assert.Empty(t, VisibleSprites(nil, lookingDownNegZ()))
}

func TestPresentModeFor(t *testing.T) {
	assert.Equal(t, PresentModeVSync, PresentModeFor(true))
	assert.Equal(t, PresentModeUncapped, PresentModeFor(false))
}
