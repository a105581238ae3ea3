package common

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestSamplerDescriptorDefaults(t *testing.T) {
	d := SamplerStagingData{}.Descriptor("panorama")
	assert.Equal(t, "panorama", d.Label)
	assert.Equal(t, wgpu.AddressModeRepeat, d.AddressModeU)
	assert.Equal(t, wgpu.FilterModeLinear, d.MagFilter)
	assert.Equal(t, wgpu.FilterModeLinear, d.MinFilter)
	assert.Equal(t, wgpu.MipmapFilterModeLinear, d.MipmapFilter)
	assert.Equal(t, float32(32), d.LodMaxClamp)
	assert.Equal(t, uint16(1), d.MaxAnisotropy)
}

// Nearest is the zero FilterMode, so it has to survive defaulting.
func TestSamplerDescriptorNearest(t *testing.T) {
	d := SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		Nearest:       true,
		MaxAnisotropy: 4,
	}.Descriptor("overlay")
	assert.Equal(t, wgpu.AddressModeClampToEdge, d.AddressModeU)
	assert.Equal(t, wgpu.AddressModeClampToEdge, d.AddressModeV)
	assert.Equal(t, wgpu.FilterModeNearest, d.MagFilter)
	assert.Equal(t, wgpu.FilterModeNearest, d.MinFilter)
	assert.Equal(t, wgpu.MipmapFilterModeNearest, d.MipmapFilter)
	assert.Equal(t, uint16(4), d.MaxAnisotropy)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 3, orDefault(0, 3))
	assert.Equal(t, 2, orDefault(2, 3))
	assert.Equal(t, "x", orDefault("", "x"))
}
