package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider_Label(t *testing.T) {
	p := NewBindGroupProvider("panorama_texture")
	assert.Equal(t, "panorama_texture", p.Label())
	assert.Nil(t, p.BindGroup())
}

func TestBindGroupProvider_EmptyLookups(t *testing.T) {
	p := NewBindGroupProvider("empty")
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(0))
	assert.Nil(t, p.Sampler(1))
}

func TestBindGroupProvider_SetNilEntries(t *testing.T) {
	p := NewBindGroupProvider("slots").(*bindGroupProvider)
	p.SetBuffer(0, nil)
	p.SetTexture(1, nil, nil)
	p.SetSampler(2, nil)

	assert.Len(t, p.buffers, 1)
	assert.Len(t, p.textures, 1)
	assert.Len(t, p.textureViews, 1)
	assert.Len(t, p.samplers, 1)

	// Nil entries are skipped on release but the maps are still cleared.
	p.Release()
	assert.Empty(t, p.buffers)
	assert.Empty(t, p.textures)
	assert.Empty(t, p.textureViews)
	assert.Empty(t, p.samplers)
}

// Setters work on a zero provider.
func TestBindGroupProvider_SettersAllocateMaps(t *testing.T) {
	p := &bindGroupProvider{}
	p.SetBuffer(0, nil)
	p.SetTexture(1, nil, nil)
	p.SetSampler(2, nil)
	assert.Contains(t, p.buffers, 0)
	assert.Contains(t, p.textureViews, 1)
	assert.Contains(t, p.samplers, 2)
}

func TestBindGroupProvider_ReleaseTwice(t *testing.T) {
	p := NewBindGroupProvider("twice")
	assert.NotPanics(t, func() {
		p.Release()
		p.Release()
	})
}

func TestBufferWrite_Valid(t *testing.T) {
	p := NewBindGroupProvider("writes")
	assert.False(t, BufferWrite{}.Valid())
	assert.False(t, BufferWrite{Provider: p, Data: []byte{1}}.Valid(), "no buffer at binding")
	assert.False(t, BufferWrite{Provider: p}.Valid())
}
