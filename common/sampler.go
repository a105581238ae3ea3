package common

import "github.com/cogentcore/webgpu/wgpu"

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// The zero value samples with linear filtering and repeat addressing.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV and AddressModeW address coordinates outside [0, 1].
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// Nearest selects nearest-neighbour filtering, for pixel-exact text.
	Nearest bool
	// MaxAnisotropy defaults to 1.
	MaxAnisotropy uint16
}

// Descriptor builds the wgpu sampler descriptor.
//
// Parameters:
//   - label: the sampler label
//
// Returns:
//   - wgpu.SamplerDescriptor: the descriptor with defaults applied
func (s SamplerStagingData) Descriptor(label string) wgpu.SamplerDescriptor {
	filter, mipmap := wgpu.FilterModeLinear, wgpu.MipmapFilterModeLinear
	if s.Nearest {
		filter, mipmap = wgpu.FilterModeNearest, wgpu.MipmapFilterModeNearest
	}
	return wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  s.AddressModeU,
		AddressModeV:  s.AddressModeV,
		AddressModeW:  s.AddressModeW,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  mipmap,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: orDefault(s.MaxAnisotropy, 1),
	}
}

// orDefault returns v, or def when v is the zero value.
func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
