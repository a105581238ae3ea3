package renderer

import "github.com/rs/zerolog"

// DefaultExposure is the tone mapping exposure at which the filmic curve is neutral.
const DefaultExposure float32 = 0.6

// RendererBuilderOption is a functional option for configuring a Renderer via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the initial present mode. Defaults to PresentModeVSync.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - RendererBuilderOption: functional option to set the present mode
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithForceSoftwareRenderer requests the fallback (software) adapter.
//
// Parameters:
//   - force: whether to force the fallback adapter
//
// Returns:
//   - RendererBuilderOption: functional option to force the software adapter
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithExposure sets the tone mapping exposure. Non-positive values are ignored.
//
// Parameters:
//   - exposure: the exposure, DefaultExposure is neutral
//
// Returns:
//   - RendererBuilderOption: functional option to set the exposure
func WithExposure(exposure float32) RendererBuilderOption {
	return func(r *renderer) {
		if exposure > 0 {
			r.exposure = exposure
		}
	}
}

// WithEndCaps draws black discs over the poles of the panorama sphere.
//
// Parameters:
//   - capRadius: the disc radius
//   - sphereRadius: the panorama sphere radius
//
// Returns:
//   - RendererBuilderOption: functional option to enable end caps
func WithEndCaps(capRadius, sphereRadius float32) RendererBuilderOption {
	return func(r *renderer) {
		r.capsEnabled = true
		r.capCos = EndCapCos(capRadius, sphereRadius)
	}
}

// WithLogger sets the logger used for upload failures and diagnostics.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - RendererBuilderOption: functional option to set the logger
func WithLogger(logger zerolog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		r.logger = logger.With().Str("component", "renderer").Logger()
	}
}
