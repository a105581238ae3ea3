package loader

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/rs/zerolog"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger sets the logger used for load diagnostics.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger zerolog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.logger = logger.With().Str("component", "loader").Logger()
	}
}

// WithWorkers sets the number of decode workers.
//
// Parameters:
//   - workers: the worker count (values below 1 are treated as 1)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(workers int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = workers
	}
}

// WithMaxTextureSize sets the largest texture side; bigger images are downscaled.
//
// Parameters:
//   - size: maximum side length in pixels (<= 0 disables scaling)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the size limit to a loader
func WithMaxTextureSize(size int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxTextureSize = size
	}
}

// WithCacheSize sets how many decoded textures are kept for reuse.
//
// Parameters:
//   - size: the cache capacity (0 disables caching)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache size to a loader
func WithCacheSize(size int) LoaderBuilderOption {
	return func(l *loader) {
		l.cache = newTextureCache(size)
	}
}

// WithDecoder replaces the backend with a decode function.
//
// Parameters:
//   - decode: decodes the file at path, fitting it within maxSize
//
// Returns:
//   - LoaderBuilderOption: a function that applies the decoder to a loader
func WithDecoder(decode func(path string, maxSize int) (common.TextureStagingData, error)) LoaderBuilderOption {
	return func(l *loader) {
		l.backend = decoderFunc(decode)
	}
}
