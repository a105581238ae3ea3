package viewer

import (
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/rs/zerolog"
)

// SessionOption is a functional option for configuring a Session via New.
type SessionOption func(*sessionImpl)

// WithLogger sets the logger. The session id is added to every entry.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - SessionOption: functional option to set the logger
func WithLogger(logger zerolog.Logger) SessionOption {
	return func(s *sessionImpl) {
		s.logger = logger
	}
}

// WithSink sets the receiver of display changes, typically the renderer.
//
// Parameters:
//   - sink: the texture sink
//
// Returns:
//   - SessionOption: functional option to set the sink
func WithSink(sink TextureSink) SessionOption {
	return func(s *sessionImpl) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithViewport sets the initial viewport size, overriding the configured window size.
//
// Parameters:
//   - width, height: viewport size in pixels
//
// Returns:
//   - SessionOption: functional option to set the viewport
func WithViewport(width, height int) SessionOption {
	return func(s *sessionImpl) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// WithLoaderOptions appends options applied to the texture loader after the configured ones.
//
// Parameters:
//   - options: loader options
//
// Returns:
//   - SessionOption: functional option to extend the loader configuration
func WithLoaderOptions(options ...loader.LoaderBuilderOption) SessionOption {
	return func(s *sessionImpl) {
		s.loaderOptions = append(s.loaderOptions, options...)
	}
}
