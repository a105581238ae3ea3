package profiler

import (
	"time"

	"github.com/rs/zerolog"
)

// ProfilerOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often a sample is taken. Non-positive values are ignored.
//
// Parameters:
//   - interval: the sampling interval
//
// Returns:
//   - ProfilerOption: functional option to set the interval
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithLogger sets the logger samples are written to.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - ProfilerOption: functional option to set the logger
func WithLogger(logger zerolog.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = logger.With().Str("component", "profiler").Logger()
	}
}

// WithLevel sets the level samples are logged at.
//
// Parameters:
//   - level: the zerolog level
//
// Returns:
//   - ProfilerOption: functional option to set the level
func WithLevel(level zerolog.Level) ProfilerOption {
	return func(p *Profiler) {
		p.level = level
	}
}

// WithClock replaces the time source.
//
// Parameters:
//   - now: returns the current time
//
// Returns:
//   - ProfilerOption: functional option to set the clock
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
