package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/marker"
	"github.com/Carmen-Shannon/oxy-pano/engine/profiler"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/viewer"
	"github.com/Carmen-Shannon/oxy-pano/engine/window"
	"github.com/Carmen-Shannon/oxy-pano/internal/config"
	"github.com/rs/zerolog"
)

// engine is the implementation of the Engine interface.
type engine struct {
	logger zerolog.Logger
	cfg    *config.Config

	window   window.Window
	renderer renderer.Renderer
	session  viewer.Session

	sessionOptions []viewer.SessionOption

	profiler         *profiler.Profiler
	profilingEnabled bool

	markers    []marker.Marker
	titleIndex int
	frames     uint64

	running  bool
	quitOnce sync.Once
	stopOnce sync.Once
}

// Engine runs one viewing session in a window. Everything happens on the calling thread: the
// window's message loop delivers input to the session, and each loop iteration applies finished
// texture loads, renders a frame and ticks the profiler.
type Engine interface {
	// Window returns the engine window.
	//
	// Returns:
	//   - window.Window: the window
	Window() window.Window

	// Session returns the viewing session.
	//
	// Returns:
	//   - viewer.Session: the session
	Session() viewer.Session

	// EnableProfiler enables periodic frame statistics. It has no effect when
	// window.profiler_interval is 0.
	EnableProfiler()

	// DisableProfiler disables periodic frame statistics.
	DisableProfiler()

	// Run blocks until the window closes or Quit is called, then releases the session, renderer
	// and window.
	//
	// Returns:
	//   - error: error from tearing down the window
	Run() error

	// Quit asks the window to close. Safe to call more than once and from input callbacks.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates the window, renderer and session for a validated configuration and wires the
// window callbacks. Windows and renderers passed through options are used as-is.
//
// Parameters:
//   - cfg: the viewer configuration
//   - options: engine options
//
// Returns:
//   - Engine: the engine, ready to Run
//   - error: error if any component could not be created
func NewEngine(cfg *config.Config, options ...EngineBuilderOption) (Engine, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	e := &engine{
		logger:     zerolog.Nop(),
		cfg:        cfg,
		titleIndex: -1,
	}
	for _, opt := range options {
		opt(e)
	}
	if cfg.Window.ProfilerInterval > 0 {
		e.profiler = profiler.NewProfiler(
			profiler.WithLogger(e.logger),
			profiler.WithLevel(zerolog.InfoLevel),
			profiler.WithInterval(time.Duration(cfg.Window.ProfilerInterval*float64(time.Second))),
		)
	}

	if err := e.init(); err != nil {
		e.teardown()
		return nil, err
	}
	e.wire()
	return e, nil
}

func (e *engine) init() error {
	var err error
	if e.window == nil {
		e.window, err = window.NewWindow(
			window.WithTitle(e.cfg.Window.Title),
			window.WithSize(e.cfg.Window.Width, e.cfg.Window.Height),
			window.WithMinSize(e.cfg.Window.MinWidth, e.cfg.Window.MinHeight),
			window.WithMaxSize(e.cfg.Window.MaxWidth, e.cfg.Window.MaxHeight),
		)
		if err != nil {
			return fmt.Errorf("failed to create window: %w", err)
		}
	}

	if e.renderer == nil {
		rendererOptions := []renderer.RendererBuilderOption{
			renderer.WithLogger(e.logger),
			renderer.WithPresentMode(renderer.PresentModeFor(e.cfg.Window.VSync)),
			renderer.WithExposure(e.cfg.Viewer.Exposure),
		}
		if e.cfg.Tour.ShowEndCaps {
			rendererOptions = append(rendererOptions, renderer.WithEndCaps(e.cfg.Tour.EndCapRadius, e.cfg.Tour.SphereRadius))
		}
		e.renderer, err = renderer.NewRenderer(renderer.BackendTypeWGPU, e.window, rendererOptions...)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
	}

	if len(e.cfg.Tour.Markers) > 0 {
		e.loadIcon()
	}

	sessionOptions := append([]viewer.SessionOption{
		viewer.WithLogger(e.logger),
		viewer.WithSink(e.renderer),
		viewer.WithViewport(e.window.Width(), e.window.Height()),
	}, e.sessionOptions...)
	e.session, err = viewer.New(e.cfg, sessionOptions...)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	e.markers = e.session.Markers()
	return nil
}

// loadIcon uploads the marker icon. Markers stay clickable without it, they are just not drawn.
func (e *engine) loadIcon() {
	img, err := common.DecodeImageFile(e.cfg.Tour.Icon)
	if err == nil {
		err = e.renderer.SetMarkerIcon(common.ToStaging(img, e.cfg.Loader.MaxTextureSize))
	}
	if err != nil {
		e.logger.Error().Err(err).Str("icon", e.cfg.Tour.Icon).Msg("marker icon unavailable")
	}
}

func (e *engine) wire() {
	e.session.SetPixelScale(e.window.PixelScale())
	e.window.SetMouseDownCallback(func(x, y float64) {
		e.session.PointerDown(x, y)
	})
	e.window.SetMouseMoveCallback(func(x, y float64) {
		e.session.PointerMove(x, y)
	})
	e.window.SetMouseUpCallback(func(x, y float64) {
		e.handleOutcome(e.session.PointerUp(x, y))
	})
	e.window.SetKeyDownCallback(func(keyCode uint32) {
		e.handleOutcome(e.session.KeyDown(keyCode))
	})
	e.window.SetResizeCallback(func(width, height int) {
		e.renderer.Resize(width, height)
		e.session.Resize(width, height)
		e.session.SetPixelScale(e.window.PixelScale())
	})
	e.window.SetUpdateCallback(e.frame)
}

func (e *engine) handleOutcome(o viewer.Outcome) {
	if o.Action == viewer.ActionNone {
		return
	}
	e.logger.Debug().
		Stringer("action", o.Action).
		Int("marker", o.MarkerIndex).
		Int("image", o.ImageIndex).
		Msg("input")
	if o.Action == viewer.ActionQuit {
		e.Quit()
	}
}

// frame runs one loop iteration.
func (e *engine) frame() {
	e.session.Tick()

	if d := e.session.Displayed(); d != e.titleIndex && d >= 0 {
		e.titleIndex = d
		t := e.session.Tour()
		e.window.SetTitle(WindowTitle(e.cfg.Window.Title, d, t.Len(), t.At(d)))
	}

	if err := e.renderer.Render(renderer.Frame{Camera: e.session.Camera(), Markers: e.markers}); err != nil {
		e.logger.Error().Err(err).Uint64("frame", e.frames).Msg("render failed")
	}
	e.frames++

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
}

// WindowTitle formats the title shown while image index of total is displayed.
//
// Parameters:
//   - base: the configured window title
//   - index: the displayed tour index
//   - total: the number of images in the tour
//   - path: the displayed image path
//
// Returns:
//   - string: e.g. "Panorama - 2/4 milkway.jpg"
func WindowTitle(base string, index, total int, path string) string {
	return fmt.Sprintf("%s - %d/%d %s", base, index+1, total, filepath.Base(path))
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Session() viewer.Session {
	return e.session
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Run() error {
	e.running = true
	e.logger.Info().
		Str("session", e.session.ID()).
		Int("images", e.session.Tour().Len()).
		Int("markers", len(e.markers)).
		Msg("viewer running")

	e.window.ProcessMessages()

	e.running = false
	e.logger.Info().Uint64("frames", e.frames).Msg("viewer stopped")
	return e.teardown()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// teardown releases components in reverse creation order.
func (e *engine) teardown() error {
	var err error
	e.stopOnce.Do(func() {
		if e.session != nil {
			e.session.Close()
		}
		if e.renderer != nil {
			e.renderer.Release()
		}
		if e.window != nil {
			err = e.window.Close()
		}
	})
	return err
}
