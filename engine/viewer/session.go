// Package viewer holds the state of one panorama viewing session and the input dispatch functions
// the event loop calls. It is GPU-free: display changes are published to a TextureSink.
package viewer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/marker"
	"github.com/Carmen-Shannon/oxy-pano/engine/overlay"
	"github.com/Carmen-Shannon/oxy-pano/engine/tour"
	"github.com/Carmen-Shannon/oxy-pano/internal/config"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Action is what an input event did.
type Action int

const (
	// ActionNone means nothing happened: a release that ended a drag, or a click that hit nothing.
	ActionNone Action = iota
	// ActionDismiss means the overlay was closed.
	ActionDismiss
	// ActionAdvance means the tour moved to the next image.
	ActionAdvance
	// ActionInfo means the overlay was shown with a marker's text.
	ActionInfo
	// ActionQuit means the user asked to quit.
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionDismiss:
		return "dismiss"
	case ActionAdvance:
		return "advance"
	case ActionInfo:
		return "info"
	case ActionQuit:
		return "quit"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Outcome describes the effect of one input event.
type Outcome struct {
	Action Action
	// Click reports whether a pointer release was classified as a click.
	Click bool
	// MarkerIndex is the index of the marker that was hit, -1 if none.
	MarkerIndex int
	// ImageIndex is the tour index after the event.
	ImageIndex int
	// Text is the overlay text shown by ActionInfo.
	Text string
}

type sessionImpl struct {
	id     string
	logger zerolog.Logger

	controller camera.LookController
	camera     camera.Camera
	tour       tour.ImageSet
	markers    []marker.Marker
	overlay    overlay.Overlay
	loader     loader.Loader
	sink       TextureSink

	loaderOptions []loader.LoaderBuilderOption

	width, height int
	// pixelScale is framebuffer pixels per screen coordinate.
	pixelScale float64

	displayed         int
	publishedRevision uint64
	overlayDirty      bool

	quit   bool
	closed bool
}

// Session is the explicit state of one viewing session. It owns the look controller, camera,
// tour, markers, overlay and texture loader, and is driven entirely by the event loop: every
// method must be called from the same goroutine.
type Session interface {
	// ID returns the unique session identifier.
	//
	// Returns:
	//   - string: the session id
	ID() string

	// PointerDown handles a primary button press. Pointer positions are framebuffer pixels; the
	// drag threshold and sensitivity apply to screen coordinates, see SetPixelScale.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	PointerDown(x, y float64)

	// PointerUp handles a primary button release. A release that moved less than the drag
	// threshold since the press is a click: it dismisses the overlay when it lands on the Close
	// button, otherwise it is ray-cast against the markers and the nearest hit marker's action runs.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	//
	// Returns:
	//   - Outcome: what the release did
	PointerUp(x, y float64) Outcome

	// PointerMove handles pointer motion. Only effective while dragging.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	PointerMove(x, y float64)

	// KeyDown handles a key press: Escape or Enter dismisses the overlay, N, Space or the right
	// arrow advances the tour, Q requests quit.
	//
	// Parameters:
	//   - keyCode: the key code (common.Key* values)
	//
	// Returns:
	//   - Outcome: what the key did
	KeyDown(keyCode uint32) Outcome

	// Resize updates the viewport size. Zero sizes (minimized windows) are ignored.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	Resize(width, height int)

	// SetPixelScale sets the framebuffer pixels per screen coordinate, 2 on a typical high-DPI
	// display. Non-positive values are ignored.
	//
	// Parameters:
	//   - scale: the display content scale
	SetPixelScale(scale float64)

	// Tick applies completed texture loads in completion order, updates the camera from the
	// controller and republishes the overlay when it changed. Failed loads leave the displayed
	// texture as it was.
	Tick()

	// Advance moves the tour to the next image and requests its texture.
	//
	// Returns:
	//   - int: the new image index
	Advance() int

	// Camera returns the session camera.
	Camera() camera.Camera

	// Controller returns the look controller.
	Controller() camera.LookController

	// Tour returns the image set.
	Tour() tour.ImageSet

	// Markers returns a copy of the markers.
	Markers() []marker.Marker

	// Overlay returns the info overlay.
	Overlay() overlay.Overlay

	// Displayed returns the tour index of the texture currently displayed, -1 before the first
	// load completes.
	Displayed() int

	// Viewport returns the current viewport size in pixels.
	Viewport() (width, height int)

	// Ready returns a channel signalled when texture loads complete.
	Ready() <-chan struct{}

	// Pending returns the number of texture loads still in flight.
	Pending() int

	// QuitRequested reports whether the user asked to quit.
	QuitRequested() bool

	// Close waits for in-flight texture loads and releases the loader. Safe to call more than once.
	Close()
}

var _ Session = &sessionImpl{}

// New creates a session from a validated configuration and requests the texture of the starting
// image.
//
// Parameters:
//   - cfg: the viewer configuration
//   - options: functional options to configure the session
//
// Returns:
//   - Session: the new session
//   - error: error if the tour or markers are invalid
func New(cfg *config.Config, options ...SessionOption) (Session, error) {
	s := &sessionImpl{
		id:         uuid.NewString(),
		logger:     zerolog.Nop(),
		sink:       nopSink{},
		width:      cfg.Window.Width,
		height:     cfg.Window.Height,
		pixelScale: 1,
		displayed:  -1,
	}
	for _, option := range options {
		option(s)
	}
	s.logger = s.logger.With().Str("session", s.id).Logger()

	images, err := tour.NewImageSet(cfg.Tour.Images, tour.WithStartIndex(cfg.Tour.StartIndex))
	if err != nil {
		return nil, fmt.Errorf("failed to create tour: %w", err)
	}
	s.tour = images

	markers, err := buildMarkers(cfg.Tour.Markers)
	if err != nil {
		return nil, err
	}
	s.markers = markers

	s.controller = camera.NewLookController(
		camera.WithOrientation(cfg.Viewer.InitialYaw, cfg.Viewer.InitialPitch),
		camera.WithDragThreshold(cfg.Viewer.DragThreshold),
		camera.WithSensitivity(cfg.Viewer.Sensitivity),
	)
	s.camera = camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(cfg.Viewer.FovDegrees)),
		camera.WithAspect(aspect(s.width, s.height)),
		camera.WithNear(cfg.Viewer.Near),
		camera.WithFar(cfg.Viewer.Far),
		camera.WithController(s.controller),
	)
	s.overlay = overlay.NewOverlay(overlay.WithScale(cfg.Viewer.OverlayScale))
	s.publishedRevision = s.overlay.Revision()

	loaderOptions := append([]loader.LoaderBuilderOption{
		loader.WithLogger(s.logger),
		loader.WithWorkers(cfg.Loader.Workers),
		loader.WithMaxTextureSize(cfg.Loader.MaxTextureSize),
		loader.WithCacheSize(cfg.Loader.CacheSize),
	}, s.loaderOptions...)
	s.loader = loader.NewLoader(loader.BackendTypeImage, loaderOptions...)

	s.logger.Info().
		Int("images", s.tour.Len()).
		Int("markers", len(s.markers)).
		Int("start", s.tour.Index()).
		Msg("session started")

	s.loader.Load(s.tour.Index(), s.tour.Current())
	return s, nil
}

// buildMarkers converts marker configuration into markers, applying the default scale where none
// is set.
func buildMarkers(cfgs []config.MarkerConfig) ([]marker.Marker, error) {
	markers := make([]marker.Marker, 0, len(cfgs))
	for i, mc := range cfgs {
		action, err := marker.ParseAction(mc.Action)
		if err != nil {
			return nil, fmt.Errorf("failed to create marker %d: %w", i, err)
		}
		payload := marker.Advance()
		if action == marker.ActionInfo {
			payload = marker.Info(mc.Text)
		}

		m := marker.New(mgl32.Vec3(mc.Position), payload)
		if mc.Scale[0] > 0 && mc.Scale[1] > 0 {
			m.Scale = mgl32.Vec2(mc.Scale)
		}
		markers = append(markers, m)
	}
	return markers, nil
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

func (s *sessionImpl) ID() string {
	return s.id
}

func (s *sessionImpl) PointerDown(x, y float64) {
	s.controller.OnPointerDown(x/s.pixelScale, y/s.pixelScale)
}

func (s *sessionImpl) PointerMove(x, y float64) {
	s.controller.OnPointerMove(x/s.pixelScale, y/s.pixelScale)
}

func (s *sessionImpl) PointerUp(x, y float64) Outcome {
	if !s.controller.OnPointerUp(x/s.pixelScale, y/s.pixelScale) {
		return s.outcome(ActionNone)
	}

	out := s.resolveClick(x, y)
	out.Click = true
	return out
}

// resolveClick runs the action of whatever lies under a click: the overlay Close button first,
// then the nearest marker along the pick ray.
func (s *sessionImpl) resolveClick(x, y float64) Outcome {
	if s.overlay.HitClose(x, y, s.width, s.height) {
		s.overlay.Dismiss()
		s.logger.Debug().Msg("overlay closed")
		return s.outcome(ActionDismiss)
	}

	// Orientation may have changed since the last tick.
	s.camera.Update()
	origin, dir := s.camera.Ray(x, y, float64(s.width), float64(s.height))
	right, up, forward := s.camera.Axes()

	hit, ok := marker.Pick(s.markers, origin, dir, marker.Basis{Right: right, Up: up, Forward: forward})
	if !ok {
		return s.outcome(ActionNone)
	}

	var out Outcome
	switch hit.Marker.Payload.Action {
	case marker.ActionAdvance:
		s.Advance()
		out = s.outcome(ActionAdvance)
	case marker.ActionInfo:
		s.overlay.Show(hit.Marker.Payload.Text)
		out = s.outcome(ActionInfo)
		out.Text = s.overlay.Text()
	default:
		return s.outcome(ActionNone)
	}
	out.MarkerIndex = hit.Index

	s.logger.Debug().
		Int("marker", hit.Index).
		Stringer("action", hit.Marker.Payload.Action).
		Float32("distance", hit.Distance).
		Msg("marker clicked")
	return out
}

func (s *sessionImpl) outcome(action Action) Outcome {
	return Outcome{Action: action, MarkerIndex: -1, ImageIndex: s.tour.Index()}
}

func (s *sessionImpl) KeyDown(keyCode uint32) Outcome {
	switch keyCode {
	case common.KeyEsc, common.KeyEnter:
		if s.overlay.Dismiss() {
			return s.outcome(ActionDismiss)
		}
	case common.KeyN, common.KeySpace, common.KeyRight:
		s.Advance()
		return s.outcome(ActionAdvance)
	case common.KeyQ:
		s.quit = true
		s.logger.Info().Msg("quit requested")
		return s.outcome(ActionQuit)
	}
	return s.outcome(ActionNone)
}

func (s *sessionImpl) Advance() int {
	index, path := s.tour.Advance()
	s.logger.Info().Int("index", index).Str("path", path).Msg("advancing tour")
	s.loader.Load(index, path)
	return index
}

func (s *sessionImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.camera.SetAspect(aspect(width, height))
	s.overlayDirty = true
}

func (s *sessionImpl) SetPixelScale(scale float64) {
	if scale > 0 {
		s.pixelScale = scale
	}
}

func (s *sessionImpl) Tick() {
	for _, r := range s.loader.Drain() {
		if r.Err != nil {
			continue
		}
		s.sink.SetPanorama(r.Index, r.Texture)
		s.displayed = r.Index
	}

	s.camera.Update()

	if rev := s.overlay.Revision(); rev != s.publishedRevision || s.overlayDirty {
		img, layout := s.overlay.Rasterize(s.width, s.height)
		s.sink.SetOverlay(img, layout)
		s.publishedRevision = rev
		s.overlayDirty = false
	}
}

func (s *sessionImpl) Camera() camera.Camera {
	return s.camera
}

func (s *sessionImpl) Controller() camera.LookController {
	return s.controller
}

func (s *sessionImpl) Tour() tour.ImageSet {
	return s.tour
}

func (s *sessionImpl) Markers() []marker.Marker {
	out := make([]marker.Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

func (s *sessionImpl) Overlay() overlay.Overlay {
	return s.overlay
}

func (s *sessionImpl) Displayed() int {
	return s.displayed
}

func (s *sessionImpl) Viewport() (width, height int) {
	return s.width, s.height
}

func (s *sessionImpl) Ready() <-chan struct{} {
	return s.loader.Ready()
}

func (s *sessionImpl) Pending() int {
	return s.loader.Pending()
}

func (s *sessionImpl) QuitRequested() bool {
	return s.quit
}

func (s *sessionImpl) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.loader.Close()
	s.logger.Info().Msg("session closed")
}
