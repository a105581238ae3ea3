package viewer

import (
	"errors"
	"image"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/overlay"
	"github.com/Carmen-Shannon/oxy-pano/internal/config"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	panoramas []int
	overlays  []*image.RGBA
}

func (r *recordingSink) SetPanorama(index int, _ common.TextureStagingData) {
	r.panoramas = append(r.panoramas, index)
}

func (r *recordingSink) SetOverlay(img *image.RGBA, _ overlay.Layout) {
	r.overlays = append(r.overlays, img)
}

// fakeDecoder returns a 1x1 texture for every path except those listed in fail.
type fakeDecoder struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (d *fakeDecoder) decode(path string, _ int) (common.TextureStagingData, error) {
	d.mu.Lock()
	d.calls = append(d.calls, path)
	fail := d.fail[path]
	d.mu.Unlock()
	if fail {
		return common.TextureStagingData{}, errors.New("corrupt image")
	}
	return common.TextureStagingData{Pixels: []byte{1, 2, 3, 255}, Width: 1, Height: 1}, nil
}

func newTestSession(t *testing.T, cfg *config.Config, dec *fakeDecoder) (Session, *recordingSink) {
	t.Helper()
	if dec == nil {
		dec = &fakeDecoder{}
	}
	sink := &recordingSink{}
	s, err := New(cfg,
		WithSink(sink),
		WithLoaderOptions(loader.WithDecoder(dec.decode), loader.WithCacheSize(0)),
	)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, sink
}

// settle waits for every requested load to finish, then applies them with one Tick.
func settle(t *testing.T, s Session) {
	t.Helper()
	require.Eventually(t, func() bool { return s.Pending() == 0 }, 5*time.Second, 5*time.Millisecond)
	s.Tick()
}

// aim orients the session so p appears above the screen centre and returns its pixel position.
func aim(s Session, p mgl32.Vec3) (float64, float64) {
	yaw := math.Atan2(-float64(p.X()), -float64(p.Z()))
	pitch := math.Atan2(float64(p.Y()), math.Hypot(float64(p.X()), float64(p.Z())))
	s.Controller().SetOrientation(yaw, pitch-0.2)
	s.Camera().Update()

	w, h := s.Viewport()
	vp := s.Camera().ViewProjectionMatrix()
	x, y, _, cw := common.TransformPoint(vp[:], p.X(), p.Y(), p.Z(), 1)
	return (float64(x/cw) + 1) / 2 * float64(w), (1 - float64(y/cw)) / 2 * float64(h)
}

func click(s Session, x, y float64) Outcome {
	s.PointerDown(x, y)
	return s.PointerUp(x, y)
}

func TestNewRequestsInitialTexture(t *testing.T) {
	dec := &fakeDecoder{}
	s, sink := newTestSession(t, config.DefaultConfig(), dec)

	assert.NotEmpty(t, s.ID())
	assert.Equal(t, -1, s.Displayed())

	settle(t, s)
	assert.Equal(t, 0, s.Displayed())
	assert.Equal(t, []int{0}, sink.panoramas)
	assert.Equal(t, []string{config.DefaultImages[0]}, dec.calls)
}

func TestNewStartIndex(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tour.StartIndex = 2
	s, _ := newTestSession(t, cfg, nil)

	settle(t, s)
	assert.Equal(t, 2, s.Tour().Index())
	assert.Equal(t, 2, s.Displayed())
}

func TestNewErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tour.Images = nil
	_, err := New(cfg)
	assert.ErrorContains(t, err, "failed to create tour")

	cfg = config.DefaultConfig()
	cfg.Tour.Markers[0].Action = "jump"
	_, err = New(cfg)
	assert.ErrorContains(t, err, "failed to create marker 0")
}

func TestMarkersFromConfig(t *testing.T) {
	cfg, err := config.Preset("info")
	require.NoError(t, err)
	cfg.Tour.Markers[1].Scale = [2]float32{}
	s, _ := newTestSession(t, cfg, nil)

	markers := s.Markers()
	require.Len(t, markers, 2)
	assert.Equal(t, mgl32.Vec3{100, 50, -200}, markers[0].Position)
	assert.Equal(t, "Art Piece 1: Description goes here.", markers[0].Payload.Text)
	assert.Equal(t, mgl32.Vec2{50, 50}, markers[1].Scale)

	markers[0].Position = mgl32.Vec3{}
	assert.Equal(t, mgl32.Vec3{100, 50, -200}, s.Markers()[0].Position)
}

func TestDragScenario(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultConfig(), nil)

	s.PointerDown(100, 100)
	s.PointerMove(150, 130)
	out := s.PointerUp(150, 130)

	yaw, pitch := s.Controller().Orientation()
	assert.InDelta(t, -0.25, yaw, 1e-9)
	assert.InDelta(t, -0.15, pitch, 1e-9)
	assert.Equal(t, ActionNone, out.Action)
	assert.False(t, out.Click)
	assert.Equal(t, -1, out.MarkerIndex)
	assert.Equal(t, 0, s.Tour().Index())
	assert.False(t, s.Overlay().Visible())
}

func TestClickAdvanceMarker(t *testing.T) {
	s, sink := newTestSession(t, config.DefaultConfig(), nil)
	settle(t, s)

	x, y := aim(s, s.Markers()[0].Position)
	out := click(s, x, y)

	assert.Equal(t, ActionAdvance, out.Action)
	assert.True(t, out.Click)
	assert.Equal(t, 0, out.MarkerIndex)
	assert.Equal(t, 1, out.ImageIndex)

	settle(t, s)
	assert.Equal(t, 1, s.Displayed())
	assert.Equal(t, []int{0, 1}, sink.panoramas)
}

func TestClickAdvanceWrapsAround(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultConfig(), nil)
	x, y := aim(s, s.Markers()[0].Position)

	n := s.Tour().Len()
	seen := map[int]bool{}
	for range n {
		out := click(s, x, y)
		require.Equal(t, ActionAdvance, out.Action)
		seen[out.ImageIndex] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, 0, s.Tour().Index())
}

func TestClickMissIsNoop(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultConfig(), nil)

	// Facing -Z; the only marker is behind the camera.
	out := click(s, 640, 360)
	assert.Equal(t, ActionNone, out.Action)
	assert.True(t, out.Click)
	assert.Equal(t, -1, out.MarkerIndex)
	assert.Equal(t, 0, s.Tour().Index())
}

func TestSmallDragOverMarkerIsNotAClick(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultConfig(), nil)
	x, y := aim(s, s.Markers()[0].Position)

	s.PointerDown(x, y)
	out := s.PointerUp(x+3, y+4)

	assert.Equal(t, ActionNone, out.Action)
	assert.False(t, out.Click)
	assert.Equal(t, 0, s.Tour().Index())
}

func TestPixelScaleDragUsesScreenCoordinates(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultConfig(), nil)
	s.SetPixelScale(2)
	s.SetPixelScale(0)

	s.PointerDown(100, 100)
	s.PointerMove(150, 130)
	out := s.PointerUp(150, 130)

	yaw, pitch := s.Controller().Orientation()
	assert.InDelta(t, -0.125, yaw, 1e-9)
	assert.InDelta(t, -0.075, pitch, 1e-9)
	assert.False(t, out.Click)
}

// A 5 pixel release is a drag at scale 1 and a 2.5 point click at scale 2.
func TestPixelScaleDragThreshold(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultConfig(), nil)
	x, y := aim(s, s.Markers()[0].Position)

	s.PointerDown(x, y)
	assert.False(t, s.PointerUp(x+4, y+3).Click)

	s.SetPixelScale(2)
	x, y = aim(s, s.Markers()[0].Position)
	s.PointerDown(x, y)
	out := s.PointerUp(x+4, y+3)
	assert.True(t, out.Click)
	assert.Equal(t, ActionAdvance, out.Action)
	assert.Equal(t, 0, out.MarkerIndex)
}

func TestInfoMarkerOverlay(t *testing.T) {
	cfg, err := config.Preset("info")
	require.NoError(t, err)
	s, sink := newTestSession(t, cfg, nil)
	settle(t, s)
	require.Empty(t, sink.overlays)

	markers := s.Markers()
	x, y := aim(s, markers[0].Position)
	out := click(s, x, y)
	assert.Equal(t, ActionInfo, out.Action)
	assert.Equal(t, 0, out.MarkerIndex)
	assert.Equal(t, "Art Piece 1: Description goes here.", out.Text)
	assert.True(t, s.Overlay().Visible())
	assert.Equal(t, 0, s.Tour().Index())

	s.Tick()
	require.Len(t, sink.overlays, 1)
	require.NotNil(t, sink.overlays[0])

	// The overlay does not block markers; a second info click replaces the text.
	x, y = aim(s, markers[1].Position)
	out = click(s, x, y)
	assert.Equal(t, ActionInfo, out.Action)
	assert.Equal(t, 1, out.MarkerIndex)
	assert.Equal(t, markers[1].Payload.Text, s.Overlay().Text())

	s.Tick()
	require.Len(t, sink.overlays, 2)

	// A click on Close dismisses and is not ray-cast.
	w, h := s.Viewport()
	closeRect := s.Overlay().Layout(w, h).Close
	cx := float64(closeRect.Min.X+closeRect.Max.X) / 2
	cy := float64(closeRect.Min.Y+closeRect.Max.Y) / 2
	out = click(s, cx, cy)
	assert.Equal(t, ActionDismiss, out.Action)
	assert.False(t, s.Overlay().Visible())

	s.Tick()
	require.Len(t, sink.overlays, 3)
	assert.Nil(t, sink.overlays[2])

	// Nothing changed, nothing republished.
	s.Tick()
	assert.Len(t, sink.overlays, 3)
}

func TestKeyDown(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultConfig(), nil)

	assert.Equal(t, ActionNone, s.KeyDown(common.KeyEsc).Action)

	assert.Equal(t, 1, s.KeyDown(common.KeyN).ImageIndex)
	assert.Equal(t, 2, s.KeyDown(common.KeyRight).ImageIndex)
	assert.Equal(t, 3, s.KeyDown(common.KeySpace).ImageIndex)
	out := s.KeyDown(common.KeyN)
	assert.Equal(t, ActionAdvance, out.Action)
	assert.Equal(t, 0, out.ImageIndex)

	s.Overlay().Show("hello")
	assert.Equal(t, ActionDismiss, s.KeyDown(common.KeyEnter).Action)
	assert.False(t, s.Overlay().Visible())

	s.Overlay().Show("hello")
	assert.Equal(t, ActionDismiss, s.KeyDown(common.KeyEsc).Action)

	assert.False(t, s.QuitRequested())
	assert.Equal(t, ActionQuit, s.KeyDown(common.KeyQ).Action)
	assert.True(t, s.QuitRequested())

	assert.Equal(t, ActionNone, s.KeyDown(65).Action)
}

func TestFailedLoadKeepsDisplayedTexture(t *testing.T) {
	cfg := config.DefaultConfig()
	dec := &fakeDecoder{fail: map[string]bool{cfg.Tour.Images[1]: true}}
	s, sink := newTestSession(t, cfg, dec)
	settle(t, s)
	require.Equal(t, 0, s.Displayed())

	s.Advance()
	settle(t, s)

	assert.Equal(t, 1, s.Tour().Index())
	assert.Equal(t, 0, s.Displayed())
	assert.Equal(t, []int{0}, sink.panoramas)
}

func TestLastCompletedLoadWins(t *testing.T) {
	s, sink := newTestSession(t, config.DefaultConfig(), nil)

	s.Advance()
	s.Advance()
	settle(t, s)

	require.Len(t, sink.panoramas, 3)
	assert.Equal(t, sink.panoramas[len(sink.panoramas)-1], s.Displayed())
}

func TestResize(t *testing.T) {
	s, sink := newTestSession(t, config.DefaultConfig(), nil)

	s.Resize(800, 400)
	w, h := s.Viewport()
	assert.Equal(t, 800, w)
	assert.Equal(t, 400, h)
	assert.InDelta(t, 2.0, s.Camera().Aspect(), 1e-6)

	s.Resize(0, 0)
	w, h = s.Viewport()
	assert.Equal(t, 800, w)
	assert.Equal(t, 400, h)

	// A resize republishes the overlay even when hidden.
	s.Tick()
	require.Len(t, sink.overlays, 1)
	assert.Nil(t, sink.overlays[0])
}

func TestWithViewport(t *testing.T) {
	s, err := New(config.DefaultConfig(), WithViewport(1000, 500), WithLoaderOptions(loader.WithDecoder((&fakeDecoder{}).decode)))
	require.NoError(t, err)
	defer s.Close()

	w, h := s.Viewport()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 500, h)
	assert.InDelta(t, 2.0, s.Camera().Aspect(), 1e-6)
}

func TestCloseIsIdempotent(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultConfig(), nil)
	s.Close()
	s.Close()
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "advance", ActionAdvance.String())
	assert.Equal(t, "quit", ActionQuit.String())
	assert.Equal(t, "Action(42)", Action(42).String())
}
