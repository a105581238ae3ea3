package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultDragThreshold is the pointer displacement in pixels at which a release stops counting as a click.
	DefaultDragThreshold = 5.0
	// DefaultSensitivity is the number of radians the view turns per pixel of pointer movement.
	DefaultSensitivity = 0.005
)

// LookController turns pointer drags into a yaw/pitch orientation for a camera fixed at the origin
// and tells clicks apart from drags.
//
// The controller owns the Orientation and the PointerDragState. It is written only by the pointer
// handlers and read by the Camera once per frame through Update().
type LookController interface {
	// OnPointerDown starts a drag at the given screen position.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	OnPointerDown(x, y float64)

	// OnPointerUp ends the drag and classifies the release. The release is a click when the
	// distance between the press position and (x, y) is strictly less than the drag threshold.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	//
	// Returns:
	//   - bool: true if the release is a click
	OnPointerUp(x, y float64) bool

	// OnPointerMove rotates the view by the pointer delta since the last event. It does nothing
	// unless a drag is active. Pitch is clamped to the configured bounds.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	OnPointerMove(x, y float64)

	// Orientation returns the current yaw and pitch in radians.
	//
	// Returns:
	//   - yaw: rotation around the world Y axis
	//   - pitch: rotation around the camera X axis, within the pitch bounds
	Orientation() (yaw, pitch float64)

	// SetOrientation sets yaw and pitch directly. Pitch is clamped like a drag would clamp it.
	//
	// Parameters:
	//   - yaw: rotation around the world Y axis in radians
	//   - pitch: rotation around the camera X axis in radians
	SetOrientation(yaw, pitch float64)

	// Dragging reports whether the pointer is currently pressed.
	//
	// Returns:
	//   - bool: true between OnPointerDown and OnPointerUp
	Dragging() bool

	// DragThreshold returns the click/drag displacement threshold in pixels.
	//
	// Returns:
	//   - float64: the threshold
	DragThreshold() float64

	// Sensitivity returns the radians turned per pixel of movement.
	//
	// Returns:
	//   - float64: the sensitivity
	Sensitivity() float64

	// PitchBounds returns the minimum and maximum allowed pitch in radians.
	//
	// Returns:
	//   - min, max: the pitch bounds
	PitchBounds() (min, max float64)

	// Forward returns the world-space unit look direction for the current orientation.
	// With yaw = pitch = 0 this is (0, 0, -1).
	//
	// Returns:
	//   - mgl32.Vec3: the forward vector
	Forward() mgl32.Vec3

	// Right returns the world-space unit right vector for the current orientation.
	//
	// Returns:
	//   - mgl32.Vec3: the right vector
	Right() mgl32.Vec3

	// Up returns the world-space unit up vector for the current orientation.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3
}

type lookControllerImpl struct {
	mu *sync.Mutex

	yaw   float64
	pitch float64

	active bool
	last   common.Point
	down   common.Point

	dragThreshold float64
	sensitivity   float64
	minPitch      float64
	maxPitch      float64
}

var _ LookController = &lookControllerImpl{}

// NewLookController creates a LookController looking down -Z with a 5 pixel drag threshold and
// a sensitivity of 0.005 radians per pixel. Pitch is bounded to [-π/2, π/2].
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - LookController: the newly created controller
func NewLookController(options ...LookControllerOption) LookController {
	lc := &lookControllerImpl{
		mu:            &sync.Mutex{},
		dragThreshold: DefaultDragThreshold,
		sensitivity:   DefaultSensitivity,
		minPitch:      -math.Pi / 2,
		maxPitch:      math.Pi / 2,
	}
	for _, option := range options {
		option(lc)
	}
	lc.pitch = common.Clamp(lc.pitch, lc.minPitch, lc.maxPitch)
	return lc
}

func (lc *lookControllerImpl) OnPointerDown(x, y float64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.active = true
	lc.last = common.Point{X: x, Y: y}
	lc.down = common.Point{X: x, Y: y}
}

func (lc *lookControllerImpl) OnPointerUp(x, y float64) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	distance := math.Hypot(x-lc.down.X, y-lc.down.Y)
	lc.active = false
	return distance < lc.dragThreshold
}

func (lc *lookControllerImpl) OnPointerMove(x, y float64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if !lc.active {
		return
	}
	dx := x - lc.last.X
	dy := y - lc.last.Y
	lc.yaw -= dx * lc.sensitivity
	lc.pitch = common.Clamp(lc.pitch-dy*lc.sensitivity, lc.minPitch, lc.maxPitch)
	lc.last = common.Point{X: x, Y: y}
}

func (lc *lookControllerImpl) Orientation() (yaw, pitch float64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.yaw, lc.pitch
}

func (lc *lookControllerImpl) SetOrientation(yaw, pitch float64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.yaw = yaw
	lc.pitch = common.Clamp(pitch, lc.minPitch, lc.maxPitch)
}

func (lc *lookControllerImpl) Dragging() bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.active
}

func (lc *lookControllerImpl) DragThreshold() float64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.dragThreshold
}

func (lc *lookControllerImpl) Sensitivity() float64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.sensitivity
}

func (lc *lookControllerImpl) PitchBounds() (min, max float64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.minPitch, lc.maxPitch
}

func (lc *lookControllerImpl) Forward() mgl32.Vec3 {
	_, _, _, _, _, _, bx, by, bz := lc.axes()
	return mgl32.Vec3{-bx, -by, -bz}
}

func (lc *lookControllerImpl) Right() mgl32.Vec3 {
	rx, ry, rz, _, _, _, _, _, _ := lc.axes()
	return mgl32.Vec3{rx, ry, rz}
}

func (lc *lookControllerImpl) Up() mgl32.Vec3 {
	_, _, _, ux, uy, uz, _, _, _ := lc.axes()
	return mgl32.Vec3{ux, uy, uz}
}

// axes returns the right, up and backward vectors of the current orientation.
func (lc *lookControllerImpl) axes() (rx, ry, rz, ux, uy, uz, bx, by, bz float32) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return common.YawPitchAxes(lc.yaw, lc.pitch)
}
