package camera

// LookControllerOption is a functional option for configuring a LookController.
type LookControllerOption func(*lookControllerImpl)

// WithOrientation sets the initial yaw and pitch.
//
// Parameters:
//   - yaw: rotation around the world Y axis in radians (0 = looking down -Z)
//   - pitch: rotation around the camera X axis in radians, clamped to the pitch bounds
//
// Returns:
//   - LookControllerOption: functional option to set the initial orientation
func WithOrientation(yaw, pitch float64) LookControllerOption {
	return func(lc *lookControllerImpl) {
		lc.yaw = yaw
		lc.pitch = pitch
	}
}

// WithDragThreshold sets the displacement in pixels at which a release stops counting as a click.
//
// Parameters:
//   - threshold: the click/drag threshold in pixels
//
// Returns:
//   - LookControllerOption: functional option to set the drag threshold
func WithDragThreshold(threshold float64) LookControllerOption {
	return func(lc *lookControllerImpl) {
		lc.dragThreshold = threshold
	}
}

// WithSensitivity sets the radians turned per pixel of pointer movement.
//
// Parameters:
//   - sensitivity: multiplier for pointer movement
//
// Returns:
//   - LookControllerOption: functional option to set the sensitivity
func WithSensitivity(sensitivity float64) LookControllerOption {
	return func(lc *lookControllerImpl) {
		lc.sensitivity = sensitivity
	}
}

// WithPitchBounds sets the minimum and maximum pitch.
//
// Parameters:
//   - min: minimum pitch in radians (looking down)
//   - max: maximum pitch in radians (looking up)
//
// Returns:
//   - LookControllerOption: functional option to set pitch bounds
func WithPitchBounds(min, max float64) LookControllerOption {
	return func(lc *lookControllerImpl) {
		lc.minPitch = min
		lc.maxPitch = max
	}
}
