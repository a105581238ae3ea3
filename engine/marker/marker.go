// Package marker describes the interactive billboards placed inside the panorama and resolves
// which of them a picking ray hits.
package marker

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultScale is the world-space width and height of a marker billboard when none is configured.
var DefaultScale = mgl32.Vec2{50, 50}

// Action identifies what a marker does when it is clicked.
type Action int

const (
	// ActionAdvance moves the tour to the next image.
	ActionAdvance Action = iota
	// ActionInfo shows the marker's text in the info overlay.
	ActionInfo
)

// String returns the configuration name of the action.
func (a Action) String() string {
	switch a {
	case ActionAdvance:
		return "advance"
	case ActionInfo:
		return "info"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction converts a configuration name into an Action.
//
// Parameters:
//   - s: "advance" or "info"
//
// Returns:
//   - Action: the parsed action
//   - error: error if the name is unknown
func ParseAction(s string) (Action, error) {
	switch s {
	case "advance":
		return ActionAdvance, nil
	case "info":
		return ActionInfo, nil
	default:
		return 0, fmt.Errorf("unknown marker action %q", s)
	}
}

// Payload is what a marker carries: either an advance request or a text to show.
type Payload struct {
	Action Action
	// Text is shown by ActionInfo markers and ignored otherwise.
	Text string
}

// Advance returns an advance payload.
func Advance() Payload {
	return Payload{Action: ActionAdvance}
}

// Info returns an info payload with the given text.
func Info(text string) Payload {
	return Payload{Action: ActionInfo, Text: text}
}

// Marker is a camera-aligned billboard at a fixed world position. Markers are immutable once
// created and established once at startup.
type Marker struct {
	// Position is the world-space centre of the billboard.
	Position mgl32.Vec3
	// Scale is the billboard width and height in world units.
	Scale mgl32.Vec2
	// Payload is the action performed when the marker is clicked.
	Payload Payload
}

// New creates a marker with DefaultScale.
//
// Parameters:
//   - position: the world-space centre of the billboard
//   - payload: the action performed on click
//
// Returns:
//   - Marker: the marker
func New(position mgl32.Vec3, payload Payload) Marker {
	return Marker{Position: position, Scale: DefaultScale, Payload: payload}
}

// BoundingRadius returns the radius of a sphere around Position that contains the billboard in
// any orientation. Used for frustum culling.
func (m Marker) BoundingRadius() float32 {
	return m.Scale.Len() / 2
}
