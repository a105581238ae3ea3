// Package overlay implements the dismissible information panel shown when an info marker is
// clicked: a centred translucent panel with wrapped text and a Close button.
package overlay

import (
	"image"
	"strings"
	"sync"
)

type overlayImpl struct {
	mu *sync.Mutex

	text    string
	visible bool
	// revision increments on every visible change so consumers can tell when to re-rasterize.
	revision uint64

	style Style
}

// Overlay is the state of the info panel. It only closes through Dismiss, which the viewer calls
// for a click on the Close button or the Escape key.
type Overlay interface {
	// Show makes the panel visible with the given text, replacing any text already shown.
	//
	// Parameters:
	//   - text: the plain text to display
	Show(text string)

	// Dismiss hides the panel. Dismissing a hidden panel does nothing.
	//
	// Returns:
	//   - bool: true if the panel was visible
	Dismiss() bool

	// Visible reports whether the panel is shown.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// Text returns the current panel text.
	//
	// Returns:
	//   - string: the text, empty if never shown
	Text() string

	// Revision returns a counter that changes whenever the panel is shown, hidden or its text
	// changes.
	//
	// Returns:
	//   - uint64: the revision
	Revision() uint64

	// Style returns the panel style.
	//
	// Returns:
	//   - Style: the style
	Style() Style

	// Layout computes where the panel, its text and the Close button sit on a viewport.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	//
	// Returns:
	//   - Layout: the computed rectangles in viewport pixels
	Layout(width, height int) Layout

	// HitClose reports whether a screen point lies on the Close button of the visible panel.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	//   - width, height: viewport size in pixels
	//
	// Returns:
	//   - bool: true if the panel is visible and the point is on the button
	HitClose(x, y float64, width, height int) bool

	// Rasterize draws the panel into an RGBA image the size of Layout(width, height).Panel.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	//
	// Returns:
	//   - *image.RGBA: the panel pixels, nil if the panel is hidden
	//   - Layout: the layout the image was drawn with
	Rasterize(width, height int) (*image.RGBA, Layout)
}

var _ Overlay = &overlayImpl{}

// NewOverlay creates a hidden overlay with the default style.
//
// Parameters:
//   - options: functional options to configure the overlay
//
// Returns:
//   - Overlay: the newly created overlay
func NewOverlay(options ...OverlayOption) Overlay {
	o := &overlayImpl{
		mu:    &sync.Mutex{},
		style: DefaultStyle(),
	}
	for _, option := range options {
		option(o)
	}
	if o.style.Scale < 1 {
		o.style.Scale = 1
	}
	return o
}

func (o *overlayImpl) Show(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.text = strings.TrimSpace(text)
	o.visible = true
	o.revision++
}

func (o *overlayImpl) Dismiss() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.visible {
		return false
	}
	o.visible = false
	o.revision++
	return true
}

func (o *overlayImpl) Visible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visible
}

func (o *overlayImpl) Text() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.text
}

func (o *overlayImpl) Revision() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.revision
}

func (o *overlayImpl) Style() Style {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.style
}

func (o *overlayImpl) Layout(width, height int) Layout {
	o.mu.Lock()
	defer o.mu.Unlock()
	return computeLayout(o.text, o.style, width, height)
}

func (o *overlayImpl) HitClose(x, y float64, width, height int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.visible {
		return false
	}
	l := computeLayout(o.text, o.style, width, height)
	p := image.Pt(int(x), int(y))
	return x >= 0 && y >= 0 && p.In(l.Close)
}

func (o *overlayImpl) Rasterize(width, height int) (*image.RGBA, Layout) {
	o.mu.Lock()
	defer o.mu.Unlock()
	l := computeLayout(o.text, o.style, width, height)
	if !o.visible {
		return nil, l
	}
	return rasterize(l, o.style), l
}
