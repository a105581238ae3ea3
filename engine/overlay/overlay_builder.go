package overlay

// OverlayOption is a functional option for configuring an Overlay.
type OverlayOption func(*overlayImpl)

// WithStyle replaces the default panel style.
//
// Parameters:
//   - style: the panel style
//
// Returns:
//   - OverlayOption: functional option to set the style
func WithStyle(style Style) OverlayOption {
	return func(o *overlayImpl) {
		o.style = style
	}
}

// WithScale sets the integer font magnification, keeping the rest of the style.
//
// Parameters:
//   - scale: the font scale (values below 1 are treated as 1)
//
// Returns:
//   - OverlayOption: functional option to set the font scale
func WithScale(scale int) OverlayOption {
	return func(o *overlayImpl) {
		o.style.Scale = scale
	}
}
