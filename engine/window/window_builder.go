package window

// WindowBuilderOption configures the viewer window before the platform window is created.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the initial title. The viewer replaces it with the current image position once
// a tour is loaded.
//
// Parameters:
//   - title: the title bar text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial client area size. Non-positive values keep the default.
//
// Parameters:
//   - width: initial width in screen coordinates
//   - height: initial height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = positiveOr(width, w.width)
		w.height = positiveOr(height, w.height)
	}
}

// WithMinSize bounds how small the user can resize the window.
//
// Parameters:
//   - width: minimum width, non-positive keeps the default
//   - height: minimum height, non-positive keeps the default
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = positiveOr(width, w.minWidth)
		w.minHeight = positiveOr(height, w.minHeight)
	}
}

// WithMaxSize bounds how large the user can resize the window.
//
// Parameters:
//   - width: maximum width, non-positive keeps the default
//   - height: maximum height, non-positive keeps the default
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = positiveOr(width, w.maxWidth)
		w.maxHeight = positiveOr(height, w.maxHeight)
	}
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
