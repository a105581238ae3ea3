package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyN     = 78  // N key (ASCII), next panorama
	KeyQ     = 81  // Q key (ASCII), quit
	KeySpace = 32  // Spacebar (ASCII), next panorama
	KeyEsc   = 256 // Escape key (GLFW), dismiss overlay
	KeyEnter = 257 // Enter key (GLFW), dismiss overlay
	KeyRight = 262 // Right arrow (GLFW), next panorama
)
