// package common contains common types that are used throughout this viewer. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types and helpers.
package common

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// Decoded panoramas, the marker icon and the rasterized overlay are all staged in this form before the renderer creates the GPU texture.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// Empty reports whether the staging data carries no pixels.
func (t TextureStagingData) Empty() bool {
	return len(t.Pixels) == 0 || t.Width == 0 || t.Height == 0
}

// Point is a 2D screen coordinate in pixels, origin top-left, y growing downwards.
type Point struct {
	X, Y float64
}
