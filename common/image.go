package common

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DecodeImageFile opens and decodes an image file. JPEG, PNG and WebP are supported.
//
// Parameters:
//   - path: the file path of the image
//
// Returns:
//   - image.Image: the decoded image
//   - error: error if the file cannot be opened or decoded
func DecodeImageFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	img, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes an image from a reader. JPEG, PNG and WebP are supported.
//
// Parameters:
//   - r: the reader providing encoded image bytes
//
// Returns:
//   - image.Image: the decoded image
//   - error: error if decoding fails
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// FitSize returns the largest size with the same aspect ratio as (w, h) whose sides do not exceed
// maxSize. Sizes already within the limit, and a maxSize <= 0, are returned unchanged.
//
// Parameters:
//   - w, h: the source size in pixels
//   - maxSize: the maximum side length in pixels
//
// Returns:
//   - int, int: the fitted width and height (each at least 1)
func FitSize(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, h*maxSize/w)
	}
	return max(1, w*maxSize/h), maxSize
}

// ToStaging converts an image into tightly packed RGBA staging data. Images larger than maxSize on
// either side are downscaled with Catmull-Rom resampling so they fit GPU texture limits.
//
// Parameters:
//   - img: the source image
//   - maxSize: maximum texture side length in pixels (<= 0 disables scaling)
//
// Returns:
//   - TextureStagingData: RGBA pixels with width and height
func ToStaging(img image.Image, maxSize int) TextureStagingData {
	bounds := img.Bounds()
	w, h := FitSize(bounds.Dx(), bounds.Dy(), maxSize)

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, bounds, draw.Src, nil)
	}

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(w),
		Height: uint32(h),
	}
}
