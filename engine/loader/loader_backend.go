package loader

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
)

// loaderBackend defines the interface for decoding an image file into texture staging data.
// Concrete implementations (e.g., imageLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Decode reads and decodes the file at path. Images larger than maxSize on either side are
	// downscaled to fit.
	//
	// Parameters:
	//   - path: the file path to load
	//   - maxSize: maximum texture side length in pixels (<= 0 disables scaling)
	//
	// Returns:
	//   - common.TextureStagingData: the RGBA pixels
	//   - error: error if loading fails
	Decode(path string, maxSize int) (common.TextureStagingData, error)
}

// imageLoaderBackend decodes JPEG, PNG and WebP files.
type imageLoaderBackend struct{}

var _ loaderBackend = imageLoaderBackend{}

func newImageLoaderBackend() loaderBackend {
	return imageLoaderBackend{}
}

func (imageLoaderBackend) Decode(path string, maxSize int) (common.TextureStagingData, error) {
	img, err := common.DecodeImageFile(path)
	if err != nil {
		return common.TextureStagingData{}, err
	}
	return common.ToStaging(img, maxSize), nil
}

// decoderFunc adapts a plain function to the loaderBackend interface.
type decoderFunc func(path string, maxSize int) (common.TextureStagingData, error)

func (f decoderFunc) Decode(path string, maxSize int) (common.TextureStagingData, error) {
	return f(path, maxSize)
}
