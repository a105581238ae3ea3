// Package tour holds the ordered list of panorama images a viewer session steps through.
package tour

import (
	"errors"
	"sync"
)

// ErrEmptyImageSet is returned when an ImageSet is created without any images.
var ErrEmptyImageSet = errors.New("image set must contain at least one image")

type imageSetImpl struct {
	mu *sync.Mutex

	images []string
	index  int
}

// ImageSet is an ordered, fixed sequence of image references with a current index.
// The sequence is fixed at construction; the index only moves through Advance and wraps
// modulo the number of images.
type ImageSet interface {
	// Len returns the number of images in the set.
	//
	// Returns:
	//   - int: the image count
	Len() int

	// Index returns the current image index.
	//
	// Returns:
	//   - int: the index in [0, Len())
	Index() int

	// Current returns the path of the current image.
	//
	// Returns:
	//   - string: the current image path
	Current() string

	// At returns the path of the image at index i, wrapping i modulo Len().
	//
	// Parameters:
	//   - i: the image index
	//
	// Returns:
	//   - string: the image path
	At(i int) string

	// Images returns a copy of all image paths in order.
	//
	// Returns:
	//   - []string: the image paths
	Images() []string

	// Advance moves to the next image, wrapping to 0 after the last one.
	//
	// Returns:
	//   - int: the new current index
	//   - string: the new current image path
	Advance() (int, string)
}

var _ ImageSet = &imageSetImpl{}

// NewImageSet creates an ImageSet positioned at the first image.
//
// Parameters:
//   - images: the ordered image paths (copied)
//   - options: functional options to configure the set
//
// Returns:
//   - ImageSet: the newly created set
//   - error: ErrEmptyImageSet if images is empty
func NewImageSet(images []string, options ...ImageSetOption) (ImageSet, error) {
	if len(images) == 0 {
		return nil, ErrEmptyImageSet
	}
	s := &imageSetImpl{
		mu:     &sync.Mutex{},
		images: append([]string(nil), images...),
	}
	for _, option := range options {
		option(s)
	}
	s.index = wrap(s.index, len(s.images))
	return s, nil
}

func (s *imageSetImpl) Len() int {
	return len(s.images)
}

func (s *imageSetImpl) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *imageSetImpl) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images[s.index]
}

func (s *imageSetImpl) At(i int) string {
	return s.images[wrap(i, len(s.images))]
}

func (s *imageSetImpl) Images() []string {
	return append([]string(nil), s.images...)
}

func (s *imageSetImpl) Advance() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = (s.index + 1) % len(s.images)
	return s.index, s.images[s.index]
}

// wrap maps any integer onto [0, n).
func wrap(i, n int) int {
	return ((i % n) + n) % n
}
