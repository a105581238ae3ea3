package tour

// ImageSetOption is a functional option for configuring an ImageSet.
type ImageSetOption func(*imageSetImpl)

// WithStartIndex sets the initial image index. Out-of-range values wrap modulo the image count.
//
// Parameters:
//   - index: the starting index
//
// Returns:
//   - ImageSetOption: functional option to set the start index
func WithStartIndex(index int) ImageSetOption {
	return func(s *imageSetImpl) {
		s.index = index
	}
}
