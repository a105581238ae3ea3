package viewer

import (
	"image"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/overlay"
)

// TextureSink receives display state changes from a Session. The renderer implements it.
// All calls happen on the event loop thread.
type TextureSink interface {
	// SetPanorama replaces the displayed panorama texture.
	//
	// Parameters:
	//   - index: the tour index the texture belongs to
	//   - texture: the decoded RGBA pixels
	SetPanorama(index int, texture common.TextureStagingData)

	// SetOverlay replaces the overlay texture. A nil image hides the overlay.
	//
	// Parameters:
	//   - img: the rasterized panel, or nil
	//   - layout: where the panel sits on the viewport
	SetOverlay(img *image.RGBA, layout overlay.Layout)
}

type nopSink struct{}

func (nopSink) SetPanorama(int, common.TextureStagingData) {}
func (nopSink) SetOverlay(*image.RGBA, overlay.Layout)     {}
