package renderer

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/marker"
	"github.com/Carmen-Shannon/oxy-pano/engine/overlay"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pano/engine/viewer"
	"github.com/Carmen-Shannon/oxy-pano/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rs/zerolog"
)

const initialSpriteCapacity = 16

// Frame is the per-frame input to Render.
type Frame struct {
	// Camera provides the view-projection, its inverse and the billboard axes.
	Camera camera.Camera
	// Markers are drawn with the marker icon. Markers outside the frustum are skipped.
	Markers []marker.Marker
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu     *sync.Mutex
	logger zerolog.Logger

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	exposure             float32
	capsEnabled          bool
	capCos               float32

	width, height int

	panoramaUniforms bind_group_provider.BindGroupProvider
	panoramaTexture  bind_group_provider.BindGroupProvider
	panoramaIndex    int

	spriteUniforms bind_group_provider.BindGroupProvider
	spriteTexture  bind_group_provider.BindGroupProvider
	spriteCapacity int

	overlayUniforms bind_group_provider.BindGroupProvider
	overlayTexture  bind_group_provider.BindGroupProvider
	overlayLayout   overlay.Layout

	released bool
}

// Renderer draws the panorama, the marker billboards and the info overlay into the window
// surface. It is the TextureSink of a viewer.Session: the session pushes decoded panoramas and
// overlay rasters, and the engine calls Render once per frame.
//
// All methods must be called from the thread that created the window.
type Renderer interface {
	viewer.TextureSink

	// SetMarkerIcon uploads the billboard icon. Markers are not drawn until an icon is set.
	//
	// Parameters:
	//   - icon: the decoded icon pixels
	//
	// Returns:
	//   - error: error if the texture could not be created
	SetMarkerIcon(icon common.TextureStagingData) error

	// PanoramaIndex returns the tour index of the displayed panorama, or -1 before the first one.
	//
	// Returns:
	//   - int: the displayed index
	PanoramaIndex() int

	// Pipeline retrieves the registered Pipeline associated with the given key, or nil.
	//
	// Parameters:
	//   - key: one of the PipelineKey constants
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline or nil
	Pipeline(key string) pipeline.Pipeline

	// Resize reconfigures the surface for a new framebuffer size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes vsync behaviour and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the present mode
	SetPresentMode(mode PresentMode)

	// Render draws one frame and presents it. Frames are skipped silently while the surface is
	// unavailable (minimized window).
	//
	// Parameters:
	//   - frame: the camera and markers to draw
	//
	// Returns:
	//   - error: error if encoding or submission failed
	Render(frame Frame) error

	// Release frees every GPU resource. The renderer is unusable afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the GPU device for the window surface and registers the panorama, sprite
// and overlay pipelines.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - win: the window providing the surface
//   - options: renderer options
//
// Returns:
//   - Renderer: the renderer
//   - error: error if the device or any pipeline could not be created
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		logger:        zerolog.Nop(),
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
		exposure:      DefaultExposure,
		capCos:        1,
		panoramaIndex: -1,
	}

	for _, opt := range options {
		opt(r)
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
	}
	if err != nil {
		return nil, err
	}

	r.backend.SetPresentMode(r.presentMode)
	r.width, r.height = win.Width(), win.Height()
	r.backend.ConfigureSurface(r.width, r.height)

	if err := r.init(); err != nil {
		r.Release()
		return nil, err
	}
	r.logger.Debug().Int("width", r.width).Int("height", r.height).Msg("renderer ready")
	return r, nil
}

func (r *renderer) init() error {
	pipelines, err := newPipelines()
	if err != nil {
		return err
	}
	for _, p := range pipelines {
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return err
		}
		r.pipelineCache[p.PipelineKey()] = p
	}

	if r.panoramaUniforms, err = r.newUniforms(PipelineKeyPanorama, nil); err != nil {
		return err
	}
	if r.spriteUniforms, err = r.newUniforms(PipelineKeySprite, map[int]uint64{1: initialSpriteCapacity * gpuSpriteSize}); err != nil {
		return err
	}
	r.spriteCapacity = initialSpriteCapacity
	if r.overlayUniforms, err = r.newUniforms(PipelineKeyOverlay, nil); err != nil {
		return err
	}
	return nil
}

// newUniforms creates the group 0 provider of a pipeline with freshly allocated buffers.
func (r *renderer) newUniforms(key string, bufferSizes map[int]uint64) (bind_group_provider.BindGroupProvider, error) {
	p := r.pipelineCache[key]
	provider := bind_group_provider.NewBindGroupProvider(key + "_uniforms")
	if err := r.backend.InitBindGroup(provider, p.BindGroupLayout(0), p.LayoutDescriptors()[0], bufferSizes); err != nil {
		provider.Release()
		return nil, fmt.Errorf("failed to create %s uniforms: %w", key, err)
	}
	return provider, nil
}

// newTexture uploads pixels as the group 1 provider of a pipeline.
func (r *renderer) newTexture(key string, staging common.TextureStagingData, sampler common.SamplerStagingData) (bind_group_provider.BindGroupProvider, error) {
	p := r.pipelineCache[key]
	provider := bind_group_provider.NewBindGroupProvider(key + "_texture")
	if err := r.backend.InitTextureView(provider, 0, staging); err != nil {
		provider.Release()
		return nil, err
	}
	if err := r.backend.InitSampler(provider, 1, sampler); err != nil {
		provider.Release()
		return nil, err
	}
	if err := r.backend.InitBindGroup(provider, p.BindGroupLayout(1), p.LayoutDescriptors()[1], nil); err != nil {
		provider.Release()
		return nil, err
	}
	return provider, nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) PanoramaIndex() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.panoramaIndex
}

func (r *renderer) SetPanorama(index int, texture common.TextureStagingData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}

	provider, err := r.newTexture(PipelineKeyPanorama, texture, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeClampToEdge,
	})
	if err != nil {
		// The previous panorama stays on screen.
		r.logger.Error().Err(err).Int("index", index).Msg("failed to upload panorama")
		return
	}
	if r.panoramaTexture != nil {
		r.panoramaTexture.Release()
	}
	r.panoramaTexture = provider
	r.panoramaIndex = index
	r.logger.Debug().Int("index", index).Uint32("width", texture.Width).Uint32("height", texture.Height).Msg("panorama uploaded")
}

func (r *renderer) SetOverlay(img *image.RGBA, layout overlay.Layout) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}

	if r.overlayTexture != nil {
		r.overlayTexture.Release()
		r.overlayTexture = nil
	}
	if img == nil || img.Bounds().Empty() {
		return
	}

	provider, err := r.newTexture(PipelineKeyOverlay, common.ToStaging(img, 0), common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		Nearest:      true,
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to upload overlay")
		return
	}
	r.overlayTexture = provider
	r.overlayLayout = layout
}

func (r *renderer) SetMarkerIcon(icon common.TextureStagingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return fmt.Errorf("renderer is released")
	}

	provider, err := r.newTexture(PipelineKeySprite, icon, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
	})
	if err != nil {
		return fmt.Errorf("failed to upload marker icon: %w", err)
	}
	if r.spriteTexture != nil {
		r.spriteTexture.Release()
	}
	r.spriteTexture = provider
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presentMode = mode
	r.backend.SetPresentMode(mode)
}

// ensureSpriteCapacity grows the sprite storage buffer to hold at least n sprites.
func (r *renderer) ensureSpriteCapacity(n int) error {
	if n <= r.spriteCapacity {
		return nil
	}
	capacity := r.spriteCapacity
	for capacity < n {
		capacity *= 2
	}
	provider, err := r.newUniforms(PipelineKeySprite, map[int]uint64{1: uint64(capacity) * gpuSpriteSize})
	if err != nil {
		return err
	}
	r.spriteUniforms.Release()
	r.spriteUniforms = provider
	r.spriteCapacity = capacity
	return nil
}

func (r *renderer) Render(frame Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return fmt.Errorf("renderer is released")
	}
	if frame.Camera == nil {
		return fmt.Errorf("frame has no camera")
	}

	uniform := frame.Camera.Uniform()
	cameraBytes := uniform.Marshal()
	panorama := GPUPanoramaUniform{Exposure: r.exposure, CapCos: r.capCos}
	if r.capsEnabled {
		panorama.CapsEnabled = 1
	}

	writes := []bind_group_provider.BufferWrite{
		{Provider: r.panoramaUniforms, Binding: 0, Data: cameraBytes},
		{Provider: r.panoramaUniforms, Binding: 1, Data: panorama.Marshal()},
	}

	var sprites []GPUSprite
	if r.spriteTexture != nil {
		sprites = VisibleSprites(frame.Markers, frame.Camera.Frustum())
		if err := r.ensureSpriteCapacity(len(sprites)); err != nil {
			return err
		}
		if len(sprites) > 0 {
			writes = append(writes,
				bind_group_provider.BufferWrite{Provider: r.spriteUniforms, Binding: 0, Data: cameraBytes},
				bind_group_provider.BufferWrite{Provider: r.spriteUniforms, Binding: 1, Data: MarshalSprites(sprites)},
			)
		}
	}
	if r.overlayTexture != nil {
		rect := OverlayRect(r.overlayLayout.Panel, r.width, r.height)
		writes = append(writes, bind_group_provider.BufferWrite{Provider: r.overlayUniforms, Binding: 0, Data: rect.Marshal()})
	}
	r.backend.WriteBuffers(writes)

	if err := r.backend.BeginFrame(); err != nil {
		if errors.Is(err, ErrSurfaceUnavailable) {
			r.logger.Trace().Err(err).Msg("frame skipped")
			return nil
		}
		return err
	}

	if r.panoramaTexture != nil {
		r.backend.DrawCall(r.pipelineCache[PipelineKeyPanorama], 3, 1,
			[]bind_group_provider.BindGroupProvider{r.panoramaUniforms, r.panoramaTexture})
	}
	if len(sprites) > 0 {
		r.backend.DrawCall(r.pipelineCache[PipelineKeySprite], 6, uint32(len(sprites)),
			[]bind_group_provider.BindGroupProvider{r.spriteUniforms, r.spriteTexture})
	}
	if r.overlayTexture != nil {
		r.backend.DrawCall(r.pipelineCache[PipelineKeyOverlay], 6, 1,
			[]bind_group_provider.BindGroupProvider{r.overlayUniforms, r.overlayTexture})
	}

	r.backend.EndFrame()
	r.backend.Present()
	return nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true

	for _, p := range []bind_group_provider.BindGroupProvider{
		r.panoramaTexture, r.panoramaUniforms,
		r.spriteTexture, r.spriteUniforms,
		r.overlayTexture, r.overlayUniforms,
	} {
		if p != nil {
			p.Release()
		}
	}
	for _, p := range r.pipelineCache {
		p.Release()
	}
	r.pipelineCache = map[string]pipeline.Pipeline{}
	if r.backend != nil {
		r.backend.Release()
	}
}
