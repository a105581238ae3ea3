package renderer

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/marker"
	"github.com/Carmen-Shannon/oxy-pano/engine/overlay"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawCall struct {
	key       string
	vertices  uint32
	instances uint32
	groups    []string
}

// fakeBackend records calls instead of touching a GPU.
type fakeBackend struct {
	width, height int
	presentMode   PresentMode
	beginErr      error
	bufferSizes   map[string]map[int]uint64
	writes        []bind_group_provider.BufferWrite
	draws         []drawCall
	presented     int
	released      bool
}

var _ wgpuRendererBackend = &fakeBackend{}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{bufferSizes: map[string]map[int]uint64{}}
}

func (f *fakeBackend) ConfigureSurface(width, height int) { f.width, f.height = width, height }
func (f *fakeBackend) SetPresentMode(mode PresentMode)    { f.presentMode = mode }

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.SetGPUObjects(nil, make([]*wgpu.BindGroupLayout, len(p.LayoutDescriptors())))
	return nil
}

func (f *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, _ *wgpu.BindGroupLayout, _ wgpu.BindGroupLayoutDescriptor, bufferSizes map[int]uint64) error {
	f.bufferSizes[provider.Label()] = bufferSizes
	return nil
}

func (f *fakeBackend) InitTextureView(provider bind_group_provider.BindGroupProvider, _ int, staging common.TextureStagingData) error {
	if staging.Empty() {
		return errors.New("texture has no pixels")
	}
	return nil
}

func (f *fakeBackend) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeBackend) BeginFrame() error { return f.beginErr }

func (f *fakeBackend) DrawCall(p pipeline.Pipeline, vertexCount, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) {
	call := drawCall{key: p.PipelineKey(), vertices: vertexCount, instances: instanceCount}
	for _, bg := range bindGroups {
		call.groups = append(call.groups, bg.Label())
	}
	f.draws = append(f.draws, call)
}

func (f *fakeBackend) EndFrame() {}
func (f *fakeBackend) Present()  { f.presented++ }
func (f *fakeBackend) Release()  { f.released = true }

func newTestRenderer(t *testing.T, options ...RendererBuilderOption) (*renderer, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	r := &renderer{
		mu:            &sync.Mutex{},
		logger:        zerolog.Nop(),
		pipelineCache: make(map[string]pipeline.Pipeline),
		exposure:      DefaultExposure,
		capCos:        1,
		panoramaIndex: -1,
		backend:       backend,
		width:         800,
		height:        600,
	}
	for _, opt := range options {
		opt(r)
	}
	require.NoError(t, r.init())
	return r, backend
}

func solidStaging(w, h uint32) common.TextureStagingData {
	return common.TextureStagingData{Pixels: make([]byte, w*h*4), Width: w, Height: h}
}

func testCamera() camera.Camera {
	cam := camera.NewCamera(camera.WithAspect(800.0 / 600.0))
	cam.Update()
	return cam
}

func TestRenderer_RegistersPipelines(t *testing.T) {
	r, backend := newTestRenderer(t)

	for _, key := range []string{PipelineKeyPanorama, PipelineKeySprite, PipelineKeyOverlay} {
		assert.NotNil(t, r.Pipeline(key), key)
	}
	assert.Nil(t, r.Pipeline("missing"))
	assert.Equal(t, uint64(initialSpriteCapacity*gpuSpriteSize), backend.bufferSizes["sprite_uniforms"][1])
	assert.Equal(t, -1, r.PanoramaIndex())
}

func TestRenderer_EmptyFrameClearsOnly(t *testing.T) {
	r, backend := newTestRenderer(t)

	require.NoError(t, r.Render(Frame{Camera: testCamera()}))

	assert.Empty(t, backend.draws)
	assert.Equal(t, 1, backend.presented)
}

func TestRenderer_DrawOrder(t *testing.T) {
	r, backend := newTestRenderer(t)
	r.SetPanorama(2, solidStaging(8, 4))
	require.NoError(t, r.SetMarkerIcon(solidStaging(2, 2)))
	r.SetOverlay(image.NewRGBA(image.Rect(0, 0, 40, 20)), overlay.Layout{Panel: image.Rect(10, 10, 50, 30)})

	markers := []marker.Marker{
		marker.New(mgl32.Vec3{0, 0, -200}, marker.Advance()),
		marker.New(mgl32.Vec3{0, 0, 300}, marker.Advance()),
	}
	require.NoError(t, r.Render(Frame{Camera: testCamera(), Markers: markers}))

	require.Len(t, backend.draws, 3)
	assert.Equal(t, drawCall{PipelineKeyPanorama, 3, 1, []string{"panorama_uniforms", "panorama_texture"}}, backend.draws[0])
	assert.Equal(t, drawCall{PipelineKeySprite, 6, 1, []string{"sprite_uniforms", "sprite_texture"}}, backend.draws[1])
	assert.Equal(t, drawCall{PipelineKeyOverlay, 6, 1, []string{"overlay_uniforms", "overlay_texture"}}, backend.draws[2])
	assert.Equal(t, 2, r.PanoramaIndex())
}

func TestRenderer_MarkersNeedIcon(t *testing.T) {
	r, backend := newTestRenderer(t)
	r.SetPanorama(0, solidStaging(8, 4))

	markers := []marker.Marker{marker.New(mgl32.Vec3{0, 0, -200}, marker.Advance())}
	require.NoError(t, r.Render(Frame{Camera: testCamera(), Markers: markers}))

	require.Len(t, backend.draws, 1)
	assert.Equal(t, PipelineKeyPanorama, backend.draws[0].key)
}

func TestRenderer_FailedPanoramaKeepsPrevious(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.SetPanorama(1, solidStaging(8, 4))
	r.SetPanorama(2, common.TextureStagingData{})

	assert.Equal(t, 1, r.PanoramaIndex())
}

func TestRenderer_NilOverlayHides(t *testing.T) {
	r, backend := newTestRenderer(t)
	r.SetOverlay(image.NewRGBA(image.Rect(0, 0, 4, 4)), overlay.Layout{Panel: image.Rect(0, 0, 4, 4)})
	r.SetOverlay(nil, overlay.Layout{})

	require.NoError(t, r.Render(Frame{Camera: testCamera()}))
	assert.Empty(t, backend.draws)
}

func TestRenderer_OverlayRectFollowsResize(t *testing.T) {
	r, backend := newTestRenderer(t)
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	img.Set(0, 0, color.White)
	r.SetOverlay(img, overlay.Layout{Panel: image.Rect(0, 0, 400, 300)})
	r.Resize(400, 300)

	require.NoError(t, r.Render(Frame{Camera: testCamera()}))

	assert.Equal(t, 400, backend.width)
	var rect []byte
	for _, w := range backend.writes {
		if w.Provider.Label() == "overlay_uniforms" {
			rect = w.Data
		}
	}
	require.NotNil(t, rect)
	assert.Equal(t, float32(1), readFloat(rect, 8), "panel spans the whole resized viewport")
}

func TestRenderer_PanoramaUniform(t *testing.T) {
	r, backend := newTestRenderer(t, WithExposure(1.2), WithEndCaps(100, 500))

	require.NoError(t, r.Render(Frame{Camera: testCamera()}))

	var data []byte
	for _, w := range backend.writes {
		if w.Provider.Label() == "panorama_uniforms" && w.Binding == 1 {
			data = w.Data
		}
	}
	require.Len(t, data, panoramaUniformSize)
	assert.InDelta(t, 1.2, readFloat(data, 0), 1e-6)
	assert.InDelta(t, EndCapCos(100, 500), readFloat(data, 4), 1e-6)
	assert.Equal(t, byte(1), data[8])
}

func TestRenderer_GrowsSpriteBuffer(t *testing.T) {
	r, backend := newTestRenderer(t)
	require.NoError(t, r.SetMarkerIcon(solidStaging(2, 2)))

	markers := make([]marker.Marker, initialSpriteCapacity+1)
	for i := range markers {
		markers[i] = marker.New(mgl32.Vec3{float32(i), 0, -300}, marker.Advance())
	}
	require.NoError(t, r.Render(Frame{Camera: testCamera(), Markers: markers}))

	assert.Equal(t, 2*initialSpriteCapacity, r.spriteCapacity)
	assert.Equal(t, uint64(2*initialSpriteCapacity*gpuSpriteSize), backend.bufferSizes["sprite_uniforms"][1])
	require.Len(t, backend.draws, 1)
	assert.Equal(t, uint32(initialSpriteCapacity+1), backend.draws[0].instances)
}

func TestRenderer_SkipsUnavailableSurface(t *testing.T) {
	r, backend := newTestRenderer(t)
	backend.beginErr = ErrSurfaceUnavailable

	assert.NoError(t, r.Render(Frame{Camera: testCamera()}))
	assert.Zero(t, backend.presented)

	backend.beginErr = errors.New("device lost")
	assert.ErrorContains(t, r.Render(Frame{Camera: testCamera()}), "device lost")
}

func TestRenderer_RenderNeedsCamera(t *testing.T) {
	r, _ := newTestRenderer(t)
	assert.Error(t, r.Render(Frame{}))
}

func TestRenderer_ReleaseIsIdempotent(t *testing.T) {
	r, backend := newTestRenderer(t)
	r.Release()
	r.Release()

	assert.True(t, backend.released)
	assert.Error(t, r.Render(Frame{Camera: testCamera()}))
	assert.Error(t, r.SetMarkerIcon(solidStaging(1, 1)))
	assert.NotPanics(t, func() { r.SetPanorama(0, solidStaging(1, 1)) })
}

func TestRenderer_SetPresentMode(t *testing.T) {
	r, backend := newTestRenderer(t)
	r.SetPresentMode(PresentModeUncapped)
	assert.Equal(t, PresentModeUncapped, backend.presentMode)
}
