package renderer

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline keys registered by NewRenderer, in draw order.
const (
	PipelineKeyPanorama = "panorama"
	PipelineKeySprite   = "sprite"
	PipelineKeyOverlay  = "overlay"
)

//go:embed assets/panorama.wgsl
var panoramaShaderSource string

//go:embed assets/sprite.wgsl
var spriteShaderSource string

//go:embed assets/overlay.wgsl
var overlayShaderSource string

const (
	cameraUniformSize   = 160
	panoramaUniformSize = 16
	overlayUniformSize  = 16
)

func uniformEntry(binding uint32, visibility wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: size,
		},
	}
}

// textureEntries is the group layout shared by every textured pipeline: texture at 0, sampler at 1.
func textureEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		},
	}
}

// Struct registry keys used by the renderer's shaders.
const (
	structPanorama = "panorama"
	structSprite   = "sprite"
	structOverlay  = "overlay"
)

// newShaderPreProcessor registers the renderer's GPU structs alongside the camera.
func newShaderPreProcessor() shader.PreProcessor {
	return shader.NewPreProcessor(
		shader.WithStruct(structPanorama, "PanoramaUniform", GPUPanoramaUniformSource),
		shader.WithStruct(structSprite, "Sprite", GPUSpriteSource),
		shader.WithStruct(structOverlay, "OverlayUniform", GPUOverlayUniformSource),
	)
}

// newPipelines expands the embedded shaders and builds the pipelines in draw order.
//
// Returns:
//   - []pipeline.Pipeline: panorama, sprite and overlay pipelines
//   - error: error if a shader annotation cannot be expanded
func newPipelines() ([]pipeline.Pipeline, error) {
	pp := newShaderPreProcessor()
	build := []struct {
		key    string
		source string
		create func(string) pipeline.Pipeline
	}{
		{PipelineKeyPanorama, panoramaShaderSource, newPanoramaPipeline},
		{PipelineKeySprite, spriteShaderSource, newSpritePipeline},
		{PipelineKeyOverlay, overlayShaderSource, newOverlayPipeline},
	}

	pipelines := make([]pipeline.Pipeline, 0, len(build))
	for _, b := range build {
		source, err := pp.Process(b.source)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %s shader: %w", b.key, err)
		}
		pipelines = append(pipelines, b.create(source))
	}
	return pipelines, nil
}

// newPanoramaPipeline draws the equirectangular image on a full-screen triangle.
func newPanoramaPipeline(source string) pipeline.Pipeline {
	return pipeline.NewPipeline(PipelineKeyPanorama,
		pipeline.WithShaderSource(source),
		pipeline.WithBindGroupLayout("panorama_uniforms",
			uniformEntry(0, wgpu.ShaderStageFragment, cameraUniformSize),
			uniformEntry(1, wgpu.ShaderStageFragment, panoramaUniformSize),
		),
		pipeline.WithBindGroupLayout("panorama_texture", textureEntries()...),
	)
}

// newSpritePipeline draws one camera-facing quad per marker instance.
func newSpritePipeline(source string) pipeline.Pipeline {
	return pipeline.NewPipeline(PipelineKeySprite,
		pipeline.WithShaderSource(source),
		pipeline.WithBindGroupLayout("sprite_uniforms",
			uniformEntry(0, wgpu.ShaderStageVertex, cameraUniformSize),
			wgpu.BindGroupLayoutEntry{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: gpuSpriteSize,
				},
			},
		),
		pipeline.WithBindGroupLayout("sprite_texture", textureEntries()...),
		pipeline.WithBlendState(pipeline.PremultipliedBlend),
	)
}

// newOverlayPipeline draws the info panel as a screen-space quad.
func newOverlayPipeline(source string) pipeline.Pipeline {
	return pipeline.NewPipeline(PipelineKeyOverlay,
		pipeline.WithShaderSource(source),
		pipeline.WithBindGroupLayout("overlay_uniforms",
			uniformEntry(0, wgpu.ShaderStageVertex, overlayUniformSize),
		),
		pipeline.WithBindGroupLayout("overlay_texture", textureEntries()...),
		pipeline.WithBlendState(pipeline.PremultipliedBlend),
	)
}
