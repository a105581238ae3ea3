package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Default shader entry points used when none are configured.
const (
	DefaultVertexEntryPoint   = "vs_main"
	DefaultFragmentEntryPoint = "fs_main"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the WGSL module source, the bind group layout descriptors it expects and the
// WebGPU objects created from them once the Renderer registers it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for lookups and GPU labels
	pipelineKey string

	// source is the WGSL module containing both entry points
	source             string
	vertexEntryPoint   string
	fragmentEntryPoint string

	// layouts describes each bind group slot, index = @group
	layouts []wgpu.BindGroupLayoutDescriptor

	// The following fields are GPU objects set by the Renderer when the pipeline is registered.

	renderPipeline   *wgpu.RenderPipeline
	bindGroupLayouts []*wgpu.BindGroupLayout

	// The following properties are used to configure the pipeline during creation and can be toggled/set with the builder options.

	blendEnabled bool
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState
}

// Pipeline describes a render pipeline: one WGSL module with vertex and fragment entry points,
// the bind group layouts it consumes and the fixed-function state (blend, cull, topology).
// Vertices are generated in the shader from the vertex and instance index, so no vertex buffer
// layouts are needed.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Source returns the WGSL module source.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// VertexEntryPoint returns the vertex shader entry point name.
	//
	// Returns:
	//   - string: the entry point
	VertexEntryPoint() string

	// FragmentEntryPoint returns the fragment shader entry point name.
	//
	// Returns:
	//   - string: the entry point
	FragmentEntryPoint() string

	// LayoutDescriptors returns the bind group layout descriptors, indexed by @group.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutDescriptor: the layout descriptors
	LayoutDescriptors() []wgpu.BindGroupLayoutDescriptor

	// BindGroupLayout returns the created layout for a group, or nil before registration.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout or nil
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// RenderPipeline returns the created render pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state for this pipeline
	BlendState() *wgpu.BlendState

	// SetGPUObjects stores the render pipeline and the layouts it was created with.
	//
	// Parameters:
	//   - rp: the WebGPU render pipeline
	//   - layouts: the bind group layouts, indexed by @group
	SetGPUObjects(rp *wgpu.RenderPipeline, layouts []*wgpu.BindGroupLayout)

	// Validate checks that the pipeline can be created.
	//
	// Returns:
	//   - error: error describing the first missing piece
	Validate() error

	// Release releases the render pipeline and its bind group layouts.
	Release()
}

var _ Pipeline = &pipeline{}

// AlphaBlend is straight alpha blending, used for icons decoded from PNG.
var AlphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// PremultipliedBlend blends colours that already carry their alpha, as image.RGBA does.
var PremultipliedBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// NewPipeline is the entry point to create a new render Pipeline.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	blend := AlphaBlend
	p := &pipeline{
		pipelineKey:        pipelineKey,
		vertexEntryPoint:   DefaultVertexEntryPoint,
		fragmentEntryPoint: DefaultFragmentEntryPoint,
		blendEnabled:       false,
		cullMode:           wgpu.CullModeNone,
		topology:           wgpu.PrimitiveTopologyTriangleList,
		frontFace:          wgpu.FrontFaceCCW,
		writeMask:          wgpu.ColorWriteMaskAll,
		blendState:         &blend,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Source() string {
	return p.source
}

func (p *pipeline) VertexEntryPoint() string {
	return p.vertexEntryPoint
}

func (p *pipeline) FragmentEntryPoint() string {
	return p.fragmentEntryPoint
}

func (p *pipeline) LayoutDescriptors() []wgpu.BindGroupLayoutDescriptor {
	return p.layouts
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	if group < 0 || group >= len(p.bindGroupLayouts) {
		return nil
	}
	return p.bindGroupLayouts[group]
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetGPUObjects(rp *wgpu.RenderPipeline, layouts []*wgpu.BindGroupLayout) {
	p.renderPipeline = rp
	p.bindGroupLayouts = layouts
}

func (p *pipeline) Validate() error {
	if p.pipelineKey == "" {
		return fmt.Errorf("pipeline key is empty")
	}
	if p.source == "" {
		return fmt.Errorf("pipeline %s has no shader source", p.pipelineKey)
	}
	if p.vertexEntryPoint == "" || p.fragmentEntryPoint == "" {
		return fmt.Errorf("pipeline %s is missing an entry point", p.pipelineKey)
	}
	for i, l := range p.layouts {
		if len(l.Entries) == 0 {
			return fmt.Errorf("pipeline %s: bind group %d has no entries", p.pipelineKey, i)
		}
	}
	return nil
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	for _, l := range p.bindGroupLayouts {
		if l != nil {
			l.Release()
		}
	}
	p.bindGroupLayouts = nil
}
