package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPipelines(t *testing.T) map[string]pipeline.Pipeline {
	t.Helper()
	pipelines, err := newPipelines()
	require.NoError(t, err)
	require.Len(t, pipelines, 3)
	out := make(map[string]pipeline.Pipeline, len(pipelines))
	for _, p := range pipelines {
		out[p.PipelineKey()] = p
	}
	return out
}

func TestPipelines_DrawOrder(t *testing.T) {
	pipelines, err := newPipelines()
	require.NoError(t, err)
	keys := make([]string, 0, len(pipelines))
	for _, p := range pipelines {
		keys = append(keys, p.PipelineKey())
	}
	assert.Equal(t, []string{PipelineKeyPanorama, PipelineKeySprite, PipelineKeyOverlay}, keys)
}

func TestPipelines_Valid(t *testing.T) {
	for key, p := range testPipelines(t) {
		t.Run(key, func(t *testing.T) {
			require.NoError(t, p.Validate())
			require.Len(t, p.LayoutDescriptors(), 2)
			assert.Len(t, p.LayoutDescriptors()[1].Entries, 2, "texture and sampler")
			assert.Contains(t, p.Source(), "fn vs_main")
			assert.Contains(t, p.Source(), "fn fs_main")
			assert.NotContains(t, p.Source(), "@oxy:")
		})
	}
}

func TestPipelines_StructsIncluded(t *testing.T) {
	p := testPipelines(t)
	assert.Contains(t, p[PipelineKeyPanorama].Source(), "struct CameraUniform")
	assert.Contains(t, p[PipelineKeyPanorama].Source(), "struct PanoramaUniform")
	assert.Contains(t, p[PipelineKeySprite].Source(), "struct CameraUniform")
	assert.Contains(t, p[PipelineKeySprite].Source(), "var<storage, read> sprites: array<Sprite>;")
	assert.NotContains(t, p[PipelineKeyOverlay].Source(), "struct CameraUniform")
	assert.Contains(t, p[PipelineKeyOverlay].Source(), "var<uniform> overlay: OverlayUniform;")
}

// Every generated group 0 declaration must have a matching layout entry.
func TestPipelines_DeclarationsMatchLayouts(t *testing.T) {
	pp := newShaderPreProcessor()
	sources := map[string]string{
		PipelineKeyPanorama: panoramaShaderSource,
		PipelineKeySprite:   spriteShaderSource,
		PipelineKeyOverlay:  overlayShaderSource,
	}
	pipelines := testPipelines(t)
	for key, src := range sources {
		_, err := pp.Process(src)
		require.NoError(t, err)
		layout := pipelines[key].LayoutDescriptors()[0]
		require.Len(t, layout.Entries, len(pp.Declarations()), key)
		for i, decl := range pp.Declarations() {
			assert.Equal(t, 0, decl.Group, key)
			assert.Equal(t, uint32(decl.Binding), layout.Entries[i].Binding, key)
		}
	}
}

func TestPipelines_Blending(t *testing.T) {
	p := testPipelines(t)
	assert.False(t, p[PipelineKeyPanorama].BlendEnabled())
	assert.True(t, p[PipelineKeySprite].BlendEnabled())
	assert.Equal(t, pipeline.PremultipliedBlend, *p[PipelineKeyOverlay].BlendState())
}
