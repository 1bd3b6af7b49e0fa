package draw

import (
	"testing"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/renderer"
	"github.com/Carmen-Shannon/ember-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/ember-go/engine/renderer/shader"
	"github.com/Carmen-Shannon/ember-go/engine/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPainter(t *testing.T, options ...PainterOption) Painter {
	t.Helper()
	r := renderer.NewRendererWithBackend(renderer.NewHeadlessBackend())
	p, err := NewPainter(r, options...)
	require.NoError(t, err)
	return p
}

func newPainterSprite(t *testing.T, p Painter, label string) sprite.Sprite {
	t.Helper()
	s, err := sprite.NewSprite(p.Renderer(), solidImage(2, 2), sprite.WithLabel(label))
	require.NoError(t, err)
	return s
}

func TestPainterRegistersBuiltinPipelines(t *testing.T) {
	p := newTestPainter(t)

	for _, id := range []DrawPipelineID{DrawPipelineShapes, DrawPipelineImages, DrawPipelineText, DrawPipelinePattern} {
		ctx, ok := p.Pipeline(id)
		require.True(t, ok, "missing pipeline %q", id)
		assert.NotNil(t, ctx.Pipeline())
	}

	shapes, _ := p.Pipeline(DrawPipelineShapes)
	assert.Equal(t, 6, shapes.Stride())
	assert.Equal(t, 5, shapes.AlphaPos())
	assert.False(t, shapes.Textured())

	pattern, _ := p.Pipeline(DrawPipelinePattern)
	assert.Equal(t, 12, pattern.Stride())
	assert.True(t, pattern.Textured())
}

func TestPainterAllocatesSharedBuffers(t *testing.T) {
	p := newTestPainter(t)

	require.NotNil(t, p.ProjectionBuffer())
	assert.Equal(t, uint64(64), p.ProjectionBuffer().Capacity())
	assert.NotNil(t, p.VertexBuffer())
	assert.NotNil(t, p.IndexBuffer())
}

func TestRegisterPipelineDuplicate(t *testing.T) {
	p := newTestPainter(t)

	pl := pipeline.NewPipeline("draw2d_custom",
		pipeline.WithVertexShader(shader.NewShader("draw2d_custom_vert", shader.ShaderTypeVertex, shapesShaderSource)),
		pipeline.WithFragmentShader(shader.NewShader("draw2d_custom_frag", shader.ShaderTypeFragment, shapesShaderSource)),
	)
	ctx := NewPipelineContext(pl, 6, 5, false)

	require.NoError(t, p.RegisterPipeline(DrawPipelineID("custom"), ctx))
	assert.Error(t, p.RegisterPipeline(DrawPipelineID("custom"), ctx))
}

func TestCustomPositionChannels(t *testing.T) {
	d, backend := newTestDraw(t)

	pl := pipeline.NewPipeline("draw2d_swizzled",
		pipeline.WithVertexShader(shader.NewShader("draw2d_swizzled_vert", shader.ShaderTypeVertex, shapesShaderSource)),
		pipeline.WithFragmentShader(shader.NewShader("draw2d_swizzled_frag", shader.ShaderTypeFragment, shapesShaderSource)),
	)
	ctx := NewPipelineContext(pl, 6, 5, false).WithPositionChannels(2, 3)
	require.NoError(t, d.Painter().RegisterPipeline(DrawPipelineID("swizzled"), ctx))

	d.PushMatrix(common.Mat3FromTranslation(common.NewVec2(100, 50)))
	require.NoError(t, d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineID("swizzled"),
		// Color leads this layout; the position lives at floats 2 and 3.
		Vertices:  []float32{0.25, 0.75, 3, 4, 0.5, 1},
		Indices:   []uint32{0},
		Transform: common.Mat3Identity(),
	}))
	require.NoError(t, d.Render())

	data := backend.BufferBytes(d.Painter().VertexBuffer())
	verts := decodeFloats(data, 6)
	assert.InDelta(t, 0.25, verts[0], 1e-6)
	assert.InDelta(t, 0.75, verts[1], 1e-6)
	assert.InDelta(t, 103, verts[2], 1e-4)
	assert.InDelta(t, 54, verts[3], 1e-4)
}

func TestWithoutDefaultPipelines(t *testing.T) {
	p := newTestPainter(t, WithoutDefaultPipelines())

	_, ok := p.Pipeline(DrawPipelineShapes)
	assert.False(t, ok)
}

func TestProjectionBindGroupCached(t *testing.T) {
	p := newTestPainter(t)

	first, err := p.ProjectionBindGroup(DrawPipelineShapes)
	require.NoError(t, err)
	second, err := p.ProjectionBindGroup(DrawPipelineShapes)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())

	_, err = p.ProjectionBindGroup(DrawPipelineID("missing"))
	assert.Error(t, err)
}

func TestSpriteBindGroupCached(t *testing.T) {
	p := newTestPainter(t)
	s := newPainterSprite(t, p, "cached")

	first, err := p.SpriteBindGroup(DrawPipelineImages, s)
	require.NoError(t, err)
	second, err := p.SpriteBindGroup(DrawPipelineImages, s)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())
}

func TestSpriteBindGroupPerPipeline(t *testing.T) {
	p := newTestPainter(t)
	s := newPainterSprite(t, p, "shared")

	images, err := p.SpriteBindGroup(DrawPipelineImages, s)
	require.NoError(t, err)
	pattern, err := p.SpriteBindGroup(DrawPipelinePattern, s)
	require.NoError(t, err)
	assert.NotEqual(t, images.ID(), pattern.ID())
}

func TestSpriteCacheEvictsAcrossFrames(t *testing.T) {
	p := newTestPainter(t, WithSpriteCacheSize(1))
	s1 := newPainterSprite(t, p, "one")
	s2 := newPainterSprite(t, p, "two")

	first, err := p.SpriteBindGroup(DrawPipelineImages, s1)
	require.NoError(t, err)

	p.AdvanceFrame()

	// The cap is 1, so binding s2 evicts s1's unpinned entry.
	_, err = p.SpriteBindGroup(DrawPipelineImages, s2)
	require.NoError(t, err)

	rebuilt, err := p.SpriteBindGroup(DrawPipelineImages, s1)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), rebuilt.ID())
}

func TestSpriteCachePinsCurrentFrame(t *testing.T) {
	p := newTestPainter(t, WithSpriteCacheSize(1))
	s1 := newPainterSprite(t, p, "one")
	s2 := newPainterSprite(t, p, "two")

	first, err := p.SpriteBindGroup(DrawPipelineImages, s1)
	require.NoError(t, err)

	// Both sprites were used this frame; neither may be evicted before the
	// frame's batches are realized.
	_, err = p.SpriteBindGroup(DrawPipelineImages, s2)
	require.NoError(t, err)

	again, err := p.SpriteBindGroup(DrawPipelineImages, s1)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), again.ID())
}

func TestSpriteBindGroupUnknownPipeline(t *testing.T) {
	p := newTestPainter(t)
	s := newPainterSprite(t, p, "orphan")

	_, err := p.SpriteBindGroup(DrawPipelineID("missing"), s)
	assert.Error(t, err)
}
