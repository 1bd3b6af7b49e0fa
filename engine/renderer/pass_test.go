package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/renderer/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassListOrder(t *testing.T) {
	l := NewPassList()
	a := l.BeginPass()
	b := l.BeginPass()

	require.Equal(t, 2, l.Len())
	assert.Same(t, a, l.Passes()[0])
	assert.Same(t, b, l.Passes()[1])
}

func TestRenderRealizesPassesInOrder(t *testing.T) {
	r, backend := newTestRenderer()

	first := pipeline.NewPipeline("first")
	second := pipeline.NewPipeline("second")
	require.NoError(t, r.RegisterPipelines(first, second))

	vbo, err := r.CreateBuffer("vbo", BufferUsageVertex, 0, true)
	require.NoError(t, err)
	ebo, err := r.CreateBuffer("ebo", BufferUsageIndex, 0, true)
	require.NoError(t, err)

	passes := NewPassList()
	passes.BeginPass().
		SetClearColor(common.ColorBlack).
		SetPipeline(first).
		SetVertexBuffer(vbo, 0, 96).
		SetIndexBuffer(ebo, 0, 24).
		SetDrawRange(0, 6)
	passes.BeginPass().
		SetPipeline(second).
		SetVertexBuffer(vbo, 96, 192).
		SetIndexBuffer(ebo, 24, 48).
		SetDrawRange(0, 6)

	require.NoError(t, r.Render(passes, nil))

	frame := backend.LastFrame()
	require.Len(t, frame, 2)
	assert.Equal(t, "first", frame[0].PipelineKey)
	assert.NotNil(t, frame[0].ClearColor)
	assert.Equal(t, "second", frame[1].PipelineKey)
	assert.Nil(t, frame[1].ClearColor)
	assert.Equal(t, uint64(96), frame[1].VertexStart)
	assert.Equal(t, uint64(24), frame[1].IndexStart)
}

func TestRenderClearOnlyPass(t *testing.T) {
	r, backend := newTestRenderer()

	passes := NewPassList()
	passes.BeginPass().SetClearColor(common.ColorBlue)

	require.NoError(t, r.Render(passes, nil))

	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	assert.Empty(t, frame[0].PipelineKey)
	require.NotNil(t, frame[0].ClearColor)
	assert.Equal(t, common.ColorBlue, *frame[0].ClearColor)
}

func TestRenderToTexture(t *testing.T) {
	r, backend := newTestRenderer()

	target, err := r.CreateRenderTexture("offscreen", 256, 256)
	require.NoError(t, err)

	passes := NewPassList()
	passes.BeginPass().SetClearColor(common.ColorTransparent)

	require.NoError(t, r.Render(passes, target))
	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	assert.Equal(t, "offscreen", frame[0].Target)
}

func TestRegisterPipelinesSkipsDuplicates(t *testing.T) {
	r, _ := newTestRenderer()

	p := pipeline.NewPipeline("shapes_2d")
	require.NoError(t, r.RegisterPipelines(p, p))
	assert.Len(t, r.Pipelines(), 1)
	assert.NotNil(t, r.Pipeline("shapes_2d"))
	assert.Nil(t, r.Pipeline("missing"))
}

func TestCreateBindGroupRequiresRegisteredPipeline(t *testing.T) {
	r, _ := newTestRenderer()

	p := pipeline.NewPipeline("unregistered")
	_, err := r.CreateBindGroup("bg", p, 0)
	assert.Error(t, err)
}
