package draw

import (
	"encoding/binary"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/camera"
	"github.com/Carmen-Shannon/ember-go/engine/renderer"
	"github.com/Carmen-Shannon/ember-go/engine/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDraw(t *testing.T) (Draw2D, *renderer.HeadlessBackend) {
	t.Helper()
	backend := renderer.NewHeadlessBackend()
	r := renderer.NewRendererWithBackend(backend)
	p, err := NewPainter(r)
	require.NoError(t, err)
	cam := camera.NewCamera2D(common.NewVec2(1280, 720), camera.WithScreenSize(common.NewVec2(1280, 720)))
	return NewDraw2D(p, cam), backend
}

func solidImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	return img
}

func newTestSprite(t *testing.T, d Draw2D, label string) sprite.Sprite {
	t.Helper()
	s, err := sprite.NewSprite(d.Painter().Renderer(), solidImage(4, 4), sprite.WithLabel(label))
	require.NoError(t, err)
	return s
}

// quadInfo builds a unit quad DrawInfo on the shapes pipeline.
func quadInfo(x, y float32, c common.Color) DrawInfo {
	var verts []float32
	verts = appendShapeVertex(verts, common.NewVec2(x, y), c)
	verts = appendShapeVertex(verts, common.NewVec2(x+1, y), c)
	verts = appendShapeVertex(verts, common.NewVec2(x+1, y+1), c)
	verts = appendShapeVertex(verts, common.NewVec2(x, y+1), c)
	return DrawInfo{
		PipelineID: DrawPipelineShapes,
		Vertices:   verts,
		Indices:    quadIndices(),
		Transform:  common.Mat3Identity(),
	}
}

func decodeFloats(data []byte, count int) []float32 {
	out := make([]float32, count)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

func decodeIndices(data []byte, count int) []uint32 {
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out
}

func TestCompatibleDrawsMergeIntoOneBatch(t *testing.T) {
	d, backend := newTestDraw(t)

	require.NoError(t, d.AddToBatch(quadInfo(0, 0, common.ColorRed)))
	require.NoError(t, d.AddToBatch(quadInfo(10, 10, common.ColorBlue)))
	require.NoError(t, d.Render())

	frame := backend.LastFrame()
	require.Len(t, frame, 1)

	pass := frame[0]
	assert.Equal(t, uint32(0), pass.DrawStart)
	assert.Equal(t, uint32(12), pass.DrawEnd)
	assert.Equal(t, uint64(0), pass.VertexStart)
	assert.Equal(t, uint64(8*6*4), pass.VertexEnd)
	assert.Equal(t, uint64(0), pass.IndexStart)
	assert.Equal(t, uint64(12*4), pass.IndexEnd)
}

func TestPipelineChangeSealsBatch(t *testing.T) {
	d, backend := newTestDraw(t)
	s := newTestSprite(t, d, "seal")

	require.NoError(t, d.AddToBatch(quadInfo(0, 0, common.ColorRed)))
	require.NoError(t, d.AddToBatch(quadInfo(1, 1, common.ColorRed)))
	require.NoError(t, d.Image(s, common.NewVec2(0, 0)).Done())
	require.NoError(t, d.AddToBatch(quadInfo(2, 2, common.ColorRed)))
	require.NoError(t, d.Render())

	frame := backend.LastFrame()
	require.Len(t, frame, 3)
	assert.Equal(t, "draw2d_shapes", frame[0].PipelineKey)
	assert.Equal(t, "draw2d_images", frame[1].PipelineKey)
	assert.Equal(t, "draw2d_shapes", frame[2].PipelineKey)

	// The second shapes batch picks up where the first left off.
	assert.Equal(t, uint32(12), frame[0].DrawEnd)
	assert.Equal(t, frame[1].IndexEnd, frame[2].IndexStart)
}

func TestSpriteSwitchSealsBatch(t *testing.T) {
	d, backend := newTestDraw(t)
	s1 := newTestSprite(t, d, "first")
	s2 := newTestSprite(t, d, "second")

	require.NoError(t, d.Image(s1, common.NewVec2(0, 0)).Done())
	require.NoError(t, d.Image(s2, common.NewVec2(8, 0)).Done())
	require.NoError(t, d.Image(s1, common.NewVec2(16, 0)).Done())
	require.NoError(t, d.Render())

	frame := backend.LastFrame()
	require.Len(t, frame, 3)
	for _, pass := range frame {
		assert.Equal(t, "draw2d_images", pass.PipelineKey)
		assert.Len(t, pass.BindGroupIDs, 2)
	}
	assert.NotEqual(t, frame[0].BindGroupIDs[1], frame[1].BindGroupIDs[1])
	assert.Equal(t, frame[0].BindGroupIDs[1], frame[2].BindGroupIDs[1])
}

func TestSameSpriteMergesBatches(t *testing.T) {
	d, backend := newTestDraw(t)
	s := newTestSprite(t, d, "merge")

	require.NoError(t, d.Image(s, common.NewVec2(0, 0)).Done())
	require.NoError(t, d.Image(s, common.NewVec2(8, 0)).Done())
	require.NoError(t, d.Render())

	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	assert.Equal(t, uint32(12), frame[0].DrawEnd)
}

func TestIndexOffsetsAccumulateWithinBatch(t *testing.T) {
	d, backend := newTestDraw(t)

	require.NoError(t, d.AddToBatch(quadInfo(0, 0, common.ColorRed)))
	require.NoError(t, d.AddToBatch(quadInfo(5, 5, common.ColorRed)))
	require.NoError(t, d.AddToBatch(quadInfo(9, 9, common.ColorRed)))
	require.NoError(t, d.Render())

	// Each quad's indices shift by the four vertices appended before it.
	data := backend.BufferBytes(d.Painter().IndexBuffer())
	indices := decodeIndices(data, 18)
	for i, base := range []uint32{0, 4, 8} {
		assert.Equal(t, []uint32{base, base + 1, base + 2, base, base + 2, base + 3}, indices[i*6:i*6+6])
	}
}

func TestIndexOffsetsResetPerBatch(t *testing.T) {
	d, backend := newTestDraw(t)
	s := newTestSprite(t, d, "offset")

	require.NoError(t, d.AddToBatch(quadInfo(0, 0, common.ColorRed)))
	require.NoError(t, d.AddToBatch(quadInfo(5, 5, common.ColorRed)))
	require.NoError(t, d.Image(s, common.NewVec2(0, 0)).Done())
	require.NoError(t, d.Render())

	// The sealed shapes batch accumulates offsets; the fresh image batch
	// starts counting vertices from zero again.
	data := backend.BufferBytes(d.Painter().IndexBuffer())
	indices := decodeIndices(data, 18)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, indices[:6])
	assert.Equal(t, []uint32{4, 5, 6, 4, 6, 7}, indices[6:12])
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, indices[12:18])
}

func TestClearOnlyFrame(t *testing.T) {
	d, backend := newTestDraw(t)

	d.SetClearColor(common.ColorBlack)
	require.NoError(t, d.Render())

	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	require.NotNil(t, frame[0].ClearColor)
	assert.Equal(t, common.ColorBlack, *frame[0].ClearColor)
	assert.Empty(t, frame[0].PipelineKey)
}

func TestClearAppliesToFirstPassOnly(t *testing.T) {
	d, backend := newTestDraw(t)
	s := newTestSprite(t, d, "clear")

	d.SetClearColor(common.ColorBlue)
	require.NoError(t, d.AddToBatch(quadInfo(0, 0, common.ColorRed)))
	require.NoError(t, d.Image(s, common.NewVec2(0, 0)).Done())
	require.NoError(t, d.Render())

	frame := backend.LastFrame()
	require.Len(t, frame, 2)
	require.NotNil(t, frame[0].ClearColor)
	assert.Equal(t, common.ColorBlue, *frame[0].ClearColor)
	assert.Nil(t, frame[1].ClearColor)
}

func TestClearConsumedByRender(t *testing.T) {
	d, backend := newTestDraw(t)

	d.SetClearColor(common.ColorBlack)
	require.NoError(t, d.Render())

	// The clear applies to the frame it was requested for; the next frame
	// starts without one.
	require.NoError(t, d.AddToBatch(quadInfo(0, 0, common.ColorRed)))
	require.NoError(t, d.Render())

	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	assert.Nil(t, frame[0].ClearColor)
}

func TestClearDroppedByReset(t *testing.T) {
	d, backend := newTestDraw(t)

	d.SetClearColor(common.ColorBlue)
	d.Reset()
	require.NoError(t, d.AddToBatch(quadInfo(0, 0, common.ColorRed)))
	require.NoError(t, d.Render())

	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	assert.Nil(t, frame[0].ClearColor)
}

func TestUnknownPipeline(t *testing.T) {
	d, _ := newTestDraw(t)

	err := d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineID("missing"),
		Vertices:   []float32{0, 0, 1, 1, 1, 1},
		Indices:    []uint32{0},
		Transform:  common.Mat3Identity(),
	})
	assert.ErrorContains(t, err, "unknown drawing pipeline")
}

func TestVertexStrideValidation(t *testing.T) {
	d, _ := newTestDraw(t)

	err := d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineShapes,
		Vertices:   []float32{0, 0, 1, 1},
		Indices:    []uint32{0},
		Transform:  common.Mat3Identity(),
	})
	assert.Error(t, err)
}

func TestTexturedPipelineRequiresSprite(t *testing.T) {
	d, _ := newTestDraw(t)

	err := d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineImages,
		Vertices:   make([]float32, 8),
		Indices:    []uint32{0},
		Transform:  common.Mat3Identity(),
	})
	assert.ErrorContains(t, err, "requires a sprite")
}

func TestEmptyGeometryIsNoOp(t *testing.T) {
	d, backend := newTestDraw(t)

	require.NoError(t, d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineShapes,
		Transform:  common.Mat3Identity(),
	}))
	require.NoError(t, d.Render())

	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	assert.Empty(t, frame[0].PipelineKey)
}

func TestAlphaStackComposes(t *testing.T) {
	d, _ := newTestDraw(t)

	assert.Equal(t, float32(1), d.Alpha())
	d.PushAlpha(0.5)
	d.PushAlpha(0.5)
	assert.InDelta(t, 0.25, d.Alpha(), 1e-6)
	require.NoError(t, d.PopAlpha())
	assert.InDelta(t, 0.5, d.Alpha(), 1e-6)
	require.NoError(t, d.PopAlpha())
	assert.Equal(t, float32(1), d.Alpha())
	assert.Error(t, d.PopAlpha())
}

func TestAlphaMultipliesVertexAlpha(t *testing.T) {
	d, backend := newTestDraw(t)

	d.PushAlpha(0.5)
	c := common.NewColor(1, 1, 1, 0.8)
	require.NoError(t, d.AddToBatch(quadInfo(0, 0, c)))
	require.NoError(t, d.Render())

	data := backend.BufferBytes(d.Painter().VertexBuffer())
	verts := decodeFloats(data, 4*6)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0.4, verts[i*6+5], 1e-6)
	}
}

func TestMatrixStackTransformsPositions(t *testing.T) {
	d, backend := newTestDraw(t)

	d.PushMatrix(common.Mat3FromTranslation(common.NewVec2(100, 50)))
	require.NoError(t, d.AddToBatch(quadInfo(0, 0, common.ColorWhite)))
	require.NoError(t, d.PopMatrix())
	require.NoError(t, d.Render())

	data := backend.BufferBytes(d.Painter().VertexBuffer())
	verts := decodeFloats(data, 4*6)
	assert.InDelta(t, 100, verts[0], 1e-4)
	assert.InDelta(t, 50, verts[1], 1e-4)
	assert.InDelta(t, 101, verts[6], 1e-4)
}

func TestPopMatrixAtBase(t *testing.T) {
	d, _ := newTestDraw(t)
	assert.Error(t, d.PopMatrix())
}

func TestViewTransformRoundTripAcrossStackDepths(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	for depth := 0; depth <= 5; depth++ {
		cam := camera.NewCamera2D(common.NewVec2(800, 600),
			camera.WithPosition(common.NewVec2(rng.Float32()*200-100, rng.Float32()*200-100)),
			camera.WithRotation(rng.Float32()*6.28),
			camera.WithScale(common.NewVec2(0.5+rng.Float32(), 0.5+rng.Float32())),
		)
		stack := NewMatrixStack()
		for i := 0; i < depth; i++ {
			switch i % 3 {
			case 0:
				stack.Push(common.Mat3FromTranslation(common.NewVec2(rng.Float32()*100-50, rng.Float32()*100-50)))
			case 1:
				stack.Push(common.Mat3FromRotation(rng.Float32() * 6.28))
			case 2:
				stack.Push(common.Mat3FromScale(common.NewVec2(0.5+rng.Float32(), 0.5+rng.Float32())))
			}
		}

		// The exact view transform applied to vertex positions, undone by
		// its inverse.
		full := cam.Transform().Mul(stack.Matrix())
		inv := full.Inverse()
		for j := 0; j < 8; j++ {
			p := common.NewVec2(rng.Float32()*200-100, rng.Float32()*200-100)
			back := inv.TransformPoint(full.TransformPoint(p))
			assert.InDelta(t, float64(p.X), float64(back.X), 1e-3)
			assert.InDelta(t, float64(p.Y), float64(back.Y), 1e-3)
		}
	}
}

func TestSetMatrixReplacesCurrentTransform(t *testing.T) {
	d, backend := newTestDraw(t)

	d.PushMatrix(common.Mat3FromTranslation(common.NewVec2(10, 0)))
	d.SetMatrix(common.Mat3FromTranslation(common.NewVec2(100, 50)))
	assert.Equal(t, common.Mat3FromTranslation(common.NewVec2(100, 50)), d.Matrix())

	require.NoError(t, d.AddToBatch(quadInfo(0, 0, common.ColorWhite)))
	require.NoError(t, d.PopMatrix())
	require.NoError(t, d.Render())

	data := backend.BufferBytes(d.Painter().VertexBuffer())
	verts := decodeFloats(data, 4*6)
	assert.InDelta(t, 100, verts[0], 1e-4)
	assert.InDelta(t, 50, verts[1], 1e-4)
}

func TestClearMatrixStackRestoresIdentity(t *testing.T) {
	d, _ := newTestDraw(t)

	d.PushMatrix(common.Mat3FromTranslation(common.NewVec2(5, 5)))
	d.PushMatrix(common.Mat3FromRotation(1))
	d.ClearMatrixStack()

	assert.Equal(t, common.Mat3Identity(), d.Matrix())
	assert.Error(t, d.PopMatrix())
}

func TestSetAlphaReplacesCurrentOpacity(t *testing.T) {
	d, backend := newTestDraw(t)

	d.PushAlpha(0.5)
	d.SetAlpha(0.25)
	c := common.NewColor(1, 1, 1, 0.8)
	require.NoError(t, d.AddToBatch(quadInfo(0, 0, c)))
	require.NoError(t, d.Render())

	data := backend.BufferBytes(d.Painter().VertexBuffer())
	verts := decodeFloats(data, 4*6)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0.2, verts[i*6+5], 1e-6)
	}
}

// quadElement draws one unit quad through the raw geometry entry point.
type quadElement struct {
	origin common.Vec2
	color  common.Color
}

func (e *quadElement) Process(d Draw2D) error {
	return d.AddToBatch(quadInfo(e.origin.X, e.origin.Y, e.color))
}

// reentrantElement re-enters AddElement from inside its own Process.
type reentrantElement struct{}

func (e *reentrantElement) Process(d Draw2D) error {
	return d.AddElement(&quadElement{color: common.ColorRed})
}

func TestAddElementDrawsThroughProcess(t *testing.T) {
	d, backend := newTestDraw(t)

	require.NoError(t, d.AddElement(&quadElement{color: common.ColorRed}))
	require.NoError(t, d.AddElement(&quadElement{origin: common.NewVec2(10, 10), color: common.ColorBlue}))
	require.NoError(t, d.Render())

	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	assert.Equal(t, uint32(12), frame[0].DrawEnd)
}

func TestAddElementRejectsNestedCalls(t *testing.T) {
	d, _ := newTestDraw(t)

	err := d.AddElement(&reentrantElement{})
	assert.ErrorContains(t, err, "inside an element's Process")

	// The accumulator stays usable after the failed element.
	require.NoError(t, d.AddElement(&quadElement{color: common.ColorGreen}))
	require.NoError(t, d.Render())
}

func TestDanglingDrawingAutoCommits(t *testing.T) {
	d, backend := newTestDraw(t)

	// No Done call; Render must commit the element anyway.
	d.Rect(common.NewRect(0, 0, 10, 10), common.ColorRed)
	require.NoError(t, d.Render())

	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	assert.Equal(t, "draw2d_shapes", frame[0].PipelineKey)
	assert.Equal(t, uint32(6), frame[0].DrawEnd)
}

func TestPendingCommitsInCallOrder(t *testing.T) {
	d, backend := newTestDraw(t)
	s := newTestSprite(t, d, "order")

	// The rect is left dangling; the image draw must flush it first so the
	// shapes batch precedes the images batch.
	d.Rect(common.NewRect(0, 0, 10, 10), common.ColorRed)
	require.NoError(t, d.Image(s, common.NewVec2(0, 0)).Done())
	require.NoError(t, d.Render())

	frame := backend.LastFrame()
	require.Len(t, frame, 2)
	assert.Equal(t, "draw2d_shapes", frame[0].PipelineKey)
	assert.Equal(t, "draw2d_images", frame[1].PipelineKey)
}

func TestRenderToOffscreenTarget(t *testing.T) {
	d, backend := newTestDraw(t)

	rt, err := d.Painter().Renderer().CreateRenderTexture("offscreen", 64, 64)
	require.NoError(t, err)

	require.NoError(t, d.AddToBatch(quadInfo(0, 0, common.ColorRed)))
	require.NoError(t, d.RenderTo(rt))

	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	assert.Equal(t, "offscreen", frame[0].Target)
}

func TestRenderResetsAccumulation(t *testing.T) {
	d, backend := newTestDraw(t)

	require.NoError(t, d.AddToBatch(quadInfo(0, 0, common.ColorRed)))
	require.NoError(t, d.Render())
	require.NoError(t, d.Render())

	frames := backend.Frames()
	require.Len(t, frames, 2)
	assert.Empty(t, frames[1][0].PipelineKey)
}

func TestResetDropsGeometryAndStacks(t *testing.T) {
	d, backend := newTestDraw(t)

	d.PushMatrix(common.Mat3FromTranslation(common.NewVec2(5, 5)))
	d.PushAlpha(0.5)
	require.NoError(t, d.AddToBatch(quadInfo(0, 0, common.ColorRed)))

	d.Reset()
	assert.Equal(t, float32(1), d.Alpha())
	assert.Error(t, d.PopMatrix())

	require.NoError(t, d.Render())
	frame := backend.LastFrame()
	require.Len(t, frame, 1)
	assert.Empty(t, frame[0].PipelineKey)
}
