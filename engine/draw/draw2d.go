package draw

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/camera"
	"github.com/Carmen-Shannon/ember-go/engine/renderer"
	"github.com/Carmen-Shannon/ember-go/engine/sprite"
)

// DrawInfo is one element's contribution to the frame: raw vertex floats laid
// out per the pipeline's stride, indices relative to those vertices, and a
// local transform applied to the position channel on the CPU.
type DrawInfo struct {
	// PipelineID selects the drawing pipeline for this geometry.
	PipelineID DrawPipelineID

	// Vertices holds the raw vertex floats. The length must be a multiple of
	// the pipeline's stride.
	Vertices []float32

	// Indices index the vertices in this DrawInfo, starting at zero.
	Indices []uint32

	// Sprite carries the texture for textured pipelines. It must be set when
	// the pipeline is textured and nil otherwise.
	Sprite sprite.Sprite

	// Transform is the element's local transform. Positions are transformed by
	// camera * matrix stack * Transform before being appended.
	Transform common.Mat3
}

// draw2D is the implementation of the Draw2D interface.
type draw2D struct {
	painter Painter
	camera  camera.Camera2D

	stack      *MatrixStack
	alphaStack []float32
	clearColor *common.Color

	vertices      []float32
	indices       []uint32
	batches       []*batchInfo
	current       *batchInfo
	indicesOffset uint32

	pending   pendingDrawing
	inProcess bool

	lastTextBounds common.Rect
}

// Draw2D accumulates 2D draw calls into batches and realizes them as render
// passes. Consecutive draws sharing a pipeline and bind group set merge into a
// single batch; any change seals the current batch so draw order is preserved
// back-to-front. Draw2D is not safe for concurrent use; accumulate and render
// from the render goroutine.
type Draw2D interface {
	// Painter retrieves the painter owning this accumulator's GPU resources.
	//
	// Returns:
	//   - Painter: the painter
	Painter() Painter

	// Camera retrieves the camera applied to all accumulated geometry.
	//
	// Returns:
	//   - camera.Camera2D: the camera
	Camera() camera.Camera2D

	// SetClearColor makes the next rendered frame clear to the given color
	// before drawing.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.Color)

	// PushMatrix composes a transform onto the matrix stack. All geometry
	// added before the matching PopMatrix inherits it.
	//
	// Parameters:
	//   - m: the transform to compose
	PushMatrix(m common.Mat3)

	// PopMatrix restores the transform active before the matching PushMatrix.
	//
	// Returns:
	//   - error: an error if the stack is already at its base entry
	PopMatrix() error

	// PushAlpha multiplies an opacity factor onto the alpha stack. All
	// geometry added before the matching PopAlpha is faded by it.
	//
	// Parameters:
	//   - alpha: the opacity factor in [0, 1]
	PushAlpha(alpha float32)

	// PopAlpha restores the opacity active before the matching PushAlpha.
	//
	// Returns:
	//   - error: an error if the alpha stack is already at its base entry
	PopAlpha() error

	// Alpha retrieves the current composed opacity factor.
	//
	// Returns:
	//   - float32: the current opacity
	Alpha() float32

	// SetAlpha replaces the current opacity factor without pushing a new
	// stack entry.
	//
	// Parameters:
	//   - alpha: the opacity factor in [0, 1]
	SetAlpha(alpha float32)

	// SetMatrix replaces the current transform without composing, leaving
	// the rest of the matrix stack intact.
	//
	// Parameters:
	//   - m: the transform to set
	SetMatrix(m common.Mat3)

	// Matrix retrieves the current composed transform applied to geometry.
	//
	// Returns:
	//   - common.Mat3: the current transform
	Matrix() common.Mat3

	// ClearMatrixStack drops all pushed transforms, restoring the identity
	// base.
	ClearMatrixStack()

	// AddToBatch appends raw geometry to the current frame. Most callers use
	// the element methods instead; this is the escape hatch for custom
	// geometry and custom pipelines.
	//
	// Parameters:
	//   - info: the geometry to append
	//
	// Returns:
	//   - error: an error if the pipeline is unknown or the data is malformed
	AddToBatch(info DrawInfo) error

	// AddElement draws an externally implemented element by calling its
	// Process method. Nested AddElement calls from inside Process fail fast.
	//
	// Parameters:
	//   - e: the element to draw
	//
	// Returns:
	//   - error: an error if the element's geometry could not be appended
	AddElement(e Element2D) error

	// Render realizes the accumulated batches as render passes on the screen
	// surface, then resets the accumulator for the next frame.
	//
	// Returns:
	//   - error: an error if pass realization failed
	Render() error

	// RenderTo realizes the accumulated batches into an offscreen render
	// texture instead of the screen, then resets the accumulator.
	//
	// Parameters:
	//   - target: the offscreen target
	//
	// Returns:
	//   - error: an error if pass realization failed
	RenderTo(target *renderer.RenderTexture) error

	// Reset drops all accumulated geometry and restores the matrix and alpha
	// stacks without rendering.
	Reset()

	// LastTextBounds retrieves the bounding rect of the most recent Text draw,
	// useful for laying out adjacent elements.
	//
	// Returns:
	//   - common.Rect: the last text bounds in world units
	LastTextBounds() common.Rect

	// Rect starts drawing a filled axis-aligned rectangle.
	//
	// Parameters:
	//   - rect: the rectangle in world units
	//   - color: the fill color
	//
	// Returns:
	//   - *Drawing[*RectElement]: the in-progress drawing
	Rect(rect common.Rect, color common.Color) *Drawing[*RectElement]

	// Circle starts drawing a filled circle.
	//
	// Parameters:
	//   - center: the center in world units
	//   - radius: the radius in world units
	//   - color: the fill color
	//
	// Returns:
	//   - *Drawing[*CircleElement]: the in-progress drawing
	Circle(center common.Vec2, radius float32, color common.Color) *Drawing[*CircleElement]

	// Ellipse starts drawing a filled axis-aligned ellipse.
	//
	// Parameters:
	//   - center: the center in world units
	//   - radii: the per-axis radii in world units
	//   - color: the fill color
	//
	// Returns:
	//   - *Drawing[*EllipseElement]: the in-progress drawing
	Ellipse(center, radii common.Vec2, color common.Color) *Drawing[*EllipseElement]

	// Line starts drawing a line segment with thickness.
	//
	// Parameters:
	//   - from: the start point in world units
	//   - to: the end point in world units
	//   - width: the line thickness in world units
	//   - color: the line color
	//
	// Returns:
	//   - *Drawing[*LineElement]: the in-progress drawing
	Line(from, to common.Vec2, width float32, color common.Color) *Drawing[*LineElement]

	// Triangle starts drawing a filled triangle.
	//
	// Parameters:
	//   - a: the first corner
	//   - b: the second corner
	//   - c: the third corner
	//   - color: the fill color
	//
	// Returns:
	//   - *Drawing[*TriangleElement]: the in-progress drawing
	Triangle(a, b, c common.Vec2, color common.Color) *Drawing[*TriangleElement]

	// Star starts drawing a filled star.
	//
	// Parameters:
	//   - center: the center in world units
	//   - points: the number of star points
	//   - innerRadius: the radius of the inner vertices
	//   - outerRadius: the radius of the outer vertices
	//   - color: the fill color
	//
	// Returns:
	//   - *Drawing[*StarElement]: the in-progress drawing
	Star(center common.Vec2, points int, innerRadius, outerRadius float32, color common.Color) *Drawing[*StarElement]

	// Polygon starts drawing a filled convex polygon from its corner points.
	//
	// Parameters:
	//   - points: the corners in order, at least three
	//   - color: the fill color
	//
	// Returns:
	//   - *Drawing[*PolygonElement]: the in-progress drawing
	Polygon(points []common.Vec2, color common.Color) *Drawing[*PolygonElement]

	// Path starts drawing a stroked polyline through the given points.
	//
	// Parameters:
	//   - points: the polyline points in order, at least two
	//   - width: the stroke thickness in world units
	//   - color: the stroke color
	//
	// Returns:
	//   - *Drawing[*PathElement]: the in-progress drawing
	Path(points []common.Vec2, width float32, color common.Color) *Drawing[*PathElement]

	// Pixel starts drawing a single pixel-sized quad.
	//
	// Parameters:
	//   - p: the position in world units
	//   - color: the color
	//
	// Returns:
	//   - *Drawing[*PixelElement]: the in-progress drawing
	Pixel(p common.Vec2, color common.Color) *Drawing[*PixelElement]

	// Image starts drawing a sprite at the given position.
	//
	// Parameters:
	//   - s: the sprite to draw
	//   - position: the position in world units
	//
	// Returns:
	//   - *Drawing[*ImageElement]: the in-progress drawing
	Image(s sprite.Sprite, position common.Vec2) *Drawing[*ImageElement]

	// Pattern starts drawing a rectangle tiled with a sprite.
	//
	// Parameters:
	//   - s: the sprite to tile
	//   - rect: the rectangle to fill in world units
	//
	// Returns:
	//   - *Drawing[*PatternElement]: the in-progress drawing
	Pattern(s sprite.Sprite, rect common.Rect) *Drawing[*PatternElement]

	// Text starts drawing a string with a grid font.
	//
	// Parameters:
	//   - font: the bitmap font
	//   - text: the string to draw
	//   - position: the top-left position in world units
	//
	// Returns:
	//   - *Drawing[*TextElement]: the in-progress drawing
	Text(font sprite.GridFont, text string, position common.Vec2) *Drawing[*TextElement]

	// NineSlice starts drawing a sprite stretched over a rectangle with fixed
	// corner sizes, the standard technique for scalable UI panels.
	//
	// Parameters:
	//   - s: the sprite to slice
	//   - rect: the rectangle to cover in world units
	//   - insets: the corner inset in sprite pixels
	//
	// Returns:
	//   - *Drawing[*NineSliceElement]: the in-progress drawing
	NineSlice(s sprite.Sprite, rect common.Rect, insets float32) *Drawing[*NineSliceElement]

	// Particles draws the current state of a particle emitter.
	//
	// Parameters:
	//   - emitter: the emitter to draw
	//
	// Returns:
	//   - error: an error if the emitter's geometry could not be appended
	Particles(emitter *ParticleEmitter) error
}

var _ Draw2D = &draw2D{}

// NewDraw2D creates a batch accumulator drawing through the given painter and
// camera.
//
// Parameters:
//   - p: the painter owning the GPU resources
//   - cam: the camera applied to all geometry
//
// Returns:
//   - Draw2D: the created accumulator
func NewDraw2D(p Painter, cam camera.Camera2D) Draw2D {
	return &draw2D{
		painter:    p,
		camera:     cam,
		stack:      NewMatrixStack(),
		alphaStack: []float32{1},
	}
}

func (d *draw2D) Painter() Painter {
	return d.painter
}

func (d *draw2D) Camera() camera.Camera2D {
	return d.camera
}

func (d *draw2D) SetClearColor(c common.Color) {
	d.clearColor = &c
}

func (d *draw2D) PushMatrix(m common.Mat3) {
	d.flushPending()
	d.stack.Push(m)
}

func (d *draw2D) PopMatrix() error {
	d.flushPending()
	return d.stack.Pop()
}

func (d *draw2D) PushAlpha(alpha float32) {
	d.flushPending()
	d.alphaStack = append(d.alphaStack, d.Alpha()*alpha)
}

func (d *draw2D) PopAlpha() error {
	d.flushPending()
	if len(d.alphaStack) <= 1 {
		return fmt.Errorf("alpha stack: cannot pop the base entry")
	}
	d.alphaStack = d.alphaStack[:len(d.alphaStack)-1]
	return nil
}

func (d *draw2D) Alpha() float32 {
	return d.alphaStack[len(d.alphaStack)-1]
}

func (d *draw2D) SetAlpha(alpha float32) {
	d.flushPending()
	d.alphaStack[len(d.alphaStack)-1] = alpha
}

func (d *draw2D) SetMatrix(m common.Mat3) {
	d.flushPending()
	d.stack.SetMatrix(m)
}

func (d *draw2D) Matrix() common.Mat3 {
	return d.stack.Matrix()
}

func (d *draw2D) ClearMatrixStack() {
	d.flushPending()
	d.stack.Reset()
}

func (d *draw2D) AddElement(e Element2D) error {
	if d.inProcess {
		return fmt.Errorf("draw2d: AddElement called from inside an element's Process")
	}
	d.flushPending()
	d.inProcess = true
	err := e.Process(d)
	d.inProcess = false
	return err
}

func (d *draw2D) AddToBatch(info DrawInfo) error {
	d.flushPending()

	ctx, ok := d.painter.Pipeline(info.PipelineID)
	if !ok {
		return fmt.Errorf("unknown drawing pipeline %q", info.PipelineID)
	}

	stride := ctx.Stride()
	if len(info.Vertices)%stride != 0 {
		return fmt.Errorf("pipeline %q expects %d floats per vertex, got %d floats", info.PipelineID, stride, len(info.Vertices))
	}
	if ctx.Textured() && info.Sprite == nil {
		return fmt.Errorf("pipeline %q requires a sprite", info.PipelineID)
	}
	if len(info.Vertices) == 0 || len(info.Indices) == 0 {
		return nil
	}

	projBG, err := d.painter.ProjectionBindGroup(info.PipelineID)
	if err != nil {
		return err
	}
	bindGroups := []*renderer.BindGroup{projBG}
	if ctx.Textured() {
		spriteBG, err := d.painter.SpriteBindGroup(info.PipelineID, info.Sprite)
		if err != nil {
			return err
		}
		bindGroups = append(bindGroups, spriteBG)
	}

	if d.current == nil || !d.current.isCompatible(ctx, bindGroups) {
		d.sealCurrent()
		vertexOffset := uint64(len(d.vertices)) * 4
		indexOffset := uint64(len(d.indices)) * 4
		d.current = &batchInfo{
			pipelineID:  info.PipelineID,
			ctx:         ctx,
			bindGroups:  bindGroups,
			vertexStart: vertexOffset,
			vertexEnd:   vertexOffset,
			indexStart:  indexOffset,
			indexEnd:    indexOffset,
		}
		d.indicesOffset = 0
	}

	d.current.vertexEnd += uint64(len(info.Vertices)) * 4
	d.current.indexEnd += uint64(len(info.Indices)) * 4
	d.current.drawEnd += uint32(len(info.Indices))

	for _, idx := range info.Indices {
		d.indices = append(d.indices, idx+d.indicesOffset)
	}
	d.indicesOffset += uint32(len(info.Vertices) / stride)

	full := d.camera.Transform().Mul(d.stack.Matrix()).Mul(info.Transform)
	alpha := d.Alpha()
	xPos, yPos := ctx.XPos(), ctx.YPos()
	alphaPos := ctx.AlphaPos()
	base := len(d.vertices)
	d.vertices = append(d.vertices, info.Vertices...)
	for i := base; i < len(d.vertices); i += stride {
		p := full.TransformPoint(common.Vec2{X: d.vertices[i+xPos], Y: d.vertices[i+yPos]})
		d.vertices[i+xPos] = p.X
		d.vertices[i+yPos] = p.Y
		if alphaPos >= 0 {
			d.vertices[i+alphaPos] *= alpha
		}
	}

	return nil
}

func (d *draw2D) Render() error {
	return d.render(nil)
}

func (d *draw2D) RenderTo(target *renderer.RenderTexture) error {
	return d.render(target)
}

func (d *draw2D) Reset() {
	d.vertices = d.vertices[:0]
	d.indices = d.indices[:0]
	d.batches = d.batches[:0]
	d.current = nil
	d.indicesOffset = 0
	d.pending = nil
	d.clearColor = nil
	d.stack.Reset()
	d.alphaStack = d.alphaStack[:1]
	d.alphaStack[0] = 1
}

func (d *draw2D) LastTextBounds() common.Rect {
	return d.lastTextBounds
}

// render realizes the frame against the screen or an offscreen target, then
// resets the accumulator. Upload failures are logged and the frame continues;
// a dropped upload renders stale data for one frame which beats dropping the
// whole frame.
func (d *draw2D) render(target *renderer.RenderTexture) error {
	d.flushPending()
	d.sealCurrent()

	r := d.painter.Renderer()

	projection := d.camera.Projection()
	if err := r.WriteBuffer(d.painter.ProjectionBuffer(), 0, common.StructToBytes(&projection)); err != nil {
		log.Printf("draw2d: projection upload failed: %v", err)
	}
	if len(d.vertices) > 0 {
		if err := r.WriteBuffer(d.painter.VertexBuffer(), 0, common.SliceToBytes(d.vertices)); err != nil {
			log.Printf("draw2d: vertex upload failed: %v", err)
		}
	}
	if len(d.indices) > 0 {
		if err := r.WriteBuffer(d.painter.IndexBuffer(), 0, common.SliceToBytes(d.indices)); err != nil {
			log.Printf("draw2d: index upload failed: %v", err)
		}
	}

	list := renderer.NewPassList()
	if len(d.batches) == 0 {
		pass := list.BeginPass()
		if d.clearColor != nil {
			pass.SetClearColor(*d.clearColor)
		}
	}
	for i, b := range d.batches {
		pass := list.BeginPass().
			SetPipeline(b.ctx.Pipeline()).
			SetBindGroups(b.bindGroups...).
			SetVertexBuffer(d.painter.VertexBuffer(), b.vertexStart, b.vertexEnd).
			SetIndexBuffer(d.painter.IndexBuffer(), b.indexStart, b.indexEnd).
			SetDrawRange(b.drawStart, b.drawEnd)
		if i == 0 && d.clearColor != nil {
			pass.SetClearColor(*d.clearColor)
		}
	}

	err := r.Render(list, target)

	d.vertices = d.vertices[:0]
	d.indices = d.indices[:0]
	d.batches = d.batches[:0]
	d.current = nil
	d.indicesOffset = 0
	d.clearColor = nil
	d.painter.AdvanceFrame()

	if err != nil {
		return fmt.Errorf("failed to realize frame: %w", err)
	}
	return nil
}

// sealCurrent closes the active batch and appends it to the frame's batch
// list. No-op when nothing is accumulating.
func (d *draw2D) sealCurrent() {
	if d.current == nil {
		return
	}
	d.batches = append(d.batches, d.current)
	d.current = nil
	d.indicesOffset = 0
}

// flushPending commits a dangling element whose Done was never called. The
// inProcess guard stops the commit's own AddToBatch from re-entering.
func (d *draw2D) flushPending() {
	if d.pending == nil || d.inProcess {
		return
	}
	p := d.pending
	d.pending = nil
	d.inProcess = true
	if err := p.commit(); err != nil {
		log.Printf("draw2d: deferred element failed: %v", err)
	}
	d.inProcess = false
}

// setPending stages a drawing for auto-commit, committing any previous
// dangling drawing first so elements land in call order. The explicit commit
// covers drawings staged while an element's Process is running, where
// flushPending is gated.
func (d *draw2D) setPending(p pendingDrawing) {
	d.flushPending()
	if prev := d.pending; prev != nil {
		d.pending = nil
		if err := prev.commit(); err != nil {
			log.Printf("draw2d: deferred element failed: %v", err)
		}
	}
	d.pending = p
}
