package draw

import (
	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/chewxy/math32"
)

// RectElement draws an axis-aligned rectangle: filled by default, outlined
// when a stroke width is set, with optionally rounded corners.
type RectElement struct {
	rect         common.Rect
	color        common.Color
	strokeWidth  float32
	cornerRadius float32
	transform    *Transform2D
}

// SetStroke switches the rectangle from filled to outlined.
//
// Parameters:
//   - width: the outline thickness in world units
//
// Returns:
//   - *RectElement: the element, for chaining
func (e *RectElement) SetStroke(width float32) *RectElement {
	e.strokeWidth = width
	return e
}

// SetCornerRadius rounds the rectangle's corners.
//
// Parameters:
//   - radius: the corner radius in world units
//
// Returns:
//   - *RectElement: the element, for chaining
func (e *RectElement) SetCornerRadius(radius float32) *RectElement {
	e.cornerRadius = radius
	return e
}

// SetColor overrides the color set at creation.
//
// Parameters:
//   - color: the new color
//
// Returns:
//   - *RectElement: the element, for chaining
func (e *RectElement) SetColor(color common.Color) *RectElement {
	e.color = color
	return e
}

// Transform retrieves the element's local transform, creating it on first use.
//
// Returns:
//   - *Transform2D: the element's transform
func (e *RectElement) Transform() *Transform2D {
	if e.transform == nil {
		e.transform = NewTransform2D()
	}
	return e.transform
}

func (e *RectElement) draw(d *draw2D) error {
	segments := e.cornerSegments()
	outline := rectOutline(e.rect, e.cornerRadius, segments)

	var verts []float32
	var indices []uint32
	if e.strokeWidth > 0 {
		// The inner ring is the same outline on a rect inset by the stroke
		// width, with the corner radius reduced to match. Point counts line up
		// because both rings use the same segment count.
		w := math32.Min(e.strokeWidth, math32.Min(e.rect.Width, e.rect.Height)/2)
		innerRect := common.NewRect(e.rect.X+w, e.rect.Y+w, e.rect.Width-2*w, e.rect.Height-2*w)
		inner := rectOutline(innerRect, math32.Max(e.cornerRadius-w, 0), segments)

		for _, p := range outline {
			verts = appendShapeVertex(verts, p, e.color)
		}
		for _, p := range inner {
			verts = appendShapeVertex(verts, p, e.color)
		}
		indices = ringIndices(len(outline))
	} else {
		for _, p := range outline {
			verts = appendShapeVertex(verts, p, e.color)
		}
		indices = fanIndices(len(outline))
	}

	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineShapes,
		Vertices:   verts,
		Indices:    indices,
		Transform:  elementMatrix(e.transform),
	})
}

// cornerSegments picks how many segments each rounded corner arc gets. Sharp
// rects use zero so the outline is just the four corners.
func (e *RectElement) cornerSegments() int {
	if e.cornerRadius <= 0 {
		return 0
	}
	segments := circleSegments(e.cornerRadius) / 4
	if segments < 2 {
		segments = 2
	}
	return segments
}

// rectOutline returns a rectangle's boundary in clockwise order, with arc
// corners when a corner radius is set.
func rectOutline(r common.Rect, radius float32, segments int) []common.Vec2 {
	if segments <= 0 {
		return []common.Vec2{
			{X: r.X, Y: r.Y},
			{X: r.X + r.Width, Y: r.Y},
			{X: r.X + r.Width, Y: r.Y + r.Height},
			{X: r.X, Y: r.Y + r.Height},
		}
	}

	radius = math32.Min(math32.Max(radius, 0), math32.Min(r.Width, r.Height)/2)

	var points []common.Vec2
	halfPi := math32.Pi / 2
	// Corner centers, walked clockwise from the top-left arc.
	points = arcPoints(points, common.Vec2{X: r.X + radius, Y: r.Y + radius}, radius, math32.Pi, halfPi, segments)
	points = arcPoints(points, common.Vec2{X: r.X + r.Width - radius, Y: r.Y + radius}, radius, -halfPi, halfPi, segments)
	points = arcPoints(points, common.Vec2{X: r.X + r.Width - radius, Y: r.Y + r.Height - radius}, radius, 0, halfPi, segments)
	points = arcPoints(points, common.Vec2{X: r.X + radius, Y: r.Y + r.Height - radius}, radius, halfPi, halfPi, segments)
	return points
}

func (d *draw2D) Rect(rect common.Rect, color common.Color) *Drawing[*RectElement] {
	return newDrawing(d, &RectElement{
		rect:  rect,
		color: color,
	})
}
