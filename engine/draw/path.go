package draw

import (
	"fmt"

	"github.com/Carmen-Shannon/ember-go/common"
)

// PathElement strokes a polyline through its points, one thick quad per
// segment. Closed paths connect the last point back to the first.
type PathElement struct {
	points    []common.Vec2
	width     float32
	color     common.Color
	closed    bool
	transform *Transform2D
}

// SetClosed connects the last point back to the first.
//
// Parameters:
//   - closed: true to close the path
//
// Returns:
//   - *PathElement: the element, for chaining
func (e *PathElement) SetClosed(closed bool) *PathElement {
	e.closed = closed
	return e
}

// SetColor overrides the color set at creation.
//
// Parameters:
//   - color: the new color
//
// Returns:
//   - *PathElement: the element, for chaining
func (e *PathElement) SetColor(color common.Color) *PathElement {
	e.color = color
	return e
}

// Transform retrieves the element's local transform, creating it on first use.
//
// Returns:
//   - *Transform2D: the element's transform
func (e *PathElement) Transform() *Transform2D {
	if e.transform == nil {
		e.transform = NewTransform2D()
	}
	return e.transform
}

func (e *PathElement) draw(d *draw2D) error {
	if len(e.points) < 2 {
		return fmt.Errorf("path needs at least 2 points, got %d", len(e.points))
	}

	var verts []float32
	var indices []uint32
	for i := 0; i < len(e.points)-1; i++ {
		verts, indices = segmentQuad(verts, indices, e.points[i], e.points[i+1], e.width, e.color)
	}
	if e.closed {
		verts, indices = segmentQuad(verts, indices, e.points[len(e.points)-1], e.points[0], e.width, e.color)
	}

	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineShapes,
		Vertices:   verts,
		Indices:    indices,
		Transform:  elementMatrix(e.transform),
	})
}

func (d *draw2D) Path(points []common.Vec2, width float32, color common.Color) *Drawing[*PathElement] {
	return newDrawing(d, &PathElement{
		points: points,
		width:  width,
		color:  color,
	})
}
