package draw

import (
	"github.com/Carmen-Shannon/ember-go/common"
)

// TriangleElement draws a filled triangle.
type TriangleElement struct {
	a, b, c   common.Vec2
	color     common.Color
	transform *Transform2D
}

// SetColor overrides the color set at creation.
//
// Parameters:
//   - color: the new color
//
// Returns:
//   - *TriangleElement: the element, for chaining
func (e *TriangleElement) SetColor(color common.Color) *TriangleElement {
	e.color = color
	return e
}

// Transform retrieves the element's local transform, creating it on first use.
//
// Returns:
//   - *Transform2D: the element's transform
func (e *TriangleElement) Transform() *Transform2D {
	if e.transform == nil {
		e.transform = NewTransform2D()
	}
	return e.transform
}

func (e *TriangleElement) draw(d *draw2D) error {
	var verts []float32
	verts = appendShapeVertex(verts, e.a, e.color)
	verts = appendShapeVertex(verts, e.b, e.color)
	verts = appendShapeVertex(verts, e.c, e.color)

	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineShapes,
		Vertices:   verts,
		Indices:    []uint32{0, 1, 2},
		Transform:  elementMatrix(e.transform),
	})
}

func (d *draw2D) Triangle(a, b, c common.Vec2, color common.Color) *Drawing[*TriangleElement] {
	return newDrawing(d, &TriangleElement{
		a:     a,
		b:     b,
		c:     c,
		color: color,
	})
}
