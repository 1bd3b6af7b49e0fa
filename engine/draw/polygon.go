package draw

import (
	"fmt"

	"github.com/Carmen-Shannon/ember-go/common"
)

// PolygonElement draws a filled convex polygon from its corner points.
// Concave outlines will self-overlap; use Path for arbitrary outlines.
type PolygonElement struct {
	points    []common.Vec2
	color     common.Color
	transform *Transform2D
}

// SetColor overrides the color set at creation.
//
// Parameters:
//   - color: the new color
//
// Returns:
//   - *PolygonElement: the element, for chaining
func (e *PolygonElement) SetColor(color common.Color) *PolygonElement {
	e.color = color
	return e
}

// Transform retrieves the element's local transform, creating it on first use.
//
// Returns:
//   - *Transform2D: the element's transform
func (e *PolygonElement) Transform() *Transform2D {
	if e.transform == nil {
		e.transform = NewTransform2D()
	}
	return e.transform
}

func (e *PolygonElement) draw(d *draw2D) error {
	if len(e.points) < 3 {
		return fmt.Errorf("polygon needs at least 3 points, got %d", len(e.points))
	}

	var verts []float32
	for _, p := range e.points {
		verts = appendShapeVertex(verts, p, e.color)
	}

	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineShapes,
		Vertices:   verts,
		Indices:    fanIndices(len(e.points)),
		Transform:  elementMatrix(e.transform),
	})
}

func (d *draw2D) Polygon(points []common.Vec2, color common.Color) *Drawing[*PolygonElement] {
	return newDrawing(d, &PolygonElement{
		points: points,
		color:  color,
	})
}
