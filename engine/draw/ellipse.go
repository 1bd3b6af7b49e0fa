package draw

import (
	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/chewxy/math32"
)

// EllipseElement draws a filled axis-aligned ellipse.
type EllipseElement struct {
	center    common.Vec2
	radii     common.Vec2
	color     common.Color
	transform *Transform2D
}

// SetColor overrides the color set at creation.
//
// Parameters:
//   - color: the new color
//
// Returns:
//   - *EllipseElement: the element, for chaining
func (e *EllipseElement) SetColor(color common.Color) *EllipseElement {
	e.color = color
	return e
}

// Transform retrieves the element's local transform, creating it on first use.
//
// Returns:
//   - *Transform2D: the element's transform
func (e *EllipseElement) Transform() *Transform2D {
	if e.transform == nil {
		e.transform = NewTransform2D()
	}
	return e.transform
}

func (e *EllipseElement) draw(d *draw2D) error {
	segments := circleSegments(e.radii.MaxElement())

	var verts []float32
	verts = appendShapeVertex(verts, e.center, e.color)
	for i := 0; i < segments; i++ {
		angle := 2 * math32.Pi * float32(i) / float32(segments)
		s, c := math32.Sincos(angle)
		verts = appendShapeVertex(verts, common.Vec2{
			X: e.center.X + c*e.radii.X,
			Y: e.center.Y + s*e.radii.Y,
		}, e.color)
	}

	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineShapes,
		Vertices:   verts,
		Indices:    centerFanIndices(segments),
		Transform:  elementMatrix(e.transform),
	})
}

func (d *draw2D) Ellipse(center, radii common.Vec2, color common.Color) *Drawing[*EllipseElement] {
	return newDrawing(d, &EllipseElement{
		center: center,
		radii:  radii,
		color:  color,
	})
}
