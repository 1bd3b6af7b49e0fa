package draw

import (
	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/chewxy/math32"
)

// StarElement draws a filled star with alternating outer and inner vertices.
type StarElement struct {
	center      common.Vec2
	points      int
	innerRadius float32
	outerRadius float32
	color       common.Color
	rotation    float32
	transform   *Transform2D
}

// SetRotation spins the star around its center.
//
// Parameters:
//   - radians: the rotation in radians
//
// Returns:
//   - *StarElement: the element, for chaining
func (e *StarElement) SetRotation(radians float32) *StarElement {
	e.rotation = radians
	return e
}

// SetColor overrides the color set at creation.
//
// Parameters:
//   - color: the new color
//
// Returns:
//   - *StarElement: the element, for chaining
func (e *StarElement) SetColor(color common.Color) *StarElement {
	e.color = color
	return e
}

// Transform retrieves the element's local transform, creating it on first use.
//
// Returns:
//   - *Transform2D: the element's transform
func (e *StarElement) Transform() *Transform2D {
	if e.transform == nil {
		e.transform = NewTransform2D()
	}
	return e.transform
}

func (e *StarElement) draw(d *draw2D) error {
	points := e.points
	if points < 3 {
		points = 3
	}

	// Stars are concave, so a plain fan from the outline fails; fanning from
	// the center vertex works because every outline point sees the center.
	ring := 2 * points
	var verts []float32
	verts = appendShapeVertex(verts, e.center, e.color)
	for i := 0; i < ring; i++ {
		radius := e.outerRadius
		if i%2 == 1 {
			radius = e.innerRadius
		}
		// Start at the top and walk clockwise.
		angle := e.rotation - math32.Pi/2 + math32.Pi*float32(i)/float32(points)
		s, c := math32.Sincos(angle)
		verts = appendShapeVertex(verts, common.Vec2{
			X: e.center.X + c*radius,
			Y: e.center.Y + s*radius,
		}, e.color)
	}

	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineShapes,
		Vertices:   verts,
		Indices:    centerFanIndices(ring),
		Transform:  elementMatrix(e.transform),
	})
}

func (d *draw2D) Star(center common.Vec2, points int, innerRadius, outerRadius float32, color common.Color) *Drawing[*StarElement] {
	return newDrawing(d, &StarElement{
		center:      center,
		points:      points,
		innerRadius: innerRadius,
		outerRadius: outerRadius,
		color:       color,
	})
}
