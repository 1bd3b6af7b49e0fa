package draw

import (
	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/chewxy/math32"
)

// CircleElement draws a circle: filled by default, outlined when a stroke
// width is set.
type CircleElement struct {
	center      common.Vec2
	radius      float32
	color       common.Color
	strokeWidth float32
	transform   *Transform2D
}

// SetStroke switches the circle from filled to outlined.
//
// Parameters:
//   - width: the outline thickness in world units
//
// Returns:
//   - *CircleElement: the element, for chaining
func (e *CircleElement) SetStroke(width float32) *CircleElement {
	e.strokeWidth = width
	return e
}

// SetColor overrides the color set at creation.
//
// Parameters:
//   - color: the new color
//
// Returns:
//   - *CircleElement: the element, for chaining
func (e *CircleElement) SetColor(color common.Color) *CircleElement {
	e.color = color
	return e
}

// Transform retrieves the element's local transform, creating it on first use.
//
// Returns:
//   - *Transform2D: the element's transform
func (e *CircleElement) Transform() *Transform2D {
	if e.transform == nil {
		e.transform = NewTransform2D()
	}
	return e.transform
}

func (e *CircleElement) draw(d *draw2D) error {
	segments := circleSegments(e.radius)

	var verts []float32
	var indices []uint32
	if e.strokeWidth > 0 {
		innerRadius := math32.Max(e.radius-e.strokeWidth, 0)
		for _, p := range circleRing(e.center, e.radius, segments) {
			verts = appendShapeVertex(verts, p, e.color)
		}
		for _, p := range circleRing(e.center, innerRadius, segments) {
			verts = appendShapeVertex(verts, p, e.color)
		}
		indices = ringIndices(segments)
	} else {
		verts = appendShapeVertex(verts, e.center, e.color)
		for _, p := range circleRing(e.center, e.radius, segments) {
			verts = appendShapeVertex(verts, p, e.color)
		}
		indices = centerFanIndices(segments)
	}

	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineShapes,
		Vertices:   verts,
		Indices:    indices,
		Transform:  elementMatrix(e.transform),
	})
}

// circleRing returns the given number of evenly spaced points on a circle,
// without repeating the start point.
func circleRing(center common.Vec2, radius float32, segments int) []common.Vec2 {
	points := make([]common.Vec2, 0, segments)
	for i := 0; i < segments; i++ {
		angle := 2 * math32.Pi * float32(i) / float32(segments)
		s, c := math32.Sincos(angle)
		points = append(points, common.Vec2{
			X: center.X + c*radius,
			Y: center.Y + s*radius,
		})
	}
	return points
}

func (d *draw2D) Circle(center common.Vec2, radius float32, color common.Color) *Drawing[*CircleElement] {
	return newDrawing(d, &CircleElement{
		center: center,
		radius: radius,
		color:  color,
	})
}
