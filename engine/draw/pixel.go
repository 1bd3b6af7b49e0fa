package draw

import (
	"github.com/Carmen-Shannon/ember-go/common"
)

// PixelElement draws a single unit-sized quad, one world-space pixel.
type PixelElement struct {
	position common.Vec2
	color    common.Color
}

// SetColor overrides the color set at creation.
//
// Parameters:
//   - color: the new color
//
// Returns:
//   - *PixelElement: the element, for chaining
func (e *PixelElement) SetColor(color common.Color) *PixelElement {
	e.color = color
	return e
}

func (e *PixelElement) draw(d *draw2D) error {
	var verts []float32
	verts = appendShapeVertex(verts, e.position, e.color)
	verts = appendShapeVertex(verts, common.Vec2{X: e.position.X + 1, Y: e.position.Y}, e.color)
	verts = appendShapeVertex(verts, common.Vec2{X: e.position.X + 1, Y: e.position.Y + 1}, e.color)
	verts = appendShapeVertex(verts, common.Vec2{X: e.position.X, Y: e.position.Y + 1}, e.color)

	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineShapes,
		Vertices:   verts,
		Indices:    quadIndices(),
		Transform:  common.Mat3Identity(),
	})
}

func (d *draw2D) Pixel(p common.Vec2, color common.Color) *Drawing[*PixelElement] {
	return newDrawing(d, &PixelElement{
		position: p,
		color:    color,
	})
}
