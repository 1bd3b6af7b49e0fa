package draw

import (
	"github.com/Carmen-Shannon/ember-go/common"
)

// LineElement draws a single line segment as a quad with thickness.
type LineElement struct {
	from      common.Vec2
	to        common.Vec2
	width     float32
	color     common.Color
	transform *Transform2D
}

// SetColor overrides the color set at creation.
//
// Parameters:
//   - color: the new color
//
// Returns:
//   - *LineElement: the element, for chaining
func (e *LineElement) SetColor(color common.Color) *LineElement {
	e.color = color
	return e
}

// Transform retrieves the element's local transform, creating it on first use.
//
// Returns:
//   - *Transform2D: the element's transform
func (e *LineElement) Transform() *Transform2D {
	if e.transform == nil {
		e.transform = NewTransform2D()
	}
	return e.transform
}

func (e *LineElement) draw(d *draw2D) error {
	verts, indices := segmentQuad(nil, nil, e.from, e.to, e.width, e.color)
	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineShapes,
		Vertices:   verts,
		Indices:    indices,
		Transform:  elementMatrix(e.transform),
	})
}

// segmentQuad appends the four corners and six indices of a thick line
// segment. The index values account for vertices already present.
func segmentQuad(verts []float32, indices []uint32, from, to common.Vec2, width float32, color common.Color) ([]float32, []uint32) {
	normal := to.Sub(from).Normalize().Perp().Scale(width / 2)
	base := uint32(len(verts) / 6)

	verts = appendShapeVertex(verts, from.Add(normal), color)
	verts = appendShapeVertex(verts, to.Add(normal), color)
	verts = appendShapeVertex(verts, to.Sub(normal), color)
	verts = appendShapeVertex(verts, from.Sub(normal), color)
	indices = append(indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
	return verts, indices
}

func (d *draw2D) Line(from, to common.Vec2, width float32, color common.Color) *Drawing[*LineElement] {
	return newDrawing(d, &LineElement{
		from:  from,
		to:    to,
		width: width,
		color: color,
	})
}
