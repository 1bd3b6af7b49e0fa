package draw

import (
	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/chewxy/math32"
)

// appendShapeVertex appends one [x, y, r, g, b, a] vertex for the shapes pipeline.
func appendShapeVertex(verts []float32, p common.Vec2, c common.Color) []float32 {
	return append(verts, p.X, p.Y, c.R, c.G, c.B, c.A)
}

// appendImageVertex appends one [x, y, u, v, r, g, b, a] vertex for the images
// and text pipelines.
func appendImageVertex(verts []float32, p, uv common.Vec2, c common.Color) []float32 {
	return append(verts, p.X, p.Y, uv.X, uv.Y, c.R, c.G, c.B, c.A)
}

// quadIndices returns the two triangles covering a quad whose corners were
// appended in the order top-left, top-right, bottom-right, bottom-left.
func quadIndices() []uint32 {
	return []uint32{0, 1, 2, 0, 2, 3}
}

// fanIndices triangulates a convex ring of n vertices as a fan anchored at
// vertex 0.
func fanIndices(n int) []uint32 {
	if n < 3 {
		return nil
	}
	indices := make([]uint32, 0, (n-2)*3)
	for i := 1; i < n-1; i++ {
		indices = append(indices, 0, uint32(i), uint32(i+1))
	}
	return indices
}

// centerFanIndices triangulates a closed ring of n vertices around a center
// vertex. The center is vertex 0 and the ring follows as vertices 1..n.
func centerFanIndices(n int) []uint32 {
	indices := make([]uint32, 0, n*3)
	for i := 1; i <= n; i++ {
		next := i + 1
		if next > n {
			next = 1
		}
		indices = append(indices, 0, uint32(i), uint32(next))
	}
	return indices
}

// ringIndices triangulates the band between an outer ring (vertices 0..n-1)
// and an inner ring (vertices n..2n-1), closing the loop.
func ringIndices(n int) []uint32 {
	indices := make([]uint32, 0, n*6)
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		outer := uint32(i)
		outerNext := uint32(next)
		inner := uint32(n + i)
		innerNext := uint32(n + next)
		indices = append(indices, outer, outerNext, innerNext, outer, innerNext, inner)
	}
	return indices
}

// arcPoints appends points along a circular arc from startAngle over sweep
// radians, splitting it into the given number of segments.
func arcPoints(points []common.Vec2, center common.Vec2, radius, startAngle, sweep float32, segments int) []common.Vec2 {
	for i := 0; i <= segments; i++ {
		angle := startAngle + sweep*float32(i)/float32(segments)
		s, c := math32.Sincos(angle)
		points = append(points, common.Vec2{
			X: center.X + c*radius,
			Y: center.Y + s*radius,
		})
	}
	return points
}

// circleSegments picks a segment count for a circle of the given radius,
// enough to look round without wasting vertices on small shapes.
func circleSegments(radius float32) int {
	segments := int(radius)
	if segments < 12 {
		segments = 12
	}
	if segments > 64 {
		segments = 64
	}
	return segments
}

// elementMatrix resolves an element's optional transform to a matrix.
func elementMatrix(t *Transform2D) common.Mat3 {
	if t == nil {
		return common.Mat3Identity()
	}
	return t.Matrix()
}
