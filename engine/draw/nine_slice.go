package draw

import (
	"fmt"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/sprite"
	"github.com/chewxy/math32"
)

// NineSliceElement stretches a sprite over a rectangle while keeping its
// corners at their native size: the corners stay fixed, the edges stretch
// along one axis, and the center stretches along both. All nine quads share a
// 4x4 vertex grid and one sprite, so the whole panel is a single draw.
type NineSliceElement struct {
	sprite    sprite.Sprite
	rect      common.Rect
	insets    float32
	tint      common.Color
	transform *Transform2D
}

// SetTint multiplies the sprite's colors by the given color.
//
// Parameters:
//   - tint: the tint color
//
// Returns:
//   - *NineSliceElement: the element, for chaining
func (e *NineSliceElement) SetTint(tint common.Color) *NineSliceElement {
	e.tint = tint
	return e
}

// Transform retrieves the element's local transform, creating it on first use.
//
// Returns:
//   - *Transform2D: the element's transform
func (e *NineSliceElement) Transform() *Transform2D {
	if e.transform == nil {
		e.transform = NewTransform2D()
	}
	return e.transform
}

func (e *NineSliceElement) draw(d *draw2D) error {
	if e.sprite == nil {
		return fmt.Errorf("nine slice element requires a sprite")
	}
	if e.insets <= 0 {
		return fmt.Errorf("nine slice insets must be positive, got %v", e.insets)
	}

	size := e.sprite.Size()
	inset := math32.Min(e.insets, math32.Min(size.X, size.Y)/2)
	// Clamp so the fixed corners never overlap on a small target rect.
	screenInset := math32.Min(inset, math32.Min(e.rect.Width, e.rect.Height)/2)

	r := e.rect
	xs := [4]float32{r.X, r.X + screenInset, r.X + r.Width - screenInset, r.X + r.Width}
	ys := [4]float32{r.Y, r.Y + screenInset, r.Y + r.Height - screenInset, r.Y + r.Height}

	frame := e.sprite.Frame()
	insetU := frame.Width * inset / size.X
	insetV := frame.Height * inset / size.Y
	us := [4]float32{frame.X, frame.X + insetU, frame.X + frame.Width - insetU, frame.X + frame.Width}
	vs := [4]float32{frame.Y, frame.Y + insetV, frame.Y + frame.Height - insetV, frame.Y + frame.Height}

	var verts []float32
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			verts = appendImageVertex(verts,
				common.Vec2{X: xs[col], Y: ys[row]},
				common.Vec2{X: us[col], Y: vs[row]},
				e.tint,
			)
		}
	}

	var indices []uint32
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			topLeft := uint32(row*4 + col)
			topRight := topLeft + 1
			bottomLeft := topLeft + 4
			bottomRight := bottomLeft + 1
			indices = append(indices,
				topLeft, topRight, bottomRight,
				topLeft, bottomRight, bottomLeft,
			)
		}
	}

	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineImages,
		Vertices:   verts,
		Indices:    indices,
		Sprite:     e.sprite,
		Transform:  elementMatrix(e.transform),
	})
}

func (d *draw2D) NineSlice(s sprite.Sprite, rect common.Rect, insets float32) *Drawing[*NineSliceElement] {
	return newDrawing(d, &NineSliceElement{
		sprite: s,
		rect:   rect,
		insets: insets,
		tint:   common.ColorWhite,
	})
}
