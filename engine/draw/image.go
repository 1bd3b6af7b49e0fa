package draw

import (
	"fmt"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/sprite"
)

// ImageElement draws a sprite as a textured quad with optional resizing,
// cropping, mirroring, and tinting.
type ImageElement struct {
	sprite    sprite.Sprite
	position  common.Vec2
	size      common.Vec2
	crop      *common.Rect
	tint      common.Color
	flipX     bool
	flipY     bool
	transform *Transform2D
}

// SetSize overrides the drawn size. The default is the sprite's pixel size.
//
// Parameters:
//   - size: the quad size in world units
//
// Returns:
//   - *ImageElement: the element, for chaining
func (e *ImageElement) SetSize(size common.Vec2) *ImageElement {
	e.size = size
	return e
}

// SetCrop draws only a pixel sub-rectangle of the sprite. Unlike SubSprite,
// cropping here does not create a new sprite, so the cached bind group is
// reused.
//
// Parameters:
//   - crop: the sub-rectangle in sprite pixels
//
// Returns:
//   - *ImageElement: the element, for chaining
func (e *ImageElement) SetCrop(crop common.Rect) *ImageElement {
	e.crop = &crop
	return e
}

// SetTint multiplies the sprite's colors by the given color.
//
// Parameters:
//   - tint: the tint color
//
// Returns:
//   - *ImageElement: the element, for chaining
func (e *ImageElement) SetTint(tint common.Color) *ImageElement {
	e.tint = tint
	return e
}

// SetFlip mirrors the sprite on either axis.
//
// Parameters:
//   - x: true to mirror horizontally
//   - y: true to mirror vertically
//
// Returns:
//   - *ImageElement: the element, for chaining
func (e *ImageElement) SetFlip(x, y bool) *ImageElement {
	e.flipX = x
	e.flipY = y
	return e
}

// Transform retrieves the element's local transform, creating it on first use.
//
// Returns:
//   - *Transform2D: the element's transform
func (e *ImageElement) Transform() *Transform2D {
	if e.transform == nil {
		e.transform = NewTransform2D()
	}
	return e.transform
}

func (e *ImageElement) draw(d *draw2D) error {
	if e.sprite == nil {
		return fmt.Errorf("image element requires a sprite")
	}

	frame := e.sprite.Frame()
	size := e.size
	if size.X == 0 && size.Y == 0 {
		size = e.sprite.Size()
	}

	if e.crop != nil {
		texW := float32(e.sprite.Texture().Width())
		texH := float32(e.sprite.Texture().Height())
		frame = common.NewRect(
			frame.X+e.crop.X/texW,
			frame.Y+e.crop.Y/texH,
			e.crop.Width/texW,
			e.crop.Height/texH,
		)
		if e.size.X == 0 && e.size.Y == 0 {
			size = common.Vec2{X: e.crop.Width, Y: e.crop.Height}
		}
	}

	u0, u1 := frame.X, frame.X+frame.Width
	v0, v1 := frame.Y, frame.Y+frame.Height
	if e.flipX {
		u0, u1 = u1, u0
	}
	if e.flipY {
		v0, v1 = v1, v0
	}

	origin := e.position
	if e.transform != nil {
		anchor := e.transform.Anchor()
		origin = origin.Sub(anchor.Mul(size))
	}

	var verts []float32
	verts = appendImageVertex(verts, origin, common.Vec2{X: u0, Y: v0}, e.tint)
	verts = appendImageVertex(verts, common.Vec2{X: origin.X + size.X, Y: origin.Y}, common.Vec2{X: u1, Y: v0}, e.tint)
	verts = appendImageVertex(verts, common.Vec2{X: origin.X + size.X, Y: origin.Y + size.Y}, common.Vec2{X: u1, Y: v1}, e.tint)
	verts = appendImageVertex(verts, common.Vec2{X: origin.X, Y: origin.Y + size.Y}, common.Vec2{X: u0, Y: v1}, e.tint)

	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineImages,
		Vertices:   verts,
		Indices:    quadIndices(),
		Sprite:     e.sprite,
		Transform:  elementMatrix(e.transform),
	})
}

func (d *draw2D) Image(s sprite.Sprite, position common.Vec2) *Drawing[*ImageElement] {
	return newDrawing(d, &ImageElement{
		sprite:   s,
		position: position,
		tint:     common.ColorWhite,
	})
}
