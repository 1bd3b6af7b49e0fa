package draw

import (
	"fmt"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/sprite"
)

// PatternElement fills a rectangle by tiling a sprite. The sprite's atlas
// frame rides along in the vertex data so the fragment shader can wrap within
// the frame instead of bleeding into atlas neighbors.
type PatternElement struct {
	sprite    sprite.Sprite
	rect      common.Rect
	tileSize  common.Vec2
	tint      common.Color
	transform *Transform2D
}

// SetTileSize overrides the size of one tile. The default is the sprite's
// pixel size.
//
// Parameters:
//   - size: the tile size in world units
//
// Returns:
//   - *PatternElement: the element, for chaining
func (e *PatternElement) SetTileSize(size common.Vec2) *PatternElement {
	e.tileSize = size
	return e
}

// SetTint multiplies the sprite's colors by the given color.
//
// Parameters:
//   - tint: the tint color
//
// Returns:
//   - *PatternElement: the element, for chaining
func (e *PatternElement) SetTint(tint common.Color) *PatternElement {
	e.tint = tint
	return e
}

// Transform retrieves the element's local transform, creating it on first use.
//
// Returns:
//   - *Transform2D: the element's transform
func (e *PatternElement) Transform() *Transform2D {
	if e.transform == nil {
		e.transform = NewTransform2D()
	}
	return e.transform
}

func (e *PatternElement) draw(d *draw2D) error {
	if e.sprite == nil {
		return fmt.Errorf("pattern element requires a sprite")
	}

	tile := e.tileSize
	if tile.X <= 0 || tile.Y <= 0 {
		tile = e.sprite.Size()
	}
	if tile.X <= 0 || tile.Y <= 0 {
		return fmt.Errorf("pattern tile size must be positive, got %vx%v", tile.X, tile.Y)
	}

	frame := e.sprite.Frame()
	r := e.rect
	// UVs are in tile units; the shader's fract maps them into the frame.
	tilesX := r.Width / tile.X
	tilesY := r.Height / tile.Y

	corners := []struct {
		p  common.Vec2
		uv common.Vec2
	}{
		{common.Vec2{X: r.X, Y: r.Y}, common.Vec2{}},
		{common.Vec2{X: r.X + r.Width, Y: r.Y}, common.Vec2{X: tilesX}},
		{common.Vec2{X: r.X + r.Width, Y: r.Y + r.Height}, common.Vec2{X: tilesX, Y: tilesY}},
		{common.Vec2{X: r.X, Y: r.Y + r.Height}, common.Vec2{Y: tilesY}},
	}

	var verts []float32
	for _, c := range corners {
		verts = append(verts,
			c.p.X, c.p.Y,
			c.uv.X, c.uv.Y,
			frame.X, frame.Y, frame.Width, frame.Height,
			e.tint.R, e.tint.G, e.tint.B, e.tint.A,
		)
	}

	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelinePattern,
		Vertices:   verts,
		Indices:    quadIndices(),
		Sprite:     e.sprite,
		Transform:  elementMatrix(e.transform),
	})
}

func (d *draw2D) Pattern(s sprite.Sprite, rect common.Rect) *Drawing[*PatternElement] {
	return newDrawing(d, &PatternElement{
		sprite: s,
		rect:   rect,
		tint:   common.ColorWhite,
	})
}
