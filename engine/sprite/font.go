package sprite

import (
	"fmt"

	"github.com/Carmen-Shannon/ember-go/common"
)

// gridFont is the implementation of the GridFont interface.
type gridFont struct {
	sprite    Sprite
	columns   int
	rows      int
	firstRune rune
	cellSize  common.Vec2
}

// GridFont is a bitmap font backed by a sprite sheet laid out as a uniform
// grid of glyph cells. Glyphs are mapped to cells left-to-right, top-to-bottom
// starting from a configurable first rune.
type GridFont interface {
	// Sprite retrieves the sprite sheet backing this font.
	//
	// Returns:
	//   - Sprite: the font's sprite sheet
	Sprite() Sprite

	// CellSize retrieves the pixel dimensions of a single glyph cell.
	//
	// Returns:
	//   - common.Vec2: the cell size in pixels
	CellSize() common.Vec2

	// GlyphFrame retrieves the normalized texture frame for the given rune.
	//
	// Parameters:
	//   - r: the rune to look up
	//
	// Returns:
	//   - common.Rect: the glyph's normalized frame within the sheet
	//   - bool: false if the rune falls outside the sheet's range
	GlyphFrame(r rune) (common.Rect, bool)
}

var _ GridFont = &gridFont{}

// NewGridFont creates a GridFont from a sprite sheet divided into a uniform
// grid. Cell pixel size is derived from the sprite size and the grid shape.
//
// Parameters:
//   - s: the sprite sheet containing the glyphs
//   - columns: the number of glyph columns in the sheet
//   - rows: the number of glyph rows in the sheet
//   - firstRune: the rune mapped to the top-left cell (commonly ' ')
//
// Returns:
//   - GridFont: the created font
//   - error: an error if the grid shape is invalid
func NewGridFont(s Sprite, columns, rows int, firstRune rune) (GridFont, error) {
	if s == nil {
		return nil, fmt.Errorf("font: sprite must not be nil")
	}
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("font: grid must have positive dimensions, got %dx%d", columns, rows)
	}

	size := s.Size()
	return &gridFont{
		sprite:    s,
		columns:   columns,
		rows:      rows,
		firstRune: firstRune,
		cellSize: common.Vec2{
			X: size.X / float32(columns),
			Y: size.Y / float32(rows),
		},
	}, nil
}

func (f *gridFont) Sprite() Sprite {
	return f.sprite
}

func (f *gridFont) CellSize() common.Vec2 {
	return f.cellSize
}

func (f *gridFont) GlyphFrame(r rune) (common.Rect, bool) {
	index := int(r - f.firstRune)
	if index < 0 || index >= f.columns*f.rows {
		return common.Rect{}, false
	}

	col := index % f.columns
	row := index / f.columns

	frame := f.sprite.Frame()
	cellW := frame.Width / float32(f.columns)
	cellH := frame.Height / float32(f.rows)

	return common.NewRect(
		frame.X+float32(col)*cellW,
		frame.Y+float32(row)*cellH,
		cellW,
		cellH,
	), true
}
