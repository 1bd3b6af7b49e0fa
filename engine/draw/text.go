package draw

import (
	"fmt"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/sprite"
)

// TextElement draws a string with a grid font, one textured quad per glyph.
// Newlines start a new line; runes outside the font's range are skipped.
type TextElement struct {
	font          sprite.GridFont
	text          string
	position      common.Vec2
	scale         float32
	color         common.Color
	letterSpacing float32
	lineSpacing   float32
	transform     *Transform2D
}

// SetScale scales the glyphs relative to their cell size.
//
// Parameters:
//   - scale: the scale factor
//
// Returns:
//   - *TextElement: the element, for chaining
func (e *TextElement) SetScale(scale float32) *TextElement {
	e.scale = scale
	return e
}

// SetColor tints the glyphs.
//
// Parameters:
//   - color: the text color
//
// Returns:
//   - *TextElement: the element, for chaining
func (e *TextElement) SetColor(color common.Color) *TextElement {
	e.color = color
	return e
}

// SetLetterSpacing adds extra horizontal space between glyphs.
//
// Parameters:
//   - spacing: the extra space in world units
//
// Returns:
//   - *TextElement: the element, for chaining
func (e *TextElement) SetLetterSpacing(spacing float32) *TextElement {
	e.letterSpacing = spacing
	return e
}

// SetLineSpacing adds extra vertical space between lines.
//
// Parameters:
//   - spacing: the extra space in world units
//
// Returns:
//   - *TextElement: the element, for chaining
func (e *TextElement) SetLineSpacing(spacing float32) *TextElement {
	e.lineSpacing = spacing
	return e
}

// Transform retrieves the element's local transform, creating it on first use.
//
// Returns:
//   - *Transform2D: the element's transform
func (e *TextElement) Transform() *Transform2D {
	if e.transform == nil {
		e.transform = NewTransform2D()
	}
	return e.transform
}

func (e *TextElement) draw(d *draw2D) error {
	if e.font == nil {
		return fmt.Errorf("text element requires a font")
	}

	scale := e.scale
	if scale <= 0 {
		scale = 1
	}
	cell := e.font.CellSize().Scale(scale)
	advanceX := cell.X + e.letterSpacing
	advanceY := cell.Y + e.lineSpacing

	var verts []float32
	var indices []uint32
	cursor := e.position
	maxX := e.position.X
	lines := 1
	glyphs := uint32(0)

	for _, r := range e.text {
		if r == '\n' {
			cursor.X = e.position.X
			cursor.Y += advanceY
			lines++
			continue
		}

		frame, ok := e.font.GlyphFrame(r)
		if !ok {
			cursor.X += advanceX
			continue
		}

		u0, u1 := frame.X, frame.X+frame.Width
		v0, v1 := frame.Y, frame.Y+frame.Height
		verts = appendImageVertex(verts, cursor, common.Vec2{X: u0, Y: v0}, e.color)
		verts = appendImageVertex(verts, common.Vec2{X: cursor.X + cell.X, Y: cursor.Y}, common.Vec2{X: u1, Y: v0}, e.color)
		verts = appendImageVertex(verts, common.Vec2{X: cursor.X + cell.X, Y: cursor.Y + cell.Y}, common.Vec2{X: u1, Y: v1}, e.color)
		verts = appendImageVertex(verts, common.Vec2{X: cursor.X, Y: cursor.Y + cell.Y}, common.Vec2{X: u0, Y: v1}, e.color)

		base := glyphs * 4
		indices = append(indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
		glyphs++

		cursor.X += advanceX
		if cursor.X > maxX {
			maxX = cursor.X
		}
	}

	d.lastTextBounds = common.NewRect(
		e.position.X,
		e.position.Y,
		maxX-e.position.X,
		float32(lines)*advanceY-e.lineSpacing,
	)

	if glyphs == 0 {
		return nil
	}

	return d.AddToBatch(DrawInfo{
		PipelineID: DrawPipelineText,
		Vertices:   verts,
		Indices:    indices,
		Sprite:     e.font.Sprite(),
		Transform:  elementMatrix(e.transform),
	})
}

func (d *draw2D) Text(font sprite.GridFont, text string, position common.Vec2) *Drawing[*TextElement] {
	return newDrawing(d, &TextElement{
		font:     font,
		text:     text,
		position: position,
		color:    common.ColorWhite,
	})
}
