package draw

import (
	"github.com/Carmen-Shannon/ember-go/engine/renderer/pipeline"
)

// DrawPipelineID identifies a drawing pipeline registered with the painter.
type DrawPipelineID string

const (
	// DrawPipelineShapes renders solid-color geometry with a
	// [x, y, r, g, b, a] vertex layout.
	DrawPipelineShapes DrawPipelineID = "shapes"

	// DrawPipelineImages renders textured quads with a
	// [x, y, u, v, r, g, b, a] vertex layout.
	DrawPipelineImages DrawPipelineID = "images"

	// DrawPipelineText renders bitmap font glyphs. It shares the image vertex
	// layout but keeps its own pipeline so text batches stay separate.
	DrawPipelineText DrawPipelineID = "text"

	// DrawPipelinePattern tiles sprites across arbitrary geometry with a
	// [x, y, u, v, frame, r, g, b, a] vertex layout where frame is four floats.
	DrawPipelinePattern DrawPipelineID = "pattern"
)

// PipelineContext describes how a drawing pipeline consumes vertex data: the
// render pipeline itself, the vertex stride in floats, where the position and
// alpha channels sit within a vertex, and whether group 1 expects a sprite
// bind group.
type PipelineContext struct {
	pipeline pipeline.Pipeline
	stride   int
	xPos     int
	yPos     int
	alphaPos int
	textured bool
}

// NewPipelineContext creates a PipelineContext for a custom drawing pipeline.
// The position channels default to floats 0 and 1; pipelines with a different
// layout override them via WithPositionChannels.
//
// Parameters:
//   - p: the render pipeline to draw with
//   - stride: the number of floats per vertex
//   - alphaPos: the index of the alpha channel within a vertex, or -1 if none
//   - textured: true when the pipeline samples a sprite at bind group 1
//
// Returns:
//   - PipelineContext: the created context
func NewPipelineContext(p pipeline.Pipeline, stride, alphaPos int, textured bool) PipelineContext {
	return PipelineContext{
		pipeline: p,
		stride:   stride,
		xPos:     0,
		yPos:     1,
		alphaPos: alphaPos,
		textured: textured,
	}
}

// WithPositionChannels returns a copy of the context with the x and y position
// channels at the given vertex float indices.
//
// Parameters:
//   - xPos: the index of the x coordinate within a vertex
//   - yPos: the index of the y coordinate within a vertex
//
// Returns:
//   - PipelineContext: the adjusted context
func (c PipelineContext) WithPositionChannels(xPos, yPos int) PipelineContext {
	c.xPos = xPos
	c.yPos = yPos
	return c
}

// Pipeline retrieves the render pipeline this context draws with.
//
// Returns:
//   - pipeline.Pipeline: the render pipeline
func (c PipelineContext) Pipeline() pipeline.Pipeline {
	return c.pipeline
}

// Stride retrieves the number of floats per vertex.
//
// Returns:
//   - int: the vertex stride in floats
func (c PipelineContext) Stride() int {
	return c.stride
}

// XPos retrieves the index of the x coordinate within a vertex.
//
// Returns:
//   - int: the x channel index
func (c PipelineContext) XPos() int {
	return c.xPos
}

// YPos retrieves the index of the y coordinate within a vertex.
//
// Returns:
//   - int: the y channel index
func (c PipelineContext) YPos() int {
	return c.yPos
}

// AlphaPos retrieves the index of the alpha channel within a vertex, or -1
// when the layout has no alpha channel.
//
// Returns:
//   - int: the alpha channel index
func (c PipelineContext) AlphaPos() int {
	return c.alphaPos
}

// Textured reports whether the pipeline expects a sprite bind group at group 1.
//
// Returns:
//   - bool: true for textured pipelines
func (c PipelineContext) Textured() bool {
	return c.textured
}
