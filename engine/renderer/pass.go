package renderer

import (
	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/renderer/pipeline"
)

// RenderPass describes a single pass in a frame: an optional clear, a pipeline,
// buffer byte ranges, bind groups, and an index range to draw. A pass with no
// pipeline realizes as a clear (or no-op) pass.
type RenderPass struct {
	clearColor *common.Color

	pipeline pipeline.Pipeline

	vertexBuffer *Buffer
	vertexStart  uint64
	vertexEnd    uint64

	indexBuffer *Buffer
	indexStart  uint64
	indexEnd    uint64

	bindGroups []*BindGroup

	drawStart uint32
	drawEnd   uint32
}

// SetClearColor makes the pass clear its target to the given color before
// drawing.
func (p *RenderPass) SetClearColor(c common.Color) *RenderPass {
	p.clearColor = &c
	return p
}

// SetPipeline sets the render pipeline for this pass.
func (p *RenderPass) SetPipeline(pl pipeline.Pipeline) *RenderPass {
	p.pipeline = pl
	return p
}

// SetVertexBuffer binds a byte range [start, end) of buf as vertex data.
//
// Parameters:
//   - buf: the vertex buffer
//   - start: range start in bytes
//   - end: range end in bytes, exclusive
//
// Returns:
//   - *RenderPass: the pass for chaining
func (p *RenderPass) SetVertexBuffer(buf *Buffer, start, end uint64) *RenderPass {
	p.vertexBuffer = buf
	p.vertexStart = start
	p.vertexEnd = end
	return p
}

// SetIndexBuffer binds a byte range [start, end) of buf as 32-bit index data.
//
// Parameters:
//   - buf: the index buffer
//   - start: range start in bytes
//   - end: range end in bytes, exclusive
//
// Returns:
//   - *RenderPass: the pass for chaining
func (p *RenderPass) SetIndexBuffer(buf *Buffer, start, end uint64) *RenderPass {
	p.indexBuffer = buf
	p.indexStart = start
	p.indexEnd = end
	return p
}

// SetBindGroups sets the bind groups for this pass in slot order.
func (p *RenderPass) SetBindGroups(groups ...*BindGroup) *RenderPass {
	p.bindGroups = groups
	return p
}

// SetDrawRange sets the index range [start, end) to draw, relative to the
// bound index buffer range.
func (p *RenderPass) SetDrawRange(start, end uint32) *RenderPass {
	p.drawStart = start
	p.drawEnd = end
	return p
}

// ClearColor returns the pass clear color, or nil when the pass loads the
// previous contents.
func (p *RenderPass) ClearColor() *common.Color {
	return p.clearColor
}

// Pipeline returns the pass pipeline, or nil for a clear-only pass.
func (p *RenderPass) Pipeline() pipeline.Pipeline {
	return p.pipeline
}

// BindGroups returns the pass bind groups in slot order.
func (p *RenderPass) BindGroups() []*BindGroup {
	return p.bindGroups
}

// VertexRange returns the bound vertex byte range.
func (p *RenderPass) VertexRange() (uint64, uint64) {
	return p.vertexStart, p.vertexEnd
}

// IndexRange returns the bound index byte range.
func (p *RenderPass) IndexRange() (uint64, uint64) {
	return p.indexStart, p.indexEnd
}

// DrawRange returns the index range to draw.
func (p *RenderPass) DrawRange() (uint32, uint32) {
	return p.drawStart, p.drawEnd
}

// PassList is an ordered list of render passes making up one frame. Passes are
// realized strictly in list order so later passes paint over earlier ones.
type PassList struct {
	passes []*RenderPass
}

// NewPassList returns an empty pass list.
func NewPassList() *PassList {
	return &PassList{}
}

// BeginPass appends a new empty pass to the list and returns it for
// configuration.
func (l *PassList) BeginPass() *RenderPass {
	p := &RenderPass{}
	l.passes = append(l.passes, p)
	return p
}

// Passes returns the passes in realization order.
func (l *PassList) Passes() []*RenderPass {
	return l.passes
}

// Len returns the number of passes.
func (l *PassList) Len() int {
	return len(l.passes)
}
