package draw

import (
	"github.com/Carmen-Shannon/ember-go/engine/renderer"
)

// batchInfo accumulates one draw call's worth of geometry: a contiguous byte
// range of the shared vertex and index buffers drawn with a single pipeline
// and bind group set.
type batchInfo struct {
	pipelineID DrawPipelineID
	ctx        PipelineContext
	bindGroups []*renderer.BindGroup

	vertexStart uint64
	vertexEnd   uint64
	indexStart  uint64
	indexEnd    uint64
	drawStart   uint32
	drawEnd     uint32
}

// isCompatible reports whether geometry using the given pipeline and bind
// groups can be appended to this batch. Batches only merge when both the
// pipeline and the full bind group list match, since either difference would
// require new state mid-draw.
func (b *batchInfo) isCompatible(ctx PipelineContext, bindGroups []*renderer.BindGroup) bool {
	if b.ctx.Pipeline().PipelineKey() != ctx.Pipeline().PipelineKey() {
		return false
	}
	if len(b.bindGroups) != len(bindGroups) {
		return false
	}
	for i, bg := range b.bindGroups {
		if bg.ID() != bindGroups[i].ID() {
			return false
		}
	}
	return true
}
