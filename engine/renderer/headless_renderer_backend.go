package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/renderer/pipeline"
)

// headlessBuffer is the in-memory raw buffer value used by the headless backend.
type headlessBuffer struct {
	data []byte
}

// RealizedPass records how one pass was realized by the headless backend, for
// inspection in tests.
type RealizedPass struct {
	// ClearColor is non-nil when the pass cleared its target before drawing.
	ClearColor *common.Color

	// PipelineKey identifies the pipeline set on the pass, or empty for a
	// clear-only pass.
	PipelineKey string

	// BindGroupIDs are the handle ids of the bind groups set on the pass, in
	// slot order.
	BindGroupIDs []uint64

	// VertexStart and VertexEnd are the bound vertex byte range.
	VertexStart, VertexEnd uint64

	// IndexStart and IndexEnd are the bound index byte range.
	IndexStart, IndexEnd uint64

	// DrawStart and DrawEnd are the index range drawn.
	DrawStart, DrawEnd uint32

	// Target is the label of the target render texture, or empty for the
	// surface.
	Target string
}

// HeadlessBackend is a RendererBackend that keeps buffer contents in host
// memory and records realized passes instead of submitting GPU work. It backs
// BackendTypeHeadless and is the backend of choice for tests and CI.
type HeadlessBackend struct {
	mu *sync.Mutex

	width  uint32
	height uint32

	presentMode PresentMode

	registeredPipelines map[string]bool

	frames [][]RealizedPass
}

var _ RendererBackend = &HeadlessBackend{}

// NewHeadlessBackend returns an empty headless backend with a 1280x720 virtual
// surface.
func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{
		mu:                  &sync.Mutex{},
		width:               1280,
		height:              720,
		registeredPipelines: make(map[string]bool),
	}
}

func (b *HeadlessBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width = uint32(width)
	b.height = uint32(height)
}

func (b *HeadlessBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *HeadlessBackend) SurfaceSize() (uint32, uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *HeadlessBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registeredPipelines[p.PipelineKey()] = true
	// A non-nil raw pipeline marks the pipeline as registered.
	p.SetRenderPipeline(struct{}{})
	return nil
}

func (b *HeadlessBackend) CreateBuffer(label string, usage BufferUsage, size uint64) (any, error) {
	return &headlessBuffer{data: make([]byte, size)}, nil
}

func (b *HeadlessBackend) WriteBuffer(raw any, offset uint64, data []byte) error {
	buf, ok := raw.(*headlessBuffer)
	if !ok {
		return errors.New("raw value is not a headless buffer")
	}
	if offset+uint64(len(data)) > uint64(len(buf.data)) {
		return fmt.Errorf("write of %d bytes at offset %d exceeds capacity %d", len(data), offset, len(buf.data))
	}
	copy(buf.data[offset:], data)
	return nil
}

func (b *HeadlessBackend) CopyBuffer(src, dst any, size uint64) error {
	srcBuf, ok := src.(*headlessBuffer)
	if !ok {
		return errors.New("source value is not a headless buffer")
	}
	dstBuf, ok := dst.(*headlessBuffer)
	if !ok {
		return errors.New("destination value is not a headless buffer")
	}
	copy(dstBuf.data[:size], srcBuf.data[:size])
	return nil
}

func (b *HeadlessBackend) DestroyBuffer(raw any) {}

func (b *HeadlessBackend) CreateTexture(label string, width, height uint32) (any, any, error) {
	pixels := make([]byte, width*height*4)
	return &pixels, struct{}{}, nil
}

func (b *HeadlessBackend) CreateRenderTexture(label string, width, height uint32) (any, any, error) {
	return b.CreateTexture(label, width, height)
}

func (b *HeadlessBackend) WriteTexture(raw any, width, height uint32, pixels []byte) error {
	stored, ok := raw.(*[]byte)
	if !ok {
		return errors.New("raw value is not a headless texture")
	}
	copy(*stored, pixels)
	return nil
}

func (b *HeadlessBackend) CreateSampler(label string, data common.SamplerStagingData) (any, error) {
	return struct{}{}, nil
}

func (b *HeadlessBackend) CreateBindGroup(label string, p pipeline.Pipeline, group int, entries []BindGroupEntry) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.registeredPipelines[p.PipelineKey()] {
		return nil, fmt.Errorf("pipeline %s is not registered", p.PipelineKey())
	}
	return struct{}{}, nil
}

func (b *HeadlessBackend) Render(passes *PassList, target *RenderTexture) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	frame := make([]RealizedPass, 0, passes.Len())
	for _, p := range passes.Passes() {
		rp := RealizedPass{
			ClearColor: p.ClearColor(),
		}
		if target != nil {
			rp.Target = target.label
		}
		if pl := p.Pipeline(); pl != nil {
			rp.PipelineKey = pl.PipelineKey()
			for _, bg := range p.BindGroups() {
				rp.BindGroupIDs = append(rp.BindGroupIDs, bg.id)
			}
			rp.VertexStart, rp.VertexEnd = p.VertexRange()
			rp.IndexStart, rp.IndexEnd = p.IndexRange()
			rp.DrawStart, rp.DrawEnd = p.DrawRange()
		}
		frame = append(frame, rp)
	}
	b.frames = append(b.frames, frame)
	return nil
}

// Frames returns every frame realized so far, each as its ordered pass records.
func (b *HeadlessBackend) Frames() [][]RealizedPass {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// LastFrame returns the pass records of the most recently realized frame, or
// nil when no frame has been rendered.
func (b *HeadlessBackend) LastFrame() []RealizedPass {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.frames) == 0 {
		return nil
	}
	return b.frames[len(b.frames)-1]
}

// BufferBytes returns a copy of the in-memory contents of buf.
func (b *HeadlessBackend) BufferBytes(buf *Buffer) []byte {
	raw, ok := buf.raw.(*headlessBuffer)
	if !ok {
		return nil
	}
	out := make([]byte, len(raw.data))
	copy(out, raw.data)
	return out
}
