package draw

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/ember-go/engine/renderer"
	"github.com/Carmen-Shannon/ember-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/ember-go/engine/renderer/shader"
	"github.com/Carmen-Shannon/ember-go/engine/sprite"
)

const defaultSpriteCacheCap = 16

// spriteBindGroupKey identifies a cached sprite bind group. The pipeline key
// is part of the identity because bind group layouts differ per pipeline.
type spriteBindGroupKey struct {
	pipelineKey string
	spriteID    uint64
}

// spriteCacheEntry tracks when a cached bind group was last handed out so the
// least recently used entry can be evicted.
type spriteCacheEntry struct {
	bindGroup *renderer.BindGroup
	lastUsed  uint64
}

// painter is the implementation of the Painter interface.
type painter struct {
	mu *sync.Mutex

	r         renderer.Renderer
	pipelines map[DrawPipelineID]PipelineContext

	projectionBuffer *renderer.Buffer
	vertexBuffer     *renderer.Buffer
	indexBuffer      *renderer.Buffer

	projectionBindGroups map[DrawPipelineID]*renderer.BindGroup
	spriteCache          map[spriteBindGroupKey]*spriteCacheEntry
	spriteCacheCap       int
	frame                uint64
}

// Painter owns the GPU resources shared by every Draw2D frame: the drawing
// pipelines, the projection uniform, the shared vertex and index buffers, and
// a bounded cache of per-sprite bind groups.
type Painter interface {
	// Renderer retrieves the renderer this painter allocates resources from.
	//
	// Returns:
	//   - renderer.Renderer: the underlying renderer
	Renderer() renderer.Renderer

	// Pipeline retrieves the pipeline context registered under the given ID.
	//
	// Parameters:
	//   - id: the drawing pipeline ID
	//
	// Returns:
	//   - PipelineContext: the registered context
	//   - bool: false if no pipeline is registered under the ID
	Pipeline(id DrawPipelineID) (PipelineContext, bool)

	// RegisterPipeline registers a custom drawing pipeline. The underlying
	// render pipeline is created immediately.
	//
	// Parameters:
	//   - id: the drawing pipeline ID to register under
	//   - ctx: the pipeline context describing the vertex layout
	//
	// Returns:
	//   - error: an error if the ID is taken or pipeline creation failed
	RegisterPipeline(id DrawPipelineID, ctx PipelineContext) error

	// ProjectionBuffer retrieves the shared projection uniform buffer.
	//
	// Returns:
	//   - *renderer.Buffer: the uniform buffer holding the projection matrix
	ProjectionBuffer() *renderer.Buffer

	// VertexBuffer retrieves the shared vertex buffer all batches write into.
	//
	// Returns:
	//   - *renderer.Buffer: the shared vertex buffer
	VertexBuffer() *renderer.Buffer

	// IndexBuffer retrieves the shared index buffer all batches write into.
	//
	// Returns:
	//   - *renderer.Buffer: the shared index buffer
	IndexBuffer() *renderer.Buffer

	// ProjectionBindGroup retrieves the group-0 bind group binding the
	// projection uniform for the given pipeline, creating it on first use.
	//
	// Parameters:
	//   - id: the drawing pipeline ID
	//
	// Returns:
	//   - *renderer.BindGroup: the projection bind group
	//   - error: an error if the pipeline is unknown or creation failed
	ProjectionBindGroup(id DrawPipelineID) (*renderer.BindGroup, error)

	// SpriteBindGroup retrieves the group-1 bind group for drawing the given
	// sprite with the given pipeline. Bind groups are cached with LRU
	// eviction; entries used in the current frame are never evicted since
	// their batches have not been realized yet.
	//
	// Parameters:
	//   - id: the drawing pipeline ID
	//   - s: the sprite to bind
	//
	// Returns:
	//   - *renderer.BindGroup: the sprite bind group
	//   - error: an error if the pipeline is unknown or creation failed
	SpriteBindGroup(id DrawPipelineID, s sprite.Sprite) (*renderer.BindGroup, error)

	// AdvanceFrame marks the end of a rendered frame, unpinning this frame's
	// cached bind groups so they become evictable again.
	AdvanceFrame()
}

var _ Painter = &painter{}

// NewPainter creates a painter, allocates the shared projection, vertex, and
// index buffers, and registers the built-in shapes, images, text, and pattern
// pipelines on the renderer.
//
// Parameters:
//   - r: the renderer to allocate resources from
//   - options: optional builder functions to configure the painter
//
// Returns:
//   - Painter: the created painter
//   - error: an error if resource allocation or pipeline registration failed
func NewPainter(r renderer.Renderer, options ...PainterOption) (Painter, error) {
	p := &painter{
		mu:                   &sync.Mutex{},
		r:                    r,
		pipelines:            make(map[DrawPipelineID]PipelineContext),
		projectionBindGroups: make(map[DrawPipelineID]*renderer.BindGroup),
		spriteCache:          make(map[spriteBindGroupKey]*spriteCacheEntry),
		spriteCacheCap:       defaultSpriteCacheCap,
		frame:                1,
	}

	opts := &painterOptions{}
	for _, opt := range options {
		opt(opts)
	}
	if opts.spriteCacheCap > 0 {
		p.spriteCacheCap = opts.spriteCacheCap
	}

	var err error
	p.projectionBuffer, err = r.CreateBuffer("painter_projection", renderer.BufferUsageUniform, 64, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create projection buffer: %w", err)
	}
	p.vertexBuffer, err = r.CreateBuffer("painter_vertices", renderer.BufferUsageVertex, 0, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex buffer: %w", err)
	}
	p.indexBuffer, err = r.CreateBuffer("painter_indices", renderer.BufferUsageIndex, 0, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create index buffer: %w", err)
	}

	if !opts.skipDefaultPipelines {
		if err := p.registerDefaultPipelines(); err != nil {
			return nil, err
		}
	}
	for id, ctx := range opts.customPipelines {
		if err := p.RegisterPipeline(id, ctx); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *painter) Renderer() renderer.Renderer {
	return p.r
}

func (p *painter) Pipeline(id DrawPipelineID) (PipelineContext, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ctx, ok := p.pipelines[id]
	return ctx, ok
}

func (p *painter) RegisterPipeline(id DrawPipelineID, ctx PipelineContext) error {
	p.mu.Lock()
	if _, exists := p.pipelines[id]; exists {
		p.mu.Unlock()
		return fmt.Errorf("drawing pipeline %q is already registered", id)
	}
	p.mu.Unlock()

	if err := p.r.RegisterPipelines(ctx.Pipeline()); err != nil {
		return fmt.Errorf("failed to register drawing pipeline %q: %w", id, err)
	}

	p.mu.Lock()
	p.pipelines[id] = ctx
	p.mu.Unlock()
	return nil
}

func (p *painter) ProjectionBuffer() *renderer.Buffer {
	return p.projectionBuffer
}

func (p *painter) VertexBuffer() *renderer.Buffer {
	return p.vertexBuffer
}

func (p *painter) IndexBuffer() *renderer.Buffer {
	return p.indexBuffer
}

func (p *painter) ProjectionBindGroup(id DrawPipelineID) (*renderer.BindGroup, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if bg, ok := p.projectionBindGroups[id]; ok {
		return bg, nil
	}

	ctx, ok := p.pipelines[id]
	if !ok {
		return nil, fmt.Errorf("unknown drawing pipeline %q", id)
	}

	bg, err := p.r.CreateBindGroup(string(id)+"_projection", ctx.Pipeline(), 0, renderer.BindGroupEntry{
		Binding: 0,
		Buffer:  p.projectionBuffer,
		Size:    64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create projection bind group for %q: %w", id, err)
	}

	p.projectionBindGroups[id] = bg
	return bg, nil
}

func (p *painter) SpriteBindGroup(id DrawPipelineID, s sprite.Sprite) (*renderer.BindGroup, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, ok := p.pipelines[id]
	if !ok {
		return nil, fmt.Errorf("unknown drawing pipeline %q", id)
	}

	key := spriteBindGroupKey{
		pipelineKey: ctx.Pipeline().PipelineKey(),
		spriteID:    s.ID(),
	}
	if entry, ok := p.spriteCache[key]; ok {
		entry.lastUsed = p.frame
		return entry.bindGroup, nil
	}

	if len(p.spriteCache) >= p.spriteCacheCap {
		p.evictOldestSpriteEntry()
	}

	bg, err := p.r.CreateBindGroup(s.Label(), ctx.Pipeline(), 1,
		renderer.BindGroupEntry{
			Binding: 0,
			Texture: s.Texture(),
		},
		renderer.BindGroupEntry{
			Binding: 1,
			Sampler: s.Sampler(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sprite bind group for %q: %w", s.Label(), err)
	}

	p.spriteCache[key] = &spriteCacheEntry{
		bindGroup: bg,
		lastUsed:  p.frame,
	}
	return bg, nil
}

func (p *painter) AdvanceFrame() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame++
}

// evictOldestSpriteEntry removes the least recently used cache entry that is
// not pinned by the current frame. Entries handed out this frame stay resident
// because their batches have not been submitted yet. Callers must hold the mutex.
func (p *painter) evictOldestSpriteEntry() {
	var oldestKey spriteBindGroupKey
	var oldest *spriteCacheEntry
	for key, entry := range p.spriteCache {
		if entry.lastUsed == p.frame {
			continue
		}
		if oldest == nil || entry.lastUsed < oldest.lastUsed {
			oldestKey = key
			oldest = entry
		}
	}
	if oldest != nil {
		delete(p.spriteCache, oldestKey)
	}
}

// registerDefaultPipelines creates and registers the built-in shapes, images,
// text, and pattern pipelines from the embedded WGSL sources.
func (p *painter) registerDefaultPipelines() error {
	builtins := []struct {
		id       DrawPipelineID
		source   string
		stride   int
		alphaPos int
		textured bool
	}{
		{DrawPipelineShapes, shapesShaderSource, 6, 5, false},
		{DrawPipelineImages, imagesShaderSource, 8, 7, true},
		{DrawPipelineText, imagesShaderSource, 8, 7, true},
		{DrawPipelinePattern, patternShaderSource, 12, 11, true},
	}

	for _, b := range builtins {
		key := "draw2d_" + string(b.id)
		pl := pipeline.NewPipeline(key,
			pipeline.WithVertexShader(shader.NewShader(key+"_vert", shader.ShaderTypeVertex, b.source)),
			pipeline.WithFragmentShader(shader.NewShader(key+"_frag", shader.ShaderTypeFragment, b.source)),
			pipeline.WithBlendEnabled(true),
		)
		if err := p.RegisterPipeline(b.id, NewPipelineContext(pl, b.stride, b.alphaPos, b.textured)); err != nil {
			return err
		}
	}
	return nil
}
