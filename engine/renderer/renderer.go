package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/ember-go/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	nextResourceID uint64

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer is the high-level GPU resource and frame API.
//
// It manages a cache of registered pipelines, hands out stable handles to GPU
// resources (buffers, textures, samplers, bind groups, render textures), and
// realizes frames described as ordered pass lists. The backend split allows
// multiple GPU API implementations to exist behind the same surface.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves the entire cache of Pipelines.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines registers one or more pipelines by creating the corresponding
	// GPU pipeline objects via the backend, then caching them by PipelineKey.
	// Pipelines whose keys are already registered are skipped to avoid duplicate GPU resource creation.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SurfaceSize returns the current surface size in pixels.
	//
	// Returns:
	//   - uint32: surface width
	//   - uint32: surface height
	SurfaceSize() (uint32, uint32)

	// CreateBuffer allocates a GPU buffer and returns a stable handle to it.
	// A size of zero allocates a small default capacity.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - usage: what the buffer holds
	//   - size: initial capacity in bytes, or zero for the default
	//   - writable: whether the buffer accepts WriteBuffer calls
	//
	// Returns:
	//   - *Buffer: the buffer handle
	//   - error: an error if allocation fails
	CreateBuffer(label string, usage BufferUsage, size uint64, writable bool) (*Buffer, error)

	// WriteBuffer writes data into buf at the given byte offset. If the write
	// extends past the buffer's capacity, the underlying GPU allocation is
	// replaced with one grown to the next power of two that fits, the bytes
	// below offset are preserved, and the handle stays valid so callers never
	// need to re-bind after growth.
	//
	// Parameters:
	//   - buf: the buffer handle
	//   - offset: destination offset in bytes
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: an error if the buffer is not writable or the write fails
	WriteBuffer(buf *Buffer, offset uint64, data []byte) error

	// CreateTexture allocates an RGBA8 texture and uploads the given pixel
	// data. Pixels may be nil to leave the texture contents undefined.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//   - pixels: RGBA8 pixel data, 4 bytes per pixel in row-major order, or nil
	//
	// Returns:
	//   - *Texture: the texture handle
	//   - error: an error if allocation or upload fails
	CreateTexture(label string, width, height uint32, pixels []byte) (*Texture, error)

	// WriteTexture replaces the full pixel contents of tex. The data must
	// cover the texture's whole extent.
	//
	// Parameters:
	//   - tex: the texture handle
	//   - pixels: RGBA8 pixel data covering width*height pixels
	//
	// Returns:
	//   - error: an error if the texture is not writable or the upload fails
	WriteTexture(tex *Texture, pixels []byte) error

	// CreateSampler creates a sampler from staging configuration.
	//
	// Parameters:
	//   - label: debug label for the sampler
	//   - data: the sampler configuration
	//
	// Returns:
	//   - *Sampler: the sampler handle
	//   - error: an error if creation fails
	CreateSampler(label string, data common.SamplerStagingData) (*Sampler, error)

	// CreateRenderTexture allocates an offscreen render target that can also
	// be sampled as a texture.
	//
	// Parameters:
	//   - label: debug label for the target
	//   - width: target width in pixels
	//   - height: target height in pixels
	//
	// Returns:
	//   - *RenderTexture: the render texture handle
	//   - error: an error if allocation fails
	CreateRenderTexture(label string, width, height uint32) (*RenderTexture, error)

	// CreateBindGroup creates a bind group for the given pipeline's bind group
	// slot from the provided entries.
	//
	// Parameters:
	//   - label: debug label for the bind group
	//   - p: the registered pipeline whose layout the group must match
	//   - group: the bind group slot index
	//   - entries: the resources to bind
	//
	// Returns:
	//   - *BindGroup: the bind group handle
	//   - error: an error if creation fails
	CreateBindGroup(label string, p pipeline.Pipeline, group int, entries ...BindGroupEntry) (*BindGroup, error)

	// Render realizes the pass list in order, so later passes paint over
	// earlier ones. A nil target draws to the presentation surface and
	// presents the result; a non-nil target draws into the RenderTexture.
	//
	// Parameters:
	//   - passes: the passes to realize in order
	//   - target: the offscreen target, or nil for the surface
	//
	// Returns:
	//   - error: an error if the frame could not be realized
	Render(passes *PassList, target *RenderTexture) error

	// Backend returns the underlying backend implementation.
	//
	// Returns:
	//   - RendererBackend: the backend
	Backend() RendererBackend
}

var _ Renderer = &renderer{}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pipelines {
		if _, ok := r.pipelineCache[p.PipelineKey()]; ok {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %s: %w", p.PipelineKey(), err)
		}
		r.pipelineCache[p.PipelineKey()] = p
	}
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SurfaceSize() (uint32, uint32) {
	return r.backend.SurfaceSize()
}

func (r *renderer) CreateBuffer(label string, usage BufferUsage, size uint64, writable bool) (*Buffer, error) {
	if size == 0 {
		size = defaultBufferSize
	}
	raw, err := r.backend.CreateBuffer(label, usage, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %s: %w", label, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextResourceID++
	return &Buffer{
		id:       r.nextResourceID,
		label:    label,
		usage:    usage,
		capacity: size,
		writable: writable,
		raw:      raw,
	}, nil
}

func (r *renderer) WriteBuffer(buf *Buffer, offset uint64, data []byte) error {
	if !buf.writable {
		return fmt.Errorf("buffer %s is not writable", buf.label)
	}
	if len(data) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	required := offset + uint64(len(data))
	if required > buf.capacity {
		newCapacity := common.NextPowerOfTwo(max(required, buf.capacity))
		raw, err := r.backend.CreateBuffer(buf.label, buf.usage, newCapacity)
		if err != nil {
			return fmt.Errorf("failed to grow buffer %s: %w", buf.label, err)
		}
		// Preserve the bytes below the write offset; everything at or past
		// offset is about to be overwritten. The old allocation may hold
		// fewer bytes than the offset when the write lands past the end.
		if keep := min(offset, buf.capacity); keep > 0 {
			if err := r.backend.CopyBuffer(buf.raw, raw, keep); err != nil {
				r.backend.DestroyBuffer(raw)
				return fmt.Errorf("failed to migrate buffer %s contents: %w", buf.label, err)
			}
		}
		r.backend.DestroyBuffer(buf.raw)
		buf.raw = raw
		buf.capacity = newCapacity
	}

	return r.backend.WriteBuffer(buf.raw, offset, data)
}

func (r *renderer) CreateTexture(label string, width, height uint32, pixels []byte) (*Texture, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("texture %s has zero area (%dx%d)", label, width, height)
	}
	raw, view, err := r.backend.CreateTexture(label, width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %s: %w", label, err)
	}
	if len(pixels) > 0 {
		if err := r.backend.WriteTexture(raw, width, height, pixels); err != nil {
			return nil, fmt.Errorf("failed to upload texture %s: %w", label, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextResourceID++
	return &Texture{
		id:       r.nextResourceID,
		label:    label,
		width:    width,
		height:   height,
		writable: true,
		raw:      raw,
		view:     view,
	}, nil
}

func (r *renderer) WriteTexture(tex *Texture, pixels []byte) error {
	if !tex.writable {
		return fmt.Errorf("texture %s is not writable", tex.label)
	}
	if uint32(len(pixels)) != tex.width*tex.height*4 {
		return fmt.Errorf("texture %s write size mismatch: got %d bytes, want %d", tex.label, len(pixels), tex.width*tex.height*4)
	}
	return r.backend.WriteTexture(tex.raw, tex.width, tex.height, pixels)
}

func (r *renderer) CreateSampler(label string, data common.SamplerStagingData) (*Sampler, error) {
	raw, err := r.backend.CreateSampler(label, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler %s: %w", label, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextResourceID++
	return &Sampler{
		id:    r.nextResourceID,
		label: label,
		raw:   raw,
	}, nil
}

func (r *renderer) CreateRenderTexture(label string, width, height uint32) (*RenderTexture, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("render texture %s has zero area (%dx%d)", label, width, height)
	}
	raw, view, err := r.backend.CreateRenderTexture(label, width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create render texture %s: %w", label, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextResourceID++
	tex := &Texture{
		id:     r.nextResourceID,
		label:  label,
		width:  width,
		height: height,
		raw:    raw,
		view:   view,
	}
	r.nextResourceID++
	return &RenderTexture{
		id:      r.nextResourceID,
		label:   label,
		texture: tex,
	}, nil
}

func (r *renderer) CreateBindGroup(label string, p pipeline.Pipeline, group int, entries ...BindGroupEntry) (*BindGroup, error) {
	raw, err := r.backend.CreateBindGroup(label, p, group, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group %s: %w", label, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextResourceID++
	return &BindGroup{
		id:    r.nextResourceID,
		label: label,
		raw:   raw,
	}, nil
}

func (r *renderer) Render(passes *PassList, target *RenderTexture) error {
	return r.backend.Render(passes, target)
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

// NewRenderer creates a new Renderer instance with the specified backend type,
// attached to the given window's surface. The window may be nil for the
// headless backend.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window providing the presentation surface
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the initialized renderer
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeHeadless:
		r.backend = NewHeadlessBackend()
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	return r
}

// NewRendererWithBackend wraps an existing backend in a Renderer. Useful for
// tests and custom backend implementations.
//
// Parameters:
//   - backend: the backend to wrap
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the initialized renderer
func NewRendererWithBackend(backend RendererBackend, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backend:       backend,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	return r
}
