package renderer

import (
	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/renderer/pipeline"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless selects an in-memory backend that records resource
	// operations and realized passes without touching a GPU. Used for tests
	// and CI environments without a display.
	BackendTypeHeadless
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// BindGroupEntry describes one resource bound at a binding index when creating
// a bind group. Exactly one of Buffer, Texture, or Sampler must be set.
type BindGroupEntry struct {
	// Binding is the @binding index in the shader.
	Binding uint32

	// Buffer binds a buffer resource.
	Buffer *Buffer

	// Size limits a buffer binding to the first Size bytes. Zero binds the
	// whole buffer.
	Size uint64

	// Texture binds a texture view resource.
	Texture *Texture

	// Sampler binds a sampler resource.
	Sampler *Sampler
}

// RendererBackend is the low-level GPU interface behind a Renderer. It deals in
// opaque raw resource values carried inside the renderer's handle types, so
// alternative implementations (hardware WGPU, headless) stay interchangeable.
type RendererBackend interface {
	// ConfigureSurface (re)configures the presentation surface to the given
	// size in physical pixels.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets how frames are delivered to the display.
	// Takes effect on the next ConfigureSurface.
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

	// RegisterRenderPipeline compiles the pipeline's shaders and creates the
	// GPU pipeline object, storing it on the Pipeline.
	//
	// Parameters:
	//   - p: the Pipeline configuration to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// CreateBuffer allocates a raw GPU buffer.
	//
	// Parameters:
	//   - label: debug label
	//   - usage: what the buffer holds
	//   - size: allocation size in bytes
	//
	// Returns:
	//   - any: the raw buffer value
	//   - error: an error if allocation fails
	CreateBuffer(label string, usage BufferUsage, size uint64) (any, error)

	// WriteBuffer queues a write of data into the raw buffer at offset.
	//
	// Parameters:
	//   - raw: the raw buffer value
	//   - offset: destination offset in bytes
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: an error if the write could not be queued
	WriteBuffer(raw any, offset uint64, data []byte) error

	// CopyBuffer copies the first size bytes from src to dst on the GPU.
	//
	// Parameters:
	//   - src: the raw source buffer
	//   - dst: the raw destination buffer
	//   - size: bytes to copy
	//
	// Returns:
	//   - error: an error if the copy could not be encoded
	CopyBuffer(src, dst any, size uint64) error

	// DestroyBuffer releases a raw buffer.
	//
	// Parameters:
	//   - raw: the raw buffer value
	DestroyBuffer(raw any)

	// CreateTexture allocates an RGBA8 texture and returns its raw texture
	// and view values.
	//
	// Parameters:
	//   - label: debug label
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//
	// Returns:
	//   - any: the raw texture value
	//   - any: the raw texture view value
	//   - error: an error if allocation fails
	CreateTexture(label string, width, height uint32) (any, any, error)

	// WriteTexture queues a full upload of RGBA8 pixel data into a texture.
	//
	// Parameters:
	//   - raw: the raw texture value
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//   - pixels: RGBA8 pixel data, 4 bytes per pixel, row-major
	//
	// Returns:
	//   - error: an error if the upload could not be queued
	WriteTexture(raw any, width, height uint32, pixels []byte) error

	// CreateRenderTexture allocates an RGBA8 texture usable both as a render
	// attachment and as a sampled texture.
	//
	// Parameters:
	//   - label: debug label
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//
	// Returns:
	//   - any: the raw texture value
	//   - any: the raw texture view value
	//   - error: an error if allocation fails
	CreateRenderTexture(label string, width, height uint32) (any, any, error)

	// CreateSampler creates a raw sampler from staging configuration.
	//
	// Parameters:
	//   - label: debug label
	//   - data: the sampler configuration
	//
	// Returns:
	//   - any: the raw sampler value
	//   - error: an error if creation fails
	CreateSampler(label string, data common.SamplerStagingData) (any, error)

	// CreateBindGroup creates a raw bind group for the given pipeline's bind
	// group slot.
	//
	// Parameters:
	//   - label: debug label
	//   - p: the registered pipeline whose layout the group must match
	//   - group: the bind group slot index
	//   - entries: the resources to bind
	//
	// Returns:
	//   - any: the raw bind group value
	//   - error: an error if creation fails
	CreateBindGroup(label string, p pipeline.Pipeline, group int, entries []BindGroupEntry) (any, error)

	// Render realizes the pass list against the target. A nil target draws to
	// the presentation surface and presents the result; a non-nil target draws
	// into the RenderTexture.
	//
	// Parameters:
	//   - passes: the passes to realize in order
	//   - target: the offscreen target, or nil for the surface
	//
	// Returns:
	//   - error: an error if the frame could not be realized
	Render(passes *PassList, target *RenderTexture) error
}
