package renderer

// BufferUsage describes what a GPU buffer holds.
type BufferUsage int

const (
	// BufferUsageVertex marks a buffer holding vertex data.
	BufferUsageVertex BufferUsage = iota
	// BufferUsageIndex marks a buffer holding 32-bit index data.
	BufferUsageIndex
	// BufferUsageUniform marks a buffer holding uniform data.
	BufferUsageUniform
)

// defaultBufferSize is the initial capacity used when a buffer is created
// without an explicit size.
const defaultBufferSize uint64 = 1024

// Buffer is a handle to a GPU buffer. The handle's identity is stable for the
// buffer's lifetime: writes that outgrow the current capacity replace the
// underlying GPU allocation in place, so callers never need to re-bind after
// growth.
type Buffer struct {
	id       uint64
	label    string
	usage    BufferUsage
	capacity uint64
	writable bool
	raw      any
}

// ID returns the buffer's unique identifier.
func (b *Buffer) ID() uint64 {
	return b.id
}

// Label returns the buffer's debug label.
func (b *Buffer) Label() string {
	return b.label
}

// Usage returns what the buffer holds.
func (b *Buffer) Usage() BufferUsage {
	return b.usage
}

// Capacity returns the current GPU allocation size in bytes.
func (b *Buffer) Capacity() uint64 {
	return b.capacity
}

// Writable reports whether the buffer accepts WriteBuffer calls.
func (b *Buffer) Writable() bool {
	return b.writable
}

// Texture is a handle to an immutable-size GPU texture in RGBA8 format.
type Texture struct {
	id       uint64
	label    string
	width    uint32
	height   uint32
	writable bool
	raw      any
	view     any
}

// ID returns the texture's unique identifier.
func (t *Texture) ID() uint64 {
	return t.id
}

// Label returns the texture's debug label.
func (t *Texture) Label() string {
	return t.label
}

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 {
	return t.width
}

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 {
	return t.height
}

// Writable reports whether the texture accepts WriteTexture calls.
func (t *Texture) Writable() bool {
	return t.writable
}

// Sampler is a handle to a GPU sampler.
type Sampler struct {
	id    uint64
	label string
	raw   any
}

// ID returns the sampler's unique identifier.
func (s *Sampler) ID() uint64 {
	return s.id
}

// Label returns the sampler's debug label.
func (s *Sampler) Label() string {
	return s.label
}

// BindGroup is a handle to a GPU bind group: a fixed set of resources bound
// together for a pipeline's bind group slot.
type BindGroup struct {
	id    uint64
	label string
	raw   any
}

// ID returns the bind group's unique identifier.
func (g *BindGroup) ID() uint64 {
	return g.id
}

// Label returns the bind group's debug label.
func (g *BindGroup) Label() string {
	return g.label
}

// RenderTexture is an offscreen render target. Passes realized against it draw
// into its texture, which can then be sampled like any other texture.
type RenderTexture struct {
	id      uint64
	label   string
	texture *Texture
}

// ID returns the render texture's unique identifier.
func (rt *RenderTexture) ID() uint64 {
	return rt.id
}

// Label returns the render texture's debug label.
func (rt *RenderTexture) Label() string {
	return rt.label
}

// Texture returns the underlying color texture for sampling.
func (rt *RenderTexture) Texture() *Texture {
	return rt.texture
}

// Width returns the render texture width in pixels.
func (rt *RenderTexture) Width() uint32 {
	return rt.texture.width
}

// Height returns the render texture height in pixels.
func (rt *RenderTexture) Height() uint32 {
	return rt.texture.height
}
