package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer() (Renderer, *HeadlessBackend) {
	backend := NewHeadlessBackend()
	return NewRendererWithBackend(backend), backend
}

func TestCreateBufferDefaultSize(t *testing.T) {
	r, _ := newTestRenderer()

	buf, err := r.CreateBuffer("vbo", BufferUsageVertex, 0, true)
	require.NoError(t, err)
	assert.Equal(t, defaultBufferSize, buf.Capacity())
	assert.True(t, buf.Writable())
	assert.NotZero(t, buf.ID())
}

func TestWriteBufferNotWritable(t *testing.T) {
	r, _ := newTestRenderer()

	buf, err := r.CreateBuffer("static", BufferUsageVertex, 64, false)
	require.NoError(t, err)
	err = r.WriteBuffer(buf, 0, []byte{1, 2, 3})
	assert.ErrorContains(t, err, "not writable")
}

func TestWriteBufferWithinCapacity(t *testing.T) {
	r, backend := newTestRenderer()

	buf, err := r.CreateBuffer("ubo", BufferUsageUniform, 64, true)
	require.NoError(t, err)

	data := []byte{1, 2, 3, 4}
	require.NoError(t, r.WriteBuffer(buf, 0, data))
	assert.Equal(t, uint64(64), buf.Capacity())
	assert.Equal(t, data, backend.BufferBytes(buf)[:4])
}

func TestWriteBufferGrows(t *testing.T) {
	r, _ := newTestRenderer()

	buf, err := r.CreateBuffer("vbo", BufferUsageVertex, 16, true)
	require.NoError(t, err)
	id := buf.ID()

	data := make([]byte, 100)
	require.NoError(t, r.WriteBuffer(buf, 0, data))

	// New capacity is the next power of two covering the write and never
	// shrinks below the prior capacity.
	assert.Equal(t, uint64(128), buf.Capacity())
	assert.Equal(t, id, buf.ID())
}

func TestWriteBufferGrowthIsIdempotent(t *testing.T) {
	r, _ := newTestRenderer()

	buf, err := r.CreateBuffer("vbo", BufferUsageVertex, 16, true)
	require.NoError(t, err)

	data := make([]byte, 100)
	require.NoError(t, r.WriteBuffer(buf, 0, data))
	grown := buf.Capacity()

	// Same-size write after growth must not reallocate again.
	require.NoError(t, r.WriteBuffer(buf, 0, data))
	assert.Equal(t, grown, buf.Capacity())
}

func TestWriteBufferGrowthIsMonotonic(t *testing.T) {
	r, _ := newTestRenderer()

	buf, err := r.CreateBuffer("vbo", BufferUsageVertex, 16, true)
	require.NoError(t, err)

	require.NoError(t, r.WriteBuffer(buf, 0, make([]byte, 4096)))
	assert.Equal(t, uint64(4096), buf.Capacity())

	// A later smaller write keeps the larger capacity.
	require.NoError(t, r.WriteBuffer(buf, 0, make([]byte, 8)))
	assert.Equal(t, uint64(4096), buf.Capacity())
}

func TestWriteBufferGrowthPreservesPrefix(t *testing.T) {
	r, backend := newTestRenderer()

	buf, err := r.CreateBuffer("vbo", BufferUsageVertex, 8, true)
	require.NoError(t, err)

	prefix := []byte{9, 8, 7, 6, 5, 4, 3, 2}
	require.NoError(t, r.WriteBuffer(buf, 0, prefix))

	// An offset write past capacity migrates the bytes below the offset into
	// the new allocation.
	tail := []byte{1, 1, 1, 1}
	require.NoError(t, r.WriteBuffer(buf, 8, tail))

	contents := backend.BufferBytes(buf)
	assert.Equal(t, prefix, contents[:8])
	assert.Equal(t, tail, contents[8:12])
	assert.Equal(t, uint64(16), buf.Capacity())
}

func TestWriteBufferOffsetBeyondCapacity(t *testing.T) {
	r, backend := newTestRenderer()

	buf, err := r.CreateBuffer("vbo", BufferUsageVertex, 16, true)
	require.NoError(t, err)

	prefix := []byte{1, 2, 3, 4}
	require.NoError(t, r.WriteBuffer(buf, 0, prefix))

	// The write offset exceeds the old capacity, so the migration can only
	// carry over the bytes the old allocation actually holds.
	data := []byte{5, 6, 7, 8}
	require.NoError(t, r.WriteBuffer(buf, 32, data))

	assert.Equal(t, uint64(64), buf.Capacity())
	contents := backend.BufferBytes(buf)
	assert.Equal(t, prefix, contents[:4])
	assert.Equal(t, data, contents[32:36])
}

func TestWriteTextureSizeMismatch(t *testing.T) {
	r, _ := newTestRenderer()

	tex, err := r.CreateTexture("sprite", 2, 2, make([]byte, 16))
	require.NoError(t, err)
	assert.Error(t, r.WriteTexture(tex, make([]byte, 8)))
	assert.NoError(t, r.WriteTexture(tex, make([]byte, 16)))
}

func TestCreateTextureZeroArea(t *testing.T) {
	r, _ := newTestRenderer()

	_, err := r.CreateTexture("empty", 0, 4, nil)
	assert.Error(t, err)
	_, err = r.CreateRenderTexture("empty", 4, 0)
	assert.Error(t, err)
}

func TestResourceIDsAreUnique(t *testing.T) {
	r, _ := newTestRenderer()

	a, err := r.CreateBuffer("a", BufferUsageVertex, 16, true)
	require.NoError(t, err)
	b, err := r.CreateBuffer("b", BufferUsageIndex, 16, true)
	require.NoError(t, err)
	tex, err := r.CreateTexture("t", 1, 1, nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEqual(t, b.ID(), tex.ID())
}
