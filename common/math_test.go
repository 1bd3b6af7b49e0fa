package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMat3MulIdentity(t *testing.T) {
	m := Mat3FromTranslation(NewVec2(3, -7)).Mul(Mat3FromRotation(0.5))
	assert.Equal(t, m, Mat3Identity().Mul(m))
	assert.Equal(t, m, m.Mul(Mat3Identity()))
}

func TestMat3TransformPoint(t *testing.T) {
	m := Mat3FromTranslation(NewVec2(10, 20))
	p := m.TransformPoint(NewVec2(1, 2))
	assert.InDelta(t, 11, p.X, 1e-6)
	assert.InDelta(t, 22, p.Y, 1e-6)

	r := Mat3FromRotation(math32.Pi / 2)
	p = r.TransformPoint(NewVec2(1, 0))
	assert.InDelta(t, 0, p.X, 1e-6)
	assert.InDelta(t, 1, p.Y, 1e-6)
}

func TestMat3MulOrder(t *testing.T) {
	// Column-major convention: (T * S) applies the scale first.
	ts := Mat3FromTranslation(NewVec2(5, 0)).Mul(Mat3FromScale(NewVec2(2, 2)))
	p := ts.TransformPoint(NewVec2(1, 1))
	assert.InDelta(t, 7, p.X, 1e-6)
	assert.InDelta(t, 2, p.Y, 1e-6)
}

func TestMat3Inverse(t *testing.T) {
	m := Mat3FromTranslation(NewVec2(4, -3)).
		Mul(Mat3FromRotation(1.2)).
		Mul(Mat3FromScale(NewVec2(2, 0.5)))
	inv := m.Inverse()

	p := NewVec2(13, 37)
	back := inv.TransformPoint(m.TransformPoint(p))
	assert.InDelta(t, p.X, back.X, 1e-4)
	assert.InDelta(t, p.Y, back.Y, 1e-4)
}

func TestMat3InverseSingular(t *testing.T) {
	m := Mat3FromScale(NewVec2(0, 0))
	assert.Equal(t, Mat3Identity(), m.Inverse())
}

func TestMat4Ortho(t *testing.T) {
	// 0..800 x 600..0 maps the full window to clip space with y up.
	proj := Mat4Ortho(0, 800, 600, 0, 0, 1)

	x, y, _ := proj.ProjectPoint(0, 0, 0)
	assert.InDelta(t, -1, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)

	x, y, _ = proj.ProjectPoint(800, 600, 0)
	assert.InDelta(t, 1, x, 1e-6)
	assert.InDelta(t, -1, y, 1e-6)

	x, y, _ = proj.ProjectPoint(400, 300, 0)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
}

func TestMat4Inverse(t *testing.T) {
	proj := Mat4Ortho(0, 1280, 720, 0, 0, 1)
	inv := proj.Inverse()

	x, y, z := proj.ProjectPoint(320, 180, 0.5)
	bx, by, bz := inv.ProjectPoint(x, y, z)
	assert.InDelta(t, 320, bx, 1e-3)
	assert.InDelta(t, 180, by, 1e-3)
	assert.InDelta(t, 0.5, bz, 1e-3)
}

func TestNextPowerOfTwo(t *testing.T) {
	assert.Equal(t, uint64(1), NextPowerOfTwo(0))
	assert.Equal(t, uint64(1), NextPowerOfTwo(1))
	assert.Equal(t, uint64(2), NextPowerOfTwo(2))
	assert.Equal(t, uint64(4), NextPowerOfTwo(3))
	assert.Equal(t, uint64(1024), NextPowerOfTwo(1000))
	assert.Equal(t, uint64(1024), NextPowerOfTwo(1024))
	assert.Equal(t, uint64(2048), NextPowerOfTwo(1025))
}

func TestSliceToBytes(t *testing.T) {
	data := []float32{1, 2}
	b := SliceToBytes(data)
	require.Len(t, b, 8)
	assert.Nil(t, SliceToBytes([]float32(nil)))

	idx := []uint32{0, 1, 2}
	assert.Len(t, SliceToBytes(idx), 12)
}

func TestVec2Helpers(t *testing.T) {
	v := NewVec2(3, 4)
	assert.InDelta(t, 5, v.Length(), 1e-6)
	n := v.Normalize()
	assert.InDelta(t, 1, n.Length(), 1e-6)
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
	assert.Equal(t, NewVec2(-4, 3), v.Perp())
	assert.Equal(t, float32(3), v.MinElement())
	assert.Equal(t, float32(4), v.MaxElement())
}

func TestRect(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	assert.Equal(t, NewVec2(25, 40), r.Center())
	assert.Equal(t, NewVec2(40, 60), r.Max())
	assert.True(t, r.Contains(NewVec2(10, 20)))
	assert.False(t, r.Contains(NewVec2(40, 60)))
}

func TestColorHelpers(t *testing.T) {
	c := ColorFromHex(0xFF8000)
	assert.InDelta(t, 1, c.R, 1e-6)
	assert.InDelta(t, 128.0/255.0, c.G, 1e-6)
	assert.InDelta(t, 0, c.B, 1e-6)
	assert.Equal(t, float32(0.5), ColorWhite.WithAlpha(0.5).A)
}
