package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Vec2 is a 2D point or direction.
type Vec2 struct {
	X float32
	Y float32
}

// NewVec2 constructs a Vec2.
func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Vec2Splat returns a Vec2 with both components set to v.
func Vec2Splat(v float32) Vec2 {
	return Vec2{X: v, Y: v}
}

// Add returns v + o component-wise.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o component-wise.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Mul returns v * o component-wise.
func (v Vec2) Mul(o Vec2) Vec2 {
	return Vec2{X: v.X * o.X, Y: v.Y * o.Y}
}

// Div returns v / o component-wise.
func (v Vec2) Div(o Vec2) Vec2 {
	return Vec2{X: v.X / o.X, Y: v.Y / o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Length returns the euclidean length of v.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns v with unit length, or the zero vector when v has zero length.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// MinElement returns the smaller component of v.
func (v Vec2) MinElement() float32 {
	return math32.Min(v.X, v.Y)
}

// MaxElement returns the larger component of v.
func (v Vec2) MaxElement() float32 {
	return math32.Max(v.X, v.Y)
}

// Mat3 is a 3x3 matrix stored column-major: element (row r, col c) lives at
// index c*3+r. Used for 2D affine transforms where the last row is (0, 0, 1).
type Mat3 [9]float32

// Mat3Identity returns the 3x3 identity matrix.
func Mat3Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat3FromTranslation builds a translation matrix.
//
// Parameters:
//   - t: the translation vector
//
// Returns:
//   - Mat3: the translation matrix
func Mat3FromTranslation(t Vec2) Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		t.X, t.Y, 1,
	}
}

// Mat3FromRotation builds a rotation matrix for an angle in radians,
// counter-clockwise.
//
// Parameters:
//   - angle: the rotation angle in radians
//
// Returns:
//   - Mat3: the rotation matrix
func Mat3FromRotation(angle float32) Mat3 {
	s, c := math32.Sincos(angle)
	return Mat3{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	}
}

// Mat3FromScale builds a non-uniform scale matrix.
//
// Parameters:
//   - s: per-axis scale factors
//
// Returns:
//   - Mat3: the scale matrix
func Mat3FromScale(s Vec2) Mat3 {
	return Mat3{
		s.X, 0, 0,
		0, s.Y, 0,
		0, 0, 1,
	}
}

// Mul returns m * o in column-major convention, so o is applied first when
// transforming points.
func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for c := 0; c < 3; c++ {
		for row := 0; row < 3; row++ {
			r[c*3+row] = m[row]*o[c*3] + m[3+row]*o[c*3+1] + m[6+row]*o[c*3+2]
		}
	}
	return r
}

// TransformPoint applies m to a point, including translation.
//
// Parameters:
//   - p: the point to transform
//
// Returns:
//   - Vec2: the transformed point
func (m Mat3) TransformPoint(p Vec2) Vec2 {
	return Vec2{
		X: m[0]*p.X + m[3]*p.Y + m[6],
		Y: m[1]*p.X + m[4]*p.Y + m[7],
	}
}

// TransformVector applies m to a direction, ignoring translation.
func (m Mat3) TransformVector(v Vec2) Vec2 {
	return Vec2{
		X: m[0]*v.X + m[3]*v.Y,
		Y: m[1]*v.X + m[4]*v.Y,
	}
}

// Inverse returns the inverse of m, or the identity matrix when m is singular.
func (m Mat3) Inverse() Mat3 {
	a00, a01, a02 := m[0], m[1], m[2]
	a10, a11, a12 := m[3], m[4], m[5]
	a20, a21, a22 := m[6], m[7], m[8]

	b01 := a22*a11 - a12*a21
	b11 := -a22*a10 + a12*a20
	b21 := a21*a10 - a11*a20

	det := a00*b01 + a01*b11 + a02*b21
	if det == 0 {
		return Mat3Identity()
	}
	inv := 1 / det

	return Mat3{
		b01 * inv,
		(-a22*a01 + a02*a21) * inv,
		(a12*a01 - a02*a11) * inv,
		b11 * inv,
		(a22*a00 - a02*a20) * inv,
		(-a12*a00 + a02*a10) * inv,
		b21 * inv,
		(-a21*a00 + a01*a20) * inv,
		(a11*a00 - a01*a10) * inv,
	}
}

// Mat4 is a 4x4 matrix stored column-major: element (row r, col c) lives at
// index c*4+r.
type Mat4 [16]float32

// Mat4Identity returns the 4x4 identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Ortho builds a right-handed orthographic projection mapping depth to the
// [0, 1] range used by WebGPU clip space.
//
// Parameters:
//   - left, right: horizontal clip bounds
//   - bottom, top: vertical clip bounds
//   - near, far: depth clip bounds
//
// Returns:
//   - Mat4: the projection matrix
func Mat4Ortho(left, right, bottom, top, near, far float32) Mat4 {
	rcpWidth := 1 / (right - left)
	rcpHeight := 1 / (top - bottom)
	rcpDepth := 1 / (near - far)

	var m Mat4
	m[0] = 2 * rcpWidth
	m[5] = 2 * rcpHeight
	m[10] = rcpDepth
	m[12] = -(right + left) * rcpWidth
	m[13] = -(top + bottom) * rcpHeight
	m[14] = near * rcpDepth
	m[15] = 1
	return m
}

// Mat4FromTranslation builds a translation matrix.
func Mat4FromTranslation(x, y, z float32) Mat4 {
	m := Mat4Identity()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

// Mul returns m * o in column-major convention, so o is applied first when
// transforming points.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			r[c*4+row] = m[row]*o[c*4] +
				m[4+row]*o[c*4+1] +
				m[8+row]*o[c*4+2] +
				m[12+row]*o[c*4+3]
		}
	}
	return r
}

// ProjectPoint applies m to a 3D point with an implicit w of 1 and performs
// the perspective divide.
//
// Parameters:
//   - x, y, z: the point to project
//
// Returns:
//   - float32: the projected x
//   - float32: the projected y
//   - float32: the projected z
func (m Mat4) ProjectPoint(x, y, z float32) (float32, float32, float32) {
	rx := m[0]*x + m[4]*y + m[8]*z + m[12]
	ry := m[1]*x + m[5]*y + m[9]*z + m[13]
	rz := m[2]*x + m[6]*y + m[10]*z + m[14]
	rw := m[3]*x + m[7]*y + m[11]*z + m[15]
	if rw != 0 && rw != 1 {
		inv := 1 / rw
		return rx * inv, ry * inv, rz * inv
	}
	return rx, ry, rz
}

// Inverse returns the inverse of m, or the identity matrix when m is singular.
func (m Mat4) Inverse() Mat4 {
	var inv Mat4

	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] +
		m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] -
		m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] +
		m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] -
		m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] -
		m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] +
		m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] -
		m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] +
		m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] +
		m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] -
		m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] +
		m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] -
		m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] -
		m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] +
		m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] -
		m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] +
		m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	if det == 0 {
		return Mat4Identity()
	}
	det = 1 / det
	for i := range inv {
		inv[i] *= det
	}
	return inv
}

// NextPowerOfTwo returns the smallest power of two greater than or equal to v.
// Returns 1 for zero.
func NextPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var elem T
	size := int(unsafe.Sizeof(elem))
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*size)
}

// StructToBytes converts a struct value to a byte slice view for GPU buffer
// uploads. T must contain only fixed-size scalar fields.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}
