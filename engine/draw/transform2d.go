package draw

import (
	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/chewxy/math32"
)

// Transform2D composes position, rotation, scale, skew, and flip into a
// single local transform matrix. The pivot is the local point rotation and
// scaling happen around; the anchor is a normalized offset elements use to
// place their geometry relative to the position.
type Transform2D struct {
	position common.Vec2
	rotation float32
	scale    common.Vec2
	skew     common.Vec2
	pivot    common.Vec2
	anchor   common.Vec2
	flipX    bool
	flipY    bool

	dirty  bool
	matrix common.Mat3
}

// NewTransform2D creates an identity transform.
//
// Returns:
//   - *Transform2D: the created transform
func NewTransform2D() *Transform2D {
	return &Transform2D{
		scale: common.Vec2Splat(1),
		dirty: true,
	}
}

// SetPosition sets the transform's translation.
//
// Parameters:
//   - position: the translation to apply
//
// Returns:
//   - *Transform2D: the transform, for chaining
func (t *Transform2D) SetPosition(position common.Vec2) *Transform2D {
	t.position = position
	t.dirty = true
	return t
}

// SetRotation sets the rotation around the pivot in radians.
//
// Parameters:
//   - radians: the rotation to apply
//
// Returns:
//   - *Transform2D: the transform, for chaining
func (t *Transform2D) SetRotation(radians float32) *Transform2D {
	t.rotation = radians
	t.dirty = true
	return t
}

// SetScale sets the scale around the pivot.
//
// Parameters:
//   - scale: the per-axis scale factor
//
// Returns:
//   - *Transform2D: the transform, for chaining
func (t *Transform2D) SetScale(scale common.Vec2) *Transform2D {
	t.scale = scale
	t.dirty = true
	return t
}

// SetSkew sets the shear angles in radians per axis.
//
// Parameters:
//   - skew: the shear angles
//
// Returns:
//   - *Transform2D: the transform, for chaining
func (t *Transform2D) SetSkew(skew common.Vec2) *Transform2D {
	t.skew = skew
	t.dirty = true
	return t
}

// SetPivot sets the local point rotation and scaling happen around.
//
// Parameters:
//   - pivot: the pivot point in local units
//
// Returns:
//   - *Transform2D: the transform, for chaining
func (t *Transform2D) SetPivot(pivot common.Vec2) *Transform2D {
	t.pivot = pivot
	t.dirty = true
	return t
}

// SetAnchor sets the normalized anchor elements use to offset their geometry.
// (0, 0) anchors the top-left corner at the position, (0.5, 0.5) the center.
//
// Parameters:
//   - anchor: the normalized anchor
//
// Returns:
//   - *Transform2D: the transform, for chaining
func (t *Transform2D) SetAnchor(anchor common.Vec2) *Transform2D {
	t.anchor = anchor
	return t
}

// SetFlip mirrors the transform across the pivot on either axis.
//
// Parameters:
//   - x: true to mirror horizontally
//   - y: true to mirror vertically
//
// Returns:
//   - *Transform2D: the transform, for chaining
func (t *Transform2D) SetFlip(x, y bool) *Transform2D {
	t.flipX = x
	t.flipY = y
	t.dirty = true
	return t
}

// Position retrieves the transform's translation.
//
// Returns:
//   - common.Vec2: the translation
func (t *Transform2D) Position() common.Vec2 {
	return t.position
}

// Rotation retrieves the rotation in radians.
//
// Returns:
//   - float32: the rotation
func (t *Transform2D) Rotation() float32 {
	return t.rotation
}

// Scale retrieves the per-axis scale factor.
//
// Returns:
//   - common.Vec2: the scale
func (t *Transform2D) Scale() common.Vec2 {
	return t.scale
}

// Anchor retrieves the normalized anchor.
//
// Returns:
//   - common.Vec2: the anchor
func (t *Transform2D) Anchor() common.Vec2 {
	return t.anchor
}

// Flip retrieves the mirror flags per axis.
//
// Returns:
//   - x: true when mirrored horizontally
//   - y: true when mirrored vertically
func (t *Transform2D) Flip() (x, y bool) {
	return t.flipX, t.flipY
}

// Matrix retrieves the composed local transform, rebuilding the cached matrix
// only when a property changed since the last call.
//
// Returns:
//   - common.Mat3: the composed transform
func (t *Transform2D) Matrix() common.Mat3 {
	if !t.dirty {
		return t.matrix
	}

	scale := t.scale
	if t.flipX {
		scale.X = -scale.X
	}
	if t.flipY {
		scale.Y = -scale.Y
	}

	m := common.Mat3FromTranslation(t.position).
		Mul(common.Mat3FromRotation(t.rotation))
	if t.skew.X != 0 || t.skew.Y != 0 {
		m = m.Mul(skewMatrix(t.skew))
	}
	t.matrix = m.
		Mul(common.Mat3FromScale(scale)).
		Mul(common.Mat3FromTranslation(t.pivot.Scale(-1)))
	t.dirty = false
	return t.matrix
}

// skewMatrix builds a shear matrix from per-axis shear angles in radians.
func skewMatrix(skew common.Vec2) common.Mat3 {
	m := common.Mat3Identity()
	m[3] = math32.Tan(skew.X)
	m[1] = math32.Tan(skew.Y)
	return m
}
