package draw

import (
	"testing"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestTransform2DIdentity(t *testing.T) {
	tr := NewTransform2D()
	p := tr.Matrix().TransformPoint(common.NewVec2(3, 4))
	assert.InDelta(t, 3, p.X, 1e-6)
	assert.InDelta(t, 4, p.Y, 1e-6)
}

func TestTransform2DTranslation(t *testing.T) {
	tr := NewTransform2D().SetPosition(common.NewVec2(10, -5))
	p := tr.Matrix().TransformPoint(common.NewVec2(1, 1))
	assert.InDelta(t, 11, p.X, 1e-6)
	assert.InDelta(t, -4, p.Y, 1e-6)
}

func TestTransform2DRotationAroundPivot(t *testing.T) {
	tr := NewTransform2D().
		SetPivot(common.NewVec2(1, 1)).
		SetPosition(common.NewVec2(1, 1)).
		SetRotation(math32.Pi / 2)

	// The pivot maps back onto the position.
	p := tr.Matrix().TransformPoint(common.NewVec2(1, 1))
	assert.InDelta(t, 1, p.X, 1e-5)
	assert.InDelta(t, 1, p.Y, 1e-5)

	// A point one unit right of the pivot rotates to one unit below it.
	p = tr.Matrix().TransformPoint(common.NewVec2(2, 1))
	assert.InDelta(t, 1, p.X, 1e-5)
	assert.InDelta(t, 2, p.Y, 1e-5)
}

func TestTransform2DScale(t *testing.T) {
	tr := NewTransform2D().SetScale(common.NewVec2(2, 3))
	p := tr.Matrix().TransformPoint(common.NewVec2(1, 1))
	assert.InDelta(t, 2, p.X, 1e-6)
	assert.InDelta(t, 3, p.Y, 1e-6)
}

func TestTransform2DFlipNegatesScale(t *testing.T) {
	tr := NewTransform2D().SetFlip(true, false)
	p := tr.Matrix().TransformPoint(common.NewVec2(2, 3))
	assert.InDelta(t, -2, p.X, 1e-6)
	assert.InDelta(t, 3, p.Y, 1e-6)

	x, y := tr.Flip()
	assert.True(t, x)
	assert.False(t, y)
}

func TestTransform2DSkew(t *testing.T) {
	tr := NewTransform2D().SetSkew(common.NewVec2(math32.Pi/4, 0))
	p := tr.Matrix().TransformPoint(common.NewVec2(0, 1))
	// A 45 degree x-shear pushes points right by their y coordinate.
	assert.InDelta(t, 1, p.X, 1e-5)
	assert.InDelta(t, 1, p.Y, 1e-5)
}

func TestTransform2DMatrixCaching(t *testing.T) {
	tr := NewTransform2D().SetPosition(common.NewVec2(5, 5))
	first := tr.Matrix()
	assert.Equal(t, first, tr.Matrix())

	tr.SetPosition(common.NewVec2(6, 6))
	p := tr.Matrix().TransformPoint(common.NewVec2(0, 0))
	assert.InDelta(t, 6, p.X, 1e-6)
}
