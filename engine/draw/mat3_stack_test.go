package draw

import (
	"testing"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixStackComposes(t *testing.T) {
	s := NewMatrixStack()
	assert.Equal(t, 1, s.Depth())

	s.Push(common.Mat3FromTranslation(common.NewVec2(10, 0)))
	s.Push(common.Mat3FromTranslation(common.NewVec2(0, 5)))
	assert.Equal(t, 3, s.Depth())

	p := s.Matrix().TransformPoint(common.NewVec2(1, 1))
	assert.InDelta(t, 11, p.X, 1e-6)
	assert.InDelta(t, 6, p.Y, 1e-6)

	require.NoError(t, s.Pop())
	p = s.Matrix().TransformPoint(common.NewVec2(1, 1))
	assert.InDelta(t, 11, p.X, 1e-6)
	assert.InDelta(t, 1, p.Y, 1e-6)
}

func TestMatrixStackNestedScaleAndTranslate(t *testing.T) {
	s := NewMatrixStack()
	s.Push(common.Mat3FromScale(common.NewVec2(2, 2)))
	s.Push(common.Mat3FromTranslation(common.NewVec2(3, 0)))

	// The translation is scaled because it composes under the parent scale.
	p := s.Matrix().TransformPoint(common.NewVec2(0, 0))
	assert.InDelta(t, 6, p.X, 1e-6)
}

func TestMatrixStackPopBase(t *testing.T) {
	s := NewMatrixStack()
	assert.Error(t, s.Pop())
	assert.Equal(t, 1, s.Depth())
}

func TestMatrixStackReset(t *testing.T) {
	s := NewMatrixStack()
	s.Push(common.Mat3FromTranslation(common.NewVec2(1, 2)))
	s.Push(common.Mat3FromTranslation(common.NewVec2(3, 4)))

	s.Reset()
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, common.Mat3Identity(), s.Matrix())
}
