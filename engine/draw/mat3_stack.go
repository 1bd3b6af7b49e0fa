package draw

import (
	"fmt"

	"github.com/Carmen-Shannon/ember-go/common"
)

// MatrixStack is a push/pop stack of composed 2D transforms. The base entry is
// always present; Push composes on top of the current matrix and Pop restores
// the previous one, so nested draws inherit their parent transform.
type MatrixStack struct {
	stack []common.Mat3
}

// NewMatrixStack creates a stack holding only the identity base entry.
//
// Returns:
//   - *MatrixStack: the created stack
func NewMatrixStack() *MatrixStack {
	return &MatrixStack{
		stack: []common.Mat3{common.Mat3Identity()},
	}
}

// Matrix retrieves the current composed transform at the top of the stack.
//
// Returns:
//   - common.Mat3: the current transform
func (s *MatrixStack) Matrix() common.Mat3 {
	return s.stack[len(s.stack)-1]
}

// Push composes the given matrix onto the current transform and makes the
// result the new top of the stack.
//
// Parameters:
//   - m: the transform to compose
func (s *MatrixStack) Push(m common.Mat3) {
	s.stack = append(s.stack, s.Matrix().Mul(m))
}

// Pop restores the transform that was current before the matching Push.
// Popping the base entry is an error and leaves the stack unchanged.
//
// Returns:
//   - error: an error if the stack is already at its base entry
func (s *MatrixStack) Pop() error {
	if len(s.stack) <= 1 {
		return fmt.Errorf("matrix stack: cannot pop the base entry")
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// SetMatrix replaces the top of the stack with the given transform without
// composing, useful for resetting the current transform inside a push scope.
//
// Parameters:
//   - m: the transform to set
func (s *MatrixStack) SetMatrix(m common.Mat3) {
	s.stack[len(s.stack)-1] = m
}

// Depth retrieves the number of entries on the stack including the base.
//
// Returns:
//   - int: the stack depth
func (s *MatrixStack) Depth() int {
	return len(s.stack)
}

// Reset drops all pushed entries, returning the stack to the identity base.
func (s *MatrixStack) Reset() {
	s.stack = s.stack[:1]
	s.stack[0] = common.Mat3Identity()
}
