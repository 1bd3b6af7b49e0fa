package draw

// element is implemented by every drawable element type. draw converts the
// element's current configuration into geometry and appends it to the frame.
type element interface {
	draw(d *draw2D) error
}

// Element2D is implemented by external element types drawn through
// Draw2D.AddElement. Process appends the element's geometry using the
// accumulator's public API, typically AddToBatch or the shape methods.
// Process must not call AddElement on the same accumulator.
type Element2D interface {
	// Process appends the element's geometry to the accumulator.
	//
	// Parameters:
	//   - d: the accumulator to draw into
	//
	// Returns:
	//   - error: an error if the geometry could not be appended
	Process(d Draw2D) error
}

// pendingDrawing is the commit handle Draw2D keeps for a drawing whose Done
// was not called yet.
type pendingDrawing interface {
	commit() error
}

// Drawing is an in-progress element draw. The element can be configured
// through Element until Done commits it. A drawing that is never Done is
// committed automatically before the next draw call or render, so the fluent
// form d.Rect(...).Done() and the bare form d.Rect(...) behave the same.
type Drawing[T element] struct {
	d         *draw2D
	elem      T
	committed bool
}

// newDrawing stages an element on the accumulator and returns its drawing handle.
func newDrawing[T element](d *draw2D, elem T) *Drawing[T] {
	dr := &Drawing[T]{
		d:    d,
		elem: elem,
	}
	d.setPending(dr)
	return dr
}

// Element retrieves the underlying element for configuration before Done.
//
// Returns:
//   - T: the element being drawn
func (dr *Drawing[T]) Element() T {
	return dr.elem
}

// Done commits the element to the current frame. Calling Done more than once
// is a no-op.
//
// Returns:
//   - error: an error if the element's geometry could not be appended
func (dr *Drawing[T]) Done() error {
	if dr.committed {
		return nil
	}
	dr.committed = true
	if dr.d.pending == pendingDrawing(dr) {
		dr.d.pending = nil
	}
	return dr.elem.draw(dr.d)
}

func (dr *Drawing[T]) commit() error {
	if dr.committed {
		return nil
	}
	dr.committed = true
	return dr.elem.draw(dr.d)
}
