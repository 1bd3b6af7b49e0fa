package camera

import (
	"github.com/Carmen-Shannon/ember-go/common"
)

// CameraOption is a functional option for configuring a camera during creation.
type CameraOption func(*camera2D)

// WithPosition sets the camera's initial center position.
//
// Parameters:
//   - position: the world-space point to center on
//
// Returns:
//   - CameraOption: a function that sets the camera's position
func WithPosition(position common.Vec2) CameraOption {
	return func(c *camera2D) {
		c.position = position
	}
}

// WithRotation sets the camera's initial rotation.
//
// Parameters:
//   - radians: the rotation in radians
//
// Returns:
//   - CameraOption: a function that sets the camera's rotation
func WithRotation(radians float32) CameraOption {
	return func(c *camera2D) {
		c.rotation = radians
	}
}

// WithScale sets the camera's initial zoom factor.
//
// Parameters:
//   - scale: the zoom factor per axis
//
// Returns:
//   - CameraOption: a function that sets the camera's scale
func WithScale(scale common.Vec2) CameraOption {
	return func(c *camera2D) {
		c.scale = scale
	}
}

// WithScreenSize sets the physical screen size when it differs from the
// logical size at creation time.
//
// Parameters:
//   - size: the screen size in pixels
//
// Returns:
//   - CameraOption: a function that sets the camera's screen size
func WithScreenSize(size common.Vec2) CameraOption {
	return func(c *camera2D) {
		c.screenSize = size
	}
}

// WithScreenMode sets how the camera's logical size maps onto the screen.
//
// Parameters:
//   - mode: the screen mode to use
//
// Returns:
//   - CameraOption: a function that sets the camera's screen mode
func WithScreenMode(mode ScreenMode) CameraOption {
	return func(c *camera2D) {
		c.screenMode = mode
	}
}
