package camera

import (
	"sync"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/chewxy/math32"
)

// ScreenMode controls how the camera's logical size maps onto the physical
// screen when the two differ.
type ScreenMode int

const (
	// ScreenModeNormal maps one logical unit to one pixel with no scaling.
	ScreenModeNormal ScreenMode = iota

	// ScreenModeFill stretches the logical size to cover the screen exactly,
	// scaling each axis independently. Aspect ratio is not preserved.
	ScreenModeFill

	// ScreenModeAspectFit scales uniformly so the full logical area is visible,
	// possibly leaving unused screen space on one axis.
	ScreenModeAspectFit

	// ScreenModeAspectFill scales uniformly so the screen is fully covered,
	// possibly cropping the logical area on one axis.
	ScreenModeAspectFill
)

// camera2D is the implementation of the Camera2D interface.
type camera2D struct {
	mu *sync.Mutex

	position   common.Vec2
	rotation   float32
	scale      common.Vec2
	size       common.Vec2
	screenSize common.Vec2
	screenMode ScreenMode

	transformDirty  bool
	projectionDirty bool
	transform       common.Mat3
	invTransform    common.Mat3
	projection      common.Mat4
	invProjection   common.Mat4
}

// Camera2D positions a 2D view over world space. It produces the world-to-view
// transform applied to vertices on the CPU and the orthographic projection
// uploaded to the GPU, and converts points between world and screen space.
type Camera2D interface {
	// Position retrieves the world-space point the camera is centered on.
	//
	// Returns:
	//   - common.Vec2: the camera's center position
	Position() common.Vec2

	// SetPosition centers the camera on the given world-space point.
	//
	// Parameters:
	//   - position: the new center position
	SetPosition(position common.Vec2)

	// Move offsets the camera's position by the given world-space delta.
	//
	// Parameters:
	//   - delta: the offset to apply
	Move(delta common.Vec2)

	// Rotation retrieves the camera's rotation in radians.
	//
	// Returns:
	//   - float32: the rotation in radians
	Rotation() float32

	// SetRotation sets the camera's rotation in radians.
	//
	// Parameters:
	//   - radians: the new rotation
	SetRotation(radians float32)

	// Scale retrieves the camera's zoom factor per axis.
	//
	// Returns:
	//   - common.Vec2: the zoom factor
	Scale() common.Vec2

	// SetScale sets the camera's zoom factor per axis. Values above 1 zoom in.
	//
	// Parameters:
	//   - scale: the new zoom factor
	SetScale(scale common.Vec2)

	// Size retrieves the camera's logical viewport size.
	//
	// Returns:
	//   - common.Vec2: the logical size
	Size() common.Vec2

	// SetSize sets the camera's logical viewport size.
	//
	// Parameters:
	//   - size: the new logical size
	SetSize(size common.Vec2)

	// ScreenSize retrieves the physical screen size in pixels.
	//
	// Returns:
	//   - common.Vec2: the screen size
	ScreenSize() common.Vec2

	// SetScreenSize sets the physical screen size in pixels. Call this from
	// the window resize handler so screen-space conversions stay accurate.
	//
	// Parameters:
	//   - size: the new screen size
	SetScreenSize(size common.Vec2)

	// ScreenMode retrieves how the logical size maps onto the screen.
	//
	// Returns:
	//   - ScreenMode: the active screen mode
	ScreenMode() ScreenMode

	// SetScreenMode sets how the logical size maps onto the screen.
	//
	// Parameters:
	//   - mode: the new screen mode
	SetScreenMode(mode ScreenMode)

	// Transform retrieves the world-to-view matrix combining the camera's
	// rotation, scale, screen-mode ratio, and position.
	//
	// Returns:
	//   - common.Mat3: the world-to-view transform
	Transform() common.Mat3

	// Projection retrieves the orthographic projection mapping view space to
	// clip space, with the view origin at the screen center.
	//
	// Returns:
	//   - common.Mat4: the projection matrix
	Projection() common.Mat4

	// LocalToScreen converts a world-space point to screen pixels.
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - common.Vec2: the point in screen pixels, origin top-left
	LocalToScreen(p common.Vec2) common.Vec2

	// ScreenToLocal converts a screen pixel position to world space. This is
	// the inverse of LocalToScreen and is used for picking under the cursor.
	//
	// Parameters:
	//   - p: the position in screen pixels, origin top-left
	//
	// Returns:
	//   - common.Vec2: the world-space point
	ScreenToLocal(p common.Vec2) common.Vec2

	// Bounds retrieves the world-space rectangle currently visible on screen.
	// Rotation is ignored; the rect is axis-aligned around the camera position.
	//
	// Returns:
	//   - common.Rect: the visible world rect
	Bounds() common.Rect
}

var _ Camera2D = &camera2D{}

// NewCamera2D creates a camera with the given logical viewport size. The
// screen size starts equal to the logical size until SetScreenSize is called.
//
// Parameters:
//   - size: the logical viewport size
//   - options: optional builder functions to configure the camera
//
// Returns:
//   - Camera2D: the created camera
func NewCamera2D(size common.Vec2, options ...CameraOption) Camera2D {
	c := &camera2D{
		mu:              &sync.Mutex{},
		scale:           common.Vec2Splat(1),
		size:            size,
		screenSize:      size,
		screenMode:      ScreenModeNormal,
		transformDirty:  true,
		projectionDirty: true,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *camera2D) Position() common.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *camera2D) SetPosition(position common.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
	c.transformDirty = true
}

func (c *camera2D) Move(delta common.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.position.Add(delta)
	c.transformDirty = true
}

func (c *camera2D) Rotation() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation
}

func (c *camera2D) SetRotation(radians float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotation = radians
	c.transformDirty = true
}

func (c *camera2D) Scale() common.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scale
}

func (c *camera2D) SetScale(scale common.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scale = scale
	c.transformDirty = true
}

func (c *camera2D) Size() common.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *camera2D) SetSize(size common.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.size = size
	c.transformDirty = true
}

func (c *camera2D) ScreenSize() common.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screenSize
}

func (c *camera2D) SetScreenSize(size common.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screenSize = size
	c.transformDirty = true
	c.projectionDirty = true
}

func (c *camera2D) ScreenMode() ScreenMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screenMode
}

func (c *camera2D) SetScreenMode(mode ScreenMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screenMode = mode
	c.transformDirty = true
}

func (c *camera2D) Transform() common.Mat3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshTransform()
	return c.transform
}

func (c *camera2D) Projection() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshProjection()
	return c.projection
}

func (c *camera2D) LocalToScreen(p common.Vec2) common.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshTransform()
	c.refreshProjection()

	view := c.transform.TransformPoint(p)
	qx, qy, _ := c.projection.ProjectPoint(view.X, view.Y, 0)

	half := c.screenSize.Scale(0.5)
	return common.Vec2{
		X: half.X + half.X*qx,
		Y: half.Y - half.Y*qy,
	}
}

func (c *camera2D) ScreenToLocal(p common.Vec2) common.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshTransform()
	c.refreshProjection()

	norm := p.Div(c.screenSize)
	clipX := norm.X*2 - 1
	clipY := norm.Y*-2 + 1

	vx, vy, _ := c.invProjection.ProjectPoint(clipX, clipY, 0)
	return c.invTransform.TransformPoint(common.Vec2{X: vx, Y: vy})
}

func (c *camera2D) Bounds() common.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()

	effective := c.ratio().Mul(c.scale)
	visible := c.screenSize.Div(effective)
	return common.NewRect(
		c.position.X-visible.X/2,
		c.position.Y-visible.Y/2,
		visible.X,
		visible.Y,
	)
}

// ratio computes the screen-mode scale factor applied on top of the camera's
// own zoom. Callers must hold the mutex.
func (c *camera2D) ratio() common.Vec2 {
	switch c.screenMode {
	case ScreenModeFill:
		return c.screenSize.Div(c.size)
	case ScreenModeAspectFit:
		return common.Vec2Splat(c.screenSize.Div(c.size).MinElement())
	case ScreenModeAspectFill:
		return common.Vec2Splat(c.screenSize.Div(c.size).MaxElement())
	default:
		return common.Vec2Splat(1)
	}
}

// refreshTransform rebuilds the cached world-to-view matrix and its inverse
// when a camera property changed. Callers must hold the mutex.
func (c *camera2D) refreshTransform() {
	if !c.transformDirty {
		return
	}

	effective := c.ratio().Mul(c.scale)
	c.transform = common.Mat3FromRotation(c.rotation).
		Mul(common.Mat3FromScale(effective)).
		Mul(common.Mat3FromTranslation(c.position.Scale(-1)))
	c.invTransform = c.transform.Inverse()
	c.transformDirty = false
}

// refreshProjection rebuilds the cached projection and its inverse when the
// screen size changed. Callers must hold the mutex.
func (c *camera2D) refreshProjection() {
	if !c.projectionDirty {
		return
	}

	width := math32.Max(c.screenSize.X, 1)
	height := math32.Max(c.screenSize.Y, 1)

	// View space puts the camera position at the origin, so shift by half the
	// screen before the top-left orthographic mapping.
	c.projection = common.Mat4Ortho(0, width, height, 0, 0, 1).
		Mul(common.Mat4FromTranslation(width/2, height/2, 0))
	c.invProjection = c.projection.Inverse()
	c.projectionDirty = false
}
