package camera

import (
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestDefaultCameraMapsCenterToScreenCenter(t *testing.T) {
	c := NewCamera2D(common.NewVec2(800, 600))

	screen := c.LocalToScreen(common.NewVec2(0, 0))
	assert.InDelta(t, 400, screen.X, 1e-3)
	assert.InDelta(t, 300, screen.Y, 1e-3)
}

func TestLocalToScreenWithPosition(t *testing.T) {
	c := NewCamera2D(common.NewVec2(800, 600), WithPosition(common.NewVec2(100, 50)))

	// The camera position itself always lands on the screen center.
	screen := c.LocalToScreen(common.NewVec2(100, 50))
	assert.InDelta(t, 400, screen.X, 1e-3)
	assert.InDelta(t, 300, screen.Y, 1e-3)

	// A point 10 units right of the camera is 10 pixels right of center.
	screen = c.LocalToScreen(common.NewVec2(110, 50))
	assert.InDelta(t, 410, screen.X, 1e-3)
	assert.InDelta(t, 300, screen.Y, 1e-3)
}

func TestScreenToLocalRoundTrip(t *testing.T) {
	c := NewCamera2D(common.NewVec2(800, 600),
		WithPosition(common.NewVec2(-35, 120)),
		WithRotation(0.4),
		WithScale(common.NewVec2(2, 2)),
	)

	points := []common.Vec2{
		{X: 0, Y: 0},
		{X: -35, Y: 120},
		{X: 250, Y: -90},
		{X: 1.5, Y: 9999},
	}
	for _, p := range points {
		back := c.ScreenToLocal(c.LocalToScreen(p))
		assert.InDelta(t, p.X, back.X, 1e-2)
		assert.InDelta(t, p.Y, back.Y, 1e-2)
	}
}

func TestScreenToLocalRoundTripRandomized(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 50; i++ {
		c := NewCamera2D(common.NewVec2(800, 600),
			WithPosition(common.NewVec2(rng.Float32()*400-200, rng.Float32()*400-200)),
			WithRotation(rng.Float32()*2*math32.Pi),
			WithScale(common.NewVec2(0.5+rng.Float32()*1.5, 0.5+rng.Float32()*1.5)),
		)

		for j := 0; j < 8; j++ {
			p := common.NewVec2(rng.Float32()*400-200, rng.Float32()*400-200)
			back := c.ScreenToLocal(c.LocalToScreen(p))
			assert.InDelta(t, p.X, back.X, 1e-3)
			assert.InDelta(t, p.Y, back.Y, 1e-3)
		}
	}
}

func TestScaleZoomsAroundCenter(t *testing.T) {
	c := NewCamera2D(common.NewVec2(800, 600), WithScale(common.NewVec2(2, 2)))

	// At 2x zoom a point 10 units from the camera is 20 pixels from center.
	screen := c.LocalToScreen(common.NewVec2(10, 0))
	assert.InDelta(t, 420, screen.X, 1e-3)
	assert.InDelta(t, 300, screen.Y, 1e-3)
}

func TestRotationSpinsView(t *testing.T) {
	c := NewCamera2D(common.NewVec2(800, 600), WithRotation(math32.Pi/2))

	// A quarter turn sends the world +x axis down the screen.
	screen := c.LocalToScreen(common.NewVec2(10, 0))
	assert.InDelta(t, 400, screen.X, 1e-3)
	assert.InDelta(t, 310, screen.Y, 1e-3)
}

func TestMoveOffsetsPosition(t *testing.T) {
	c := NewCamera2D(common.NewVec2(800, 600), WithPosition(common.NewVec2(10, 20)))
	c.Move(common.NewVec2(-5, 30))
	assert.Equal(t, common.NewVec2(5, 50), c.Position())
}

func TestBoundsDefault(t *testing.T) {
	c := NewCamera2D(common.NewVec2(800, 600))

	b := c.Bounds()
	assert.InDelta(t, -400, b.X, 1e-3)
	assert.InDelta(t, -300, b.Y, 1e-3)
	assert.InDelta(t, 800, b.Width, 1e-3)
	assert.InDelta(t, 600, b.Height, 1e-3)
}

func TestBoundsWithZoomAndPosition(t *testing.T) {
	c := NewCamera2D(common.NewVec2(800, 600),
		WithPosition(common.NewVec2(100, 100)),
		WithScale(common.NewVec2(2, 2)),
	)

	b := c.Bounds()
	assert.InDelta(t, 100-200, b.X, 1e-3)
	assert.InDelta(t, 100-150, b.Y, 1e-3)
	assert.InDelta(t, 400, b.Width, 1e-3)
	assert.InDelta(t, 300, b.Height, 1e-3)
}

func TestScreenModeFillStretchesAxes(t *testing.T) {
	c := NewCamera2D(common.NewVec2(400, 300),
		WithScreenSize(common.NewVec2(800, 300)),
		WithScreenMode(ScreenModeFill),
	)

	// Fill scales x by 2 and y by 1.
	screen := c.LocalToScreen(common.NewVec2(10, 10))
	assert.InDelta(t, 400+20, screen.X, 1e-3)
	assert.InDelta(t, 150+10, screen.Y, 1e-3)
}

func TestScreenModeAspectFitUsesSmallerRatio(t *testing.T) {
	c := NewCamera2D(common.NewVec2(400, 300),
		WithScreenSize(common.NewVec2(800, 300)),
		WithScreenMode(ScreenModeAspectFit),
	)

	// Ratios are (2, 1); fit picks 1 for both axes.
	screen := c.LocalToScreen(common.NewVec2(10, 10))
	assert.InDelta(t, 400+10, screen.X, 1e-3)
	assert.InDelta(t, 150+10, screen.Y, 1e-3)
}

func TestScreenModeAspectFillUsesLargerRatio(t *testing.T) {
	c := NewCamera2D(common.NewVec2(400, 300),
		WithScreenSize(common.NewVec2(800, 300)),
		WithScreenMode(ScreenModeAspectFill),
	)

	// Ratios are (2, 1); fill picks 2 for both axes.
	screen := c.LocalToScreen(common.NewVec2(10, 10))
	assert.InDelta(t, 400+20, screen.X, 1e-3)
	assert.InDelta(t, 150+20, screen.Y, 1e-3)
}

func TestSetScreenSizeRefreshesProjection(t *testing.T) {
	c := NewCamera2D(common.NewVec2(800, 600))
	c.SetScreenSize(common.NewVec2(1024, 768))

	screen := c.LocalToScreen(common.NewVec2(0, 0))
	assert.InDelta(t, 512, screen.X, 1e-3)
	assert.InDelta(t, 384, screen.Y, 1e-3)
}

func TestProjectionMapsViewCorners(t *testing.T) {
	c := NewCamera2D(common.NewVec2(800, 600))
	proj := c.Projection()

	// View-space top-left corner lands at clip (-1, 1).
	x, y, _ := proj.ProjectPoint(-400, -300, 0)
	assert.InDelta(t, -1, x, 1e-5)
	assert.InDelta(t, 1, y, 1e-5)

	// View-space bottom-right corner lands at clip (1, -1).
	x, y, _ = proj.ProjectPoint(400, 300, 0)
	assert.InDelta(t, 1, x, 1e-5)
	assert.InDelta(t, -1, y, 1e-5)
}
