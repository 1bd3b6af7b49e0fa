package sprite

import (
	"image"
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer() renderer.Renderer {
	return renderer.NewRendererWithBackend(renderer.NewHeadlessBackend())
}

func checkerImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}
	return img
}

func TestNewSpriteFullFrame(t *testing.T) {
	r := newTestRenderer()

	s, err := NewSprite(r, checkerImage(16, 8), WithLabel("checker"))
	require.NoError(t, err)

	assert.Equal(t, "checker", s.Label())
	assert.Equal(t, uint32(16), s.Texture().Width())
	assert.Equal(t, uint32(8), s.Texture().Height())
	assert.Equal(t, common.NewRect(0, 0, 1, 1), s.Frame())
	assert.Equal(t, common.Vec2{X: 16, Y: 8}, s.Size())
	assert.NotNil(t, s.Sampler())
}

func TestNewSpriteNilImage(t *testing.T) {
	r := newTestRenderer()

	_, err := NewSprite(r, nil)
	assert.Error(t, err)
}

func TestNewSpriteScaled(t *testing.T) {
	r := newTestRenderer()

	s, err := NewSprite(r, checkerImage(16, 16), WithScaledSize(8, 8))
	require.NoError(t, err)
	assert.Equal(t, uint32(8), s.Texture().Width())
	assert.Equal(t, uint32(8), s.Texture().Height())
}

func TestNewSpriteWithFrame(t *testing.T) {
	r := newTestRenderer()

	s, err := NewSprite(r, checkerImage(32, 32), WithFrame(common.NewRect(8, 8, 16, 16)))
	require.NoError(t, err)

	frame := s.Frame()
	assert.InDelta(t, 0.25, frame.X, 1e-6)
	assert.InDelta(t, 0.25, frame.Y, 1e-6)
	assert.InDelta(t, 0.5, frame.Width, 1e-6)
	assert.InDelta(t, 0.5, frame.Height, 1e-6)
	assert.Equal(t, common.Vec2{X: 16, Y: 16}, s.Size())
}

func TestSubSprite(t *testing.T) {
	r := newTestRenderer()

	s, err := NewSprite(r, checkerImage(64, 64))
	require.NoError(t, err)

	sub := s.SubSprite(common.NewRect(16, 32, 32, 16))
	assert.NotEqual(t, s.ID(), sub.ID())
	assert.Equal(t, s.Texture(), sub.Texture())
	assert.Equal(t, s.Sampler(), sub.Sampler())

	frame := sub.Frame()
	assert.InDelta(t, 0.25, frame.X, 1e-6)
	assert.InDelta(t, 0.5, frame.Y, 1e-6)
	assert.InDelta(t, 0.5, frame.Width, 1e-6)
	assert.InDelta(t, 0.25, frame.Height, 1e-6)
}

func TestNewSpriteFromRenderTexture(t *testing.T) {
	r := newTestRenderer()

	rt, err := r.CreateRenderTexture("offscreen", 128, 64)
	require.NoError(t, err)

	s, err := NewSpriteFromTexture(r, rt.Texture())
	require.NoError(t, err)
	assert.Equal(t, common.Vec2{X: 128, Y: 64}, s.Size())
}

func TestSpriteIDsAreUnique(t *testing.T) {
	r := newTestRenderer()

	a, err := NewSprite(r, checkerImage(4, 4))
	require.NoError(t, err)
	b, err := NewSprite(r, checkerImage(4, 4))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestGridFontGlyphFrames(t *testing.T) {
	r := newTestRenderer()

	// 16x8 grid of 8x8 pixel glyphs starting at space.
	s, err := NewSprite(r, checkerImage(128, 64))
	require.NoError(t, err)

	font, err := NewGridFont(s, 16, 8, ' ')
	require.NoError(t, err)
	assert.Equal(t, common.Vec2{X: 8, Y: 8}, font.CellSize())

	// Space is the top-left cell.
	frame, ok := font.GlyphFrame(' ')
	require.True(t, ok)
	assert.InDelta(t, 0.0, frame.X, 1e-6)
	assert.InDelta(t, 0.0, frame.Y, 1e-6)
	assert.InDelta(t, 1.0/16.0, frame.Width, 1e-6)
	assert.InDelta(t, 1.0/8.0, frame.Height, 1e-6)

	// 'A' is offset 33 from space: row 2, column 1.
	frame, ok = font.GlyphFrame('A')
	require.True(t, ok)
	assert.InDelta(t, 1.0/16.0, frame.X, 1e-6)
	assert.InDelta(t, 2.0/8.0, frame.Y, 1e-6)
}

func TestGridFontOutOfRange(t *testing.T) {
	r := newTestRenderer()

	s, err := NewSprite(r, checkerImage(128, 64))
	require.NoError(t, err)

	font, err := NewGridFont(s, 16, 8, ' ')
	require.NoError(t, err)

	_, ok := font.GlyphFrame('\t')
	assert.False(t, ok)
	_, ok = font.GlyphFrame(rune(' ' + 16*8))
	assert.False(t, ok)
}

func TestGridFontInvalidGrid(t *testing.T) {
	r := newTestRenderer()

	s, err := NewSprite(r, checkerImage(8, 8))
	require.NoError(t, err)

	_, err = NewGridFont(s, 0, 4, ' ')
	assert.Error(t, err)
	_, err = NewGridFont(nil, 4, 4, ' ')
	assert.Error(t, err)
}
