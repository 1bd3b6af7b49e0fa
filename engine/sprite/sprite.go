package sprite

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/renderer"
	xdraw "golang.org/x/image/draw"
)

var spriteIDCounter uint64

// sprite is the implementation of the Sprite interface.
type sprite struct {
	id      uint64
	label   string
	texture *renderer.Texture
	sampler *renderer.Sampler
	frame   common.Rect
}

// Sprite is a drawable region of a GPU texture paired with a sampler.
// The frame selects the sub-rectangle of the texture in normalized
// coordinates, which lets many sprites share a single atlas texture.
type Sprite interface {
	// ID retrieves the unique identifier for this sprite, used for bind group caching.
	//
	// Returns:
	//   - uint64: the sprite's unique ID
	ID() uint64

	// Label retrieves the debug label for this sprite.
	//
	// Returns:
	//   - string: the sprite's label
	Label() string

	// Texture retrieves the GPU texture handle backing this sprite.
	//
	// Returns:
	//   - *renderer.Texture: the texture handle
	Texture() *renderer.Texture

	// Sampler retrieves the sampler handle used when this sprite is drawn.
	//
	// Returns:
	//   - *renderer.Sampler: the sampler handle
	Sampler() *renderer.Sampler

	// Frame retrieves the normalized texture sub-rectangle this sprite draws from.
	// A full-texture sprite has the frame (0, 0, 1, 1).
	//
	// Returns:
	//   - common.Rect: the normalized frame
	Frame() common.Rect

	// Size retrieves the pixel dimensions of the sprite's frame.
	//
	// Returns:
	//   - common.Vec2: the frame size in pixels
	Size() common.Vec2

	// SubSprite derives a new sprite sharing this sprite's texture and sampler
	// but drawing from a sub-rectangle of this sprite's frame. The given rect is
	// in pixels relative to this sprite's frame origin.
	//
	// Parameters:
	//   - rect: the pixel sub-rectangle within this sprite's frame
	//
	// Returns:
	//   - Sprite: a new sprite for the sub-region
	SubSprite(rect common.Rect) Sprite
}

var _ Sprite = &sprite{}

// NewSprite uploads the given image to the GPU and wraps it as a Sprite.
// The image is converted to RGBA and optionally rescaled before upload.
//
// Parameters:
//   - r: the renderer that owns the created texture and sampler
//   - img: the source image to upload
//   - options: optional builder functions to configure the sprite
//
// Returns:
//   - Sprite: the created sprite
//   - error: an error if texture or sampler creation failed
func NewSprite(r renderer.Renderer, img image.Image, options ...SpriteOption) (Sprite, error) {
	if img == nil {
		return nil, fmt.Errorf("sprite: image must not be nil")
	}

	opts := &spriteOptions{
		label:       "sprite",
		samplerData: common.DefaultSamplerStagingData(),
	}
	for _, opt := range options {
		opt(opts)
	}

	rgba := toRGBA(img, opts.scaleWidth, opts.scaleHeight)
	bounds := rgba.Bounds()
	width := uint32(bounds.Dx())
	height := uint32(bounds.Dy())

	texture, err := r.CreateTexture(opts.label, width, height, rgba.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to create sprite texture: %w", err)
	}

	sampler, err := r.CreateSampler(opts.label, opts.samplerData)
	if err != nil {
		return nil, fmt.Errorf("failed to create sprite sampler: %w", err)
	}

	s := &sprite{
		id:      atomic.AddUint64(&spriteIDCounter, 1),
		label:   opts.label,
		texture: texture,
		sampler: sampler,
		frame:   common.NewRect(0, 0, 1, 1),
	}
	if opts.frame != nil {
		s.frame = normalizeFrame(*opts.frame, width, height)
	}
	return s, nil
}

// NewSpriteFromTexture wraps an existing texture handle as a Sprite. This is
// how offscreen render target contents become drawable, via rt.Texture().
//
// Parameters:
//   - r: the renderer that owns the created sampler
//   - texture: the existing texture handle to wrap
//   - options: optional builder functions to configure the sprite
//
// Returns:
//   - Sprite: the created sprite
//   - error: an error if sampler creation failed
func NewSpriteFromTexture(r renderer.Renderer, texture *renderer.Texture, options ...SpriteOption) (Sprite, error) {
	if texture == nil {
		return nil, fmt.Errorf("sprite: texture must not be nil")
	}

	opts := &spriteOptions{
		label:       texture.Label(),
		samplerData: common.DefaultSamplerStagingData(),
	}
	for _, opt := range options {
		opt(opts)
	}

	sampler, err := r.CreateSampler(opts.label, opts.samplerData)
	if err != nil {
		return nil, fmt.Errorf("failed to create sprite sampler: %w", err)
	}

	s := &sprite{
		id:      atomic.AddUint64(&spriteIDCounter, 1),
		label:   opts.label,
		texture: texture,
		sampler: sampler,
		frame:   common.NewRect(0, 0, 1, 1),
	}
	if opts.frame != nil {
		s.frame = normalizeFrame(*opts.frame, texture.Width(), texture.Height())
	}
	return s, nil
}

func (s *sprite) ID() uint64 {
	return s.id
}

func (s *sprite) Label() string {
	return s.label
}

func (s *sprite) Texture() *renderer.Texture {
	return s.texture
}

func (s *sprite) Sampler() *renderer.Sampler {
	return s.sampler
}

func (s *sprite) Frame() common.Rect {
	return s.frame
}

func (s *sprite) Size() common.Vec2 {
	return common.Vec2{
		X: s.frame.Width * float32(s.texture.Width()),
		Y: s.frame.Height * float32(s.texture.Height()),
	}
}

func (s *sprite) SubSprite(rect common.Rect) Sprite {
	texWidth := float32(s.texture.Width())
	texHeight := float32(s.texture.Height())
	return &sprite{
		id:      atomic.AddUint64(&spriteIDCounter, 1),
		label:   s.label,
		texture: s.texture,
		sampler: s.sampler,
		frame: common.NewRect(
			s.frame.X+rect.X/texWidth,
			s.frame.Y+rect.Y/texHeight,
			rect.Width/texWidth,
			rect.Height/texHeight,
		),
	}
}

// toRGBA converts any image to *image.RGBA, rescaling when a target size is
// given. A source that is already RGBA at the right size is returned as-is.
func toRGBA(img image.Image, scaleWidth, scaleHeight int) *image.RGBA {
	bounds := img.Bounds()

	if scaleWidth > 0 && scaleHeight > 0 && (bounds.Dx() != scaleWidth || bounds.Dy() != scaleHeight) {
		dst := image.NewRGBA(image.Rect(0, 0, scaleWidth, scaleHeight))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) {
		return rgba
	}

	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
	return dst
}

// normalizeFrame converts a pixel-space frame rect to normalized texture coordinates.
func normalizeFrame(frame common.Rect, width, height uint32) common.Rect {
	w := float32(width)
	h := float32(height)
	return common.NewRect(frame.X/w, frame.Y/h, frame.Width/w, frame.Height/h)
}
