package sprite

import (
	"github.com/Carmen-Shannon/ember-go/common"
)

// spriteOptions holds the configurable settings applied while building a sprite.
type spriteOptions struct {
	label       string
	samplerData common.SamplerStagingData
	frame       *common.Rect
	scaleWidth  int
	scaleHeight int
}

// SpriteOption is a functional option for configuring a sprite during creation.
type SpriteOption func(*spriteOptions)

// WithLabel sets the debug label used for the sprite's GPU resources.
//
// Parameters:
//   - label: the label to apply
//
// Returns:
//   - SpriteOption: a function that applies the label to the sprite options
func WithLabel(label string) SpriteOption {
	return func(o *spriteOptions) {
		o.label = label
	}
}

// WithSampler overrides the sampler configuration for the sprite. The default
// is common.DefaultSamplerStagingData (repeat addressing, linear filtering);
// pixel-art sprites usually want common.PixelSamplerStagingData instead.
//
// Parameters:
//   - data: the sampler staging configuration to use
//
// Returns:
//   - SpriteOption: a function that applies the sampler configuration
func WithSampler(data common.SamplerStagingData) SpriteOption {
	return func(o *spriteOptions) {
		o.samplerData = data
	}
}

// WithFrame restricts the sprite to a pixel-space sub-rectangle of its texture.
//
// Parameters:
//   - frame: the sub-rectangle in pixels
//
// Returns:
//   - SpriteOption: a function that applies the frame to the sprite options
func WithFrame(frame common.Rect) SpriteOption {
	return func(o *spriteOptions) {
		o.frame = &frame
	}
}

// WithScaledSize rescales the source image to the given pixel dimensions
// before upload. Has no effect on NewSpriteFromTexture.
//
// Parameters:
//   - width: the target width in pixels
//   - height: the target height in pixels
//
// Returns:
//   - SpriteOption: a function that applies the target size to the sprite options
func WithScaledSize(width, height int) SpriteOption {
	return func(o *spriteOptions) {
		o.scaleWidth = width
		o.scaleHeight = height
	}
}
