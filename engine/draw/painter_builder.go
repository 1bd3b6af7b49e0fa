package draw

// painterOptions holds the configurable settings applied while building a painter.
type painterOptions struct {
	spriteCacheCap       int
	skipDefaultPipelines bool
	customPipelines      map[DrawPipelineID]PipelineContext
}

// PainterOption is a functional option for configuring a painter during creation.
type PainterOption func(*painterOptions)

// WithSpriteCacheSize overrides the maximum number of sprite bind groups kept
// resident. The default is 16.
//
// Parameters:
//   - capacity: the maximum number of cached sprite bind groups
//
// Returns:
//   - PainterOption: a function that applies the cache size to the painter options
func WithSpriteCacheSize(capacity int) PainterOption {
	return func(o *painterOptions) {
		o.spriteCacheCap = capacity
	}
}

// WithoutDefaultPipelines skips registration of the built-in shapes, images,
// text, and pattern pipelines. Useful when every pipeline is custom.
//
// Returns:
//   - PainterOption: a function that disables the built-in pipelines
func WithoutDefaultPipelines() PainterOption {
	return func(o *painterOptions) {
		o.skipDefaultPipelines = true
	}
}

// WithDrawPipeline registers a custom drawing pipeline during painter creation.
//
// Parameters:
//   - id: the drawing pipeline ID to register under
//   - ctx: the pipeline context describing the vertex layout
//
// Returns:
//   - PainterOption: a function that adds the pipeline to the painter options
func WithDrawPipeline(id DrawPipelineID, ctx PipelineContext) PainterOption {
	return func(o *painterOptions) {
		if o.customPipelines == nil {
			o.customPipelines = make(map[DrawPipelineID]PipelineContext)
		}
		o.customPipelines[id] = ctx
	}
}
