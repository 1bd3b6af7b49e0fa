package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/ember-go/common"
	"github.com/Carmen-Shannon/ember-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/ember-go/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	surfaceWidth  uint32
	surfaceHeight uint32

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)

	// Bind group layouts per registered pipeline key, indexed by group slot.
	// Needed to create bind groups against a pipeline after registration.
	bindGroupLayouts map[string][]*wgpu.BindGroupLayout
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) RendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:               &sync.Mutex{},
		instance:         wgpu.CreateInstance(nil),
		presentMode:      wgpu.PresentModeImmediate,
		bindGroupLayouts: make(map[string][]*wgpu.BindGroupLayout),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.surfaceWidth = uint32(width)
	b.surfaceHeight = uint32(height)
	if width <= 0 || height <= 0 {
		// A zero-area surface cannot be configured; frames are skipped until
		// the window regains area.
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) SurfaceSize() (uint32, uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceWidth, b.surfaceHeight
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if p.Shader(shader.ShaderTypeVertex) == nil || p.Shader(shader.ShaderTypeFragment) == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)

	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: vertexShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: vertexShader.Source(),
		},
	})
	if err != nil {
		return err
	}
	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: fragmentShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: fragmentShader.Source(),
		},
	})
	if err != nil {
		return err
	}

	merged := mergeBindGroupLayouts(vertexShader.BindGroupLayoutDescriptors(), fragmentShader.BindGroupLayoutDescriptors())
	maxGroup := -1
	for g := range merged {
		if g > maxGroup {
			maxGroup = g
		}
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g, desc := range merged {
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return err
	}

	vertexLayouts := make([]wgpu.VertexBufferLayout, 0, len(vertexShader.VertexLayouts()))
	for i := range vertexShader.VertexLayouts() {
		vertexLayouts = append(vertexLayouts, vertexShader.VertexLayout(i)...)
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets: []wgpu.ColorTargetState{
				func() wgpu.ColorTargetState {
					state := wgpu.ColorTargetState{
						Format:    b.colorTargetFormat(),
						WriteMask: p.WriteMask(),
					}
					if p.BlendEnabled() {
						state.Blend = p.BlendState()
					}
					return state
				}(),
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}

	p.SetRenderPipeline(created)
	b.mu.Lock()
	b.bindGroupLayouts[p.PipelineKey()] = bindGroupLayouts
	b.mu.Unlock()

	return nil
}

// colorTargetFormat returns the surface format once the surface is configured,
// falling back to the format used for offscreen render textures.
func (b *wgpuRendererBackendImpl) colorTargetFormat() wgpu.TextureFormat {
	if b.surfaceFormat != nil {
		return *b.surfaceFormat
	}
	return wgpu.TextureFormatRGBA8UnormSrgb
}

func (b *wgpuRendererBackendImpl) CreateBuffer(label string, usage BufferUsage, size uint64) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var wgpuUsage wgpu.BufferUsage
	switch usage {
	case BufferUsageVertex:
		wgpuUsage = wgpu.BufferUsageVertex
	case BufferUsageIndex:
		wgpuUsage = wgpu.BufferUsageIndex
	case BufferUsageUniform:
		wgpuUsage = wgpu.BufferUsageUniform
	}
	// CopySrc allows contents to migrate when a write outgrows the allocation.
	wgpuUsage |= wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            wgpuUsage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (b *wgpuRendererBackendImpl) WriteBuffer(raw any, offset uint64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, ok := raw.(*wgpu.Buffer)
	if !ok {
		return errors.New("raw value is not a wgpu buffer")
	}
	b.queue.WriteBuffer(buf, offset, data)
	return nil
}

func (b *wgpuRendererBackendImpl) CopyBuffer(src, dst any, size uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	srcBuf, ok := src.(*wgpu.Buffer)
	if !ok {
		return errors.New("source value is not a wgpu buffer")
	}
	dstBuf, ok := dst.(*wgpu.Buffer)
	if !ok {
		return errors.New("destination value is not a wgpu buffer")
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	encoder.CopyBufferToBuffer(srcBuf, 0, dstBuf, 0, size)
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()
	return nil
}

func (b *wgpuRendererBackendImpl) DestroyBuffer(raw any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if buf, ok := raw.(*wgpu.Buffer); ok {
		buf.Release()
	}
}

func (b *wgpuRendererBackendImpl) CreateTexture(label string, width, height uint32) (any, any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createTexture(label, width, height, wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopyDst)
}

func (b *wgpuRendererBackendImpl) CreateRenderTexture(label string, width, height uint32) (any, any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createTexture(label, width, height, wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding)
}

func (b *wgpuRendererBackendImpl) createTexture(label string, width, height uint32, usage wgpu.TextureUsage) (any, any, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     usage,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, err
	}
	return tex, view, nil
}

func (b *wgpuRendererBackendImpl) WriteTexture(raw any, width, height uint32, pixels []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, ok := raw.(*wgpu.Texture)
	if !ok {
		return errors.New("raw value is not a wgpu texture")
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  width * 4,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

func (b *wgpuRendererBackendImpl) CreateSampler(label string, data common.SamplerStagingData) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  common.Coalesce(data.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(data.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(data.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(data.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(data.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(data.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(data.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(data.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(data.MaxAnisotropy, 1),
		Compare:       data.Compare,
	})
	if err != nil {
		return nil, err
	}
	return samp, nil
}

func (b *wgpuRendererBackendImpl) CreateBindGroup(label string, p pipeline.Pipeline, group int, entries []BindGroupEntry) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	layouts, ok := b.bindGroupLayouts[p.PipelineKey()]
	if !ok || group >= len(layouts) || layouts[group] == nil {
		return nil, fmt.Errorf("pipeline %s has no bind group layout for group %d", p.PipelineKey(), group)
	}

	wgpuEntries := make([]wgpu.BindGroupEntry, len(entries))
	for i, entry := range entries {
		switch {
		case entry.Buffer != nil:
			size := entry.Size
			if size == 0 {
				size = wgpu.WholeSize
			}
			buf, bufOk := entry.Buffer.raw.(*wgpu.Buffer)
			if !bufOk {
				return nil, fmt.Errorf("binding %d buffer has no wgpu allocation", entry.Binding)
			}
			wgpuEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    size,
			}
		case entry.Texture != nil:
			view, viewOk := entry.Texture.view.(*wgpu.TextureView)
			if !viewOk {
				return nil, fmt.Errorf("binding %d texture has no wgpu view", entry.Binding)
			}
			wgpuEntries[i] = wgpu.BindGroupEntry{
				Binding:     entry.Binding,
				TextureView: view,
			}
		case entry.Sampler != nil:
			samp, sampOk := entry.Sampler.raw.(*wgpu.Sampler)
			if !sampOk {
				return nil, fmt.Errorf("binding %d sampler has no wgpu sampler", entry.Binding)
			}
			wgpuEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Sampler: samp,
			}
		default:
			return nil, fmt.Errorf("binding %d has no resource", entry.Binding)
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  layouts[group],
		Entries: wgpuEntries,
	})
	if err != nil {
		return nil, err
	}
	return bindGroup, nil
}

func (b *wgpuRendererBackendImpl) Render(passes *PassList, target *RenderTexture) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var view *wgpu.TextureView
	var surfaceTexture *wgpu.Texture

	if target != nil {
		targetView, ok := target.texture.view.(*wgpu.TextureView)
		if !ok {
			return fmt.Errorf("render texture %s has no wgpu view", target.label)
		}
		view = targetView
	} else {
		if b.surfaceWidth == 0 || b.surfaceHeight == 0 {
			// Minimized window. Nothing to draw into; skip the frame.
			return nil
		}

		var err error
		surfaceTexture, err = b.surface.GetCurrentTexture()
		if err != nil {
			// The swapchain can go stale after a resize or display change.
			// Reconfigure once and retry before giving up on the frame.
			b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
				Usage:       wgpu.TextureUsageRenderAttachment,
				Format:      *b.surfaceFormat,
				Width:       b.surfaceWidth,
				Height:      b.surfaceHeight,
				PresentMode: b.presentMode,
				AlphaMode:   wgpu.CompositeAlphaModeAuto,
			})
			surfaceTexture, err = b.surface.GetCurrentTexture()
			if err != nil {
				return fmt.Errorf("failed to acquire surface texture: %w", err)
			}
		}

		surfaceView, err := surfaceTexture.CreateView(nil)
		if err != nil {
			surfaceTexture.Release()
			return err
		}
		view = surfaceView
		defer func() {
			surfaceView.Release()
			surfaceTexture.Release()
		}()
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}

	for _, p := range passes.Passes() {
		loadOp := wgpu.LoadOpLoad
		clearValue := wgpu.Color{}
		if c := p.ClearColor(); c != nil {
			loadOp = wgpu.LoadOpClear
			clearValue = wgpu.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
		}

		pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{
				{
					View:       view,
					LoadOp:     loadOp,
					StoreOp:    wgpu.StoreOpStore,
					ClearValue: clearValue,
				},
			},
		})

		if pl := p.Pipeline(); pl != nil {
			renderPipeline, plOk := pl.Pipeline().(*wgpu.RenderPipeline)
			if !plOk {
				pass.End()
				pass.Release()
				encoder.Release()
				return fmt.Errorf("pipeline %s is not registered", pl.PipelineKey())
			}
			pass.SetPipeline(renderPipeline)

			for slot, bg := range p.BindGroups() {
				rawGroup, bgOk := bg.raw.(*wgpu.BindGroup)
				if !bgOk {
					pass.End()
					pass.Release()
					encoder.Release()
					return fmt.Errorf("bind group %s has no wgpu allocation", bg.label)
				}
				pass.SetBindGroup(uint32(slot), rawGroup, nil)
			}

			vStart, vEnd := p.VertexRange()
			iStart, iEnd := p.IndexRange()
			dStart, dEnd := p.DrawRange()
			if vEnd > vStart && iEnd > iStart && dEnd > dStart {
				vbo := p.vertexBuffer.raw.(*wgpu.Buffer)
				ebo := p.indexBuffer.raw.(*wgpu.Buffer)
				pass.SetVertexBuffer(0, vbo, vStart, vEnd-vStart)
				pass.SetIndexBuffer(ebo, wgpu.IndexFormatUint32, iStart, iEnd-iStart)
				pass.DrawIndexed(dEnd-dStart, 1, dStart, 0, 0)
			}
		}

		pass.End()
		pass.Release()
	}

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()

	if target == nil {
		b.surface.Present()
	}

	return nil
}

func mergeBindGroupLayouts(
	vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor,
) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	// collect all group indices from both maps
	groupIndices := make(map[int]bool)
	for g := range vertexLayouts {
		groupIndices[g] = true
	}
	for g := range fragmentLayouts {
		groupIndices[g] = true
	}

	for g := range groupIndices {
		vDesc, hasV := vertexLayouts[g]
		fDesc, hasF := fragmentLayouts[g]

		switch {
		case hasV && !hasF:
			// group only in vertex shader — use as-is
			merged[g] = vDesc
		case hasF && !hasV:
			// group only in fragment shader — use as-is
			merged[g] = fDesc
		default:
			// group in both — merge entries by binding number
			entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
			for _, e := range vDesc.Entries {
				entryMap[e.Binding] = e
			}
			for _, e := range fDesc.Entries {
				if existing, ok := entryMap[e.Binding]; ok {
					// same binding in both stages — OR the visibility
					existing.Visibility |= e.Visibility
					entryMap[e.Binding] = existing
				} else {
					entryMap[e.Binding] = e
				}
			}

			// flatten back to a sorted slice
			entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
			for _, e := range entryMap {
				entries = append(entries, e)
			}
			// sort by binding for deterministic layout
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Binding < entries[j].Binding
			})

			merged[g] = wgpu.BindGroupLayoutDescriptor{
				Label:   vDesc.Label,
				Entries: entries,
			}
		}
	}

	return merged
}
