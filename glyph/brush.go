package glyph

import (
	_ "embed"
	"fmt"
	"image"
	"log/slog"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/glyphdepth/glm"
	"github.com/oliverbestmann/glyphdepth/pulse"
)

//go:embed glyph.wgsl
var glyphShaderCode string

// initial number of quads the instance buffer can hold
const initialInstanceCapacity = 1024

// BrushBuilder configures and builds a Brush.
type BrushBuilder struct {
	font         *Font
	depthStencil *wgpu.DepthStencilState
}

func NewBrushBuilder(font *Font) *BrushBuilder {
	return &BrushBuilder{font: font}
}

// DepthStencilState enables depth testing for the glyphs drawn by the brush.
// Every DrawQueued call must then provide a depth attachment.
func (b *BrushBuilder) DepthStencilState(state wgpu.DepthStencilState) *BrushBuilder {
	b.depthStencil = &state
	return b
}

// Build creates the brush for render targets of the given color format.
func (b *BrushBuilder) Build(ctx *pulse.Context, format wgpu.TextureFormat) (*Brush, error) {
	bufTransform, err := ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Glyph.Transform",
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:  uint64(unsafe.Sizeof(glm.Mat4f{})),
	})

	if err != nil {
		return nil, fmt.Errorf("create transform uniform: %w", err)
	}

	brush := &Brush{
		ctx:          ctx,
		processor:    NewProcessor(b.font),
		format:       format,
		depthStencil: b.depthStencil,
		pipelines:    pulse.NewPipelineCache[glyphPipelineConfig](ctx),
		bufTransform: bufTransform,
	}

	if err := brush.ensureInstanceCapacity(initialInstanceCapacity); err != nil {
		brush.Release()
		return nil, err
	}

	return brush, nil
}

// Brush draws queued glyph sections with a single instanced draw call.
type Brush struct {
	ctx *pulse.Context

	processor *Processor

	format       wgpu.TextureFormat
	depthStencil *wgpu.DepthStencilState

	pipelines *pulse.PipelineCache[glyphPipelineConfig]

	atlas *pulse.Texture

	bufTransform *wgpu.Buffer

	bufInstances     *wgpu.Buffer
	instanceCapacity int
}

// Queue adds a section to the glyph queue. It is drawn by the next call to DrawQueued.
func (b *Brush) Queue(section Section) {
	b.processor.Queue(section)
}

// DrawQueued encodes one render pass into enc that draws all queued sections
// onto the target. The color target is loaded, the depth attachment is cleared
// to depth.ClearDepth first. The queue is empty afterward, even on error.
func (b *Brush) DrawQueued(enc *wgpu.CommandEncoder, target pulse.RenderTarget, depth DepthAttachment) error {
	if err := b.drawQueued(enc, target, depth); err != nil {
		return fmt.Errorf("%w: %w", ErrDraw, err)
	}

	return nil
}

func (b *Brush) drawQueued(enc *wgpu.CommandEncoder, target pulse.RenderTarget, depth DepthAttachment) error {
	if target.Format != b.format {
		// still drain the queue
		_, _ = b.processor.Process()
		return fmt.Errorf("target format %v does not match brush format %v", target.Format, b.format)
	}

	if b.depthStencil != nil && depth.View == nil {
		_, _ = b.processor.Process()
		return fmt.Errorf("depth testing enabled but no depth attachment given")
	}

	quads, err := b.processor.Process()
	if err != nil {
		return fmt.Errorf("process queue: %w", err)
	}

	if err := b.uploadAtlas(); err != nil {
		return err
	}

	transform := glm.OrthographicMat4(float32(target.Width), float32(target.Height))
	err = b.ctx.Queue.WriteBuffer(b.bufTransform, 0, pulse.AsByteSlice(&transform))
	if err != nil {
		return fmt.Errorf("update transform uniform: %w", err)
	}

	if err := b.ensureInstanceCapacity(len(quads)); err != nil {
		return err
	}

	if len(quads) > 0 {
		err = b.ctx.Queue.WriteBuffer(b.bufInstances, 0, wgpu.ToBytes(quads))
		if err != nil {
			return fmt.Errorf("update instance buffer: %w", err)
		}
	}

	pipeline, err := b.pipelines.Get(glyphPipelineConfig{
		TargetFormat: b.format,
		DepthStencil: b.depthStencilState(),
		HasDepth:     b.depthStencil != nil,
	})

	if err != nil {
		return fmt.Errorf("get pipeline: %w", err)
	}

	sampler, err := pulse.CachedSampler(b.ctx.Device, atlasSamplerDescriptor())
	if err != nil {
		return err
	}

	bindGroup, err := b.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Glyph.BindGroup",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.bufTransform,
				Size:    wgpu.WholeSize,
			},
			{
				Binding:     1,
				TextureView: b.atlas.View(),
			},
			{
				Binding: 2,
				Sampler: sampler,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}

	defer bindGroup.Release()

	slog.Debug("Draw glyphs", slog.Int("quads", len(quads)))

	pass := enc.BeginRenderPass(b.passDescriptor(target, depth))

	passGuard := pulse.NewReleaseGuard(pass)
	defer passGuard.Release()

	if len(quads) > 0 {
		pass.SetPipeline(pipeline.Pipeline)
		pass.SetBindGroup(0, bindGroup, nil)
		pass.SetVertexBuffer(0, b.bufInstances, 0, wgpu.WholeSize)
		pass.Draw(4, uint32(len(quads)), 0, 0)
	}

	if err := pass.End(); err != nil {
		return fmt.Errorf("end glyph pass: %w", err)
	}

	return nil
}

func (b *Brush) depthStencilState() wgpu.DepthStencilState {
	if b.depthStencil == nil {
		return wgpu.DepthStencilState{}
	}

	return *b.depthStencil
}

func (b *Brush) passDescriptor(target pulse.RenderTarget, depth DepthAttachment) *wgpu.RenderPassDescriptor {
	desc := &wgpu.RenderPassDescriptor{
		Label: "Glyph.Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    target.View,
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			},
		},
	}

	if b.depthStencil != nil {
		desc.DepthStencilAttachment = depth.descriptor()
	}

	return desc
}

// uploadAtlas copies the modified part of the cpu side atlas to the gpu,
// recreating the texture if the atlas was resized.
func (b *Brush) uploadAtlas() error {
	atlas := b.processor.Atlas()
	size := uint32(atlas.Size())

	if b.atlas == nil || b.atlas.Width() != size {
		if b.atlas != nil {
			b.atlas.Release()
			b.atlas = nil
		}

		texture, err := pulse.NewTextureFromDesc(b.ctx, atlasDescriptor(size))
		if err != nil {
			return fmt.Errorf("create atlas texture: %w", err)
		}

		b.atlas = texture

		// the new texture has no content yet
		atlas.TakeDirty()
		return b.writeAtlas(atlas.Image().Rect)
	}

	dirty := atlas.TakeDirty()
	if dirty.Empty() {
		return nil
	}

	return b.writeAtlas(dirty)
}

func (b *Brush) writeAtlas(rect image.Rectangle) error {
	img := b.processor.Atlas().Image()

	return b.atlas.WritePixelsToRect(b.ctx, pulse.WritePixelsOptions{
		Pixels:        img.Pix[img.PixOffset(rect.Min.X, rect.Min.Y):],
		Region:        pulse.RectangleFromXYWH(uint32(rect.Min.X), uint32(rect.Min.Y), uint32(rect.Dx()), uint32(rect.Dy())),
		Stride:        uint32(img.Stride),
		BytesPerPixel: 1,
	})
}

func (b *Brush) ensureInstanceCapacity(count int) error {
	if count <= b.instanceCapacity {
		return nil
	}

	capacity := max(initialInstanceCapacity, b.instanceCapacity)
	for capacity < count {
		capacity *= 2
	}

	buffer, err := b.ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Glyph.Instances",
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		Size:  uint64(unsafe.Sizeof(Quad{})) * uint64(capacity),
	})

	if err != nil {
		return fmt.Errorf("create instance buffer: %w", err)
	}

	if b.bufInstances != nil {
		b.bufInstances.Release()
	}

	b.bufInstances = buffer
	b.instanceCapacity = capacity

	return nil
}

// Release frees all gpu resources of the brush.
func (b *Brush) Release() {
	b.pipelines.Purge()

	if b.atlas != nil {
		b.atlas.Release()
		b.atlas = nil
	}

	if b.bufInstances != nil {
		b.bufInstances.Release()
		b.bufInstances = nil
	}

	if b.bufTransform != nil {
		b.bufTransform.Release()
		b.bufTransform = nil
	}
}

func atlasDescriptor(size uint32) *wgpu.TextureDescriptor {
	return &wgpu.TextureDescriptor{
		Label:         "Glyph.Atlas",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatR8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
		Size: wgpu.Extent3D{
			Width:              size,
			Height:             size,
			DepthOrArrayLayers: 1,
		},
	}
}

func atlasSamplerDescriptor() wgpu.SamplerDescriptor {
	return wgpu.SamplerDescriptor{
		Label:         "Glyph.AtlasSampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		MaxAnisotropy: 1,
	}
}

type glyphPipelineConfig struct {
	TargetFormat wgpu.TextureFormat
	DepthStencil wgpu.DepthStencilState
	HasDepth     bool
}

func (conf glyphPipelineConfig) Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	slog.Info(
		"Create RenderPipeline for glyphs",
		slog.Any("format", conf.TargetFormat),
		slog.Bool("depth", conf.HasDepth),
	)

	shader, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Glyph.Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: glyphShaderCode},
	})

	if err != nil {
		return nil, fmt.Errorf("compile glyph shader: %w", err)
	}

	defer shader.Release()

	desc := conf.descriptor(shader)

	pipeline, err := dev.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("build glyph pipeline: %w", err)
	}

	return pipeline, nil
}

func (conf glyphPipelineConfig) descriptor(shader *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor {
	var depthStencil *wgpu.DepthStencilState
	if conf.HasDepth {
		state := conf.DepthStencil
		depthStencil = &state
	}

	return &wgpu.RenderPipelineDescriptor{
		Label: fmt.Sprintf("Glyph.%v", conf.TargetFormat),
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{quadBufferLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    conf.TargetFormat,
					Blend:     &wgpu.BlendStateAlphaBlending,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleStrip,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depthStencil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}
}

func quadBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(Quad{})),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         uint64(unsafe.Offsetof(Quad{}.LeftTop)),
				ShaderLocation: 0,
			},
			{
				Format:         wgpu.VertexFormatFloat32x2,
				Offset:         uint64(unsafe.Offsetof(Quad{}.RightBottom)),
				ShaderLocation: 1,
			},
			{
				Format:         wgpu.VertexFormatFloat32x2,
				Offset:         uint64(unsafe.Offsetof(Quad{}.TexLeftTop)),
				ShaderLocation: 2,
			},
			{
				Format:         wgpu.VertexFormatFloat32x2,
				Offset:         uint64(unsafe.Offsetof(Quad{}.TexRightBottom)),
				ShaderLocation: 3,
			},
			{
				Format:         wgpu.VertexFormatFloat32x4,
				Offset:         uint64(unsafe.Offsetof(Quad{}.Color)),
				ShaderLocation: 4,
			},
		},
	}
}
