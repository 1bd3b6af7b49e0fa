package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testImageVertexSource = `
// Textured quad vertex shader.
struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) color: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
}

@group(0) @binding(0) var<uniform> projection: mat4x4<f32>;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = projection * vec4<f32>(in.position, 0.0, 1.0);
    out.uv = in.uv;
    out.color = in.color;
    return out;
}
`

const testImageFragmentSource = `
struct FragmentInput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
}

@group(1) @binding(0) var spriteTexture: texture_2d<f32>;
@group(1) @binding(1) var spriteSampler: sampler;

@fragment
fn fs_main(in: FragmentInput) -> @location(0) vec4<f32> {
    return textureSample(spriteTexture, spriteSampler, in.uv) * in.color;
}
`

func TestNewShaderParsesVertexEntryPoint(t *testing.T) {
	s := NewShader("image_vert", ShaderTypeVertex, testImageVertexSource)
	assert.Equal(t, "image_vert", s.Key())
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
}

func TestNewShaderParsesFragmentEntryPoint(t *testing.T) {
	s := NewShader("image_frag", ShaderTypeFragment, testImageFragmentSource)
	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeFragment, s.ShaderType())
}

func TestNewShaderPanicsOnEmptySource(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("empty", ShaderTypeVertex, "")
	})
}

func TestNewShaderPanicsOnMissingEntryPoint(t *testing.T) {
	assert.Panics(t, func() {
		// Fragment-only source parsed as a vertex shader has no @vertex entry.
		NewShader("mismatched", ShaderTypeVertex, testImageFragmentSource)
	})
}

func TestVertexLayoutFromInputStruct(t *testing.T) {
	s := NewShader("image_vert", ShaderTypeVertex, testImageVertexSource)

	layouts := s.VertexLayout(0)
	require.Len(t, layouts, 1)

	layout := layouts[0]
	assert.Equal(t, uint64(32), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 3)

	assert.Equal(t, wgpu.VertexFormatFloat32x2, layout.Attributes[0].Format)
	assert.Equal(t, uint64(0), layout.Attributes[0].Offset)
	assert.Equal(t, uint32(0), layout.Attributes[0].ShaderLocation)

	assert.Equal(t, wgpu.VertexFormatFloat32x2, layout.Attributes[1].Format)
	assert.Equal(t, uint64(8), layout.Attributes[1].Offset)

	assert.Equal(t, wgpu.VertexFormatFloat32x4, layout.Attributes[2].Format)
	assert.Equal(t, uint64(16), layout.Attributes[2].Offset)
	assert.Equal(t, uint32(2), layout.Attributes[2].ShaderLocation)
}

func TestVertexOutputStructIsNotAVertexLayout(t *testing.T) {
	// VertexOutput mixes @location with @builtin(position) and must be skipped,
	// so exactly one layout comes out of the vertex source.
	s := NewShader("image_vert", ShaderTypeVertex, testImageVertexSource)
	assert.Len(t, s.VertexLayouts(), 1)
}

func TestUniformBindGroupLayout(t *testing.T) {
	s := NewShader("image_vert", ShaderTypeVertex, testImageVertexSource)

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 1)

	entry := desc.Entries[0]
	assert.Equal(t, uint32(0), entry.Binding)
	assert.Equal(t, wgpu.ShaderStageVertex, entry.Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entry.Buffer.Type)
	assert.Equal(t, uint64(64), entry.Buffer.MinBindingSize)
}

func TestTextureAndSamplerBindGroupLayout(t *testing.T) {
	s := NewShader("image_frag", ShaderTypeFragment, testImageFragmentSource)

	desc := s.BindGroupLayoutDescriptor(1)
	require.Len(t, desc.Entries, 2)

	texEntry := desc.Entries[0]
	assert.Equal(t, uint32(0), texEntry.Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, texEntry.Visibility)
	assert.Equal(t, wgpu.TextureViewDimension2D, texEntry.Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, texEntry.Texture.SampleType)

	samplerEntry := desc.Entries[1]
	assert.Equal(t, uint32(1), samplerEntry.Binding)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, samplerEntry.Sampler.Type)
}

func TestBindGroupVarNames(t *testing.T) {
	s := NewShader("image_frag", ShaderTypeFragment, testImageFragmentSource)

	assert.Equal(t, "spriteTexture", s.BindGroupVarName(1, 0))
	assert.Equal(t, "spriteSampler", s.BindGroupVarName(1, 1))
	assert.Equal(t, "", s.BindGroupVarName(0, 5))

	binding, ok := s.BindGroupFromVarName(1, "spriteSampler")
	assert.True(t, ok)
	assert.Equal(t, 1, binding)

	_, ok = s.BindGroupFromVarName(1, "missing")
	assert.False(t, ok)
}

func TestStructSizeForUniformStruct(t *testing.T) {
	source := `
struct Globals {
    projection: mat4x4<f32>, /* 64 bytes at offset 0 */
    tint: vec4<f32>,         // 16 bytes at offset 64
    time: f32,               // 4 bytes at offset 80, struct rounds to 96
}

@group(0) @binding(0) var<uniform> globals: Globals;

@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0);
}
`
	s := NewShader("globals_vert", ShaderTypeVertex, source)

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 1)
	assert.Equal(t, uint64(96), desc.Entries[0].Buffer.MinBindingSize)
}

func TestStripCommentsHandlesNestedBlocks(t *testing.T) {
	source := "a /* outer /* inner */ still outer */ b // trailing\nc"
	cleaned := stripComments(source)
	assert.Contains(t, cleaned, "a")
	assert.Contains(t, cleaned, "b")
	assert.Contains(t, cleaned, "c")
	assert.NotContains(t, cleaned, "inner")
	assert.NotContains(t, cleaned, "trailing")
}

func TestSplitAtTopLevelCommas(t *testing.T) {
	parts := splitAtTopLevelCommas("a: f32,\nb: array<vec4<f32>, 4>,\nc: u32")
	require.Len(t, parts, 3)
	assert.Contains(t, parts[1], "array<vec4<f32>, 4>")
}
