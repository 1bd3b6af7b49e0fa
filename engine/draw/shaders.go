package draw

// Built-in WGSL sources for the standard 2D pipelines. Each source carries
// both entry points; the vertex and fragment shaders are parsed from the same
// string. Vertex positions arrive pre-transformed to view space, so the only
// uniform is the orthographic projection at group 0.

// shapesShaderSource renders solid-color geometry. Vertex layout is
// [x, y, r, g, b, a].
const shapesShaderSource = `
struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) color: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@group(0) @binding(0) var<uniform> projection: mat4x4<f32>;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = projection * vec4<f32>(in.position, 0.0, 1.0);
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return in.color;
}
`

// imagesShaderSource renders textured quads tinted by a vertex color. Vertex
// layout is [x, y, u, v, r, g, b, a]. Text rendering shares this source under
// its own pipeline key.
const imagesShaderSource = `
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
@group(1) @binding(0) var spriteTexture: texture_2d<f32>;
@group(1) @binding(1) var spriteSampler: sampler;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = projection * vec4<f32>(in.position, 0.0, 1.0);
    out.uv = in.uv;
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(spriteTexture, spriteSampler, in.uv) * in.color;
}
`

// patternShaderSource tiles a sprite frame across a shape. Vertex layout is
// [x, y, u, v, frameX, frameY, frameW, frameH, r, g, b, a]. The uv channel is
// in tile units; fract keeps the sample inside the atlas frame so tiling works
// for sub-sprites too.
const patternShaderSource = `
struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) frame: vec4<f32>,
    @location(3) color: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) frame: vec4<f32>,
    @location(2) color: vec4<f32>,
}

@group(0) @binding(0) var<uniform> projection: mat4x4<f32>;
@group(1) @binding(0) var spriteTexture: texture_2d<f32>;
@group(1) @binding(1) var spriteSampler: sampler;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = projection * vec4<f32>(in.position, 0.0, 1.0);
    out.uv = in.uv;
    out.frame = in.frame;
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let sampleUV = in.frame.xy + fract(in.uv) * in.frame.zw;
    return textureSample(spriteTexture, spriteSampler, sampleUV) * in.color;
}
`
