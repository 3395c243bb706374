package vg

import (
	"math"
	"strings"

	"github.com/goxjs/gl"
)

func putFloat32LE(b []byte, v float32) { putUint32LE(b, math.Float32bits(v)) }

func putUint32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putUint16LE(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// GLBackend is the reference Backend implementation, binding the
// collaborator contract to real OpenGL/WebGL calls via goxjs/gl. It keeps
// one shader program per DrawCommandType rather than the teacher's five ad
// hoc shader "types" dispatched through a single uniform int.
type GLBackend struct {
	programs  [numDrawCommandTypes]glProgram
	active    DrawCommandType
	viewSize  [2]float32
	textures  map[TextureHandle]glBackendTexture
	nextTexID int
	buffers   map[BufferHandle]gl.Buffer
	nextBufID int
}

type glProgram struct {
	program   gl.Program
	vertex    gl.Shader
	fragment  gl.Shader
	vertexLoc gl.Attrib
	tcoordLoc gl.Attrib
	colorLoc  gl.Attrib
	viewSize  gl.Uniform
	tex       gl.Uniform
	frag      gl.Uniform
}

type glBackendTexture struct {
	tex     gl.Texture
	w, h    int
	kind    TextureKind
	flags   ImageFlags
}

// NewGLBackend compiles the shared fill/stroke program once per
// DrawCommandType and returns a ready-to-use Backend.
func NewGLBackend() (*GLBackend, error) {
	b := &GLBackend{
		textures: make(map[TextureHandle]glBackendTexture),
		buffers:  make(map[BufferHandle]gl.Buffer),
	}
	for typ := DrawCommandType(0); typ < numDrawCommandTypes; typ++ {
		p, err := compileProgram(typ)
		if err != nil {
			return nil, err
		}
		b.programs[typ] = p
	}
	return b, nil
}

// fillVertexShader positions every vertex in clip space from viewSize and
// forwards its texcoord/position to the fragment stage; identical across
// all four draw types, so it is compiled once per program but never
// varies with typ.
const fillVertexShader = `
uniform vec2 viewSize;
attribute vec2 vertex;
attribute vec2 tcoord;
attribute vec4 vcolor;
varying vec2 ftcoord;
varying vec2 fpos;
varying vec4 fcolor;
void main(void) {
	ftcoord = tcoord;
	fpos = vertex;
	fcolor = vcolor;
	gl_Position = vec4(2.0*vertex.x/viewSize.x - 1.0, 1.0 - 2.0*vertex.y/viewSize.y, 0.0, 1.0);
}`

// fillFragmentShader carries the box-gradient SDF and stroke AA mask from
// the teacher's single mega-shader, but branches on the DrawCommandType
// baked in at compile time (via typeDefine) instead of a runtime "type"
// uniform covering five ad hoc shader kinds. Scissoring is left entirely
// to the backend's hardware scissor rect; every scissor this renderer
// produces is already axis-aligned by the time a DrawCommand reaches here.
const fillFragmentShaderTemplate = `
#ifdef GL_ES
precision mediump float;
#endif
%s
uniform vec4 frag[8];
uniform sampler2D tex;
varying vec2 ftcoord;
varying vec2 fpos;
varying vec4 fcolor;

#define paintMat mat3(frag[0].xyz, frag[1].xyz, frag[2].xyz)
#define innerCol frag[3]
#define outerCol frag[4]
#define extent frag[5].xy
#define radius frag[5].z
#define feather frag[5].w
#define strokeMult frag[6].x
#define strokeThr frag[6].y
#define texKind frag[6].z

float sdroundrect(vec2 pt, vec2 ext, float rad) {
	vec2 ext2 = ext - vec2(rad, rad);
	vec2 d = abs(pt) - ext2;
	return min(max(d.x, d.y), 0.0) + length(max(d, 0.0)) - rad;
}

float strokeMask() {
	return min(1.0, (1.0-abs(ftcoord.x*2.0-1.0))*strokeMult) * min(1.0, ftcoord.y);
}

void main(void) {
	vec4 result;
	float strokeAlpha = strokeMask();
#if defined(DRAW_COLOR_GRADIENT) || defined(DRAW_CLIP)
	vec2 pt = (paintMat * vec3(fpos, 1.0)).xy;
	float d = clamp((sdroundrect(pt, extent, radius) + feather*0.5) / feather, 0.0, 1.0);
	vec4 color = mix(innerCol, outerCol, d);
	color *= strokeAlpha;
	result = color;
#ifdef DRAW_CLIP
	result = vec4(1.0, 1.0, 1.0, 1.0);
#endif
#elif defined(DRAW_IMAGE_PATTERN)
	vec2 pt2 = (paintMat * vec3(fpos, 1.0)).xy / extent;
	vec4 color2 = texture2D(tex, pt2);
	if (texKind > 0.5 && texKind < 1.5) color2 = vec4(color2.x);
	color2 *= innerCol;
	color2 *= strokeAlpha;
	result = color2;
#else
	vec4 color3 = texture2D(tex, ftcoord);
	if (texKind > 1.5) color3 = vec4(color3.xyz*color3.w, color3.w);
	if (texKind > 0.5 && texKind < 1.5) color3 = vec4(color3.x);
	result = color3 * innerCol;
#endif
	if (strokeAlpha < strokeThr) discard;
	gl_FragColor = result * fcolor;
}`

func typeDefine(typ DrawCommandType) string {
	switch typ {
	case DrawColorGradient:
		return "#define DRAW_COLOR_GRADIENT 1"
	case DrawImagePattern:
		return "#define DRAW_IMAGE_PATTERN 1"
	case DrawClip:
		return "#define DRAW_CLIP 1\n#define DRAW_COLOR_GRADIENT 1"
	default:
		return "#define DRAW_TEXTURED 1"
	}
}

func compileProgram(typ DrawCommandType) (glProgram, error) {
	var p glProgram
	program := gl.CreateProgram()

	vs := gl.CreateShader(gl.VERTEX_SHADER)
	gl.ShaderSource(vs, fillVertexShader)
	gl.CompileShader(vs)
	if gl.Enum(gl.GetShaderi(vs, gl.COMPILE_STATUS)) != gl.TRUE {
		return p, shaderCompileError(vs, "vertex")
	}

	fs := gl.CreateShader(gl.FRAGMENT_SHADER)
	gl.ShaderSource(fs, strings.Join([]string{typeDefine(typ), fillFragmentShaderTemplate}, "\n"))
	gl.CompileShader(fs)
	if gl.Enum(gl.GetShaderi(fs, gl.COMPILE_STATUS)) != gl.TRUE {
		return p, shaderCompileError(fs, "fragment")
	}

	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	if gl.Enum(gl.GetProgrami(program, gl.LINK_STATUS)) != gl.TRUE {
		return p, programLinkError(program)
	}

	p.program = program
	p.vertex = vs
	p.fragment = fs
	p.vertexLoc = gl.GetAttribLocation(program, "vertex")
	p.tcoordLoc = gl.GetAttribLocation(program, "tcoord")
	p.colorLoc = gl.GetAttribLocation(program, "vcolor")
	p.viewSize = gl.GetUniformLocation(program, "viewSize")
	p.tex = gl.GetUniformLocation(program, "tex")
	p.frag = gl.GetUniformLocation(program, "frag")
	return p, nil
}

func shaderCompileError(s gl.Shader, stage string) error {
	return &backendError{op: "compile " + stage + " shader", log: gl.GetShaderInfoLog(s)}
}

func programLinkError(p gl.Program) error {
	return &backendError{op: "link program", log: gl.GetProgramInfoLog(p)}
}

type backendError struct {
	op  string
	log string
}

func (e *backendError) Error() string { return "vg: " + e.op + ": " + e.log }

func (b *GLBackend) CreateVertexBuffer(capacity int) BufferHandle {
	buf := gl.CreateBuffer()
	b.nextBufID++
	h := BufferHandle(b.nextBufID)
	b.buffers[h] = buf
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*vertexStride, gl.DYNAMIC_DRAW)
	return h
}

// vertexStride is the byte size of one interleaved vertex: position (2
// float32), texcoord (2 float32), packed color (1 uint32) — 20 bytes,
// matching the stride Submit configures on the position/texcoord/color
// attribute pointers.
const vertexStride = 20

// UpdateVertexBuffer interleaves pos/uv/color into the raw byte layout the
// compiled programs' vertex/tcoord/vcolor attributes expect and uploads the
// sub-range. release is invoked synchronously: this binding's
// BufferSubData call is already complete when it returns, unlike an async
// GPU transfer, but the signature stays callback-based so a future
// asynchronous backend can slot in without changing the Backend interface.
func (b *GLBackend) UpdateVertexBuffer(bufH BufferHandle, offset int, pos, uv []float32, color []uint32, release ReleaseFunc) {
	buf, ok := b.buffers[bufH]
	if !ok {
		return
	}
	n := len(color)
	data := make([]byte, n*vertexStride)
	for i := 0; i < n; i++ {
		o := i * vertexStride
		putFloat32LE(data[o:], pos[i*2+0])
		putFloat32LE(data[o+4:], pos[i*2+1])
		putFloat32LE(data[o+8:], uv[i*2+0])
		putFloat32LE(data[o+12:], uv[i*2+1])
		putUint32LE(data[o+16:], color[i])
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferSubData(gl.ARRAY_BUFFER, offset*vertexStride, data)
	if release != nil {
		release()
	}
}

func (b *GLBackend) DestroyVertexBuffer(bufH BufferHandle) {
	if buf, ok := b.buffers[bufH]; ok {
		gl.DeleteBuffer(buf)
		delete(b.buffers, bufH)
	}
}

func (b *GLBackend) CreateIndexBuffer(capacity int) BufferHandle {
	buf := gl.CreateBuffer()
	b.nextBufID++
	h := BufferHandle(b.nextBufID)
	b.buffers[h] = buf
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, capacity*2, gl.DYNAMIC_DRAW)
	return h
}

func (b *GLBackend) UpdateIndexBuffer(bufH BufferHandle, offset int, indices []uint16, release ReleaseFunc) {
	buf, ok := b.buffers[bufH]
	if !ok {
		return
	}
	data := make([]byte, len(indices)*2)
	for i, idx := range indices {
		putUint16LE(data[i*2:], idx)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf)
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, offset*2, data)
	if release != nil {
		release()
	}
}

func (b *GLBackend) DestroyIndexBuffer(bufH BufferHandle) {
	if buf, ok := b.buffers[bufH]; ok {
		gl.DeleteBuffer(buf)
		delete(b.buffers, bufH)
	}
}

func (b *GLBackend) CreateTexture(kind TextureKind, w, h int, flags ImageFlags, data []byte) TextureHandle {
	tex := gl.CreateTexture()
	b.nextTexID++
	h2 := TextureHandle(b.nextTexID)
	b.textures[h2] = glBackendTexture{tex: tex, w: w, h: h, kind: kind, flags: flags}

	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	format := gl.Enum(gl.LUMINANCE)
	if kind == TextureRGBA {
		format = gl.RGBA
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, w, h, format, gl.UNSIGNED_BYTE, data)
	applyTexParams(flags)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	return h2
}

func (b *GLBackend) UpdateTexture(texH TextureHandle, x, y, w, h int, data []byte) {
	t, ok := b.textures[texH]
	if !ok {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, t.tex)
	format := gl.Enum(gl.LUMINANCE)
	if t.kind == TextureRGBA {
		format = gl.RGBA
	}
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, x, y, w, h, format, gl.UNSIGNED_BYTE, data)
}

func (b *GLBackend) DestroyTexture(texH TextureHandle) {
	if t, ok := b.textures[texH]; ok {
		gl.DeleteTexture(t.tex)
		delete(b.textures, texH)
	}
}

func applyTexParams(flags ImageFlags) {
	if flags&ImageGenerateMipmaps != 0 {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.GenerateMipmap(gl.TEXTURE_2D)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if flags&ImageRepeatX != 0 {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	}
	if flags&ImageRepeatY != 0 {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}
}

func (b *GLBackend) BindProgram(typ DrawCommandType) {
	b.active = typ
	p := b.programs[typ]
	gl.UseProgram(p.program)
	gl.EnableVertexAttribArray(p.vertexLoc)
	gl.EnableVertexAttribArray(p.tcoordLoc)
	gl.EnableVertexAttribArray(p.colorLoc)
}

func (b *GLBackend) SetUniformViewSize(w, h float32) {
	b.viewSize = [2]float32{w, h}
	gl.Uniform2f(b.programs[b.active].viewSize, w, h)
}

func (b *GLBackend) SetUniformFrag(u FragUniforms) {
	var packed [32]float32
	copy(packed[0:12], u.PaintMat[:])
	copy(packed[12:16], u.InnerColor[:])
	copy(packed[16:20], u.OuterColor[:])
	packed[20], packed[21] = u.Extent[0], u.Extent[1]
	packed[22] = u.Radius
	packed[23] = u.Feather
	packed[24] = u.StrokeMult
	packed[25] = u.StrokeThr
	packed[26] = u.TexKind
	gl.Uniform4fv(b.programs[b.active].frag, packed[:])
}

func (b *GLBackend) SetUniformTexture(texH TextureHandle) {
	gl.ActiveTexture(gl.TEXTURE0)
	if t, ok := b.textures[texH]; ok {
		gl.BindTexture(gl.TEXTURE_2D, t.tex)
	}
	gl.Uniform1i(b.programs[b.active].tex, 0)
}

func (b *GLBackend) SetScissor(x, y, w, h uint16) {
	gl.Scissor(int(x), int(y), int(w), int(h))
}

// SetStencil mirrors the teacher's fill/stroke stencil sequencing: writing
// a clip pass replaces the stencil value under the region with ref (the
// monotonic per-frame clip id), testing a clipped draw pass compares
// against it per rule.
func (b *GLBackend) SetStencil(ref uint8, write bool, rule ClipRule) {
	gl.Enable(gl.STENCIL_TEST)
	if write {
		gl.StencilMask(0xFF)
		gl.StencilFunc(gl.ALWAYS, int(ref), 0xFF)
		gl.StencilOp(gl.KEEP, gl.KEEP, gl.REPLACE)
		return
	}
	gl.StencilMask(0x00)
	switch rule {
	case ClipOut:
		gl.StencilFunc(gl.NOTEQUAL, int(ref), 0xFF)
	default:
		gl.StencilFunc(gl.EQUAL, int(ref), 0xFF)
	}
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.KEEP)
}

func (b *GLBackend) DisableStencilTest() {
	gl.Disable(gl.STENCIL_TEST)
}

func (b *GLBackend) ClearStencilBuffer() {
	gl.StencilMask(0xFFFFFFFF)
	gl.ClearStencil(0)
	gl.Clear(gl.STENCIL_BUFFER_BIT)
}

// Submit binds vb's interleaved vertex/tcoord attributes at a fixed 20-byte
// stride (pos, uv, and color as four RGBA8 bytes read as normalized
// unsigned bytes, per UpdateVertexBuffer) and issues the indexed draw call.
// stateMask bit 0 selects premultiplied "ONE, ONE_MINUS_SRC_ALPHA" blending
// (always set by frame.go; kept as a parameter so a future non-premultiplied
// path does not need an interface change), bit 1 enables back-face culling
// (frame.go sets it for image-pattern draws).
func (b *GLBackend) Submit(viewID int, vb, ib BufferHandle, firstIndex, numIndices int, stateMask uint32) {
	vbuf, ok := b.buffers[vb]
	if !ok {
		return
	}
	ibuf, ok := b.buffers[ib]
	if !ok {
		return
	}
	if stateMask&0x1 != 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	}
	if stateMask&0x2 != 0 {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}

	p := b.programs[b.active]
	gl.BindBuffer(gl.ARRAY_BUFFER, vbuf)
	gl.VertexAttribPointer(p.vertexLoc, 2, gl.FLOAT, false, vertexStride, 0)
	gl.VertexAttribPointer(p.tcoordLoc, 2, gl.FLOAT, false, vertexStride, 8)
	gl.VertexAttribPointer(p.colorLoc, 4, gl.UNSIGNED_BYTE, true, vertexStride, 16)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ibuf)
	gl.DrawElements(gl.TRIANGLES, numIndices, gl.UNSIGNED_SHORT, firstIndex*2)
}
