package vg

// TextureKind distinguishes an alpha-only atlas texture (the font atlas)
// from a full RGBA texture, mirroring the teacher's two-texType shader
// branch without carrying its five ad hoc shader "types" along.
type TextureKind = textureKind

const (
	TextureAlpha TextureKind = textureAlpha
	TextureRGBA  TextureKind = textureRGBA
)

// FragUniforms is the packed per-draw-call uniform block the backend
// uploads once per DrawCommand: the paint matrix/extent/radius/feather,
// inner/outer colors, and the scalar knobs (stroke mult/threshold, texture
// kind) the fragment shader branches on. Scissoring is handled entirely by
// the backend's hardware scissor rect (see Backend.SetScissor) since every
// scissor this renderer produces is already an axis-aligned rect in canvas
// space by the time it reaches a DrawCommand — there is no rotated-scissor
// case to carry a soft scissor mask for.
type FragUniforms struct {
	PaintMat   [12]float32
	InnerColor [4]float32
	OuterColor [4]float32
	Extent     [2]float32
	Radius     float32
	Feather    float32
	StrokeMult float32
	StrokeThr  float32
	TexKind    float32
}

// BufferHandle identifies a dynamic GPU buffer (vertex or index) the
// backend owns; opaque to the caller.
type BufferHandle int

// TextureHandle identifies a backend texture; opaque to the caller.
type TextureHandle int

// ReleaseFunc is invoked by the backend once a buffer upload has completed
// and the CPU-side slab backing it may be returned to the resource pool.
// Per the concurrency model, the backend may call this from any goroutine.
type ReleaseFunc func()

// Backend is the graphics-API collaborator frame.go drives: every GPU
// operation a Context needs funnels through this interface, never through
// a concrete GL call made outside glbackend.go.
type Backend interface {
	// CreateVertexBuffer allocates a dynamic vertex buffer sized for at
	// least capacity vertices and returns its handle.
	CreateVertexBuffer(capacity int) BufferHandle
	// UpdateVertexBuffer uploads pos/uv/color slices (parallel, same
	// length) starting at vertex offset into buf, and arranges for
	// release to be invoked once the upload completes.
	UpdateVertexBuffer(buf BufferHandle, offset int, pos, uv []float32, color []uint32, release ReleaseFunc)
	DestroyVertexBuffer(buf BufferHandle)

	// CreateIndexBuffer/UpdateIndexBuffer are the index-buffer analogues;
	// the backend is expected to support growing an index buffer in place
	// (recreating its GPU storage) without changing its handle identity.
	CreateIndexBuffer(capacity int) BufferHandle
	UpdateIndexBuffer(buf BufferHandle, offset int, indices []uint16, release ReleaseFunc)
	DestroyIndexBuffer(buf BufferHandle)

	// CreateTexture allocates a w*h texture of the given kind and flags,
	// uploading the initial contents (may be nil for a zero-filled atlas).
	CreateTexture(kind TextureKind, w, h int, flags ImageFlags, data []byte) TextureHandle
	// UpdateTexture re-uploads the sub-rectangle [x,y,w,h) of an existing
	// texture.
	UpdateTexture(tex TextureHandle, x, y, w, h int, data []byte)
	DestroyTexture(tex TextureHandle)

	// BindProgram selects the shader program for typ (one of the four
	// DrawCommandType values) as the active program for subsequent
	// SetUniform*/Submit calls.
	BindProgram(typ DrawCommandType)
	SetUniformViewSize(w, h float32)
	SetUniformFrag(u FragUniforms)
	SetUniformTexture(tex TextureHandle)

	SetScissor(x, y, w, h uint16)
	// SetStencil configures the stencil test/write state for a clip pass
	// (write=true, writing ref into the stencil buffer) or a clipped draw
	// pass (write=false, testing against ref per rule).
	SetStencil(ref uint8, write bool, rule ClipRule)
	// DisableStencilTest turns off stencil testing for draw commands with
	// no active clip region, without touching the stencil buffer's
	// contents (unlike ClearStencilBuffer).
	DisableStencilTest()
	// ClearStencilBuffer zeroes the whole stencil buffer; called once per
	// frame before any draw command, never per draw command.
	ClearStencilBuffer()

	// Submit issues the actual draw call for a range of indices out of
	// vb/ib against view viewID, with stateMask selecting blend/write
	// mask bits the backend interprets per its own convention.
	Submit(viewID int, vb, ib BufferHandle, firstIndex, numIndices int, stateMask uint32)
}
