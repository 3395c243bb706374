package vg

import (
	"encoding/binary"
	"math"
)

// commandOp is the tag of one entry in a CommandList's byte stream, mirrored
// from the path/paint/state operations a Context exposes.
type commandOp uint8

const (
	opBeginPath commandOp = iota
	opMoveTo
	opLineTo
	opBezierTo
	opQuadTo
	opArcTo
	opArc
	opRect
	opRoundedRect
	opRoundedRectVarying
	opCircle
	opEllipse
	opPolyline
	opClosePath
	opPathWinding

	opFillColor
	opFillGradient
	opFillImagePattern
	opStrokeColor
	opStrokeGradient
	opStrokeImagePattern

	opBeginClip
	opEndClip
	opResetClip

	opCreateLinearGradient
	opCreateBoxGradient
	opCreateRadialGradient
	opCreateImagePattern

	opPushState
	opPopState
	opResetScissor
	opSetScissor
	opIntersectScissor

	opTransformIdentity
	opTransformScale
	opTransformTranslate
	opTransformRotate
	opTransformMultiply
	opSetViewBox

	opText
	opTextBox
	opIndexedTriList

	opSubmitCommandList
)

// CommandList is a recorded, replayable sequence of drawing operations: a
// flat tagged byte stream plus a side string heap for text payloads, built
// once and submitted to a Context any number of times without re-running
// Go-level path/paint construction for each submission.
type CommandList struct {
	flags CommandListFlags

	buf                   []byte
	strHeap               []byte
	nextLocalGradient     uint16 // local handles issued for CreateLinear/Box/RadialGradient
	nextLocalImagePattern uint16 // local handles issued for CreateImagePattern
	nested                []*CommandList

	// generation bumps on every Reset, so a shapeCache entry keyed by this
	// list's pointer can tell a stale cache (built against content that has
	// since been overwritten) from one that's merely out of scale.
	generation int
}

func NewCommandList(flags CommandListFlags) *CommandList {
	return &CommandList{flags: flags, buf: make([]byte, 0, initCommandsSize)}
}

func (cl *CommandList) Reset() {
	cl.buf = cl.buf[:0]
	cl.strHeap = cl.strHeap[:0]
	cl.nextLocalGradient = 0
	cl.nextLocalImagePattern = 0
	cl.nested = cl.nested[:0]
	cl.generation++
}

// align16 rounds n up to the next multiple of 16, the boundary every
// CommandHeader and its payload in a CommandList's byte stream starts on
// for SIMD-friendly reads.
func align16(n int) int {
	return (n + 15) &^ 15
}

// padTo16 appends zero bytes until cl.buf's length is 16-byte aligned.
func (cl *CommandList) padTo16() {
	if pad := align16(len(cl.buf)) - len(cl.buf); pad > 0 {
		cl.buf = append(cl.buf, make([]byte, pad)...)
	}
}

// writeHeader aligns the buffer to a 16-byte boundary, writes the op tag and
// payload size, then aligns again so the payload itself starts on a
// boundary too.
func (cl *CommandList) writeHeader(op commandOp, size int) {
	cl.padTo16()
	cl.buf = append(cl.buf, byte(op))
	var szBuf [4]byte
	binary.LittleEndian.PutUint32(szBuf[:], uint32(size))
	cl.buf = append(cl.buf, szBuf[:]...)
	cl.padTo16()
}

func (cl *CommandList) writeF32(v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	cl.buf = append(cl.buf, b[:]...)
}

func (cl *CommandList) writeU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	cl.buf = append(cl.buf, b[:]...)
}

func (cl *CommandList) writeU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	cl.buf = append(cl.buf, b[:]...)
}

func (cl *CommandList) writeColor(c Color) {
	cl.writeU32(c.PackedRGBA8())
}

func (cl *CommandList) storeString(s string) (offset, length uint32) {
	offset = uint32(len(cl.strHeap))
	cl.strHeap = append(cl.strHeap, s...)
	return offset, uint32(len(s))
}

func (cl *CommandList) loadString(offset, length uint32) string {
	return string(cl.strHeap[offset : offset+length])
}

// allocLocalGradientHandle/allocLocalImagePatternHandle issue handles local
// to this recording, numbered from zero in their own pool; the interpreter
// remaps each against the replaying frame's real handle space (see
// interpreter.go), offsetting by whichever pool's base id applies.
func (cl *CommandList) allocLocalGradientHandle() Handle {
	id := cl.nextLocalGradient
	cl.nextLocalGradient++
	return Handle{ID: id, Flags: HandleLocal}
}

func (cl *CommandList) allocLocalImagePatternHandle() Handle {
	id := cl.nextLocalImagePattern
	cl.nextLocalImagePattern++
	return Handle{ID: id, Flags: HandleLocal}
}

func (cl *CommandList) BeginPath() { cl.writeHeader(opBeginPath, 0) }

func (cl *CommandList) MoveTo(x, y float32) {
	cl.writeHeader(opMoveTo, 8)
	cl.writeF32(x)
	cl.writeF32(y)
}

func (cl *CommandList) LineTo(x, y float32) {
	cl.writeHeader(opLineTo, 8)
	cl.writeF32(x)
	cl.writeF32(y)
}

func (cl *CommandList) BezierTo(c1x, c1y, c2x, c2y, x, y float32) {
	cl.writeHeader(opBezierTo, 24)
	for _, v := range [6]float32{c1x, c1y, c2x, c2y, x, y} {
		cl.writeF32(v)
	}
}

func (cl *CommandList) QuadTo(cx, cy, x, y float32) {
	cl.writeHeader(opQuadTo, 16)
	for _, v := range [4]float32{cx, cy, x, y} {
		cl.writeF32(v)
	}
}

func (cl *CommandList) ArcTo(x1, y1, x2, y2, radius float32) {
	cl.writeHeader(opArcTo, 20)
	for _, v := range [5]float32{x1, y1, x2, y2, radius} {
		cl.writeF32(v)
	}
}

func (cl *CommandList) Arc(cx, cy, r, a0, a1 float32, dir Direction) {
	cl.writeHeader(opArc, 24)
	for _, v := range [5]float32{cx, cy, r, a0, a1} {
		cl.writeF32(v)
	}
	cl.writeU32(uint32(dir))
}

func (cl *CommandList) Rect(x, y, w, h float32) {
	cl.writeHeader(opRect, 16)
	for _, v := range [4]float32{x, y, w, h} {
		cl.writeF32(v)
	}
}

func (cl *CommandList) RoundedRect(x, y, w, h, r float32) {
	cl.writeHeader(opRoundedRect, 20)
	for _, v := range [5]float32{x, y, w, h, r} {
		cl.writeF32(v)
	}
}

func (cl *CommandList) RoundedRectVarying(x, y, w, h, radTL, radTR, radBR, radBL float32) {
	cl.writeHeader(opRoundedRectVarying, 32)
	for _, v := range [8]float32{x, y, w, h, radTL, radTR, radBR, radBL} {
		cl.writeF32(v)
	}
}

func (cl *CommandList) Circle(cx, cy, r float32) {
	cl.writeHeader(opCircle, 12)
	for _, v := range [3]float32{cx, cy, r} {
		cl.writeF32(v)
	}
}

func (cl *CommandList) Ellipse(cx, cy, rx, ry float32) {
	cl.writeHeader(opEllipse, 16)
	for _, v := range [4]float32{cx, cy, rx, ry} {
		cl.writeF32(v)
	}
}

func (cl *CommandList) Polyline(pts [][2]float32) {
	cl.writeHeader(opPolyline, 4+8*len(pts))
	cl.writeU32(uint32(len(pts)))
	for _, p := range pts {
		cl.writeF32(p[0])
		cl.writeF32(p[1])
	}
}

func (cl *CommandList) ClosePath() { cl.writeHeader(opClosePath, 0) }

func (cl *CommandList) PathWinding(w Winding) {
	cl.writeHeader(opPathWinding, 4)
	cl.writeU32(uint32(w))
}

func (cl *CommandList) FillColor(c Color, flags FillFlags) {
	cl.writeHeader(opFillColor, 8)
	cl.writeColor(c)
	cl.writeU32(uint32(flags))
}

func (cl *CommandList) FillGradient(g Handle, flags FillFlags) {
	cl.writeHeader(opFillGradient, 8)
	cl.writeU16(g.ID)
	cl.writeU16(uint16(g.Flags))
	cl.writeU32(uint32(flags))
}

func (cl *CommandList) FillImagePattern(ip Handle, flags FillFlags) {
	cl.writeHeader(opFillImagePattern, 8)
	cl.writeU16(ip.ID)
	cl.writeU16(uint16(ip.Flags))
	cl.writeU32(uint32(flags))
}

func (cl *CommandList) StrokeColor(width float32, c Color, flags StrokeFlags) {
	cl.writeHeader(opStrokeColor, 12)
	cl.writeF32(width)
	cl.writeColor(c)
	cl.writeU32(uint32(flags))
}

func (cl *CommandList) StrokeGradient(width float32, g Handle, flags StrokeFlags) {
	cl.writeHeader(opStrokeGradient, 12)
	cl.writeF32(width)
	cl.writeU16(g.ID)
	cl.writeU16(uint16(g.Flags))
	cl.writeU32(uint32(flags))
}

func (cl *CommandList) StrokeImagePattern(width float32, ip Handle, flags StrokeFlags) {
	cl.writeHeader(opStrokeImagePattern, 12)
	cl.writeF32(width)
	cl.writeU16(ip.ID)
	cl.writeU16(uint16(ip.Flags))
	cl.writeU32(uint32(flags))
}

func (cl *CommandList) BeginClip(rule ClipRule) {
	cl.writeHeader(opBeginClip, 4)
	cl.writeU32(uint32(rule))
}

func (cl *CommandList) EndClip() { cl.writeHeader(opEndClip, 0) }
func (cl *CommandList) ResetClip() { cl.writeHeader(opResetClip, 0) }

func (cl *CommandList) CreateLinearGradient(sx, sy, ex, ey float32, icol, ocol Color) Handle {
	cl.writeHeader(opCreateLinearGradient, 24)
	for _, v := range [4]float32{sx, sy, ex, ey} {
		cl.writeF32(v)
	}
	cl.writeColor(icol)
	cl.writeColor(ocol)
	return cl.allocLocalGradientHandle()
}

func (cl *CommandList) CreateBoxGradient(x, y, w, h, r, f float32, icol, ocol Color) Handle {
	cl.writeHeader(opCreateBoxGradient, 32)
	for _, v := range [6]float32{x, y, w, h, r, f} {
		cl.writeF32(v)
	}
	cl.writeColor(icol)
	cl.writeColor(ocol)
	return cl.allocLocalGradientHandle()
}

func (cl *CommandList) CreateRadialGradient(cx, cy, inr, outr float32, icol, ocol Color) Handle {
	cl.writeHeader(opCreateRadialGradient, 24)
	for _, v := range [4]float32{cx, cy, inr, outr} {
		cl.writeF32(v)
	}
	cl.writeColor(icol)
	cl.writeColor(ocol)
	return cl.allocLocalGradientHandle()
}

func (cl *CommandList) CreateImagePattern(cx, cy, w, h, angle float32, img Handle) Handle {
	cl.writeHeader(opCreateImagePattern, 24)
	for _, v := range [5]float32{cx, cy, w, h, angle} {
		cl.writeF32(v)
	}
	cl.writeU16(img.ID)
	cl.writeU16(uint16(img.Flags))
	return cl.allocLocalImagePatternHandle()
}

func (cl *CommandList) PushState()  { cl.writeHeader(opPushState, 0) }
func (cl *CommandList) PopState()   { cl.writeHeader(opPopState, 0) }
func (cl *CommandList) ResetScissor() { cl.writeHeader(opResetScissor, 0) }

func (cl *CommandList) SetScissor(x, y, w, h float32) {
	cl.writeHeader(opSetScissor, 16)
	for _, v := range [4]float32{x, y, w, h} {
		cl.writeF32(v)
	}
}

func (cl *CommandList) IntersectScissor(x, y, w, h float32) {
	cl.writeHeader(opIntersectScissor, 16)
	for _, v := range [4]float32{x, y, w, h} {
		cl.writeF32(v)
	}
}

func (cl *CommandList) TransformIdentity() { cl.writeHeader(opTransformIdentity, 0) }

func (cl *CommandList) TransformScale(sx, sy float32) {
	cl.writeHeader(opTransformScale, 8)
	cl.writeF32(sx)
	cl.writeF32(sy)
}

func (cl *CommandList) TransformTranslate(tx, ty float32) {
	cl.writeHeader(opTransformTranslate, 8)
	cl.writeF32(tx)
	cl.writeF32(ty)
}

func (cl *CommandList) TransformRotate(angle float32) {
	cl.writeHeader(opTransformRotate, 4)
	cl.writeF32(angle)
}

func (cl *CommandList) TransformMultiply(m TransformMatrix, pre bool) {
	cl.writeHeader(opTransformMultiply, 25)
	for _, v := range m {
		cl.writeF32(v)
	}
	if pre {
		cl.buf = append(cl.buf, 1)
	} else {
		cl.buf = append(cl.buf, 0)
	}
}

// SetViewBox rescales and translates the current transform so the
// rectangle (x,y,w,h) in local space maps onto the whole canvas, the way an
// SVG viewBox attribute would.
func (cl *CommandList) SetViewBox(x, y, w, h float32) {
	cl.writeHeader(opSetViewBox, 16)
	for _, v := range [4]float32{x, y, w, h} {
		cl.writeF32(v)
	}
}

func (cl *CommandList) Text(cfg TextConfig, x, y float32, str string) {
	offset, length := cl.storeString(str)
	cl.writeHeader(opText, 40)
	cl.writeU32(uint32(cfg.FontID))
	cl.writeF32(cfg.FontSize)
	cl.writeF32(cfg.LetterSpacing)
	cl.writeF32(cfg.FontBlur)
	cl.writeU32(uint32(cfg.Align))
	cl.writeColor(cfg.Color)
	cl.writeF32(x)
	cl.writeF32(y)
	cl.writeU32(offset)
	cl.writeU32(length)
}

// TextBox word-wraps str to breakWidth and emits one Text call per row,
// advancing y by the font's line height each row; the interpreter/Context
// side resolves per-row horizontal offset from cfg's alignment (see
// Context.TextBox).
func (cl *CommandList) TextBox(cfg TextConfig, x, y, breakWidth float32, str string) {
	offset, length := cl.storeString(str)
	cl.writeHeader(opTextBox, 44)
	cl.writeU32(uint32(cfg.FontID))
	cl.writeF32(cfg.FontSize)
	cl.writeF32(cfg.LetterSpacing)
	cl.writeF32(cfg.FontBlur)
	cl.writeU32(uint32(cfg.Align))
	cl.writeColor(cfg.Color)
	cl.writeF32(x)
	cl.writeF32(y)
	cl.writeF32(breakWidth)
	cl.writeU32(offset)
	cl.writeU32(length)
}

// IndexedTriList records a raw indexed triangle list: uvs may be nil
// (interpreted as "sample the font atlas's white pixel", same fallback
// Context.IndexedTriList itself applies), and colors must be either one
// broadcast entry or one per vertex.
func (cl *CommandList) IndexedTriList(positions [][2]float32, uvs [][2]float32, colors []Color, indices []uint16, img Handle) {
	hasUV := uint32(0)
	if len(uvs) == len(positions) {
		hasUV = 1
	}
	size := 20 + 8*len(positions) + 8*len(positions)*int(hasUV) + 4*len(colors) + 2*len(indices)
	cl.writeHeader(opIndexedTriList, size)
	cl.writeU32(uint32(len(positions)))
	cl.writeU32(hasUV)
	cl.writeU32(uint32(len(colors)))
	cl.writeU32(uint32(len(indices)))
	cl.writeU16(img.ID)
	cl.writeU16(uint16(img.Flags))
	for _, p := range positions {
		cl.writeF32(p[0])
		cl.writeF32(p[1])
	}
	if hasUV == 1 {
		for _, uv := range uvs {
			cl.writeF32(uv[0])
			cl.writeF32(uv[1])
		}
	}
	for _, c := range colors {
		cl.writeColor(c)
	}
	for _, idx := range indices {
		cl.writeU16(idx)
	}
}

// SubmitCommandList records a nested call to another CommandList; the
// interpreter enforces MaxCommandListDepth when it encounters this opcode.
// The target is kept in cl.nested rather than inline in the byte stream,
// since a CommandList reference can't be serialized into it.
func (cl *CommandList) SubmitCommandList(target *CommandList) {
	cl.writeHeader(opSubmitCommandList, 4)
	cl.writeU32(uint32(len(cl.nested)))
	cl.nested = append(cl.nested, target)
}
