package vg

import (
	"encoding/binary"
	"math"
)

// commandListTarget is the subset of Context the interpreter drives;
// declared as an interface so interpreter.go has no import cycle back onto
// context.go and so tests can replay a CommandList against a stub.
type commandListTarget interface {
	BeginPath()
	MoveTo(x, y float32)
	LineTo(x, y float32)
	BezierTo(c1x, c1y, c2x, c2y, x, y float32)
	QuadTo(cx, cy, x, y float32)
	ArcTo(x1, y1, x2, y2, radius float32)
	Arc(cx, cy, r, a0, a1 float32, dir Direction)
	Rect(x, y, w, h float32)
	RoundedRect(x, y, w, h, r float32)
	RoundedRectVarying(x, y, w, h, radTL, radTR, radBR, radBL float32)
	Circle(cx, cy, r float32)
	Ellipse(cx, cy, rx, ry float32)
	Polyline(pts [][2]float32)
	ClosePath()
	PathWinding(w Winding)

	FillColor(c Color, flags FillFlags) error
	FillGradient(g Handle, flags FillFlags) error
	FillImagePattern(ip Handle, flags FillFlags) error
	StrokeColor(width float32, c Color, flags StrokeFlags) error
	StrokeGradient(width float32, g Handle, flags StrokeFlags) error
	StrokeImagePattern(width float32, ip Handle, flags StrokeFlags) error

	BeginClip(rule ClipRule) error
	EndClip()
	ResetClip()

	CreateLinearGradient(sx, sy, ex, ey float32, icol, ocol Color) Handle
	CreateBoxGradient(x, y, w, h, r, f float32, icol, ocol Color) Handle
	CreateRadialGradient(cx, cy, inr, outr float32, icol, ocol Color) Handle
	CreateImagePattern(cx, cy, w, h, angle float32, img Handle) Handle

	PushState() error
	PopState() error
	ResetScissor()
	SetScissor(x, y, w, h float32)
	IntersectScissor(x, y, w, h float32) bool

	TransformIdentity()
	TransformScale(sx, sy float32)
	TransformTranslate(tx, ty float32)
	TransformRotate(angle float32)
	TransformMultiply(m TransformMatrix, pre bool)
	SetViewBox(x, y, w, h float32)

	Text(cfg TextConfig, x, y float32, str string)
	TextBox(cfg TextConfig, x, y, breakWidth float32, str string)
	IndexedTriList(positions [][2]float32, uvs [][2]float32, colors []Color, indices []uint16, img Handle) error

	SubmitCommandList(cl *CommandList) error
}

// handleRemapper translates a CommandList's locally-numbered gradient/
// image-pattern handles into the replaying frame's real handle space: every
// local id is offset by the base id the frame's paint registries had
// already allocated before this list started replaying.
type handleRemapper struct {
	gradientBase     uint16
	imagePatternBase uint16
}

func (r handleRemapper) remapGradient(h Handle) Handle {
	if h.Flags&HandleLocal == 0 {
		return h
	}
	return Handle{ID: h.ID + r.gradientBase, Flags: h.Flags &^ HandleLocal}
}

func (r handleRemapper) remapImagePattern(h Handle) Handle {
	if h.Flags&HandleLocal == 0 {
		return h
	}
	return Handle{ID: h.ID + r.imagePatternBase, Flags: h.Flags &^ HandleLocal}
}

// Interpreter replays a recorded CommandList's byte stream against a
// commandListTarget, enforcing the nested-submission recursion limit and
// remapping local paint handles allocated during recording.
type Interpreter struct {
	maxDepth int
}

func NewInterpreter(maxDepth int) *Interpreter {
	return &Interpreter{maxDepth: maxDepth}
}

// Submit replays cl against target. A SubmitCommandList nested past
// maxDepth is a no-op at the offending call site only — every ancestor
// list's own remaining commands still run — and ErrRecursionLimit surfaces
// exactly once here, from the top-level call, via hitLimit rather than a
// propagated error.
func (ip *Interpreter) Submit(target commandListTarget, cl *CommandList, gradientBase, imagePatternBase uint16) error {
	var hitLimit bool
	ip.submit(target, cl, gradientBase, imagePatternBase, 0, &hitLimit)
	if hitLimit {
		return ErrRecursionLimit
	}
	return nil
}

func (ip *Interpreter) submit(target commandListTarget, cl *CommandList, gradientBase, imagePatternBase uint16, depth int, hitLimit *bool) {
	if depth > ip.maxDepth {
		*hitLimit = true
		return
	}
	r := handleRemapper{gradientBase: gradientBase, imagePatternBase: imagePatternBase}
	// skipCmds mirrors §4.7's AllowCommandCulling playback mode: once a
	// SetScissor/IntersectScissor leaves the scissor empty, stroker-producing
	// ops and IndexedTriList are dropped (the bytes are still consumed, to
	// keep decoding in sync) until ResetScissor or a non-empty scissor
	// clears it.
	skipCmds := false
	culling := cl.flags&AllowCommandCulling != 0
	pos := 0
	buf := cl.buf
	for pos < len(buf) {
		pos = align16(pos)
		op := commandOp(buf[pos])
		size := int(binary.LittleEndian.Uint32(buf[pos+1 : pos+5]))
		pos = align16(pos + 5)
		payload := buf[pos : pos+size]
		pos += size

		readF32 := func(off int) float32 {
			return math.Float32frombits(binary.LittleEndian.Uint32(payload[off : off+4]))
		}
		readU32 := func(off int) uint32 { return binary.LittleEndian.Uint32(payload[off : off+4]) }
		readU16 := func(off int) uint16 { return binary.LittleEndian.Uint16(payload[off : off+2]) }
		readGradientHandle := func(off int) Handle {
			return r.remapGradient(Handle{ID: readU16(off), Flags: HandleFlags(readU16(off + 2))})
		}
		readImagePatternHandle := func(off int) Handle {
			return r.remapImagePattern(Handle{ID: readU16(off), Flags: HandleFlags(readU16(off + 2))})
		}
		readColor := func(off int) Color {
			packed := readU32(off)
			return Color{
				R: float32(packed&0xFF) / 255.0,
				G: float32((packed>>8)&0xFF) / 255.0,
				B: float32((packed>>16)&0xFF) / 255.0,
				A: float32((packed>>24)&0xFF) / 255.0,
			}
		}

		switch op {
		case opBeginPath:
			target.BeginPath()
		case opMoveTo:
			target.MoveTo(readF32(0), readF32(4))
		case opLineTo:
			target.LineTo(readF32(0), readF32(4))
		case opBezierTo:
			target.BezierTo(readF32(0), readF32(4), readF32(8), readF32(12), readF32(16), readF32(20))
		case opQuadTo:
			target.QuadTo(readF32(0), readF32(4), readF32(8), readF32(12))
		case opArcTo:
			target.ArcTo(readF32(0), readF32(4), readF32(8), readF32(12), readF32(16))
		case opArc:
			target.Arc(readF32(0), readF32(4), readF32(8), readF32(12), readF32(16), Direction(readU32(20)))
		case opRect:
			target.Rect(readF32(0), readF32(4), readF32(8), readF32(12))
		case opRoundedRect:
			target.RoundedRect(readF32(0), readF32(4), readF32(8), readF32(12), readF32(16))
		case opRoundedRectVarying:
			target.RoundedRectVarying(readF32(0), readF32(4), readF32(8), readF32(12), readF32(16), readF32(20), readF32(24), readF32(28))
		case opCircle:
			target.Circle(readF32(0), readF32(4), readF32(8))
		case opEllipse:
			target.Ellipse(readF32(0), readF32(4), readF32(8), readF32(12))
		case opPolyline:
			n := int(readU32(0))
			pts := make([][2]float32, n)
			for i := 0; i < n; i++ {
				pts[i] = [2]float32{readF32(4 + i*8), readF32(8 + i*8)}
			}
			target.Polyline(pts)
		case opClosePath:
			target.ClosePath()
		case opPathWinding:
			target.PathWinding(Winding(readU32(0)))

		case opFillColor:
			if !skipCmds {
				target.FillColor(readColor(0), FillFlags(readU32(4)))
			}
		case opFillGradient:
			if !skipCmds {
				target.FillGradient(readGradientHandle(0), FillFlags(readU32(4)))
			}
		case opFillImagePattern:
			if !skipCmds {
				target.FillImagePattern(readImagePatternHandle(0), FillFlags(readU32(4)))
			}
		case opStrokeColor:
			if !skipCmds {
				target.StrokeColor(readF32(0), readColor(4), StrokeFlags(readU32(8)))
			}
		case opStrokeGradient:
			if !skipCmds {
				target.StrokeGradient(readF32(0), readGradientHandle(4), StrokeFlags(readU32(8)))
			}
		case opStrokeImagePattern:
			if !skipCmds {
				target.StrokeImagePattern(readF32(0), readImagePatternHandle(4), StrokeFlags(readU32(8)))
			}

		case opBeginClip:
			target.BeginClip(ClipRule(readU32(0)))
		case opEndClip:
			target.EndClip()
		case opResetClip:
			target.ResetClip()

		case opCreateLinearGradient:
			target.CreateLinearGradient(readF32(0), readF32(4), readF32(8), readF32(12), readColor(16), readColor(20))
		case opCreateBoxGradient:
			target.CreateBoxGradient(readF32(0), readF32(4), readF32(8), readF32(12), readF32(16), readF32(20), readColor(24), readColor(28))
		case opCreateRadialGradient:
			target.CreateRadialGradient(readF32(0), readF32(4), readF32(8), readF32(12), readColor(16), readColor(20))
		case opCreateImagePattern:
			target.CreateImagePattern(readF32(0), readF32(4), readF32(8), readF32(12), readF32(16), Handle{ID: readU16(20), Flags: HandleFlags(readU16(22))})

		case opPushState:
			target.PushState()
		case opPopState:
			target.PopState()
		case opResetScissor:
			target.ResetScissor()
			skipCmds = false
		case opSetScissor:
			w, h := readF32(8), readF32(12)
			target.SetScissor(readF32(0), readF32(4), w, h)
			skipCmds = culling && (w < 1 || h < 1)
		case opIntersectScissor:
			ok := target.IntersectScissor(readF32(0), readF32(4), readF32(8), readF32(12))
			skipCmds = culling && !ok

		case opTransformIdentity:
			target.TransformIdentity()
		case opTransformScale:
			target.TransformScale(readF32(0), readF32(4))
		case opTransformTranslate:
			target.TransformTranslate(readF32(0), readF32(4))
		case opTransformRotate:
			target.TransformRotate(readF32(0))
		case opTransformMultiply:
			var m TransformMatrix
			for i := range m {
				m[i] = readF32(i * 4)
			}
			target.TransformMultiply(m, payload[24] != 0)
		case opSetViewBox:
			target.SetViewBox(readF32(0), readF32(4), readF32(8), readF32(12))

		case opText:
			cfg := TextConfig{
				FontID:        int(readU32(0)),
				FontSize:      readF32(4),
				LetterSpacing: readF32(8),
				FontBlur:      readF32(12),
				Align:         Align(readU32(16)),
				Color:         readColor(20),
			}
			x, y := readF32(24), readF32(28)
			strOff, strLen := readU32(32), readU32(36)
			target.Text(cfg, x, y, cl.loadString(strOff, strLen))
		case opTextBox:
			cfg := TextConfig{
				FontID:        int(readU32(0)),
				FontSize:      readF32(4),
				LetterSpacing: readF32(8),
				FontBlur:      readF32(12),
				Align:         Align(readU32(16)),
				Color:         readColor(20),
			}
			x, y, breakWidth := readF32(24), readF32(28), readF32(32)
			strOff, strLen := readU32(36), readU32(40)
			target.TextBox(cfg, x, y, breakWidth, cl.loadString(strOff, strLen))

		case opIndexedTriList:
			if !skipCmds {
				numVerts := int(readU32(0))
				hasUV := readU32(4) != 0
				numColors := int(readU32(8))
				numIndices := int(readU32(12))
				img := Handle{ID: readU16(16), Flags: HandleFlags(readU16(18))}
				off := 20
				positions := make([][2]float32, numVerts)
				for i := 0; i < numVerts; i++ {
					positions[i] = [2]float32{readF32(off), readF32(off + 4)}
					off += 8
				}
				var uvs [][2]float32
				if hasUV {
					uvs = make([][2]float32, numVerts)
					for i := 0; i < numVerts; i++ {
						uvs[i] = [2]float32{readF32(off), readF32(off + 4)}
						off += 8
					}
				}
				colors := make([]Color, numColors)
				for i := 0; i < numColors; i++ {
					colors[i] = readColor(off)
					off += 4
				}
				indices := make([]uint16, numIndices)
				for i := 0; i < numIndices; i++ {
					indices[i] = readU16(off)
					off += 2
				}
				target.IndexedTriList(positions, uvs, colors, indices, img)
			}

		case opSubmitCommandList:
			idx := readU32(0)
			nested := cl.nested[idx]
			ip.submit(target, nested, gradientBase, imagePatternBase, depth+1, hitLimit)
		}
	}
}
