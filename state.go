package vg

// quantize rounds a to the nearest multiple of d, used to snap avgScale to
// coarse steps so glyph-atlas caching stays stable against tiny zoom jitter.
func quantize(a, d float32) float32 {
	return float32(int(a/d+0.5)) * d
}

// intersectRects returns the overlapping region of two axis-aligned rects,
// with zero width/height (but a defined origin) when they don't overlap.
func intersectRects(ax, ay, aw, ah, bx, by, bw, bh float32) [4]float32 {
	minX := max(ax, bx)
	minY := max(ay, by)
	maxX := min(ax+aw, bx+bw)
	maxY := min(ay+ah, by+bh)
	return [4]float32{
		minX,
		minY,
		max(0.0, maxX-minX),
		max(0.0, maxY-minY),
	}
}

// State is one entry of the bounded drawing-state stack: the current
// affine transform, scissor rectangle, and global alpha, plus the two
// scales derived from the transform whenever it changes.
type State struct {
	xform       TransformMatrix
	hasScissor  bool
	scissor     [4]float32 // x, y, w, h in canvas space
	globalAlpha float32
	avgScale    float32
	fontScale   float32
}

func (s *State) reset() {
	s.xform = IdentityMatrix()
	s.hasScissor = false
	s.scissor = [4]float32{}
	s.globalAlpha = 1.0
	s.avgScale = 1.0
	s.fontScale = 1.0
}

// recomputeScales refreshes avgScale and fontScale from the current
// transform. fontScale quantizes avgScale to steps of 0.1 so glyph-atlas
// caching stays stable against tiny zoom jitter.
func (s *State) recomputeScales() {
	s.avgScale = s.xform.getAverageScale()
	s.fontScale = quantize(s.avgScale, 0.1)
}

// stateStack is a bounded stack of States; push/pop must balance within a
// frame (Context.EndFrame logs a warning when they do not).
type stateStack struct {
	states  []State
	maxSize int
}

func newStateStack(maxSize int) *stateStack {
	ss := &stateStack{maxSize: maxSize}
	ss.states = make([]State, 1, maxSize)
	ss.states[0].reset()
	return ss
}

func (ss *stateStack) top() *State {
	return &ss.states[len(ss.states)-1]
}

func (ss *stateStack) push() error {
	if len(ss.states) >= ss.maxSize {
		return ErrStateStackOverflow
	}
	cur := ss.top()
	ss.states = append(ss.states, *cur)
	return nil
}

// pop restores the previous state. Context.PopState then forces the next
// draw and clip commands to start a fresh batch (the restored scissor or
// transform may differ from whatever the popped state last submitted
// under).
func (ss *stateStack) pop() error {
	if len(ss.states) <= 1 {
		return ErrStateStackUnderflow
	}
	ss.states = ss.states[:len(ss.states)-1]
	return nil
}

func (ss *stateStack) balanced() bool {
	return len(ss.states) == 1
}

func (ss *stateStack) setTransform(m TransformMatrix) {
	s := ss.top()
	s.xform = m
	s.recomputeScales()
}

func (ss *stateStack) multiply(m TransformMatrix, pre bool) {
	s := ss.top()
	if pre {
		s.xform = s.xform.PreMultiply(m)
	} else {
		s.xform = s.xform.Multiply(m)
	}
	s.recomputeScales()
}

func (ss *stateStack) translate(tx, ty float32) { ss.multiply(TranslateMatrix(tx, ty), true) }
func (ss *stateStack) scale(sx, sy float32)     { ss.multiply(ScaleMatrix(sx, sy), true) }
func (ss *stateStack) rotate(angle float32)     { ss.multiply(RotateMatrix(angle), true) }
func (ss *stateStack) skewX(angle float32)      { ss.multiply(SkewXMatrix(angle), true) }
func (ss *stateStack) skewY(angle float32)      { ss.multiply(SkewYMatrix(angle), true) }

// setScissor transforms rect by the current matrix and clips it to the
// canvas bounds.
func (ss *stateStack) setScissor(x, y, w, h, canvasW, canvasH float32) {
	s := ss.top()
	x0, y0 := s.xform.TransformPoint(x, y)
	x1, y1 := s.xform.TransformPoint(x+w, y+h)
	rect := intersectRects(min(x0, x1), min(y0, y1), absF(x1-x0), absF(y1-y0), 0, 0, canvasW, canvasH)
	s.scissor = rect
	s.hasScissor = true
}

// intersectScissor intersects the transformed rect with the existing
// scissor. Returns false (and leaves scissor unchanged) if the result would
// be empty.
func (ss *stateStack) intersectScissor(x, y, w, h, canvasW, canvasH float32) bool {
	s := ss.top()
	if !s.hasScissor {
		ss.setScissor(x, y, w, h, canvasW, canvasH)
		return true
	}
	x0, y0 := s.xform.TransformPoint(x, y)
	x1, y1 := s.xform.TransformPoint(x+w, y+h)
	rect := intersectRects(s.scissor[0], s.scissor[1], s.scissor[2], s.scissor[3],
		min(x0, x1), min(y0, y1), absF(x1-x0), absF(y1-y0))
	if rect[2]*rect[3] < 1.0 {
		return false
	}
	s.scissor = rect
	return true
}

func (ss *stateStack) resetScissor(canvasW, canvasH float32) {
	s := ss.top()
	s.scissor = [4]float32{0, 0, canvasW, canvasH}
	s.hasScissor = false
}

func (ss *stateStack) setGlobalAlpha(alpha float32) {
	ss.top().globalAlpha = clamp(alpha, 0.0, 1.0)
}
