package vg

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingTarget implements commandListTarget by logging every call as a
// string, so a test can assert on exactly what the interpreter replayed
// without needing a full Context.
type recordingTarget struct {
	calls []string
}

func (r *recordingTarget) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingTarget) BeginPath()             { r.log("BeginPath") }
func (r *recordingTarget) MoveTo(x, y float32)    { r.log("MoveTo(%v,%v)", x, y) }
func (r *recordingTarget) LineTo(x, y float32)    { r.log("LineTo(%v,%v)", x, y) }
func (r *recordingTarget) BezierTo(c1x, c1y, c2x, c2y, x, y float32) {
	r.log("BezierTo(%v,%v,%v,%v,%v,%v)", c1x, c1y, c2x, c2y, x, y)
}
func (r *recordingTarget) QuadTo(cx, cy, x, y float32) { r.log("QuadTo(%v,%v,%v,%v)", cx, cy, x, y) }
func (r *recordingTarget) ArcTo(x1, y1, x2, y2, radius float32) {
	r.log("ArcTo(%v,%v,%v,%v,%v)", x1, y1, x2, y2, radius)
}
func (r *recordingTarget) Arc(cx, cy, rad, a0, a1 float32, dir Direction) {
	r.log("Arc(%v,%v,%v,%v,%v,%v)", cx, cy, rad, a0, a1, dir)
}
func (r *recordingTarget) Rect(x, y, w, h float32) { r.log("Rect(%v,%v,%v,%v)", x, y, w, h) }
func (r *recordingTarget) RoundedRect(x, y, w, h, rad float32) {
	r.log("RoundedRect(%v,%v,%v,%v,%v)", x, y, w, h, rad)
}
func (r *recordingTarget) RoundedRectVarying(x, y, w, h, a, b, c, d float32) {
	r.log("RoundedRectVarying(%v,%v,%v,%v,%v,%v,%v,%v)", x, y, w, h, a, b, c, d)
}
func (r *recordingTarget) Circle(cx, cy, rad float32)       { r.log("Circle(%v,%v,%v)", cx, cy, rad) }
func (r *recordingTarget) Ellipse(cx, cy, rx, ry float32)   { r.log("Ellipse(%v,%v,%v,%v)", cx, cy, rx, ry) }
func (r *recordingTarget) Polyline(pts [][2]float32)        { r.log("Polyline(%v)", pts) }
func (r *recordingTarget) ClosePath()                       { r.log("ClosePath") }
func (r *recordingTarget) PathWinding(w Winding)             { r.log("PathWinding(%v)", w) }

func (r *recordingTarget) FillColor(c Color, flags FillFlags) error {
	r.log("FillColor(%v,%v)", c, flags)
	return nil
}
func (r *recordingTarget) FillGradient(g Handle, flags FillFlags) error {
	r.log("FillGradient(%v,%v)", g, flags)
	return nil
}
func (r *recordingTarget) FillImagePattern(ip Handle, flags FillFlags) error {
	r.log("FillImagePattern(%v,%v)", ip, flags)
	return nil
}
func (r *recordingTarget) StrokeColor(width float32, c Color, flags StrokeFlags) error {
	r.log("StrokeColor(%v,%v,%v)", width, c, flags)
	return nil
}
func (r *recordingTarget) StrokeGradient(width float32, g Handle, flags StrokeFlags) error {
	r.log("StrokeGradient(%v,%v,%v)", width, g, flags)
	return nil
}
func (r *recordingTarget) StrokeImagePattern(width float32, ip Handle, flags StrokeFlags) error {
	r.log("StrokeImagePattern(%v,%v,%v)", width, ip, flags)
	return nil
}

func (r *recordingTarget) BeginClip(rule ClipRule) error { r.log("BeginClip(%v)", rule); return nil }
func (r *recordingTarget) EndClip()                      { r.log("EndClip") }
func (r *recordingTarget) ResetClip()                    { r.log("ResetClip") }

func (r *recordingTarget) CreateLinearGradient(sx, sy, ex, ey float32, icol, ocol Color) Handle {
	r.log("CreateLinearGradient")
	return Handle{ID: 100}
}
func (r *recordingTarget) CreateBoxGradient(x, y, w, h, rad, f float32, icol, ocol Color) Handle {
	r.log("CreateBoxGradient")
	return Handle{ID: 101}
}
func (r *recordingTarget) CreateRadialGradient(cx, cy, inr, outr float32, icol, ocol Color) Handle {
	r.log("CreateRadialGradient")
	return Handle{ID: 102}
}
func (r *recordingTarget) CreateImagePattern(cx, cy, w, h, angle float32, img Handle) Handle {
	r.log("CreateImagePattern(img=%v)", img)
	return Handle{ID: 103}
}

func (r *recordingTarget) PushState() error { r.log("PushState"); return nil }
func (r *recordingTarget) PopState() error  { r.log("PopState"); return nil }
func (r *recordingTarget) ResetScissor()    { r.log("ResetScissor") }
func (r *recordingTarget) SetScissor(x, y, w, h float32) {
	r.log("SetScissor(%v,%v,%v,%v)", x, y, w, h)
}
func (r *recordingTarget) IntersectScissor(x, y, w, h float32) bool {
	r.log("IntersectScissor(%v,%v,%v,%v)", x, y, w, h)
	return true
}

func (r *recordingTarget) TransformIdentity()                { r.log("TransformIdentity") }
func (r *recordingTarget) TransformScale(sx, sy float32)      { r.log("TransformScale(%v,%v)", sx, sy) }
func (r *recordingTarget) TransformTranslate(tx, ty float32)  { r.log("TransformTranslate(%v,%v)", tx, ty) }
func (r *recordingTarget) TransformRotate(angle float32)      { r.log("TransformRotate(%v)", angle) }
func (r *recordingTarget) TransformMultiply(m TransformMatrix, pre bool) {
	r.log("TransformMultiply(%v,%v)", m, pre)
}
func (r *recordingTarget) SetViewBox(x, y, w, h float32) {
	r.log("SetViewBox(%v,%v,%v,%v)", x, y, w, h)
}

func (r *recordingTarget) Text(cfg TextConfig, x, y float32, str string) {
	r.log("Text(%v,%v,%q)", x, y, str)
}
func (r *recordingTarget) TextBox(cfg TextConfig, x, y, breakWidth float32, str string) {
	r.log("TextBox(%v,%v,%v,%q)", x, y, breakWidth, str)
}
func (r *recordingTarget) IndexedTriList(positions [][2]float32, uvs [][2]float32, colors []Color, indices []uint16, img Handle) error {
	r.log("IndexedTriList(%d verts,%d idx,img=%v)", len(positions), len(indices), img)
	return nil
}

func (r *recordingTarget) SubmitCommandList(cl *CommandList) error {
	r.log("SubmitCommandList")
	return nil
}

func TestInterpreterReplaysBasicPathOps(t *testing.T) {
	cl := NewCommandList(0)
	cl.BeginPath()
	cl.MoveTo(1, 2)
	cl.LineTo(3, 4)
	cl.ClosePath()

	target := &recordingTarget{}
	ip := NewInterpreter(16)
	require := assert.New(t)
	require.NoError(ip.Submit(target, cl, 0, 0))
	require.Equal([]string{"BeginPath", "MoveTo(1,2)", "LineTo(3,4)", "ClosePath"}, target.calls)
}

func TestInterpreterRemapsLocalGradientHandles(t *testing.T) {
	cl := NewCommandList(0)
	g := cl.CreateLinearGradient(0, 0, 10, 10, RGB(255, 0, 0), RGB(0, 0, 255))
	cl.FillGradient(g, FillAA)

	target := &recordingTarget{}
	ip := NewInterpreter(16)
	require := assert.New(t)
	require.NoError(ip.Submit(target, cl, 5, 0))
	require.Contains(target.calls[1], fmt.Sprintf("FillGradient({%d 0}", 5))
}

func TestInterpreterSubmitsNestedCommandList(t *testing.T) {
	child := NewCommandList(0)
	child.Rect(0, 0, 10, 10)
	parent := NewCommandList(0)
	parent.SubmitCommandList(child)

	target := &recordingTarget{}
	ip := NewInterpreter(16)
	require := assert.New(t)
	require.NoError(ip.Submit(target, parent, 0, 0))
	require.Equal([]string{"Rect(0,0,10,10)"}, target.calls)
}

func TestInterpreterEnforcesRecursionLimit(t *testing.T) {
	a := NewCommandList(0)
	b := NewCommandList(0)
	a.SubmitCommandList(b)
	b.SubmitCommandList(a)

	target := &recordingTarget{}
	ip := NewInterpreter(2)
	err := ip.Submit(target, a, 0, 0)
	assert.ErrorIs(t, err, ErrRecursionLimit)
}

func TestInterpreterRecursionLimitDoesNotTruncateSiblingCommands(t *testing.T) {
	inner := NewCommandList(0)
	inner.Rect(0, 0, 1, 1)

	outer := NewCommandList(0)
	outer.SubmitCommandList(inner)
	outer.Rect(5, 5, 10, 10)

	target := &recordingTarget{}
	ip := NewInterpreter(0)
	err := ip.Submit(target, outer, 0, 0)
	require := assert.New(t)
	require.ErrorIs(err, ErrRecursionLimit)
	require.Equal([]string{"Rect(5,5,10,10)"}, target.calls)
}

func TestInterpreterTextRoundTripsString(t *testing.T) {
	cl := NewCommandList(0)
	cl.Text(TextConfig{FontID: 1, FontSize: 16}, 10, 20, "hello")

	target := &recordingTarget{}
	ip := NewInterpreter(16)
	require := assert.New(t)
	require.NoError(ip.Submit(target, cl, 0, 0))
	require.Equal([]string{`Text(10,20,"hello")`}, target.calls)
}
