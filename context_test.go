package vg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T) (*Context, *recordingBackend) {
	backend := &recordingBackend{}
	cfg := DefaultContextConfig()
	c, err := NewContext(backend, AntiAlias, cfg)
	assert.NoError(t, err)
	c.BeginFrame(0, 100, 100, 1)
	return c, backend
}

func TestNewContextCreatesFontAtlasTexture(t *testing.T) {
	c, backend := newTestContext(t)
	assert.True(t, c.fontAtlas.Valid())
	assert.Equal(t, 1, backend.nextTexture)
}

func TestFillColorThenEndFrameSubmitsDrawCommand(t *testing.T) {
	c, backend := newTestContext(t)
	c.BeginPath()
	c.Rect(0, 0, 10, 10)
	require := assert.New(t)
	require.NoError(c.FillColor(RGB(255, 0, 0), FillAA))
	require.NoError(c.EndFrame())

	submitted := false
	for _, call := range backend.calls {
		if call == "Submit" {
			submitted = true
		}
	}
	require.True(submitted)
}

func TestFillColorZeroAlphaProducesNoDrawCommands(t *testing.T) {
	c, _ := newTestContext(t)
	c.BeginPath()
	c.Rect(0, 0, 10, 10)
	require := assert.New(t)
	require.NoError(c.FillColor(RGBAf(1, 0, 0, 0), FillAA))
	require.Empty(c.batch.drawCommands)
}

func TestEnsureTransformedCachesAcrossMultipleFillCalls(t *testing.T) {
	c, _ := newTestContext(t)
	c.BeginPath()
	c.Rect(0, 0, 10, 10)
	first := c.ensureTransformed()
	require := assert.New(t)
	require.NoError(c.FillColor(RGB(0, 0, 0), FillAA))
	require.NoError(c.FillColor(RGB(0, 0, 0), FillAA))
	second := c.ensureTransformed()
	require.Same(&first[0][0], &second[0][0])
}

func TestBeginPathResetsTransformedCache(t *testing.T) {
	c, _ := newTestContext(t)
	c.BeginPath()
	c.Rect(0, 0, 10, 10)
	c.ensureTransformed()
	require := assert.New(t)
	require.True(c.pathBuilt)
	c.BeginPath()
	require.False(c.pathBuilt)
}

func TestFillGradientInvalidHandleErrors(t *testing.T) {
	c, _ := newTestContext(t)
	c.BeginPath()
	c.Rect(0, 0, 10, 10)
	err := c.FillGradient(Handle{ID: 999}, FillAA)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestFillImagePatternInvalidHandleErrors(t *testing.T) {
	c, _ := newTestContext(t)
	c.BeginPath()
	c.Rect(0, 0, 10, 10)
	err := c.FillImagePattern(Handle{ID: 999}, FillAA)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestCreateImagePatternFromInvalidImageHandleReturnsInvalid(t *testing.T) {
	c, _ := newTestContext(t)
	h := c.CreateImagePattern(0, 0, 10, 10, 0, Handle{ID: 999})
	assert.False(t, h.Valid())
}

func TestPushPopStateRestoresTransformAndScissor(t *testing.T) {
	c, _ := newTestContext(t)
	require := assert.New(t)
	require.NoError(c.PushState())
	c.TransformTranslate(5, 5)
	c.SetScissor(1, 1, 2, 2)
	require.NoError(c.PopState())

	xform := c.CurrentTransform()
	require.Equal(IdentityMatrix(), xform)
}

func TestPopStateForcesNewDrawCommand(t *testing.T) {
	c, _ := newTestContext(t)
	require := assert.New(t)
	require.NoError(c.PushState())
	require.NoError(c.PopState())
	require.True(c.batch.forceNewDrawCommand)
	require.True(c.batch.forceNewClipCommand)
}

func TestPopStateUnderflowErrors(t *testing.T) {
	c, _ := newTestContext(t)
	assert.ErrorIs(t, c.PopState(), ErrStateStackUnderflow)
}

func TestResetScissorThenIntersectFullCanvasIsNoop(t *testing.T) {
	c, _ := newTestContext(t)
	c.ResetScissor()
	before := c.currentScissor()
	ok := c.IntersectScissor(0, 0, c.canvasW, c.canvasH)
	after := c.currentScissor()
	require := assert.New(t)
	require.True(ok)
	require.Equal(before, after)
}

func TestIntersectScissorEmptyResultReturnsFalse(t *testing.T) {
	c, _ := newTestContext(t)
	c.SetScissor(0, 0, 10, 10)
	ok := c.IntersectScissor(50, 50, 10, 10)
	assert.False(t, ok)
}

func TestStrokeWidthAtFringeBoundaryIsThin(t *testing.T) {
	c, _ := newTestContext(t)
	c.BeginPath()
	c.MoveTo(0, 0)
	c.LineTo(10, 0)
	require := assert.New(t)
	// fringeWidth is 1/devicePixelRatio == 1 here; a width exactly at the
	// boundary takes the thin-stroke path per strokeInternal.
	require.NoError(c.StrokeColor(1.0, RGB(0, 0, 0), StrokeAA))
	require.NotEmpty(c.batch.drawCommands)
}

func TestBeginClipDivertsFillIntoClipCommands(t *testing.T) {
	c, _ := newTestContext(t)
	require := assert.New(t)
	require.NoError(c.BeginClip(ClipIn))
	c.BeginPath()
	c.Rect(0, 0, 10, 10)
	require.NoError(c.FillColor(RGB(0, 0, 0), FillAA))
	c.EndClip()
	require.Empty(c.batch.drawCommands)
	require.NotEmpty(c.batch.clipCommands)
}

func TestFillInsideClipRecordingWithNonColorKindErrors(t *testing.T) {
	c, _ := newTestContext(t)
	require := assert.New(t)
	require.NoError(c.BeginClip(ClipIn))
	c.BeginPath()
	c.Rect(0, 0, 10, 10)
	g := c.CreateLinearGradient(0, 0, 10, 10, RGB(255, 0, 0), RGB(0, 0, 255))
	err := c.FillGradient(g, FillAA)
	require.ErrorIs(err, ErrClipRequiresColor)
}

func TestSubmitCommandListRemapsLocalGradientHandles(t *testing.T) {
	c, _ := newTestContext(t)
	cl := NewCommandList(0)
	g := cl.CreateLinearGradient(0, 0, 10, 10, RGB(255, 0, 0), RGB(0, 0, 255))
	cl.Rect(0, 0, 10, 10)
	cl.FillGradient(g, FillAA)

	require := assert.New(t)
	require.NoError(c.SubmitCommandList(cl))
	require.NotEmpty(c.batch.drawCommands)
	last := c.batch.drawCommands[len(c.batch.drawCommands)-1]
	require.Equal(DrawColorGradient, last.Type)
}

func TestSubmitCommandListCacheableReplaysFromShapeCacheOnSecondCall(t *testing.T) {
	c, _ := newTestContext(t)
	cl := NewCommandList(Cacheable)
	cl.Rect(0, 0, 10, 10)
	cl.FillColor(RGB(0, 0, 0), FillAA)

	require := assert.New(t)
	require.NoError(c.SubmitCommandList(cl))
	require.NotNil(c.shapes.get(cl, c.states.top().avgScale))
	require.NoError(c.SubmitCommandList(cl))
}

func TestEndFrameWarnsButDoesNotErrorOnUnbalancedStateStack(t *testing.T) {
	c, _ := newTestContext(t)
	require := assert.New(t)
	require.NoError(c.PushState())
	require.NoError(c.EndFrame())
}

func TestCreateFontFromMemoryEnforcesMaxFontsCap(t *testing.T) {
	backend := &recordingBackend{}
	cfg := DefaultContextConfig()
	cfg.MaxFonts = 1
	c, err := NewContext(backend, 0, cfg)
	require := assert.New(t)
	require.NoError(err)

	c.fontCount = cfg.MaxFonts
	_, err = c.CreateFontFromMemory("a", []byte("not a real font"))
	require.ErrorIs(err, ErrResourceExhausted)
}

func TestCreateFontFromMemoryRejectsUnparsableData(t *testing.T) {
	c, _ := newTestContext(t)
	_, err := c.CreateFontFromMemory("garbage", []byte("not a real font"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCancelFrameDiscardsRecordedCommands(t *testing.T) {
	c, _ := newTestContext(t)
	c.BeginPath()
	c.Rect(0, 0, 10, 10)
	require := assert.New(t)
	require.NoError(c.FillColor(RGB(0, 0, 0), FillAA))
	require.NotEmpty(c.batch.drawCommands)
	c.CancelFrame()
	require.Empty(c.batch.drawCommands)
}
