package vg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingBackend wraps fakeBackend's texture bookkeeping with a call log
// so frameRenderer.submit's stencil/scissor/draw sequencing can be asserted
// without a real GPU.
type recordingBackend struct {
	fakeBackend
	calls []string
}

func (b *recordingBackend) BindProgram(typ DrawCommandType) {
	b.calls = append(b.calls, "BindProgram")
}
func (b *recordingBackend) SetScissor(x, y, w, h uint16) {
	b.calls = append(b.calls, "SetScissor")
}
func (b *recordingBackend) SetStencil(ref uint8, write bool, rule ClipRule) {
	b.calls = append(b.calls, "SetStencil")
}
func (b *recordingBackend) DisableStencilTest() {
	b.calls = append(b.calls, "DisableStencilTest")
}
func (b *recordingBackend) ClearStencilBuffer() {
	b.calls = append(b.calls, "ClearStencilBuffer")
}
func (b *recordingBackend) Submit(viewID int, vb, ib BufferHandle, firstIndex, numIndices int, stateMask uint32) {
	b.calls = append(b.calls, "Submit")
}

func newTestFrameRenderer(backend Backend, paints *paintRegistry, images *imageRegistry) *frameRenderer {
	return newFrameRenderer(backend, paints, images, 0, 100, 100, 1, false)
}

func squareMeshHandle(b *batcher, typ DrawCommandType, handle Handle) {
	mesh := Mesh{
		Positions: [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint16{0, 1, 2, 0, 2, 3},
		Colors:    []uint32{RGB(255, 255, 255).PackedRGBA8()},
	}
	cmd, fv, fi := b.allocDrawCommand(len(mesh.Positions), len(mesh.Indices), typ, handle, [4]float32{0, 0, 100, 100}, ClipState{})
	_ = b.appendMesh(cmd.VertexBuffer, fv, fi, mesh)
}

func TestFrameRendererSubmitClearsStencilOnceAndDisablesTestWithNoClip(t *testing.T) {
	backend := &recordingBackend{}
	paints := newPaintRegistry(4, 4)
	images := newImageRegistry(backend, 4)
	g, err := paints.addGradient(Gradient{})
	require := assert.New(t)
	require.NoError(err)

	b := newTestBatcher(1024)
	squareMeshHandle(b, DrawColorGradient, g)

	fr := newTestFrameRenderer(backend, paints, images)
	require.NoError(fr.submit(b))

	clearCount := 0
	disableCount := 0
	submitCount := 0
	for _, c := range backend.calls {
		switch c {
		case "ClearStencilBuffer":
			clearCount++
		case "DisableStencilTest":
			disableCount++
		case "Submit":
			submitCount++
		}
	}
	require.Equal(1, clearCount)
	require.Equal(1, disableCount)
	require.Equal(1, submitCount)
}

func TestFrameRendererSubmitTexturedReturnsInvalidHandleForUnknownImage(t *testing.T) {
	backend := &recordingBackend{}
	paints := newPaintRegistry(4, 4)
	images := newImageRegistry(backend, 4)

	b := newTestBatcher(1024)
	squareMeshHandle(b, DrawTextured, Handle{ID: 99})

	fr := newTestFrameRenderer(backend, paints, images)
	err := fr.submit(b)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestFrameRendererSubmitTexturedBindsTextureForKnownImage(t *testing.T) {
	backend := &recordingBackend{}
	paints := newPaintRegistry(4, 4)
	images := newImageRegistry(backend, 4)
	h, err := images.create(TextureRGBA, 4, 4, 0, nil)
	require := assert.New(t)
	require.NoError(err)

	b := newTestBatcher(1024)
	squareMeshHandle(b, DrawTextured, h)

	fr := newTestFrameRenderer(backend, paints, images)
	require.NoError(fr.submit(b))

	submitted := false
	for _, c := range backend.calls {
		if c == "Submit" {
			submitted = true
		}
	}
	require.True(submitted)
}

func TestFrameRendererSubmitImagePatternResolvesNestedImage(t *testing.T) {
	backend := &recordingBackend{}
	paints := newPaintRegistry(4, 4)
	images := newImageRegistry(backend, 4)
	img, err := images.create(TextureRGBA, 4, 4, 0, nil)
	require := assert.New(t)
	require.NoError(err)

	ip, err := paints.addImagePattern(ImagePattern{image: img})
	require.NoError(err)

	b := newTestBatcher(1024)
	squareMeshHandle(b, DrawImagePattern, ip)

	fr := newTestFrameRenderer(backend, paints, images)
	require.NoError(fr.submit(b))
}

func TestFrameRendererSubmitImagePatternUnknownImageErrors(t *testing.T) {
	backend := &recordingBackend{}
	paints := newPaintRegistry(4, 4)
	images := newImageRegistry(backend, 4)

	ip, err := paints.addImagePattern(ImagePattern{image: Handle{ID: 77}})
	require := assert.New(t)
	require.NoError(err)

	b := newTestBatcher(1024)
	squareMeshHandle(b, DrawImagePattern, ip)

	fr := newTestFrameRenderer(backend, paints, images)
	err = fr.submit(b)
	require.ErrorIs(err, ErrInvalidHandle)
}

func TestFrameRendererReusesStencilRefForSameClipRun(t *testing.T) {
	backend := &recordingBackend{}
	paints := newPaintRegistry(4, 4)
	images := newImageRegistry(backend, 4)
	g, err := paints.addGradient(Gradient{})
	require := assert.New(t)
	require.NoError(err)

	b := newTestBatcher(1024)
	clip := ClipState{FirstCmdID: 0, NumCmds: 1, Rule: ClipIn, Active: true}
	clipMesh := Mesh{
		Positions: [][2]float32{{0, 0}, {1, 0}, {1, 1}},
		Indices:   []uint16{0, 1, 2},
	}
	cc, fv, fi := b.allocClipCommand(len(clipMesh.Positions), len(clipMesh.Indices), [4]float32{0, 0, 100, 100})
	_ = b.appendMesh(cc.VertexBuffer, fv, fi, clipMesh)

	mesh := Mesh{
		Positions: [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint16{0, 1, 2, 0, 2, 3},
		Colors:    []uint32{RGB(1, 2, 3).PackedRGBA8()},
	}
	d1, fv1, fi1 := b.allocDrawCommand(len(mesh.Positions), len(mesh.Indices), DrawColorGradient, g, [4]float32{0, 0, 100, 100}, clip)
	_ = b.appendMesh(d1.VertexBuffer, fv1, fi1, mesh)

	b.forceNewDrawCommand = true
	d2, fv2, fi2 := b.allocDrawCommand(len(mesh.Positions), len(mesh.Indices), DrawColorGradient, g, [4]float32{0, 0, 100, 100}, clip)
	_ = b.appendMesh(d2.VertexBuffer, fv2, fi2, mesh)

	fr := newTestFrameRenderer(backend, paints, images)
	require.NoError(fr.submit(b))

	bindCount := 0
	for _, c := range backend.calls {
		if c == "BindProgram" {
			bindCount++
		}
	}
	// one bind for the clip pass, one for each of the two draw commands
	require.Equal(3, bindCount)
}

func TestPremultipliedVec4ScalesColorByAlpha(t *testing.T) {
	c := Color{R: 1, G: 1, B: 1, A: 0.5}
	v := premultipliedVec4(c)
	assert.Equal(t, [4]float32{0.5, 0.5, 0.5, 0.5}, v)
}

func TestMat3x3ToPaintMatPreservesTranslation(t *testing.T) {
	m := TranslateMatrix(5, 7).ToMat3x3()
	out := mat3x3ToPaintMat(m)
	assert.Equal(t, float32(5), out[8])
	assert.Equal(t, float32(7), out[9])
}

func TestGradientUniformsCarriesExtentAndColors(t *testing.T) {
	g := Gradient{
		innerColor: RGB(255, 0, 0),
		outerColor: RGB(0, 0, 255),
		params:     [4]float32{1, 2, 3, 4},
	}
	u := gradientUniforms(g)
	require := assert.New(t)
	require.Equal([2]float32{1, 2}, u.Extent)
	require.Equal(float32(3), u.Radius)
	require.Equal(float32(4), u.Feather)
}
