package perfgraph

import (
	"testing"

	vg "github.com/bkaradzic/vg-renderer"
	"github.com/stretchr/testify/assert"
)

// noopBackend implements vg.Backend with no-ops, enough to drive a real
// vg.Context through BeginFrame/EndFrame without a GPU.
type noopBackend struct{ nextTexture int }

func (b *noopBackend) CreateVertexBuffer(capacity int) vg.BufferHandle { return vg.BufferHandle(0) }
func (b *noopBackend) UpdateVertexBuffer(buf vg.BufferHandle, offset int, pos, uv []float32, color []uint32, release vg.ReleaseFunc) {
	if release != nil {
		release()
	}
}
func (b *noopBackend) DestroyVertexBuffer(buf vg.BufferHandle)        {}
func (b *noopBackend) CreateIndexBuffer(capacity int) vg.BufferHandle { return vg.BufferHandle(0) }
func (b *noopBackend) UpdateIndexBuffer(buf vg.BufferHandle, offset int, indices []uint16, release vg.ReleaseFunc) {
	if release != nil {
		release()
	}
}
func (b *noopBackend) DestroyIndexBuffer(buf vg.BufferHandle) {}
func (b *noopBackend) CreateTexture(kind vg.TextureKind, w, h int, flags vg.ImageFlags, data []byte) vg.TextureHandle {
	b.nextTexture++
	return vg.TextureHandle(b.nextTexture)
}
func (b *noopBackend) UpdateTexture(tex vg.TextureHandle, x, y, w, h int, data []byte) {}
func (b *noopBackend) DestroyTexture(tex vg.TextureHandle)                             {}
func (b *noopBackend) BindProgram(typ vg.DrawCommandType)                              {}
func (b *noopBackend) SetUniformViewSize(w, h float32)                                 {}
func (b *noopBackend) SetUniformFrag(u vg.FragUniforms)                                {}
func (b *noopBackend) SetUniformTexture(tex vg.TextureHandle)                          {}
func (b *noopBackend) SetScissor(x, y, w, h uint16)                                    {}
func (b *noopBackend) SetStencil(ref uint8, write bool, rule vg.ClipRule)              {}
func (b *noopBackend) DisableStencilTest()                                             {}
func (b *noopBackend) ClearStencilBuffer()                                             {}
func (b *noopBackend) Submit(viewID int, vbh, ibh vg.BufferHandle, firstIndex, numIndices int, stateMask uint32) {
}

func newTestVGContext(t *testing.T) *vg.Context {
	ctx, err := vg.NewContext(&noopBackend{}, vg.AntiAlias, vg.DefaultContextConfig())
	assert.NoError(t, err)
	ctx.BeginFrame(0, 400, 300, 1)
	return ctx
}

func TestPerfGraphUpdateAdvancesHeadAndRecordsSample(t *testing.T) {
	pg := NewPerfGraph(RenderMS, "Frame Time", 0)
	_, frameTime := pg.Update()
	require := assert.New(t)
	require.Equal(1, pg.head)
	require.Equal(frameTime, pg.values[1])
}

func TestPerfGraphUpdateWrapsHeadAroundHistory(t *testing.T) {
	pg := NewPerfGraph(RenderFPS, "", 0)
	for i := 0; i < graphHistoryCount+1; i++ {
		pg.Update()
	}
	assert.Equal(t, 1, pg.head)
}

func TestPerfGraphAverageIsMeanOfSamples(t *testing.T) {
	pg := NewPerfGraph(RenderMS, "", 0)
	pg.values[0] = 10
	pg.values[1] = 20
	avg := pg.Average()
	assert.InDelta(t, 30.0/float32(graphHistoryCount), avg, 1e-6)
}

func TestPerfGraphRenderDoesNotPanicForEveryStyle(t *testing.T) {
	for _, style := range []RenderStyle{RenderFPS, RenderMS, RenderPercent} {
		ctx := newTestVGContext(t)
		pg := NewPerfGraph(style, "Frame Time", 0)
		pg.Update()
		assert.NotPanics(t, func() { pg.Render(ctx, 5, 5) })
	}
}
