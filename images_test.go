package vg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeBackend records calls just enough for the registry/frame-level tests
// in this package; it never touches a real GPU.
type fakeBackend struct {
	nextTexture    int
	destroyedCount int
	updatedCount   int
}

func (b *fakeBackend) CreateVertexBuffer(capacity int) BufferHandle { return BufferHandle(0) }
func (b *fakeBackend) UpdateVertexBuffer(buf BufferHandle, offset int, pos, uv []float32, color []uint32, release ReleaseFunc) {
	if release != nil {
		release()
	}
}
func (b *fakeBackend) DestroyVertexBuffer(buf BufferHandle) {}
func (b *fakeBackend) CreateIndexBuffer(capacity int) BufferHandle { return BufferHandle(0) }
func (b *fakeBackend) UpdateIndexBuffer(buf BufferHandle, offset int, indices []uint16, release ReleaseFunc) {
	if release != nil {
		release()
	}
}
func (b *fakeBackend) DestroyIndexBuffer(buf BufferHandle) {}
func (b *fakeBackend) CreateTexture(kind TextureKind, w, h int, flags ImageFlags, data []byte) TextureHandle {
	b.nextTexture++
	return TextureHandle(b.nextTexture)
}
func (b *fakeBackend) UpdateTexture(tex TextureHandle, x, y, w, h int, data []byte) { b.updatedCount++ }
func (b *fakeBackend) DestroyTexture(tex TextureHandle)                            { b.destroyedCount++ }
func (b *fakeBackend) BindProgram(typ DrawCommandType)                             {}
func (b *fakeBackend) SetUniformViewSize(w, h float32)                             {}
func (b *fakeBackend) SetUniformFrag(u FragUniforms)                               {}
func (b *fakeBackend) SetUniformTexture(tex TextureHandle)                         {}
func (b *fakeBackend) SetScissor(x, y, w, h uint16)                                {}
func (b *fakeBackend) SetStencil(ref uint8, write bool, rule ClipRule)             {}
func (b *fakeBackend) DisableStencilTest()                                         {}
func (b *fakeBackend) ClearStencilBuffer()                                         {}
func (b *fakeBackend) Submit(viewID int, vb, ib BufferHandle, firstIndex, numIndices int, stateMask uint32) {
}

func TestImageRegistryCreateRespectsMax(t *testing.T) {
	backend := &fakeBackend{}
	r := newImageRegistry(backend, 1)
	require := assert.New(t)

	h, err := r.create(TextureRGBA, 4, 4, 0, nil)
	require.NoError(err)
	require.True(h.Valid())

	_, err = r.create(TextureRGBA, 4, 4, 0, nil)
	require.ErrorIs(err, ErrResourceExhausted)
}

func TestImageRegistrySizeAndGet(t *testing.T) {
	backend := &fakeBackend{}
	r := newImageRegistry(backend, 4)
	h, _ := r.create(TextureRGBA, 10, 20, 0, nil)
	w, hgt, ok := r.size(h)
	require := assert.New(t)
	require.True(ok)
	require.Equal(10, w)
	require.Equal(20, hgt)
}

func TestImageRegistryDeleteInvalidatesHandle(t *testing.T) {
	backend := &fakeBackend{}
	r := newImageRegistry(backend, 4)
	h, _ := r.create(TextureRGBA, 4, 4, 0, nil)
	require := assert.New(t)
	require.NoError(r.delete(h))
	require.Equal(1, backend.destroyedCount)

	_, ok := r.get(h)
	require.False(ok)
	require.ErrorIs(r.delete(h), ErrInvalidHandle)
}

func TestImageRegistryUpdateUnknownHandle(t *testing.T) {
	backend := &fakeBackend{}
	r := newImageRegistry(backend, 4)
	err := r.update(Handle{ID: 5}, 0, 0, 1, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestImageRegistryResetDestroysAllValidTextures(t *testing.T) {
	backend := &fakeBackend{}
	r := newImageRegistry(backend, 4)
	r.create(TextureRGBA, 4, 4, 0, nil)
	h2, _ := r.create(TextureRGBA, 4, 4, 0, nil)
	r.delete(h2)
	r.reset()
	assert.Equal(t, 2, backend.destroyedCount)
	assert.Empty(t, r.images)
}
