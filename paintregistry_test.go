package vg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaintRegistryAddGradientAssignsSequentialIDs(t *testing.T) {
	r := newPaintRegistry(4, 4)
	require := assert.New(t)

	h0, err := r.addGradient(Gradient{})
	require.NoError(err)
	require.Equal(uint16(0), h0.ID)

	h1, err := r.addGradient(Gradient{})
	require.NoError(err)
	require.Equal(uint16(1), h1.ID)
}

func TestPaintRegistryAddGradientExhausted(t *testing.T) {
	r := newPaintRegistry(1, 1)
	_, err := r.addGradient(Gradient{})
	assert.NoError(t, err)
	_, err = r.addGradient(Gradient{})
	assert.ErrorIs(t, err, ErrResourceExhausted)
}

func TestPaintRegistryGradientLookup(t *testing.T) {
	r := newPaintRegistry(4, 4)
	want := Gradient{params: [4]float32{1, 2, 3, 4}}
	h, _ := r.addGradient(want)
	got, ok := r.gradient(h)
	require := assert.New(t)
	require.True(ok)
	require.Equal(want, got)

	_, ok = r.gradient(InvalidHandle)
	require.False(ok)

	_, ok = r.gradient(Handle{ID: 99})
	require.False(ok)
}

func TestPaintRegistryImagePatternLookup(t *testing.T) {
	r := newPaintRegistry(4, 4)
	want := ImagePattern{image: Handle{ID: 3}}
	h, err := r.addImagePattern(want)
	require := assert.New(t)
	require.NoError(err)
	got, ok := r.imagePattern(h)
	require.True(ok)
	require.Equal(want, got)
}

func TestPaintRegistryResetClearsSlots(t *testing.T) {
	r := newPaintRegistry(4, 4)
	r.addGradient(Gradient{})
	r.addImagePattern(ImagePattern{})
	r.reset()
	assert.Equal(t, uint16(0), r.nextGradientID())
	assert.Equal(t, uint16(0), r.nextImagePatternID())
}

func TestNewGradientInvertsCombinedTransform(t *testing.T) {
	space := radialGradientSpace(0, 0, 5, 10, RGBA(255, 0, 0, 255), RGBA(0, 0, 255, 0))
	g := newGradient(space, IdentityMatrix())
	assert.InDelta(t, 7.5, g.params[0], 1e-6)
	assert.InDelta(t, 7.5, g.params[2], 1e-6)
}

func TestNewImagePatternScalesInverseBySize(t *testing.T) {
	ip := newImagePattern(0, 0, 100, 50, 0, Handle{ID: 1}, IdentityMatrix())
	assert.InDelta(t, 0.01, ip.inverseMatrix[0], 1e-6)
	assert.InDelta(t, 0.02, ip.inverseMatrix[4], 1e-6)
}
