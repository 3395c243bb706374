package vg

import (
	"testing"

	"github.com/bkaradzic/vg-renderer/fontstashmini"
	"github.com/stretchr/testify/assert"
)

func TestNewFontSystemComputesWhitePixelUV(t *testing.T) {
	fs := NewFontSystem(256, 128, 0)
	u, v := fs.GetWhitePixelUV()
	require := assert.New(t)
	require.Equal(float32(1.0/256.0), u)
	require.Equal(float32(1.0/128.0), v)
}

func TestResetAtlasSizeRecomputesWhitePixelUVAndDims(t *testing.T) {
	fs := NewFontSystem(64, 64, 0)
	fs.ResetAtlasSize(512, 256)
	u, v := fs.GetWhitePixelUV()
	require := assert.New(t)
	require.Equal(float32(1.0/512.0), u)
	require.Equal(float32(1.0/256.0), v)
	require.Equal(512, fs.atlasW)
	require.Equal(256, fs.atlasH)
	require.True(fs.atlasDirty)
}

func TestGetFontAtlasImageReturnsAllocatedDimensions(t *testing.T) {
	fs := NewFontSystem(32, 16, 0)
	data, w, h := fs.GetFontAtlasImage()
	require := assert.New(t)
	require.Equal(32, w)
	require.Equal(16, h)
	require.Len(data, 32*16)
}

func TestToFonsAlignMapsEveryBit(t *testing.T) {
	a := AlignLeft | AlignMiddle | AlignBaseline
	out := toFonsAlign(a)
	require := assert.New(t)
	require.NotZero(out & fontstashmini.ALIGN_LEFT)
	require.NotZero(out & fontstashmini.ALIGN_MIDDLE)
	require.NotZero(out & fontstashmini.ALIGN_BASELINE)
	require.Zero(out & fontstashmini.ALIGN_RIGHT)
}

func TestAddFontFromMemoryRejectsGarbageData(t *testing.T) {
	fs := NewFontSystem(256, 256, 0)
	id := fs.AddFontFromMemory("garbage", []byte("not a font"))
	assert.Equal(t, fontstashmini.INVALID, id)
}

func TestFontByNameUnknownReturnsInvalid(t *testing.T) {
	fs := NewFontSystem(256, 256, 0)
	assert.Equal(t, fontstashmini.INVALID, fs.FontByName("nope"))
}
