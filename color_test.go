package vg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGBAConversion(t *testing.T) {
	c := RGBA(255, 128, 0, 255)
	assert.InDelta(t, 1.0, c.R, 1e-6)
	assert.InDelta(t, 128.0/255.0, c.G, 1e-6)
	assert.InDelta(t, 0.0, c.B, 1e-6)
	assert.InDelta(t, 1.0, c.A, 1e-6)
}

func TestTransRGBA(t *testing.T) {
	c := RGB(10, 20, 30).TransRGBA(128)
	assert.InDelta(t, 128.0/255.0, c.A, 1e-6)
}

func TestPreMultiply(t *testing.T) {
	c := RGBAf(1, 0.5, 0.25, 0.5).PreMultiply()
	assert.InDelta(t, 0.5, c.R, 1e-6)
	assert.InDelta(t, 0.25, c.G, 1e-6)
	assert.InDelta(t, 0.125, c.B, 1e-6)
	assert.InDelta(t, 0.5, c.A, 1e-6)
}

func TestPackedRGBA8RoundTrip(t *testing.T) {
	c := RGBA(200, 100, 50, 255)
	packed := c.PackedRGBA8()
	r := uint8(packed & 0xff)
	g := uint8((packed >> 8) & 0xff)
	b := uint8((packed >> 16) & 0xff)
	a := uint8((packed >> 24) & 0xff)
	assert.Equal(t, uint8(200), r)
	assert.Equal(t, uint8(100), g)
	assert.Equal(t, uint8(50), b)
	assert.Equal(t, uint8(255), a)
}

func TestPackedRGBA8Premultiplies(t *testing.T) {
	c := RGBA(200, 100, 50, 128)
	packed := c.PackedRGBA8()
	r := uint8(packed & 0xff)
	assert.Less(t, int(r), 200)
}

func TestHSLAPrimaries(t *testing.T) {
	red := HSLA(0, 1, 0.5, 255)
	assert.InDelta(t, 1.0, red.R, 0.01)
	assert.InDelta(t, 0.0, red.G, 0.01)
	assert.InDelta(t, 0.0, red.B, 0.01)

	green := HSLA(1.0/3.0, 1, 0.5, 255)
	assert.InDelta(t, 0.0, green.R, 0.01)
	assert.InDelta(t, 1.0, green.G, 0.01)
	assert.InDelta(t, 0.0, green.B, 0.01)
}

func TestLerpRGBA(t *testing.T) {
	a := RGBAf(0, 0, 0, 0)
	b := RGBAf(1, 1, 1, 1)
	mid := LerpRGBA(a, b, 0.5)
	assert.InDelta(t, 0.5, mid.R, 1e-6)
	assert.InDelta(t, 0.5, mid.A, 1e-6)

	assert.Equal(t, a, LerpRGBA(a, b, -1))
	assert.Equal(t, b, LerpRGBA(a, b, 2))
}

func TestContrastingColor(t *testing.T) {
	dark := RGB(10, 10, 10)
	light := RGB(250, 250, 250)
	assert.Equal(t, MONO(255, 255), dark.ContrastingColor())
	assert.Equal(t, MONO(0, 255), light.ContrastingColor())
}
