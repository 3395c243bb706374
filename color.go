package vg

import (
	"cmp"
	"math"
)

// clamp restricts v to [lo, hi], used throughout the module for channel,
// coordinate, and parameter bounds rather than letting each caller hand-roll
// its own min/max pair.
func clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hue evaluates one HSL hue lobe at h, used three times (offset by a third
// of a turn each) by HSLA to derive R, G, and B.
func hue(h, m1, m2 float32) float32 {
	if h < 0.0 {
		h++
	} else if h > 1 {
		h--
	}
	if h < 1.0/6.0 {
		return m1 + (m2-m1)*h*6.0
	} else if h < 3.0/6.0 {
		return m2
	} else if h < 4.0/6.0 {
		return m1 + (m2-m1)*(2.0/3.0-h)*6.0
	}
	return m1
}

// Color is a straight (non-premultiplied) RGBA color with channels in
// [0, 1]; PreMultiply/PackedRGBA8 convert to the premultiplied, packed
// representation the draw-batch assembler and CommandList wire format use.
type Color struct {
	R, G, B, A float32
}

// TransRGBA sets transparency of a color value.
func (c Color) TransRGBA(a uint8) Color {
	c.A = float32(a) / 255.0
	return c
}

// TransRGBAf sets transparency of a color value.
func (c Color) TransRGBAf(a float32) Color {
	c.A = a
	return c
}

// PreMultiply preset alpha to each color.
func (c Color) PreMultiply() Color {
	c.R *= c.A
	c.G *= c.A
	c.B *= c.A
	return c
}

// List returns color value as array.
func (c Color) List() []float32 {
	return []float32{c.R, c.G, c.B, c.A}
}

// Convert To HSLA
func (c Color) HSLA() (h, s, l, a float32) {
	max := max(c.R, c.G, c.B)
	min := min(c.R, c.G, c.B)

	l = (max + min) * 0.5

	if max == min {
		h = 0
		s = 0
	} else {
		if max == c.R {
			h = ((c.G - c.B) / (max - min)) * 1.0 / 6.0
		} else if max == c.G {
			h = ((c.B-c.R)/(max-min))*1.0/6.0 + 1.0/3.0
		} else {
			h = ((c.R-c.G)/(max-min))*1.0/6.0 + 2.0/3.0
		}
		h = float32(math.Mod(float64(h), 1.0))
		if l <= 0.5 {
			s = (max - min) / (max + min)
		} else {
			s = (max - min) / (2.0 - max - min)
		}
	}
	a = c.A
	return
}

// Calc luminance value
func (c Color) Luminance() float32 {
	return c.R*0.299 + c.G*0.587 + c.B*0.144
}

// Calc constraint color
func (c Color) ContrastingColor() Color {
	if c.Luminance() < 0.5 {
		return MONO(255, 255)
	}
	return MONO(0, 255)
}

// Premultiplied returns this color's R, G, B channels scaled by its own
// alpha, paired with the unscaled alpha — the four components every consumer
// of the ONE/ONE_MINUS_SRC_ALPHA blend pipeline needs, whether it's packing
// a per-vertex uint32 (PackedRGBA8) or filling a gradient's fragment uniform
// (frame.go's premultipliedVec4).
func (c Color) Premultiplied() (r, g, b, a float32) {
	pm := c.PreMultiply()
	return pm.R, pm.G, pm.B, c.A
}

// PackedRGBA8 packs the premultiplied color into a little-endian ABGR
// uint32, the per-vertex color format the draw-batch assembler's vertex
// buffers and CommandList byte stream both use.
func (c Color) PackedRGBA8() uint32 {
	r, g, b, a := c.Premultiplied()
	return uint32(clamp(r, 0, 1)*255.0+0.5) |
		uint32(clamp(g, 0, 1)*255.0+0.5)<<8 |
		uint32(clamp(b, 0, 1)*255.0+0.5)<<16 |
		uint32(clamp(a, 0, 1)*255.0+0.5)<<24
}

// RGB returns a color value from red, green, blue values. Alpha will be set to 255 (1.0f).
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 255)
}

// RGBf returns a color value from red, green, blue values. Alpha will be set to 1.0f.
func RGBf(r, g, b float32) Color {
	return RGBAf(r, g, b, 1.0)
}

// RGBA returns a color value from red, green, blue and alpha values.
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// RGBAf returns a color value from red, green, blue and alpha values.
func RGBAf(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// HSL returns color value specified by hue, saturation and lightness.
// HSL values are all in range [0..1], alpha will be set to 255.
func HSL(h, s, l float32) Color {
	return HSLA(h, s, l, 255)
}

// HSLA returns color value specified by hue, saturation and lightness and alpha.
// HSL values are all in range [0..1], alpha in range [0..255]
func HSLA(h, s, l float32, a uint8) Color {
	h = float32(math.Mod(float64(h), 1.0))
	if h < 0.0 {
		h += 1.0
	}
	s = clamp(s, 0.0, 1.0)
	l = clamp(l, 0.0, 1.0)
	var m2 float32
	if l <= 0.5 {
		m2 = l * (1 + s)
	} else {
		m2 = l + s - l*s
	}
	m1 := 2*l - m2
	return Color{
		R: clamp(hue(h+1.0/3.0, m1, m2), 0.0, 1.0),
		G: clamp(hue(h, m1, m2), 0.0, 1.0),
		B: clamp(hue(h-1.0/3.0, m1, m2), 0.0, 1.0),
		A: float32(a) / 255.0,
	}
}

// MONO returns color value specified by intensity value.
func MONO(i, alpha uint8) Color {
	return RGBA(i, i, i, alpha)
}

// MONOf returns color value specified by intensity value.
func MONOf(i, alpha float32) Color {
	return RGBAf(i, i, i, alpha)
}

// LerpRGBA linearly interpolates from color c0 to c1, and returns resulting color value.
func LerpRGBA(c0, c1 Color, u float32) Color {
	u = clamp(u, 0.0, 1.0)
	oneMinus := 1 - u
	return Color{
		R: c0.R*oneMinus + c1.R*u,
		G: c0.G*oneMinus + c1.G*u,
		B: c0.B*oneMinus + c1.B*u,
		A: c0.A*oneMinus + c1.A*u,
	}
}
