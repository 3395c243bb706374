package vg

import "math"

// TransformMatrix is the 2x3 affine transform every drawing state carries,
// stored as six scalars (a, b, c, d, e, f) such that
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
//
// matching the row-vector convention gradient.go and state.go compose
// against (TranslateMatrix/ScaleMatrix/RotateMatrix build these directly;
// everything else derives from Multiply/Inverse).
type TransformMatrix [6]float32

// components unpacks t into named locals so every method below reads
// a/b/c/d/e/f instead of indexing t[0]..t[5] inline.
func (t TransformMatrix) components() (a, b, c, d, e, f float32) {
	return t[0], t[1], t[2], t[3], t[4], t[5]
}

// IdentityMatrix returns the transform that leaves every point unchanged.
func IdentityMatrix() TransformMatrix {
	return TransformMatrix{1, 0, 0, 1, 0, 0}
}

// TranslateMatrix returns the transform that offsets every point by (tx, ty).
func TranslateMatrix(tx, ty float32) TransformMatrix {
	return TransformMatrix{1, 0, 0, 1, tx, ty}
}

// ScaleMatrix returns the transform that scales the x and y axes independently.
func ScaleMatrix(sx, sy float32) TransformMatrix {
	return TransformMatrix{sx, 0, 0, sy, 0, 0}
}

// RotateMatrix returns the transform that rotates by angle radians about the origin.
func RotateMatrix(angle float32) TransformMatrix {
	s, c := sinCosF(angle)
	return TransformMatrix{c, s, -s, c, 0, 0}
}

// SkewXMatrix returns the transform that shears the x axis by angle radians.
func SkewXMatrix(angle float32) TransformMatrix {
	return TransformMatrix{1, 0, tanF(angle), 1, 0, 0}
}

// SkewYMatrix returns the transform that shears the y axis by angle radians.
func SkewYMatrix(angle float32) TransformMatrix {
	return TransformMatrix{1, tanF(angle), 0, 1, 0, 0}
}

// Multiply composes t with s so that applying the result to a point matches
// applying t first, then s.
func (t TransformMatrix) Multiply(s TransformMatrix) TransformMatrix {
	a0, b0, c0, d0, e0, f0 := t.components()
	a1, b1, c1, d1, e1, f1 := s.components()
	return TransformMatrix{
		a0*a1 + b0*c1,
		a0*b1 + b0*d1,
		c0*a1 + d0*c1,
		c0*b1 + d0*d1,
		e0*a1 + f0*c1 + e1,
		e0*b1 + f0*d1 + f1,
	}
}

// PreMultiply composes s with t so that applying the result matches applying
// s first, then t — the mirror image of Multiply.
func (t TransformMatrix) PreMultiply(s TransformMatrix) TransformMatrix {
	return s.Multiply(t)
}

// Inverse returns the transform that undoes t, or the identity if t is
// singular (within float tolerance) since a caller composing against a
// degenerate transform should still get something usable rather than NaNs.
func (t TransformMatrix) Inverse() TransformMatrix {
	a, b, c, d, e, f := t.components()
	da, db, dc, dd := float64(a), float64(b), float64(c), float64(d)
	det := da*dd - dc*db
	if det > -1e-6 && det < 1e-6 {
		return IdentityMatrix()
	}
	de, df := float64(e), float64(f)
	invdet := 1.0 / det
	return TransformMatrix{
		float32(dd * invdet),
		float32(-db * invdet),
		float32(-dc * invdet),
		float32(da * invdet),
		float32((dc*df - dd*de) * invdet),
		float32((db*de - da*df) * invdet),
	}
}

// TransformPoint applies t to (sx, sy).
func (t TransformMatrix) TransformPoint(sx, sy float32) (dx, dy float32) {
	a, b, c, d, e, f := t.components()
	return sx*a + sy*c + e, sx*b + sy*d + f
}

// ToMat3x3 expands t to full 3x3 form with an implicit (0, 0, 1) third
// column, the layout gradient.go's paint matrix and CommandList's
// opSetGradient/opSetImagePattern payloads use for shader uniforms.
func (t TransformMatrix) ToMat3x3() [9]float32 {
	a, b, c, d, e, f := t.components()
	return [9]float32{
		a, b, 0,
		c, d, 0,
		e, f, 1,
	}
}

// ToMat3x4 expands t to the padded 3x4 row layout a uniform buffer's
// vec4-aligned rows expect (each row is padded to four lanes; the first two
// rows end in two zero lanes, the translation row in 1, 0).
func (t TransformMatrix) ToMat3x4() []float32 {
	a, b, c, d, e, f := t.components()
	return []float32{
		a, b, 0, 0,
		c, d, 0, 0,
		e, f, 1, 0,
	}
}

// getAverageScale approximates the uniform scale factor t applies, used to
// pick tessellation tolerance and glyph-atlas resolution so geometry stays
// visually consistent under zoom.
func (t TransformMatrix) getAverageScale() float32 {
	a, b, c, d, _, _ := t.components()
	sx := math.Sqrt(float64(a*a + c*c))
	sy := math.Sqrt(float64(b*b + d*d))
	return float32((sx + sy) * 0.5)
}
