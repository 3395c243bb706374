package vg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityMatrixTransformPoint(t *testing.T) {
	m := IdentityMatrix()
	x, y := m.TransformPoint(3, 4)
	assert.InDelta(t, 3.0, x, 1e-6)
	assert.InDelta(t, 4.0, y, 1e-6)
}

func TestTranslateMatrix(t *testing.T) {
	m := TranslateMatrix(10, -5)
	x, y := m.TransformPoint(1, 1)
	assert.InDelta(t, 11.0, x, 1e-6)
	assert.InDelta(t, -4.0, y, 1e-6)
}

func TestScaleMatrix(t *testing.T) {
	m := ScaleMatrix(2, 3)
	x, y := m.TransformPoint(5, 5)
	assert.InDelta(t, 10.0, x, 1e-6)
	assert.InDelta(t, 15.0, y, 1e-6)
}

func TestRotateMatrix90Degrees(t *testing.T) {
	m := RotateMatrix(float32(math.Pi / 2))
	x, y := m.TransformPoint(1, 0)
	assert.InDelta(t, 0.0, x, 1e-5)
	assert.InDelta(t, 1.0, y, 1e-5)
}

func TestMultiplyComposesTransforms(t *testing.T) {
	translate := TranslateMatrix(10, 0)
	scale := ScaleMatrix(2, 2)
	combined := translate.Multiply(scale)
	x, y := combined.TransformPoint(1, 1)
	assert.InDelta(t, 22.0, x, 1e-6)
	assert.InDelta(t, 2.0, y, 1e-6)
}

func TestPreMultiplyOrder(t *testing.T) {
	translate := TranslateMatrix(10, 0)
	scale := ScaleMatrix(2, 2)
	a := translate.Multiply(scale)
	b := scale.PreMultiply(translate)
	for i := range a {
		assert.InDelta(t, a[i], b[i], 1e-6)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := TranslateMatrix(7, -3).Multiply(RotateMatrix(0.4)).Multiply(ScaleMatrix(2, 0.5))
	inv := m.Inverse()
	combined := m.Multiply(inv)
	identity := IdentityMatrix()
	for i := range combined {
		assert.InDelta(t, identity[i], combined[i], 1e-4)
	}
}

func TestInverseSingularFallsBackToIdentity(t *testing.T) {
	singular := TransformMatrix{0, 0, 0, 0, 5, 5}
	assert.Equal(t, IdentityMatrix(), singular.Inverse())
}

func TestGetAverageScale(t *testing.T) {
	m := ScaleMatrix(2, 4)
	assert.InDelta(t, 3.0, m.getAverageScale(), 1e-6)
}

func TestToMat3x3PreservesTranslation(t *testing.T) {
	m := TranslateMatrix(5, 6)
	mat := m.ToMat3x3()
	assert.InDelta(t, 5.0, mat[6], 1e-6)
	assert.InDelta(t, 6.0, mat[7], 1e-6)
	assert.InDelta(t, 1.0, mat[8], 1e-6)
}
