package vg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPath() *Path {
	return NewPath(0.25, 0.01)
}

func TestPtEqualsWithinTolerance(t *testing.T) {
	require := assert.New(t)
	require.True(ptEquals(0, 0, 0.001, 0, 0.01))
	require.False(ptEquals(0, 0, 1, 0, 0.01))
}

func TestCurveDivsIncreasesWithArcLength(t *testing.T) {
	small := curveDivs(10, 0.1, 0.25)
	large := curveDivs(10, 6.28, 0.25)
	assert.Greater(t, large, small)
}

func TestPathMoveToLineToCreatesSubPath(t *testing.T) {
	p := newTestPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 10)

	require := assert.New(t)
	require.Len(p.SubPaths(), 1)
	sp := p.SubPaths()[0]
	require.Equal(3, sp.count)
	require.False(sp.closed)
}

func TestPathClosePathSetsClosedFlag(t *testing.T) {
	p := newTestPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.ClosePath()
	assert.True(t, p.SubPaths()[0].closed)
}

func TestPathDuplicatePointsAreDropped(t *testing.T) {
	p := newTestPath()
	p.MoveTo(0, 0)
	p.LineTo(0.0001, 0.0001)
	assert.Equal(t, 1, p.SubPaths()[0].count)
}

func TestPathLineToWithoutMoveToStartsSubPath(t *testing.T) {
	p := newTestPath()
	p.LineTo(5, 5)
	require := assert.New(t)
	require.Len(p.SubPaths(), 1)
	x, y := p.PointAt(0)
	require.InDelta(5.0, x, 1e-6)
	require.InDelta(5.0, y, 1e-6)
}

func TestPathRectIsClosedWithFourPoints(t *testing.T) {
	p := newTestPath()
	p.Rect(0, 0, 10, 10)
	sp := p.SubPaths()[0]
	assert.True(t, sp.closed)
	assert.Equal(t, 4, sp.count)
}

func TestPathWindingOverride(t *testing.T) {
	p := newTestPath()
	p.Rect(0, 0, 10, 10)
	p.PathWinding(Hole)
	assert.Equal(t, Hole, p.SubPaths()[0].winding)
}

func TestPathRoundedRectDegeneratesToRect(t *testing.T) {
	p := newTestPath()
	p.RoundedRect(0, 0, 10, 10, 0)
	rectPath := newTestPath()
	rectPath.Rect(0, 0, 10, 10)
	assert.Equal(t, rectPath.SubPaths()[0].count, p.SubPaths()[0].count)
}

func TestPathRoundedRectProducesMoreVerticesThanRect(t *testing.T) {
	p := newTestPath()
	p.RoundedRect(0, 0, 20, 20, 4)
	assert.Greater(t, p.SubPaths()[0].count, 4)
}

func TestPathCircleIsClosed(t *testing.T) {
	p := newTestPath()
	p.Circle(0, 0, 5)
	assert.True(t, p.SubPaths()[0].closed)
	assert.Greater(t, p.SubPaths()[0].count, 4)
}

func TestPathBezierToFlattensWithinTolerance(t *testing.T) {
	p := newTestPath()
	p.MoveTo(0, 0)
	p.BezierTo(0, 50, 100, 50, 100, 0)
	sp := p.SubPaths()[0]
	assert.Greater(t, sp.count, 2)
	lastX, lastY := p.PointAt(sp.first + sp.count - 1)
	assert.InDelta(t, 100.0, lastX, 0.5)
	assert.InDelta(t, 0.0, lastY, 0.5)
}

func TestPathQuadToMatchesElevatedCubicEndpoint(t *testing.T) {
	p := newTestPath()
	p.MoveTo(0, 0)
	p.QuadTo(50, 100, 100, 0)
	sp := p.SubPaths()[0]
	lastX, lastY := p.PointAt(sp.first + sp.count - 1)
	assert.InDelta(t, 100.0, lastX, 0.5)
	assert.InDelta(t, 0.0, lastY, 0.5)
}

func TestPathArcToDegeneratesToLineWhenRadiusZero(t *testing.T) {
	p := newTestPath()
	p.MoveTo(0, 0)
	p.ArcTo(10, 0, 10, 10, 0)
	sp := p.SubPaths()[0]
	lastX, lastY := p.PointAt(sp.first + sp.count - 1)
	assert.InDelta(t, 10.0, lastX, 1e-3)
	assert.InDelta(t, 0.0, lastY, 1e-3)
}

func TestPathArcClockwiseStaysWithinRadius(t *testing.T) {
	p := newTestPath()
	p.Arc(0, 0, 10, 0, float32(math.Pi), Clockwise)
	sp := p.SubPaths()[0]
	for i := sp.first; i < sp.first+sp.count; i++ {
		x, y := p.PointAt(i)
		dist := math.Hypot(float64(x), float64(y))
		assert.InDelta(t, 10.0, dist, 0.05)
	}
}

func TestPathPolylineBuildsSingleSubPath(t *testing.T) {
	p := newTestPath()
	p.Polyline([][2]float32{{0, 0}, {1, 1}, {2, 0}})
	require := assert.New(t)
	require.Len(p.SubPaths(), 1)
	require.Equal(3, p.SubPaths()[0].count)
}

func TestPathResetClearsSubPaths(t *testing.T) {
	p := newTestPath()
	p.Rect(0, 0, 10, 10)
	p.Reset()
	assert.Empty(t, p.SubPaths())
}

func TestPathMultipleSubPaths(t *testing.T) {
	p := newTestPath()
	p.MoveTo(0, 0)
	p.LineTo(1, 1)
	p.MoveTo(5, 5)
	p.LineTo(6, 6)
	assert.Len(t, p.SubPaths(), 2)
}
