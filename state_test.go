package vg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantizeRoundsToNearestStep(t *testing.T) {
	require := assert.New(t)
	require.InDelta(1.2, quantize(1.24, 0.1), 1e-6)
	require.InDelta(1.3, quantize(1.26, 0.1), 1e-6)
}

func TestIntersectRectsNonOverlappingYieldsZeroArea(t *testing.T) {
	r := intersectRects(0, 0, 10, 10, 20, 20, 10, 10)
	assert.Equal(t, [4]float32{20, 20, 0, 0}, r)
}

func TestIntersectRectsOverlappingYieldsSharedRegion(t *testing.T) {
	r := intersectRects(0, 0, 10, 10, 5, 5, 10, 10)
	assert.Equal(t, [4]float32{5, 5, 5, 5}, r)
}

func TestStateStackInitialState(t *testing.T) {
	ss := newStateStack(8)
	top := ss.top()
	assert.Equal(t, IdentityMatrix(), top.xform)
	assert.InDelta(t, 1.0, top.globalAlpha, 1e-6)
	assert.False(t, top.hasScissor)
}

func TestStateStackPushInheritsAndIsIndependent(t *testing.T) {
	ss := newStateStack(8)
	ss.translate(10, 0)
	require := assert.New(t)
	require.NoError(ss.push())

	ss.translate(0, 5)
	x, y := ss.top().xform.TransformPoint(0, 0)
	require.InDelta(10.0, x, 1e-6)
	require.InDelta(5.0, y, 1e-6)

	require.NoError(ss.pop())
	x, y = ss.top().xform.TransformPoint(0, 0)
	require.InDelta(10.0, x, 1e-6)
	require.InDelta(0.0, y, 1e-6)
}

func TestStateStackPopUnderflow(t *testing.T) {
	ss := newStateStack(8)
	assert.ErrorIs(t, ss.pop(), ErrStateStackUnderflow)
}

func TestStateStackPushOverflow(t *testing.T) {
	ss := newStateStack(2)
	require := assert.New(t)
	require.NoError(ss.push())
	require.ErrorIs(ss.push(), ErrStateStackOverflow)
}

func TestStateStackBalanced(t *testing.T) {
	ss := newStateStack(8)
	assert.True(t, ss.balanced())
	_ = ss.push()
	assert.False(t, ss.balanced())
	_ = ss.pop()
	assert.True(t, ss.balanced())
}

func TestSetGlobalAlphaClamps(t *testing.T) {
	ss := newStateStack(8)
	ss.setGlobalAlpha(2.0)
	assert.InDelta(t, 1.0, ss.top().globalAlpha, 1e-6)
	ss.setGlobalAlpha(-1.0)
	assert.InDelta(t, 0.0, ss.top().globalAlpha, 1e-6)
}

func TestResetScissorThenIntersectScissorFullCanvasIsNoop(t *testing.T) {
	ss := newStateStack(8)
	ss.setScissor(10, 10, 5, 5, 100, 100)
	ss.resetScissor(100, 100)
	ok := ss.intersectScissor(0, 0, 100, 100, 100, 100)
	assert.True(t, ok)
	assert.Equal(t, [4]float32{0, 0, 100, 100}, ss.top().scissor)
}

func TestIntersectScissorShrinksToOverlap(t *testing.T) {
	ss := newStateStack(8)
	ss.setScissor(0, 0, 50, 50, 100, 100)
	ok := ss.intersectScissor(25, 25, 50, 50, 100, 100)
	require := assert.New(t)
	require.True(ok)
	rect := ss.top().scissor
	require.InDelta(25.0, rect[0], 1e-6)
	require.InDelta(25.0, rect[1], 1e-6)
	require.InDelta(25.0, rect[2], 1e-6)
	require.InDelta(25.0, rect[3], 1e-6)
}

func TestIntersectScissorEmptyResultLeavesUnchanged(t *testing.T) {
	ss := newStateStack(8)
	ss.setScissor(0, 0, 10, 10, 100, 100)
	before := ss.top().scissor
	ok := ss.intersectScissor(50, 50, 10, 10, 100, 100)
	assert.False(t, ok)
	assert.Equal(t, before, ss.top().scissor)
}

func TestRecomputeScalesAfterScale(t *testing.T) {
	ss := newStateStack(8)
	ss.scale(2, 4)
	assert.InDelta(t, 3.0, ss.top().avgScale, 1e-6)
}
