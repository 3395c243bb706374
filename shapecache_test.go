package vg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeCacheMissWhenNeverPut(t *testing.T) {
	sc := newShapeCache()
	cl := NewCommandList(Cacheable)
	assert.Nil(t, sc.get(cl, 1.0))
}

func TestShapeCacheHitAtSameScale(t *testing.T) {
	sc := newShapeCache()
	cl := NewCommandList(Cacheable)
	put := sc.put(cl, 2.0)
	got := sc.get(cl, 2.0)
	assert.Same(t, put, got)
}

func TestShapeCacheStaleAtDifferentScale(t *testing.T) {
	sc := newShapeCache()
	cl := NewCommandList(Cacheable)
	sc.put(cl, 1.0)
	assert.Nil(t, sc.get(cl, 10.0))
}

func TestShapeCacheStaleAtNearbyScale(t *testing.T) {
	sc := newShapeCache()
	cl := NewCommandList(Cacheable)
	sc.put(cl, 1.0)
	assert.Nil(t, sc.get(cl, 1.001))
}

func TestShapeCacheInvalidatedAfterReset(t *testing.T) {
	sc := newShapeCache()
	cl := NewCommandList(Cacheable)
	sc.put(cl, 1.0)
	require := assert.New(t)
	require.NotNil(sc.get(cl, 1.0))

	cl.Reset()
	require.Nil(sc.get(cl, 1.0))
}

func TestShapeCacheInvalidateRemovesEntry(t *testing.T) {
	sc := newShapeCache()
	cl := NewCommandList(Cacheable)
	sc.put(cl, 1.0)
	sc.invalidate(cl)
	assert.Nil(t, sc.get(cl, 1.0))
}

func TestCommandListCacheAddCommandTracksMeshRanges(t *testing.T) {
	c := &commandListCache{}
	m1 := Mesh{Positions: [][2]float32{{0, 0}}}
	m2 := Mesh{Positions: [][2]float32{{1, 1}}}
	c.addCommand(IdentityMatrix(), m1, m2)
	require := assert.New(t)
	require.Len(c.commands, 1)
	require.Equal(0, c.commands[0].firstMesh)
	require.Equal(2, c.commands[0].numMeshes)
	require.Len(c.meshes, 2)
}

func TestTransformMeshAppliesMatrixToPositions(t *testing.T) {
	m := Mesh{Positions: [][2]float32{{1, 0}, {0, 1}}}
	out := transformMesh(m, TranslateMatrix(5, 5))
	assert.Equal(t, [][2]float32{{6, 5}, {5, 6}}, out.Positions)
}
