package vg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestBatcher(maxVBVertices int) *batcher {
	return newBatcher(newResourcePool(), maxVBVertices)
}

func TestAllocDrawCommandMergesMatchingCommands(t *testing.T) {
	b := newTestBatcher(1024)
	scissor := [4]float32{0, 0, 100, 100}
	cmd1, _, _ := b.allocDrawCommand(3, 3, DrawTextured, Handle{ID: 1}, scissor, ClipState{})
	cmd2, _, _ := b.allocDrawCommand(3, 3, DrawTextured, Handle{ID: 1}, scissor, ClipState{})
	require := assert.New(t)
	require.Same(cmd1, cmd2)
	require.Equal(6, cmd1.NumVertices)
	require.Len(b.drawCommands, 1)
}

func TestAllocDrawCommandSplitsOnHandleChange(t *testing.T) {
	b := newTestBatcher(1024)
	scissor := [4]float32{0, 0, 100, 100}
	b.allocDrawCommand(3, 3, DrawTextured, Handle{ID: 1}, scissor, ClipState{})
	b.allocDrawCommand(3, 3, DrawTextured, Handle{ID: 2}, scissor, ClipState{})
	assert.Len(t, b.drawCommands, 2)
}

func TestAllocDrawCommandSplitsOnTypeChange(t *testing.T) {
	b := newTestBatcher(1024)
	scissor := [4]float32{0, 0, 100, 100}
	b.allocDrawCommand(3, 3, DrawTextured, Handle{ID: 1}, scissor, ClipState{})
	b.allocDrawCommand(3, 3, DrawColorGradient, Handle{ID: 1}, scissor, ClipState{})
	assert.Len(t, b.drawCommands, 2)
}

func TestAllocDrawCommandForcedSplitAfterPushPop(t *testing.T) {
	b := newTestBatcher(1024)
	scissor := [4]float32{0, 0, 100, 100}
	b.allocDrawCommand(3, 3, DrawTextured, Handle{ID: 1}, scissor, ClipState{})
	b.forceNewDrawCommand = true
	b.allocDrawCommand(3, 3, DrawTextured, Handle{ID: 1}, scissor, ClipState{})
	assert.Len(t, b.drawCommands, 2)
}

func TestAllocDrawCommandSpillsIntoNewVertexBuffer(t *testing.T) {
	b := newTestBatcher(4)
	scissor := [4]float32{0, 0, 100, 100}
	b.allocDrawCommand(3, 3, DrawTextured, Handle{ID: 1}, scissor, ClipState{})
	cmd2, _, _ := b.allocDrawCommand(3, 3, DrawTextured, Handle{ID: 1}, scissor, ClipState{})
	require := assert.New(t)
	require.Equal(1, cmd2.VertexBuffer)
	require.Len(b.vertexBuffers, 2)
	require.Len(b.drawCommands, 2)
}

func TestAllocClipCommandAlwaysMergesRegardlessOfHandle(t *testing.T) {
	b := newTestBatcher(1024)
	scissor := [4]float32{0, 0, 100, 100}
	cmd1, _, _ := b.allocClipCommand(3, 3, scissor)
	cmd2, _, _ := b.allocClipCommand(3, 3, scissor)
	require := assert.New(t)
	require.Same(cmd1, cmd2)
	require.Equal(InvalidHandle, cmd1.Handle)
}

func TestAppendMeshRejectsMismatchedColorCount(t *testing.T) {
	b := newTestBatcher(1024)
	mesh := Mesh{Positions: [][2]float32{{0, 0}, {1, 1}, {2, 2}}, Colors: []uint32{1, 2}}
	vbIndex, first := b.reserveVertices(3)
	err := b.appendMesh(vbIndex, first, 0, mesh)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAppendMeshOffsetsIndicesByFirstVertex(t *testing.T) {
	b := newTestBatcher(1024)
	vbIndex, first := b.reserveVertices(3)
	firstIndex := b.reserveIndices(3)
	mesh := Mesh{
		Positions: [][2]float32{{0, 0}, {1, 1}, {2, 2}},
		Indices:   []uint16{0, 1, 2},
	}
	require := assert.New(t)
	require.NoError(b.appendMesh(vbIndex, first, firstIndex, mesh))
	require.Equal([]uint16{uint16(first), uint16(first + 1), uint16(first + 2)}, b.indexBuffer.indices()[firstIndex:firstIndex+3])
}

func TestBatcherResetReleasesExtraVertexBuffers(t *testing.T) {
	b := newTestBatcher(4)
	scissor := [4]float32{0, 0, 100, 100}
	b.allocDrawCommand(3, 3, DrawTextured, Handle{ID: 1}, scissor, ClipState{})
	b.allocDrawCommand(3, 3, DrawTextured, Handle{ID: 1}, scissor, ClipState{})
	require := assert.New(t)
	require.Len(b.vertexBuffers, 2)
	b.reset()
	require.Len(b.vertexBuffers, 1)
	require.Empty(b.drawCommands)
	require.Empty(b.clipCommands)
}
