package vg

// DrawCommand is a contiguous range of vertices and indices in one
// VertexBuffer sharing a paint type, handle, scissor, and clip state — the
// unit of work frame submission walks.
type DrawCommand struct {
	Type         DrawCommandType
	VertexBuffer int
	FirstVertex  int
	NumVertices  int
	FirstIndex   int
	NumIndices   int
	Scissor      [4]uint16
	Handle       Handle
	Clip         ClipState
}

func (d *DrawCommand) matches(vb int, typ DrawCommandType, handle Handle, scissor [4]uint16, clip ClipState) bool {
	return d.VertexBuffer == vb &&
		d.Type == typ &&
		d.Handle == handle &&
		d.Scissor == scissor &&
		d.Clip.equal(clip)
}

// batcher owns the vertex-buffer list, the shared index buffer, and the two
// command streams (draw, clip). allocDrawCommand/allocClipCommand are the
// heart of the renderer: they decide whether a newly tessellated mesh can
// be merged into the previous command or must start a new one.
type batcher struct {
	pool *resourcePool

	maxVBVertices int
	vertexBuffers []*VertexBuffer
	activeVB      int

	indexBuffer *IndexBuffer

	drawCommands []DrawCommand
	clipCommands []DrawCommand

	forceNewDrawCommand bool
	forceNewClipCommand bool
}

func newBatcher(pool *resourcePool, maxVBVertices int) *batcher {
	b := &batcher{pool: pool, maxVBVertices: maxVBVertices}
	b.indexBuffer = newIndexBuffer(pool)
	b.vertexBuffers = append(b.vertexBuffers, newVertexBuffer(0, pool, maxVBVertices))
	return b
}

func (b *batcher) reset() {
	for _, vb := range b.vertexBuffers[1:] {
		vb.release(b.pool)
	}
	b.vertexBuffers = b.vertexBuffers[:1]
	b.vertexBuffers[0].count = 0
	b.vertexBuffers[0].dirty = false
	b.activeVB = 0
	b.indexBuffer.reset()
	b.drawCommands = b.drawCommands[:0]
	b.clipCommands = b.clipCommands[:0]
	b.forceNewDrawCommand = false
	b.forceNewClipCommand = false
}

func (b *batcher) currentVB() *VertexBuffer {
	return b.vertexBuffers[b.activeVB]
}

// reserveVertices implements algorithm step 1: allocate from the active
// vertex buffer, spilling into a freshly allocated one (forcing new draw
// and clip commands) when it would overflow maxVBVertices.
func (b *batcher) reserveVertices(n int) (vbIndex, first int) {
	vb := b.currentVB()
	if vb.remaining() < n {
		newVB := newVertexBuffer(len(b.vertexBuffers), b.pool, b.maxVBVertices)
		b.vertexBuffers = append(b.vertexBuffers, newVB)
		b.activeVB = len(b.vertexBuffers) - 1
		b.forceNewDrawCommand = true
		b.forceNewClipCommand = true
		vb = newVB
	}
	return b.activeVB, vb.reserve(n)
}

// reserveIndices implements algorithm step 2: grow the shared index buffer
// by max(1.5x, needed) if the reservation doesn't fit.
func (b *batcher) reserveIndices(n int) int {
	return b.indexBuffer.reserve(n)
}

func scissorAsUint16(s [4]float32) [4]uint16 {
	return [4]uint16{uint16(s[0]), uint16(s[1]), uint16(s[2]), uint16(s[3])}
}

// allocDrawCommand is the central function of the system: it reserves
// geometry from the active vertex/index buffers and either merges into the
// previous draw command or starts a new one, per §4.4.
func (b *batcher) allocDrawCommand(numVertices, numIndices int, typ DrawCommandType, handle Handle, scissor [4]float32, clip ClipState) (*DrawCommand, int, int) {
	vbIndex, firstVertex := b.reserveVertices(numVertices)
	firstIndex := b.reserveIndices(numIndices)
	scissor16 := scissorAsUint16(scissor)

	if !b.forceNewDrawCommand && len(b.drawCommands) != 0 {
		prev := &b.drawCommands[len(b.drawCommands)-1]
		if prev.matches(vbIndex, typ, handle, scissor16, clip) {
			prev.NumVertices += numVertices
			prev.NumIndices += numIndices
			return prev, firstVertex, firstIndex
		}
	}

	b.drawCommands = append(b.drawCommands, DrawCommand{
		Type:         typ,
		VertexBuffer: vbIndex,
		FirstVertex:  firstVertex,
		NumVertices:  numVertices,
		FirstIndex:   firstIndex,
		NumIndices:   numIndices,
		Scissor:      scissor16,
		Handle:       handle,
		Clip:         clip,
	})
	b.forceNewDrawCommand = false
	cmd := &b.drawCommands[len(b.drawCommands)-1]
	return cmd, firstVertex, firstIndex
}

// allocClipCommand is analogous to allocDrawCommand but always type Clip
// with no handle. Consecutive clip meshes in the same vertex buffer always
// merge unless forceNewClipCommand is set, since clip passes carry no
// paint handle or clip state of their own to differ on.
func (b *batcher) allocClipCommand(numVertices, numIndices int, scissor [4]float32) (*DrawCommand, int, int) {
	vbIndex, firstVertex := b.reserveVertices(numVertices)
	firstIndex := b.reserveIndices(numIndices)
	scissor16 := scissorAsUint16(scissor)

	if !b.forceNewClipCommand && len(b.clipCommands) != 0 {
		prev := &b.clipCommands[len(b.clipCommands)-1]
		if prev.VertexBuffer == vbIndex && prev.Scissor == scissor16 {
			prev.NumVertices += numVertices
			prev.NumIndices += numIndices
			return prev, firstVertex, firstIndex
		}
	}

	b.clipCommands = append(b.clipCommands, DrawCommand{
		Type:         DrawClip,
		VertexBuffer: vbIndex,
		FirstVertex:  firstVertex,
		NumVertices:  numVertices,
		FirstIndex:   firstIndex,
		NumIndices:   numIndices,
		Scissor:      scissor16,
		Handle:       InvalidHandle,
	})
	b.forceNewClipCommand = false
	cmd := &b.clipCommands[len(b.clipCommands)-1]
	return cmd, firstVertex, firstIndex
}

// appendMesh writes a tessellated Mesh into the vertex/index ranges
// reserved by allocDrawCommand/allocClipCommand: indices are offset by
// firstVertex so they address into the batch's slice of the vertex buffer,
// and a single-element color array is broadcast to every vertex.
func (b *batcher) appendMesh(vbIndex, firstVertex, firstIndex int, mesh Mesh) error {
	vb := b.vertexBuffers[vbIndex]
	for i, p := range mesh.Positions {
		vb.setPosition(firstVertex+i, p[0], p[1])
	}
	for i, uv := range mesh.UVs {
		vb.setUV(firstVertex+i, uv[0], uv[1])
	}
	switch len(mesh.Colors) {
	case 0:
	case 1:
		c := mesh.Colors[0]
		for i := 0; i < len(mesh.Positions); i++ {
			vb.setColor(firstVertex+i, c)
		}
	default:
		if len(mesh.Colors) != len(mesh.Positions) {
			return ErrInvalidArgument
		}
		for i, c := range mesh.Colors {
			vb.setColor(firstVertex+i, c)
		}
	}
	for i, idx := range mesh.Indices {
		b.indexBuffer.set(firstIndex+i, idx+uint16(firstVertex))
	}
	return nil
}
