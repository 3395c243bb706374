package vg

import (
	"math/bits"
	"sync"
)

// nearestPow2 rounds n up to the next power of two, used to bucket pool
// slabs (and atlas texture dimensions) into a small number of reusable
// size classes instead of one class per distinct request.
func nearestPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// vertexSlab is one backing allocation for a VertexBuffer's three parallel
// streams, sized to a power of two so it can be recycled across frames for
// any buffer that needs a capacity at or below its own.
type vertexSlab struct {
	pos   []float32 // x, y pairs
	uv    []float32 // x, y pairs
	color []uint32  // packed premultiplied RGBA
	cap   int
}

// indexSlab is the equivalent backing allocation for IndexBuffer.
type indexSlab struct {
	indices []uint16
	cap     int
}

// resourcePool owns the slab free-lists backing every VertexBuffer and the
// context's single IndexBuffer. Allocating a new vertex buffer or growing
// the index buffer only happens from the Context's owning goroutine, but
// backend upload-complete callbacks that return slabs to the free-lists may
// fire from an arbitrary goroutine (see SPEC_FULL §5), so every access to
// the free-lists themselves is mutex-guarded. The bump-allocator operations
// inside the critical sections are O(1) and never call back into user code.
type resourcePool struct {
	mu          sync.Mutex
	vertexSlabs map[int][]*vertexSlab
	indexSlabs  map[int][]*indexSlab
}

func newResourcePool() *resourcePool {
	return &resourcePool{
		vertexSlabs: make(map[int][]*vertexSlab),
		indexSlabs:  make(map[int][]*indexSlab),
	}
}

func (p *resourcePool) acquireVertexSlab(minCapacity int) *vertexSlab {
	capacity := nearestPow2(minCapacity)
	p.mu.Lock()
	defer p.mu.Unlock()
	free := p.vertexSlabs[capacity]
	if len(free) > 0 {
		s := free[len(free)-1]
		p.vertexSlabs[capacity] = free[:len(free)-1]
		return s
	}
	return &vertexSlab{
		pos:   make([]float32, capacity*2),
		uv:    make([]float32, capacity*2),
		color: make([]uint32, capacity),
		cap:   capacity,
	}
}

// releaseVertexSlab returns a slab to its size-class free-list. Called from
// a backend dynamic-buffer release callback, potentially off the Context's
// owning goroutine.
func (p *resourcePool) releaseVertexSlab(s *vertexSlab) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vertexSlabs[s.cap] = append(p.vertexSlabs[s.cap], s)
}

func (p *resourcePool) acquireIndexSlab(minCapacity int) *indexSlab {
	capacity := nearestPow2(minCapacity)
	p.mu.Lock()
	defer p.mu.Unlock()
	free := p.indexSlabs[capacity]
	if len(free) > 0 {
		s := free[len(free)-1]
		p.indexSlabs[capacity] = free[:len(free)-1]
		return s
	}
	return &indexSlab{
		indices: make([]uint16, capacity),
		cap:     capacity,
	}
}

func (p *resourcePool) releaseIndexSlab(s *indexSlab) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indexSlabs[s.cap] = append(p.indexSlabs[s.cap], s)
}

// VertexBuffer is a fixed-capacity set of three parallel vertex streams.
// Capacity is capped at 65536 because draw-command indices addressing into
// it are 16-bit.
type VertexBuffer struct {
	id       int
	slab     *vertexSlab
	count    int
	capacity int
	dirty    bool

	// gpuBuf/gpuCreated track the backend-side dynamic buffer frame.go
	// uploads into; created once and updated in place on every frame that
	// touches this VertexBuffer, mirroring the teacher's dynamic-buffer
	// reuse instead of recreating GPU storage every frame.
	gpuBuf     BufferHandle
	gpuCreated bool
}

func newVertexBuffer(id int, pool *resourcePool, capacity int) *VertexBuffer {
	slab := pool.acquireVertexSlab(capacity)
	return &VertexBuffer{id: id, slab: slab, capacity: capacity}
}

func (vb *VertexBuffer) remaining() int {
	return vb.capacity - vb.count
}

// reserve appends n uninitialized vertices and returns their starting index.
func (vb *VertexBuffer) reserve(n int) int {
	first := vb.count
	vb.count += n
	vb.dirty = true
	return first
}

func (vb *VertexBuffer) setPosition(i int, x, y float32) {
	vb.slab.pos[i*2] = x
	vb.slab.pos[i*2+1] = y
}

func (vb *VertexBuffer) setUV(i int, u, v float32) {
	vb.slab.uv[i*2] = u
	vb.slab.uv[i*2+1] = v
}

func (vb *VertexBuffer) setColor(i int, c uint32) {
	vb.slab.color[i] = c
}

func (vb *VertexBuffer) release(pool *resourcePool) {
	pool.releaseVertexSlab(vb.slab)
	vb.slab = nil
}

// positions/uvs/colors expose the dirty range's backing slices for
// frame.go to hand to the Backend's UpdateVertexBuffer; they alias the
// slab directly rather than copying.
func (vb *VertexBuffer) positions() []float32 { return vb.slab.pos[:vb.count*2] }
func (vb *VertexBuffer) uvs() []float32       { return vb.slab.uv[:vb.count*2] }
func (vb *VertexBuffer) colors() []uint32     { return vb.slab.color[:vb.count] }

// IndexBuffer is the context's single grow-on-demand 16-bit index array,
// shared by every vertex buffer (indices are always local to the draw
// command's own vertex range, see batch.go).
type IndexBuffer struct {
	slab  *indexSlab
	count int
	pool  *resourcePool

	gpuBuf     BufferHandle
	gpuCreated bool
}

func newIndexBuffer(pool *resourcePool) *IndexBuffer {
	return &IndexBuffer{slab: pool.acquireIndexSlab(initVertsSize), pool: pool}
}

// reserve grows the backing slab if needed (by max(1.5x, needed), per the
// assembler algorithm) and returns the first index of the reserved range.
func (ib *IndexBuffer) reserve(n int) int {
	needed := ib.count + n
	if needed > ib.slab.cap {
		grown := max(needed, int(float64(ib.slab.cap)*1.5))
		newSlab := ib.pool.acquireIndexSlab(grown)
		copy(newSlab.indices, ib.slab.indices[:ib.count])
		ib.pool.releaseIndexSlab(ib.slab)
		ib.slab = newSlab
	}
	first := ib.count
	ib.count += n
	return first
}

func (ib *IndexBuffer) set(i int, v uint16) {
	ib.slab.indices[i] = v
}

func (ib *IndexBuffer) reset() {
	ib.count = 0
}

func (ib *IndexBuffer) indices() []uint16 { return ib.slab.indices[:ib.count] }

func (ib *IndexBuffer) release() {
	ib.pool.releaseIndexSlab(ib.slab)
	ib.slab = nil
}
