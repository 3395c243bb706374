package vg

// Mesh is the common tessellated-output shape every Stroker entry point
// produces and the only thing the draw-batch assembler consumes: it never
// looks at Path or sub-path structure directly.
type Mesh struct {
	Positions [][2]float32
	UVs       [][2]float32 // optional; empty when the caller has no UV use for this mesh
	Colors    []uint32     // len 0 (no per-vertex color), len 1 (broadcast), or len(Positions)
	Indices   []uint16
}

func (m Mesh) NumVertices() int { return len(m.Positions) }
func (m Mesh) NumIndices() int  { return len(m.Indices) }
