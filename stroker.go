package vg

// tessPoint is a flattened path vertex augmented with the per-point
// direction, length, and miter-extrusion data calculateJoins computes
// before stroke/fill expansion consumes it.
type tessPoint struct {
	x, y     float32
	dx, dy   float32
	len      float32
	dmx, dmy float32
	flags    pointFlags
}

// Vertex is a stroker-output vertex: position plus the UV pair the
// antialiasing fringe shader samples for coverage.
type Vertex struct {
	x, y, u, v float32
}

// vertexStrip accumulates a stroker-output triangle strip through emit
// calls instead of making every cap/join emitter take and hand back its own
// write cursor into a fixed-size slice.
type vertexStrip struct {
	verts []Vertex
}

func newVertexStrip(capacityHint int) *vertexStrip {
	return &vertexStrip{verts: make([]Vertex, 0, capacityHint)}
}

func (vs *vertexStrip) emit(x, y, u, v float32) {
	vs.verts = append(vs.verts, Vertex{x, y, u, v})
}

// Stroker tessellates fills and strokes from a Path's flattened sub-paths
// into Meshes the draw-batch assembler can consume directly. It carries no
// state across calls; a ConcaveFillBegin/AddContour/End sequence is the one
// exception, threading a contourBuilder through the three calls.
type Stroker struct {
	tessTol     float32
	fringeWidth float32
}

func NewStroker(tessTol, fringeWidth float32) *Stroker {
	return &Stroker{tessTol: tessTol, fringeWidth: fringeWidth}
}

// calculateJoins computes per-point miter extrusion and bevel/corner flags
// for a closed or open polyline, exactly as the fill/stroke expansion passes
// need them, and reports how many joins need extra bevel vertices plus
// whether the contour turns left at every vertex (i.e. is convex).
func calculateJoins(points []tessPoint, w float32, lineJoin StrokeJoin, miterLimit float32) (nBevel int, convex bool) {
	var iw float32
	if w > 0.0 {
		iw = 1.0 / w
	}
	n := len(points)
	p0 := &points[n-1]
	nLeft := 0
	for i := 0; i < n; i++ {
		p1 := &points[i]
		dlx0 := p0.dy
		dly0 := -p0.dx
		dlx1 := p1.dy
		dly1 := -p1.dx

		p1.dmx = (dlx0 + dlx1) * 0.5
		p1.dmy = (dly0 + dly1) * 0.5
		dmr2 := p1.dmx*p1.dmx + p1.dmy*p1.dmy
		if dmr2 > 0.000001 {
			scale := min(1.0/dmr2, 600.0)
			p1.dmx *= scale
			p1.dmy *= scale
		}

		if p1.flags&ptCorner != 0 {
			p1.flags = ptCorner
		} else {
			p1.flags = 0
		}

		cr := p1.dx*p0.dy - p0.dx*p1.dy
		if cr > 0.0 {
			nLeft++
			p1.flags |= ptLeft
		}

		limit := max(float32(1.0), min(p0.len, p1.len)*iw)
		if dmr2*limit*limit < 1.0 {
			p1.flags |= ptInnerBevel
		}

		if p1.flags&ptCorner != 0 {
			if dmr2*miterLimit*miterLimit < 1.0 || lineJoin == JoinBevel || lineJoin == JoinRound {
				p1.flags |= ptBevel
			}
		}

		if p1.flags&(ptBevel|ptInnerBevel) != 0 {
			nBevel++
		}

		p0 = p1
	}
	return nBevel, nLeft == n
}

// PolylineStroke expands a flattened, closed-or-open polyline into a stroked
// mesh: caps on open contours, joins per calculateJoins' flags, and an
// antialiasing fringe folded into the same triangle strip when aa is true.
func (s *Stroker) PolylineStroke(positions [][2]float32, closed bool, w float32, cap StrokeCap, join StrokeJoin, miterLimit float32, aa bool) Mesh {
	if len(positions) < 2 {
		return Mesh{}
	}
	points := make([]tessPoint, len(positions))
	for i, p := range positions {
		points[i] = tessPoint{x: p[0], y: p[1]}
	}
	n := len(points)
	for i := 0; i < n; i++ {
		j := i + 1
		if j == n {
			if !closed {
				break
			}
			j = 0
		}
		p0 := &points[i]
		p1 := &points[j]
		dx := p1.x - p0.x
		dy := p1.y - p0.y
		l, ndx, ndy := normalize(dx, dy)
		p0.len = l
		p0.dx = ndx
		p0.dy = ndy
	}
	if !closed {
		points[n-1].dx, points[n-1].dy = points[n-2].dx, points[n-2].dy
	}

	fringe := float32(0)
	if aa {
		fringe = s.fringeWidth
	}
	nCap := curveDivs(w, PI, s.tessTol)

	nBevel, _ := calculateJoins(points, w, join, miterLimit)

	count := 0
	if join == JoinRound {
		count += (n + nBevel*(nCap+2) + 1) * 2
	} else {
		count += (n + nBevel*5 + 1) * 2
	}
	if !closed {
		if cap == CapRound {
			count += (nCap*2 + 2) * 2
		} else {
			count += (3 + 3) * 2
		}
	}

	vs := newVertexStrip(count)
	var p0, p1 *tessPoint
	var lo, hi, p1Index int

	if closed {
		p0 = &points[n-1]
		p1 = &points[0]
		lo, hi, p1Index = 0, n, 0
	} else {
		p0 = &points[0]
		p1 = &points[1]
		lo, hi, p1Index = 1, n-1, 1

		dx := p1.x - p0.x
		dy := p1.y - p0.y
		_, dx, dy = normalize(dx, dy)
		switch cap {
		case CapButt:
			s.buttCapStart(vs, p0, dx, dy, w, -fringe*0.5, fringe)
		case CapSquare:
			s.buttCapStart(vs, p0, dx, dy, w, w-fringe, fringe)
		case CapRound:
			s.roundCapStart(vs, p0, dx, dy, w, nCap)
		}
	}

	for j := lo; j < hi; j++ {
		if p1.flags&(ptBevel|ptInnerBevel) != 0 {
			if join == JoinRound {
				s.roundJoin(vs, p0, p1, w, w, 0, 1, nCap)
			} else {
				s.bevelJoin(vs, p0, p1, w, w, 0, 1)
			}
		} else {
			vs.emit(p1.x+p1.dmx*w, p1.y+p1.dmy*w, 0, 1)
			vs.emit(p1.x-p1.dmx*w, p1.y-p1.dmy*w, 1, 1)
		}
		p1Index++
		p0 = p1
		if n != p1Index {
			p1 = &points[p1Index]
		}
	}

	if closed {
		vs.emit(vs.verts[0].x, vs.verts[0].y, 0, 1)
		vs.emit(vs.verts[1].x, vs.verts[1].y, 1, 1)
	} else {
		dx := p1.x - p0.x
		dy := p1.y - p0.y
		_, dx, dy = normalize(dx, dy)
		switch cap {
		case CapButt:
			s.buttCapEnd(vs, p1, dx, dy, w, -fringe*0.5, fringe)
		case CapSquare:
			s.buttCapEnd(vs, p1, dx, dy, w, w-fringe, fringe)
		case CapRound:
			s.roundCapEnd(vs, p1, dx, dy, w, nCap)
		}
	}

	return stripToMesh(vs.verts)
}

// PolylineStrokeAAThin is the fast path for hairline strokes (width below
// one device pixel): a single-pixel-wide antialiased line with no joins or
// caps beyond a simple butt, matching the teacher's thin-stroke shortcut.
func (s *Stroker) PolylineStrokeAAThin(positions [][2]float32, closed bool) Mesh {
	return s.PolylineStroke(positions, closed, s.fringeWidth*0.5, CapButt, JoinMiter, 10, true)
}

// ConvexFill tessellates a single convex sub-path: a triangle fan over the
// shape plus, when aa is requested, a half-width antialiasing fringe folded
// into the same strip (the teacher's "convex shapes render without
// stenciling" shortcut).
func (s *Stroker) ConvexFill(positions [][2]float32, aa bool) Mesh {
	return s.fillOne(positions, true, aa)
}

// ConcaveFillBegin/AddContour/End triangulate a multi-contour, potentially
// self-overlapping or nested shape. Concave decomposition here is limited to
// emitting one fan per contour and relying on stencil-based coverage
// accumulation (even-odd/non-zero) at submission time rather than a full
// polygon triangulator; a contour degenerate enough that no fan can be built
// (fewer than 3 points) reports ErrGeometryFailure and is skipped.
type ConcaveFillBuilder struct {
	s        *Stroker
	aa       bool
	contours [][][2]float32
}

func (s *Stroker) ConcaveFillBegin(aa bool) *ConcaveFillBuilder {
	return &ConcaveFillBuilder{s: s, aa: aa}
}

func (b *ConcaveFillBuilder) AddContour(positions [][2]float32) error {
	if len(positions) < 3 {
		return ErrGeometryFailure
	}
	b.contours = append(b.contours, positions)
	return nil
}

func (b *ConcaveFillBuilder) End() []Mesh {
	meshes := make([]Mesh, 0, len(b.contours))
	for _, c := range b.contours {
		meshes = append(meshes, b.s.fillOne(c, false, b.aa))
	}
	return meshes
}

// fillOne implements expandFill for a single sub-path's flattened points.
func (s *Stroker) fillOne(positions [][2]float32, convexHint, aa bool) Mesh {
	if len(positions) < 3 {
		return Mesh{}
	}
	points := make([]tessPoint, len(positions))
	for i, p := range positions {
		points[i] = tessPoint{x: p[0], y: p[1]}
	}
	n := len(points)
	for i := 0; i < n; i++ {
		j := i + 1
		if j == n {
			j = 0
		}
		p0 := &points[i]
		p1 := &points[j]
		dx := p1.x - p0.x
		dy := p1.y - p0.y
		l, ndx, ndy := normalize(dx, dy)
		p0.len = l
		p0.dx = ndx
		p0.dy = ndy
	}

	w := float32(0)
	if aa {
		w = s.fringeWidth
	}
	nBevel, detectedConvex := calculateJoins(points, w, JoinMiter, 10)
	convex := convexHint && detectedConvex

	fringeOn := aa

	shape := make([]Vertex, 0, n+nBevel+1)
	wOff := 0.5 * s.fringeWidth
	if fringeOn {
		p0 := &points[n-1]
		for i := 0; i < n; i++ {
			p1 := &points[i]
			if p1.flags&ptBevel != 0 {
				dlx0 := p0.dy
				dly0 := -p0.dx
				dlx1 := p1.dy
				dly1 := -p1.dx
				if p1.flags&ptLeft != 0 {
					lx := p1.x + p1.dmx*wOff
					ly := p1.y + p1.dmy*wOff
					shape = append(shape, Vertex{lx, ly, 0.5, 1})
				} else {
					lx0 := p1.x + dlx0*wOff
					ly0 := p1.y + dly0*wOff
					lx1 := p1.x + dlx1*wOff
					ly1 := p1.y + dly1*wOff
					shape = append(shape, Vertex{lx0, ly0, 0.5, 1}, Vertex{lx1, ly1, 0.5, 1})
				}
			} else {
				lx := p1.x + p1.dmx*wOff
				ly := p1.y + p1.dmy*wOff
				shape = append(shape, Vertex{lx, ly, 0.5, 1})
			}
			p0 = p1
		}
	} else {
		for i := 0; i < n; i++ {
			shape = append(shape, Vertex{points[i].x, points[i].y, 0.5, 1})
		}
	}

	mesh := fanToMesh(shape)

	if !fringeOn {
		return mesh
	}

	lw := w + wOff
	rw := w - wOff
	lu := float32(0)
	ru := float32(1)
	if convex {
		lw = wOff
		lu = 0.5
	}

	count := (n + nBevel*5 + 1) * 2
	vs := newVertexStrip(count)
	p0 := &points[n-1]
	p1Index := 0
	p1 := &points[0]
	for j := 0; j < n; j++ {
		if p1.flags&(ptBevel|ptInnerBevel) != 0 {
			s.bevelJoin(vs, p0, p1, lw, rw, lu, ru)
		} else {
			vs.emit(p1.x+p1.dmx*lw, p1.y+p1.dmy*lw, lu, 1)
			vs.emit(p1.x-p1.dmx*rw, p1.y-p1.dmy*rw, ru, 1)
		}
		p1Index++
		p0 = p1
		if n != p1Index {
			p1 = &points[p1Index]
		}
	}
	vs.emit(vs.verts[0].x, vs.verts[0].y, lu, 1)
	vs.emit(vs.verts[1].x, vs.verts[1].y, ru, 1)

	fringeMesh := stripToMesh(vs.verts)
	return mergeMeshes(mesh, fringeMesh)
}

// chooseBevel picks the pair of extrusion points a join's left/right rail
// vertices fan out from: the flattened bisector (dmx,dmy) normally, or the
// raw per-segment normals when the join is sharp enough to need a bevel.
func (s *Stroker) chooseBevel(bevel bool, p0, p1 *tessPoint, w float32) (x0, y0, x1, y1 float32) {
	if bevel {
		x0 = p1.x + p0.dy*w
		y0 = p1.y - p0.dx*w
		x1 = p1.x + p1.dy*w
		y1 = p1.y - p1.dx*w
	} else {
		x0 = p1.x + p1.dmx*w
		y0 = p1.y + p1.dmy*w
		x1 = p1.x + p1.dmx*w
		y1 = p1.y + p1.dmy*w
	}
	return
}

// roundJoin fans nCap extra vertex pairs around a join's outer corner,
// approximating an arc instead of the single bevel/miter point bevelJoin
// would emit there.
func (s *Stroker) roundJoin(vs *vertexStrip, p0, p1 *tessPoint, lw, rw, lu, ru float32, nCap int) {
	dlx0 := p0.dy
	dly0 := -p0.dx
	dlx1 := p1.dy
	dly1 := -p1.dx
	isInnerBevel := p1.flags&ptInnerBevel != 0
	if p1.flags&ptLeft != 0 {
		lx0, ly0, lx1, ly1 := s.chooseBevel(isInnerBevel, p0, p1, lw)
		a0 := atan2F(-dly0, -dlx0)
		a1 := atan2F(-dly1, -dlx1)
		if a1 > a0 {
			a1 -= PI * 2
		}
		vs.emit(lx0, ly0, lu, 1)
		vs.emit(p1.x-dlx0*rw, p1.y-dly0*rw, ru, 1)
		n := clamp(ceilF(((a0-a1)/PI)*float32(nCap)), 2, nCap)
		for i := 0; i < n; i++ {
			u := float32(i) / float32(n-1)
			a := a0 + u*(a1-a0)
			sn, c := sinCosF(a)
			rx := p1.x + c*rw
			ry := p1.y + sn*rw
			vs.emit(p1.x, p1.y, 0.5, 1)
			vs.emit(rx, ry, ru, 1)
		}
		vs.emit(lx1, ly1, lu, 1)
		vs.emit(p1.x-dlx1*rw, p1.y-dly1*rw, ru, 1)
	} else {
		rx0, ry0, rx1, ry1 := s.chooseBevel(isInnerBevel, p0, p1, -rw)
		a0 := atan2F(dly0, dlx0)
		a1 := atan2F(dly1, dlx1)
		if a1 < a0 {
			a1 += PI * 2
		}
		vs.emit(p1.x+dlx0*rw, p1.y+dly0*rw, lu, 1)
		vs.emit(rx0, ry0, ru, 1)
		n := clamp(ceilF(((a1-a0)/PI)*float32(nCap)), 2, nCap)
		for i := 0; i < n; i++ {
			u := float32(i) / float32(n-1)
			a := a0 + u*(a1-a0)
			sn, c := sinCosF(a)
			lx := p1.x + c*lw
			ly := p1.y + sn*lw
			vs.emit(lx, ly, lu, 1)
			vs.emit(p1.x, p1.y, 0.5, 1)
		}
		vs.emit(p1.x+dlx1*rw, p1.y+dly1*rw, lu, 1)
		vs.emit(rx1, ry1, ru, 1)
	}
}

// bevelJoin emits a join's outer corner as a single flat bevel (or, for a
// join calculateJoins didn't actually flag as sharp, a miter point folded
// into the same two-triangle shape) — the non-round counterpart to
// roundJoin.
func (s *Stroker) bevelJoin(vs *vertexStrip, p0, p1 *tessPoint, lw, rw, lu, ru float32) {
	dlx0 := p0.dy
	dly0 := -p0.dx
	dlx1 := p1.dy
	dly1 := -p1.dx
	isInnerBevel := p1.flags&ptInnerBevel != 0
	isBevel := p1.flags&ptBevel != 0
	if p1.flags&ptLeft != 0 {
		lx0, ly0, lx1, ly1 := s.chooseBevel(isInnerBevel, p0, p1, lw)

		vs.emit(lx0, ly0, lu, 1)
		vs.emit(p1.x-dlx0*rw, p1.y-dly0*rw, ru, 1)

		if isBevel {
			vs.emit(lx0, ly0, lu, 1)
			vs.emit(p1.x-dlx0*rw, p1.y-dly0*rw, ru, 1)

			vs.emit(lx1, ly1, lu, 1)
			vs.emit(p1.x-dlx1*rw, p1.y-dly1*rw, ru, 1)
		} else {
			rx0 := p1.x - p1.dmx*rw
			ry0 := p1.y - p1.dmy*rw

			vs.emit(p1.x, p1.y, 0.5, 1)
			vs.emit(p1.x-dlx0*rw, p1.y-dly0*rw, ru, 1)

			vs.emit(rx0, ry0, ru, 1)
			vs.emit(rx0, ry0, ru, 1)

			vs.emit(p1.x, p1.y, 0.5, 1)
			vs.emit(p1.x-dlx1*rw, p1.y-dly1*rw, ru, 1)
		}
		vs.emit(lx1, ly1, lu, 1)
		vs.emit(p1.x-dlx1*rw, p1.y-dly1*rw, ru, 1)
	} else {
		rx0, ry0, rx1, ry1 := s.chooseBevel(isInnerBevel, p0, p1, -rw)

		vs.emit(p1.x+dlx0*lw, p1.y+dly0*lw, lu, 1)
		vs.emit(rx0, ry0, ru, 1)

		if isBevel {
			vs.emit(p1.x+dlx0*lw, p1.y+dly0*lw, lu, 1)
			vs.emit(rx0, ry0, ru, 1)

			vs.emit(p1.x+dlx1*rw, p1.y+dly1*rw, lu, 1)
			vs.emit(rx1, ry1, ru, 1)
		} else {
			lx0 := p1.x + p1.dmx*rw
			ly0 := p1.y + p1.dmy*rw

			vs.emit(p1.x+dlx0*lw, p1.y+dly0*lw, lu, 1)
			vs.emit(p1.x, p1.y, 0.5, 1)

			vs.emit(lx0, ly0, lu, 1)
			vs.emit(lx0, ly0, lu, 1)

			vs.emit(p1.x+dlx1*lw, p1.y+dly1*lw, lu, 1)
			vs.emit(p1.x, p1.y, 0.5, 1)
		}
		vs.emit(p1.x+dlx1*lw, p1.y+dly1*lw, lu, 1)
		vs.emit(rx1, ry1, ru, 1)
	}
}

// buttCapStart/buttCapEnd emit a flat cap offset by d along the segment
// direction, outward from the endpoint for positive d: square caps pass
// w-fringe to extend past the endpoint, butt caps pass -fringe/2 to pull the
// cap slightly inside it.
func (s *Stroker) buttCapStart(vs *vertexStrip, p *tessPoint, dx, dy, w, d, aa float32) {
	px := p.x - dx*d
	py := p.y - dy*d
	dlx := dy
	dly := -dx
	vs.emit(px+dlx*w-dx*aa, py+dly*w-dy*aa, 0, 0)
	vs.emit(px-dlx*w-dx*aa, py-dly*w-dy*aa, 1, 0)
	vs.emit(px+dlx*w, py+dly*w, 0, 1)
	vs.emit(px-dlx*w, py-dly*w, 1, 1)
}

func (s *Stroker) buttCapEnd(vs *vertexStrip, p *tessPoint, dx, dy, w, d, aa float32) {
	px := p.x + dx*d
	py := p.y + dy*d
	dlx := dy
	dly := -dx
	vs.emit(px+dlx*w, py+dly*w, 0, 1)
	vs.emit(px-dlx*w, py-dly*w, 1, 1)
	vs.emit(px+dlx*w+dx*aa, py+dly*w+dy*aa, 0, 0)
	vs.emit(px-dlx*w+dx*aa, py-dly*w+dy*aa, 1, 0)
}

// roundCapStart/roundCapEnd fan nCap vertex pairs around a half-circle cap,
// the round-cap counterpart to buttCapStart/buttCapEnd.
func (s *Stroker) roundCapStart(vs *vertexStrip, p *tessPoint, dx, dy, w float32, nCap int) {
	px := p.x
	py := p.y
	dlx := dy
	dly := -dx
	for i := 0; i < nCap; i++ {
		a := float32(i) / float32(nCap-1) * PI
		sn, c := sinCosF(a)
		ax := c * w
		ay := sn * w
		vs.emit(px-dlx*ax-dx*ay, py-dly*ax-dy*ay, 0, 1)
		vs.emit(px, py, 0.5, 1)
	}
	vs.emit(px+dlx*w, py+dly*w, 0, 1)
	vs.emit(px-dlx*w, py-dly*w, 1, 1)
}

func (s *Stroker) roundCapEnd(vs *vertexStrip, p *tessPoint, dx, dy, w float32, nCap int) {
	px := p.x
	py := p.y
	dlx := dy
	dly := -dx
	vs.emit(px+dlx*w, py+dly*w, 0, 1)
	vs.emit(px-dlx*w, py-dly*w, 1, 1)
	for i := 0; i < nCap; i++ {
		a := float32(i) / float32(nCap-1) * PI
		sn, c := sinCosF(a)
		ax := c * w
		ay := sn * w
		vs.emit(px, py, 0.5, 1)
		vs.emit(px-dlx*ax+dx*ay, py-dly*ax+dy*ay, 0, 1)
	}
}

// fanToMesh triangulates a vertex loop as a fan around its first vertex —
// valid for the convex/near-convex shape outlines the fill expansion
// produces.
func fanToMesh(verts []Vertex) Mesh {
	m := Mesh{Positions: make([][2]float32, len(verts)), UVs: make([][2]float32, len(verts))}
	for i, v := range verts {
		m.Positions[i] = [2]float32{v.x, v.y}
		m.UVs[i] = [2]float32{v.u, v.v}
	}
	for i := 1; i+1 < len(verts); i++ {
		m.Indices = append(m.Indices, 0, uint16(i), uint16(i+1))
	}
	return m
}

// stripToMesh converts the teacher's triangle-strip vertex-pair output
// (alternating left/right rail vertices) into an explicit triangle list,
// preserving the winding GL_TRIANGLE_STRIP hardware expansion would produce.
func stripToMesh(verts []Vertex) Mesh {
	m := Mesh{Positions: make([][2]float32, len(verts)), UVs: make([][2]float32, len(verts))}
	for i, v := range verts {
		m.Positions[i] = [2]float32{v.x, v.y}
		m.UVs[i] = [2]float32{v.u, v.v}
	}
	for i := 0; i+2 < len(verts); i++ {
		if i%2 == 0 {
			m.Indices = append(m.Indices, uint16(i), uint16(i+1), uint16(i+2))
		} else {
			m.Indices = append(m.Indices, uint16(i+1), uint16(i), uint16(i+2))
		}
	}
	return m
}

// mergeMeshes concatenates b onto a, offsetting b's indices by a's vertex
// count so the two can be appended into one allocDrawCommand reservation.
func mergeMeshes(a, b Mesh) Mesh {
	base := uint16(len(a.Positions))
	a.Positions = append(a.Positions, b.Positions...)
	a.UVs = append(a.UVs, b.UVs...)
	for _, idx := range b.Indices {
		a.Indices = append(a.Indices, idx+base)
	}
	return a
}
