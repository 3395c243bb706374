package vg

import (
	"math"

	"honnef.co/go/curve"
)

// absF is math.Abs for float32, avoiding a round trip through float64 at
// every call site.
func absF(a float32) float32 {
	if a > 0.0 {
		return a
	}
	return -a
}

func signF(a float32) float32 {
	if a > 0.0 {
		return 1.0
	}
	return -1.0
}

func sinCosF(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}

func atan2F(a, b float32) float32 {
	return float32(math.Atan2(float64(a), float64(b)))
}

func acosF(a float32) float32 {
	return float32(math.Acos(float64(a)))
}

func tanF(a float32) float32 {
	return float32(math.Tan(float64(a)))
}

func ceilF(a float32) int {
	return int(math.Ceil(float64(a)))
}

// normalize returns the length of (x, y) along with the unit vector in its
// direction; degenerate near-zero vectors are returned unchanged rather
// than dividing by (near) zero.
func normalize(x, y float32) (float32, float32, float32) {
	d := float32(math.Sqrt(float64(x*x + y*y)))
	if d > 1e-6 {
		id := 1.0 / d
		x *= id
		y *= id
	}
	return d, x, y
}

// cross is the 2D cross product (z-component) of (dx0,dy0) and (dx1,dy1),
// used by ArcTo to pick which side of the tangent lines the arc center
// falls on.
func cross(dx0, dy0, dx1, dy1 float32) float32 {
	return dx1*dy0 - dx0*dy1
}

// ptEquals reports whether two points are within tol of each other,
// squared to avoid a sqrt on the common case.
func ptEquals(x1, y1, x2, y2, tol float32) bool {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx+dy*dy < tol*tol
}

// curveDivs picks how many segments to flatten an arc of the given radius
// and angular span into so each segment's deviation from the true arc
// stays within tol.
func curveDivs(r, arc, tol float32) int {
	da := math.Acos(float64(r/(r+tol))) * 2.0
	return max(2, int(math.Ceil(float64(arc)/da)))
}

// subPath is a contiguous vertex range inside Path.points with a closed
// flag and an independently overridable fill winding.
type subPath struct {
	first   int
	count   int
	closed  bool
	winding Winding
}

// Path accumulates a flattened polyline representation of the path-building
// API (moveTo/lineTo/curves/arcs/shape sugar): every curve is subdivided to
// a polyline at construction time, so Stroker only ever has to deal with
// straight segments when computing joins, caps, and fringes.
type Path struct {
	points   []curve.Vec2
	subPaths []subPath

	tessTol float32
	distTol float32

	curX, curY           float32
	hasCurrent           bool
	pathStartX, pathStartY float32
}

// NewPath constructs an empty Path. The owning Context resets tessTol and
// distTol from the device pixel ratio on every BeginFrame (0.25/dpr and
// 0.01/dpr); the transform's avgScale does not enter them.
func NewPath(tessTol, distTol float32) *Path {
	p := &Path{tessTol: tessTol, distTol: distTol}
	p.points = make([]curve.Vec2, 0, initPointsSize)
	p.subPaths = make([]subPath, 0, initPathsSize)
	return p
}

func (p *Path) Reset() {
	p.points = p.points[:0]
	p.subPaths = p.subPaths[:0]
	p.hasCurrent = false
}

func (p *Path) SetTolerances(tessTol, distTol float32) {
	p.tessTol = tessTol
	p.distTol = distTol
}

func (p *Path) SubPaths() []subPath { return p.subPaths }

func (p *Path) PointAt(i int) (float32, float32) {
	pt := p.points[i]
	return float32(pt.X), float32(pt.Y)
}

func (p *Path) lastSubPath() *subPath {
	if len(p.subPaths) == 0 {
		return nil
	}
	return &p.subPaths[len(p.subPaths)-1]
}

func (p *Path) addPoint(x, y float32) {
	sp := p.lastSubPath()
	if sp == nil {
		return
	}
	if sp.count > 0 {
		last := p.points[len(p.points)-1]
		if ptEquals(float32(last.X), float32(last.Y), x, y, p.distTol) {
			return
		}
	}
	p.points = append(p.points, curve.Vec2{X: float64(x), Y: float64(y)})
	sp.count++
}

func (p *Path) MoveTo(x, y float32) {
	p.subPaths = append(p.subPaths, subPath{first: len(p.points), winding: Solid})
	p.addPoint(x, y)
	p.curX, p.curY = x, y
	p.hasCurrent = true
	p.pathStartX, p.pathStartY = x, y
}

func (p *Path) LineTo(x, y float32) {
	if !p.hasCurrent {
		p.MoveTo(x, y)
		return
	}
	p.addPoint(x, y)
	p.curX, p.curY = x, y
}

// BezierTo flattens a cubic from the current point through two control
// points to (x,y) via recursive de Casteljau subdivision, matching the
// teacher's tesselateBezier flatness test and max recursion depth.
func (p *Path) BezierTo(c1x, c1y, c2x, c2y, x, y float32) {
	if !p.hasCurrent {
		p.MoveTo(c1x, c1y)
	}
	p.tessellateBezier(p.curX, p.curY, c1x, c1y, c2x, c2y, x, y, 0)
	p.curX, p.curY = x, y
}

func (p *Path) tessellateBezier(x1, y1, x2, y2, x3, y3, x4, y4 float32, level int) {
	if level > 10 {
		return
	}
	dx := x4 - x1
	dy := y4 - y1
	d2 := absF((x2-x4)*dy - (y2-y4)*dx)
	d3 := absF((x3-x4)*dy - (y3-y4)*dx)

	if (d2+d3)*(d2+d3) < p.tessTol*(dx*dx+dy*dy) {
		p.addPoint(x4, y4)
		return
	}

	x12 := (x1 + x2) * 0.5
	y12 := (y1 + y2) * 0.5
	x23 := (x2 + x3) * 0.5
	y23 := (y2 + y3) * 0.5
	x34 := (x3 + x4) * 0.5
	y34 := (y3 + y4) * 0.5
	x123 := (x12 + x23) * 0.5
	y123 := (y12 + y23) * 0.5
	x234 := (x23 + x34) * 0.5
	y234 := (y23 + y34) * 0.5
	x1234 := (x123 + x234) * 0.5
	y1234 := (y123 + y234) * 0.5

	p.tessellateBezier(x1, y1, x12, y12, x123, y123, x1234, y1234, level+1)
	p.tessellateBezier(x1234, y1234, x234, y234, x34, y34, x4, y4, level+1)
}

// QuadTo flattens a quadratic by elevating it to the equivalent cubic.
func (p *Path) QuadTo(cx, cy, x, y float32) {
	x1, y1 := p.curX, p.curY
	c1x := x1 + 2.0/3.0*(cx-x1)
	c1y := y1 + 2.0/3.0*(cy-y1)
	c2x := x + 2.0/3.0*(cx-x)
	c2y := y + 2.0/3.0*(cy-y)
	p.BezierTo(c1x, c1y, c2x, c2y, x, y)
}

// ArcTo adds a rounded corner of the given radius between the current point
// and (x2,y2), tangent to the segments (cur->(x1,y1)) and ((x1,y1)->(x2,y2)),
// matching the classic SVG-style arcTo behavior.
func (p *Path) ArcTo(x1, y1, x2, y2, radius float32) {
	if !p.hasCurrent {
		return
	}
	x0, y0 := p.curX, p.curY
	if ptEquals(x0, y0, x1, y1, p.distTol) || ptEquals(x1, y1, x2, y2, p.distTol) || radius == 0 {
		p.LineTo(x1, y1)
		return
	}
	dx0, dy0 := x0-x1, y0-y1
	dx1, dy1 := x2-x1, y2-y1
	_, dx0, dy0 = normalize(dx0, dy0)
	_, dx1, dy1 = normalize(dx1, dy1)
	a := acosF(dx0*dx1 + dy0*dy1)
	d := radius / tanF(a*0.5)

	if d > 10000.0 {
		p.LineTo(x1, y1)
		return
	}

	var cx, cy, a0, a1 float32
	var dir Direction
	if cross(dx1, dy1, dx0, dy0) > 0.0 {
		cx = x1 + dx0*d + dy0*radius
		cy = y1 + dy0*d - dx0*radius
		a0 = atan2F(dx0, -dy0)
		a1 = atan2F(-dx1, dy1)
		dir = Clockwise
	} else {
		cx = x1 + dx0*d - dy0*radius
		cy = y1 + dy0*d + dx0*radius
		a0 = atan2F(-dx0, dy0)
		a1 = atan2F(dx1, -dy1)
		dir = CounterClockwise
	}
	p.Arc(cx, cy, radius, a0, a1, dir)
}

// Arc appends a circular arc, flattened into a polyline via the same
// curveDivs-driven subdivision count the stroker uses for round caps/joins.
func (p *Path) Arc(cx, cy, r, a0, a1 float32, dir Direction) {
	da := a1 - a0
	if dir == Clockwise {
		if absF(da) >= PI*2 {
			da = PI * 2
		} else {
			for da < 0.0 {
				da += PI * 2
			}
		}
	} else {
		if absF(da) >= PI*2 {
			da = -PI * 2
		} else {
			for da > 0.0 {
				da -= PI * 2
			}
		}
	}
	ndivs := clamp(ceilF(absF(da)/(PI*0.5)), 1, 5) * max(1, curveDivs(r, absF(da), p.tessTol))
	hda := (da / float32(ndivs)) * 0.5
	kappa := absF(4.0 / 3.0 * (1.0 - cosF(hda)) / sinF(hda))
	if dir == CounterClockwise {
		kappa = -kappa
	}

	px, py := float32(0), float32(0)
	ptanx, ptany := float32(0), float32(0)
	first := true
	for i := 0; i <= ndivs; i++ {
		a := a0 + da*(float32(i)/float32(ndivs))
		s, c := sinCosF(a)
		x := cx + c*r
		y := cy + s*r
		dx := -s * r
		dy := c * r
		if first {
			if p.hasCurrent {
				p.LineTo(x, y)
			} else {
				p.MoveTo(x, y)
			}
		} else {
			p.BezierTo(px+ptanx*kappa, py+ptany*kappa, x-dx*kappa, y-dy*kappa, x, y)
		}
		px, py = x, y
		ptanx, ptany = dx, dy
		first = false
	}
}

func sinF(a float32) float32 { s, _ := sinCosF(a); return s }
func cosF(a float32) float32 { _, c := sinCosF(a); return c }

func (p *Path) ClosePath() {
	sp := p.lastSubPath()
	if sp != nil {
		sp.closed = true
	}
}

func (p *Path) PathWinding(w Winding) {
	sp := p.lastSubPath()
	if sp != nil {
		sp.winding = w
	}
}

func (p *Path) Rect(x, y, w, h float32) {
	p.MoveTo(x, y)
	p.LineTo(x, y+h)
	p.LineTo(x+w, y+h)
	p.LineTo(x+w, y)
	p.ClosePath()
}

func (p *Path) RoundedRect(x, y, w, h, r float32) {
	p.RoundedRectVarying(x, y, w, h, r, r, r, r)
}

// RoundedRectVarying supports an independent radius per corner
// (top-left, top-right, bottom-right, bottom-left).
func (p *Path) RoundedRectVarying(x, y, w, h, radTL, radTR, radBR, radBL float32) {
	if radTL < 0.1 && radTR < 0.1 && radBR < 0.1 && radBL < 0.1 {
		p.Rect(x, y, w, h)
		return
	}
	halfw := absF(w) * 0.5
	halfh := absF(h) * 0.5
	rxBL := min(radBL, halfw) * signF(w)
	ryBL := min(radBL, halfh) * signF(h)
	rxBR := min(radBR, halfw) * signF(w)
	ryBR := min(radBR, halfh) * signF(h)
	rxTR := min(radTR, halfw) * signF(w)
	ryTR := min(radTR, halfh) * signF(h)
	rxTL := min(radTL, halfw) * signF(w)
	ryTL := min(radTL, halfh) * signF(h)
	p.MoveTo(x, y+ryTL)
	p.LineTo(x, y+h-ryBL)
	p.BezierTo(x, y+h-ryBL*(1-Kappa90), x+rxBL*(1-Kappa90), y+h, x+rxBL, y+h)
	p.LineTo(x+w-rxBR, y+h)
	p.BezierTo(x+w-rxBR*(1-Kappa90), y+h, x+w, y+h-ryBR*(1-Kappa90), x+w, y+h-ryBR)
	p.LineTo(x+w, y+ryTR)
	p.BezierTo(x+w, y+ryTR*(1-Kappa90), x+w-rxTR*(1-Kappa90), y, x+w-rxTR, y)
	p.LineTo(x+rxTL, y)
	p.BezierTo(x+rxTL*(1-Kappa90), y, x, y+ryTL*(1-Kappa90), x, y+ryTL)
	p.ClosePath()
}

func (p *Path) Ellipse(cx, cy, rx, ry float32) {
	p.MoveTo(cx-rx, cy)
	p.BezierTo(cx-rx, cy+ry*Kappa90, cx-rx*Kappa90, cy+ry, cx, cy+ry)
	p.BezierTo(cx+rx*Kappa90, cy+ry, cx+rx, cy+ry*Kappa90, cx+rx, cy)
	p.BezierTo(cx+rx, cy-ry*Kappa90, cx+rx*Kappa90, cy-ry, cx, cy-ry)
	p.BezierTo(cx-rx*Kappa90, cy-ry, cx-rx, cy-ry*Kappa90, cx-rx, cy)
	p.ClosePath()
}

func (p *Path) Circle(cx, cy, r float32) {
	p.Ellipse(cx, cy, r, r)
}

func (p *Path) Polyline(pts [][2]float32) {
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt[0], pt[1])
		} else {
			p.LineTo(pt[0], pt[1])
		}
	}
}
