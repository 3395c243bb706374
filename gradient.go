package vg

import "math"

// paintSpace is the intermediate "paint to local space" description shared
// by every gradient kind before it is combined with the current state
// transform and inverted for storage in a Gradient record. It mirrors the
// single Paint value the teacher library threads straight into its renderer;
// here it is only ever consumed by paintregistry.go.
type paintSpace struct {
	xform      TransformMatrix
	extent     [2]float32
	radius     float32
	feather    float32
	innerColor Color
	outerColor Color
}

// linearGradientSpace lays the gradient out along (sx,sy)-(ex,ey) as a
// degenerate box gradient offset by a large constant, same trick the
// teacher's box-gradient shader relies on to share one SDF for both kinds.
func linearGradientSpace(sx, sy, ex, ey float32, iColor, oColor Color) paintSpace {
	var large float32 = 1e5
	dx := ex - sx
	dy := ey - sy
	d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if d > 0.0001 {
		dx /= d
		dy /= d
	} else {
		dx = 0.0
		dy = 1.0
	}
	return paintSpace{
		xform:      TransformMatrix{dy, -dx, dx, dy, sx - dx*large, sy - dy*large},
		extent:     [2]float32{large, large + d*0.5},
		feather:    max(float32(1.0), d),
		innerColor: iColor,
		outerColor: oColor,
	}
}

func radialGradientSpace(cx, cy, inR, outR float32, iColor, oColor Color) paintSpace {
	r := (inR + outR) * 0.5
	f := outR - inR
	return paintSpace{
		xform:      TranslateMatrix(cx, cy),
		extent:     [2]float32{r, r},
		radius:     r,
		feather:    max(float32(1.0), f),
		innerColor: iColor,
		outerColor: oColor,
	}
}

func boxGradientSpace(x, y, w, h, r, f float32, iColor, oColor Color) paintSpace {
	return paintSpace{
		xform:      TranslateMatrix(x+w*0.5, y+h*0.5),
		extent:     [2]float32{w * 0.5, h * 0.5},
		radius:     r,
		feather:    max(float32(1.0), f),
		innerColor: iColor,
		outerColor: oColor,
	}
}

// Gradient is the registry record a draw command references by handle.
// inverseMatrix maps screen-space fragment positions back into the
// gradient's paint space; params folds per-kind extents into one fixed
// layout consumed uniformly by the ColorGradient shader branch.
type Gradient struct {
	inverseMatrix [9]float32
	params        [4]float32 // extentX, extentY, radius, feather
	innerColor    Color
	outerColor    Color
}

func newGradient(space paintSpace, stateXform TransformMatrix) Gradient {
	combined := space.xform.Multiply(stateXform)
	inv := combined.Inverse()
	return Gradient{
		inverseMatrix: inv.ToMat3x3(),
		params:        [4]float32{space.extent[0], space.extent[1], space.radius, space.feather},
		innerColor:    space.innerColor,
		outerColor:    space.outerColor,
	}
}

// ImagePattern is the registry record for an image-tiled fill, storing the
// inverse of the pattern-to-screen matrix scaled by the image's own size so
// the shader can sample with normalized UVs directly.
type ImagePattern struct {
	inverseMatrix [9]float32
	image         Handle
}

func newImagePattern(cx, cy, w, h, angle float32, img Handle, stateXform TransformMatrix) ImagePattern {
	xform := RotateMatrix(angle)
	xform[4] = cx
	xform[5] = cy
	combined := xform.Multiply(stateXform)
	inv := combined.Inverse()
	inv[0] /= w
	inv[2] /= w
	inv[4] /= w
	inv[1] /= h
	inv[3] /= h
	inv[5] /= h
	return ImagePattern{
		inverseMatrix: inv.ToMat3x3(),
		image:         img,
	}
}
