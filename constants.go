package vg

import "honnef.co/go/curve"

// CreateFlags configures a Context at construction time.
type CreateFlags int

const (
	// AntiAlias enables antialiasing fringe generation on fills/strokes.
	AntiAlias CreateFlags = 1 << 0
	// StencilStrokes is accepted and stored on the Context; strokes are not
	// drawn through the stencil buffer, so overlapping parts of a
	// self-intersecting stroke still blend twice.
	StencilStrokes CreateFlags = 1 << 1
	// Debug turns stencil clip overflow (more than 254 clip regions in a
	// frame) into a panic with ErrClipOverflow instead of a logged warning.
	Debug CreateFlags = 1 << 2
)

const (
	// Kappa90 is the length, proportional to radius, of a cubic bezier
	// handle that approximates a 90 degree arc.
	Kappa90 float32 = 0.5522847493
	// PI as float32, avoiding repeated float64->float32 conversions.
	PI float32 = 3.14159265358979323846264338327
)

// Direction is used with Context.Arc to select winding direction.
type Direction int

const (
	CounterClockwise Direction = 1
	Clockwise        Direction = 2
)

// StrokeCap and StrokeJoin re-export honnef.co/go/curve's cap/join
// vocabulary as the public stroke-style surface, rather than inventing a
// parallel enum.
type StrokeCap = curve.Cap
type StrokeJoin = curve.Join

const (
	CapButt   = curve.ButtCap
	CapRound  = curve.RoundCap
	CapSquare = curve.SquareCap
)

const (
	JoinMiter = curve.MiterJoin
	JoinRound = curve.RoundJoin
	JoinBevel = curve.BevelJoin
)

// Align controls text anchor position.
type Align int

const (
	AlignLeft     Align = 1 << 0
	AlignCenter   Align = 1 << 1
	AlignRight    Align = 1 << 2
	AlignTop      Align = 1 << 3
	AlignMiddle   Align = 1 << 4
	AlignBottom   Align = 1 << 5
	AlignBaseline Align = 1 << 6
)

// ImageFlags configures texture creation.
type ImageFlags int

const (
	ImageGenerateMipmaps ImageFlags = 1 << 0
	ImageRepeatX         ImageFlags = 1 << 1
	ImageRepeatY         ImageFlags = 1 << 2
	ImageFlippy          ImageFlags = 1 << 3
	ImagePreMultiplied   ImageFlags = 1 << 4
	// ImageFilterBilinear requests linear min/mag filtering rather than
	// nearest; glbackend.go always binds linear filtering today, so this is
	// currently a no-op flag kept for config-surface fidelity with §6's
	// documented default.
	ImageFilterBilinear ImageFlags = 1 << 5
)

// Winding selects the fill role of a sub-path independent of vertex order.
type Winding int

const (
	Solid Winding = 1
	Hole  Winding = 2
)

// FillRule selects the tessellation rule used for concave fills.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// PathType hints whether a fill's sub-paths can be tessellated with the
// cheap convex fan path or need full concave decomposition.
type PathType int

const (
	Convex PathType = iota
	Concave
)

// FillFlags bit-packs fill-call configuration.
type FillFlags int

const (
	FillAA FillFlags = 1 << 0
)

// StrokeFlags bit-packs stroke-call configuration.
type StrokeFlags int

const (
	StrokeAA         StrokeFlags = 1 << 0
	StrokeFixedWidth StrokeFlags = 1 << 1
)

// CommandListFlags configures a recorded CommandList.
type CommandListFlags int

const (
	Cacheable           CommandListFlags = 1 << 0
	AllowCommandCulling CommandListFlags = 1 << 1
)

// ClipRule selects whether a clip region keeps or removes fragments inside it.
type ClipRule int

const (
	ClipIn ClipRule = iota
	ClipOut
)

// DrawCommandType is the closed set of batchable draw-command kinds.
type DrawCommandType int

const (
	DrawTextured DrawCommandType = iota
	DrawColorGradient
	DrawImagePattern
	DrawClip
	numDrawCommandTypes
)

// HandleFlags are bit-packed into the upper half of a Handle.
type HandleFlags uint16

const (
	// HandleLocal marks a gradient/image-pattern handle created inside a
	// CommandList recording; it is only valid after remapping at replay
	// time (see interpreter.go).
	HandleLocal HandleFlags = 0x0001
)

// invalidHandleID is the sentinel id value denoting an invalid Handle.
const invalidHandleID uint16 = 0xFFFF
