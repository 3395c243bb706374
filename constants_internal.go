package vg

const (
	initCommandsSize = 256
	initPointsSize   = 128
	initPathsSize    = 16
	initVertsSize    = 256
	maxStencilRegion = 254
)

// pointFlags marks properties discovered while computing joins for a
// flattened sub-path.
type pointFlags int

const (
	ptCorner     pointFlags = 0x01
	ptLeft       pointFlags = 0x02
	ptBevel      pointFlags = 0x04
	ptInnerBevel pointFlags = 0x08
)

// pathCommand is the tag of a single entry in a Path's flat command stream,
// the in-memory counterpart of the byte-stream commandOp used by
// CommandList recordings (see commandlist.go).
type pathCommand int

const (
	cmdMoveTo pathCommand = iota
	cmdLineTo
	cmdBezierTo
	cmdClose
	cmdWinding
)

type textureKind int

const (
	textureAlpha textureKind = 1
	textureRGBA  textureKind = 2
)
