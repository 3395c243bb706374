package vg

import "github.com/bkaradzic/vg-renderer/fontstashmini"

// GlyphQuad is one glyph's screen-space quad plus the atlas UVs that sample
// it, the unit TextMesh is built from.
type GlyphQuad struct {
	X0, Y0, S0, T0 float32
	X1, Y1, S1, T1 float32
}

// TextMesh is the FontSystem's output: the quads a text draw call turns
// into triangles, plus the logical bounds/advance of the laid-out run.
type TextMesh struct {
	Quads   []GlyphQuad
	Bounds  [4]float32
	Advance float32
}

// GlyphPosition locates one glyph within a laid-out run, used by callers
// that need per-character hit-testing (caret placement, selection).
type GlyphPosition struct {
	Index      int
	Runes      []rune
	X          float32
	MinX, MaxX float32
}

// TextRow describes one line of a word-wrapped paragraph.
type TextRow struct {
	Runes      []rune
	StartIndex int
	EndIndex   int
	NextIndex  int
	Width      float32
	MinX, MaxX float32
}

// TextConfig carries the subset of drawing state that affects glyph layout
// and appearance: font selection, size, spacing, blur, alignment and color.
// Only Context.Text reads Color; the layout-only methods (TextBreakLines,
// GetLineHeight, LineBounds) ignore it.
type TextConfig struct {
	FontID        int
	FontSize      float32
	LetterSpacing float32
	FontBlur      float32
	Align         Align
	Color         Color
}

// FontSystem wraps fontstashmini's atlas/rasterizer behind the quad-mesh
// contract text commands consume; it owns exactly one glyph atlas image,
// resized only by an explicit ResetAtlasSize call (nothing here calls it
// when the atlas fills up).
type FontSystem struct {
	stash       *fontstashmini.FontStash
	atlasW      int
	atlasH      int
	atlasFlags  ImageFlags
	atlasDirty  bool
	whiteU      float32
	whiteV      float32
}

func NewFontSystem(atlasW, atlasH int, atlasFlags ImageFlags) *FontSystem {
	fs := &FontSystem{
		stash:      fontstashmini.New(atlasW, atlasH),
		atlasW:     atlasW,
		atlasH:     atlasH,
		atlasFlags: atlasFlags,
		atlasDirty: true,
	}
	fs.whiteU = 1.0 / float32(atlasW)
	fs.whiteV = 1.0 / float32(atlasH)
	return fs
}

// AddFontFromMemory registers a TrueType font's bytes and returns its font
// id (fontstashmini.INVALID on parse failure).
func (fs *FontSystem) AddFontFromMemory(name string, data []byte) int {
	return fs.stash.AddFontFromMemory(name, data, 0)
}

func (fs *FontSystem) FontByName(name string) int {
	return fs.stash.GetFontByName(name)
}

func (fs *FontSystem) applyConfig(cfg TextConfig) {
	fs.stash.SetFont(cfg.FontID)
	fs.stash.SetSize(cfg.FontSize)
	fs.stash.SetSpacing(cfg.LetterSpacing)
	fs.stash.SetBlur(cfg.FontBlur)
	fs.stash.SetAlign(toFonsAlign(cfg.Align))
}

func toFonsAlign(a Align) fontstashmini.FONSAlign {
	var out fontstashmini.FONSAlign
	if a&AlignLeft != 0 {
		out |= fontstashmini.ALIGN_LEFT
	}
	if a&AlignCenter != 0 {
		out |= fontstashmini.ALIGN_CENTER
	}
	if a&AlignRight != 0 {
		out |= fontstashmini.ALIGN_RIGHT
	}
	if a&AlignTop != 0 {
		out |= fontstashmini.ALIGN_TOP
	}
	if a&AlignMiddle != 0 {
		out |= fontstashmini.ALIGN_MIDDLE
	}
	if a&AlignBottom != 0 {
		out |= fontstashmini.ALIGN_BOTTOM
	}
	if a&AlignBaseline != 0 {
		out |= fontstashmini.ALIGN_BASELINE
	}
	return out
}

// Text lays out str at (x,y) under cfg and returns the quad mesh a text draw
// call turns into triangles.
func (fs *FontSystem) Text(cfg TextConfig, x, y float32, str string) TextMesh {
	fs.applyConfig(cfg)
	iter := fs.stash.TextIterForRunes(x, y, []rune(str))
	if iter == nil {
		return TextMesh{}
	}
	var mesh TextMesh
	first := true
	for {
		q, ok := iter.Next()
		if !ok {
			break
		}
		mesh.Quads = append(mesh.Quads, GlyphQuad{q.X0, q.Y0, q.S0, q.T0, q.X1, q.Y1, q.S1, q.T1})
		if first {
			mesh.Bounds = [4]float32{q.X0, q.Y0, q.X1, q.Y1}
			first = false
		} else {
			mesh.Bounds[0] = min(mesh.Bounds[0], q.X0)
			mesh.Bounds[1] = min(mesh.Bounds[1], q.Y0)
			mesh.Bounds[2] = max(mesh.Bounds[2], q.X1)
			mesh.Bounds[3] = max(mesh.Bounds[3], q.Y1)
		}
	}
	mesh.Advance, _ = fs.stash.TextBounds(x, y, str)
	return mesh
}

// TextBreakLines greedily wraps runes into rows no wider than breakWidth,
// mirroring fontstashmini's own glyph-advance accounting rather than
// re-measuring with a second layout pass.
func (fs *FontSystem) TextBreakLines(cfg TextConfig, runes []rune, breakWidth float32) []TextRow {
	fs.applyConfig(cfg)
	var rows []TextRow
	rowStart := 0
	for rowStart < len(runes) {
		end := rowStart
		lastSpace := -1
		lastSpaceWidth := float32(0)
		width := float32(0)
		for end < len(runes) && runes[end] != '\n' {
			adv, _ := fs.stash.TextBoundsOfRunes(0, 0, runes[rowStart:end+1])
			if adv > breakWidth && end > rowStart {
				break
			}
			if runes[end] == ' ' {
				lastSpace = end
				lastSpaceWidth = adv
			}
			width = adv
			end++
		}
		brk, next := end, end
		hasNewline := end < len(runes) && runes[end] == '\n'
		if !hasNewline && lastSpace >= rowStart && end < len(runes) {
			brk, next = lastSpace, lastSpace+1
			width = lastSpaceWidth
		} else if hasNewline {
			next = end + 1
		}
		rows = append(rows, TextRow{
			Runes:      runes[rowStart:brk],
			StartIndex: rowStart,
			EndIndex:   brk,
			NextIndex:  next,
			Width:      width,
		})
		if next <= rowStart {
			break
		}
		rowStart = next
	}
	return rows
}

func (fs *FontSystem) GetLineHeight(cfg TextConfig) float32 {
	fs.applyConfig(cfg)
	_, _, lineh := fs.stash.VerticalMetrics()
	return lineh
}

func (fs *FontSystem) LineBounds(cfg TextConfig, y float32) (minY, maxY float32) {
	fs.applyConfig(cfg)
	return fs.stash.LineBounds(y)
}

// GetFontAtlasImage returns the current atlas's raw alpha-only pixels plus
// dimensions, for (re)uploading to the backend texture that backs it.
func (fs *FontSystem) GetFontAtlasImage() ([]byte, int, int) {
	return fs.stash.GetTextureData()
}

// GetWhitePixelUV returns the UV of the always-present 2x2 white rect every
// fontstashmini atlas reserves, used to draw solid-color triangles through
// the same textured-quad shader path as glyphs.
func (fs *FontSystem) GetWhitePixelUV() (float32, float32) {
	return fs.whiteU, fs.whiteV
}

// FlushFontAtlasImage reports the dirty sub-rectangle since the last flush,
// or ok=false when nothing changed, so the backend only re-uploads the
// region fontstashmini actually wrote to.
func (fs *FontSystem) FlushFontAtlasImage() (rect [4]int, ok bool) {
	dirty := fs.stash.ValidateTexture()
	if dirty == nil {
		return [4]int{}, false
	}
	fs.atlasDirty = false
	return [4]int{dirty[0], dirty[1], dirty[2], dirty[3]}, true
}

// ResetAtlasSize grows the glyph atlas (e.g. after fontstashmini reports it
// cannot pack a new glyph) and invalidates every cached glyph.
func (fs *FontSystem) ResetAtlasSize(w, h int) {
	fs.stash.ResetAtlas(w, h)
	fs.atlasW, fs.atlasH = w, h
	fs.whiteU = 1.0 / float32(w)
	fs.whiteV = 1.0 / float32(h)
	fs.atlasDirty = true
}
