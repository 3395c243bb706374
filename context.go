package vg

import (
	"image"

	"golang.org/x/image/draw"
)

// paintKind distinguishes the three paint sources a fill or stroke call can
// draw with; it picks the DrawCommandType and decides how colorizeMesh
// writes vertex colors/UVs, but every other part of fillInternal/
// strokeInternal is identical across all three.
type paintKind int

const (
	paintColor paintKind = iota
	paintGradientKind
	paintPatternKind
)

const (
	defaultStrokeCap  = CapButt
	defaultStrokeJoin = JoinMiter
	defaultMiterLimit = float32(10)
)

// Context is the public entry point: it owns every collaborator a frame of
// drawing touches (resource pool, batcher, state stack, paint/image
// registries, path/stroker, font system, command-list interpreter and shape
// cache) and implements commandListTarget so a CommandList can be recorded
// against it directly or replayed through Interpreter.Submit.
type Context struct {
	cfg         ContextConfig
	createFlags CreateFlags
	debug       bool

	backend Backend
	pool    *resourcePool
	batch   *batcher
	states  *stateStack
	clip    clipRecorder
	paints  *paintRegistry
	images  *imageRegistry

	path    *Path
	stroker *Stroker

	fonts     *FontSystem
	fontAtlas Handle
	fontCount int

	interp *Interpreter
	shapes *shapeCache

	viewID           int
	canvasW, canvasH float32
	devicePixelRatio float32

	tessTol, distTol, fringeWidth float32

	// Lazy per-BeginPath transform cache (§4.5): path vertices are
	// transformed into canvas space once, on the first Fill/Stroke call
	// after BeginPath, and reused by every later Fill/Stroke call sharing
	// the same path.
	pathBuilt   bool
	transformed [][][2]float32

	// cacheRecord/cacheReplay/cacheCursor thread shape-cache state through
	// fillInternal/strokeInternal while SubmitCommandList replays a
	// Cacheable list; see meshesForFill/meshesForStroke and
	// nextCachedMeshes.
	cacheRecord *commandListCache
	cacheReplay *commandListCache
	cacheCursor int
}

// NewContext constructs a Context bound to backend, applying cfg's resource
// caps (zero fields fall back to DefaultContextConfig) and flags' rendering
// defaults. It allocates the font atlas's backing texture immediately so
// FillColor/Text have something to bind from the first frame.
func NewContext(backend Backend, flags CreateFlags, cfg ContextConfig) (*Context, error) {
	cfg.applyDefaults()
	pool := newResourcePool()
	fonts := NewFontSystem(512, 512, cfg.FontAtlasImageFlags)

	c := &Context{
		cfg:              cfg,
		createFlags:      flags,
		debug:            flags&Debug != 0,
		backend:          backend,
		pool:             pool,
		batch:            newBatcher(pool, cfg.MaxVBVertices),
		states:           newStateStack(cfg.MaxStateStackSize),
		paints:           newPaintRegistry(cfg.MaxGradients, cfg.MaxImagePatterns),
		images:           newImageRegistry(backend, cfg.MaxImages),
		path:             NewPath(0.25, 0.01),
		stroker:          NewStroker(0.25, 1.0),
		fonts:            fonts,
		interp:           NewInterpreter(cfg.MaxCommandListDepth),
		shapes:           newShapeCache(),
		devicePixelRatio: 1,
		tessTol:          0.25,
		distTol:          0.01,
		fringeWidth:      1,
	}

	data, w, h := fonts.GetFontAtlasImage()
	atlas, err := c.images.create(TextureAlpha, w, h, cfg.FontAtlasImageFlags, data)
	if err != nil {
		return nil, err
	}
	c.fontAtlas = atlas
	return c, nil
}

// Close destroys every backend resource this Context owns (textures, vertex
// and index buffers). The Context must not be used afterward.
func (c *Context) Close() error {
	c.images.reset()
	for _, vb := range c.batch.vertexBuffers {
		if vb.gpuCreated {
			c.backend.DestroyVertexBuffer(vb.gpuBuf)
		}
	}
	if c.batch.indexBuffer.gpuCreated {
		c.backend.DestroyIndexBuffer(c.batch.indexBuffer.gpuBuf)
	}
	return nil
}

// BeginFrame starts a new frame at the given canvas size and device pixel
// ratio, recomputing the tessellation/fringe tolerances that derive from it
// and resetting every per-frame arena (batcher, paint registry, state
// stack, clip recorder). Images, fonts and CommandLists are not per-frame
// resources and survive across this call.
func (c *Context) BeginFrame(viewID int, w, h, devicePixelRatio float32) {
	if devicePixelRatio <= 0 {
		devicePixelRatio = 1
	}
	c.viewID = viewID
	c.canvasW, c.canvasH = w, h
	c.devicePixelRatio = devicePixelRatio
	c.tessTol = 0.25 / devicePixelRatio
	c.distTol = 0.01 / devicePixelRatio
	c.fringeWidth = 1.0 / devicePixelRatio
	c.path.SetTolerances(c.tessTol, c.distTol)
	c.stroker = NewStroker(c.tessTol, c.fringeWidth)

	c.batch.reset()
	c.paints.reset()
	c.states = newStateStack(c.cfg.MaxStateStackSize)
	c.states.resetScissor(w, h)
	c.clip.resetClip()
	c.pathBuilt = false
}

// CancelFrame discards everything recorded since BeginFrame without
// submitting it to the backend.
func (c *Context) CancelFrame() {
	c.batch.reset()
	c.paints.reset()
}

// EndFrame uploads the font atlas if glyphs were rasterized this frame and
// submits the accumulated draw/clip command streams to the backend.
func (c *Context) EndFrame() error {
	if !c.states.balanced() {
		logger().Warn("vg: pushState/popState unbalanced at end of frame")
	}
	c.flushFontAtlasIfDirty()
	fr := newFrameRenderer(c.backend, c.paints, c.images, c.viewID, c.canvasW, c.canvasH, c.devicePixelRatio, c.debug)
	return fr.submit(c.batch)
}

func (c *Context) flushFontAtlasIfDirty() {
	rect, ok := c.fonts.FlushFontAtlasImage()
	if !ok {
		return
	}
	x, y, w, h := rect[0], rect[1], rect[2]-rect[0], rect[3]-rect[1]
	if w <= 0 || h <= 0 {
		return
	}
	data, stride, _ := c.fonts.GetFontAtlasImage()
	sub := extractSubRect(data, stride, x, y, w, h)
	if err := c.images.update(c.fontAtlas, x, y, w, h, sub); err != nil {
		logger().Warn("vg: font atlas upload failed", "error", err)
	}
}

// extractSubRect copies the [x,y,w,h) window out of a row-major byte image
// of the given stride, since Backend.UpdateTexture expects tightly packed
// pixels for just the dirty sub-rectangle rather than the whole atlas.
func extractSubRect(data []byte, stride, x, y, w, h int) []byte {
	out := make([]byte, w*h)
	for row := 0; row < h; row++ {
		srcOff := (y+row)*stride + x
		copy(out[row*w:row*w+w], data[srcOff:srcOff+w])
	}
	return out
}

// Path construction — direct passthroughs to Path; BeginPath additionally
// drops the cached transformed-vertex set from the previous path.

func (c *Context) BeginPath() {
	c.path.Reset()
	c.pathBuilt = false
}

func (c *Context) MoveTo(x, y float32)                         { c.path.MoveTo(x, y) }
func (c *Context) LineTo(x, y float32)                         { c.path.LineTo(x, y) }
func (c *Context) BezierTo(c1x, c1y, c2x, c2y, x, y float32)    { c.path.BezierTo(c1x, c1y, c2x, c2y, x, y) }
func (c *Context) QuadTo(cx, cy, x, y float32)                  { c.path.QuadTo(cx, cy, x, y) }
func (c *Context) ArcTo(x1, y1, x2, y2, radius float32)         { c.path.ArcTo(x1, y1, x2, y2, radius) }
func (c *Context) Arc(cx, cy, r, a0, a1 float32, dir Direction) { c.path.Arc(cx, cy, r, a0, a1, dir) }
func (c *Context) Rect(x, y, w, h float32)                      { c.path.Rect(x, y, w, h) }
func (c *Context) RoundedRect(x, y, w, h, r float32)             { c.path.RoundedRect(x, y, w, h, r) }
func (c *Context) RoundedRectVarying(x, y, w, h, radTL, radTR, radBR, radBL float32) {
	c.path.RoundedRectVarying(x, y, w, h, radTL, radTR, radBR, radBL)
}
func (c *Context) Circle(cx, cy, r float32)       { c.path.Circle(cx, cy, r) }
func (c *Context) Ellipse(cx, cy, rx, ry float32) { c.path.Ellipse(cx, cy, rx, ry) }
func (c *Context) Polyline(pts [][2]float32)      { c.path.Polyline(pts) }

// DegToRad and RadToDeg convert between the degree angles callers commonly
// work in and the radians Arc/ArcTo expect.
func DegToRad(deg float32) float32 { return deg / 180.0 * PI }
func RadToDeg(rad float32) float32 { return rad / PI * 180.0 }
func (c *Context) ClosePath()                     { c.path.ClosePath() }
func (c *Context) PathWinding(w Winding)          { c.path.PathWinding(w) }

// ensureTransformed lazily transforms every sub-path's points by the
// current matrix, once per BeginPath cycle, and caches the result so
// multiple Fill/Stroke calls against the same path don't repeat the work.
func (c *Context) ensureTransformed() [][][2]float32 {
	if c.pathBuilt {
		return c.transformed
	}
	xform := c.states.top().xform
	subs := c.path.SubPaths()
	out := make([][][2]float32, len(subs))
	for i, sp := range subs {
		pts := make([][2]float32, sp.count)
		for j := 0; j < sp.count; j++ {
			x, y := c.path.PointAt(sp.first + j)
			tx, ty := xform.TransformPoint(x, y)
			pts[j] = [2]float32{tx, ty}
		}
		out[i] = pts
	}
	c.transformed = out
	c.pathBuilt = true
	return out
}

func (c *Context) currentScissor() [4]float32 {
	s := c.states.top()
	if !s.hasScissor {
		return [4]float32{0, 0, c.canvasW, c.canvasH}
	}
	return s.scissor
}

func (c *Context) drawTypeFor(kind paintKind, handle Handle) (DrawCommandType, Handle) {
	switch kind {
	case paintGradientKind:
		return DrawColorGradient, handle
	case paintPatternKind:
		return DrawImagePattern, handle
	default:
		return DrawTextured, c.fontAtlas
	}
}

// colorizeMesh writes mesh.Colors (and, for solid colors, mesh.UVs) for one
// tessellated mesh about to enter a draw command.
//
// Gradient and image-pattern draws go through the fragment shader's
// coverage-mask branch, which reads the stroker's tcoord fringe encoding
// directly; the vertex color there only needs to carry the uniform overall
// alpha (globalAlpha × the asymmetric stroke-width correction, folded into
// effAlpha by the caller), broadcast as one color for the whole mesh.
//
// Solid colors draw through the textured branch instead (so a fill and a
// glyph share one shader), which samples real UVs rather than computing
// coverage from tcoord — so the per-vertex antialiasing fringe the stroker
// encoded in UV has to be baked into vertex alpha here, and the UV
// overwritten to the font atlas's always-opaque white pixel.
func (c *Context) colorizeMesh(m *Mesh, kind paintKind, color Color, effAlpha float32) {
	if kind != paintColor {
		m.Colors = []uint32{RGBAf(1, 1, 1, effAlpha).PackedRGBA8()}
		return
	}
	whiteU, whiteV := c.fonts.GetWhitePixelUV()
	colors := make([]uint32, len(m.Positions))
	for i := range m.Positions {
		coverage := float32(1)
		if i < len(m.UVs) {
			uv := m.UVs[i]
			coverage = clamp(1-absF(uv[0]*2-1), 0, 1) * clamp(uv[1], 0, 1)
		}
		vc := color
		vc.A = clamp(effAlpha*coverage, 0, 1)
		colors[i] = vc.PackedRGBA8()
	}
	m.Colors = colors
	if len(m.UVs) != len(m.Positions) {
		m.UVs = make([][2]float32, len(m.Positions))
	}
	for i := range m.UVs {
		m.UVs[i] = [2]float32{whiteU, whiteV}
	}
}

// buildFillMeshes tessellates the current path per §4.5's dispatch: a
// single sub-path goes through the cheap convex fan, anything with more
// than one sub-path is accumulated as contours and resolved by the
// concave builder, logging and skipping any contour too degenerate to fan.
func (c *Context) buildFillMeshes(aa bool) []Mesh {
	subs := c.path.SubPaths()
	transformed := c.ensureTransformed()
	if len(subs) == 0 {
		return nil
	}
	if len(subs) == 1 {
		pts := transformed[0]
		if len(pts) < 3 {
			return nil
		}
		return []Mesh{c.stroker.ConvexFill(pts, aa)}
	}
	builder := c.stroker.ConcaveFillBegin(aa)
	for _, pts := range transformed {
		if len(pts) < 3 {
			continue
		}
		if err := builder.AddContour(pts); err != nil {
			logger().Warn("vg: concave fill contour rejected", "error", err)
		}
	}
	return builder.End()
}

func (c *Context) buildStrokeMeshes(width float32, isThin, aa bool) []Mesh {
	subs := c.path.SubPaths()
	transformed := c.ensureTransformed()
	var meshes []Mesh
	for i, pts := range transformed {
		if len(pts) < 2 {
			continue
		}
		closed := subs[i].closed
		if isThin {
			meshes = append(meshes, c.stroker.PolylineStrokeAAThin(pts, closed))
			continue
		}
		meshes = append(meshes, c.stroker.PolylineStroke(pts, closed, width, defaultStrokeCap, defaultStrokeJoin, defaultMiterLimit, aa))
	}
	return meshes
}

// meshesForFill/meshesForStroke are the one place cache replay/record
// threads into tessellation: replaying pulls the next recorded command's
// meshes (re-transformed into the current matrix) instead of calling the
// stroker at all; recording tessellates normally and additionally stashes
// the result, in the transform's local frame, for future replays.
func (c *Context) meshesForFill(aa bool) []Mesh {
	if c.cacheReplay != nil {
		return c.nextCachedMeshes()
	}
	meshes := c.buildFillMeshes(aa)
	if c.cacheRecord != nil {
		c.cacheRecord.addCommand(c.states.top().xform.Inverse(), meshes...)
	}
	return meshes
}

func (c *Context) meshesForStroke(width float32, isThin, aa bool) []Mesh {
	if c.cacheReplay != nil {
		return c.nextCachedMeshes()
	}
	meshes := c.buildStrokeMeshes(width, isThin, aa)
	if c.cacheRecord != nil {
		c.cacheRecord.addCommand(c.states.top().xform.Inverse(), meshes...)
	}
	return meshes
}

func (c *Context) nextCachedMeshes() []Mesh {
	if c.cacheReplay == nil || c.cacheCursor >= len(c.cacheReplay.commands) {
		return nil
	}
	cmd := c.cacheReplay.commands[c.cacheCursor]
	c.cacheCursor++
	delta := cmd.invTransform.Multiply(c.states.top().xform)
	out := make([]Mesh, cmd.numMeshes)
	for i := 0; i < cmd.numMeshes; i++ {
		out[i] = transformMesh(c.cacheReplay.meshes[cmd.firstMesh+i].mesh, delta)
	}
	return out
}

func (c *Context) emitClipMeshes(meshes []Mesh) error {
	scissor := c.currentScissor()
	black := RGBA(0, 0, 0, 255).PackedRGBA8()
	for _, m := range meshes {
		m.Colors = []uint32{black}
		cmd, fv, fi := c.batch.allocClipCommand(m.NumVertices(), m.NumIndices(), scissor)
		if err := c.batch.appendMesh(cmd.VertexBuffer, fv, fi, m); err != nil {
			return err
		}
	}
	return nil
}

// fillInternal is the single body behind FillColor/FillGradient/
// FillImagePattern: kind only changes the draw type and how colorizeMesh
// fills in vertex data, everything else — clip-recording diversion,
// lazy path transform, cache threading, alpha short-circuit, batching — is
// shared.
func (c *Context) fillInternal(kind paintKind, handle Handle, color Color, flags FillFlags) error {
	if c.clip.isRecording() {
		if kind != paintColor {
			return ErrClipRequiresColor
		}
		return c.emitClipMeshes(c.buildFillMeshes(false))
	}

	aa := flags&FillAA != 0 || c.createFlags&AntiAlias != 0
	globalAlpha := c.states.top().globalAlpha
	effAlpha := color.A * globalAlpha

	meshes := c.meshesForFill(aa)
	if effAlpha <= 0 && c.cacheRecord == nil {
		return nil
	}

	scissor := c.currentScissor()
	drawType, drawHandle := c.drawTypeFor(kind, handle)
	for _, m := range meshes {
		c.colorizeMesh(&m, kind, color, effAlpha)
		cmd, fv, fi := c.batch.allocDrawCommand(m.NumVertices(), m.NumIndices(), drawType, drawHandle, scissor, c.clip.current)
		if err := c.batch.appendMesh(cmd.VertexBuffer, fv, fi, m); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) FillColor(col Color, flags FillFlags) error {
	return c.fillInternal(paintColor, InvalidHandle, col, flags)
}

func (c *Context) FillGradient(g Handle, flags FillFlags) error {
	if _, ok := c.paints.gradient(g); !ok {
		return ErrInvalidHandle
	}
	return c.fillInternal(paintGradientKind, g, RGBAf(1, 1, 1, 1), flags)
}

func (c *Context) FillImagePattern(ip Handle, flags FillFlags) error {
	if _, ok := c.paints.imagePattern(ip); !ok {
		return ErrInvalidHandle
	}
	return c.fillInternal(paintPatternKind, ip, RGBAf(1, 1, 1, 1), flags)
}

// strokeInternal is FillInternal's stroke-side twin. It additionally
// resolves the scaled stroke width, the sub-pixel "thin stroke" clamp, and
// the asymmetric coverage correction applied in the isThin branches of the
// paint switch below.
func (c *Context) strokeInternal(kind paintKind, handle Handle, width float32, color Color, flags StrokeFlags) error {
	avgScale := c.states.top().avgScale
	scaledWidth := width
	if flags&StrokeFixedWidth == 0 {
		scaledWidth = width * avgScale
	}
	scaledWidth = max(scaledWidth, float32(0))
	isThin := scaledWidth <= c.fringeWidth

	if c.clip.isRecording() {
		if kind != paintColor {
			return ErrClipRequiresColor
		}
		geomWidth := scaledWidth
		if isThin {
			geomWidth = c.fringeWidth
		}
		return c.emitClipMeshes(c.buildStrokeMeshes(geomWidth, isThin, false))
	}

	ratio := float32(0)
	if c.fringeWidth > 0 {
		ratio = clamp(scaledWidth/c.fringeWidth, 0, 1)
	}
	correction := ratio * ratio

	var alphaMul float32
	switch kind {
	case paintPatternKind:
		// Applies the sub-pixel coverage correction to thick strokes and
		// leaves thin ones at full alpha — the opposite condition from the
		// color/gradient branch just below. Carried forward unreconciled.
		if isThin {
			alphaMul = 1
		} else {
			alphaMul = correction
		}
	default:
		// Applies the sub-pixel coverage correction to thin strokes and
		// leaves thick ones at full alpha — the opposite condition from the
		// image-pattern branch above. Carried forward unreconciled.
		if isThin {
			alphaMul = correction
		} else {
			alphaMul = 1
		}
	}

	aa := flags&StrokeAA != 0 || c.createFlags&AntiAlias != 0
	globalAlpha := c.states.top().globalAlpha
	effAlpha := color.A * globalAlpha * alphaMul

	geomWidth := scaledWidth
	if isThin {
		geomWidth = c.fringeWidth
	}
	meshes := c.meshesForStroke(geomWidth, isThin, aa)
	if effAlpha <= 0 && c.cacheRecord == nil {
		return nil
	}

	scissor := c.currentScissor()
	drawType, drawHandle := c.drawTypeFor(kind, handle)
	for _, m := range meshes {
		c.colorizeMesh(&m, kind, color, effAlpha)
		cmd, fv, fi := c.batch.allocDrawCommand(m.NumVertices(), m.NumIndices(), drawType, drawHandle, scissor, c.clip.current)
		if err := c.batch.appendMesh(cmd.VertexBuffer, fv, fi, m); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) StrokeColor(width float32, col Color, flags StrokeFlags) error {
	return c.strokeInternal(paintColor, InvalidHandle, width, col, flags)
}

func (c *Context) StrokeGradient(width float32, g Handle, flags StrokeFlags) error {
	if _, ok := c.paints.gradient(g); !ok {
		return ErrInvalidHandle
	}
	return c.strokeInternal(paintGradientKind, g, width, RGBAf(1, 1, 1, 1), flags)
}

func (c *Context) StrokeImagePattern(width float32, ip Handle, flags StrokeFlags) error {
	if _, ok := c.paints.imagePattern(ip); !ok {
		return ErrInvalidHandle
	}
	return c.strokeInternal(paintPatternKind, ip, width, RGBAf(1, 1, 1, 1), flags)
}

// Clip recording.

func (c *Context) BeginClip(rule ClipRule) error {
	if err := c.clip.beginClip(rule, len(c.batch.clipCommands)); err != nil {
		return err
	}
	c.batch.forceNewClipCommand = true
	return nil
}

func (c *Context) EndClip() {
	c.clip.endClip(len(c.batch.clipCommands))
}

func (c *Context) ResetClip() {
	c.clip.resetClip()
}

// Gradient/pattern creation.

func (c *Context) CreateLinearGradient(sx, sy, ex, ey float32, icol, ocol Color) Handle {
	return c.addGradient(linearGradientSpace(sx, sy, ex, ey, icol, ocol))
}

func (c *Context) CreateBoxGradient(x, y, w, h, r, f float32, icol, ocol Color) Handle {
	return c.addGradient(boxGradientSpace(x, y, w, h, r, f, icol, ocol))
}

func (c *Context) CreateRadialGradient(cx, cy, inr, outr float32, icol, ocol Color) Handle {
	return c.addGradient(radialGradientSpace(cx, cy, inr, outr, icol, ocol))
}

func (c *Context) addGradient(space paintSpace) Handle {
	g := newGradient(space, c.states.top().xform)
	h, err := c.paints.addGradient(g)
	if err != nil {
		logger().Warn("vg: gradient allocation failed", "error", err)
		return InvalidHandle
	}
	return h
}

func (c *Context) CreateImagePattern(cx, cy, w, h, angle float32, img Handle) Handle {
	if _, ok := c.images.get(img); !ok {
		logger().Warn("vg: image pattern created from invalid image handle")
		return InvalidHandle
	}
	ip := newImagePattern(cx, cy, w, h, angle, img, c.states.top().xform)
	handle, err := c.paints.addImagePattern(ip)
	if err != nil {
		logger().Warn("vg: image pattern allocation failed", "error", err)
		return InvalidHandle
	}
	return handle
}

// CreateImagePatternFromImage resamples an arbitrary host image into a
// power-of-two RGBA texture and wraps it in an image pattern in one call.
// Magnifying uses Catmull-Rom for sharper edges; minifying uses bilinear,
// which is cheaper and resists aliasing better at that end.
func (c *Context) CreateImagePatternFromImage(img image.Image, cx, cy, w, h, angle float32) (Handle, error) {
	bounds := img.Bounds()
	dstW := nearestPow2(bounds.Dx())
	dstH := nearestPow2(bounds.Dy())
	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))

	scaler := draw.BiLinear
	if dstW >= bounds.Dx() && dstH >= bounds.Dy() {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	handle, err := c.images.create(TextureRGBA, dstW, dstH, ImagePreMultiplied, dst.Pix)
	if err != nil {
		return InvalidHandle, err
	}
	return c.CreateImagePattern(cx, cy, w, h, angle, handle), nil
}

// Image CRUD.

func (c *Context) CreateImage(kind TextureKind, w, h int, flags ImageFlags, data []byte) (Handle, error) {
	return c.images.create(kind, w, h, flags, data)
}

func (c *Context) UpdateImage(h Handle, x, y, w, hgt int, data []byte) error {
	return c.images.update(h, x, y, w, hgt, data)
}

func (c *Context) DeleteImage(h Handle) error {
	return c.images.delete(h)
}

func (c *Context) ImageSize(h Handle) (w, h2 int, ok bool) {
	return c.images.size(h)
}

// Font convenience. MaxFonts is enforced here rather than inside FontSystem
// itself, since fontstashmini's own font table has no cap of its own.

func (c *Context) CreateFontFromMemory(name string, data []byte) (int, error) {
	if c.fontCount >= c.cfg.MaxFonts {
		logger().Warn("vg: font cap reached", "max", c.cfg.MaxFonts)
		return -1, ErrResourceExhausted
	}
	id := c.fonts.AddFontFromMemory(name, data)
	if id < 0 {
		return id, ErrInvalidArgument
	}
	c.fontCount++
	return id, nil
}

func (c *Context) FontByName(name string) int { return c.fonts.FontByName(name) }

// State stack. Popping forces the next draw/clip commands to start a fresh
// batch, since the restored scissor or transform may differ from whatever
// the popped state last submitted under; pushing duplicates the current
// state unchanged, so no force is needed until something after it actually
// changes.

func (c *Context) PushState() error {
	return c.states.push()
}

func (c *Context) PopState() error {
	if err := c.states.pop(); err != nil {
		return err
	}
	c.batch.forceNewDrawCommand = true
	c.batch.forceNewClipCommand = true
	return nil
}

func (c *Context) SetGlobalAlpha(alpha float32) { c.states.setGlobalAlpha(alpha) }

// Scissor. Every mutator forces a fresh draw/clip batch for the same reason
// PopState does: the active scissor rect is part of what allocDrawCommand
// merges on.

func (c *Context) ResetScissor() {
	c.states.resetScissor(c.canvasW, c.canvasH)
	c.batch.forceNewDrawCommand = true
	c.batch.forceNewClipCommand = true
}

func (c *Context) SetScissor(x, y, w, h float32) {
	c.states.setScissor(x, y, w, h, c.canvasW, c.canvasH)
	c.batch.forceNewDrawCommand = true
	c.batch.forceNewClipCommand = true
}

func (c *Context) IntersectScissor(x, y, w, h float32) bool {
	ok := c.states.intersectScissor(x, y, w, h, c.canvasW, c.canvasH)
	c.batch.forceNewDrawCommand = true
	c.batch.forceNewClipCommand = true
	return ok
}

// Transforms.

func (c *Context) TransformIdentity()                       { c.states.setTransform(IdentityMatrix()) }
func (c *Context) TransformScale(sx, sy float32)             { c.states.scale(sx, sy) }
func (c *Context) TransformTranslate(tx, ty float32)         { c.states.translate(tx, ty) }
func (c *Context) TransformRotate(angle float32)             { c.states.rotate(angle) }
func (c *Context) TransformSkewX(angle float32)              { c.states.skewX(angle) }
func (c *Context) TransformSkewY(angle float32)              { c.states.skewY(angle) }
func (c *Context) TransformMultiply(m TransformMatrix, pre bool) { c.states.multiply(m, pre) }

// SetViewBox rescales and translates the current transform so the
// rectangle (x,y,w,h) maps onto the whole canvas: a scale by
// canvas/viewBox, followed by a translate by (-x,-y) in that
// already-scaled basis.
func (c *Context) SetViewBox(x, y, w, h float32) {
	c.states.scale(c.canvasW/w, c.canvasH/h)
	c.states.translate(-x, -y)
}

// CurrentTransform returns the active state's transform, e.g. to convert a
// pointer event's canvas-space coordinates back into path space.
func (c *Context) CurrentTransform() TransformMatrix { return c.states.top().xform }

// Text lays str out with the FontSystem and draws its glyph quads through
// the same textured draw path solid-color fills use, modulated by the
// current global alpha. Ignored while recording a clip mask: glyph
// coverage isn't the solid-color geometry clip recording requires.
func (c *Context) Text(cfg TextConfig, x, y float32, str string) {
	if c.clip.isRecording() {
		return
	}
	mesh := c.fonts.Text(cfg, x, y, str)
	if len(mesh.Quads) == 0 {
		return
	}
	c.flushFontAtlasIfDirty()

	xform := c.states.top().xform
	globalAlpha := c.states.top().globalAlpha
	vc := cfg.Color
	vc.A *= globalAlpha
	color := vc.PackedRGBA8()

	positions := make([][2]float32, 0, len(mesh.Quads)*4)
	uvs := make([][2]float32, 0, len(mesh.Quads)*4)
	indices := make([]uint16, 0, len(mesh.Quads)*6)
	for _, q := range mesh.Quads {
		base := uint16(len(positions))
		x0, y0 := xform.TransformPoint(q.X0, q.Y0)
		x1, y1 := xform.TransformPoint(q.X1, q.Y0)
		x2, y2 := xform.TransformPoint(q.X1, q.Y1)
		x3, y3 := xform.TransformPoint(q.X0, q.Y1)
		positions = append(positions, [2]float32{x0, y0}, [2]float32{x1, y1}, [2]float32{x2, y2}, [2]float32{x3, y3})
		uvs = append(uvs, [2]float32{q.S0, q.T0}, [2]float32{q.S1, q.T0}, [2]float32{q.S1, q.T1}, [2]float32{q.S0, q.T1})
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	m := Mesh{Positions: positions, UVs: uvs, Colors: []uint32{color}, Indices: indices}
	scissor := c.currentScissor()
	cmd, fv, fi := c.batch.allocDrawCommand(m.NumVertices(), m.NumIndices(), DrawTextured, c.fontAtlas, scissor, c.clip.current)
	if err := c.batch.appendMesh(cmd.VertexBuffer, fv, fi, m); err != nil {
		logger().Warn("vg: text draw failed", "error", err)
	}
}

// TextBox word-wraps str to breakWidth and draws it one row at a time,
// advancing y by the font's line height between rows; each row is drawn
// left-aligned internally, with cfg's horizontal alignment instead
// controlling that row's starting x within the box.
func (c *Context) TextBox(cfg TextConfig, x, y, breakWidth float32, str string) {
	if c.clip.isRecording() {
		return
	}
	lineHeight := c.fonts.GetLineHeight(cfg)
	rows := c.fonts.TextBreakLines(cfg, []rune(str), breakWidth)

	rowCfg := cfg
	rowCfg.Align = (cfg.Align &^ (AlignLeft | AlignCenter | AlignRight)) | AlignLeft

	for _, row := range rows {
		rowX := x
		switch {
		case cfg.Align&AlignCenter != 0:
			rowX = x + (breakWidth-row.Width)*0.5
		case cfg.Align&AlignRight != 0:
			rowX = x + breakWidth - row.Width
		}
		c.Text(rowCfg, rowX, y, string(row.Runes))
		y += lineHeight
	}
}

// IndexedTriList draws a raw indexed triangle list directly, bypassing
// path construction and the stroker entirely: positions are in the
// current transform's local space and get carried through it like any
// other path geometry. uvs may be nil, falling back to the font atlas's
// white pixel the way a solid-color fill does; colors must be either one
// broadcast entry or one per vertex. An invalid img handle falls back to
// the font atlas, same as a solid-color draw's handle.
func (c *Context) IndexedTriList(positions [][2]float32, uvs [][2]float32, colors []Color, indices []uint16, img Handle) error {
	if c.clip.isRecording() {
		return ErrClipRequiresColor
	}

	drawHandle := img
	if _, ok := c.images.get(img); !ok {
		drawHandle = c.fontAtlas
	}

	xform := c.states.top().xform
	transformed := make([][2]float32, len(positions))
	for i, p := range positions {
		tx, ty := xform.TransformPoint(p[0], p[1])
		transformed[i] = [2]float32{tx, ty}
	}

	meshUVs := uvs
	if len(meshUVs) != len(positions) {
		whiteU, whiteV := c.fonts.GetWhitePixelUV()
		meshUVs = make([][2]float32, len(positions))
		for i := range meshUVs {
			meshUVs[i] = [2]float32{whiteU, whiteV}
		}
	}

	packed := make([]uint32, len(colors))
	for i, col := range colors {
		packed[i] = col.PackedRGBA8()
	}

	m := Mesh{Positions: transformed, UVs: meshUVs, Colors: packed, Indices: indices}
	scissor := c.currentScissor()
	cmd, fv, fi := c.batch.allocDrawCommand(m.NumVertices(), m.NumIndices(), DrawTextured, drawHandle, scissor, c.clip.current)
	return c.batch.appendMesh(cmd.VertexBuffer, fv, fi, m)
}

// InvalidateCommandListCache drops whatever tessellation the shape cache
// has stored for cl. The cache map holds cl itself as a key, so a
// Cacheable list that's submitted once and then discarded by its owner
// otherwise stays reachable (and its cached meshes with it) for as long as
// this Context lives; callers that are done with a CommandList for good
// should call this before dropping their own reference to it.
func (c *Context) InvalidateCommandListCache(cl *CommandList) {
	c.shapes.invalidate(cl)
}

// SubmitCommandList replays a recorded CommandList. Cacheable lists consult
// the shape cache keyed by the current average scale: a hit skips Path and
// Stroker entirely, pulling pre-tessellated meshes through
// meshesForFill/meshesForStroke instead; a miss tessellates normally while
// additionally recording each call's output for next time.
func (c *Context) SubmitCommandList(cl *CommandList) error {
	gradBase, patternBase := c.paints.nextGradientID(), c.paints.nextImagePatternID()
	if cl.flags&Cacheable == 0 {
		return c.interp.Submit(c, cl, gradBase, patternBase)
	}

	avgScale := c.states.top().avgScale
	if cache := c.shapes.get(cl, avgScale); cache != nil {
		prevReplay, prevCursor := c.cacheReplay, c.cacheCursor
		c.cacheReplay, c.cacheCursor = cache, 0
		err := c.interp.Submit(c, cl, gradBase, patternBase)
		c.cacheReplay, c.cacheCursor = prevReplay, prevCursor
		return err
	}

	cache := c.shapes.put(cl, avgScale)
	prevRecord := c.cacheRecord
	c.cacheRecord = cache
	err := c.interp.Submit(c, cl, gradBase, patternBase)
	c.cacheRecord = prevRecord
	return err
}
