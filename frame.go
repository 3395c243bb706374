package vg

// frameRenderer drives one frame's GPU submission: uploading dirty vertex/
// index buffers, replaying the clip-command stream to (re)write stencil
// regions as draw commands cross into a different ClipState, and issuing
// one Backend.Submit per DrawCommand. It owns no state across frames; a
// Context constructs one value of it per Context.EndFrame call.
type frameRenderer struct {
	backend Backend
	paints  *paintRegistry
	images  *imageRegistry

	viewID            int
	canvasW, canvasH  float32
	devicePixelRatio  float32
	debug             bool
}

func newFrameRenderer(backend Backend, paints *paintRegistry, images *imageRegistry, viewID int, canvasW, canvasH, dpr float32, debug bool) *frameRenderer {
	return &frameRenderer{
		backend:          backend,
		paints:           paints,
		images:           images,
		viewID:           viewID,
		canvasW:          canvasW,
		canvasH:          canvasH,
		devicePixelRatio: dpr,
		debug:            debug,
	}
}

// uploadBuffers pushes every dirty VertexBuffer and the shared IndexBuffer
// to the backend, creating their GPU-side dynamic buffers the first time
// each is touched and updating them in place afterward.
func (fr *frameRenderer) uploadBuffers(b *batcher) {
	for _, vb := range b.vertexBuffers {
		if !vb.gpuCreated {
			vb.gpuBuf = fr.backend.CreateVertexBuffer(vb.capacity)
			vb.gpuCreated = true
		}
		if vb.dirty && vb.count > 0 {
			fr.backend.UpdateVertexBuffer(vb.gpuBuf, 0, vb.positions(), vb.uvs(), vb.colors(), nil)
			vb.dirty = false
		}
	}
	ib := b.indexBuffer
	if !ib.gpuCreated {
		ib.gpuBuf = fr.backend.CreateIndexBuffer(len(ib.slab.indices))
		ib.gpuCreated = true
	}
	if ib.count > 0 {
		fr.backend.UpdateIndexBuffer(ib.gpuBuf, 0, ib.indices(), nil)
	}
}

// submit replays the batcher's clip and draw command streams against the
// backend in submission order, per §8's ordering guarantee: batching never
// reorders commands, only merges adjacent compatible ones, so a single
// linear pass here is sufficient.
func (fr *frameRenderer) submit(b *batcher) error {
	fr.uploadBuffers(b)
	fr.backend.ClearStencilBuffer()

	prevScissor := [4]uint16{0, 0, uint16(fr.canvasW), uint16(fr.canvasH)}
	fr.backend.SetScissor(prevScissor[0], prevScissor[1], prevScissor[2], prevScissor[3])

	prevClipFirstCmdID := -1
	var stencilRef uint8
	var stencilRule ClipRule
	stencilActive := false
	nextStencilValue := uint8(1)
	stencilOverflowWarned := false

	for i := range b.drawCommands {
		cmd := &b.drawCommands[i]
		cs := cmd.Clip

		key := -1
		if cs.Active {
			key = cs.FirstCmdID
		}
		if key != prevClipFirstCmdID {
			prevClipFirstCmdID = key
			if cs.Active && cs.NumCmds > 0 {
				if fr.debug && nextStencilValue > maxStencilRegion {
					panic(ErrClipOverflow)
				}
				if nextStencilValue <= maxStencilRegion {
					fr.renderClipPass(b, cs, nextStencilValue, &prevScissor)
					stencilRef = nextStencilValue
					stencilRule = cs.Rule
					stencilActive = true
					nextStencilValue++
				} else {
					stencilActive = false
					if !stencilOverflowWarned {
						logger().Warn("vg: stencil region cap exceeded, clip disabled for remaining commands", "max", maxStencilRegion)
						stencilOverflowWarned = true
					}
				}
			} else {
				stencilActive = false
			}
		}

		if cmd.Scissor != prevScissor {
			prevScissor = cmd.Scissor
			fr.setHardwareScissor(prevScissor)
		}

		if stencilActive {
			fr.backend.SetStencil(stencilRef, false, stencilRule)
		} else {
			fr.backend.DisableStencilTest()
		}

		if err := fr.submitDrawCommand(b, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (fr *frameRenderer) setHardwareScissor(s [4]uint16) {
	dpr := fr.devicePixelRatio
	fr.backend.SetScissor(
		uint16(float32(s[0])*dpr),
		uint16(float32(s[1])*dpr),
		uint16(float32(s[2])*dpr),
		uint16(float32(s[3])*dpr),
	)
}

// renderClipPass writes ref into the stencil buffer wherever the clip
// region's meshes land, replacing whatever value was there before —
// REPLACE rather than INCR/DECR, since clip regions in this design never
// nest within the same draw-command run (beginClip rejects nesting, see
// clip.go), so there is no overlap count to accumulate.
func (fr *frameRenderer) renderClipPass(b *batcher, cs ClipState, ref uint8, prevScissor *[4]uint16) {
	fr.backend.BindProgram(DrawClip)
	fr.backend.SetUniformViewSize(fr.canvasW*fr.devicePixelRatio, fr.canvasH*fr.devicePixelRatio)
	for i := cs.FirstCmdID; i < cs.FirstCmdID+cs.NumCmds; i++ {
		clipCmd := &b.clipCommands[i]
		if clipCmd.Scissor != *prevScissor {
			*prevScissor = clipCmd.Scissor
			fr.setHardwareScissor(*prevScissor)
		}
		fr.backend.SetStencil(ref, true, ClipIn)
		fr.backend.Submit(fr.viewID, vbHandle(b, clipCmd.VertexBuffer), b.indexBuffer.gpuBuf, clipCmd.FirstIndex, clipCmd.NumIndices, 0)
	}
}

func vbHandle(b *batcher, index int) BufferHandle {
	return b.vertexBuffers[index].gpuBuf
}

// submitDrawCommand resolves the command's paint handle into a FragUniforms
// block (or just a bound texture, for Textured) and issues the draw call
// with premultiplied-alpha blending enabled — every color this renderer
// produces, including glyph-quad vertex colors, is premultiplied before it
// ever reaches a Mesh (see Color.PackedRGBA8).
func (fr *frameRenderer) submitDrawCommand(b *batcher, cmd *DrawCommand) error {
	const blendPremultiplied = 0x1
	const cullBackface = 0x2

	fr.backend.BindProgram(cmd.Type)
	fr.backend.SetUniformViewSize(fr.canvasW*fr.devicePixelRatio, fr.canvasH*fr.devicePixelRatio)

	stateMask := uint32(blendPremultiplied)

	switch cmd.Type {
	case DrawTextured:
		img, ok := fr.images.get(cmd.Handle)
		if !ok {
			return ErrInvalidHandle
		}
		fr.backend.SetUniformTexture(img.tex)
		fr.backend.SetUniformFrag(FragUniforms{TexKind: float32(img.kind), StrokeThr: -1})
	case DrawColorGradient:
		g, ok := fr.paints.gradient(cmd.Handle)
		if !ok {
			return ErrInvalidHandle
		}
		fr.backend.SetUniformFrag(gradientUniforms(g))
	case DrawImagePattern:
		p, ok := fr.paints.imagePattern(cmd.Handle)
		if !ok {
			return ErrInvalidHandle
		}
		img, ok := fr.images.get(p.image)
		if !ok {
			return ErrInvalidHandle
		}
		fr.backend.SetUniformTexture(img.tex)
		u := imagePatternUniforms(p)
		u.TexKind = float32(img.kind)
		fr.backend.SetUniformFrag(u)
		stateMask |= cullBackface
	}

	fr.backend.Submit(fr.viewID, vbHandle(b, cmd.VertexBuffer), b.indexBuffer.gpuBuf, cmd.FirstIndex, cmd.NumIndices, stateMask)
	return nil
}

func mat3x3ToPaintMat(m [9]float32) [12]float32 {
	return [12]float32{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
	}
}

// premultipliedVec4 puts c in the same premultiplied form Color.Premultiplied
// produces for every vertex color, so the fragment shader's
// mix(innerCol, outerCol, ...) result is already in the form the
// ONE/ONE_MINUS_SRC_ALPHA blend submitDrawCommand enables expects.
func premultipliedVec4(c Color) [4]float32 {
	r, g, b, a := c.Premultiplied()
	return [4]float32{r, g, b, a}
}

func gradientUniforms(g Gradient) FragUniforms {
	return FragUniforms{
		PaintMat:   mat3x3ToPaintMat(g.inverseMatrix),
		InnerColor: premultipliedVec4(g.innerColor),
		OuterColor: premultipliedVec4(g.outerColor),
		Extent:     [2]float32{g.params[0], g.params[1]},
		Radius:     g.params[2],
		Feather:    g.params[3],
		StrokeMult: 1,
		StrokeThr:  -1,
	}
}

func imagePatternUniforms(p ImagePattern) FragUniforms {
	return FragUniforms{
		PaintMat:   mat3x3ToPaintMat(p.inverseMatrix),
		InnerColor: [4]float32{1, 1, 1, 1},
		Extent:     [2]float32{1, 1},
		StrokeMult: 1,
		StrokeThr:  -1,
	}
}
