package vg

// Handle is the opaque reference type returned for every registry-backed
// resource: images, gradients, and image patterns. A handle
// created while recording a CommandList carries HandleLocal and is numbered
// 0..N-1 within that list; the interpreter remaps it to a frame-global id
// at playback time (see interpreter.go).
type Handle struct {
	ID    uint16
	Flags HandleFlags
}

// InvalidHandle is returned whenever a registry allocation fails, e.g. a
// configured cap (maxGradients, maxImages, ...) has been reached.
var InvalidHandle = Handle{ID: invalidHandleID}

// Valid reports whether h refers to a real registry slot.
func (h Handle) Valid() bool {
	return h.ID != invalidHandleID
}

// IsLocal reports whether h was allocated while recording a CommandList and
// still needs remapping before it can be dereferenced against the frame's
// registries.
func (h Handle) IsLocal() bool {
	return h.Flags&HandleLocal != 0
}

// localHandle builds a command-list-local handle numbered id within the
// list's own local gradient/pattern id space.
func localHandle(id uint16) Handle {
	return Handle{ID: id, Flags: HandleLocal}
}
