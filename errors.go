package vg

import "errors"

// Sentinel errors matching the failure kinds in the error-handling design:
// most are never propagated to callers (they are logged and the offending
// operation is skipped); ErrRecursionLimit is the case a caller can
// legitimately want to distinguish by cause. ErrCommandListOverflow is
// defined but no operation returns it: CommandList buffers grow without a
// cap.
var (
	ErrInvalidHandle        = errors.New("vg: invalid handle")
	ErrResourceExhausted    = errors.New("vg: resource pool exhausted")
	ErrInvalidArgument      = errors.New("vg: invalid argument")
	ErrGeometryFailure      = errors.New("vg: geometry decomposition failed")
	ErrRecursionLimit       = errors.New("vg: command list recursion limit exceeded")
	ErrCommandListOverflow  = errors.New("vg: command list byte buffer exceeded capacity")
	ErrClipOverflow         = errors.New("vg: stencil clip region limit exceeded")
	ErrStateStackUnderflow  = errors.New("vg: popState called with no matching pushState")
	ErrStateStackOverflow   = errors.New("vg: pushState exceeded maxStateStackSize")
	ErrNestedClipRecording  = errors.New("vg: beginClip called while already recording a clip")
	ErrClipRequiresColor    = errors.New("vg: only solid-color fills/strokes are allowed while recording a clip")
)
