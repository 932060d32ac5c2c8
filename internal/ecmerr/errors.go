// Package ecmerr defines the sentinel errors surfaced by the ECM2 codec core.
//
// The codec never panics on malformed input; every failure mode named in
// spec.md's error handling design is one of these sentinels, wrapped with
// fmt.Errorf("...: %w", err) at the call site and inspectable with errors.Is,
// the same pattern the chd package uses for its own sentinel errors.
package ecmerr

import "errors"

// MaxIndexEntries is the sanity ceiling on decode: a CD-ROM of roughly 800MB
// holds at most ~356,659 sectors, so a container declaring more sectors than
// this is treated as damaged rather than trusted.
const MaxIndexEntries = 400_000

var (
	// ErrNoEnoughInputData indicates the input buffer is smaller than the
	// declared sector count or the per-sector size oracle requires.
	ErrNoEnoughInputData = errors.New("ecm2: not enough input data")

	// ErrNoEnoughOutputBufferSpace indicates the output buffer cannot hold the
	// precomputed total encoded/decoded size.
	ErrNoEnoughOutputBufferSpace = errors.New("ecm2: not enough output buffer space")

	// ErrNoEnoughOutputIndexSpace indicates the caller-supplied index capacity
	// is smaller than the input sector count.
	ErrNoEnoughOutputIndexSpace = errors.New("ecm2: not enough output index space")

	// ErrWrongIndexData indicates the decoder received an empty or
	// length-mismatched sector index.
	ErrWrongIndexData = errors.New("ecm2: wrong index data")

	// ErrIndexTooLarge indicates the declared sector count exceeds
	// MaxIndexEntries and is therefore almost certainly corrupt.
	ErrIndexTooLarge = errors.New("ecm2: index entry count exceeds maximum")

	// ErrUnknown marks an internal invariant violation that should be
	// unreachable; treated as fatal by callers.
	ErrUnknown = errors.New("ecm2: internal invariant violation")

	// ErrBadMagic indicates the container's leading bytes do not match the
	// ECM2 magic sequence.
	ErrBadMagic = errors.New("ecm2: bad container magic")

	// ErrBadPackMode indicates an index_pack_mode outside {1,2,3,4}.
	ErrBadPackMode = errors.New("ecm2: invalid index pack mode")
)
