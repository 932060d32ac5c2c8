package index

import (
	"fmt"

	"github.com/icza/bitio"
)

// bitCounter is an io.Writer that only counts bytes written, used to size a
// bit-packed encoding without materializing it.
type bitCounter struct {
	n int64
}

func (c *bitCounter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// EstimateBitPackedSize reports how many bytes a bit-precision alternate
// encoding of tags would take: each run is one tag byte followed by its run
// length written in the minimum number of bits needed to hold the largest
// run in the index, rather than the wire format's fixed B-byte field. It is
// a sizing probe only — the mandatory container layout (spec.md §6) always
// uses the byte-aligned (1+B)-byte record from Pack, since decoders must be
// able to seek past the index without bit-level state.
func EstimateBitPackedSize(tags []byte) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}

	runs := collectRuns(tags)
	maxRun := uint64(0)
	for _, r := range runs {
		if r.length > maxRun {
			maxRun = r.length
		}
	}
	runBits := bitsFor(maxRun)

	counter := &bitCounter{}
	w := bitio.NewWriter(counter)
	for _, r := range runs {
		if err := w.WriteByte(r.tag); err != nil {
			return 0, fmt.Errorf("index: bit-pack probe: %w", err)
		}
		if err := w.WriteBits(r.length, runBits); err != nil {
			return 0, fmt.Errorf("index: bit-pack probe: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("index: bit-pack probe: %w", err)
	}
	return counter.n, nil
}

type run struct {
	tag    byte
	length uint64
}

func collectRuns(tags []byte) []run {
	runs := make([]run, 0, len(tags)/2+1)
	cur := run{tag: tags[0], length: 1}
	for _, t := range tags[1:] {
		if t == cur.tag {
			cur.length++
			continue
		}
		runs = append(runs, cur)
		cur = run{tag: t, length: 1}
	}
	runs = append(runs, cur)
	return runs
}

// bitsFor returns the number of bits needed to represent v (minimum 1).
func bitsFor(v uint64) uint8 {
	n := uint8(1)
	for v >= (1 << n) {
		n++
	}
	return n
}
