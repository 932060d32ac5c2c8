// Package index implements the run-length packer/unpacker for the per-sector
// classification index. The index itself is a sequence of one-byte variant
// tags; this package is agnostic to what the tags mean.
package index

import "fmt"

// MaxPackMode is the largest supported run-length byte width.
const MaxPackMode = 4

// MinPackMode is the smallest supported run-length byte width.
const MinPackMode = 1

// ValidPackMode reports whether b is a supported index_pack_mode value.
func ValidPackMode(b int) bool {
	return b >= MinPackMode && b <= MaxPackMode
}

// maxRun returns the largest run length representable in b little-endian
// bytes, i.e. 256^b - 1.
func maxRun(b int) uint64 {
	var m uint64 = 1
	for i := 0; i < b; i++ {
		m *= 256
	}
	return m - 1
}

// Pack run-length encodes tags into (1 byte tag) || (b bytes run length LE)
// records. A run flushes when the next tag differs, the count reaches
// 256^b-1, or the index ends.
func Pack(tags []byte, b int) ([]byte, error) {
	if !ValidPackMode(b) {
		return nil, fmt.Errorf("index: invalid pack mode %d", b)
	}
	if len(tags) == 0 {
		return nil, nil
	}

	limit := maxRun(b)
	out := make([]byte, 0, (len(tags)/2+1)*(1+b))

	run := tags[0]
	count := uint64(1)
	flush := func() {
		out = append(out, run)
		for i := 0; i < b; i++ {
			out = append(out, byte(count>>(8*uint(i))))
		}
	}
	for _, tag := range tags[1:] {
		if tag == run && count < limit {
			count++
			continue
		}
		flush()
		run = tag
		count = 1
	}
	flush()
	return out, nil
}

// Unpack inverts Pack: each (1+b)-byte record expands into its tag repeated
// run-length times. count is the expected total number of tags; Unpack
// fails if the packed records do not produce exactly count tags or data is
// malformed.
func Unpack(data []byte, b, count int) ([]byte, error) {
	if !ValidPackMode(b) {
		return nil, fmt.Errorf("index: invalid pack mode %d", b)
	}
	recordLen := 1 + b
	if len(data)%recordLen != 0 {
		return nil, fmt.Errorf("index: packed data length %d is not a multiple of record length %d", len(data), recordLen)
	}

	out := make([]byte, 0, count)
	for i := 0; i < len(data); i += recordLen {
		tag := data[i]
		var run uint64
		for j := 0; j < b; j++ {
			run |= uint64(data[i+1+j]) << (8 * uint(j))
		}
		for n := uint64(0); n < run; n++ {
			out = append(out, tag)
		}
	}
	if len(out) != count {
		return nil, fmt.Errorf("index: unpacked %d tags, want %d", len(out), count)
	}
	return out, nil
}

// BestPack tries every supported pack mode from 1 to 3 (mode 4 is left as a
// policy option, not tried by default since runs longer than 2^24 are not
// expected on any real disc image) and returns the packed bytes and mode
// producing the smallest output.
func BestPack(tags []byte) (packed []byte, mode int, err error) {
	bestMode := 1
	best, err := Pack(tags, 1)
	if err != nil {
		return nil, 0, err
	}
	for b := 2; b <= 3; b++ {
		candidate, err := Pack(tags, b)
		if err != nil {
			return nil, 0, err
		}
		if len(candidate) < len(best) {
			best = candidate
			bestMode = b
		}
	}
	return best, bestMode, nil
}

// RecordLen returns the on-wire width of one packed record for pack mode b.
func RecordLen(b int) int {
	return 1 + b
}

// EntryCount returns the number of packed records in data for pack mode b.
func EntryCount(data []byte, b int) int {
	return len(data) / RecordLen(b)
}
