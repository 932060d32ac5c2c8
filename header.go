// Package ecm2 implements the ECM2 stream driver: the two-pass encoder and
// decoder that sit on top of the sector codec (package sector), plus the
// container header that precedes the packed index and encoded sectors.
package ecm2

import (
	"encoding/binary"
	"fmt"

	"github.com/ecm2tool/go-ecm2/internal/ecmerr"
	"github.com/ecm2tool/go-ecm2/internal/index"
	"github.com/ecm2tool/go-ecm2/sector"
)

// magic is the 5-byte container signature: "ECM2" followed by format
// version 1.
var magic = [5]byte{'E', 'C', 'M', '2', 0x01}

// headerSize is the fixed width of the container header, preceding the
// packed index.
const headerSize = 0x0F

// Header is the fixed-layout configuration persisted immediately after the
// magic bytes, mirroring chd.Header's field-by-field binary.LittleEndian
// parsing.
type Header struct {
	Optimizations sector.Mask
	IndexPackMode uint8
	IndexEntries  uint32
	Sectors       uint32
}

// Encode writes h into a fresh headerSize-byte buffer prefixed with the
// magic sequence.
func (h Header) Encode() []byte {
	buf := make([]byte, headerSize)
	copy(buf[0x00:0x05], magic[:])
	buf[0x05] = byte(h.Optimizations)
	buf[0x06] = h.IndexPackMode
	binary.LittleEndian.PutUint32(buf[0x07:0x0B], h.IndexEntries)
	binary.LittleEndian.PutUint32(buf[0x0B:0x0F], h.Sectors)
	return buf
}

// parseHeader reads and validates a Header from the start of buf, returning
// the header and the number of bytes consumed.
func parseHeader(buf []byte) (Header, int, error) {
	if len(buf) < headerSize {
		return Header{}, 0, ecmerr.ErrNoEnoughInputData
	}
	if [5]byte(buf[0:5]) != magic {
		return Header{}, 0, ecmerr.ErrBadMagic
	}

	h := Header{
		Optimizations: sector.Mask(buf[0x05]),
		IndexPackMode: buf[0x06],
		IndexEntries:  binary.LittleEndian.Uint32(buf[0x07:0x0B]),
		Sectors:       binary.LittleEndian.Uint32(buf[0x0B:0x0F]),
	}
	if !index.ValidPackMode(int(h.IndexPackMode)) {
		return Header{}, 0, fmt.Errorf("%w: %d", ecmerr.ErrBadPackMode, h.IndexPackMode)
	}
	return h, headerSize, nil
}
