package ecm2

import (
	"fmt"

	"github.com/ecm2tool/go-ecm2/internal/cursor"
	"github.com/ecm2tool/go-ecm2/internal/ecmerr"
	"github.com/ecm2tool/go-ecm2/internal/index"
	"github.com/ecm2tool/go-ecm2/sector"
)

// Decoder rebuilds byte-exact sector streams from an ECM2 container.
type Decoder struct {
	codec *sector.Codec
}

// NewDecoder builds the EDC/ECC tables once, shared by every Decode call.
func NewDecoder() *Decoder {
	return &Decoder{codec: sector.NewCodec()}
}

// parsedBody is the result of validating a container's header and index,
// shared by Decode and DecodeInto.
type parsedBody struct {
	header Header
	tags   []byte
	body   []byte
}

func parseBody(container []byte) (parsedBody, error) {
	h, consumed, err := parseHeader(container)
	if err != nil {
		return parsedBody{}, err
	}
	if h.IndexEntries == 0 {
		return parsedBody{}, ecmerr.ErrWrongIndexData
	}
	if h.Sectors > ecmerr.MaxIndexEntries {
		return parsedBody{}, ecmerr.ErrIndexTooLarge
	}

	recordLen := index.RecordLen(int(h.IndexPackMode))
	packedLen := recordLen * int(h.IndexEntries)
	if len(container) < consumed+packedLen {
		return parsedBody{}, ecmerr.ErrNoEnoughInputData
	}

	tags, err := index.Unpack(container[consumed:consumed+packedLen], int(h.IndexPackMode), int(h.Sectors))
	if err != nil {
		return parsedBody{}, fmt.Errorf("%w: %w", ecmerr.ErrWrongIndexData, err)
	}

	return parsedBody{header: h, tags: tags, body: container[consumed+packedLen:]}, nil
}

// requiredBodyLen sums EncodedSize across every sector's tag under mask.
func requiredBodyLen(tags []byte, mask sector.Mask) int {
	total := 0
	for _, tag := range tags {
		total += sector.EncodedSize(sector.Variant(tag), mask)
	}
	return total
}

// DecodeInto decodes container into out, which must have at least
// Header.Sectors*sector.Size bytes of remaining capacity. firstSector is
// the absolute sector index that corresponds to the first decoded sector.
func (d *Decoder) DecodeInto(container []byte, firstSector uint32, out *cursor.Cursor) (Header, error) {
	parsed, err := parseBody(container)
	if err != nil {
		return Header{}, err
	}

	required := requiredBodyLen(parsed.tags, parsed.header.Optimizations)
	if len(parsed.body) < required {
		return Header{}, ecmerr.ErrNoEnoughInputData
	}
	if out.Available() < len(parsed.tags)*sector.Size {
		return Header{}, ecmerr.ErrNoEnoughOutputBufferSpace
	}

	in := cursor.New(parsed.body)
	for i, tag := range parsed.tags {
		out.Checkpoint()
		v := sector.Variant(tag)
		if err := d.codec.Decode(in, v, parsed.header.Optimizations, firstSector+uint32(i), out); err != nil {
			return Header{}, fmt.Errorf("ecm2: decode sector %d: %w", firstSector+uint32(i), err)
		}
	}
	return parsed.header, nil
}

// Decode rebuilds the full raw sector stream encoded in container.
func (d *Decoder) Decode(container []byte, firstSector uint32) ([]byte, Header, error) {
	parsed, err := parseBody(container)
	if err != nil {
		return nil, Header{}, err
	}

	required := requiredBodyLen(parsed.tags, parsed.header.Optimizations)
	if len(parsed.body) < required {
		return nil, Header{}, ecmerr.ErrNoEnoughInputData
	}

	output := make([]byte, len(parsed.tags)*sector.Size)
	in := cursor.New(parsed.body)
	out := cursor.New(output)
	for i, tag := range parsed.tags {
		out.Checkpoint()
		v := sector.Variant(tag)
		if err := d.codec.Decode(in, v, parsed.header.Optimizations, firstSector+uint32(i), out); err != nil {
			return nil, Header{}, fmt.Errorf("ecm2: decode sector %d: %w", firstSector+uint32(i), err)
		}
	}
	return output, parsed.header, nil
}
