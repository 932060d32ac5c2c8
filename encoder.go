package ecm2

import (
	"fmt"

	"github.com/ecm2tool/go-ecm2/internal/cursor"
	"github.com/ecm2tool/go-ecm2/internal/ecmerr"
	"github.com/ecm2tool/go-ecm2/internal/index"
	"github.com/ecm2tool/go-ecm2/sector"
)

// Encoder drives the sector codec across a full stream: detect every
// sector, optionally refine the optimization mask against the whole stream,
// then emit the encoded bytes and the run-length packed index.
type Encoder struct {
	codec *sector.Codec
}

// NewEncoder builds the EDC/ECC tables once, shared by every Encode call.
func NewEncoder() *Encoder {
	return &Encoder{codec: sector.NewCodec()}
}

// Options configures one encode pass.
type Options struct {
	// Mask is the proposed optimization mask. Full (all eight bits) is the
	// default policy, matching the original encoder's always-maximal
	// OPTIMIZATIONS constant.
	Mask sector.Mask
	// UseBestOptimizations enables the refiner: the mask narrows per sector
	// so the chosen bits are safe for every sector in the stream.
	UseBestOptimizations bool
	// FirstSector is the absolute sector index of sectors[0], used to
	// regenerate MSF addresses and to validate REMOVE_MSF safety.
	FirstSector uint32
}

// analyze runs the detector (and, if requested, the refiner) over every
// sector without emitting any bytes. It returns the per-sector variant tags
// and the mask narrowed to what the whole stream actually permits.
func (e *Encoder) analyze(sectors []byte, opts Options) (tags []byte, mask sector.Mask, err error) {
	if len(sectors)%sector.Size != 0 {
		return nil, 0, ecmerr.ErrNoEnoughInputData
	}
	count := len(sectors) / sector.Size

	tags = make([]byte, count)
	mask = opts.Mask
	for i := 0; i < count; i++ {
		s := sectors[i*sector.Size : (i+1)*sector.Size]
		v := e.codec.Detect(s)
		tags[i] = byte(v)
		if opts.UseBestOptimizations {
			mask = sector.Refine(s, v, opts.FirstSector+uint32(i), mask)
		}
	}
	return tags, mask, nil
}

// AnalyzeInto runs the detect-and-refine pass only, writing one variant tag
// per sector into the caller-supplied indexOut. It exists for callers that
// manage their own index buffer rather than taking the tags slice
// EncodeInto returns or the packed index Encode writes into the container.
func (e *Encoder) AnalyzeInto(sectors []byte, opts Options, indexOut []byte) (mask sector.Mask, err error) {
	if len(sectors)%sector.Size != 0 {
		return 0, ecmerr.ErrNoEnoughInputData
	}
	count := len(sectors) / sector.Size
	if len(indexOut) < count {
		return 0, ecmerr.ErrNoEnoughOutputIndexSpace
	}

	tags, mask, err := e.analyze(sectors, opts)
	if err != nil {
		return 0, err
	}
	copy(indexOut, tags)
	return mask, nil
}

// EncodeInto runs the full two-pass encode — analyze, then emit — writing
// encoded sector bytes to out. out must have at least as much remaining
// capacity as the sum of EncodedSize(tag, mask) over every sector; the
// analyze pass is used to size out before a single byte is emitted, so a
// capacity shortfall is reported before out is touched.
//
// It returns the per-sector variant tags (for the caller to pack into an
// index) and the mask actually used, which may be narrower than
// opts.Mask when UseBestOptimizations is set.
func (e *Encoder) EncodeInto(sectors []byte, opts Options, out *cursor.Cursor) (tags []byte, usedMask sector.Mask, err error) {
	tags, mask, err := e.analyze(sectors, opts)
	if err != nil {
		return nil, 0, err
	}

	total := 0
	for _, tag := range tags {
		total += sector.EncodedSize(sector.Variant(tag), mask)
	}
	if out.Available() < total {
		return nil, 0, ecmerr.ErrNoEnoughOutputBufferSpace
	}

	for i, tag := range tags {
		s := sectors[i*sector.Size : (i+1)*sector.Size]
		out.Checkpoint()
		if err := e.codec.Encode(s, sector.Variant(tag), mask, out); err != nil {
			return nil, 0, fmt.Errorf("ecm2: encode sector %d: %w", opts.FirstSector+uint32(i), err)
		}
	}
	return tags, mask, nil
}

// Encode encodes sectors (a concatenation of whole Size-byte sectors) into a
// self-contained ECM2 container: magic, header, packed index, then the
// encoded sector bytes.
func (e *Encoder) Encode(sectors []byte, opts Options) ([]byte, error) {
	tags, mask, err := e.analyze(sectors, opts)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, tag := range tags {
		total += sector.EncodedSize(sector.Variant(tag), mask)
	}

	packed, packMode, err := index.BestPack(tags)
	if err != nil {
		return nil, fmt.Errorf("ecm2: pack index: %w", err)
	}

	header := Header{
		Optimizations: mask,
		IndexPackMode: uint8(packMode), //nolint:gosec // packMode is 1..3
		IndexEntries:  uint32(index.EntryCount(packed, packMode)),
		Sectors:       uint32(len(tags)),
	}

	container := make([]byte, headerSize+len(packed)+total)
	copy(container[0:headerSize], header.Encode())
	copy(container[headerSize:headerSize+len(packed)], packed)

	body := cursor.New(container[headerSize+len(packed):])
	for i, tag := range tags {
		s := sectors[i*sector.Size : (i+1)*sector.Size]
		body.Checkpoint()
		if err := e.codec.Encode(s, sector.Variant(tag), mask, body); err != nil {
			return nil, fmt.Errorf("ecm2: encode sector %d: %w", opts.FirstSector+uint32(i), err)
		}
	}
	return container, nil
}
