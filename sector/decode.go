package sector

import (
	"github.com/ecm2tool/go-ecm2/internal/cursor"
	"github.com/ecm2tool/go-ecm2/internal/ecmerr"
	"github.com/ecm2tool/go-ecm2/internal/edc"
	"github.com/ecm2tool/go-ecm2/internal/msf"
)

// Decode reconstructs one Size-byte sector of variant v under mask m into
// out, consuming EncodedSize(v, m) bytes from in. sectorIndex is the
// absolute sector number, used to regenerate an omitted MSF address. out
// must be checkpointed by the caller so StartOf() returns this sector's
// emitted prefix.
func (c *Codec) Decode(in *cursor.Cursor, v Variant, m Mask, sectorIndex uint32, out *cursor.Cursor) error {
	switch v {
	case CDDA, CDDAGap:
		return c.decodeWhole(in, v, m, out)
	case Mode1, Mode1Gap, Mode1Raw:
		return c.decodeMode1(in, v, m, sectorIndex, out)
	case Mode2, Mode2Gap:
		return c.decodeMode2(in, v, m, sectorIndex, out)
	case Mode2XAGap:
		return c.decodeMode2XAGap(in, m, sectorIndex, out)
	case Mode2XA1, Mode2XA1Gap:
		return c.decodeMode2XA1(in, v, m, sectorIndex, out)
	case Mode2XA2, Mode2XA2Gap:
		return c.decodeMode2XA2(in, v, m, sectorIndex, out)
	case ModeX:
		return c.decodeModeX(in, m, sectorIndex, out)
	default:
		return c.decodeWhole(in, v, m, out)
	}
}

// copyN copies n bytes from in to out.
func copyN(in, out *cursor.Cursor, n int) error {
	if in.Available() < n {
		return ecmerr.ErrNoEnoughInputData
	}
	return out.Write(in.Here()[:n])
	// note: out.Write does not advance in; callers advance in explicitly.
}

func takeFromInput(in, out *cursor.Cursor, n int) error {
	if err := copyN(in, out, n); err != nil {
		return err
	}
	in.Advance(n)
	return nil
}

func writeZeros(out *cursor.Cursor, n int) error {
	return out.Write(make([]byte, n))
}

func (c *Codec) decodeWhole(in *cursor.Cursor, v Variant, m Mask, out *cursor.Cursor) error {
	if v == CDDAGap && m.Has(RemoveGap) {
		return writeZeros(out, Size)
	}
	return takeFromInput(in, out, Size)
}

func (c *Codec) decodeCommonPrefix(in *cursor.Cursor, m Mask, sectorIndex uint32, out *cursor.Cursor) error {
	if m.Has(RemoveSync) {
		if err := out.Write(syncPattern[:]); err != nil {
			return err
		}
	} else if err := takeFromInput(in, out, 12); err != nil {
		return err
	}

	if m.Has(RemoveMSF) {
		addr := msf.FromSector(sectorIndex)
		if err := out.Write(addr[:]); err != nil {
			return err
		}
	} else if err := takeFromInput(in, out, 3); err != nil {
		return err
	}
	return nil
}

func (c *Codec) decodeModeByte(in *cursor.Cursor, m Mask, mode byte, out *cursor.Cursor) error {
	if m.Has(RemoveMode) {
		return out.Write([]byte{mode})
	}
	return takeFromInput(in, out, 1)
}

func (c *Codec) decodeMode1(in *cursor.Cursor, v Variant, m Mask, sectorIndex uint32, out *cursor.Cursor) error {
	if err := c.decodeCommonPrefix(in, m, sectorIndex, out); err != nil {
		return err
	}
	if err := c.decodeModeByte(in, m, 0x01, out); err != nil {
		return err
	}

	dataOmitted := m.Has(RemoveGap) && v == Mode1Gap
	if dataOmitted {
		if err := writeZeros(out, mode1DataSize); err != nil {
			return err
		}
	} else if err := takeFromInput(in, out, mode1DataSize); err != nil {
		return err
	}

	edcKept := v == Mode1Raw || !m.Has(RemoveEDC)
	if edcKept {
		if err := takeFromInput(in, out, edcSize); err != nil {
			return err
		}
	} else {
		sum := c.edc(out.StartOf()[0:0x810])
		var buf [4]byte
		edc.PutUint32LE(buf[:], sum)
		if err := out.Write(buf[:]); err != nil {
			return err
		}
	}

	if m.Has(RemoveBlanks) {
		if err := writeZeros(out, blanksSize); err != nil {
			return err
		}
	} else if err := takeFromInput(in, out, blanksSize); err != nil {
		return err
	}

	eccKept := v == Mode1Raw || !m.Has(RemoveECC)
	if eccKept {
		return takeFromInput(in, out, eccSize)
	}
	var parity [eccSize]byte
	address := [4]byte(out.StartOf()[0x00C:0x010])
	data := out.StartOf()[0x010:0x810]
	c.eccWrite(address, data, parity[:])
	return out.Write(parity[:])
}

func (c *Codec) decodeMode2(in *cursor.Cursor, v Variant, m Mask, sectorIndex uint32, out *cursor.Cursor) error {
	if err := c.decodeCommonPrefix(in, m, sectorIndex, out); err != nil {
		return err
	}
	if err := c.decodeModeByte(in, m, 0x02, out); err != nil {
		return err
	}

	if m.Has(RemoveGap) && v == Mode2Gap {
		return writeZeros(out, mode2Size)
	}
	return takeFromInput(in, out, mode2Size)
}

func (c *Codec) decodeSubheader(in *cursor.Cursor, m Mask, out *cursor.Cursor) error {
	if !m.Has(RemoveRedundantFlag) {
		return takeFromInput(in, out, 8)
	}
	if err := takeFromInput(in, out, 4); err != nil {
		return err
	}
	// The four subheader bytes just written sit at relative offset
	// 0x010..0x014; duplicate them verbatim into 0x014..0x018.
	dup := out.StartOf()[0x010:0x014]
	return out.Write(dup)
}

func (c *Codec) decodeMode2XAGap(in *cursor.Cursor, m Mask, sectorIndex uint32, out *cursor.Cursor) error {
	if err := c.decodeCommonPrefix(in, m, sectorIndex, out); err != nil {
		return err
	}
	if err := c.decodeModeByte(in, m, 0x02, out); err != nil {
		return err
	}
	if err := c.decodeSubheader(in, m, out); err != nil {
		return err
	}
	if m.Has(RemoveGap) {
		return writeZeros(out, xaGapDataSize)
	}
	return takeFromInput(in, out, xaGapDataSize)
}

func (c *Codec) decodeMode2XA1(in *cursor.Cursor, v Variant, m Mask, sectorIndex uint32, out *cursor.Cursor) error {
	if err := c.decodeCommonPrefix(in, m, sectorIndex, out); err != nil {
		return err
	}
	if err := c.decodeModeByte(in, m, 0x02, out); err != nil {
		return err
	}
	if err := c.decodeSubheader(in, m, out); err != nil {
		return err
	}

	dataOmitted := m.Has(RemoveGap) && v == Mode2XA1Gap
	if dataOmitted {
		if err := writeZeros(out, xa1DataSize); err != nil {
			return err
		}
	} else if err := takeFromInput(in, out, xa1DataSize); err != nil {
		return err
	}

	if !m.Has(RemoveEDC) {
		if err := takeFromInput(in, out, edcSize); err != nil {
			return err
		}
	} else {
		sum := c.edc(out.StartOf()[0x010:0x818])
		var buf [4]byte
		edc.PutUint32LE(buf[:], sum)
		if err := out.Write(buf[:]); err != nil {
			return err
		}
	}

	if !m.Has(RemoveECC) {
		return takeFromInput(in, out, eccSize)
	}
	var parity [eccSize]byte
	data := out.StartOf()[0x010:0x810]
	c.eccWrite(zeroAddress, data, parity[:])
	return out.Write(parity[:])
}

func (c *Codec) decodeMode2XA2(in *cursor.Cursor, v Variant, m Mask, sectorIndex uint32, out *cursor.Cursor) error {
	if err := c.decodeCommonPrefix(in, m, sectorIndex, out); err != nil {
		return err
	}
	if err := c.decodeModeByte(in, m, 0x02, out); err != nil {
		return err
	}
	if err := c.decodeSubheader(in, m, out); err != nil {
		return err
	}

	dataOmitted := m.Has(RemoveGap) && v == Mode2XA2Gap
	if dataOmitted {
		if err := writeZeros(out, xa2DataSize); err != nil {
			return err
		}
	} else if err := takeFromInput(in, out, xa2DataSize); err != nil {
		return err
	}

	if !m.Has(RemoveEDC) {
		return takeFromInput(in, out, edcSize)
	}
	sum := c.edc(out.StartOf()[0x010:0x92C])
	var buf [4]byte
	edc.PutUint32LE(buf[:], sum)
	return out.Write(buf[:])
}

func (c *Codec) decodeModeX(in *cursor.Cursor, m Mask, sectorIndex uint32, out *cursor.Cursor) error {
	if err := c.decodeCommonPrefix(in, m, sectorIndex, out); err != nil {
		return err
	}
	return takeFromInput(in, out, modeXTailSize)
}
