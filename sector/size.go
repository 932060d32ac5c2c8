package sector

// Field widths shared by the size oracle, encoder, and decoder.
const (
	modeSize       = 1
	mode1DataSize  = 0x800
	mode2Size      = 0x920
	subheaderFull  = 8
	subheaderHalf  = 4
	xaGapDataSize  = 0x918
	xa1DataSize    = 0x800
	xa2DataSize    = 0x914
	edcSize        = 4
	blanksSize     = 8
	eccSize        = 0x114
	modeXTailSize  = Size - 0x00F // bytes from the mode byte to the end of the sector
)

func commonPrefixSize(m Mask) int {
	n := 0
	if !m.Has(RemoveSync) {
		n += 12
	}
	if !m.Has(RemoveMSF) {
		n += 3
	}
	return n
}

func subheaderSize(m Mask) int {
	if m.Has(RemoveRedundantFlag) {
		return subheaderHalf
	}
	return subheaderFull
}

// EncodedSize returns the number of bytes Encode writes and Decode reads for
// variant v under mask m. It is a pure function of (v, m).
func EncodedSize(v Variant, m Mask) int {
	switch v {
	case CDDA:
		return Size
	case CDDAGap:
		if m.Has(RemoveGap) {
			return 0
		}
		return Size

	case Mode1, Mode1Gap, Mode1Raw:
		n := commonPrefixSize(m)
		if !m.Has(RemoveMode) {
			n += modeSize
		}
		if !(m.Has(RemoveGap) && v == Mode1Gap) {
			n += mode1DataSize
		}
		if v == Mode1Raw || !m.Has(RemoveEDC) {
			n += edcSize
		}
		if !m.Has(RemoveBlanks) {
			n += blanksSize
		}
		if v == Mode1Raw || !m.Has(RemoveECC) {
			n += eccSize
		}
		return n

	case Mode2, Mode2Gap:
		n := commonPrefixSize(m)
		if !m.Has(RemoveMode) {
			n += modeSize
		}
		if !(m.Has(RemoveGap) && v == Mode2Gap) {
			n += mode2Size
		}
		return n

	case Mode2XAGap:
		n := commonPrefixSize(m)
		if !m.Has(RemoveMode) {
			n += modeSize
		}
		n += subheaderSize(m)
		if !m.Has(RemoveGap) {
			n += xaGapDataSize
		}
		return n

	case Mode2XA1, Mode2XA1Gap:
		n := commonPrefixSize(m)
		if !m.Has(RemoveMode) {
			n += modeSize
		}
		n += subheaderSize(m)
		if !(m.Has(RemoveGap) && v == Mode2XA1Gap) {
			n += xa1DataSize
		}
		if !m.Has(RemoveEDC) {
			n += edcSize
		}
		if !m.Has(RemoveECC) {
			n += eccSize
		}
		return n

	case Mode2XA2, Mode2XA2Gap:
		n := commonPrefixSize(m)
		if !m.Has(RemoveMode) {
			n += modeSize
		}
		n += subheaderSize(m)
		if !(m.Has(RemoveGap) && v == Mode2XA2Gap) {
			n += xa2DataSize
		}
		if !m.Has(RemoveEDC) {
			n += edcSize
		}
		return n

	case ModeX:
		n := commonPrefixSize(m)
		n += modeXTailSize
		return n

	default: // Unknown
		return Size
	}
}
