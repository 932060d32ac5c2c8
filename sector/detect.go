package sector

import "github.com/ecm2tool/go-ecm2/internal/edc"

// Detect classifies a Size-byte sector into one of the Variant tags. s must
// be exactly Size bytes.
func (c *Codec) Detect(s []byte) Variant {
	if !hasSync(s) {
		if allZero(s) {
			return CDDAGap
		}
		return CDDA
	}

	switch {
	case s[0x00F] == 1 && allZero(s[0x814:0x81C]):
		return c.detectMode1(s)
	case s[0x00F] == 2:
		return c.detectMode2(s)
	default:
		return ModeX
	}
}

// detectMode1 is only reached once the sync, mode-byte, and reserved-zero
// gate has already passed; it distinguishes MODE1 / MODE1_GAP / MODE1_RAW by
// validating the EDC and ECC.
func (c *Codec) detectMode1(s []byte) Variant {
	address := [4]byte(s[0x00C:0x010])
	data := s[0x010:0x810]
	parity := s[0x81C:0x930]
	edcField := edc.GetUint32LE(s[0x810:0x814])

	if c.eccCheck(address, data, parity) && c.edc(s[0:0x810]) == edcField {
		if allZero(data) {
			return Mode1Gap
		}
		return Mode1
	}
	return Mode1Raw
}

func (c *Codec) detectMode2(s []byte) Variant {
	if allZero(s[0x010:0x930]) {
		return Mode2Gap
	}

	xa1Data := s[0x010:0x810]
	xa1Parity := s[0x81C:0x930]
	if c.eccCheck(zeroAddress, xa1Data, xa1Parity) && c.edc(s[0x010:0x818]) == edc.GetUint32LE(s[0x818:0x81C]) {
		if allZero(s[0x018:0x818]) {
			return Mode2XA1Gap
		}
		return Mode2XA1
	}

	if c.edc(s[0x010:0x92C]) == edc.GetUint32LE(s[0x92C:0x930]) {
		if allZero(s[0x018:0x92C]) {
			return Mode2XA2Gap
		}
		return Mode2XA2
	}

	if [4]byte(s[0x010:0x014]) == [4]byte(s[0x014:0x018]) && allZero(s[0x018:0x930]) {
		return Mode2XAGap
	}

	return Mode2
}
