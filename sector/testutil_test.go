package sector

import "github.com/ecm2tool/go-ecm2/internal/msf"

// fillPseudoRandom deterministically fills b with non-zero-biased bytes so
// tests never accidentally construct an all-zero payload.
func fillPseudoRandom(b []byte, seed uint32) {
	x := seed | 1
	for i := range b {
		x = x*1103515245 + 12345
		b[i] = byte(x >> 16)
	}
}

func newBlankSector() []byte {
	return make([]byte, Size)
}

func writeSyncAndMSF(s []byte, sectorIndex uint32, mode byte) {
	copy(s[0x000:0x00C], syncPattern[:])
	addr := msf.FromSector(sectorIndex)
	copy(s[0x00C:0x00F], addr[:])
	s[0x00F] = mode
}

func buildMode1(c *Codec, sectorIndex uint32, data []byte, gap bool) []byte {
	s := newBlankSector()
	writeSyncAndMSF(s, sectorIndex, 0x01)
	if gap {
		// leave data zero
	} else {
		copy(s[0x010:0x810], data)
	}
	sum := c.edc(s[0:0x810])
	putLE32(s[0x810:0x814], sum)
	// reserved zeros already zero
	address := [4]byte(s[0x00C:0x010])
	c.eccWrite(address, s[0x010:0x810], s[0x81C:0x930])
	return s
}

func buildMode1Raw(sectorIndex uint32, data []byte) []byte {
	s := newBlankSector()
	writeSyncAndMSF(s, sectorIndex, 0x01)
	copy(s[0x010:0x810], data)
	// deliberately wrong EDC/ECC so detection falls through to MODE1_RAW
	putLE32(s[0x810:0x814], 0xFFFFFFFF)
	fillPseudoRandom(s[0x81C:0x930], 99)
	return s
}

func buildMode2Gap(sectorIndex uint32) []byte {
	s := newBlankSector()
	writeSyncAndMSF(s, sectorIndex, 0x02)
	return s
}

func buildMode2Garbage(sectorIndex uint32, seed uint32) []byte {
	s := newBlankSector()
	writeSyncAndMSF(s, sectorIndex, 0x02)
	fillPseudoRandom(s[0x010:0x930], seed)
	return s
}

func buildMode2XA1(c *Codec, sectorIndex uint32, subheader [4]byte, data []byte, gap bool) []byte {
	s := newBlankSector()
	writeSyncAndMSF(s, sectorIndex, 0x02)
	copy(s[0x010:0x014], subheader[:])
	copy(s[0x014:0x018], subheader[:])
	if !gap {
		copy(s[0x018:0x818], data)
	}
	sum := c.edc(s[0x010:0x818])
	putLE32(s[0x818:0x81C], sum)
	c.eccWrite(zeroAddress, s[0x010:0x810], s[0x81C:0x930])
	return s
}

func buildMode2XA2(c *Codec, sectorIndex uint32, subheader [4]byte, data []byte, gap bool) []byte {
	s := newBlankSector()
	writeSyncAndMSF(s, sectorIndex, 0x02)
	copy(s[0x010:0x014], subheader[:])
	copy(s[0x014:0x018], subheader[:])
	if !gap {
		copy(s[0x018:0x92C], data)
	}
	sum := c.edc(s[0x010:0x92C])
	putLE32(s[0x92C:0x930], sum)
	return s
}

func buildMode2XAGap(sectorIndex uint32, subheader [4]byte) []byte {
	s := newBlankSector()
	writeSyncAndMSF(s, sectorIndex, 0x02)
	copy(s[0x010:0x014], subheader[:])
	copy(s[0x014:0x018], subheader[:])
	return s
}

func buildModeX(sectorIndex uint32, seed uint32) []byte {
	s := newBlankSector()
	writeSyncAndMSF(s, sectorIndex, 0x7F)
	fillPseudoRandom(s[0x010:Size], seed)
	return s
}

func buildCDDA(seed uint32) []byte {
	s := newBlankSector()
	fillPseudoRandom(s, seed)
	// Ensure it doesn't accidentally start with the sync pattern.
	s[0] = 0x01
	return s
}

func putLE32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}
