package sector

import "github.com/ecm2tool/go-ecm2/internal/msf"

// Refine narrows a proposed mask to what sector actually permits losslessly;
// it only clears bits, never sets them. sectorIndex is the sector's absolute
// position, used to recompute the MSF address an omitted MSF field would be
// reconstructed from.
func Refine(sector []byte, v Variant, sectorIndex uint32, m Mask) Mask {
	switch v {
	case CDDA, CDDAGap, Unknown:
		return m
	}

	if m.Has(RemoveMSF) && v.IsData() {
		want := msf.FromSector(sectorIndex)
		if [3]byte(sector[0x00C:0x00F]) != want {
			m &^= RemoveMSF
		}
	}

	switch v {
	case Mode2XAGap, Mode2XA1, Mode2XA1Gap, Mode2XA2, Mode2XA2Gap:
		if m.Has(RemoveRedundantFlag) {
			if [4]byte(sector[0x010:0x014]) != [4]byte(sector[0x014:0x018]) {
				m &^= RemoveRedundantFlag
			}
		}
	}

	return m
}
