package sector

// syncPattern is the fixed 12-byte pattern identifying the start of a CD-ROM
// data sector: 00 FF*10 00.
var syncPattern = [12]byte{
	0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00,
}

func hasSync(s []byte) bool {
	return [12]byte(s[0:12]) == syncPattern
}
