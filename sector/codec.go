package sector

import (
	"github.com/ecm2tool/go-ecm2/internal/ecc"
	"github.com/ecm2tool/go-ecm2/internal/edc"
)

// Codec holds the lookup tables shared by detection, encoding, and decoding.
// The tables are built once in NewCodec and never mutated afterward, so a
// *Codec may be shared freely across goroutines and across independent
// streams.
type Codec struct {
	edcTable  edc.Table
	eccTables ecc.Tables
}

// NewCodec builds the EDC and ECC Galois tables.
func NewCodec() *Codec {
	return &Codec{
		edcTable:  edc.BuildTable(),
		eccTables: ecc.BuildTables(),
	}
}

// edc computes the CD-ROM EDC checksum over data.
func (c *Codec) edc(data []byte) uint32 {
	return edc.Compute(&c.edcTable, 0, data)
}

var zeroAddress [4]byte

func (c *Codec) eccCheck(address [4]byte, data, parity []byte) bool {
	return c.eccTables.CheckSector(address, data, parity)
}

func (c *Codec) eccWrite(address [4]byte, data, parity []byte) {
	c.eccTables.WriteSector(address, data, parity)
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
