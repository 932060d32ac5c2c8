package sector

import "github.com/ecm2tool/go-ecm2/internal/cursor"

// Encode strips the fields mask permits removing from sector (which must be
// exactly Size bytes) and appends the result to out. It writes exactly
// EncodedSize(v, m) bytes.
func (c *Codec) Encode(sector []byte, v Variant, m Mask, out *cursor.Cursor) error {
	switch v {
	case CDDA:
		return out.Write(sector)
	case CDDAGap:
		if m.Has(RemoveGap) {
			return nil
		}
		return out.Write(sector)

	case Mode1, Mode1Gap, Mode1Raw:
		return c.encodeMode1(sector, v, m, out)

	case Mode2, Mode2Gap:
		return c.encodeMode2(sector, v, m, out)

	case Mode2XAGap:
		return c.encodeMode2XAGap(sector, m, out)

	case Mode2XA1, Mode2XA1Gap:
		return c.encodeMode2XA1(sector, v, m, out)

	case Mode2XA2, Mode2XA2Gap:
		return c.encodeMode2XA2(sector, v, m, out)

	case ModeX:
		return c.encodeModeX(sector, m, out)

	default:
		return out.Write(sector)
	}
}

func (c *Codec) writeCommonPrefix(sector []byte, m Mask, out *cursor.Cursor) error {
	if !m.Has(RemoveSync) {
		if err := out.Write(sector[0x000:0x00C]); err != nil {
			return err
		}
	}
	if !m.Has(RemoveMSF) {
		if err := out.Write(sector[0x00C:0x00F]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) encodeMode1(sector []byte, v Variant, m Mask, out *cursor.Cursor) error {
	if err := c.writeCommonPrefix(sector, m, out); err != nil {
		return err
	}
	if !m.Has(RemoveMode) {
		if err := out.Write(sector[0x00F:0x010]); err != nil {
			return err
		}
	}
	if !(m.Has(RemoveGap) && v == Mode1Gap) {
		if err := out.Write(sector[0x010:0x810]); err != nil {
			return err
		}
	}
	if v == Mode1Raw || !m.Has(RemoveEDC) {
		if err := out.Write(sector[0x810:0x814]); err != nil {
			return err
		}
	}
	if !m.Has(RemoveBlanks) {
		if err := out.Write(sector[0x814:0x81C]); err != nil {
			return err
		}
	}
	if v == Mode1Raw || !m.Has(RemoveECC) {
		if err := out.Write(sector[0x81C:0x930]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) encodeMode2(sector []byte, v Variant, m Mask, out *cursor.Cursor) error {
	if err := c.writeCommonPrefix(sector, m, out); err != nil {
		return err
	}
	if !m.Has(RemoveMode) {
		if err := out.Write(sector[0x00F:0x010]); err != nil {
			return err
		}
	}
	if !(m.Has(RemoveGap) && v == Mode2Gap) {
		if err := out.Write(sector[0x010:0x930]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) writeSubheader(sector []byte, m Mask, out *cursor.Cursor) error {
	if m.Has(RemoveRedundantFlag) {
		return out.Write(sector[0x010:0x014])
	}
	return out.Write(sector[0x010:0x018])
}

func (c *Codec) encodeMode2XAGap(sector []byte, m Mask, out *cursor.Cursor) error {
	if err := c.writeCommonPrefix(sector, m, out); err != nil {
		return err
	}
	if !m.Has(RemoveMode) {
		if err := out.Write(sector[0x00F:0x010]); err != nil {
			return err
		}
	}
	if err := c.writeSubheader(sector, m, out); err != nil {
		return err
	}
	if !m.Has(RemoveGap) {
		if err := out.Write(sector[0x018:0x930]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) encodeMode2XA1(sector []byte, v Variant, m Mask, out *cursor.Cursor) error {
	if err := c.writeCommonPrefix(sector, m, out); err != nil {
		return err
	}
	if !m.Has(RemoveMode) {
		if err := out.Write(sector[0x00F:0x010]); err != nil {
			return err
		}
	}
	if err := c.writeSubheader(sector, m, out); err != nil {
		return err
	}
	if !(m.Has(RemoveGap) && v == Mode2XA1Gap) {
		if err := out.Write(sector[0x018:0x818]); err != nil {
			return err
		}
	}
	if !m.Has(RemoveEDC) {
		if err := out.Write(sector[0x818:0x81C]); err != nil {
			return err
		}
	}
	if !m.Has(RemoveECC) {
		if err := out.Write(sector[0x81C:0x930]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) encodeMode2XA2(sector []byte, v Variant, m Mask, out *cursor.Cursor) error {
	if err := c.writeCommonPrefix(sector, m, out); err != nil {
		return err
	}
	if !m.Has(RemoveMode) {
		if err := out.Write(sector[0x00F:0x010]); err != nil {
			return err
		}
	}
	if err := c.writeSubheader(sector, m, out); err != nil {
		return err
	}
	if !(m.Has(RemoveGap) && v == Mode2XA2Gap) {
		if err := out.Write(sector[0x018:0x92C]); err != nil {
			return err
		}
	}
	if !m.Has(RemoveEDC) {
		if err := out.Write(sector[0x92C:0x930]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) encodeModeX(sector []byte, m Mask, out *cursor.Cursor) error {
	if err := c.writeCommonPrefix(sector, m, out); err != nil {
		return err
	}
	return out.Write(sector[0x00F:Size])
}
