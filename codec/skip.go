package codec

import (
	"fmt"

	"github.com/prestolab/bhv2/errs"
	"github.com/prestolab/bhv2/format"
)

// Skip advances the cursor past one complete value without materializing a
// value tree. It must consume exactly the same bytes Decode would.
//
// Fixed-width payloads skip in one bulk step of width*count bytes. Struct
// and cell payloads cannot: the byte length of a nested value is unknown
// until its header is parsed, so Skip still reads each field or cell
// element's name length, skips the name bytes and recurses into the nested
// value. Omitting the name step here is precisely the mistake that
// desynchronizes the stream.
func Skip(c Cursor) error {
	h, err := readHeader(c)
	if err != nil {
		return err
	}

	switch h.kind {
	case format.KindStruct:
		fieldWidth, err := c.ReadUint64()
		if err != nil {
			return err
		}
		if fieldWidth > format.MaxFieldCount {
			return fmt.Errorf("%w: %d fields, cap %d", errs.ErrTooManyFields, fieldWidth, format.MaxFieldCount)
		}

		slots, err := payloadSize(h.count, int(fieldWidth))
		if err != nil {
			return err
		}

		for i := uint64(0); i < slots; i++ {
			if err := skipName(c); err != nil {
				return err
			}
			if err := Skip(c); err != nil {
				return err
			}
		}

		return nil

	case format.KindCell:
		for i := uint64(0); i < h.count; i++ {
			if err := skipName(c); err != nil {
				return err
			}
			if err := Skip(c); err != nil {
				return err
			}
		}

		return nil

	default:
		// Numeric and char payloads are a single contiguous run.
		n, err := payloadSize(h.count, h.kind.Width())
		if err != nil {
			return err
		}

		return c.Skip(n)
	}
}
