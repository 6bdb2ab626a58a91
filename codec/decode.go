package codec

import (
	"fmt"
	"math/bits"

	"github.com/prestolab/bhv2/endian"
	"github.com/prestolab/bhv2/errs"
	"github.com/prestolab/bhv2/format"
	"github.com/prestolab/bhv2/value"
)

var wireEngine = endian.GetLittleEndianEngine()

// payloadChunk bounds how much memory a single payload read commits before
// any of it has actually arrived. Corrupt inputs can declare absurd element
// counts; filling in chunks makes a truncated stream fail after at most one
// chunk instead of after a multi-gigabyte allocation.
const payloadChunk = 1 << 20

// header is the decoded value prefix shared by Decode, Skip and
// DecodeSelective.
type header struct {
	kind  format.ElementKind
	dims  []uint64
	count uint64
}

// readLengthPrefixed reads a u64 length followed by that many bytes. The
// length is validated against maxLen, wrapping capErr, before any
// allocation sized by it.
func readLengthPrefixed(c Cursor, maxLen uint64, capErr error) ([]byte, error) {
	n, err := c.ReadUint64()
	if err != nil {
		return nil, err
	}
	if n > maxLen {
		return nil, fmt.Errorf("%w: declared %d, cap %d", capErr, n, maxLen)
	}
	if n == 0 {
		return nil, nil
	}

	buf := make([]byte, n)
	if err := c.ReadFull(buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadName reads one length-prefixed variable or field name, enforcing the
// format's name length cap. The streaming session uses this for top-level
// variable names; the codec uses it for struct field and cell element names.
func ReadName(c Cursor) (string, error) {
	b, err := readLengthPrefixed(c, format.MaxNameLength, errs.ErrNameTooLong)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// skipName consumes one length-prefixed name without materializing it. The
// length still has to be parsed; the bytes are then skipped in bulk.
func skipName(c Cursor) error {
	n, err := c.ReadUint64()
	if err != nil {
		return err
	}
	if n > format.MaxNameLength {
		return fmt.Errorf("%w: declared %d, cap %d", errs.ErrNameTooLong, n, format.MaxNameLength)
	}

	return c.Skip(n)
}

// readHeader parses the type name and dimensions of one value.
func readHeader(c Cursor) (header, error) {
	typeName, err := readLengthPrefixed(c, format.MaxTypeLength, errs.ErrTypeNameTooLong)
	if err != nil {
		return header{}, err
	}

	kind := format.KindOf(string(typeName))
	if kind == format.KindUnknown {
		return header{}, fmt.Errorf("%w: %q", errs.ErrUnknownType, typeName)
	}

	rank, err := c.ReadUint64()
	if err != nil {
		return header{}, err
	}
	if rank > format.MaxRank {
		return header{}, fmt.Errorf("%w: rank %d, cap %d", errs.ErrTooManyDimensions, rank, format.MaxRank)
	}

	dims := make([]uint64, rank)
	for i := range dims {
		if dims[i], err = c.ReadUint64(); err != nil {
			return header{}, err
		}
	}

	count, err := value.ElementCount(dims)
	if err != nil {
		return header{}, err
	}

	return header{kind: kind, dims: dims, count: count}, nil
}

// payloadSize returns count*width, rejecting uint64 overflow.
func payloadSize(count uint64, width int) (uint64, error) {
	hi, lo := bits.Mul64(count, uint64(width))
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d elements x %d bytes", errs.ErrCountOverflow, count, width)
	}

	return lo, nil
}

// readPayload reads n payload bytes, committing memory chunk by chunk.
func readPayload(c Cursor, n uint64) ([]byte, error) {
	if n <= payloadChunk {
		buf := make([]byte, n)
		if err := c.ReadFull(buf); err != nil {
			return nil, err
		}

		return buf, nil
	}

	out := make([]byte, 0, payloadChunk)
	scratch := make([]byte, payloadChunk)
	for remaining := n; remaining > 0; {
		chunk := uint64(payloadChunk)
		if remaining < chunk {
			chunk = remaining
		}
		if err := c.ReadFull(scratch[:chunk]); err != nil {
			return nil, err
		}
		out = append(out, scratch[:chunk]...)
		remaining -= chunk
	}

	return out, nil
}

// Decode reads one complete value from the cursor, materializing every node.
func Decode(c Cursor) (*value.Value, error) {
	h, err := readHeader(c)
	if err != nil {
		return nil, err
	}

	return decodePayload(c, h)
}

func decodePayload(c Cursor, h header) (*value.Value, error) {
	switch {
	case h.kind.IsNumeric():
		n, err := payloadSize(h.count, h.kind.Width())
		if err != nil {
			return nil, err
		}
		raw, err := readPayload(c, n)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			raw = []byte{}
		}

		return value.NewNumericRaw(h.kind, h.dims, raw)

	case h.kind == format.KindChar:
		raw, err := readPayload(c, h.count)
		if err != nil {
			return nil, err
		}

		return value.NewChar(h.dims, string(raw))

	case h.kind == format.KindStruct:
		return decodeStruct(c, h, nil)

	default: // format.KindCell
		return decodeCell(c, h)
	}
}

// decodeStruct reads a struct payload. When want is nil every field is
// materialized; otherwise unwanted fields are structurally skipped, leaving
// hole slots at their positions.
func decodeStruct(c Cursor, h header, want FieldSet) (*value.Value, error) {
	fieldWidth, err := c.ReadUint64()
	if err != nil {
		return nil, err
	}
	if fieldWidth > format.MaxFieldCount {
		return nil, fmt.Errorf("%w: %d fields, cap %d", errs.ErrTooManyFields, fieldWidth, format.MaxFieldCount)
	}

	v, err := value.NewStruct(h.dims, fieldWidth)
	if err != nil {
		return nil, err
	}

	for elem := uint64(0); elem < h.count; elem++ {
		for slot := uint64(0); slot < fieldWidth; slot++ {
			nameBytes, err := readLengthPrefixed(c, format.MaxNameLength, errs.ErrNameTooLong)
			if err != nil {
				return nil, err
			}

			if want != nil && !want.containsBytes(nameBytes) {
				if err := Skip(c); err != nil {
					return nil, err
				}

				continue // slot stays a hole
			}

			child, err := Decode(c)
			if err != nil {
				return nil, err
			}
			if err := v.SetField(elem, slot, string(nameBytes), child); err != nil {
				return nil, err
			}
		}
	}

	return v, nil
}

// decodeCell reads a cell payload. Each element carries a length-prefixed
// name that is conventionally empty; a nonempty name is stored verbatim.
func decodeCell(c Cursor, h header) (*value.Value, error) {
	v, err := value.NewCell(h.dims)
	if err != nil {
		return nil, err
	}

	for i := uint64(0); i < h.count; i++ {
		name, err := ReadName(c)
		if err != nil {
			return nil, err
		}

		child, err := Decode(c)
		if err != nil {
			return nil, err
		}
		if err := v.SetCell(i, name, child); err != nil {
			return nil, err
		}
	}

	return v, nil
}
