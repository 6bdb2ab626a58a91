package codec

import (
	"github.com/prestolab/bhv2/format"
	"github.com/prestolab/bhv2/internal/hash"
	"github.com/prestolab/bhv2/value"
)

// FieldSet is the set of wanted struct field names for a selective decode,
// keyed by the xxHash64 of each name so the per-field membership test runs
// on uint64 keys instead of string comparisons.
//
// Field names come from trusted recording software, not adversarial input,
// so a 64-bit hash is collision-safe in practice.
type FieldSet map[uint64]struct{}

// NewFieldSet builds a FieldSet from the given names.
func NewFieldSet(names ...string) FieldSet {
	s := make(FieldSet, len(names))
	for _, name := range names {
		s.Add(name)
	}

	return s
}

// Add inserts a name into the set.
func (s FieldSet) Add(name string) {
	s[hash.ID(name)] = struct{}{}
}

// Contains reports whether name is in the set.
func (s FieldSet) Contains(name string) bool {
	_, ok := s[hash.ID(name)]
	return ok
}

// containsBytes checks a name read straight off the wire without converting
// it to a string.
func (s FieldSet) containsBytes(name []byte) bool {
	_, ok := s[hash.IDBytes(name)]
	return ok
}

// DecodeSelective reads one complete value, materializing only the struct
// fields named in want. Unwanted fields are structurally skipped and their
// slots left as holes, so the field table keeps its full
// element_count * field_width size and the cursor consumes exactly the
// bytes a full Decode would.
//
// Selection applies to the top-level struct only; the nested values of
// wanted fields decode fully. A non-struct top-level value decodes fully
// regardless of want. A nil want decodes everything.
func DecodeSelective(c Cursor, want FieldSet) (*value.Value, error) {
	h, err := readHeader(c)
	if err != nil {
		return nil, err
	}

	if h.kind == format.KindStruct {
		return decodeStruct(c, h, want)
	}

	return decodePayload(c, h)
}
