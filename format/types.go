// Package format defines the closed set of BHV2 element kinds, their wire
// names, their fixed element widths, and the structural limits the format
// imposes on decoders.
//
// BHV2 identifies types on the wire by name ("double", "struct", ...). That
// string is resolved exactly once, at this boundary, into an ElementKind;
// all later dispatch happens on the enum, never on strings.
package format

// ElementKind identifies the payload type of a decoded value.
type ElementKind uint8

const (
	KindUnknown ElementKind = iota
	KindFloat64             // "double"
	KindFloat32             // "single"
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindLogical // "logical", 1 byte per element
	KindChar    // "char", flattened to one string
	KindStruct  // variable-width composite
	KindCell    // variable-width composite
)

// Structural limits imposed by the format. A decoder must reject any declared
// length exceeding these caps before allocating storage sized by it.
const (
	MaxNameLength = 10000 // variable and struct field names
	MaxTypeLength = 100   // wire type names
	MaxRank       = 100   // dimension count
	MaxFieldCount = 1000  // distinct field slots per struct element
)

var kindNames = map[string]ElementKind{
	"double":  KindFloat64,
	"single":  KindFloat32,
	"uint8":   KindUint8,
	"uint16":  KindUint16,
	"uint32":  KindUint32,
	"uint64":  KindUint64,
	"int8":    KindInt8,
	"int16":   KindInt16,
	"int32":   KindInt32,
	"int64":   KindInt64,
	"logical": KindLogical,
	"char":    KindChar,
	"struct":  KindStruct,
	"cell":    KindCell,
}

// KindOf resolves a wire type name to its ElementKind.
//
// An unrecognized name returns KindUnknown; treating that as a format error
// is the caller's responsibility.
func KindOf(name string) ElementKind {
	if k, ok := kindNames[name]; ok {
		return k
	}

	return KindUnknown
}

// String returns the wire type name for the kind.
func (k ElementKind) String() string {
	switch k {
	case KindFloat64:
		return "double"
	case KindFloat32:
		return "single"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindLogical:
		return "logical"
	case KindChar:
		return "char"
	case KindStruct:
		return "struct"
	case KindCell:
		return "cell"
	default:
		return "unknown"
	}
}

// Width returns the fixed element width in bytes, or 0 for the
// variable-width composite kinds (struct, cell) and for KindUnknown.
func (k ElementKind) Width() int {
	switch k {
	case KindFloat64, KindUint64, KindInt64:
		return 8
	case KindFloat32, KindUint32, KindInt32:
		return 4
	case KindUint16, KindInt16:
		return 2
	case KindUint8, KindInt8, KindLogical, KindChar:
		return 1
	default:
		return 0
	}
}

// IsNumeric reports whether the kind has a fixed-width numeric payload
// (including logical). Char is excluded: its payload is a string.
func (k ElementKind) IsNumeric() bool {
	switch k {
	case KindFloat64, KindFloat32,
		KindUint8, KindUint16, KindUint32, KindUint64,
		KindInt8, KindInt16, KindInt32, KindInt64,
		KindLogical:
		return true
	default:
		return false
	}
}

// IsComposite reports whether the kind is struct or cell.
func (k ElementKind) IsComposite() bool {
	return k == KindStruct || k == KindCell
}
