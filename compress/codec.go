// Package compress implements the block compression codecs used for
// transparently reading compressed BHV2 files.
//
// Recording rigs often archive session files as .bhv2.zst (or .s2 / .lz4);
// Open detects the codec from the file extension, decompresses the whole
// container into memory and runs the streaming session over the result. The
// BHV2 wire format itself is never compressed; compression wraps the file
// as a whole.
package compress

import (
	"fmt"
	"strings"
)

// Type identifies a compression codec.
type Type uint8

const (
	None Type = iota + 1
	Zstd
	S2
	LZ4
)

// String returns the codec name.
func (t Type) String() string {
	switch t {
	case None:
		return "None"
	case Zstd:
		return "Zstd"
	case S2:
		return "S2"
	case LZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Compressor compresses a complete byte block.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	// The returned slice is newly allocated unless the codec is a no-op.
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a complete byte block.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original
	// bytes. Corrupted or mismatched input returns an error.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// DetectPath infers the compression type from the file name extension.
// Unrecognized extensions mean an uncompressed file.
func DetectPath(path string) Type {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".zstd"):
		return Zstd
	case strings.HasSuffix(lower, ".s2"):
		return S2
	case strings.HasSuffix(lower, ".lz4"):
		return LZ4
	default:
		return None
	}
}

var builtinCodecs = map[Type]Codec{
	None: NewNoOpCodec(),
	Zstd: NewZstdCodec(),
	S2:   NewS2Codec(),
	LZ4:  NewLZ4Codec(),
}

// GetCodec retrieves the built-in Codec for the given type.
func GetCodec(t Type) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", t)
}
