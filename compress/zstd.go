package compress

// ZstdCodec compresses with Zstandard, the ratio-oriented choice for
// archived session files.
//
// Two implementations exist: the default pure-Go klauspost/compress backend
// and a cgo backend over libzstd selected with the `gozstd` build tag for
// deployments that already link the C library.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd codec.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
