// Package hash provides 64-bit identifiers for field names.
//
// Selective decoding checks every struct field name against the wanted set;
// hashing the names once lets that membership test run on uint64 keys
// instead of string comparisons.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// IDBytes computes the xxHash64 of the given bytes without a string
// conversion, for names read straight off the wire.
func IDBytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}
