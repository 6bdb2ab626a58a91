// Package endian provides byte order utilities for BHV2 binary decoding.
//
// The BHV2 wire format is strictly little-endian: every length and count
// field is an unsigned 64-bit little-endian integer and floating point
// payloads are IEEE-754 little-endian. Decoders therefore always use
// GetLittleEndianEngine; the native-endianness helpers exist so payload
// accessors can take a copy-free fast path on little-endian hosts.
//
// EndianEngine combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single interface, satisfied by binary.LittleEndian
// and binary.BigEndian from the standard library.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single interface for convenient byte order
// operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	// Create a byte slice pointing to the memory address of 'i'.
	// We only need the first byte.
	b := (*[2]byte)(unsafe.Pointer(&i))

	// Check the first byte at the lowest memory address
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host stores integers
// least-significant byte first.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine, the only byte
// order the BHV2 wire format uses.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
