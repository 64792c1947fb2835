// Package endian provides byte order utilities for the IPC wire format.
//
// Metadata integers are always little-endian on the wire, independent of
// host or producer endianness. Column body buffers, however, are written
// in the producer's native endianness and tagged by Schema.Endianness; a
// consumer running on a mismatching platform must byte-swap primitive
// buffers itself before use. This package supplies both: a unified
// ByteOrder/AppendByteOrder engine for metadata I/O, and a mechanical
// byte-swap helper for body buffers.
//
// # Basic usage
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, metadataLength)
//
// # Thread safety
//
// All functions in this package are safe for concurrent use. The returned
// EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single interface for convenient byte order
// operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian
// from the standard library.
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

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// CompareNativeEndian reports whether engine matches the host's native byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine. The wire format's
// metadata integers always use this engine, independent of host endianness.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine, used when decoding the
// body buffers of a Schema tagged as produced on a big-endian host.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// SwapPrimitivesInPlace reverses the byte order of every fixed-width element
// of the given width (2, 4, 8, or 16 bytes) within buf, in place.
//
// This is a mechanical reordering only: it does not interpret or transform
// values, so a caller can use it to reconcile a body buffer's producer
// endianness with the host's without the codec needing to understand the
// buffer's logical type. len(buf) must be a multiple of width; a trailing
// partial element, if any, is left untouched.
func SwapPrimitivesInPlace(width int, buf []byte) {
	if width != 2 && width != 4 && width != 8 && width != 16 {
		panic("endian: SwapPrimitivesInPlace: width must be 2, 4, 8, or 16")
	}

	n := len(buf) - (len(buf) % width)
	for off := 0; off < n; off += width {
		elem := buf[off : off+width]
		for i, j := 0, width-1; i < j; i, j = i+1, j-1 {
			elem[i], elem[j] = elem[j], elem[i]
		}
	}
}
