package metadata

import (
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/colexch/ipc/endian"
)

// This file implements the small set of vtable field accessors the decode
// side of this package needs. flatbuffers.Table.Offset does the actual
// vtable lookup (field N is absent -> returns 0); everything past that is
// plain little-endian byte math over the table's own backing buffer, which
// keeps this package from depending on less commonly used corners of the
// flatbuffers runtime API.
//
// Metadata integers are always little-endian on the wire, independent of
// host or producer endianness, so every read here goes through the same
// fixed engine rather than the host's native order.
var le = endian.GetLittleEndianEngine()

func fieldOffset(t *flatbuffers.Table, slot flatbuffers.VOffsetT) (flatbuffers.UOffsetT, bool) {
	o := t.Offset(slot)
	if o == 0 {
		return 0, false
	}

	return t.Pos + flatbuffers.UOffsetT(o), true
}

func getInt8(t *flatbuffers.Table, slot flatbuffers.VOffsetT, def int8) int8 {
	pos, ok := fieldOffset(t, slot)
	if !ok {
		return def
	}

	return int8(t.Bytes[pos])
}

func getBool(t *flatbuffers.Table, slot flatbuffers.VOffsetT, def bool) bool {
	pos, ok := fieldOffset(t, slot)
	if !ok {
		return def
	}

	return t.Bytes[pos] != 0
}

func getInt16(t *flatbuffers.Table, slot flatbuffers.VOffsetT, def int16) int16 {
	pos, ok := fieldOffset(t, slot)
	if !ok {
		return def
	}

	return int16(le.Uint16(t.Bytes[pos:]))
}

func getInt32(t *flatbuffers.Table, slot flatbuffers.VOffsetT, def int32) int32 {
	pos, ok := fieldOffset(t, slot)
	if !ok {
		return def
	}

	return int32(le.Uint32(t.Bytes[pos:]))
}

func getInt64(t *flatbuffers.Table, slot flatbuffers.VOffsetT, def int64) int64 {
	pos, ok := fieldOffset(t, slot)
	if !ok {
		return def
	}

	return int64(le.Uint64(t.Bytes[pos:]))
}

// indirect follows the UOffsetT stored at pos (the field slot itself) to
// the absolute position of the object it points to (string, vector, or
// nested table).
func indirect(t *flatbuffers.Table, pos flatbuffers.UOffsetT) flatbuffers.UOffsetT {
	return pos + flatbuffers.UOffsetT(le.Uint32(t.Bytes[pos:]))
}

// getString reads an optional string field, returning "" if the field's
// vtable entry is absent.
func getString(t *flatbuffers.Table, slot flatbuffers.VOffsetT) string {
	pos, ok := fieldOffset(t, slot)
	if !ok {
		return ""
	}

	strPos := indirect(t, pos)
	n := le.Uint32(t.Bytes[strPos:])
	start := strPos + 4

	return string(t.Bytes[start : start+n])
}

// getTablePos returns the absolute position of a nested table field, and
// whether the field was present.
func getTablePos(t *flatbuffers.Table, slot flatbuffers.VOffsetT) (flatbuffers.UOffsetT, bool) {
	pos, ok := fieldOffset(t, slot)
	if !ok {
		return 0, false
	}

	return indirect(t, pos), true
}

// vectorInfo resolves a vector field's element count and the absolute
// position of its first element, or ok=false if the field is absent.
func vectorInfo(t *flatbuffers.Table, slot flatbuffers.VOffsetT) (start flatbuffers.UOffsetT, n int, ok bool) {
	pos, present := fieldOffset(t, slot)
	if !present {
		return 0, 0, false
	}

	vecPos := indirect(t, pos)
	length := le.Uint32(t.Bytes[vecPos:])

	return vecPos + 4, int(length), true
}

// getInt32Vector decodes a vector-of-int32 field in full.
func getInt32Vector(t *flatbuffers.Table, slot flatbuffers.VOffsetT) []int32 {
	start, n, ok := vectorInfo(t, slot)
	if !ok || n == 0 {
		return nil
	}

	out := make([]int32, n)
	for i := range n {
		out[i] = int32(le.Uint32(t.Bytes[start+flatbuffers.UOffsetT(i*4):]))
	}

	return out
}

// tableVectorElemPos returns the absolute position of element i of a
// vector-of-tables field whose first element starts at start.
func tableVectorElemPos(t *flatbuffers.Table, start flatbuffers.UOffsetT, i int) flatbuffers.UOffsetT {
	elemFieldPos := start + flatbuffers.UOffsetT(i*4)

	return indirect(t, elemFieldPos)
}

// structVectorElemPos returns the absolute position of element i of a
// vector-of-fixed-layout-structs field (e.g. FieldNode, Buffer), each
// elemSize bytes wide and stored inline (no indirection).
func structVectorElemPos(start flatbuffers.UOffsetT, elemSize, i int) flatbuffers.UOffsetT {
	return start + flatbuffers.UOffsetT(i*elemSize)
}
