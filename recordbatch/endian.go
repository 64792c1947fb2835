package recordbatch

import (
	"github.com/colexch/ipc/endian"
	"github.com/colexch/ipc/metadata"
)

// bufferCount reports how many of rb.Buffers a field owns directly, not
// counting buffers owned by its own children: validity + values for every
// fixed-width primitive, validity + offsets + data for the two
// variable-length types, validity alone for Struct, and none for Null.
func bufferCount(f metadata.Field) int {
	switch f.Type.(type) {
	case metadata.Null:
		return 0
	case metadata.Struct:
		return 1
	case metadata.Binary, metadata.Utf8:
		return 3
	default:
		return 2
	}
}

// primitiveWidth reports the element byte width of a fixed-width logical
// type's values buffer, and whether that width is actually worth
// byte-swapping (a single-byte element never needs it). Variable-length,
// bit-packed, and nested types report ok=false: their buffers carry no
// uniform fixed-width element for SwapPrimitivesInPlace to reorder.
// FixedSizeBinary also reports ok=false: its elements are opaque byte
// strings, not integers with a byte order.
func primitiveWidth(t metadata.LogicalType) (width int, ok bool) {
	switch v := t.(type) {
	case metadata.Int:
		w := int(v.BitWidth) / 8
		return w, w > 1
	case metadata.FloatingPoint:
		switch v.Precision {
		case metadata.PrecisionHalf:
			return 2, true
		case metadata.PrecisionSingle:
			return 4, true
		case metadata.PrecisionDouble:
			return 8, true
		default:
			return 0, false
		}
	case metadata.Date:
		if v.Unit == metadata.DateDay {
			return 4, true
		}

		return 8, true
	case metadata.Time:
		w := int(v.BitWidth) / 8
		return w, w > 1
	case metadata.Timestamp:
		return 8, true
	case metadata.Decimal:
		return 16, true
	default:
		return 0, false
	}
}

// SwapToHostEndianness reconciles rb's fixed-width primitive value buffers
// with the host's native byte order, when producer (the Endianness a
// Schema was tagged with) disagrees with it. Validity bitmaps, offsets
// buffers, and variable-length or bit-packed data are left untouched — only
// a fixed-width values buffer has a uniform element size to reorder.
//
// fields is the owning Schema's field list in the same depth-first
// preorder rb.Nodes and rb.Buffers were emitted in. This is a
// consumer-facing call: the codec itself never calls it, since it has no
// access to the Schema a RecordBatch was read alongside.
func SwapToHostEndianness(rb RecordBatch, fields []metadata.Field, producer metadata.Endianness) {
	hostLE := endian.IsNativeLittleEndian()
	producerLE := producer == metadata.Little

	if hostLE == producerLE {
		return
	}

	idx := 0
	for _, f := range fields {
		idx = swapField(rb, f, idx)
	}
}

// swapField swaps field f's own values buffer (if fixed-width) and
// recurses into its children, returning the next unconsumed buffer index.
func swapField(rb RecordBatch, f metadata.Field, idx int) int {
	n := bufferCount(f)

	if width, ok := primitiveWidth(f.Type); ok && n >= 2 && idx+n-1 < len(rb.Buffers) {
		endian.SwapPrimitivesInPlace(width, rb.BufferBytes(idx+n-1))
	}

	idx += n

	for _, c := range f.Children {
		idx = swapField(rb, c, idx)
	}

	return idx
}
