package recordbatch

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colexch/ipc/endian"
	"github.com/colexch/ipc/internal/iochan"
	"github.com/colexch/ipc/metadata"
	"github.com/colexch/ipc/region"
)

// foreignColumns mirrors int32Columns but packs the values buffer in the
// non-host byte order, as a producer on the opposite-endian platform would
// have written it.
func foreignColumns(values []int32) []Column {
	foreign := endian.GetBigEndianEngine()
	if endian.IsNativeBigEndian() {
		foreign = endian.GetLittleEndianEngine()
	}

	validity := []byte{0xFF}

	valuesBuf := make([]byte, len(values)*4)
	for i, v := range values {
		foreign.PutUint32(valuesBuf[i*4:], uint32(v))
	}

	return []Column{
		{Buffer: metadata.Buffer{Offset: 0, Length: int64(len(validity))}, Data: validity},
		{Buffer: metadata.Buffer{Offset: 8, Length: int64(len(valuesBuf))}, Data: valuesBuf},
	}
}

// foreignEndianness reports the Schema.Endianness tag a producer on the
// opposite-endian platform from this host would have stamped its batches
// with, matching the byte order foreignColumns actually packed.
func foreignEndianness() metadata.Endianness {
	if endian.IsNativeBigEndian() {
		return metadata.Little
	}

	return metadata.Big
}

// TestSwapToHostEndiannessReconcilesForeignBatch builds a record batch whose
// int32 values buffer is packed in the opposite-of-host byte order, the way
// a producer tagged with the opposite Schema.Endianness would have written
// it, and checks that SwapToHostEndianness brings it back to host order.
func TestSwapToHostEndiannessReconcilesForeignBatch(t *testing.T) {
	fields := []metadata.Field{
		{Name: "v", Type: metadata.Int{BitWidth: 32, Signed: true}},
	}
	nodes := []metadata.FieldNode{{Length: 3, NullCount: 0}}
	columns := foreignColumns([]int32{1, 2, 3})

	var out bytes.Buffer
	w := iochan.NewWriter(&out)

	_, err := WriteRecordBatch(w, 3, nodes, columns)
	require.NoError(t, err)

	alloc := region.NewHeapAllocator()
	r := iochan.NewReader(bytes.NewReader(out.Bytes()))

	rb, ok, err := ReadRecordBatch(r, alloc)
	require.NoError(t, err)
	require.True(t, ok)

	// Bytes came off the wire exactly as the foreign producer packed them;
	// decoding as host-native order does not yet recover the real values.
	host := endian.GetLittleEndianEngine()
	if endian.IsNativeBigEndian() {
		host = endian.GetBigEndianEngine()
	}

	values := rb.BufferBytes(1)
	require.NotEqual(t, int32(1), int32(host.Uint32(values[0:])))

	SwapToHostEndianness(rb, fields, foreignEndianness())

	for i, want := range []int32{1, 2, 3} {
		got := int32(host.Uint32(values[i*4:]))
		require.Equal(t, want, got)
	}

	require.NoError(t, rb.Release())
}

// TestSwapToHostEndiannessNoopWhenHostMatchesProducer checks that a batch
// tagged with the host's own endianness is left untouched.
func TestSwapToHostEndiannessNoopWhenHostMatchesProducer(t *testing.T) {
	fields := []metadata.Field{
		{Name: "v", Type: metadata.Int{BitWidth: 32, Signed: true}},
	}
	nodes := []metadata.FieldNode{{Length: 2, NullCount: 0}}
	columns := int32Columns([]int32{42, 99})

	var out bytes.Buffer
	w := iochan.NewWriter(&out)

	_, err := WriteRecordBatch(w, 2, nodes, columns)
	require.NoError(t, err)

	alloc := region.NewHeapAllocator()
	rb, ok, err := ReadRecordBatch(iochan.NewReader(bytes.NewReader(out.Bytes())), alloc)
	require.NoError(t, err)
	require.True(t, ok)

	before := append([]byte(nil), rb.BufferBytes(1)...)

	hostEndianness := metadata.Little
	if endian.IsNativeBigEndian() {
		hostEndianness = metadata.Big
	}

	SwapToHostEndianness(rb, fields, hostEndianness)

	require.Equal(t, before, rb.BufferBytes(1))
	require.NoError(t, rb.Release())
}

// TestSwapToHostEndiannessSkipsValidityBuffer checks that only the values
// buffer is swapped, never the validity bitmap that precedes it.
func TestSwapToHostEndiannessSkipsValidityBuffer(t *testing.T) {
	fields := []metadata.Field{
		{Name: "v", Type: metadata.Int{BitWidth: 32, Signed: true}},
	}
	nodes := []metadata.FieldNode{{Length: 1, NullCount: 0}}
	columns := foreignColumns([]int32{7})

	var out bytes.Buffer
	w := iochan.NewWriter(&out)

	_, err := WriteRecordBatch(w, 1, nodes, columns)
	require.NoError(t, err)

	rb, ok, err := ReadRecordBatch(iochan.NewReader(bytes.NewReader(out.Bytes())), region.NewHeapAllocator())
	require.NoError(t, err)
	require.True(t, ok)

	validityBefore := append([]byte(nil), rb.BufferBytes(0)...)

	SwapToHostEndianness(rb, fields, foreignEndianness())

	require.Equal(t, validityBefore, rb.BufferBytes(0))
	require.NoError(t, rb.Release())
}
