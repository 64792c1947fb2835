package metadata

import (
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/require"
)

func TestRecordBatchHeaderRoundTrip(t *testing.T) {
	h := RecordBatchHeader{
		Length: 3,
		Nodes: []FieldNode{
			{Length: 3, NullCount: 1},
			{Length: 3, NullCount: 0},
		},
		Buffers: []Buffer{
			{Offset: 0, Length: 8},
			{Offset: 8, Length: 16},
			{Offset: 24, Length: 24},
			{Offset: 48, Length: 24},
		},
	}

	b := flatbuffers.NewBuilder(256)
	off := EncodeRecordBatchHeader(b, h)
	buf, rootPos := finishRoot(b, off)

	got := DecodeRecordBatchHeader(buf, rootPos)
	require.Equal(t, h, got)
}

func TestRecordBatchHeaderRoundTripNoColumns(t *testing.T) {
	h := RecordBatchHeader{Length: 0}

	b := flatbuffers.NewBuilder(32)
	off := EncodeRecordBatchHeader(b, h)
	buf, rootPos := finishRoot(b, off)

	got := DecodeRecordBatchHeader(buf, rootPos)
	require.Equal(t, h, got)
}
