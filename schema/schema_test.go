package schema

import (
	"bytes"
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/require"

	"github.com/colexch/ipc/errs"
	"github.com/colexch/ipc/frame"
	"github.com/colexch/ipc/internal/iochan"
	"github.com/colexch/ipc/metadata"
)

// S1 — empty schema round trip through Encode/Decode.
func TestEncodeDecodeEmptySchema(t *testing.T) {
	s := metadata.Schema{Endianness: metadata.Little}

	var out bytes.Buffer
	w := iochan.NewWriter(&out)

	block, err := Encode(w, s)
	require.NoError(t, err)
	require.Zero(t, out.Len()%8)
	require.GreaterOrEqual(t, out.Len(), 16)
	require.Equal(t, int64(out.Len()), block.End())

	r := iochan.NewReader(bytes.NewReader(out.Bytes()))
	got, ok, err := Decode(r)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, s, got)
}

// Invariant 3: round-trip preserves field order, nullability, custom
// metadata ordering, endianness, and dictionary encodings.
func TestEncodeDecodeFullSchema(t *testing.T) {
	s := metadata.Schema{
		Endianness: metadata.Big,
		Fields: []metadata.Field{
			{Name: "id", Type: metadata.Int{BitWidth: 64, Signed: true}},
			{
				Name:     "symbol",
				Nullable: true,
				Type:     metadata.Utf8{},
				Dictionary: &metadata.DictionaryEncoding{
					ID:        3,
					IndexType: metadata.Int{BitWidth: 32, Signed: true},
					IsOrdered: false,
				},
			},
			{
				Name: "tags",
				Type: metadata.List{},
				Children: []metadata.Field{
					{Name: "item", Type: metadata.Utf8{}, Nullable: true},
				},
			},
		},
		CustomMetadata: []metadata.KeyValue{
			{Key: "producer", Value: "colexch"},
			{Key: "producer", Value: "duplicate-key-allowed"},
		},
	}

	var out bytes.Buffer
	w := iochan.NewWriter(&out)

	_, err := Encode(w, s)
	require.NoError(t, err)

	r := iochan.NewReader(bytes.NewReader(out.Bytes()))
	got, ok, err := Decode(r)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, s, got)
}

// Invariant (Field.Validate, spec.md §3): Encode rejects a Schema carrying
// a structurally invalid Field before a single byte reaches the channel —
// here a Map field missing its single two-child Struct child.
func TestEncodeRejectsInvalidFieldLayout(t *testing.T) {
	s := metadata.Schema{
		Fields: []metadata.Field{
			{Name: "bad", Type: metadata.Map{}},
		},
	}

	var out bytes.Buffer
	w := iochan.NewWriter(&out)

	_, err := Encode(w, s)
	require.ErrorIs(t, err, errs.ErrInvalidFieldLayout)
	require.Zero(t, out.Len())
}

func TestDecodeEndOfStream(t *testing.T) {
	r := iochan.NewReader(bytes.NewReader(nil))

	_, ok, err := Decode(r)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDecodeRejectsNonSchemaHeader(t *testing.T) {
	b := flatbuffers.NewBuilder(256)

	rb := metadata.RecordBatchHeader{Length: 0}
	headerOff := metadata.EncodeRecordBatchHeader(b, rb)
	msgOff := metadata.EncodeMessage(b, metadata.CurrentVersion, metadata.HeaderRecordBatch, headerOff, 0)
	b.Finish(msgOff)

	var out bytes.Buffer
	w := iochan.NewWriter(&out)

	_, err := frame.WriteMessage(w, b.FinishedBytes(), nil)
	require.NoError(t, err)

	r := iochan.NewReader(bytes.NewReader(out.Bytes()))
	_, ok, err := Decode(r)
	require.ErrorIs(t, err, errs.ErrUnexpectedHeader)
	require.False(t, ok)
}
