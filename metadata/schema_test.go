package metadata

import (
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/require"

	"github.com/colexch/ipc/errs"
)

func TestEndiannessString(t *testing.T) {
	require.Equal(t, "Little", Little.String())
	require.Equal(t, "Big", Big.String())
}

func TestSchemaRoundTrip(t *testing.T) {
	s := Schema{
		Endianness: Little,
		Fields: []Field{
			{Name: "id", Type: Int{BitWidth: 64, Signed: true}},
			{Name: "label", Type: Utf8{}, Nullable: true},
		},
		CustomMetadata: []KeyValue{
			{Key: "producer", Value: "colexch"},
		},
	}

	b := flatbuffers.NewBuilder(256)

	off, err := EncodeSchema(b, s)
	require.NoError(t, err)

	buf, rootPos := finishRoot(b, off)

	got, err := DecodeSchema(buf, rootPos)
	require.NoError(t, err)
	require.Equal(t, s, got)
}

func TestSchemaRoundTripEmptyFields(t *testing.T) {
	s := Schema{Endianness: Big}

	b := flatbuffers.NewBuilder(64)

	off, err := EncodeSchema(b, s)
	require.NoError(t, err)

	buf, rootPos := finishRoot(b, off)

	got, err := DecodeSchema(buf, rootPos)
	require.NoError(t, err)
	require.Equal(t, s, got)
}

// EncodeSchema rejects a Map field missing its single two-child Struct
// child before any bytes are written.
func TestEncodeSchemaRejectsInvalidFieldLayout(t *testing.T) {
	s := Schema{Fields: []Field{{Name: "bad", Type: Map{}}}}

	b := flatbuffers.NewBuilder(64)
	_, err := EncodeSchema(b, s)
	require.ErrorIs(t, err, errs.ErrInvalidFieldLayout)
}

// DecodeSchema enforces the same invariant independently of EncodeSchema:
// a Schema payload built by hand (bypassing EncodeSchema's own Validate
// call) with the same invalid Map layout must still be rejected on decode.
func TestDecodeSchemaRejectsInvalidFieldLayout(t *testing.T) {
	b := flatbuffers.NewBuilder(64)

	badField := Field{Name: "bad", Type: Map{}}
	fieldOff, err := buildField(b, badField)
	require.NoError(t, err)

	fieldsOff := buildOffsetVector(b, []flatbuffers.UOffsetT{fieldOff})

	b.StartObject(3)
	b.PrependInt16Slot(0, int16(Little), int16(Little))
	b.PrependUOffsetTSlot(1, fieldsOff, 0)
	schemaOff := b.EndObject()

	buf, rootPos := finishRoot(b, schemaOff)

	_, err = DecodeSchema(buf, rootPos)
	require.ErrorIs(t, err, errs.ErrInvalidFieldLayout)
}

func TestSchemaDefaultsToLittleEndian(t *testing.T) {
	b := flatbuffers.NewBuilder(64)

	off, err := EncodeSchema(b, Schema{})
	require.NoError(t, err)

	buf, rootPos := finishRoot(b, off)

	got, err := DecodeSchema(buf, rootPos)
	require.NoError(t, err)
	require.Equal(t, Little, got.Endianness)
}
