package metadata

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// Endianness describes the byte order of the platform that produced a
// Schema's (future) record batch bodies. It does not affect how the
// metadata itself is encoded — metadata integers are always little-endian.
type Endianness int16

const (
	Little Endianness = iota
	Big
)

func (e Endianness) String() string {
	if e == Big {
		return "Big"
	}

	return "Little"
}

// Schema is the top-level description of a sequence of record batches: an
// ordered field list (in the fixed depth-first preorder record batches
// reference), the producer's endianness, and custom metadata.
type Schema struct {
	Endianness     Endianness
	Fields         []Field
	CustomMetadata []KeyValue
}

// EncodeSchema writes s as a flatbuffers Schema table into b and returns its offset.
func EncodeSchema(b *flatbuffers.Builder, s Schema) (flatbuffers.UOffsetT, error) {
	fieldOffs := make([]flatbuffers.UOffsetT, len(s.Fields))
	for i, f := range s.Fields {
		if err := f.Validate(); err != nil {
			return 0, err
		}

		off, err := buildField(b, f)
		if err != nil {
			return 0, err
		}

		fieldOffs[i] = off
	}

	var fieldsOff flatbuffers.UOffsetT
	if len(fieldOffs) > 0 {
		fieldsOff = buildOffsetVector(b, fieldOffs)
	}

	metaOff := buildKeyValueVector(b, s.CustomMetadata)

	b.StartObject(3)
	b.PrependInt16Slot(0, int16(s.Endianness), int16(Little))
	if fieldsOff != 0 {
		b.PrependUOffsetTSlot(1, fieldsOff, 0)
	}
	if metaOff != 0 {
		b.PrependUOffsetTSlot(2, metaOff, 0)
	}

	return b.EndObject(), nil
}

// DecodeSchema reads a Schema table at pos within buf.
func DecodeSchema(buf []byte, pos flatbuffers.UOffsetT) (Schema, error) {
	var t flatbuffers.Table
	t.Bytes = buf
	t.Pos = pos

	s := Schema{
		Endianness: Endianness(getInt16(&t, 4, int16(Little))),
	}

	if start, n, ok := vectorInfo(&t, 6); ok && n > 0 {
		fields := make([]Field, n)
		for i := range n {
			f, err := decodeField(buf, tableVectorElemPos(&t, start, i))
			if err != nil {
				return Schema{}, err
			}

			if err := f.Validate(); err != nil {
				return Schema{}, err
			}

			fields[i] = f
		}

		s.Fields = fields
	}

	meta, err := decodeKeyValueVector(&t, 8)
	if err != nil {
		return Schema{}, err
	}

	s.CustomMetadata = meta

	return s, nil
}
