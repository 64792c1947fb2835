package metadata

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// MessageHeaderType tags the union value carried by a Message: which of
// Schema, RecordBatchHeader, or DictionaryBatchHeader its Header offset
// actually points at.
type MessageHeaderType byte

const (
	HeaderNone MessageHeaderType = iota
	HeaderSchema
	HeaderDictionaryBatch
	HeaderRecordBatch
)

func (h MessageHeaderType) String() string {
	switch h {
	case HeaderSchema:
		return "Schema"
	case HeaderDictionaryBatch:
		return "DictionaryBatch"
	case HeaderRecordBatch:
		return "RecordBatch"
	default:
		return "None"
	}
}

// Message is the envelope every frame on the wire carries: a version stamp,
// a union tag identifying the header's concrete type, the header table
// itself, and the byte length of the body that follows (0 for Schema
// messages, which carry no body).
//
// Message itself holds only the union's offset/position, not a decoded
// Schema/RecordBatchHeader/DictionaryBatchHeader — callers dispatch on
// HeaderType and call the matching DecodeXxx with HeaderPos.
type Message struct {
	Version    Version
	HeaderType MessageHeaderType
	HeaderPos  flatbuffers.UOffsetT
	BodyLength int64
}

// EncodeMessage writes the Message envelope around an already-built header
// table (headerOff), tagged headerType, and returns the Message table's
// offset. With headerOff=0 the header slot is left absent and decodes as
// HeaderPos 0. A stream's end is not a Message: it is the zero-length
// prefix frame.WriteEOS writes, and a framed HeaderNone message is
// rejected by the reader as an unexpected header.
func EncodeMessage(b *flatbuffers.Builder, version Version, headerType MessageHeaderType, headerOff flatbuffers.UOffsetT, bodyLength int64) flatbuffers.UOffsetT {
	b.StartObject(4)
	b.PrependInt16Slot(0, int16(version), 0)
	b.PrependByteSlot(1, byte(headerType), 0)
	if headerOff != 0 {
		b.PrependUOffsetTSlot(2, headerOff, 0)
	}
	b.PrependInt64Slot(3, bodyLength, 0)

	return b.EndObject()
}

// DecodeMessage reads the Message table at pos within buf.
func DecodeMessage(buf []byte, pos flatbuffers.UOffsetT) Message {
	var t flatbuffers.Table
	t.Bytes = buf
	t.Pos = pos

	m := Message{
		Version:    Version(getInt16(&t, 4, 0)),
		HeaderType: MessageHeaderType(getInt8(&t, 6, 0)),
		BodyLength: getInt64(&t, 10, 0),
	}

	if headerPos, ok := getTablePos(&t, 8); ok {
		m.HeaderPos = headerPos
	}

	return m
}
