package metadata

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// DictionaryBatchHeader delivers the values for one dictionary-encoded
// column out of band. ID correlates it with every Field whose
// DictionaryEncoding.ID matches; Data is laid out exactly like a single
// one-column RecordBatchHeader.
type DictionaryBatchHeader struct {
	ID   int64
	Data RecordBatchHeader
}

// EncodeDictionaryBatchHeader writes h as a flatbuffers DictionaryBatch table.
func EncodeDictionaryBatchHeader(b *flatbuffers.Builder, h DictionaryBatchHeader) flatbuffers.UOffsetT {
	dataOff := EncodeRecordBatchHeader(b, h.Data)

	b.StartObject(2)
	b.PrependInt64Slot(0, h.ID, 0)
	b.PrependUOffsetTSlot(1, dataOff, 0)

	return b.EndObject()
}

// DecodeDictionaryBatchHeader reads a DictionaryBatch table at pos within buf.
func DecodeDictionaryBatchHeader(buf []byte, pos flatbuffers.UOffsetT) DictionaryBatchHeader {
	var t flatbuffers.Table
	t.Bytes = buf
	t.Pos = pos

	h := DictionaryBatchHeader{ID: getInt64(&t, 4, 0)}

	if dataPos, ok := getTablePos(&t, 6); ok {
		h.Data = DecodeRecordBatchHeader(buf, dataPos)
	}

	return h
}
