package metadata

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// RecordBatchHeader is the metadata half of a record batch: the row count,
// per-column FieldNode statistics in schema DFS-preorder, and the Buffer
// descriptors locating each column buffer within the batch's body.
//
// RecordBatchHeader carries no data itself — Length/Nodes/Buffers describe
// where the caller's columnar bytes live in the body region that
// accompanies this header on the wire.
type RecordBatchHeader struct {
	Length  int64
	Nodes   []FieldNode
	Buffers []Buffer
}

// EncodeRecordBatchHeader writes h as a flatbuffers RecordBatch table.
func EncodeRecordBatchHeader(b *flatbuffers.Builder, h RecordBatchHeader) flatbuffers.UOffsetT {
	nodesOff := buildFieldNodeVector(b, h.Nodes)
	buffersOff := buildBufferVector(b, h.Buffers)

	b.StartObject(3)
	b.PrependInt64Slot(0, h.Length, 0)
	b.PrependUOffsetTSlot(1, nodesOff, 0)
	b.PrependUOffsetTSlot(2, buffersOff, 0)

	return b.EndObject()
}

// DecodeRecordBatchHeader reads a RecordBatch table at pos within buf.
func DecodeRecordBatchHeader(buf []byte, pos flatbuffers.UOffsetT) RecordBatchHeader {
	var t flatbuffers.Table
	t.Bytes = buf
	t.Pos = pos

	h := RecordBatchHeader{Length: getInt64(&t, 4, 0)}

	if start, n, ok := vectorInfo(&t, 6); ok && n > 0 {
		nodes := make([]FieldNode, n)
		for i := range n {
			nodes[i] = decodeFieldNode(buf, structVectorElemPos(start, fieldNodeSize, i))
		}

		h.Nodes = nodes
	}

	if start, n, ok := vectorInfo(&t, 8); ok && n > 0 {
		buffers := make([]Buffer, n)
		for i := range n {
			buffers[i] = decodeBuffer(buf, structVectorElemPos(start, bufferDescriptorSize, i))
		}

		h.Buffers = buffers
	}

	return h
}
