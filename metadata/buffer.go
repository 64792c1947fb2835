package metadata

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// Buffer locates one column buffer within a record batch's body: Offset is
// relative to the start of the body, Length is its exact byte count. Like
// FieldNode, Buffer is a fixed-layout flatbuffers struct stored inline in
// its containing vector, not a vtabled table.
type Buffer struct {
	Offset int64
	Length int64
}

const bufferDescriptorSize = 16

func createBuffer(b *flatbuffers.Builder, buf Buffer) flatbuffers.UOffsetT {
	b.Prep(8, bufferDescriptorSize)
	b.PrependInt64(buf.Length)
	b.PrependInt64(buf.Offset)

	return b.Offset()
}

func buildBufferVector(b *flatbuffers.Builder, buffers []Buffer) flatbuffers.UOffsetT {
	b.StartVector(bufferDescriptorSize, len(buffers), 8)
	for i := len(buffers) - 1; i >= 0; i-- {
		createBuffer(b, buffers[i])
	}

	return b.EndVector(len(buffers))
}

func decodeBuffer(buf []byte, pos flatbuffers.UOffsetT) Buffer {
	return Buffer{
		Offset: int64(le.Uint64(buf[pos:])),
		Length: int64(le.Uint64(buf[pos+8:])),
	}
}
