package metadata

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// FieldNode carries per-column statistics (row count, null count) in the
// fixed depth-first preorder of the owning schema. Unlike Field or Schema,
// FieldNode has no vtable: it is a flatbuffers struct, stored inline in its
// containing vector at a fixed 16-byte stride.
type FieldNode struct {
	Length    int64
	NullCount int64
}

const fieldNodeSize = 16

// createFieldNode writes one FieldNode inline at the builder's current
// struct-vector cursor, mirroring the CreateX helper flatc would generate
// for a fixed-layout struct.
func createFieldNode(b *flatbuffers.Builder, n FieldNode) flatbuffers.UOffsetT {
	b.Prep(8, fieldNodeSize)
	b.PrependInt64(n.NullCount)
	b.PrependInt64(n.Length)

	return b.Offset()
}

// buildFieldNodeVector writes nodes as a vector of inline FieldNode structs
// and returns the vector's offset.
func buildFieldNodeVector(b *flatbuffers.Builder, nodes []FieldNode) flatbuffers.UOffsetT {
	b.StartVector(fieldNodeSize, len(nodes), 8)
	for i := len(nodes) - 1; i >= 0; i-- {
		createFieldNode(b, nodes[i])
	}

	return b.EndVector(len(nodes))
}

func decodeFieldNode(buf []byte, pos flatbuffers.UOffsetT) FieldNode {
	return FieldNode{
		Length:    int64(le.Uint64(buf[pos:])),
		NullCount: int64(le.Uint64(buf[pos+8:])),
	}
}
