package metadata

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// finishRoot finishes b with root at off and returns the finished buffer
// together with the absolute position of the root table within it — the
// same two values a generated GetRootAsX function would derive.
func finishRoot(b *flatbuffers.Builder, off flatbuffers.UOffsetT) ([]byte, flatbuffers.UOffsetT) {
	b.Finish(off)
	buf := b.FinishedBytes()

	return buf, flatbuffers.GetUOffsetT(buf)
}
