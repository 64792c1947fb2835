// Package frame implements the wire framing every metadata message rides
// on: a little-endian length prefix, the flatbuffer-encoded metadata
// payload, zero padding out to an 8-byte boundary, and (for batches) the
// body bytes that follow.
//
// Framing and body assembly are deliberately separate concerns: this
// package only ever sees an already-built payload and an already-assembled
// body byte slice. It knows nothing about Schema, RecordBatch, or buffer
// layout — that belongs to the schema and recordbatch packages built on
// top of it.
package frame

import (
	"fmt"
	"math"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/colexch/ipc/endian"
	"github.com/colexch/ipc/errs"
	"github.com/colexch/ipc/internal/iochan"
	"github.com/colexch/ipc/metadata"
)

// le is the fixed little-endian engine the 4-byte length prefix is always
// read with, independent of host or producer endianness.
var le = endian.GetLittleEndianEngine()

// Block identifies one framed message's placement on a stream: the
// absolute offset it starts at, the on-wire metadata length (including the
// 4-byte prefix, per the container-index convention spec'd for writers),
// and the body length that follows. All three are multiples of 8.
type Block struct {
	Start          int64
	MetadataLength int64
	BodyLength     int64
}

// End returns the absolute offset of the first byte following this block.
func (b Block) End() int64 { return b.Start + b.MetadataLength + b.BodyLength }

// WriteMessage frames payload (an already-finished flatbuffers Message) and
// body (an already-assembled byte slice, already internally padded to a
// multiple of 8, possibly empty) onto w, and reports the resulting Block.
//
// w's position must already be 8-byte aligned; callers start a fresh
// stream or align after a prior WriteMessage/WriteEOS call.
func WriteMessage(w iochan.WriteChannel, payload []byte, body []byte) (Block, error) {
	start := w.Position()
	if start%8 != 0 {
		return Block{}, errs.ErrChannelNotAligned
	}

	m := len(payload)
	pad := (8 - (4+m)%8) % 8
	stored := m + pad

	if stored > math.MaxInt32 {
		return Block{}, errs.ErrOversizedBatch
	}

	if err := w.WriteIntLE(int32(stored)); err != nil {
		return Block{}, err
	}

	if err := w.Write(payload); err != nil {
		return Block{}, err
	}

	// The channel's position is already (start + 4 + m), so aligning to the
	// next multiple of 8 pads by exactly `pad` bytes — the same quantity
	// baked into the stored length above.
	if err := w.Align(); err != nil {
		return Block{}, err
	}

	if len(body) > 0 {
		if err := w.Write(body); err != nil {
			return Block{}, err
		}
	}

	return Block{
		Start:          start,
		MetadataLength: int64(4 + stored),
		BodyLength:     int64(len(body)),
	}, nil
}

// WriteEOS writes the explicit zero-length prefix that terminates a stream.
func WriteEOS(w iochan.WriteChannel) error {
	return w.WriteIntLE(0)
}

// Envelope is one parsed framed message: its decoded Message header and the
// raw metadata payload bytes backing it. Callers resolve the header union
// (Schema/RecordBatchHeader/DictionaryBatchHeader) by calling the matching
// metadata.DecodeXxx with Message.HeaderPos against Payload.
type Envelope struct {
	Message metadata.Message
	Payload []byte
}

// ReadEnvelope reads one framed message from r.
//
// ok is false with a nil error at a clean end of stream: either the stream
// had nothing left to read, or the prefix read was the explicit
// zero-length marker. Both are "no message", not an error, per spec.
func ReadEnvelope(r iochan.ReadChannel) (Envelope, bool, error) {
	var prefix [4]byte

	n, err := r.ReadFully(prefix[:])
	if err != nil {
		return Envelope{}, false, err
	}

	if n == 0 {
		return Envelope{}, false, nil
	}

	if n < len(prefix) {
		return Envelope{}, false, errs.ErrUnexpectedEOF
	}

	metadataLength := le.Uint32(prefix[:])
	if metadataLength == 0 {
		return Envelope{}, false, nil
	}

	if metadataLength > math.MaxInt32 {
		return Envelope{}, false, errs.ErrOversizedBatch
	}

	payload := make([]byte, metadataLength)

	n, err = r.ReadFully(payload)
	if err != nil {
		return Envelope{}, false, err
	}

	if n < len(payload) {
		return Envelope{}, false, errs.ErrUnexpectedEOF
	}

	rootPos := flatbuffers.GetUOffsetT(payload)
	msg := metadata.DecodeMessage(payload, rootPos)

	if msg.Version != metadata.CurrentVersion {
		return Envelope{}, false, fmt.Errorf("%w: got %s", errs.ErrIncompatibleVersion, msg.Version)
	}

	// Caught here, before any body byte is read: a crafted oversized
	// bodyLength must fail without the reader attempting to consume a body
	// that large.
	if msg.BodyLength < 0 || msg.BodyLength > math.MaxInt32 {
		return Envelope{}, false, errs.ErrOversizedBatch
	}

	return Envelope{Message: msg, Payload: payload}, true, nil
}
