package ipc

import (
	"github.com/colexch/ipc/errs"
	"github.com/colexch/ipc/frame"
	"github.com/colexch/ipc/internal/iochan"
	"github.com/colexch/ipc/metadata"
	"github.com/colexch/ipc/recordbatch"
	"github.com/colexch/ipc/region"
)

// MessageKind identifies which payload a dispatched Message carries.
type MessageKind int

const (
	KindSchema MessageKind = iota
	KindRecordBatch
	KindDictionaryBatch
)

func (k MessageKind) String() string {
	switch k {
	case KindSchema:
		return "Schema"
	case KindRecordBatch:
		return "RecordBatch"
	case KindDictionaryBatch:
		return "DictionaryBatch"
	default:
		return "unknown"
	}
}

// Message is one dispatched, fully materialized payload read off a
// stream. Exactly one of Schema, RecordBatch, or DictionaryBatch is
// populated, selected by Kind.
type Message struct {
	Kind            MessageKind
	Schema          metadata.Schema
	RecordBatch     recordbatch.RecordBatch
	DictionaryBatch recordbatch.DictionaryBatch
}

// Release releases any body region the message's payload owns. Safe to
// call regardless of Kind (a Schema message owns nothing).
func (m Message) Release() error {
	switch m.Kind {
	case KindRecordBatch:
		return m.RecordBatch.Release()
	case KindDictionaryBatch:
		return m.DictionaryBatch.Release()
	default:
		return nil
	}
}

// ReconcileEndianness byte-swaps m's fixed-width primitive column buffers
// into the host's native order when schema.Endianness (the producer's
// endianness) disagrees with it. schema.Fields must be the same Schema the
// message was read alongside, in its original field order. A no-op for
// KindSchema messages and for a DictionaryBatch, whose replacement values
// a caller reconciles the same way via its own schema once delivered.
func (m Message) ReconcileEndianness(schema metadata.Schema) {
	if m.Kind != KindRecordBatch {
		return
	}

	recordbatch.SwapToHostEndianness(m.RecordBatch, schema.Fields, schema.Endianness)
}

// MessageReader reads one framed message at a time off a ReadChannel and
// dispatches it by header type, implementing the state machine: read
// prefix, zero means end of stream, otherwise read the header and dispatch
// on its type, reading a body for RecordBatch/DictionaryBatch before
// returning. An unrecognized header type or a transport failure leaves the
// underlying channel in an undefined position — callers must discard it.
type MessageReader struct {
	r     iochan.ReadChannel
	alloc region.Allocator
}

// NewMessageReader creates a MessageReader over r, allocating record and
// dictionary batch bodies through alloc.
func NewMessageReader(r iochan.ReadChannel, alloc region.Allocator) *MessageReader {
	return &MessageReader{r: r, alloc: alloc}
}

// ReadMessage reads and dispatches one framed message. ok is false with a
// nil error at a clean end of stream.
func (mr *MessageReader) ReadMessage() (Message, bool, error) {
	env, ok, err := frame.ReadEnvelope(mr.r)
	if err != nil || !ok {
		return Message{}, ok, err
	}

	switch env.Message.HeaderType {
	case metadata.HeaderSchema:
		s, err := metadata.DecodeSchema(env.Payload, env.Message.HeaderPos)
		if err != nil {
			return Message{}, false, err
		}

		return Message{Kind: KindSchema, Schema: s}, true, nil
	case metadata.HeaderRecordBatch:
		rb, err := recordbatch.FromEnvelope(mr.r, env, mr.alloc)
		if err != nil {
			return Message{}, false, err
		}

		return Message{Kind: KindRecordBatch, RecordBatch: rb}, true, nil
	case metadata.HeaderDictionaryBatch:
		db, err := recordbatch.DictionaryFromEnvelope(mr.r, env, mr.alloc)
		if err != nil {
			return Message{}, false, err
		}

		return Message{Kind: KindDictionaryBatch, DictionaryBatch: db}, true, nil
	default:
		return Message{}, false, errs.ErrUnexpectedHeader
	}
}
