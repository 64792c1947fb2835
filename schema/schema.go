// Package schema implements the Schema message codec: wrapping a
// metadata.Schema in a Message and framing it through the frame package,
// and the reverse on read.
package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/colexch/ipc/errs"
	"github.com/colexch/ipc/frame"
	"github.com/colexch/ipc/internal/iochan"
	"github.com/colexch/ipc/metadata"
)

// Encode writes s as a framed Schema message on w and reports its Block.
// A Schema message carries no body.
func Encode(w iochan.WriteChannel, s metadata.Schema) (frame.Block, error) {
	b := flatbuffers.NewBuilder(256)

	headerOff, err := metadata.EncodeSchema(b, s)
	if err != nil {
		return frame.Block{}, err
	}

	msgOff := metadata.EncodeMessage(b, metadata.CurrentVersion, metadata.HeaderSchema, headerOff, 0)
	b.Finish(msgOff)

	return frame.WriteMessage(w, b.FinishedBytes(), nil)
}

// Decode reads one framed message from r and parses it as a Schema.
// ok is false with a nil error at a clean end of stream.
func Decode(r iochan.ReadChannel) (s metadata.Schema, ok bool, err error) {
	env, ok, err := frame.ReadEnvelope(r)
	if err != nil || !ok {
		return metadata.Schema{}, ok, err
	}

	if env.Message.HeaderType != metadata.HeaderSchema {
		return metadata.Schema{}, false, errs.ErrUnexpectedHeader
	}

	s, err = metadata.DecodeSchema(env.Payload, env.Message.HeaderPos)
	if err != nil {
		return metadata.Schema{}, false, err
	}

	return s, true, nil
}
