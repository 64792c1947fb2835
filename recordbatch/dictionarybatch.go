package recordbatch

import (
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/colexch/ipc/errs"
	"github.com/colexch/ipc/frame"
	"github.com/colexch/ipc/internal/iochan"
	"github.com/colexch/ipc/metadata"
	"github.com/colexch/ipc/region"
)

// DictionaryBatch delivers a dictionary-encoded field's values out of
// band, correlated with every Field whose DictionaryEncoding.ID matches ID.
type DictionaryBatch struct {
	ID   int64
	Data RecordBatch
}

// Release releases the embedded RecordBatch's body region.
func (d DictionaryBatch) Release() error { return d.Data.Release() }

// WriteDictionaryBatch frames a DictionaryBatch message identically to a
// RecordBatch message, with the addition of the dictionary id.
func WriteDictionaryBatch(w iochan.WriteChannel, id int64, length int64, nodes []metadata.FieldNode, columns []Column) (frame.Block, error) {
	if err := checkOversized(length, nodes); err != nil {
		return frame.Block{}, err
	}

	body, err := assembleBody(columns)
	if err != nil {
		return frame.Block{}, err
	}

	buffers := make([]metadata.Buffer, len(columns))
	for i, c := range columns {
		buffers[i] = c.Buffer
	}

	header := metadata.DictionaryBatchHeader{
		ID:   id,
		Data: metadata.RecordBatchHeader{Length: length, Nodes: nodes, Buffers: buffers},
	}

	b := flatbuffers.NewBuilder(256)
	headerOff := metadata.EncodeDictionaryBatchHeader(b, header)
	msgOff := metadata.EncodeMessage(b, metadata.CurrentVersion, metadata.HeaderDictionaryBatch, headerOff, int64(len(body)))
	b.Finish(msgOff)

	return frame.WriteMessage(w, b.FinishedBytes(), body)
}

// ReadDictionaryBatch reads one framed DictionaryBatch message from r,
// allocating its body through alloc. ok is false with a nil error at a
// clean end of stream.
func ReadDictionaryBatch(r iochan.ReadChannel, alloc region.Allocator) (DictionaryBatch, bool, error) {
	env, ok, err := frame.ReadEnvelope(r)
	if err != nil || !ok {
		return DictionaryBatch{}, ok, err
	}

	if env.Message.HeaderType != metadata.HeaderDictionaryBatch {
		return DictionaryBatch{}, false, errs.ErrUnexpectedHeader
	}

	db, err := DictionaryFromEnvelope(r, env, alloc)

	return db, err == nil, err
}

// DictionaryFromEnvelope materializes a DictionaryBatch from an
// already-parsed frame Envelope whose HeaderType is HeaderDictionaryBatch,
// reading its body from r through alloc.
func DictionaryFromEnvelope(r iochan.ReadChannel, env frame.Envelope, alloc region.Allocator) (DictionaryBatch, error) {
	header := metadata.DecodeDictionaryBatchHeader(env.Payload, env.Message.HeaderPos)
	if err := checkOversized(header.Data.Length, header.Data.Nodes); err != nil {
		return DictionaryBatch{}, err
	}

	bodyLen := int(env.Message.BodyLength)

	reg, err := alloc.Allocate(bodyLen)
	if err != nil {
		return DictionaryBatch{}, err
	}

	if bodyLen > 0 {
		n, rerr := r.ReadFully(reg.Bytes())
		if rerr != nil {
			return DictionaryBatch{}, rerr
		}

		if n < bodyLen {
			return DictionaryBatch{}, errs.ErrUnexpectedEOF
		}
	}

	if err := validateBuffers(header.Data.Buffers, int64(bodyLen)); err != nil {
		return DictionaryBatch{}, err
	}

	return DictionaryBatch{
		ID: header.ID,
		Data: RecordBatch{
			Length:  header.Data.Length,
			Nodes:   header.Data.Nodes,
			Buffers: header.Data.Buffers,
			Body:    reg,
		},
	}, nil
}
