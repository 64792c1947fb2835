// Package recordbatch implements the RecordBatch and DictionaryBatch
// message codec: body-length precomputation and buffer-layout enforcement
// on write, and streaming, random-access, and dictionary reads.
package recordbatch

import (
	"fmt"
	"math"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/colexch/ipc/errs"
	"github.com/colexch/ipc/frame"
	"github.com/colexch/ipc/internal/iochan"
	"github.com/colexch/ipc/metadata"
	"github.com/colexch/ipc/region"
)

// Column is one column's declared buffer descriptor paired with its actual
// bytes. Write verifies len(Data) == Buffer.Length before a single byte
// reaches the channel; a mismatch is a buffer-layout-violation, not a
// silently truncated or padded write.
type Column struct {
	Buffer metadata.Buffer
	Data   []byte
}

// RecordBatch is a decoded batch: row count, per-column FieldNode stats in
// schema DFS-preorder, and zero-copy Buffer views sliced out of Body.
//
// RecordBatch owns Body until Release is called; buffer views returned by
// BufferBytes become invalid once Body is released (spec: codec does not
// track this past the call, it is the caller's responsibility).
type RecordBatch struct {
	Length  int64
	Nodes   []metadata.FieldNode
	Buffers []metadata.Buffer
	Body    region.ByteRegion
}

// BufferBytes returns the non-owning view of column buffer i within Body.
func (b RecordBatch) BufferBytes(i int) []byte {
	buf := b.Buffers[i]
	data := b.Body.Bytes()

	return data[buf.Offset : buf.Offset+buf.Length]
}

// Release releases the batch's body region. Safe to call on a zero-value
// RecordBatch (Body == nil).
func (b RecordBatch) Release() error {
	if b.Body == nil {
		return nil
	}

	return b.Body.Release()
}

// assembleBody lays columns into one contiguous, 8-byte-aligned body byte
// slice honoring each column's declared Buffer.Offset, zero-filling any
// gap between buffers, and verifying each column's actual byte count
// matches its declared length and that declared buffers are ordered and
// non-overlapping.
func assembleBody(columns []Column) ([]byte, error) {
	var (
		maxEnd  int64
		prevEnd int64
	)

	for _, c := range columns {
		if int64(len(c.Data)) != c.Buffer.Length {
			return nil, errs.ErrBufferLayoutViolation
		}

		if c.Buffer.Offset < prevEnd {
			return nil, errs.ErrBufferLayoutViolation
		}

		end := c.Buffer.Offset + c.Buffer.Length
		if end > maxEnd {
			maxEnd = end
		}

		prevEnd = end
	}

	total := ((maxEnd + 7) / 8) * 8

	body := make([]byte, total)
	for _, c := range columns {
		copy(body[c.Buffer.Offset:], c.Data)
	}

	return body, nil
}

// validateBuffers checks declared buffers lie within [0, bodyLen), in
// order, without overlap.
func validateBuffers(buffers []metadata.Buffer, bodyLen int64) error {
	prevEnd := int64(0)
	for _, buf := range buffers {
		if buf.Offset < prevEnd || buf.Offset+buf.Length > bodyLen || buf.Length < 0 {
			return errs.ErrBufferLayoutViolation
		}

		prevEnd = buf.Offset + buf.Length
	}

	return nil
}

func checkOversized(length int64, nodes []metadata.FieldNode) error {
	if length < 0 || length > math.MaxInt32 {
		return errs.ErrOversizedBatch
	}

	for _, n := range nodes {
		if n.Length < 0 || n.Length > math.MaxInt32 || n.NullCount < 0 || n.NullCount > math.MaxInt32 {
			return errs.ErrOversizedBatch
		}
	}

	return nil
}

// WriteRecordBatch frames a RecordBatch message of the given row length,
// field nodes (DFS preorder), and columns (emission order) onto w.
func WriteRecordBatch(w iochan.WriteChannel, length int64, nodes []metadata.FieldNode, columns []Column) (frame.Block, error) {
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

	header := metadata.RecordBatchHeader{Length: length, Nodes: nodes, Buffers: buffers}

	b := flatbuffers.NewBuilder(256)
	headerOff := metadata.EncodeRecordBatchHeader(b, header)
	msgOff := metadata.EncodeMessage(b, metadata.CurrentVersion, metadata.HeaderRecordBatch, headerOff, int64(len(body)))
	b.Finish(msgOff)

	return frame.WriteMessage(w, b.FinishedBytes(), body)
}

// ReadRecordBatch reads one framed RecordBatch message from r, allocating
// its body through alloc. ok is false with a nil error at a clean end of
// stream.
func ReadRecordBatch(r iochan.ReadChannel, alloc region.Allocator) (RecordBatch, bool, error) {
	env, ok, err := frame.ReadEnvelope(r)
	if err != nil || !ok {
		return RecordBatch{}, ok, err
	}

	if env.Message.HeaderType != metadata.HeaderRecordBatch {
		return RecordBatch{}, false, errs.ErrUnexpectedHeader
	}

	rb, err := FromEnvelope(r, env, alloc)

	return rb, err == nil, err
}

// FromEnvelope materializes a RecordBatch from an already-parsed frame
// Envelope whose HeaderType is HeaderRecordBatch, reading its body from r
// through alloc. Exported so the root message dispatcher can read the
// frame envelope once and hand it off here, rather than re-reading it.
func FromEnvelope(r iochan.ReadChannel, env frame.Envelope, alloc region.Allocator) (RecordBatch, error) {
	header := metadata.DecodeRecordBatchHeader(env.Payload, env.Message.HeaderPos)
	if err := checkOversized(header.Length, header.Nodes); err != nil {
		return RecordBatch{}, err
	}

	bodyLen := int(env.Message.BodyLength)

	reg, err := alloc.Allocate(bodyLen)
	if err != nil {
		return RecordBatch{}, err
	}

	if bodyLen > 0 {
		n, rerr := r.ReadFully(reg.Bytes())
		if rerr != nil {
			return RecordBatch{}, rerr
		}

		if n < bodyLen {
			return RecordBatch{}, errs.ErrUnexpectedEOF
		}
	}

	if err := validateBuffers(header.Buffers, int64(bodyLen)); err != nil {
		return RecordBatch{}, err
	}

	return RecordBatch{
		Length:  header.Length,
		Nodes:   header.Nodes,
		Buffers: header.Buffers,
		Body:    reg,
	}, nil
}

// ReadRecordBatchAt reads the RecordBatch framed at block via a single
// positioned read, the block-addressed path used when a container index
// already knows the block's coordinates.
func ReadRecordBatchAt(r iochan.RandomAccessReader, block frame.Block, alloc region.Allocator) (RecordBatch, error) {
	total := block.MetadataLength + block.BodyLength

	buf := make([]byte, total)
	if err := r.ReadAt(buf, block.Start); err != nil {
		return RecordBatch{}, err
	}

	payload := buf[4:block.MetadataLength]
	body := buf[block.MetadataLength:]

	rootPos := flatbuffers.GetUOffsetT(payload)
	msg := metadata.DecodeMessage(payload, rootPos)

	if msg.Version != metadata.CurrentVersion {
		return RecordBatch{}, fmt.Errorf("%w: got %s", errs.ErrIncompatibleVersion, msg.Version)
	}

	if msg.HeaderType != metadata.HeaderRecordBatch {
		return RecordBatch{}, errs.ErrUnexpectedHeader
	}

	header := metadata.DecodeRecordBatchHeader(payload, msg.HeaderPos)
	if err := checkOversized(header.Length, header.Nodes); err != nil {
		return RecordBatch{}, err
	}

	if err := validateBuffers(header.Buffers, int64(len(body))); err != nil {
		return RecordBatch{}, err
	}

	reg, err := alloc.Allocate(len(body))
	if err != nil {
		return RecordBatch{}, err
	}

	copy(reg.Bytes(), body)

	return RecordBatch{
		Length:  header.Length,
		Nodes:   header.Nodes,
		Buffers: header.Buffers,
		Body:    reg,
	}, nil
}
