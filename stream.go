package ipc

import (
	"github.com/colexch/ipc/errs"
	"github.com/colexch/ipc/frame"
	"github.com/colexch/ipc/internal/iochan"
	"github.com/colexch/ipc/metadata"
	"github.com/colexch/ipc/recordbatch"
	"github.com/colexch/ipc/region"
	"github.com/colexch/ipc/schema"
)

// StreamWriter is the ergonomic entry point for writing a sequential
// session of messages onto one channel: a Schema, followed by zero or
// more RecordBatch / DictionaryBatch messages, terminated by Close.
//
// A StreamWriter is poisoned by the first error any of its methods
// return: once poisoned, every subsequent call fails fast with
// errs.ErrStreamPoisoned rather than touching the channel again, since a
// partial write may have already advanced its position.
type StreamWriter struct {
	w        iochan.WriteChannel
	poisoned bool
}

// NewStreamWriter wraps w for sequential message writes.
func NewStreamWriter(w iochan.WriteChannel) *StreamWriter {
	return &StreamWriter{w: w}
}

func (sw *StreamWriter) guard() error {
	if sw.poisoned {
		return errs.ErrStreamPoisoned
	}

	return nil
}

func (sw *StreamWriter) fail(err error) error {
	if err != nil {
		sw.poisoned = true
	}

	return err
}

// WriteSchema writes s as the stream's Schema message.
func (sw *StreamWriter) WriteSchema(s metadata.Schema) (frame.Block, error) {
	if err := sw.guard(); err != nil {
		return frame.Block{}, err
	}

	block, err := schema.Encode(sw.w, s)

	return block, sw.fail(err)
}

// WriteRecordBatch writes one RecordBatch message.
func (sw *StreamWriter) WriteRecordBatch(length int64, nodes []metadata.FieldNode, columns []recordbatch.Column) (frame.Block, error) {
	if err := sw.guard(); err != nil {
		return frame.Block{}, err
	}

	block, err := recordbatch.WriteRecordBatch(sw.w, length, nodes, columns)

	return block, sw.fail(err)
}

// WriteDictionaryBatch writes one DictionaryBatch message.
func (sw *StreamWriter) WriteDictionaryBatch(id int64, length int64, nodes []metadata.FieldNode, columns []recordbatch.Column) (frame.Block, error) {
	if err := sw.guard(); err != nil {
		return frame.Block{}, err
	}

	block, err := recordbatch.WriteDictionaryBatch(sw.w, id, length, nodes, columns)

	return block, sw.fail(err)
}

// Close writes the terminal zero-length end-of-stream marker.
func (sw *StreamWriter) Close() error {
	if err := sw.guard(); err != nil {
		return err
	}

	return sw.fail(frame.WriteEOS(sw.w))
}

// StreamReader is the ergonomic entry point for reading a sequential
// session of messages off one channel, one at a time, until end of
// stream.
//
// Like StreamWriter, a StreamReader is poisoned by its first error.
type StreamReader struct {
	mr       *MessageReader
	poisoned bool
}

// NewStreamReader wraps r for sequential message reads, allocating batch
// bodies through alloc.
func NewStreamReader(r iochan.ReadChannel, alloc region.Allocator) *StreamReader {
	return &StreamReader{mr: NewMessageReader(r, alloc)}
}

// Next reads the next message. ok is false with a nil error at a clean
// end of stream.
func (sr *StreamReader) Next() (Message, bool, error) {
	if sr.poisoned {
		return Message{}, false, errs.ErrStreamPoisoned
	}

	msg, ok, err := sr.mr.ReadMessage()
	if err != nil {
		sr.poisoned = true
	}

	return msg, ok, err
}
