// Package iochan provides the position-tracking, little-endian byte-channel
// adapters the message framer writes and reads through.
//
// Every integer the framer itself touches (the 4-byte length prefix) is
// little-endian regardless of host byte order; WriteChannel and ReadChannel
// keep that detail local to this package so higher layers only deal in
// byte slices and positions.
package iochan

import (
	"io"

	"github.com/colexch/ipc/endian"
	"github.com/colexch/ipc/errs"
)

// le is the fixed little-endian engine every integer this package touches
// (the framer's 4-byte length prefix) is written and read with.
var le = endian.GetLittleEndianEngine()

// WriteChannel is a synchronous, sequential, position-tracked byte sink.
//
// A WriteChannel is not safe for concurrent use; it carries a single
// position cursor advanced by every method call.
type WriteChannel interface {
	// Position returns the number of bytes written so far.
	Position() int64

	// WriteIntLE writes a 32-bit little-endian integer.
	WriteIntLE(v int32) error

	// Write writes p in full.
	Write(p []byte) error

	// WriteZeros writes n zero bytes.
	WriteZeros(n int) error

	// Align pads with zero bytes up to the next 8-byte multiple of the
	// absolute channel position. It is a no-op if already aligned.
	Align() error
}

// ReadChannel is a synchronous, sequential byte source.
//
// A ReadChannel is not safe for concurrent use.
type ReadChannel interface {
	// ReadFully reads exactly len(buf) bytes, unless the stream ends first,
	// in which case it returns the number of bytes actually read (which may
	// be 0) and a nil error — end-of-stream is signaled by a short read,
	// not by io.EOF, so that a caller reading the message-length prefix can
	// distinguish "clean end of stream" (0 bytes read) from "truncated
	// stream" (1..3 bytes read) without inspecting errors.
	ReadFully(buf []byte) (int, error)
}

// RandomAccessReader reads at an explicit offset without disturbing any
// sequential cursor, used by the block-addressed record batch read path.
type RandomAccessReader interface {
	// ReadAt reads exactly len(buf) bytes starting at offset, or returns
	// ErrUnexpectedEOF if fewer are available.
	ReadAt(buf []byte, offset int64) error
}

// streamWriter adapts an io.Writer into a WriteChannel.
type streamWriter struct {
	w   io.Writer
	pos int64
}

// NewWriter wraps w as a WriteChannel starting at position 0. If the
// underlying stream is not starting at position 0 (e.g. a container format
// appending to an existing file), use NewWriterAt.
func NewWriter(w io.Writer) WriteChannel {
	return &streamWriter{w: w}
}

// NewWriterAt wraps w as a WriteChannel whose logical position starts at
// startPos, for callers resuming a write onto an already-positioned stream.
func NewWriterAt(w io.Writer, startPos int64) WriteChannel {
	return &streamWriter{w: w, pos: startPos}
}

func (w *streamWriter) Position() int64 { return w.pos }

func (w *streamWriter) WriteIntLE(v int32) error {
	var buf [4]byte
	le.PutUint32(buf[:], uint32(v))

	return w.Write(buf[:])
}

func (w *streamWriter) Write(p []byte) error {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	if err != nil {
		return wrapTransportError(err)
	}

	return nil
}

func (w *streamWriter) WriteZeros(n int) error {
	if n <= 0 {
		return nil
	}

	const chunkSize = 512

	var zeros [chunkSize]byte
	for n > 0 {
		k := n
		if k > chunkSize {
			k = chunkSize
		}

		if err := w.Write(zeros[:k]); err != nil {
			return err
		}

		n -= k
	}

	return nil
}

func (w *streamWriter) Align() error {
	pad := (8 - int(w.pos%8)) % 8

	return w.WriteZeros(pad)
}

// streamReader adapts an io.Reader into a ReadChannel.
type streamReader struct {
	r io.Reader
}

// NewReader wraps r as a ReadChannel.
func NewReader(r io.Reader) ReadChannel {
	return &streamReader{r: r}
}

func (r *streamReader) ReadFully(buf []byte) (int, error) {
	n, err := io.ReadFull(r.r, buf)
	switch {
	case err == nil:
		return n, nil
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return n, nil
	default:
		return n, wrapTransportError(err)
	}
}

// readerAtChannel adapts an io.ReaderAt into a RandomAccessReader.
type readerAtChannel struct {
	r io.ReaderAt
}

// NewRandomAccessReader wraps r as a RandomAccessReader for block-addressed reads.
func NewRandomAccessReader(r io.ReaderAt) RandomAccessReader {
	return &readerAtChannel{r: r}
}

func (r *readerAtChannel) ReadAt(buf []byte, offset int64) error {
	n, err := r.r.ReadAt(buf, offset)
	if n == len(buf) {
		return nil
	}

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errs.ErrUnexpectedEOF
	}

	if err != nil {
		return wrapTransportError(err)
	}

	return errs.ErrUnexpectedEOF
}

// wrapTransportError wraps a transport error with ErrTransportError so callers can
// match it with errors.Is regardless of the underlying io error type.
func wrapTransportError(cause error) error {
	return &transportError{cause: cause}
}

type transportError struct{ cause error }

func (e *transportError) Error() string { return "ipc: transport error: " + e.cause.Error() }
func (e *transportError) Unwrap() []error {
	return []error{errs.ErrTransportError, e.cause}
}
