// Package errs defines the sentinel errors returned by the ipc codec.
//
// Errors are plain sentinels created with errors.New, matched with
// errors.Is. Components that need to attach context (e.g. which version
// was rejected) wrap a sentinel with fmt.Errorf("...: %w", ...) rather than
// introducing a parallel error-code type.
package errs

import "errors"

var (
	// ErrUnexpectedEOF is returned when a stream ends mid-prefix, mid-payload, or mid-body.
	ErrUnexpectedEOF = errors.New("ipc: unexpected end of stream")

	// ErrIncompatibleVersion is returned when a Message's version is not the
	// version this codec reads and writes (V4).
	ErrIncompatibleVersion = errors.New("ipc: incompatible metadata version")

	// ErrUnexpectedHeader is returned when a Message's headerType is not the
	// one expected at the call site (e.g. a batch codec reading a Schema message).
	ErrUnexpectedHeader = errors.New("ipc: unexpected message header type")

	// ErrOversizedBatch is returned when a body length, row count, or field
	// node counter exceeds the 32-bit signed range this codec supports.
	ErrOversizedBatch = errors.New("ipc: batch exceeds maximum supported size")

	// ErrBufferLayoutViolation is returned when a buffer's declared offset/length
	// disagrees with the body it is read from, or with the bytes actually written for it.
	ErrBufferLayoutViolation = errors.New("ipc: buffer layout violation")

	// ErrUnsupportedType is returned when a logical type tag is not recognized
	// by this reader.
	ErrUnsupportedType = errors.New("ipc: unsupported logical type")

	// ErrTransportError is returned when the underlying channel fails. The
	// returned error wraps both this sentinel and the original channel error,
	// so errors.Is and errors.As match either one; errors.Unwrap does not
	// return the channel error, since the wrapper unwraps to a list.
	ErrTransportError = errors.New("ipc: transport error")

	// ErrAlreadyReleased is returned when a ByteRegion is used after Release
	// has been called on it.
	ErrAlreadyReleased = errors.New("ipc: byte region already released")

	// ErrStreamPoisoned is returned when an operation is attempted on a
	// StreamWriter or StreamReader after a prior operation on it returned
	// any error, a transport error or otherwise.
	ErrStreamPoisoned = errors.New("ipc: stream poisoned by a prior error")

	// ErrInvalidFieldLayout is returned when a Field violates a structural
	// invariant this codec enforces on construction or decode (e.g. a Map
	// field whose single child is not a two-child, non-nullable Struct).
	ErrInvalidFieldLayout = errors.New("ipc: invalid field layout")

	// ErrChannelNotAligned is returned when a write is attempted while the
	// channel's position is not already 8-byte aligned.
	ErrChannelNotAligned = errors.New("ipc: channel position not 8-byte aligned")
)
