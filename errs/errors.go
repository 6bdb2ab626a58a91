// Package errs defines the sentinel errors returned by the bhv2 module.
//
// Call sites wrap these with fmt.Errorf("%w: detail", ...) so callers can
// classify failures with errors.Is while still seeing context. Three error
// classes exist:
//
//   - Format errors: the input bytes are corrupt or incompatible. Never
//     retried.
//   - Protocol errors: the session state machine was misused by the caller.
//     A programming error, not a data error.
//   - IO errors: short reads, seek failures and descriptor errors surface as
//     the underlying error (io.ErrUnexpectedEOF, *fs.PathError, ...) and are
//     not re-wrapped into sentinels here.
package errs

import "errors"

// Format errors: corrupt or incompatible input data.
var (
	// ErrUnknownType indicates a wire type name outside the closed kind set.
	ErrUnknownType = errors.New("unknown element type")

	// ErrTypeNameTooLong indicates a declared type-name length above the
	// format cap.
	ErrTypeNameTooLong = errors.New("type name exceeds maximum length")

	// ErrNameTooLong indicates a declared variable or field name length
	// above the format cap.
	ErrNameTooLong = errors.New("name exceeds maximum length")

	// ErrTooManyDimensions indicates a declared rank above the format cap.
	ErrTooManyDimensions = errors.New("dimension count exceeds maximum")

	// ErrTooManyFields indicates a declared struct field count above the
	// format cap.
	ErrTooManyFields = errors.New("field count exceeds maximum")

	// ErrCountOverflow indicates an element count or payload byte size that
	// does not fit in a uint64.
	ErrCountOverflow = errors.New("element count overflows")
)

// Protocol errors: session state machine misuse.
var (
	// ErrNotAtData indicates a data operation while positioned at a
	// variable name (or after end of stream).
	ErrNotAtData = errors.New("not positioned at variable data")

	// ErrAtData indicates a name read while positioned at variable data.
	ErrAtData = errors.New("positioned at variable data, name already read")

	// ErrClosed indicates an operation on a closed session.
	ErrClosed = errors.New("file is closed")

	// ErrNotSeekable indicates an operation that requires seeking on a
	// stream that does not support it (e.g. Rewind on a pipe).
	ErrNotSeekable = errors.New("underlying stream is not seekable")
)

// Value access errors.
var (
	// ErrKindMismatch indicates a payload accessor called on a value of a
	// different kind.
	ErrKindMismatch = errors.New("value kind mismatch")

	// ErrIndexOutOfRange indicates an element index, subscript or field
	// slot outside the value's bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrFieldNotFound indicates a struct field name with no present slot.
	ErrFieldNotFound = errors.New("field not found")
)

// Caller input errors.
var (
	// ErrFilterSpec indicates a malformed trial filter specification.
	ErrFilterSpec = errors.New("invalid filter spec")

	// ErrQuerySyntax indicates a malformed query expression.
	ErrQuerySyntax = errors.New("invalid query syntax")
)

// IsFormat reports whether err is one of the format-error sentinels.
func IsFormat(err error) bool {
	return errors.Is(err, ErrUnknownType) ||
		errors.Is(err, ErrTypeNameTooLong) ||
		errors.Is(err, ErrNameTooLong) ||
		errors.Is(err, ErrTooManyDimensions) ||
		errors.Is(err, ErrTooManyFields) ||
		errors.Is(err, ErrCountOverflow)
}

// IsProtocol reports whether err is one of the protocol-error sentinels.
func IsProtocol(err error) bool {
	return errors.Is(err, ErrNotAtData) ||
		errors.Is(err, ErrAtData) ||
		errors.Is(err, ErrClosed) ||
		errors.Is(err, ErrNotSeekable)
}
