package protolib

import "errors"

// Error taxonomy shared by every layer in this module. Callers distinguish
// them with errors.Is; none of them wrap library-specific detail, so two
// calls failing for the same reason always compare equal.
var (
	// ErrOutOfSpace means the target buffer, or a PDU's usable window, is
	// too small to hold the requested output. Non-recoverable for that PDU.
	ErrOutOfSpace = errors.New("protolib: out of space")

	// ErrTruncated means a decoder reached end-of-input at a natural
	// boundary (e.g. a trailing lone DLE byte). More input may resolve it.
	ErrTruncated = errors.New("protolib: truncated input")

	// ErrMalformed means a decoder detected a protocol violation: a literal
	// zero inside a COBS stream, a bare reserved byte inside a DLE stream,
	// an unescaped reserved byte following DLE, or a CRC mismatch.
	ErrMalformed = errors.New("protolib: malformed input")

	// ErrExhausted means a PduPool has no free slot.
	ErrExhausted = errors.New("protolib: pool exhausted")
)
