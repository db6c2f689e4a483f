// Package frame defines the uniform contract every byte-framing codec in
// protolib implements: COBS and DLE today, anything byte-stuffed tomorrow.
package frame

// Result reports progress and outcome of one Encode or Decode call.
// BytesRead and BytesWritten count bytes consumed from the source and
// produced into the target respectively, even on failure — they reflect
// progress at the point an error was detected.
type Result struct {
	BytesRead    int
	BytesWritten int
}

// Encoder is the uniform contract for a byte-framing codec. Encode and
// Decode report an error distinguishing "the target was too small"
// (protolib.ErrOutOfSpace) from "the input violates the wire format"
// (protolib.ErrMalformed). Input that ends at a natural boundary is not an
// error: Decode returns a nil error with BytesRead short of len(source).
type Encoder interface {
	Encode(source []byte, target []byte) (Result, error)
	Decode(source []byte, target []byte) (Result, error)
	MaxEncodedLen(sourceLen int) int
	MaxDecodedLen(sourceLen int) int
}
