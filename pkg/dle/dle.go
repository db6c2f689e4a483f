// Package dle implements Data Link Escape byte stuffing: the reserved
// octets STX, ETX, and DLE are hidden from the payload behind a two-byte
// escape sequence so a higher layer can use them as stream delimiters.
package dle

import (
	"github.com/hrembedded/protolib"
	"github.com/hrembedded/protolib/pkg/frame"
)

// Reserved octets that must never appear literally inside an encoded stream.
const (
	STX byte = 0x02
	ETX byte = 0x03
	DLE byte = 0x10
)

func isReserved(b byte) bool { return b == STX || b == ETX || b == DLE }

// Encoder implements frame.Encoder for DLE escaping. It is stateless; the
// zero value is ready to use.
type Encoder struct{}

var _ frame.Encoder = Encoder{}

// MaxEncodedLen returns 2*n: every byte might need escaping.
func (Encoder) MaxEncodedLen(n int) int { return 2 * n }

// MaxDecodedLen returns n: DLE decoding never expands data.
func (Encoder) MaxDecodedLen(n int) int { return n }

// Encode escapes every STX/ETX/DLE byte in source as DLE,(byte^DLE); other
// bytes pass through unchanged. Returns protolib.ErrOutOfSpace if target is
// smaller than MaxEncodedLen of the source.
func (e Encoder) Encode(source []byte, target []byte) (frame.Result, error) {
	n := len(source)
	if n == 0 {
		return frame.Result{}, nil
	}
	if len(target) < e.MaxEncodedLen(n) {
		return frame.Result{}, protolib.ErrOutOfSpace
	}

	read, write := 0, 0
	for read < n {
		b := source[read]
		if isReserved(b) {
			target[write] = DLE
			target[write+1] = b ^ DLE
			write += 2
		} else {
			target[write] = b
			write++
		}
		read++
	}
	return frame.Result{BytesRead: read, BytesWritten: write}, nil
}

// Decode reverses Encode. A trailing, unpaired DLE at the end of source is
// a natural truncation (protolib.ErrTruncated is not returned; error is
// nil, and BytesRead excludes the unconsumed DLE so a caller can retry once
// more input arrives). A DLE followed by anything other than an escaped
// STX/ETX/DLE, or a bare STX/ETX in the stream, is protolib.ErrMalformed:
// both indicate the stream was corrupted or never validly escaped.
func (e Encoder) Decode(source []byte, target []byte) (frame.Result, error) {
	n := len(source)
	if n == 0 {
		return frame.Result{}, nil
	}
	if len(target) < e.MaxDecodedLen(n) {
		return frame.Result{}, protolib.ErrOutOfSpace
	}

	read, write := 0, 0
	for read < n {
		b := source[read]
		if b == STX || b == ETX {
			return frame.Result{BytesRead: read, BytesWritten: write}, protolib.ErrMalformed
		}
		if b == DLE {
			if read == n-1 {
				// Trailing lone DLE: natural truncation, not an error.
				return frame.Result{BytesRead: read, BytesWritten: write}, nil
			}
			next := source[read+1]
			unescaped := next ^ DLE
			if !isReserved(unescaped) {
				return frame.Result{BytesRead: read, BytesWritten: write}, protolib.ErrMalformed
			}
			target[write] = unescaped
			write++
			read += 2
			continue
		}
		target[write] = b
		write++
		read++
	}
	return frame.Result{BytesRead: read, BytesWritten: write}, nil
}
