// Package cobs implements Consistent Overhead Byte Stuffing: a framing
// scheme that eliminates the zero byte from a payload at bounded overhead,
// so a zero byte can mark frame boundaries on the wire unambiguously.
package cobs

import (
	"github.com/hrembedded/protolib"
	"github.com/hrembedded/protolib/pkg/frame"
)

// MaxPacketSize is the longest run of non-zero bytes that fits in a single
// COBS block; longer frames are split automatically at this boundary.
const MaxPacketSize = 254

const codeMax = 0xFF

// Encoder implements frame.Encoder for COBS. It is stateless; the zero
// value is ready to use.
type Encoder struct{}

var _ frame.Encoder = Encoder{}

// MaxEncodedLen returns the worst-case encoded size for an n-byte input:
// n + floor((n-1)/254) + 2 for n >= 1, and 0 for n == 0. A code byte is
// inserted at least every 254 input bytes, plus one for the frame's own
// leading code byte and one for a worst-case trailing literal.
func (Encoder) MaxEncodedLen(n int) int {
	if n <= 0 {
		return 0
	}
	return n + (n-1)/254 + 2
}

// MaxDecodedLen returns n: COBS decoding never expands data.
func (Encoder) MaxDecodedLen(n int) int { return n }

// Encode stuffs source into target, eliminating every zero byte. It
// returns protolib.ErrOutOfSpace if target is smaller than MaxEncodedLen of
// the source.
func (e Encoder) Encode(source []byte, target []byte) (frame.Result, error) {
	n := len(source)
	if n == 0 {
		return frame.Result{}, nil
	}
	need := e.MaxEncodedLen(n)
	if len(target) < need {
		return frame.Result{}, protolib.ErrOutOfSpace
	}

	write := 1 // next write index into target; index 0 reserved for the first code byte
	codeIdx := 0
	code := byte(1)

	for i, b := range source {
		remaining := n - i - 1 // bytes still to come after this one
		if b != 0 {
			target[write] = b
			write++
			code++
		}
		if b == 0 || code == codeMax {
			target[codeIdx] = code
			code = 1
			codeIdx = write
			if b == 0 || remaining != 0 {
				write++
			}
		}
	}
	target[codeIdx] = code

	return frame.Result{BytesRead: n, BytesWritten: write}, nil
}

// Decode unstuffs an encoded COBS block back into target. It returns
// protolib.ErrMalformed if the stream contains a literal zero byte, or a
// code byte that declares a span running past end-of-source.
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
		code := source[read]
		if code == 0 {
			return frame.Result{BytesRead: read, BytesWritten: write}, protolib.ErrMalformed
		}
		read++
		span := int(code) - 1
		if read+span > n {
			return frame.Result{BytesRead: read - 1, BytesWritten: write}, protolib.ErrMalformed
		}
		for j := 0; j < span; j++ {
			if source[read+j] == 0 {
				return frame.Result{BytesRead: read + j, BytesWritten: write + j}, protolib.ErrMalformed
			}
			target[write+j] = source[read+j]
		}
		write += span
		read += span

		if code != codeMax && read < n {
			target[write] = 0
			write++
		}
	}

	return frame.Result{BytesRead: read, BytesWritten: write}, nil
}
