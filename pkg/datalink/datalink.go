// Package datalink composes a CRC engine (and, optionally, a frame codec
// held but not invoked on the hot path — see Layer's doc comment) over a
// pooled PDU: on encode it appends a checksum, on decode it verifies and
// strips one.
package datalink

import (
	"fmt"

	"github.com/hrembedded/protolib"
	"github.com/hrembedded/protolib/pkg/crc"
	"github.com/hrembedded/protolib/pkg/diagnostics"
	"github.com/hrembedded/protolib/pkg/frame"
)

// Layer is parameterized at compile time by a frame codec type, matching
// the sources' compile-time-generic datalink layer; its CRC parameters are
// a plain value since only one CRC engine shape exists here (no support for
// arbitrary CRC widths), so a second type parameter would buy nothing. It
// is stateless between calls.
//
// The sources never invoke the frame codec from the datalink encode/decode
// path despite holding one as a member: Layer reproduces that behavior
// exactly (CRC append/verify only) rather than guessing that framing
// composition was intended here. The held codec is exposed through Framer
// so a caller who does want COBS- or DLE-framed datalink frames can compose
// it explicitly above this layer — see datalink_test.go for both the
// CRC-only and the CRC+framing compositions.
type Layer[F frame.Encoder] struct {
	framer F
	crc    crc.Params
	sink   diagnostics.Sink
}

// New builds a Layer with the given frame codec value and CRC parameters.
// sink may be nil, in which case diagnostics lines are discarded.
func New[F frame.Encoder](framer F, crcParams crc.Params, sink diagnostics.Sink) *Layer[F] {
	if sink == nil {
		sink = diagnostics.Null
	}
	return &Layer[F]{framer: framer, crc: crcParams, sink: sink}
}

// Framer returns the frame codec this layer was constructed with, so a
// caller can apply it explicitly above Encode/Decode.
func (l *Layer[F]) Framer() F { return l.framer }

// Encode appends a big-endian CRC-32 over the PDU's current payload,
// growing its usable window by crc.Size bytes. It fails with
// protolib.ErrOutOfSpace if the window cannot grow that far.
func (l *Layer[F]) Encode(pdu *protolib.Pdu) error {
	if pdu == nil {
		return fmt.Errorf("%w: nil pdu", protolib.ErrOutOfSpace)
	}
	payload := pdu.Data()
	checksum := crc.CalcBlock32(payload, l.crc.ReflectInput, l.crc.ReflectOutput, l.crc.Initial, l.crc.FinalXOR)

	originalLen := pdu.GetDataLen()
	if !pdu.SetDataLen(originalLen + crc.Size) {
		l.sink.Log(diagnostics.DomainDatalink, diagnostics.LevelError, "no room to append CRC", nil)
		return fmt.Errorf("%w: no room for trailing crc", protolib.ErrOutOfSpace)
	}

	if !pdu.SetWriteCursorOffset(originalLen) || !pdu.PutDownUint32(checksum) {
		pdu.SetDataLen(originalLen)
		return fmt.Errorf("%w: failed to write trailing crc", protolib.ErrOutOfSpace)
	}
	l.sink.Log(diagnostics.DomainDatalink, diagnostics.LevelDebug, "encoded datalink frame",
		map[string]any{"payload_len": originalLen, "crc": checksum})
	return nil
}

// Decode verifies and strips the trailing big-endian CRC-32, shrinking the
// PDU's usable window by crc.Size bytes. It fails with
// protolib.ErrOutOfSpace if the window is shorter than crc.Size, and
// protolib.ErrMalformed on a checksum mismatch.
func (l *Layer[F]) Decode(pdu *protolib.Pdu) error {
	if pdu == nil {
		return fmt.Errorf("%w: nil pdu", protolib.ErrOutOfSpace)
	}
	dataLen := pdu.GetDataLen()
	if dataLen < crc.Size {
		return fmt.Errorf("%w: pdu shorter than crc size", protolib.ErrOutOfSpace)
	}

	payloadLen := dataLen - crc.Size
	payload := pdu.Data()[:payloadLen]

	var expected uint32
	if !pdu.SetReadCursorOffset(payloadLen) || !pdu.PickUpUint32(&expected) {
		return fmt.Errorf("%w: failed to read trailing crc", protolib.ErrOutOfSpace)
	}

	actual := crc.CalcBlock32(payload, l.crc.ReflectInput, l.crc.ReflectOutput, l.crc.Initial, l.crc.FinalXOR)
	if actual != expected {
		l.sink.Log(diagnostics.DomainDatalink, diagnostics.LevelWarn, "crc mismatch",
			map[string]any{"expected": expected, "actual": actual})
		return fmt.Errorf("%w: crc mismatch", protolib.ErrMalformed)
	}

	pdu.SetDataLen(payloadLen)
	l.sink.Log(diagnostics.DomainDatalink, diagnostics.LevelDebug, "decoded datalink frame",
		map[string]any{"payload_len": payloadLen})
	return nil
}
