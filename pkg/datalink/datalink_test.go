package datalink

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrembedded/protolib"
	"github.com/hrembedded/protolib/pkg/cobs"
	"github.com/hrembedded/protolib/pkg/crc"
)

func newTestPdu(t *testing.T, capacity int, payload []byte) *protolib.Pdu {
	t.Helper()
	pool := protolib.NewPduPool(1, capacity, nil)
	h, err := pool.Allocate(len(payload), 0)
	require.NoError(t, err)
	require.True(t, h.Pdu().PutDownBytes(payload))
	h.Pdu().ResetCursor()
	return h.Pdu()
}

// TestDatalinkHappyPath encodes and decodes a 21-byte payload against a
// known-good trailing CRC-32 (reflected-in/out, default initial/final
// parameters).
func TestDatalinkHappyPath(t *testing.T) {
	payload := make([]byte, 21)
	for i := range payload {
		payload[i] = byte(i)
	}
	pdu := newTestPdu(t, 32, payload)

	layer := New[cobs.Encoder](cobs.Encoder{}, crc.DefaultParams(), nil)
	require.NoError(t, layer.Encode(pdu))

	assert.Equal(t, 25, pdu.GetDataLen())
	want := append(append([]byte{}, payload...), 0x19, 0x58, 0x81, 0xFE)
	assert.Equal(t, want, pdu.Data())

	require.NoError(t, layer.Decode(pdu))
	assert.Equal(t, payload, pdu.Data())
}

func TestDatalinkRoundTripArbitraryPayload(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")
	pdu := newTestPdu(t, 128, payload)

	layer := New[cobs.Encoder](cobs.Encoder{}, crc.DefaultParams(), nil)
	require.NoError(t, layer.Encode(pdu))
	require.NoError(t, layer.Decode(pdu))
	assert.Equal(t, payload, pdu.Data())
}

func TestDatalinkDecodeDetectsCorruption(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	pdu := newTestPdu(t, 32, payload)

	layer := New[cobs.Encoder](cobs.Encoder{}, crc.DefaultParams(), nil)
	require.NoError(t, layer.Encode(pdu))

	raw := pdu.Data()
	raw[0] ^= 0xFF // flip a payload bit after the CRC was computed

	err := layer.Decode(pdu)
	assert.True(t, errors.Is(err, protolib.ErrMalformed))
}

func TestDatalinkEncodeFailsWhenWindowCannotGrow(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	pdu := newTestPdu(t, 3, payload) // capacity leaves no room for a trailing CRC

	layer := New[cobs.Encoder](cobs.Encoder{}, crc.DefaultParams(), nil)
	err := layer.Encode(pdu)
	assert.True(t, errors.Is(err, protolib.ErrOutOfSpace))
	assert.Equal(t, 3, pdu.GetDataLen(), "failed encode must not leave a partially grown window")
}

func TestDatalinkDecodeFailsOnShortPdu(t *testing.T) {
	pdu := newTestPdu(t, 32, []byte{0x01, 0x02})

	layer := New[cobs.Encoder](cobs.Encoder{}, crc.DefaultParams(), nil)
	err := layer.Decode(pdu)
	assert.True(t, errors.Is(err, protolib.ErrOutOfSpace))
}

// TestDatalinkComposedWithCobsFraming demonstrates that since Layer never
// invokes its held frame codec on the hot path, a caller who wants a framed
// datalink frame composes it explicitly, using Framer to retrieve the codec
// the layer was built with.
func TestDatalinkComposedWithCobsFraming(t *testing.T) {
	payload := []byte{0x00, 0x01, 0x02, 0x00, 0x03, 0x04}
	pdu := newTestPdu(t, 64, payload)

	layer := New[cobs.Encoder](cobs.Encoder{}, crc.DefaultParams(), nil)
	require.NoError(t, layer.Encode(pdu))

	framer := layer.Framer()
	framed := make([]byte, framer.MaxEncodedLen(pdu.GetDataLen()))
	encRes, err := framer.Encode(pdu.Data(), framed)
	require.NoError(t, err)
	framed = framed[:encRes.BytesWritten]

	// Wire-level framed bytes never contain a zero, by construction of COBS.
	for _, b := range framed {
		assert.NotEqual(t, byte(0), b)
	}

	unframed := make([]byte, framer.MaxDecodedLen(len(framed)))
	decRes, err := framer.Decode(framed, unframed)
	require.NoError(t, err)
	unframed = unframed[:decRes.BytesWritten]

	rxPool := protolib.NewPduPool(1, 64, nil)
	rxHandle, err := rxPool.Allocate(len(unframed), 0)
	require.NoError(t, err)
	rxPdu := rxHandle.Pdu()
	require.True(t, rxPdu.PutDownBytes(unframed))
	rxPdu.ResetCursor()

	require.NoError(t, layer.Decode(rxPdu))
	assert.Equal(t, payload, rxPdu.Data())
}
