package protolib

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolExhaustion(t *testing.T) {
	pool := NewPduPool(5, 32, nil)
	handles := make([]*Handle, 0, 5)
	for i := 0; i < 5; i++ {
		h, err := pool.AllocateDefault()
		require.NoError(t, err)
		handles = append(handles, h)
	}
	assert.Equal(t, 0, pool.FreeCount())

	_, err := pool.AllocateDefault()
	assert.True(t, errors.Is(err, ErrExhausted))

	for _, h := range handles {
		h.Release()
	}
	assert.Equal(t, 5, pool.FreeCount())
}

func TestPoolConservation(t *testing.T) {
	pool := NewPduPool(3, 16, nil)
	outstanding := 0
	var handles []*Handle
	for i := 0; i < 3; i++ {
		h, err := pool.Allocate(8, 0)
		require.NoError(t, err)
		handles = append(handles, h)
		outstanding++
		assert.Equal(t, pool.Capacity(), pool.FreeCount()+outstanding)
	}
	for _, h := range handles {
		h.Release()
		outstanding--
		assert.Equal(t, pool.Capacity(), pool.FreeCount()+outstanding)
	}
}

func TestPoolAllocateOutOfSpace(t *testing.T) {
	pool := NewPduPool(2, 8, nil)
	_, err := pool.Allocate(9, 0)
	assert.True(t, errors.Is(err, ErrOutOfSpace))
	assert.Equal(t, 2, pool.FreeCount())
}

func TestPoolHygieneZeroesOnRelease(t *testing.T) {
	pool := NewPduPool(1, 8, nil)
	h, err := pool.AllocateDefault()
	require.NoError(t, err)

	pdu := h.Pdu()
	require.True(t, pdu.PutDownUint32(0xDEADBEEF))

	h.Release()

	h2, err := pool.AllocateDefault()
	require.NoError(t, err)
	for i, b := range h2.Pdu().storage {
		assert.Equalf(t, byte(0), b, "byte %d not zeroed on reuse", i)
	}
}

func TestPoolDistinctSlotsOnSuccessiveAllocations(t *testing.T) {
	pool := NewPduPool(2, 8, nil)
	a, err := pool.AllocateDefault()
	require.NoError(t, err)
	b, err := pool.AllocateDefault()
	require.NoError(t, err)
	assert.NotSame(t, a.Pdu(), b.Pdu())
}
