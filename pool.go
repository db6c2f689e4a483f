package protolib

import (
	"fmt"

	"github.com/hrembedded/protolib/pkg/diagnostics"
)

// slot pairs a Pdu with its in-use flag. A slot is free iff no live Handle
// references it.
type slot struct {
	pdu   *Pdu
	inUse bool
}

// PduPool owns a fixed array of PDU slots and hands out exclusive handles.
// It is not safe for concurrent use; callers needing concurrent producers
// should each own a separate pool.
type PduPool struct {
	slots []slot
	sink  diagnostics.Sink
}

// NewPduPool builds a pool of count slots, each capacity bytes wide. sink
// may be nil, in which case diagnostics lines are discarded.
func NewPduPool(count, capacity int, sink diagnostics.Sink) *PduPool {
	if sink == nil {
		sink = diagnostics.Null
	}
	pool := &PduPool{slots: make([]slot, count), sink: sink}
	for i := range pool.slots {
		pool.slots[i].pdu = newPdu(capacity)
	}
	return pool
}

// Capacity returns the pool's fixed slot count.
func (pool *PduPool) Capacity() int { return len(pool.slots) }

// FreeCount returns the number of slots currently unallocated.
func (pool *PduPool) FreeCount() int {
	free := 0
	for i := range pool.slots {
		if !pool.slots[i].inUse {
			free++
		}
	}
	return free
}

// Handle is an exclusive reference to a pooled Pdu. There is at most one
// live Handle per slot; Release returns the slot to the pool and zeroes its
// storage. A Handle must not be used after Release.
type Handle struct {
	pool  *PduPool
	index int
}

// Pdu returns the underlying buffer. Calling it after Release is a misuse
// the caller is responsible for avoiding; ownership of a slot's Pdu is
// exclusive to its live Handle.
func (h *Handle) Pdu() *Pdu { return h.pool.slots[h.index].pdu }

// Release returns the slot to the pool, asserting it was in fact in use,
// and zeroes its backing storage before the slot can be reused, so a
// reallocated Pdu never carries over a previous caller's bytes.
func (h *Handle) Release() {
	s := &h.pool.slots[h.index]
	if !s.inUse {
		h.pool.sink.Log(diagnostics.DomainMemory, diagnostics.LevelError,
			"released a PDU slot that was not in use", map[string]any{"slot": h.index})
		assertDebug(false, "protolib: double release of PDU slot")
		return
	}
	s.inUse = false
	s.pdu.resetWindow()
	h.pool.sink.Log(diagnostics.DomainMemory, diagnostics.LevelDebug,
		"PDU released", map[string]any{"free": h.pool.FreeCount(), "capacity": h.pool.Capacity()})
}

// Allocate scans slots for the first free one, claims it with the given
// usable-window length and offset, and returns an exclusive handle. It
// returns ErrOutOfSpace when len+offset exceeds the slot's fixed capacity,
// and ErrExhausted when every slot is in use.
func (pool *PduPool) Allocate(length, offset int) (*Handle, error) {
	for i := range pool.slots {
		if pool.slots[i].inUse {
			continue
		}
		if length+offset > pool.slots[i].pdu.GetCapacity() {
			return nil, errOutOfSpace("protolib: allocate")
		}
		pool.slots[i].inUse = true
		p := pool.slots[i].pdu
		p.offset = 0
		p.dataLen = 0
		if !p.SetDataLen(length) || !p.SetOffset(offset) {
			pool.slots[i].inUse = false
			return nil, errOutOfSpace("protolib: allocate")
		}
		p.ResetCursor()
		pool.sink.Log(diagnostics.DomainMemory, diagnostics.LevelDebug,
			"PDU allocated", map[string]any{"free": pool.FreeCount(), "capacity": pool.Capacity()})
		return &Handle{pool: pool, index: i}, nil
	}
	pool.sink.Log(diagnostics.DomainMemory, diagnostics.LevelError, "no free PDUs to allocate", nil)
	return nil, fmt.Errorf("%w: no free slots", ErrExhausted)
}

// AllocateDefault allocates a handle spanning the full capacity of a slot
// at offset 0, mirroring the sources' zero-argument Allocate() overload.
func (pool *PduPool) AllocateDefault() (*Handle, error) {
	if len(pool.slots) == 0 {
		return nil, fmt.Errorf("%w: pool has no slots", ErrExhausted)
	}
	return pool.Allocate(pool.slots[0].pdu.GetCapacity(), 0)
}

func errOutOfSpace(context string) error {
	return fmt.Errorf("%w: %s", ErrOutOfSpace, context)
}
