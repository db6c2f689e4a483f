package protolib

// Pdu is a fixed-capacity byte buffer carrying a single protocol message as
// it passes between layers. It exposes a usable window [offset, offset+len)
// inside its backing storage, plus independent read and write cursors that
// range over that window. Forward integer I/O is big-endian; the "rev"
// family is little-endian and grows the write cursor downward, to support
// encoding a frame in place within an oversized window.
//
// A Pdu is not safe for concurrent use; see the doc for PduPool.
type Pdu struct {
	storage    []byte
	capacity   int
	offset     int
	dataLen    int
	readCursor int
	writeCur   int
}

// newPdu allocates a zeroed Pdu with the given fixed capacity. Pdus are
// otherwise only reachable through a PduPool.
func newPdu(capacity int) *Pdu {
	p := &Pdu{storage: make([]byte, capacity), capacity: capacity}
	p.resetWindow()
	return p
}

// resetWindow restores the full-capacity window and zeroes storage, the
// state every slot must be in before it is handed out again.
func (p *Pdu) resetWindow() {
	for i := range p.storage {
		p.storage[i] = 0
	}
	p.offset = 0
	p.dataLen = 0
	p.readCursor = 0
	p.writeCur = 0
}

// Data returns the usable window. The slice's capacity ends at the window
// end, so appending to it cannot overwrite storage past the window, but it
// shares the backing storage: writes through it change the Pdu.
func (p *Pdu) Data() []byte {
	return p.storage[p.offset : p.offset+p.dataLen : p.offset+p.dataLen]
}

// WritableData returns a mutable view of the usable window. This exists
// mainly to let tests seed or inspect raw bytes directly; production code
// should prefer the cursor-based PutDown/PickUp family.
func (p *Pdu) WritableData() []byte {
	return p.storage[p.offset : p.offset+p.dataLen]
}

// GetDataLen returns the usable length of the window.
func (p *Pdu) GetDataLen() int { return p.dataLen }

// SetDataLen resizes the usable window. It fails (returns false, no-op)
// when the new length would push the window past capacity.
func (p *Pdu) SetDataLen(length int) bool {
	if length < 0 || length+p.offset > p.capacity {
		return false
	}
	p.dataLen = length
	return true
}

// GetOffset returns the start of the usable window.
func (p *Pdu) GetOffset() int { return p.offset }

// SetOffset moves the start of the usable window. It fails when the window
// would run past capacity. On success, any cursor that was behind the new
// offset is advanced up to it; cursors already ahead are left alone.
func (p *Pdu) SetOffset(offset int) bool {
	if offset < 0 || offset+p.dataLen > p.capacity {
		return false
	}
	p.offset = offset
	if p.readCursor < offset {
		p.readCursor = offset
	}
	if p.writeCur < offset {
		p.writeCur = offset
	}
	return true
}

// GetCapacity returns the fixed byte capacity of the backing storage.
func (p *Pdu) GetCapacity() int { return p.capacity }

// ResetCursor moves both cursors back to the start of the usable window.
func (p *Pdu) ResetCursor() {
	p.readCursor = p.offset
	p.writeCur = p.offset
}

func (p *Pdu) windowEnd() int { return p.offset + p.dataLen }

// SetReadCursorOffset moves the read cursor to offset+pos, i.e. pos bytes
// into the usable window. Fails, as a no-op, if that position falls
// outside [offset, offset+dataLen].
func (p *Pdu) SetReadCursorOffset(pos int) bool {
	target := p.offset + pos
	if target < p.offset || target > p.windowEnd() {
		return false
	}
	p.readCursor = target
	return true
}

// SetWriteCursorOffset moves the write cursor to offset+pos, i.e. pos
// bytes into the usable window. Fails, as a no-op, if that position falls
// outside [offset, offset+dataLen].
func (p *Pdu) SetWriteCursorOffset(pos int) bool {
	target := p.offset + pos
	if target < p.offset || target > p.windowEnd() {
		return false
	}
	p.writeCur = target
	return true
}

// SkipRead advances the read cursor by n bytes. It fails, leaving the
// cursor untouched, if that would move past the end of the window.
func (p *Pdu) SkipRead(n int) bool {
	if n < 0 || p.readCursor+n > p.windowEnd() {
		return false
	}
	p.readCursor += n
	return true
}

// SkipWrite advances the write cursor by n bytes, same failure rule as
// SkipRead.
func (p *Pdu) SkipWrite(n int) bool {
	if n < 0 || p.writeCur+n > p.windowEnd() {
		return false
	}
	p.writeCur += n
	return true
}

// PutDownBytes writes buffer at the write cursor and advances it forward by
// len(buffer). Fails, as a no-op, if it would run past the window.
func (p *Pdu) PutDownBytes(buffer []byte) bool {
	if p.writeCur+len(buffer) > p.windowEnd() {
		return false
	}
	copy(p.storage[p.writeCur:], buffer)
	p.writeCur += len(buffer)
	return true
}

// PickUpBytes reads len(buffer) bytes from the read cursor into buffer and
// advances it forward. Fails, as a no-op, if it would run past the window.
func (p *Pdu) PickUpBytes(buffer []byte) bool {
	if p.readCursor+len(buffer) > p.windowEnd() {
		return false
	}
	copy(buffer, p.storage[p.readCursor:])
	p.readCursor += len(buffer)
	return true
}

// PutDownRevBytes decrements the write cursor by len(buffer) and writes
// buffer there, byte-for-byte (index 0 of buffer lands at the lowest
// resulting address). Fails, as a no-op, if the cursor would cross offset.
func (p *Pdu) PutDownRevBytes(buffer []byte) bool {
	n := len(buffer)
	if p.writeCur-n < p.offset {
		return false
	}
	p.writeCur -= n
	copy(p.storage[p.writeCur:p.writeCur+n], buffer)
	return true
}

// PickUpRevBytes decrements the read cursor by len(buffer) and reads that
// many bytes into buffer. Fails, as a no-op, if the cursor would cross
// offset.
func (p *Pdu) PickUpRevBytes(buffer []byte) bool {
	n := len(buffer)
	if p.readCursor-n < p.offset {
		return false
	}
	p.readCursor -= n
	copy(buffer, p.storage[p.readCursor:p.readCursor+n])
	return true
}

// PutDownByte writes a single byte and advances the write cursor by one.
func (p *Pdu) PutDownByte(v uint8) bool {
	return p.PutDownBytes([]byte{v})
}

// PickUpByte reads a single byte and advances the read cursor by one.
func (p *Pdu) PickUpByte(v *uint8) bool {
	var buf [1]byte
	if !p.PickUpBytes(buf[:]) {
		return false
	}
	*v = buf[0]
	return true
}

// PutDownUint16 writes v big-endian (MSB first) and advances the write
// cursor by two.
func (p *Pdu) PutDownUint16(v uint16) bool {
	return p.PutDownBytes([]byte{byte(v >> 8), byte(v)})
}

// PickUpUint16 reads a big-endian uint16 and advances the read cursor by
// two.
func (p *Pdu) PickUpUint16(v *uint16) bool {
	var buf [2]byte
	if !p.PickUpBytes(buf[:]) {
		return false
	}
	*v = uint16(buf[0])<<8 | uint16(buf[1])
	return true
}

// PutDownUint32 writes v big-endian (MSB first) and advances the write
// cursor by four.
func (p *Pdu) PutDownUint32(v uint32) bool {
	return p.PutDownBytes([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

// PickUpUint32 reads a big-endian uint32 and advances the read cursor by
// four.
func (p *Pdu) PickUpUint32(v *uint32) bool {
	var buf [4]byte
	if !p.PickUpBytes(buf[:]) {
		return false
	}
	*v = uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	return true
}

// PutDownRevUint16 decrements the write cursor by two then writes v
// little-endian there (LSB at the lowest resulting address).
func (p *Pdu) PutDownRevUint16(v uint16) bool {
	return p.PutDownRevBytes([]byte{byte(v), byte(v >> 8)})
}

// PickUpRevUint16 decrements the read cursor by two then reads a
// little-endian uint16 from there.
func (p *Pdu) PickUpRevUint16(v *uint16) bool {
	var buf [2]byte
	if !p.PickUpRevBytes(buf[:]) {
		return false
	}
	*v = uint16(buf[0]) | uint16(buf[1])<<8
	return true
}

// PutDownRevUint32 decrements the write cursor by four then writes v
// little-endian there.
func (p *Pdu) PutDownRevUint32(v uint32) bool {
	return p.PutDownRevBytes([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// PickUpRevUint32 decrements the read cursor by four then reads a
// little-endian uint32 from there.
func (p *Pdu) PickUpRevUint32(v *uint32) bool {
	var buf [4]byte
	if !p.PickUpRevBytes(buf[:]) {
		return false
	}
	*v = uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	return true
}
