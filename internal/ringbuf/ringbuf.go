// Package ringbuf provides a fixed-capacity FIFO byte queue.
package ringbuf

// Buffer is a circular byte queue. Pushes never fail: when full, the oldest
// unread bytes are overwritten.
// A Buffer is not safe for concurrent use.
type Buffer struct {
	data []byte
	head int
	size int
}

// New creates a Buffer that holds up to capacity bytes.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		panic("ringbuf: capacity must be positive")
	}
	return &Buffer{data: make([]byte, capacity)}
}

// PushForce appends p, overwriting the oldest bytes if there is not enough room.
// It returns how many bytes were lost: queued bytes that were overwritten plus
// any leading bytes of p that could not fit at all.
func (b *Buffer) PushForce(p []byte) int {
	c := len(b.data)
	lost := 0

	if len(p) >= c {
		lost = b.size + len(p) - c
		copy(b.data, p[len(p)-c:])
		b.head = 0
		b.size = c
		return lost
	}

	if over := b.size + len(p) - c; over > 0 {
		b.head = (b.head + over) % c
		b.size -= over
		lost = over
	}

	tail := (b.head + b.size) % c
	n := copy(b.data[tail:], p)
	copy(b.data, p[n:])
	b.size += len(p)
	return lost
}

// PopByte removes and returns the oldest byte.
// ok is false when the buffer is empty.
func (b *Buffer) PopByte() (byte, bool) {
	if b.size == 0 {
		return 0, false
	}
	v := b.data[b.head]
	b.head = (b.head + 1) % len(b.data)
	b.size--
	return v, true
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return b.size
}

// Cap returns the capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Free returns how many bytes can be pushed without overwriting.
func (b *Buffer) Free() int {
	return len(b.data) - b.size
}

// Reset discards all unread bytes.
func (b *Buffer) Reset() {
	b.head = 0
	b.size = 0
}
