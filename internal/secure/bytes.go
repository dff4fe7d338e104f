// Package secure provides byte containers for credential material that are
// zeroed when released and transferred by move rather than copy.
package secure

// Bytes owns a sensitive byte buffer. Exactly one owner holds the buffer at
// a time; ownership transfers via Move, and the final owner calls Wipe.
type Bytes struct {
	data []byte
}

// New wraps b in a Bytes, taking ownership of the slice. The caller must not
// retain or reuse b afterwards.
func New(b []byte) *Bytes {
	return &Bytes{data: b}
}

// FromString copies s into a new Bytes. Go strings cannot be zeroed, so
// callers should obtain passwords as byte slices when possible.
func FromString(s string) *Bytes {
	return &Bytes{data: []byte(s)}
}

// Data returns the underlying buffer without copying. The returned slice is
// invalid after Wipe or Move.
func (b *Bytes) Data() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Len returns the buffer length.
func (b *Bytes) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Empty reports whether the buffer is empty or already released.
func (b *Bytes) Empty() bool {
	return b.Len() == 0
}

// Move transfers ownership of the buffer to a new Bytes, leaving the
// receiver empty. The receiver must not be used afterwards except to Wipe
// (which becomes a no-op).
func (b *Bytes) Move() *Bytes {
	if b == nil {
		return nil
	}
	moved := &Bytes{data: b.data}
	b.data = nil
	return moved
}

// Wipe zeroes the buffer and releases it.
func (b *Bytes) Wipe() {
	if b == nil {
		return
	}
	for i := range b.data {
		b.data[i] = 0
	}
	b.data = nil
}
