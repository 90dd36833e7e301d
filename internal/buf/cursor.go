package buf

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a read, write, or seek would leave the
// bounds of the cursor's buffer.
var ErrOutOfRange = errors.New("buf: out of range")

// Cursor is a seekable, endian-aware view over a fixed byte buffer.
//
// The buffer is never resized. Every read and write is bounds-checked per
// call, and the position always stays within [0, Len()]. The byte order is a
// property of the cursor, not of the buffer: two cursors over the same bytes
// may decode them differently.
type Cursor struct {
	b     []byte
	pos   int
	big   bool
	order binary.ByteOrder
}

// NewCursor returns a cursor positioned at 0.
func NewCursor(b []byte, bigEndian bool) *Cursor {
	c := &Cursor{b: b}
	c.setOrder(bigEndian)
	return c
}

func (c *Cursor) setOrder(bigEndian bool) {
	c.big = bigEndian
	if bigEndian {
		c.order = binary.BigEndian
	} else {
		c.order = binary.LittleEndian
	}
}

// BigEndian reports the cursor's byte order.
func (c *Cursor) BigEndian() bool { return c.big }

// Order returns the cursor's byte order as a binary.ByteOrder.
func (c *Cursor) Order() binary.ByteOrder { return c.order }

// WithOrder returns a cursor over the same buffer and position using the
// given byte order. The receiver is left untouched.
func (c *Cursor) WithOrder(bigEndian bool) *Cursor {
	n := &Cursor{b: c.b, pos: c.pos}
	n.setOrder(bigEndian)
	return n
}

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.b) }

// Pos returns the current position.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of bytes between the position and the end.
func (c *Cursor) Remaining() int { return len(c.b) - c.pos }

// Seek moves the position to pos. Seeking to Len() is allowed; anything
// beyond fails and leaves the position unchanged.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.b) {
		return fmt.Errorf("seek to %d (len %d): %w", pos, len(c.b), ErrOutOfRange)
	}
	c.pos = pos
	return nil
}

// Skip advances the position by n bytes.
func (c *Cursor) Skip(n int) error {
	end, ok := AddOverflowSafe(c.pos, n)
	if !ok {
		return fmt.Errorf("skip %d at %d: %w", n, c.pos, ErrOutOfRange)
	}
	return c.Seek(end)
}

// take returns the next n bytes without copying and advances past them.
func (c *Cursor) take(n int) ([]byte, error) {
	b, ok := Slice(c.b, c.pos, n)
	if !ok {
		return nil, fmt.Errorf("read %d bytes at %d (len %d): %w", n, c.pos, len(c.b), ErrOutOfRange)
	}
	c.pos += n
	return b, nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads one signed byte.
func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

// ReadU16 reads a uint16 in the cursor's byte order.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(b), nil
}

// ReadI16 reads an int16 in the cursor's byte order.
func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

// ReadU32 reads a uint32 in the cursor's byte order.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(b), nil
}

// ReadI32 reads an int32 in the cursor's byte order.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadTag reads a four-byte chunk tag. Tags are stored as 32-bit integers in
// the file's byte order, so a little-endian file spells them backwards on
// disk; decoding with the cursor's order always yields the canonical value.
func (c *Cursor) ReadTag() (uint32, error) {
	return c.ReadU32()
}

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// View returns the next n bytes without copying. The slice aliases the
// cursor's buffer and must not be retained past the buffer's lifetime.
func (c *Cursor) View(n int) ([]byte, error) {
	return c.take(n)
}

// Sub returns a cursor bounded to the next n bytes (same byte order) and
// advances the receiver past them.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	return NewCursor(b, c.big), nil
}

// place returns the next n writable bytes and advances past them.
func (c *Cursor) place(n int) ([]byte, error) {
	b, ok := Slice(c.b, c.pos, n)
	if !ok {
		return nil, fmt.Errorf("write %d bytes at %d (len %d): %w", n, c.pos, len(c.b), ErrOutOfRange)
	}
	c.pos += n
	return b, nil
}

// PutU8 writes one byte.
func (c *Cursor) PutU8(v uint8) error {
	b, err := c.place(1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

// PutU16 writes a uint16 in the cursor's byte order.
func (c *Cursor) PutU16(v uint16) error {
	b, err := c.place(2)
	if err != nil {
		return err
	}
	c.order.PutUint16(b, v)
	return nil
}

// PutI16 writes an int16 in the cursor's byte order.
func (c *Cursor) PutI16(v int16) error { return c.PutU16(uint16(v)) }

// PutU32 writes a uint32 in the cursor's byte order.
func (c *Cursor) PutU32(v uint32) error {
	b, err := c.place(4)
	if err != nil {
		return err
	}
	c.order.PutUint32(b, v)
	return nil
}

// PutI32 writes an int32 in the cursor's byte order.
func (c *Cursor) PutI32(v int32) error { return c.PutU32(uint32(v)) }

// PutTag writes a chunk tag in the cursor's byte order.
func (c *Cursor) PutTag(tag uint32) error { return c.PutU32(tag) }

// PutBytes copies p into the buffer at the current position.
func (c *Cursor) PutBytes(p []byte) error {
	b, err := c.place(len(p))
	if err != nil {
		return err
	}
	copy(b, p)
	return nil
}
