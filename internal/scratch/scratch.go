// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package scratch implements a growable byte buffer for decoded string
// content.
package scratch

import "errors"

// initSize is the capacity of the first allocation made by a Buffer.
const initSize = 256

// ErrTooLarge is reported when appending would exceed the limit of a Buffer.
var ErrTooLarge = errors.New("scratch buffer limit exceeded")

// A Buffer is an append-only byte accumulator. A zero Buffer is empty, has
// no limit, and allocates nothing until the first append.
type Buffer struct {
	buf   []byte
	limit int // if > 0, maximum content length
}

// New constructs an empty Buffer whose content may not exceed limit bytes.
// If limit <= 0, the buffer is unbounded.
func New(limit int) *Buffer { return &Buffer{limit: limit} }

// SetLimit sets the maximum content length of b. A limit <= 0 means no limit.
func (b *Buffer) SetLimit(limit int) { b.limit = limit }

// Reset discards the contents of b, retaining its storage.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// Len reports the length of the content of b.
func (b *Buffer) Len() int { return len(b.buf) }

// Cap reports the current capacity of b.
func (b *Buffer) Cap() int { return cap(b.buf) }

// Bytes returns the content of b. The slice is valid until the next change
// to b.
func (b *Buffer) Bytes() []byte { return b.buf }

// Append adds data to the end of b.
func (b *Buffer) Append(data []byte) error {
	if err := b.grow(len(data)); err != nil {
		return err
	}
	b.buf = append(b.buf, data...)
	return nil
}

// AppendByte adds c to the end of b.
func (b *Buffer) AppendByte(c byte) error {
	if err := b.grow(1); err != nil {
		return err
	}
	b.buf = append(b.buf, c)
	return nil
}

// grow ensures b has room for n more bytes, doubling its capacity until the
// new content fits.
func (b *Buffer) grow(n int) error {
	need := len(b.buf) + n
	if b.limit > 0 && need > b.limit {
		return ErrTooLarge
	}
	if need <= cap(b.buf) {
		return nil
	}
	c := max(cap(b.buf), initSize)
	for c < need {
		c *= 2
	}
	nb := make([]byte, len(b.buf), c)
	copy(nb, b.buf)
	b.buf = nb
	return nil
}
