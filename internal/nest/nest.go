// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package nest implements a bounded bit-packed stack recording the kinds of
// open JSON containers.
package nest

import "errors"

// Kind is the kind of an open container.
type Kind byte

const (
	Object Kind = 0 // an open object "{"
	Array  Kind = 1 // an open array "["
)

func (k Kind) String() string {
	if k == Array {
		return "array"
	}
	return "object"
}

var (
	// ErrOverflow is reported by Push when the stack is full.
	ErrOverflow = errors.New("nesting stack overflow")

	// ErrUnderflow is reported by Pop when the stack is at its minimum depth.
	ErrUnderflow = errors.New("nesting stack underflow")
)

// A Stack is a stack of container kinds with a fixed maximum depth. Each level
// occupies one bit of storage.
type Stack struct {
	bits []uint64
	size int // maximum depth
	ptr  int // current depth
	min  int // minimum depth
}

// New constructs an empty stack that holds at most size levels.
// It panics if size <= 0.
func New(size int) *Stack {
	if size <= 0 {
		panic("nest: invalid stack size")
	}
	return &Stack{bits: make([]uint64, (size+63)/64), size: size}
}

// Reset discards the contents of s and sets its minimum depth to zero.
func (s *Stack) Reset() {
	clear(s.bits)
	s.ptr, s.min = 0, 0
}

// Seed pushes k and makes the resulting depth the floor of s, so that the
// seeded frame cannot be popped.
func (s *Stack) Seed(k Kind) error {
	if err := s.Push(k); err != nil {
		return err
	}
	s.min = s.ptr
	return nil
}

// Push adds a level of kind k to the top of s.
func (s *Stack) Push(k Kind) error {
	if s.ptr >= s.size {
		return ErrOverflow
	}
	w, b := s.ptr/64, uint(s.ptr%64)
	if k == Array {
		s.bits[w] |= 1 << b
	} else {
		s.bits[w] &^= 1 << b
	}
	s.ptr++
	return nil
}

// Pop removes and returns the top level of s.
func (s *Stack) Pop() (Kind, error) {
	if s.ptr <= s.min {
		return Object, ErrUnderflow
	}
	k := s.Peek()
	s.ptr--
	return k, nil
}

// Peek returns the kind of the top level of s without removing it.
// If s is empty, Peek returns Object.
func (s *Stack) Peek() Kind {
	if s.ptr == 0 {
		return Object
	}
	i := s.ptr - 1
	return Kind(s.bits[i/64] >> uint(i%64) & 1)
}

// Depth reports the current number of levels on s.
func (s *Stack) Depth() int { return s.ptr }

// Min reports the minimum depth of s.
func (s *Stack) Min() int { return s.min }

// Size reports the maximum depth of s.
func (s *Stack) Size() int { return s.size }
