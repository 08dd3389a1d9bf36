// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package arena implements a chained block allocator for values of a single
// fixed-size type.
package arena

import "unsafe"

// DefaultBlockBytes is the approximate size of each block when no size is
// given to New.
const DefaultBlockBytes = 4096

// An Arena allocates values of type T from a chain of fixed-capacity blocks.
// Values are never moved once allocated, and are released only all together
// by Free. A zero Arena is ready for use with the default block size.
type Arena[T any] struct {
	blocks [][]T
	per    int // items per block
	n      int // total items allocated
}

// New constructs an arena whose blocks occupy roughly blockBytes bytes each.
// If blockBytes <= 0, DefaultBlockBytes is used. Every block holds at least
// one item.
func New[T any](blockBytes int) *Arena[T] {
	a := new(Arena[T])
	a.init(blockBytes)
	return a
}

func (a *Arena[T]) init(blockBytes int) {
	if blockBytes <= 0 {
		blockBytes = DefaultBlockBytes
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	a.per = 1
	if size > 0 && blockBytes/size > 1 {
		a.per = blockBytes / size
	}
}

// Alloc returns a pointer to a new zero value of T owned by a.
func (a *Arena[T]) Alloc() *T {
	if a.per == 0 {
		a.init(0)
	}
	i := len(a.blocks) - 1
	if i < 0 || len(a.blocks[i]) == cap(a.blocks[i]) {
		a.blocks = append(a.blocks, make([]T, 0, a.per))
		i++
	}
	a.blocks[i] = append(a.blocks[i], *new(T))
	a.n++
	return &a.blocks[i][len(a.blocks[i])-1]
}

// Len reports the number of values allocated from a since it was created or
// last freed.
func (a *Arena[T]) Len() int { return a.n }

// Blocks reports the number of blocks in the chain of a.
func (a *Arena[T]) Blocks() int { return len(a.blocks) }

// PerBlock reports the number of values each block of a holds.
func (a *Arena[T]) PerBlock() int {
	if a.per == 0 {
		a.init(0)
	}
	return a.per
}

// Free releases all the blocks of a. Pointers previously returned by Alloc
// must not be used by the caller after Free.
func (a *Arena[T]) Free() {
	for i := range a.blocks {
		clear(a.blocks[i])
	}
	a.blocks = nil
	a.n = 0
}
