// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package arena_test

import (
	"testing"

	"github.com/creachadair/jsonpg/internal/arena"
)

type item struct {
	a, b int64
	tag  string
}

func TestArena(t *testing.T) {
	a := arena.New[item](256)
	per := a.PerBlock()
	if per < 1 {
		t.Fatalf("PerBlock: got %d, want >= 1", per)
	}

	const n = 100
	ptrs := make([]*item, n)
	for i := range ptrs {
		p := a.Alloc()
		if *p != (item{}) {
			t.Errorf("Alloc %d: got %+v, want zero", i, *p)
		}
		p.a, p.b = int64(i), int64(-i)
		ptrs[i] = p
	}
	if got := a.Len(); got != n {
		t.Errorf("Len: got %d, want %d", got, n)
	}
	if got, want := a.Blocks(), (n+per-1)/per; got != want {
		t.Errorf("Blocks: got %d, want %d", got, want)
	}

	// Values must not move as new blocks are chained.
	for i, p := range ptrs {
		if p.a != int64(i) || p.b != int64(-i) {
			t.Errorf("Item %d: got %+v", i, *p)
		}
	}

	a.Free()
	if a.Len() != 0 || a.Blocks() != 0 {
		t.Errorf("After Free: len=%d blocks=%d, want 0, 0", a.Len(), a.Blocks())
	}
}

func TestZeroArena(t *testing.T) {
	var a arena.Arena[int]
	p := a.Alloc()
	*p = 17
	if got := a.PerBlock(); got != arena.DefaultBlockBytes/8 {
		t.Errorf("PerBlock: got %d, want %d", got, arena.DefaultBlockBytes/8)
	}
	if a.Len() != 1 || a.Blocks() != 1 {
		t.Errorf("Zero arena: len=%d blocks=%d, want 1, 1", a.Len(), a.Blocks())
	}
}

func TestLargeItems(t *testing.T) {
	type big [1024]byte
	a := arena.New[big](16)
	if got := a.PerBlock(); got != 1 {
		t.Errorf("PerBlock: got %d, want 1", got)
	}
	a.Alloc()
	a.Alloc()
	if got := a.Blocks(); got != 2 {
		t.Errorf("Blocks: got %d, want 2", got)
	}
}
