// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package tree builds an in-memory tree of JSON values from the events of a
// jsonpg.Parser.
package tree

import (
	"strconv"

	"github.com/creachadair/jsonpg/internal/arena"
)

// Kind is the type of a Node.
type Kind byte

// Constants defining the valid Kind values.
const (
	Null Kind = iota
	Bool
	Integer
	Real
	String
	Array
	Object
)

var kindStr = [...]string{"null", "bool", "integer", "real", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindStr[k]
}

// A Node is a single JSON value. The zero Node is null.
//
// Nodes are allocated in blocks owned by their Tree, and must not be used
// after the tree is released.
type Node struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	text []byte   // string content
	elts []*Node  // array elements, or object member values
	keys [][]byte // object member keys, parallel to elts
}

// Kind reports the type of n.
func (n *Node) Kind() Kind { return n.kind }

// Bool returns the value of a Bool node, and false for other kinds.
func (n *Node) Bool() bool { return n.kind == Bool && n.b }

// Int returns the value of an Integer node, the truncated value of a Real
// node, and 0 for other kinds.
func (n *Node) Int() int64 {
	switch n.kind {
	case Integer:
		return n.i
	case Real:
		return int64(n.f)
	}
	return 0
}

// Float returns the value of a numeric node, and 0 for other kinds.
func (n *Node) Float() float64 {
	switch n.kind {
	case Integer:
		return float64(n.i)
	case Real:
		return n.f
	}
	return 0
}

// Str returns the content of a String node, and "" for other kinds.
func (n *Node) Str() string { return string(n.text) }

// Bytes returns a view of the content of a String node. The caller must not
// modify the contents of the slice.
func (n *Node) Bytes() []byte { return n.text }

// Len reports the number of elements of an array or members of an object,
// and 0 for other kinds.
func (n *Node) Len() int { return len(n.elts) }

// Index returns the ith element of an array, or the value of the ith member
// of an object. Negative indices count backward from the end. Index returns
// nil if i is out of range.
func (n *Node) Index(i int) *Node {
	if i, ok := fixBound(len(n.elts), i); ok {
		return n.elts[i]
	}
	return nil
}

// Key returns the key of the ith member of an object, with negative indices
// counting backward from the end. It returns "" if i is out of range.
func (n *Node) Key(i int) string {
	if i, ok := fixBound(len(n.keys), i); ok {
		return string(n.keys[i])
	}
	return ""
}

// Find returns the value of the first member of an object with the given
// key, or nil if there is no such member.
func (n *Node) Find(key string) *Node {
	for i, k := range n.keys {
		if string(k) == key {
			return n.elts[i]
		}
	}
	return nil
}

func fixBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

// A Tree is the result of parsing a single JSON value.
type Tree struct {
	Root *Node

	nodes *arena.Arena[Node]
	text  [][]byte // interned string content
}

// Nodes reports the number of nodes in t.
func (t *Tree) Nodes() int { return t.nodes.Len() }

// Release discards the storage of t. The nodes of t must not be used after
// it has been released.
func (t *Tree) Release() {
	t.Root = nil
	t.nodes.Free()
	t.text = nil
}
