// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package tree

import "fmt"

// Path traverses a sequential path into the structure of n, and returns the
// node reached.
//
// If a path element is a string, the corresponding node must be an object,
// and the string selects the value of its first member with that key.
//
// If a path element is an integer, the corresponding node must be an array
// or object, and the integer selects an element or member value by index.
// Negative indices count backward from the end (-1 is last, -2 second last).
//
// If a path element is a function, it must have the signature
//
//	func(*Node) (*Node, error)
//
// and its result becomes the next node in the sequence. If the function
// reports an error, traversal stops and that error is returned.
func (n *Node) Path(path ...any) (*Node, error) {
	cur := n
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			if cur.kind != Object {
				return nil, fmt.Errorf("cannot traverse %v with %q", cur.kind, t)
			}
			next := cur.Find(t)
			if next == nil {
				return nil, fmt.Errorf("key %q not found", t)
			}
			cur = next

		case int:
			if cur.kind != Array && cur.kind != Object {
				return nil, fmt.Errorf("cannot traverse %v with %d", cur.kind, t)
			}
			next := cur.Index(t)
			if next == nil {
				return nil, fmt.Errorf("%v index %d out of bounds (n=%d)", cur.kind, t, cur.Len())
			}
			cur = next

		case func(*Node) (*Node, error):
			next, err := t(cur)
			if err != nil {
				return nil, err
			}
			cur = next

		default:
			return nil, fmt.Errorf("invalid path element %T", elt)
		}
	}
	return cur, nil
}
