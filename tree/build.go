// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"errors"
	"io"

	"github.com/creachadair/jsonpg"
	"github.com/creachadair/jsonpg/internal/arena"
)

// Build consumes the remaining events of p and returns a tree of the value
// they describe. A parse error is returned as reported by p.
func Build(p *jsonpg.Parser) (*Tree, error) {
	b := &builder{t: &Tree{nodes: arena.New[Node](0)}}
	if err := p.Visit(b.visitor()); err != nil {
		return nil, err
	}
	if len(b.stk) != 0 || b.t.Root == nil {
		return nil, errors.New("incomplete value")
	}
	return b.t, nil
}

// Parse parses data with the given configuration and returns its tree.
func Parse(data []byte, cfg *jsonpg.Config) (*Tree, error) {
	p, err := jsonpg.New(cfg)
	if err != nil {
		return nil, err
	}
	p.Reset(data)
	return Build(p)
}

// ParseReader parses the input from r with the given configuration and
// returns its tree.
func ParseReader(r io.Reader, cfg *jsonpg.Config) (*Tree, error) {
	p, err := jsonpg.New(cfg)
	if err != nil {
		return nil, err
	}
	p.ResetReader(r)
	return Build(p)
}

// A builder accumulates parser events into a tree.
type builder struct {
	t    *Tree
	stk  []*Node // open arrays and objects
	pend []byte  // content of an incomplete string or key
}

func (b *builder) visitor() *jsonpg.Visitor {
	return &jsonpg.Visitor{
		Null:    func() error { b.add(b.alloc(Null)); return nil },
		Bool:    func(v bool) error { n := b.alloc(Bool); n.b = v; b.add(n); return nil },
		Integer: func(v int64) error { n := b.alloc(Integer); n.i = v; b.add(n); return nil },
		Real:    func(v float64) error { n := b.alloc(Real); n.f = v; b.add(n); return nil },
		String: func(text []byte, complete bool) error {
			if s, ok := b.chunk(text, complete); ok {
				n := b.alloc(String)
				n.text = s
				b.add(n)
			}
			return nil
		},
		Key: func(text []byte, complete bool) error {
			if s, ok := b.chunk(text, complete); ok {
				obj := b.stk[len(b.stk)-1]
				obj.keys = append(obj.keys, s)
			}
			return nil
		},
		BeginArray:  func() error { b.open(Array); return nil },
		EndArray:    b.close,
		BeginObject: func() error { b.open(Object); return nil },
		EndObject:   b.close,
	}
}

func (b *builder) alloc(k Kind) *Node {
	n := b.t.nodes.Alloc()
	n.kind = k
	return n
}

// add attaches n to the innermost open container, or makes it the root.
func (b *builder) add(n *Node) {
	if len(b.stk) == 0 {
		b.t.Root = n
		return
	}
	top := b.stk[len(b.stk)-1]
	top.elts = append(top.elts, n)
}

func (b *builder) open(k Kind) {
	n := b.alloc(k)
	b.add(n)
	b.stk = append(b.stk, n)
}

func (b *builder) close() error {
	if len(b.stk) == 0 {
		return errors.New("unbalanced close")
	}
	b.stk = b.stk[:len(b.stk)-1]
	return nil
}

// chunk accumulates string content, and reports the interned content once
// it is complete.
func (b *builder) chunk(text []byte, complete bool) ([]byte, bool) {
	if !complete {
		b.pend = append(b.pend, text...)
		return nil, false
	} else if len(b.pend) != 0 {
		b.pend = append(b.pend, text...)
		text = b.pend
	}
	s := b.intern(text)
	b.pend = b.pend[:0]
	return s, true
}

// intern returns a copy of text. Copies are batched into blocks to reduce
// allocation overhead.
func (b *builder) intern(text []byte) []byte {
	const bufBlockBytes = 8192

	if len(text) >= bufBlockBytes/4 {
		return append([]byte(nil), text...)
	}
	t := b.t
	i := len(t.text) - 1
	if i < 0 || len(t.text[i])+len(text) > cap(t.text[i]) {
		t.text = append(t.text, make([]byte, 0, bufBlockBytes))
		i++
	}
	s := len(t.text[i])
	t.text[i] = append(t.text[i], text...)
	return t.text[i][s : s+len(text) : s+len(text)]
}
