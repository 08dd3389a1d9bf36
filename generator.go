// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonpg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/jsonpg/internal/escape"
	"github.com/creachadair/jsonpg/internal/nest"
	"go4.org/mem"
)

// ErrInvalidCall is reported by a Generator when a method is called in a
// position where the JSON grammar does not allow it.
var ErrInvalidCall = errors.New("invalid generator call")

// flushSize is the amount of buffered output that triggers a write.
const flushSize = 4096

// A Generator writes JSON text to an io.Writer. Output is buffered; call
// Flush to ensure all output has been written.
//
// If indent is empty, output is compact. Otherwise each array element and
// object member begins a new line, indented by one copy of indent per level
// of nesting. Multiple top-level values are separated by newlines.
//
// Once a method of a Generator reports an error, all further calls report
// the same error.
type Generator struct {
	w      io.Writer
	indent string
	buf    []byte
	nest   *nest.Stack

	first    bool   // no element has been written at the current level
	afterKey bool   // a key was written, and its value is pending
	top      int    // number of top-level values written
	pend     []byte // content of an incomplete string or key (see Visitor)
	err      error
}

// NewGenerator constructs a Generator that writes to w.
func NewGenerator(w io.Writer, indent string) *Generator {
	return &Generator{w: w, indent: indent, nest: nest.New(DefaultStackSize)}
}

// Reset discards any unflushed output and state of g, and directs further
// output to w.
func (g *Generator) Reset(w io.Writer) {
	g.w = w
	g.buf = g.buf[:0]
	g.nest.Reset()
	g.first, g.afterKey, g.top = false, false, 0
	g.pend = g.pend[:0]
	g.err = nil
}

// Flush writes any buffered output to the underlying writer.
func (g *Generator) Flush() error {
	if g.err != nil {
		return g.err
	}
	return g.flush()
}

func (g *Generator) flush() error {
	if len(g.buf) == 0 {
		return nil
	}
	_, err := g.w.Write(g.buf)
	g.buf = g.buf[:0]
	return g.setErr(err)
}

func (g *Generator) setErr(err error) error {
	if err != nil && g.err == nil {
		g.err = err
	}
	return err
}

func (g *Generator) misuse(msg string, args ...any) error {
	return g.setErr(fmt.Errorf("%w: %s", ErrInvalidCall, fmt.Sprintf(msg, args...)))
}

// write adds p to the output. If content is true, p is written as a quoted
// JSON string; otherwise it is written verbatim.
func (g *Generator) write(p mem.RO, content bool) error {
	if content {
		g.buf = escape.AppendQuote(g.buf, p)
	} else {
		g.buf = mem.Append(g.buf, p)
	}
	if len(g.buf) >= flushSize {
		return g.flush()
	}
	return nil
}

func (g *Generator) writeString(s string) error { return g.write(mem.S(s), false) }

// newline starts a new line at the current depth, if indenting.
func (g *Generator) newline() {
	if g.indent != "" {
		g.buf = append(g.buf, '\n')
		for range g.nest.Depth() {
			g.buf = append(g.buf, g.indent...)
		}
	}
}

// element writes the separator preceding an element of the current array or
// object.
func (g *Generator) element() {
	if !g.first {
		g.buf = append(g.buf, ',')
	}
	g.first = false
	g.newline()
}

// beginValue checks that a value is allowed here, and writes the separator
// preceding it.
func (g *Generator) beginValue() error {
	if g.err != nil {
		return g.err
	}
	switch {
	case g.nest.Depth() == 0:
		if g.top > 0 {
			g.buf = append(g.buf, '\n')
		}
		g.top++
	case g.nest.Peek() == nest.Object:
		if !g.afterKey {
			return g.misuse("value without a key in object")
		}
		g.afterKey = false
	default:
		g.element()
	}
	return nil
}

// BeginObject begins a new object.
func (g *Generator) BeginObject() error { return g.begin(nest.Object, "{") }

// BeginArray begins a new array.
func (g *Generator) BeginArray() error { return g.begin(nest.Array, "[") }

func (g *Generator) begin(k nest.Kind, tok string) error {
	if err := g.beginValue(); err != nil {
		return err
	}
	if err := g.nest.Push(k); err != nil {
		return g.misuse("nesting depth exceeds %d", g.nest.Size())
	}
	g.first = true
	return g.writeString(tok)
}

// EndObject ends the innermost open object.
func (g *Generator) EndObject() error { return g.end(nest.Object, "}") }

// EndArray ends the innermost open array.
func (g *Generator) EndArray() error { return g.end(nest.Array, "]") }

func (g *Generator) end(k nest.Kind, tok string) error {
	if g.err != nil {
		return g.err
	} else if g.nest.Depth() == 0 || g.nest.Peek() != k {
		return g.misuse("unbalanced %q", tok)
	} else if g.afterKey {
		return g.misuse("missing value after key")
	}
	g.nest.Pop()
	if !g.first {
		g.newline()
	}
	g.first = false
	return g.writeString(tok)
}

// Key writes the key of an object member. The following call must write its
// value.
func (g *Generator) Key(s string) error { return g.key(mem.S(s)) }

func (g *Generator) key(s mem.RO) error {
	if g.err != nil {
		return g.err
	} else if g.nest.Depth() == 0 || g.nest.Peek() != nest.Object {
		return g.misuse("key outside an object")
	} else if g.afterKey {
		return g.misuse("missing value after key")
	}
	g.element()
	g.afterKey = true
	if err := g.write(s, true); err != nil {
		return err
	}
	if g.indent != "" {
		return g.writeString(": ")
	}
	return g.writeString(":")
}

// String writes a string value.
func (g *Generator) String(s string) error { return g.str(mem.S(s)) }

func (g *Generator) str(s mem.RO) error {
	if err := g.beginValue(); err != nil {
		return err
	}
	return g.write(s, true)
}

// Integer writes an integer value.
func (g *Generator) Integer(v int64) error {
	if err := g.beginValue(); err != nil {
		return err
	}
	var tmp [20]byte
	return g.write(mem.B(strconv.AppendInt(tmp[:0], v, 10)), false)
}

// Real writes a floating-point value. The output always includes a decimal
// point or exponent, so that it reads back as a Real. Infinities and NaN
// cannot be represented in JSON and are reported as errors.
func (g *Generator) Real(v float64) error {
	if g.err != nil {
		return g.err
	} else if math.IsInf(v, 0) || math.IsNaN(v) {
		return g.misuse("cannot encode %v", v)
	}
	if err := g.beginValue(); err != nil {
		return err
	}
	var tmp [32]byte
	out := strconv.AppendFloat(tmp[:0], v, 'g', -1, 64)
	if !bytes.ContainsAny(out, ".e") {
		out = append(out, ".0"...)
	}
	return g.write(mem.B(out), false)
}

// Bool writes a Boolean value.
func (g *Generator) Bool(v bool) error {
	if err := g.beginValue(); err != nil {
		return err
	}
	return g.writeString(strconv.FormatBool(v))
}

// Null writes a null value.
func (g *Generator) Null() error {
	if err := g.beginValue(); err != nil {
		return err
	}
	return g.writeString("null")
}

// Visitor returns a Visitor that writes the events it receives to g, so that
// parsing input into it regenerates the input. Incomplete strings and keys
// are buffered until they are complete.
func (g *Generator) Visitor() *Visitor {
	chunk := func(emit func(mem.RO) error) func([]byte, bool) error {
		return func(text []byte, complete bool) error {
			if !complete || len(g.pend) != 0 {
				g.pend = append(g.pend, text...)
				if !complete {
					return nil
				}
				text = g.pend
			}
			defer func() { g.pend = g.pend[:0] }()
			return emit(mem.B(text))
		}
	}
	return &Visitor{
		Null:        g.Null,
		Bool:        g.Bool,
		Integer:     g.Integer,
		Real:        g.Real,
		String:      chunk(g.str),
		Key:         chunk(g.key),
		BeginArray:  g.BeginArray,
		EndArray:    g.EndArray,
		BeginObject: g.BeginObject,
		EndObject:   g.EndObject,
	}
}

// Format parses data with the given configuration and writes it to w in the
// layout selected by indent.
func Format(w io.Writer, data []byte, cfg *Config, indent string) error {
	p, err := New(cfg)
	if err != nil {
		return err
	}
	g := NewGenerator(w, indent)
	if err := p.Parse(data, g.Visitor()); err != nil {
		return err
	}
	if indent != "" {
		g.buf = append(g.buf, '\n')
	}
	return g.Flush()
}

// Compact returns a compact rendering of the JSON text in s, or reports an
// error if s is not valid with the default configuration.
func Compact(s string) (string, error) {
	var sb strings.Builder
	if err := Format(&sb, []byte(s), nil, ""); err != nil {
		return "", err
	}
	return sb.String(), nil
}
