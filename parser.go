// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonpg

import (
	"fmt"
	"io"

	"github.com/creachadair/jsonpg/internal/codec"
	"github.com/creachadair/jsonpg/internal/nest"
	"github.com/creachadair/jsonpg/internal/scratch"
)

// state is the position of the parser in the JSON grammar between events.
type state byte

const (
	stStart       state = iota // before the first token
	stValue                    // awaiting the top-level value
	stArrayFirst               // after "[": a value or "]"
	stArrayNext                // after ",": a value (or "]" with trailing commas)
	stArraySep                 // after a value: "," or "]"
	stObjectFirst              // after "{": a key or "}"
	stObjectNext               // after ",": a key (or "}" with trailing commas)
	stNameSep                  // after a key: ":"
	stMemberValue              // after ":": a value
	stObjectSep                // after a member: "," or "}"
	stStringNext               // inside a string split at the end of the window
	stEOF                      // after the top-level value: end of input
	stDone                     // terminal: EOF reported
	stError                    // terminal: error reported
)

// tokKind is the kind of an open token.
type tokKind byte

const (
	tokString  tokKind = iota + 1 // a quoted or bare string
	tokEscape                     // a "\" escape within a string
	tokUnicode                    // a "\uXXXX" escape within a string
	tokScalar                     // a number or constant
)

// A token marks the start of a partially-scanned token in the window, whose
// bytes must be retained when the window is refilled.
type token struct {
	kind  tokKind
	start int
}

// maxTokens bounds the token stack: string, escape, Unicode escape.
const maxTokens = 3

// stringScan records the progress of the string being scanned.
type stringScan struct {
	quote  byte // the closing quote, or 0 for an unquoted string
	key    bool // the string is an object key
	run    int  // offset of content not yet copied to the scratch buffer
	copied bool // content is being accumulated in the scratch buffer
}

// A Parser is an incremental JSON parser. Each call to Next advances the
// parser to the next event of the input. A Parser is not safe for concurrent
// use by multiple goroutines.
type Parser struct {
	cfg Config

	src  io.Reader // input source; nil for in-memory input
	eof  bool      // no further input is available from src
	buf  []byte    // the input window; valid data are buf[:end]
	own  []byte    // window storage owned by the parser, reused for streams
	pos  int       // scan cursor
	end  int       // end of valid data
	seen int64     // bytes discarded from previous windows

	nest *nest.Stack
	toks [maxTokens]token
	ntok int

	str     stringScan
	scratch scratch.Buffer

	state state
	val   Value
}

// New constructs a parser with the given configuration. If cfg == nil, the
// process-wide default configuration is used (see SetDefaultConfig). New
// reports an error of concrete type *SyntaxError with code ConfigError if cfg is
// invalid. The parser has no input until it is reset.
func New(cfg *Config) (*Parser, error) {
	var c Config
	if cfg == nil {
		c = DefaultConfig()
	} else {
		c = *cfg
	}
	nc, err := c.normalize()
	if err != nil {
		return nil, err
	}
	p := &Parser{cfg: nc, nest: nest.New(nc.StackSize)}
	p.scratch.SetLimit(nc.MaxStringSize)
	p.Reset(nil)
	return p, nil
}

// Config returns the effective configuration of p.
func (p *Parser) Config() Config { return p.cfg }

// Reset discards the state of p and prepares it to parse data. The parser
// does not modify data, and String and Key events may refer to it directly.
func (p *Parser) Reset(data []byte) {
	p.reset(nil)
	p.buf, p.end = data, len(data)
}

// ResetReader discards the state of p and prepares it to parse the input
// from r. Input is read in blocks of the configured buffer size.
func (p *Parser) ResetReader(r io.Reader) {
	p.reset(r)
	if len(p.own) == 0 {
		p.own = make([]byte, p.cfg.BufferSize)
	}
	p.buf = p.own
}

func (p *Parser) reset(r io.Reader) {
	p.src, p.eof = r, r == nil
	p.buf, p.pos, p.end, p.seen = nil, 0, 0, 0
	p.nest.Reset()
	switch {
	case p.cfg.Flags.Has(IsObject):
		p.nest.Seed(nest.Object)
	case p.cfg.Flags.Has(IsArray):
		p.nest.Seed(nest.Array)
	}
	p.ntok = 0
	p.str = stringScan{}
	p.scratch.Reset()
	p.state = stStart
	p.val = Value{}
}

// Value returns the payload of the most recent event reported by Next.
func (p *Parser) Value() Value { return p.val }

// Depth reports the current nesting depth of arrays and objects.
func (p *Parser) Depth() int { return p.nest.Depth() }

// Consumed reports the total number of input bytes consumed so far, across
// all windows read from the input.
func (p *Parser) Consumed() int64 { return p.seen + int64(p.pos) }

// Next advances p to the next event of the input and reports its kind. Use
// Value to retrieve its payload. After Next reports EOF or Error, further
// calls report the same event without consuming more input.
func (p *Parser) Next() Kind {
	if p.state == stDone || p.state == stError {
		return p.val.Kind
	}
	p.val = Value{}
	return p.step()
}

func (p *Parser) has(f Flags) bool { return p.cfg.Flags.Has(f) }

// step runs the state machine until it produces one event.
func (p *Parser) step() Kind {
	switch p.state {
	case stStart:
		return p.start()
	case stStringNext:
		return p.startChunk()
	}
	for {
		if err := p.skipSpace(); err != nil {
			return p.fail(err)
		}
		if p.pos == p.end {
			return p.atEnd()
		}

		c := p.buf[p.pos]
		switch p.state {
		case stValue:
			if c == ']' || c == '}' {
				return p.failf(StackUnderflow, "unmatched %q", c)
			}
			return p.scanValue()

		case stMemberValue:
			return p.scanValue()

		case stArrayFirst:
			if c == ']' {
				return p.closeArray()
			}
			return p.scanValue()

		case stArrayNext:
			if c == ']' {
				if p.has(TrailingCommas) {
					return p.closeArray()
				}
				return p.failf(ParseError, "unexpected %q after comma", c)
			}
			return p.scanValue()

		case stArraySep:
			switch c {
			case ',':
				p.pos++
				p.state = stArrayNext
				continue
			case ']':
				return p.closeArray()
			}
			if p.has(OptionalCommas) {
				return p.scanValue()
			}
			return p.failf(ParseError, `expected "," or "]", got %q`, c)

		case stObjectFirst:
			if c == '}' {
				return p.closeObject()
			}
			return p.scanKey()

		case stObjectNext:
			if c == '}' {
				if p.has(TrailingCommas) {
					return p.closeObject()
				}
				return p.failf(ParseError, "unexpected %q after comma", c)
			}
			return p.scanKey()

		case stNameSep:
			if c != ':' {
				return p.failf(ParseError, `expected ":", got %q`, c)
			}
			p.pos++
			p.state = stMemberValue
			continue

		case stObjectSep:
			switch c {
			case ',':
				p.pos++
				p.state = stObjectNext
				continue
			case '}':
				return p.closeObject()
			}
			if p.has(OptionalCommas) {
				return p.scanKey()
			}
			return p.failf(ParseError, `expected "," or "}", got %q`, c)

		case stEOF:
			if c == ']' || c == '}' {
				return p.failf(StackUnderflow, "unmatched %q", c)
			}
			return p.failf(ParseError, "unexpected %q after value", c)

		default:
			panic(fmt.Sprintf("jsonpg: invalid parser state %d", p.state))
		}
	}
}

// start skips a byte-order mark, if present, and opens the implicit outer
// container if one is configured.
func (p *Parser) start() Kind {
	if _, err := p.ensure(3); err != nil {
		return p.fail(err)
	}
	p.pos += codec.BOMLength(p.buf[p.pos:p.end])

	switch {
	case p.has(IsObject):
		p.state = stObjectFirst
		return p.emit(BeginObject)
	case p.has(IsArray):
		p.state = stArrayFirst
		return p.emit(BeginArray)
	}
	p.state = stValue
	return p.step()
}

// atEnd handles the end of input at a token boundary.
func (p *Parser) atEnd() Kind {
	switch p.state {
	case stEOF:
		p.state = stDone
		return p.emit(EOF)

	case stArrayFirst, stArraySep, stArrayNext, stObjectFirst, stObjectSep, stObjectNext:
		// The implicit outer container closes at the end of input.
		if lo := p.nest.Min(); lo > 0 && p.nest.Depth() == lo {
			if (p.state == stArrayNext || p.state == stObjectNext) && !p.has(TrailingCommas) {
				return p.failf(ParseError, "unexpected end of input after comma")
			}
			p.state = stEOF
			if p.nest.Peek() == nest.Array {
				return p.emit(EndArray)
			}
			return p.emit(EndObject)
		}
	}
	return p.failf(ParseError, "unexpected end of input")
}

// afterValue updates the state after a complete value.
func (p *Parser) afterValue() {
	switch {
	case p.nest.Depth() == 0:
		p.state = stEOF
	case p.nest.Peek() == nest.Array:
		p.state = stArraySep
	default:
		p.state = stObjectSep
	}
}

func (p *Parser) open(k nest.Kind) Kind {
	if err := p.nest.Push(k); err != nil {
		return p.failf(StackOverflow, "nesting depth exceeds %d", p.nest.Size())
	}
	p.pos++
	if k == nest.Array {
		p.state = stArrayFirst
		return p.emit(BeginArray)
	}
	p.state = stObjectFirst
	return p.emit(BeginObject)
}

func (p *Parser) closeArray() Kind  { return p.close(nest.Array, EndArray) }
func (p *Parser) closeObject() Kind { return p.close(nest.Object, EndObject) }

func (p *Parser) close(k nest.Kind, ev Kind) Kind {
	c := p.buf[p.pos]
	if p.nest.Depth() > p.nest.Min() && p.nest.Peek() != k {
		return p.failf(ParseError, "mismatched %q closes %v", c, p.nest.Peek())
	}
	if _, err := p.nest.Pop(); err != nil {
		return p.failf(StackUnderflow, "unmatched %q", c)
	}
	p.pos++
	p.afterValue()
	return p.emit(ev)
}

// scanValue dispatches on the first byte of a value.
func (p *Parser) scanValue() Kind {
	c := p.buf[p.pos]
	if p.has(UnquotedStrings) && (c == 't' || c == 'f' || c == 'n') {
		// Bare words are strings, including true, false, and null.
		return p.beginBare(false)
	}
	switch c {
	case '"':
		return p.beginString(c, false)
	case '\'':
		if p.has(SingleQuotes) {
			return p.beginString(c, false)
		}
	case '{':
		return p.open(nest.Object)
	case '[':
		return p.open(nest.Array)
	case 't':
		return p.scanConstant("true", Value{Kind: Bool, Bool: true})
	case 'f':
		return p.scanConstant("false", Value{Kind: Bool})
	case 'n':
		return p.scanConstant("null", Value{Kind: Null})
	case ',', ':', ']', '}':
		return p.failf(ParseError, "unexpected %q", c)
	default:
		if isNumStart(c) {
			return p.scanNumber()
		} else if p.has(UnquotedStrings) && isBareStart(c) {
			return p.beginBare(false)
		}
	}
	return p.failf(ParseError, "unexpected %q", p.buf[p.pos])
}

// scanKey dispatches on the first byte of an object key.
func (p *Parser) scanKey() Kind {
	c := p.buf[p.pos]
	if c == '"' || (c == '\'' && p.has(SingleQuotes)) {
		return p.beginString(c, true)
	} else if p.has(UnquotedKeys) && isBareStart(c) {
		return p.beginBare(true)
	}
	return p.failf(ParseError, "expected object key, got %q", c)
}

func (p *Parser) pushTok(k tokKind, start int) {
	if p.ntok == maxTokens {
		panic("jsonpg: token stack overflow")
	}
	p.toks[p.ntok] = token{kind: k, start: start}
	p.ntok++
}

func (p *Parser) popTok() {
	if p.ntok > 0 {
		p.ntok--
	}
}

func (p *Parser) emit(k Kind) Kind {
	p.val.Kind = k
	return k
}

// fail records err as the terminal error of p.
func (p *Parser) fail(err error) Kind {
	e, ok := err.(*SyntaxError)
	if !ok {
		e = &SyntaxError{Code: FileReadError, Offset: p.pos, Err: err}
	}
	p.ntok = 0
	p.state = stError
	p.val = Value{Kind: Error, Err: e}
	return Error
}

func (p *Parser) failf(code Code, msg string, args ...any) Kind {
	return p.failAt(p.pos, code, msg, args...)
}

func (p *Parser) failAt(pos int, code Code, msg string, args ...any) Kind {
	return p.fail(&SyntaxError{Code: code, Offset: pos, Message: fmt.Sprintf(msg, args...)})
}
