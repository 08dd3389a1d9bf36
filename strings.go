// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonpg

import (
	"errors"
	"unicode/utf8"

	"github.com/creachadair/jsonpg/internal/codec"
	"github.com/creachadair/jsonpg/internal/scratch"
)

// beginString starts scanning a string delimited by quote. The cursor is on
// the opening quote.
func (p *Parser) beginString(quote byte, key bool) Kind {
	p.pos++
	p.str = stringScan{quote: quote, key: key}
	return p.startChunk()
}

// beginBare starts scanning an unquoted key or string value at the cursor.
func (p *Parser) beginBare(key bool) Kind {
	p.str = stringScan{key: key}
	return p.startChunk()
}

// startChunk begins a new piece of string content at the cursor, either at
// the start of a string or after an incomplete piece was reported.
func (p *Parser) startChunk() Kind {
	p.scratch.Reset()
	p.str.run, p.str.copied = p.pos, false
	p.ntok = 0
	p.pushTok(tokString, p.pos)
	return p.scanString()
}

// chunkEmpty reports whether the current piece of string content is empty.
func (p *Parser) chunkEmpty() bool { return p.pos == p.str.run && !p.str.copied }

// scanString scans string content up to the closing quote (or terminator of
// an unquoted string). Plain content is returned as a slice of the window;
// content containing escapes or replacements is copied to the scratch buffer.
func (p *Parser) scanString() Kind {
	s := &p.str
	for {
		// Skip runs of plain bytes.
		for p.pos < p.end {
			c := p.buf[p.pos]
			if c < ' ' || c >= utf8.RuneSelf || c == s.quote || (c == '\\' && s.quote != 0) {
				break
			} else if s.quote == 0 && (p.isBareTerm(c) || (c == '/' && p.has(Comments))) {
				break
			}
			p.pos++
		}
		if p.pos == p.end {
			if k, done := p.stringBoundary(); done {
				return k
			}
			continue
		}

		c := p.buf[p.pos]
		switch {
		case s.quote != 0 && c == s.quote:
			return p.emitChunk(true, 1)

		case s.quote == 0 && p.isBareTerm(c):
			return p.emitChunk(true, 0)

		case s.quote == 0 && c == '/':
			// A comment ends an unquoted string; a lone slash does not.
			if p.pos+1 == p.end && !p.eof {
				k, more, done := p.needMore()
				if done {
					return k
				} else if more {
					continue
				}
			}
			if p.pos+1 < p.end && isCommentStart(p.buf[p.pos+1]) {
				return p.emitChunk(true, 0)
			}
			p.pos++

		case c == '\\':
			if k, done := p.scanEscape(); done {
				return k
			}

		case c < ' ':
			return p.failf(ParseError, "unescaped control %q in string", c)

		default:
			if k, done := p.scanUTF8(); done {
				return k
			}
		}
	}
}

func (p *Parser) isBareTerm(c byte) bool {
	if p.str.key {
		return isKeyTerm(c)
	}
	return isValueTerm(c)
}

// stringBoundary handles reaching the end of the window inside a string.  It
// reports done == true if an event was produced, otherwise scanning resumes
// with more input.
func (p *Parser) stringBoundary() (Kind, bool) {
	if !p.eof && !p.chunkEmpty() {
		// Report what we have so far; the rest follows in another event.
		return p.emitChunk(false, 0), true
	}
	ok, err := p.refill()
	if err != nil {
		return p.fail(err), true
	} else if ok {
		return 0, false
	}
	if p.str.quote == 0 {
		return p.emitChunk(true, 0), true // unquoted strings end at EOF
	}
	return p.failf(ParseError, "unterminated string"), true
}

// needMore handles a multi-byte sequence (escape or UTF-8) that is cut off by
// the end of the window. If the current piece is non-empty it is reported,
// and the sequence is scanned again at the start of the next piece.
// Otherwise, more input is read. It reports whether more input was obtained;
// if done is true an event was produced.
func (p *Parser) needMore() (k Kind, more, done bool) {
	if !p.chunkEmpty() {
		return p.emitChunk(false, 0), false, true
	}
	ok, err := p.refill()
	if err != nil {
		return p.fail(err), false, true
	}
	return 0, ok, false
}

// emitChunk reports the current piece of string content, then advances the
// cursor by skip bytes. If complete is false, the string continues in the
// next event.
func (p *Parser) emitChunk(complete bool, skip int) Kind {
	s := &p.str
	out := p.buf[s.run:p.pos]
	if s.copied {
		if err := p.scratch.Append(out); err != nil {
			return p.allocFail(err)
		}
		out = p.scratch.Bytes()
	}
	kind := String
	if s.key {
		kind = Key
	}
	p.val = Value{Kind: kind, Bytes: out, Complete: complete}
	p.pos += skip
	p.ntok = 0
	switch {
	case !complete:
		p.state = stStringNext
	case s.key:
		p.state = stNameSep
	default:
		p.afterValue()
	}
	return kind
}

// appendDecoded switches the current piece to the scratch buffer, copying
// the pending plain content followed by dec.
func (p *Parser) appendDecoded(dec []byte) error {
	s := &p.str
	if err := p.scratch.Append(p.buf[s.run:p.pos]); err != nil {
		return err
	}
	if err := p.scratch.Append(dec); err != nil {
		return err
	}
	s.copied = true
	return nil
}

// scanEscape decodes the escape sequence at the cursor. The sequence is only
// consumed once all its bytes are in the window: 2 for a simple escape, 6 for
// a Unicode escape, and 12 for a surrogate pair.
func (p *Parser) scanEscape() (Kind, bool) {
	p.pushTok(tokEscape, p.pos)
	for {
		avail, need := p.end-p.pos, 2
		if avail >= 2 && p.buf[p.pos+1] == 'u' {
			need = 6
			if r, ok := codec.ParseHex4(p.buf[p.pos+2 : p.end]); ok && codec.IsHighSurrogate(r) {
				need = 12
			}
		}
		if avail >= need || p.eof {
			break
		}
		k, more, done := p.needMore()
		if done {
			return k, true
		} else if !more {
			break
		}
	}
	defer p.popTok()

	avail := p.end - p.pos
	if avail < 2 {
		return p.failf(ParseError, "incomplete escape sequence"), true
	}
	var dec [4]byte
	out, n := dec[:0], 2
	switch e := p.buf[p.pos+1]; e {
	case '"', '\\', '/':
		out = append(out, e)
	case 'b':
		out = append(out, '\b')
	case 'f':
		out = append(out, '\f')
	case 'n':
		out = append(out, '\n')
	case 'r':
		out = append(out, '\r')
	case 't':
		out = append(out, '\t')
	case 'u':
		r, n6, k := p.scanUnicode()
		if k != None {
			return k, true
		}
		var ok bool
		if out, ok = codec.AppendRune(out, r); !ok {
			return p.failf(UTF8Error, "invalid code point %04X", r), true
		}
		n = n6
	default:
		if e == '\'' && p.has(SingleQuotes) {
			out = append(out, e)
		} else if p.has(EscapeCharacters) && e < utf8.RuneSelf {
			out = append(out, e)
		} else {
			return p.failf(ParseError, "invalid %q after escape", e), true
		}
	}
	if err := p.appendDecoded(out); err != nil {
		return p.allocFail(err), true
	}
	p.pos += n
	p.str.run = p.pos
	return 0, false
}

// scanUnicode decodes a \uXXXX escape, or a pair of them encoding a UTF-16
// surrogate pair, at the cursor. It returns the code point and the length of
// the escape; if k != None, an error was reported.
func (p *Parser) scanUnicode() (r rune, n int, k Kind) {
	p.pushTok(tokUnicode, p.pos)
	defer p.popTok()

	r, ok := codec.ParseHex4(p.buf[p.pos+2 : p.end])
	if !ok {
		return 0, 0, p.failf(ParseError, "invalid Unicode escape")
	}
	switch {
	case codec.IsHighSurrogate(r):
		if b := p.buf[p.pos:p.end]; len(b) >= 12 && b[6] == '\\' && b[7] == 'u' {
			if lo, ok := codec.ParseHex4(b[8:12]); ok && codec.IsLowSurrogate(lo) {
				return codec.CombineSurrogates(r, lo), 12, None
			}
		}
		return 0, 0, p.failf(UTF8Error, "unpaired surrogate %04X", r)
	case codec.IsLowSurrogate(r):
		return 0, 0, p.failf(UTF8Error, "unpaired surrogate %04X", r)
	}
	return r, 6, None
}

// scanUTF8 checks the multi-byte UTF-8 sequence at the cursor. Ill-formed
// sequences are an error unless replacement is enabled.
func (p *Parser) scanUTF8() (Kind, bool) {
	for {
		n, st := codec.Sequence(p.buf[p.pos:p.end])
		switch st {
		case codec.Valid:
			p.pos += n
			return 0, false

		case codec.Short:
			if !p.eof {
				k, more, done := p.needMore()
				if done {
					return k, true
				} else if more || !p.eof {
					continue
				}
			}
			n = 1 // truncated at end of input
		}

		// Reaching here, the sequence is ill-formed.
		if !p.has(ReplaceIllformedUTF8) {
			return p.failf(UTF8Error, "invalid UTF-8 byte %#02x", p.buf[p.pos]), true
		}
		if err := p.appendDecoded(codec.Replacement); err != nil {
			return p.fail(&SyntaxError{Code: UTF8Error, Offset: p.pos, Message: "no room for replacement", Err: err}), true
		}
		p.pos += n
		p.str.run = p.pos
		return 0, false
	}
}

// allocFail reports a failure to store decoded string content.
func (p *Parser) allocFail(err error) Kind {
	if errors.Is(err, scratch.ErrTooLarge) {
		return p.fail(&SyntaxError{Code: AllocError, Offset: p.pos, Message: "string too large", Err: err})
	}
	return p.fail(&SyntaxError{Code: AllocError, Offset: p.pos, Err: err})
}
