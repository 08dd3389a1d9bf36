// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonpg

import (
	"fmt"
	"math"
	"strconv"

	"go4.org/mem"
)

// skipSpace advances the cursor past whitespace and, if enabled, comments.
// On return the cursor is at a non-space byte, or at the end of input.
func (p *Parser) skipSpace() error {
	for {
		for p.pos < p.end && isSpace(p.buf[p.pos]) {
			p.pos++
		}
		if p.pos == p.end {
			if ok, err := p.refill(); err != nil || !ok {
				return err
			}
			continue
		}
		if p.buf[p.pos] != '/' || !p.has(Comments) {
			return nil
		}
		if err := p.skipComment(); err != nil {
			return err
		}
	}
}

// skipComment skips a comment starting at the cursor.
func (p *Parser) skipComment() error {
	if ok, err := p.ensure(2); err != nil {
		return err
	} else if !ok {
		return p.errorf(ParseError, "incomplete comment")
	}
	switch p.buf[p.pos+1] {
	case '/': // line comment to LF
		p.pos += 2
		for {
			for p.pos < p.end && p.buf[p.pos] != '\n' {
				p.pos++
			}
			if p.pos < p.end {
				p.pos++
				return nil
			}
			if ok, err := p.refill(); err != nil || !ok {
				return err // a line comment may end at EOF
			}
		}

	case '*': // block comment
		p.pos += 2
		for {
			for p.pos < p.end && p.buf[p.pos] != '*' {
				p.pos++
			}
			if p.pos < p.end {
				// Check whether we have "*/", which would end the comment.
				if ok, err := p.ensure(2); err != nil {
					return err
				} else if ok && p.buf[p.pos+1] == '/' {
					p.pos += 2
					return nil
				} else if ok {
					p.pos++
					continue
				}
			}
			if ok, err := p.refill(); err != nil {
				return err
			} else if !ok {
				return p.errorf(ParseError, "unterminated block comment")
			}
		}

	default:
		p.pos++
		return p.errorf(ParseError, "invalid %q in comment", p.buf[p.pos])
	}
}

// scanConstant scans one of the constants true, false, or null, which must
// match lit exactly.
func (p *Parser) scanConstant(lit string, v Value) Kind {
	p.pushTok(tokScalar, p.pos)
	ok, err := p.ensure(len(lit))
	if err != nil {
		return p.fail(err)
	}
	p.popTok()
	if !ok || !mem.B(p.buf[p.pos:p.pos+len(lit)]).Equal(mem.S(lit)) {
		return p.failf(ParseError, "invalid constant, want %q", lit)
	}
	p.pos += len(lit)
	p.val = v
	p.afterValue()
	return p.emit(v.Kind)
}

// scanNumber scans a numeric value. Integers without a fraction or exponent
// are reported as Integer, all others as Real.
func (p *Parser) scanNumber() Kind {
	p.pushTok(tokScalar, p.pos)

	// Find the end of the run of bytes that may belong to the number.
	n := 0
	for {
		for p.pos+n < p.end && isNumByte(p.buf[p.pos+n]) {
			n++
		}
		if p.pos+n < p.end {
			break
		}
		if ok, err := p.refill(); err != nil {
			return p.fail(err)
		} else if !ok {
			break
		}
	}
	m, isReal, ok := numberPrefix(p.buf[p.pos : p.pos+n])

	if p.has(UnquotedStrings) {
		// Text that is not exactly a number is an unquoted string.
		end, err := p.valueEndsAt(n)
		if err != nil {
			return p.fail(err)
		} else if !ok || m < n || !end {
			p.popTok()
			return p.beginBare(false)
		}
	}
	p.popTok()
	text := p.buf[p.pos : p.pos+n]
	if !ok {
		return p.failf(NumberError, "invalid number %q", text)
	} else if m < n {
		// For example, 01 or 1.5.2
		return p.failAt(p.pos+m, ParseError, "unexpected %q after number", text[m])
	}

	num := string(text)
	if isReal {
		v, err := strconv.ParseFloat(num, 64)
		if err != nil || math.IsInf(v, 0) {
			return p.failf(NumberError, "number %s out of range", num)
		}
		p.val = Value{Kind: Real, Real: v}
	} else {
		v, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return p.failf(NumberError, "integer %s out of range", num)
		}
		p.val = Value{Kind: Integer, Int: v}
	}
	p.pos += n
	p.afterValue()
	return p.emit(p.val.Kind)
}

// valueEndsAt reports whether an unquoted value ends n bytes after the
// cursor, at a terminator, a comment, or the end of input.
func (p *Parser) valueEndsAt(n int) (bool, error) {
	if p.pos+n >= p.end {
		return true, nil
	} else if c := p.buf[p.pos+n]; isValueTerm(c) {
		return true, nil
	} else if c != '/' || !p.has(Comments) {
		return false, nil
	}
	if ok, err := p.ensure(n + 2); err != nil || !ok {
		return false, err
	}
	return isCommentStart(p.buf[p.pos+n+1]), nil
}

// numberPrefix reports the length of the longest prefix of text that is a
// JSON number, and whether that number has a fraction or exponent. It
// reports ok == false if text does not begin with a complete number.
//
// A leading zero ends the integer part, so that 0 is OK but in 01 only the
// prefix 0 is a number.
func numberPrefix(text []byte) (n int, isReal, ok bool) {
	digits := func() int {
		i := n
		for n < len(text) && isDigit(text[n]) {
			n++
		}
		return n - i
	}

	if n < len(text) && text[n] == '-' {
		n++
	}
	if n == len(text) || !isDigit(text[n]) {
		return n, false, false // no digits in the integer part
	}
	if text[n] == '0' {
		n++
	} else {
		digits()
	}

	// If a decimal point follows, consume a fractional part.
	if n < len(text) && text[n] == '.' {
		n++
		if digits() == 0 {
			return n, true, false // no digits after decimal point
		}
		isReal = true
	}

	// If an exponent follows, consume it.
	if n < len(text) && (text[n] == 'e' || text[n] == 'E') {
		n++
		if n < len(text) && (text[n] == '+' || text[n] == '-') {
			n++
		}
		if digits() == 0 {
			return n, true, false // missing exponent digits
		}
		isReal = true
	}
	return n, isReal, true
}

func (p *Parser) errorf(code Code, msg string, args ...any) *SyntaxError {
	return &SyntaxError{Code: code, Offset: p.pos, Message: fmt.Sprintf(msg, args...)}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\r' || c == '\n' || c == '\t'
}

func isDigit(c byte) bool    { return '0' <= c && c <= '9' }
func isNumStart(c byte) bool { return c == '-' || isDigit(c) }

func isNumByte(c byte) bool {
	return isDigit(c) || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}

// isValueTerm reports whether c ends an unquoted value.
func isValueTerm(c byte) bool {
	return isSpace(c) || c == ',' || c == ']' || c == '}'
}

// isKeyTerm reports whether c ends an unquoted key.
func isKeyTerm(c byte) bool { return isValueTerm(c) || c == ':' }

// isCommentStart reports whether c, following a slash, begins a comment.
func isCommentStart(c byte) bool { return c == '/' || c == '*' }

// isBareStart reports whether c may begin an unquoted key or string.
func isBareStart(c byte) bool {
	switch c {
	case ',', ':', '[', ']', '{', '}', '"', '\'':
		return false
	}
	return c > ' ' && c != 0x7F
}
