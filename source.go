// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonpg

import (
	"errors"
	"io"
)

// A ReadFunc reads up to len(buf) bytes of input into buf. It returns the
// number of bytes read, 0 at the end of input, or a negative value if the
// input could not be read.
type ReadFunc func(buf []byte) int

// errReadFunc is reported when a ReadFunc returns a negative value.
var errReadFunc = errors.New("read function failed")

// Read implements io.Reader for a ReadFunc.
func (f ReadFunc) Read(buf []byte) (int, error) {
	n := f(buf)
	if n < 0 {
		return 0, errReadFunc
	} else if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// fill reads from r into dst until dst is full or r is exhausted. A short
// read followed by end of input is reported as io.EOF.
func fill(r io.Reader, dst []byte) (int, error) {
	n, err := io.ReadFull(r, dst)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

// refill discards the input before the first byte that must be retained,
// moving the rest to the front of the window, and reads more input from the
// source. It reports whether any new bytes were added.
//
// The retained region starts at the oldest open token, or at the cursor if
// no token is open. If the retained region fills the whole window, the
// window is enlarged.
func (p *Parser) refill() (bool, error) {
	if p.eof {
		return false, nil
	}
	keep := p.pos
	if p.ntok > 0 {
		keep = p.toks[0].start
	}
	if keep > 0 {
		n := copy(p.buf, p.buf[keep:p.end])
		p.pos -= keep
		p.str.run -= keep
		for i := range p.ntok {
			p.toks[i].start -= keep
		}
		p.end = n
		p.seen += int64(keep)
	}
	if p.end == len(p.buf) {
		nb := make([]byte, max(2*len(p.buf), 16))
		copy(nb, p.buf[:p.end])
		p.buf, p.own = nb, nb
	}

	n, err := fill(p.src, p.buf[p.end:])
	p.end += n
	if err == io.EOF {
		p.eof = true
	} else if err != nil {
		p.eof = true
		return false, &SyntaxError{Code: FileReadError, Offset: p.pos, Err: err}
	}
	return n > 0, nil
}

// ensure reports whether at least n bytes are available at the cursor,
// reading more input if necessary.
func (p *Parser) ensure(n int) (bool, error) {
	for p.end-p.pos < n {
		ok, err := p.refill()
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
