// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonpg

import (
	"io"
	"os"
)

// A Visitor is a table of callbacks for parser events. A nil callback skips
// events of its kind. If a callback reports an error, parsing stops and that
// error is returned to the caller of Visit.
//
// The content passed to String and Key is only valid for the duration of the
// call. If complete is false, the content continues in the next call of the
// same callback.
type Visitor struct {
	Null    func() error
	Bool    func(bool) error
	Integer func(int64) error
	Real    func(float64) error
	String  func(text []byte, complete bool) error
	Key     func(text []byte, complete bool) error

	BeginArray  func() error
	EndArray    func() error
	BeginObject func() error
	EndObject   func() error

	// Error is called with the terminal parse error, if any. Its result
	// replaces the error returned by Visit.
	Error func(*SyntaxError) error
}

// Visit delivers the remaining events of p to v until the end of input, an
// error, or a callback reports an error. It returns nil at the end of input.
// A parse error is returned as a value of concrete type *SyntaxError.
func (p *Parser) Visit(v *Visitor) error {
	if v == nil {
		v = new(Visitor)
	}
	for {
		var err error
		switch k := p.Next(); k {
		case EOF:
			return nil
		case Error:
			perr := p.val.Err
			if v.Error != nil {
				return v.Error(perr)
			}
			return perr
		case Null:
			err = call0(v.Null)
		case Bool:
			if v.Bool != nil {
				err = v.Bool(p.val.Bool)
			}
		case Integer:
			if v.Integer != nil {
				err = v.Integer(p.val.Int)
			}
		case Real:
			if v.Real != nil {
				err = v.Real(p.val.Real)
			}
		case String:
			if v.String != nil {
				err = v.String(p.val.Bytes, p.val.Complete)
			}
		case Key:
			if v.Key != nil {
				err = v.Key(p.val.Bytes, p.val.Complete)
			}
		case BeginArray:
			err = call0(v.BeginArray)
		case EndArray:
			err = call0(v.EndArray)
		case BeginObject:
			err = call0(v.BeginObject)
		case EndObject:
			err = call0(v.EndObject)
		}
		if err != nil {
			return err
		}
	}
}

func call0(f func() error) error {
	if f == nil {
		return nil
	}
	return f()
}

// Parse parses data and delivers its events to v.
func (p *Parser) Parse(data []byte, v *Visitor) error {
	p.Reset(data)
	return p.Visit(v)
}

// ParseString parses s and delivers its events to v. As with Parse, the
// input is complete in memory, so strings are never split and error offsets
// are offsets in s.
func (p *Parser) ParseString(s string, v *Visitor) error { return p.Parse([]byte(s), v) }

// ParseReader parses the input from r and delivers its events to v.
func (p *Parser) ParseReader(r io.Reader, v *Visitor) error {
	p.ResetReader(r)
	return p.Visit(v)
}

// ParseFile parses the contents of f from its current offset, and delivers
// its events to v. It does not close f.
func (p *Parser) ParseFile(f *os.File, v *Visitor) error { return p.ParseReader(f, v) }

// ParseReadFunc parses the input returned by successive calls to read, and
// delivers its events to v.
func (p *Parser) ParseReadFunc(read ReadFunc, v *Visitor) error { return p.ParseReader(read, v) }
