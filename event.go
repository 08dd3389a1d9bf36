// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonpg

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind is the type of a parser event.
type Kind byte

// Constants defining the valid Kind values.
const (
	None        Kind = iota // no event has been produced
	Null                    // constant: null
	Bool                    // constant: true or false
	Integer                 // number: integer with no fraction or exponent
	Real                    // number with fraction and/or exponent
	String                  // string value
	Key                     // object member key
	BeginArray              // left square bracket "["
	EndArray                // right square bracket "]"
	BeginObject             // left brace "{"
	EndObject               // right brace "}"
	Error                   // parse error (terminal)
	EOF                     // end of input (terminal)
)

var kindStr = [...]string{
	None:        "none",
	Null:        "null",
	Bool:        "bool",
	Integer:     "integer",
	Real:        "real",
	String:      "string",
	Key:         "key",
	BeginArray:  "begin array",
	EndArray:    "end array",
	BeginObject: "begin object",
	EndObject:   "end object",
	Error:       "error",
	EOF:         "end of input",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return "invalid event"
	}
	return kindStr[k]
}

// A Value is the payload of the most recent parser event. Only the fields
// relevant to Kind are set.
type Value struct {
	Kind Kind

	Bool bool    // for Bool
	Int  int64   // for Integer
	Real float64 // for Real

	// For String and Key, the decoded content. The slice is only valid until
	// the next call to Next. Complete is false if the content continues in the
	// following event of the same kind.
	Bytes    []byte
	Complete bool

	Err *SyntaxError // for Error
}

// String renders v in a compact human-readable form.
func (v Value) String() string {
	switch v.Kind {
	case Bool:
		return fmt.Sprintf("Bool(%v)", v.Bool)
	case Integer:
		return fmt.Sprintf("Integer(%d)", v.Int)
	case Real:
		return fmt.Sprintf("Real(%s)", strconv.FormatFloat(v.Real, 'g', -1, 64))
	case String, Key:
		tag := "String"
		if v.Kind == Key {
			tag = "Key"
		}
		if !v.Complete {
			return fmt.Sprintf("%s(%q...)", tag, v.Bytes)
		}
		return fmt.Sprintf("%s(%q)", tag, v.Bytes)
	case Error:
		return fmt.Sprintf("Error(%v@%d)", v.Err.Code, v.Err.Offset)
	}
	return v.Kind.String()
}

// Code classifies a parse error.
type Code byte

// Constants defining the valid Code values.
const (
	ConfigError    Code = iota + 1 // invalid configuration
	AllocError                     // storage limit exceeded
	ParseError                     // grammar violation
	NumberError                    // invalid or out-of-range number
	UTF8Error                      // ill-formed UTF-8 or invalid code point
	StackOverflow                  // nesting exceeds the configured depth
	StackUnderflow                 // close bracket without matching open
	FileReadError                  // the input could not be read
)

var codeStr = [...]string{
	ConfigError:    "config error",
	AllocError:     "allocation error",
	ParseError:     "parse error",
	NumberError:    "number error",
	UTF8Error:      "UTF-8 error",
	StackOverflow:  "stack overflow",
	StackUnderflow: "stack underflow",
	FileReadError:  "file read error",
}

func (c Code) String() string {
	if c == 0 || int(c) >= len(codeStr) {
		return "unknown error"
	}
	return codeStr[c]
}

// Error satisfies the error interface, so that a Code can be used as a target
// for errors.Is.
func (c Code) Error() string { return c.String() }

// SyntaxError is the concrete type of errors reported by a Parser.
type SyntaxError struct {
	Code    Code
	Offset  int // byte offset within the current input window
	Message string

	Err error // underlying error, if any
}

// Error satisfies the error interface.
func (e *SyntaxError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		return fmt.Sprintf("%v at offset %d", e.Code, e.Offset)
	}
	return fmt.Sprintf("%v at offset %d: %s", e.Code, e.Offset, msg)
}

// Unwrap supports error wrapping.
func (e *SyntaxError) Unwrap() error { return e.Err }

// Is reports whether target is the Code of e.
func (e *SyntaxError) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

// ErrAbort may be returned by a Visitor callback to stop parsing.
var ErrAbort = errors.New("parse aborted")
