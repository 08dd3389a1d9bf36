// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonpg

import (
	"errors"

	"github.com/creachadair/jsonpg/internal/escape"
	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.Quote(mem.S(src))) }

// AppendQuote appends the JSON encoding of src as a string value to dst.
func AppendQuote(dst, src []byte) []byte { return escape.AppendQuote(dst, mem.B(src)) }

// errNotString is reported by Unquote for input that is not a single string.
var errNotString = errors.New("input is not a single string value")

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
// Unquote reports an error of concrete type *SyntaxError if src is not a valid
// string.
func Unquote(src []byte) ([]byte, error) {
	p, err := New(&Config{StackSize: 1})
	if err != nil {
		return nil, err
	}
	p.Reset(src)
	var out []byte
	switch p.Next() {
	case String:
		out = append([]byte{}, p.Value().Bytes...)
	case Error:
		return nil, p.Value().Err
	default:
		return nil, &SyntaxError{Code: ParseError, Message: errNotString.Error(), Err: errNotString}
	}
	if p.Next() == Error {
		return nil, p.Value().Err
	}
	return out, nil
}
