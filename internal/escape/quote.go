// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting of JSON string content for output.
package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// AppendQuote appends src to dst as a double-quoted JSON string, escaping
// characters that may not appear literally. Ill-formed UTF-8 in src is
// written as the escaped replacement rune.
func AppendQuote(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	for src.Len() != 0 {
		// Copy runs of plain ASCII in one step.
		i := 0
		for i < src.Len() {
			c := src.At(i)
			if c < ' ' || c == '"' || c == '\\' || c >= utf8.RuneSelf {
				break
			}
			i++
		}
		dst = mem.Append(dst, src.SliceTo(i))
		src = src.SliceFrom(i)
		if src.Len() == 0 {
			break
		}

		r, n := mem.DecodeRune(src)
		if r < utf8.RuneSelf {
			if r < ' ' {
				if b := controlEsc[r]; b != 0 {
					dst = append(dst, '\\', b)
				} else {
					dst = append(dst, '\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
				}
			} else {
				dst = append(dst, '\\', byte(r)) // '"' or '\\'
			}
			src = src.SliceFrom(n)
			continue
		}

		switch r {
		case utf8.RuneError:
			dst = append(dst, `\ufffd`...)
		case 0x2028: // line separator
			dst = append(dst, `\u2028`...)
		case 0x2029: // paragraph separator
			dst = append(dst, `\u2029`...)
		default:
			dst = mem.Append(dst, src.SliceTo(n))
		}
		src = src.SliceFrom(max(n, 1))
	}
	return append(dst, '"')
}

// Quote returns src encoded as a double-quoted JSON string.
func Quote(src mem.RO) []byte { return AppendQuote(make([]byte, 0, src.Len()+2), src) }
