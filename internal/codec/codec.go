// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package codec implements UTF-8 validation and encoding helpers for the
// JSON scanner.
package codec

import (
	"bytes"
	"unicode/utf8"
)

// Replacement is the UTF-8 encoding of the Unicode replacement character.
var Replacement = []byte("\uFFFD")

var bom = []byte{0xEF, 0xBB, 0xBF}

// BOMLength reports the length of the UTF-8 byte-order mark at the front of
// b, either 0 or 3.
func BOMLength(b []byte) int {
	if bytes.HasPrefix(b, bom) {
		return len(bom)
	}
	return 0
}

// AppendRune appends the UTF-8 encoding of cp to dst. It reports false
// without modifying dst if cp is a surrogate or outside the Unicode range.
func AppendRune(dst []byte, cp rune) ([]byte, bool) {
	if !utf8.ValidRune(cp) {
		return dst, false
	}
	return utf8.AppendRune(dst, cp), true
}

// Status describes the result of checking a multi-byte sequence.
type Status byte

const (
	Valid   Status = iota // a complete, well-formed sequence
	Short                 // a well-formed prefix, more input is needed
	Invalid               // an ill-formed sequence
)

// Sequence checks the UTF-8 sequence at the front of b. If the sequence is
// valid, it returns its length and Valid. If b ends before the sequence is
// complete it returns Short. Overlong encodings, surrogate code points, and
// values beyond U+10FFFF are Invalid; in that case n is the number of bytes
// to skip, which is always 1.
func Sequence(b []byte) (n int, st Status) {
	if len(b) == 0 {
		return 0, Short
	} else if b[0] < utf8.RuneSelf {
		return 1, Valid
	} else if !utf8.FullRune(b) {
		return 0, Short
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size == 1 {
		return 1, Invalid
	}
	return size, Valid
}

// Surrogate range boundaries for UTF-16 pairs.
const (
	surr1    = 0xD800
	surr2    = 0xDC00
	surr3    = 0xE000
	surrSelf = 0x10000
)

// IsHighSurrogate reports whether r is a valid first element of a UTF-16
// surrogate pair.
func IsHighSurrogate(r rune) bool { return surr1 <= r && r < surr2 }

// IsLowSurrogate reports whether r is a valid second element of a UTF-16
// surrogate pair.
func IsLowSurrogate(r rune) bool { return surr2 <= r && r < surr3 }

// CombineSurrogates returns the code point encoded by the surrogate pair
// (hi, lo). The caller must ensure hi and lo are high and low surrogates.
func CombineSurrogates(hi, lo rune) rune {
	return surrSelf + (hi&0x3FF)<<10 + (lo & 0x3FF)
}

// ParseHex4 decodes four hexadecimal digits from the front of b. It reports
// false if b is too short or contains a non-hex digit.
func ParseHex4(b []byte) (rune, bool) {
	if len(b) < 4 {
		return 0, false
	}
	var v rune
	for _, c := range b[:4] {
		v <<= 4
		switch {
		case '0' <= c && c <= '9':
			v += rune(c - '0')
		case 'a' <= c && c <= 'f':
			v += rune(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			v += rune(c - 'A' + 10)
		default:
			return 0, false
		}
	}
	return v, true
}
