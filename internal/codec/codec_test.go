// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package codec_test

import (
	"testing"

	"github.com/creachadair/jsonpg/internal/codec"
	"github.com/google/go-cmp/cmp"
)

func TestAppendRune(t *testing.T) {
	tests := []struct {
		cp   rune
		want []byte
		ok   bool
	}{
		{'A', []byte("A"), true},
		{0x7F, []byte{0x7F}, true},
		{0x80, []byte{0xC2, 0x80}, true},
		{0x7FF, []byte{0xDF, 0xBF}, true},
		{0x800, []byte{0xE0, 0xA0, 0x80}, true},
		{0xFFFD, []byte{0xEF, 0xBF, 0xBD}, true},
		{0x1F600, []byte{0xF0, 0x9F, 0x98, 0x80}, true},
		{0x10FFFF, []byte{0xF4, 0x8F, 0xBF, 0xBF}, true},

		{0xD800, nil, false},
		{0xDBFF, nil, false},
		{0xDFFF, nil, false},
		{0x110000, nil, false},
		{-1, nil, false},
	}
	for _, tc := range tests {
		got, ok := codec.AppendRune(nil, tc.cp)
		if ok != tc.ok {
			t.Errorf("AppendRune(%U): got ok=%v, want %v", tc.cp, ok, tc.ok)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("AppendRune(%U): (-want, +got)\n%s", tc.cp, diff)
		}
	}
}

func TestSequence(t *testing.T) {
	tests := []struct {
		input  string
		wantN  int
		wantSt codec.Status
	}{
		{"", 0, codec.Short},
		{"a", 1, codec.Valid},
		{"éxyz", 2, codec.Valid},
		{"€", 3, codec.Valid},
		{"\U0001F600", 4, codec.Valid},

		// Truncated sequences need more input.
		{"\xc3", 0, codec.Short},
		{"\xe2\x82", 0, codec.Short},
		{"\xf0\x9f\x98", 0, codec.Short},

		// Ill-formed sequences.
		{"\xc0\xaf", 1, codec.Invalid},         // overlong "/"
		{"\xe0\x80\xaf", 1, codec.Invalid},     // overlong "/"
		{"\xf0\x80\x80\xaf", 1, codec.Invalid}, // overlong "/"
		{"\xed\xa0\x80", 1, codec.Invalid},     // surrogate U+D800
		{"\xf4\x90\x80\x80", 1, codec.Invalid}, // U+110000
		{"\x80", 1, codec.Invalid},             // lone continuation
		{"\xc3x", 1, codec.Invalid},            // bad continuation
		{"\xff", 1, codec.Invalid},
	}
	for _, tc := range tests {
		n, st := codec.Sequence([]byte(tc.input))
		if n != tc.wantN || st != tc.wantSt {
			t.Errorf("Sequence(%q): got (%d, %v), want (%d, %v)", tc.input, n, st, tc.wantN, tc.wantSt)
		}
	}
}

func TestSurrogates(t *testing.T) {
	if !codec.IsHighSurrogate(0xD83D) || codec.IsHighSurrogate(0xDE00) {
		t.Error("IsHighSurrogate: wrong classification")
	}
	if !codec.IsLowSurrogate(0xDE00) || codec.IsLowSurrogate(0xD83D) {
		t.Error("IsLowSurrogate: wrong classification")
	}
	if got := codec.CombineSurrogates(0xD83D, 0xDE00); got != 0x1F600 {
		t.Errorf("CombineSurrogates: got %U, want U+1F600", got)
	}
	if got := codec.CombineSurrogates(0xDBFF, 0xDFFF); got != 0x10FFFF {
		t.Errorf("CombineSurrogates: got %U, want U+10FFFF", got)
	}
}

func TestBOMLength(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"\xef\xbb", 0},
		{"\xef\xbb\xbf", 3},
		{"\xef\xbb\xbf{}", 3},
		{"{}", 0},
	}
	for _, tc := range tests {
		if got := codec.BOMLength([]byte(tc.input)); got != tc.want {
			t.Errorf("BOMLength(%q): got %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestParseHex4(t *testing.T) {
	tests := []struct {
		input string
		want  rune
		ok    bool
	}{
		{"0041", 'A', true},
		{"d83D", 0xD83D, true},
		{"FFFF", 0xFFFF, true},
		{"00e9xx", 0xE9, true},
		{"004", 0, false},
		{"00g1", 0, false},
	}
	for _, tc := range tests {
		got, ok := codec.ParseHex4([]byte(tc.input))
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseHex4(%q): got (%U, %v), want (%U, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
