// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonpg_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/creachadair/jsonpg"
	"github.com/google/go-cmp/cmp"
)

const visitInput = `{"name": "x\ty", "tags": ["a", "b"], "n": -5, "r": 0.5, "ok": true, "nil": null}`

var visitWant = []string{
	bo, key("name"), str("x\ty"), key("tags"), ba, str("a"), str("b"), ea,
	key("n"), num(-5), key("r"), "Real(0.5)", key("ok"), "Bool(true)", key("nil"), "null", eo,
}

// recorder returns a Visitor that renders the events it receives into *out.
func recorder(out *[]string) *jsonpg.Visitor {
	var pend []byte
	chunk := func(kind jsonpg.Kind) func([]byte, bool) error {
		return func(text []byte, complete bool) error {
			pend = append(pend, text...)
			if complete {
				*out = append(*out, jsonpg.Value{Kind: kind, Bytes: pend, Complete: true}.String())
				pend = nil
			}
			return nil
		}
	}
	add := func(s string) func() error {
		return func() error { *out = append(*out, s); return nil }
	}
	return &jsonpg.Visitor{
		Null: add("null"),
		Bool: func(v bool) error {
			*out = append(*out, jsonpg.Value{Kind: jsonpg.Bool, Bool: v}.String())
			return nil
		},
		Integer: func(v int64) error { *out = append(*out, num(v)); return nil },
		Real: func(v float64) error {
			*out = append(*out, jsonpg.Value{Kind: jsonpg.Real, Real: v}.String())
			return nil
		},
		String:      chunk(jsonpg.String),
		Key:         chunk(jsonpg.Key),
		BeginArray:  add(ba),
		EndArray:    add(ea),
		BeginObject: add(bo),
		EndObject:   add(eo),
	}
}

func TestVisit(t *testing.T) {
	p := mustNew(t, &jsonpg.Config{BufferSize: 5})

	dir := t.TempDir()
	path := filepath.Join(dir, "input.json")
	if err := os.WriteFile(path, []byte(visitInput), 0600); err != nil {
		t.Fatalf("Write input: %v", err)
	}
	openFile := func(t *testing.T) *os.File {
		t.Helper()
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		t.Cleanup(func() { f.Close() })
		return f
	}

	tests := []struct {
		name  string
		parse func(*jsonpg.Visitor) error
	}{
		{"Parse", func(v *jsonpg.Visitor) error { return p.Parse([]byte(visitInput), v) }},
		{"ParseString", func(v *jsonpg.Visitor) error { return p.ParseString(visitInput, v) }},
		{"ParseReader", func(v *jsonpg.Visitor) error {
			return p.ParseReader(strings.NewReader(visitInput), v)
		}},
		{"ParseFile", func(v *jsonpg.Visitor) error { return p.ParseFile(openFile(t), v) }},
		{"ParseFD", func(v *jsonpg.Visitor) error { return p.ParseFD(openFile(t).Fd(), v) }},
		{"ParsePath", func(v *jsonpg.Visitor) error { return p.ParsePath(path, v) }},
		{"ParseReadFunc", func(v *jsonpg.Visitor) error {
			rest := visitInput
			return p.ParseReadFunc(func(buf []byte) int {
				n := copy(buf[:min(len(buf), 3)], rest)
				rest = rest[n:]
				return n
			}, v)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			if err := tc.parse(recorder(&got)); err != nil {
				t.Fatalf("Parse: unexpected error: %v", err)
			}
			if diff := cmp.Diff(visitWant, got); diff != "" {
				t.Errorf("Events (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestVisitErrors(t *testing.T) {
	p := mustNew(t, nil)

	t.Run("NilVisitor", func(t *testing.T) {
		if err := p.Parse([]byte(visitInput), nil); err != nil {
			t.Errorf("Parse: unexpected error: %v", err)
		}
	})

	t.Run("ParseError", func(t *testing.T) {
		err := p.Parse([]byte(`[1, 2,]`), new(jsonpg.Visitor))
		var perr *jsonpg.SyntaxError
		if !errors.As(err, &perr) {
			t.Fatalf("Parse: got %v, want *jsonpg.SyntaxError", err)
		}
		if perr.Code != jsonpg.ParseError || perr.Offset != 6 {
			t.Errorf("Parse: got %v@%d, want %v@6", perr.Code, perr.Offset, jsonpg.ParseError)
		}
	})

	t.Run("ErrorCallback", func(t *testing.T) {
		var seen *jsonpg.SyntaxError
		replaced := errors.New("replaced")
		err := p.Parse([]byte(`{"a"}`), &jsonpg.Visitor{
			Error: func(e *jsonpg.SyntaxError) error { seen = e; return replaced },
		})
		if err != replaced {
			t.Errorf("Parse: got %v, want %v", err, replaced)
		}
		if seen == nil || seen.Code != jsonpg.ParseError {
			t.Errorf("Error callback: got %v, want parse error", seen)
		}
	})

	t.Run("Abort", func(t *testing.T) {
		var n int
		err := p.Parse([]byte(`[1, 2, 3, 4]`), &jsonpg.Visitor{
			Integer: func(z int64) error {
				n++
				if z == 2 {
					return jsonpg.ErrAbort
				}
				return nil
			},
		})
		if !errors.Is(err, jsonpg.ErrAbort) {
			t.Errorf("Parse: got %v, want %v", err, jsonpg.ErrAbort)
		}
		if n != 2 {
			t.Errorf("Parse: got %d calls, want 2", n)
		}
	})

	t.Run("ReadFunc", func(t *testing.T) {
		err := p.ParseReadFunc(func([]byte) int { return -1 }, nil)
		if !errors.Is(err, jsonpg.FileReadError) {
			t.Errorf("ParseReadFunc: got %v, want %v", err, jsonpg.FileReadError)
		}
	})

	t.Run("MissingPath", func(t *testing.T) {
		err := p.ParsePath(filepath.Join(t.TempDir(), "nonesuch.json"), nil)
		if !errors.Is(err, jsonpg.FileReadError) || !errors.Is(err, os.ErrNotExist) {
			t.Errorf("ParsePath: got %v, want missing file error", err)
		}
	})

	t.Run("EmptyPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.json")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatalf("Write: %v", err)
		}
		err := p.ParsePath(path, nil)
		if !errors.Is(err, jsonpg.ParseError) {
			t.Errorf("ParsePath: got %v, want %v", err, jsonpg.ParseError)
		}
	})
}

// A string is parsed in memory: its values are never split, and error offsets
// are offsets in the string.
func TestParseString(t *testing.T) {
	p := mustNew(t, nil)

	long := strings.Repeat("abcde", 1000)
	var chunks int
	var got []byte
	err := p.ParseString(`"`+long+`"`, &jsonpg.Visitor{
		String: func(text []byte, complete bool) error {
			chunks++
			got = append(got, text...)
			if !complete {
				t.Error("String: got incomplete value")
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("ParseString: unexpected error: %v", err)
	}
	if chunks != 1 || string(got) != long {
		t.Errorf("ParseString: got %d chunks, %d bytes; want 1, %d", chunks, len(got), len(long))
	}

	err = p.ParseString(strings.Repeat(" ", 5000)+"x", nil)
	var perr *jsonpg.SyntaxError
	if !errors.As(err, &perr) {
		t.Fatalf("ParseString: got %v, want *jsonpg.SyntaxError", err)
	}
	if perr.Code != jsonpg.ParseError || perr.Offset != 5000 {
		t.Errorf("ParseString: got %v@%d, want %v@5000", perr.Code, perr.Offset, jsonpg.ParseError)
	}
}
