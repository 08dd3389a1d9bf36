// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/creachadair/jsonpg"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
)

// openInput opens the named input for reading, decompressing it if its name
// has a known compression suffix. The name "-" refers to stdin.
func openInput(fsys afero.Fs, name string, stdin io.Reader) (io.ReadCloser, error) {
	var rc io.ReadCloser
	if name == "-" {
		rc = io.NopCloser(stdin)
	} else {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, err
		}
		rc = f
	}

	switch filepath.Ext(name) {
	case ".gz":
		zr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return stackCloser{zr, rc}, nil
	case ".zst":
		zr, err := zstd.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return stackCloser{zr.IOReadCloser(), rc}, nil
	}
	return rc, nil
}

// stackCloser reads from a decompressor, and closes both it and the
// underlying input.
type stackCloser struct {
	io.ReadCloser
	under io.Closer
}

func (s stackCloser) Close() error {
	err := s.ReadCloser.Close()
	if uerr := s.under.Close(); err == nil {
		err = uerr
	}
	return err
}

// inputStats summarize a parsed input.
type inputStats struct {
	bytes  int64 // bytes of (decompressed) input consumed
	values int64 // number of values, including arrays and objects
	depth  int   // maximum nesting depth
}

// compressed reports whether name has a known compression suffix.
func compressed(name string) bool {
	switch filepath.Ext(name) {
	case ".gz", ".zst":
		return true
	}
	return false
}

// processInput parses the named input, writing its events to g. Plain files
// are read into memory and parsed in place, and parse errors are reported
// with their line and column. Other inputs are streamed.
func processInput(fsys afero.Fs, name string, stdin io.Reader, p *jsonpg.Parser, g *jsonpg.Generator) (inputStats, error) {
	var st inputStats
	v := countValues(g.Visitor(), p, &st)

	if name != "-" && !compressed(name) {
		data, err := afero.ReadFile(fsys, name)
		if err != nil {
			return st, err
		}
		if err := p.Parse(data, v); err != nil {
			var perr *jsonpg.SyntaxError
			if errors.As(err, &perr) {
				return st, fmt.Errorf("at %v: %w", jsonpg.Locate(data, perr.Offset), err)
			}
			return st, err
		}
	} else {
		rc, err := openInput(fsys, name, stdin)
		if err != nil {
			return st, err
		}
		defer rc.Close()
		if err := p.ParseReader(rc, v); err != nil {
			return st, err
		}
	}
	st.bytes = p.Consumed()
	return st, g.Flush()
}

// countValues wraps the callbacks of v to update st.
func countValues(v *jsonpg.Visitor, p *jsonpg.Parser, st *inputStats) *jsonpg.Visitor {
	count := func() {
		st.values++
		st.depth = max(st.depth, p.Depth())
	}
	out := *v
	out.Null = func() error { count(); return v.Null() }
	out.Bool = func(b bool) error { count(); return v.Bool(b) }
	out.Integer = func(z int64) error { count(); return v.Integer(z) }
	out.Real = func(f float64) error { count(); return v.Real(f) }
	out.String = func(text []byte, complete bool) error {
		if complete {
			count()
		}
		return v.String(text, complete)
	}
	out.BeginArray = func() error { count(); return v.BeginArray() }
	out.BeginObject = func() error { count(); return v.BeginObject() }
	return &out
}
