// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonpg

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// ParsePath parses the contents of the named file and delivers its events to
// v. If possible the file is mapped into memory and parsed in place, so
// String and Key events refer directly to the mapped contents. Otherwise the
// file is read as a stream.
//
// A failure to open the file is reported as a *SyntaxError with code
// FileReadError.
func (p *Parser) ParsePath(path string, v *Visitor) error {
	f, err := os.Open(path)
	if err != nil {
		return &SyntaxError{Code: FileReadError, Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return &SyntaxError{Code: FileReadError, Err: err}
	} else if fi.Size() == 0 || !fi.Mode().IsRegular() {
		// Empty files cannot be mapped, and non-regular files need not have
		// a meaningful size.
		return p.ParseFile(f, v)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return p.ParseFile(f, v)
	}
	defer func() {
		p.Reset(nil) // drop references to the mapping before it goes away
		m.Unmap()
	}()
	return p.Parse(m, v)
}
