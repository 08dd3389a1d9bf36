// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

//go:build unix

package jsonpg

import (
	"io"

	"golang.org/x/sys/unix"
)

// ParseFD parses the input read from the open file descriptor fd, and
// delivers its events to v. It does not close fd.
func (p *Parser) ParseFD(fd uintptr, v *Visitor) error {
	return p.ParseReader(fdReader(fd), v)
}

// fdReader reads directly from a file descriptor.
type fdReader int

func (r fdReader) Read(buf []byte) (int, error) {
	for {
		n, err := unix.Read(int(r), buf)
		if err == unix.EINTR {
			continue
		} else if err != nil {
			return 0, err
		} else if n == 0 && len(buf) != 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}
