// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

//go:build !unix

package jsonpg

import "os"

// ParseFD parses the input read from the open file descriptor fd, and
// delivers its events to v. It does not close fd.
func (p *Parser) ParseFD(fd uintptr, v *Visitor) error {
	f := os.NewFile(fd, "input")
	if f == nil {
		return &SyntaxError{Code: ConfigError, Message: "invalid file descriptor"}
	}
	return p.ParseReader(f, v)
}
