// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonpg

import (
	"bytes"
	"fmt"
)

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// Locate reports the line and column of the given byte offset in data, for
// example the Offset of a *SyntaxError reported while parsing data in memory.
// Offsets outside data are clamped to its bounds.
func Locate(data []byte, offset int) LineCol {
	offset = min(max(offset, 0), len(data))
	head := data[:offset]
	return LineCol{
		Line:   bytes.Count(head, []byte("\n")) + 1,
		Column: offset - (bytes.LastIndexByte(head, '\n') + 1),
	}
}
