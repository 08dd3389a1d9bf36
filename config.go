// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonpg

import (
	"strings"
	"sync"
)

// Flags is a set of optional extensions to the JSON grammar.
type Flags uint32

// Constants defining the valid Flags values.
const (
	Comments             Flags = 1 << iota // allow /* block */ and // line comments
	TrailingCommas                         // allow a comma before "]" or "}"
	SingleQuotes                           // allow 'single-quoted' strings
	UnquotedKeys                           // allow object keys without quotes
	UnquotedStrings                        // allow string values without quotes
	EscapeCharacters                       // allow any ASCII character after "\"
	OptionalCommas                         // allow values and members without separating commas
	IsObject                               // parse the input as the body of an object
	IsArray                                // parse the input as the body of an array
	ReplaceIllformedUTF8                   // replace invalid UTF-8 with U+FFFD

	lastFlag = ReplaceIllformedUTF8
)

var flagStr = [...]string{
	"comments", "trailing_commas", "single_quotes", "unquoted_keys",
	"unquoted_strings", "escape_characters", "optional_commas",
	"is_object", "is_array", "replace_illformed_utf8",
}

// Has reports whether all the flags in g are set in f.
func (f Flags) Has(g Flags) bool { return f&g == g }

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var ss []string
	for i, s := range flagStr {
		if f&(1<<i) != 0 {
			ss = append(ss, s)
		}
	}
	return strings.Join(ss, "|")
}

// normalize returns f with IsObject and IsArray both cleared if both are set.
// The two are mutually exclusive, and setting both is treated as neither.
func (f Flags) normalize() Flags {
	f &= lastFlag<<1 - 1
	if f.Has(IsObject | IsArray) {
		f &^= IsObject | IsArray
	}
	return f
}

// Built-in defaults for zero-valued Config fields.
const (
	DefaultStackSize  = 1024
	DefaultBufferSize = 4096
)

// Config carries the settings for a Parser. Zero-valued size fields are
// replaced by the built-in defaults; negative sizes are invalid.
type Config struct {
	// StackSize is the maximum nesting depth of arrays and objects.
	StackSize int

	// Flags enable extensions to the JSON grammar.
	Flags Flags

	// BufferSize is the initial size in bytes of the window used to read a
	// stream. The window grows if a single token does not fit.
	BufferSize int

	// MaxStringSize, if positive, limits the size of decoded string content
	// that must be copied out of the input. Exceeding the limit is reported
	// as an AllocError.
	MaxStringSize int
}

func (c Config) normalize() (Config, error) {
	if c.StackSize < 0 || c.BufferSize < 0 || c.MaxStringSize < 0 {
		return c, &SyntaxError{Code: ConfigError, Message: "negative size in configuration"}
	}
	if c.StackSize == 0 {
		c.StackSize = DefaultStackSize
	}
	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
	c.Flags = c.Flags.normalize()
	return c, nil
}

var defaults = struct {
	sync.RWMutex
	cfg Config
}{cfg: Config{StackSize: DefaultStackSize, BufferSize: DefaultBufferSize}}

// DefaultConfig returns a copy of the process-wide default configuration.
func DefaultConfig() Config {
	defaults.RLock()
	defer defaults.RUnlock()
	return defaults.cfg
}

// SetDefaultConfig replaces the process-wide default configuration, used by
// New when no explicit configuration is given. It reports an error without
// changing the defaults if c is invalid.
func SetDefaultConfig(c Config) error {
	nc, err := c.normalize()
	if err != nil {
		return err
	}
	defaults.Lock()
	defer defaults.Unlock()
	defaults.cfg = nc
	return nil
}
