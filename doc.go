// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package jsonpg implements an incremental JSON parser and generator.
//
// # Parsing
//
// A Parser consumes JSON text from a byte slice, a file, or any io.Reader, and
// reports its structure as a sequence of events, one at a time. Construct a
// parser with New, attach it to an input, and call Next until it reports EOF
// or Error:
//
//	p, err := jsonpg.New(nil) // use the default configuration
//	if err != nil {
//	   log.Fatalf("New: %v", err)
//	}
//	p.ResetReader(input)
//	for k := p.Next(); k != jsonpg.EOF; k = p.Next() {
//	   if k == jsonpg.Error {
//	      log.Fatalf("Parse failed: %v", p.Value().Err)
//	   }
//	   log.Printf("Event: %v", p.Value())
//	}
//
// Once a parser reports EOF or Error, every subsequent call to Next reports
// the same event until the parser is reset for new input.
//
// The content of a String or Key event is only valid until the next call to
// Next. When reading from a stream, a string that spans more than one read of
// the input may be delivered in several pieces: every piece but the last has
// Complete set to false, and the caller must join them to recover the full
// text. Input parsed from a byte slice is never split.
//
// # Visitors
//
// The Parse methods drive a parser to completion and report each event to a
// Visitor, a table of optional callbacks:
//
//	err := p.ParseString(`{"a": [1, 2]}`, &jsonpg.Visitor{
//	   Integer: func(z int64) error { fmt.Println(z); return nil },
//	})
//
// A callback may return ErrAbort (or any other error) to stop parsing. Parse
// returns nil when the input was fully consumed, or an error of concrete type
// *jsonpg.SyntaxError when the input is invalid.
//
// # Extensions
//
// By default the parser accepts only strict JSON. The Flags in a Config enable
// common relaxations: comments, trailing and optional commas, single-quoted
// and unquoted strings, and implicit outer objects or arrays.
//
// # Generating
//
// A Generator writes JSON text for a sequence of calls mirroring the parser's
// events (BeginObject, Key, Integer, EndObject, and so on), either compactly
// or with indentation. The Visitor method of a Generator returns a Visitor
// that regenerates the input of a parser.
package jsonpg
