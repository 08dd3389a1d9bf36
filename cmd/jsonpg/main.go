// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Program jsonpg validates and reformats JSON text.
//
// Usage:
//
//	jsonpg [flags] [file ...]
//
// Each named file is parsed and written to stdout in compact form, or
// indented if --indent or --pretty is set. With no files, or for a file
// named "-", input is read from stdin. Files ending in ".gz" or ".zst" are
// decompressed while they are read.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creachadair/jsonpg"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(afero.NewOsFs(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "jsonpg: %v\n", err)
		}
		os.Exit(1)
	}
}

// settings are the command-line options.
type settings struct {
	flags    map[jsonpg.Flags]*bool
	relaxed  bool
	indent   string
	pretty   bool
	check    bool
	stats    bool
	logLevel string
	cfg      jsonpg.Config
}

var flagNames = []struct {
	flag       jsonpg.Flags
	name, help string
}{
	{jsonpg.Comments, "comments", "allow block and line comments"},
	{jsonpg.TrailingCommas, "trailing-commas", "allow a comma after the last element"},
	{jsonpg.SingleQuotes, "single-quotes", "allow single-quoted strings"},
	{jsonpg.UnquotedKeys, "unquoted-keys", "allow object keys without quotes"},
	{jsonpg.UnquotedStrings, "unquoted-strings", "allow string values without quotes"},
	{jsonpg.EscapeCharacters, "escape-characters", "allow any ASCII character to be escaped"},
	{jsonpg.OptionalCommas, "optional-commas", "allow elements without separating commas"},
	{jsonpg.IsObject, "object", "parse the input as the body of an object"},
	{jsonpg.IsArray, "array", "parse the input as the body of an array"},
	{jsonpg.ReplaceIllformedUTF8, "replace-utf8", "replace invalid UTF-8 with U+FFFD"},
}

// relaxedFlags are the extensions enabled by --relaxed.
const relaxedFlags = jsonpg.Comments | jsonpg.TrailingCommas | jsonpg.SingleQuotes |
	jsonpg.UnquotedKeys | jsonpg.EscapeCharacters

func newFlagSet(s *settings, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("jsonpg", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: jsonpg [flags] [file ...]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	s.flags = make(map[jsonpg.Flags]*bool)
	for _, f := range flagNames {
		s.flags[f.flag] = fs.Bool(f.name, false, f.help)
	}
	fs.BoolVarP(&s.relaxed, "relaxed", "r", false, "enable comments, trailing commas, single quotes, unquoted keys, and escapes")
	fs.StringVar(&s.indent, "indent", "", "indent output with this string")
	fs.BoolVarP(&s.pretty, "pretty", "p", false, "indent output with two spaces")
	fs.BoolVarP(&s.check, "check", "c", false, "validate input without writing output")
	fs.BoolVar(&s.stats, "stats", false, "log statistics for each input")
	fs.StringVar(&s.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.IntVar(&s.cfg.BufferSize, "buffer-size", 0, "input buffer size in bytes (0 for default)")
	fs.IntVar(&s.cfg.StackSize, "stack-size", 0, "maximum nesting depth (0 for default)")
	fs.IntVar(&s.cfg.MaxStringSize, "max-string", 0, "maximum decoded string size (0 for no limit)")
	return fs
}

func (s *settings) config() *jsonpg.Config {
	cfg := s.cfg
	if s.relaxed {
		cfg.Flags |= relaxedFlags
	}
	for f, ok := range s.flags {
		if *ok {
			cfg.Flags |= f
		}
	}
	return &cfg
}

func newLogger(w io.Writer, lvl string) (log.Logger, error) {
	var opt level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn", "":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("invalid log level %q", lvl)
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	return level.NewFilter(logger, opt), nil
}

func run(fsys afero.Fs, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var s settings
	fs := newFlagSet(&s, stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	logger, err := newLogger(stderr, s.logLevel)
	if err != nil {
		return err
	}
	if s.pretty && s.indent == "" {
		s.indent = "  "
	}

	p, err := jsonpg.New(s.config())
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	level.Debug(logger).Log("msg", "parser configured", "flags", p.Config().Flags,
		"buffer", humanize.IBytes(uint64(p.Config().BufferSize)))

	var out io.Writer = stdout
	if s.check {
		out = io.Discard
	}
	g := jsonpg.NewGenerator(out, s.indent)

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	var nfail int
	for _, name := range inputs {
		flog := log.With(logger, "input", name)
		g.Reset(out)
		st, err := processInput(fsys, name, stdin, p, g)
		if err != nil {
			level.Error(flog).Log("msg", "parse failed", "err", err)
			nfail++
			continue
		}
		if s.stats {
			level.Info(flog).Log("msg", "parsed",
				"bytes", humanize.Bytes(uint64(st.bytes)), "values", humanize.Comma(st.values),
				"depth", st.depth)
		}
		if !s.check {
			if _, err := io.WriteString(out, "\n"); err != nil {
				level.Error(flog).Log("msg", "write failed", "err", err)
				nfail++
			}
		}
	}
	if nfail > 0 {
		return fmt.Errorf("%d of %d inputs failed", nfail, len(inputs))
	}
	return nil
}
