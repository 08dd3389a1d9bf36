// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInput = `{"a": [1, 2.5, "x"], "b": {"c": null, "d": true}}`

func writeFile(t *testing.T, fsys afero.Fs, name string, data []byte) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, name, data, 0644))
}

func gzipData(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func zstdData(t *testing.T, data string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll([]byte(data), nil)
}

func runCmd(t *testing.T, fsys afero.Fs, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(fsys, args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestCompact(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "in.json", []byte(testInput))
	writeFile(t, fsys, "in.json.gz", gzipData(t, testInput))
	writeFile(t, fsys, "in.json.zst", zstdData(t, testInput))

	const want = `{"a":[1,2.5,"x"],"b":{"c":null,"d":true}}` + "\n"
	for _, name := range []string{"in.json", "in.json.gz", "in.json.zst"} {
		t.Run(name, func(t *testing.T) {
			out, _, err := runCmd(t, fsys, "", name)
			require.NoError(t, err)
			assert.Equal(t, want, out)
		})
	}

	t.Run("Stdin", func(t *testing.T) {
		out, _, err := runCmd(t, fsys, testInput)
		require.NoError(t, err)
		assert.Equal(t, want, out)
	})

	t.Run("Multiple", func(t *testing.T) {
		out, _, err := runCmd(t, fsys, "[]", "in.json", "-")
		require.NoError(t, err)
		assert.Equal(t, want+"[]\n", out)
	})
}

func TestPretty(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "in.json", []byte(`{"a":[1],"b":{}}`))

	out, _, err := runCmd(t, fsys, "", "--pretty", "in.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1\n  ],\n  \"b\": {}\n}\n", out)

	out, _, err = runCmd(t, fsys, "", "--indent", "\t", "in.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"a\": [\n\t\t1\n\t],\n\t\"b\": {}\n}\n", out)
}

func TestFlags(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "relaxed.json", []byte("// settings\n{name: 'x', list: [1, 2,],}"))
	writeFile(t, fsys, "body.txt", []byte(`1, 2, 3`))

	_, errText, err := runCmd(t, fsys, "", "relaxed.json")
	require.Error(t, err)
	assert.Contains(t, errText, "parse failed")
	assert.Contains(t, errText, "input=relaxed.json")

	out, _, err := runCmd(t, fsys, "", "--relaxed", "relaxed.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x","list":[1,2]}`+"\n", out)

	out, _, err = runCmd(t, fsys, "", "--comments", "--trailing-commas",
		"--unquoted-keys", "--single-quotes", "relaxed.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x","list":[1,2]}`+"\n", out)

	out, _, err = runCmd(t, fsys, "", "--array", "body.txt")
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]\n", out)
}

func TestCheck(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "good.json", []byte(testInput))
	writeFile(t, fsys, "bad.json", []byte(`[1, 2`))

	out, errText, err := runCmd(t, fsys, "", "--check", "--stats", "--log-level=info", "good.json")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errText, "values=8")
	assert.Contains(t, errText, "depth=2")
	assert.Contains(t, errText, `bytes="49 B"`)

	_, errText, err = runCmd(t, fsys, "", "--check", "good.json", "bad.json", "missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 inputs failed")
	assert.Contains(t, errText, "input=bad.json")
	assert.Contains(t, errText, "input=missing.json")
	assert.NotContains(t, errText, "input=good.json")
}

func TestSettings(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "deep.json", []byte(`[[[[1]]]]`))

	_, _, err := runCmd(t, fsys, "", "--stack-size=3", "deep.json")
	require.Error(t, err)

	out, _, err := runCmd(t, fsys, "", "--stack-size=4", "--buffer-size=2", "deep.json")
	require.NoError(t, err)
	assert.Equal(t, "[[[[1]]]]\n", out)

	_, _, err = runCmd(t, fsys, "", "--buffer-size=-1", "deep.json")
	require.ErrorContains(t, err, "invalid settings")

	_, _, err = runCmd(t, fsys, "", "--log-level=loud", "deep.json")
	require.ErrorContains(t, err, "invalid log level")

	_, _, err = runCmd(t, fsys, "", "--no-such-flag")
	require.Error(t, err)
}

func TestErrorLocation(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "bad.json", []byte("{\n  \"a\": 1,\n  \"b\": ]\n}"))

	_, errText, err := runCmd(t, fsys, "", "bad.json")
	require.Error(t, err)
	assert.Contains(t, errText, "at 3:7")
}

// shortWriter accepts n writes, then fails.
type shortWriter struct {
	n   int
	buf bytes.Buffer
}

func (w *shortWriter) Write(data []byte) (int, error) {
	if w.n == 0 {
		return 0, errors.New("disk full")
	}
	w.n--
	return w.buf.Write(data)
}

func TestWriteError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "in.json", []byte(testInput))

	// The value is written, but the newline following it is not.
	w := &shortWriter{n: 1}
	var stderr bytes.Buffer
	err := run(fsys, []string{"in.json"}, strings.NewReader(""), w, &stderr)
	require.ErrorContains(t, err, "1 of 1 inputs failed")
	assert.Contains(t, stderr.String(), "write failed")
	assert.Contains(t, stderr.String(), "disk full")
	assert.Equal(t, `{"a":[1,2.5,"x"],"b":{"c":null,"d":true}}`, w.buf.String())
}
