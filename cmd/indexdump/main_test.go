package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"indexkit/codec/fixed32"
	"indexkit/diskindex"
	"indexkit/dispatch"
)

func writeFixtureIndex(t *testing.T) (vocab, blob, keys, desc string) {
	t.Helper()
	dir := t.TempDir()

	artifacts, err := diskindex.Build([]diskindex.TermPostings{
		{Term: "go", DocIDs: []uint32{1, 2}, Impacts: []uint8{4, 2}},
	}, []string{"doc-1", "doc-2"}, fixed32.Codec{}, dispatch.DZero)
	require.NoError(t, err)

	vocab = filepath.Join(dir, "vocab.bin")
	blob = filepath.Join(dir, "blob.bin")
	keys = filepath.Join(dir, "keys.bin")
	desc = filepath.Join(dir, "desc.txt")

	require.NoError(t, os.WriteFile(vocab, artifacts.Vocabulary, 0o644))
	require.NoError(t, os.WriteFile(blob, artifacts.PostingsBlob, 0o644))
	require.NoError(t, os.WriteFile(keys, artifacts.PrimaryKeys, 0o644))
	require.NoError(t, os.WriteFile(desc, artifacts.Descriptor, 0o644))
	return
}

func TestRunHelpExitsOne(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--help"}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Empty(t, stdout.String())
}

func TestRunMissingArgsExitsOne(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"one", "two"}, &stdout, &stderr)
	require.Equal(t, 1, code)
}

func TestRunDefaultFormat(t *testing.T) {
	vocab, blob, keys, desc := writeFixtureIndex(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{vocab, blob, keys, desc}, &stdout, &stderr)
	require.Equal(t, 0, code)

	out := stdout.String()
	require.Contains(t, out, "POSTINGS LISTS")
	require.Contains(t, out, "go <1,4><2,2>")
	require.Contains(t, out, "PRIMARY KEY LIST")
	require.Contains(t, out, "doc-1")
	require.Contains(t, out, "doc-2")
}

func TestRunATIREFormat(t *testing.T) {
	vocab, blob, keys, desc := writeFixtureIndex(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-A", vocab, blob, keys, desc}, &stdout, &stderr)
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "go 2\n")
	require.NotContains(t, stdout.String(), "PRIMARY KEY LIST")
}

func TestRunBadIndexExitsOne(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.bin")

	var stdout, stderr bytes.Buffer
	code := run([]string{missing, missing, missing, missing}, &stdout, &stderr)
	require.Equal(t, 1, code)
}
