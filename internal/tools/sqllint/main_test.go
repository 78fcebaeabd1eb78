package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGo(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestRunAcceptsMarkedQueries(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "q.go", "package q\n\nconst QOne = `--sql 0b6f2f2e-6d1c-4c55-9d0e-1f2a3b4c5d6e\nSELECT 1`\n\nconst QTwo = `--sql 7d1f1a9c-2b3e-4f5a-8b6c-9d0e1f2a3b4c\nDELETE FROM t`\n\nconst Label = \"plain text\"\n")

	var stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{dir}, &stderr), stderr.String())
}

func TestRunReportsMissingMarker(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "q.go", "package q\n\nconst QBad = `SELECT * FROM visits`\n")

	var stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{dir}, &stderr))
	assert.Contains(t, stderr.String(), "missing or invalid --sql <uuid> marker (QBad)")
}

func TestRunReportsDuplicateMarkersAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	marker := "--sql 0b6f2f2e-6d1c-4c55-9d0e-1f2a3b4c5d6e"
	writeGo(t, dir, "a.go", "package q\n\nconst QA = `"+marker+"\nSELECT 1`\n")
	writeGo(t, dir, "b.go", "package q\n\nconst QB = `"+marker+"\nSELECT 2`\n")

	var stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{dir}, &stderr))
	assert.Contains(t, stderr.String(), "marker already used by QA")
}

func TestRunRepositoryQueries(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"../../sqlinline"}, &stderr), stderr.String())
}
