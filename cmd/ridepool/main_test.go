// README: CLI tests for stdin/stdout flow, file flags and error exit codes.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sharedTrip = "2 1 10 5 5 0.5 2\n1 0 0 0 0 10\n2 1 0 0 0 10\n"

func TestRun_StdinToStdout(t *testing.T) {
	t.Setenv("RIDEPOOL_LOG", "")
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(sharedTrip), &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "10.00 10.00 2.00 4 0.00 0.00 0.00 0.00 0.00 10.00 0.00 10.00\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	outPath := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(inPath, []byte(sharedTrip), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-in", inPath, "-out", outPath, "-stats"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "10.00 10.00 2.00 4 0.00 0.00 0.00 0.00 0.00 10.00 0.00 10.00\n", string(got))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "rides=1 pooled_rides=1")
}

func TestRun_InvalidInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader("2 -1 10 5 5 0.5 1\n1 0 0 0 0 1\n"), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.True(t, strings.HasPrefix(stderr.String(), "simulation error: "))
	assert.Contains(t, stderr.String(), "speed")
}

func TestRun_MissingInputFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-in", filepath.Join(t.TempDir(), "nope.txt")}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "simulation error:")
}

func TestRun_UnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"-bogus"}, strings.NewReader(""), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "-bogus")
	assert.Empty(t, stdout.String())
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"-h"}, strings.NewReader(""), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "-sort")
}
