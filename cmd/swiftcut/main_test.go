package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, strings.NewReader(""), args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}

	// --- Act ---
	err := run(&bytes.Buffer{}, &bytes.Buffer{}, strings.NewReader(""), args)

	// --- Assert ---
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected an *ExitError, got %v", err)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_Stdin(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-d", "-", "-f", "1,3", "-j"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, strings.NewReader("a-b-c\nd-e-f\n"), args)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "a-c\nd-f\n", out.String())
}

func TestRun_OutOfBounds(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-d", "-", "-f", "2,3"}

	// --- Act ---
	err := run(&bytes.Buffer{}, &bytes.Buffer{}, strings.NewReader("a-b\n"), args)

	// --- Assert ---
	require.EqualError(t, err, "Out of bounds: 2")
}

func TestRun_File(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "input.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("hello\nworld\n"), 0600), "failed to set up test file")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "fields", args: []string{"-d", "o", "-f", "-1"}, want: "\nrld\n"},
		{name: "bytes", args: []string{"-b", "2:4"}, want: "ell"},
		{name: "lines", args: []string{"-l", "-1"}, want: "world\n"},
		{name: "characters", args: []string{"-c", "1,-1"}, want: "ho\nwd\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			out := &bytes.Buffer{}
			err := run(out, &bytes.Buffer{}, strings.NewReader("ignored"), append(tt.args, filePath))

			// --- Assert ---
			require.NoError(t, err)
			require.Equal(t, tt.want, out.String())
		})
	}
}

func TestRun_EmptyFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	filePath := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(filePath, nil, 0600))
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, strings.NewReader(""), []string{"-l", "1=none", filePath})

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "", out.String())
}

func TestRun_MissingFile(t *testing.T) {
	t.Parallel()

	// --- Act ---
	err := run(&bytes.Buffer{}, &bytes.Buffer{}, strings.NewReader(""), []string{filepath.Join(t.TempDir(), "nope")})

	// --- Assert ---
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRun_DebugLogging(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-d", "-", "-f", "-1", "--log-level", "debug", "--log-format", "json"}
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(&bytes.Buffer{}, logs, strings.NewReader("a-b\n"), args)

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, logs.String(), `"msg":"cutting with the buffered engine"`)
	require.Contains(t, logs.String(), `"strategy":"reverse-indexed"`)
}
