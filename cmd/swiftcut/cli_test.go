package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleg578/swiftcut"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg, shouldExit, err := parseArgs(nil, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, shouldExit)

		assert.Equal(t, swiftcut.Fields, cfg.opts.Kind)
		assert.Equal(t, "1:", cfg.opts.Bounds.String())
		assert.Equal(t, []byte("\t"), cfg.opts.Delimiter)
		assert.Equal(t, byte('\n'), cfg.opts.Terminator)
		assert.Nil(t, cfg.opts.Replace)
		assert.Nil(t, cfg.opts.Fallback)
		assert.Equal(t, "warn", cfg.logLevel)
		assert.Equal(t, "text", cfg.logFormat)
		assert.Empty(t, cfg.file)
	})

	t.Run("everyFlag", func(t *testing.T) {
		t.Parallel()

		args := []string{
			"--fields", "1,-1", "--delimiter", `\t`, "--join", "--complement",
			"--only-delimited", "--zero-terminated", "--json", "--trim", "both",
			"--replace-delimiter", "", "--fallback-oob", "none", "input.txt",
		}
		cfg, _, err := parseArgs(args, &bytes.Buffer{})
		require.NoError(t, err)

		o := cfg.opts
		assert.Equal(t, "1,-1", o.Bounds.String())
		assert.Equal(t, []byte("\t"), o.Delimiter)
		assert.True(t, o.Join)
		assert.True(t, o.Complement)
		assert.True(t, o.OnlyDelimited)
		assert.True(t, o.JSON)
		assert.Equal(t, byte(0), o.Terminator)
		assert.Equal(t, swiftcut.TrimBoth, o.Trim)
		assert.NotNil(t, o.Replace, "an empty replacement is still set")
		assert.Empty(t, o.Replace)
		assert.Equal(t, []byte("none"), o.Fallback)
		assert.Equal(t, "input.txt", cfg.file)
	})

	t.Run("shorthands", func(t *testing.T) {
		t.Parallel()

		cfg, _, err := parseArgs([]string{"-c", "2:", "-r", "|"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, swiftcut.Characters, cfg.opts.Kind)
		assert.Equal(t, []byte("|"), cfg.opts.Replace)

		cfg, _, err = parseArgs([]string{"-e", `\s+`, "-f", "2"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.NotNil(t, cfg.opts.Pattern)
		assert.Equal(t, `\s+`, cfg.opts.Pattern.String())

		cfg, _, err = parseArgs([]string{"-d", " ", "-g", "-f", "2"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.True(t, cfg.opts.Greedy)

		cfg, _, err = parseArgs([]string{"-d", " ", "-p", "-t", "l"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.True(t, cfg.opts.Compress)
		assert.Equal(t, swiftcut.TrimLeft, cfg.opts.Trim)
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		out := &bytes.Buffer{}
		cfg, shouldExit, err := parseArgs([]string{"--help"}, out)
		require.NoError(t, err)
		require.True(t, shouldExit)
		require.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
		assert.Contains(t, out.String(), "--fallback-oob")
	})
}

func TestParseArgsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "twoKinds", args: []string{"-f", "1", "-b", "2"}, wantMsg: "only one of"},
		{name: "twoFiles", args: []string{"a", "b"}, wantMsg: "only one input file"},
		{name: "badBounds", args: []string{"-f", "0"}, wantMsg: "not a valid field"},
		{name: "emptyFields", args: []string{"-f", ""}, wantMsg: "empty field"},
		{name: "emptyLongBytes", args: []string{"--bytes="}, wantMsg: "empty field"},
		{name: "twoKindsOneEmpty", args: []string{"-f", "1", "-c", ""}, wantMsg: "only one of"},
		{name: "badRegex", args: []string{"-e", "("}, wantMsg: "invalid --regex"},
		{name: "badTrim", args: []string{"-t", "x"}, wantMsg: "invalid trim mode"},
		{name: "regexGreedy", args: []string{"-e", ",", "-g"}, wantMsg: "greedy"},
		{name: "bytesJSON", args: []string{"-b", "1", "--json"}, wantMsg: "json"},
		{name: "badLogLevel", args: []string{"--log-level", "loud"}, wantMsg: "invalid log-level"},
		{name: "badLogFormat", args: []string{"--log-format", "xml"}, wantMsg: "invalid log-format"},
		{name: "unknownFlag", args: []string{"--nope"}, wantMsg: "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, shouldExit, err := parseArgs(tt.args, &bytes.Buffer{})
			require.Nil(t, cfg)
			require.False(t, shouldExit)

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "expected an *ExitError, got %v", err)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tt.wantMsg)
		})
	}
}

func TestUnescapeArg(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\t", unescapeArg(`\t`))
	assert.Equal(t, "a\nb", unescapeArg(`a\nb`))
	assert.Equal(t, "\x00", unescapeArg(`\0`))
	assert.Equal(t, `\`, unescapeArg(`\\`))
	assert.Equal(t, "plain", unescapeArg("plain"))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	logger := newLogger("info", "json", out)
	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"msg":"shown"`)
}
