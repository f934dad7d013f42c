package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gookit/color"
	"github.com/mattn/go-isatty"

	"github.com/oleg578/swiftcut"
)

// main is the entrypoint for the swiftcut program.
func main() {
	color.Enable = isTerminal(os.Stdout) && isTerminal(os.Stderr)

	if err := run(os.Stdout, os.Stderr, os.Stdin, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*ExitError); ok {
			fmt.Fprintln(os.Stderr, color.Red.Sprint("swiftcut:"), exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, color.Red.Sprint("Error:"), err)
		os.Exit(1)
	}
}

// run encapsulates the program logic for easier testing and error handling.
func run(stdout, stderr io.Writer, stdin io.Reader, args []string) error {
	cfg, shouldExit, err := parseArgs(args, stdout)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := newLogger(cfg.logLevel, cfg.logFormat, stderr)
	cfg.opts.Logger = logger

	if cfg.file == "" || cfg.file == "-" {
		return swiftcut.Cut(stdout, stdin, cfg.opts)
	}

	f, err := os.Open(cfg.file)
	if err != nil {
		return err
	}
	defer f.Close()

	// Bytes and lines need the whole input anyway; map it instead of copying.
	if k := cfg.opts.Kind; k == swiftcut.Bytes || k == swiftcut.Lines {
		data, unmap, err := mapFile(f)
		if err == nil {
			defer unmap()
			logger.Debug("input mapped into memory", slog.String("file", cfg.file), slog.Int("size", len(data)))
			c, err := swiftcut.NewCutter(cfg.opts)
			if err != nil {
				return err
			}
			return c.CutBuffer(stdout, data)
		}
		logger.Debug("cannot map input, reading it instead", slog.String("file", cfg.file), slog.Any("error", err))
	}
	return swiftcut.Cut(stdout, f, cfg.opts)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
