package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/oleg578/swiftcut"
)

// ExitError carries the exit code a failure should end the process with.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// config is everything the command line decides.
type config struct {
	opts      swiftcut.Options
	file      string
	logLevel  string
	logFormat string
}

// optionalBytes is a flag value that remembers whether it was set at all,
// so that an explicitly empty value differs from no value.
type optionalBytes struct {
	val []byte
}

func (o *optionalBytes) String() string {
	if o == nil || o.val == nil {
		return ""
	}
	return string(o.val)
}

func (o *optionalBytes) Set(s string) error {
	o.val = []byte(unescapeArg(s))
	return nil
}

// parseArgs processes command-line arguments. It returns the configuration,
// whether the program should exit cleanly (help), or an *ExitError.
func parseArgs(args []string, output io.Writer) (*config, bool, error) {
	fs := flag.NewFlagSet("swiftcut", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() { printHelp(output) }

	var (
		fields, bytesArg, chars, lines string
		delimiter, regex, trim         string
		greedy, compress, join         bool
		complement, onlyDelim, zero    bool
		jsonOut                        bool
		replace, fallback              optionalBytes
		cfg                            = &config{}
	)

	strVar := func(p *string, long, short, value, usage string) {
		fs.StringVar(p, long, value, usage)
		if short != "" {
			fs.StringVar(p, short, value, usage+" (shorthand)")
		}
	}
	boolVar := func(p *bool, long, short, usage string) {
		fs.BoolVar(p, long, false, usage)
		if short != "" {
			fs.BoolVar(p, short, false, usage+" (shorthand)")
		}
	}

	strVar(&fields, "fields", "f", "", "Fields to keep, like 1:3 or 3,2 or 1: or 3,-2.")
	strVar(&bytesArg, "bytes", "b", "", "Same as --fields, but it keeps bytes of the whole input.")
	strVar(&chars, "characters", "c", "", "Same as --fields, but it keeps characters.")
	strVar(&lines, "lines", "l", "", "Same as --fields, but it keeps lines of the whole input.")
	strVar(&delimiter, "delimiter", "d", "\t", "Delimiter used by --fields to cut the text.")
	strVar(&regex, "regex", "e", "", "Use a regular expression as delimiter.")
	strVar(&trim, "trim", "t", "", "Trim the delimiter from the line: l, r or b.")
	boolVar(&greedy, "greedy-delimiter", "g", "Split fields using a greedy delimiter.")
	boolVar(&compress, "compress-delimiter", "p", "Collapse any sequence of delimiters.")
	boolVar(&join, "join", "j", "Write the delimiter between fields.")
	boolVar(&complement, "complement", "m", "Keep the opposite fields than the ones selected.")
	boolVar(&onlyDelim, "only-delimited", "s", "Do not print lines not containing delimiters.")
	boolVar(&zero, "zero-terminated", "z", "Line delimiter is NUL, not newline.")
	boolVar(&jsonOut, "json", "", "Display fields as a JSON array.")
	fs.Var(&replace, "replace-delimiter", "Replace the delimiter with the given text; implies --join.")
	fs.Var(&replace, "r", "Replace the delimiter with the given text (shorthand).")
	fs.Var(&fallback, "fallback-oob", "Text printed instead of any field that does not exist.")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "Logging level: debug, info, warn or error.")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "Log output format: text or json.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.file = fs.Arg(0)
	default:
		return nil, false, usageError("only one input file can be given, got %d", fs.NArg())
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	opts := swiftcut.DefaultOptions()
	boundsText := "1:"
	picked := 0
	for _, k := range []struct {
		long, short string
		text        string
		kind        swiftcut.Kind
	}{
		{"fields", "f", fields, swiftcut.Fields},
		{"bytes", "b", bytesArg, swiftcut.Bytes},
		{"characters", "c", chars, swiftcut.Characters},
		{"lines", "l", lines, swiftcut.Lines},
	} {
		// An explicit empty value still picks the kind and fails to parse.
		if set[k.long] || set[k.short] {
			boundsText, opts.Kind = k.text, k.kind
			picked++
		}
	}
	if picked > 1 {
		return nil, false, usageError("only one of --fields, --bytes, --characters or --lines can be used")
	}

	bl, err := swiftcut.ParseBoundList(boundsText)
	if err != nil {
		return nil, false, usageError("%v", err)
	}
	opts.Bounds = bl

	opts.Delimiter = []byte(unescapeArg(delimiter))
	if regex != "" {
		re, err := regexp.Compile(regex)
		if err != nil {
			return nil, false, usageError("invalid --regex: %v", err)
		}
		opts.Pattern = re
	}
	if opts.Trim, err = swiftcut.ParseTrimMode(trim); err != nil {
		return nil, false, usageError("%v", err)
	}
	if zero {
		opts.Terminator = 0
	}
	opts.Greedy = greedy
	opts.Compress = compress
	opts.Join = join
	opts.Complement = complement
	opts.OnlyDelimited = onlyDelim
	opts.JSON = jsonOut
	opts.Replace = replace.val
	opts.Fallback = fallback.val

	if err := opts.Validate(); err != nil {
		return nil, false, usageError("%v", err)
	}

	switch strings.ToLower(cfg.logLevel) {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	switch strings.ToLower(cfg.logFormat) {
	case "text", "json":
	default:
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	cfg.opts = opts
	return cfg, false, nil
}

// unescapeArg turns the escapes a shell makes awkward to type into bytes.
func unescapeArg(s string) string {
	return strings.NewReplacer(`\t`, "\t", `\n`, "\n", `\0`, "\x00", `\\`, `\`).Replace(s)
}
