package swiftcut

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
)

const defaultBufferSize = 64 << 10 // 64 KiB

// Kind selects what a bound counts: fields, bytes, characters or lines.
type Kind int

const (
	// Fields cuts delimiter separated fields of every line.
	Fields Kind = iota
	// Bytes cuts byte ranges out of the whole input.
	Bytes
	// Characters cuts grapheme clusters out of every line.
	Characters
	// Lines cuts whole lines out of the input.
	Lines
)

func (k Kind) String() string {
	switch k {
	case Fields:
		return "fields"
	case Bytes:
		return "bytes"
	case Characters:
		return "characters"
	case Lines:
		return "lines"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// TrimMode selects which ends of a line lose their delimiters before cutting.
type TrimMode int

const (
	// TrimNone leaves lines untouched.
	TrimNone TrimMode = iota
	// TrimLeft drops delimiters at the start of a line.
	TrimLeft
	// TrimRight drops delimiters at the end of a line.
	TrimRight
	// TrimBoth drops delimiters at either end of a line.
	TrimBoth
)

// ParseTrimMode accepts "l", "r", "b" and their long forms.
func ParseTrimMode(s string) (TrimMode, error) {
	switch s {
	case "", "none":
		return TrimNone, nil
	case "l", "left":
		return TrimLeft, nil
	case "r", "right":
		return TrimRight, nil
	case "b", "both":
		return TrimBoth, nil
	}
	return TrimNone, fmt.Errorf("%w: %q", errInvalidTrim, s)
}

var (
	errNilBounds        = errors.New("swiftcut: bounds are required")
	errEmptyDelimiter   = errors.New("swiftcut: delimiter cannot be empty")
	errInvalidTrim      = errors.New("swiftcut: invalid trim mode")
	errInvalidEOL       = errors.New("swiftcut: line terminator must be '\\n' or NUL")
	errFieldsOnly       = errors.New("swiftcut: option is only valid when cutting fields")
	errPatternConflict  = errors.New("swiftcut: greedy and compress cannot be combined with a regex delimiter")
	errPatternJoin      = errors.New("swiftcut: joining with a regex delimiter needs a replace delimiter")
	errJSONBytes        = errors.New("swiftcut: json output is not available when cutting bytes")
	errUnknownBoundKind = errors.New("swiftcut: unknown bounds kind")
)

// Options is the validated configuration consumed by every cutter.
type Options struct {
	Kind   Kind
	Bounds *BoundList

	// Delimiter separates fields. Pattern, when set, replaces it.
	Delimiter []byte
	Pattern   *regexp.Regexp
	// Terminator ends every line: '\n' or 0.
	Terminator byte

	Complement    bool
	Join          bool
	Greedy        bool
	Compress      bool
	OnlyDelimited bool
	JSON          bool
	Trim          TrimMode

	// Fallback replaces any bound that has no fallback of its own and
	// cannot be resolved. Nil means no generic fallback.
	Fallback []byte
	// Replace is written instead of the delimiter between output fields.
	// It implies Join.
	Replace []byte

	// BufferSize is the read buffer size; zero means 64 KiB.
	BufferSize int
	// Logger receives debug information about the chosen execution path.
	Logger *slog.Logger
}

// DefaultOptions returns the options of a plain "cut -f 1:" on tabs.
func DefaultOptions() Options {
	return Options{
		Kind:       Fields,
		Delimiter:  []byte{'\t'},
		Terminator: '\n',
	}
}

// Validate reports the first inconsistency in o.
func (o *Options) Validate() error {
	if o.Bounds == nil || o.Bounds.Len() == 0 {
		return errNilBounds
	}
	if o.Terminator != '\n' && o.Terminator != 0 {
		return errInvalidEOL
	}
	if o.Trim < TrimNone || o.Trim > TrimBoth {
		return fmt.Errorf("%w: %d", errInvalidTrim, o.Trim)
	}

	switch o.Kind {
	case Fields:
		if o.Pattern == nil && len(o.Delimiter) == 0 {
			return errEmptyDelimiter
		}
		if o.Pattern != nil {
			if o.Greedy || o.Compress {
				return errPatternConflict
			}
			if o.Join && o.Replace == nil {
				return errPatternJoin
			}
		}
	case Bytes, Characters, Lines:
		if o.Greedy || o.Compress || o.OnlyDelimited || o.Trim != TrimNone || o.Pattern != nil {
			return fmt.Errorf("%w (cutting %s)", errFieldsOnly, o.Kind)
		}
		if o.Kind == Bytes && o.JSON {
			return errJSONBytes
		}
	default:
		return fmt.Errorf("%w: %d", errUnknownBoundKind, int(o.Kind))
	}
	return nil
}

func (o *Options) bufferSize() int {
	if o.BufferSize > 0 {
		return o.BufferSize
	}
	return defaultBufferSize
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (o *Options) join() bool {
	return o.Join || o.Replace != nil || o.Kind == Lines
}

// separator is written between joined bounds and between the fields of a
// range whose delimiters are replaced.
func (o *Options) separator() []byte {
	switch {
	case o.Replace != nil:
		return o.Replace
	case o.Kind == Lines:
		return []byte{o.Terminator}
	case o.Kind == Fields && o.Pattern == nil:
		return o.Delimiter
	default:
		return nil
	}
}

// finders picks the delimiter search once for the whole run.
func (o *Options) finders() (fwd, rev Finder) {
	switch {
	case o.Kind == Characters:
		return NewGraphemeFinder(), nil
	case o.Kind == Lines:
		eol := []byte{o.Terminator}
		return NewExactFinder(eol), NewExactReverseFinder(eol)
	case o.Pattern != nil:
		return NewPatternFinder(o.Pattern, false), nil
	case o.Greedy:
		return NewGreedyFinder(o.Delimiter), NewGreedyReverseFinder(o.Delimiter)
	default:
		return NewExactFinder(o.Delimiter), NewExactReverseFinder(o.Delimiter)
	}
}

// needsCount reports whether every line must be split completely.
func (o *Options) needsCount() bool {
	return o.OnlyDelimited || o.Complement || o.JSON || (o.Kind == Characters && o.Replace != nil)
}
