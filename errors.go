package swiftcut

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBound is returned when a bound token is empty, as in "1,,2".
	ErrEmptyBound = errors.New("swiftcut: empty field")
	// ErrZeroIndex is returned for the index 0; fields are 1-indexed.
	ErrZeroIndex = errors.New("swiftcut: field value 0 is not a valid field")
	// ErrInvalidIndex is returned when a side is not a signed integer.
	ErrInvalidIndex = errors.New("swiftcut: field value is not a number")
	// ErrLeftGreaterThanRight is returned when a bound selects nothing.
	ErrLeftGreaterThanRight = errors.New("swiftcut: left value cannot be greater than right value")
	// ErrMissingOpen is returned for a '}' without a matching '{'.
	ErrMissingOpen = errors.New("swiftcut: missing opening parenthesis")
	// ErrMissingClose is returned for a '{' that is never closed.
	ErrMissingClose = errors.New("swiftcut: missing closing parenthesis")
	// ErrNoBounds is returned when a bound list contains no bounds at all.
	ErrNoBounds = errors.New("swiftcut: no bounds were provided")
	// ErrEmptyComplement is returned when complementing leaves nothing to print.
	ErrEmptyComplement = errors.New("swiftcut: the complement is empty")
	// ErrOutOfBounds is matched by every *OutOfBoundsError.
	ErrOutOfBounds = errors.New("swiftcut: out of bounds")
	// ErrInternal marks an invariant violation inside the engine rather than bad input.
	ErrInternal = errors.New("swiftcut: internal error")
)

// ParseError reports which token of a bound list could not be parsed.
type ParseError struct {
	Input string
	Token string
	Err   error
}

// Error formats the parse error with the offending token and cause.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("swiftcut: invalid bound %q in %q: %v", e.Token, e.Input, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Is.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// OutOfBoundsError is returned when a line has fewer fields than a bound needs.
//
// The reported index is zero-based for positive sides and left as-is for
// negative ones, so "-1" stays "-1" while field "3" prints as 2.
type OutOfBoundsError struct {
	Side Side
}

// Error formats the missing side as "Out of bounds: N".
func (e *OutOfBoundsError) Error() string {
	if e == nil {
		return ""
	}
	idx := int(e.Side)
	if idx > 0 {
		idx--
	}
	return fmt.Sprintf("Out of bounds: %d", idx)
}

// Is lets errors.Is(err, ErrOutOfBounds) match any OutOfBoundsError.
func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

func outOfBounds(s Side) error {
	return &OutOfBoundsError{Side: s}
}

func internalError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}

// maskable reports whether a per-line resolution error may be replaced by a fallback.
func maskable(err error) bool {
	if errors.Is(err, ErrInternal) {
		return false
	}
	return errors.Is(err, ErrOutOfBounds) || errors.Is(err, ErrLeftGreaterThanRight)
}
