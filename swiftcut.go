// # SwiftCut: A Streaming Field Cutter for Go
//
// SwiftCut extracts and reassembles delimiter separated fields, bytes, characters or lines of its input. It is a `cut` replacement that understands negative (right anchored) indices, open ranges, format strings with literal text, per-field fallbacks and JSON output.
//
// # Features
//
// - Bound lists such as `1,3`, `-2:`, `:4` or `{1} and {2=none}`, parsed once into a `BoundList`.
// - Exact, greedy (runs of delimiters count once) and regular-expression delimiters, searched forwards or backwards.
// - A `FieldPlan` that only locates the fields a bound list refers to, from the start, from the end or both.
// - A bounded-memory `StreamCutter` that cuts straight out of the read buffer whenever the bounds allow a single left-to-right pass.
// - Complement, join, replace, trim, compress, only-delimited and zero-terminated modes.
// - Structured errors: `ParseError`, `OutOfBoundsError` and sentinel errors for every failure.
//
// # Getting Started
//
// The module path is `github.com/oleg578/swiftcut`. Parse the bounds, fill in `Options` and call `Cut`:
//
//	bl, err := swiftcut.ParseBoundList("1,3")
//	if err != nil {
//		return err
//	}
//	opts := swiftcut.DefaultOptions()
//	opts.Delimiter = []byte("-")
//	opts.Bounds = bl
//	err = swiftcut.Cut(os.Stdout, os.Stdin, opts)
//
// The `cmd/swiftcut` program wraps the same call behind command-line flags.
package swiftcut
