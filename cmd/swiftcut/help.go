package main

import (
	"fmt"
	"io"

	"github.com/gookit/color"
)

func printHelp(w io.Writer) {
	h := color.Style{color.FgYellow, color.OpBold}.Sprint
	o := color.Green.Sprint

	fmt.Fprintf(w, `swiftcut - cut text, with negative indices, ranges and formats

%s
  swiftcut [options] [FILE]

  With no FILE, or when FILE is -, read standard input.

%s
  %s         Fields to keep, like 1:3 or 3,2 or 1: or 3,-2 [default: 1:]
  %s          Same as --fields, but it keeps bytes of the whole input
  %s     Same as --fields, but it keeps characters
  %s          Same as --fields, but it keeps lines of the whole input
  %s      Delimiter used by --fields to cut the text [default: \t]
  %s          Use a regular expression as delimiter
  %s Split fields using a greedy delimiter
  %s Collapse any sequence of delimiters
  %s           Write the delimiter between fields
  %s Replace the delimiter with the given text; implies --join
  %s     Keep the opposite fields than the ones selected
  %s Do not print lines not containing delimiters
  %s       Trim the delimiter from the line: l, r or b
  %s Line delimiter is NUL, not newline
  %s              Display fields as a JSON array
  %s  Text printed instead of any field that does not exist
  %s   Logging level: debug, info, warn or error [default: warn]
  %s  Log output format: text or json [default: text]
  %s           Print this help

%s
  Every bound is L:R, L or L:R=fallback. Indices start at 1; negative ones
  count from the end (-1 is the last field) and a missing side is open.
  Braces turn the list into a format string: '{1} is {-1}' prints the
  first and last field with literal text in between. '{{' and '}}' print
  braces.

%s
  echo "foo-bar-baz" | swiftcut -d - -f 1,-1          # foobaz
  echo "foo-bar-baz" | swiftcut -d - -f 1,3 -j        # foo-baz
  echo "foo-bar-baz" | swiftcut -d - -f '{2} < {1}'   # bar < foo
  echo "foo  bar"    | swiftcut -d ' ' -g -f 2        # bar
`,
		h("Usage:"),
		h("Options:"),
		o("-f, --fields"),
		o("-b, --bytes"),
		o("-c, --characters"),
		o("-l, --lines"),
		o("-d, --delimiter"),
		o("-e, --regex"),
		o("-g, --greedy-delimiter"),
		o("-p, --compress-delimiter"),
		o("-j, --join"),
		o("-r, --replace-delimiter"),
		o("-m, --complement"),
		o("-s, --only-delimited"),
		o("-t, --trim"),
		o("-z, --zero-terminated"),
		o("--json"),
		o("--fallback-oob"),
		o("--log-level"),
		o("--log-format"),
		o("-h, --help"),
		h("Bounds:"),
		h("Examples:"),
	)
}
