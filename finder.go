package swiftcut

import (
	"bytes"
	"iter"
	"regexp"
	"slices"

	"github.com/rivo/uniseg"
)

// Match is the half-open byte range of one delimiter occurrence.
type Match struct {
	Start int
	End   int
}

// Finder yields the delimiter occurrences of a buffer. Occurrences never
// overlap. Forward finders yield them left to right, reverse finders right
// to left. Iteration may be stopped at any point.
type Finder interface {
	Find(buf []byte) iter.Seq[Match]
}

type exactFinder struct {
	delim []byte
}

// NewExactFinder returns a forward Finder matching delim verbatim.
func NewExactFinder(delim []byte) Finder {
	return exactFinder{delim: delim}
}

func (f exactFinder) Find(buf []byte) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		n := len(f.delim)
		if n == 0 {
			return
		}
		pos := 0
		for pos <= len(buf)-n {
			var idx int
			if n == 1 {
				idx = bytes.IndexByte(buf[pos:], f.delim[0])
			} else {
				idx = bytes.Index(buf[pos:], f.delim)
			}
			if idx < 0 {
				return
			}
			start := pos + idx
			if !yield(Match{Start: start, End: start + n}) {
				return
			}
			pos = start + n
		}
	}
}

type exactReverseFinder struct {
	delim []byte
}

// NewExactReverseFinder returns a reverse Finder matching delim verbatim.
// It yields the same occurrences as NewExactFinder, in reverse order.
func NewExactReverseFinder(delim []byte) Finder {
	if selfOverlaps(delim) {
		return reversed{fwd: NewExactFinder(delim)}
	}
	return exactReverseFinder{delim: delim}
}

func (f exactReverseFinder) Find(buf []byte) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		n := len(f.delim)
		if n == 0 {
			return
		}
		end := len(buf)
		for end >= n {
			var idx int
			if n == 1 {
				idx = bytes.LastIndexByte(buf[:end], f.delim[0])
			} else {
				idx = bytes.LastIndex(buf[:end], f.delim)
			}
			if idx < 0 {
				return
			}
			if !yield(Match{Start: idx, End: idx + n}) {
				return
			}
			end = idx
		}
	}
}

type greedyFinder struct {
	delim []byte
}

// NewGreedyFinder returns a forward Finder that reports a run of adjacent
// delimiters as a single occurrence, so "a---b" splits in two on "-".
func NewGreedyFinder(delim []byte) Finder {
	return greedyFinder{delim: delim}
}

func (f greedyFinder) Find(buf []byte) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		n := len(f.delim)
		if n == 0 {
			return
		}
		pos := 0
		for pos <= len(buf)-n {
			idx := bytes.Index(buf[pos:], f.delim)
			if idx < 0 {
				return
			}
			m := Match{Start: pos + idx}
			m.End = skipRun(buf, m.Start, f.delim)
			if !yield(m) {
				return
			}
			pos = m.End
		}
	}
}

type greedyReverseFinder struct {
	delim []byte
}

// NewGreedyReverseFinder is the reverse counterpart of NewGreedyFinder.
func NewGreedyReverseFinder(delim []byte) Finder {
	if selfOverlaps(delim) {
		return reversed{fwd: NewGreedyFinder(delim)}
	}
	return greedyReverseFinder{delim: delim}
}

func (f greedyReverseFinder) Find(buf []byte) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		n := len(f.delim)
		if n == 0 {
			return
		}
		end := len(buf)
		for end >= n {
			idx := bytes.LastIndex(buf[:end], f.delim)
			if idx < 0 {
				return
			}
			m := Match{Start: idx, End: idx + n}
			for m.Start >= n && bytes.Equal(buf[m.Start-n:m.Start], f.delim) {
				m.Start -= n
			}
			if !yield(m) {
				return
			}
			end = m.Start
		}
	}
}

// selfOverlaps reports whether two occurrences of delim can overlap, as
// "--" does in "---". Searching such a delimiter from the end splits the
// buffer differently than searching it from the start.
func selfOverlaps(delim []byte) bool {
	for k := 1; k < len(delim); k++ {
		if bytes.Equal(delim[:k], delim[len(delim)-k:]) {
			return true
		}
	}
	return false
}

// reversed runs a forward Finder and yields its matches last to first.
type reversed struct {
	fwd Finder
}

func (f reversed) Find(buf []byte) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		matches := slices.Collect(f.fwd.Find(buf))
		for i := len(matches) - 1; i >= 0; i-- {
			if !yield(matches[i]) {
				return
			}
		}
	}
}

// skipRun advances pos past any delimiters immediately following it.
func skipRun(buf []byte, pos int, delim []byte) int {
	for bytes.HasPrefix(buf[pos:], delim) {
		pos += len(delim)
	}
	return pos
}

type patternFinder struct {
	re        *regexp.Regexp
	trimEdges bool
}

// NewPatternFinder returns a forward Finder for a regular expression. There
// is no reverse counterpart. When trimEdges is set, empty matches at the
// very start or end of the buffer are skipped.
func NewPatternFinder(re *regexp.Regexp, trimEdges bool) Finder {
	return patternFinder{re: re, trimEdges: trimEdges}
}

func (f patternFinder) Find(buf []byte) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		// regexp has no resumable search that keeps anchors and word
		// boundaries intact on a sub-slice, so matches are collected at once.
		for _, loc := range f.re.FindAllIndex(buf, -1) {
			if f.trimEdges && loc[0] == loc[1] && (loc[0] == 0 || loc[0] == len(buf)) {
				continue
			}
			if !yield(Match{Start: loc[0], End: loc[1]}) {
				return
			}
		}
	}
}

type graphemeFinder struct{}

// NewGraphemeFinder returns a forward Finder whose delimiters are the empty
// boundaries between extended grapheme clusters, so each field of a line is
// one user-perceived character.
func NewGraphemeFinder() Finder {
	return graphemeFinder{}
}

func (graphemeFinder) Find(buf []byte) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		var (
			cluster []byte
			rest    = buf
			state   = -1
			pos     int
		)
		for len(rest) > 0 {
			cluster, rest, _, state = uniseg.Step(rest, state)
			pos += len(cluster)
			if len(rest) == 0 {
				return
			}
			if !yield(Match{Start: pos, End: pos}) {
				return
			}
		}
	}
}
