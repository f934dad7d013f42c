package swiftcut

import (
	"math"
	"slices"
)

// Range is a half-open span [Start, End). FieldPlan uses it for byte
// offsets into a line, Bound.TryIntoRange for field indices.
type Range struct {
	Start int
	End   int
}

// Len returns the width of the span.
func (r Range) Len() int {
	return r.End - r.Start
}

// unresolved marks a table slot whose field does not exist on the current line.
var unresolved = Range{Start: math.MaxInt, End: math.MaxInt}

// Strategy is the way a FieldPlan locates fields on a line.
type Strategy int

const (
	// FullScan splits the whole line; it is the only strategy that knows the field count.
	FullScan Strategy = iota
	// ForwardIndexed walks delimiters from the start up to the highest requested field.
	ForwardIndexed
	// ReverseIndexed walks delimiters from the end down to the highest requested negative field.
	ReverseIndexed
	// Bidirectional runs ForwardIndexed and then ReverseIndexed.
	Bidirectional
)

func (s Strategy) String() string {
	switch s {
	case FullScan:
		return "full-scan"
	case ForwardIndexed:
		return "forward-indexed"
	case ReverseIndexed:
		return "reverse-indexed"
	case Bidirectional:
		return "bidirectional"
	default:
		return "unknown"
	}
}

// FieldPlan resolves, line after line, exactly the fields a BoundList refers
// to. Its tables are sized once and overwritten for every line, so a plan
// must not be shared between goroutines.
type FieldPlan struct {
	strategy Strategy
	fwd      Finder
	rev      Finder

	// posIdx holds zero-based indices counted from the start, negIdx
	// magnitude-1 indices counted from the end. Both are sorted and unique.
	posIdx []int
	negIdx []int
	pos    []Range
	neg    []Range

	// fields holds every field of the line after a full scan.
	fields []Range
}

// NewFieldPlan builds the plan for bl. fwd is required; rev may be nil for
// finders that cannot search backwards, in which case negative indices are
// found by a full scan. needCount forces a full scan because the caller
// needs the number of fields on every line.
func NewFieldPlan(bl *BoundList, fwd, rev Finder, needCount bool) (*FieldPlan, error) {
	if bl == nil || bl.Len() == 0 {
		return nil, internalError("field plan built from an empty bound list")
	}
	if fwd == nil {
		return nil, internalError("field plan built without a forward finder")
	}

	p := &FieldPlan{fwd: fwd, rev: rev}
	for _, it := range bl.Items {
		b, ok := it.(Bound)
		if !ok {
			continue
		}
		for _, s := range [2]Side{b.Left, b.Right} {
			switch {
			case s > 0:
				p.posIdx = append(p.posIdx, int(s)-1)
			case s < 0:
				p.negIdx = append(p.negIdx, -int(s)-1)
			}
		}
	}
	slices.Sort(p.posIdx)
	p.posIdx = slices.Compact(p.posIdx)
	slices.Sort(p.negIdx)
	p.negIdx = slices.Compact(p.negIdx)

	switch {
	case needCount:
		p.strategy = FullScan
	case len(p.negIdx) == 0:
		p.strategy = ForwardIndexed
	case rev == nil:
		p.strategy = FullScan
	case len(p.posIdx) == 0:
		p.strategy = ReverseIndexed
	default:
		p.strategy = Bidirectional
	}

	if p.strategy != FullScan {
		p.pos = newTable(p.posIdx)
		p.neg = newTable(p.negIdx)
	}
	return p, nil
}

func newTable(idx []int) []Range {
	if len(idx) == 0 {
		return nil
	}
	t := make([]Range, idx[len(idx)-1]+1)
	for i := range t {
		t[i] = unresolved
	}
	return t
}

// Strategy returns the strategy chosen at construction.
func (p *FieldPlan) Strategy() Strategy {
	return p.strategy
}

// FieldCount returns the number of fields of the last resolved line, or -1
// when the strategy does not count them.
func (p *FieldPlan) FieldCount() int {
	if p.strategy != FullScan {
		return -1
	}
	return len(p.fields)
}

// Resolve locates the requested fields of line. Every field that exists is
// resolved even when some other requested field does not; the first missing
// one is returned as an *OutOfBoundsError, positive sides before negative.
func (p *FieldPlan) Resolve(line []byte) error {
	switch p.strategy {
	case FullScan:
		return p.scanAll(line)
	case ForwardIndexed:
		return p.scanForward(line)
	case ReverseIndexed:
		return p.scanReverse(line)
	case Bidirectional:
		errFwd := p.scanForward(line)
		errRev := p.scanReverse(line)
		if errFwd != nil {
			return errFwd
		}
		return errRev
	default:
		return internalError("unknown strategy %d", p.strategy)
	}
}

func (p *FieldPlan) scanAll(line []byte) error {
	p.fields = p.fields[:0]
	start := 0
	for m := range p.fwd.Find(line) {
		p.fields = append(p.fields, Range{Start: start, End: m.Start})
		start = m.End
	}
	p.fields = append(p.fields, Range{Start: start, End: len(line)})

	n := len(p.fields)
	if i, ok := firstMissing(p.posIdx, n); ok {
		return outOfBounds(Side(i + 1))
	}
	if i, ok := firstMissing(p.negIdx, n); ok {
		return outOfBounds(Side(-(i + 1)))
	}
	return nil
}

func firstMissing(idx []int, n int) (int, bool) {
	at, _ := slices.BinarySearch(idx, n)
	if at == len(idx) {
		return 0, false
	}
	return idx[at], true
}

func (p *FieldPlan) scanForward(line []byte) error {
	if len(p.posIdx) == 0 {
		return nil
	}
	j, field, start := 0, 0, 0
	for m := range p.fwd.Find(line) {
		if field == p.posIdx[j] {
			p.pos[field] = Range{Start: start, End: m.Start}
			j++
			if j == len(p.posIdx) {
				return nil
			}
		}
		field++
		start = m.End
	}
	if field == p.posIdx[j] {
		p.pos[field] = Range{Start: start, End: len(line)}
		j++
	}
	return markMissing(p.pos, p.posIdx[j:], 1)
}

func (p *FieldPlan) scanReverse(line []byte) error {
	if len(p.negIdx) == 0 {
		return nil
	}
	j, field, end := 0, 0, len(line)
	for m := range p.rev.Find(line) {
		if field == p.negIdx[j] {
			p.neg[field] = Range{Start: m.End, End: end}
			j++
			if j == len(p.negIdx) {
				return nil
			}
		}
		field++
		end = m.Start
	}
	if field == p.negIdx[j] {
		p.neg[field] = Range{Start: 0, End: end}
		j++
	}
	return markMissing(p.neg, p.negIdx[j:], -1)
}

// markMissing resets the slots of fields the line does not have so stale
// offsets from a previous line are never read.
func markMissing(table []Range, missing []int, sign int) error {
	if len(missing) == 0 {
		return nil
	}
	for _, idx := range missing {
		table[idx] = unresolved
	}
	return outOfBounds(Side(sign * (missing[0] + 1)))
}

func (p *FieldPlan) index(s Side) int {
	if s < 0 {
		return len(p.fields) + int(s)
	}
	return int(s) - 1
}

func (p *FieldPlan) lookup(s Side) (Range, bool) {
	if p.strategy == FullScan {
		i := p.index(s)
		if i < 0 || i >= len(p.fields) {
			return unresolved, false
		}
		return p.fields[i], true
	}

	var table []Range
	i := int(s) - 1
	if s < 0 {
		table, i = p.neg, -int(s)-1
	} else {
		table = p.pos
	}
	if i >= len(table) {
		return unresolved, false
	}
	r := table[i]
	return r, r != unresolved
}

// GetField returns the byte range of b on the last resolved line, whose
// length is lineLen.
func (p *FieldPlan) GetField(b Bound, lineLen int) (Range, error) {
	r := Range{Start: 0, End: lineLen}
	if b.Left != Continue {
		lr, ok := p.lookup(b.Left)
		if !ok {
			return Range{}, outOfBounds(b.Left)
		}
		r.Start = lr.Start
	}
	if b.Right != Continue {
		rr, ok := p.lookup(b.Right)
		if !ok {
			return Range{}, outOfBounds(b.Right)
		}
		r.End = rr.End
	}

	if b.Left != Continue && b.Right != Continue && !sameSign(b.Left, b.Right) {
		if p.strategy == FullScan {
			if p.index(b.Left) > p.index(b.Right) {
				return Range{}, ErrLeftGreaterThanRight
			}
		} else if r.End < r.Start {
			return Range{}, ErrLeftGreaterThanRight
		}
		return r, nil
	}
	if r.End < r.Start {
		return Range{}, internalError("bound %s resolved to inverted range %d..%d", b, r.Start, r.End)
	}
	return r, nil
}
