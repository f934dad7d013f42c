package swiftcut

import (
	"math"
	"strconv"
	"strings"
)

// Side is one endpoint of a Bound. Positive values count fields from the
// start of the line, negative values from its end (-1 is the last field).
// The zero value is Continue, the open end.
type Side int

// Continue is an open side: the first field on the left of a Bound, the last on the right.
const Continue Side = 0

// IsContinue reports whether s is the open end.
func (s Side) IsContinue() bool {
	return s == Continue
}

// String renders s the way it is written in a bound, Continue being empty.
func (s Side) String() string {
	if s == Continue {
		return ""
	}
	return strconv.Itoa(int(s))
}

// ParseSide parses a single side. Empty text is Continue; zero and
// non-numeric text are rejected.
func ParseSide(text string) (Side, error) {
	if text == "" {
		return Continue, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return Continue, ErrInvalidIndex
	}
	if v == 0 {
		return Continue, ErrZeroIndex
	}
	return Side(v), nil
}

func sameSign(a, b Side) bool {
	return (a > 0) == (b > 0)
}

// Item is an entry of a BoundList: either a Bound or a Literal.
type Item interface {
	item()
}

// Literal is text copied verbatim between cut fields.
type Literal []byte

func (Literal) item() {}

// Bound selects the inclusive, 1-indexed span of fields between Left and Right.
type Bound struct {
	Left  Side
	Right Side
	// Fallback replaces the bound when the line does not have the fields it needs.
	Fallback []byte
	// IsLast marks the rightmost Bound of its list; no join separator follows it.
	IsLast bool
}

func (Bound) item() {}

// ParseBound parses a token of the form L[:R][=fallback].
func ParseBound(token string) (Bound, error) {
	if token == "" {
		return Bound{}, ErrEmptyBound
	}

	text, fallback, hasFallback := strings.Cut(token, "=")
	if text == "" {
		return Bound{}, ErrEmptyBound
	}

	var (
		b   Bound
		err error
	)
	colon := strings.IndexByte(text, ':')
	switch {
	case colon < 0:
		if b.Left, err = ParseSide(text); err != nil {
			return Bound{}, err
		}
		b.Right = b.Left
	case colon == 0:
		if b.Right, err = ParseSide(text[1:]); err != nil {
			return Bound{}, err
		}
	case colon == len(text)-1:
		if b.Left, err = ParseSide(text[:colon]); err != nil {
			return Bound{}, err
		}
	default:
		if b.Left, err = ParseSide(text[:colon]); err != nil {
			return Bound{}, err
		}
		if b.Right, err = ParseSide(text[colon+1:]); err != nil {
			return Bound{}, err
		}
	}

	if b.Left != Continue && b.Right != Continue && sameSign(b.Left, b.Right) && b.Left > b.Right {
		return Bound{}, ErrLeftGreaterThanRight
	}
	if hasFallback {
		b.Fallback = unescape([]byte(fallback))
	}
	return b, nil
}

// String returns the canonical text of b.
func (b Bound) String() string {
	var sb strings.Builder
	if b.Left == b.Right && b.Left != Continue {
		sb.WriteString(b.Left.String())
	} else {
		sb.WriteString(b.Left.String())
		sb.WriteByte(':')
		sb.WriteString(b.Right.String())
	}
	if b.Fallback != nil {
		sb.WriteByte('=')
		sb.WriteString(escape(b.Fallback))
	}
	return sb.String()
}

// lo and hi order bounds on a line whose field count is not known yet.
func (b Bound) lo() int {
	if b.Left == Continue {
		return math.MinInt
	}
	return int(b.Left)
}

func (b Bound) hi() int {
	if b.Right == Continue {
		return math.MaxInt
	}
	return int(b.Right)
}

func (b Bound) isRange() bool {
	return b.Left != b.Right || b.Left == Continue
}

// TryIntoRange converts b into the zero-indexed, half-open span of field
// indices it covers on a line with fieldCount fields.
func (b Bound) TryIntoRange(fieldCount int) (Range, error) {
	r := Range{Start: 0, End: fieldCount}

	if b.Left != Continue {
		v := int(b.Left)
		if abs(v) > fieldCount {
			return Range{}, outOfBounds(b.Left)
		}
		if v < 0 {
			r.Start = fieldCount + v
		} else {
			r.Start = v - 1
		}
	}
	if b.Right != Continue {
		v := int(b.Right)
		if abs(v) > fieldCount {
			return Range{}, outOfBounds(b.Right)
		}
		if v < 0 {
			r.End = fieldCount + v + 1
		} else {
			r.End = v
		}
	}

	if r.End <= r.Start {
		return Range{}, ErrLeftGreaterThanRight
	}
	return r, nil
}

// Unpack expands b into one single-field Bound per field it covers.
func (b Bound) Unpack(fieldCount int) ([]Bound, error) {
	r, err := b.TryIntoRange(fieldCount)
	if err != nil {
		return nil, err
	}
	out := make([]Bound, 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		out = append(out, Bound{Left: Side(i + 1), Right: Side(i + 1)})
	}
	out[len(out)-1].IsLast = b.IsLast
	return out, nil
}

// Complement returns the bounds covering every field of the line that b does
// not: none when b covers the whole line, one when b touches an edge, two
// when b sits in the middle.
func (b Bound) Complement(fieldCount int) ([]Bound, error) {
	r, err := b.TryIntoRange(fieldCount)
	if err != nil {
		return nil, err
	}
	var out []Bound
	if r.Start > 0 {
		out = append(out, Bound{Left: 1, Right: Side(r.Start)})
	}
	if r.End < fieldCount {
		out = append(out, Bound{Left: Side(r.End + 1), Right: Side(fieldCount)})
	}
	if len(out) > 0 {
		out[len(out)-1].IsLast = b.IsLast
	}
	return out, nil
}

// BoundList is the parsed, immutable form of a bounds argument.
type BoundList struct {
	Items []Item

	sortable    bool
	sorted      bool
	hasNegative bool
	lastField   Side
	count       int
}

// ParseBoundList parses a comma separated list of bounds, or a format
// string such as "{1} and {2:3}" when text contains braces.
func ParseBoundList(text string) (*BoundList, error) {
	var (
		items []Item
		err   error
	)
	if strings.ContainsAny(text, "{}") {
		items, err = parseTemplate(text)
	} else {
		items, err = parseTokens(text, text)
	}
	if err != nil {
		return nil, err
	}
	return newBoundList(items)
}

// MustParseBoundList is like ParseBoundList but panics on error.
func MustParseBoundList(text string) *BoundList {
	bl, err := ParseBoundList(text)
	if err != nil {
		panic(err)
	}
	return bl
}

func parseTokens(input, group string) ([]Item, error) {
	tokens := strings.Split(group, ",")
	items := make([]Item, 0, len(tokens))
	for _, tok := range tokens {
		b, err := ParseBound(tok)
		if err != nil {
			return nil, &ParseError{Input: input, Token: tok, Err: err}
		}
		items = append(items, b)
	}
	return items, nil
}

func parseTemplate(text string) ([]Item, error) {
	var (
		items []Item
		lit   []byte
	)
	flush := func() {
		if len(lit) > 0 {
			items = append(items, Literal(unescape(lit)))
			lit = nil
		}
	}

	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				lit = append(lit, '{')
				i++
				continue
			}
			end := strings.IndexAny(text[i+1:], "{}")
			if end < 0 || text[i+1+end] == '{' {
				return nil, &ParseError{Input: text, Token: text[i:], Err: ErrMissingClose}
			}
			flush()
			group, err := parseTokens(text, text[i+1:i+1+end])
			if err != nil {
				return nil, err
			}
			items = append(items, group...)
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				lit = append(lit, '}')
				i++
				continue
			}
			return nil, &ParseError{Input: text, Token: text[:i+1], Err: ErrMissingOpen}
		default:
			lit = append(lit, c)
		}
	}
	flush()
	return items, nil
}

// newBoundList marks the rightmost bound and computes the derived properties.
func newBoundList(items []Item) (*BoundList, error) {
	last := -1
	for i, it := range items {
		if b, ok := it.(Bound); ok {
			if b.IsLast {
				b.IsLast = false
				items[i] = b
			}
			last = i
		}
	}
	if last < 0 {
		return nil, ErrNoBounds
	}
	b := items[last].(Bound)
	b.IsLast = true
	items[last] = b

	bl := &BoundList{Items: items}
	bl.analyze()
	return bl, nil
}

func (bl *BoundList) analyze() {
	var hasPositive bool
	for _, it := range bl.Items {
		b, ok := it.(Bound)
		if !ok {
			continue
		}
		bl.count++
		for _, s := range [2]Side{b.Left, b.Right} {
			switch {
			case s > 0:
				hasPositive = true
			case s < 0:
				bl.hasNegative = true
			}
		}
	}

	// Positive and negative sides only compare once the field count is known.
	bl.sortable = !(hasPositive && bl.hasNegative)
	bl.lastField = Continue
	if !bl.sortable {
		return
	}

	bl.sorted = true
	var (
		prev    Bound
		started bool
		maxSide = Continue
		open    bool
	)
	for _, it := range bl.Items {
		b, ok := it.(Bound)
		if !ok {
			continue
		}
		if started && prev.hi() >= b.lo() {
			bl.sorted = false
		}
		prev, started = b, true

		if b.Right == Continue {
			open = true
		} else if b.Right > maxSide {
			maxSide = b.Right
		}
	}
	if !open && !bl.hasNegative {
		bl.lastField = maxSide
	}
}

// Len returns the number of Bounds in the list, literals excluded.
func (bl *BoundList) Len() int {
	return bl.count
}

// IsSortable reports whether no positive and negative sides are mixed.
func (bl *BoundList) IsSortable() bool {
	return bl.sortable
}

// IsSorted reports whether every bound starts after the previous one ends.
// It is always false for lists that are not sortable.
func (bl *BoundList) IsSorted() bool {
	return bl.sorted
}

// IsForwardOnly reports whether the list can be satisfied in a single left
// to right pass over a line.
func (bl *BoundList) IsForwardOnly() bool {
	return bl.sortable && bl.sorted && !bl.hasNegative
}

// HasNegative reports whether any side counts from the end of the line.
func (bl *BoundList) HasNegative() bool {
	return bl.hasNegative
}

// LastInterestingField returns the highest field a forward-only scan needs,
// or Continue when the whole line may be needed.
func (bl *BoundList) LastInterestingField() Side {
	return bl.lastField
}

// Unpack expands every Bound into single-field bounds. Bounds that do not
// fit the line are kept as they are so their fallback still applies.
func (bl *BoundList) Unpack(fieldCount int) (*BoundList, error) {
	items, _, err := bl.expand(fieldCount, Bound.Unpack)
	if err != nil {
		return nil, err
	}
	return newBoundList(items)
}

// Complement replaces every Bound with its complement on a line of
// fieldCount fields.
func (bl *BoundList) Complement(fieldCount int) (*BoundList, error) {
	items, n, err := bl.expand(fieldCount, Bound.Complement)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrEmptyComplement
	}
	return newBoundList(items)
}

func (bl *BoundList) expand(fieldCount int, fn func(Bound, int) ([]Bound, error)) ([]Item, int, error) {
	items := make([]Item, 0, len(bl.Items))
	n := 0
	for _, it := range bl.Items {
		b, ok := it.(Bound)
		if !ok {
			items = append(items, it)
			continue
		}
		parts, err := fn(b, fieldCount)
		if err != nil {
			if !maskable(err) {
				return nil, 0, err
			}
			items = append(items, b)
			n++
			continue
		}
		for _, p := range parts {
			items = append(items, p)
		}
		n += len(parts)
	}
	return items, n, nil
}

// String returns the canonical text of the list. Lists holding literals are
// rendered as format strings.
func (bl *BoundList) String() string {
	var (
		sb          strings.Builder
		hasLiterals bool
	)
	for _, it := range bl.Items {
		if _, ok := it.(Literal); ok {
			hasLiterals = true
			break
		}
	}

	if !hasLiterals {
		for i, it := range bl.Items {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(it.(Bound).String())
		}
		return sb.String()
	}

	inGroup := false
	for _, it := range bl.Items {
		switch v := it.(type) {
		case Literal:
			if inGroup {
				sb.WriteByte('}')
				inGroup = false
			}
			sb.WriteString(escapeTemplate(v))
		case Bound:
			if inGroup {
				sb.WriteByte(',')
			} else {
				sb.WriteByte('{')
				inGroup = true
			}
			sb.WriteString(v.String())
		}
	}
	if inGroup {
		sb.WriteByte('}')
	}
	return sb.String()
}

func unescape(b []byte) []byte {
	if !strings.Contains(string(b), `\`) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' && i+1 < len(b) {
			switch b[i+1] {
			case 'n':
				out = append(out, '\n')
				i++
				continue
			case 't':
				out = append(out, '\t')
				i++
				continue
			}
		}
		out = append(out, b[i])
	}
	return out
}

func escape(b []byte) string {
	r := strings.NewReplacer("\n", `\n`, "\t", `\t`)
	return r.Replace(string(b))
}

func escapeTemplate(b []byte) string {
	r := strings.NewReplacer("{", "{{", "}", "}}", "\n", `\n`, "\t", `\t`)
	return r.Replace(string(b))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
