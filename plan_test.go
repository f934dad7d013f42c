package swiftcut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlan(t *testing.T, bounds string, needCount bool) *FieldPlan {
	t.Helper()
	delim := []byte("-")
	p, err := NewFieldPlan(MustParseBoundList(bounds), NewExactFinder(delim), NewExactReverseFinder(delim), needCount)
	require.NoError(t, err)
	return p
}

func TestFieldPlanStrategy(t *testing.T) {
	t.Parallel()

	delim := []byte("-")
	tests := []struct {
		name      string
		bounds    string
		rev       Finder
		needCount bool
		want      Strategy
	}{
		{name: "positive", bounds: "1,3:4", rev: NewExactReverseFinder(delim), want: ForwardIndexed},
		{name: "openRange", bounds: "2:", rev: NewExactReverseFinder(delim), want: ForwardIndexed},
		{name: "negative", bounds: "-1,-3", rev: NewExactReverseFinder(delim), want: ReverseIndexed},
		{name: "mixed", bounds: "1,-1", rev: NewExactReverseFinder(delim), want: Bidirectional},
		{name: "noReverseFinder", bounds: "-1", want: FullScan},
		{name: "countNeeded", bounds: "1", rev: NewExactReverseFinder(delim), needCount: true, want: FullScan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := NewFieldPlan(MustParseBoundList(tt.bounds), NewExactFinder(delim), tt.rev, tt.needCount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Strategy(), "got %s", p.Strategy())
		})
	}
}

func TestNewFieldPlanErrors(t *testing.T) {
	t.Parallel()

	_, err := NewFieldPlan(nil, NewExactFinder([]byte("-")), nil, false)
	require.ErrorIs(t, err, ErrInternal)

	_, err = NewFieldPlan(MustParseBoundList("1"), nil, nil, false)
	require.ErrorIs(t, err, ErrInternal)
}

func TestFieldPlanResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		bounds    string
		needCount bool
		line      string
		want      []string
		wantErr   string
	}{
		{name: "forward", bounds: "1,3", line: "a-b-c", want: []string{"a", "c"}},
		{name: "forwardRange", bounds: "2:3", line: "a-bb-c-d", want: []string{"bb-c"}},
		{name: "forwardOpen", bounds: "2:", line: "a-b-c", want: []string{"b-c"}},
		{name: "reverse", bounds: "-1,-3", line: "a-b-c", want: []string{"c", "a"}},
		{name: "bidirectional", bounds: "1,-1", line: "a-b-c", want: []string{"a", "c"}},
		{name: "mixedRange", bounds: "2:-2", line: "a-b-c-d", want: []string{"b-c"}},
		{name: "fullScan", bounds: "-2:", needCount: true, line: "a-b-c", want: []string{"b-c"}},
		{name: "emptyFields", bounds: "1,2,3", line: "--", want: []string{"", "", ""}},
		{name: "emptyLine", bounds: "1", line: "", want: []string{""}},
		{name: "forwardMissing", bounds: "2,3", line: "a-b", wantErr: "Out of bounds: 2"},
		{name: "reverseMissing", bounds: "-3", line: "a-b", wantErr: "Out of bounds: -3"},
		{name: "fullScanMissing", bounds: "5,-5", needCount: true, line: "a-b", wantErr: "Out of bounds: 4"},
		{name: "fullScanNegativeMissing", bounds: "1,-5", needCount: true, line: "a-b", wantErr: "Out of bounds: -5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newTestPlan(t, tt.bounds, tt.needCount)
			line := []byte(tt.line)
			err := p.Resolve(line)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				require.ErrorIs(t, err, ErrOutOfBounds)
				return
			}
			require.NoError(t, err)

			var got []string
			for _, it := range MustParseBoundList(tt.bounds).Items {
				r, err := p.GetField(it.(Bound), len(line))
				require.NoError(t, err)
				got = append(got, string(line[r.Start:r.End]))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldPlanForwardMatchesFullScan(t *testing.T) {
	t.Parallel()

	lines := []string{"", "a", "a-b", "a-b-c", "-a--b-", "aa-bb-cc-dd-ee-ff"}
	for _, bounds := range []string{"1", "1,3", "2:4", "3,1", ":2", "2:", "1:1,4"} {
		fwd := newTestPlan(t, bounds, false)
		full := newTestPlan(t, bounds, true)
		require.Equal(t, ForwardIndexed, fwd.Strategy())
		require.Equal(t, FullScan, full.Strategy())

		bl := MustParseBoundList(bounds)
		for _, s := range lines {
			line := []byte(s)
			errFwd := fwd.Resolve(line)
			errFull := full.Resolve(line)
			assert.Equal(t, errFwd == nil, errFull == nil, "bounds %s line %q", bounds, s)

			for _, it := range bl.Items {
				b := it.(Bound)
				rf, ef := fwd.GetField(b, len(line))
				rs, es := full.GetField(b, len(line))
				if ef != nil || es != nil {
					assert.Equal(t, ef, es, "bounds %s line %q bound %s", bounds, s, b)
					continue
				}
				assert.Equal(t, rs, rf, "bounds %s line %q bound %s", bounds, s, b)
			}
		}
	}
}

func TestFieldPlanForgetsPreviousLine(t *testing.T) {
	t.Parallel()

	for _, bounds := range []string{"3", "-3", "1,-3"} {
		p := newTestPlan(t, bounds, false)
		b := MustParseBoundList(bounds).Items[0].(Bound)
		if bounds == "1,-3" {
			b = MustParseBoundList(bounds).Items[1].(Bound)
		}

		require.NoError(t, p.Resolve([]byte("a-b-c")))
		_, err := p.GetField(b, 5)
		require.NoError(t, err)

		require.Error(t, p.Resolve([]byte("a-b")))
		_, err = p.GetField(b, 3)
		require.ErrorIs(t, err, ErrOutOfBounds, "bounds %s", bounds)
	}
}

func TestFieldPlanFieldCount(t *testing.T) {
	t.Parallel()

	p := newTestPlan(t, "1", true)
	require.NoError(t, p.Resolve([]byte("a-b-c")))
	assert.Equal(t, 3, p.FieldCount())
	require.NoError(t, p.Resolve([]byte("")))
	assert.Equal(t, 1, p.FieldCount())

	assert.Equal(t, -1, newTestPlan(t, "1", false).FieldCount())
}

func TestFieldPlanMixedSignOrder(t *testing.T) {
	t.Parallel()

	b := Bound{Left: 2, Right: -2}
	for _, needCount := range []bool{false, true} {
		p := newTestPlan(t, "2:-2", needCount)

		require.NoError(t, p.Resolve([]byte("a-b-c")))
		r, err := p.GetField(b, 5)
		require.NoError(t, err)
		assert.Equal(t, Range{2, 3}, r)

		require.NoError(t, p.Resolve([]byte("a-b")))
		_, err = p.GetField(b, 3)
		require.ErrorIs(t, err, ErrLeftGreaterThanRight, "strategy %s", p.Strategy())
	}
}
