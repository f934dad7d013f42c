package swiftcut

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAllLines(r *lineReader) ([]string, error) {
	var out []string
	for {
		line, err := r.readLine()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, string(line))
	}
}

func TestLineReader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		eol   byte
		want  []string
	}{
		{name: "basicLines", input: "one\ntwo\n", eol: '\n', want: []string{"one", "two"}},
		{name: "finalLineWithoutTerminator", input: "one\ntwo", eol: '\n', want: []string{"one", "two"}},
		{name: "emptyLines", input: "\n\nx\n", eol: '\n', want: []string{"", "", "x"}},
		{name: "emptyInput", input: "", eol: '\n'},
		{name: "nulTerminated", input: "a\nb\x00c\x00", eol: 0, want: []string{"a\nb", "c"}},
		{name: "longLine", input: strings.Repeat("x", 100) + "\ny\n", eol: '\n', want: []string{strings.Repeat("x", 100), "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, size := range []int{1, 2, 3, 7, 64} {
				got, err := readAllLines(newLineReader(strings.NewReader(tt.input), tt.eol, size))
				require.NoError(t, err)
				assert.Equal(t, tt.want, got, "buffer size %d", size)

				got, err = readAllLines(newLineReader(iotest.DataErrReader(strings.NewReader(tt.input)), tt.eol, size))
				require.NoError(t, err)
				assert.Equal(t, tt.want, got, "buffer size %d with data and EOF together", size)
			}
		})
	}
}

func TestLineReaderError(t *testing.T) {
	t.Parallel()

	exp := errors.New("read failed")
	r := newLineReader(&failReader{data: "a\nb", err: exp}, '\n', 16)

	line, err := r.readLine()
	require.NoError(t, err)
	assert.Equal(t, "a", string(line))

	_, err = r.readLine()
	require.ErrorIs(t, err, exp)
}

// stallReader returns (0, nil) stalls times before each read from r.
type stallReader struct {
	r      io.Reader
	stalls int
	left   int
}

func (s *stallReader) Read(p []byte) (int, error) {
	if s.left > 0 {
		s.left--
		return 0, nil
	}
	s.left = s.stalls
	return s.r.Read(p)
}

func TestLineReaderNoProgress(t *testing.T) {
	t.Parallel()

	r := newLineReader(&failReader{data: "a\nb"}, '\n', 16)

	line, err := r.readLine()
	require.NoError(t, err)
	assert.Equal(t, "a", string(line))

	_, err = r.readLine()
	require.ErrorIs(t, err, io.ErrNoProgress)
}

func TestLineReaderToleratesEmptyReads(t *testing.T) {
	t.Parallel()

	src := &stallReader{r: strings.NewReader("a\nb\n"), stalls: maxConsecutiveEmptyReads - 1}
	got, err := readAllLines(newLineReader(src, '\n', 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestLineReaderStaysAtEOF(t *testing.T) {
	t.Parallel()

	r := newLineReader(strings.NewReader("a"), '\n', 4)
	line, err := r.readLine()
	require.NoError(t, err)
	assert.Equal(t, "a", string(line))

	for range 2 {
		_, err = r.readLine()
		require.ErrorIs(t, err, io.EOF)
	}
}

func TestNewLineReaderNilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("newLineReader should panic on nil reader")
		}
	}()
	newLineReader(nil, '\n', 16)
}
