package swiftcut

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/tidwall/sjson"
)

var errSinkNoTarget = errors.New("swiftcut: output destination cannot be nil")

// sink buffers cut output and remembers the first write error, after which
// every further write is dropped.
type sink struct {
	dst *bufio.Writer
	err error
}

func newSink(w io.Writer, size int) *sink {
	if w == nil {
		panic(errSinkNoTarget.Error())
	}
	return &sink{dst: bufio.NewWriterSize(w, size)}
}

func (s *sink) write(p []byte) {
	if s.err != nil || len(p) == 0 {
		return
	}
	if _, err := s.dst.Write(p); err != nil {
		s.err = err
	}
}

func (s *sink) writeByte(b byte) {
	if s.err != nil {
		return
	}
	if err := s.dst.WriteByte(b); err != nil {
		s.err = err
	}
}

// Flush flushes pending buffered data and reports the first error seen.
func (s *sink) Flush() error {
	if s.err != nil {
		return s.err
	}
	if err := s.dst.Flush(); err != nil {
		s.err = err
	}
	return s.err
}

// jsonEncoder writes fields as a JSON array of strings. Each field is
// encoded on its own into scratch, so a line costs time linear in its size.
type jsonEncoder struct {
	scratch []byte
}

// appendArray appends fields to dst as a JSON array of strings.
func (e *jsonEncoder) appendArray(dst []byte, fields [][]byte) ([]byte, error) {
	dst = append(dst, '[')
	for i, f := range fields {
		if i > 0 {
			dst = append(dst, ',')
		}
		var err error
		if dst, err = e.appendString(dst, f); err != nil {
			return dst, err
		}
	}
	return append(dst, ']'), nil
}

// appendString appends the JSON string encoding of f to dst.
func (e *jsonEncoder) appendString(dst, f []byte) ([]byte, error) {
	enc, err := sjson.SetBytes(append(e.scratch[:0], '[', ']'), "-1", string(f))
	if err != nil {
		return dst, err
	}
	e.scratch = enc
	// enc is a one element array: ["..."].
	return append(dst, bytes.TrimSpace(enc[1:len(enc)-1])...), nil
}
