package swiftcut

import (
	"bytes"
	"io"
)

// maxConsecutiveEmptyReads is how many (0, nil) reads in a row a source may
// return before it is reported as io.ErrNoProgress.
const maxConsecutiveEmptyReads = 100

// lineReader splits a stream into lines on a single terminator byte.
type lineReader struct {
	src io.Reader
	eol byte

	buf    []byte
	bufPos int
	bufLen int
	bufErr error

	line     []byte
	finished bool
}

func newLineReader(r io.Reader, eol byte, size int) *lineReader {
	if r == nil {
		panic("swiftcut: reader source cannot be nil")
	}
	return &lineReader{
		src:  r,
		eol:  eol,
		buf:  make([]byte, size),
		line: make([]byte, 0, 512),
	}
}

// readLine returns the next line without its terminator. The slice may
// alias the read buffer and is only valid until the next call. A final line
// without a terminator is returned as any other; io.EOF follows it.
func (r *lineReader) readLine() ([]byte, error) {
	if r.finished {
		return nil, io.EOF
	}

	r.line = r.line[:0]
	spanning := false
	empty := 0

	for {
		if r.bufPos >= r.bufLen {
			if r.bufErr != nil {
				err := r.bufErr
				r.bufErr = nil
				if err == io.EOF {
					r.finished = true
					if spanning {
						return r.line, nil
					}
					return nil, io.EOF
				}
				return nil, err
			}

			// Pull the next chunk from the source.
			n, err := r.src.Read(r.buf)
			if n == 0 {
				if err != nil {
					r.bufErr = err
				} else if empty++; empty >= maxConsecutiveEmptyReads {
					r.bufErr = io.ErrNoProgress
				}
				continue
			}
			empty = 0
			r.bufPos = 0
			r.bufLen = n
			r.bufErr = err
		}

		data := r.buf[r.bufPos:r.bufLen]
		idx := bytes.IndexByte(data, r.eol)
		if idx < 0 {
			// The line continues in the next chunk; keep what we have.
			r.line = append(r.line, data...)
			r.bufPos = r.bufLen
			spanning = true
			continue
		}

		r.bufPos += idx + 1
		if !spanning {
			return data[:idx], nil
		}
		r.line = append(r.line, data[:idx]...)
		return r.line, nil
	}
}
