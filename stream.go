package swiftcut

import (
	"bytes"
	"errors"
	"io"
)

var errNotStreamable = errors.New("swiftcut: options cannot be cut by the streaming engine")

// CanStream reports whether opts can be served by a StreamCutter: a single
// byte delimiter, forward-only bounds, and nothing that needs to see a
// whole line before printing it.
func CanStream(o *Options) bool {
	return o.Kind == Fields &&
		o.Pattern == nil &&
		len(o.Delimiter) == 1 &&
		o.Delimiter[0] != o.Terminator &&
		(o.Replace == nil || len(o.Replace) == 1) &&
		o.Bounds != nil && o.Bounds.Len() > 0 &&
		o.Bounds.IsForwardOnly() &&
		!o.Complement && !o.Greedy && !o.Compress && !o.JSON && !o.OnlyDelimited &&
		o.Trim == TrimNone
}

// streamState is the cursor of the line being cut. It survives buffer
// refills and is reset when the line ends.
type streamState struct {
	// cursor indexes the next Bound or Literal still to be printed.
	cursor int
	// field is the 1-based number of the field being scanned.
	field int
	// truncated is set when the previous chunk ended inside field, whose
	// opening (separator, pending buffer) has therefore already happened.
	truncated bool
	// started is set once a byte of the line has been consumed.
	started bool
	// buffering routes the current bound to pending until it is complete.
	buffering bool
	// skipping is set when nothing else on the line will be printed.
	skipping bool
}

// StreamCutter cuts fields straight out of the read buffer without ever
// holding a complete line.
//
// The one exception is a closed range with a fallback, such as "2:5=x".
// Its text is held in memory until the right end of the range is seen,
// because only then is it known whether the fallback replaces it. Memory
// use is bounded by the length of that range, not by the read buffer.
type StreamCutter struct {
	items     []Item
	delim     byte
	eol       byte
	sep       []byte
	join      bool
	fallback  []byte
	lastField Side

	src io.Reader
	buf []byte
	out *sink

	state   streamState
	pending []byte
}

// NewStreamCutter validates opts and checks that they can be streamed.
func NewStreamCutter(opts Options) (*StreamCutter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !CanStream(&opts) {
		return nil, errNotStreamable
	}
	return &StreamCutter{
		items:     opts.Bounds.Items,
		delim:     opts.Delimiter[0],
		eol:       opts.Terminator,
		sep:       opts.separator(),
		join:      opts.join(),
		fallback:  opts.Fallback,
		lastField: opts.Bounds.LastInterestingField(),
		buf:       make([]byte, opts.bufferSize()),
	}, nil
}

// Run cuts src into dst. It stops at the first read, write or resolution
// error; bytes already produced are flushed first.
func (s *StreamCutter) Run(dst io.Writer, src io.Reader) error {
	if src == nil {
		panic("swiftcut: reader source cannot be nil")
	}
	s.src = src
	s.out = newSink(dst, len(s.buf))
	s.state = streamState{}

	err := s.run()
	if ferr := s.out.Flush(); err == nil {
		err = ferr
	}
	return err
}

func (s *StreamCutter) run() error {
	empty := 0
	for {
		n, err := s.src.Read(s.buf)
		if n > 0 {
			empty = 0
			if ferr := s.feed(s.buf[:n]); ferr != nil {
				return ferr
			}
		} else if err == nil {
			if empty++; empty >= maxConsecutiveEmptyReads {
				return io.ErrNoProgress
			}
			continue
		}
		if err == io.EOF {
			return s.finish()
		}
		if err != nil {
			return err
		}
	}
}

// feed consumes one chunk of input. Lines may start and end anywhere in it.
func (s *StreamCutter) feed(chunk []byte) error {
	for len(chunk) > 0 {
		if !s.state.started {
			s.beginLine()
		}

		if s.state.skipping {
			idx := bytes.IndexByte(chunk, s.eol)
			if idx < 0 {
				return nil
			}
			chunk = chunk[idx+1:]
			if err := s.endLine(); err != nil {
				return err
			}
			continue
		}

		stop := s.nextStop(chunk)
		if stop < 0 {
			// The field goes on in the next chunk.
			s.piece(chunk)
			s.state.truncated = true
			return nil
		}

		s.piece(chunk[:stop])
		s.state.truncated = false
		hit := chunk[stop]
		chunk = chunk[stop+1:]

		if hit == s.eol {
			if err := s.endLine(); err != nil {
				return err
			}
			continue
		}
		s.endField()
		s.state.field++
	}
	return s.out.err
}

// finish ends an input whose last line has no terminator.
func (s *StreamCutter) finish() error {
	if !s.state.started {
		return nil
	}
	if !s.state.truncated {
		// The last field is empty and was never opened.
		s.piece(nil)
	}
	return s.endLine()
}

// nextStop returns the offset of the first delimiter or terminator in data.
func (s *StreamCutter) nextStop(data []byte) int {
	d := bytes.IndexByte(data, s.delim)
	limit := data
	if d >= 0 {
		limit = data[:d]
	}
	if e := bytes.IndexByte(limit, s.eol); e >= 0 {
		return e
	}
	return d
}

func (s *StreamCutter) beginLine() {
	s.state = streamState{field: 1, started: true}
	s.pending = s.pending[:0]
	s.flushLiterals()
}

// flushLiterals prints the literals at the cursor up to the next Bound.
func (s *StreamCutter) flushLiterals() {
	for s.state.cursor < len(s.items) {
		lit, ok := s.items[s.state.cursor].(Literal)
		if !ok {
			return
		}
		s.out.write(lit)
		s.state.cursor++
	}
	s.state.skipping = true
}

func (s *StreamCutter) current() (Bound, bool) {
	if s.state.cursor >= len(s.items) {
		return Bound{}, false
	}
	b, ok := s.items[s.state.cursor].(Bound)
	return b, ok
}

func (s *StreamCutter) covers(b Bound) bool {
	return b.lo() <= s.state.field && s.state.field <= b.hi()
}

func (s *StreamCutter) hasFallback(b Bound) bool {
	return b.Fallback != nil || s.fallback != nil
}

// piece handles bytes of the current field. The first piece of a field
// opens it: a separator goes in front of every field of a range but its
// first one.
func (s *StreamCutter) piece(p []byte) {
	if !s.state.truncated {
		s.openField()
	}
	if s.state.skipping {
		return
	}
	if b, ok := s.current(); ok && s.covers(b) {
		s.write(p)
	}
}

func (s *StreamCutter) openField() {
	if s.lastField != Continue && s.state.field > int(s.lastField) {
		s.state.skipping = true
		return
	}
	b, ok := s.current()
	if !ok {
		s.state.skipping = true
		return
	}
	if !s.covers(b) {
		return
	}
	if s.state.field == max(b.lo(), 1) {
		// A range that may still turn out to be out of bounds is held back
		// so that only its fallback is printed in that case.
		s.state.buffering = b.isRange() && b.Right != Continue && s.hasFallback(b)
		s.pending = s.pending[:0]
		return
	}
	s.write(s.sep)
}

func (s *StreamCutter) write(p []byte) {
	if s.state.buffering {
		s.pending = append(s.pending, p...)
		return
	}
	s.out.write(p)
}

// endField is called on every delimiter.
func (s *StreamCutter) endField() {
	b, ok := s.current()
	if ok && b.Right != Continue && s.state.field == int(b.Right) {
		s.completeBound(b)
	}
}

func (s *StreamCutter) completeBound(b Bound) {
	if s.state.buffering {
		s.state.buffering = false
		s.out.write(s.pending)
	}
	if s.join && !b.IsLast {
		s.out.write(s.sep)
	}
	s.state.cursor++
	s.flushLiterals()
}

// endLine closes the last field, prints what the line could not provide
// and writes the terminator.
func (s *StreamCutter) endLine() error {
	if b, ok := s.current(); ok && s.covers(b) && (b.Right == Continue || s.state.field == int(b.Right)) {
		s.completeBound(b)
	}

	for ; s.state.cursor < len(s.items); s.state.cursor++ {
		switch v := s.items[s.state.cursor].(type) {
		case Literal:
			s.out.write(v)
		case Bound:
			fb, err := chooseFallback(v, s.fallback, s.missing(v))
			if err != nil {
				return err
			}
			// Whatever a partial range held back is dropped.
			s.state.buffering = false
			s.out.write(fb)
			if s.join && !v.IsLast {
				s.out.write(s.sep)
			}
		}
	}

	s.out.writeByte(s.eol)
	s.state = streamState{}
	return s.out.err
}

// missing returns the error for a bound the line ended before satisfying.
func (s *StreamCutter) missing(b Bound) error {
	if b.Left != Continue && int(b.Left) > s.state.field {
		return outOfBounds(b.Left)
	}
	return outOfBounds(b.Right)
}
