package swiftcut

import (
	"bytes"
	"io"
	"log/slog"
)

// Cut copies src to dst keeping only what opts.Bounds selects. It uses the
// streaming engine when CanStream allows it and the buffered one otherwise.
// The first error aborts the run; output produced before it is flushed.
func Cut(dst io.Writer, src io.Reader, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	log := opts.logger()

	if CanStream(&opts) {
		sc, err := NewStreamCutter(opts)
		if err != nil {
			return err
		}
		log.Debug("cutting with the streaming engine",
			slog.String("bounds", opts.Bounds.String()),
			slog.Int("last_field", int(opts.Bounds.LastInterestingField())))
		return sc.Run(dst, src)
	}

	c, err := NewCutter(opts)
	if err != nil {
		return err
	}
	attrs := []any{slog.String("kind", opts.Kind.String()), slog.String("bounds", opts.Bounds.String())}
	if c.plan != nil {
		attrs = append(attrs, slog.String("strategy", c.plan.Strategy().String()))
	}
	log.Debug("cutting with the buffered engine", attrs...)
	return c.Run(dst, src)
}

// Cutter is the general purpose engine: it works on one complete line (or,
// for bytes and lines, on the complete input) at a time.
type Cutter struct {
	opts Options
	plan *FieldPlan
	fwd  Finder
	runs Finder
	sep  []byte
	join bool

	out    []byte
	work   []byte
	fields [][]byte
	json   jsonEncoder
}

// NewCutter validates opts and builds the field plan once for the run.
func NewCutter(opts Options) (*Cutter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c := &Cutter{
		opts: opts,
		sep:  opts.separator(),
		join: opts.join(),
	}
	if opts.Kind == Bytes {
		return c, nil
	}

	fwd, rev := opts.finders()
	plan, err := NewFieldPlan(opts.Bounds, fwd, rev, opts.needsCount())
	if err != nil {
		return nil, err
	}
	c.plan = plan
	c.fwd = fwd
	if opts.Compress {
		c.runs = NewGreedyFinder(opts.Delimiter)
	}
	return c, nil
}

// Run cuts every line of src, or the whole of src for bytes and lines.
func (c *Cutter) Run(dst io.Writer, src io.Reader) error {
	if c.opts.Kind == Bytes || c.opts.Kind == Lines {
		buf, err := io.ReadAll(src)
		if err != nil {
			return err
		}
		return c.CutBuffer(dst, buf)
	}

	out := newSink(dst, c.opts.bufferSize())
	lr := newLineReader(src, c.opts.Terminator, c.opts.bufferSize())
	for {
		line, err := lr.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			out.Flush()
			return err
		}

		res, skip, err := c.appendLine(c.out[:0], line)
		c.out = res
		if err != nil {
			out.Flush()
			return err
		}
		if !skip {
			out.write(res)
		}
	}
	return out.Flush()
}

// CutLine writes the cut of a single line, terminator included, to dst.
// line must not contain the terminator.
func (c *Cutter) CutLine(dst io.Writer, line []byte) error {
	if c.plan == nil {
		return internalError("CutLine called while cutting %s", c.opts.Kind)
	}
	res, skip, err := c.appendLine(c.out[:0], line)
	c.out = res
	if err != nil || skip {
		return err
	}
	_, err = dst.Write(res)
	return err
}

// CutBuffer cuts a complete input held in memory. Bytes and lines are
// selected from the buffer as a whole; fields and characters line by line.
func (c *Cutter) CutBuffer(dst io.Writer, buf []byte) error {
	var err error
	res := c.out[:0]

	switch c.opts.Kind {
	case Bytes:
		res, err = c.appendBytes(res, buf)
	case Lines:
		if len(buf) == 0 {
			break
		}
		if buf[len(buf)-1] == c.opts.Terminator {
			buf = buf[:len(buf)-1]
		}
		res, _, err = c.appendLine(res, buf)
	default:
		for len(buf) > 0 {
			line := buf
			if idx := bytes.IndexByte(buf, c.opts.Terminator); idx >= 0 {
				line, buf = buf[:idx], buf[idx+1:]
			} else {
				buf = nil
			}
			var skip bool
			mark := len(res)
			if res, skip, err = c.appendLine(res, line); err != nil {
				break
			}
			if skip {
				res = res[:mark]
			}
		}
	}
	c.out = res

	if len(res) > 0 {
		if _, werr := dst.Write(res); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

// appendLine appends the cut of line to out. skip reports lines dropped by
// OnlyDelimited. On error out holds what was appended before the failure.
func (c *Cutter) appendLine(out, line []byte) (_ []byte, skip bool, _ error) {
	line = c.prepare(line)

	if err := c.plan.Resolve(line); err != nil && !maskable(err) {
		return out, false, err
	}
	if c.opts.OnlyDelimited && c.plan.FieldCount() == 1 {
		return out, true, nil
	}

	bl, err := c.boundsFor(c.plan.FieldCount())
	if err != nil {
		return out, false, err
	}

	mark := len(out)
	if c.opts.JSON {
		out, err = c.appendJSONLine(out, line, bl)
	} else {
		out, err = c.appendFields(out, line, bl)
	}
	if err != nil {
		return out[:mark], false, err
	}
	return append(out, c.opts.Terminator), false, nil
}

// boundsFor returns the bounds to print on a line of n fields.
func (c *Cutter) boundsFor(n int) (*BoundList, error) {
	bl := c.opts.Bounds
	var err error
	if c.opts.Complement {
		if bl, err = bl.Complement(n); err != nil {
			return nil, err
		}
	}
	if c.opts.JSON || (c.opts.Kind == Characters && c.opts.Replace != nil) {
		if bl, err = bl.Unpack(n); err != nil {
			return nil, err
		}
	}
	return bl, nil
}

func (c *Cutter) appendFields(out, line []byte, bl *BoundList) ([]byte, error) {
	for _, it := range bl.Items {
		switch v := it.(type) {
		case Literal:
			out = append(out, v...)
		case Bound:
			r, err := c.plan.GetField(v, len(line))
			if err != nil {
				fb, ferr := c.fallback(v, err)
				if ferr != nil {
					return out, ferr
				}
				out = append(out, fb...)
			} else {
				out = c.appendRange(out, line[r.Start:r.End])
			}
			if c.join && !v.IsLast {
				out = append(out, c.sep...)
			}
		}
	}
	return out, nil
}

func (c *Cutter) appendJSONLine(out, line []byte, bl *BoundList) ([]byte, error) {
	c.fields = c.fields[:0]
	for _, it := range bl.Items {
		b, ok := it.(Bound)
		if !ok {
			continue
		}
		r, err := c.plan.GetField(b, len(line))
		if err != nil {
			fb, ferr := c.fallback(b, err)
			if ferr != nil {
				return out, ferr
			}
			c.fields = append(c.fields, fb)
			continue
		}
		c.fields = append(c.fields, line[r.Start:r.End])
	}
	return c.json.appendArray(out, c.fields)
}

// appendRange copies a resolved span, swapping its inner delimiters for the
// replacement when one is configured.
func (c *Cutter) appendRange(out, span []byte) []byte {
	if c.opts.Replace == nil || c.opts.Kind == Characters {
		return append(out, span...)
	}
	start := 0
	for m := range c.fwd.Find(span) {
		out = append(out, span[start:m.Start]...)
		out = append(out, c.opts.Replace...)
		start = m.End
	}
	return append(out, span[start:]...)
}

func (c *Cutter) appendBytes(out, buf []byte) ([]byte, error) {
	bl := c.opts.Bounds
	if c.opts.Complement {
		var err error
		if bl, err = bl.Complement(len(buf)); err != nil {
			return out, err
		}
	}
	for _, it := range bl.Items {
		switch v := it.(type) {
		case Literal:
			out = append(out, v...)
		case Bound:
			r, err := v.TryIntoRange(len(buf))
			if err != nil {
				fb, ferr := c.fallback(v, err)
				if ferr != nil {
					return out, ferr
				}
				out = append(out, fb...)
			} else {
				out = append(out, buf[r.Start:r.End]...)
			}
			if c.join && !v.IsLast {
				out = append(out, c.sep...)
			}
		}
	}
	return out, nil
}

// fallback returns the text printed instead of a bound that failed with err.
func (c *Cutter) fallback(b Bound, err error) ([]byte, error) {
	return chooseFallback(b, c.opts.Fallback, err)
}

func chooseFallback(b Bound, generic []byte, err error) ([]byte, error) {
	if !maskable(err) {
		return nil, err
	}
	if b.Fallback != nil {
		return b.Fallback, nil
	}
	if generic != nil {
		return generic, nil
	}
	return nil, err
}

// prepare trims and compresses the line before it is split.
func (c *Cutter) prepare(line []byte) []byte {
	if c.opts.Trim != TrimNone {
		line = c.trim(line)
	}
	if c.opts.Compress {
		line = c.compress(line)
	}
	return line
}

func (c *Cutter) trim(line []byte) []byte {
	left := c.opts.Trim == TrimLeft || c.opts.Trim == TrimBoth
	right := c.opts.Trim == TrimRight || c.opts.Trim == TrimBoth

	if re := c.opts.Pattern; re != nil {
		if left {
			for {
				loc := re.FindIndex(line)
				if loc == nil || loc[0] != 0 || loc[1] == 0 {
					break
				}
				line = line[loc[1]:]
			}
		}
		if right {
			for {
				cut := -1
				for _, loc := range re.FindAllIndex(line, -1) {
					if loc[1] == len(line) && loc[0] < loc[1] {
						cut = loc[0]
					}
				}
				if cut < 0 {
					break
				}
				line = line[:cut]
			}
		}
		return line
	}

	d := c.opts.Delimiter
	if left {
		for bytes.HasPrefix(line, d) {
			line = line[len(d):]
		}
	}
	if right {
		for bytes.HasSuffix(line, d) {
			line = line[:len(line)-len(d)]
		}
	}
	return line
}

// compress collapses every run of delimiters into a single one.
func (c *Cutter) compress(line []byte) []byte {
	c.work = c.work[:0]
	start := 0
	for m := range c.runs.Find(line) {
		c.work = append(c.work, line[start:m.Start]...)
		c.work = append(c.work, c.opts.Delimiter...)
		start = m.End
	}
	if start == 0 {
		return line
	}
	c.work = append(c.work, line[start:]...)
	return c.work
}
