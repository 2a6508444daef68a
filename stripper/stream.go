// Package stripper removes comments from a character stream.
//
// A Language is an ordered list of comment rules. A Stream pulls characters
// from a source on demand, looks ahead as many characters as the longest
// pattern, and yields everything that is not part of a comment. String
// literals are not recognized: a comment marker inside quotes still opens a
// comment.
package stripper

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"strings"
	"unicode/utf8"
)

// Stream is the comment-free view of a source. It is not restartable and
// not safe for concurrent use. Read and ReadRune should not be mixed on the
// same stream.
type Stream struct {
	src    io.RuneReader
	engine *engine
	err    error

	pending []byte
	scratch [utf8.UTFMax]byte
}

// New returns a stream over src using the compiled table t.
func New(src io.RuneReader, t *Table) *Stream {
	return &Stream{src: src, engine: newEngine(t)}
}

// NewReader is like New for a plain io.Reader. Sources that do not read
// runes themselves are buffered.
func NewReader(r io.Reader, t *Table) *Stream {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	return New(rr, t)
}

// Strip compiles lang and returns a stream over src. An unusable language
// fails here, before anything is read.
func Strip(src io.RuneReader, lang Language) (*Stream, error) {
	t, err := Compile(lang)
	if err != nil {
		return nil, err
	}
	return New(src, t), nil
}

// String strips the comments of lang from s.
func String(s string, lang Language) (string, error) {
	st, err := Strip(strings.NewReader(s), lang)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.Grow(len(s))
	if _, err := st.WriteTo(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// next drives the engine until it produces a rune or runs out. Errors are
// sticky: once next fails, it keeps failing the same way.
func (s *Stream) next() (rune, error) {
	if s.err != nil {
		return 0, s.err
	}
	for {
		r, res, err := s.engine.step(s.src)
		if err != nil {
			s.err = err
			return 0, err
		}
		switch res {
		case produced:
			return r, nil
		case exhausted:
			s.err = io.EOF
			return 0, io.EOF
		}
	}
}

// ReadRune implements io.RuneReader.
func (s *Stream) ReadRune() (rune, int, error) {
	r, err := s.next()
	if err != nil {
		return 0, 0, err
	}
	return r, utf8.RuneLen(r), nil
}

// Read implements io.Reader, writing the output as UTF-8.
func (s *Stream) Read(p []byte) (int, error) {
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	for n < len(p) {
		r, err := s.next()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		size := utf8.EncodeRune(s.scratch[:], r)
		c := copy(p[n:], s.scratch[:size])
		n += c
		if c < size {
			s.pending = s.scratch[c:size]
		}
	}
	return n, nil
}

// WriteTo implements io.WriterTo.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	n, err := bw.Write(s.pending)
	s.pending = nil
	total := int64(n)
	if err != nil {
		return total, err
	}
	for {
		r, err := s.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ferr := bw.Flush(); ferr != nil {
				return total, ferr
			}
			return total, err
		}
		size, err := bw.WriteRune(r)
		total += int64(size)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

// Runes yields the remaining output. Iteration ends at the end of input or
// after the first error, which is yielded with a zero rune.
func (s *Stream) Runes() iter.Seq2[rune, error] {
	return func(yield func(rune, error) bool) {
		for {
			r, err := s.next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(r, err) || err != nil {
				return
			}
		}
	}
}
