package stripper

import (
	"errors"
	"io"
)

// lookahead is a bounded window over the next characters of the source.
// Its length equals its capacity until the source runs dry; after that it
// only shrinks.
type lookahead struct {
	buf  []rune
	done bool

	// position of buf[0] in the input
	offset int
	line   int
	column int
}

func newLookahead(capacity int) *lookahead {
	return &lookahead{
		buf:    make([]rune, 0, capacity),
		line:   1,
		column: 1,
	}
}

// fill tops the buffer up from src. io.EOF marks the source exhausted and
// is not returned; any other error is.
func (b *lookahead) fill(src io.RuneReader) error {
	for !b.done && len(b.buf) < cap(b.buf) {
		r, _, err := src.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				b.done = true
				return nil
			}
			return err
		}
		b.buf = append(b.buf, r)
	}
	return nil
}

func (b *lookahead) empty() bool { return len(b.buf) == 0 }

func (b *lookahead) matches(pattern []rune) bool {
	if len(pattern) > len(b.buf) {
		return false
	}
	for i, r := range pattern {
		if b.buf[i] != r {
			return false
		}
	}
	return true
}

func (b *lookahead) popOne() rune {
	if len(b.buf) == 0 {
		panic("stripper: pop from empty lookahead")
	}
	r := b.buf[0]
	copy(b.buf, b.buf[1:])
	b.buf = b.buf[:len(b.buf)-1]

	b.offset++
	if r == '\n' {
		b.line++
		b.column = 1
	} else {
		b.column++
	}
	return r
}

func (b *lookahead) popN(n int) {
	for range n {
		b.popOne()
	}
}
