package stripper

import "io"

// state is either text, inComment or inNestedComment.
type state interface{ isState() }

type text struct{}

// inComment is a comment of a rule that does not nest.
type inComment struct{ rule int }

// inNestedComment is a comment of a nesting rule. depth 0 is the outermost
// level.
type inNestedComment struct{ rule, depth int }

func (text) isState()            {}
func (inComment) isState()       {}
func (inNestedComment) isState() {}

type step int

const (
	produced step = iota
	exhausted
	retry
)

type engine struct {
	table *Table
	buf   *lookahead
	state state
}

func newEngine(t *Table) *engine {
	return &engine{
		table: t,
		buf:   newLookahead(t.lookahead),
		state: text{},
	}
}

// step advances the engine by one decision. The rune is only meaningful
// when the result is produced.
func (e *engine) step(src io.RuneReader) (rune, step, error) {
	if err := e.buf.fill(src); err != nil {
		return 0, exhausted, err
	}
	if e.buf.empty() {
		// an open comment is closed by the end of input
		return 0, exhausted, nil
	}

	switch s := e.state.(type) {
	case text:
		return e.stepText()
	case inComment:
		e.stepComment(s.rule, -1)
	case inNestedComment:
		e.stepComment(s.rule, s.depth)
	}
	return 0, retry, nil
}

func (e *engine) stepText() (rune, step, error) {
	for i, r := range e.table.rules {
		if e.buf.matches(r.open) {
			e.buf.popN(len(r.open))
			if r.nests {
				e.state = inNestedComment{rule: i}
			} else {
				e.state = inComment{rule: i}
			}
			return 0, retry, nil
		}
		if !r.bareClose && e.buf.matches(r.close) {
			src := e.table.source[i]
			return 0, exhausted, &UnmatchedCloseError{
				Rule:   i,
				Open:   src.Open,
				Close:  src.Close,
				Offset: e.buf.offset,
				Line:   e.buf.line,
				Column: e.buf.column,
			}
		}
	}
	return e.buf.popOne(), produced, nil
}

// stepComment handles one step inside a comment of rule i. depth is -1 for
// rules that do not nest. Close is checked before open so that a rule whose
// markers are identical closes instead of reopening.
func (e *engine) stepComment(i, depth int) {
	r := e.table.rules[i]
	switch {
	case e.buf.matches(r.close):
		if !r.keepClose {
			e.buf.popN(len(r.close))
		}
		if depth <= 0 {
			e.state = text{}
		} else {
			e.state = inNestedComment{rule: i, depth: depth - 1}
		}
	case depth >= 0 && e.buf.matches(r.open):
		e.buf.popN(len(r.open))
		e.state = inNestedComment{rule: i, depth: depth + 1}
	default:
		e.buf.popOne()
	}
}
