package stripper

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("invalid comment language")
	// ErrUnmatchedClose matches every *UnmatchedCloseError.
	ErrUnmatchedClose = errors.New("unmatched comment close")
)

// ConfigurationError is returned before any input is read when a language
// cannot be used. Rule is -1 when the problem is not tied to one rule.
type ConfigurationError struct {
	Rule   int
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Rule < 0 {
		return fmt.Sprintf("%v: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%v: rule %d: %s", ErrConfiguration, e.Rule, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// UnmatchedCloseError reports a close pattern found outside of any comment
// for a rule that does not allow it. Offset is the 0-based character offset
// of the pattern, Line and Column are 1-based.
type UnmatchedCloseError struct {
	Rule   int
	Open   string
	Close  string
	Offset int
	Line   int
	Column int
}

func (e *UnmatchedCloseError) Error() string {
	return fmt.Sprintf("%v: %s at line %d, column %d has no matching %s (rule %d)",
		ErrUnmatchedClose, strconv.Quote(e.Close), e.Line, e.Column, strconv.Quote(e.Open), e.Rule)
}

func (e *UnmatchedCloseError) Is(target error) bool { return target == ErrUnmatchedClose }
