package stripper

// Rule is one syntactic comment form of a language.
type Rule struct {
	Open  string `yaml:"open" mapstructure:"open"`
	Close string `yaml:"close" mapstructure:"close"`
	// Nests allows the same rule to reopen inside itself.
	Nests bool `yaml:"nests,omitempty" mapstructure:"nests"`
	// KeepClose re-emits the close text once matched, so a line comment
	// still produces its newline.
	KeepClose bool `yaml:"keep_close,omitempty" mapstructure:"keep_close"`
	// AllowBareClose treats the close pattern as ordinary text when it
	// shows up outside of this rule's comment.
	AllowBareClose bool `yaml:"allow_bare_close,omitempty" mapstructure:"allow_bare_close"`
}

// Language is an ordered list of rules. Rules are tried top to bottom and
// the first match wins, so the order matters.
type Language []Rule

// Validate reports whether the language can drive a stream.
func (l Language) Validate() error {
	if len(l) == 0 {
		return &ConfigurationError{Rule: -1, Reason: "language has no rules"}
	}
	for i, r := range l {
		if r.Open == "" {
			return &ConfigurationError{Rule: i, Reason: "empty open pattern"}
		}
		if r.Close == "" {
			return &ConfigurationError{Rule: i, Reason: "empty close pattern"}
		}
	}
	return nil
}

// Lookahead returns the length in characters of the longest pattern.
func (l Language) Lookahead() int {
	n := 0
	for _, r := range l {
		n = max(n, runeCount(r.Open), runeCount(r.Close))
	}
	return n
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

type compiledRule struct {
	open      []rune
	close     []rune
	nests     bool
	keepClose bool
	bareClose bool
}

// Table is a compiled language. It is never mutated after Compile and can
// be shared by any number of streams.
type Table struct {
	rules     []compiledRule
	source    Language
	lookahead int
}

// Compile validates lang and prepares it for matching.
func Compile(lang Language) (*Table, error) {
	if err := lang.Validate(); err != nil {
		return nil, err
	}
	t := &Table{
		rules:     make([]compiledRule, len(lang)),
		source:    append(Language(nil), lang...),
		lookahead: lang.Lookahead(),
	}
	for i, r := range lang {
		t.rules[i] = compiledRule{
			open:      []rune(r.Open),
			close:     []rune(r.Close),
			nests:     r.Nests,
			keepClose: r.KeepClose,
			bareClose: r.AllowBareClose,
		}
	}
	return t, nil
}

// MustCompile is like Compile but panics on an invalid language. It is
// meant for presets declared as package variables.
func MustCompile(lang Language) *Table {
	t, err := Compile(lang)
	if err != nil {
		panic(err)
	}
	return t
}

// Language returns a copy of the rules the table was compiled from.
func (t *Table) Language() Language {
	return append(Language(nil), t.source...)
}

// Lookahead is the buffer capacity streams over this table use.
func (t *Table) Lookahead() int { return t.lookahead }
