// Package counter measures source trees: lines, blank lines, lines of code
// left after stripping comments, and what the comments took up.
package counter

import (
	"bytes"
	"cmp"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/rivo/uniseg"

	"bxfferoverflow.me/no-comment/stripper"
)

type Totals struct {
	Files   int64
	Lines   int64
	Blank   int64
	Code    int64
	Comment int64
	// Removed counts the user-perceived characters that were comments.
	Removed int64
}

func (t Totals) AverageLinesPerFile() float64 {
	if t.Files == 0 {
		return 0
	}
	return float64(t.Lines) / float64(t.Files)
}

func (t *Totals) add(f FileStats) {
	t.Files++
	t.Lines += int64(f.Lines)
	t.Blank += int64(f.Blank)
	t.Code += int64(f.Code)
	t.Comment += int64(f.Comment)
	t.Removed += int64(f.Removed)
}

// ExtStats are the totals of one file extension.
type ExtStats struct {
	Ext      string
	Language string
	Totals
}

// FileStats describe one file.
type FileStats struct {
	Path     string
	Ext      string
	Language string
	Lines    int
	Blank    int
	// Code is the number of non-blank lines once comments are gone.
	Code int
	// Comment is the number of non-blank lines that only held comments.
	Comment int
	Removed int
}

// Failure is a file that could not be measured, typically because of an
// unmatched comment close.
type Failure struct {
	Path string
	Err  error
}

type Counter struct {
	mu       sync.Mutex
	total    Totals
	byExt    map[string]*ExtStats
	failures []Failure
}

func NewCounter() *Counter {
	return &Counter{
		byExt: make(map[string]*ExtStats),
	}
}

func (c *Counter) Inc(f FileStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total.add(f)
	s, ok := c.byExt[f.Ext]
	if !ok {
		s = &ExtStats{Ext: f.Ext, Language: f.Language}
		c.byExt[f.Ext] = s
	}
	s.add(f)
}

func (c *Counter) Fail(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, Failure{Path: path, Err: err})
}

func (c *Counter) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// ByExt returns a copy of the per-extension totals, largest first.
func (c *Counter) ByExt() []ExtStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]ExtStats, 0, len(c.byExt))
	for _, s := range c.byExt {
		result = append(result, *s)
	}
	slices.SortFunc(result, func(a, b ExtStats) int {
		return cmp.Or(cmp.Compare(b.Lines, a.Lines), strings.Compare(a.Ext, b.Ext))
	})
	return result
}

// Failures returns the failed files sorted by path.
func (c *Counter) Failures() []Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := slices.Clone(c.failures)
	slices.SortFunc(result, func(a, b Failure) int { return strings.Compare(a.Path, b.Path) })
	return result
}

// Analyze reads r to the end and measures it against the comment table t.
// Path, Ext and Language are left for the caller to fill in.
func Analyze(r io.Reader, t *stripper.Table) (FileStats, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return FileStats{}, err
	}
	var stripped bytes.Buffer
	stripped.Grow(len(content))
	if _, err := stripper.NewReader(bytes.NewReader(content), t).WriteTo(&stripped); err != nil {
		return FileStats{}, err
	}

	var st FileStats
	nonBlank := 0
	forEachLine(content, func(line []byte) {
		st.Lines++
		if len(bytes.TrimSpace(line)) == 0 {
			st.Blank++
		} else {
			nonBlank++
		}
	})
	forEachLine(stripped.Bytes(), func(line []byte) {
		if len(bytes.TrimSpace(line)) != 0 {
			st.Code++
		}
	})
	// block comments swallow newlines, so this is an estimate
	st.Comment = max(nonBlank-st.Code, 0)
	st.Removed = uniseg.GraphemeClusterCount(string(content)) - uniseg.GraphemeClusterCount(stripped.String())
	return st, nil
}

// forEachLine calls fn for every line of b without its newline. A trailing
// newline does not start another line.
func forEachLine(b []byte, fn func([]byte)) {
	for len(b) > 0 {
		i := bytes.IndexByte(b, '\n')
		if i < 0 {
			fn(b)
			return
		}
		fn(b[:i])
		b = b[i+1:]
	}
}
