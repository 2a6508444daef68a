// Package languages holds the built-in comment tables and maps file
// extensions to them.
package languages

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"bxfferoverflow.me/no-comment/stripper"
)

var lineSlash = stripper.Rule{Open: "//", Close: "\n", KeepClose: true, AllowBareClose: true}

var rustRules = stripper.Language{
	lineSlash,
	{Open: "/*", Close: "*/", Nests: true},
}

var cRules = stripper.Language{
	lineSlash,
	{Open: "/*", Close: "*/"},
}

// The block rules never see a bare close: their open pattern is identical
// and matches first.
var pythonRules = stripper.Language{
	{Open: "#", Close: "\n", KeepClose: true, AllowBareClose: true},
	{Open: "'''", Close: "'''"},
	{Open: `"""`, Close: `"""`},
}

var haskellRules = stripper.Language{
	{Open: "--", Close: "\n", KeepClose: true, AllowBareClose: true},
	{Open: "{-", Close: "-}", Nests: true},
}

var shellRules = stripper.Language{
	{Open: "#", Close: "\n", KeepClose: true, AllowBareClose: true},
}

// PostgreSQL nests block comments.
var sqlRules = stripper.Language{
	{Open: "--", Close: "\n", KeepClose: true, AllowBareClose: true},
	{Open: "/*", Close: "*/", Nests: true},
}

// Rust has // line comments and nesting /* */ blocks.
func Rust() stripper.Language { return clone(rustRules) }

// C has // line comments and /* */ blocks that do not nest.
func C() stripper.Language { return clone(cRules) }

// Python treats # as a line comment and both triple-quoted forms as block
// comments.
func Python() stripper.Language { return clone(pythonRules) }

// Haskell has -- line comments and nesting {- -} blocks.
func Haskell() stripper.Language { return clone(haskellRules) }

// Shell only has # line comments.
func Shell() stripper.Language { return clone(shellRules) }

// SQL has -- line comments and nesting /* */ blocks.
func SQL() stripper.Language { return clone(sqlRules) }

func clone(l stripper.Language) stripper.Language {
	return append(stripper.Language(nil), l...)
}

var builtins = []struct {
	name string
	lang stripper.Language
	exts []string
}{
	{"c", cRules, []string{".c", ".h", ".cc", ".cpp", ".hpp", ".go", ".java", ".js", ".jsx", ".ts", ".tsx", ".css", ".json", ".jsonc"}},
	{"haskell", haskellRules, []string{".hs", ".lhs"}},
	{"python", pythonRules, []string{".py", ".pyw"}},
	{"rust", rustRules, []string{".rs"}},
	{"shell", shellRules, []string{".sh", ".bash", ".zsh", ".fish", ".yaml", ".yml", ".toml", ".ini", ".env"}},
	{"sql", sqlRules, []string{".sql"}},
}

// Registry maps names and extensions to compiled tables. Lookups are safe
// for concurrent use; the returned tables are immutable.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*stripper.Table
	byExt  map[string]string
}

// NewRegistry returns a registry holding the built-in languages.
func NewRegistry() *Registry {
	r := &Registry{
		tables: make(map[string]*stripper.Table),
		byExt:  make(map[string]string),
	}
	for _, b := range builtins {
		r.tables[b.name] = stripper.MustCompile(b.lang)
		for _, ext := range b.exts {
			r.byExt[ext] = b.name
		}
	}
	return r
}

// Register adds or replaces a language and claims the given extensions.
func (r *Registry) Register(name string, lang stripper.Language, exts ...string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return errors.New("language name is empty")
	}
	t, err := stripper.Compile(lang)
	if err != nil {
		return fmt.Errorf("language %q: %w", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[name] = t
	for _, ext := range exts {
		r.byExt[normalizeExt(ext)] = name
	}
	return nil
}

// MapExtension points ext at an already registered language.
func (r *Registry) MapExtension(ext, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name = strings.ToLower(name)
	if _, ok := r.tables[name]; !ok {
		return fmt.Errorf("extension %q: unknown language %q", ext, name)
	}
	r.byExt[normalizeExt(ext)] = name
	return nil
}

// Lookup returns the table registered under name.
func (r *Registry) Lookup(name string) (*stripper.Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[strings.ToLower(name)]
	return t, ok
}

// ForExtension returns the language name and table for a file extension.
func (r *Registry) ForExtension(ext string) (string, *stripper.Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byExt[normalizeExt(ext)]
	if !ok {
		return "", nil, false
	}
	return name, r.tables[name], true
}

// ForPath is ForExtension on the extension of path.
func (r *Registry) ForPath(path string) (string, *stripper.Table, bool) {
	return r.ForExtension(filepath.Ext(path))
}

// Names returns the registered language names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.tables))
}

// Extensions returns the sorted extensions mapped to name.
func (r *Registry) Extensions(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var exts []string
	for ext, n := range r.byExt {
		if n == name {
			exts = append(exts, ext)
		}
	}
	slices.Sort(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
