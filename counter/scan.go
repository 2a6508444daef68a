package counter

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"bxfferoverflow.me/no-comment/input"
	"bxfferoverflow.me/no-comment/languages"
	"bxfferoverflow.me/no-comment/stripper"
)

// Scanner walks directory trees and counts every file whose language it
// knows. Directories are walked concurrently; at most Workers files are
// read at a time.
type Scanner struct {
	Fs         afero.Fs
	Registry   *languages.Registry
	IgnoreDirs []string
	Workers    int
	// Encoding of the files, empty for UTF-8.
	Encoding string
	Logger   *slog.Logger
	// Debounce is how long Watch waits for changes to settle.
	Debounce time.Duration
}

type scan struct {
	*Scanner
	ctx     context.Context
	wg      sync.WaitGroup
	sem     chan struct{}
	counter *Counter
}

// Scan counts everything below roots. A root may also be a single file,
// which is counted as long as its language is known. When ctx is cancelled
// the partial counter is returned together with ctx.Err().
func (s *Scanner) Scan(ctx context.Context, roots ...string) (*Counter, error) {
	sc := &scan{
		Scanner: s,
		ctx:     ctx,
		sem:     make(chan struct{}, max(s.Workers, 1)),
		counter: NewCounter(),
	}
	for _, root := range roots {
		info, err := s.Fs.Stat(root)
		if err != nil {
			sc.wg.Wait()
			return nil, err
		}
		if info.IsDir() {
			sc.wg.Add(1)
			go func(p string) {
				defer sc.wg.Done()
				sc.dir(p)
			}(root)
			continue
		}
		if !sc.file(root) {
			s.logger().Warn("unknown language, skipping", "path", root)
		}
	}
	sc.wg.Wait()
	return sc.counter, ctx.Err()
}

func (s *Scanner) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Scanner) ignored(name string) bool {
	return slices.Contains(s.IgnoreDirs, name)
}

func (sc *scan) dir(dir string) {
	entries, err := afero.ReadDir(sc.Fs, dir)
	if err != nil {
		sc.logger().Warn("reading directory", "dir", dir, "error", err)
		return
	}

	for _, entry := range entries {
		if sc.ctx.Err() != nil {
			return
		}
		fullPath := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if sc.ignored(entry.Name()) {
				continue
			}
			sc.wg.Add(1)
			go func(p string) {
				defer sc.wg.Done()
				sc.dir(p)
			}(fullPath)
		} else {
			sc.file(fullPath)
		}
	}
}

// file schedules path for counting and reports whether its language is
// known.
func (sc *scan) file(path string) bool {
	name := input.Name(path)
	lang, table, ok := sc.Registry.ForPath(name)
	if !ok {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))

	sc.wg.Add(1)
	go func() {
		defer sc.wg.Done()
		select {
		case sc.sem <- struct{}{}:
		case <-sc.ctx.Done():
			return
		}
		defer func() { <-sc.sem }()
		sc.count(path, ext, lang, table)
	}()
	return true
}

func (sc *scan) count(path, ext, lang string, table *stripper.Table) {
	st, err := sc.measure(path, table)
	if err != nil {
		sc.logger().Warn("skipping file", "path", path, "error", err)
		sc.counter.Fail(path, err)
		return
	}
	st.Path = path
	st.Ext = ext
	st.Language = lang
	sc.counter.Inc(st)
	sc.logger().Debug("processed", "path", path, "language", lang, "lines", st.Lines, "code", st.Code)
}

func (sc *scan) measure(path string, table *stripper.Table) (FileStats, error) {
	rc, err := input.Open(sc.Fs, path, sc.Encoding)
	if err != nil {
		return FileStats{}, err
	}
	defer rc.Close()
	return Analyze(rc, table)
}
