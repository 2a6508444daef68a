package counter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// Watch scans roots and scans them again whenever something below them
// changes, until ctx is done. fn receives every result. Changes are picked
// up through the operating system, so Fs should be the OS filesystem.
func (s *Scanner) Watch(ctx context.Context, roots []string, fn func(*Counter, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, root := range roots {
		if err := s.watchTree(w, root); err != nil {
			return err
		}
	}
	fn(s.Scan(ctx, roots...))

	debounce := s.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := s.Fs.Stat(ev.Name); err == nil && info.IsDir() {
					if err := s.watchTree(w, ev.Name); err != nil {
						s.logger().Warn("watching new directory", "dir", ev.Name, "error", err)
					}
				}
			}
			s.logger().Debug("change", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger().Warn("watcher", "error", err)
		case <-timer.C:
			fn(s.Scan(ctx, roots...))
		}
	}
}

func (s *Scanner) watchTree(w *fsnotify.Watcher, root string) error {
	return afero.Walk(s.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if path == root {
				return w.Add(path)
			}
			return nil
		}
		if path != root && s.ignored(info.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
