// Package input opens files for stripping, undoing xz compression and
// decoding legacy character sets on the way.
package input

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
	"golang.org/x/text/encoding/htmlindex"
)

const xzExt = ".xz"

// Name returns the name that decides the language of path: the path itself,
// or the path without its .xz suffix.
func Name(path string) string {
	if strings.HasSuffix(strings.ToLower(path), xzExt) {
		return path[:len(path)-len(xzExt)]
	}
	return path
}

// Decode wraps r so that it yields UTF-8. An empty name or any alias of
// UTF-8 leaves r alone.
func Decode(r io.Reader, name string) (io.Reader, error) {
	if name == "" {
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", name, err)
	}
	if canonical, _ := htmlindex.Name(enc); canonical == "utf-8" {
		return r, nil
	}
	return enc.NewDecoder().Reader(r), nil
}

type file struct {
	io.Reader
	io.Closer
}

// Open opens path on fs and returns its UTF-8 content.
func Open(fs afero.Fs, path, encoding string) (io.ReadCloser, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}

	var r io.Reader = f
	if Name(path) != path {
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		r = xr
	}
	r, err = Decode(r, encoding)
	if err != nil {
		f.Close()
		return nil, err
	}
	return file{Reader: r, Closer: f}, nil
}
