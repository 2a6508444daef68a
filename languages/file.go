package languages

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"bxfferoverflow.me/no-comment/stripper"
)

// File is the YAML form of a language table:
//
//	name: lua
//	extensions: [".lua"]
//	rules:
//	  - open: "--[["
//	    close: "]]"
//	  - open: "--"
//	    close: "\n"
//	    keep_close: true
//	    allow_bare_close: true
//
// Rules are a list, never a map, so their priority survives the round trip.
type File struct {
	Name       string            `yaml:"name,omitempty"`
	Extensions []string          `yaml:"extensions,omitempty,flow"`
	Rules      stripper.Language `yaml:"rules"`
}

// Decode reads one table from r. Unknown keys are rejected so that a
// misspelt flag does not silently fall back to false.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty language file")
		}
		return nil, err
	}
	if err := f.Rules.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile decodes the table stored at path.
func LoadFile(fs afero.Fs, path string) (*File, error) {
	fh, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Encode writes f to w as YAML.
func Encode(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}
