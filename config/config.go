// Package config loads the .nocomment configuration file.
//
// A configuration can add languages, remap extensions and tune the directory
// scanner:
//
//	requires: ">=0.3.0"
//	log_level: debug
//	color: auto
//	workers: 8
//	ignore_dirs: [".git", "vendor"]
//	extensions:
//	  ".m": c
//	languages:
//	  lua:
//	    extensions: [".lua"]
//	    rules:
//	      - open: "--[["
//	        close: "]]"
//	      - open: "--"
//	        close: "\n"
//	        keep_close: true
//	        allow_bare_close: true
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/blang/semver"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"bxfferoverflow.me/no-comment/languages"
	"bxfferoverflow.me/no-comment/stripper"
)

// Name is the base name of the configuration file, searched for in the
// working directory and then in the home directory.
const Name = ".nocomment"

// DefaultIgnoreDirs are skipped by the directory scanner.
var DefaultIgnoreDirs = []string{".git", ".idea", ".vscode", ".DS_Store", "build", "dist", "node_modules", "vendor", "tmp", "logs", "cache", ".next", ".venv"}

// Language is a custom language section.
type Language struct {
	Extensions []string          `mapstructure:"extensions"`
	Rules      stripper.Language `mapstructure:"rules"`
}

type Config struct {
	LogLevel   string            `mapstructure:"log_level"`
	Color      string            `mapstructure:"color"`
	Workers    int               `mapstructure:"workers"`
	IgnoreDirs []string          `mapstructure:"ignore_dirs"`
	Extensions map[string]string `mapstructure:"extensions"`
	Requires   string            `mapstructure:"requires"`

	// Languages is decoded separately, see decodeLanguages.
	Languages map[string]Language `mapstructure:"-"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-"`
}

// New returns a viper instance with defaults and NOCOMMENT_ environment
// overrides. Extensions contain dots, so the key delimiter is "::".
func New(fs afero.Fs) *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetFs(fs)
	v.SetDefault("log_level", "info")
	v.SetDefault("color", "auto")
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("ignore_dirs", DefaultIgnoreDirs)
	v.SetEnvPrefix("NOCOMMENT")
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. With an empty path the usual locations are
// searched and a missing file is not an error; an explicit path must exist.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	langs, err := decodeLanguages(v.Get("languages"))
	if err != nil {
		return nil, err
	}
	cfg.Languages = langs
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decodeLanguages is strict about unknown keys: a misspelt rule flag would
// otherwise silently read as false.
func decodeLanguages(raw any) (map[string]Language, error) {
	if raw == nil {
		return nil, nil
	}
	var out map[string]Language
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding languages: %w", err)
	}
	return out, nil
}

func (c *Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Requires != "" {
		if _, err := semver.ParseRange(c.Requires); err != nil {
			return fmt.Errorf("requires: %w", err)
		}
	}
	for name, l := range c.Languages {
		if err := l.Rules.Validate(); err != nil {
			return fmt.Errorf("language %q: %w", name, err)
		}
	}
	return nil
}

// CheckVersion fails when version does not satisfy the requires range.
func (c *Config) CheckVersion(version string) error {
	if c.Requires == "" {
		return nil
	}
	rng, err := semver.ParseRange(c.Requires)
	if err != nil {
		return fmt.Errorf("requires: %w", err)
	}
	v, err := semver.Parse(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("version %q: %w", version, err)
	}
	if !rng(v) {
		return fmt.Errorf("configuration requires %s, this is %s", c.Requires, v)
	}
	return nil
}

// Apply registers the custom languages, then the extension overrides, so an
// override may point at a custom language.
func (c *Config) Apply(r *languages.Registry) error {
	names := make([]string, 0, len(c.Languages))
	for name := range c.Languages {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		l := c.Languages[name]
		if err := r.Register(name, l.Rules, l.Extensions...); err != nil {
			return err
		}
	}
	for ext, name := range c.Extensions {
		if err := r.MapExtension(ext, name); err != nil {
			return err
		}
	}
	return nil
}
