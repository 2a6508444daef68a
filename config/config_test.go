package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bxfferoverflow.me/no-comment/languages"
	"bxfferoverflow.me/no-comment/stripper"
)

const fullConfig = `
requires: ">=0.2.0 <1.0.0"
log_level: debug
color: never
workers: 3
ignore_dirs: [".git", "third_party"]
extensions:
  ".m": c
  ".rockspec": lua
languages:
  lua:
    extensions: [".lua"]
    rules:
      - open: "--[["
        close: "]]"
      - open: "--"
        close: "\n"
        keep_close: true
        allow_bare_close: true
`

func writeConfig(t *testing.T, fs afero.Fs, path, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o644))
}

func TestLoadExplicitFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "/etc/nocomment.yaml", fullConfig)

	cfg, err := Load(New(fs), "/etc/nocomment.yaml")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, []string{".git", "third_party"}, cfg.IgnoreDirs)
	assert.Equal(t, map[string]string{".m": "c", ".rockspec": "lua"}, cfg.Extensions)
	assert.Equal(t, "/etc/nocomment.yaml", cfg.File)
	require.Contains(t, cfg.Languages, "lua")
	assert.Equal(t, stripper.Language{
		{Open: "--[[", Close: "]]"},
		{Open: "--", Close: "\n", KeepClose: true, AllowBareClose: true},
	}, cfg.Languages["lua"].Rules)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(afero.NewMemMapFs()), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.Color)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, DefaultIgnoreDirs, cfg.IgnoreDirs)
	assert.Empty(t, cfg.Languages)
	assert.Empty(t, cfg.File)
}

func TestLoadSearchesWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, filepath.Join(wd, Name+".toml"), "workers = 5\n")

	cfg, err := Load(New(fs), "")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Workers)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NOCOMMENT_LOG_LEVEL", "warn")
	cfg, err := Load(New(afero.NewMemMapFs()), "")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad color", "color: sometimes\n"},
		{"no workers", "workers: 0\n"},
		{"bad range", "requires: \"~~1\"\n"},
		{"misspelt rule key", "languages:\n  x:\n    rules:\n      - open: '#'\n        close: \"\\n\"\n        keepclose: true\n"},
		{"empty close", "languages:\n  x:\n    rules:\n      - open: '#'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeConfig(t, fs, "/c.yaml", tt.body)
			_, err := Load(New(fs), "/c.yaml")
			assert.Error(t, err)
		})
	}

	_, err := Load(New(afero.NewMemMapFs()), "/missing.yaml")
	assert.Error(t, err, "an explicit path must exist")
}

func TestCheckVersion(t *testing.T) {
	cfg := &Config{Requires: ">=0.2.0 <1.0.0"}
	assert.NoError(t, cfg.CheckVersion("0.3.0"))
	assert.NoError(t, cfg.CheckVersion("v0.2.0"))
	assert.Error(t, cfg.CheckVersion("1.0.0"))
	assert.Error(t, cfg.CheckVersion("0.1.9"))
	assert.Error(t, cfg.CheckVersion("dev"))

	assert.NoError(t, (&Config{}).CheckVersion("dev"))
}

func TestApply(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "/c.yaml", fullConfig)
	cfg, err := Load(New(fs), "/c.yaml")
	require.NoError(t, err)

	r := languages.NewRegistry()
	require.NoError(t, cfg.Apply(r))

	for path, want := range map[string]string{
		"init.lua":       "lua",
		"pkg.rockspec":   "lua",
		"Foundation.m":   "c",
		"still_works.rs": "rust",
	} {
		name, _, ok := r.ForPath(path)
		require.True(t, ok, path)
		assert.Equal(t, want, name, path)
	}
}

func TestApplyUnknownLanguage(t *testing.T) {
	cfg := &Config{Extensions: map[string]string{".x": "cobol"}}
	assert.Error(t, cfg.Apply(languages.NewRegistry()))
}
