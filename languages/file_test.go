package languages

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bxfferoverflow.me/no-comment/stripper"
)

const luaYAML = `name: lua
extensions: [".lua"]
rules:
  - open: "--[["
    close: "]]"
  - open: "--"
    close: "\n"
    keep_close: true
    allow_bare_close: true
`

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/rules/lua.yaml", []byte(luaYAML), 0o644))

	f, err := LoadFile(fs, "/rules/lua.yaml")
	require.NoError(t, err)
	assert.Equal(t, "lua", f.Name)
	assert.Equal(t, []string{".lua"}, f.Extensions)
	assert.Equal(t, stripper.Language{
		{Open: "--[[", Close: "]]"},
		{Open: "--", Close: "\n", KeepClose: true, AllowBareClose: true},
	}, f.Rules)

	out, err := stripper.String("x --[[ gone ]] y -- tail\nz", f.Rules)
	require.NoError(t, err)
	assert.Equal(t, "x  y \nz", out)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unknown key", "rules:\n  - open: '#'\n    close: \"\\n\"\n    keepclose: true\n"},
		{"no rules", "name: nothing\n"},
		{"empty close", "rules:\n  - open: '#'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(afero.NewMemMapFs(), "/nope.yaml")
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &File{Name: "python", Extensions: []string{".py"}, Rules: Python()}))

	f, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, Python(), f.Rules)
	assert.Equal(t, "python", f.Name)
}
