package input

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestName(t *testing.T) {
	assert.Equal(t, "main.go", Name("main.go"))
	assert.Equal(t, "src/lib.rs", Name("src/lib.rs.xz"))
	assert.Equal(t, "dump.sql", Name("dump.sql.XZ"))
	assert.Equal(t, "", Name(".xz"))
}

func compress(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = io.WriteString(w, s)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.c", []byte("int x; // c\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/b.rs.xz", compress(t, "fn main() {} /* rs */"), 0o644))
	// "café # é" in latin1
	require.NoError(t, afero.WriteFile(fs, "/src/c.py", []byte{'c', 'a', 'f', 0xe9, ' ', '#', ' ', 0xe9}, 0o644))

	tests := []struct {
		path, encoding, want string
	}{
		{"/src/a.c", "", "int x; // c\n"},
		{"/src/a.c", "utf8", "int x; // c\n"},
		{"/src/b.rs.xz", "", "fn main() {} /* rs */"},
		{"/src/c.py", "latin1", "café # é"},
	}
	for _, tt := range tests {
		t.Run(tt.path+tt.encoding, func(t *testing.T) {
			rc, err := Open(fs, tt.path, tt.encoding)
			require.NoError(t, err)
			defer rc.Close()
			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestOpenErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.c.xz", []byte("not xz at all"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/ok.c", []byte("x"), 0o644))

	_, err := Open(fs, "/missing.c", "")
	assert.Error(t, err)
	_, err = Open(fs, "/bad.c.xz", "")
	assert.Error(t, err)
	_, err = Open(fs, "/ok.c", "no-such-charset")
	assert.Error(t, err)
}
