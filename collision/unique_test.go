package collision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data/x.txt", "x")

	// every returned name is absent from disk, and creating it makes the next call return the next counter.
	for i, want := range []string{"data/x-1.txt", "data/x-2.txt", "data/x-3.txt"} {
		got, err := UniqueName(root, "data/x.txt", nil)
		require.NoError(t, err)
		assert.Equalf(t, want, got, "call %d", i+1)

		_, err = os.Stat(filepath.Join(root, filepath.FromSlash(got)))
		assert.ErrorIs(t, err, os.ErrNotExist)

		writeFile(t, root, got, "x")
	}
}

func TestUniqueName_variants(t *testing.T) {
	tests := []struct {
		name  string
		rel   string
		taken map[string]bool
		want  string
	}{
		{name: "top level", rel: "x.txt", want: "x-1.txt"},
		{name: "no extension", rel: "a/README", want: "a/README-1"},
		{name: "dotfile", rel: "conf/.env", want: "conf/.env-1"},
		{name: "last extension only", rel: "b/pkg.tar.gz", want: "b/pkg.tar-1.gz"},
		{name: "backslashes", rel: `w\y.txt`, want: "w/y-1.txt"},
		{name: "taken", rel: "x.txt", taken: map[string]bool{"x-1.txt": true}, want: "x-2.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UniqueName(t.TempDir(), tt.rel, func(rel string) bool {
				return tt.taken[rel]
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
