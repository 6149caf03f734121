package extract

import (
	"archive/zip"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// entry describes one entry of a test archive.
type entry struct {
	name    string
	content string
	// nonUTF8 writes name as raw bytes without the UTF-8 flag.
	nonUTF8 bool
	// fakeSize if non-zero is written as the uncompressed size instead of the real one, content is stored as-is.
	fakeSize uint64
	// badCRC stores content with a wrong CRC-32.
	badCRC bool
}

// writeZip creates a ZIP archive in dir with the given entries in order. Names ending in "/" are directories.
func writeZip(t *testing.T, dir, name string, entries ...entry) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		fh := &zip.FileHeader{Name: e.name, Method: zip.Deflate, NonUTF8: e.nonUTF8}

		if e.fakeSize != 0 || e.badCRC {
			fh.Method = zip.Store
			fh.CRC32 = crc32.ChecksumIEEE([]byte(e.content))
			if e.badCRC {
				fh.CRC32 ^= 0xffffffff
			}
			fh.CompressedSize64 = uint64(len(e.content))
			fh.UncompressedSize64 = uint64(len(e.content))
			if e.fakeSize != 0 {
				fh.UncompressedSize64 = e.fakeSize
			}

			w, err := zw.CreateRaw(fh)
			require.NoError(t, err)
			_, err = w.Write([]byte(e.content))
			require.NoError(t, err)
			continue
		}

		w, err := zw.CreateHeader(fh)
		require.NoError(t, err)
		if !strings.HasSuffix(e.name, "/") {
			_, err = w.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}

	require.NoError(t, zw.Close())
	return path
}

// listFiles returns the slash-separated relative paths of all regular files under root, sorted.
func listFiles(t *testing.T, root string) []string {
	t.Helper()

	files := make([]string, 0)
	require.NoError(t, filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, filepath.ToSlash(rel))
		return nil
	}))

	slices.Sort(files)
	return files
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// plenty reports a lot of free space so that tests do not depend on the machine.
func plenty(string) (uint64, error) {
	return 1 << 50, nil
}

func newTestExtractor(t *testing.T, root string, method string, optFns ...func(*Options)) *Extractor {
	t.Helper()

	x, err := New(root, collisionMethod(t, method), append([]func(*Options){func(opts *Options) {
		opts.FreeSpace = plenty
	}}, optFns...)...)
	require.NoError(t, err)
	return x
}
