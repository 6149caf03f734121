package collision

import (
	"path"
	"path/filepath"

	"github.com/nguyengg/massunpack"
)

// UniqueName returns a relative path in the same directory as rel that does not exist under root.
//
// The counter is inserted before the extension and starts at 1: "data/x.txt" becomes "data/x-1.txt", then
// "data/x-2.txt", and so on until an unused name is found. There is no upper bound on the counter. If taken is given,
// relative paths for which it returns true are skipped as well. The returned path is slash-separated.
func UniqueName(root, rel string, taken func(rel string) bool) (string, error) {
	key := Key(rel)
	dir := path.Dir(key)
	stem, ext := massunpack.SplitStemAndExt(key)

	name, _, err := massunpack.NextFreeName(filepath.Join(root, filepath.FromSlash(dir)), stem, ext, 1, func(name string) bool {
		return taken != nil && taken(path.Join(dir, name))
	})
	if err != nil {
		return "", err
	}

	return path.Join(dir, name), nil
}
