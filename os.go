package massunpack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SplitStemAndExt splits the base name of path into stem and extension at the last `.`.
//
// Unlike filepath.Ext, a name whose only `.` is the leading one (dotfiles such as ".env") has no extension, so the
// returned stem is the whole base name. For example:
//
//	SplitStemAndExt("data/x.txt")     // "x", ".txt"
//	SplitStemAndExt("a/b.tar.gz")     // "b.tar", ".gz"
//	SplitStemAndExt(".env")           // ".env", ""
//	SplitStemAndExt("README")         // "README", ""
//
// Both `/` and `\` are treated as separators.
func SplitStemAndExt(path string) (stem, ext string) {
	base := path
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		base = path[i+1:]
	}

	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return base, ""
	}

	return base[:i], base[i:]
}

// NextFreeName returns the first name in the sequence `{stem}-{start}{ext}`, `{stem}-{start+1}{ext}`, and so on that
// does not exist in the parent directory.
//
// If start is 0, the first candidate is `{stem}{ext}` without any suffix. The taken function, if given, can veto
// candidates that do not exist on disk yet but are already spoken for. Existence is checked with os.Lstat so a
// dangling symlink counts as existing. The returned name is the base name only; the counter is also returned.
//
// Unlike OpenExclFile, NextFreeName does not create anything so the caller must create the file itself (or rename
// into it) before the name can be considered reserved.
func NextFreeName(parent, stem, ext string, start int, taken func(name string) bool) (name string, i int, err error) {
	for i = start; ; i++ {
		if i == 0 {
			name = stem + ext
		} else {
			name = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}

		if taken != nil && taken(name) {
			continue
		}

		switch _, err = os.Lstat(filepath.Join(parent, name)); {
		case errors.Is(err, fs.ErrNotExist):
			return name, i, nil
		case err != nil:
			return "", i, fmt.Errorf(`stat "%s" error: %w`, name, err)
		}
	}
}

// OpenExclFile creates a new file for writing with the condition that the file did not exist prior to this call.
//
// The first argument is the parent directory of the file to be created. The second argument is the stem of the file,
// the third the extension. If `{stem}{ext}` already exists, `{stem}-1{ext}`, `{stem}-2{ext}`, etc. are tried in that
// order. The file is opened with flag `os.O_RDWR|os.O_CREATE|os.O_EXCL`. Caller is responsible for closing the file
// upon a successful return.
func OpenExclFile(parent, stem, ext string, perm os.FileMode) (file *os.File, err error) {
	name := filepath.Join(parent, stem+ext)
	for i := 0; ; {
		switch file, err = os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm); {
		case err == nil:
			return
		case errors.Is(err, os.ErrExist):
			i++
			name = filepath.Join(parent, fmt.Sprintf("%s-%d%s", stem, i, ext))
		default:
			return nil, fmt.Errorf("create file error: %w", err)
		}
	}
}
