package extract

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// TargetPath returns where the entry with the given decoded name would be written under root.
//
// Backslashes are treated as separators. A rooted name (leading separator, drive letter, or UNC volume) is not made
// relative: it replaces root altogether so that IsSafePath rejects it.
func TargetPath(root, name string) string {
	name = strings.ReplaceAll(name, `\`, "/")

	if path.IsAbs(name) || hasDriveLetter(name) || filepath.IsAbs(filepath.FromSlash(name)) {
		return filepath.Clean(string(filepath.Separator) + filepath.FromSlash(name))
	}

	return filepath.Join(root, filepath.FromSlash(name))
}

func hasDriveLetter(name string) bool {
	return len(name) >= 2 && name[1] == ':' && ('a' <= name[0] && name[0] <= 'z' || 'A' <= name[0] && name[0] <= 'Z')
}

// IsSafePath returns true only if candidate is root itself or is inside root.
//
// Both paths are made absolute, then the longest existing prefix of each is resolved with filepath.EvalSymlinks so that
// a symlink inside root pointing outside of it is caught. Components that do not exist yet are appended as-is. Any
// other error resolving either path makes the candidate unsafe.
func IsSafePath(root, candidate string) bool {
	r, err := resolve(root)
	if err != nil {
		return false
	}

	c, err := resolve(candidate)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(r, c)
	if err != nil {
		return false
	}

	return rel == "." || rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func resolve(name string) (string, error) {
	cur, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}

	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", err
		}

		missing = append([]string{filepath.Base(cur)}, missing...)
		cur = parent
	}
}
