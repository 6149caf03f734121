package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyengg/massunpack"
)

// Mover moves processed archives out of the way.
type Mover struct {
	// OK receives archives that were extracted without any error.
	OK string
	// Err receives archives that had at least one error.
	Err string
}

// Move moves the archive into the OK or Err directory depending on success, returning its new path.
//
// The directory is created if needed. If a file with the same name is already there, a `-N` suffix is added before
// the extension. An empty directory disables moving for that outcome, in which case the returned path is empty.
func (m *Mover) Move(ctx context.Context, archive string, success bool) (string, error) {
	dir := m.OK
	if !success {
		dir = m.Err
	}
	if dir == "" {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory error: %w", err)
	}

	stem, ext := massunpack.SplitStemAndExt(archive)

	name, _, err := massunpack.NextFreeName(dir, stem, ext, 0, nil)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(dir, name)
	if err = os.Rename(archive, dst); err == nil {
		return dst, nil
	}

	// rename does not work across file systems.
	return m.copy(ctx, archive, dir, stem, ext)
}

// copy copies the archive into dir under a name that did not exist then removes the original.
func (m *Mover) copy(ctx context.Context, archive, dir, stem, ext string) (string, error) {
	src, err := os.Open(archive)
	if err != nil {
		return "", fmt.Errorf("open archive error: %w", err)
	}
	defer src.Close()

	dst, err := massunpack.OpenExclFile(dir, stem, ext, 0644)
	if err != nil {
		return "", err
	}

	name := dst.Name()
	if _, err = massunpack.CopyBufferWithContext(ctx, dst, src, nil); err != nil {
		_, _ = dst.Close(), os.Remove(name)
		return "", fmt.Errorf("copy archive error: %w", err)
	}

	if err = dst.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("close file error: %w", err)
	}

	_ = src.Close()
	if err = os.Remove(archive); err != nil {
		return name, fmt.Errorf("remove archive error: %w", err)
	}

	return name, nil
}
