//go:build !(linux || darwin || freebsd || dragonfly || windows)

package extract

import (
	"errors"
	"fmt"
	"runtime"
)

// DiskFree is not supported on this platform; the preflight is skipped.
func DiskFree(dir string) (uint64, error) {
	return 0, fmt.Errorf("free space of %s on %s: %w", dir, runtime.GOOS, errors.ErrUnsupported)
}
