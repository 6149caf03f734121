//go:build linux || darwin || freebsd || dragonfly

package extract

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DiskFree returns the number of bytes available to unprivileged users on the filesystem holding dir.
func DiskFree(dir string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, fmt.Errorf(`statfs "%s" error: %w`, dir, err)
	}

	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
