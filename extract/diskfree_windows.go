//go:build windows

package extract

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// DiskFree returns the number of bytes available to the caller on the volume holding dir.
func DiskFree(dir string) (uint64, error) {
	p, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return 0, err
	}

	var available, total, free uint64
	if err = windows.GetDiskFreeSpaceEx(p, &available, &total, &free); err != nil {
		return 0, fmt.Errorf(`get free disk space of "%s" error: %w`, dir, err)
	}

	return available, nil
}
