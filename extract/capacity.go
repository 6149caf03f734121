package extract

import "math"

// DefaultSafetyMargin is the free space kept in reserve on top of what an archive needs.
const DefaultSafetyMargin uint64 = 100 * 1024 * 1024

// FreeSpaceFunc returns the number of bytes available to the caller on the filesystem holding dir.
//
// Implementations should return an error wrapping errors.ErrUnsupported if free space cannot be determined on the
// platform, in which case the preflight is skipped.
type FreeSpaceFunc func(dir string) (uint64, error)

// HasCapacity returns true if the filesystem holding dir has at least required+margin bytes available.
//
// The number of available bytes is also returned. If free is nil, DiskFree is used.
func HasCapacity(dir string, required, margin uint64, free FreeSpaceFunc) (bool, uint64, error) {
	if free == nil {
		free = DiskFree
	}

	available, err := free(dir)
	if err != nil {
		return false, 0, err
	}

	return required <= available && available-required >= margin, available, nil
}

// addSat returns a+b, or math.MaxUint64 if the sum overflows.
func addSat(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}

	return math.MaxUint64
}
