package internal

import (
	"fmt"
	"path/filepath"

	"github.com/nguyengg/massunpack"
)

// Prefix creates a consistent prefix for the log lines of one archive in a batch.
//
// i is the one-based ordinal of the archive and n the number of archives in the batch.
func Prefix(i, n int, name string) string {
	return fmt.Sprintf(`[%d/%d] "%s" - `, i, n, massunpack.TruncateRightWithSuffix(filepath.Base(name), 30, "..."))
}
