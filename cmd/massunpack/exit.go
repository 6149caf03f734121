//go:build !windows

package main

import (
	"os"

	"github.com/nguyengg/massunpack/internal/cmd"
)

func exit(err error) {
	os.Exit(cmd.ExitCode(err))
}
