package main

import (
	"os"

	"github.com/nguyengg/massunpack/internal/cmd"
)

func main() {
	exit(cmd.Main(os.Args[1:]))
}
