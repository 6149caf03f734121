package cmd

import (
	"github.com/jessevdk/go-flags"
)

// NewParser returns the parser of the massunpack command line.
//
// Parser.Parse fills in the returned Command, which must then be executed with the remaining arguments.
func NewParser(c *Command) *flags.Parser {
	p := flags.NewParser(c, flags.Default)
	p.Name = "massunpack"
	p.LongDescription = "Extract multiple ZIP archives into a single directory with collision handling."
	return p
}

// Main parses args then executes the Command.
//
// Use ExitCode to turn the returned error into the exit code of the process.
func Main(args []string) error {
	c := &Command{}

	rest, err := NewParser(c).ParseArgs(args)
	if err != nil {
		return err
	}

	return c.Execute(rest)
}
