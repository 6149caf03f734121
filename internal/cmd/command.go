package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/massunpack/collision"
	"github.com/nguyengg/massunpack/extract"
	"github.com/nguyengg/massunpack/internal/batch"
	"github.com/nguyengg/massunpack/internal/config"
	"github.com/nguyengg/massunpack/internal/report"
	"golang.org/x/term"
)

// Command extracts many ZIP archives into the same directory.
type Command struct {
	ExtractTo    flags.Filename   `short:"o" long:"extract-to" description:"output directory (default: current directory)"`
	Count        int              `short:"n" long:"count" description:"limit number of archives to process"`
	MvOK         flags.Filename   `long:"mv-ok" description:"move successful archives here (default: ./OK)"`
	MvErr        flags.Filename   `long:"mv-er" description:"move failed archives here (default: ./ERR)"`
	Collision    collision.Method `short:"c" long:"collision" choice:"size" choice:"hash-sha256" choice:"hash-fast" description:"method for collision detection (default: hash-fast)"`
	SafetyMargin string           `long:"safety-margin" description:"free space to keep after each archive, e.g. 100MiB (default: 100MiB)"`
	NoProgress   bool             `long:"no-progress" description:"disable progress bar"`
	Verbose      bool             `short:"v" long:"verbose" description:"enable verbose logging"`
	Args         struct {
		Patterns []string `positional-arg-name:"pattern" description:"glob patterns (filepath.Match syntax, ** is not recursive) or zip files (e.g. 'data/*.zip' or a.zip b.zip)" required:"yes"`
	} `positional-args:"yes"`

	// Stdout and Stderr default to os.Stdout and os.Stderr.
	Stdout, Stderr io.Writer

	// FreeSpace is passed to extract.Options.FreeSpace if given.
	FreeSpace extract.FreeSpaceFunc

	margin uint64
}

// Execute implements flags.Commander.
//
// The returned error is an *ExitError unless the batch succeeded.
func (c *Command) Execute(args []string) error {
	if len(args) != 0 {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.Run(ctx)
}

// Run is Execute with a caller-provided context.
func (c *Command) Run(ctx context.Context) error {
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	r := report.New(c.Stdout, c.Stderr, func(opts *report.Options) {
		opts.Progress = !c.NoProgress && isTerminal(c.Stdout)
	})

	if err := c.resolve(ctx); err != nil {
		return c.fatal(ctx, r, err)
	}

	archives, err := batch.Discover(c.Args.Patterns, c.Count)
	if err != nil {
		return c.fatal(ctx, r, err)
	}
	if len(archives) == 0 {
		r.NoArchives(c.Args.Patterns)
		return &ExitError{Code: ExitFailure, Err: errors.New("no archives found")}
	}

	logger := log.New(c.Stderr, "", 0)

	x, err := extract.New(string(c.ExtractTo), c.Collision, func(opts *extract.Options) {
		opts.SafetyMargin = c.margin
		opts.Logger = logger
		opts.Verbose = c.Verbose
		if c.FreeSpace != nil {
			opts.FreeSpace = c.FreeSpace
		}
	})
	if err != nil {
		return c.fatal(ctx, r, err)
	}

	r.Found(len(archives))

	runner := &batch.Runner{
		Extractor: x,
		Reporter:  r,
		Mover:     &batch.Mover{OK: string(c.MvOK), Err: string(c.MvErr)},
		Logger:    logger,
	}

	totals, err := runner.Run(ctx, archives)
	if err != nil {
		return c.fatal(ctx, r, err)
	}

	r.Totals(totals)

	if totals.Failed != 0 {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%d/%d archives failed", totals.Failed, totals.Archives)}
	}

	return nil
}

// fatal reports err as an interruption if ctx is done, as a fatal error otherwise.
func (c *Command) fatal(ctx context.Context, r *report.Reporter, err error) error {
	if ctx.Err() != nil {
		r.Interrupted()
		return &ExitError{Code: ExitInterrupted, Err: ctx.Err()}
	}

	r.Fatal(err)
	return &ExitError{Code: ExitFatal, Err: err}
}

// resolve fills in the flags that were not given from the .massunpack file, or the built-in defaults, then creates
// the output directories.
func (c *Command) resolve(ctx context.Context) error {
	if _, err := config.Load(ctx); err != nil {
		return fmt.Errorf("load config error: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg := config.ForDefaults()

	c.ExtractTo = flags.Filename(firstNonEmpty(string(c.ExtractTo), cfg.ExtractTo, cwd))
	c.MvOK = flags.Filename(firstNonEmpty(string(c.MvOK), cfg.MvOK, filepath.Join(cwd, "OK")))
	c.MvErr = flags.Filename(firstNonEmpty(string(c.MvErr), cfg.MvErr, filepath.Join(cwd, "ERR")))

	if c.Collision == "" {
		if c.Collision, err = collision.ParseMethod(cfg.Collision); err != nil {
			return err
		}
	}

	c.margin = extract.DefaultSafetyMargin
	if s := firstNonEmpty(c.SafetyMargin, cfg.SafetyMargin); s != "" {
		if c.margin, err = humanize.ParseBytes(s); err != nil {
			return fmt.Errorf(`invalid safety margin "%s": %w`, s, err)
		}
	}

	for _, dir := range []struct {
		path, description string
	}{
		{string(c.ExtractTo), "extraction directory"},
		{string(c.MvOK), "OK directory"},
		{string(c.MvErr), "ERR directory"},
	} {
		if err = os.MkdirAll(dir.path, 0755); err != nil {
			return fmt.Errorf(`cannot create %s at "%s": %w`, dir.description, dir.path, err)
		}
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
