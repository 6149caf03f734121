package batch

import (
	"context"
	"log"

	"github.com/nguyengg/massunpack/extract"
	"github.com/nguyengg/massunpack/internal"
)

// Extractor is implemented by *extract.Extractor.
type Extractor interface {
	Extract(ctx context.Context, name string) (*extract.Result, error)
}

// Reporter receives the progress of a Runner.
type Reporter interface {
	// Start is called before the i-th (one-based) of n archives is extracted.
	Start(i, n int, archive string)
	// Result is called once for every archive that was attempted, including an interrupted one.
	Result(res *extract.Result)
	// Moved is called after the archive was moved (or failed to be moved) to dst.
	Moved(archive, dst string, err error)
}

// Totals aggregates the results of a batch.
type Totals struct {
	// Archives counts archives attempted.
	Archives int
	// Failed counts archives with at least one error.
	Failed    int
	Extracted int
	Skipped   int
	Renamed   int
	// Errors counts individual errors across all archives.
	Errors int
}

func (t *Totals) add(res *extract.Result) {
	t.Archives++
	if !res.Success {
		t.Failed++
	}
	t.Extracted += res.Extracted
	t.Skipped += res.Skipped
	t.Renamed += res.Renamed
	t.Errors += len(res.Errors)
}

// Runner extracts archives one at a time.
type Runner struct {
	Extractor Extractor
	Reporter  Reporter

	// Mover, if given, moves every archive once it has been processed.
	Mover *Mover

	// Logger, if given, has its prefix changed to identify the archive being processed.
	Logger *log.Logger
}

// Run processes the archives in order.
//
// A failed archive never stops the batch. If ctx is cancelled, Run stops after reporting the interrupted archive,
// which is left in place, and returns the context error alongside the totals so far.
func (r *Runner) Run(ctx context.Context, archives []string) (Totals, error) {
	var t Totals
	n := len(archives)

	for i, archive := range archives {
		if err := ctx.Err(); err != nil {
			return t, err
		}

		if r.Logger != nil {
			r.Logger.SetPrefix(internal.Prefix(i+1, n, archive))
		}

		r.Reporter.Start(i+1, n, archive)

		res, err := r.Extractor.Extract(ctx, archive)
		t.add(res)
		r.Reporter.Result(res)
		if err != nil {
			return t, err
		}

		if r.Mover != nil {
			dst, err := r.Mover.Move(ctx, archive, res.Success)
			r.Reporter.Moved(archive, dst, err)
		}
	}

	return t, nil
}
