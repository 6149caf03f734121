// Package report renders the progress and results of a batch for humans.
//
// All user-facing text of the command is built here, in the language chosen at construction.
package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nguyengg/massunpack/extract"
	"github.com/nguyengg/massunpack/internal"
	"github.com/nguyengg/massunpack/internal/batch"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Options customises New.
type Options struct {
	// Language of the messages.
	//
	// Default to LanguageFromEnv.
	Language language.Tag

	// Progress enables a progress bar over the batch, rendered on stderr.
	Progress bool
}

// Reporter writes summaries to stdout and collisions, errors, and the progress bar to stderr.
//
// Reporter implements batch.Reporter.
type Reporter struct {
	stdout, stderr io.Writer
	p              *message.Printer
	progress       bool
	bar            *progressbar.ProgressBar
}

var _ batch.Reporter = (*Reporter)(nil)

// New creates a new Reporter.
func New(stdout, stderr io.Writer, optFns ...func(*Options)) *Reporter {
	opts := &Options{Language: LanguageFromEnv()}
	for _, fn := range optFns {
		fn(opts)
	}

	return &Reporter{
		stdout:   stdout,
		stderr:   stderr,
		p:        message.NewPrinter(opts.Language, message.Catalog(newCatalog())),
		progress: opts.Progress,
	}
}

// Found reports the number of archives about to be processed.
func (r *Reporter) Found(n int) {
	r.println(r.stdout, msgFound, n)

	if r.progress {
		r.bar = internal.DefaultCount(r.stderr, n, r.p.Sprintf(msgBar))
	}
}

// NoArchives reports that the patterns did not match any archive.
func (r *Reporter) NoArchives(patterns []string) {
	r.println(r.stderr, msgNoArchives, strings.Join(patterns, ", "))
}

// Start implements batch.Reporter.
func (r *Reporter) Start(i, n int, archive string) {
	if r.bar != nil {
		r.bar.Describe(r.p.Sprintf(msgDescribe, filepath.Base(archive)))
		return
	}

	r.println(r.stdout, msgProcessing, i, n, filepath.Base(archive))
}

// Result implements batch.Reporter.
func (r *Reporter) Result(res *extract.Result) {
	if r.bar != nil {
		_ = r.bar.Clear()
	}

	name := filepath.Base(res.Archive)

	r.println(r.stdout, msgSummary,
		name,
		res.Extracted,
		res.Skipped,
		res.Renamed,
		humanize.IBytes(uint64(res.CompressedSize)),
		humanize.IBytes(res.UncompressedSize),
		CompressionRatio(res.CompressedSize, res.UncompressedSize))

	for _, c := range res.Collisions {
		r.println(r.stderr, msgCollision, name, c.Original, c.Renamed)
	}

	for _, err := range res.Errors {
		r.println(r.stderr, msgError, name, r.Message(err))
	}

	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

// Moved implements batch.Reporter.
//
// Only failures are reported.
func (r *Reporter) Moved(archive, _ string, err error) {
	if err != nil {
		r.println(r.stderr, msgMoveError, filepath.Base(archive), err)
	}
}

// Totals reports the final totals of the batch.
func (r *Reporter) Totals(t batch.Totals) {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}

	_, _ = fmt.Fprintln(r.stdout)
	r.println(r.stdout, msgComplete)
	r.println(r.stdout, msgTotals, t.Extracted, t.Skipped, t.Renamed, t.Errors)
}

// Interrupted reports that the batch was cancelled by the user.
func (r *Reporter) Interrupted() {
	_, _ = fmt.Fprintln(r.stderr)
	r.println(r.stderr, msgInterrupted)
}

// Fatal reports an error that prevented the batch from running.
func (r *Reporter) Fatal(err error) {
	r.println(r.stderr, msgFatal, err)
}

// Message renders the errors found in extract.Result.Errors.
func (r *Reporter) Message(err error) string {
	var (
		ise *extract.InsufficientSpaceError
		ae  *extract.ArchiveError
		ee  *extract.EntryError
	)

	switch {
	case errors.As(err, &ise):
		return r.p.Sprintf(msgNoSpace, humanize.IBytes(ise.Required), humanize.IBytes(ise.Available))
	case errors.As(err, &ae) && errors.Is(ae.Kind, extract.ErrCorruptArchive):
		return r.p.Sprintf(msgCorrupt, ae.Err)
	case errors.As(err, &ae):
		return r.p.Sprintf(msgFreeSpaceError, ae.Err)
	case errors.As(err, &ee) && errors.Is(ee.Kind, extract.ErrUnsafePath):
		return r.p.Sprintf(msgUnsafePath, ee.Name)
	case errors.As(err, &ee):
		return r.p.Sprintf(msgEntryIO, ee.Name, ee.Err)
	default:
		return err.Error()
	}
}

// CompressionRatio returns the space saved by compression as a percentage of the uncompressed size.
//
// Returns 0 if uncompressed is 0.
func CompressionRatio(compressed int64, uncompressed uint64) float64 {
	if uncompressed == 0 {
		return 0
	}

	return (1 - float64(compressed)/float64(uncompressed)) * 100
}

func (r *Reporter) println(w io.Writer, key string, a ...any) {
	_, _ = fmt.Fprintln(w, r.p.Sprintf(key, a...))
}
