// Package extract safely extracts ZIP archives into a shared output directory.
//
// Every entry is written to a staging file next to its destination first, classified against the files already
// extracted with a collision.Tracker, then atomically renamed into place (or dropped if it is a duplicate). Entries
// whose names would escape the output directory are refused, and each archive is checked against the free space of
// the destination before anything is written.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zip"
	"github.com/nguyengg/massunpack"
	"github.com/nguyengg/massunpack/collision"
	"github.com/nguyengg/massunpack/filename"
	"golang.org/x/time/rate"
)

// stagePrefix prefixes the hidden temporary files that entries are staged into.
const stagePrefix = ".tmp_"

// Options customises New.
type Options struct {
	// SafetyMargin is the number of bytes that must remain free after an archive is extracted.
	//
	// Default to DefaultSafetyMargin.
	SafetyMargin uint64

	// FreeSpace computes the free space of the output directory.
	//
	// Default to DiskFree.
	FreeSpace FreeSpaceFunc

	// Logger receives warnings that are not part of Result (such as undecodable entry names) and, if Verbose is
	// true, per-entry diagnostics.
	//
	// By default, nothing is logged.
	Logger *log.Logger

	// Verbose enables per-entry debug logging.
	Verbose bool

	// ProgressInterval is the minimum interval between two progress log lines for the same archive.
	//
	// Default to 5 seconds.
	ProgressInterval time.Duration
}

// Extractor extracts archives one at a time into the same output directory.
//
// An Extractor owns the collision.Tracker shared by all archives it extracts so the same Extractor should be used for
// a whole batch.
type Extractor struct {
	root    string
	tracker *collision.Tracker
	opts    Options
	buf     []byte
}

// New creates a new Extractor writing into the root directory, which must already exist.
func New(root string, method collision.Method, optFns ...func(*Options)) (*Extractor, error) {
	opts := &Options{
		SafetyMargin:     DefaultSafetyMargin,
		FreeSpace:        DiskFree,
		ProgressInterval: 5 * time.Second,
	}
	for _, fn := range optFns {
		fn(opts)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory error: %w", err)
	}

	switch fi, err := os.Stat(root); {
	case err != nil:
		return nil, fmt.Errorf("stat output directory error: %w", err)
	case !fi.IsDir():
		return nil, fmt.Errorf(`output "%s" is not a directory`, root)
	}

	tracker, err := collision.NewTracker(method, func(o *collision.Options) {
		o.Root = root
	})
	if err != nil {
		return nil, err
	}

	return &Extractor{
		root:    root,
		tracker: tracker,
		opts:    *opts,
		buf:     make([]byte, massunpack.DefaultBufferSize),
	}, nil
}

// Root returns the absolute path of the output directory.
func (x *Extractor) Root() string {
	return x.root
}

// Tracker returns the collision.Tracker shared by all archives.
func (x *Extractor) Tracker() *collision.Tracker {
	return x.tracker
}

// Extract extracts all file entries of the named ZIP archive.
//
// Failures are reported in the returned Result rather than as an error: an archive that cannot be opened or that does
// not fit in the free space yields a Result with a single ArchiveError, while failures of individual entries are
// recorded as EntryError and do not stop the rest of the archive.
//
// The returned error is non-nil only if ctx is cancelled, in which case the Result describes what was done before the
// cancellation. No staged file is left behind.
func (x *Extractor) Extract(ctx context.Context, name string) (*Result, error) {
	res := &Result{Archive: name, Success: true}
	if fi, err := os.Stat(name); err == nil {
		res.CompressedSize = fi.Size()
	}

	zr, err := openReader(name)
	if err != nil {
		x.debugf("open archive error: %v", err)
		res.fail(&ArchiveError{Archive: name, Kind: ErrCorruptArchive, Err: err})
		return res, nil
	}
	defer zr.Close()

	n := 0
	for _, f := range zr.File {
		if !isDir(f) {
			res.UncompressedSize = addSat(res.UncompressedSize, f.UncompressedSize64)
			n++
		}
	}

	if err = x.preflight(res); err != nil {
		x.debugf("%v", err)
		res.fail(err)
		return res, nil
	}

	var (
		i         int
		written   uint64
		sometimes = rate.Sometimes{Interval: x.opts.ProgressInterval}
	)
	sometimes.Do(func() {})

	for _, f := range zr.File {
		if err = ctx.Err(); err != nil {
			return res, err
		}

		if isDir(f) {
			continue
		}

		i++
		if err = x.extractEntry(ctx, f, res); err != nil {
			return res, err
		}

		written += f.UncompressedSize64
		sometimes.Do(func() {
			x.opts.Logger.Printf(`[%d/%d] extracted %s of %s so far`, i, n, humanize.Bytes(written), humanize.Bytes(res.UncompressedSize))
		})
	}

	return res, nil
}

// preflight returns an ArchiveError if the output directory does not have enough free space for the archive.
func (x *Extractor) preflight(res *Result) error {
	ok, available, err := HasCapacity(x.root, res.UncompressedSize, x.opts.SafetyMargin, x.opts.FreeSpace)
	switch {
	case errors.Is(err, errors.ErrUnsupported):
		x.opts.Logger.Printf("skipping free space check: %v", err)
		return nil
	case err != nil:
		return &ArchiveError{Archive: res.Archive, Kind: ErrInsufficientSpace, Err: fmt.Errorf("check free space error: %w", err)}
	case !ok:
		return &ArchiveError{Archive: res.Archive, Kind: ErrInsufficientSpace, Err: &InsufficientSpaceError{
			Required:  addSat(res.UncompressedSize, x.opts.SafetyMargin),
			Available: available,
		}}
	default:
		return nil
	}
}

// extractEntry extracts a single file entry, recording any failure in res.
//
// Only context errors are returned.
func (x *Extractor) extractEntry(ctx context.Context, f *zip.File, res *Result) error {
	decoded := filename.Decode([]byte(f.Name))
	name := decoded.Text

	switch {
	case decoded.Encoding == "":
		x.opts.Logger.Printf(`cannot decode entry name %q, using "%s" instead`, f.Name, name)
	case decoded.Repaired:
		x.debugf(`repaired mojibake entry name %q to "%s"`, f.Name, name)
	case decoded.Encoding != "utf-8":
		x.debugf(`decoded entry name "%s" using %s`, name, decoded.Encoding)
	}

	target := TargetPath(x.root, name)
	if !IsSafePath(x.root, target) {
		x.debugf(`unsafe path "%s"`, name)
		res.fail(&EntryError{Name: name, Kind: ErrUnsafePath})
		return nil
	}

	rel, err := filepath.Rel(x.root, target)
	if err == nil && rel == "." {
		err = fmt.Errorf("entry resolves to the output directory itself")
	}
	if err != nil {
		res.fail(&EntryError{Name: name, Kind: ErrEntryIO, Err: err})
		return nil
	}

	staged, err := x.stage(ctx, f, target)
	if err == nil {
		if err = x.place(ctx, staged, rel, res); err != nil {
			_ = os.Remove(staged)
		}
	}

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		x.debugf(`extract "%s" error: %v`, name, err)
		res.fail(&EntryError{Name: name, Kind: ErrEntryIO, Err: err})
		return nil
	}
}

// stage writes the decompressed content of the entry to a temporary file in the same directory as target.
//
// The staged file is complete, synced, and closed upon a successful return. On failure, it is removed.
func (x *Extractor) stage(ctx context.Context, f *zip.File, target string) (string, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create parent directories error: %w", err)
	}

	w, err := os.CreateTemp(dir, stagePrefix+massunpack.TruncateRight(filepath.Base(target), 64)+".*")
	if err != nil {
		return "", fmt.Errorf("create staging file error: %w", err)
	}

	staged := w.Name()
	if err = x.write(ctx, f, w); err != nil {
		_, _ = w.Close(), os.Remove(staged)
		return "", err
	}

	if err = w.Close(); err != nil {
		_ = os.Remove(staged)
		return "", fmt.Errorf("close staging file error: %w", err)
	}

	if err = os.Chmod(staged, 0644); err != nil {
		_ = os.Remove(staged)
		return "", fmt.Errorf("chmod staging file error: %w", err)
	}

	if mtime := f.FileInfo().ModTime(); !mtime.IsZero() {
		if err = os.Chtimes(staged, time.Time{}, mtime); err != nil {
			_ = os.Remove(staged)
			return "", fmt.Errorf("change mod time error: %w", err)
		}
	}

	return staged, nil
}

func (x *Extractor) write(ctx context.Context, f *zip.File, w *os.File) error {
	r, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry error: %w", err)
	}
	defer r.Close()

	if _, err = massunpack.CopyBufferWithContext(ctx, w, r, x.buf); err != nil {
		return fmt.Errorf("write staging file error: %w", err)
	}

	if err = w.Sync(); err != nil {
		return fmt.Errorf("sync staging file error: %w", err)
	}

	return nil
}

// place classifies the staged file and moves it to its final path, renames it, or drops it.
func (x *Extractor) place(ctx context.Context, staged, rel string, res *Result) error {
	key := collision.Key(rel)

	status, err := x.tracker.Check(ctx, key, staged)
	if err != nil {
		return fmt.Errorf("check collision error: %w", err)
	}

	switch status {
	case collision.New:
		if err = os.Rename(staged, x.path(key)); err != nil {
			x.tracker.Forget(key)
			return fmt.Errorf("move staging file error: %w", err)
		}

		x.debugf(`extracted "%s"`, key)
		res.Extracted++

	case collision.Identical:
		if err = os.Remove(staged); err != nil {
			return fmt.Errorf("remove staging file error: %w", err)
		}

		x.debugf(`skipped identical "%s"`, key)
		res.Skipped++

	case collision.Conflicting:
		alt, err := x.tracker.Reserve(key)
		if err != nil {
			return fmt.Errorf("find alternative name error: %w", err)
		}

		if err = os.Rename(staged, x.path(alt)); err != nil {
			x.tracker.Forget(alt)
			return fmt.Errorf("move staging file error: %w", err)
		}

		x.debugf(`collision "%s" -> "%s"`, key, alt)
		res.Renamed++
		res.Collisions = append(res.Collisions, Collision{Original: key, Renamed: alt})

		// the reservation keeps alt taken even if registering fails.
		if err = x.tracker.Register(ctx, alt, x.path(alt)); err != nil {
			return fmt.Errorf("register renamed file error: %w", err)
		}
	}

	return nil
}

func (x *Extractor) path(key string) string {
	return filepath.Join(x.root, filepath.FromSlash(key))
}

func (x *Extractor) debugf(format string, v ...any) {
	if x.opts.Verbose {
		x.opts.Logger.Printf(format, v...)
	}
}

func isDir(f *zip.File) bool {
	return f.FileInfo().IsDir() || strings.HasSuffix(f.Name, `\`)
}
