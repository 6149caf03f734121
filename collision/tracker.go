// Package collision detects when files extracted from different archives land on the same relative path.
//
// A Tracker remembers the size and content fingerprint of every file placed under the output root during a batch.
// When a new file wants the same relative path, the Tracker decides whether it is a duplicate that can be dropped or
// a different file that must be renamed (see UniqueName).
package collision

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// Status is the classification returned by Tracker.Check.
type Status int

const (
	// New means no file was known at the relative path. The candidate has been recorded.
	New Status = iota
	// Identical means a file with the same content is already at the relative path.
	Identical
	// Conflicting means a different file is already at the relative path.
	Conflicting
)

func (s Status) String() string {
	switch s {
	case New:
		return "new"
	case Identical:
		return "identical"
	case Conflicting:
		return "conflicting"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Record is what the Tracker knows about the file at a relative path.
type Record struct {
	Size int64
	// Fingerprint is empty with MethodSize.
	Fingerprint string

	// reserved records are placeholders from Reserve that have not been registered yet.
	reserved bool
}

// Options customises NewTracker.
type Options struct {
	// Root is the output directory that relative paths are resolved against.
	//
	// If given, a regular file already present on disk at a relative path that the Tracker has not seen is adopted as
	// that path's record on first sighting so that it is never silently overwritten. Root is required by Reserve.
	Root string
}

// Tracker maps relative paths to the record of the file materialised there.
//
// Tracker is safe for concurrent use. Check and Reserve each run as a single critical section so two callers can never
// both be told that the same path is New.
type Tracker struct {
	method Method
	fp     Fingerprinter
	root   string

	mu      sync.Mutex
	records map[string]Record
}

// NewTracker creates a new Tracker using the given Method for the whole of its lifetime.
func NewTracker(method Method, optFns ...func(*Options)) (*Tracker, error) {
	opts := &Options{}
	for _, fn := range optFns {
		fn(opts)
	}

	fp, err := NewFingerprinter(method)
	if err != nil {
		return nil, err
	}

	return &Tracker{
		method:  method,
		fp:      fp,
		root:    opts.Root,
		records: make(map[string]Record),
	}, nil
}

// Method returns the Method the Tracker was created with.
func (t *Tracker) Method() Method {
	return t.method
}

// Key normalises a relative path into the form used as the Tracker's key: slash-separated and cleaned.
//
// Backslashes are treated as separators on every platform.
func Key(rel string) string {
	return path.Clean(strings.ReplaceAll(filepath.ToSlash(rel), `\`, "/"))
}

// Check classifies the file named by candidate against whatever is known at the relative path rel.
//
// A path that has never been seen is New and the candidate's record is stored before returning. Different sizes are
// always Conflicting without hashing. Same sizes are Identical with MethodSize, otherwise the candidate is hashed and
// compared with the stored fingerprint.
//
// The candidate is read from disk, so it should be the staged copy of the entry and not the entry in the archive.
func (t *Tracker) Check(ctx context.Context, rel, candidate string) (Status, error) {
	key := Key(rel)

	fi, err := os.Stat(candidate)
	if err != nil {
		return 0, fmt.Errorf("stat candidate error: %w", err)
	}
	size := fi.Size()

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[key]
	if !ok {
		if rec, ok, err = t.adopt(key); err != nil {
			return 0, err
		}
	}

	if !ok {
		rec = Record{Size: size}
		if rec.Fingerprint, err = t.fp.Fingerprint(ctx, candidate); err != nil {
			return 0, err
		}

		t.records[key] = rec
		return New, nil
	}

	switch {
	case rec.reserved, rec.Size != size:
		return Conflicting, nil
	case t.fp.SizeOnly():
		return Identical, nil
	}

	if rec.Fingerprint == "" {
		// adopted records are hashed lazily since most of them never see a same-size candidate.
		if rec.Fingerprint, err = t.fp.Fingerprint(ctx, t.path(key)); err != nil {
			return 0, err
		}
		t.records[key] = rec
	}

	fp, err := t.fp.Fingerprint(ctx, candidate)
	if err != nil {
		return 0, err
	}

	if fp == rec.Fingerprint {
		return Identical, nil
	}

	return Conflicting, nil
}

// adopt looks for a file already on disk at key and records it. Must be called with mu held.
//
// A non-regular file (directory, symlink, etc.) at key yields a reserved record so that the path is never reused.
func (t *Tracker) adopt(key string) (rec Record, ok bool, err error) {
	if t.root == "" {
		return
	}

	fi, err := os.Lstat(t.path(key))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return rec, false, nil
	case err != nil:
		return rec, false, fmt.Errorf(`stat "%s" error: %w`, key, err)
	case fi.Mode().IsRegular():
		rec = Record{Size: fi.Size()}
	default:
		rec = Record{Size: -1, reserved: true}
	}

	t.records[key] = rec
	return rec, true, nil
}

func (t *Tracker) path(key string) string {
	return filepath.Join(t.root, filepath.FromSlash(key))
}

// Register records the named file under the relative path rel, replacing any previous record.
func (t *Tracker) Register(ctx context.Context, rel, name string) error {
	fi, err := os.Stat(name)
	if err != nil {
		return fmt.Errorf("stat file error: %w", err)
	}

	rec := Record{Size: fi.Size()}
	if rec.Fingerprint, err = t.fp.Fingerprint(ctx, name); err != nil {
		return err
	}

	t.mu.Lock()
	t.records[Key(rel)] = rec
	t.mu.Unlock()
	return nil
}

// Forget drops the record at rel.
//
// Used when a file classified as New could not be moved into place after all.
func (t *Tracker) Forget(rel string) {
	t.mu.Lock()
	delete(t.records, Key(rel))
	t.mu.Unlock()
}

// Lookup returns the record at rel.
//
// Placeholders created by Reserve are not returned.
func (t *Tracker) Lookup(rel string) (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[Key(rel)]
	if !ok || rec.reserved {
		return Record{}, false
	}

	return rec, true
}

// Len returns the number of registered records.
func (t *Tracker) Len() (n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, rec := range t.records {
		if !rec.reserved {
			n++
		}
	}

	return
}

// Reserve picks a unique alternative to rel with UniqueName and holds it until Register or Forget is called.
//
// Paths known to the Tracker count as taken even if nothing exists on disk there yet.
func (t *Tracker) Reserve(rel string) (string, error) {
	if t.root == "" {
		return "", fmt.Errorf("reserve requires Options.Root")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	alt, err := UniqueName(t.root, rel, func(rel string) bool {
		_, ok := t.records[rel]
		return ok
	})
	if err != nil {
		return "", err
	}

	t.records[alt] = Record{Size: -1, reserved: true}
	return alt, nil
}
