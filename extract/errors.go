package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptArchive is returned when the archive cannot be opened or parsed. The whole archive is skipped.
	ErrCorruptArchive = errors.New("corrupt archive")
	// ErrInsufficientSpace is returned when the preflight finds less free space than needed. Nothing is written.
	ErrInsufficientSpace = errors.New("insufficient disk space")
	// ErrUnsafePath is returned for an entry whose destination would escape the output directory.
	ErrUnsafePath = errors.New("unsafe path")
	// ErrEntryIO is returned for an entry that could not be read from the archive or written to disk.
	ErrEntryIO = errors.New("entry I/O error")
)

// ArchiveError is an archive-level failure that aborted the whole archive.
type ArchiveError struct {
	Archive string
	// Kind is ErrCorruptArchive or ErrInsufficientSpace.
	Kind error
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf(`%v: "%s": %v`, e.Kind, e.Archive, e.Err)
}

func (e *ArchiveError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// InsufficientSpaceError is the cause of an ArchiveError of kind ErrInsufficientSpace.
type InsufficientSpaceError struct {
	// Required includes the safety margin.
	Required  uint64
	Available uint64
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("need %d bytes, available %d bytes", e.Required, e.Available)
}

func (e *InsufficientSpaceError) Is(target error) bool {
	return target == ErrInsufficientSpace
}

// EntryError is an entry-level failure. The entry was skipped, the rest of the archive was still extracted.
type EntryError struct {
	// Name is the decoded name of the entry.
	Name string
	// Kind is ErrUnsafePath or ErrEntryIO.
	Kind error
	// Err is the underlying cause, may be nil for ErrUnsafePath.
	Err error
}

func (e *EntryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf(`%v: "%s"`, e.Kind, e.Name)
	}

	return fmt.Sprintf(`%v: "%s": %v`, e.Kind, e.Name, e.Err)
}

func (e *EntryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}
