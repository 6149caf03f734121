package extract

// Result is the outcome of extracting one archive.
type Result struct {
	// Archive is the path of the archive as given to Extractor.Extract.
	Archive string
	// Success is true iff Errors is empty.
	Success bool

	// Extracted counts files placed at their original relative path.
	Extracted int
	// Skipped counts files identical to one already at their relative path.
	Skipped int
	// Renamed counts files placed at an alternative path because of a conflicting file.
	Renamed int

	// CompressedSize is the size of the archive file.
	CompressedSize int64
	// UncompressedSize is the sum of the uncompressed sizes of all file entries.
	UncompressedSize uint64

	// Errors are in the order they happened. See ArchiveError and EntryError.
	Errors []error
	// Collisions are in the order they happened.
	Collisions []Collision
}

// Collision records a file that was renamed because a different file already had its relative path.
type Collision struct {
	Original string
	Renamed  string
}

// Files returns Extracted + Skipped + Renamed.
func (r *Result) Files() int {
	return r.Extracted + r.Skipped + r.Renamed
}

func (r *Result) fail(err error) {
	r.Success = false
	r.Errors = append(r.Errors, err)
}
