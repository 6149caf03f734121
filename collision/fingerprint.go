package collision

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/nguyengg/massunpack"
)

// Fingerprinter computes the content fingerprint of a file.
//
// The zero value (nil New) is the size-only strategy: Fingerprint always returns an empty string without reading the
// file.
type Fingerprinter struct {
	// Name is used to prefix fingerprints in format "name-hexSum".
	Name string

	// New creates the hash.Hash.
	New func() hash.Hash
}

// NewFingerprinter returns the Fingerprinter for the given Method.
func NewFingerprinter(m Method) (Fingerprinter, error) {
	switch m {
	case MethodSize:
		return Fingerprinter{}, nil
	case MethodSHA256:
		return Fingerprinter{Name: "sha256", New: sha256.New}, nil
	case MethodFast:
		return Fingerprinter{Name: "xxh64", New: func() hash.Hash { return xxhash.New() }}, nil
	default:
		return Fingerprinter{}, fmt.Errorf(`unknown collision method "%s"`, m)
	}
}

// SizeOnly returns true if the Fingerprinter never reads content.
func (f Fingerprinter) SizeOnly() bool {
	return f.New == nil
}

// Fingerprint streams the named file through the hash and returns the fingerprint in format "name-hexSum".
func (f Fingerprinter) Fingerprint(ctx context.Context, name string) (string, error) {
	if f.New == nil {
		return "", nil
	}

	file, err := os.Open(name)
	if err != nil {
		return "", fmt.Errorf("open file error: %w", err)
	}
	defer file.Close()

	h := f.New()
	if _, err = massunpack.CopyBufferWithContext(ctx, h, file, nil); err != nil {
		return "", fmt.Errorf(`hash file "%s" error: %w`, name, err)
	}

	return f.Name + "-" + hex.EncodeToString(h.Sum(nil)), nil
}
