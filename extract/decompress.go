package extract

import (
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression methods beyond Store and Deflate that Extractor can read.
//
// See section 4.4.5 of https://pkware.cachefly.net/webdocs/casestudies/APPNOTE.TXT.
const (
	MethodBzip2 uint16 = 12
	MethodZstd  uint16 = zstd.ZipMethodWinZip
	MethodXZ    uint16 = 95
)

// openReader opens the named ZIP file with the extra decompressors registered.
func openReader(name string) (*zip.ReadCloser, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, err
	}

	zr.RegisterDecompressor(MethodZstd, zstd.ZipDecompressor())
	zr.RegisterDecompressor(MethodXZ, xzDecompressor)
	zr.RegisterDecompressor(MethodBzip2, bzip2Decompressor)
	return zr, nil
}

func xzDecompressor(r io.Reader) io.ReadCloser {
	xr, err := xz.NewReader(r)
	if err != nil {
		return io.NopCloser(&errReader{err})
	}

	return io.NopCloser(xr)
}

func bzip2Decompressor(r io.Reader) io.ReadCloser {
	br, err := bzip2.NewReader(r, nil)
	if err != nil {
		return io.NopCloser(&errReader{err})
	}

	return br
}

// errReader defers a decompressor construction error to the first Read.
type errReader struct {
	err error
}

func (r *errReader) Read([]byte) (int, error) {
	return 0, r.err
}
