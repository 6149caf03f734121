// Package massunpack has the file naming and copying helpers shared by its subpackages.
package massunpack

import (
	"context"
	"fmt"
	"io"
)

// DefaultBufferSize is the size of the buffer used by CopyBufferWithContext when none is given.
const DefaultBufferSize = 32 * 1024

// CopyBufferWithContext is a custom implementation of io.CopyBuffer that is cancellable via context.
//
// Similar to io.CopyBuffer, if buf is nil, a new buffer of size DefaultBufferSize is created.
// Unlike io.CopyBuffer, it does not matter if src implements [io.WriterTo] or dst implements [io.ReaderFrom] because
// those interfaces do not support context.
//
// The context is checked for done status after every write. As a result, having too small a buffer may introduce too
// much overhead, while having a very large buffer may cause context cancellation to have a delayed effect.
func CopyBufferWithContext(ctx context.Context, dst io.Writer, src io.Reader, buf []byte) (written int64, err error) {
	if buf == nil {
		buf = make([]byte, DefaultBufferSize)
	}

	var nr, nw int
	var ew error
	for {
		nr, err = src.Read(buf)

		if nr > 0 {
			switch nw, ew = dst.Write(buf[0:nr]); {
			case ew != nil:
				return written, ew
			case nr < nw:
				return written, io.ErrShortWrite
			case nr != nw:
				return written, fmt.Errorf("invalid write: expected to write %d bytes, wrote %d bytes instead", nr, nw)
			}

			written += int64(nw)

			select {
			case <-ctx.Done():
				return written, ctx.Err()
			default:
			}
		}

		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}
