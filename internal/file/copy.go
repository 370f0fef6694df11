// Package file holds the byte-level primitives of a collection: zip and gzip
// readers, format sniffing, and context-aware copying.
package file

import (
	"context"
	"io"
)

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// Reader returns r with every Read failing once ctx is done.
func Reader(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}

// Copy copies src to dst through buf until EOF, stopping between reads
// when ctx is done. A nil buf allocates one.
func Copy(ctx context.Context, dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	return io.CopyBuffer(dst, Reader(ctx, src), buf)
}

// ReadAll reads r to EOF, honoring ctx between reads.
func ReadAll(ctx context.Context, r io.Reader) ([]byte, error) {
	return io.ReadAll(Reader(ctx, r))
}
