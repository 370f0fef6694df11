package filelist

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/cheminfo/filelist/internal/file"
	"github.com/cheminfo/filelist/internal/pathutil"
	"github.com/cheminfo/filelist/internal/write"
)

// ZipOption configures ToZip and WriteZip.
type ZipOption func(*zipConfig)

type zipConfig struct {
	finalPaths map[*Source]string
	method     write.Method
}

// WithFinalPaths fills m with the entry name chosen for every source.
func WithFinalPaths(m map[*Source]string) ZipOption {
	return func(c *zipConfig) {
		c.finalPaths = m
	}
}

// WithZstd compresses entries with zstd instead of deflate. Readers need
// zstd support (zip method 93); FromZip and FromIum have it.
func WithZstd() ZipOption {
	return func(c *zipConfig) {
		c.method = write.Zstd
	}
}

// ToZip returns the data of every source as a plain zip archive.
func (c *Collection) ToZip(ctx context.Context, opts ...ZipOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.WriteZip(ctx, &buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteZip writes the data of every source into w as a zip archive.
// Entries are named after the source paths, below the path of their base
// URL for remote sources, made safe for common filesystems. When two
// sources map to the same name, the later one is prefixed with its UUID.
// Archives and gzip streams are stored without recompression.
func (c *Collection) WriteZip(ctx context.Context, w io.Writer, opts ...ZipOption) error {
	cfg := zipConfig{method: write.Deflate}
	for _, opt := range opts {
		opt(&cfg)
	}

	zw := write.NewWriter(w)
	used := make(map[string]struct{})
	err := prefetch(ctx, c.Sources(), func(s *Source, data []byte) error {
		name := pathutil.ZipPath(s.RelativePath, s.BaseURL, s.UUID, used)
		if cfg.finalPaths != nil {
			cfg.finalPaths[s] = name
		}
		o := s.effectiveOptions()
		method := write.MethodFor(name, cfg.method, write.SkipExtensions(o.zipExtensions(), o.gzipExtensions()))
		return zw.Add(ctx, name, bytes.NewReader(data), method, modTime(s.LastModified))
	})
	if err != nil {
		return err
	}
	return zw.Close()
}

// FromZip returns a collection holding every entry of a zip archive as an
// embedded source, sorted. Entry data is read from data on demand.
func FromZip(ctx context.Context, data []byte, opts ...Option) (*Collection, error) {
	c := New(opts...)
	zr, err := file.OpenZip(data)
	if err != nil {
		return nil, err
	}
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || !c.options.shouldAdd(entry.Name) {
			continue
		}
		s := &Source{
			UUID:         uuid.NewString(),
			RelativePath: entry.Name,
			BaseURL:      IumBaseURL,
			LastModified: entry.Modified.UnixMilli(),
			Size:         int64(entry.UncompressedSize64), //nolint:gosec // zip sizes fit in int64
			name:         pathutil.Base(entry.Name),
			data: newAccessor(func(context.Context) (io.ReadCloser, error) {
				return entry.Open()
			}, false),
		}
		if err := c.AppendExtendedSource(ctx, s); err != nil {
			return nil, fmt.Errorf("append %s: %w", entry.Name, err)
		}
	}
	return c.Alphabetical(), nil
}
