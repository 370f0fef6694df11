// Package write builds zip containers entry by entry.
package write

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/cheminfo/filelist/internal/file"
)

// Method selects how an entry payload is encoded.
type Method uint16

const (
	// Deflate compresses the entry.
	Deflate Method = Method(zip.Deflate)
	// Store writes the entry as-is.
	Store Method = Method(zip.Store)
	// Zstd compresses the entry with zstd (zip method 93).
	Zstd Method = Method(zstd.ZipMethodWinZip)
)

// Writer appends entries to a zip stream.
type Writer struct {
	zw   *zip.Writer
	buf  []byte
	used map[string]struct{}
}

// NewWriter returns a Writer over w. The zstd compressor is always
// registered; it is only used for entries added with the Zstd method.
func NewWriter(w io.Writer) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
	return &Writer{
		zw:   zw,
		buf:  make([]byte, 32*1024),
		used: make(map[string]struct{}),
	}
}

// Mimetype writes the container identification entry. It must be the first
// entry: it is stored, carries its sizes in the local header (no data
// descriptor), and has no extended timestamp so its content sits at a
// predictable offset.
func (w *Writer) Mimetype(mimetype string) error {
	if len(w.used) > 0 {
		return errors.New("write: mimetype must be the first entry")
	}
	content := []byte(mimetype)
	fh := &zip.FileHeader{
		Name:               "mimetype",
		Method:             zip.Store,
		CRC32:              crc32.ChecksumIEEE(content),
		CompressedSize64:   uint64(len(content)),
		UncompressedSize64: uint64(len(content)),
	}
	dst, err := w.zw.CreateRaw(fh)
	if err != nil {
		return fmt.Errorf("create mimetype entry: %w", err)
	}
	if _, err := dst.Write(content); err != nil {
		return fmt.Errorf("write mimetype entry: %w", err)
	}
	w.used["mimetype"] = struct{}{}
	return nil
}

// Add streams r into a new entry named name.
func (w *Writer) Add(ctx context.Context, name string, r io.Reader, method Method, modified time.Time) error {
	fh := &zip.FileHeader{
		Name:     name,
		Method:   uint16(method),
		Modified: modified,
	}
	dst, err := w.zw.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", name, err)
	}
	if _, err := file.Copy(ctx, dst, r, w.buf); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	w.used[name] = struct{}{}
	return nil
}

// Has reports whether an entry with this name was already written.
func (w *Writer) Has(name string) bool {
	_, ok := w.used[name]
	return ok
}

// Close writes the central directory. It does not close the underlying writer.
func (w *Writer) Close() error {
	return w.zw.Close()
}
