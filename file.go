package filelist

import (
	"context"
	"io"
)

// File is a logical file of a collection. Files nested in archives have a
// RelativePath made of the archive path followed by the entry path.
type File struct {
	RelativePath string
	Name         string
	Size         int64
	// LastModified is in milliseconds since the Unix epoch.
	LastModified int64
	BaseURL      string
	// SourceUUID identifies the Source the file was expanded from.
	SourceUUID string
	// Parent is the archive the file was extracted from, if any.
	Parent *File

	data *accessor
}

// Bytes returns the file content.
func (f *File) Bytes(ctx context.Context) ([]byte, error) {
	return f.data.Bytes(ctx)
}

// Text returns the file content as a string.
func (f *File) Text(ctx context.Context) (string, error) {
	b, err := f.data.Bytes(ctx)
	return string(b), err
}

// Open returns a stream over the file content.
func (f *File) Open(ctx context.Context) (io.ReadCloser, error) {
	return f.data.Open(ctx)
}

// Clone returns a copy of f. Parent is shared: it only describes where the
// file came from.
func (f *File) Clone() *File {
	c := *f
	return &c
}
