package filelist

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/cheminfo/filelist/internal/pathutil"
)

// IumBaseURL is the base URL of sources whose data is embedded in a
// container.
const IumBaseURL = pathutil.IumBase

// Source is an origin of data in a collection: a file on disk, a buffer,
// a remote URL or an entry of a container. Every File of a collection
// belongs to exactly one Source, identified by UUID.
type Source struct {
	UUID         string
	RelativePath string
	// OriginalRelativePath is the path the source had before a merge or
	// subroot moved it. Remote data is fetched from this path when set.
	OriginalRelativePath string
	// BaseURL is IumBaseURL for embedded data, an http(s) URL otherwise.
	BaseURL string
	// LastModified is in milliseconds since the Unix epoch.
	LastModified int64
	Size         int64
	// Extra marks files added next to the data of a container.
	Extra bool
	// Options are the effective options the source was appended with.
	Options *Options

	name string
	data *accessor
}

// NewSource returns a Source with a fresh UUID whose data is produced by
// open on every read.
func NewSource(relativePath string, open func(ctx context.Context) (io.ReadCloser, error)) *Source {
	return &Source{
		UUID:         uuid.NewString(),
		RelativePath: relativePath,
		BaseURL:      IumBaseURL,
		name:         pathutil.Base(relativePath),
		data:         newAccessor(open, false),
	}
}

// NewContentSource returns an embedded Source holding c. The path is
// normalized the same way AppendText does.
func NewContentSource(relativePath string, c Content) (*Source, error) {
	data, err := c.ReadAll(context.Background())
	if err != nil {
		return nil, err
	}
	rel, name := pathutil.NameInfo(relativePath)
	return &Source{
		UUID:         uuid.NewString(),
		RelativePath: rel,
		BaseURL:      IumBaseURL,
		LastModified: time.Now().UnixMilli(),
		Size:         int64(len(data)),
		name:         name,
		data:         newAccessor(bytesOpener(data), false),
	}, nil
}

// Name returns the last segment of the source path.
func (s *Source) Name() string {
	if s.name == "" {
		return pathutil.Base(s.RelativePath)
	}
	return s.name
}

// Embedded reports whether the source data lives in a container.
func (s *Source) Embedded() bool {
	return s.BaseURL == IumBaseURL || s.BaseURL == ""
}

// Bytes returns the source data.
func (s *Source) Bytes(ctx context.Context) ([]byte, error) {
	return s.data.Bytes(ctx)
}

// Text returns the source data as a string.
func (s *Source) Text(ctx context.Context) (string, error) {
	b, err := s.data.Bytes(ctx)
	return string(b), err
}

// Open returns a stream over the source data.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	return s.data.Open(ctx)
}

// Clone returns a copy of s with its own options and memo cell.
func (s *Source) Clone() *Source {
	c := *s
	if s.Options != nil {
		o := s.Options.Clone()
		c.Options = &o
	}
	cache := s.data != nil && s.data.cache
	c.data = s.data.fresh(cache)
	return &c
}

func (s *Source) effectiveOptions() Options {
	if s.Options == nil {
		return Options{}
	}
	return *s.Options
}

// file returns the root item the expansion engine starts from.
func (s *Source) file() *File {
	return &File{
		RelativePath: s.RelativePath,
		Name:         s.Name(),
		Size:         s.Size,
		LastModified: s.LastModified,
		BaseURL:      s.BaseURL,
		SourceUUID:   s.UUID,
		data:         s.data,
	}
}
