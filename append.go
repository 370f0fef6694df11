package filelist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cheminfo/filelist/internal/pathutil"
)

// AppendOption configures a single append call.
type AppendOption func(*appendConfig)

type appendConfig struct {
	options      *Options
	lastModified time.Time
	extra        bool
	baseURL      string
	keepBasename bool
}

func newAppendConfig(opts []AppendOption) appendConfig {
	cfg := appendConfig{keepBasename: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithItemOptions merges o over the collection and source options for
// this call only.
func WithItemOptions(o Options) AppendOption {
	return func(c *appendConfig) {
		c.options = &o
	}
}

// WithLastModified sets the modification time recorded for in-memory
// content. Defaults to the time of the call.
func WithLastModified(t time.Time) AppendOption {
	return func(c *appendConfig) {
		c.lastModified = t
	}
}

// WithExtra marks in-memory content as an extra file of a container.
func WithExtra() AppendOption {
	return func(c *appendConfig) {
		c.extra = true
	}
}

// WithSourceBaseURL sets the base URL for source entries that carry none,
// overriding the URL a web source was downloaded from.
func WithSourceBaseURL(baseURL string) AppendOption {
	return func(c *appendConfig) {
		c.baseURL = baseURL
	}
}

// WithKeepBasename controls whether AppendPath prefixes relative paths with
// the name of the appended directory. Defaults to true.
func WithKeepBasename(keep bool) AppendOption {
	return func(c *appendConfig) {
		c.keepBasename = keep
	}
}

// AppendExtendedSource adds s and the files expanded from it.
//
// Options are merged in this order, the last winning: collection options,
// s.Options, then WithItemOptions. A source whose path is filtered out is
// skipped silently. The stored source is a clone of s carrying the
// effective options.
//
// A source whose UUID is already in the collection is rejected with
// ErrDuplicateUUID before anything is added.
//
// A duplicate file path aborts the append with ErrDuplicatePath. Files
// appended before the duplicate and the source itself stay in the
// collection.
func (c *Collection) AppendExtendedSource(ctx context.Context, s *Source, opts ...AppendOption) error {
	if s.data == nil {
		return fmt.Errorf("%w: source %s has no data", ErrUnsupportedContent, s.RelativePath)
	}
	cfg := newAppendConfig(opts)

	options := c.options
	if s.Options != nil {
		options = options.Merge(*s.Options)
	}
	if cfg.options != nil {
		options = options.Merge(*cfg.options)
	}
	if !options.shouldAdd(s.RelativePath) {
		c.log().Debug("skipping filtered source", "path", s.RelativePath)
		return nil
	}

	src := s.Clone()
	if src.UUID == "" {
		src.UUID = uuid.NewString()
	}
	if src.name == "" {
		src.name = pathutil.Base(src.RelativePath)
	}
	stored := options.Clone()
	stored.Logger = nil
	src.Options = &stored
	src.data = s.data.fresh(options.cache())

	c.mu.Lock()
	for _, live := range c.sources {
		if live.UUID == src.UUID {
			c.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrDuplicateUUID, src.UUID)
		}
	}
	c.sources = append(c.sources, src)
	c.mu.Unlock()

	files, err := c.expand(ctx, src.file(), options)
	if err != nil {
		return fmt.Errorf("expand %s: %w", src.RelativePath, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	existing := make(map[string]struct{}, len(c.files)+len(files))
	for _, f := range c.files {
		existing[f.RelativePath] = struct{}{}
	}
	for _, f := range files {
		if _, ok := existing[f.RelativePath]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePath, f.RelativePath)
		}
		existing[f.RelativePath] = struct{}{}
		c.files = append(c.files, f)
	}
	return nil
}

// AppendText adds text at relativePath.
func (c *Collection) AppendText(ctx context.Context, relativePath, text string, opts ...AppendOption) error {
	return c.AppendContent(ctx, relativePath, TextContent(text), opts...)
}

// AppendBytes adds data at relativePath.
func (c *Collection) AppendBytes(ctx context.Context, relativePath string, data []byte, opts ...AppendOption) error {
	return c.AppendContent(ctx, relativePath, BytesContent(data), opts...)
}

// AppendContent adds in-memory content at relativePath. The path is
// resolved like a URL path: dot segments are removed and unsafe characters
// percent-encoded.
func (c *Collection) AppendContent(ctx context.Context, relativePath string, content Content, opts ...AppendOption) error {
	cfg := newAppendConfig(opts)
	data, err := content.ReadAll(ctx)
	if err != nil {
		return err
	}

	lastModified := cfg.lastModified
	if lastModified.IsZero() {
		lastModified = time.Now()
	}
	rel, name := pathutil.NameInfo(relativePath)
	s := &Source{
		UUID:         uuid.NewString(),
		RelativePath: rel,
		BaseURL:      IumBaseURL,
		LastModified: lastModified.UnixMilli(),
		Size:         int64(len(data)),
		Extra:        cfg.extra,
		name:         name,
		data:         newAccessor(bytesOpener(data), false),
	}
	return c.AppendExtendedSource(ctx, s, opts...)
}
