package filelist

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cheminfo/filelist/internal/pathutil"
)

// WebSource is a JSON listing of remote files.
type WebSource struct {
	Entries []SourceEntry `json:"entries"`
	BaseURL string        `json:"baseURL,omitempty"`
}

// SourceEntry is a remote file of a WebSource. Its data is fetched from
// RelativePath resolved against the first base URL found on the entry, the
// web source, the call or the collection.
type SourceEntry struct {
	RelativePath string   `json:"relativePath"`
	BaseURL      string   `json:"baseURL,omitempty"`
	LastModified int64    `json:"lastModified,omitempty"`
	Size         int64    `json:"size,omitempty"`
	Options      *Options `json:"options,omitempty"`
}

// AppendSource adds the entries of ws concurrently. Nothing is downloaded
// until the data of an entry is read or the entry needs expanding.
func (c *Collection) AppendSource(ctx context.Context, ws WebSource, opts ...AppendOption) error {
	cfg := newAppendConfig(opts)

	g, gctx := errgroup.WithContext(ctx)
	for _, entry := range ws.Entries {
		filter := c.options
		if entry.Options != nil && entry.Options.Filter != nil {
			filter = filter.Merge(Options{Filter: entry.Options.Filter})
		}
		if !filter.shouldAdd(entry.RelativePath) {
			continue
		}

		baseURL := firstNonEmpty(entry.BaseURL, ws.BaseURL, cfg.baseURL, c.baseURL)
		if baseURL == "" {
			_ = g.Wait()
			return fmt.Errorf("%w for %s", ErrMissingBaseURL, entry.RelativePath)
		}
		s, err := c.remoteSource(uuid.NewString(), entry.RelativePath, "", baseURL)
		if err != nil {
			_ = g.Wait()
			return err
		}
		s.LastModified = entry.LastModified
		s.Size = entry.Size
		s.Options = entry.Options

		g.Go(func() error {
			return c.AppendExtendedSource(gctx, s, opts...)
		})
	}
	return g.Wait()
}

// AppendWebSource downloads the WebSource listing at url and appends its
// entries. Entries without a base URL are resolved against url unless
// WithSourceBaseURL says otherwise.
func (c *Collection) AppendWebSource(ctx context.Context, url string, opts ...AppendOption) error {
	var ws WebSource
	if err := c.httpFetcher().FetchJSON(ctx, url, &ws); err != nil {
		return fmt.Errorf("load web source: %w", err)
	}
	return c.AppendSource(ctx, ws, append([]AppendOption{WithSourceBaseURL(url)}, opts...)...)
}

// FromSource returns a collection holding the entries of ws, sorted.
func FromSource(ctx context.Context, ws WebSource, opts ...Option) (*Collection, error) {
	c := New(opts...)
	if err := c.AppendSource(ctx, ws); err != nil {
		return nil, err
	}
	return c.Alphabetical(), nil
}

// remoteSource returns a source whose data is downloaded on demand from
// originalRelativePath, or relativePath when it is empty, resolved against
// baseURL.
func (c *Collection) remoteSource(id, relativePath, originalRelativePath, baseURL string) (*Source, error) {
	u, err := pathutil.Resolve(firstNonEmpty(originalRelativePath, relativePath), baseURL)
	if err != nil {
		return nil, fmt.Errorf("resolve %s against %s: %w", relativePath, baseURL, err)
	}
	return &Source{
		UUID:                 id,
		RelativePath:         relativePath,
		OriginalRelativePath: originalRelativePath,
		BaseURL:              baseURL,
		name:                 relativePath[strings.LastIndex(relativePath, "/")+1:],
		data:                 newAccessor(c.remoteOpener(u.String()), false),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
