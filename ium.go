package filelist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cheminfo/filelist/internal/manifest"
	"github.com/cheminfo/filelist/internal/pathutil"
	"github.com/cheminfo/filelist/internal/write"
)

// DefaultMimetype identifies IUM containers.
const DefaultMimetype = "application/x-ium+zip"

// prefetchChunk is how many sources are read concurrently while writing
// an archive.
const prefetchChunk = 5

// Manifest is the decoded index.json of a container.
type Manifest = manifest.Index

// SourceRecord is the manifest entry of a source.
type SourceRecord = manifest.SourceRecord

// ExtraFile is a file stored next to the data of a container.
type ExtraFile struct {
	RelativePath string
	Content      Content
	// Options are recorded with the extra source. Their zip and gzip
	// extensions also decide whether the entry is compressed.
	Options *Options
}

// ExtraFilesFunc computes extra files from a copy of the manifest being
// written and the collection.
type ExtraFilesFunc func(ctx context.Context, index Manifest, c *Collection) ([]ExtraFile, error)

// IumOption configures ToIum and WriteIum.
type IumOption func(*iumConfig)

type iumConfig struct {
	includeData bool
	mimetype    string
	extraFiles  ExtraFilesFunc
}

// WithIncludeData controls whether remote sources are downloaded and
// embedded. Embedded sources are always written. Defaults to true.
func WithIncludeData(include bool) IumOption {
	return func(c *iumConfig) {
		c.includeData = include
	}
}

// WithMimetype overrides DefaultMimetype.
func WithMimetype(mimetype string) IumOption {
	return func(c *iumConfig) {
		c.mimetype = mimetype
	}
}

// WithExtraFiles adds the files returned by fn to the container.
func WithExtraFiles(fn ExtraFilesFunc) IumOption {
	return func(c *iumConfig) {
		c.extraFiles = fn
	}
}

// ToIum returns the collection encoded as an IUM container.
func (c *Collection) ToIum(ctx context.Context, opts ...IumOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.WriteIum(ctx, &buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteIum encodes the collection as an IUM container into w. The
// collection is sorted alphabetically first.
//
// The container starts with a stored "mimetype" entry, followed by the
// data of embedded sources under data/, the extra files, and index.json.
// Entries whose extension marks them as zip or gzip are stored without
// compression.
func (c *Collection) WriteIum(ctx context.Context, w io.Writer, opts ...IumOption) error {
	cfg := iumConfig{includeData: true, mimetype: DefaultMimetype}
	for _, opt := range opts {
		opt(&cfg)
	}

	sources := c.Alphabetical().Sources()
	options, err := json.Marshal(c.Options())
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	idx := Manifest{
		Version: manifest.Version,
		Options: options,
		Sources: make([]SourceRecord, 0, len(sources)),
		Paths:   make(map[string]string),
	}

	zw := write.NewWriter(w)
	if err := zw.Mimetype(cfg.mimetype); err != nil {
		return err
	}

	var embedded []*Source
	for _, s := range sources {
		rec, err := sourceRecord(s)
		if err != nil {
			return err
		}
		if cfg.includeData || s.Embedded() {
			rec.BaseURL = IumBaseURL
			embedded = append(embedded, s)
			idx.Paths[rec.UUID] = pathutil.IumPath(s.RelativePath, s.Extra)
			idx.Paths[manifest.LegacyKey(rec.UUID)] = pathutil.IumLegacyPath(s.RelativePath, s.Extra)
		}
		idx.Sources = append(idx.Sources, rec)
	}

	err = prefetch(ctx, embedded, func(s *Source, data []byte) error {
		name := uniqueName(zw, idx.Paths[s.UUID], s.UUID)
		idx.Paths[s.UUID] = name
		o := s.effectiveOptions()
		method := write.MethodFor(name, write.Deflate, write.SkipExtensions(o.zipExtensions(), o.gzipExtensions()))
		c.log().Debug("writing source", "path", s.RelativePath, "entry", name)
		return zw.Add(ctx, name, bytes.NewReader(data), method, modTime(s.LastModified))
	})
	if err != nil {
		return err
	}

	if cfg.extraFiles != nil {
		extras, err := cfg.extraFiles(ctx, idx.Clone(), c)
		if err != nil {
			return fmt.Errorf("extra files: %w", err)
		}
		for _, ef := range extras {
			r, err := ef.Content.Reader()
			if err != nil {
				return fmt.Errorf("extra file %s: %w", ef.RelativePath, err)
			}
			rec := SourceRecord{
				UUID:         uuid.NewString(),
				RelativePath: ef.RelativePath,
				BaseURL:      IumBaseURL,
				LastModified: time.Now().UnixMilli(),
				Extra:        true,
			}
			o := c.Options()
			if ef.Options != nil {
				o = o.Merge(*ef.Options)
				if rec.Options, err = json.Marshal(ef.Options); err != nil {
					return fmt.Errorf("encode options of %s: %w", ef.RelativePath, err)
				}
			}
			name := uniqueName(zw, pathutil.IumPath(ef.RelativePath, true), rec.UUID)
			idx.Sources = append(idx.Sources, rec)
			idx.Paths[rec.UUID] = name
			idx.Paths[manifest.LegacyKey(rec.UUID)] = pathutil.IumLegacyPath(ef.RelativePath, true)

			method := write.MethodFor(name, write.Deflate, write.SkipExtensions(o.zipExtensions(), o.gzipExtensions()))
			if err := zw.Add(ctx, name, r, method, time.Time{}); err != nil {
				return err
			}
		}
	}

	data, err := idx.Marshal()
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := zw.Add(ctx, manifest.Name, bytes.NewReader(data), write.Deflate, time.Time{}); err != nil {
		return err
	}
	return zw.Close()
}

// prefetch reads the data of sources in chunks of prefetchChunk
// concurrent reads and hands it to fn in order.
func prefetch(ctx context.Context, sources []*Source, fn func(s *Source, data []byte) error) error {
	for start := 0; start < len(sources); start += prefetchChunk {
		chunk := sources[start:min(start+prefetchChunk, len(sources))]
		data := make([][]byte, len(chunk))

		g, gctx := errgroup.WithContext(ctx)
		for i, s := range chunk {
			g.Go(func() error {
				b, err := s.Bytes(gctx)
				if err != nil {
					return fmt.Errorf("read %s: %w", s.RelativePath, err)
				}
				data[i] = b
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for i, s := range chunk {
			if err := fn(s, data[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// uniqueName returns name, or name prefixed with id when an entry of that
// name was already written. The manifest records the name actually used.
func uniqueName(zw *write.Writer, name, id string) string {
	if !zw.Has(name) && name != manifest.Name {
		return name
	}
	return pathutil.EntryName(id + "/" + name)
}

func sourceRecord(s *Source) (SourceRecord, error) {
	rec := SourceRecord{
		UUID:                 s.UUID,
		RelativePath:         s.RelativePath,
		OriginalRelativePath: s.OriginalRelativePath,
		BaseURL:              s.BaseURL,
		LastModified:         s.LastModified,
		Size:                 s.Size,
		Extra:                s.Extra,
	}
	if s.Options != nil {
		o, err := json.Marshal(s.Options)
		if err != nil {
			return SourceRecord{}, fmt.Errorf("encode options of %s: %w", s.RelativePath, err)
		}
		rec.Options = o
	}
	return rec, nil
}

func modTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
