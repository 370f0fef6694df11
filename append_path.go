package filelist

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// AppendPath adds every regular file below path, in lexical order. By
// default relative paths start with the base name of path; with
// WithKeepBasename(false) they are relative to path itself. A path naming
// a single file appends that file under its base name.
//
// Symbolic links and other special files are skipped.
func (c *Collection) AppendPath(ctx context.Context, path string, opts ...AppendOption) error {
	cfg := newAppendConfig(opts)
	root, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	base := ""
	if cfg.keepBasename {
		base = filepath.Base(root)
	}

	return filepath.WalkDir(root, func(current string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, current)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		switch {
		case rel == ".":
			rel = d.Name()
		case base != "":
			rel = base + "/" + rel
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		s := &Source{
			UUID:         uuid.NewString(),
			RelativePath: rel,
			BaseURL:      IumBaseURL,
			LastModified: info.ModTime().UnixMilli(),
			Size:         info.Size(),
			name:         d.Name(),
			data: newAccessor(func(context.Context) (io.ReadCloser, error) {
				return os.Open(current) //nolint:gosec // paths come from walking the requested directory
			}, false),
		}
		return c.AppendExtendedSource(ctx, s, opts...)
	})
}

// FromPath returns a collection holding the files below path.
func FromPath(ctx context.Context, path string, opts ...Option) (*Collection, error) {
	c := New(opts...)
	if err := c.AppendPath(ctx, path); err != nil {
		return nil, err
	}
	return c, nil
}
