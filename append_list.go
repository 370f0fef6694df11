package filelist

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cheminfo/filelist/internal/pathutil"
)

// FileEntry describes a file handed over by a caller, such as an upload.
type FileEntry struct {
	// Path is the relative path of the file, including directories.
	Path         string
	Size         int64
	LastModified time.Time
	Open         func(ctx context.Context) (io.ReadCloser, error)
}

// AppendFileList adds the entries concurrently. The first error is
// returned once every append has finished; the order of the appended files
// is unspecified until Alphabetical is called.
func (c *Collection) AppendFileList(ctx context.Context, entries []FileEntry) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, e := range entries {
		s := &Source{
			UUID:         uuid.NewString(),
			RelativePath: e.Path,
			BaseURL:      IumBaseURL,
			LastModified: e.LastModified.UnixMilli(),
			Size:         e.Size,
			name:         pathutil.Base(e.Path),
			data:         newAccessor(e.Open, false),
		}
		g.Go(func() error {
			return c.AppendExtendedSource(gctx, s)
		})
	}
	return g.Wait()
}
