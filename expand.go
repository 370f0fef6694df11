package filelist

import (
	"context"
	"io"
	"slices"

	"github.com/cheminfo/filelist/internal/file"
	"github.com/cheminfo/filelist/internal/pathutil"
)

// expand turns the root item of a source into the logical files it holds.
// Gzip streams are decompressed and zip archives replaced by their entries,
// depth first, in entry order. Items that only look like archives by name
// are kept as-is.
func (c *Collection) expand(ctx context.Context, root *File, options Options) ([]*File, error) {
	if root.SourceUUID == "" {
		return nil, ErrMissingSourceUUID
	}

	var out []*File
	stack := []*File{root}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !options.shouldAdd(item.RelativePath) {
			continue
		}
		item, err := c.ungzip(ctx, item, options)
		if err != nil {
			return nil, err
		}
		children, ok, err := c.unzip(ctx, item, options)
		if err != nil {
			return nil, err
		}
		if !ok {
			out = append(out, item)
			continue
		}
		if options.recursive() {
			for _, child := range slices.Backward(children) {
				stack = append(stack, child)
			}
			continue
		}
		for _, child := range children {
			if options.shouldAdd(child.RelativePath) {
				out = append(out, child)
			}
		}
	}
	return out, nil
}

// ungzip returns the decompressed item when item is a gzip stream with a
// gzip extension, and item itself otherwise.
func (c *Collection) ungzip(ctx context.Context, item *File, options Options) (*File, error) {
	if !hasExtension(item.Name, options.gzipExtensions()) {
		return item, nil
	}
	head, err := item.data.head(ctx, 2)
	if err != nil {
		return nil, err
	}
	if !file.HasGzipMagic(head) {
		options.log().Info("Could not ungzip the following file: " + item.RelativePath)
		return item, nil
	}

	name := pathutil.TrimExt(item.Name)
	parent := item.data
	return &File{
		RelativePath: item.RelativePath + "/" + name,
		Name:         name,
		Size:         item.Size,
		LastModified: item.LastModified,
		BaseURL:      item.BaseURL,
		SourceUUID:   item.SourceUUID,
		Parent:       item,
		data: newAccessor(func(ctx context.Context) (io.ReadCloser, error) {
			rc, err := parent.Open(ctx)
			if err != nil {
				return nil, err
			}
			gz, err := file.Gunzip(rc)
			if err != nil {
				rc.Close()
				return nil, err
			}
			return multiCloser{Reader: gz, closers: []io.Closer{gz, rc}}, nil
		}, options.cache()),
	}, nil
}

// unzip returns the entries of item when it is a zip archive with a zip
// extension. ok is false when item is not an archive; it is then emitted
// unchanged.
func (c *Collection) unzip(ctx context.Context, item *File, options Options) (children []*File, ok bool, err error) {
	if !hasExtension(item.Name, options.zipExtensions()) {
		return nil, false, nil
	}
	data, err := item.data.Bytes(ctx)
	if err != nil {
		return nil, false, err
	}
	if !file.HasZipMagic(data) {
		options.log().Info("Could not unzip the following file: " + item.RelativePath)
		return nil, false, nil
	}
	zr, err := file.OpenZip(data)
	if err != nil {
		options.log().Info("Could not unzip the following file: "+item.RelativePath, "error", err)
		return nil, false, nil
	}

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || !options.shouldAdd(entry.Name) {
			continue
		}
		children = append(children, &File{
			RelativePath: item.RelativePath + "/" + entry.Name,
			Name:         pathutil.Base(entry.Name),
			Size:         int64(entry.UncompressedSize64), //nolint:gosec // zip sizes fit in int64
			LastModified: entry.Modified.UnixMilli(),
			BaseURL:      item.BaseURL,
			SourceUUID:   item.SourceUUID,
			Parent:       item,
			data: newAccessor(func(context.Context) (io.ReadCloser, error) {
				return entry.Open()
			}, options.cache()),
		})
	}
	return children, true, nil
}
