package filelist

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/cheminfo/filelist/internal/pathutil"
)

// Interface compliance.
var (
	_ fs.FS         = (*collectionFS)(nil)
	_ fs.StatFS     = (*collectionFS)(nil)
	_ fs.ReadFileFS = (*collectionFS)(nil)
	_ fs.ReadDirFS  = (*collectionFS)(nil)
)

// FS returns a read-only snapshot of the collection as an fs.FS. Reads
// use ctx. A leading "/" of relative paths is dropped; files whose path
// is not a valid fs path are not reachable through the view.
//
// Directories are synthesized from file paths.
func (c *Collection) FS(ctx context.Context) fs.FS {
	files := c.Files()
	view := &collectionFS{ctx: ctx, files: make(map[string]*File, len(files))}
	for _, f := range files {
		name := strings.TrimPrefix(f.RelativePath, "/")
		if !fs.ValidPath(name) || name == "." {
			continue
		}
		view.files[name] = f
		view.names = append(view.names, name)
	}
	slices.Sort(view.names)
	return view
}

type collectionFS struct {
	ctx   context.Context
	files map[string]*File
	names []string
}

func (v *collectionFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if f, ok := v.files[name]; ok {
		data, err := f.Bytes(v.ctx)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &openFile{Reader: bytes.NewReader(data), info: fileInfoOf(f, int64(len(data)))}, nil
	}
	if v.isDir(name) {
		return &openDir{fsys: v, name: name}, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (v *collectionFS) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	if f, ok := v.files[name]; ok {
		return fileInfoOf(f, f.Size), nil
	}
	if v.isDir(name) {
		return dirInfo(name), nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (v *collectionFS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	f, ok := v.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	data, err := f.Bytes(v.ctx)
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: err}
	}
	return slices.Clone(data), nil
}

func (v *collectionFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	entries := v.entries(name)
	if len(entries) == 0 && name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	return entries, nil
}

// entries lists the direct children of the directory name, sorted by name.
func (v *collectionFS) entries(name string) []fs.DirEntry {
	prefix := pathutil.DirPrefix(name)
	var out []fs.DirEntry
	seen := make(map[string]struct{})
	for _, path := range v.names {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		child, isSubDir := pathutil.Child(path, prefix)
		if _, ok := seen[child]; ok {
			continue
		}
		seen[child] = struct{}{}
		if isSubDir {
			out = append(out, fs.FileInfoToDirEntry(dirInfo(child)))
			continue
		}
		f := v.files[path]
		out = append(out, fs.FileInfoToDirEntry(fileInfoOf(f, f.Size)))
	}
	slices.SortFunc(out, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out
}

func (v *collectionFS) isDir(name string) bool {
	if name == "." {
		return true
	}
	prefix := name + "/"
	for _, path := range v.names {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

type fileInfo struct {
	name    string
	size    int64
	modTime time.Time
	dir     bool
}

func fileInfoOf(f *File, size int64) *fileInfo {
	return &fileInfo{name: f.Name, size: size, modTime: modTime(f.LastModified)}
}

func dirInfo(name string) *fileInfo {
	return &fileInfo{name: pathutil.Base(name), dir: true}
}

func (i *fileInfo) Name() string       { return i.name }
func (i *fileInfo) Size() int64        { return i.size }
func (i *fileInfo) ModTime() time.Time { return i.modTime }
func (i *fileInfo) IsDir() bool        { return i.dir }
func (i *fileInfo) Sys() any           { return nil }

func (i *fileInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

type openFile struct {
	*bytes.Reader
	info *fileInfo
}

func (f *openFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *openFile) Close() error               { return nil }

type openDir struct {
	fsys    *collectionFS
	name    string
	entries []fs.DirEntry
	read    bool
}

func (d *openDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *openDir) Stat() (fs.FileInfo, error) { return dirInfo(d.name), nil }
func (d *openDir) Close() error               { return nil }

func (d *openDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if !d.read {
		d.entries = d.fsys.entries(d.name)
		d.read = true
	}
	if n <= 0 {
		out := d.entries
		d.entries = nil
		return out, nil
	}
	if len(d.entries) == 0 {
		return nil, io.EOF
	}
	n = min(n, len(d.entries))
	out := d.entries[:n]
	d.entries = d.entries[n:]
	return out, nil
}
