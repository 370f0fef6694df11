package filelist

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cheminfo/filelist/internal/file"
)

// maxSniffLen bounds how many leading bytes IsIumAt reads.
const maxSniffLen = 64 * 1024

// IsZip reports whether b looks like a zip archive.
func IsZip(b []byte) bool {
	return file.IsZip(b)
}

// IsIum reports whether b is a container whose first entry is a stored
// "mimetype" entry holding exactly mimetype. An empty mimetype only checks
// that b is a zip archive.
//
// Containers whose first entry records its sizes in a trailing data
// descriptor are not recognized.
func IsIum(b []byte, mimetype string) bool {
	if mimetype == "" {
		return IsZip(b)
	}
	return file.MatchMimetype(b, mimetype)
}

// IsIumAt is IsIum for content of the given size behind an io.ReaderAt,
// such as a remote file read with range requests. Only the first local
// header is read.
func IsIumAt(r io.ReaderAt, size int64, mimetype string) (bool, error) {
	if mimetype == "" {
		head, err := readHead(r, size, 22)
		if err != nil {
			return false, err
		}
		return IsZip(head), nil
	}

	head, err := readHead(r, size, file.HeaderPrefixLen)
	if err != nil {
		return false, err
	}
	if len(head) < file.HeaderPrefixLen {
		return false, nil
	}
	nameLen := int64(binary.LittleEndian.Uint16(head[26:]))
	extraLen := int64(binary.LittleEndian.Uint16(head[28:]))
	compressed := int64(binary.LittleEndian.Uint32(head[18:]))
	need := int64(file.HeaderPrefixLen) + nameLen + extraLen + compressed
	if need > maxSniffLen {
		return false, nil
	}
	full, err := readHead(r, size, need)
	if err != nil {
		return false, err
	}
	return file.MatchMimetype(full, mimetype), nil
}

func readHead(r io.ReaderAt, size, n int64) ([]byte, error) {
	n = min(n, size)
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	m, err := r.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: %w", err)
	}
	return buf[:m], nil
}
