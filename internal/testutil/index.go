package testutil

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cheminfo/filelist/internal/write"
)

// Ium builds a container the way older writers did: a stored mimetype
// entry, the given entries under their literal names, then manifest as
// index.json. No path normalization is applied.
func Ium(tb testing.TB, mimetype string, manifest []byte, entries ...ZipEntry) []byte {
	tb.Helper()

	ctx := context.Background()
	var buf bytes.Buffer
	zw := write.NewWriter(&buf)
	if err := zw.Mimetype(mimetype); err != nil {
		tb.Fatalf("mimetype: %v", err)
	}
	for _, e := range entries {
		method := write.Deflate
		if e.Store {
			method = write.Store
		}
		if err := zw.Add(ctx, e.Name, bytes.NewReader(e.Data), method, time.Time{}); err != nil {
			tb.Fatalf("add %s: %v", e.Name, err)
		}
	}
	if manifest != nil {
		if err := zw.Add(ctx, "index.json", bytes.NewReader(manifest), write.Deflate, time.Time{}); err != nil {
			tb.Fatalf("add index.json: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("close: %v", err)
	}
	return buf.Bytes()
}
