package filelist

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/cheminfo/filelist/internal/file"
)

// ContentKind identifies the representation held by a Content.
type ContentKind uint8

// Content kinds.
const (
	ContentBytes ContentKind = iota
	ContentText
	ContentStream
	ContentBase64
)

func (k ContentKind) String() string {
	switch k {
	case ContentBytes:
		return "bytes"
	case ContentText:
		return "text"
	case ContentStream:
		return "stream"
	case ContentBase64:
		return "base64"
	default:
		return fmt.Sprintf("ContentKind(%d)", uint8(k))
	}
}

// Content is data handed to the collection by a caller: raw bytes, text, a
// stream or a base64 string. A stream Content can be read once.
type Content struct {
	kind   ContentKind
	data   []byte
	text   string
	stream io.Reader
}

// BytesContent wraps raw bytes.
func BytesContent(b []byte) Content { return Content{kind: ContentBytes, data: b} }

// TextContent wraps a UTF-8 string.
func TextContent(s string) Content { return Content{kind: ContentText, text: s} }

// StreamContent wraps a reader.
func StreamContent(r io.Reader) Content { return Content{kind: ContentStream, stream: r} }

// Base64Content wraps standard base64 encoded data.
func Base64Content(s string) Content { return Content{kind: ContentBase64, text: s} }

// Kind returns the representation of c.
func (c Content) Kind() ContentKind { return c.kind }

// Reader returns a reader over the decoded content.
func (c Content) Reader() (io.Reader, error) {
	switch c.kind {
	case ContentBytes:
		return bytes.NewReader(c.data), nil
	case ContentText:
		return strings.NewReader(c.text), nil
	case ContentStream:
		if c.stream == nil {
			return nil, fmt.Errorf("%w: nil stream", ErrUnsupportedContent)
		}
		return c.stream, nil
	case ContentBase64:
		return base64.NewDecoder(base64.StdEncoding, strings.NewReader(c.text)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, c.kind)
	}
}

// ReadAll returns the decoded content.
func (c Content) ReadAll(ctx context.Context) ([]byte, error) {
	switch c.kind {
	case ContentBytes:
		return c.data, nil
	case ContentText:
		return []byte(c.text), nil
	case ContentBase64:
		b, err := base64.StdEncoding.DecodeString(c.text)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedContent, err)
		}
		return b, nil
	}
	r, err := c.Reader()
	if err != nil {
		return nil, err
	}
	return file.ReadAll(ctx, r)
}
