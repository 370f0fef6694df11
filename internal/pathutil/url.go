package pathutil

import (
	"errors"
	"fmt"

	whatwg "github.com/nlnwa/whatwg-url/url"
)

// ErrInvalidURL is returned when a reference cannot be resolved.
var ErrInvalidURL = errors.New("pathutil: invalid URL")

var parser = whatwg.NewParser()

// URL is a resolved WHATWG URL record.
type URL struct {
	u *whatwg.Url
}

// Scheme returns the scheme without its trailing colon.
func (u URL) Scheme() string {
	if u.u == nil {
		return ""
	}
	return u.u.Scheme()
}

// Pathname returns the serialized, percent-encoded path, as
// `new URL(ref, base).pathname` would.
func (u URL) Pathname() string {
	if u.u == nil {
		return ""
	}
	return u.u.Pathname()
}

// String serializes the URL without its fragment.
func (u URL) String() string {
	if u.u == nil {
		return ""
	}
	return u.u.Href(true)
}

// Resolve parses ref relative to base.
func Resolve(ref, base string) (URL, error) {
	u, err := parser.ParseRef(base, ref)
	if err != nil {
		return URL{}, fmt.Errorf("%w: %q against %q: %w", ErrInvalidURL, ref, base, err)
	}
	return URL{u: u}, nil
}

// MustPathname resolves ref against base and returns its pathname, or ""
// when resolution fails.
func MustPathname(ref, base string) string {
	u, err := Resolve(ref, base)
	if err != nil {
		return ""
	}
	return u.Pathname()
}
